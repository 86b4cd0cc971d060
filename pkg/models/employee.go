package models

import "time"

type Employee struct {
	ID        int        `json:"id" db:"id"`
	CompanyID int        `json:"company_id" db:"company_id"`
	FirstName string     `json:"first_name" db:"first_name"`
	LastName  string     `json:"last_name" db:"last_name"`
	Email     string     `json:"email" db:"email"`
	Position  *string    `json:"position,omitempty" db:"position"`
	DeletedAt *time.Time `json:"-" db:"deleted_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

func (e *Employee) IsDeleted() bool {
	return e.DeletedAt != nil
}

func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// EmployeeSummary is the joined shape embedded in assignment listings.
type EmployeeSummary struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
