package employees

type CreateEmployeeRequest struct {
	CompanyID int     `json:"company_id" binding:"required"`
	FirstName string  `json:"first_name" binding:"required"`
	LastName  string  `json:"last_name" binding:"required"`
	Email     string  `json:"email" binding:"required,email"`
	Position  *string `json:"position"`
}

type UpdateEmployeeRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Position  *string `json:"position"`
}
