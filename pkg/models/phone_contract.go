package models

import (
	"time"

	"github.com/kunoez/ks-inventory-sub000/pkg/metadata"
)

type PhoneContract struct {
	ID          int                     `json:"id" db:"id"`
	CompanyID   int                     `json:"company_id" db:"company_id"`
	Provider    string                  `json:"provider" db:"provider"`
	PhoneNumber string                  `json:"phone_number" db:"phone_number"`
	Plan        *string                 `json:"plan,omitempty" db:"plan"`
	Status      metadata.ContractStatus `json:"status" db:"status"`
	CreatedAt   time.Time               `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at" db:"updated_at"`
}

func (p *PhoneContract) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   p.ID,
		ResourceType: "phone_contract",
	}
}

// ContractSummary is the joined shape embedded in assignment listings.
type ContractSummary struct {
	ID          int    `json:"id"`
	Provider    string `json:"provider"`
	PhoneNumber string `json:"phone_number"`
}
