package models

import (
	"time"

	"github.com/kunoez/ks-inventory-sub000/pkg/metadata"
)

// License seat accounting: current_users is persisted, but listings surface
// the count of active license assignments as the display value. The two are
// reconverged by the engine on every seat-affecting write.
type License struct {
	ID           int                    `json:"id" db:"id"`
	CompanyID    int                    `json:"company_id" db:"company_id"`
	Name         string                 `json:"name" db:"name"`
	Vendor       string                 `json:"vendor" db:"vendor"`
	LicenseKey   *string                `json:"license_key,omitempty" db:"license_key"`
	MaxUsers     int                    `json:"max_users" db:"max_users"`
	CurrentUsers int                    `json:"current_users" db:"current_users"`
	Status       metadata.LicenseStatus `json:"status" db:"status"`
	ExpiryDate   *time.Time             `json:"expiry_date,omitempty" db:"expiry_date"`
	CreatedAt    time.Time              `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at" db:"updated_at"`
}

func (l *License) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   l.ID,
		ResourceType: "license",
	}
}

// LicenseSummary is the joined shape embedded in assignment listings.
type LicenseSummary struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Vendor string `json:"vendor"`
}
