package models

import (
	"time"

	"github.com/kunoez/ks-inventory-sub000/pkg/metadata"
)

type Device struct {
	ID           int                   `json:"id" db:"id"`
	CompanyID    int                   `json:"company_id" db:"company_id"`
	Name         string                `json:"name" db:"name"`
	Type         string                `json:"type" db:"type"`
	Brand        *string               `json:"brand,omitempty" db:"brand"`
	Model        *string               `json:"model,omitempty" db:"model"`
	SerialNumber string                `json:"serial_number" db:"serial_number"`
	Status       metadata.DeviceStatus `json:"status" db:"status"`
	DeletedAt    *time.Time            `json:"-" db:"deleted_at"`
	CreatedAt    time.Time             `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at" db:"updated_at"`
}

func (d *Device) IsDeleted() bool {
	return d.DeletedAt != nil
}

// IsPhone reports whether returning this device must also release the
// employee's phone contract.
func (d *Device) IsPhone() bool {
	return d.Type == metadata.DeviceTypePhone
}

func (d *Device) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   d.ID,
		ResourceType: "device",
	}
}

// DeviceSummary is the joined shape embedded in assignment listings.
type DeviceSummary struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	SerialNumber string `json:"serial_number"`
}
