package licenses

import "time"

type CreateLicenseRequest struct {
	CompanyID  int        `json:"company_id" binding:"required"`
	Name       string     `json:"name" binding:"required"`
	Vendor     string     `json:"vendor" binding:"required"`
	LicenseKey *string    `json:"license_key"`
	MaxUsers   int        `json:"max_users" binding:"required,min=1"`
	ExpiryDate *time.Time `json:"expiry_date"`
}

type UpdateLicenseRequest struct {
	Name       *string    `json:"name"`
	Vendor     *string    `json:"vendor"`
	LicenseKey *string    `json:"license_key"`
	MaxUsers   *int       `json:"max_users"`
	Status     *string    `json:"status"`
	ExpiryDate *time.Time `json:"expiry_date"`
}
