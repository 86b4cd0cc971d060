package devices

type CreateDeviceRequest struct {
	CompanyID    int     `json:"company_id" binding:"required"`
	Name         string  `json:"name" binding:"required"`
	Type         string  `json:"type" binding:"required"`
	Brand        *string `json:"brand"`
	Model        *string `json:"model"`
	SerialNumber string  `json:"serial_number" binding:"required"`
}

type UpdateDeviceRequest struct {
	Name         *string `json:"name"`
	Type         *string `json:"type"`
	Brand        *string `json:"brand"`
	Model        *string `json:"model"`
	SerialNumber *string `json:"serial_number"`
	Status       *string `json:"status"`
}
