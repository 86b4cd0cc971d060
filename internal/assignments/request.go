package assignments

type AssignDeviceRequest struct {
	DeviceID   int     `json:"device_id" binding:"required"`
	EmployeeID int     `json:"employee_id" binding:"required"`
	AssignedBy string  `json:"assigned_by" binding:"required"`
	Notes      *string `json:"notes"`
}

type AssignLicenseRequest struct {
	LicenseID  int     `json:"license_id" binding:"required"`
	EmployeeID int     `json:"employee_id" binding:"required"`
	AssignedBy string  `json:"assigned_by" binding:"required"`
	Notes      *string `json:"notes"`
}

type AssignPhoneContractRequest struct {
	PhoneContractID int     `json:"phone_contract_id" binding:"required"`
	EmployeeID      int     `json:"employee_id" binding:"required"`
	AssignedBy      string  `json:"assigned_by" binding:"required"`
	Notes           *string `json:"notes"`
}

type UnassignDeviceRequest struct {
	DeviceID   int     `json:"device_id" binding:"required"`
	ReturnedBy string  `json:"returned_by" binding:"required"`
	Notes      *string `json:"notes"`
}

type UnassignLicenseRequest struct {
	LicenseID  int    `json:"license_id" binding:"required"`
	ReturnedBy string `json:"returned_by" binding:"required"`
}
