package models

import (
	"time"

	"github.com/kunoez/ks-inventory-sub000/pkg/metadata"
)

// DeviceAssignment is one occupancy interval of a device by an employee.
// It is created active and closed exactly once; closed rows are never
// reopened or deleted, which keeps the table an audit trail.
type DeviceAssignment struct {
	ID           int                       `json:"id" db:"id"`
	DeviceID     int                       `json:"device_id" db:"device_id"`
	EmployeeID   int                       `json:"employee_id" db:"employee_id"`
	AssignedDate time.Time                 `json:"assigned_date" db:"assigned_date"`
	ReturnDate   *time.Time                `json:"return_date,omitempty" db:"return_date"`
	Status       metadata.AssignmentStatus `json:"status" db:"status"`
	Notes        *string                   `json:"notes,omitempty" db:"notes"`
	AssignedBy   string                    `json:"assigned_by" db:"assigned_by"`
	CreatedAt    time.Time                 `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time                 `json:"updated_at" db:"updated_at"`
}

func (a *DeviceAssignment) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   a.ID,
		ResourceType: "device_assignment",
	}
}

// LicenseAssignment closes with revoked_date rather than return_date; the
// field is the same "closed at" timestamp, named for how seats are released.
type LicenseAssignment struct {
	ID           int                       `json:"id" db:"id"`
	LicenseID    int                       `json:"license_id" db:"license_id"`
	EmployeeID   int                       `json:"employee_id" db:"employee_id"`
	AssignedDate time.Time                 `json:"assigned_date" db:"assigned_date"`
	RevokedDate  *time.Time                `json:"revoked_date,omitempty" db:"revoked_date"`
	Status       metadata.AssignmentStatus `json:"status" db:"status"`
	Notes        *string                   `json:"notes,omitempty" db:"notes"`
	AssignedBy   string                    `json:"assigned_by" db:"assigned_by"`
	CreatedAt    time.Time                 `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time                 `json:"updated_at" db:"updated_at"`
}

func (a *LicenseAssignment) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   a.ID,
		ResourceType: "license_assignment",
	}
}

type PhoneAssignment struct {
	ID              int                       `json:"id" db:"id"`
	PhoneContractID int                       `json:"phone_contract_id" db:"phone_contract_id"`
	EmployeeID      int                       `json:"employee_id" db:"employee_id"`
	AssignedDate    time.Time                 `json:"assigned_date" db:"assigned_date"`
	ReturnDate      *time.Time                `json:"return_date,omitempty" db:"return_date"`
	Status          metadata.AssignmentStatus `json:"status" db:"status"`
	Notes           *string                   `json:"notes,omitempty" db:"notes"`
	AssignedBy      string                    `json:"assigned_by" db:"assigned_by"`
	CreatedAt       time.Time                 `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time                 `json:"updated_at" db:"updated_at"`
}

func (a *PhoneAssignment) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   a.ID,
		ResourceType: "phone_assignment",
	}
}

// Joined shapes returned by the assignment list endpoints.

type DeviceAssignmentDetail struct {
	DeviceAssignment
	Device   DeviceSummary   `json:"device"`
	Employee EmployeeSummary `json:"employee"`
}

type LicenseAssignmentDetail struct {
	LicenseAssignment
	License  LicenseSummary  `json:"license"`
	Employee EmployeeSummary `json:"employee"`
}

type PhoneAssignmentDetail struct {
	PhoneAssignment
	Contract ContractSummary `json:"phone_contract"`
	Employee EmployeeSummary `json:"employee"`
}
