package metadata

import "fmt"

// DeviceTypePhone marks the device type that carries a paired phone
// contract. Returning such a device releases the contract as well.
const DeviceTypePhone = "phone"

type DeviceStatus string

const (
	DeviceAvailable   DeviceStatus = "available"
	DeviceAssigned    DeviceStatus = "assigned"
	DeviceMaintenance DeviceStatus = "maintenance"
	DeviceRetired     DeviceStatus = "retired"
	DeviceLost        DeviceStatus = "lost"
	DeviceDamaged     DeviceStatus = "damaged"
)

func NewDeviceStatus(value string) (DeviceStatus, error) {
	status := DeviceStatus(value)
	if !status.isValid() {
		return "", fmt.Errorf("invalid device status: %s", value)
	}
	return status, nil
}

func (s DeviceStatus) isValid() bool {
	switch s {
	case DeviceAvailable, DeviceAssigned, DeviceMaintenance, DeviceRetired, DeviceLost, DeviceDamaged:
		return true
	default:
		return false
	}
}

type LicenseStatus string

const (
	LicenseActive    LicenseStatus = "active"
	LicenseExpired   LicenseStatus = "expired"
	LicenseSuspended LicenseStatus = "suspended"
	LicenseCancelled LicenseStatus = "cancelled"
)

func NewLicenseStatus(value string) (LicenseStatus, error) {
	status := LicenseStatus(value)
	if !status.isValid() {
		return "", fmt.Errorf("invalid license status: %s", value)
	}
	return status, nil
}

func (s LicenseStatus) isValid() bool {
	switch s {
	case LicenseActive, LicenseExpired, LicenseSuspended, LicenseCancelled:
		return true
	default:
		return false
	}
}

type ContractStatus string

const (
	ContractActive    ContractStatus = "active"
	ContractAssigned  ContractStatus = "assigned"
	ContractSuspended ContractStatus = "suspended"
	ContractCancelled ContractStatus = "cancelled"
	ContractExpired   ContractStatus = "expired"
)

func NewContractStatus(value string) (ContractStatus, error) {
	status := ContractStatus(value)
	if !status.isValid() {
		return "", fmt.Errorf("invalid phone contract status: %s", value)
	}
	return status, nil
}

func (s ContractStatus) isValid() bool {
	switch s {
	case ContractActive, ContractAssigned, ContractSuspended, ContractCancelled, ContractExpired:
		return true
	default:
		return false
	}
}

// AssignmentStatus is the lifecycle of one occupancy interval. An assignment
// is created active and moves exactly once to a terminal status.
type AssignmentStatus string

const (
	AssignmentActive   AssignmentStatus = "active"
	AssignmentReturned AssignmentStatus = "returned"
	AssignmentRevoked  AssignmentStatus = "revoked"
	AssignmentLost     AssignmentStatus = "lost"
)

func NewAssignmentStatus(value string) (AssignmentStatus, error) {
	status := AssignmentStatus(value)
	if !status.isValid() {
		return "", fmt.Errorf("invalid assignment status: %s", value)
	}
	return status, nil
}

func (s AssignmentStatus) isValid() bool {
	switch s {
	case AssignmentActive, AssignmentReturned, AssignmentRevoked, AssignmentLost:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition is allowed.
func (s AssignmentStatus) IsTerminal() bool {
	return s.isValid() && s != AssignmentActive
}
