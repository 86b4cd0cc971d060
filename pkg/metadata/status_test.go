package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDeviceStatus(t *testing.T) {
	status, err := NewDeviceStatus("available")
	assert.NoError(t, err)
	assert.Equal(t, DeviceAvailable, status)

	_, err = NewDeviceStatus("borrowed")
	assert.Error(t, err)
}

func TestNewLicenseStatus(t *testing.T) {
	status, err := NewLicenseStatus("active")
	assert.NoError(t, err)
	assert.Equal(t, LicenseActive, status)

	_, err = NewLicenseStatus("assigned")
	assert.Error(t, err)
}

func TestNewContractStatus(t *testing.T) {
	status, err := NewContractStatus("assigned")
	assert.NoError(t, err)
	assert.Equal(t, ContractAssigned, status)

	_, err = NewContractStatus("")
	assert.Error(t, err)
}

func TestAssignmentStatusIsTerminal(t *testing.T) {
	assert.False(t, AssignmentActive.IsTerminal())
	assert.True(t, AssignmentReturned.IsTerminal())
	assert.True(t, AssignmentRevoked.IsTerminal())
	assert.True(t, AssignmentLost.IsTerminal())
	assert.False(t, AssignmentStatus("closed").IsTerminal())
}
