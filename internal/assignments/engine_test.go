package assignments

import (
	"errors"
	"testing"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	custom_error "github.com/kunoez/ks-inventory-sub000/pkg/errors"
	"github.com/kunoez/ks-inventory-sub000/pkg/metadata"
	"github.com/kunoez/ks-inventory-sub000/pkg/models"
)

type MockAssignmentRepository struct {
	mock.Mock
}

func (m *MockAssignmentRepository) GetDeviceForUpdate(tx *goqu.TxDatabase, deviceID int) (*models.Device, error) {
	args := m.Called(tx, deviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Device), args.Error(1)
}

func (m *MockAssignmentRepository) GetLicenseForUpdate(tx *goqu.TxDatabase, licenseID int) (*models.License, error) {
	args := m.Called(tx, licenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.License), args.Error(1)
}

func (m *MockAssignmentRepository) GetContractForUpdate(tx *goqu.TxDatabase, contractID int) (*models.PhoneContract, error) {
	args := m.Called(tx, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PhoneContract), args.Error(1)
}

func (m *MockAssignmentRepository) EmployeeExists(tx *goqu.TxDatabase, employeeID int) (bool, error) {
	args := m.Called(tx, employeeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAssignmentRepository) UpdateDeviceStatus(tx *goqu.TxDatabase, deviceID int, status metadata.DeviceStatus) error {
	args := m.Called(tx, deviceID, status)
	return args.Error(0)
}

func (m *MockAssignmentRepository) UpdateContractStatus(tx *goqu.TxDatabase, contractID int, status metadata.ContractStatus) error {
	args := m.Called(tx, contractID, status)
	return args.Error(0)
}

func (m *MockAssignmentRepository) CountActiveLicenseAssignments(tx *goqu.TxDatabase, licenseID int) (int, error) {
	args := m.Called(tx, licenseID)
	return args.Int(0), args.Error(1)
}

func (m *MockAssignmentRepository) SyncLicenseSeatCount(tx *goqu.TxDatabase, licenseID int) (int, error) {
	args := m.Called(tx, licenseID)
	return args.Int(0), args.Error(1)
}

func (m *MockAssignmentRepository) InsertDeviceAssignment(tx *goqu.TxDatabase, assignment *models.DeviceAssignment) error {
	args := m.Called(tx, assignment)
	assignment.ID = 100
	return args.Error(0)
}

func (m *MockAssignmentRepository) InsertLicenseAssignment(tx *goqu.TxDatabase, assignment *models.LicenseAssignment) error {
	args := m.Called(tx, assignment)
	assignment.ID = 200
	return args.Error(0)
}

func (m *MockAssignmentRepository) InsertPhoneAssignment(tx *goqu.TxDatabase, assignment *models.PhoneAssignment) error {
	args := m.Called(tx, assignment)
	assignment.ID = 300
	return args.Error(0)
}

func (m *MockAssignmentRepository) GetDeviceAssignmentForUpdate(tx *goqu.TxDatabase, assignmentID int) (*models.DeviceAssignment, error) {
	args := m.Called(tx, assignmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DeviceAssignment), args.Error(1)
}

func (m *MockAssignmentRepository) GetActiveDeviceAssignmentForUpdate(tx *goqu.TxDatabase, deviceID int) (*models.DeviceAssignment, error) {
	args := m.Called(tx, deviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DeviceAssignment), args.Error(1)
}

func (m *MockAssignmentRepository) GetLicenseAssignmentForUpdate(tx *goqu.TxDatabase, assignmentID int) (*models.LicenseAssignment, error) {
	args := m.Called(tx, assignmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LicenseAssignment), args.Error(1)
}

func (m *MockAssignmentRepository) GetActiveLicenseAssignmentsForUpdate(tx *goqu.TxDatabase, licenseID int) ([]models.LicenseAssignment, error) {
	args := m.Called(tx, licenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.LicenseAssignment), args.Error(1)
}

func (m *MockAssignmentRepository) HasActiveLicenseAssignment(tx *goqu.TxDatabase, licenseID, employeeID int) (bool, error) {
	args := m.Called(tx, licenseID, employeeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAssignmentRepository) GetPhoneAssignmentForUpdate(tx *goqu.TxDatabase, assignmentID int) (*models.PhoneAssignment, error) {
	args := m.Called(tx, assignmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PhoneAssignment), args.Error(1)
}

func (m *MockAssignmentRepository) GetActivePhoneAssignmentForUpdate(tx *goqu.TxDatabase, employeeID int) (*models.PhoneAssignment, error) {
	args := m.Called(tx, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PhoneAssignment), args.Error(1)
}

func (m *MockAssignmentRepository) CloseDeviceAssignment(tx *goqu.TxDatabase, assignmentID int, status metadata.AssignmentStatus, closedAt time.Time, notes *string) error {
	args := m.Called(tx, assignmentID, status, closedAt, notes)
	return args.Error(0)
}

func (m *MockAssignmentRepository) CloseLicenseAssignment(tx *goqu.TxDatabase, assignmentID int, closedAt time.Time) error {
	args := m.Called(tx, assignmentID, closedAt)
	return args.Error(0)
}

func (m *MockAssignmentRepository) ClosePhoneAssignment(tx *goqu.TxDatabase, assignmentID int, closedAt time.Time) error {
	args := m.Called(tx, assignmentID, closedAt)
	return args.Error(0)
}

func newTestService(repo *MockAssignmentRepository) *Service {
	return &Service{
		repo:   repo,
		logger: zap.NewNop(),
		withTx: func(fn func(tx *goqu.TxDatabase) error) error {
			return fn(nil)
		},
	}
}

func availableDevice(id int) *models.Device {
	return &models.Device{ID: id, CompanyID: 1, Name: "ThinkPad T14", Type: "laptop", Status: metadata.DeviceAvailable}
}

func phoneDevice(id int) *models.Device {
	return &models.Device{ID: id, CompanyID: 1, Name: "iPhone 15", Type: metadata.DeviceTypePhone, Status: metadata.DeviceAssigned}
}

func TestAssignDevice(t *testing.T) {
	mockRepo := new(MockAssignmentRepository)
	service := newTestService(mockRepo)

	req := AssignDeviceRequest{DeviceID: 1, EmployeeID: 5, AssignedBy: "admin@example.com"}

	mockRepo.On("GetDeviceForUpdate", mock.Anything, 1).Return(availableDevice(1), nil).Once()
	mockRepo.On("EmployeeExists", mock.Anything, 5).Return(true, nil).Once()
	mockRepo.On("InsertDeviceAssignment", mock.Anything, mock.Anything).Return(nil).Once()
	mockRepo.On("UpdateDeviceStatus", mock.Anything, 1, metadata.DeviceAssigned).Return(nil).Once()

	assignment, err := service.AssignDevice(req)

	assert.NoError(t, err)
	assert.Equal(t, 100, assignment.ID)
	assert.Equal(t, metadata.AssignmentActive, assignment.Status)
	assert.Equal(t, "admin@example.com", assignment.AssignedBy)
	assert.Nil(t, assignment.ReturnDate)
	mockRepo.AssertExpectations(t)
}

func TestAssignDeviceNotFound(t *testing.T) {
	mockRepo := new(MockAssignmentRepository)
	service := newTestService(mockRepo)

	mockRepo.On("GetDeviceForUpdate", mock.Anything, 42).Return(nil, nil).Once()

	_, err := service.AssignDevice(AssignDeviceRequest{DeviceID: 42, EmployeeID: 5, AssignedBy: "admin@example.com"})

	assert.True(t, custom_error.IsNotFound(err))
	mockRepo.AssertNotCalled(t, "InsertDeviceAssignment", mock.Anything, mock.Anything)
}

func TestAssignDeviceNotAvailable(t *testing.T) {
	mockRepo := new(MockAssignmentRepository)
	service := newTestService(mockRepo)

	device := availableDevice(1)
	device.Status = metadata.DeviceAssigned
	mockRepo.On("GetDeviceForUpdate", mock.Anything, 1).Return(device, nil).Once()

	_, err := service.AssignDevice(AssignDeviceRequest{DeviceID: 1, EmployeeID: 5, AssignedBy: "admin@example.com"})

	assert.True(t, custom_error.IsConflict(err))
	mockRepo.AssertNotCalled(t, "InsertDeviceAssignment", mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "UpdateDeviceStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestAssignDeviceEmployeeNotFound(t *testing.T) {
	mockRepo := new(MockAssignmentRepository)
	service := newTestService(mockRepo)

	mockRepo.On("GetDeviceForUpdate", mock.Anything, 1).Return(availableDevice(1), nil).Once()
	mockRepo.On("EmployeeExists", mock.Anything, 99).Return(false, nil).Once()

	_, err := service.AssignDevice(AssignDeviceRequest{DeviceID: 1, EmployeeID: 99, AssignedBy: "admin@example.com"})

	assert.True(t, custom_error.IsNotFound(err))
	mockRepo.AssertNotCalled(t, "InsertDeviceAssignment", mock.Anything, mock.Anything)
}

func activeLicense(id, maxUsers int) *models.License {
	return &models.License{ID: id, CompanyID: 1, Name: "Office 365", Vendor: "Microsoft", MaxUsers: maxUsers, Status: metadata.LicenseActive}
}

func TestAssignLicense(t *testing.T) {
	mockRepo := new(MockAssignmentRepository)
	service := newTestService(mockRepo)

	mockRepo.On("GetLicenseForUpdate", mock.Anything, 3).Return(activeLicense(3, 2), nil).Once()
	mockRepo.On("CountActiveLicenseAssignments", mock.Anything, 3).Return(1, nil).Once()
	mockRepo.On("EmployeeExists", mock.Anything, 5).Return(true, nil).Once()
	mockRepo.On("HasActiveLicenseAssignment", mock.Anything, 3, 5).Return(false, nil).Once()
	mockRepo.On("InsertLicenseAssignment", mock.Anything, mock.Anything).Return(nil).Once()
	mockRepo.On("SyncLicenseSeatCount", mock.Anything, 3).Return(2, nil).Once()

	assignment, err := service.AssignLicense(AssignLicenseRequest{LicenseID: 3, EmployeeID: 5, AssignedBy: "admin@example.com"})

	assert.NoError(t, err)
	assert.Equal(t, 200, assignment.ID)
	assert.Equal(t, metadata.AssignmentActive, assignment.Status)
	mockRepo.AssertExpectations(t)
}

func TestAssignLicenseNoSeats(t *testing.T) {
	mockRepo := new(MockAssignmentRepository)
	service := newTestService(mockRepo)

	mockRepo.On("GetLicenseForUpdate", mock.Anything, 3).Return(activeLicense(3, 2), nil).Once()
	mockRepo.On("CountActiveLicenseAssignments", mock.Anything, 3).Return(2, nil).Once()

	_, err := service.AssignLicense(AssignLicenseRequest{LicenseID: 3, EmployeeID: 5, AssignedBy: "admin@example.com"})

	assert.True(t, custom_error.IsConflict(err))
	assert.Contains(t, err.Error(), "no available seats")
	mockRepo.AssertNotCalled(t, "InsertLicenseAssignment", mock.Anything, mock.Anything)
}

func TestAssignLicenseNotActive(t *testing.T) {
	mockRepo := new(MockAssignmentRepository)
	service := newTestService(mockRepo)

	license := activeLicense(3, 2)
	license.Status = metadata.LicenseExpired
	mockRepo.On("GetLicenseForUpdate", mock.Anything, 3).Return(license, nil).Once()
	mockRepo.On("CountActiveLicenseAssignments", mock.Anything, 3).Return(0, nil).Once()

	_, err := service.AssignLicense(AssignLicenseRequest{LicenseID: 3, EmployeeID: 5, AssignedBy: "admin@example.com"})

	assert.True(t, custom_error.IsConflict(err))
	mockRepo.AssertNotCalled(t, "InsertLicenseAssignment", mock.Anything, mock.Anything)
}

func TestAssignLicenseDuplicate(t *testing.T) {
	mockRepo := new(MockAssignmentRepository)
	service := newTestService(mockRepo)

	mockRepo.On("GetLicenseForUpdate", mock.Anything, 3).Return(activeLicense(3, 5), nil).Once()
	mockRepo.On("CountActiveLicenseAssignments", mock.Anything, 3).Return(1, nil).Once()
	mockRepo.On("EmployeeExists", mock.Anything, 5).Return(true, nil).Once()
	mockRepo.On("HasActiveLicenseAssignment", mock.Anything, 3, 5).Return(true, nil).Once()

	_, err := service.AssignLicense(AssignLicenseRequest{LicenseID: 3, EmployeeID: 5, AssignedBy: "admin@example.com"})

	assert.True(t, custom_error.IsConflict(err))
	mockRepo.AssertNotCalled(t, "InsertLicenseAssignment", mock.Anything, mock.Anything)
}

func TestReturnDevice(t *testing.T) {
	mockRepo := new(MockAssignmentRepository)
	service := newTestService(mockRepo)

	assignment := &models.DeviceAssignment{ID: 10, DeviceID: 1, EmployeeID: 5, Status: metadata.AssignmentActive}
	device := availableDevice(1)
	device.Status = metadata.DeviceAssigned

	mockRepo.On("GetDeviceAssignmentForUpdate", mock.Anything, 10).Return(assignment, nil).Once()
	mockRepo.On("CloseDeviceAssignment", mock.Anything, 10, metadata.AssignmentReturned, mock.Anything, (*string)(nil)).Return(nil).Once()
	mockRepo.On("GetDeviceForUpdate", mock.Anything, 1).Return(device, nil).Once()
	mockRepo.On("UpdateDeviceStatus", mock.Anything, 1, metadata.DeviceAvailable).Return(nil).Once()

	result, err := service.ReturnDevice(10)

	assert.NoError(t, err)
	assert.Equal(t, metadata.AssignmentReturned, result.Status)
	assert.NotNil(t, result.ReturnDate)
	// Non-phone devices never touch the phone assignment stream.
	mockRepo.AssertNotCalled(t, "GetActivePhoneAssignmentForUpdate", mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestReturnDevicePhoneCascade(t *testing.T) {
	mockRepo := new(MockAssignmentRepository)
	service := newTestService(mockRepo)

	assignment := &models.DeviceAssignment{ID: 10, DeviceID: 2, EmployeeID: 5, Status: metadata.AssignmentActive}
	phoneAssignment := &models.PhoneAssignment{ID: 30, PhoneContractID: 7, EmployeeID: 5, Status: metadata.AssignmentActive}
	contract := &models.PhoneContract{ID: 7, Status: metadata.ContractAssigned}

	mockRepo.On("GetDeviceAssignmentForUpdate", mock.Anything, 10).Return(assignment, nil).Once()
	mockRepo.On("CloseDeviceAssignment", mock.Anything, 10, metadata.AssignmentReturned, mock.Anything, (*string)(nil)).Return(nil).Once()
	mockRepo.On("GetDeviceForUpdate", mock.Anything, 2).Return(phoneDevice(2), nil).Once()
	mockRepo.On("UpdateDeviceStatus", mock.Anything, 2, metadata.DeviceAvailable).Return(nil).Once()
	mockRepo.On("GetActivePhoneAssignmentForUpdate", mock.Anything, 5).Return(phoneAssignment, nil).Once()
	mockRepo.On("ClosePhoneAssignment", mock.Anything, 30, mock.Anything).Return(nil).Once()
	mockRepo.On("GetContractForUpdate", mock.Anything, 7).Return(contract, nil).Once()
	mockRepo.On("UpdateContractStatus", mock.Anything, 7, metadata.ContractActive).Return(nil).Once()

	result, err := service.ReturnDevice(10)

	assert.NoError(t, err)
	assert.Equal(t, metadata.AssignmentReturned, result.Status)
	mockRepo.AssertExpectations(t)
}

func TestReturnDeviceNotActive(t *testing.T) {
	mockRepo := new(MockAssignmentRepository)
	service := newTestService(mockRepo)

	closedAt := time.Now()
	assignment := &models.DeviceAssignment{ID: 10, DeviceID: 1, EmployeeID: 5, Status: metadata.AssignmentReturned, ReturnDate: &closedAt}
	mockRepo.On("GetDeviceAssignmentForUpdate", mock.Anything, 10).Return(assignment, nil).Once()

	_, err := service.ReturnDevice(10)

	assert.True(t, custom_error.IsInvalidState(err))
	mockRepo.AssertNotCalled(t, "CloseDeviceAssignment", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReturnDeviceMissingDeviceRow(t *testing.T) {
	mockRepo := new(MockAssignmentRepository)
	service := newTestService(mockRepo)

	assignment := &models.DeviceAssignment{ID: 10, DeviceID: 404, EmployeeID: 5, Status: metadata.AssignmentActive}
	mockRepo.On("GetDeviceAssignmentForUpdate", mock.Anything, 10).Return(assignment, nil).Once()
	mockRepo.On("CloseDeviceAssignment", mock.Anything, 10, metadata.AssignmentReturned, mock.Anything, (*string)(nil)).Return(nil).Once()
	mockRepo.On("GetDeviceForUpdate", mock.Anything, 404).Return(nil, nil).Once()

	result, err := service.ReturnDevice(10)

	assert.NoError(t, err)
	assert.Equal(t, metadata.AssignmentReturned, result.Status)
	mockRepo.AssertNotCalled(t, "UpdateDeviceStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestUnassignDeviceByDeviceID(t *testing.T) {
	mockRepo := new(MockAssignmentRepository)
	service := newTestService(mockRepo)

	notes := "returned at offboarding"
	assignment := &models.DeviceAssignment{ID: 11, DeviceID: 1, EmployeeID: 5, Status: metadata.AssignmentActive}
	device := availableDevice(1)
	device.Status = metadata.DeviceAssigned

	mockRepo.On("GetActiveDeviceAssignmentForUpdate", mock.Anything, 1).Return(assignment, nil).Once()
	mockRepo.On("CloseDeviceAssignment", mock.Anything, 11, metadata.AssignmentReturned, mock.Anything, &notes).Return(nil).Once()
	mockRepo.On("GetDeviceForUpdate", mock.Anything, 1).Return(device, nil).Once()
	mockRepo.On("UpdateDeviceStatus", mock.Anything, 1, metadata.DeviceAvailable).Return(nil).Once()

	result, err := service.UnassignDeviceByDeviceID(UnassignDeviceRequest{DeviceID: 1, ReturnedBy: "admin@example.com", Notes: &notes})

	assert.NoError(t, err)
	assert.Equal(t, &notes, result.Notes)
	mockRepo.AssertExpectations(t)
}

func TestUnassignDeviceNoActiveAssignment(t *testing.T) {
	mockRepo := new(MockAssignmentRepository)
	service := newTestService(mockRepo)

	mockRepo.On("GetActiveDeviceAssignmentForUpdate", mock.Anything, 1).Return(nil, nil).Once()

	_, err := service.UnassignDeviceByDeviceID(UnassignDeviceRequest{DeviceID: 1, ReturnedBy: "admin@example.com"})

	assert.True(t, custom_error.IsNotFound(err))
}

func TestRevokeLicense(t *testing.T) {
	mockRepo := new(MockAssignmentRepository)
	service := newTestService(mockRepo)

	assignment := &models.LicenseAssignment{ID: 20, LicenseID: 3, EmployeeID: 5, Status: metadata.AssignmentActive}

	mockRepo.On("GetLicenseAssignmentForUpdate", mock.Anything, 20).Return(assignment, nil).Once()
	mockRepo.On("CloseLicenseAssignment", mock.Anything, 20, mock.Anything).Return(nil).Once()
	mockRepo.On("GetLicenseForUpdate", mock.Anything, 3).Return(activeLicense(3, 2), nil).Once()
	mockRepo.On("SyncLicenseSeatCount", mock.Anything, 3).Return(0, nil).Once()

	result, err := service.RevokeLicense(20)

	assert.NoError(t, err)
	assert.Equal(t, metadata.AssignmentRevoked, result.Status)
	assert.NotNil(t, result.RevokedDate)
	mockRepo.AssertExpectations(t)
}

func TestRevokeLicenseNotActive(t *testing.T) {
	mockRepo := new(MockAssignmentRepository)
	service := newTestService(mockRepo)

	assignment := &models.LicenseAssignment{ID: 20, LicenseID: 3, EmployeeID: 5, Status: metadata.AssignmentRevoked}
	mockRepo.On("GetLicenseAssignmentForUpdate", mock.Anything, 20).Return(assignment, nil).Once()

	_, err := service.RevokeLicense(20)

	assert.True(t, custom_error.IsInvalidState(err))
	mockRepo.AssertNotCalled(t, "CloseLicenseAssignment", mock.Anything, mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "SyncLicenseSeatCount", mock.Anything, mock.Anything)
}

func TestUnassignLicenseByLicenseID(t *testing.T) {
	mockRepo := new(MockAssignmentRepository)
	service := newTestService(mockRepo)

	active := []models.LicenseAssignment{
		{ID: 21, LicenseID: 3, EmployeeID: 5, Status: metadata.AssignmentActive},
		{ID: 22, LicenseID: 3, EmployeeID: 6, Status: metadata.AssignmentActive},
	}

	mockRepo.On("GetLicenseForUpdate", mock.Anything, 3).Return(activeLicense(3, 2), nil).Once()
	mockRepo.On("GetActiveLicenseAssignmentsForUpdate", mock.Anything, 3).Return(active, nil).Once()
	mockRepo.On("CloseLicenseAssignment", mock.Anything, 21, mock.Anything).Return(nil).Once()
	mockRepo.On("CloseLicenseAssignment", mock.Anything, 22, mock.Anything).Return(nil).Once()
	mockRepo.On("SyncLicenseSeatCount", mock.Anything, 3).Return(0, nil).Once()

	closed, err := service.UnassignLicenseByLicenseID(UnassignLicenseRequest{LicenseID: 3, ReturnedBy: "admin@example.com"})

	assert.NoError(t, err)
	assert.Len(t, closed, 2)
	for _, assignment := range closed {
		assert.Equal(t, metadata.AssignmentRevoked, assignment.Status)
		assert.NotNil(t, assignment.RevokedDate)
	}
	mockRepo.AssertExpectations(t)
}

func TestUnassignLicenseNoActiveAssignments(t *testing.T) {
	mockRepo := new(MockAssignmentRepository)
	service := newTestService(mockRepo)

	mockRepo.On("GetLicenseForUpdate", mock.Anything, 3).Return(activeLicense(3, 2), nil).Once()
	mockRepo.On("GetActiveLicenseAssignmentsForUpdate", mock.Anything, 3).Return([]models.LicenseAssignment{}, nil).Once()

	_, err := service.UnassignLicenseByLicenseID(UnassignLicenseRequest{LicenseID: 3, ReturnedBy: "admin@example.com"})

	assert.True(t, custom_error.IsNotFound(err))
	mockRepo.AssertNotCalled(t, "SyncLicenseSeatCount", mock.Anything, mock.Anything)
}

func TestAssignPhoneContract(t *testing.T) {
	mockRepo := new(MockAssignmentRepository)
	service := newTestService(mockRepo)

	contract := &models.PhoneContract{ID: 7, Status: metadata.ContractActive}

	mockRepo.On("GetContractForUpdate", mock.Anything, 7).Return(contract, nil).Once()
	mockRepo.On("EmployeeExists", mock.Anything, 5).Return(true, nil).Once()
	mockRepo.On("InsertPhoneAssignment", mock.Anything, mock.Anything).Return(nil).Once()
	mockRepo.On("UpdateContractStatus", mock.Anything, 7, metadata.ContractAssigned).Return(nil).Once()

	assignment, err := service.AssignPhoneContract(AssignPhoneContractRequest{PhoneContractID: 7, EmployeeID: 5, AssignedBy: "admin@example.com"})

	assert.NoError(t, err)
	assert.Equal(t, 300, assignment.ID)
	mockRepo.AssertExpectations(t)
}

func TestAssignPhoneContractNotAvailable(t *testing.T) {
	mockRepo := new(MockAssignmentRepository)
	service := newTestService(mockRepo)

	contract := &models.PhoneContract{ID: 7, Status: metadata.ContractAssigned}
	mockRepo.On("GetContractForUpdate", mock.Anything, 7).Return(contract, nil).Once()

	_, err := service.AssignPhoneContract(AssignPhoneContractRequest{PhoneContractID: 7, EmployeeID: 5, AssignedBy: "admin@example.com"})

	assert.True(t, custom_error.IsConflict(err))
	mockRepo.AssertNotCalled(t, "InsertPhoneAssignment", mock.Anything, mock.Anything)
}

func TestReturnPhoneContract(t *testing.T) {
	mockRepo := new(MockAssignmentRepository)
	service := newTestService(mockRepo)

	assignment := &models.PhoneAssignment{ID: 30, PhoneContractID: 7, EmployeeID: 5, Status: metadata.AssignmentActive}
	contract := &models.PhoneContract{ID: 7, Status: metadata.ContractAssigned}

	mockRepo.On("GetPhoneAssignmentForUpdate", mock.Anything, 30).Return(assignment, nil).Once()
	mockRepo.On("ClosePhoneAssignment", mock.Anything, 30, mock.Anything).Return(nil).Once()
	mockRepo.On("GetContractForUpdate", mock.Anything, 7).Return(contract, nil).Once()
	mockRepo.On("UpdateContractStatus", mock.Anything, 7, metadata.ContractActive).Return(nil).Once()

	result, err := service.ReturnPhoneContract(30)

	assert.NoError(t, err)
	assert.Equal(t, metadata.AssignmentReturned, result.Status)
	mockRepo.AssertExpectations(t)
}

func TestRecomputeCurrentUsers(t *testing.T) {
	mockRepo := new(MockAssignmentRepository)
	service := newTestService(mockRepo)

	mockRepo.On("GetLicenseForUpdate", mock.Anything, 3).Return(activeLicense(3, 10), nil).Once()
	mockRepo.On("SyncLicenseSeatCount", mock.Anything, 3).Return(4, nil).Once()

	currentUsers, err := service.RecomputeCurrentUsers(3)

	assert.NoError(t, err)
	assert.Equal(t, 4, currentUsers)
	mockRepo.AssertExpectations(t)
}

func TestRecomputeCurrentUsersNotFound(t *testing.T) {
	mockRepo := new(MockAssignmentRepository)
	service := newTestService(mockRepo)

	mockRepo.On("GetLicenseForUpdate", mock.Anything, 3).Return(nil, nil).Once()

	_, err := service.RecomputeCurrentUsers(3)

	assert.True(t, custom_error.IsNotFound(err))
}

func TestAssignDeviceStorageFailure(t *testing.T) {
	mockRepo := new(MockAssignmentRepository)
	service := newTestService(mockRepo)

	mockRepo.On("GetDeviceForUpdate", mock.Anything, 1).Return(availableDevice(1), nil).Once()
	mockRepo.On("EmployeeExists", mock.Anything, 5).Return(true, nil).Once()
	mockRepo.On("InsertDeviceAssignment", mock.Anything, mock.Anything).Return(errors.New("connection reset")).Once()

	_, err := service.AssignDevice(AssignDeviceRequest{DeviceID: 1, EmployeeID: 5, AssignedBy: "admin@example.com"})

	assert.Error(t, err)
	assert.False(t, custom_error.IsNotFound(err))
	assert.False(t, custom_error.IsConflict(err))
}
