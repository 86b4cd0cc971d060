package assignments

import (
	"time"

	"github.com/doug-martin/goqu/v9"
	"go.uber.org/zap"

	"github.com/kunoez/ks-inventory-sub000/internal/repository"
	custom_error "github.com/kunoez/ks-inventory-sub000/pkg/errors"
	"github.com/kunoez/ks-inventory-sub000/pkg/metadata"
	"github.com/kunoez/ks-inventory-sub000/pkg/models"
)

// Service is the assignment engine. Every operation runs as one
// transaction: the assignment row, the resource row and any cascaded
// second resource commit together or not at all, so concurrent callers
// never observe an active assignment next to an available resource.
type Service struct {
	repo   AssignmentRepository
	logger *zap.Logger
	withTx func(fn func(tx *goqu.TxDatabase) error) error
}

func NewService(r *repository.Repository, assignmentRepo AssignmentRepository, logger *zap.Logger) *Service {
	return &Service{
		repo:   assignmentRepo,
		logger: logger,
		withTx: func(fn func(tx *goqu.TxDatabase) error) error {
			return repository.WithTransaction(r.GoquDBWrapper, fn)
		},
	}
}

func (s *Service) AssignDevice(req AssignDeviceRequest) (*models.DeviceAssignment, error) {
	var assignment *models.DeviceAssignment

	err := s.withTx(func(tx *goqu.TxDatabase) error {
		device, err := s.repo.GetDeviceForUpdate(tx, req.DeviceID)
		if err != nil {
			return err
		}
		if device == nil {
			return custom_error.NotFound("device %d not found", req.DeviceID)
		}
		if device.Status != metadata.DeviceAvailable {
			return custom_error.Conflict("device %d is not available", req.DeviceID)
		}

		exists, err := s.repo.EmployeeExists(tx, req.EmployeeID)
		if err != nil {
			return err
		}
		if !exists {
			return custom_error.NotFound("employee %d not found", req.EmployeeID)
		}

		now := time.Now()
		assignment = &models.DeviceAssignment{
			DeviceID:     req.DeviceID,
			EmployeeID:   req.EmployeeID,
			AssignedDate: now,
			Status:       metadata.AssignmentActive,
			Notes:        req.Notes,
			AssignedBy:   req.AssignedBy,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.repo.InsertDeviceAssignment(tx, assignment); err != nil {
			return err
		}

		return s.repo.UpdateDeviceStatus(tx, device.ID, metadata.DeviceAssigned)
	})
	if err != nil {
		return nil, err
	}

	return assignment, nil
}

func (s *Service) AssignLicense(req AssignLicenseRequest) (*models.LicenseAssignment, error) {
	var assignment *models.LicenseAssignment

	err := s.withTx(func(tx *goqu.TxDatabase) error {
		license, err := s.repo.GetLicenseForUpdate(tx, req.LicenseID)
		if err != nil {
			return err
		}
		if license == nil {
			return custom_error.NotFound("license %d not found", req.LicenseID)
		}

		// The license row lock serializes the check against the count, so
		// two callers racing for the last seat cannot both pass it.
		activeCount, err := s.repo.CountActiveLicenseAssignments(tx, req.LicenseID)
		if err != nil {
			return err
		}
		if activeCount >= license.MaxUsers {
			return custom_error.Conflict("no available seats on license %d", req.LicenseID)
		}
		if license.Status != metadata.LicenseActive {
			return custom_error.Conflict("license %d is not active", req.LicenseID)
		}

		exists, err := s.repo.EmployeeExists(tx, req.EmployeeID)
		if err != nil {
			return err
		}
		if !exists {
			return custom_error.NotFound("employee %d not found", req.EmployeeID)
		}

		duplicate, err := s.repo.HasActiveLicenseAssignment(tx, req.LicenseID, req.EmployeeID)
		if err != nil {
			return err
		}
		if duplicate {
			return custom_error.Conflict("license %d is already assigned to employee %d", req.LicenseID, req.EmployeeID)
		}

		now := time.Now()
		assignment = &models.LicenseAssignment{
			LicenseID:    req.LicenseID,
			EmployeeID:   req.EmployeeID,
			AssignedDate: now,
			Status:       metadata.AssignmentActive,
			Notes:        req.Notes,
			AssignedBy:   req.AssignedBy,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.repo.InsertLicenseAssignment(tx, assignment); err != nil {
			return err
		}

		_, err = s.repo.SyncLicenseSeatCount(tx, req.LicenseID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return assignment, nil
}

func (s *Service) AssignPhoneContract(req AssignPhoneContractRequest) (*models.PhoneAssignment, error) {
	var assignment *models.PhoneAssignment

	err := s.withTx(func(tx *goqu.TxDatabase) error {
		contract, err := s.repo.GetContractForUpdate(tx, req.PhoneContractID)
		if err != nil {
			return err
		}
		if contract == nil {
			return custom_error.NotFound("phone contract %d not found", req.PhoneContractID)
		}
		if contract.Status != metadata.ContractActive {
			return custom_error.Conflict("phone contract %d is not available", req.PhoneContractID)
		}

		exists, err := s.repo.EmployeeExists(tx, req.EmployeeID)
		if err != nil {
			return err
		}
		if !exists {
			return custom_error.NotFound("employee %d not found", req.EmployeeID)
		}

		now := time.Now()
		assignment = &models.PhoneAssignment{
			PhoneContractID: req.PhoneContractID,
			EmployeeID:      req.EmployeeID,
			AssignedDate:    now,
			Status:          metadata.AssignmentActive,
			Notes:           req.Notes,
			AssignedBy:      req.AssignedBy,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := s.repo.InsertPhoneAssignment(tx, assignment); err != nil {
			return err
		}

		return s.repo.UpdateContractStatus(tx, contract.ID, metadata.ContractAssigned)
	})
	if err != nil {
		return nil, err
	}

	return assignment, nil
}

func (s *Service) ReturnDevice(assignmentID int) (*models.DeviceAssignment, error) {
	var assignment *models.DeviceAssignment

	err := s.withTx(func(tx *goqu.TxDatabase) error {
		var err error
		assignment, err = s.repo.GetDeviceAssignmentForUpdate(tx, assignmentID)
		if err != nil {
			return err
		}
		if assignment == nil {
			return custom_error.NotFound("device assignment %d not found", assignmentID)
		}
		if assignment.Status != metadata.AssignmentActive {
			return custom_error.InvalidState("device assignment %d is not active", assignmentID)
		}

		now := time.Now()
		if err := s.repo.CloseDeviceAssignment(tx, assignment.ID, metadata.AssignmentReturned, now, nil); err != nil {
			return err
		}
		assignment.Status = metadata.AssignmentReturned
		assignment.ReturnDate = &now
		assignment.UpdatedAt = now

		return s.releaseDevice(tx, assignment, now)
	})
	if err != nil {
		return nil, err
	}

	return assignment, nil
}

func (s *Service) UnassignDeviceByDeviceID(req UnassignDeviceRequest) (*models.DeviceAssignment, error) {
	var assignment *models.DeviceAssignment

	err := s.withTx(func(tx *goqu.TxDatabase) error {
		var err error
		assignment, err = s.repo.GetActiveDeviceAssignmentForUpdate(tx, req.DeviceID)
		if err != nil {
			return err
		}
		if assignment == nil {
			return custom_error.NotFound("no active assignment for device %d", req.DeviceID)
		}

		now := time.Now()
		if err := s.repo.CloseDeviceAssignment(tx, assignment.ID, metadata.AssignmentReturned, now, req.Notes); err != nil {
			return err
		}
		assignment.Status = metadata.AssignmentReturned
		assignment.ReturnDate = &now
		assignment.UpdatedAt = now
		if req.Notes != nil && *req.Notes != "" {
			assignment.Notes = req.Notes
		}

		return s.releaseDevice(tx, assignment, now)
	})
	if err != nil {
		return nil, err
	}

	return assignment, nil
}

// releaseDevice puts the device back to available and, for phone devices,
// releases the employee's phone contract in the same transaction. A missing
// device row does not abort the close: the assignment is already terminal,
// so the state is consistent and only worth a warning.
func (s *Service) releaseDevice(tx *goqu.TxDatabase, assignment *models.DeviceAssignment, closedAt time.Time) error {
	device, err := s.repo.GetDeviceForUpdate(tx, assignment.DeviceID)
	if err != nil {
		return err
	}
	if device == nil {
		s.logger.Warn("returned assignment references a missing device",
			zap.Int("assignment_id", assignment.ID),
			zap.Int("device_id", assignment.DeviceID),
		)
		return nil
	}

	if err := s.repo.UpdateDeviceStatus(tx, device.ID, metadata.DeviceAvailable); err != nil {
		return err
	}

	if device.IsPhone() {
		return s.releasePhoneContract(tx, assignment.EmployeeID, closedAt)
	}

	return nil
}

// releasePhoneContract closes the employee's active phone assignment, if
// any, and frees its contract. Finding nothing to release is not an error.
func (s *Service) releasePhoneContract(tx *goqu.TxDatabase, employeeID int, closedAt time.Time) error {
	phoneAssignment, err := s.repo.GetActivePhoneAssignmentForUpdate(tx, employeeID)
	if err != nil {
		return err
	}
	if phoneAssignment == nil {
		return nil
	}

	if err := s.repo.ClosePhoneAssignment(tx, phoneAssignment.ID, closedAt); err != nil {
		return err
	}

	contract, err := s.repo.GetContractForUpdate(tx, phoneAssignment.PhoneContractID)
	if err != nil {
		return err
	}
	if contract == nil {
		s.logger.Warn("phone assignment references a missing contract",
			zap.Int("assignment_id", phoneAssignment.ID),
			zap.Int("phone_contract_id", phoneAssignment.PhoneContractID),
		)
		return nil
	}

	return s.repo.UpdateContractStatus(tx, contract.ID, metadata.ContractActive)
}

func (s *Service) RevokeLicense(assignmentID int) (*models.LicenseAssignment, error) {
	var assignment *models.LicenseAssignment

	err := s.withTx(func(tx *goqu.TxDatabase) error {
		var err error
		assignment, err = s.repo.GetLicenseAssignmentForUpdate(tx, assignmentID)
		if err != nil {
			return err
		}
		if assignment == nil {
			return custom_error.NotFound("license assignment %d not found", assignmentID)
		}
		if assignment.Status != metadata.AssignmentActive {
			return custom_error.InvalidState("license assignment %d is not active", assignmentID)
		}

		now := time.Now()
		if err := s.repo.CloseLicenseAssignment(tx, assignment.ID, now); err != nil {
			return err
		}
		assignment.Status = metadata.AssignmentRevoked
		assignment.RevokedDate = &now
		assignment.UpdatedAt = now

		license, err := s.repo.GetLicenseForUpdate(tx, assignment.LicenseID)
		if err != nil {
			return err
		}
		if license == nil {
			s.logger.Warn("revoked assignment references a missing license",
				zap.Int("assignment_id", assignment.ID),
				zap.Int("license_id", assignment.LicenseID),
			)
			return nil
		}

		_, err = s.repo.SyncLicenseSeatCount(tx, license.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return assignment, nil
}

// UnassignLicenseByLicenseID closes every active assignment of the license
// and re-derives the seat counter from what is left.
func (s *Service) UnassignLicenseByLicenseID(req UnassignLicenseRequest) ([]models.LicenseAssignment, error) {
	var closed []models.LicenseAssignment

	err := s.withTx(func(tx *goqu.TxDatabase) error {
		license, err := s.repo.GetLicenseForUpdate(tx, req.LicenseID)
		if err != nil {
			return err
		}

		assignments, err := s.repo.GetActiveLicenseAssignmentsForUpdate(tx, req.LicenseID)
		if err != nil {
			return err
		}
		if len(assignments) == 0 {
			return custom_error.NotFound("no active assignments for license %d", req.LicenseID)
		}

		now := time.Now()
		for i := range assignments {
			if err := s.repo.CloseLicenseAssignment(tx, assignments[i].ID, now); err != nil {
				return err
			}
			assignments[i].Status = metadata.AssignmentRevoked
			assignments[i].RevokedDate = &now
			assignments[i].UpdatedAt = now
		}
		closed = assignments

		if license == nil {
			s.logger.Warn("active assignments reference a missing license",
				zap.Int("license_id", req.LicenseID),
			)
			return nil
		}

		_, err = s.repo.SyncLicenseSeatCount(tx, license.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return closed, nil
}

func (s *Service) ReturnPhoneContract(assignmentID int) (*models.PhoneAssignment, error) {
	var assignment *models.PhoneAssignment

	err := s.withTx(func(tx *goqu.TxDatabase) error {
		var err error
		assignment, err = s.repo.GetPhoneAssignmentForUpdate(tx, assignmentID)
		if err != nil {
			return err
		}
		if assignment == nil {
			return custom_error.NotFound("phone assignment %d not found", assignmentID)
		}
		if assignment.Status != metadata.AssignmentActive {
			return custom_error.InvalidState("phone assignment %d is not active", assignmentID)
		}

		now := time.Now()
		if err := s.repo.ClosePhoneAssignment(tx, assignment.ID, now); err != nil {
			return err
		}
		assignment.Status = metadata.AssignmentReturned
		assignment.ReturnDate = &now
		assignment.UpdatedAt = now

		contract, err := s.repo.GetContractForUpdate(tx, assignment.PhoneContractID)
		if err != nil {
			return err
		}
		if contract == nil {
			s.logger.Warn("phone assignment references a missing contract",
				zap.Int("assignment_id", assignment.ID),
				zap.Int("phone_contract_id", assignment.PhoneContractID),
			)
			return nil
		}

		return s.repo.UpdateContractStatus(tx, contract.ID, metadata.ContractActive)
	})
	if err != nil {
		return nil, err
	}

	return assignment, nil
}

// RecomputeCurrentUsers reconciles the stored seat counter with the count
// of active assignment rows. Safe to call any number of times.
func (s *Service) RecomputeCurrentUsers(licenseID int) (int, error) {
	var currentUsers int

	err := s.withTx(func(tx *goqu.TxDatabase) error {
		license, err := s.repo.GetLicenseForUpdate(tx, licenseID)
		if err != nil {
			return err
		}
		if license == nil {
			return custom_error.NotFound("license %d not found", licenseID)
		}

		currentUsers, err = s.repo.SyncLicenseSeatCount(tx, licenseID)
		return err
	})
	if err != nil {
		return 0, err
	}

	return currentUsers, nil
}
