package assignments

import (
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/kunoez/ks-inventory-sub000/internal/repository"
	"github.com/kunoez/ks-inventory-sub000/pkg/metadata"
	"github.com/kunoez/ks-inventory-sub000/pkg/models"
)

// AssignmentRepository is the transactional storage surface of the engine.
// Every method runs against the caller's transaction; resource and
// assignment rows are loaded FOR UPDATE so concurrent engine calls on the
// same rows serialize instead of acting on stale reads.
type AssignmentRepository interface {
	GetDeviceForUpdate(tx *goqu.TxDatabase, deviceID int) (*models.Device, error)
	GetLicenseForUpdate(tx *goqu.TxDatabase, licenseID int) (*models.License, error)
	GetContractForUpdate(tx *goqu.TxDatabase, contractID int) (*models.PhoneContract, error)
	EmployeeExists(tx *goqu.TxDatabase, employeeID int) (bool, error)

	UpdateDeviceStatus(tx *goqu.TxDatabase, deviceID int, status metadata.DeviceStatus) error
	UpdateContractStatus(tx *goqu.TxDatabase, contractID int, status metadata.ContractStatus) error
	CountActiveLicenseAssignments(tx *goqu.TxDatabase, licenseID int) (int, error)
	SyncLicenseSeatCount(tx *goqu.TxDatabase, licenseID int) (int, error)

	InsertDeviceAssignment(tx *goqu.TxDatabase, assignment *models.DeviceAssignment) error
	InsertLicenseAssignment(tx *goqu.TxDatabase, assignment *models.LicenseAssignment) error
	InsertPhoneAssignment(tx *goqu.TxDatabase, assignment *models.PhoneAssignment) error

	GetDeviceAssignmentForUpdate(tx *goqu.TxDatabase, assignmentID int) (*models.DeviceAssignment, error)
	GetActiveDeviceAssignmentForUpdate(tx *goqu.TxDatabase, deviceID int) (*models.DeviceAssignment, error)
	GetLicenseAssignmentForUpdate(tx *goqu.TxDatabase, assignmentID int) (*models.LicenseAssignment, error)
	GetActiveLicenseAssignmentsForUpdate(tx *goqu.TxDatabase, licenseID int) ([]models.LicenseAssignment, error)
	HasActiveLicenseAssignment(tx *goqu.TxDatabase, licenseID, employeeID int) (bool, error)
	GetPhoneAssignmentForUpdate(tx *goqu.TxDatabase, assignmentID int) (*models.PhoneAssignment, error)
	GetActivePhoneAssignmentForUpdate(tx *goqu.TxDatabase, employeeID int) (*models.PhoneAssignment, error)

	CloseDeviceAssignment(tx *goqu.TxDatabase, assignmentID int, status metadata.AssignmentStatus, closedAt time.Time, notes *string) error
	CloseLicenseAssignment(tx *goqu.TxDatabase, assignmentID int, closedAt time.Time) error
	ClosePhoneAssignment(tx *goqu.TxDatabase, assignmentID int, closedAt time.Time) error
}

type assignmentRepository struct {
	Repo *repository.Repository
}

func NewRepository(r *repository.Repository) AssignmentRepository {
	return &assignmentRepository{Repo: r}
}

func (r *assignmentRepository) GetDeviceForUpdate(tx *goqu.TxDatabase, deviceID int) (*models.Device, error) {
	var device models.Device

	// Soft-deleted devices are treated as absent everywhere in the engine.
	found, err := tx.From("devices").
		Select("id", "company_id", "name", "type", "brand", "model", "serial_number", "status", "deleted_at", "created_at", "updated_at").
		Where(goqu.Ex{"id": deviceID, "deleted_at": nil}).
		ForUpdate(exp.Wait).
		Executor().
		ScanStruct(&device)
	if err != nil {
		return nil, fmt.Errorf("failed to lock device %d: %w", deviceID, err)
	}
	if !found {
		return nil, nil
	}

	return &device, nil
}

func (r *assignmentRepository) GetLicenseForUpdate(tx *goqu.TxDatabase, licenseID int) (*models.License, error) {
	var license models.License

	found, err := tx.From("licenses").
		Select("id", "company_id", "name", "vendor", "license_key", "max_users", "current_users", "status", "expiry_date", "created_at", "updated_at").
		Where(goqu.Ex{"id": licenseID}).
		ForUpdate(exp.Wait).
		Executor().
		ScanStruct(&license)
	if err != nil {
		return nil, fmt.Errorf("failed to lock license %d: %w", licenseID, err)
	}
	if !found {
		return nil, nil
	}

	return &license, nil
}

func (r *assignmentRepository) GetContractForUpdate(tx *goqu.TxDatabase, contractID int) (*models.PhoneContract, error) {
	var contract models.PhoneContract

	found, err := tx.From("phone_contracts").
		Select("id", "company_id", "provider", "phone_number", "plan", "status", "created_at", "updated_at").
		Where(goqu.Ex{"id": contractID}).
		ForUpdate(exp.Wait).
		Executor().
		ScanStruct(&contract)
	if err != nil {
		return nil, fmt.Errorf("failed to lock phone contract %d: %w", contractID, err)
	}
	if !found {
		return nil, nil
	}

	return &contract, nil
}

func (r *assignmentRepository) EmployeeExists(tx *goqu.TxDatabase, employeeID int) (bool, error) {
	count, err := tx.From("employees").
		Where(goqu.Ex{"id": employeeID, "deleted_at": nil}).
		Count()
	if err != nil {
		return false, fmt.Errorf("failed to check employee %d: %w", employeeID, err)
	}

	return count > 0, nil
}

func (r *assignmentRepository) UpdateDeviceStatus(tx *goqu.TxDatabase, deviceID int, status metadata.DeviceStatus) error {
	query := tx.Update("devices").
		Set(goqu.Record{
			"status":     status,
			"updated_at": goqu.L("NOW()"),
		}).
		Where(goqu.Ex{"id": deviceID})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to update device %d status: %w", deviceID, err)
	}

	return nil
}

func (r *assignmentRepository) UpdateContractStatus(tx *goqu.TxDatabase, contractID int, status metadata.ContractStatus) error {
	query := tx.Update("phone_contracts").
		Set(goqu.Record{
			"status":     status,
			"updated_at": goqu.L("NOW()"),
		}).
		Where(goqu.Ex{"id": contractID})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to update phone contract %d status: %w", contractID, err)
	}

	return nil
}

func (r *assignmentRepository) CountActiveLicenseAssignments(tx *goqu.TxDatabase, licenseID int) (int, error) {
	count, err := tx.From("license_assignments").
		Where(goqu.Ex{"license_id": licenseID, "status": metadata.AssignmentActive}).
		Count()
	if err != nil {
		return 0, fmt.Errorf("failed to count active assignments for license %d: %w", licenseID, err)
	}

	return int(count), nil
}

// SyncLicenseSeatCount re-derives current_users from the active assignment
// rows. It is the only write path for the counter, which keeps the stored
// value convergent with the row count regardless of prior drift.
func (r *assignmentRepository) SyncLicenseSeatCount(tx *goqu.TxDatabase, licenseID int) (int, error) {
	query := tx.Update("licenses").
		Set(goqu.Record{
			"current_users": goqu.L("(SELECT COUNT(*) FROM license_assignments WHERE license_id = ? AND status = ?)", licenseID, string(metadata.AssignmentActive)),
			"updated_at":    goqu.L("NOW()"),
		}).
		Where(goqu.Ex{"id": licenseID}).
		Returning("current_users")

	var currentUsers int
	if _, err := query.Executor().ScanVal(&currentUsers); err != nil {
		return 0, fmt.Errorf("failed to sync seat count for license %d: %w", licenseID, err)
	}

	return currentUsers, nil
}

func (r *assignmentRepository) InsertDeviceAssignment(tx *goqu.TxDatabase, assignment *models.DeviceAssignment) error {
	query := tx.Insert("device_assignments").
		Rows(goqu.Record{
			"device_id":     assignment.DeviceID,
			"employee_id":   assignment.EmployeeID,
			"assigned_date": assignment.AssignedDate,
			"status":        assignment.Status,
			"notes":         assignment.Notes,
			"assigned_by":   assignment.AssignedBy,
			"created_at":    assignment.CreatedAt,
			"updated_at":    assignment.UpdatedAt,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&assignment.ID); err != nil {
		return fmt.Errorf("failed to insert device assignment: %w", err)
	}

	return nil
}

func (r *assignmentRepository) InsertLicenseAssignment(tx *goqu.TxDatabase, assignment *models.LicenseAssignment) error {
	query := tx.Insert("license_assignments").
		Rows(goqu.Record{
			"license_id":    assignment.LicenseID,
			"employee_id":   assignment.EmployeeID,
			"assigned_date": assignment.AssignedDate,
			"status":        assignment.Status,
			"notes":         assignment.Notes,
			"assigned_by":   assignment.AssignedBy,
			"created_at":    assignment.CreatedAt,
			"updated_at":    assignment.UpdatedAt,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&assignment.ID); err != nil {
		return fmt.Errorf("failed to insert license assignment: %w", err)
	}

	return nil
}

func (r *assignmentRepository) InsertPhoneAssignment(tx *goqu.TxDatabase, assignment *models.PhoneAssignment) error {
	query := tx.Insert("phone_assignments").
		Rows(goqu.Record{
			"phone_contract_id": assignment.PhoneContractID,
			"employee_id":       assignment.EmployeeID,
			"assigned_date":     assignment.AssignedDate,
			"status":            assignment.Status,
			"notes":             assignment.Notes,
			"assigned_by":       assignment.AssignedBy,
			"created_at":        assignment.CreatedAt,
			"updated_at":        assignment.UpdatedAt,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&assignment.ID); err != nil {
		return fmt.Errorf("failed to insert phone assignment: %w", err)
	}

	return nil
}

var deviceAssignmentColumns = []interface{}{
	"id", "device_id", "employee_id", "assigned_date", "return_date", "status", "notes", "assigned_by", "created_at", "updated_at",
}

func (r *assignmentRepository) GetDeviceAssignmentForUpdate(tx *goqu.TxDatabase, assignmentID int) (*models.DeviceAssignment, error) {
	var assignment models.DeviceAssignment

	found, err := tx.From("device_assignments").
		Select(deviceAssignmentColumns...).
		Where(goqu.Ex{"id": assignmentID}).
		ForUpdate(exp.Wait).
		Executor().
		ScanStruct(&assignment)
	if err != nil {
		return nil, fmt.Errorf("failed to lock device assignment %d: %w", assignmentID, err)
	}
	if !found {
		return nil, nil
	}

	return &assignment, nil
}

func (r *assignmentRepository) GetActiveDeviceAssignmentForUpdate(tx *goqu.TxDatabase, deviceID int) (*models.DeviceAssignment, error) {
	var assignment models.DeviceAssignment

	found, err := tx.From("device_assignments").
		Select(deviceAssignmentColumns...).
		Where(goqu.Ex{"device_id": deviceID, "status": metadata.AssignmentActive}).
		ForUpdate(exp.Wait).
		Executor().
		ScanStruct(&assignment)
	if err != nil {
		return nil, fmt.Errorf("failed to lock active assignment for device %d: %w", deviceID, err)
	}
	if !found {
		return nil, nil
	}

	return &assignment, nil
}

var licenseAssignmentColumns = []interface{}{
	"id", "license_id", "employee_id", "assigned_date", "revoked_date", "status", "notes", "assigned_by", "created_at", "updated_at",
}

func (r *assignmentRepository) GetLicenseAssignmentForUpdate(tx *goqu.TxDatabase, assignmentID int) (*models.LicenseAssignment, error) {
	var assignment models.LicenseAssignment

	found, err := tx.From("license_assignments").
		Select(licenseAssignmentColumns...).
		Where(goqu.Ex{"id": assignmentID}).
		ForUpdate(exp.Wait).
		Executor().
		ScanStruct(&assignment)
	if err != nil {
		return nil, fmt.Errorf("failed to lock license assignment %d: %w", assignmentID, err)
	}
	if !found {
		return nil, nil
	}

	return &assignment, nil
}

func (r *assignmentRepository) GetActiveLicenseAssignmentsForUpdate(tx *goqu.TxDatabase, licenseID int) ([]models.LicenseAssignment, error) {
	var assignments []models.LicenseAssignment

	err := tx.From("license_assignments").
		Select(licenseAssignmentColumns...).
		Where(goqu.Ex{"license_id": licenseID, "status": metadata.AssignmentActive}).
		Order(goqu.I("id").Asc()).
		ForUpdate(exp.Wait).
		Executor().
		ScanStructs(&assignments)
	if err != nil {
		return nil, fmt.Errorf("failed to lock active assignments for license %d: %w", licenseID, err)
	}

	return assignments, nil
}

func (r *assignmentRepository) HasActiveLicenseAssignment(tx *goqu.TxDatabase, licenseID, employeeID int) (bool, error) {
	count, err := tx.From("license_assignments").
		Where(goqu.Ex{
			"license_id":  licenseID,
			"employee_id": employeeID,
			"status":      metadata.AssignmentActive,
		}).
		Count()
	if err != nil {
		return false, fmt.Errorf("failed to check existing assignment for license %d: %w", licenseID, err)
	}

	return count > 0, nil
}

var phoneAssignmentColumns = []interface{}{
	"id", "phone_contract_id", "employee_id", "assigned_date", "return_date", "status", "notes", "assigned_by", "created_at", "updated_at",
}

func (r *assignmentRepository) GetPhoneAssignmentForUpdate(tx *goqu.TxDatabase, assignmentID int) (*models.PhoneAssignment, error) {
	var assignment models.PhoneAssignment

	found, err := tx.From("phone_assignments").
		Select(phoneAssignmentColumns...).
		Where(goqu.Ex{"id": assignmentID}).
		ForUpdate(exp.Wait).
		Executor().
		ScanStruct(&assignment)
	if err != nil {
		return nil, fmt.Errorf("failed to lock phone assignment %d: %w", assignmentID, err)
	}
	if !found {
		return nil, nil
	}

	return &assignment, nil
}

func (r *assignmentRepository) GetActivePhoneAssignmentForUpdate(tx *goqu.TxDatabase, employeeID int) (*models.PhoneAssignment, error) {
	var assignment models.PhoneAssignment

	found, err := tx.From("phone_assignments").
		Select(phoneAssignmentColumns...).
		Where(goqu.Ex{"employee_id": employeeID, "status": metadata.AssignmentActive}).
		ForUpdate(exp.Wait).
		Executor().
		ScanStruct(&assignment)
	if err != nil {
		return nil, fmt.Errorf("failed to lock active phone assignment for employee %d: %w", employeeID, err)
	}
	if !found {
		return nil, nil
	}

	return &assignment, nil
}

func (r *assignmentRepository) CloseDeviceAssignment(tx *goqu.TxDatabase, assignmentID int, status metadata.AssignmentStatus, closedAt time.Time, notes *string) error {
	record := goqu.Record{
		"status":      status,
		"return_date": closedAt,
		"updated_at":  closedAt,
	}
	if notes != nil && *notes != "" {
		record["notes"] = *notes
	}

	query := tx.Update("device_assignments").
		Set(record).
		Where(goqu.Ex{"id": assignmentID})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to close device assignment %d: %w", assignmentID, err)
	}

	return nil
}

func (r *assignmentRepository) CloseLicenseAssignment(tx *goqu.TxDatabase, assignmentID int, closedAt time.Time) error {
	query := tx.Update("license_assignments").
		Set(goqu.Record{
			"status":       metadata.AssignmentRevoked,
			"revoked_date": closedAt,
			"updated_at":   closedAt,
		}).
		Where(goqu.Ex{"id": assignmentID})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to close license assignment %d: %w", assignmentID, err)
	}

	return nil
}

func (r *assignmentRepository) ClosePhoneAssignment(tx *goqu.TxDatabase, assignmentID int, closedAt time.Time) error {
	query := tx.Update("phone_assignments").
		Set(goqu.Record{
			"status":      metadata.AssignmentReturned,
			"return_date": closedAt,
			"updated_at":  closedAt,
		}).
		Where(goqu.Ex{"id": assignmentID})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to close phone assignment %d: %w", assignmentID, err)
	}

	return nil
}
