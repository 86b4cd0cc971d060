package assignments

import (
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/kunoez/ks-inventory-sub000/internal/repository"
	"github.com/kunoez/ks-inventory-sub000/pkg/metadata"
	"github.com/kunoez/ks-inventory-sub000/pkg/models"
)

// ActivityRepository reads committed assignment rows joined with their
// resource and employee. It runs outside the engine transactions and is
// eventually consistent with them.
type ActivityRepository interface {
	GetRecentDeviceAssignments(companyID *int, limit uint) ([]models.DeviceAssignmentDetail, error)
	GetRecentLicenseAssignments(companyID *int, limit uint) ([]models.LicenseAssignmentDetail, error)
	GetRecentPhoneAssignments(companyID *int, limit uint) ([]models.PhoneAssignmentDetail, error)
}

type activityRepository struct {
	Repo *repository.Repository
}

func NewActivityRepository(r *repository.Repository) ActivityRepository {
	return &activityRepository{Repo: r}
}

type flatDeviceAssignment struct {
	ID           int        `db:"id"`
	DeviceID     int        `db:"device_id"`
	EmployeeID   int        `db:"employee_id"`
	AssignedDate time.Time  `db:"assigned_date"`
	ReturnDate   *time.Time `db:"return_date"`
	Status       string     `db:"status"`
	Notes        *string    `db:"notes"`
	AssignedBy   string     `db:"assigned_by"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`

	DeviceName    string `db:"device_name"`
	DeviceType    string `db:"device_type"`
	DeviceSerial  string `db:"device_serial"`
	EmployeeFirst string `db:"employee_first_name"`
	EmployeeLast  string `db:"employee_last_name"`
	EmployeeEmail string `db:"employee_email"`
}

func (f *flatDeviceAssignment) transform() models.DeviceAssignmentDetail {
	return models.DeviceAssignmentDetail{
		DeviceAssignment: models.DeviceAssignment{
			ID:           f.ID,
			DeviceID:     f.DeviceID,
			EmployeeID:   f.EmployeeID,
			AssignedDate: f.AssignedDate,
			ReturnDate:   f.ReturnDate,
			Status:       metadata.AssignmentStatus(f.Status),
			Notes:        f.Notes,
			AssignedBy:   f.AssignedBy,
			CreatedAt:    f.CreatedAt,
			UpdatedAt:    f.UpdatedAt,
		},
		Device: models.DeviceSummary{
			ID:           f.DeviceID,
			Name:         f.DeviceName,
			Type:         f.DeviceType,
			SerialNumber: f.DeviceSerial,
		},
		Employee: models.EmployeeSummary{
			ID:    f.EmployeeID,
			Name:  f.EmployeeFirst + " " + f.EmployeeLast,
			Email: f.EmployeeEmail,
		},
	}
}

func (r *activityRepository) GetRecentDeviceAssignments(companyID *int, limit uint) ([]models.DeviceAssignmentDetail, error) {
	query := r.Repo.GoquDBWrapper.
		Select(
			goqu.I("da.id").As("id"),
			goqu.I("da.device_id").As("device_id"),
			goqu.I("da.employee_id").As("employee_id"),
			goqu.I("da.assigned_date").As("assigned_date"),
			goqu.I("da.return_date").As("return_date"),
			goqu.I("da.status").As("status"),
			goqu.I("da.notes").As("notes"),
			goqu.I("da.assigned_by").As("assigned_by"),
			goqu.I("da.created_at").As("created_at"),
			goqu.I("da.updated_at").As("updated_at"),
			goqu.I("d.name").As("device_name"),
			goqu.I("d.type").As("device_type"),
			goqu.I("d.serial_number").As("device_serial"),
			goqu.I("e.first_name").As("employee_first_name"),
			goqu.I("e.last_name").As("employee_last_name"),
			goqu.I("e.email").As("employee_email"),
		).
		From(goqu.T("device_assignments").As("da")).
		Join(
			goqu.T("devices").As("d"),
			goqu.On(goqu.Ex{"da.device_id": goqu.I("d.id")}),
		).
		Join(
			goqu.T("employees").As("e"),
			goqu.On(goqu.Ex{"da.employee_id": goqu.I("e.id")}),
		).
		Order(goqu.I("da.created_at").Desc())

	if companyID != nil {
		query = query.Where(goqu.Ex{"d.company_id": *companyID})
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var flats []flatDeviceAssignment
	if err := query.Executor().ScanStructs(&flats); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	details := make([]models.DeviceAssignmentDetail, 0, len(flats))
	for i := range flats {
		details = append(details, flats[i].transform())
	}

	return details, nil
}

type flatLicenseAssignment struct {
	ID           int        `db:"id"`
	LicenseID    int        `db:"license_id"`
	EmployeeID   int        `db:"employee_id"`
	AssignedDate time.Time  `db:"assigned_date"`
	RevokedDate  *time.Time `db:"revoked_date"`
	Status       string     `db:"status"`
	Notes        *string    `db:"notes"`
	AssignedBy   string     `db:"assigned_by"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`

	LicenseName   string `db:"license_name"`
	LicenseVendor string `db:"license_vendor"`
	EmployeeFirst string `db:"employee_first_name"`
	EmployeeLast  string `db:"employee_last_name"`
	EmployeeEmail string `db:"employee_email"`
}

func (f *flatLicenseAssignment) transform() models.LicenseAssignmentDetail {
	return models.LicenseAssignmentDetail{
		LicenseAssignment: models.LicenseAssignment{
			ID:           f.ID,
			LicenseID:    f.LicenseID,
			EmployeeID:   f.EmployeeID,
			AssignedDate: f.AssignedDate,
			RevokedDate:  f.RevokedDate,
			Status:       metadata.AssignmentStatus(f.Status),
			Notes:        f.Notes,
			AssignedBy:   f.AssignedBy,
			CreatedAt:    f.CreatedAt,
			UpdatedAt:    f.UpdatedAt,
		},
		License: models.LicenseSummary{
			ID:     f.LicenseID,
			Name:   f.LicenseName,
			Vendor: f.LicenseVendor,
		},
		Employee: models.EmployeeSummary{
			ID:    f.EmployeeID,
			Name:  f.EmployeeFirst + " " + f.EmployeeLast,
			Email: f.EmployeeEmail,
		},
	}
}

func (r *activityRepository) GetRecentLicenseAssignments(companyID *int, limit uint) ([]models.LicenseAssignmentDetail, error) {
	query := r.Repo.GoquDBWrapper.
		Select(
			goqu.I("la.id").As("id"),
			goqu.I("la.license_id").As("license_id"),
			goqu.I("la.employee_id").As("employee_id"),
			goqu.I("la.assigned_date").As("assigned_date"),
			goqu.I("la.revoked_date").As("revoked_date"),
			goqu.I("la.status").As("status"),
			goqu.I("la.notes").As("notes"),
			goqu.I("la.assigned_by").As("assigned_by"),
			goqu.I("la.created_at").As("created_at"),
			goqu.I("la.updated_at").As("updated_at"),
			goqu.I("l.name").As("license_name"),
			goqu.I("l.vendor").As("license_vendor"),
			goqu.I("e.first_name").As("employee_first_name"),
			goqu.I("e.last_name").As("employee_last_name"),
			goqu.I("e.email").As("employee_email"),
		).
		From(goqu.T("license_assignments").As("la")).
		Join(
			goqu.T("licenses").As("l"),
			goqu.On(goqu.Ex{"la.license_id": goqu.I("l.id")}),
		).
		Join(
			goqu.T("employees").As("e"),
			goqu.On(goqu.Ex{"la.employee_id": goqu.I("e.id")}),
		).
		Order(goqu.I("la.created_at").Desc())

	if companyID != nil {
		query = query.Where(goqu.Ex{"l.company_id": *companyID})
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var flats []flatLicenseAssignment
	if err := query.Executor().ScanStructs(&flats); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	details := make([]models.LicenseAssignmentDetail, 0, len(flats))
	for i := range flats {
		details = append(details, flats[i].transform())
	}

	return details, nil
}

type flatPhoneAssignment struct {
	ID              int        `db:"id"`
	PhoneContractID int        `db:"phone_contract_id"`
	EmployeeID      int        `db:"employee_id"`
	AssignedDate    time.Time  `db:"assigned_date"`
	ReturnDate      *time.Time `db:"return_date"`
	Status          string     `db:"status"`
	Notes           *string    `db:"notes"`
	AssignedBy      string     `db:"assigned_by"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`

	Provider      string `db:"contract_provider"`
	PhoneNumber   string `db:"contract_phone_number"`
	EmployeeFirst string `db:"employee_first_name"`
	EmployeeLast  string `db:"employee_last_name"`
	EmployeeEmail string `db:"employee_email"`
}

func (f *flatPhoneAssignment) transform() models.PhoneAssignmentDetail {
	return models.PhoneAssignmentDetail{
		PhoneAssignment: models.PhoneAssignment{
			ID:              f.ID,
			PhoneContractID: f.PhoneContractID,
			EmployeeID:      f.EmployeeID,
			AssignedDate:    f.AssignedDate,
			ReturnDate:      f.ReturnDate,
			Status:          metadata.AssignmentStatus(f.Status),
			Notes:           f.Notes,
			AssignedBy:      f.AssignedBy,
			CreatedAt:       f.CreatedAt,
			UpdatedAt:       f.UpdatedAt,
		},
		Contract: models.ContractSummary{
			ID:          f.PhoneContractID,
			Provider:    f.Provider,
			PhoneNumber: f.PhoneNumber,
		},
		Employee: models.EmployeeSummary{
			ID:    f.EmployeeID,
			Name:  f.EmployeeFirst + " " + f.EmployeeLast,
			Email: f.EmployeeEmail,
		},
	}
}

func (r *activityRepository) GetRecentPhoneAssignments(companyID *int, limit uint) ([]models.PhoneAssignmentDetail, error) {
	query := r.Repo.GoquDBWrapper.
		Select(
			goqu.I("pa.id").As("id"),
			goqu.I("pa.phone_contract_id").As("phone_contract_id"),
			goqu.I("pa.employee_id").As("employee_id"),
			goqu.I("pa.assigned_date").As("assigned_date"),
			goqu.I("pa.return_date").As("return_date"),
			goqu.I("pa.status").As("status"),
			goqu.I("pa.notes").As("notes"),
			goqu.I("pa.assigned_by").As("assigned_by"),
			goqu.I("pa.created_at").As("created_at"),
			goqu.I("pa.updated_at").As("updated_at"),
			goqu.I("pc.provider").As("contract_provider"),
			goqu.I("pc.phone_number").As("contract_phone_number"),
			goqu.I("e.first_name").As("employee_first_name"),
			goqu.I("e.last_name").As("employee_last_name"),
			goqu.I("e.email").As("employee_email"),
		).
		From(goqu.T("phone_assignments").As("pa")).
		Join(
			goqu.T("phone_contracts").As("pc"),
			goqu.On(goqu.Ex{"pa.phone_contract_id": goqu.I("pc.id")}),
		).
		Join(
			goqu.T("employees").As("e"),
			goqu.On(goqu.Ex{"pa.employee_id": goqu.I("e.id")}),
		).
		Order(goqu.I("pa.created_at").Desc())

	if companyID != nil {
		query = query.Where(goqu.Ex{"pc.company_id": *companyID})
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var flats []flatPhoneAssignment
	if err := query.Executor().ScanStructs(&flats); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	details := make([]models.PhoneAssignmentDetail, 0, len(flats))
	for i := range flats {
		details = append(details, flats[i].transform())
	}

	return details, nil
}
