package licenses

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"github.com/kunoez/ks-inventory-sub000/internal/repository"
	custom_error "github.com/kunoez/ks-inventory-sub000/pkg/errors"
	"github.com/kunoez/ks-inventory-sub000/pkg/metadata"
	"github.com/kunoez/ks-inventory-sub000/pkg/models"
)

// activeSeats derives the display value of current_users from the active
// assignment rows instead of trusting the stored counter.
var activeSeats = goqu.L(
	"(SELECT COUNT(*) FROM license_assignments la WHERE la.license_id = licenses.id AND la.status = 'active')",
).As("current_users")

var licenseColumns = []interface{}{
	"id", "company_id", "name", "vendor", "license_key", "max_users",
	activeSeats, "status", "expiry_date", "created_at", "updated_at",
}

type LicenseFilter struct {
	CompanyID *int
	Status    *metadata.LicenseStatus
}

type LicenseRepository struct {
	Repository *repository.Repository
}

func NewLicenseRepository(r *repository.Repository) *LicenseRepository {
	return &LicenseRepository{Repository: r}
}

func (r *LicenseRepository) GetLicenses(filter LicenseFilter) ([]models.License, error) {
	licenses := []models.License{}
	query := r.Repository.GoquDBWrapper.
		Select(licenseColumns...).
		From("licenses").
		Order(goqu.I("name").Asc())

	if filter.CompanyID != nil {
		query = query.Where(goqu.Ex{"company_id": *filter.CompanyID})
	}
	if filter.Status != nil {
		query = query.Where(goqu.Ex{"status": *filter.Status})
	}

	if err := query.Executor().ScanStructs(&licenses); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return licenses, nil
}

func (r *LicenseRepository) GetLicense(licenseID int) (*models.License, error) {
	var license models.License
	query := r.Repository.GoquDBWrapper.
		Select(licenseColumns...).
		From("licenses").
		Where(goqu.Ex{"id": licenseID})

	found, err := query.Executor().ScanStruct(&license)
	if err != nil {
		return nil, fmt.Errorf("failed to get license: %w", err)
	}
	if !found {
		return nil, custom_error.NotFound("license %d not found", licenseID)
	}

	return &license, nil
}

func (r *LicenseRepository) PersistLicense(license *models.License) error {
	query := r.Repository.GoquDBWrapper.Insert("licenses").
		Rows(goqu.Record{
			"company_id":  license.CompanyID,
			"name":        license.Name,
			"vendor":      license.Vendor,
			"license_key": license.LicenseKey,
			"max_users":   license.MaxUsers,
			"status":      metadata.LicenseActive,
			"expiry_date": license.ExpiryDate,
		}).
		Returning("id", "status", "created_at", "updated_at")

	if _, err := query.Executor().ScanStruct(license); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return custom_error.WrapDBError("Company does not exist", string(pqErr.Code))
		}
		return fmt.Errorf("failed to insert license record: %w", err)
	}

	return nil
}

func (r *LicenseRepository) CountActiveAssignments(licenseID int) (int, error) {
	var count int
	query := r.Repository.GoquDBWrapper.
		Select(goqu.COUNT("*")).
		From("license_assignments").
		Where(goqu.Ex{"license_id": licenseID, "status": "active"})

	if _, err := query.Executor().ScanVal(&count); err != nil {
		return 0, fmt.Errorf("failed to count active assignments: %w", err)
	}

	return count, nil
}

// UpdateLicense applies a partial edit. Shrinking max_users below the count
// of active assignments is rejected; existing holders are never revoked as a
// side effect of an edit.
func (r *LicenseRepository) UpdateLicense(licenseID int, req UpdateLicenseRequest) (*models.License, error) {
	updates := goqu.Record{"updated_at": goqu.L("NOW()")}

	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Vendor != nil {
		updates["vendor"] = *req.Vendor
	}
	if req.LicenseKey != nil {
		updates["license_key"] = *req.LicenseKey
	}
	if req.MaxUsers != nil {
		activeCount, err := r.CountActiveAssignments(licenseID)
		if err != nil {
			return nil, err
		}
		if *req.MaxUsers < activeCount {
			return nil, custom_error.Conflict("license %d has %d active assignments, cannot shrink to %d seats", licenseID, activeCount, *req.MaxUsers)
		}
		updates["max_users"] = *req.MaxUsers
	}
	if req.Status != nil {
		status, err := metadata.NewLicenseStatus(*req.Status)
		if err != nil {
			return nil, custom_error.InvalidState("%s", err.Error())
		}
		updates["status"] = status
	}
	if req.ExpiryDate != nil {
		updates["expiry_date"] = *req.ExpiryDate
	}

	query := r.Repository.GoquDBWrapper.
		Update("licenses").
		Set(updates).
		Where(goqu.Ex{"id": licenseID}).
		Returning("id", "company_id", "name", "vendor", "license_key", "max_users",
			"current_users", "status", "expiry_date", "created_at", "updated_at")

	var license models.License
	found, err := query.Executor().ScanStruct(&license)
	if err != nil {
		return nil, fmt.Errorf("failed to update license: %w", err)
	}
	if !found {
		return nil, custom_error.NotFound("license %d not found", licenseID)
	}

	return &license, nil
}

func (r *LicenseRepository) RemoveLicense(licenseID int) error {
	result, err := r.Repository.GoquDBWrapper.
		Delete("licenses").
		Where(goqu.Ex{"id": licenseID}).
		Executor().Exec()
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return custom_error.WrapDBError("License still has assignment history", string(pqErr.Code))
		}
		return fmt.Errorf("failed to delete license: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return custom_error.NotFound("license %d not found", licenseID)
	}

	return nil
}
