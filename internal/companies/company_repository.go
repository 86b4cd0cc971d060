package companies

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"github.com/kunoez/ks-inventory-sub000/internal/repository"
	custom_error "github.com/kunoez/ks-inventory-sub000/pkg/errors"
	"github.com/kunoez/ks-inventory-sub000/pkg/models"
)

type CompanyRepository struct {
	Repository *repository.Repository
}

func NewCompanyRepository(r *repository.Repository) *CompanyRepository {
	return &CompanyRepository{Repository: r}
}

func (r *CompanyRepository) GetCompanies() ([]models.Company, error) {
	companies := []models.Company{}
	query := r.Repository.GoquDBWrapper.
		Select("id", "name", "address", "created_at", "updated_at").
		From("companies").
		Order(goqu.I("name").Asc())

	if err := query.Executor().ScanStructs(&companies); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return companies, nil
}

func (r *CompanyRepository) GetCompany(companyID int) (*models.Company, error) {
	var company models.Company
	query := r.Repository.GoquDBWrapper.
		Select("id", "name", "address", "created_at", "updated_at").
		From("companies").
		Where(goqu.Ex{"id": companyID})

	found, err := query.Executor().ScanStruct(&company)
	if err != nil {
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	if !found {
		return nil, custom_error.NotFound("company %d not found", companyID)
	}

	return &company, nil
}

func (r *CompanyRepository) PersistCompany(company *models.Company) error {
	query := r.Repository.GoquDBWrapper.Insert("companies").
		Rows(goqu.Record{
			"name":    company.Name,
			"address": company.Address,
		}).
		Returning("id", "created_at", "updated_at")

	if _, err := query.Executor().ScanStruct(company); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return custom_error.WrapDBError("Company name already in use", string(pqErr.Code))
		}
		return fmt.Errorf("failed to insert company record: %w", err)
	}

	return nil
}

func (r *CompanyRepository) UpdateCompany(companyID int, req UpdateCompanyRequest) (*models.Company, error) {
	updates := goqu.Record{"updated_at": goqu.L("NOW()")}

	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}

	query := r.Repository.GoquDBWrapper.
		Update("companies").
		Set(updates).
		Where(goqu.Ex{"id": companyID}).
		Returning("id", "name", "address", "created_at", "updated_at")

	var company models.Company
	found, err := query.Executor().ScanStruct(&company)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, custom_error.WrapDBError("Company name already in use", string(pqErr.Code))
		}
		return nil, fmt.Errorf("failed to update company: %w", err)
	}
	if !found {
		return nil, custom_error.NotFound("company %d not found", companyID)
	}

	return &company, nil
}

func (r *CompanyRepository) RemoveCompany(companyID int) error {
	result, err := r.Repository.GoquDBWrapper.
		Delete("companies").
		Where(goqu.Ex{"id": companyID}).
		Executor().Exec()
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return custom_error.WrapDBError("Company still has resources attached", string(pqErr.Code))
		}
		return fmt.Errorf("failed to delete company: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return custom_error.NotFound("company %d not found", companyID)
	}

	return nil
}
