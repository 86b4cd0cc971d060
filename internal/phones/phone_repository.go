package phones

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"github.com/kunoez/ks-inventory-sub000/internal/repository"
	custom_error "github.com/kunoez/ks-inventory-sub000/pkg/errors"
	"github.com/kunoez/ks-inventory-sub000/pkg/metadata"
	"github.com/kunoez/ks-inventory-sub000/pkg/models"
)

var contractColumns = []interface{}{
	"id", "company_id", "provider", "phone_number", "plan", "status",
	"created_at", "updated_at",
}

type ContractFilter struct {
	CompanyID *int
	Status    *metadata.ContractStatus
}

type PhoneContractRepository struct {
	Repository *repository.Repository
}

func NewPhoneContractRepository(r *repository.Repository) *PhoneContractRepository {
	return &PhoneContractRepository{Repository: r}
}

func (r *PhoneContractRepository) GetContracts(filter ContractFilter) ([]models.PhoneContract, error) {
	contracts := []models.PhoneContract{}
	query := r.Repository.GoquDBWrapper.
		Select(contractColumns...).
		From("phone_contracts").
		Order(goqu.I("provider").Asc(), goqu.I("phone_number").Asc())

	if filter.CompanyID != nil {
		query = query.Where(goqu.Ex{"company_id": *filter.CompanyID})
	}
	if filter.Status != nil {
		query = query.Where(goqu.Ex{"status": *filter.Status})
	}

	if err := query.Executor().ScanStructs(&contracts); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return contracts, nil
}

func (r *PhoneContractRepository) GetContract(contractID int) (*models.PhoneContract, error) {
	var contract models.PhoneContract
	query := r.Repository.GoquDBWrapper.
		Select(contractColumns...).
		From("phone_contracts").
		Where(goqu.Ex{"id": contractID})

	found, err := query.Executor().ScanStruct(&contract)
	if err != nil {
		return nil, fmt.Errorf("failed to get phone contract: %w", err)
	}
	if !found {
		return nil, custom_error.NotFound("phone contract %d not found", contractID)
	}

	return &contract, nil
}

func (r *PhoneContractRepository) PersistContract(contract *models.PhoneContract) error {
	query := r.Repository.GoquDBWrapper.Insert("phone_contracts").
		Rows(goqu.Record{
			"company_id":   contract.CompanyID,
			"provider":     contract.Provider,
			"phone_number": contract.PhoneNumber,
			"plan":         contract.Plan,
			"status":       metadata.ContractActive,
		}).
		Returning("id", "status", "created_at", "updated_at")

	if _, err := query.Executor().ScanStruct(contract); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				return custom_error.WrapDBError("Phone number already under contract", string(pqErr.Code))
			case "23503":
				return custom_error.WrapDBError("Company does not exist", string(pqErr.Code))
			}
		}
		return fmt.Errorf("failed to insert phone contract record: %w", err)
	}

	return nil
}

func (r *PhoneContractRepository) UpdateContract(contractID int, req UpdatePhoneContractRequest) (*models.PhoneContract, error) {
	updates := goqu.Record{"updated_at": goqu.L("NOW()")}

	if req.Provider != nil {
		updates["provider"] = *req.Provider
	}
	if req.PhoneNumber != nil {
		updates["phone_number"] = *req.PhoneNumber
	}
	if req.Plan != nil {
		updates["plan"] = *req.Plan
	}
	if req.Status != nil {
		status, err := metadata.NewContractStatus(*req.Status)
		if err != nil {
			return nil, custom_error.InvalidState("%s", err.Error())
		}
		updates["status"] = status
	}

	query := r.Repository.GoquDBWrapper.
		Update("phone_contracts").
		Set(updates).
		Where(goqu.Ex{"id": contractID}).
		Returning(contractColumns...)

	var contract models.PhoneContract
	found, err := query.Executor().ScanStruct(&contract)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, custom_error.WrapDBError("Phone number already under contract", string(pqErr.Code))
		}
		return nil, fmt.Errorf("failed to update phone contract: %w", err)
	}
	if !found {
		return nil, custom_error.NotFound("phone contract %d not found", contractID)
	}

	return &contract, nil
}

func (r *PhoneContractRepository) HasActiveAssignment(contractID int) (bool, error) {
	var count int
	query := r.Repository.GoquDBWrapper.
		Select(goqu.COUNT("*")).
		From("phone_assignments").
		Where(goqu.Ex{"phone_contract_id": contractID, "status": "active"})

	if _, err := query.Executor().ScanVal(&count); err != nil {
		return false, fmt.Errorf("failed to count active assignments: %w", err)
	}

	return count > 0, nil
}

func (r *PhoneContractRepository) RemoveContract(contractID int) error {
	result, err := r.Repository.GoquDBWrapper.
		Delete("phone_contracts").
		Where(goqu.Ex{"id": contractID}).
		Executor().Exec()
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return custom_error.WrapDBError("Phone contract still has assignment history", string(pqErr.Code))
		}
		return fmt.Errorf("failed to delete phone contract: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return custom_error.NotFound("phone contract %d not found", contractID)
	}

	return nil
}
