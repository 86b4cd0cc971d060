package employees

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"github.com/kunoez/ks-inventory-sub000/internal/repository"
	custom_error "github.com/kunoez/ks-inventory-sub000/pkg/errors"
	"github.com/kunoez/ks-inventory-sub000/pkg/models"
)

var employeeColumns = []interface{}{
	"id", "company_id", "first_name", "last_name", "email", "position",
	"deleted_at", "created_at", "updated_at",
}

type EmployeeRepository struct {
	Repository *repository.Repository
}

func NewEmployeeRepository(r *repository.Repository) *EmployeeRepository {
	return &EmployeeRepository{Repository: r}
}

// GetEmployees lists non-deleted employees, optionally scoped to one company.
func (r *EmployeeRepository) GetEmployees(companyID *int) ([]models.Employee, error) {
	employees := []models.Employee{}
	query := r.Repository.GoquDBWrapper.
		Select(employeeColumns...).
		From("employees").
		Where(goqu.I("deleted_at").IsNull()).
		Order(goqu.I("last_name").Asc(), goqu.I("first_name").Asc())

	if companyID != nil {
		query = query.Where(goqu.Ex{"company_id": *companyID})
	}

	if err := query.Executor().ScanStructs(&employees); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return employees, nil
}

func (r *EmployeeRepository) GetEmployee(employeeID int) (*models.Employee, error) {
	var employee models.Employee
	query := r.Repository.GoquDBWrapper.
		Select(employeeColumns...).
		From("employees").
		Where(goqu.Ex{"id": employeeID}, goqu.I("deleted_at").IsNull())

	found, err := query.Executor().ScanStruct(&employee)
	if err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	if !found {
		return nil, custom_error.NotFound("employee %d not found", employeeID)
	}

	return &employee, nil
}

func (r *EmployeeRepository) PersistEmployee(employee *models.Employee) error {
	query := r.Repository.GoquDBWrapper.Insert("employees").
		Rows(goqu.Record{
			"company_id": employee.CompanyID,
			"first_name": employee.FirstName,
			"last_name":  employee.LastName,
			"email":      employee.Email,
			"position":   employee.Position,
		}).
		Returning("id", "created_at", "updated_at")

	if _, err := query.Executor().ScanStruct(employee); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				return custom_error.WrapDBError("Employee email already in use", string(pqErr.Code))
			case "23503":
				return custom_error.WrapDBError("Company does not exist", string(pqErr.Code))
			}
		}
		return fmt.Errorf("failed to insert employee record: %w", err)
	}

	return nil
}

func (r *EmployeeRepository) UpdateEmployee(employeeID int, req UpdateEmployeeRequest) (*models.Employee, error) {
	updates := goqu.Record{"updated_at": goqu.L("NOW()")}

	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Position != nil {
		updates["position"] = *req.Position
	}

	query := r.Repository.GoquDBWrapper.
		Update("employees").
		Set(updates).
		Where(goqu.Ex{"id": employeeID}, goqu.I("deleted_at").IsNull()).
		Returning(employeeColumns...)

	var employee models.Employee
	found, err := query.Executor().ScanStruct(&employee)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, custom_error.WrapDBError("Employee email already in use", string(pqErr.Code))
		}
		return nil, fmt.Errorf("failed to update employee: %w", err)
	}
	if !found {
		return nil, custom_error.NotFound("employee %d not found", employeeID)
	}

	return &employee, nil
}

// HasActiveAssignments reports whether any device, license or phone
// assignment of the employee is still active.
func (r *EmployeeRepository) HasActiveAssignments(employeeID int) (bool, error) {
	for _, table := range []string{"device_assignments", "license_assignments", "phone_assignments"} {
		var count int
		query := r.Repository.GoquDBWrapper.
			Select(goqu.COUNT("*")).
			From(table).
			Where(goqu.Ex{"employee_id": employeeID, "status": "active"})

		if _, err := query.Executor().ScanVal(&count); err != nil {
			return false, fmt.Errorf("failed to count active assignments in %s: %w", table, err)
		}
		if count > 0 {
			return true, nil
		}
	}

	return false, nil
}

// RemoveEmployee soft-deletes the row. History stays queryable through the
// assignment tables.
func (r *EmployeeRepository) RemoveEmployee(employeeID int) error {
	result, err := r.Repository.GoquDBWrapper.
		Update("employees").
		Set(goqu.Record{"deleted_at": goqu.L("NOW()"), "updated_at": goqu.L("NOW()")}).
		Where(goqu.Ex{"id": employeeID}, goqu.I("deleted_at").IsNull()).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return custom_error.NotFound("employee %d not found", employeeID)
	}

	return nil
}
