package dashboard

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/kunoez/ks-inventory-sub000/internal/repository"
)

// Summary is the aggregate snapshot behind the dashboard landing page.
type Summary struct {
	Devices struct {
		Total     int `json:"total"`
		Available int `json:"available"`
		Assigned  int `json:"assigned"`
	} `json:"devices"`
	Licenses struct {
		Total     int `json:"total"`
		SeatsMax  int `json:"seats_max"`
		SeatsUsed int `json:"seats_used"`
	} `json:"licenses"`
	PhoneContracts struct {
		Total    int `json:"total"`
		Assigned int `json:"assigned"`
	} `json:"phone_contracts"`
	Employees         int `json:"employees"`
	ActiveAssignments int `json:"active_assignments"`
}

type DashboardRepository struct {
	Repository *repository.Repository
}

func NewDashboardRepository(r *repository.Repository) *DashboardRepository {
	return &DashboardRepository{Repository: r}
}

func (r *DashboardRepository) GetSummary(companyID *int) (*Summary, error) {
	var summary Summary
	var err error

	if summary.Devices.Total, err = r.count("devices", companyID, goqu.I("deleted_at").IsNull()); err != nil {
		return nil, err
	}
	if summary.Devices.Available, err = r.count("devices", companyID, goqu.I("deleted_at").IsNull(), goqu.Ex{"status": "available"}); err != nil {
		return nil, err
	}
	if summary.Devices.Assigned, err = r.count("devices", companyID, goqu.I("deleted_at").IsNull(), goqu.Ex{"status": "assigned"}); err != nil {
		return nil, err
	}

	if summary.Licenses.Total, err = r.count("licenses", companyID); err != nil {
		return nil, err
	}
	if summary.Licenses.SeatsMax, err = r.sum("licenses", "max_users", companyID); err != nil {
		return nil, err
	}
	if summary.Licenses.SeatsUsed, err = r.activeLicenseSeats(companyID); err != nil {
		return nil, err
	}

	if summary.PhoneContracts.Total, err = r.count("phone_contracts", companyID); err != nil {
		return nil, err
	}
	if summary.PhoneContracts.Assigned, err = r.count("phone_contracts", companyID, goqu.Ex{"status": "assigned"}); err != nil {
		return nil, err
	}

	if summary.Employees, err = r.count("employees", companyID, goqu.I("deleted_at").IsNull()); err != nil {
		return nil, err
	}

	summary.ActiveAssignments, err = r.activeAssignments(companyID)
	if err != nil {
		return nil, err
	}

	return &summary, nil
}

func (r *DashboardRepository) count(table string, companyID *int, conditions ...goqu.Expression) (int, error) {
	query := r.Repository.GoquDBWrapper.
		Select(goqu.COUNT("*")).
		From(table).
		Where(conditions...)

	if companyID != nil {
		query = query.Where(goqu.Ex{"company_id": *companyID})
	}

	var count int
	if _, err := query.Executor().ScanVal(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}

	return count, nil
}

func (r *DashboardRepository) sum(table, column string, companyID *int) (int, error) {
	query := r.Repository.GoquDBWrapper.
		Select(goqu.COALESCE(goqu.SUM(column), 0)).
		From(table)

	if companyID != nil {
		query = query.Where(goqu.Ex{"company_id": *companyID})
	}

	var total int
	if _, err := query.Executor().ScanVal(&total); err != nil {
		return 0, fmt.Errorf("failed to sum %s.%s: %w", table, column, err)
	}

	return total, nil
}

func (r *DashboardRepository) activeLicenseSeats(companyID *int) (int, error) {
	query := r.Repository.GoquDBWrapper.
		Select(goqu.COUNT("*")).
		From(goqu.T("license_assignments").As("la")).
		InnerJoin(
			goqu.T("licenses").As("l"),
			goqu.On(goqu.Ex{"la.license_id": goqu.I("l.id")}),
		).
		Where(goqu.Ex{"la.status": "active"})

	if companyID != nil {
		query = query.Where(goqu.Ex{"l.company_id": *companyID})
	}

	var count int
	if _, err := query.Executor().ScanVal(&count); err != nil {
		return 0, fmt.Errorf("failed to count active license seats: %w", err)
	}

	return count, nil
}

// activeAssignments sums the three streams. Each stream joins to its
// resource so the company scope applies to the resource owner.
func (r *DashboardRepository) activeAssignments(companyID *int) (int, error) {
	type stream struct {
		assignmentTable string
		resourceTable   string
		foreignKey      string
	}

	streams := []stream{
		{"device_assignments", "devices", "device_id"},
		{"license_assignments", "licenses", "license_id"},
		{"phone_assignments", "phone_contracts", "phone_contract_id"},
	}

	total := 0
	for _, s := range streams {
		query := r.Repository.GoquDBWrapper.
			Select(goqu.COUNT("*")).
			From(goqu.T(s.assignmentTable).As("a")).
			InnerJoin(
				goqu.T(s.resourceTable).As("r"),
				goqu.On(goqu.Ex{"a." + s.foreignKey: goqu.I("r.id")}),
			).
			Where(goqu.Ex{"a.status": "active"})

		if companyID != nil {
			query = query.Where(goqu.Ex{"r.company_id": *companyID})
		}

		var count int
		if _, err := query.Executor().ScanVal(&count); err != nil {
			return 0, fmt.Errorf("failed to count active %s: %w", s.assignmentTable, err)
		}
		total += count
	}

	return total, nil
}
