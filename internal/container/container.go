package container

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/kunoez/ks-inventory-sub000/internal/assignments"
	auditLogRepo "github.com/kunoez/ks-inventory-sub000/internal/auditlog"
	"github.com/kunoez/ks-inventory-sub000/internal/companies"
	"github.com/kunoez/ks-inventory-sub000/internal/dashboard"
	"github.com/kunoez/ks-inventory-sub000/internal/devices"
	"github.com/kunoez/ks-inventory-sub000/internal/employees"
	"github.com/kunoez/ks-inventory-sub000/internal/licenses"
	"github.com/kunoez/ks-inventory-sub000/internal/phones"
	"github.com/kunoez/ks-inventory-sub000/internal/repository"
	"github.com/kunoez/ks-inventory-sub000/internal/users"
	"github.com/kunoez/ks-inventory-sub000/pkg/auditlog"
	"github.com/kunoez/ks-inventory-sub000/pkg/security"
)

type Container struct {
	Repository        *repository.Repository
	AuditLog          *auditlog.Auditlog
	LoginHandler      *security.LoginHandler
	CompanyHandler    *companies.CompanyHandler
	EmployeeHandler   *employees.EmployeeHandler
	DeviceHandler     *devices.DeviceHandler
	LicenseHandler    *licenses.LicenseHandler
	PhoneHandler      *phones.PhoneContractHandler
	AssignmentHandler *assignments.AssignmentHandler
	DashboardHandler  *dashboard.DashboardHandler
	AuditLogHandler   *auditLogRepo.AuditLogHandler
	UserHandler       *users.UsersHandler
}

func NewAppContainer(db *sql.DB, logger *zap.Logger) *Container {
	repo := repository.NewRepository(db)

	auditRepo := auditLogRepo.NewRepository(repo)
	auditLog := auditlog.NewAuditLog(auditRepo)

	assignmentRepo := assignments.NewRepository(repo)
	engine := assignments.NewService(repo, assignmentRepo, logger)
	activityRepo := assignments.NewActivityRepository(repo)
	activity := assignments.NewActivityService(activityRepo)

	userRepo := users.NewRepository(repo)

	return &Container{
		Repository:        repo,
		AuditLog:          auditLog,
		LoginHandler:      security.NewLoginHandler(repo),
		CompanyHandler:    companies.NewCompanyHandler(companies.NewCompanyRepository(repo)),
		EmployeeHandler:   employees.NewEmployeeHandler(employees.NewEmployeeRepository(repo)),
		DeviceHandler:     devices.NewDeviceHandler(devices.NewDeviceRepository(repo), auditLog),
		LicenseHandler:    licenses.NewLicenseHandler(licenses.NewLicenseRepository(repo), auditLog),
		PhoneHandler:      phones.NewPhoneContractHandler(phones.NewPhoneContractRepository(repo), auditLog),
		AssignmentHandler: assignments.NewHandler(engine, activity, auditLog),
		DashboardHandler:  dashboard.NewDashboardHandler(dashboard.NewDashboardRepository(repo)),
		AuditLogHandler:   auditLogRepo.NewHandler(auditRepo),
		UserHandler:       users.NewHandler(userRepo),
	}
}
