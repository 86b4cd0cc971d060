package auditlog

import (
	"log"

	auditlog_repo "github.com/kunoez/ks-inventory-sub000/internal/auditlog"
	"github.com/kunoez/ks-inventory-sub000/pkg/models"
)

// Auditlog is the fire-and-forget event sink for assignment activity.
// Handlers call Log in a goroutine after the engine transaction commits;
// a failed write is logged and swallowed, never surfaced to the caller.
type Auditlog struct {
	r *auditlog_repo.AuditLogRepository
}

type Auditable interface {
	CreateLogView() models.AuditLog
}

func NewAuditLog(repository *auditlog_repo.AuditLogRepository) *Auditlog {
	return &Auditlog{r: repository}
}

func (a *Auditlog) Log(action string, data map[string]interface{}, item Auditable) {
	auditLog := item.CreateLogView()
	auditLog.Action = action

	if err := a.r.PersistLog(auditLog, data); err != nil {
		log.Println("Unable to create AuditLog entry for id ", auditLog.ResourceID)
		return
	}
}
