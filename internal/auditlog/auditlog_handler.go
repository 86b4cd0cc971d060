package auditlog

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Resource types that carry an audit trail.
var knownResourceTypes = map[string]bool{
	"device":             true,
	"license":            true,
	"phone_contract":     true,
	"device_assignment":  true,
	"license_assignment": true,
	"phone_assignment":   true,
}

type AuditLogHandler struct {
	Repository *AuditLogRepository
}

func NewHandler(r *AuditLogRepository) *AuditLogHandler {
	return &AuditLogHandler{Repository: r}
}

func (h *AuditLogHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/audit-logs/:resource_type/:id", h.GetResourceLog)
}

func (h *AuditLogHandler) GetResourceLog(c *gin.Context) {
	resourceType := c.Param("resource_type")
	if !knownResourceTypes[resourceType] {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Unknown resource type"})
		return
	}

	resourceID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid resource ID"})
		return
	}

	logs, err := h.Repository.GetResourceLog(resourceID, resourceType)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not load audit log", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, logs)
}
