package assignments

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kunoez/ks-inventory-sub000/pkg/auditlog"
	custom_error "github.com/kunoez/ks-inventory-sub000/pkg/errors"
	"github.com/kunoez/ks-inventory-sub000/pkg/security"
)

type AssignmentHandler struct {
	Engine   *Service
	Activity *ActivityService
	AuditLog *auditlog.Auditlog
}

func NewHandler(engine *Service, activity *ActivityService, a *auditlog.Auditlog) *AssignmentHandler {
	return &AssignmentHandler{
		Engine:   engine,
		Activity: activity,
		AuditLog: a,
	}
}

func (h *AssignmentHandler) RegisterRoutes(router *gin.Engine) {
	group := router.Group("/assignments")

	group.POST("/devices", h.AssignDevice)
	group.POST("/licenses", h.AssignLicense)
	group.POST("/phones", h.AssignPhoneContract)
	group.PUT("/devices/:id/return", h.ReturnDevice)
	group.POST("/devices/unassign", h.UnassignDevice)
	group.PUT("/licenses/:id/revoke", h.RevokeLicense)
	group.POST("/licenses/unassign", h.UnassignLicense)
	group.POST("/licenses/:id/recompute", h.RecomputeLicenseSeats)
	group.PUT("/phones/:id/return", h.ReturnPhoneContract)

	group.GET("/activity", h.GetRecentActivity)
	group.GET("/devices", h.GetDeviceAssignments)
	group.GET("/licenses", h.GetLicenseAssignments)
	group.GET("/phones", h.GetPhoneAssignments)
}

// respondWithError maps the engine's typed errors onto HTTP statuses.
// Anything untyped is a storage failure: the transaction is already
// rolled back, so the caller may safely retry.
func respondWithError(c *gin.Context, err error) {
	switch {
	case custom_error.IsNotFound(err):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case custom_error.IsConflict(err):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
	case custom_error.IsInvalidState(err):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Operation failed, no changes were applied", "details": err.Error()})
	}
}

func getAssignmentID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid assignment ID"})
		return 0, false
	}
	return id, true
}

func (h *AssignmentHandler) AssignDevice(c *gin.Context) {
	var req AssignDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	assignment, err := h.Engine.AssignDevice(req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	go h.AuditLog.Log(
		"assign",
		map[string]interface{}{
			"device_id":   assignment.DeviceID,
			"employee_id": assignment.EmployeeID,
			"actor":       req.AssignedBy,
		},
		assignment,
	)

	c.JSON(http.StatusCreated, assignment)
}

func (h *AssignmentHandler) AssignLicense(c *gin.Context) {
	var req AssignLicenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	assignment, err := h.Engine.AssignLicense(req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	go h.AuditLog.Log(
		"assign",
		map[string]interface{}{
			"license_id":  assignment.LicenseID,
			"employee_id": assignment.EmployeeID,
			"actor":       req.AssignedBy,
		},
		assignment,
	)

	c.JSON(http.StatusCreated, assignment)
}

func (h *AssignmentHandler) AssignPhoneContract(c *gin.Context) {
	var req AssignPhoneContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	assignment, err := h.Engine.AssignPhoneContract(req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	go h.AuditLog.Log(
		"assign",
		map[string]interface{}{
			"phone_contract_id": assignment.PhoneContractID,
			"employee_id":       assignment.EmployeeID,
			"actor":             req.AssignedBy,
		},
		assignment,
	)

	c.JSON(http.StatusCreated, assignment)
}

func (h *AssignmentHandler) ReturnDevice(c *gin.Context) {
	assignmentID, ok := getAssignmentID(c)
	if !ok {
		return
	}

	assignment, err := h.Engine.ReturnDevice(assignmentID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	actor, _ := security.GetUsernameFromToken(c)
	go h.AuditLog.Log(
		"return",
		map[string]interface{}{
			"device_id":   assignment.DeviceID,
			"employee_id": assignment.EmployeeID,
			"actor":       actor,
		},
		assignment,
	)

	c.JSON(http.StatusOK, assignment)
}

func (h *AssignmentHandler) UnassignDevice(c *gin.Context) {
	var req UnassignDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	assignment, err := h.Engine.UnassignDeviceByDeviceID(req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	go h.AuditLog.Log(
		"unassign",
		map[string]interface{}{
			"device_id":   assignment.DeviceID,
			"employee_id": assignment.EmployeeID,
			"actor":       req.ReturnedBy,
		},
		assignment,
	)

	c.JSON(http.StatusOK, assignment)
}

func (h *AssignmentHandler) RevokeLicense(c *gin.Context) {
	assignmentID, ok := getAssignmentID(c)
	if !ok {
		return
	}

	assignment, err := h.Engine.RevokeLicense(assignmentID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	actor, _ := security.GetUsernameFromToken(c)
	go h.AuditLog.Log(
		"revoke",
		map[string]interface{}{
			"license_id":  assignment.LicenseID,
			"employee_id": assignment.EmployeeID,
			"actor":       actor,
		},
		assignment,
	)

	c.JSON(http.StatusOK, assignment)
}

func (h *AssignmentHandler) UnassignLicense(c *gin.Context) {
	var req UnassignLicenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	closed, err := h.Engine.UnassignLicenseByLicenseID(req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	for i := range closed {
		go h.AuditLog.Log(
			"unassign",
			map[string]interface{}{
				"license_id":  closed[i].LicenseID,
				"employee_id": closed[i].EmployeeID,
				"actor":       req.ReturnedBy,
			},
			&closed[i],
		)
	}

	c.JSON(http.StatusOK, closed)
}

func (h *AssignmentHandler) RecomputeLicenseSeats(c *gin.Context) {
	licenseID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid license ID"})
		return
	}

	currentUsers, err := h.Engine.RecomputeCurrentUsers(licenseID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"license_id": licenseID, "current_users": currentUsers})
}

func (h *AssignmentHandler) ReturnPhoneContract(c *gin.Context) {
	assignmentID, ok := getAssignmentID(c)
	if !ok {
		return
	}

	assignment, err := h.Engine.ReturnPhoneContract(assignmentID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	actor, _ := security.GetUsernameFromToken(c)
	go h.AuditLog.Log(
		"return",
		map[string]interface{}{
			"phone_contract_id": assignment.PhoneContractID,
			"employee_id":       assignment.EmployeeID,
			"actor":             actor,
		},
		assignment,
	)

	c.JSON(http.StatusOK, assignment)
}

func companyIDFromQuery(c *gin.Context) (*int, bool) {
	raw := c.Query("company_id")
	if raw == "" {
		return nil, true
	}

	id, err := strconv.Atoi(raw)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid company_id"})
		return nil, false
	}
	return &id, true
}

func (h *AssignmentHandler) GetRecentActivity(c *gin.Context) {
	companyID, ok := companyIDFromQuery(c)
	if !ok {
		return
	}

	feed, err := h.Activity.GetRecentActivity(companyID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to load activity", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, feed)
}

func (h *AssignmentHandler) GetDeviceAssignments(c *gin.Context) {
	companyID, ok := companyIDFromQuery(c)
	if !ok {
		return
	}

	assignments, err := h.Activity.repo.GetRecentDeviceAssignments(companyID, 0)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to load device assignments", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, assignments)
}

func (h *AssignmentHandler) GetLicenseAssignments(c *gin.Context) {
	companyID, ok := companyIDFromQuery(c)
	if !ok {
		return
	}

	assignments, err := h.Activity.repo.GetRecentLicenseAssignments(companyID, 0)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to load license assignments", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, assignments)
}

func (h *AssignmentHandler) GetPhoneAssignments(c *gin.Context) {
	companyID, ok := companyIDFromQuery(c)
	if !ok {
		return
	}

	assignments, err := h.Activity.repo.GetRecentPhoneAssignments(companyID, 0)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to load phone assignments", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, assignments)
}
