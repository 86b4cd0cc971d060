package devices

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	custom_error "github.com/kunoez/ks-inventory-sub000/pkg/errors"
	"github.com/kunoez/ks-inventory-sub000/pkg/auditlog"
	"github.com/kunoez/ks-inventory-sub000/pkg/metadata"
	"github.com/kunoez/ks-inventory-sub000/pkg/models"
)

type DeviceHandler struct {
	Repository *DeviceRepository
	AuditLog   *auditlog.Auditlog
}

func NewDeviceHandler(r *DeviceRepository, a *auditlog.Auditlog) *DeviceHandler {
	return &DeviceHandler{Repository: r, AuditLog: a}
}

func (h *DeviceHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/devices", h.CreateDevice)
	router.GET("/devices", h.GetDevices)
	router.GET("/devices/:id", h.GetDevice)
	router.PATCH("/devices/:id", h.UpdateDevice)
	router.DELETE("/devices/:id", h.RemoveDevice)
}

func getDeviceID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid device ID"})
		return 0, false
	}
	return id, true
}

func (h *DeviceHandler) GetDevices(c *gin.Context) {
	var filter DeviceFilter

	if raw := c.Query("company_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid company_id"})
			return
		}
		filter.CompanyID = &id
	}
	if raw := c.Query("status"); raw != "" {
		status, err := metadata.NewDeviceStatus(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		filter.Status = &status
	}
	if raw := c.Query("type"); raw != "" {
		filter.Type = &raw
	}

	devices, err := h.Repository.GetDevices(filter)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not list devices", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, devices)
}

func (h *DeviceHandler) GetDevice(c *gin.Context) {
	deviceID, ok := getDeviceID(c)
	if !ok {
		return
	}

	device, err := h.Repository.GetDevice(deviceID)
	if custom_error.IsNotFound(err) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not get device", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, device)
}

func (h *DeviceHandler) CreateDevice(c *gin.Context) {
	var req CreateDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	device := models.Device{
		CompanyID:    req.CompanyID,
		Name:         req.Name,
		Type:         req.Type,
		Brand:        req.Brand,
		Model:        req.Model,
		SerialNumber: req.SerialNumber,
	}

	err := h.Repository.PersistDevice(&device)
	if _, ok := err.(*custom_error.UniqueViolationError); ok {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Could not insert device, serial number not unique", "details": err.Error()})
		return
	} else if _, ok := err.(*custom_error.ForeignKeyViolationError); ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Could not insert device, company does not exist", "details": err.Error()})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not insert device", "details": err.Error()})
		return
	}

	go h.AuditLog.Log("create", map[string]interface{}{"serial_number": device.SerialNumber}, &device)

	c.JSON(http.StatusCreated, device)
}

func (h *DeviceHandler) UpdateDevice(c *gin.Context) {
	deviceID, ok := getDeviceID(c)
	if !ok {
		return
	}

	var req UpdateDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	device, err := h.Repository.UpdateDevice(deviceID, req)
	if custom_error.IsNotFound(err) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	} else if custom_error.IsInvalidState(err) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	} else if _, ok := err.(*custom_error.UniqueViolationError); ok {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Could not update device, serial number not unique", "details": err.Error()})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not update device", "details": err.Error()})
		return
	}

	go h.AuditLog.Log("update", map[string]interface{}{"serial_number": device.SerialNumber}, device)

	c.JSON(http.StatusOK, device)
}

// RemoveDevice refuses while an active assignment exists; the device must be
// returned through the assignment flow first.
func (h *DeviceHandler) RemoveDevice(c *gin.Context) {
	deviceID, ok := getDeviceID(c)
	if !ok {
		return
	}

	hasActive, err := h.Repository.HasActiveAssignment(deviceID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not delete device", "details": err.Error()})
		return
	}
	if hasActive {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Device is still assigned"})
		return
	}

	err = h.Repository.RemoveDevice(deviceID)
	if custom_error.IsNotFound(err) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not delete device", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Device deleted successfully"})
}
