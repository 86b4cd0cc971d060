package licenses

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kunoez/ks-inventory-sub000/pkg/auditlog"
	custom_error "github.com/kunoez/ks-inventory-sub000/pkg/errors"
	"github.com/kunoez/ks-inventory-sub000/pkg/metadata"
	"github.com/kunoez/ks-inventory-sub000/pkg/models"
)

type LicenseHandler struct {
	Repository *LicenseRepository
	AuditLog   *auditlog.Auditlog
}

func NewLicenseHandler(r *LicenseRepository, a *auditlog.Auditlog) *LicenseHandler {
	return &LicenseHandler{Repository: r, AuditLog: a}
}

func (h *LicenseHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/licenses", h.CreateLicense)
	router.GET("/licenses", h.GetLicenses)
	router.GET("/licenses/:id", h.GetLicense)
	router.PATCH("/licenses/:id", h.UpdateLicense)
	router.DELETE("/licenses/:id", h.RemoveLicense)
}

func getLicenseID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid license ID"})
		return 0, false
	}
	return id, true
}

func (h *LicenseHandler) GetLicenses(c *gin.Context) {
	var filter LicenseFilter

	if raw := c.Query("company_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid company_id"})
			return
		}
		filter.CompanyID = &id
	}
	if raw := c.Query("status"); raw != "" {
		status, err := metadata.NewLicenseStatus(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		filter.Status = &status
	}

	licenses, err := h.Repository.GetLicenses(filter)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not list licenses", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, licenses)
}

func (h *LicenseHandler) GetLicense(c *gin.Context) {
	licenseID, ok := getLicenseID(c)
	if !ok {
		return
	}

	license, err := h.Repository.GetLicense(licenseID)
	if custom_error.IsNotFound(err) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not get license", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, license)
}

func (h *LicenseHandler) CreateLicense(c *gin.Context) {
	var req CreateLicenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	license := models.License{
		CompanyID:  req.CompanyID,
		Name:       req.Name,
		Vendor:     req.Vendor,
		LicenseKey: req.LicenseKey,
		MaxUsers:   req.MaxUsers,
		ExpiryDate: req.ExpiryDate,
	}

	err := h.Repository.PersistLicense(&license)
	if _, ok := err.(*custom_error.ForeignKeyViolationError); ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Could not insert license, company does not exist", "details": err.Error()})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not insert license", "details": err.Error()})
		return
	}

	go h.AuditLog.Log("create", map[string]interface{}{"vendor": license.Vendor, "max_users": license.MaxUsers}, &license)

	c.JSON(http.StatusCreated, license)
}

func (h *LicenseHandler) UpdateLicense(c *gin.Context) {
	licenseID, ok := getLicenseID(c)
	if !ok {
		return
	}

	var req UpdateLicenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	license, err := h.Repository.UpdateLicense(licenseID, req)
	if custom_error.IsNotFound(err) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	} else if custom_error.IsConflict(err) {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	} else if custom_error.IsInvalidState(err) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not update license", "details": err.Error()})
		return
	}

	go h.AuditLog.Log("update", map[string]interface{}{"max_users": license.MaxUsers}, license)

	c.JSON(http.StatusOK, license)
}

// RemoveLicense refuses while seats are occupied; revoke the assignments
// first so the seat accounting closes out cleanly.
func (h *LicenseHandler) RemoveLicense(c *gin.Context) {
	licenseID, ok := getLicenseID(c)
	if !ok {
		return
	}

	activeCount, err := h.Repository.CountActiveAssignments(licenseID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not delete license", "details": err.Error()})
		return
	}
	if activeCount > 0 {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "License still has active assignments"})
		return
	}

	err = h.Repository.RemoveLicense(licenseID)
	if _, ok := err.(*custom_error.ForeignKeyViolationError); ok {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Could not delete license", "details": err.Error()})
		return
	} else if custom_error.IsNotFound(err) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not delete license", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "License deleted successfully"})
}
