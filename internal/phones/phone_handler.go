package phones

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kunoez/ks-inventory-sub000/pkg/auditlog"
	custom_error "github.com/kunoez/ks-inventory-sub000/pkg/errors"
	"github.com/kunoez/ks-inventory-sub000/pkg/metadata"
	"github.com/kunoez/ks-inventory-sub000/pkg/models"
)

type PhoneContractHandler struct {
	Repository *PhoneContractRepository
	AuditLog   *auditlog.Auditlog
}

func NewPhoneContractHandler(r *PhoneContractRepository, a *auditlog.Auditlog) *PhoneContractHandler {
	return &PhoneContractHandler{Repository: r, AuditLog: a}
}

func (h *PhoneContractHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/phone-contracts", h.CreateContract)
	router.GET("/phone-contracts", h.GetContracts)
	router.GET("/phone-contracts/:id", h.GetContract)
	router.PATCH("/phone-contracts/:id", h.UpdateContract)
	router.DELETE("/phone-contracts/:id", h.RemoveContract)
}

func getContractID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid phone contract ID"})
		return 0, false
	}
	return id, true
}

func (h *PhoneContractHandler) GetContracts(c *gin.Context) {
	var filter ContractFilter

	if raw := c.Query("company_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid company_id"})
			return
		}
		filter.CompanyID = &id
	}
	if raw := c.Query("status"); raw != "" {
		status, err := metadata.NewContractStatus(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		filter.Status = &status
	}

	contracts, err := h.Repository.GetContracts(filter)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not list phone contracts", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, contracts)
}

func (h *PhoneContractHandler) GetContract(c *gin.Context) {
	contractID, ok := getContractID(c)
	if !ok {
		return
	}

	contract, err := h.Repository.GetContract(contractID)
	if custom_error.IsNotFound(err) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not get phone contract", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, contract)
}

func (h *PhoneContractHandler) CreateContract(c *gin.Context) {
	var req CreatePhoneContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	contract := models.PhoneContract{
		CompanyID:   req.CompanyID,
		Provider:    req.Provider,
		PhoneNumber: req.PhoneNumber,
		Plan:        req.Plan,
	}

	err := h.Repository.PersistContract(&contract)
	if _, ok := err.(*custom_error.UniqueViolationError); ok {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Could not insert phone contract, number not unique", "details": err.Error()})
		return
	} else if _, ok := err.(*custom_error.ForeignKeyViolationError); ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Could not insert phone contract, company does not exist", "details": err.Error()})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not insert phone contract", "details": err.Error()})
		return
	}

	go h.AuditLog.Log("create", map[string]interface{}{"provider": contract.Provider, "phone_number": contract.PhoneNumber}, &contract)

	c.JSON(http.StatusCreated, contract)
}

func (h *PhoneContractHandler) UpdateContract(c *gin.Context) {
	contractID, ok := getContractID(c)
	if !ok {
		return
	}

	var req UpdatePhoneContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	contract, err := h.Repository.UpdateContract(contractID, req)
	if custom_error.IsNotFound(err) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	} else if custom_error.IsInvalidState(err) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	} else if _, ok := err.(*custom_error.UniqueViolationError); ok {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Could not update phone contract, number not unique", "details": err.Error()})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not update phone contract", "details": err.Error()})
		return
	}

	go h.AuditLog.Log("update", map[string]interface{}{"provider": contract.Provider}, contract)

	c.JSON(http.StatusOK, contract)
}

func (h *PhoneContractHandler) RemoveContract(c *gin.Context) {
	contractID, ok := getContractID(c)
	if !ok {
		return
	}

	hasActive, err := h.Repository.HasActiveAssignment(contractID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not delete phone contract", "details": err.Error()})
		return
	}
	if hasActive {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Phone contract is still assigned"})
		return
	}

	err = h.Repository.RemoveContract(contractID)
	if _, ok := err.(*custom_error.ForeignKeyViolationError); ok {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Could not delete phone contract", "details": err.Error()})
		return
	} else if custom_error.IsNotFound(err) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not delete phone contract", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Phone contract deleted successfully"})
}
