package companies

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	custom_error "github.com/kunoez/ks-inventory-sub000/pkg/errors"
	"github.com/kunoez/ks-inventory-sub000/pkg/models"
)

type CompanyHandler struct {
	Repository *CompanyRepository
}

func NewCompanyHandler(r *CompanyRepository) *CompanyHandler {
	return &CompanyHandler{Repository: r}
}

func (h *CompanyHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/companies", h.CreateCompany)
	router.GET("/companies", h.GetCompanies)
	router.GET("/companies/:id", h.GetCompany)
	router.PATCH("/companies/:id", h.UpdateCompany)
	router.DELETE("/companies/:id", h.RemoveCompany)
}

func getCompanyID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid company ID"})
		return 0, false
	}
	return id, true
}

func (h *CompanyHandler) GetCompanies(c *gin.Context) {
	companies, err := h.Repository.GetCompanies()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not list companies", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, companies)
}

func (h *CompanyHandler) GetCompany(c *gin.Context) {
	companyID, ok := getCompanyID(c)
	if !ok {
		return
	}

	company, err := h.Repository.GetCompany(companyID)
	if custom_error.IsNotFound(err) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not get company", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, company)
}

func (h *CompanyHandler) CreateCompany(c *gin.Context) {
	var req CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	company := models.Company{Name: req.Name, Address: req.Address}
	err := h.Repository.PersistCompany(&company)
	if _, ok := err.(*custom_error.UniqueViolationError); ok {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Could not insert company, name not unique", "details": err.Error()})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not insert company", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, company)
}

func (h *CompanyHandler) UpdateCompany(c *gin.Context) {
	companyID, ok := getCompanyID(c)
	if !ok {
		return
	}

	var req UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	company, err := h.Repository.UpdateCompany(companyID, req)
	if custom_error.IsNotFound(err) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	} else if _, ok := err.(*custom_error.UniqueViolationError); ok {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Could not update company, name not unique", "details": err.Error()})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not update company", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, company)
}

func (h *CompanyHandler) RemoveCompany(c *gin.Context) {
	companyID, ok := getCompanyID(c)
	if !ok {
		return
	}

	err := h.Repository.RemoveCompany(companyID)
	if _, ok := err.(*custom_error.ForeignKeyViolationError); ok {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Could not delete company", "details": err.Error()})
		return
	} else if custom_error.IsNotFound(err) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not delete company", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Company deleted successfully"})
}
