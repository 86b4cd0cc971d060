package employees

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	custom_error "github.com/kunoez/ks-inventory-sub000/pkg/errors"
	"github.com/kunoez/ks-inventory-sub000/pkg/models"
)

type EmployeeHandler struct {
	Repository *EmployeeRepository
}

func NewEmployeeHandler(r *EmployeeRepository) *EmployeeHandler {
	return &EmployeeHandler{Repository: r}
}

func (h *EmployeeHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/employees", h.CreateEmployee)
	router.GET("/employees", h.GetEmployees)
	router.GET("/employees/:id", h.GetEmployee)
	router.PATCH("/employees/:id", h.UpdateEmployee)
	router.DELETE("/employees/:id", h.RemoveEmployee)
}

func getEmployeeID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid employee ID"})
		return 0, false
	}
	return id, true
}

func (h *EmployeeHandler) GetEmployees(c *gin.Context) {
	var companyID *int
	if raw := c.Query("company_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid company_id"})
			return
		}
		companyID = &id
	}

	employees, err := h.Repository.GetEmployees(companyID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not list employees", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, employees)
}

func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	employeeID, ok := getEmployeeID(c)
	if !ok {
		return
	}

	employee, err := h.Repository.GetEmployee(employeeID)
	if custom_error.IsNotFound(err) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not get employee", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, employee)
}

func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	employee := models.Employee{
		CompanyID: req.CompanyID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Position:  req.Position,
	}

	err := h.Repository.PersistEmployee(&employee)
	if _, ok := err.(*custom_error.UniqueViolationError); ok {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Could not insert employee, email not unique", "details": err.Error()})
		return
	} else if _, ok := err.(*custom_error.ForeignKeyViolationError); ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Could not insert employee, company does not exist", "details": err.Error()})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not insert employee", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, employee)
}

func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	employeeID, ok := getEmployeeID(c)
	if !ok {
		return
	}

	var req UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	employee, err := h.Repository.UpdateEmployee(employeeID, req)
	if custom_error.IsNotFound(err) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	} else if _, ok := err.(*custom_error.UniqueViolationError); ok {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Could not update employee, email not unique", "details": err.Error()})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not update employee", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, employee)
}

// RemoveEmployee refuses to delete while the employee still holds anything.
// Returning the equipment first keeps assignment history attached to a live
// employee row until it is truly closed out.
func (h *EmployeeHandler) RemoveEmployee(c *gin.Context) {
	employeeID, ok := getEmployeeID(c)
	if !ok {
		return
	}

	hasActive, err := h.Repository.HasActiveAssignments(employeeID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not delete employee", "details": err.Error()})
		return
	}
	if hasActive {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Employee still has active assignments"})
		return
	}

	err = h.Repository.RemoveEmployee(employeeID)
	if custom_error.IsNotFound(err) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not delete employee", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Employee deleted successfully"})
}
