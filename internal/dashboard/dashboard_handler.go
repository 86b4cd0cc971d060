package dashboard

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	Repository *DashboardRepository
}

func NewDashboardHandler(r *DashboardRepository) *DashboardHandler {
	return &DashboardHandler{Repository: r}
}

func (h *DashboardHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/dashboard/summary", h.GetSummary)
}

func (h *DashboardHandler) GetSummary(c *gin.Context) {
	var companyID *int
	if raw := c.Query("company_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid company_id"})
			return
		}
		companyID = &id
	}

	summary, err := h.Repository.GetSummary(companyID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not build dashboard summary", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}
