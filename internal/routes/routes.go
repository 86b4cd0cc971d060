package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kunoez/ks-inventory-sub000/internal/container"
	"github.com/kunoez/ks-inventory-sub000/pkg/security"
)

func RegisterPublicRoutes(router *gin.Engine, c *container.Container) {
	c.LoginHandler.RegisterRoutes(router)
	c.CompanyHandler.RegisterRoutes(router)
	c.EmployeeHandler.RegisterRoutes(router)
	c.DeviceHandler.RegisterRoutes(router)
	c.LicenseHandler.RegisterRoutes(router)
	c.PhoneHandler.RegisterRoutes(router)
	c.AssignmentHandler.RegisterRoutes(router)
	c.DashboardHandler.RegisterRoutes(router)
	c.AuditLogHandler.RegisterRoutes(router)
}

func RegisterProtectedRoutes(router *gin.Engine, c *container.Container) {
	protectedRoutes := router.Group("")
	protectedRoutes.Use(security.JWTMiddleware())

	c.UserHandler.RegisterRoutes(protectedRoutes)
}

func RegisterUtilityRoutes(router *gin.Engine) {
	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
