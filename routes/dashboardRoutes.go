package routes

import (
	"github.com/Kariqs/goneer-api/controllers"
	"github.com/Kariqs/goneer-api/middlewares"
	"github.com/gin-gonic/gin"
)

func DashboardRoutes(server *gin.Engine, c *controllers.Controller) {
	server.GET("/vendor/dashboard", middlewares.RequireVendor(), c.GetVendorDashboard)
	server.GET("/admin/dashboard", middlewares.RequireAdmin(), c.GetAdminDashboard)
}
