package routes

import (
	"github.com/Kariqs/goneer-api/controllers"
	"github.com/Kariqs/goneer-api/middlewares"
	"github.com/gin-gonic/gin"
)

func OrderRoutes(server *gin.Engine, c *controllers.Controller) {
	server.GET("/checkout", middlewares.RequireView("checkout"), c.GetCheckout)
	server.POST("/checkout", middlewares.RequireView("checkout"), c.PlaceOrder)
	server.GET("/orders", middlewares.RequireView("orders"), c.GetOrders)

	server.GET("/vendor/orders", middlewares.RequireVendor(), c.GetVendorOrders)
	server.POST("/vendor/orders/:orderId/:action", middlewares.RequireVendor(), c.UpdateOrderStatus)
	server.GET("/admin/orders", middlewares.RequireAdmin(), c.GetAllOrders)
}
