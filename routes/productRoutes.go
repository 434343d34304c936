package routes

import (
	"github.com/Kariqs/goneer-api/controllers"
	"github.com/Kariqs/goneer-api/middlewares"
	"github.com/gin-gonic/gin"
)

func ProductRoutes(server *gin.Engine, c *controllers.Controller) {
	server.GET("/vendors", c.GetVendors)
	server.GET("/vendors/:id", c.GetVendor)

	vendor := server.Group("/vendor/products", middlewares.RequireVendor())
	{
		vendor.POST("", c.CreateProduct)
		vendor.POST("/:id/image", c.UploadProductImage)
		vendor.DELETE("/:id", c.DeleteProduct)
	}
}
