package routes

import (
	"github.com/Kariqs/goneer-api/controllers"
	"github.com/gin-gonic/gin"
)

func CartRoutes(server *gin.Engine, c *controllers.Controller) {
	cart := server.Group("/cart")
	{
		cart.GET("", c.GetCart)
		cart.DELETE("", c.ClearCart)
		cart.POST("/items", c.AddCartItem)
		cart.PUT("/items/:productId", c.UpdateCartItem)
		cart.DELETE("/items/:productId", c.RemoveCartItem)
	}
}
