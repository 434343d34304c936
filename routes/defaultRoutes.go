package routes

import (
	"github.com/Kariqs/goneer-api/controllers"
	"github.com/gin-gonic/gin"
)

func DefaultRoutes(server *gin.Engine, c *controllers.Controller) {
	server.GET("/", c.GetHome)
	server.GET("/postal/:code", c.LookupPostalCode)
	server.NoRoute(controllers.NotFound)
}
