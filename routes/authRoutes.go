package routes

import (
	"github.com/Kariqs/goneer-api/controllers"
	"github.com/Kariqs/goneer-api/middlewares"
	"github.com/gin-gonic/gin"
)

func AuthRoutes(server *gin.Engine, c *controllers.Controller) {
	auth := server.Group("/auth")
	{
		auth.POST("/signup", c.Signup)
		auth.POST("/login", c.Login)
		auth.POST("/logout", middlewares.RequireRole(), c.Logout)
		auth.GET("/me", c.Me)
	}
}
