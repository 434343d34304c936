package app

import (
	"time"

	"github.com/Kariqs/goneer-api/controllers"
	"github.com/Kariqs/goneer-api/logger"
	"github.com/Kariqs/goneer-api/metrics"
	"github.com/Kariqs/goneer-api/middlewares"
	"github.com/Kariqs/goneer-api/routes"
	"github.com/Kariqs/goneer-api/session"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RouterConfig struct {
	Production  bool
	CORSOrigins []string
	// UploadDir is served under /uploads when set.
	UploadDir string
}

func NewRouter(cfg RouterConfig, log *zap.Logger, m *metrics.Metrics, store *session.Store, tokens *session.Tokens, c *controllers.Controller) *gin.Engine {
	if cfg.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	server := gin.New()
	server.Use(logger.GinMiddleware(log), logger.Recovery(log), m.Middleware())
	server.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middlewares.SessionHeader},
		ExposeHeaders:    []string{"Content-Length", middlewares.SessionHeader, "Location"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	server.GET("/metrics", gin.WrapH(m.Handler()))
	if cfg.UploadDir != "" {
		server.Static(uploadsPath, cfg.UploadDir)
	}

	server.Use(middlewares.Session(store, tokens, cfg.Production))
	routes.DefaultRoutes(server, c)
	routes.AuthRoutes(server, c)
	routes.ProductRoutes(server, c)
	routes.CartRoutes(server, c)
	routes.OrderRoutes(server, c)
	routes.DashboardRoutes(server, c)
	return server
}
