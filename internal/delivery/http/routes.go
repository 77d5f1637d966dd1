package http

import (
	"github.com/gin-gonic/gin"

	"github.com/cropsight/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/analyze", handler.AnalyzeImage)

		products := v1.Group("/products")
		{
			products.GET("/:name/statistics", handler.ProductStatistics)
			products.GET("/:name/history", handler.ProductHistory)
			products.GET("/:name/forecast", handler.ProductForecast)
			products.GET("/:name/realtime", handler.ProductRealtime)
		}
	}

	return router
}
