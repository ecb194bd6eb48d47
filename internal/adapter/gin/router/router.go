package router

import (
	"net/http"

	"usercodec/internal/adapter/gin/handler"
	"usercodec/internal/adapter/gin/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupRouter configures and returns a Gin router with all routes and middleware.
// rateLimiter may be nil.
func SetupRouter(
	userHandler *handler.UserHandler,
	rateLimiter *middleware.RateLimiter,
	serviceName string,
	log *zap.Logger,
) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": serviceName,
		})
	})

	// API v1 routes
	v1 := router.Group("/v1")
	if rateLimiter != nil {
		v1.Use(rateLimiter.Middleware())
	}
	{
		users := v1.Group("/users")
		{
			users.POST("/decode", userHandler.Decode)
			users.POST("/decode/batch", userHandler.DecodeBatch)
		}
	}

	return router
}
