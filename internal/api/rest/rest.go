package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/openpredict/market-api/internal/api/middleware"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, authCfg middleware.AuthConfig) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Identity-provider webhook (signature-verified, no bearer auth)
		v1.POST("/webhooks/identity", handler.IdentityWebhook)

		// Market catalog endpoints (public read access)
		v1.GET("/questions", handler.ListQuestions)
		v1.GET("/questions/:id", handler.GetQuestion)
		v1.GET("/questions/:id/price-history", handler.GetPriceHistory)
		v1.GET("/questions/:id/order-book", handler.GetOrderBook)

		// Current user (requires authentication)
		v1.GET("/users/me", middleware.Auth(authCfg), handler.GetCurrentUser)
	}
}
