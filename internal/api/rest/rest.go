package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/brightblock/tokensale/internal/api/middleware"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, authCfg middleware.AuthConfig) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Provider webhook (authenticated by signature verification, not headers)
		v1.POST("/webhooks/stripe", handler.StripeWebhook)

		// Purchase endpoints (buyer JWT required)
		v1.POST("/payment/create-intent", middleware.Auth(authCfg), handler.CreatePaymentIntent)
		v1.GET("/transactions", middleware.Auth(authCfg), handler.ListTransactions)
		v1.GET("/transactions/stats", middleware.Auth(authCfg), handler.GetTransactionStats)
		v1.GET("/transactions/:id", middleware.Auth(authCfg), handler.GetTransaction)

		// Admin endpoints (API key required)
		admin := v1.Group("", middleware.APIKeyAuth(authCfg))
		{
			admin.POST("/transactions/:id/retry", handler.RetryTransaction)
			admin.GET("/admin/fulfillments/pending", handler.ListPendingFulfillments)
			admin.POST("/admin/fulfillments/:id/fulfill", handler.FulfillTransaction)
			admin.PUT("/admin/fulfillments/:id/status", handler.UpdateFulfillmentStatus)
			admin.POST("/admin/fulfillments/:id/transfer", handler.TransferTokens)
			admin.GET("/admin/token-config", handler.GetTokenConfig)
			admin.PUT("/admin/token-config", handler.UpdateTokenConfig)
			admin.POST("/admin/reconcile", handler.RunReconciliation)
		}
	}
}
