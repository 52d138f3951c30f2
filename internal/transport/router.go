package transport

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-be/internal/logger"
	"storefront-be/internal/metrics"
	"storefront-be/internal/middleware"
)

type Handlers struct {
	Cart     *CartHandler
	Order    *OrderHandler
	Payment  *PaymentHandler
	Tracking *TrackingHandler
	Admin    *AdminHandler
}

func NewRouter(appEnv string, h Handlers) *gin.Engine {
	if appEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestIDMiddleware())
	r.Use(logger.LoggingMiddleware())
	r.Use(middleware.AuthMiddleware())
	r.Use(middleware.RateLimitMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"orders_created":        metrics.OrdersCreated.Load(),
			"payments_captured":     metrics.PaymentsCaptured.Load(),
			"payment_verify_failed": metrics.PaymentVerifyFailed.Load(),
			"tracking_refreshes":    metrics.TrackingRefreshes.Load(),
			"receipt_send_failures": metrics.ReceiptSendFailures.Load(),
		})
	})

	h.Payment.RegisterWebhooks(r)

	api := r.Group("/api")
	h.Cart.Register(api)
	h.Order.Register(api)
	h.Payment.Register(api)
	h.Tracking.Register(api)
	h.Admin.Register(api)

	return r
}
