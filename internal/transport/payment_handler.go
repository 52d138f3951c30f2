package transport

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront-be/internal/logger"
	"storefront-be/internal/middleware"
	"storefront-be/internal/money"
	"storefront-be/internal/order"
)

type PaymentHandler struct {
	svc order.Service
}

func NewPaymentHandler(svc order.Service) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

func (h *PaymentHandler) Register(r gin.IRouter) {
	g := r.Group("/orders/:id/pay")
	g.Use(middleware.RequireAuth())

	g.POST("/paypal", h.createPayPalOrder)
	g.POST("/paypal/capture", h.capturePayPalOrder)
	g.POST("/stripe", h.createStripeIntent)
	g.PUT("/cod", middleware.RequireAdmin(), h.markPaidCOD)
}

// RegisterWebhooks mounts the unauthenticated webhook endpoints.
func (h *PaymentHandler) RegisterWebhooks(r gin.IRouter) {
	r.POST("/webhook/stripe", h.stripeWebhook)
}

func (h *PaymentHandler) createPayPalOrder(c *gin.Context) {
	result, err := h.svc.CreatePayPalOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type capturePayPalRequest struct {
	ExternalID string `json:"externalId" binding:"required"`
}

func (h *PaymentHandler) capturePayPalOrder(c *gin.Context) {
	var req capturePayPalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	result, err := h.svc.ApprovePayPalOrder(c.Request.Context(), c.Param("id"), req.ExternalID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *PaymentHandler) createStripeIntent(c *gin.Context) {
	result, err := h.svc.CreateStripeIntent(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *PaymentHandler) markPaidCOD(c *gin.Context) {
	result, err := h.svc.MarkAsPaidCOD(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type stripeEvent struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID             string `json:"id"`
			AmountReceived int64  `json:"amount_received"`
			ReceiptEmail   string `json:"receipt_email"`
			Metadata       struct {
				OrderID string `json:"orderId"`
			} `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

// stripeWebhook records successful payment intents. Other event types are
// acknowledged and ignored.
func (h *PaymentHandler) stripeWebhook(c *gin.Context) {
	log := logger.FromCtx(c.Request.Context())

	var event stripeEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "malformed event"})
		return
	}

	if event.Type != "payment_intent.succeeded" {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "event ignored"})
		return
	}

	intent := event.Data.Object
	result := &order.PaymentResult{
		ID:           intent.ID,
		Status:       "COMPLETED",
		EmailAddress: intent.ReceiptEmail,
		PricePaid:    money.Round2(decimal.NewFromInt(intent.AmountReceived).Div(decimal.NewFromInt(100))),
	}

	if err := h.svc.MarkPaidWithResult(c.Request.Context(), intent.Metadata.OrderID, result); err != nil {
		log.Warn("stripe webhook processing failed",
			zap.String("order_id", intent.Metadata.OrderID),
			zap.Error(err),
		)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "payment recorded"})
}
