package transport

import (
	"github.com/gin-gonic/gin"

	"storefront-be/internal/middleware"
	"storefront-be/internal/order"
	"storefront-be/internal/tracking"
)

type TrackingHandler struct {
	orderSvc    order.Service
	trackingSvc tracking.Service
}

func NewTrackingHandler(orderSvc order.Service, trackingSvc tracking.Service) *TrackingHandler {
	return &TrackingHandler{orderSvc: orderSvc, trackingSvc: trackingSvc}
}

func (h *TrackingHandler) Register(r gin.IRouter) {
	g := r.Group("/orders/:id/tracking")
	g.Use(middleware.RequireAuth())

	g.GET("", h.get)
	g.POST("/refresh", h.refresh)
}

func (h *TrackingHandler) get(c *gin.Context) {
	ctx := c.Request.Context()
	orderID := c.Param("id")

	// Ownership is enforced by the order lookup.
	if _, err := h.orderSvc.GetByID(ctx, orderID); err != nil {
		respondError(c, err)
		return
	}

	shipment, err := h.trackingSvc.Get(ctx, orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, shipment)
}

func (h *TrackingHandler) refresh(c *gin.Context) {
	ctx := c.Request.Context()
	orderID := c.Param("id")

	if _, err := h.orderSvc.GetByID(ctx, orderID); err != nil {
		respondError(c, err)
		return
	}

	info, err := h.trackingSvc.Refresh(ctx, orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, info)
}
