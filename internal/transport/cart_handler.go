package transport

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-be/internal/cart"
)

type CartHandler struct {
	svc cart.Service
}

func NewCartHandler(svc cart.Service) *CartHandler {
	return &CartHandler{svc: svc}
}

func (h *CartHandler) Register(r gin.IRouter) {
	g := r.Group("/cart")
	g.GET("", h.getMyCart)
	g.POST("/items", h.addItem)
	g.DELETE("/items", h.removeItem)
	g.POST("/promo", h.applyPromo)
}

func (h *CartHandler) getMyCart(c *gin.Context) {
	myCart, err := h.svc.GetMyCart(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, myCart)
}

type addItemRequest struct {
	ProductID string  `json:"productId" binding:"required"`
	VariantID *string `json:"variantId"`
	Qty       int     `json:"qty"`
}

func (h *CartHandler) addItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	msg, err := h.svc.AddItem(c.Request.Context(), cart.AddItemParams{
		ProductID: req.ProductID,
		VariantID: req.VariantID,
		Qty:       req.Qty,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": msg})
}

type removeItemRequest struct {
	ProductID string  `json:"productId" binding:"required"`
	VariantID *string `json:"variantId"`
}

func (h *CartHandler) removeItem(c *gin.Context) {
	var req removeItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	msg, err := h.svc.RemoveItem(c.Request.Context(), req.ProductID, req.VariantID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": msg})
}

type applyPromoRequest struct {
	Code string `json:"code" binding:"required"`
}

func (h *CartHandler) applyPromo(c *gin.Context) {
	var req applyPromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	msg, err := h.svc.ApplyPromoCode(c.Request.Context(), req.Code)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": msg})
}
