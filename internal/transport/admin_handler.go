package transport

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"storefront-be/internal/middleware"
	"storefront-be/internal/promo"
	"storefront-be/internal/settings"
)

// AdminHandler exposes store configuration: pricing settings and promo codes.
type AdminHandler struct {
	settingsSvc settings.Service
	promoRepo   promo.Repository
}

func NewAdminHandler(settingsSvc settings.Service, promoRepo promo.Repository) *AdminHandler {
	return &AdminHandler{settingsSvc: settingsSvc, promoRepo: promoRepo}
}

func (h *AdminHandler) Register(r gin.IRouter) {
	g := r.Group("/admin")
	g.Use(middleware.RequireAdmin())

	g.GET("/settings/shipping", h.getShipping)
	g.PUT("/settings/shipping", h.updateShipping)
	g.GET("/settings/tax", h.getTax)
	g.PUT("/settings/tax", h.updateTax)

	g.GET("/promos", h.listPromos)
	g.POST("/promos", h.createPromo)
	g.PUT("/promos/:id", h.updatePromo)
	g.DELETE("/promos/:id", h.deletePromo)
}

func (h *AdminHandler) getShipping(c *gin.Context) {
	s, err := h.settingsSvc.GetShipping(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{
		"baseShippingCost":       s.BaseShippingCost,
		"freeShippingThreshold":  s.FreeShippingThreshold,
		"uspsIntegrationEnabled": s.USPSIntegrationEnabled,
	})
}

type updateShippingRequest struct {
	BaseShippingCost       decimal.Decimal `json:"baseShippingCost"`
	FreeShippingThreshold  decimal.Decimal `json:"freeShippingThreshold"`
	USPSIntegrationEnabled bool            `json:"uspsIntegrationEnabled"`
}

func (h *AdminHandler) updateShipping(c *gin.Context) {
	var req updateShippingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	err := h.settingsSvc.UpdateShipping(c.Request.Context(),
		req.BaseShippingCost, req.FreeShippingThreshold, req.USPSIntegrationEnabled)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Shipping settings updated"})
}

func (h *AdminHandler) getTax(c *gin.Context) {
	t, err := h.settingsSvc.GetTax(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"taxRate": t.TaxRate})
}

type updateTaxRequest struct {
	TaxRate decimal.Decimal `json:"taxRate"`
}

func (h *AdminHandler) updateTax(c *gin.Context) {
	var req updateTaxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	if err := h.settingsSvc.UpdateTax(c.Request.Context(), req.TaxRate); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Tax settings updated"})
}

func (h *AdminHandler) listPromos(c *gin.Context) {
	codes, err := h.promoRepo.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, codes)
}

type createPromoRequest struct {
	Code           string           `json:"code" binding:"required"`
	Description    *string          `json:"description"`
	DiscountType   string           `json:"discountType" binding:"required"`
	DiscountValue  decimal.Decimal  `json:"discountValue"`
	MinOrderAmount *decimal.Decimal `json:"minOrderAmount"`
	MaxUses        *int             `json:"maxUses"`
	ExpiresAt      *time.Time       `json:"expiresAt"`
}

func (h *AdminHandler) createPromo(c *gin.Context) {
	var req createPromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	if req.DiscountType != promo.DiscountPercentage && req.DiscountType != promo.DiscountFixed {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "unknown discount type"})
		return
	}

	code, err := h.promoRepo.Create(c.Request.Context(), promo.CreateParams{
		Code:           req.Code,
		Description:    req.Description,
		DiscountType:   req.DiscountType,
		DiscountValue:  req.DiscountValue,
		MinOrderAmount: req.MinOrderAmount,
		MaxUses:        req.MaxUses,
		ExpiresAt:      nullTime(req.ExpiresAt),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": code})
}

type updatePromoRequest struct {
	Description    *string          `json:"description"`
	DiscountValue  *decimal.Decimal `json:"discountValue"`
	MinOrderAmount *decimal.Decimal `json:"minOrderAmount"`
	MaxUses        *int             `json:"maxUses"`
	IsActive       *bool            `json:"isActive"`
	ExpiresAt      *time.Time       `json:"expiresAt"`
}

func (h *AdminHandler) updatePromo(c *gin.Context) {
	var req updatePromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	err := h.promoRepo.Update(c.Request.Context(), c.Param("id"), promo.UpdateParams{
		Description:    req.Description,
		DiscountValue:  req.DiscountValue,
		MinOrderAmount: req.MinOrderAmount,
		MaxUses:        req.MaxUses,
		IsActive:       req.IsActive,
		ExpiresAt:      nullTime(req.ExpiresAt),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Promo code updated"})
}

func (h *AdminHandler) deletePromo(c *gin.Context) {
	if err := h.promoRepo.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Promo code deleted"})
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
