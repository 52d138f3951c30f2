package transport

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storefront-be/internal/middleware"
	"storefront-be/internal/order"
)

type OrderHandler struct {
	svc order.Service
}

func NewOrderHandler(svc order.Service) *OrderHandler {
	return &OrderHandler{svc: svc}
}

func (h *OrderHandler) Register(r gin.IRouter) {
	g := r.Group("/orders")
	g.Use(middleware.RequireAuth())

	g.POST("", h.create)
	g.GET("/mine", h.listMine)
	g.GET("/:id", h.getByID)

	admin := g.Group("")
	admin.Use(middleware.RequireAdmin())
	admin.GET("", h.listAll)
	admin.DELETE("/:id", h.delete)
	admin.PUT("/:id/deliver", h.deliver)
	admin.GET("/summary", h.summary)
	admin.GET("/revenue", h.revenue)
}

func (h *OrderHandler) create(c *gin.Context) {
	result, err := h.svc.Create(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusCreated
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, result)
}

func (h *OrderHandler) getByID(c *gin.Context) {
	o, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, o)
}

func pagination(c *gin.Context) (limit, page int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	return limit, page
}

func (h *OrderHandler) listMine(c *gin.Context) {
	limit, page := pagination(c)

	orders, count, err := h.svc.ListMine(c.Request.Context(), limit, page)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       orders,
		"totalPages": totalPages(count, limit),
	})
}

func (h *OrderHandler) listAll(c *gin.Context) {
	limit, page := pagination(c)

	orders, count, err := h.svc.ListAll(c.Request.Context(), c.Query("query"), limit, page)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       orders,
		"totalPages": totalPages(count, limit),
	})
}

func totalPages(count, limit int) int {
	if limit <= 0 {
		limit = 20
	}
	return int(math.Ceil(float64(count) / float64(limit)))
}

func (h *OrderHandler) delete(c *gin.Context) {
	result, err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *OrderHandler) deliver(c *gin.Context) {
	result, err := h.svc.Deliver(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *OrderHandler) summary(c *gin.Context) {
	s, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, s)
}

func (h *OrderHandler) revenue(c *gin.Context) {
	rows, err := h.svc.RevenueByPeriod(c.Request.Context(), c.DefaultQuery("period", "month"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, rows)
}
