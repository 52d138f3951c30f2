package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storefront-be/internal/cart"
)

type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) GetMyCart(ctx context.Context) (*cart.Cart, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartService) AddItem(ctx context.Context, params cart.AddItemParams) (string, error) {
	args := m.Called(ctx, params)
	return args.String(0), args.Error(1)
}

func (m *MockCartService) RemoveItem(ctx context.Context, productID string, variantID *string) (string, error) {
	args := m.Called(ctx, productID, variantID)
	return args.String(0), args.Error(1)
}

func (m *MockCartService) ApplyPromoCode(ctx context.Context, code string) (string, error) {
	args := m.Called(ctx, code)
	return args.String(0), args.Error(1)
}

func newCartTestRouter(svc cart.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewCartHandler(svc).Register(r.Group("/api"))
	return r
}

func TestCartHandler_AddItem(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(MockCartService)
		svc.On("AddItem", mock.Anything, cart.AddItemParams{ProductID: "p1", Qty: 2}).
			Return("Shirt added to cart", nil)

		router := newCartTestRouter(svc)
		req := httptest.NewRequest(http.MethodPost, "/api/cart/items",
			strings.NewReader(`{"productId":"p1","qty":2}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "Shirt added to cart", body["message"])
	})

	t.Run("MissingProductID", func(t *testing.T) {
		router := newCartTestRouter(new(MockCartService))
		req := httptest.NewRequest(http.MethodPost, "/api/cart/items", strings.NewReader(`{"qty":1}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("InsufficientStockMapsTo400", func(t *testing.T) {
		svc := new(MockCartService)
		svc.On("AddItem", mock.Anything, mock.Anything).
			Return("", cart.ErrInsufficientStock)

		router := newCartTestRouter(svc)
		req := httptest.NewRequest(http.MethodPost, "/api/cart/items",
			strings.NewReader(`{"productId":"p1"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "not enough stock")
	})

	t.Run("ConflictMapsTo409", func(t *testing.T) {
		svc := new(MockCartService)
		svc.On("AddItem", mock.Anything, mock.Anything).
			Return("", cart.ErrCartConflict)

		router := newCartTestRouter(svc)
		req := httptest.NewRequest(http.MethodPost, "/api/cart/items",
			strings.NewReader(`{"productId":"p1"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestCartHandler_GetMyCart(t *testing.T) {
	svc := new(MockCartService)
	svc.On("GetMyCart", mock.Anything).Return(&cart.Cart{ID: "c1", SessionCartID: "sess1"}, nil)

	router := newCartTestRouter(svc)
	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
}
