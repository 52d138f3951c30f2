package transport

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront-be/internal/cart"
	"storefront-be/internal/logger"
	"storefront-be/internal/order"
	"storefront-be/internal/payment"
	"storefront-be/internal/product"
	"storefront-be/internal/promo"
	"storefront-be/internal/settings"
	"storefront-be/internal/tracking"
	"storefront-be/internal/user"
)

// respondError maps domain sentinels to HTTP statuses. Unknown errors are
// logged and reported generically.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, order.ErrNotAuthenticated):
		status = http.StatusUnauthorized
		message = err.Error()
	case errors.Is(err, order.ErrUnauthorized):
		status = http.StatusForbidden
		message = err.Error()

	case errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, tracking.ErrOrderNotFound),
		errors.Is(err, cart.ErrCartNotFound),
		errors.Is(err, product.ErrProductNotFound),
		errors.Is(err, product.ErrVariantNotFound),
		errors.Is(err, promo.ErrPromoNotFound),
		errors.Is(err, user.ErrUserNotFound):
		status = http.StatusNotFound
		message = err.Error()

	case errors.Is(err, order.ErrAlreadyPaid),
		errors.Is(err, cart.ErrCartConflict):
		status = http.StatusConflict
		message = err.Error()

	case errors.Is(err, cart.ErrCartEmpty),
		errors.Is(err, cart.ErrNoCartIdentity),
		errors.Is(err, cart.ErrItemNotFound),
		errors.Is(err, cart.ErrInsufficientStock),
		errors.Is(err, promo.ErrInvalidPromoCode),
		errors.Is(err, order.ErrNotPaid),
		errors.Is(err, tracking.ErrNotTracked):
		status = http.StatusBadRequest
		message = err.Error()

	case errors.Is(err, order.ErrPaymentVerificationFailed):
		status = http.StatusPaymentRequired
		message = err.Error()

	case errors.Is(err, payment.ErrUpstreamUnavailable),
		errors.Is(err, tracking.ErrCarrier),
		errors.Is(err, settings.ErrUnavailable):
		status = http.StatusBadGateway
		message = err.Error()
	}

	if status == http.StatusInternalServerError {
		logger.FromCtx(c.Request.Context()).Error("unhandled error", zap.Error(err))
	}

	c.JSON(status, gin.H{"success": false, "message": message})
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}
