package order

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront-be/internal/cart"
	"storefront-be/internal/logger"
	"storefront-be/internal/metrics"
	"storefront-be/internal/money"
	"storefront-be/internal/payment"
	"storefront-be/internal/tracking"
	"storefront-be/internal/user"
	"storefront-be/internal/utils"
)

// ReceiptSender delivers a purchase receipt for a paid order.
type ReceiptSender interface {
	SendReceipt(ctx context.Context, o *Order) error
}

// IntentCreator creates a card payment intent for an order total.
type IntentCreator interface {
	CreatePaymentIntent(ctx context.Context, amount decimal.Decimal, currency string, orderID string) (*payment.Intent, error)
}

type Service interface {
	// Create converts the caller's cart into an order. Precondition failures
	// come back as an unsuccessful Result with a redirect, not as an error.
	Create(ctx context.Context) (*Result, error)

	GetByID(ctx context.Context, id string) (*Order, error)
	ListMine(ctx context.Context, limit, page int) ([]*Order, int, error)
	ListAll(ctx context.Context, query string, limit, page int) ([]*Order, int, error)

	CreatePayPalOrder(ctx context.Context, orderID string) (*Result, error)
	ApprovePayPalOrder(ctx context.Context, orderID, externalID string) (*Result, error)
	CreateStripeIntent(ctx context.Context, orderID string) (*Result, error)
	MarkPaidWithResult(ctx context.Context, orderID string, result *PaymentResult) error
	MarkAsPaidCOD(ctx context.Context, orderID string) (*Result, error)

	Deliver(ctx context.Context, orderID string) (*Result, error)
	Delete(ctx context.Context, orderID string) (*Result, error)
	Summary(ctx context.Context) (*Summary, error)
	RevenueByPeriod(ctx context.Context, period string) ([]RevenueRow, error)
}

type service struct {
	repo        Repository
	cartSvc     cart.Service
	userRepo    user.Repository
	gateway     payment.Gateway
	intents     IntentCreator
	trackingSvc tracking.Service
	receipts    ReceiptSender
}

func NewService(
	repo Repository,
	cartSvc cart.Service,
	userRepo user.Repository,
	gateway payment.Gateway,
	intents IntentCreator,
	trackingSvc tracking.Service,
	receipts ReceiptSender,
) Service {
	return &service{
		repo:        repo,
		cartSvc:     cartSvc,
		userRepo:    userRepo,
		gateway:     gateway,
		intents:     intents,
		trackingSvc: trackingSvc,
		receipts:    receipts,
	}
}

func (s *service) Create(ctx context.Context) (*Result, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Create"),
	)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrNotAuthenticated
	}

	myCart, err := s.cartSvc.GetMyCart(ctx)
	if err != nil {
		return nil, err
	}
	if myCart == nil || len(myCart.Items) == 0 {
		return &Result{Success: false, Message: "Your cart is empty", RedirectTo: "/cart"}, nil
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var address ShippingAddress
	if len(u.Address) > 0 {
		if err := json.Unmarshal(u.Address, &address); err != nil {
			log.Warn("stored shipping address is malformed", zap.Error(err))
		}
	}
	if !address.Valid() {
		return &Result{Success: false, Message: ErrMissingShippingAddress.Error(), RedirectTo: "/shipping-address"}, nil
	}

	if u.PaymentMethod == nil || *u.PaymentMethod == "" {
		return &Result{Success: false, Message: ErrMissingPaymentMethod.Error(), RedirectTo: "/payment-method"}, nil
	}

	o := &Order{
		UserID:          userID,
		ShippingAddress: address,
		PaymentMethod:   *u.PaymentMethod,
		ItemsPrice:      myCart.ItemsPrice,
		ShippingPrice:   myCart.ShippingPrice,
		TaxPrice:        myCart.TaxPrice,
		TotalPrice:      myCart.TotalPrice,
	}
	for _, li := range myCart.Items {
		o.Items = append(o.Items, Item{
			ProductID: li.ProductID,
			VariantID: li.VariantID,
			Name:      li.Name,
			Slug:      li.Slug,
			Image:     li.Image,
			Price:     li.Price,
			Qty:       li.Qty,
		})
	}

	orderID, err := s.repo.CreateTx(ctx, o, myCart.ID, myCart.Version)
	if err != nil {
		return nil, err
	}

	metrics.OrdersCreated.Inc()

	// Tracking issuance is best effort: a failure here never fails the order.
	go func(ctx context.Context) {
		if _, err := s.trackingSvc.Issue(ctx, orderID); err != nil {
			logger.FromCtx(ctx).Warn("tracking issuance failed",
				zap.String("order_id", orderID),
				zap.Error(err),
			)
		}
	}(context.WithoutCancel(ctx))

	log.Info("order created", zap.String("order_id", orderID))
	return &Result{
		Success:    true,
		Message:    "Order created",
		RedirectTo: fmt.Sprintf("/order/%s", orderID),
		Data:       orderID,
	}, nil
}

// GetByID returns the order when the caller owns it or is an admin.
func (s *service) GetByID(ctx context.Context, id string) (*Order, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrNotAuthenticated
	}

	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if o.UserID != userID && utils.GetUserRoleFromContext(ctx) != utils.RoleAdmin {
		return nil, ErrUnauthorized
	}
	return o, nil
}

func (s *service) ListMine(ctx context.Context, limit, page int) ([]*Order, int, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, 0, ErrNotAuthenticated
	}
	return s.repo.ListMine(ctx, userID, limit, page)
}

func (s *service) ListAll(ctx context.Context, query string, limit, page int) ([]*Order, int, error) {
	return s.repo.ListAll(ctx, query, limit, page)
}

// CreatePayPalOrder reserves a PayPal order for the total and stores a
// placeholder payment result holding the external id. The approve step later
// verifies the capture against that id.
func (s *service) CreatePayPalOrder(ctx context.Context, orderID string) (*Result, error) {
	o, err := s.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.IsPaid {
		return nil, ErrAlreadyPaid
	}

	externalID, err := s.gateway.CreateOrder(ctx, o.TotalPrice, "USD")
	if err != nil {
		return nil, err
	}

	placeholder := &PaymentResult{ID: externalID, Status: "", EmailAddress: "", PricePaid: decimal.Zero}
	if err := s.repo.SetPaymentResult(ctx, orderID, placeholder); err != nil {
		return nil, err
	}

	return &Result{Success: true, Message: "PayPal order created", Data: externalID}, nil
}

// ApprovePayPalOrder captures the buyer-approved PayPal order and verifies
// the gateway's answer before the paid transition: the captured id must match
// the one stored at create time and the status must be COMPLETED.
func (s *service) ApprovePayPalOrder(ctx context.Context, orderID, externalID string) (*Result, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ApprovePayPalOrder"),
		zap.String("order_id", orderID),
	)

	o, err := s.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.IsPaid {
		return nil, ErrAlreadyPaid
	}

	capture, err := s.gateway.CaptureOrder(ctx, externalID)
	if err != nil {
		return nil, err
	}

	if o.PaymentResult == nil ||
		capture.ID != o.PaymentResult.ID ||
		capture.Status != "COMPLETED" {
		metrics.PaymentVerifyFailed.Inc()
		log.Warn("payment verification failed",
			zap.String("captured_id", capture.ID),
			zap.String("captured_status", capture.Status),
		)
		return nil, ErrPaymentVerificationFailed
	}

	result := &PaymentResult{
		ID:           capture.ID,
		Status:       capture.Status,
		EmailAddress: capture.EmailAddress,
		PricePaid:    money.Round2(capture.AmountPaid),
	}
	if err := s.markPaid(ctx, orderID, result); err != nil {
		return nil, err
	}

	return &Result{Success: true, Message: "Your order has been paid"}, nil
}

func (s *service) CreateStripeIntent(ctx context.Context, orderID string) (*Result, error) {
	o, err := s.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.IsPaid {
		return nil, ErrAlreadyPaid
	}

	intent, err := s.intents.CreatePaymentIntent(ctx, o.TotalPrice, "USD", orderID)
	if err != nil {
		return nil, err
	}

	return &Result{Success: true, Message: "Payment intent created", Data: intent}, nil
}

// MarkPaidWithResult is the webhook entry point: the result shape is
// validated before the transition is attempted.
func (s *service) MarkPaidWithResult(ctx context.Context, orderID string, result *PaymentResult) error {
	if !result.Valid() {
		return ErrPaymentVerificationFailed
	}
	return s.markPaid(ctx, orderID, result)
}

// MarkAsPaidCOD records a cash-on-delivery payment. There is no gateway
// result to store.
func (s *service) MarkAsPaidCOD(ctx context.Context, orderID string) (*Result, error) {
	if err := s.markPaid(ctx, orderID, nil); err != nil {
		return nil, err
	}
	return &Result{Success: true, Message: "Order marked as paid"}, nil
}

// markPaid runs the paid transition and fires the receipt. The receipt is
// best effort and only sent when the stored order passes shape validation.
func (s *service) markPaid(ctx context.Context, orderID string, result *PaymentResult) error {
	if err := s.repo.MarkAsPaid(ctx, orderID, result); err != nil {
		return err
	}

	metrics.PaymentsCaptured.Inc()

	go func(ctx context.Context) {
		log := logger.FromCtx(ctx).With(zap.String("order_id", orderID))

		o, err := s.repo.GetByID(ctx, orderID)
		if err != nil {
			metrics.ReceiptSendFailures.Inc()
			log.Warn("receipt skipped, order reload failed", zap.Error(err))
			return
		}
		// COD orders carry no payment result and get no receipt.
		if !o.IsPaid || !o.ShippingAddress.Valid() || !o.PaymentResult.Valid() {
			log.Warn("receipt skipped, order not in sendable shape")
			return
		}

		if err := s.receipts.SendReceipt(ctx, o); err != nil {
			metrics.ReceiptSendFailures.Inc()
			log.Warn("receipt send failed", zap.Error(err))
		}
	}(context.WithoutCancel(ctx))

	return nil
}

// Deliver marks a paid order delivered. Unpaid orders are rejected.
func (s *service) Deliver(ctx context.Context, orderID string) (*Result, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.IsPaid {
		return nil, ErrNotPaid
	}

	if err := s.repo.MarkDelivered(ctx, orderID); err != nil {
		return nil, err
	}
	return &Result{Success: true, Message: "Order marked as delivered"}, nil
}

func (s *service) Delete(ctx context.Context, orderID string) (*Result, error) {
	if err := s.repo.Delete(ctx, orderID); err != nil {
		return nil, err
	}
	return &Result{Success: true, Message: "Order deleted"}, nil
}

func (s *service) Summary(ctx context.Context) (*Summary, error) {
	return s.repo.Summary(ctx)
}

func (s *service) RevenueByPeriod(ctx context.Context, period string) ([]RevenueRow, error) {
	return s.repo.RevenueByPeriod(ctx, period)
}
