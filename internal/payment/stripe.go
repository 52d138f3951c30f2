package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront-be/internal/config"
	"storefront-be/internal/logger"
	"storefront-be/internal/money"
)

const stripeAPIBaseURL = "https://api.stripe.com"

// Intent is a created Stripe payment intent. The client secret is handed to
// the frontend to confirm the payment.
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret"`
}

// StripeClient creates payment intents against the Stripe API.
type StripeClient struct {
	secretKey string
	baseURL   string
	client    *http.Client
}

func NewStripeClient(cfg *config.Config) *StripeClient {
	return &StripeClient{
		secretKey: cfg.StripeSecretKey,
		baseURL:   stripeAPIBaseURL,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (s *StripeClient) CreatePaymentIntent(ctx context.Context, amount decimal.Decimal, currency string, orderID string) (*Intent, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("gateway", "stripe"),
		zap.String("order_id", orderID),
	)

	// Stripe wants the amount in the smallest currency unit.
	cents := money.Round2(amount).Mul(decimal.NewFromInt(100)).IntPart()

	form := url.Values{}
	form.Set("amount", fmt.Sprintf("%d", cents))
	form.Set("currency", strings.ToLower(currency))
	form.Set("metadata[orderId]", orderID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.baseURL+"/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+s.secretKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Error("stripe payment intent failed", zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: payment intent returned %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	var body struct {
		ID           string `json:"id"`
		ClientSecret string `json:"client_secret"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}

	log.Info("stripe payment intent created", zap.String("intent_id", body.ID))
	return &Intent{ID: body.ID, ClientSecret: body.ClientSecret}, nil
}
