package payment

import (
	"bytes"
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

const defaultPayPalBaseURL = "https://api-m.sandbox.paypal.com"

// PayPalGateway talks to the PayPal Orders v2 API.
type PayPalGateway struct {
	clientID string
	secret   string
	baseURL  string
	client   *http.Client
}

func NewPayPalGateway(cfg *config.Config) *PayPalGateway {
	baseURL := cfg.PayPalBaseURL
	if baseURL == "" {
		baseURL = defaultPayPalBaseURL
	}
	return &PayPalGateway{
		clientID: cfg.PayPalClientID,
		secret:   cfg.PayPalSecret,
		baseURL:  baseURL,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

func (g *PayPalGateway) accessToken(ctx context.Context) (string, error) {
	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(g.clientID, g.secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: token request returned %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	return body.AccessToken, nil
}

func (g *PayPalGateway) CreateOrder(ctx context.Context, amount decimal.Decimal, currency string) (string, error) {
	log := logger.FromCtx(ctx).With(zap.String("gateway", "paypal"))

	token, err := g.accessToken(ctx)
	if err != nil {
		return "", err
	}

	payload := map[string]any{
		"intent": "CAPTURE",
		"purchase_units": []map[string]any{
			{
				"amount": map[string]string{
					"currency_code": currency,
					"value":         money.Round2(amount).StringFixed(2),
				},
			},
		},
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.baseURL+"/v2/checkout/orders", bytes.NewReader(raw))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		log.Error("paypal create order failed", zap.Int("status", resp.StatusCode))
		return "", fmt.Errorf("%w: create order returned %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	var body struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}

	log.Info("paypal order created", zap.String("external_id", body.ID))
	return body.ID, nil
}

func (g *PayPalGateway) CaptureOrder(ctx context.Context, externalID string) (*Capture, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("gateway", "paypal"),
		zap.String("external_id", externalID),
	)

	token, err := g.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.baseURL+"/v2/checkout/orders/"+externalID+"/capture", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		log.Error("paypal capture failed", zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: capture returned %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	var body struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Payer  struct {
			EmailAddress string `json:"email_address"`
		} `json:"payer"`
		PurchaseUnits []struct {
			Payments struct {
				Captures []struct {
					Amount struct {
						Value string `json:"value"`
					} `json:"amount"`
				} `json:"captures"`
			} `json:"payments"`
		} `json:"purchase_units"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}

	capture := &Capture{
		ID:           body.ID,
		Status:       body.Status,
		EmailAddress: body.Payer.EmailAddress,
	}
	if len(body.PurchaseUnits) > 0 && len(body.PurchaseUnits[0].Payments.Captures) > 0 {
		capture.AmountPaid = money.Parse(body.PurchaseUnits[0].Payments.Captures[0].Amount.Value)
	}

	log.Info("paypal order captured", zap.String("status", capture.Status))
	return capture, nil
}
