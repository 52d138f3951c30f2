package tracking

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"storefront-be/internal/config"
	"storefront-be/internal/logger"
)

// Carrier looks up the current state of a shipment by tracking number.
type Carrier interface {
	Track(ctx context.Context, trackingNumber string) (*Info, error)
}

const defaultUSPSBaseURL = "https://apis.usps.com"

// USPSCarrier queries the USPS Tracking v3 API.
type USPSCarrier struct {
	consumerKey    string
	consumerSecret string
	baseURL        string
	client         *http.Client
}

func NewUSPSCarrier(cfg *config.Config) *USPSCarrier {
	return &USPSCarrier{
		consumerKey:    cfg.USPSConsumerKey,
		consumerSecret: cfg.USPSConsumerSecret,
		baseURL:        defaultUSPSBaseURL,
		client:         &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *USPSCarrier) accessToken(ctx context.Context) (string, error) {
	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.consumerKey},
		"client_secret": {c.consumerSecret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/oauth2/v3/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCarrier, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: token request returned %d", ErrCarrier, resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	return body.AccessToken, nil
}

func (c *USPSCarrier) Track(ctx context.Context, trackingNumber string) (*Info, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("carrier", "usps"),
		zap.String("tracking_number", trackingNumber),
	)

	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/tracking/v3/tracking/"+url.PathEscape(trackingNumber)+"?expand=DETAIL", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCarrier, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warn("carrier lookup failed", zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: tracking lookup returned %d", ErrCarrier, resp.StatusCode)
	}

	var body struct {
		TrackingNumber string `json:"trackingNumber"`
		StatusCategory string `json:"statusCategory"`
		TrackingEvents []struct {
			EventTimestamp time.Time `json:"eventTimestamp"`
			EventCity      string    `json:"eventCity"`
			EventState     string    `json:"eventState"`
			EventType      string    `json:"eventType"`
		} `json:"trackingEvents"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}

	info := &Info{
		TrackingNumber: trackingNumber,
		Status:         normalizeStatus(body.StatusCategory),
	}
	for _, ev := range body.TrackingEvents {
		location := ev.EventCity
		if ev.EventState != "" {
			location = ev.EventCity + ", " + ev.EventState
		}
		info.Events = append(info.Events, Event{
			Timestamp:   ev.EventTimestamp,
			Location:    location,
			Status:      normalizeStatus(body.StatusCategory),
			Description: ev.EventType,
		})
	}

	return info, nil
}

func normalizeStatus(statusCategory string) string {
	switch strings.ToLower(statusCategory) {
	case "delivered":
		return StatusDelivered
	case "in transit", "accepted", "processing":
		return "in_transit"
	case "out for delivery":
		return "out_for_delivery"
	case "":
		return StatusPending
	default:
		return strings.ToLower(strings.ReplaceAll(statusCategory, " ", "_"))
	}
}
