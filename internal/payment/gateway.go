package payment

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var ErrUpstreamUnavailable = errors.New("payment gateway unavailable")

// Capture is what a gateway reports back for a completed (or attempted)
// capture. Status carries the gateway's own vocabulary, e.g. "COMPLETED".
type Capture struct {
	ID           string
	Status       string
	EmailAddress string
	AmountPaid   decimal.Decimal
}

// Gateway abstracts an external payment processor. CreateOrder reserves a
// payment on the gateway side and returns its external id; CaptureOrder
// settles it after buyer approval.
type Gateway interface {
	CreateOrder(ctx context.Context, amount decimal.Decimal, currency string) (string, error)
	CaptureOrder(ctx context.Context, externalID string) (*Capture, error)
}
