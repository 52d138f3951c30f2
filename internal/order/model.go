package order

import (
	"time"

	"github.com/shopspring/decimal"

	"storefront-be/internal/tracking"
)

const (
	PaymentMethodPayPal = "PayPal"
	PaymentMethodStripe = "Stripe"
	PaymentMethodCOD    = "CashOnDelivery"
)

// ShippingAddress is the typed snapshot stored on the order. Validation
// happens once at the write boundary, not ad hoc at read sites.
type ShippingAddress struct {
	FullName   string   `json:"fullName"`
	Address    string   `json:"address"`
	City       string   `json:"city"`
	PostalCode string   `json:"postalCode"`
	Country    string   `json:"country"`
	Lat        *float64 `json:"lat,omitempty"`
	Lng        *float64 `json:"lng,omitempty"`
}

// Valid reports whether every required field is present.
func (a *ShippingAddress) Valid() bool {
	return a != nil &&
		a.FullName != "" &&
		a.Address != "" &&
		a.City != "" &&
		a.PostalCode != "" &&
		a.Country != ""
}

// PaymentResult is the tuple consumed from a payment gateway capture.
type PaymentResult struct {
	ID           string          `json:"id"`
	Status       string          `json:"status"`
	EmailAddress string          `json:"email_address"`
	PricePaid    decimal.Decimal `json:"pricePaid"`
}

// Valid reports whether the result carries a completed capture shape.
func (p *PaymentResult) Valid() bool {
	return p != nil && p.ID != "" && p.Status != "" && p.EmailAddress != ""
}

// Item is a line item copied from the cart at order-creation time and
// immutable thereafter; it keeps its own price for historical accuracy.
type Item struct {
	OrderID   string          `json:"orderId"`
	ProductID string          `json:"productId"`
	VariantID *string         `json:"variantId,omitempty"`
	Name      string          `json:"name"`
	Slug      string          `json:"slug"`
	Image     string          `json:"image"`
	Price     decimal.Decimal `json:"price"`
	Qty       int             `json:"qty"`
}

// Order is the immutable snapshot of a cart at checkout time. Only the
// payment, delivery and tracking transitions mutate it afterwards.
type Order struct {
	ID              string
	UserID          string
	UserName        string
	UserEmail       string
	ShippingAddress ShippingAddress
	PaymentMethod   string
	Items           []Item

	ItemsPrice    decimal.Decimal
	ShippingPrice decimal.Decimal
	TaxPrice      decimal.Decimal
	TotalPrice    decimal.Decimal

	IsPaid        bool
	PaidAt        *time.Time
	PaymentResult *PaymentResult

	IsDelivered bool
	DeliveredAt *time.Time

	TrackingNumber     *string
	TrackingStatus     *string
	TrackingEvents     []tracking.Event
	LastTrackingUpdate *time.Time

	CreatedAt time.Time
}

// Result is the uniform operation outcome returned at the service boundary:
// failures are reported, never raised to the caller.
type Result struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	RedirectTo string `json:"redirectTo,omitempty"`
	Data       any    `json:"data,omitempty"`
}
