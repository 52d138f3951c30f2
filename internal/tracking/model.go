package tracking

import "time"

const (
	StatusPending   = "pending"
	StatusDelivered = "delivered"
)

// Event is one carrier scan in a shipment's history.
type Event struct {
	Timestamp   time.Time `json:"timestamp"`
	Location    string    `json:"location"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
}

// Info is the carrier's current view of a shipment.
type Info struct {
	TrackingNumber string  `json:"trackingNumber"`
	Status         string  `json:"status"`
	Events         []Event `json:"events"`
}
