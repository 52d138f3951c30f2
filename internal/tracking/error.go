package tracking

import "errors"

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrNotTracked    = errors.New("order has no tracking number")
	ErrCarrier       = errors.New("carrier lookup failed")
)
