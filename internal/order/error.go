package order

import "errors"

var (
	// -- Authentication --
	ErrNotAuthenticated = errors.New("user is not authenticated")
	ErrUnauthorized     = errors.New("unauthorized: cannot access others' orders")

	// -- Preconditions --
	ErrMissingShippingAddress = errors.New("no shipping address")
	ErrMissingPaymentMethod   = errors.New("no payment method")

	// -- Resource State --
	ErrOrderNotFound = errors.New("order not found")
	ErrAlreadyPaid   = errors.New("order already paid")
	ErrNotPaid       = errors.New("order not paid")

	// -- Payment --
	ErrPaymentVerificationFailed = errors.New("invalid payment gateway response")
)
