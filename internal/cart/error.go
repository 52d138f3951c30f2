package cart

import "errors"

var (
	// -- Identity --
	ErrNoCartIdentity = errors.New("cart session not found")

	// -- Resource State --
	ErrCartNotFound      = errors.New("cart not found")
	ErrCartEmpty         = errors.New("your cart is empty")
	ErrItemNotFound      = errors.New("item not found")
	ErrInsufficientStock = errors.New("not enough stock")

	// -- Concurrency --
	ErrCartConflict = errors.New("cart was modified concurrently")
)
