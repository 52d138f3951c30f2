package promo

import "errors"

var (
	ErrInvalidPromoCode = errors.New("promo code is invalid or inactive")
	ErrPromoNotFound    = errors.New("promo code not found")
)
