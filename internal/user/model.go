package user

import "time"

// User carries the profile fields checkout depends on: the saved shipping
// address blob and the preferred payment method. Authentication flows live
// outside this service.
type User struct {
	ID            string
	Name          string
	Email         string
	Role          string
	Address       []byte
	PaymentMethod *string
	CreatedAt     time.Time
}
