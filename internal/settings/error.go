package settings

import "errors"

var (
	ErrUnavailable = errors.New("settings lookup failed")
)
