package csma

import "errors"

// ErrInvalidParameter is returned when a station cannot be configured with the
// given parameters.
var ErrInvalidParameter = errors.New("invalid parameter")
