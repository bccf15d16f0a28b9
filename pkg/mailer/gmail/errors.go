package gmail

import "errors"

var (
	// ErrMissingToken is returned when no access token is available.
	ErrMissingToken = errors.New("gmail: access token is required")

	// ErrMissingSender is returned when the authenticated sender address
	// is unknown.
	ErrMissingSender = errors.New("gmail: sender address is required")
)
