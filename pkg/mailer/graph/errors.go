package graph

import "errors"

var (
	// ErrMissingToken is returned when no access token is available.
	ErrMissingToken = errors.New("graph: access token is required")

	// ErrMissingSender is returned when the authenticated sender address
	// is unknown.
	ErrMissingSender = errors.New("graph: sender address is required")
)
