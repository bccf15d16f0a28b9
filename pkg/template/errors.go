package template

import "errors"

var (
	// ErrReservedVariable is returned when a variable map tries to define
	// the reserved "Mail" placeholder, which is always bound to the
	// recipient address.
	ErrReservedVariable = errors.New("template: variable name 'Mail' is reserved")
)
