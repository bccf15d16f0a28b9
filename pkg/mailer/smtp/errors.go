package smtp

import "errors"

var (
	// ErrInvalidSender is returned when the sender address fails validation.
	ErrInvalidSender = errors.New("smtp: sender must be a valid email address")

	// ErrMissingPassword is returned when no SMTP password is configured.
	ErrMissingPassword = errors.New("smtp: password is required")

	// ErrMissingHost is returned when no SMTP host is configured.
	ErrMissingHost = errors.New("smtp: host is required")

	// ErrInvalidPort is returned when the port is outside 1-65535.
	ErrInvalidPort = errors.New("smtp: port must be between 1 and 65535")
)
