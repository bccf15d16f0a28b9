package mailer

import "errors"

var (
	// ErrEmptyDataset is returned when a send is attempted on a table
	// without rows. Empty tables are rejected before dispatch.
	ErrEmptyDataset = errors.New("mailer: the recipient list is empty")

	// ErrNoSubject indicates the message subject is missing.
	ErrNoSubject = errors.New("mailer: subject is required")

	// ErrNoTemplate indicates the message template is missing.
	ErrNoTemplate = errors.New("mailer: message template is required")

	// ErrNoEmailColumn indicates no recipient column was selected.
	ErrNoEmailColumn = errors.New("mailer: email column is required")

	// ErrInvalidRecipient is returned when a single-row operation targets
	// a row whose recipient address fails validation.
	ErrInvalidRecipient = errors.New("mailer: recipient address is invalid")

	// ErrSendFailed wraps a transport-level delivery failure.
	// A batch aborts on the first occurrence.
	ErrSendFailed = errors.New("mailer: failed to send message")
)
