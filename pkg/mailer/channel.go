package mailer

import "context"

// Channel delivers one rendered message over a concrete transport.
// The dispatcher owns the channel's lifetime: it calls Send serially for
// every valid row of a batch and Close exactly once at the end (or on
// early exit), so transports may keep a connection open across the batch.
type Channel interface {
	// Name identifies the channel (e.g. "smtp", "graph", "gmail", "mailapp").
	Name() string

	// Sender returns the authenticated sender address, or "" for
	// draft-style channels that do not transmit on behalf of an account.
	Sender() string

	// Send delivers one message. Any error aborts the remaining batch.
	Send(ctx context.Context, msg *Message) error

	// Close releases transport resources. Safe to call once per batch.
	Close() error
}
