// Package gmail implements the Google OAuth delivery channel via the
// Gmail API: the full MIME message, base64url-encoded without padding,
// posted in a JSON envelope with a bearer token.
package gmail

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/postpanda/mailmerge/pkg/mailer"
)

const defaultEndpoint = "https://gmail.googleapis.com/gmail/v1/users/me/messages/send"

// Channel sends mail on behalf of a Google account.
// It implements mailer.Channel; the sender address is the authenticated
// account's own, never user-supplied.
type Channel struct {
	sender      string
	accessToken string
	endpoint    string
	httpClient  *http.Client
}

// Option configures the channel.
type Option func(*Channel)

// WithHTTPClient sets a custom HTTP client. Useful for testing with
// httptest servers or injecting custom transports.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Channel) {
		c.httpClient = client
	}
}

// WithEndpoint overrides the messages.send endpoint. Intended for tests.
func WithEndpoint(url string) Option {
	return func(c *Channel) {
		c.endpoint = url
	}
}

// New creates a Gmail channel for the given authenticated account.
func New(sender, accessToken string, opts ...Option) (*Channel, error) {
	if accessToken == "" {
		return nil, ErrMissingToken
	}
	if sender == "" {
		return nil, ErrMissingSender
	}
	c := &Channel{
		sender:      sender,
		accessToken: accessToken,
		endpoint:    defaultEndpoint,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Name implements mailer.Channel.
func (c *Channel) Name() string { return "gmail" }

// Sender implements mailer.Channel.
func (c *Channel) Sender() string { return c.sender }

// Close implements mailer.Channel. The channel is stateless per message.
func (c *Channel) Close() error { return nil }

// Send delivers one message through the Gmail API.
// The raw field carries the MIME document base64url-encoded with the
// padding stripped, as the API requires.
func (c *Channel) Send(ctx context.Context, msg *mailer.Message) error {
	raw, err := msg.MIME()
	if err != nil {
		return fmt.Errorf("gmail: build message: %w", err)
	}

	body, err := json.Marshal(map[string]string{
		"raw": base64.RawURLEncoding.EncodeToString(raw),
	})
	if err != nil {
		return fmt.Errorf("gmail: marshal send payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("gmail: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gmail: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("gmail: send failed: %s", mailer.ErrorDetail(resp.StatusCode, respBody))
	}
	return nil
}
