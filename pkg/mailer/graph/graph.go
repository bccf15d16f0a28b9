// Package graph implements the Microsoft OAuth delivery channel via the
// Graph API's sendMail endpoint: a structured JSON call authenticated by
// a bearer token, one request per message.
package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/postpanda/mailmerge/pkg/mailer"
)

const defaultEndpoint = "https://graph.microsoft.com/v1.0/me/sendMail"

// Channel sends mail on behalf of a Microsoft account.
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

// WithEndpoint overrides the sendMail endpoint. Intended for tests.
func WithEndpoint(url string) Option {
	return func(c *Channel) {
		c.endpoint = url
	}
}

// New creates a Graph channel for the given authenticated account.
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
func (c *Channel) Name() string { return "graph" }

// Sender implements mailer.Channel.
func (c *Channel) Sender() string { return c.sender }

// Close implements mailer.Channel. The channel is stateless per message.
func (c *Channel) Close() error { return nil }

type sendMailRequest struct {
	Message         messagePayload `json:"message"`
	SaveToSentItems string         `json:"saveToSentItems"`
}

type messagePayload struct {
	Subject      string      `json:"subject"`
	Body         bodyPayload `json:"body"`
	ToRecipients []recipient `json:"toRecipients"`
}

type bodyPayload struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

type recipient struct {
	EmailAddress emailAddress `json:"emailAddress"`
}

type emailAddress struct {
	Address string `json:"address"`
}

// Send delivers one message through the Graph sendMail call.
// Any status >= 400 is translated into a delivery error carrying the
// provider's own message text when present.
func (c *Channel) Send(ctx context.Context, msg *mailer.Message) error {
	payload := sendMailRequest{
		Message: messagePayload{
			Subject: msg.Subject,
			Body: bodyPayload{
				ContentType: "HTML",
				Content:     msg.HTML,
			},
			ToRecipients: []recipient{{EmailAddress: emailAddress{Address: msg.To}}},
		},
		SaveToSentItems: "true",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("graph: marshal sendMail payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("graph: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("graph: sendMail request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("graph: sendMail failed: %s", mailer.ErrorDetail(resp.StatusCode, respBody))
	}
	return nil
}
