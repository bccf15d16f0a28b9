// Package smtp implements the password-authenticated delivery channel.
// One encrypted connection is opened per batch, messages are transmitted
// serially over it, and the connection is closed exactly once when the
// dispatcher finishes or aborts.
package smtp

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"time"

	"github.com/postpanda/mailmerge/pkg/mailer"
)

// Config holds the SMTP account and server settings.
type Config struct {
	Sender   string `env:"SMTP_SENDER"`
	Password string `env:"SMTP_PASSWORD"`
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
}

// Validate checks the configuration. Returned errors are input errors:
// no connection is attempted.
func (c Config) Validate() error {
	if !mailer.IsValidAddress(c.Sender) {
		return ErrInvalidSender
	}
	if c.Password == "" {
		return ErrMissingPassword
	}
	if c.Host == "" {
		return ErrMissingHost
	}
	if c.Port < 1 || c.Port > 65535 {
		return ErrInvalidPort
	}
	return nil
}

// Channel sends messages through an SMTP server with STARTTLS and
// password authentication. It implements mailer.Channel.
type Channel struct {
	cfg         Config
	client      *smtp.Client
	dialTimeout time.Duration
}

// Option configures the channel.
type Option func(*Channel)

// WithDialTimeout overrides the connection timeout.
// Default: 30 seconds.
func WithDialTimeout(d time.Duration) Option {
	return func(c *Channel) {
		c.dialTimeout = d
	}
}

// New creates an SMTP channel. The connection is established lazily on the
// first Send, so construction never touches the network.
func New(cfg Config, opts ...Option) (*Channel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Channel{cfg: cfg, dialTimeout: 30 * time.Second}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Name implements mailer.Channel.
func (c *Channel) Name() string { return "smtp" }

// Sender implements mailer.Channel.
func (c *Channel) Sender() string { return c.cfg.Sender }

// Send transmits one message over the batch connection, dialing and
// authenticating on first use.
func (c *Channel) Send(ctx context.Context, msg *mailer.Message) error {
	if c.client == nil {
		if err := c.connect(ctx); err != nil {
			return err
		}
	}

	if err := c.client.Mail(c.cfg.Sender); err != nil {
		return fmt.Errorf("smtp: MAIL FROM: %w", err)
	}
	if err := c.client.Rcpt(msg.To); err != nil {
		return fmt.Errorf("smtp: RCPT TO %s: %w", msg.To, err)
	}

	w, err := c.client.Data()
	if err != nil {
		return fmt.Errorf("smtp: DATA: %w", err)
	}
	raw, err := msg.MIME()
	if err != nil {
		return fmt.Errorf("smtp: build message: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		return fmt.Errorf("smtp: write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp: finish message: %w", err)
	}
	return nil
}

// Close issues QUIT and drops the batch connection.
func (c *Channel) Close() error {
	if c.client == nil {
		return nil
	}
	client := c.client
	c.client = nil
	if err := client.Quit(); err != nil {
		return fmt.Errorf("smtp: quit: %w", err)
	}
	return nil
}

// connect dials the server, upgrades to TLS via STARTTLS and
// authenticates with the configured credentials.
func (c *Channel) connect(ctx context.Context) error {
	addr := net.JoinHostPort(c.cfg.Host, fmt.Sprint(c.cfg.Port))
	dialer := &net.Dialer{Timeout: c.dialTimeout}

	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("smtp: dial %s: %w", addr, err)
	}

	client, err := smtp.NewClient(conn, c.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp: handshake: %w", err)
	}
	if err := client.StartTLS(&tls.Config{ServerName: c.cfg.Host}); err != nil {
		client.Close()
		return fmt.Errorf("smtp: starttls: %w", err)
	}
	auth := smtp.PlainAuth("", c.cfg.Sender, c.cfg.Password, c.cfg.Host)
	if err := client.Auth(auth); err != nil {
		client.Close()
		return fmt.Errorf("smtp: auth %s: %w", c.cfg.Sender, err)
	}

	c.client = client
	return nil
}
