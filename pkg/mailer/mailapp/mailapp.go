// Package mailapp implements the local delivery channel: instead of
// transmitting over the network it constructs a draft in a locally
// installed mail client. The outlook provider drives Microsoft Outlook
// through an AppleScript bridge (macOS only); every other provider opens
// a mailto: URL through the operating system's open-URL facility, which
// exists on macOS and Linux. Unsupported systems fail deterministically.
package mailapp

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/postpanda/mailmerge/pkg/mailer"
)

// Providers recognized by the channel. Unrecognized tags fall back to
// ProviderCustom, the generic mailto: behavior.
const (
	ProviderOutlook = "outlook"
	ProviderGmail   = "gmail"
	ProviderCustom  = "custom"
)

// NormalizeProvider maps arbitrary user input onto a known provider tag.
func NormalizeProvider(provider string) string {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case ProviderOutlook:
		return ProviderOutlook
	case ProviderGmail:
		return ProviderGmail
	default:
		return ProviderCustom
	}
}

// Runner executes an OS command and returns its standard error output.
// Injected in tests to avoid touching the real automation bridge.
type Runner func(ctx context.Context, name string, args ...string) (stderr string, err error)

func execRunner(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	err := cmd.Run()
	return strings.TrimSpace(stderr.String()), err
}

// Channel creates drafts in the local mail client.
// It implements mailer.Channel; Sender is empty because drafts are not
// transmitted on behalf of an authenticated account.
type Channel struct {
	provider string
	goos     string
	run      Runner
}

// Option configures the channel.
type Option func(*Channel)

// WithRunner replaces the OS command runner. Intended for tests.
func WithRunner(r Runner) Option {
	return func(c *Channel) {
		c.run = r
	}
}

// New creates a mail-app channel for the given provider tag.
func New(provider string, opts ...Option) *Channel {
	c := &Channel{
		provider: NormalizeProvider(provider),
		goos:     runtime.GOOS,
		run:      execRunner,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name implements mailer.Channel.
func (c *Channel) Name() string { return "mailapp" }

// Sender implements mailer.Channel. Always empty: drafts target the
// row's own recipient.
func (c *Channel) Sender() string { return "" }

// Close implements mailer.Channel. No resources are held across a batch.
func (c *Channel) Close() error { return nil }

// Send creates one draft for the message.
func (c *Channel) Send(ctx context.Context, msg *mailer.Message) error {
	if c.provider == ProviderOutlook {
		return c.createOutlookDraft(ctx, msg)
	}
	return c.openDefaultMailApp(ctx, msg)
}

// outlookDraftScript opens a new outgoing message window in Microsoft
// Outlook with subject, recipient and HTML body taken from argv.
const outlookDraftScript = `
on run argv
  set msgSubject to item 1 of argv
  set msgRecipient to item 2 of argv
  set msgHtml to item 3 of argv

  tell application "Microsoft Outlook"
    activate
    set newMessage to make new outgoing message with properties {subject:msgSubject, content:msgHtml}
    make new recipient at newMessage with properties {email address:{address:msgRecipient}}
    open newMessage
  end tell
end run
`

func (c *Channel) createOutlookDraft(ctx context.Context, msg *mailer.Message) error {
	if c.goos != "darwin" {
		return ErrOutlookUnavailable
	}

	html := "<html><body>" + msg.HTML + "</body></html>"
	stderr, err := c.run(ctx, "osascript", "-e", outlookDraftScript, msg.Subject, msg.To, html)
	if err != nil {
		if strings.Contains(stderr, "Not authorized") {
			return fmt.Errorf("%w: allow Automation permission for your terminal to control Microsoft Outlook in System Settings", ErrAutomationDenied)
		}
		detail := stderr
		if detail == "" {
			detail = err.Error()
		}
		return fmt.Errorf("mailapp: could not create Outlook draft: %s", detail)
	}
	return nil
}

func (c *Channel) openDefaultMailApp(ctx context.Context, msg *mailer.Message) error {
	var opener string
	switch c.goos {
	case "darwin":
		opener = "open"
	case "linux":
		opener = "xdg-open"
	default:
		return ErrNotAvailable
	}

	url := buildMailtoURL(msg.To, msg.Subject, msg.Text)
	stderr, err := c.run(ctx, opener, url)
	if err != nil {
		detail := stderr
		if detail == "" {
			detail = err.Error()
		}
		return fmt.Errorf("mailapp: could not open mail app: %s", detail)
	}
	return nil
}

// buildMailtoURL percent-encodes recipient, subject and body into a
// mailto: URL. The recipient keeps the characters common in addresses;
// subject and body encode everything outside the unreserved set.
func buildMailtoURL(recipient, subject, body string) string {
	return "mailto:" + percentEncode(recipient, "@._-+") +
		"?subject=" + percentEncode(subject, "") +
		"&body=" + percentEncode(body, "")
}

const upperhex = "0123456789ABCDEF"

func percentEncode(s, extraSafe string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
			b.WriteByte(ch)
		case ch == '_' || ch == '.' || ch == '-' || ch == '~':
			b.WriteByte(ch)
		case strings.IndexByte(extraSafe, ch) >= 0:
			b.WriteByte(ch)
		default:
			b.WriteByte('%')
			b.WriteByte(upperhex[ch>>4])
			b.WriteByte(upperhex[ch&0xf])
		}
	}
	return b.String()
}
