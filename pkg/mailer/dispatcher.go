package mailer

import (
	"context"
	"errors"
	"strings"

	"github.com/postpanda/mailmerge/pkg/template"
)

// Content is the channel-independent part of a send operation: what to say
// and where in the table to find the recipient.
type Content struct {
	Subject   string
	Template  string
	EmailCol  string
	Variables template.VariableMap
}

// Validate checks the required fields. Returned errors are input errors:
// the batch never starts.
func (c Content) Validate() error {
	if strings.TrimSpace(c.Subject) == "" {
		return ErrNoSubject
	}
	if strings.TrimSpace(c.Template) == "" {
		return ErrNoTemplate
	}
	if strings.TrimSpace(c.EmailCol) == "" {
		return ErrNoEmailColumn
	}
	return nil
}

// Result aggregates one batch operation.
// Skipped counts rows whose recipient failed validation; those rows never
// reach the channel.
type Result struct {
	Total   int `json:"total"`
	Sent    int `json:"sent"`
	Skipped int `json:"skipped"`
}

// Rendered is one resolved row: the recipient plus both presentation forms.
// Returned by Preview and SendTest for caller-side display.
type Rendered struct {
	Index     int
	Recipient string
	Valid     bool
	Resolved  string
	HTML      string
	Plain     string
}

// Preview resolves the row at index (wrapping modulo the row count)
// without touching any channel.
func Preview(content Content, ds *Dataset, index int) (*Rendered, error) {
	if ds.Len() == 0 {
		return nil, ErrEmptyDataset
	}
	i := wrapIndex(index, ds.Len())
	row := ds.Rows[i]

	recipient := ""
	if content.EmailCol != "" {
		recipient = template.Text(row[content.EmailCol])
	}
	resolved := template.Resolve(row, ds.Columns, content.Template, content.EmailCol, content.Variables)

	return &Rendered{
		Index:     i,
		Recipient: recipient,
		Valid:     IsValidAddress(recipient),
		Resolved:  resolved,
		HTML:      template.RenderHTML(resolved),
		Plain:     template.RenderPlain(resolved),
	}, nil
}

// SendAll delivers the whole table through ch, row by row in table order.
// Rows with an invalid recipient are skipped and counted; the first
// transport error aborts the remainder of the batch and is returned
// without partial counts. The channel is closed exactly once.
func SendAll(ctx context.Context, ch Channel, content Content, ds *Dataset) (Result, error) {
	if err := content.Validate(); err != nil {
		return Result{}, err
	}
	if ds.Len() == 0 {
		return Result{}, ErrEmptyDataset
	}
	defer func() { _ = ch.Close() }()

	res := Result{Total: ds.Len()}
	for _, row := range ds.Rows {
		recipient := template.Text(row[content.EmailCol])
		if !IsValidAddress(recipient) {
			res.Skipped++
			continue
		}

		resolved := template.Resolve(row, ds.Columns, content.Template, content.EmailCol, content.Variables)
		msg := &Message{
			From:    ch.Sender(),
			To:      recipient,
			Subject: content.Subject,
			Text:    template.RenderPlain(resolved),
			HTML:    template.RenderHTML(resolved),
		}
		if err := ch.Send(ctx, msg); err != nil {
			return Result{}, errors.Join(ErrSendFailed, err)
		}
		res.Sent++
	}
	return res, nil
}

// SendTest delivers a single message for the row at index. Sending
// channels address it to their own authenticated sender; draft-style
// channels (empty Sender) target the row's recipient, which must be valid.
// Returns the rendered row for caller-side preview.
func SendTest(ctx context.Context, ch Channel, content Content, ds *Dataset, index int) (*Rendered, error) {
	if err := content.Validate(); err != nil {
		return nil, err
	}
	r, err := Preview(content, ds, index)
	if err != nil {
		return nil, err
	}

	to := ch.Sender()
	if to == "" {
		if !r.Valid {
			return nil, ErrInvalidRecipient
		}
		to = r.Recipient
	}
	defer func() { _ = ch.Close() }()

	msg := &Message{
		From:    ch.Sender(),
		To:      to,
		Subject: content.Subject,
		Text:    r.Plain,
		HTML:    r.HTML,
	}
	if err := ch.Send(ctx, msg); err != nil {
		return nil, errors.Join(ErrSendFailed, err)
	}
	return r, nil
}

// wrapIndex maps any index into [0, n) with floored modulo, so negative
// and out-of-range test indices wrap instead of erroring.
func wrapIndex(i, n int) int {
	return ((i % n) + n) % n
}
