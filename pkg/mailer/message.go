package mailer

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"mime"
	"mime/multipart"
	"net/textproto"
)

// Message is one fully-rendered mail ready for a channel.
// HTML and Text carry the two presentation forms of the same resolved
// template; draft-style channels may use only one of them.
type Message struct {
	From    string
	To      string
	Subject string
	Text    string
	HTML    string
}

// MIME serializes the message as a multipart/alternative RFC 2045 document
// with base64-encoded text/plain and text/html parts. Used by the SMTP
// channel for the DATA payload and by the Gmail channel for the raw
// message envelope.
func (m *Message) MIME() ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "From: %s\r\n", m.From)
	fmt.Fprintf(&buf, "To: %s\r\n", m.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", m.Subject))
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%q\r\n", mw.Boundary())
	buf.WriteString("\r\n")

	// Plain part first so clients prefer the HTML alternative.
	if err := writePart(mw, "text/plain; charset=utf-8", m.Text); err != nil {
		return nil, err
	}
	if err := writePart(mw, "text/html; charset=utf-8", m.HTML); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	return buf.Bytes(), nil
}

func writePart(mw *multipart.Writer, contentType, body string) error {
	header := textproto.MIMEHeader{
		"Content-Type":              {contentType},
		"Content-Transfer-Encoding": {"base64"},
	}
	part, err := mw.CreatePart(header)
	if err != nil {
		return fmt.Errorf("create %s part: %w", contentType, err)
	}
	if _, err := part.Write(wrapBase64(body)); err != nil {
		return fmt.Errorf("write %s part: %w", contentType, err)
	}
	return nil
}

// wrapBase64 encodes body and folds the output at 76 columns per RFC 2045.
func wrapBase64(body string) []byte {
	encoded := base64.StdEncoding.EncodeToString([]byte(body))
	var out bytes.Buffer
	for len(encoded) > 76 {
		out.WriteString(encoded[:76])
		out.WriteString("\r\n")
		encoded = encoded[76:]
	}
	out.WriteString(encoded)
	return out.Bytes()
}
