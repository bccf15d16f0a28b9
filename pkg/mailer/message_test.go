package mailer_test

import (
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/postpanda/mailmerge/pkg/mailer"
)

func TestMessageMIME(t *testing.T) {
	t.Parallel()

	msg := &mailer.Message{
		From:    "sender@example.com",
		To:      "rcpt@example.com",
		Subject: "Grüße aus dem Test",
		Text:    "Hello there,\nplain form.",
		HTML:    "Hello there,<br>\n<strong>html form</strong>.",
	}

	raw, err := msg.MIME()
	require.NoError(t, err)

	parsed, err := mail.ReadMessage(strings.NewReader(string(raw)))
	require.NoError(t, err)
	require.Equal(t, "sender@example.com", parsed.Header.Get("From"))
	require.Equal(t, "rcpt@example.com", parsed.Header.Get("To"))
	require.Equal(t, "1.0", parsed.Header.Get("MIME-Version"))

	dec := new(mime.WordDecoder)
	subject, err := dec.DecodeHeader(parsed.Header.Get("Subject"))
	require.NoError(t, err)
	require.Equal(t, "Grüße aus dem Test", subject)

	mediaType, params, err := mime.ParseMediaType(parsed.Header.Get("Content-Type"))
	require.NoError(t, err)
	require.Equal(t, "multipart/alternative", mediaType)

	mr := multipart.NewReader(parsed.Body, params["boundary"])

	part, err := mr.NextPart()
	require.NoError(t, err)
	require.Contains(t, part.Header.Get("Content-Type"), "text/plain")
	require.Equal(t, "base64", part.Header.Get("Content-Transfer-Encoding"))
	require.Equal(t, msg.Text, decodePart(t, part))

	part, err = mr.NextPart()
	require.NoError(t, err)
	require.Contains(t, part.Header.Get("Content-Type"), "text/html")
	require.Equal(t, msg.HTML, decodePart(t, part))

	_, err = mr.NextPart()
	require.ErrorIs(t, err, io.EOF)
}

func decodePart(t *testing.T, part *multipart.Part) string {
	t.Helper()
	encoded, err := io.ReadAll(part)
	require.NoError(t, err)
	compact := strings.ReplaceAll(strings.ReplaceAll(string(encoded), "\r\n", ""), "\n", "")
	decoded, err := base64.StdEncoding.DecodeString(compact)
	require.NoError(t, err)
	return string(decoded)
}
