package gmail_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/postpanda/mailmerge/pkg/mailer"
	"github.com/postpanda/mailmerge/pkg/mailer/gmail"
)

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := gmail.New("me@example.com", "")
	require.ErrorIs(t, err, gmail.ErrMissingToken)

	_, err = gmail.New("", "token")
	require.ErrorIs(t, err, gmail.ErrMissingSender)
}

func TestChannelSend(t *testing.T) {
	t.Parallel()

	t.Run("posts the raw MIME message base64url-encoded", func(t *testing.T) {
		t.Parallel()

		var gotAuth string
		var payload struct {
			Raw string `json:"raw"`
		}
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			require.NoError(t, json.Unmarshal(body, &payload))
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		ch, err := gmail.New("me@example.com", "token-456", gmail.WithEndpoint(srv.URL))
		require.NoError(t, err)
		require.Equal(t, "gmail", ch.Name())
		require.Equal(t, "me@example.com", ch.Sender())

		msg := &mailer.Message{
			From:    "me@example.com",
			To:      "rcpt@example.com",
			Subject: "Hello",
			Text:    "plain body",
			HTML:    "<p>html body</p>",
		}
		require.NoError(t, ch.Send(context.Background(), msg))

		require.Equal(t, "Bearer token-456", gotAuth)

		decoded, err := base64.RawURLEncoding.DecodeString(payload.Raw)
		require.NoError(t, err)
		mime := string(decoded)
		require.Contains(t, mime, "From: me@example.com")
		require.Contains(t, mime, "To: rcpt@example.com")
		require.Contains(t, mime, "multipart/alternative")
	})

	t.Run("surfaces the provider's error message", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":{"code":403,"message":"Request had insufficient authentication scopes."}}`))
		}))
		defer srv.Close()

		ch, err := gmail.New("me@example.com", "narrow", gmail.WithEndpoint(srv.URL))
		require.NoError(t, err)

		err = ch.Send(context.Background(), &mailer.Message{To: "rcpt@example.com", Subject: "x"})
		require.Error(t, err)
		require.Contains(t, err.Error(), "insufficient authentication scopes")
	})
}
