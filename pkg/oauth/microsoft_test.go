package oauth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/postpanda/mailmerge/pkg/oauth"
)

var _ oauth.Provider = (*oauth.MicrosoftProvider)(nil)

func TestNewMicrosoftProvider(t *testing.T) {
	t.Parallel()

	t.Run("valid config", func(t *testing.T) {
		t.Parallel()
		p, err := oauth.NewMicrosoftProvider(oauth.MicrosoftConfig{
			ClientID:     "test-id",
			ClientSecret: "test-secret",
		})
		require.NoError(t, err)
		require.NotNil(t, p)
	})

	t.Run("missing client ID", func(t *testing.T) {
		t.Parallel()
		p, err := oauth.NewMicrosoftProvider(oauth.MicrosoftConfig{
			ClientSecret: "test-secret",
		})
		require.ErrorIs(t, err, oauth.ErrMissingClientID)
		require.Nil(t, p)
	})

	t.Run("missing client secret", func(t *testing.T) {
		t.Parallel()
		p, err := oauth.NewMicrosoftProvider(oauth.MicrosoftConfig{
			ClientID: "test-id",
		})
		require.ErrorIs(t, err, oauth.ErrMissingClientSecret)
		require.Nil(t, p)
	})

	t.Run("empty tenant falls back to common", func(t *testing.T) {
		t.Parallel()
		p, err := oauth.NewMicrosoftProvider(oauth.MicrosoftConfig{
			ClientID:     "test-id",
			ClientSecret: "test-secret",
			Tenant:       "  ",
		})
		require.NoError(t, err)
		require.Contains(t, p.AuthCodeURL("state"), "/common/")
	})

	t.Run("dedicated tenant", func(t *testing.T) {
		t.Parallel()
		p, err := oauth.NewMicrosoftProvider(oauth.MicrosoftConfig{
			ClientID:     "test-id",
			ClientSecret: "test-secret",
			Tenant:       "contoso",
		})
		require.NoError(t, err)
		require.Contains(t, p.AuthCodeURL("state"), "/contoso/")
	})

	t.Run("default scopes applied", func(t *testing.T) {
		t.Parallel()
		p, err := oauth.NewMicrosoftProvider(oauth.MicrosoftConfig{
			ClientID:     "test-id",
			ClientSecret: "test-secret",
		})
		require.NoError(t, err)

		u := p.AuthCodeURL("state")
		require.Contains(t, u, "offline_access")
		require.Contains(t, u, "Mail.Send")
	})
}

func TestMicrosoftProvider_Name(t *testing.T) {
	t.Parallel()
	p, err := oauth.NewMicrosoftProvider(oauth.MicrosoftConfig{
		ClientID:     "test-id",
		ClientSecret: "test-secret",
	})
	require.NoError(t, err)
	require.Equal(t, "microsoft", p.Name())
}

func TestMicrosoftProvider_AuthCodeURL(t *testing.T) {
	t.Parallel()

	p, err := oauth.NewMicrosoftProvider(oauth.MicrosoftConfig{
		ClientID:     "test-id",
		ClientSecret: "test-secret",
		RedirectURL:  "https://example.com/callback",
	})
	require.NoError(t, err)

	t.Run("includes state", func(t *testing.T) {
		t.Parallel()
		url := p.AuthCodeURL("test-state")
		require.Contains(t, url, "state=test-state")
	})

	t.Run("requests query response mode", func(t *testing.T) {
		t.Parallel()
		url := p.AuthCodeURL("state")
		require.Contains(t, url, "response_mode=query")
	})
}

func TestMicrosoftProvider_FetchEmail(t *testing.T) {
	t.Parallel()

	newProvider := func(t *testing.T, handler http.Handler) *oauth.MicrosoftProvider {
		t.Helper()
		transport := &microsoftRewriteTransport{base: http.DefaultTransport, handler: handler}
		p, err := oauth.NewMicrosoftProvider(
			oauth.MicrosoftConfig{
				ClientID:     "test-id",
				ClientSecret: "test-secret",
			},
			oauth.WithHTTPClient(&http.Client{Transport: transport}),
		)
		require.NoError(t, err)
		return p
	}

	t.Run("prefers the mailbox address", func(t *testing.T) {
		t.Parallel()
		p := newProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"mail":"me@contoso.com","userPrincipalName":"me_gmail.com#EXT#@contoso.onmicrosoft.com"}`))
		}))

		email, err := p.FetchEmail(context.Background(), &oauth2.Token{AccessToken: "test-token"})
		require.NoError(t, err)
		require.Equal(t, "me@contoso.com", email)
	})

	t.Run("falls back to the user principal name", func(t *testing.T) {
		t.Parallel()
		p := newProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"mail":null,"userPrincipalName":"me@contoso.com"}`))
		}))

		email, err := p.FetchEmail(context.Background(), &oauth2.Token{AccessToken: "test-token"})
		require.NoError(t, err)
		require.Equal(t, "me@contoso.com", email)
	})

	t.Run("neither field present", func(t *testing.T) {
		t.Parallel()
		p := newProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{}`))
		}))

		_, err := p.FetchEmail(context.Background(), &oauth2.Token{AccessToken: "test-token"})
		require.ErrorIs(t, err, oauth.ErrNoEmail)
	})

	t.Run("non-200 response", func(t *testing.T) {
		t.Parallel()
		p := newProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))

		_, err := p.FetchEmail(context.Background(), &oauth2.Token{AccessToken: "narrow"})
		require.ErrorIs(t, err, oauth.ErrRequestFailed)
	})
}

// microsoftRewriteTransport intercepts requests to Microsoft endpoints and
// routes them to a local handler instead.
type microsoftRewriteTransport struct {
	base    http.RoundTripper
	handler http.Handler
}

func (t *microsoftRewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if strings.Contains(req.URL.Host, "microsoft") {
		recorder := httptest.NewRecorder()
		t.handler.ServeHTTP(recorder, req)
		return recorder.Result(), nil
	}
	return t.base.RoundTrip(req)
}
