package oauth

import (
	"context"
	"errors"

	"golang.org/x/oauth2"
)

// Provider abstracts provider-specific OAuth operations.
// Each provider (Microsoft, Google) implements this interface and handles
// all provider-specific details internally, including which profile
// endpoint carries the account's email address.
type Provider interface {
	// Name returns the provider identifier ("microsoft", "google").
	Name() string

	// AuthCodeURL generates the authorization URL for the OAuth flow.
	AuthCodeURL(state string, opts ...oauth2.AuthCodeOption) string

	// Exchange trades an authorization code for tokens.
	// A non-empty redirectURI overrides the configured redirect URL.
	Exchange(ctx context.Context, code, redirectURI string) (*oauth2.Token, error)

	// Refresh exchanges a refresh token for a fresh access token.
	// When the provider's response omits a new refresh token, the old
	// one is carried over on the returned token.
	Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error)

	// FetchEmail reads the authenticated account's email address from
	// the provider's profile endpoint.
	FetchEmail(ctx context.Context, token *oauth2.Token) (string, error)
}

// refreshWithConfig implements the refresh flow shared by both providers.
// Whether a provider may omit the refresh token from a refresh response
// and expect indefinite reuse of the original is a provider-compliance
// assumption carried over from observed behavior.
func refreshWithConfig(ctx context.Context, cfg *oauth2.Config, refreshToken string) (*oauth2.Token, error) {
	if refreshToken == "" {
		return nil, ErrReauthRequired
	}

	src := cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		return nil, errors.Join(ErrReauthRequired, err)
	}
	if tok.RefreshToken == "" {
		tok.RefreshToken = refreshToken
	}
	return tok, nil
}
