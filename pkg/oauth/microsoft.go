package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	microsoftOAuth "golang.org/x/oauth2/microsoft"
)

const (
	// MicrosoftProviderName is the identifier for the Microsoft OAuth provider.
	MicrosoftProviderName = "microsoft"
	microsoftProfileURL   = "https://graph.microsoft.com/v1.0/me?$select=mail,userPrincipalName"
)

// MicrosoftDefaultScopes returns the default scopes for Microsoft OAuth:
// offline access for refresh tokens, the signed-in user's profile, and
// permission to send mail through the Graph API.
func MicrosoftDefaultScopes() []string {
	return []string{
		"offline_access",
		"User.Read",
		"Mail.Send",
	}
}

// MicrosoftProvider implements Provider for Microsoft OAuth against the
// Azure AD v2 endpoints.
type MicrosoftProvider struct {
	config     *oauth2.Config
	httpClient *http.Client
}

// NewMicrosoftProvider creates a new Microsoft OAuth provider.
// An empty Tenant falls back to the multi-tenant "common" endpoint.
// Returns an error if ClientID or ClientSecret is empty.
func NewMicrosoftProvider(cfg MicrosoftConfig, opts ...Option) (*MicrosoftProvider, error) {
	if cfg.ClientID == "" {
		return nil, ErrMissingClientID
	}
	if cfg.ClientSecret == "" {
		return nil, ErrMissingClientSecret
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	tenant := strings.TrimSpace(cfg.Tenant)
	if tenant == "" {
		tenant = "common"
	}
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = MicrosoftDefaultScopes()
	}

	return &MicrosoftProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
			Endpoint:     microsoftOAuth.AzureADEndpoint(tenant),
		},
		httpClient: o.httpClient,
	}, nil
}

// Name returns the provider identifier.
func (p *MicrosoftProvider) Name() string {
	return MicrosoftProviderName
}

// AuthCodeURL generates the authorization URL.
func (p *MicrosoftProvider) AuthCodeURL(state string, opts ...oauth2.AuthCodeOption) string {
	opts = append([]oauth2.AuthCodeOption{
		oauth2.SetAuthURLParam("response_mode", "query"),
	}, opts...)
	return p.config.AuthCodeURL(state, opts...)
}

// Exchange trades an authorization code for tokens.
func (p *MicrosoftProvider) Exchange(ctx context.Context, code, redirectURI string) (*oauth2.Token, error) {
	cfg := p.config
	if redirectURI != "" {
		cfg = &oauth2.Config{
			ClientID:     p.config.ClientID,
			ClientSecret: p.config.ClientSecret,
			RedirectURL:  redirectURI,
			Scopes:       p.config.Scopes,
			Endpoint:     p.config.Endpoint,
		}
	}
	ctx = p.contextWithHTTPClient(ctx)
	return cfg.Exchange(ctx, code)
}

// Refresh exchanges the stored refresh token for a fresh access token.
func (p *MicrosoftProvider) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	return refreshWithConfig(p.contextWithHTTPClient(ctx), p.config, refreshToken)
}

// FetchEmail reads the account's email address from the Graph profile:
// the mailbox address when present, the user principal name otherwise.
func (p *MicrosoftProvider) FetchEmail(ctx context.Context, token *oauth2.Token) (string, error) {
	ctx = p.contextWithHTTPClient(ctx)
	client := p.config.Client(ctx, token)

	resp, err := client.Get(microsoftProfileURL)
	if err != nil {
		return "", errors.Join(ErrFetchFailed, fmt.Errorf("fetch profile: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", errors.Join(ErrRequestFailed, fmt.Errorf("profile request failed: status=%d body=%s", resp.StatusCode, body))
	}

	var profile struct {
		Mail              string `json:"mail"`
		UserPrincipalName string `json:"userPrincipalName"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return "", errors.Join(ErrDecodeFailed, fmt.Errorf("decode profile: %w", err))
	}

	email := strings.TrimSpace(profile.Mail)
	if email == "" {
		email = strings.TrimSpace(profile.UserPrincipalName)
	}
	if email == "" {
		return "", ErrNoEmail
	}
	return email, nil
}

func (p *MicrosoftProvider) contextWithHTTPClient(ctx context.Context) context.Context {
	if p.httpClient != nil {
		return context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	}
	return ctx
}
