package api

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/postpanda/mailmerge/pkg/mailer"
	"github.com/postpanda/mailmerge/pkg/mailer/gmail"
	"github.com/postpanda/mailmerge/pkg/mailer/graph"
	"github.com/postpanda/mailmerge/pkg/mailer/mailapp"
	"github.com/postpanda/mailmerge/pkg/mailer/smtp"
	"github.com/postpanda/mailmerge/pkg/oauth"
	"github.com/postpanda/mailmerge/pkg/template"
)

// Auth modes accepted by the send endpoints.
const (
	authModePassword = "password"
	authModeOAuth    = "oauth"
	authModeMailApp  = "mailapp"
)

var (
	errBadAuthMode    = errors.New("authMode must be 'password', 'oauth' or 'mailapp'")
	errMissingClient  = errors.New("oauth.clientId is required")
	errSessionUnknown = errors.New("unknown or expired session; upload the table again")
)

type mappingPayload struct {
	EmailCol     string            `json:"emailCol"`
	VariableMap  map[string]string `json:"variableMap"`
	FirstnameCol string            `json:"firstnameCol"`
	NameCol      string            `json:"nameCol"`
}

type smtpPayload struct {
	Sender   string `json:"sender"`
	Password string `json:"password"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
}

type oauthPayload struct {
	Provider string `json:"provider"`
	ClientID string `json:"clientId"`
}

type mailAppPayload struct {
	Provider string `json:"provider"`
}

type previewRequest struct {
	SessionID string         `json:"sessionId"`
	Index     int            `json:"index"`
	Subject   string         `json:"subject"`
	Template  string         `json:"template"`
	Mapping   mappingPayload `json:"mapping"`
}

type sendRequest struct {
	previewRequest
	AuthMode string         `json:"authMode"`
	SMTP     smtpPayload    `json:"smtp"`
	OAuth    oauthPayload   `json:"oauth"`
	MailApp  mailAppPayload `json:"mailApp"`
}

// content translates the wire mapping into the engine's Content.
// Legacy column aliases from older frontends are folded into the
// variable map here so the engine stays unaware of them.
func (p previewRequest) content() (mailer.Content, error) {
	vars, err := template.NewVariableMap(p.Mapping.VariableMap)
	if err != nil {
		return mailer.Content{}, err
	}
	vars = vars.WithLegacyColumns(p.Mapping.FirstnameCol, p.Mapping.NameCol)
	return mailer.Content{
		Subject:   strings.TrimSpace(p.Subject),
		Template:  p.Template,
		EmailCol:  strings.TrimSpace(p.Mapping.EmailCol),
		Variables: vars,
	}, nil
}

// channel builds the delivery channel for the requested auth mode. The
// oauth mode resolves a fresh access token through the account store,
// which may perform a token refresh on the way.
func (h *Handler) channel(ctx context.Context, req sendRequest) (mailer.Channel, error) {
	switch strings.ToLower(strings.TrimSpace(req.AuthMode)) {
	case authModePassword:
		return smtp.New(smtp.Config{
			Sender:   req.SMTP.Sender,
			Password: req.SMTP.Password,
			Host:     req.SMTP.Host,
			Port:     req.SMTP.Port,
		})
	case authModeOAuth:
		return h.oauthChannel(ctx, req.OAuth)
	case authModeMailApp:
		return mailapp.New(req.MailApp.Provider), nil
	default:
		return nil, errBadAuthMode
	}
}

func (h *Handler) oauthChannel(ctx context.Context, payload oauthPayload) (mailer.Channel, error) {
	name := strings.ToLower(strings.TrimSpace(payload.Provider))
	provider, ok := h.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", oauth.ErrUnknownProvider, payload.Provider)
	}
	clientID := strings.TrimSpace(payload.ClientID)
	if clientID == "" {
		return nil, errMissingClient
	}
	acc, err := h.accounts.FreshAccount(ctx, provider, clientID)
	if err != nil {
		return nil, err
	}
	switch name {
	case oauth.MicrosoftProviderName:
		return graph.New(acc.Email, acc.AccessToken)
	case oauth.GoogleProviderName:
		return gmail.New(acc.Email, acc.AccessToken)
	default:
		return nil, fmt.Errorf("%w: %q", oauth.ErrUnknownProvider, name)
	}
}
