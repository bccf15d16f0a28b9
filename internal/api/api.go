// Package api wires the mail-merge engine into an HTTP surface: dataset
// upload, message preview, OAuth account management and the send
// endpoints. All responses are JSON except the OAuth popup completion
// page.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/postpanda/mailmerge/internal/config"
	"github.com/postpanda/mailmerge/middlewares"
	"github.com/postpanda/mailmerge/pkg/oauth"
	"github.com/postpanda/mailmerge/pkg/session"
)

// Handler carries the service dependencies shared by all routes.
type Handler struct {
	log       *slog.Logger
	cfg       *config.Config
	sessions  *session.Store
	accounts  *oauth.Store
	providers map[string]oauth.Provider
}

// New creates the API handler.
// The providers map holds only the OAuth providers with configured
// credentials; unconfigured ones are reported as such in the status
// endpoint.
func New(log *slog.Logger, cfg *config.Config, sessions *session.Store, accounts *oauth.Store, providers map[string]oauth.Provider) *Handler {
	return &Handler{
		log:       log,
		cfg:       cfg,
		sessions:  sessions,
		accounts:  accounts,
		providers: providers,
	}
}

// Router builds the chi route tree.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middlewares.CORS(
		middlewares.WithAllowOrigins(h.cfg.FrontendOrigin),
		middlewares.WithAllowMethods(http.MethodGet, http.MethodPost, http.MethodOptions),
		middlewares.WithAllowHeaders("Content-Type"),
	))

	r.Get("/", h.handleRoot)
	r.Get("/api/health", h.handleHealth)

	r.Get("/api/oauth/status", h.handleOAuthStatus)
	r.Get("/api/oauth/login/{provider}", h.handleOAuthLogin)
	r.Get("/api/oauth/callback/{provider}", h.handleOAuthCallback)
	r.Post("/api/oauth/logout", h.handleOAuthLogout)

	r.Post("/api/upload", h.handleUpload)
	r.Post("/api/preview", h.handlePreview)
	r.Post("/api/send-test", h.handleSendTest)
	r.Post("/api/send-all", h.handleSendAll)

	return r
}

func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]any{
		"ok":             true,
		"message":        "mailmerge backend is running",
		"frontend":       h.cfg.FrontendOrigin,
		"health":         "/api/health",
		"oauthProviders": h.providerCatalog(),
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]any{"ok": true})
}
