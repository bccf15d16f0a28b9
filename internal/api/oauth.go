package api

import (
	"fmt"
	htmltemplate "html/template"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/postpanda/mailmerge/pkg/oauth"
)

var providerLabels = map[string]string{
	oauth.GoogleProviderName:    "Google (Gmail)",
	oauth.MicrosoftProviderName: "Microsoft (Outlook)",
}

type providerStatus struct {
	Label      string `json:"label"`
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Email      string `json:"email,omitempty"`
	ExpiresAt  *int64 `json:"expiresAt,omitempty"`
}

func (h *Handler) providerCatalog() []string {
	names := make([]string, 0, len(h.providers))
	for name := range h.providers {
		names = append(names, name)
	}
	return names
}

// handleOAuthStatus reports, per provider, whether credentials are
// configured server-side and whether the calling client holds a
// connected account.
func (h *Handler) handleOAuthStatus(w http.ResponseWriter, r *http.Request) {
	clientID := strings.TrimSpace(r.URL.Query().Get("clientId"))
	statuses := make(map[string]providerStatus, len(providerLabels))
	for name, label := range providerLabels {
		st := providerStatus{Label: label}
		_, st.Configured = h.providers[name]
		if clientID != "" {
			if acc, ok := h.accounts.Account(clientID, name); ok {
				st.Connected = true
				st.Email = acc.Email
				if !acc.ExpiresAt.IsZero() {
					exp := acc.ExpiresAt.Unix()
					st.ExpiresAt = &exp
				}
			}
		}
		statuses[name] = st
	}
	h.respondJSON(w, http.StatusOK, map[string]any{"providers": statuses})
}

// handleOAuthLogin starts the authorization flow: it records a pending
// state bound to the caller and redirects to the provider's consent
// page. Opened in a popup by the frontend.
func (h *Handler) handleOAuthLogin(w http.ResponseWriter, r *http.Request) {
	name := strings.ToLower(chi.URLParam(r, "provider"))
	provider, ok := h.providers[name]
	if !ok {
		if _, known := providerLabels[name]; known {
			h.respondError(w, http.StatusBadRequest, fmt.Sprintf("%s OAuth credentials are not configured on the server", providerLabels[name]))
			return
		}
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("unknown oauth provider %q", name))
		return
	}
	clientID := strings.TrimSpace(r.URL.Query().Get("clientId"))
	if clientID == "" {
		h.respondError(w, http.StatusBadRequest, errMissingClient.Error())
		return
	}
	origin := strings.TrimSpace(r.URL.Query().Get("frontendOrigin"))
	if origin == "" {
		origin = h.cfg.FrontendOrigin
	}
	state, err := h.accounts.CreatePendingState(name, clientID, origin)
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	http.Redirect(w, r, provider.AuthCodeURL(state), http.StatusFound)
}

// handleOAuthCallback completes the flow inside the popup window. The
// rendered page posts the outcome to the opener and closes itself;
// errors are reported through the same channel so the popup never
// strands the user on a JSON blob.
func (h *Handler) handleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	name := strings.ToLower(chi.URLParam(r, "provider"))
	q := r.URL.Query()

	origin := h.cfg.FrontendOrigin
	pending, havePending := h.accounts.ConsumePendingState(q.Get("state"))
	if havePending && safeOrigin(pending.FrontendOrigin) {
		origin = pending.FrontendOrigin
	}

	fail := func(message string) {
		h.renderPopup(w, origin, popupResult{Status: "error", Provider: name, Message: message})
	}

	if !havePending {
		fail("Login session expired or was already used. Please try again.")
		return
	}
	if pending.Provider != name {
		fail("Login state does not match the provider. Please try again.")
		return
	}
	if errParam := q.Get("error"); errParam != "" {
		desc := q.Get("error_description")
		if desc == "" {
			desc = errParam
		}
		fail(desc)
		return
	}
	provider, ok := h.providers[name]
	if !ok {
		fail(fmt.Sprintf("unknown oauth provider %q", name))
		return
	}
	code := q.Get("code")
	if code == "" {
		fail("The provider did not return an authorization code.")
		return
	}

	ctx := r.Context()
	token, err := provider.Exchange(ctx, code, h.cfg.CallbackURL(name))
	if err != nil {
		h.log.Error("oauth code exchange failed", "provider", name, "error", err)
		fail("Token exchange with the provider failed. Please try again.")
		return
	}
	email, err := provider.FetchEmail(ctx, token)
	if err != nil {
		h.log.Error("oauth email lookup failed", "provider", name, "error", err)
		fail("Could not read the account's email address. Please try again.")
		return
	}

	h.accounts.SetAccount(pending.ClientID, oauth.Account{
		Provider:     name,
		Email:        email,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry,
		UpdatedAt:    time.Now(),
	})
	h.log.Info("oauth account connected", "provider", name, "email", email)
	h.renderPopup(w, origin, popupResult{Status: "ok", Provider: name, Email: email})
}

// handleOAuthLogout drops the stored account for one provider.
func (h *Handler) handleOAuthLogout(w http.ResponseWriter, r *http.Request) {
	var req oauthPayload
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	clientID := strings.TrimSpace(req.ClientID)
	if clientID == "" {
		h.respondError(w, http.StatusBadRequest, errMissingClient.Error())
		return
	}
	name := strings.ToLower(strings.TrimSpace(req.Provider))
	h.accounts.RemoveAccount(clientID, name)
	h.respondJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// popupResult is the payload the popup page posts back to its opener.
// The message type lets the frontend ignore unrelated postMessage
// traffic.
type popupResult struct {
	Status   string `json:"status"`
	Provider string `json:"provider"`
	Email    string `json:"email,omitempty"`
	Message  string `json:"message,omitempty"`
}

func safeOrigin(origin string) bool {
	return strings.HasPrefix(origin, "http://") || strings.HasPrefix(origin, "https://")
}

var popupPage = htmltemplate.Must(htmltemplate.New("popup").Parse(`<!doctype html>
<html>
<head><meta charset="utf-8"><title>Login abgeschlossen</title></head>
<body>
<p>{{if eq .Result.Status "ok"}}Login erfolgreich. Dieses Fenster kann geschlossen werden.{{else}}Login fehlgeschlagen: {{.Result.Message}}{{end}}</p>
<script>
(function () {
  var payload = {
    type: "mailmerge-oauth",
    status: {{.Result.Status}},
    provider: {{.Result.Provider}},
    email: {{.Result.Email}},
    message: {{.Result.Message}}
  };
  if (window.opener) {
    try {
      window.opener.postMessage(payload, {{.Origin}});
    } catch (e) {
      window.opener.postMessage(payload, "*");
    }
  }
  window.setTimeout(function () { window.close(); }, 400);
})();
</script>
</body>
</html>
`))

func (h *Handler) renderPopup(w http.ResponseWriter, origin string, result popupResult) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	status := http.StatusOK
	if result.Status != "ok" {
		status = http.StatusBadRequest
	}
	w.WriteHeader(status)
	err := popupPage.Execute(w, struct {
		Origin string
		Result popupResult
	}{Origin: origin, Result: result})
	if err != nil {
		h.log.Error("failed to render oauth popup", "error", err)
	}
}
