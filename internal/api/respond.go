package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/postpanda/mailmerge/pkg/mailer"
	"github.com/postpanda/mailmerge/pkg/mailer/mailapp"
	"github.com/postpanda/mailmerge/pkg/mailer/smtp"
	"github.com/postpanda/mailmerge/pkg/oauth"
	"github.com/postpanda/mailmerge/pkg/template"
)

func (h *Handler) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// inputErrors are the failures caused by the request payload rather
// than by the server or a downstream service.
var inputErrors = []error{
	template.ErrReservedVariable,
	mailer.ErrEmptyDataset,
	mailer.ErrNoSubject,
	mailer.ErrNoTemplate,
	mailer.ErrNoEmailColumn,
	mailer.ErrInvalidRecipient,
	smtp.ErrInvalidSender,
	smtp.ErrMissingPassword,
	smtp.ErrMissingHost,
	smtp.ErrInvalidPort,
	mailapp.ErrOutlookUnavailable,
	mailapp.ErrNotAvailable,
	oauth.ErrUnknownProvider,
	oauth.ErrNotConnected,
	oauth.ErrReauthRequired,
	errBadAuthMode,
	errMissingClient,
}

// respondFailure maps an operation error onto an HTTP status. Payload
// mistakes come back as 400 so the frontend can show them verbatim;
// everything else is a 500.
func (h *Handler) respondFailure(w http.ResponseWriter, err error) {
	for _, known := range inputErrors {
		if errors.Is(err, known) {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	h.log.Error("request failed", "error", err)
	h.respondError(w, http.StatusInternalServerError, err.Error())
}

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	return dec.Decode(dst)
}
