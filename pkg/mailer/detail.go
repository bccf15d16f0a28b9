package mailer

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ErrorDetail extracts a human-readable failure message from a provider's
// HTTP error response. Tried in order: the structured error object's
// message, error_description, a plain error string, the raw body, and
// finally a generic "HTTP <code>" fallback.
func ErrorDetail(statusCode int, body []byte) string {
	var payload struct {
		Error            json.RawMessage `json:"error"`
		ErrorDescription string          `json:"error_description"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if len(payload.Error) > 0 {
			var obj struct {
				Message string `json:"message"`
			}
			if err := json.Unmarshal(payload.Error, &obj); err == nil {
				if msg := strings.TrimSpace(obj.Message); msg != "" {
					return msg
				}
			}
		}
		if msg := strings.TrimSpace(payload.ErrorDescription); msg != "" {
			return msg
		}
		var errStr string
		if err := json.Unmarshal(payload.Error, &errStr); err == nil {
			if msg := strings.TrimSpace(errStr); msg != "" {
				return msg
			}
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP %d", statusCode)
}
