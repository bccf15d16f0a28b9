package mailer

import (
	"regexp"
	"strings"
)

// Pragmatic shape check, not RFC 5322: one @, something before it,
// a dot with non-whitespace around it after.
var addressRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// IsValidAddress reports whether s looks like a deliverable email address.
// Used to classify rows before any channel attempt; this is a whitelist,
// not sanitization.
func IsValidAddress(s string) bool {
	return addressRegex.MatchString(strings.TrimSpace(s))
}
