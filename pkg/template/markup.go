package template

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

var (
	boldRegex = regexp.MustCompile(`\*\*(.+?)\*\*`)
	linkRegex = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
)

// RenderHTML converts resolved template text into an HTML body.
// The text is HTML-escaped before any markup expansion, so row data can
// never inject markup. **bold** becomes <strong>, [label](url) becomes an
// anchor, newlines become <br>. Bold runs before link so markers inside a
// label still expand.
func RenderHTML(text string) string {
	escaped := html.EscapeString(text)
	rendered := boldRegex.ReplaceAllString(escaped, "<strong>$1</strong>")
	rendered = linkRegex.ReplaceAllStringFunc(rendered, func(match string) string {
		groups := linkRegex.FindStringSubmatch(match)
		label := strings.TrimSpace(groups[1])
		rawURL := html.UnescapeString(strings.TrimSpace(groups[2]))
		safeURL, ok := safeLinkTarget(rawURL)
		if !ok {
			return match
		}
		href := html.EscapeString(safeURL)
		return fmt.Sprintf(`<a href="%s" target="_blank" rel="noopener noreferrer">%s</a>`, href, label)
	})
	return strings.ReplaceAll(rendered, "\n", "<br>\n")
}

// RenderPlain converts resolved template text into the plain-text body.
// Derived from the unescaped text, never from the HTML form, to avoid
// double-escaping. Links become "label (url)", bold markers are stripped.
func RenderPlain(text string) string {
	plain := linkRegex.ReplaceAllString(text, "$1 ($2)")
	return boldRegex.ReplaceAllString(plain, "$1")
}

// safeLinkTarget whitelists schemes that may become clickable anchors.
// Everything else (javascript:, data:, file:, ...) is rejected and the
// original bracket markup is kept instead.
func safeLinkTarget(rawURL string) (string, bool) {
	candidate := strings.TrimSpace(rawURL)
	for _, scheme := range []string{"http://", "https://", "mailto:"} {
		if strings.HasPrefix(candidate, scheme) {
			return candidate, true
		}
	}
	return "", false
}
