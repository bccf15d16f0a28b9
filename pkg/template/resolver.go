package template

import (
	"regexp"
	"sort"
	"strings"
)

var placeholderRegex = regexp.MustCompile(`\{\{\s*([^{}]+?)\s*\}\}`)

// resolutionTable holds the three lookup tiers for placeholder matching.
// Exact and lowered lookups favor the latest registration; the normalized
// tier keeps the first registration so explicit bindings are not shadowed
// by loose matches registered later.
type resolutionTable struct {
	exact      map[string]string
	lowered    map[string]string
	normalized map[string]string
}

func newResolutionTable() *resolutionTable {
	return &resolutionTable{
		exact:      make(map[string]string),
		lowered:    make(map[string]string),
		normalized: make(map[string]string),
	}
}

func (t *resolutionTable) register(key, value string) {
	key = strings.TrimSpace(key)
	if key == "" {
		return
	}
	t.exact[key] = value
	t.lowered[strings.ToLower(key)] = value
	if norm := normalizeKey(key); norm != "" {
		if _, ok := t.normalized[norm]; !ok {
			t.normalized[norm] = value
		}
	}
}

func (t *resolutionTable) lookup(token string) (string, bool) {
	if v, ok := t.exact[token]; ok {
		return v, true
	}
	if v, ok := t.lowered[strings.ToLower(token)]; ok {
		return v, true
	}
	if v, ok := t.normalized[normalizeKey(token)]; ok {
		return v, true
	}
	return "", false
}

// normalizeKey lower-cases a key and strips every non-alphanumeric rune,
// making "First Name", "first_name" and "FirstName" equivalent.
func normalizeKey(key string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(key) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Resolve substitutes {{ name }} placeholders in tmpl with values from the
// row and variable map. The columns slice fixes the registration order of
// the row's bindings (the table's original column order); pass nil to fall
// back to sorted column names. Registration order is row columns, then
// variable map entries, then the reserved Mail/Email bindings, which always
// carry the recipient address taken from emailCol. Unmatched placeholders
// are echoed verbatim.
func Resolve(row Row, columns []string, tmpl, emailCol string, vars VariableMap) string {
	email := ""
	if emailCol != "" {
		email = Text(row[emailCol])
	}

	table := newResolutionTable()
	for _, col := range rowColumns(row, columns) {
		table.register(col, Text(row[col]))
	}
	for _, name := range sortedNames(vars) {
		table.register(name, Text(row[vars[name]]))
	}
	table.register("Mail", email)
	table.register("Email", email)

	return placeholderRegex.ReplaceAllStringFunc(tmpl, func(match string) string {
		token := strings.TrimSpace(match[2 : len(match)-2])
		if value, ok := table.lookup(token); ok {
			return value
		}
		return match
	})
}

func sortedNames(vars VariableMap) []string {
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func rowColumns(row Row, columns []string) []string {
	if len(columns) > 0 {
		return columns
	}
	cols := make([]string, 0, len(row))
	for col := range row {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}
