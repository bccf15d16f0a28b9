package template

import "strings"

// VariableMap maps a placeholder name to the column that feeds it.
// Names are matched case- and punctuation-insensitively during resolution.
type VariableMap map[string]string

// NewVariableMap builds a VariableMap from raw user input.
// Placeholder names are trimmed of whitespace and surrounding braces;
// entries with an empty name or column are dropped.
// Returns ErrReservedVariable if an entry tries to define "Mail"
// (case-insensitive): that placeholder is always bound to the recipient
// address and cannot be overridden.
func NewVariableMap(raw map[string]string) (VariableMap, error) {
	vm := make(VariableMap, len(raw))
	for name, column := range raw {
		name = strings.TrimSpace(strings.Trim(strings.TrimSpace(name), "{}"))
		column = strings.TrimSpace(column)
		if name == "" || column == "" {
			continue
		}
		if strings.EqualFold(name, "mail") {
			return nil, ErrReservedVariable
		}
		vm[name] = column
	}
	return vm, nil
}

// WithLegacyColumns folds the deprecated "firstname column" / "name column"
// shorthand into the map, synthesizing the historical alias placeholders
// unless the map already defines them explicitly.
func (vm VariableMap) WithLegacyColumns(firstnameCol, nameCol string) VariableMap {
	out := make(VariableMap, len(vm)+4)
	for name, column := range vm {
		out[name] = column
	}
	setDefault := func(name, column string) {
		if _, ok := out[name]; !ok {
			out[name] = column
		}
	}
	if col := strings.TrimSpace(firstnameCol); col != "" {
		setDefault("FirstName", col)
		setDefault("Vorname", col)
	}
	if col := strings.TrimSpace(nameCol); col != "" {
		setDefault("LastName", col)
		setDefault("Name", col)
	}
	return out
}
