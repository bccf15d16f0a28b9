package mailer

import "github.com/postpanda/mailmerge/pkg/template"

// Dataset is an uploaded recipient table: stable column names in original
// order plus one Row per recipient. It is immutable during a send.
type Dataset struct {
	Columns []string
	Rows    []template.Row
}

// Len returns the number of recipient rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}
