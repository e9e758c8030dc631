package report

import (
	"strings"
	"time"
)

const fieldSeparator = ": "

// Field is one labeled value printed on a report document.
type Field struct {
	Label string
	Value string
}

// Report is a printable warehouse document such as a delivery note or a
// stock-count sheet. Hidden reports are internal records (adjustments,
// corrections) and are treated as absent on every customer-facing path.
type Report struct {
	ID        string
	Title     string
	Fields    []Field
	Hidden    bool
	CreatedAt time.Time
}

// Visible reports whether r may be shown outside the warehouse team.
func (r *Report) Visible() bool {
	return r != nil && !r.Hidden
}

// Lines flattens the report into the text lines of its document: the
// title, then one "Label: Value" line per field. Blank labels print the
// value alone.
func (r *Report) Lines() []string {
	lines := make([]string, 0, len(r.Fields)+1)
	if title := strings.TrimSpace(r.Title); title != "" {
		lines = append(lines, title)
	}
	for _, f := range r.Fields {
		if f.Label == "" {
			lines = append(lines, f.Value)
			continue
		}
		lines = append(lines, f.Label+fieldSeparator+f.Value)
	}
	return lines
}
