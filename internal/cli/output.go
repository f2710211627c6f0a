package cli

import (
	"strings"
)

// Table renders aligned columns, e.g. the rows of `geoalab decode`.
type Table struct {
	headers []string
	rows    [][]string
	widths  []int
}

// NewTable creates a table with the given headers.
func NewTable(headers ...string) *Table {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	return &Table{headers: headers, widths: widths}
}

// AddRow adds a row; missing cells are blank and extra cells are dropped.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.headers))
	copy(row, cells)
	for i, cell := range row {
		if len(cell) > t.widths[i] {
			t.widths[i] = len(cell)
		}
	}
	t.rows = append(t.rows, row)
}

// String renders the table.
func (t *Table) String() string {
	if len(t.headers) == 0 {
		return ""
	}
	var b strings.Builder

	t.line(&b, t.headers, Bold)
	sep := make([]string, len(t.widths))
	for i, w := range t.widths {
		sep[i] = strings.Repeat("-", w)
	}
	t.line(&b, sep, Dim)
	for _, row := range t.rows {
		t.line(&b, row, nil)
	}
	return b.String()
}

func (t *Table) line(b *strings.Builder, cells []string, style func(string) string) {
	for i, cell := range cells {
		if i > 0 {
			b.WriteString("  ")
		}
		padded := cell
		// last column unpadded
		if i < len(cells)-1 {
			padded = padRight(cell, t.widths[i])
		}
		if style != nil {
			padded = style(padded)
		}
		b.WriteString(padded)
	}
	b.WriteString("\n")
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// KeyValue formats "key: value" with the key dimmed.
func KeyValue(key, value string) string {
	return Dim(key+":") + " " + value
}
