package output

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Table renders left-aligned columns for text output.
type Table struct {
	headers []string
	rows    [][]string
	sep     string
}

// NewTable creates a table with the given headers.
func NewTable(headers ...string) *Table {
	return &Table{headers: headers, sep: "  "}
}

// AddRow adds a row. Short rows are padded with empty cells.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Render writes the header, a dashed rule and the rows.
func (t *Table) Render(w io.Writer) error {
	widths := t.widths()
	if len(widths) == 0 {
		return nil
	}

	if len(t.headers) > 0 {
		rule := make([]string, len(widths))
		for i, n := range widths {
			rule[i] = strings.Repeat("-", n)
		}
		if err := t.line(w, t.headers, widths); err != nil {
			return err
		}
		if err := t.line(w, rule, widths); err != nil {
			return err
		}
	}

	for _, row := range t.rows {
		if err := t.line(w, row, widths); err != nil {
			return err
		}
	}
	return nil
}

// String returns the rendered table.
func (t *Table) String() string {
	var sb strings.Builder
	_ = t.Render(&sb)
	return sb.String()
}

func (t *Table) widths() []int {
	var widths []int
	measure := func(cells []string) {
		for i, c := range cells {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], utf8.RuneCountInString(c))
		}
	}
	measure(t.headers)
	for _, row := range t.rows {
		measure(row)
	}
	return widths
}

func (t *Table) line(w io.Writer, cells []string, widths []int) error {
	parts := make([]string, len(widths))
	for i, n := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		parts[i] = cell + strings.Repeat(" ", n-utf8.RuneCountInString(cell))
	}
	_, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, t.sep), " "))
	return err
}
