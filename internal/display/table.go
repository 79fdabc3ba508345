package display

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Table renders an aligned text table with optional color support.
// Widths are measured in terminal cells so Bengali digits and labels line up.
type Table struct {
	headers []string
	rows    [][]string
	// highlightRow is the 0-based row index to highlight (typically "today"). -1 = none.
	highlightRow int
	night        bool
}

// NewTable creates a new table with the given column headers.
func NewTable(headers []string) *Table {
	return &Table{
		headers:      headers,
		highlightRow: -1,
	}
}

// AddRow appends a row of values. The number of values should match the number of headers.
func (t *Table) AddRow(values []string) {
	t.rows = append(t.rows, values)
}

// SetHighlightRow sets which row index (0-based) should be highlighted.
func (t *Table) SetHighlightRow(idx int) {
	t.highlightRow = idx
}

// SetNight switches the highlight to the night theme.
func (t *Table) SetNight(night bool) {
	t.night = night
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Render produces the formatted table string with leading indent.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) {
				if w := runewidth.StringWidth(cell); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}

	var sb strings.Builder

	headerLine := formatRow(t.headers, widths)
	sb.WriteString("  " + Bold(headerLine) + "\n")

	sepParts := make([]string, len(widths))
	for i, w := range widths {
		sepParts[i] = strings.Repeat("─", w)
	}
	sb.WriteString(Dim("  "+strings.Join(sepParts, "  ")) + "\n")

	for i, row := range t.rows {
		line := formatRow(row, widths)
		if i == t.highlightRow {
			sb.WriteString("  " + Themed(line, t.night) + "\n")
		} else {
			sb.WriteString("  " + line + "\n")
		}
	}

	return sb.String()
}

// formatRow pads each cell to its column width in terminal cells.
func formatRow(cells []string, widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		parts[i] = runewidth.FillRight(cell, w)
	}
	return strings.Join(parts, "  ")
}
