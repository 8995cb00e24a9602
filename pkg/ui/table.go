package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// TableColumn describes one column. Width is a minimum; wider cells grow
// the column.
type TableColumn struct {
	Header string
	Width  int
	Align  string // "left", "right", "center"
}

// Table collects rows for a static, non-interactive listing
type Table struct {
	Columns []TableColumn
	Rows    [][]string
}

// NewTable creates a new table with specified columns
func NewTable(columns []TableColumn) *Table {
	return &Table{
		Columns: columns,
		Rows:    [][]string{},
	}
}

// AddRow adds a row; missing cells render empty, extra cells are dropped
func (t *Table) AddRow(cells []string) {
	row := make([]string, len(t.Columns))
	copy(row, cells)
	t.Rows = append(t.Rows, row)
}

// Render draws the table with a rule under the header and faint odd rows
func (t *Table) Render() string {
	if len(t.Columns) == 0 {
		return ""
	}

	headers := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		headers[i] = padString(col.Header, col.Width, "left")
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(StyleTableBorder).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		BorderRow(false).
		BorderHeader(true).
		Headers(headers...).
		Rows(t.Rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			var s lipgloss.Style
			switch {
			case row == table.HeaderRow:
				s = StyleTableHeader
			case row%2 == 0:
				s = StyleTableRow
			default:
				s = StyleTableRowAlt
			}
			s = s.PaddingRight(2)
			if col == len(t.Columns)-1 {
				s = s.PaddingRight(0)
			}
			if row != table.HeaderRow {
				s = s.Align(alignment(t.Columns[col].Align))
			}
			return s
		})

	return tbl.Render() + "\n"
}

func alignment(align string) lipgloss.Position {
	switch align {
	case "right":
		return lipgloss.Right
	case "center":
		return lipgloss.Center
	}
	return lipgloss.Left
}

// padString pads s to width terminal cells so icons and wide runes line up
func padString(s string, width int, align string) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}

	padding := width - w

	switch align {
	case "right":
		return strings.Repeat(" ", padding) + s
	case "center":
		left := padding / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", padding-left)
	}
	return s + strings.Repeat(" ", padding)
}

// RenderSimpleList renders a bulleted list, one item per line
func RenderSimpleList(items []string) string {
	var b strings.Builder
	for _, item := range items {
		b.WriteString(StyleInfo.Render("  • "))
		b.WriteString(item)
		b.WriteString("\n")
	}
	return b.String()
}

// RenderKeyValue renders a key-value pair
func RenderKeyValue(key, value string) string {
	return fmt.Sprintf("%s: %s", StyleAccent.Render(key), value)
}

// RenderKeyValues renders pairs with the keys padded to a common width.
// pairs alternates key, value; a trailing key without a value is dropped.
func RenderKeyValues(pairs ...string) string {
	width := 0
	for i := 0; i+1 < len(pairs); i += 2 {
		width = max(width, lipgloss.Width(pairs[i]))
	}

	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(StyleAccent.Render(padString(pairs[i], width, "left")))
		b.WriteString("  ")
		b.WriteString(pairs[i+1])
		b.WriteString("\n")
	}
	return b.String()
}
