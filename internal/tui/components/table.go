// Package components provides reusable TUI components.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Column defines a table column.
type Column struct {
	Title string
	Align lipgloss.Position

	// Width is a fixed width. When zero the column shares the remaining
	// space by Weight, never going below MinWidth.
	Width    int
	MinWidth int
	Weight   float64

	// Priority decides drop order on narrow terminals (lower drops first).
	Priority int
}

const columnSeparator = " | "

// Table is a simple table component.
type Table struct {
	columns     []Column
	rows        [][]string
	marked      map[int]bool
	selected    int
	offset      int
	visibleRows int
	focused     bool
	palette     Palette
}

// NewTable creates a new table with the given columns.
func NewTable(columns []Column) *Table {
	return &Table{
		columns:     columns,
		rows:        [][]string{},
		visibleRows: 10,
		palette:     DefaultPalette(),
	}
}

// SetRows sets the table data, keeping the selection in range.
func (t *Table) SetRows(rows [][]string) {
	t.rows = rows
	t.marked = nil
	if t.selected >= len(rows) {
		t.selected = max(len(rows)-1, 0)
	}
	t.clampOffset()
}

// Mark highlights a row as a warning (e.g. out of stock).
func (t *Table) Mark(row int) {
	if t.marked == nil {
		t.marked = make(map[int]bool)
	}
	t.marked[row] = true
}

// SetVisibleRows sets the number of visible rows.
func (t *Table) SetVisibleRows(n int) {
	t.visibleRows = max(n, 1)
	t.clampOffset()
}

// SetPalette sets the render colors.
func (t *Table) SetPalette(p Palette) {
	t.palette = p
}

// Focus sets the table focus state.
func (t *Table) Focus(focused bool) {
	t.focused = focused
}

// Selected returns the currently selected row index.
func (t *Table) Selected() int {
	return t.selected
}

// SetSelected moves the selection to row.
func (t *Table) SetSelected(row int) {
	if row < 0 || row >= len(t.rows) {
		return
	}
	t.selected = row
	t.clampOffset()
}

// SelectedRow returns the currently selected row data.
func (t *Table) SelectedRow() []string {
	if t.selected >= 0 && t.selected < len(t.rows) {
		return t.rows[t.selected]
	}
	return nil
}

// MoveUp moves the selection up.
func (t *Table) MoveUp() {
	if t.selected > 0 {
		t.selected--
		t.clampOffset()
	}
}

// MoveDown moves the selection down.
func (t *Table) MoveDown() {
	if t.selected < len(t.rows)-1 {
		t.selected++
		t.clampOffset()
	}
}

// GoToTop goes to the first row.
func (t *Table) GoToTop() {
	t.selected = 0
	t.offset = 0
}

// GoToBottom goes to the last row.
func (t *Table) GoToBottom() {
	if len(t.rows) > 0 {
		t.selected = len(t.rows) - 1
		t.clampOffset()
	}
}

func (t *Table) clampOffset() {
	if t.selected < t.offset {
		t.offset = t.selected
	}
	if t.selected >= t.offset+t.visibleRows {
		t.offset = t.selected - t.visibleRows + 1
	}
	if t.offset < 0 {
		t.offset = 0
	}
}

// ComputeWidths distributes width among the columns. Columns that do not
// fit are dropped lowest priority first and get width 0.
func (t *Table) ComputeWidths(width int) []int {
	widths := make([]int, len(t.columns))
	visible := make([]bool, len(t.columns))
	for i := range visible {
		visible[i] = true
	}

	for {
		fixed, weight, count := 0, 0.0, 0
		for i, col := range t.columns {
			if !visible[i] {
				continue
			}
			count++
			if col.Width > 0 {
				fixed += col.Width
			} else {
				fixed += col.MinWidth
				weight += col.Weight
			}
		}

		gaps := 0
		if count > 1 {
			gaps = (count - 1) * len(columnSeparator)
		}
		remaining := width - fixed - gaps - 2 // row padding

		if remaining < 0 && count > 1 {
			visible[t.lowestPriority(visible)] = false
			continue
		}
		remaining = max(remaining, 0)

		for i, col := range t.columns {
			switch {
			case !visible[i]:
				widths[i] = 0
			case col.Width > 0:
				widths[i] = col.Width
			case weight > 0:
				widths[i] = col.MinWidth + int(float64(remaining)*col.Weight/weight)
			default:
				widths[i] = col.MinWidth
			}
		}
		return widths
	}
}

func (t *Table) lowestPriority(visible []bool) int {
	idx := -1
	for i, col := range t.columns {
		if !visible[i] {
			continue
		}
		if idx < 0 || col.Priority < t.columns[idx].Priority {
			idx = i
		}
	}
	return idx
}

// Render renders the table to fit width.
func (t *Table) Render(width int) string {
	widths := t.ComputeWidths(width)

	headerStyle := t.palette.fg(t.palette.Accent).Bold(true)
	rowStyle := t.palette.fg(t.palette.Primary)
	rowAltStyle := t.palette.fg(t.palette.Secondary)
	markStyle := t.palette.fg(t.palette.Error)
	selectedStyle := lipgloss.NewStyle().Background(t.palette.Primary).Foreground(t.palette.Background)
	borderStyle := t.palette.fg(t.palette.Secondary)

	var b strings.Builder

	header := t.renderRow(t.headers(), widths, headerStyle)
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(borderStyle.Render(strings.Repeat("-", lipgloss.Width(header))))
	b.WriteString("\n")

	end := min(t.offset+t.visibleRows, len(t.rows))
	for i := t.offset; i < end; i++ {
		style := rowStyle
		switch {
		case i == t.selected && t.focused:
			style = selectedStyle
		case t.marked[i]:
			style = markStyle
		case (i-t.offset)%2 == 1:
			style = rowAltStyle
		}

		b.WriteString(t.renderRow(t.rows[i], widths, style))
		b.WriteString("\n")
	}

	return b.String()
}

func (t *Table) headers() []string {
	headers := make([]string, len(t.columns))
	for i, col := range t.columns {
		headers[i] = col.Title
	}
	return headers
}

func (t *Table) renderRow(cells []string, widths []int, style lipgloss.Style) string {
	var parts []string

	for i, col := range t.columns {
		w := widths[i]
		if w == 0 {
			continue
		}

		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		cell = fit(cell, w, col.Align)
		parts = append(parts, style.Render(cell))
	}

	return " " + strings.Join(parts, columnSeparator) + " "
}

// fit truncates or pads s to exactly w cells.
func fit(s string, w int, align lipgloss.Position) string {
	if lipgloss.Width(s) > w {
		runes := []rune(s)
		for len(runes) > 0 && lipgloss.Width(string(runes))+1 > w {
			runes = runes[:len(runes)-1]
		}
		s = string(runes) + "…"
	}

	pad := w - lipgloss.Width(s)
	if pad <= 0 {
		return s
	}

	switch align {
	case lipgloss.Right:
		return strings.Repeat(" ", pad) + s
	case lipgloss.Center:
		left := pad / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
	default:
		return s + strings.Repeat(" ", pad)
	}
}

// Empty returns true if the table has no rows.
func (t *Table) Empty() bool {
	return len(t.rows) == 0
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int {
	return len(t.rows)
}
