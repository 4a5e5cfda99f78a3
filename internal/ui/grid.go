package ui

import (
	"fmt"
	"strings"

	"modpanel/internal/table"
	"modpanel/internal/util"

	"github.com/charmbracelet/lipgloss"
)

type gridColumn struct {
	title string
	width int
}

// GridModel renders one list screen on top of a filter/sort table.
type GridModel struct {
	table   *table.Table
	columns []gridColumn
	noun    string
	empty   string

	activeColumn int
	cursor       int
	offset       int
	term         string

	viewportHeight int
}

// NewGridModel creates a grid backed by a fresh table.
func NewGridModel(id, noun string, columns []gridColumn, rows []table.Row, opts ...table.Option) *GridModel {
	titles := make([]string, len(columns))
	for i, c := range columns {
		titles[i] = c.title
	}
	return &GridModel{
		table:   table.New(id, titles, rows, opts...),
		columns: columns,
		noun:    noun,
		empty:   fmt.Sprintf("No %s yet.", noun),
	}
}

// Table exposes the backing table for registration.
func (g *GridModel) Table() *table.Table {
	return g.table
}

func (g *GridModel) TableID() string {
	return g.table.ID()
}

func (g *GridModel) ActiveColumn() int {
	return g.activeColumn
}

// Reset swaps in reloaded rows. The sort order is kept and the current
// search term is applied again.
func (g *GridModel) Reset(rows []table.Row) {
	g.table.Reset(rows)
	g.table.Filter(g.term)
	g.clampCursor()
}

// SetTerm records the search term after it has been applied to the table.
func (g *GridModel) SetTerm(term string) {
	g.term = term
	g.clampCursor()
}

// Term returns the last applied search term.
func (g *GridModel) Term() string {
	return g.term
}

// Rows returns the rows currently drawn.
func (g *GridModel) Rows() []table.Row {
	return g.table.VisibleRows()
}

// Selected returns the row under the cursor.
func (g *GridModel) Selected() (table.Row, bool) {
	rows := g.Rows()
	if g.cursor < 0 || g.cursor >= len(rows) {
		return table.Row{}, false
	}
	return rows[g.cursor], true
}

// SelectedCell returns the active column's value in the selected row.
func (g *GridModel) SelectedCell() (string, bool) {
	row, ok := g.Selected()
	if !ok || g.activeColumn >= len(row.Cells) {
		return "", false
	}
	return row.Cells[g.activeColumn], true
}

func (g *GridModel) clampCursor() {
	n := len(g.Rows())
	if n == 0 {
		g.cursor = 0
		g.offset = 0
		return
	}
	if g.cursor >= n {
		g.cursor = n - 1
	}
	if g.cursor < 0 {
		g.cursor = 0
	}
	if g.offset > g.cursor {
		g.offset = g.cursor
	}
}

func (g *GridModel) NextColumn() {
	g.activeColumn = (g.activeColumn + 1) % len(g.columns)
}

func (g *GridModel) PrevColumn() {
	g.activeColumn--
	if g.activeColumn < 0 {
		g.activeColumn = len(g.columns) - 1
	}
}

// JumpToColumn makes the 1-based column number active.
func (g *GridModel) JumpToColumn(number int) bool {
	if number < 1 || number > len(g.columns) {
		return false
	}
	g.activeColumn = number - 1
	return true
}

func (g *GridModel) TableMeta() string {
	parts := []string{fmt.Sprintf("col %s", strings.ToUpper(g.columns[g.activeColumn].title))}
	if col, dir, ok := g.table.SortState(); ok && col < len(g.columns) {
		parts = append(parts, fmt.Sprintf("sort %s %s", strings.ToUpper(g.columns[col].title), dir))
	}
	if g.term != "" {
		parts = append(parts, fmt.Sprintf("search %q", g.term))
	}
	return strings.Join(parts, "  ·  ")
}

// View renders the grid.
func (g *GridModel) View(width, height int) string {
	rows := g.Rows()
	if len(rows) == 0 {
		msg := "    " + g.empty
		if g.term != "" {
			msg = fmt.Sprintf("    No %s match %q.", g.noun, g.term)
		}
		return EmptyStateStyle.Width(width).Height(height).Render(msg)
	}

	headerCols := g.table.Columns()
	widths := make([]int, len(g.columns))
	headers := make([]string, len(g.columns))
	totalFixed := 0
	for i, col := range g.columns {
		label := strings.ToUpper(col.title)
		if i < len(headerCols) {
			if arrow := headerCols[i].Marker.Arrow(); arrow != "" {
				label += " " + arrow
			}
		}
		widths[i] = max(col.width, lipgloss.Width(label)) + 2
		totalFixed += widths[i]
		headers[i] = label
	}
	if extra := width - totalFixed - 2; extra > 0 {
		widths[len(widths)-1] += extra
	}

	header := g.renderHeader(headers, widths)
	divider := BreadcrumbStyle.Render(strings.Repeat("─", max(0, min(width, totalFixed))))

	visibleHeight := max(1, height-3)
	g.viewportHeight = visibleHeight
	if g.cursor >= g.offset+visibleHeight {
		g.offset = g.cursor - visibleHeight + 1
	}

	var lines []string
	for i := g.offset; i < len(rows) && i < g.offset+visibleHeight; i++ {
		style := NormalRowStyle
		if i == g.cursor {
			style = SelectedRowStyle
		}
		cells := make([]string, len(g.columns))
		for c := range g.columns {
			if c < len(rows[i].Cells) {
				cells[c] = rows[i].Cells[c]
			}
		}
		lines = append(lines, renderRow(cells, widths, style))
	}

	total := len(g.table.Rows())
	count := fmt.Sprintf("%d %s", len(rows), g.noun)
	if len(rows) != total {
		count = fmt.Sprintf("%d/%d %s", len(rows), total, g.noun)
	}
	status := StatusBarStyle.Render(fmt.Sprintf("%s  ·  row %d/%d  ·  %s", count, g.cursor+1, len(rows), g.TableMeta()))

	content := lipgloss.JoinVertical(lipgloss.Left, header, divider, strings.Join(lines, "\n"))
	spacer := lipgloss.NewStyle().Height(max(0, height-lipgloss.Height(content)-lipgloss.Height(status))).Render("")
	return lipgloss.JoinVertical(lipgloss.Left, content, spacer, status)
}

func (g *GridModel) renderHeader(labels []string, widths []int) string {
	cells := make([]string, len(labels))
	for i, label := range labels {
		style := TableHeaderStyle
		if i == g.activeColumn {
			style = ActiveHeaderStyle
		}
		cells[i] = style.Width(widths[i]).Render(" " + label)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func renderRow(cells []string, widths []int, style lipgloss.Style) string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = style.Width(widths[i]).Render(" " + util.TruncateString(c, widths[i]-2))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, out...)
}

// MoveDown moves the cursor down.
func (g *GridModel) MoveDown() {
	if g.cursor < len(g.Rows())-1 {
		g.cursor++
		if g.cursor >= g.offset+g.pageSize() {
			g.offset++
		}
	}
}

// MoveUp moves the cursor up.
func (g *GridModel) MoveUp() {
	if g.cursor > 0 {
		g.cursor--
		if g.cursor < g.offset {
			g.offset--
		}
	}
}

// JumpToTop jumps to the first row.
func (g *GridModel) JumpToTop() {
	g.cursor = 0
	g.offset = 0
}

// JumpToBottom jumps to the last row.
func (g *GridModel) JumpToBottom() {
	n := len(g.Rows())
	if n == 0 {
		return
	}
	g.cursor = n - 1
	if vh := g.pageSize(); g.cursor >= vh {
		g.offset = g.cursor - vh + 1
	}
}

// HalfPageDown moves down half a page.
func (g *GridModel) HalfPageDown() {
	g.cursor += max(1, g.pageSize()/2)
	g.clampCursor()
	if vh := g.pageSize(); g.cursor >= g.offset+vh {
		g.offset = g.cursor - vh + 1
	}
}

// HalfPageUp moves up half a page.
func (g *GridModel) HalfPageUp() {
	g.cursor -= max(1, g.pageSize()/2)
	g.clampCursor()
}

func (g *GridModel) pageSize() int {
	if g.viewportHeight == 0 {
		return 10
	}
	return g.viewportHeight
}
