// Package table implements the client-side filter and sort engine used by
// every list screen: case-insensitive row filtering, content-typed stable
// sorting with direction toggling, and the header sort indicators.
package table

import (
	"errors"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var (
	// ErrTableNotFound is returned when an operation references a table that
	// does not exist.
	ErrTableNotFound = errors.New("table not found")
	// ErrColumnNotFound is returned when a column index is missing from the
	// header or from any row.
	ErrColumnNotFound = errors.New("column not found")
)

// Direction is the sort direction recorded on a table.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Row is one table row. Key is an opaque identity supplied by the renderer
// and is never read by the engine.
type Row struct {
	Key     string
	Cells   []string
	Visible bool
}

// Column is a header cell. Marker is owned by the indicator logic.
type Column struct {
	Title  string
	Marker Marker
}

// Table holds the rows of one rendered table plus its sort state.
// All methods are safe for concurrent use.
type Table struct {
	mu sync.Mutex

	id       string
	columns  []Column
	rows     []*Row
	collator *collate.Collator

	sorted        bool
	sortColumn    int
	sortDirection Direction
}

// Option configures a Table.
type Option func(*Table)

// WithLocale selects the language used for lexicographic comparison.
func WithLocale(tag language.Tag) Option {
	return func(t *Table) {
		t.collator = collate.New(tag)
	}
}

// New creates a table. Every row starts visible.
func New(id string, titles []string, rows []Row, opts ...Option) *Table {
	t := &Table{
		id:            id,
		columns:       make([]Column, len(titles)),
		sortDirection: Ascending,
	}
	for i, title := range titles {
		t.columns[i] = Column{Title: title}
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.collator == nil {
		t.collator = collate.New(language.Und)
	}
	t.rows = copyRows(rows)
	return t
}

func copyRows(rows []Row) []*Row {
	out := make([]*Row, len(rows))
	for i, r := range rows {
		out[i] = &Row{
			Key:     r.Key,
			Cells:   append([]string(nil), r.Cells...),
			Visible: true,
		}
	}
	return out
}

// ID returns the table identifier.
func (t *Table) ID() string {
	return t.id
}

// Rows returns a snapshot of the rows in display order.
func (t *Table) Rows() []Row {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Row, len(t.rows))
	for i, r := range t.rows {
		out[i] = Row{Key: r.Key, Cells: append([]string(nil), r.Cells...), Visible: r.Visible}
	}
	return out
}

// VisibleRows returns the visible rows in display order.
func (t *Table) VisibleRows() []Row {
	all := t.Rows()
	out := all[:0]
	for _, r := range all {
		if r.Visible {
			out = append(out, r)
		}
	}
	return out
}

// Columns returns a snapshot of the header cells.
func (t *Table) Columns() []Column {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Column(nil), t.columns...)
}

// SortState reports the recorded sort column and direction. ok is false
// until the first sort.
func (t *Table) SortState() (column int, dir Direction, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sortColumn, t.sortDirection, t.sorted
}

// Reset replaces the rows after the renderer reloads its data. The sort
// state survives and the current order is reapplied without toggling.
func (t *Table) Reset(rows []Row) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = copyRows(rows)
	if !t.sorted || t.checkColumn(t.sortColumn) != nil {
		return
	}
	t.rows = t.order(t.sortColumn, t.sortDirection)
}
