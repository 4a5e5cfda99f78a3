package table

import (
	"cmp"
	"fmt"
	"slices"
)

// Sort orders the rows by column. Activating the column that was sorted
// last flips the direction; any other column starts ascending. Rows whose
// keys compare equal keep their relative order in both directions.
func (t *Table) Sort(column int) error {
	if t == nil {
		return ErrTableNotFound
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.checkColumn(column); err != nil {
		return err
	}

	dir := Ascending
	if t.sorted && t.sortColumn == column && t.sortDirection == Ascending {
		dir = Descending
	}

	t.rows = t.order(column, dir)
	t.sorted = true
	t.sortColumn = column
	t.sortDirection = dir
	t.updateIndicators(column)
	return nil
}

func (t *Table) checkColumn(column int) error {
	if column < 0 {
		return fmt.Errorf("%w: %d in table %q", ErrColumnNotFound, column, t.id)
	}
	if len(t.columns) > 0 && column >= len(t.columns) {
		return fmt.Errorf("%w: %d in table %q", ErrColumnNotFound, column, t.id)
	}
	for i, r := range t.rows {
		if column >= len(r.Cells) {
			return fmt.Errorf("%w: %d in row %d of table %q", ErrColumnNotFound, column, i, t.id)
		}
	}
	return nil
}

// order returns a stably sorted copy of the rows. The caller holds t.mu.
func (t *Table) order(column int, dir Direction) []*Row {
	values := make([]string, len(t.rows))
	for i, r := range t.rows {
		values[i] = r.Cells[column]
	}
	compare := t.comparator(InferColumnKind(values))

	rows := slices.Clone(t.rows)
	slices.SortStableFunc(rows, func(a, b *Row) int {
		c := compare(a.Cells[column], b.Cells[column])
		if dir == Descending {
			return -c
		}
		return c
	})
	return rows
}

func (t *Table) comparator(kind Kind) func(a, b string) int {
	if kind == Numeric {
		return func(a, b string) int {
			x, _ := parseNumber(a)
			y, _ := parseNumber(b)
			return cmp.Compare(x, y)
		}
	}
	return t.collator.CompareString
}
