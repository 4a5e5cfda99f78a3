package table

import (
	"errors"
	"testing"
)

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	reg.Add(people())

	if err := reg.Dispatch("people", ColumnHeaderActivated{Column: 1}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	tbl, err := reg.Get("people")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if col, dir, ok := tbl.SortState(); !ok || col != 1 || dir != Ascending {
		t.Fatalf("got col=%d dir=%s ok=%v", col, dir, ok)
	}

	if _, err := reg.Get("missing"); !errors.Is(err, ErrTableNotFound) {
		t.Fatalf("got %v want ErrTableNotFound", err)
	}
	if err := reg.Dispatch("missing", SearchTermChanged{}); !errors.Is(err, ErrTableNotFound) {
		t.Fatalf("got %v want ErrTableNotFound", err)
	}

	reg.Remove("people")
	if _, err := reg.Get("people"); !errors.Is(err, ErrTableNotFound) {
		t.Fatalf("removed table still present: %v", err)
	}
}

func TestRegistryFilterAndSortByID(t *testing.T) {
	reg := NewRegistry()
	reg.Add(people())

	if err := reg.Sort("people", 0); err != nil {
		t.Fatalf("Sort: %v", err)
	}
	if err := reg.Filter("people", "b"); err != nil {
		t.Fatalf("Filter: %v", err)
	}
	tbl, _ := reg.Get("people")
	visible := tbl.VisibleRows()
	if len(visible) != 1 || visible[0].Cells[0] != "Bob" {
		t.Fatalf("unexpected visible rows %v", visible)
	}

	if err := reg.Sort("nope", 0); !errors.Is(err, ErrTableNotFound) {
		t.Fatalf("got %v", err)
	}
	if err := reg.Filter("nope", ""); !errors.Is(err, ErrTableNotFound) {
		t.Fatalf("got %v", err)
	}
	if err := reg.Sort("people", 5); !errors.Is(err, ErrColumnNotFound) {
		t.Fatalf("got %v", err)
	}
}
