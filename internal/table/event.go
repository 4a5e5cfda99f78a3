package table

import "fmt"

// Event is an input from the rendering layer.
type Event interface {
	isEvent()
}

// SearchTermChanged carries the current contents of the search box.
type SearchTermChanged struct {
	Term string
}

// ColumnHeaderActivated reports a header activation by column index.
type ColumnHeaderActivated struct {
	Column int
}

func (SearchTermChanged) isEvent()     {}
func (ColumnHeaderActivated) isEvent() {}

// Handle applies an event to the table.
func (t *Table) Handle(ev Event) error {
	switch ev := ev.(type) {
	case SearchTermChanged:
		t.Filter(ev.Term)
		return nil
	case ColumnHeaderActivated:
		return t.Sort(ev.Column)
	default:
		return fmt.Errorf("unsupported table event %T", ev)
	}
}
