package table

// Marker is the sort indicator drawn on a column header.
type Marker int

const (
	MarkerNone Marker = iota
	MarkerAscending
	MarkerDescending
)

func (m Marker) String() string {
	switch m {
	case MarkerAscending:
		return "ascending"
	case MarkerDescending:
		return "descending"
	default:
		return "none"
	}
}

// Arrow is the glyph rendered next to the header label.
func (m Marker) Arrow() string {
	switch m {
	case MarkerAscending:
		return "↑"
	case MarkerDescending:
		return "↓"
	default:
		return ""
	}
}

// UpdateIndicators clears every header marker and marks active with the
// current sort direction. An active column without a header marks nothing.
func (t *Table) UpdateIndicators(active int) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.updateIndicators(active)
}

func (t *Table) updateIndicators(active int) {
	for i := range t.columns {
		t.columns[i].Marker = MarkerNone
	}
	if active < 0 || active >= len(t.columns) {
		return
	}
	if t.sortDirection == Descending {
		t.columns[active].Marker = MarkerDescending
	} else {
		t.columns[active].Marker = MarkerAscending
	}
}
