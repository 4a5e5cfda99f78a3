package table

import "strings"

// Filter marks a row visible when its concatenated cell text contains term,
// ignoring case. An empty term shows every row. Row order is untouched.
func (t *Table) Filter(term string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	needle := strings.ToLower(term)
	for _, r := range t.rows {
		r.Visible = strings.Contains(strings.ToLower(strings.Join(r.Cells, "")), needle)
	}
}
