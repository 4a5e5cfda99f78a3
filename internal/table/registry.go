package table

import (
	"fmt"
	"sync"
)

// Registry indexes the tables currently present in the view.
type Registry struct {
	mu     sync.RWMutex
	tables map[string]*Table
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{tables: make(map[string]*Table)}
}

// Add registers t, replacing any table with the same id.
func (r *Registry) Add(t *Table) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tables[t.ID()] = t
}

// Remove drops the table with the given id. Its sort state goes with it.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tables, id)
}

// Get looks up a table by id.
func (r *Registry) Get(id string) (*Table, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tables[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTableNotFound, id)
	}
	return t, nil
}

// Dispatch routes an event to the table with the given id.
func (r *Registry) Dispatch(id string, ev Event) error {
	t, err := r.Get(id)
	if err != nil {
		return err
	}
	return t.Handle(ev)
}

// Filter applies term to the table with the given id.
func (r *Registry) Filter(id, term string) error {
	t, err := r.Get(id)
	if err != nil {
		return err
	}
	t.Filter(term)
	return nil
}

// Sort activates column on the table with the given id.
func (r *Registry) Sort(id string, column int) error {
	t, err := r.Get(id)
	if err != nil {
		return err
	}
	return t.Sort(column)
}
