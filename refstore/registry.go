package refstore

import (
	"sync"

	"github.com/holiman/uint256"

	"github.com/wippyai/schemac/errors"
)

// Key identifies one entity's store for one dynamic field.
type Key struct {
	Field  string
	Entity uint64
}

// Registry holds one Store per (field, entity) pair for a schema's dynamic
// reference fields. The registry map is safe for concurrent use; each Store it
// hands out is still single-writer.
type Registry struct {
	fields map[string]Descriptor
	stores map[Key]*Store
	mu     sync.RWMutex
	closed bool
}

// NewRegistry creates a registry for the described fields.
func NewRegistry(descs []Descriptor) *Registry {
	r := &Registry{
		fields: make(map[string]Descriptor, len(descs)),
		stores: make(map[Key]*Store),
	}
	for _, d := range descs {
		r.fields[d.FieldKey] = d
	}
	return r
}

// Open returns the store for entity's field, creating an empty one on first use.
func (r *Registry) Open(field string, entity uint64) (*Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, errors.InvalidInput(errors.PhaseStore, []string{field}, "registry closed")
	}
	if _, ok := r.fields[field]; !ok {
		return nil, errors.NotFound(errors.PhaseStore, "reference field", field)
	}

	k := Key{Field: field, Entity: entity}
	if s, ok := r.stores[k]; ok {
		return s, nil
	}
	s := New()
	r.stores[k] = s
	return s, nil
}

// Lookup returns an existing store without creating one.
func (r *Registry) Lookup(field string, entity uint64) (*Store, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.stores[Key{Field: field, Entity: entity}]
	return s, ok
}

// Drop removes an entity's store and reports whether it existed.
func (r *Registry) Drop(field string, entity uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := Key{Field: field, Entity: entity}
	if _, ok := r.stores[k]; !ok {
		return false
	}
	delete(r.stores, k)
	return true
}

// Len returns the number of open stores.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.stores)
}

// Snapshot returns the packed words of every non-empty store.
func (r *Registry) Snapshot() map[Key][]*uint256.Int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[Key][]*uint256.Int, len(r.stores))
	for k, s := range r.stores {
		if s.Count() > 0 {
			out[k] = s.Words()
		}
	}
	return out
}

// Close releases every store. Open fails afterwards.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	r.stores = nil
}
