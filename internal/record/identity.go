package record

import "sync"

// IdentityMap caches live instances by primary key. It holds at most one
// instance per id.
type IdentityMap[P Entity] struct {
	mu    sync.RWMutex
	items map[int64]P
}

// NewIdentityMap creates an empty identity map
func NewIdentityMap[P Entity]() *IdentityMap[P] {
	return &IdentityMap[P]{items: make(map[int64]P)}
}

// Get returns the instance registered for id
func (m *IdentityMap[P]) Get(id int64) (P, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.items[id]
	return p, ok
}

// Put registers p under id, replacing any previous instance
func (m *IdentityMap[P]) Put(id int64, p P) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[id] = p
}

// Remove drops the instance registered for id, if any
func (m *IdentityMap[P]) Remove(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
}

// Len returns the number of registered instances
func (m *IdentityMap[P]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Clear drops every registered instance
func (m *IdentityMap[P]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.items)
}
