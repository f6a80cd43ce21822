package sqlite

import "sync"

// identityMap holds the single live instance for each persisted row id
type identityMap[T any] struct {
	mu      sync.Mutex
	entries map[int64]*T
}

func newIdentityMap[T any]() *identityMap[T] {
	return &identityMap[T]{entries: make(map[int64]*T)}
}

func (m *identityMap[T]) get(id int64) (*T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.entries[id]
	return v, ok
}

// resolve returns the cached instance for id, or stores and returns build()
func (m *identityMap[T]) resolve(id int64, refresh func(*T), build func() *T) *T {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.entries[id]; ok {
		refresh(v)
		return v
	}
	v := build()
	m.entries[id] = v
	return v
}

func (m *identityMap[T]) put(id int64, v *T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[id] = v
}

func (m *identityMap[T]) evict(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
}

func (m *identityMap[T]) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[int64]*T)
}

func (m *identityMap[T]) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
