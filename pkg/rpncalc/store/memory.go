package store

import (
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps rules in process memory. Data is lost when the process exits.
type MemoryStore struct {
	mu     sync.RWMutex
	rules  map[string]storedRule
	closed bool
}

type storedRule struct {
	expr      string
	version   int
	updatedAt time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rules: make(map[string]storedRule)}
}

// Save implements Store.
func (m *MemoryStore) Save(name, expr string) error {
	if name == "" {
		return ErrEmptyName
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	m.rules[name] = storedRule{
		expr:      expr,
		version:   m.rules[name].version + 1,
		updatedAt: time.Now().UTC(),
	}
	return nil
}

// Load implements Store.
func (m *MemoryStore) Load(name string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return "", ErrStoreClosed
	}

	r, ok := m.rules[name]
	if !ok {
		return "", ErrNotFound
	}
	return r.expr, nil
}

// List implements Store.
func (m *MemoryStore) List() ([]Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	infos := make([]Info, 0, len(m.rules))
	for name, r := range m.rules {
		infos = append(infos, Info{
			Name:      name,
			Version:   r.version,
			UpdatedAt: r.updatedAt,
			Size:      int64(len(r.expr)),
		})
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name < infos[j].Name
	})
	return infos, nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}
	delete(m.rules, name)
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.rules = nil
	return nil
}

// Len returns the number of stored rules.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rules)
}
