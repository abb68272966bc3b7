// Package registry provides a thread-safe map with ordered keys.
//
// Registry is designed for read-heavy workloads using sync.RWMutex.
// Keys are returned in sorted order so callers iterate deterministically.
package registry

import (
	"cmp"
	"maps"
	"slices"
	"sync"
)

// Registry is a thread-safe set of values indexed by key.
type Registry[K cmp.Ordered, V any] struct {
	mu      sync.RWMutex
	entries map[K]V
}

// New creates an empty registry.
func New[K cmp.Ordered, V any]() *Registry[K, V] {
	return &Registry[K, V]{entries: make(map[K]V)}
}

// Put adds or replaces the value for key.
func (r *Registry[K, V]) Put(key K, value V) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[key] = value
}

// PutAll adds or replaces every entry of m.
func (r *Registry[K, V]) PutAll(m map[K]V) {
	r.mu.Lock()
	defer r.mu.Unlock()
	maps.Copy(r.entries, m)
}

// Add stores value only if key is absent and reports whether it did.
func (r *Registry[K, V]) Add(key K, value V) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[key]; exists {
		return false
	}
	r.entries[key] = value
	return true
}

// Get returns the value for key and whether it exists.
func (r *Registry[K, V]) Get(key K) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.entries[key]
	return v, ok
}

// Delete removes key and reports whether it was present.
func (r *Registry[K, V]) Delete(key K) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[key]; !ok {
		return false
	}
	delete(r.entries, key)
	return true
}

// Keys returns all keys in ascending order.
func (r *Registry[K, V]) Keys() []K {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.entries))
}

// Len returns the number of entries.
func (r *Registry[K, V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Snapshot returns a copy of the entries. The copy is never nil.
func (r *Registry[K, V]) Snapshot() map[K]V {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[K]V, len(r.entries))
	maps.Copy(out, r.entries)
	return out
}

// Overlay returns the entries with m applied on top.
// When the registry is empty m itself is returned.
func (r *Registry[K, V]) Overlay(m map[K]V) map[K]V {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.entries) == 0 {
		return m
	}
	out := make(map[K]V, len(r.entries)+len(m))
	maps.Copy(out, r.entries)
	maps.Copy(out, m)
	return out
}
