// Package syncx provides type-safe wrappers around sync primitives.
package syncx

import "sync"

// Map is a type-safe wrapper around sync.Map.
// The zero value is empty and ready for use.
type Map[K comparable, V any] struct {
	m sync.Map
}

// Load returns the value stored for key. The ok result reports whether a
// value was present.
func (m *Map[K, V]) Load(key K) (value V, ok bool) {
	v, ok := m.m.Load(key)
	if !ok {
		var zero V
		return zero, false
	}
	return v.(V), true
}

// LoadOrStore returns the existing value for the key if present.
// Otherwise, it stores and returns the given value.
// The loaded result is true if the value was loaded, false if stored.
func (m *Map[K, V]) LoadOrStore(key K, value V) (actual V, loaded bool) {
	a, loaded := m.m.LoadOrStore(key, value)
	return a.(V), loaded
}

// Store sets the value for a key.
func (m *Map[K, V]) Store(key K, value V) {
	m.m.Store(key, value)
}

// Delete deletes the value for a key.
func (m *Map[K, V]) Delete(key K) {
	m.m.Delete(key)
}

// CompareAndDelete deletes the entry for key if its value is old.
// V must be comparable at runtime for the comparison to succeed.
func (m *Map[K, V]) CompareAndDelete(key K, old V) (deleted bool) {
	return m.m.CompareAndDelete(key, old)
}

// Clear deletes all the entries.
func (m *Map[K, V]) Clear() {
	m.m.Clear()
}

// Range calls f sequentially for each key and value present in the map.
// If f returns false, range stops the iteration.
func (m *Map[K, V]) Range(f func(key K, value V) bool) {
	m.m.Range(func(key, value any) bool {
		return f(key.(K), value.(V))
	})
}

// Len counts the entries currently stored. It walks the map, so it is meant
// for tests and diagnostics rather than hot paths.
func (m *Map[K, V]) Len() int {
	n := 0
	m.m.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
