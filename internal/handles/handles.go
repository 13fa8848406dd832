// Package handles provides a thread-safe table mapping integer ids to Go
// values that must be reachable from native callbacks.
//
// Native code may keep the user-data argument of a call for as long as it
// likes, so a Go pointer can never be handed over directly. Instead the
// value is registered here and the returned id travels through C as an
// opaque void*. The callback turns the id back into the value with Lookup.
package handles

import (
	"sync"
)

// Table stores values of type T keyed by non-zero ids.
// The zero value is not usable; create tables with New.
type Table[T any] struct {
	mu     sync.RWMutex
	values map[uintptr]T
	nextID uintptr
}

// New returns an empty table.
func New[T any]() *Table[T] {
	return &Table[T]{values: make(map[uintptr]T), nextID: 1}
}

// Register stores v and returns its id. Ids are never zero and are not
// reused for the lifetime of the table, so a stale id held by native code
// can never resolve to a newer value.
func (t *Table[T]) Register(v T) uintptr {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := t.nextID
	t.nextID++
	t.values[id] = v
	return id
}

// Lookup returns the value registered under id.
func (t *Table[T]) Lookup(id uintptr) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.values[id]
	return v, ok
}

// Unregister removes id from the table. Removing an unknown id is a no-op.
func (t *Table[T]) Unregister(id uintptr) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.values, id)
}

// Len returns the number of registered values.
// Useful for leak checks in tests.
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.values)
}
