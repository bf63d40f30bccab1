package hashmap

import (
	"unsafe"

	"github.com/vkngwrapper/substrate/arena"
	"golang.org/x/exp/slog"
)

// Typed is a Map of T values. T must not contain Go pointers.
type Typed[T any] struct {
	raw *Map
}

func NewTyped[T any](logger *slog.Logger, a *arena.Arena) (*Typed[T], error) {
	var zero T
	raw, err := newMap(logger, a, uint32(unsafe.Sizeof(zero)), uint32(unsafe.Alignof(zero)))
	if err != nil {
		return nil, err
	}

	return &Typed[T]{raw: raw}, nil
}

// Insert stores value under key, replacing any value already there. It reports whether the
// value was stored.
func (m *Typed[T]) Insert(key string, value T) bool {
	if m == nil {
		return false
	}
	return m.raw.insert(key, unsafe.Pointer(&value))
}

// Get returns a pointer to the value stored under key, or nil if there is none. The pointer
// is a lease that remains valid only until the next Insert or Remove.
func (m *Typed[T]) Get(key string) *T {
	if m == nil {
		return nil
	}

	ptr := m.raw.Get(key)
	if ptr == nil {
		return nil
	}
	return (*T)(ptr)
}

// Lookup returns a copy of the value stored under key and whether it was present
func (m *Typed[T]) Lookup(key string) (T, bool) {
	value := m.Get(key)
	if value == nil {
		var zero T
		return zero, false
	}
	return *value, true
}

func (m *Typed[T]) Contains(key string) bool {
	if m == nil {
		return false
	}
	return m.raw.Contains(key)
}

func (m *Typed[T]) Remove(key string) {
	if m == nil {
		return
	}
	m.raw.Remove(key)
}

func (m *Typed[T]) Count() uint32 {
	if m == nil {
		return 0
	}
	return m.raw.Count()
}

func (m *Typed[T]) Clear() {
	if m == nil {
		return
	}
	m.raw.Clear()
}

// Each calls fn for every key in the map until fn returns false. Iteration order is
// unspecified. fn must not insert into or remove from the map.
func (m *Typed[T]) Each(fn func(key string, value *T) bool) {
	if m == nil {
		return
	}

	m.raw.Each(func(key string, value unsafe.Pointer) bool {
		return fn(key, (*T)(value))
	})
}

// Raw returns the underlying untyped map
func (m *Typed[T]) Raw() *Map {
	if m == nil {
		return nil
	}
	return m.raw
}
