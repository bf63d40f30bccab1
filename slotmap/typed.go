package slotmap

import (
	"unsafe"

	"github.com/vkngwrapper/substrate/arena"
	"github.com/vkngwrapper/substrate/handle"
	"golang.org/x/exp/slog"
)

// Typed is a SlotMap of T values. T must not contain Go pointers.
type Typed[T any] struct {
	raw *SlotMap
}

// NewTyped creates a slot map sized and aligned for T
func NewTyped[T any](logger *slog.Logger, a *arena.Arena, initialCapacity uint32) (*Typed[T], error) {
	var zero T
	raw, err := New(logger, a, uint32(unsafe.Sizeof(zero)), uint32(unsafe.Alignof(zero)), initialCapacity)
	if err != nil {
		return nil, err
	}

	return &Typed[T]{raw: raw}, nil
}

func (m *Typed[T]) Insert(value T) handle.Handle {
	if m == nil {
		return handle.Invalid
	}
	return m.raw.insert(unsafe.Pointer(&value))
}

// Get returns a pointer to the value h refers to, or nil if h is not live. The pointer is a
// lease that remains valid only until the next Insert or Remove.
func (m *Typed[T]) Get(h handle.Handle) *T {
	if m == nil {
		return nil
	}

	ptr := m.raw.Get(h)
	if ptr == nil {
		return nil
	}
	return (*T)(ptr)
}

func (m *Typed[T]) Remove(h handle.Handle) {
	if m == nil {
		return
	}
	m.raw.Remove(h)
}

func (m *Typed[T]) IsValid(h handle.Handle) bool {
	if m == nil {
		return false
	}
	return m.raw.IsValid(h)
}

func (m *Typed[T]) Count() uint32 {
	if m == nil {
		return 0
	}
	return m.raw.Count()
}

func (m *Typed[T]) Capacity() uint32 {
	if m == nil {
		return 0
	}
	return m.raw.Capacity()
}

// Each calls fn for every live value in dense order until fn returns false. fn must not insert
// into or remove from the map.
func (m *Typed[T]) Each(fn func(h handle.Handle, value *T) bool) {
	if m == nil {
		return
	}

	m.raw.Each(func(h handle.Handle, value unsafe.Pointer) bool {
		return fn(h, (*T)(value))
	})
}

// Raw returns the underlying untyped map
func (m *Typed[T]) Raw() *SlotMap {
	if m == nil {
		return nil
	}
	return m.raw
}
