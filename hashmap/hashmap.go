// Package hashmap provides a string-keyed map of fixed-size values. Values are stored in a
// slot map whose storage comes from an arena; the key index lives on the Go heap.
package hashmap

import (
	"context"
	"io"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/vkngwrapper/substrate/arena"
	"github.com/vkngwrapper/substrate/handle"
	"github.com/vkngwrapper/substrate/slotmap"
	"golang.org/x/exp/slog"
)

const defaultCapacity uint32 = 16

// Map associates string keys with values of a fixed size. Values must not contain Go pointers.
//
// Pointers and slices returned by Get and GetBytes are leases: they remain valid only until the
// next Insert or Remove.
//
// Map is not safe for concurrent use. All methods may be called on a nil *Map.
type Map struct {
	logger *slog.Logger
	index  *swiss.Map[string, handle.Handle]
	values *slotmap.SlotMap
}

// New creates a map for values of valueSize bytes whose storage is pushed from a
func New(logger *slog.Logger, a *arena.Arena, valueSize uint32) (*Map, error) {
	return newMap(logger, a, valueSize, uint32(arena.MinAlignment))
}

func newMap(logger *slog.Logger, a *arena.Arena, valueSize, valueAlignment uint32) (*Map, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard))
	}

	values, err := slotmap.New(logger, a, valueSize, valueAlignment, defaultCapacity)
	if err != nil {
		return nil, errors.Wrap(err, "hashmap creation failed")
	}

	return &Map{
		logger: logger,
		index:  swiss.NewMap[string, handle.Handle](defaultCapacity),
		values: values,
	}, nil
}

// Insert copies the first ValueSize bytes of value into the map under key, replacing the value
// already stored there. It reports whether the value was stored, which fails if value is shorter
// than ValueSize or the map could not grow.
func (m *Map) Insert(key string, value []byte) bool {
	if m == nil || uint64(len(value)) < uint64(m.values.ValueSize()) {
		return false
	}

	return m.insert(key, unsafe.Pointer(unsafe.SliceData(value)))
}

func (m *Map) insert(key string, value unsafe.Pointer) bool {
	size := m.values.ValueSize()

	h, ok := m.index.Get(key)
	if ok {
		dest := m.values.GetBytes(h)
		copy(dest, unsafe.Slice((*byte)(value), size))
		return true
	}

	h = m.values.Insert(unsafe.Slice((*byte)(value), size))
	if !h.IsValid() {
		m.logger.LogAttrs(context.Background(), slog.LevelError, "hashmap insertion failed",
			slog.String("key", key), slog.Int("count", m.index.Count()))
		return false
	}

	m.index.Put(key, h)
	return true
}

// Get returns a pointer to the value stored under key, or nil if there is none
func (m *Map) Get(key string) unsafe.Pointer {
	if m == nil {
		return nil
	}

	h, ok := m.index.Get(key)
	if !ok {
		return nil
	}
	return m.values.Get(h)
}

// GetBytes returns the ValueSize bytes stored under key, or nil if there is none
func (m *Map) GetBytes(key string) []byte {
	if m == nil {
		return nil
	}

	h, ok := m.index.Get(key)
	if !ok {
		return nil
	}
	return m.values.GetBytes(h)
}

func (m *Map) Contains(key string) bool {
	if m == nil {
		return false
	}
	return m.index.Has(key)
}

// Remove deletes the value stored under key. Removing a key that is not present does nothing.
func (m *Map) Remove(key string) {
	if m == nil {
		return
	}

	h, ok := m.index.Get(key)
	if !ok {
		return
	}

	m.values.Remove(h)
	m.index.Delete(key)
}

// Count returns the number of keys in the map
func (m *Map) Count() uint32 {
	if m == nil {
		return 0
	}
	return uint32(m.index.Count())
}

// Clear removes every key from the map. The value storage is kept for reuse.
func (m *Map) Clear() {
	if m == nil {
		return
	}

	m.index.Iter(func(key string, h handle.Handle) (stop bool) {
		m.values.Remove(h)
		return false
	})
	m.index = swiss.NewMap[string, handle.Handle](defaultCapacity)
}

// Each calls fn for every key in the map until fn returns false. Iteration order is
// unspecified. fn must not insert into or remove from the map.
func (m *Map) Each(fn func(key string, value unsafe.Pointer) bool) {
	if m == nil {
		return
	}

	m.index.Iter(func(key string, h handle.Handle) (stop bool) {
		return !fn(key, m.values.Get(h))
	})
}

// Values returns the slot map that holds the map's values
func (m *Map) Values() *slotmap.SlotMap {
	if m == nil {
		return nil
	}
	return m.values
}
