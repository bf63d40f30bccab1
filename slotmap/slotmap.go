// Package slotmap provides a generational slot map whose storage is borrowed from an arena.
// Values are kept densely packed so iteration touches only live values, and each value is
// reached through a handle whose generation detects use after removal.
package slotmap

import (
	"context"
	"io"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/substrate/arena"
	"github.com/vkngwrapper/substrate/handle"
	"github.com/vkngwrapper/substrate/memutils"
	"golang.org/x/exp/slog"
)

// emptySlot marks a sparse entry that holds no dense index and ends the free list
const emptySlot uint32 = 0xFFFFFFFF

// maxCapacity is the largest number of slots a map can hold while keeping every index
// addressable by a handle
const maxCapacity = handle.MaxIndex + 1

var (
	// ErrNilArena is returned from New when no arena is provided
	ErrNilArena = errors.New("slotmap: arena must not be nil")
	// ErrZeroValueSize is returned from New when the value size is zero
	ErrZeroValueSize = errors.New("slotmap: value size must be greater than zero")
	// ErrZeroCapacity is returned from New when the initial capacity is zero
	ErrZeroCapacity = errors.New("slotmap: initial capacity must be greater than zero")
	// ErrCapacityLimit is returned when a map would need more slots than a handle can address
	ErrCapacityLimit = errors.Newf("slotmap: capacity may not exceed %d slots", maxCapacity)
	// ErrAllocation is returned when the arena could not supply the map's arrays
	ErrAllocation = errors.New("slotmap: unable to allocate storage from the arena")
)

// SlotMap stores fixed-size values and hands out generational handles to them.
//
// The map's four arrays are pushed from the arena passed to New. When the map grows, new arrays
// are pushed and the old ones are abandoned in the arena, so the arena must not be released or
// rolled back past the map while the map is in use. Values must not contain Go pointers.
//
// Pointers and slices returned by Get and GetBytes are leases: they remain valid only until the
// next Insert or Remove, either of which can move values.
//
// SlotMap is not safe for concurrent use. All methods may be called on a nil *SlotMap.
type SlotMap struct {
	logger *slog.Logger
	arena  *arena.Arena

	valueSize      uint32
	valueAlignment uint32
	capacity       uint32
	count          uint32
	freeListHead   uint32

	// values holds count values followed by unused space for capacity-count more
	values unsafe.Pointer
	// sparse maps a slot index to a dense index. Free slots hold the next free slot instead.
	sparse      []uint32
	generations []uint32
	// erase maps a dense index back to its slot index
	erase []uint32
}

// New creates a slot map for values of valueSize bytes. valueAlignment must be zero or a power
// of two, and is raised to 8 if it is lower.
func New(logger *slog.Logger, a *arena.Arena, valueSize, valueAlignment, initialCapacity uint32) (*SlotMap, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard))
	}
	if a == nil {
		return nil, ErrNilArena
	}
	if valueSize == 0 {
		return nil, ErrZeroValueSize
	}
	if initialCapacity == 0 {
		return nil, ErrZeroCapacity
	}
	if initialCapacity > maxCapacity {
		return nil, errors.Wrapf(ErrCapacityLimit, "initial capacity %d", initialCapacity)
	}

	if valueAlignment < uint32(arena.MinAlignment) {
		valueAlignment = uint32(arena.MinAlignment)
	}
	err := memutils.CheckPow2(valueAlignment, "valueAlignment")
	if err != nil {
		return nil, err
	}

	m := &SlotMap{
		logger:         logger,
		arena:          a,
		valueSize:      valueSize,
		valueAlignment: valueAlignment,
		freeListHead:   emptySlot,
	}

	err = m.allocate(initialCapacity)
	if err != nil {
		logger.LogAttrs(context.Background(), slog.LevelError, "failed to allocate slot map arrays",
			slog.Uint64("capacity", uint64(initialCapacity)), slog.Any("error", err))
		return nil, err
	}

	return m, nil
}

// allocate pushes a complete set of arrays for capacity slots and copies the current contents
// into them. On failure the arena is rolled back and the map is left untouched.
func (m *SlotMap) allocate(capacity uint32) error {
	mark := m.arena.Position()

	values := m.arena.PushPointer(uint64(m.valueSize)*uint64(capacity), uint64(m.valueAlignment))
	sparse := arena.PushArrayNoZero[uint32](m.arena, uint64(capacity))
	generations := arena.PushArrayNoZero[uint32](m.arena, uint64(capacity))
	erase := arena.PushArrayNoZero[uint32](m.arena, uint64(capacity))

	if values == nil || sparse == nil || generations == nil || erase == nil {
		m.arena.PopTo(mark)
		return errors.Wrapf(ErrAllocation, "capacity %d with %d byte values", capacity, m.valueSize)
	}

	if m.count > 0 {
		copy(unsafe.Slice((*byte)(values), uint64(m.count)*uint64(m.valueSize)), m.liveBytes())
	}
	copy(sparse, m.sparse)
	copy(generations, m.generations)
	copy(erase, m.erase[:m.count])

	for i := m.capacity; i < capacity; i++ {
		sparse[i] = emptySlot
		generations[i] = 0
	}

	m.values = values
	m.sparse = sparse
	m.generations = generations
	m.erase = erase
	m.capacity = capacity
	return nil
}

func (m *SlotMap) grow() error {
	if m.capacity >= maxCapacity {
		return errors.Wrapf(ErrCapacityLimit, "growing from %d", m.capacity)
	}

	newCapacity := uint64(m.capacity) * 2
	if newCapacity > uint64(maxCapacity) {
		newCapacity = uint64(maxCapacity)
	}

	err := m.allocate(uint32(newCapacity))
	if err != nil {
		return err
	}

	m.logger.LogAttrs(context.Background(), slog.LevelDebug, "slot map grew",
		slog.Uint64("capacity", newCapacity), slog.Uint64("valueSize", uint64(m.valueSize)))
	return nil
}

func (m *SlotMap) liveBytes() []byte {
	return unsafe.Slice((*byte)(m.values), uint64(m.count)*uint64(m.valueSize))
}

func (m *SlotMap) valueAt(dense uint32) unsafe.Pointer {
	return unsafe.Add(m.values, uintptr(dense)*uintptr(m.valueSize))
}

// Insert copies the first ValueSize bytes of value into the map and returns a handle to it.
// Insert returns handle.Invalid if value is shorter than ValueSize or the map could not grow.
func (m *SlotMap) Insert(value []byte) handle.Handle {
	if m == nil || uint64(len(value)) < uint64(m.valueSize) {
		return handle.Invalid
	}

	return m.insert(unsafe.Pointer(unsafe.SliceData(value)))
}

func (m *SlotMap) insert(value unsafe.Pointer) handle.Handle {
	if m.count >= m.capacity {
		err := m.grow()
		if err != nil {
			m.logger.LogAttrs(context.Background(), slog.LevelError, "slot map failed to grow, insertion failed",
				slog.Uint64("capacity", uint64(m.capacity)), slog.Any("error", err))
			return handle.Invalid
		}
	}

	// With an empty free list, every slot below count is occupied
	slot := m.count
	if m.freeListHead != emptySlot {
		slot = m.freeListHead
		m.freeListHead = m.sparse[slot]
	}

	dense := m.count
	m.count++

	m.sparse[slot] = dense
	m.erase[dense] = slot

	copy(unsafe.Slice((*byte)(m.valueAt(dense)), m.valueSize), unsafe.Slice((*byte)(value), m.valueSize))

	return handle.Make(slot, m.generations[slot])
}

// lookup returns the dense index h refers to, or false if h is not live
func (m *SlotMap) lookup(h handle.Handle) (uint32, bool) {
	if m == nil || !h.IsValid() {
		return 0, false
	}

	slot := h.Index()
	if slot >= m.capacity || m.generations[slot] != h.Generation() {
		return 0, false
	}

	dense := m.sparse[slot]
	if dense == emptySlot || dense >= m.count || m.erase[dense] != slot {
		return 0, false
	}

	return dense, true
}

// Get returns a pointer to the value h refers to, or nil if h is not live
func (m *SlotMap) Get(h handle.Handle) unsafe.Pointer {
	dense, ok := m.lookup(h)
	if !ok {
		return nil
	}

	return m.valueAt(dense)
}

// GetBytes returns the ValueSize bytes of the value h refers to, or nil if h is not live
func (m *SlotMap) GetBytes(h handle.Handle) []byte {
	ptr := m.Get(h)
	if ptr == nil {
		return nil
	}

	return unsafe.Slice((*byte)(ptr), m.valueSize)
}

// Remove deletes the value h refers to. The last value is moved into the vacated position, and
// the slot's generation advances so h and every copy of it become stale. Removing a handle that
// is not live does nothing.
func (m *SlotMap) Remove(h handle.Handle) {
	dense, ok := m.lookup(h)
	if !ok {
		return
	}
	slot := h.Index()

	last := m.count - 1
	if dense != last {
		copy(unsafe.Slice((*byte)(m.valueAt(dense)), m.valueSize), unsafe.Slice((*byte)(m.valueAt(last)), m.valueSize))

		moved := m.erase[last]
		m.sparse[moved] = dense
		m.erase[dense] = moved
	}
	m.count--

	m.generations[slot] = (m.generations[slot] + 1) & handle.GenerationMask
	m.sparse[slot] = m.freeListHead
	m.freeListHead = slot
}

// IsValid reports whether h refers to a live value
func (m *SlotMap) IsValid(h handle.Handle) bool {
	_, ok := m.lookup(h)
	return ok
}

// Count returns the number of live values
func (m *SlotMap) Count() uint32 {
	if m == nil {
		return 0
	}
	return m.count
}

// Capacity returns the number of values the map can hold before it grows
func (m *SlotMap) Capacity() uint32 {
	if m == nil {
		return 0
	}
	return m.capacity
}

// ValueSize returns the size in bytes of each value
func (m *SlotMap) ValueSize() uint32 {
	if m == nil {
		return 0
	}
	return m.valueSize
}

// Each calls fn for every live value in dense order until fn returns false. fn must not insert
// into or remove from the map.
func (m *SlotMap) Each(fn func(h handle.Handle, value unsafe.Pointer) bool) {
	if m == nil {
		return
	}

	for dense := uint32(0); dense < m.count; dense++ {
		slot := m.erase[dense]
		if !fn(handle.Make(slot, m.generations[slot]), m.valueAt(dense)) {
			return
		}
	}
}

// Handles returns a handle to every live value in dense order
func (m *SlotMap) Handles() []handle.Handle {
	if m == nil {
		return nil
	}

	handles := make([]handle.Handle, 0, m.count)
	m.Each(func(h handle.Handle, value unsafe.Pointer) bool {
		handles = append(handles, h)
		return true
	})
	return handles
}
