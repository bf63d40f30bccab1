package platform

import (
	"unsafe"

	"github.com/cockroachdb/errors"
)

// HeapMemory is a Provider that carves reservations out of the Go heap. It is the default on
// targets without a virtual memory API and is convenient in tests that want to inspect
// provider traffic without touching the OS. Every reservation is fully backed from the start,
// so Commit only zeroes and Decommit is a no-op.
//
// Reservations are kept alive by the provider's table until Release is called.
type HeapMemory struct {
	pageSize     uint64
	reservations map[uintptr][]byte
}

var _ Provider = &HeapMemory{}

// NewHeapMemory creates a heap-backed Provider that reports the given page size. A page size
// of zero or a non-power-of-two page size falls back to 4096.
func NewHeapMemory(pageSize uint64) *HeapMemory {
	if pageSize == 0 || pageSize&(pageSize-1) != 0 {
		pageSize = 4096
	}
	return &HeapMemory{
		pageSize:     pageSize,
		reservations: make(map[uintptr][]byte),
	}
}

func (m *HeapMemory) PageSize() uint64 {
	return m.pageSize
}

// Live returns the number of reservations that have not been released
func (m *HeapMemory) Live() int {
	return len(m.reservations)
}

func (m *HeapMemory) Reserve(size uint64) (unsafe.Pointer, error) {
	if size == 0 {
		return nil, ErrZeroSize
	}

	size = pageAlign(size, m.pageSize)
	// Over-allocate by a page so the base can be page aligned
	buffer := make([]byte, size+m.pageSize)
	base := uintptr(unsafe.Pointer(unsafe.SliceData(buffer)))
	offset := uintptr(pageAlign(uint64(base), m.pageSize)) - base
	ptr := unsafe.Add(unsafe.Pointer(unsafe.SliceData(buffer)), offset)

	m.reservations[uintptr(ptr)] = buffer
	return ptr, nil
}

func (m *HeapMemory) find(ptr unsafe.Pointer, size uint64) ([]byte, uint64, error) {
	addr := uintptr(ptr)
	for base, buffer := range m.reservations {
		start := uintptr(unsafe.Pointer(unsafe.SliceData(buffer)))
		end := start + uintptr(len(buffer))
		if addr >= base && addr < end {
			offset := uint64(addr - start)
			if offset+size > uint64(len(buffer)) {
				return nil, 0, errors.Wrapf(ErrUnknownReservation, "range of %d bytes at %#x overruns its reservation", size, addr)
			}
			return buffer, offset, nil
		}
	}
	return nil, 0, errors.Wrapf(ErrUnknownReservation, "address %#x", addr)
}

func (m *HeapMemory) Commit(ptr unsafe.Pointer, size uint64) error {
	if err := checkArgs(ptr, size); err != nil {
		return err
	}

	buffer, offset, err := m.find(ptr, size)
	if err != nil {
		return errors.Wrapf(err, "commit %d bytes", size)
	}

	end := offset + pageAlign(size, m.pageSize)
	if end > uint64(len(buffer)) {
		end = uint64(len(buffer))
	}
	region := buffer[offset:end]
	for i := range region {
		region[i] = 0
	}
	return nil
}

func (m *HeapMemory) Decommit(ptr unsafe.Pointer, size uint64) error {
	if err := checkArgs(ptr, size); err != nil {
		return err
	}

	if _, _, err := m.find(ptr, size); err != nil {
		return errors.Wrapf(err, "decommit %d bytes", size)
	}
	return nil
}

func (m *HeapMemory) Release(ptr unsafe.Pointer, size uint64) error {
	if err := checkArgs(ptr, size); err != nil {
		return err
	}

	if _, ok := m.reservations[uintptr(ptr)]; !ok {
		return errors.Wrapf(ErrUnknownReservation, "release %d bytes at %#x", size, uintptr(ptr))
	}
	delete(m.reservations, uintptr(ptr))
	return nil
}
