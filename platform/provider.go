// Package platform exposes the operating system's virtual memory primitives to the arena. A
// Provider is pure mechanism: it reserves address space, commits and decommits page ranges
// inside a reservation, and releases whole reservations. All policy lives in the arena.
package platform

import (
	"unsafe"

	"github.com/cockroachdb/errors"
)

var (
	// ErrZeroSize is returned when a reservation or commit of zero bytes is requested
	ErrZeroSize = errors.New("platform: size must be greater than zero")
	// ErrNilPointer is returned when a commit, decommit, or release is requested against a nil pointer
	ErrNilPointer = errors.New("platform: pointer must not be nil")
	// ErrUnknownReservation is returned by providers that track reservations when they are handed
	// a pointer that they did not produce
	ErrUnknownReservation = errors.New("platform: pointer does not belong to a live reservation")
)

//go:generate mockgen -destination mocks/provider.go -package mocks . Provider

// Provider is a capability interface over OS virtual memory.
//
// Reserve yields inaccessible address space of at least size bytes. Commit makes a sub-range of a
// reservation accessible and zero-filled, rounding size up to the page size. Decommit returns a
// committed sub-range's physical pages to the OS while keeping the address space reserved.
// Release tears down an entire reservation at once and invalidates its pointer; size must be the
// size originally passed to Reserve.
type Provider interface {
	Reserve(size uint64) (unsafe.Pointer, error)
	Commit(ptr unsafe.Pointer, size uint64) error
	Decommit(ptr unsafe.Pointer, size uint64) error
	Release(ptr unsafe.Pointer, size uint64) error
	PageSize() uint64
}

// Default returns the Provider for the current build target
func Default() Provider {
	return defaultProvider
}

func pageAlign(size, pageSize uint64) uint64 {
	return (size + pageSize - 1) &^ (pageSize - 1)
}

func checkArgs(ptr unsafe.Pointer, size uint64) error {
	if ptr == nil {
		return ErrNilPointer
	}
	if size == 0 {
		return ErrZeroSize
	}
	return nil
}
