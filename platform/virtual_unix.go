//go:build unix

package platform

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	"golang.org/x/sys/unix"
)

// VirtualMemory is the Provider backed by anonymous private mappings. Reserved pages are mapped
// PROT_NONE and become readable and writable when committed.
type VirtualMemory struct {
	pageSize uint64
}

var defaultProvider Provider = NewVirtualMemory()

// NewVirtualMemory creates a Provider that manages address space with mmap/mprotect
func NewVirtualMemory() *VirtualMemory {
	return &VirtualMemory{pageSize: uint64(unix.Getpagesize())}
}

func (m *VirtualMemory) PageSize() uint64 {
	return m.pageSize
}

func (m *VirtualMemory) Reserve(size uint64) (unsafe.Pointer, error) {
	if size == 0 {
		return nil, ErrZeroSize
	}

	size = pageAlign(size, m.pageSize)
	data, err := unix.Mmap(-1, 0, int(size), unix.PROT_NONE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, errors.Wrapf(err, "reserve %d bytes", size)
	}

	return unsafe.Pointer(unsafe.SliceData(data)), nil
}

func (m *VirtualMemory) Commit(ptr unsafe.Pointer, size uint64) error {
	if err := checkArgs(ptr, size); err != nil {
		return err
	}

	// Anonymous private pages are zero-filled by the kernel on first touch
	region := unsafe.Slice((*byte)(ptr), pageAlign(size, m.pageSize))
	if err := unix.Mprotect(region, unix.PROT_READ|unix.PROT_WRITE); err != nil {
		return errors.Wrapf(err, "commit %d bytes", size)
	}
	return nil
}

func (m *VirtualMemory) Decommit(ptr unsafe.Pointer, size uint64) error {
	if err := checkArgs(ptr, size); err != nil {
		return err
	}

	region := unsafe.Slice((*byte)(ptr), pageAlign(size, m.pageSize))
	if err := unix.Madvise(region, unix.MADV_DONTNEED); err != nil && err != unix.EINVAL {
		return errors.Wrapf(err, "decommit %d bytes", size)
	}
	if err := unix.Mprotect(region, unix.PROT_NONE); err != nil {
		return errors.Wrapf(err, "decommit %d bytes", size)
	}
	return nil
}

func (m *VirtualMemory) Release(ptr unsafe.Pointer, size uint64) error {
	if err := checkArgs(ptr, size); err != nil {
		return err
	}

	region := unsafe.Slice((*byte)(ptr), pageAlign(size, m.pageSize))
	if err := unix.Munmap(region); err != nil {
		return errors.Wrapf(err, "release %d bytes", size)
	}
	return nil
}
