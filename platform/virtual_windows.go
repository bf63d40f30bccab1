//go:build windows

package platform

import (
	"os"
	"unsafe"

	"github.com/cockroachdb/errors"
	"golang.org/x/sys/windows"
)

// VirtualMemory is the Provider backed by VirtualAlloc/VirtualFree. Reserved pages are
// PAGE_NOACCESS and become PAGE_READWRITE when committed.
type VirtualMemory struct {
	pageSize uint64
}

var defaultProvider Provider = NewVirtualMemory()

// NewVirtualMemory creates a Provider that manages address space with VirtualAlloc
func NewVirtualMemory() *VirtualMemory {
	return &VirtualMemory{pageSize: uint64(os.Getpagesize())}
}

func (m *VirtualMemory) PageSize() uint64 {
	return m.pageSize
}

func (m *VirtualMemory) Reserve(size uint64) (unsafe.Pointer, error) {
	if size == 0 {
		return nil, ErrZeroSize
	}

	addr, err := windows.VirtualAlloc(0, uintptr(size), windows.MEM_RESERVE, windows.PAGE_NOACCESS)
	if err != nil {
		return nil, errors.Wrapf(err, "reserve %d bytes", size)
	}

	return unsafe.Pointer(addr), nil
}

func (m *VirtualMemory) Commit(ptr unsafe.Pointer, size uint64) error {
	if err := checkArgs(ptr, size); err != nil {
		return err
	}

	// MEM_COMMIT pages are zero-filled by the OS
	_, err := windows.VirtualAlloc(uintptr(ptr), uintptr(pageAlign(size, m.pageSize)), windows.MEM_COMMIT, windows.PAGE_READWRITE)
	if err != nil {
		return errors.Wrapf(err, "commit %d bytes", size)
	}
	return nil
}

func (m *VirtualMemory) Decommit(ptr unsafe.Pointer, size uint64) error {
	if err := checkArgs(ptr, size); err != nil {
		return err
	}

	if err := windows.VirtualFree(uintptr(ptr), uintptr(pageAlign(size, m.pageSize)), windows.MEM_DECOMMIT); err != nil {
		return errors.Wrapf(err, "decommit %d bytes", size)
	}
	return nil
}

func (m *VirtualMemory) Release(ptr unsafe.Pointer, size uint64) error {
	if err := checkArgs(ptr, size); err != nil {
		return err
	}

	// MEM_RELEASE requires a size of zero and frees the whole reservation
	if err := windows.VirtualFree(uintptr(ptr), 0, windows.MEM_RELEASE); err != nil {
		return errors.Wrapf(err, "release %d bytes", size)
	}
	return nil
}
