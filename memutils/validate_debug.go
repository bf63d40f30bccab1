//go:build debug_mem_utils

package memutils

import (
	"encoding/binary"
	"unsafe"
)

const (
	// DebugMargin is the number of guard bytes placed after each arena allocation
	DebugMargin uint64 = 16
	guardPattern uint32 = 0x7F84E666
)

func guardBytes(base unsafe.Pointer, offset uint64) []byte {
	return unsafe.Slice((*byte)(unsafe.Add(base, offset)), DebugMargin)
}

// WriteGuard fills the DebugMargin bytes at offset from base with a recognizable pattern
func WriteGuard(base unsafe.Pointer, offset uint64) {
	guard := guardBytes(base, offset)
	for i := 0; i < len(guard); i += 4 {
		binary.LittleEndian.PutUint32(guard[i:], guardPattern)
	}
}

// CheckGuard reports whether the pattern written by WriteGuard at offset from base is intact
func CheckGuard(base unsafe.Pointer, offset uint64) bool {
	guard := guardBytes(base, offset)
	for i := 0; i < len(guard); i += 4 {
		if binary.LittleEndian.Uint32(guard[i:]) != guardPattern {
			return false
		}
	}
	return true
}

// DebugValidate panics if validatable reports an inconsistency
func DebugValidate(validatable Validatable) {
	if err := validatable.Validate(); err != nil {
		panic(err)
	}
}

// DebugCheckPow2 panics if value is not a power of two
func DebugCheckPow2[T Number](value T, name string) {
	if err := CheckPow2[T](value, name); err != nil {
		panic(err)
	}
}
