//go:build !debug_mem_utils

package memutils

import "unsafe"

// DebugMargin is the number of guard bytes placed after each arena allocation. Guards are only
// written when built with the debug_mem_utils tag.
const DebugMargin uint64 = 0

func WriteGuard(base unsafe.Pointer, offset uint64) {}

func CheckGuard(base unsafe.Pointer, offset uint64) bool { return true }

func DebugValidate(validatable Validatable) {}

func DebugCheckPow2[T Number](value T, name string) {}
