package arena

import (
	"math/bits"
	"unsafe"
)

func typeLayout[T any]() (size uint64, alignment uint64) {
	var zero T
	size = uint64(unsafe.Sizeof(zero))
	alignment = uint64(unsafe.Alignof(zero))
	if alignment < MinAlignment {
		alignment = MinAlignment
	}
	return size, alignment
}

// PushStruct allocates a zeroed T from the arena. T must not contain Go pointers. PushStruct
// returns nil if the allocation fails or T has a size of zero.
func PushStruct[T any](a *Arena) *T {
	size, alignment := typeLayout[T]()
	if size == 0 {
		return nil
	}

	ptr := a.PushPointer(size, alignment)
	if ptr == nil {
		return nil
	}

	value := (*T)(ptr)
	var zero T
	*value = zero
	return value
}

// PushArray allocates a zeroed slice of count T from the arena. T must not contain Go pointers.
// PushArray returns nil if the allocation fails, count is 0, or T has a size of zero.
func PushArray[T any](a *Arena, count uint64) []T {
	values := PushArrayNoZero[T](a, count)

	var zero T
	for i := range values {
		values[i] = zero
	}
	return values
}

// PushArrayNoZero behaves like PushArray but leaves the memory as it was found
func PushArrayNoZero[T any](a *Arena, count uint64) []T {
	if count == 0 {
		return nil
	}

	size, alignment := typeLayout[T]()
	if size == 0 {
		return nil
	}

	hi, total := bits.Mul64(size, count)
	if hi != 0 {
		return nil
	}

	ptr := a.PushPointer(total, alignment)
	if ptr == nil {
		return nil
	}

	return unsafe.Slice((*T)(ptr), count)
}
