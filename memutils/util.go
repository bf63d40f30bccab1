package memutils

import (
	cerrors "github.com/cockroachdb/errors"
)

type Number interface {
	~int | ~uint | ~uint32 | ~uint64 | ~uintptr
}

// IsPow2 returns true if number is a nonzero power of two
func IsPow2[T Number](number T) bool {
	return number != 0 && number&(number-1) == 0
}

func CheckPow2[T Number](number T, name string) error {
	if !IsPow2(number) {
		return cerrors.Wrapf(PowerOfTwoError, "%s is %d", name, number)
	}
	return nil
}

// AlignUp rounds value up to the next multiple of alignment, which must be a power of two
func AlignUp[T Number](value T, alignment T) T {
	return (value + alignment - 1) & ^(alignment - 1)
}

// AlignDown rounds value down to the previous multiple of alignment, which must be a power of two
func AlignDown[T Number](value T, alignment T) T {
	return value & ^(alignment - 1)
}

// CheckedAlignUp behaves like AlignUp but reports an error instead of silently wrapping around
// when value is within alignment of the maximum uint64
func CheckedAlignUp(value, alignment uint64) (uint64, error) {
	aligned := AlignUp(value, alignment)
	if aligned < value {
		return 0, cerrors.Wrapf(OverflowError, "aligning %d to %d", value, alignment)
	}
	return aligned, nil
}
