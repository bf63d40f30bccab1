package memutils

import "github.com/pkg/errors"

// PowerOfTwoError is the error returned from CheckPow2 or other methods if the number being tested is not a power of two
var PowerOfTwoError error = errors.New("number must be a power of two")

// OverflowError is returned from CheckedAlignUp when aligning the value would wrap past the top of the
// address space
var OverflowError error = errors.New("aligned value overflows 64 bits")
