package memutils

import (
	"math/bits"
	"strconv"
	"strings"
)

type flagType interface {
	~int32 | ~uint32
}

// FlagStringMapping renders bit flag types as "FlagA|FlagB" strings. Flag types register the
// names of their single-bit values in init() and implement String() with FlagsToString.
type FlagStringMapping[T flagType] struct {
	names map[T]string
}

func NewFlagStringMapping[T flagType]() FlagStringMapping[T] {
	return FlagStringMapping[T]{names: make(map[T]string)}
}

func (m FlagStringMapping[T]) Register(flag T, name string) {
	m.names[flag] = name
}

// FlagsToString produces the names of every set bit in ascending bit order. Bits with no
// registered name are rendered in hex. A value of zero renders as "None".
func (m FlagStringMapping[T]) FlagsToString(value T) string {
	if value == 0 {
		return "None"
	}

	var sb strings.Builder
	remaining := uint32(value)
	for remaining != 0 {
		bit := uint32(1) << bits.TrailingZeros32(remaining)
		remaining &^= bit

		if sb.Len() > 0 {
			sb.WriteByte('|')
		}

		name, ok := m.names[T(bit)]
		if !ok {
			sb.WriteString("0x")
			sb.WriteString(strconv.FormatUint(uint64(bit), 16))
			continue
		}
		sb.WriteString(name)
	}

	return sb.String()
}
