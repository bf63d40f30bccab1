// Package handle defines the 32-bit generational handles issued by slot maps
package handle

import "fmt"

const (
	// IndexBits is the number of low bits of a Handle that hold the slot index
	IndexBits = 24
	// GenerationBits is the number of high bits of a Handle that hold the slot generation.
	// Generations wrap after 1<<GenerationBits reuses of the same slot, at which point a stale
	// handle to that slot becomes indistinguishable from a live one.
	GenerationBits = 32 - IndexBits

	IndexMask      uint32 = 1<<IndexBits - 1
	GenerationMask uint32 = 1<<GenerationBits - 1

	// MaxIndex is the largest slot index a Handle can address
	MaxIndex = IndexMask - 1
)

// Handle refers to a slot in a slot map. The low IndexBits bits are the slot index and the high
// GenerationBits bits are the generation the slot had when the handle was issued.
type Handle uint32

// Invalid is the handle returned when no slot could be issued. It never refers to a live slot.
const Invalid Handle = 0xFFFFFFFF

// Make builds a handle from a slot index and generation. Bits outside the respective masks
// are discarded.
func Make(index, generation uint32) Handle {
	return Handle((generation&GenerationMask)<<IndexBits | index&IndexMask)
}

func (h Handle) Index() uint32 {
	return uint32(h) & IndexMask
}

func (h Handle) Generation() uint32 {
	return uint32(h) >> IndexBits & GenerationMask
}

// IsValid reports whether h is not Invalid. It does not report whether h refers to a live slot.
func (h Handle) IsValid() bool {
	return h != Invalid
}

func (h Handle) String() string {
	if !h.IsValid() {
		return "Handle(invalid)"
	}
	return fmt.Sprintf("Handle(index=%d, gen=%d)", h.Index(), h.Generation())
}
