package arena

import (
	"unsafe"

	"github.com/pkg/errors"
)

// blockHeader is the bookkeeping stored in place at the start of every block. Positions and
// sizes are local to the block except for baseOffset, which is the global position of the
// block's first byte.
type blockHeader struct {
	previous *blockHeader
	// current is only meaningful on the arena's first block
	current *blockHeader

	flags      CreateFlags
	_          uint32
	commitSize uint64
	// reserveSize is the block size used for newly chained blocks
	reserveSize uint64

	baseOffset uint64
	position   uint64
	committed  uint64
	reserved   uint64

	// guardOffset is the local offset of the most recent allocation's corruption guard, or 0
	// when there is none. It is only written when the debug_mem_utils tag is present.
	guardOffset uint64
}

var _ [HeaderSize - uint64(unsafe.Sizeof(blockHeader{}))]byte

func initHeader(ptr unsafe.Pointer, previous *blockHeader, baseOffset, committed, reserved uint64, flags CreateFlags, commitSize, reserveSize uint64) *blockHeader {
	header := (*blockHeader)(ptr)
	*header = blockHeader{
		previous:    previous,
		flags:       flags,
		commitSize:  commitSize,
		reserveSize: reserveSize,
		baseOffset:  baseOffset,
		position:    HeaderSize,
		committed:   committed,
		reserved:    reserved,
	}
	header.current = header
	return header
}

func (h *blockHeader) base() unsafe.Pointer {
	return unsafe.Pointer(h)
}

func (h *blockHeader) external() bool {
	return h.flags&blockExternal != 0
}

func (h *blockHeader) validate() error {
	if h.position < HeaderSize {
		return errors.Errorf("block at %d has position %d inside its header", h.baseOffset, h.position)
	}
	if h.position > h.committed {
		return errors.Errorf("block at %d has position %d beyond committed size %d", h.baseOffset, h.position, h.committed)
	}
	if h.committed > h.reserved {
		return errors.Errorf("block at %d has committed size %d beyond reserved size %d", h.baseOffset, h.committed, h.reserved)
	}
	if h.guardOffset != 0 && h.guardOffset >= h.position {
		return errors.Errorf("block at %d has a corruption guard at %d beyond position %d", h.baseOffset, h.guardOffset, h.position)
	}

	return nil
}
