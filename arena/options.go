package arena

import (
	"github.com/vkngwrapper/substrate/memutils"
	"github.com/vkngwrapper/substrate/platform"
)

// CreateFlags indicate specific arena behaviors to activate or deactivate
type CreateFlags uint32

var createFlagsMapping = memutils.NewFlagStringMapping[CreateFlags]()

func (f CreateFlags) Register(str string) {
	createFlagsMapping.Register(f, str)
}
func (f CreateFlags) String() string {
	return createFlagsMapping.FlagsToString(f & ^blockExternal)
}

const (
	// CreateNoChain restricts the arena to its first reservation. A push that does not fit
	// returns nil instead of reserving a new block.
	CreateNoChain CreateFlags = 1 << iota
	// CreateDecommitOnPop returns committed pages above the new position to the OS when the arena
	// is rolled back. By default, committed pages stay committed until their block is released.
	CreateDecommitOnPop

	// blockExternal marks a block whose memory was supplied by the caller through
	// CreateOptions.BackingBuffer. It is never released to the provider.
	blockExternal CreateFlags = 1 << 31
)

func init() {
	CreateNoChain.Register("CreateNoChain")
	CreateDecommitOnPop.Register("CreateDecommitOnPop")
}

const (
	// HeaderSize is the number of bytes at the front of every block that are reserved for
	// the block's bookkeeping. The first usable position in an arena is HeaderSize.
	HeaderSize uint64 = 128
	// DefaultReserveSize is the reservation size used for each block when none is provided
	// via CreateOptions. It is equal to 64Mb.
	DefaultReserveSize uint64 = 64 * 1024 * 1024
	// DefaultCommitSize is the commit granularity used when none is provided via CreateOptions.
	// It is equal to 64Kb.
	DefaultCommitSize uint64 = 64 * 1024
	// MinAlignment is the smallest alignment used by the typed helpers, and the alignment
	// used by Push when an alignment of 0 is requested
	MinAlignment uint64 = 8
)

// CreateOptions contains optional settings when creating an arena
type CreateOptions struct {
	// Flags indicates specific arena behaviors to activate or deactivate
	Flags CreateFlags
	// ReserveSize is the amount of address space reserved for each block. It is rounded up to
	// a multiple of CommitSize. Pushes larger than a block receive a dedicated, larger block.
	ReserveSize uint64
	// CommitSize is the granularity with which reserved memory is committed. It must be a power
	// of two, and is raised to the provider's page size if it is smaller.
	CommitSize uint64

	// BackingBuffer can be left empty. If it is provided, the arena's first block is placed
	// inside it instead of being reserved from the provider. The buffer is fully committed from
	// the start and is never returned to the provider. Blocks chained after it are still reserved
	// from the provider unless CreateNoChain is set.
	//
	// The buffer must be at least HeaderSize bytes after its start is aligned to MinAlignment,
	// and must not be accessed by the caller while the arena is alive.
	BackingBuffer []byte

	// Provider is the source of virtual memory for the arena. If left nil, platform.Default()
	// is used.
	Provider platform.Provider
}
