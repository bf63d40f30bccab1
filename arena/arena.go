// Package arena provides a chained reserve/commit bump allocator. It hands out memory from large
// virtual memory reservations, committing pages lazily, and rolls back in LIFO order through
// positions and temp scopes.
package arena

import (
	"context"
	"io"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/substrate/memutils"
	"github.com/vkngwrapper/substrate/platform"
	"golang.org/x/exp/slog"
)

var (
	// ErrZeroSize is returned from TryPush when a push of zero bytes is requested
	ErrZeroSize = errors.New("arena: push size must be greater than zero")
	// ErrNoChain is returned from TryPush when the arena was created with CreateNoChain and its
	// only block cannot hold the push
	ErrNoChain = errors.New("arena: exhausted and chaining is disabled")
	// ErrReleased is returned when an operation is attempted on a nil or released arena
	ErrReleased = errors.New("arena: arena is nil or has been released")
	// ErrBufferTooSmall is returned from New when CreateOptions.BackingBuffer cannot hold a block header
	ErrBufferTooSmall = errors.New("arena: backing buffer is smaller than the block header")
	// ErrOverflow is returned from TryPush when the push would wrap the address space
	ErrOverflow = errors.New("arena: push size overflows")
)

// Arena is a chained bump allocator over reserved virtual memory. Each block reserves a large
// range of address space and commits it in CommitSize steps as pushes advance. When a block is
// exhausted, a new block is reserved and chained after it, so positions keep increasing across
// blocks and memory that has already been handed out never moves.
//
// Memory pushed from an arena is not visible to the garbage collector. Values placed in it must
// not contain Go pointers, strings, slices, maps, interfaces, channels, or funcs.
//
// Arena is not safe for concurrent use. All methods may be called on a nil *Arena and do nothing.
type Arena struct {
	logger   *slog.Logger
	provider platform.Provider
	head     *blockHeader

	// backing keeps a caller-supplied first block reachable for the lifetime of the arena
	backing []byte
}

// New creates an arena. The first block is reserved and committed immediately, unless a
// backing buffer is provided, in which case the buffer becomes the first block.
func New(logger *slog.Logger, options CreateOptions) (*Arena, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard))
	}

	provider := options.Provider
	if provider == nil {
		provider = platform.Default()
	}

	reserveSize := options.ReserveSize
	if reserveSize == 0 {
		reserveSize = DefaultReserveSize
	}

	commitSize := options.CommitSize
	if commitSize == 0 {
		commitSize = DefaultCommitSize
	}
	err := memutils.CheckPow2(commitSize, "options.CommitSize")
	if err != nil {
		return nil, err
	}

	pageSize := provider.PageSize()
	if commitSize < pageSize {
		commitSize = pageSize
	}

	reserveSize, err = memutils.CheckedAlignUp(reserveSize, commitSize)
	if err != nil {
		return nil, errors.Wrap(err, "options.ReserveSize")
	}

	arena := &Arena{
		logger:   logger,
		provider: provider,
	}
	flags := options.Flags & ^blockExternal

	if options.BackingBuffer != nil {
		err = arena.initBackingBuffer(options.BackingBuffer, flags, commitSize, reserveSize)
		if err != nil {
			return nil, err
		}
		return arena, nil
	}

	ptr, err := provider.Reserve(reserveSize)
	if err != nil {
		logger.LogAttrs(context.Background(), slog.LevelError, "arena creation failed: unable to reserve memory",
			slog.Uint64("size", reserveSize), slog.Any("error", err))
		return nil, errors.Wrap(err, "arena creation failed")
	}

	initialCommit := commitSize
	if initialCommit < HeaderSize {
		initialCommit = HeaderSize
	}
	if initialCommit > reserveSize {
		initialCommit = reserveSize
	}

	err = provider.Commit(ptr, initialCommit)
	if err != nil {
		logger.LogAttrs(context.Background(), slog.LevelError, "arena creation failed: unable to commit initial memory",
			slog.Uint64("size", initialCommit), slog.Any("error", err))

		releaseErr := provider.Release(ptr, reserveSize)
		if releaseErr != nil {
			err = errors.WithSecondaryError(err, releaseErr)
		}
		return nil, errors.Wrap(err, "arena creation failed")
	}

	arena.head = initHeader(ptr, nil, 0, initialCommit, reserveSize, flags, commitSize, reserveSize)
	return arena, nil
}

func (a *Arena) initBackingBuffer(buffer []byte, flags CreateFlags, commitSize, reserveSize uint64) error {
	start := uintptr(unsafe.Pointer(unsafe.SliceData(buffer)))
	offset := uint64(memutils.AlignUp(start, uintptr(MinAlignment)) - start)
	if offset >= uint64(len(buffer)) {
		return errors.Wrapf(ErrBufferTooSmall, "buffer is %d bytes", len(buffer))
	}

	usable := memutils.AlignDown(uint64(len(buffer))-offset, MinAlignment)
	if usable < HeaderSize {
		return errors.Wrapf(ErrBufferTooSmall, "buffer is %d bytes", len(buffer))
	}

	ptr := unsafe.Add(unsafe.Pointer(unsafe.SliceData(buffer)), offset)
	a.backing = buffer
	a.head = initHeader(ptr, nil, 0, usable, usable, flags|blockExternal, commitSize, reserveSize)
	return nil
}

func (a *Arena) alive() bool {
	return a != nil && a.head != nil
}

// Push allocates size bytes aligned to alignment, which must be a power of two. An alignment
// of 0 uses MinAlignment. The memory is not zeroed: it is zero the first time a page is
// committed, but memory reused after a rollback holds whatever was last written to it.
//
// Push returns nil if size is 0, if the arena is nil or released, or if the memory could not be
// reserved or committed.
func (a *Arena) Push(size, alignment uint64) []byte {
	ptr, _ := a.push(size, alignment)
	if ptr == nil {
		return nil
	}
	return unsafe.Slice((*byte)(ptr), size)
}

// PushPointer behaves like Push but returns a pointer to the first byte of the allocation
func (a *Arena) PushPointer(size, alignment uint64) unsafe.Pointer {
	ptr, _ := a.push(size, alignment)
	return ptr
}

// TryPush behaves like Push but reports why an allocation failed
func (a *Arena) TryPush(size, alignment uint64) ([]byte, error) {
	ptr, err := a.push(size, alignment)
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*byte)(ptr), size), nil
}

func (a *Arena) push(size, alignment uint64) (unsafe.Pointer, error) {
	if !a.alive() {
		return nil, ErrReleased
	}
	if size == 0 {
		return nil, ErrZeroSize
	}
	if alignment == 0 {
		alignment = MinAlignment
	}
	memutils.DebugCheckPow2(alignment, "alignment")

	current := a.head.current
	a.checkGuard(current)

	posAligned, err := alignPosition(current, alignment)
	if err != nil {
		return nil, errors.Wrapf(ErrOverflow, "push of %d bytes", size)
	}
	// posNew is allowed to run past reserved, but not to wrap
	posNew := posAligned + size + memutils.DebugMargin
	if posNew < posAligned {
		return nil, errors.Wrapf(ErrOverflow, "push of %d bytes", size)
	}

	if posNew > current.reserved {
		current, err = a.chain(current, size, alignment)
		if err != nil {
			return nil, err
		}

		posAligned, err = alignPosition(current, alignment)
		if err != nil {
			return nil, errors.Wrapf(ErrOverflow, "push of %d bytes", size)
		}
		posNew = posAligned + size + memutils.DebugMargin
		if posNew > current.reserved {
			return nil, errors.Wrapf(ErrOverflow, "push of %d bytes", size)
		}
	}

	if posNew > current.committed {
		err = a.commit(current, posNew)
		if err != nil {
			return nil, err
		}
	}

	if memutils.DebugMargin > 0 {
		current.guardOffset = posAligned + size
		memutils.WriteGuard(current.base(), current.guardOffset)
	}
	current.position = posNew
	memutils.DebugValidate(a)

	return unsafe.Add(current.base(), posAligned), nil
}

// alignPosition returns the block's position advanced so that the address it refers to is a
// multiple of alignment
func alignPosition(block *blockHeader, alignment uint64) (uint64, error) {
	base := uint64(uintptr(block.base()))
	aligned, err := memutils.CheckedAlignUp(base+block.position, alignment)
	if err != nil {
		return 0, err
	}
	return aligned - base, nil
}

// commit advances the block's committed size to cover position, rounded up to the commit
// granularity and clamped to the reservation
func (a *Arena) commit(block *blockHeader, position uint64) error {
	target := memutils.AlignUp(position, block.commitSize)
	if target > block.reserved || target < position {
		target = block.reserved
	}

	amount := target - block.committed
	err := a.provider.Commit(unsafe.Add(block.base(), block.committed), amount)
	if err != nil {
		a.logger.LogAttrs(context.Background(), slog.LevelError, "failed to commit additional arena memory",
			slog.Uint64("size", amount), slog.Any("error", err))
		return errors.Wrapf(err, "commit %d bytes", amount)
	}

	block.committed = target
	return nil
}

// chain reserves a new block able to hold a push of size bytes and makes it current
func (a *Arena) chain(current *blockHeader, size, alignment uint64) (*blockHeader, error) {
	if current.flags&CreateNoChain != 0 {
		a.logger.LogAttrs(context.Background(), slog.LevelError, "arena exhausted with chaining disabled",
			slog.Uint64("size", size))
		return nil, errors.Wrapf(ErrNoChain, "push of %d bytes", size)
	}

	commitSize := current.commitSize
	reserveSize := a.head.reserveSize

	// Alignments beyond the header size can place the allocation further into the new block
	needed := HeaderSize + size + memutils.DebugMargin
	if alignment > HeaderSize {
		needed += alignment
	}
	if needed < size {
		return nil, errors.Wrapf(ErrOverflow, "push of %d bytes", size)
	}

	if needed > reserveSize {
		var err error
		reserveSize, err = memutils.CheckedAlignUp(needed, commitSize)
		if err != nil {
			return nil, errors.Wrapf(ErrOverflow, "push of %d bytes", size)
		}
	}

	ptr, err := a.provider.Reserve(reserveSize)
	if err != nil {
		a.logger.LogAttrs(context.Background(), slog.LevelError, "failed to reserve memory for new arena block",
			slog.Uint64("size", reserveSize), slog.Any("error", err))
		return nil, errors.Wrapf(err, "reserve %d bytes", reserveSize)
	}

	initialCommit := commitSize
	if needed > initialCommit {
		initialCommit = memutils.AlignUp(needed, commitSize)
	}
	if initialCommit > reserveSize {
		initialCommit = reserveSize
	}

	err = a.provider.Commit(ptr, initialCommit)
	if err != nil {
		a.logger.LogAttrs(context.Background(), slog.LevelError, "failed to commit memory for new arena block",
			slog.Uint64("size", initialCommit), slog.Any("error", err))

		releaseErr := a.provider.Release(ptr, reserveSize)
		if releaseErr != nil {
			err = errors.WithSecondaryError(err, releaseErr)
		}
		return nil, errors.Wrapf(err, "commit %d bytes", initialCommit)
	}

	block := initHeader(ptr, current, current.baseOffset+current.reserved, initialCommit, reserveSize,
		current.flags & ^blockExternal, commitSize, reserveSize)
	a.head.current = block

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "arena chained new block",
		slog.Uint64("baseOffset", block.baseOffset), slog.Uint64("reserved", reserveSize),
		slog.Uint64("committed", initialCommit))
	return block, nil
}

func (a *Arena) checkGuard(block *blockHeader) {
	if block.guardOffset != 0 && !memutils.CheckGuard(block.base(), block.guardOffset) {
		panic(errors.Newf("arena: memory corruption detected after allocation ending at position %d",
			block.baseOffset+block.guardOffset))
	}
}

// Position returns the arena's current global position. Positions increase monotonically with
// each push and can be passed to PopTo to free everything pushed since.
func (a *Arena) Position() uint64 {
	if !a.alive() {
		return 0
	}

	current := a.head.current
	return current.baseOffset + current.position
}

// PopTo rolls the arena back to position, which should have been returned by Position. Every
// block that starts at or after position is released. Positions inside the first block's header
// are clamped to HeaderSize.
func (a *Arena) PopTo(position uint64) {
	if !a.alive() {
		return
	}

	if position < HeaderSize {
		position = HeaderSize
	}

	current := a.head.current
	a.checkGuard(current)

	for current.previous != nil && current.baseOffset >= position {
		previous := current.previous
		a.releaseBlock(current)
		current = previous
	}

	a.head.current = current

	local := position - current.baseOffset
	if local < HeaderSize {
		local = HeaderSize
	}
	if local < current.position {
		current.position = local
		if current.guardOffset >= local {
			current.guardOffset = 0
		}
	}

	if current.flags&CreateDecommitOnPop != 0 && !current.external() {
		a.decommit(current)
	}
}

func (a *Arena) decommit(block *blockHeader) {
	keep := memutils.AlignUp(block.position, block.commitSize)
	if keep >= block.committed {
		return
	}

	amount := block.committed - keep
	err := a.provider.Decommit(unsafe.Add(block.base(), keep), amount)
	if err != nil {
		a.logger.LogAttrs(context.Background(), slog.LevelError, "failed to decommit arena memory",
			slog.Uint64("size", amount), slog.Any("error", err))
		return
	}

	block.committed = keep
}

func (a *Arena) releaseBlock(block *blockHeader) {
	if block.external() {
		return
	}

	baseOffset := block.baseOffset
	reserved := block.reserved
	err := a.provider.Release(block.base(), reserved)
	if err != nil {
		a.logger.LogAttrs(context.Background(), slog.LevelError, "failed to release arena block",
			slog.Uint64("baseOffset", baseOffset), slog.Uint64("size", reserved), slog.Any("error", err))
		return
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "arena released block",
		slog.Uint64("baseOffset", baseOffset), slog.Uint64("size", reserved))
}

// Pop rolls the arena back by amount bytes. Popping more than has been pushed is the same as Clear.
func (a *Arena) Pop(amount uint64) {
	if !a.alive() {
		return
	}

	position := a.Position()
	var target uint64
	if amount < position {
		target = position - amount
	}

	a.PopTo(target)
}

// Clear rolls the arena back to its first usable position. The first block is kept.
func (a *Arena) Clear() {
	a.PopTo(0)
}

// Release returns every block to the provider. The arena can't be used after it is released,
// and all memory pushed from it becomes invalid.
func (a *Arena) Release() {
	if !a.alive() {
		return
	}

	current := a.head.current
	for current != nil {
		previous := current.previous
		a.releaseBlock(current)
		current = previous
	}

	a.head = nil
	a.backing = nil
}

// BlockCount returns the number of blocks currently chained in the arena
func (a *Arena) BlockCount() int {
	if !a.alive() {
		return 0
	}

	count := 0
	for block := a.head.current; block != nil; block = block.previous {
		count++
	}
	return count
}

// Flags returns the flags the arena was created with
func (a *Arena) Flags() CreateFlags {
	if !a.alive() {
		return 0
	}
	return a.head.flags & ^blockExternal
}
