package arena_test

import (
	"testing"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/substrate/arena"
	"github.com/vkngwrapper/substrate/memutils"
)

func newArena(t *testing.T, options arena.CreateOptions) *arena.Arena {
	a, err := arena.New(nil, options)
	require.NoError(t, err)
	require.NotNil(t, a)
	t.Cleanup(a.Release)
	return a
}

func TestCreate(t *testing.T) {
	a := newArena(t, arena.CreateOptions{})

	require.Equal(t, arena.HeaderSize, a.Position())
	require.Equal(t, 1, a.BlockCount())
	require.Equal(t, arena.CreateFlags(0), a.Flags())
	require.NoError(t, a.Validate())
}

func TestCreateRejectsBadCommitSize(t *testing.T) {
	_, err := arena.New(nil, arena.CreateOptions{CommitSize: 3000})
	require.True(t, errors.Is(err, memutils.PowerOfTwoError))
}

func TestPushAlignment(t *testing.T) {
	a := newArena(t, arena.CreateOptions{})

	for alignment := uint64(1); alignment <= 128; alignment *= 2 {
		// Knock the cursor off alignment before each push
		require.NotNil(t, a.Push(1, 1))

		ptr := a.PushPointer(13, alignment)
		require.NotNil(t, ptr)
		require.Zero(t, uintptr(ptr)%uintptr(alignment), "alignment %d", alignment)
	}

	ptr := a.PushPointer(1, 0)
	require.Zero(t, uintptr(ptr)%uintptr(arena.MinAlignment))

	require.NoError(t, a.Validate())
}

func TestPushDoesNotOverlap(t *testing.T) {
	a := newArena(t, arena.CreateOptions{})

	var allocations [][]byte
	for i := 0; i < 64; i++ {
		data := a.Push(uint64(i+1)*7, 8)
		require.Len(t, data, (i+1)*7)
		for j := range data {
			data[j] = byte(i)
		}
		allocations = append(allocations, data)
	}

	for i, data := range allocations {
		for j := range data {
			require.Equal(t, byte(i), data[j])
		}
	}
}

func TestPushZeroSize(t *testing.T) {
	a := newArena(t, arena.CreateOptions{})
	before := a.Position()

	require.Nil(t, a.Push(0, 8))
	require.Nil(t, a.PushPointer(0, 8))

	_, err := a.TryPush(0, 8)
	require.ErrorIs(t, err, arena.ErrZeroSize)
	require.Equal(t, before, a.Position())
}

func TestNilArena(t *testing.T) {
	var a *arena.Arena

	require.Nil(t, a.Push(16, 8))
	require.Zero(t, a.Position())
	require.Zero(t, a.BlockCount())
	require.NoError(t, a.Validate())

	_, err := a.TryPush(16, 8)
	require.ErrorIs(t, err, arena.ErrReleased)

	a.PopTo(500)
	a.Pop(10)
	a.Clear()
	a.Release()

	temp := a.TempBegin()
	a.TempEnd(temp)
	require.NoError(t, a.Scope(func() error { return nil }))

	require.Nil(t, arena.PushStruct[uint64](a))
	require.Nil(t, arena.PushArray[uint64](a, 4))
}

func TestReleasedArena(t *testing.T) {
	a, err := arena.New(nil, arena.CreateOptions{})
	require.NoError(t, err)

	a.Release()
	require.Nil(t, a.Push(16, 8))
	require.Zero(t, a.Position())
	a.Release()
}

func TestPosition(t *testing.T) {
	a := newArena(t, arena.CreateOptions{})

	start := a.Position()
	require.NotNil(t, a.Push(100, 1))
	require.Equal(t, start+100+memutils.DebugMargin, a.Position())

	// The cursor is aligned before the push, so the gap counts toward the position
	second := a.Position()
	require.NotNil(t, a.Push(8, 64))
	require.GreaterOrEqual(t, a.Position(), second+8)
	require.Less(t, a.Position(), second+8+64+memutils.DebugMargin)
}

func TestPopTo(t *testing.T) {
	a := newArena(t, arena.CreateOptions{})

	require.NotNil(t, a.Push(256, 8))
	mark := a.Position()

	first := a.PushPointer(1000, 8)
	require.NotNil(t, first)
	require.NotNil(t, a.Push(5000, 16))

	a.PopTo(mark)
	require.Equal(t, mark, a.Position())

	// Memory after the mark is handed out again
	again := a.PushPointer(1000, 8)
	require.Equal(t, first, again)
}

func TestPopToClampsToHeader(t *testing.T) {
	a := newArena(t, arena.CreateOptions{})
	require.NotNil(t, a.Push(256, 8))

	a.PopTo(3)
	require.Equal(t, arena.HeaderSize, a.Position())
	require.NoError(t, a.Validate())
}

func TestPop(t *testing.T) {
	a := newArena(t, arena.CreateOptions{})

	require.NotNil(t, a.Push(1000, 8))
	before := a.Position()
	require.NotNil(t, a.Push(24, 8))

	a.Pop(24 + memutils.DebugMargin)
	require.Equal(t, before, a.Position())

	// Popping more than has been pushed clamps to the first usable position
	a.Pop(1 << 40)
	require.Equal(t, arena.HeaderSize, a.Position())
}

func TestClear(t *testing.T) {
	a := newArena(t, arena.CreateOptions{})

	for i := 0; i < 100; i++ {
		require.NotNil(t, a.Push(1024, 8))
	}

	a.Clear()
	require.Equal(t, arena.HeaderSize, a.Position())
	require.Equal(t, 1, a.BlockCount())

	require.NotNil(t, a.Push(16, 8))
}

func TestTempNesting(t *testing.T) {
	a := newArena(t, arena.CreateOptions{})

	outer := a.TempBegin()
	require.Equal(t, arena.HeaderSize, outer.Position())
	require.NotNil(t, a.Push(64, 8))

	inner := a.TempBegin()
	require.NotNil(t, a.Push(128, 8))
	afterInner := a.Position()

	deepest := a.TempBegin()
	require.NotNil(t, a.Push(4096, 8))
	deepest.End()
	require.Equal(t, afterInner, a.Position())

	a.TempEnd(inner)
	require.Equal(t, inner.Position(), a.Position())

	// Ending the same temp again changes nothing
	inner.End()
	require.Equal(t, inner.Position(), a.Position())

	outer.End()
	require.Equal(t, arena.HeaderSize, a.Position())
}

func TestScopeRollsBack(t *testing.T) {
	a := newArena(t, arena.CreateOptions{})
	before := a.Position()

	sentinel := errors.New("scope failed")
	err := a.Scope(func() error {
		require.NotNil(t, a.Push(512, 8))
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)
	require.Equal(t, before, a.Position())

	require.Panics(t, func() {
		_ = a.Scope(func() error {
			require.NotNil(t, a.Push(512, 8))
			panic("boom")
		})
	})
	require.Equal(t, before, a.Position())
}

func TestChaining(t *testing.T) {
	a := newArena(t, arena.CreateOptions{})

	const pushSize = 128 * 1024
	var allocations [][]byte
	for i := 0; i < 1000; i++ {
		data := a.Push(pushSize, 16)
		require.NotNil(t, data, "push %d", i)
		data[0] = byte(i)
		data[pushSize-1] = byte(i + 1)
		allocations = append(allocations, data)
	}

	require.Greater(t, a.BlockCount(), 1)
	require.Greater(t, a.Position(), uint64(1000*pushSize))
	require.NoError(t, a.Validate())

	for i, data := range allocations {
		require.Equal(t, byte(i), data[0])
		require.Equal(t, byte(i+1), data[pushSize-1])
	}

	a.Clear()
	require.Equal(t, 1, a.BlockCount())
	require.Equal(t, arena.HeaderSize, a.Position())
}

func TestPopAcrossBlocks(t *testing.T) {
	a := newArena(t, arena.CreateOptions{ReserveSize: 256 * 1024, CommitSize: 64 * 1024})

	require.NotNil(t, a.Push(1024, 8))
	mark := a.Position()

	for i := 0; i < 16; i++ {
		require.NotNil(t, a.Push(100*1024, 8))
	}
	require.Greater(t, a.BlockCount(), 4)

	a.PopTo(mark)
	require.Equal(t, 1, a.BlockCount())
	require.Equal(t, mark, a.Position())
	require.NoError(t, a.Validate())
}

func TestHugePush(t *testing.T) {
	a := newArena(t, arena.CreateOptions{})

	const size = 256 * 1024 * 1024
	data := a.Push(size, 16)
	require.Len(t, data, size)
	require.Equal(t, 2, a.BlockCount())

	data[0] = 0xAB
	data[size/2] = 0xCD
	data[size-1] = 0xEF
	require.Equal(t, byte(0xAB), data[0])
	require.Equal(t, byte(0xCD), data[size/2])
	require.Equal(t, byte(0xEF), data[size-1])

	// The next push chains normally-sized blocks again
	require.NotNil(t, a.Push(1024*1024, 8))
	require.NoError(t, a.Validate())
}

func TestNoChain(t *testing.T) {
	a := newArena(t, arena.CreateOptions{
		Flags:       arena.CreateNoChain,
		ReserveSize: 64 * 1024,
		CommitSize:  4 * 1024,
	})

	require.NotNil(t, a.Push(32*1024, 8))
	before := a.Position()

	require.Nil(t, a.Push(64*1024, 8))
	_, err := a.TryPush(64*1024, 8)
	require.ErrorIs(t, err, arena.ErrNoChain)

	require.Equal(t, before, a.Position())
	require.Equal(t, 1, a.BlockCount())
	require.Equal(t, "CreateNoChain", a.Flags().String())
}

func TestPushedMemoryStartsZeroed(t *testing.T) {
	a := newArena(t, arena.CreateOptions{})

	data := a.Push(256*1024, 8)
	require.NotNil(t, data)
	for i := range data {
		require.Zero(t, data[i])
	}
}

func TestPushedSliceAliasesArena(t *testing.T) {
	a := newArena(t, arena.CreateOptions{})

	ptr := a.PushPointer(64, 8)
	require.NotNil(t, ptr)
	view := unsafe.Slice((*byte)(ptr), 64)
	view[10] = 42

	a.Pop(64 + memutils.DebugMargin)
	again := a.Push(64, 8)
	require.Equal(t, byte(42), again[10])
}

func BenchmarkPush(b *testing.B) {
	a, err := arena.New(nil, arena.CreateOptions{})
	require.NoError(b, err)
	defer a.Release()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if a.Push(64, 8) == nil {
			b.Fatal("push failed")
		}
		if i%100000 == 0 {
			a.Clear()
		}
	}
}
