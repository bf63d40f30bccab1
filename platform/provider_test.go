package platform_test

import (
	"testing"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/substrate/platform"
)

func providers() map[string]platform.Provider {
	return map[string]platform.Provider{
		"Default": platform.Default(),
		"Heap":    platform.NewHeapMemory(4096),
	}
}

func TestReserveCommitRelease(t *testing.T) {
	for name, provider := range providers() {
		t.Run(name, func(t *testing.T) {
			pageSize := provider.PageSize()
			require.NotZero(t, pageSize)
			require.Zero(t, pageSize&(pageSize-1))

			size := 16 * pageSize
			ptr, err := provider.Reserve(size)
			require.NoError(t, err)
			require.NotNil(t, ptr)

			// Commit a partial page, the provider rounds up to a full page
			require.NoError(t, provider.Commit(ptr, 10))
			region := unsafe.Slice((*byte)(ptr), pageSize)
			for i := range region {
				require.Zero(t, region[i])
			}
			region[0] = 1
			region[pageSize-1] = 2

			second := unsafe.Add(ptr, 4*pageSize)
			require.NoError(t, provider.Commit(second, 2*pageSize))
			secondRegion := unsafe.Slice((*byte)(second), 2*pageSize)
			secondRegion[2*pageSize-1] = 3

			require.NoError(t, provider.Decommit(second, 2*pageSize))
			require.NoError(t, provider.Commit(second, 2*pageSize))
			require.Zero(t, secondRegion[2*pageSize-1])

			require.Equal(t, byte(1), region[0])
			require.Equal(t, byte(2), region[pageSize-1])

			require.NoError(t, provider.Release(ptr, size))
		})
	}
}

func TestInvalidArguments(t *testing.T) {
	for name, provider := range providers() {
		t.Run(name, func(t *testing.T) {
			_, err := provider.Reserve(0)
			require.True(t, errors.Is(err, platform.ErrZeroSize))

			require.True(t, errors.Is(provider.Commit(nil, 4096), platform.ErrNilPointer))
			require.True(t, errors.Is(provider.Decommit(nil, 4096), platform.ErrNilPointer))
			require.True(t, errors.Is(provider.Release(nil, 4096), platform.ErrNilPointer))

			ptr, err := provider.Reserve(provider.PageSize())
			require.NoError(t, err)
			require.True(t, errors.Is(provider.Commit(ptr, 0), platform.ErrZeroSize))
			require.NoError(t, provider.Release(ptr, provider.PageSize()))
		})
	}
}

func TestHeapMemoryTracksReservations(t *testing.T) {
	heap := platform.NewHeapMemory(0)
	require.Equal(t, uint64(4096), heap.PageSize())

	first, err := heap.Reserve(100)
	require.NoError(t, err)
	require.Zero(t, uintptr(first)%4096)

	second, err := heap.Reserve(8192)
	require.NoError(t, err)
	require.Equal(t, 2, heap.Live())

	require.NoError(t, heap.Release(first, 100))
	require.Equal(t, 1, heap.Live())

	err = heap.Release(first, 100)
	require.True(t, errors.Is(err, platform.ErrUnknownReservation))

	err = heap.Commit(first, 100)
	require.True(t, errors.Is(err, platform.ErrUnknownReservation))

	err = heap.Commit(second, 4*4096)
	require.True(t, errors.Is(err, platform.ErrUnknownReservation))

	require.NoError(t, heap.Release(second, 8192))
	require.Zero(t, heap.Live())
}
