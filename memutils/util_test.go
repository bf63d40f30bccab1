package memutils_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/substrate/memutils"
)

func TestAlignUp(t *testing.T) {
	require.Equal(t, uint64(0), memutils.AlignUp[uint64](0, 8))
	require.Equal(t, uint64(8), memutils.AlignUp[uint64](1, 8))
	require.Equal(t, uint64(8), memutils.AlignUp[uint64](8, 8))
	require.Equal(t, uint64(136), memutils.AlignUp[uint64](129, 8))
	require.Equal(t, uint64(65536), memutils.AlignUp[uint64](128+1000, 65536))
	require.Equal(t, 7, memutils.AlignUp(7, 1))
}

func TestAlignDown(t *testing.T) {
	require.Equal(t, uint64(0), memutils.AlignDown[uint64](7, 8))
	require.Equal(t, uint64(8), memutils.AlignDown[uint64](15, 8))
	require.Equal(t, uint64(4096), memutils.AlignDown[uint64](8191, 4096))
}

func TestCheckedAlignUp(t *testing.T) {
	value, err := memutils.CheckedAlignUp(100, 64)
	require.NoError(t, err)
	require.Equal(t, uint64(128), value)

	_, err = memutils.CheckedAlignUp(^uint64(0)-2, 64)
	require.Error(t, err)
	require.True(t, errors.Is(err, memutils.OverflowError))
}

func TestCheckPow2(t *testing.T) {
	for _, value := range []uint64{1, 2, 4, 8, 16, 128, 1 << 40} {
		require.NoError(t, memutils.CheckPow2(value, "value"))
		require.True(t, memutils.IsPow2(value))
	}

	for _, value := range []uint64{0, 3, 6, 12, 100} {
		err := memutils.CheckPow2(value, "alignment")
		require.Error(t, err)
		require.True(t, errors.Is(err, memutils.PowerOfTwoError))
		require.False(t, memutils.IsPow2(value))
	}
}


func TestStatistics(t *testing.T) {
	var stats memutils.Statistics
	stats.AddBlock(64, 16, 8)
	stats.AddBlock(128, 32, 10)

	var total memutils.Statistics
	total.AddStatistics(&stats)
	total.AddStatistics(&stats)

	require.Equal(t, memutils.Statistics{
		BlockCount:     4,
		ReservedBytes:  384,
		CommittedBytes: 96,
		UsedBytes:      36,
	}, total)

	total.Clear()
	require.Equal(t, memutils.Statistics{}, total)
}
