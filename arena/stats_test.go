package arena_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/substrate/arena"
	"github.com/vkngwrapper/substrate/memutils"
)

func memutilsMargin() uint64 {
	return memutils.DebugMargin
}

type statsBlock struct {
	BaseOffset uint64
	Position   uint64
	Committed  uint64
	Reserved   uint64
	External   bool
}

type statsDocument struct {
	Flags          string
	BlockCount     int
	TotalReserved  uint64
	TotalCommitted uint64
	Position       uint64
	Blocks         []statsBlock
}

func TestBuildStatsString(t *testing.T) {
	a := newArena(t, arena.CreateOptions{
		Flags:       arena.CreateDecommitOnPop,
		ReserveSize: 256 * 1024,
		CommitSize:  64 * 1024,
	})

	require.NotNil(t, a.Push(1000, 8))
	require.NotNil(t, a.Push(300*1024, 8))

	var doc statsDocument
	require.NoError(t, json.Unmarshal([]byte(a.BuildStatsString()), &doc))

	require.Equal(t, "CreateDecommitOnPop", doc.Flags)
	require.Equal(t, 2, doc.BlockCount)
	require.Equal(t, a.Position(), doc.Position)
	require.Len(t, doc.Blocks, 2)

	require.Equal(t, uint64(0), doc.Blocks[0].BaseOffset)
	require.Equal(t, arena.HeaderSize+1000+memutils.DebugMargin, doc.Blocks[0].Position)
	require.Equal(t, uint64(256*1024), doc.Blocks[0].Reserved)
	require.False(t, doc.Blocks[0].External)

	require.Equal(t, uint64(256*1024), doc.Blocks[1].BaseOffset)
	require.Equal(t, doc.Blocks[0].Reserved+doc.Blocks[1].Reserved, doc.TotalReserved)
	require.Equal(t, doc.Blocks[0].Committed+doc.Blocks[1].Committed, doc.TotalCommitted)
}

func TestBuildStatsStringReleased(t *testing.T) {
	a, err := arena.New(nil, arena.CreateOptions{})
	require.NoError(t, err)
	a.Release()

	var doc statsDocument
	require.NoError(t, json.Unmarshal([]byte(a.BuildStatsString()), &doc))
	require.Zero(t, doc.BlockCount)
	require.Empty(t, doc.Blocks)
}

func TestAddStatistics(t *testing.T) {
	a := newArena(t, arena.CreateOptions{})
	b := newArena(t, arena.CreateOptions{})

	require.NotNil(t, a.Push(4096, 8))

	var stats memutils.Statistics
	a.AddStatistics(&stats)
	b.AddStatistics(&stats)

	require.Equal(t, 2, stats.BlockCount)
	require.Equal(t, 2*arena.DefaultReserveSize, stats.ReservedBytes)
	require.Equal(t, 2*arena.DefaultCommitSize, stats.CommittedBytes)
	require.Equal(t, a.Position()+b.Position(), stats.UsedBytes)
}

func TestFlagsString(t *testing.T) {
	require.Equal(t, "None", arena.CreateFlags(0).String())
	require.Equal(t, "CreateNoChain|CreateDecommitOnPop", (arena.CreateNoChain | arena.CreateDecommitOnPop).String())
}
