package arena

import (
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/pkg/errors"
	"github.com/vkngwrapper/substrate/memutils"
)

// Validate verifies the consistency of every block in the arena and returns an error describing
// the first problem found
func (a *Arena) Validate() error {
	if !a.alive() {
		return nil
	}

	if a.head.current == nil {
		return errors.New("arena has no current block")
	}
	if a.head.baseOffset != 0 {
		return errors.Errorf("first block has base offset %d", a.head.baseOffset)
	}

	var next *blockHeader
	for block := a.head.current; block != nil; block = block.previous {
		err := block.validate()
		if err != nil {
			return err
		}

		if block.commitSize != a.head.commitSize {
			return errors.Errorf("block at %d has commit granularity %d but the arena uses %d",
				block.baseOffset, block.commitSize, a.head.commitSize)
		}

		if next != nil && block.baseOffset+block.reserved != next.baseOffset {
			return errors.Errorf("block at %d with %d reserved bytes is followed by a block at %d",
				block.baseOffset, block.reserved, next.baseOffset)
		}

		if block.previous == nil && block != a.head {
			return errors.Errorf("block at %d has no previous block but is not the first block", block.baseOffset)
		}

		next = block
	}

	return nil
}

// AddStatistics adds the footprint of every block in the arena to stats. UsedBytes includes
// block headers.
func (a *Arena) AddStatistics(stats *memutils.Statistics) {
	if !a.alive() {
		return
	}

	for block := a.head.current; block != nil; block = block.previous {
		stats.AddBlock(block.reserved, block.committed, block.position)
	}
}

// BuildStatsString returns a JSON document describing the arena and each of its blocks, oldest first
func (a *Arena) BuildStatsString() string {
	writer := jwriter.NewWriter()
	a.writeStats(&writer)
	return string(writer.Bytes())
}

func (a *Arena) writeStats(writer *jwriter.Writer) {
	obj := writer.Object()
	defer obj.End()

	var stats memutils.Statistics
	a.AddStatistics(&stats)

	obj.Name("Flags").String(a.Flags().String())
	obj.Name("BlockCount").Int(stats.BlockCount)
	obj.Name("TotalReserved").Int(int(stats.ReservedBytes))
	obj.Name("TotalCommitted").Int(int(stats.CommittedBytes))
	obj.Name("Position").Int(int(a.Position()))

	blocks := obj.Name("Blocks").Array()
	defer blocks.End()

	if !a.alive() {
		return
	}

	var chain []*blockHeader
	for block := a.head.current; block != nil; block = block.previous {
		chain = append(chain, block)
	}

	for i := len(chain) - 1; i >= 0; i-- {
		block := chain[i]

		blockObj := blocks.Object()
		blockObj.Name("BaseOffset").Int(int(block.baseOffset))
		blockObj.Name("Position").Int(int(block.position))
		blockObj.Name("Committed").Int(int(block.committed))
		blockObj.Name("Reserved").Int(int(block.reserved))
		blockObj.Name("External").Bool(block.external())
		blockObj.End()
	}
}
