package memutils

// Statistics accumulates the footprint of one or more arenas. Each arena reports once per
// reserved block.
type Statistics struct {
	BlockCount     int
	ReservedBytes  uint64
	CommittedBytes uint64
	UsedBytes      uint64
}

func (s *Statistics) Clear() {
	s.BlockCount = 0
	s.ReservedBytes = 0
	s.CommittedBytes = 0
	s.UsedBytes = 0
}

func (s *Statistics) AddStatistics(other *Statistics) {
	s.BlockCount += other.BlockCount
	s.ReservedBytes += other.ReservedBytes
	s.CommittedBytes += other.CommittedBytes
	s.UsedBytes += other.UsedBytes
}

// AddBlock records a single block of memory
func (s *Statistics) AddBlock(reserved, committed, used uint64) {
	s.BlockCount++
	s.ReservedBytes += reserved
	s.CommittedBytes += committed
	s.UsedBytes += used
}

// TableStatistics accumulates the occupancy of one or more handle tables.
type TableStatistics struct {
	TableCount    int
	LiveCount     uint64
	Capacity      uint64
	ValueBytes    uint64
	FreeListCount uint64
}

func (s *TableStatistics) Clear() {
	s.TableCount = 0
	s.LiveCount = 0
	s.Capacity = 0
	s.ValueBytes = 0
	s.FreeListCount = 0
}

func (s *TableStatistics) AddTableStatistics(other *TableStatistics) {
	s.TableCount += other.TableCount
	s.LiveCount += other.LiveCount
	s.Capacity += other.Capacity
	s.ValueBytes += other.ValueBytes
	s.FreeListCount += other.FreeListCount
}
