package slotmap

import (
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/pkg/errors"
	"github.com/vkngwrapper/substrate/handle"
	"github.com/vkngwrapper/substrate/memutils"
)

var _ memutils.Validatable = &SlotMap{}

func (m *SlotMap) freeListLength() (uint32, error) {
	var length uint32
	for slot := m.freeListHead; slot != emptySlot; slot = m.sparse[slot] {
		if slot >= m.capacity {
			return 0, errors.Errorf("free list contains slot %d beyond capacity %d", slot, m.capacity)
		}

		length++
		if length > m.capacity-m.count {
			return 0, errors.Errorf("free list is longer than the %d unoccupied slots", m.capacity-m.count)
		}
	}

	return length, nil
}

// Validate verifies the consistency of the map's tables and returns an error describing the
// first problem found
func (m *SlotMap) Validate() error {
	if m == nil {
		return nil
	}

	if m.count > m.capacity {
		return errors.Errorf("count %d exceeds capacity %d", m.count, m.capacity)
	}
	if uint32(len(m.sparse)) != m.capacity || uint32(len(m.generations)) != m.capacity || uint32(len(m.erase)) != m.capacity {
		return errors.Errorf("table lengths %d/%d/%d do not match capacity %d",
			len(m.sparse), len(m.generations), len(m.erase), m.capacity)
	}

	for dense := uint32(0); dense < m.count; dense++ {
		slot := m.erase[dense]
		if slot >= m.capacity {
			return errors.Errorf("dense index %d refers to slot %d beyond capacity %d", dense, slot, m.capacity)
		}
		if m.sparse[slot] != dense {
			return errors.Errorf("dense index %d refers to slot %d, which refers back to %d", dense, slot, m.sparse[slot])
		}
		if m.generations[slot] > handle.GenerationMask {
			return errors.Errorf("slot %d has generation %d", slot, m.generations[slot])
		}
	}

	_, err := m.freeListLength()
	if err != nil {
		return err
	}

	return nil
}

// AddStatistics adds the map's occupancy to stats
func (m *SlotMap) AddStatistics(stats *memutils.TableStatistics) {
	if m == nil {
		return
	}

	freeLength, _ := m.freeListLength()

	stats.TableCount++
	stats.LiveCount += uint64(m.count)
	stats.Capacity += uint64(m.capacity)
	stats.ValueBytes += uint64(m.count) * uint64(m.valueSize)
	stats.FreeListCount += uint64(freeLength)
}

// WriteJSON writes the map's layout and occupancy into json
func (m *SlotMap) WriteJSON(json jwriter.ObjectState) {
	if m == nil {
		return
	}

	freeLength, _ := m.freeListLength()

	json.Name("ValueSize").Int(int(m.valueSize))
	json.Name("ValueAlignment").Int(int(m.valueAlignment))
	json.Name("Count").Int(int(m.count))
	json.Name("Capacity").Int(int(m.capacity))
	json.Name("FreeListLength").Int(int(freeLength))
}
