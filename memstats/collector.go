// Package memstats exports arena and slot map statistics as Prometheus metrics.
package memstats

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vkngwrapper/substrate/arena"
	"github.com/vkngwrapper/substrate/memutils"
	"github.com/vkngwrapper/substrate/slotmap"
)

type namedArena struct {
	name  string
	arena *arena.Arena
}

type namedSlotMap struct {
	name    string
	slotMap *slotmap.SlotMap
}

// Collector is a prometheus.Collector that reads the footprint of registered arenas and slot
// maps on every scrape.
//
// Arenas and slot maps are not safe for concurrent use, so scrapes must not overlap with the
// goroutine that owns them. The collector only synchronizes its own registration list.
type Collector struct {
	lock     sync.Mutex
	arenas   []namedArena
	slotMaps []namedSlotMap

	arenaReserved   *prometheus.Desc
	arenaCommitted  *prometheus.Desc
	arenaPosition   *prometheus.Desc
	arenaBlocks     *prometheus.Desc
	slotMapCount    *prometheus.Desc
	slotMapCapacity *prometheus.Desc
}

var _ prometheus.Collector = &Collector{}

func NewCollector(namespace string) *Collector {
	labels := []string{"name"}
	return &Collector{
		arenaReserved: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "arena", "reserved_bytes"),
			"Bytes of address space reserved by the arena",
			labels, nil),
		arenaCommitted: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "arena", "committed_bytes"),
			"Bytes of memory committed by the arena",
			labels, nil),
		arenaPosition: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "arena", "position_bytes"),
			"Current push position of the arena",
			labels, nil),
		arenaBlocks: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "arena", "blocks"),
			"Number of blocks chained in the arena",
			labels, nil),
		slotMapCount: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "slotmap", "count"),
			"Number of live values in the slot map",
			labels, nil),
		slotMapCapacity: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "slotmap", "capacity"),
			"Number of slots allocated by the slot map",
			labels, nil),
	}
}

// AddArena starts reporting a under name. Adding an arena under a name that is already in use
// replaces the previous arena.
func (c *Collector) AddArena(name string, a *arena.Arena) {
	c.lock.Lock()
	defer c.lock.Unlock()

	for i := range c.arenas {
		if c.arenas[i].name == name {
			c.arenas[i].arena = a
			return
		}
	}
	c.arenas = append(c.arenas, namedArena{name: name, arena: a})
}

// AddSlotMap starts reporting m under name. Adding a slot map under a name that is already in
// use replaces the previous slot map.
func (c *Collector) AddSlotMap(name string, m *slotmap.SlotMap) {
	c.lock.Lock()
	defer c.lock.Unlock()

	for i := range c.slotMaps {
		if c.slotMaps[i].name == name {
			c.slotMaps[i].slotMap = m
			return
		}
	}
	c.slotMaps = append(c.slotMaps, namedSlotMap{name: name, slotMap: m})
}

// RemoveArena stops reporting the arena registered under name. It must be called before the
// arena is released.
func (c *Collector) RemoveArena(name string) {
	c.lock.Lock()
	defer c.lock.Unlock()

	for i := range c.arenas {
		if c.arenas[i].name == name {
			c.arenas = append(c.arenas[:i], c.arenas[i+1:]...)
			return
		}
	}
}

// RemoveSlotMap stops reporting the slot map registered under name
func (c *Collector) RemoveSlotMap(name string) {
	c.lock.Lock()
	defer c.lock.Unlock()

	for i := range c.slotMaps {
		if c.slotMaps[i].name == name {
			c.slotMaps = append(c.slotMaps[:i], c.slotMaps[i+1:]...)
			return
		}
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.arenaReserved
	ch <- c.arenaCommitted
	ch <- c.arenaPosition
	ch <- c.arenaBlocks
	ch <- c.slotMapCount
	ch <- c.slotMapCapacity
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.lock.Lock()
	arenas := append([]namedArena(nil), c.arenas...)
	slotMaps := append([]namedSlotMap(nil), c.slotMaps...)
	c.lock.Unlock()

	for _, entry := range arenas {
		var stats memutils.Statistics
		entry.arena.AddStatistics(&stats)

		ch <- prometheus.MustNewConstMetric(c.arenaReserved, prometheus.GaugeValue, float64(stats.ReservedBytes), entry.name)
		ch <- prometheus.MustNewConstMetric(c.arenaCommitted, prometheus.GaugeValue, float64(stats.CommittedBytes), entry.name)
		ch <- prometheus.MustNewConstMetric(c.arenaPosition, prometheus.GaugeValue, float64(entry.arena.Position()), entry.name)
		ch <- prometheus.MustNewConstMetric(c.arenaBlocks, prometheus.GaugeValue, float64(stats.BlockCount), entry.name)
	}

	for _, entry := range slotMaps {
		ch <- prometheus.MustNewConstMetric(c.slotMapCount, prometheus.GaugeValue, float64(entry.slotMap.Count()), entry.name)
		ch <- prometheus.MustNewConstMetric(c.slotMapCapacity, prometheus.GaugeValue, float64(entry.slotMap.Capacity()), entry.name)
	}
}
