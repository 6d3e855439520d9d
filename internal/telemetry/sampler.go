package telemetry

import (
	"github.com/Borislavv/go-ash-nodecache/config"
	"github.com/Borislavv/go-ash-nodecache/internal/cache"
)

// Source is the read side of the node cache which telemetry observes.
type Source interface {
	Mode() config.NodeCacheMode
	Metrics() cache.Metrics
	Len() int64
	Referenced() int64
	Unreferenced() int64
}

type sampler struct {
	src Source
}

func newSampler(src Source) sampler {
	return sampler{src: src}
}

// snapshot holds cumulative counters (monotonic) plus the current gauges.
type snapshot struct {
	hits      uint64
	misses    uint64
	inserts   uint64
	evictions uint64
	removals  uint64
	warnings  uint64

	entries      int64
	referenced   int64
	unreferenced int64
}

func (s sampler) snapshot() snapshot {
	m := s.src.Metrics()
	return snapshot{
		hits:      uint64(max(m.Hits, 0)),
		misses:    uint64(max(m.Misses, 0)),
		inserts:   uint64(max(m.Inserts, 0)),
		evictions: uint64(max(m.Evictions, 0)),
		removals:  uint64(max(m.Removals, 0)),
		warnings:  uint64(max(m.Warnings, 0)),

		entries:      s.src.Len(),
		referenced:   s.src.Referenced(),
		unreferenced: s.src.Unreferenced(),
	}
}

// deltaSnapshot converts cumulative counters to per-interval deltas; gauges are taken from cur.
// If counters reset (cur < prev), it treats cur as the delta.
func deltaSnapshot(prev, cur snapshot) snapshot {
	return snapshot{
		hits:      delta(prev.hits, cur.hits),
		misses:    delta(prev.misses, cur.misses),
		inserts:   delta(prev.inserts, cur.inserts),
		evictions: delta(prev.evictions, cur.evictions),
		removals:  delta(prev.removals, cur.removals),
		warnings:  delta(prev.warnings, cur.warnings),

		entries:      cur.entries,
		referenced:   cur.referenced,
		unreferenced: cur.unreferenced,
	}
}

func delta(prev, cur uint64) uint64 {
	if cur >= prev {
		return cur - prev
	}
	return cur
}

// hitRatio is hits / (hits + misses), 0 without lookups.
func (s snapshot) hitRatio() float64 {
	total := s.hits + s.misses
	if total == 0 {
		return 0
	}
	return float64(s.hits) / float64(total)
}
