package cache

import "sync/atomic"

type counters struct {
	hits      atomic.Int64
	misses    atomic.Int64
	inserts   atomic.Int64
	evictions atomic.Int64
	removals  atomic.Int64
	warnings  atomic.Int64
}

func newCounters() *counters {
	return &counters{}
}

// Metrics is a point-in-time copy of the cache counters. All values are monotonic.
type Metrics struct {
	Hits      int64 // Get/GetReferenced found the node
	Misses    int64 // Get/GetReferenced did not find the node
	Inserts   int64 // Put created a new entry
	Evictions int64 // entries unloaded by LRU pressure
	Removals  int64 // entries removed by Evict
	Warnings  int64 // overflow warnings surfaced
}

func (c *counters) snapshot() Metrics {
	return Metrics{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Inserts:   c.inserts.Load(),
		Evictions: c.evictions.Load(),
		Removals:  c.removals.Load(),
		Warnings:  c.warnings.Load(),
	}
}
