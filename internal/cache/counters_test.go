package cache

import (
	"github.com/stretchr/testify/require"
	"sync"
	"testing"
)

// TestCounters_Snapshot verifies that counters correctly track and snapshot metrics.
func TestCounters_Snapshot(t *testing.T) {
	c := newCounters()

	// Initial snapshot should be zero
	require.Equal(t, Metrics{}, c.snapshot())

	c.hits.Add(10)
	c.misses.Add(5)
	c.inserts.Add(4)
	c.evictions.Add(3)
	c.removals.Add(2)
	c.warnings.Add(1)

	require.Equal(t, Metrics{Hits: 10, Misses: 5, Inserts: 4, Evictions: 3, Removals: 2, Warnings: 1}, c.snapshot())
}

// TestCounters_Concurrent verifies thread-safety.
func TestCounters_Concurrent(t *testing.T) {
	c := newCounters()

	const numGoroutines = 10
	const opsPerGoroutine = 100

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < opsPerGoroutine; j++ {
				c.hits.Add(1)
				c.evictions.Add(1)
			}
		}()
	}

	wg.Wait()

	m := c.snapshot()
	require.Equal(t, int64(numGoroutines*opsPerGoroutine), m.Hits)
	require.Equal(t, int64(numGoroutines*opsPerGoroutine), m.Evictions)
}
