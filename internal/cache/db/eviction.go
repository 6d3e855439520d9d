package db

import "github.com/Borislavv/go-ash-nodecache/internal/cache/db/model"

// EvictUntilWithinLimit evicts least recently used unreferenced entries while more than limit
// entries are loaded. Referenced entries are never picked and keep is spared, so the loop may
// stop above limit when only those remain. onEvict (optional) observes every victim.
func (m *Map) EvictUntilWithinLimit(limit int64, keep *model.Entry, onEvict func(e *model.Entry)) (evicted int64) {
	for m.len > limit {
		victim, found := m.PeekVictim(keep)
		if !found {
			return evicted
		}
		m.RemoveEntry(victim)
		evicted++
		if onEvict != nil {
			onEvict(victim)
		}
	}
	return evicted
}
