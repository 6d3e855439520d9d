package cache

import (
	"github.com/Borislavv/go-ash-nodecache/config"
	"github.com/Borislavv/go-ash-nodecache/internal/cache/db"
	"github.com/Borislavv/go-ash-nodecache/internal/cache/db/model"
	"github.com/Borislavv/go-ash-nodecache/warning"
	"github.com/rs/zerolog"
	"strings"
	"sync"
)

type Cacher interface {
	Get(path string) (node any, ok bool)
	Put(path string, node any)
	MarkReferenced(path string) bool
	MarkUnreferenced(path string) bool
	Evict(path string) bool
	Clear()
	Len() int64
	Metrics() Metrics
}

// Ref identifies one incarnation of a cached path. An entry evicted and loaded again gets a new Ref,
// so releasing a stale Ref never touches the newer entry.
type Ref struct {
	Path string
	Seq  uint64
}

// Cache is the node metadata cache of one open store.
//
// Its mode is fixed at construction from the sign of cfg.NodeMaxSlots:
//   - bounded: loaded entries are evicted in LRU order while more than NodeMaxSlots are loaded.
//     Referenced entries are never evicted, so at most NodeMaxSlots unreferenced entries remain.
//     Referenced entries count against the capacity too: with NodeMaxSlots or more of them held,
//     only the most recently inserted unreferenced entry stays and every further miss evicts it.
//     Keep NodeMaxSlots well above the number of nodes held at once (128 or 256 at the very least).
//   - unbounded: nothing is evicted; a warning is surfaced each time the number of unreferenced
//     entries reaches -NodeMaxSlots (re-armed once it drops below again).
//   - disabled: Put keeps nothing and every Get misses.
//
// No operation fails: a miss only means the caller has to load the node itself.
// Every removal bumps a generation (Gen); PutIfGen and PutReferencedIfGen store a node only if
// nothing was removed since the caller read the generation, so a load that raced a removal is
// not cached. After Close every put is a no-op.
// Cache is safe for concurrent use.
type Cache struct {
	mu sync.Mutex

	mode      config.NodeCacheMode
	slots     int64 // bounded mode capacity
	threshold int64 // unbounded mode warning threshold
	armed     bool  // whether reaching threshold surfaces a warning
	gen       uint64
	closed    bool

	db       *db.Map
	logger   zerolog.Logger
	warn     warning.Sink
	counters *counters
}

// New builds the cache of an adjusted parameter set (see config.Params.AdjustConfig).
func New(cfg *config.Params, logger zerolog.Logger, warn warning.Sink) *Cache {
	if warn == nil {
		warn = warning.LogSink(logger)
	}

	slots := 0
	if cfg.NodeCacheMode == config.NodeCacheBounded {
		slots = cfg.NodeMaxSlots
	}

	return &Cache{
		mode:      cfg.NodeCacheMode,
		slots:     int64(slots),
		threshold: int64(cfg.NodeWarnThreshold),
		armed:     true,
		db:        db.NewMap(max(slots, cfg.NodeWarnThreshold)),
		logger:    logger.With().Str("component", "node_cache").Logger(),
		warn:      warn,
		counters:  newCounters(),
	}
}

func (c *Cache) Mode() config.NodeCacheMode { return c.mode }
func (c *Cache) Metrics() Metrics           { return c.counters.snapshot() }

// Enabled is false for the disabled mode and for a parameter set that was never adjusted.
func (c *Cache) Enabled() bool {
	return c.mode == config.NodeCacheBounded || c.mode == config.NodeCacheUnbounded
}

// Get returns the cached node of path and promotes it to most recently used.
func (c *Cache) Get(path string) (node any, ok bool) {
	if !c.Enabled() {
		c.counters.misses.Add(1)
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, found := c.getUnlocked(path)
	if !found {
		return nil, false
	}
	return entry.Node(), true
}

// GetReferenced is Get plus MarkReferenced in one step.
func (c *Cache) GetReferenced(path string) (node any, ref Ref, ok bool) {
	if !c.Enabled() {
		c.counters.misses.Add(1)
		return nil, Ref{}, false
	}

	c.mu.Lock()
	entry, found := c.getUnlocked(path)
	if !found {
		c.mu.Unlock()
		return nil, Ref{}, false
	}
	c.db.Ref(entry)
	w, hasWarn := c.checkThresholdUnlocked()
	c.mu.Unlock()

	c.emit(w, hasWarn)
	return entry.Node(), Ref{Path: path, Seq: entry.Seq()}, true
}

// Put inserts or replaces the node of path as most recently used and evicts least recently used
// unreferenced entries if the cache is over capacity. It is a no-op on a disabled cache.
func (c *Cache) Put(path string, node any) {
	if !c.Enabled() {
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	w, hasWarn := c.putUnlocked(path, node)
	c.mu.Unlock()

	c.emit(w, hasWarn)
}

// PutIfGen is Put unless an entry was removed since gen was read from Gen.
// It reports whether the node was stored.
func (c *Cache) PutIfGen(path string, node any, gen uint64) bool {
	if !c.Enabled() {
		return false
	}

	c.mu.Lock()
	if c.closed || c.gen != gen {
		c.mu.Unlock()
		return false
	}
	w, hasWarn := c.putUnlocked(path, node)
	c.mu.Unlock()

	c.emit(w, hasWarn)
	return true
}

// PutReferenced is Put plus MarkReferenced in one step, so the new entry is never a victim of its own insertion.
// On a disabled or closed cache nothing is retained and ok is false.
func (c *Cache) PutReferenced(path string, node any) (ref Ref, ok bool) {
	if !c.Enabled() {
		return Ref{}, false
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Ref{}, false
	}
	ref, w, hasWarn := c.putReferencedUnlocked(path, node)
	c.mu.Unlock()

	c.emit(w, hasWarn)
	return ref, true
}

// PutReferencedIfGen is PutReferenced unless an entry was removed since gen was read from Gen.
func (c *Cache) PutReferencedIfGen(path string, node any, gen uint64) (ref Ref, ok bool) {
	if !c.Enabled() {
		return Ref{}, false
	}

	c.mu.Lock()
	if c.closed || c.gen != gen {
		c.mu.Unlock()
		return Ref{}, false
	}
	ref, w, hasWarn := c.putReferencedUnlocked(path, node)
	c.mu.Unlock()

	c.emit(w, hasWarn)
	return ref, true
}

// Gen returns the removal generation. Every Evict, EvictTree, Clear or Close bumps it, even when
// nothing was cached, since the node may be loading.
func (c *Cache) Gen() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// MarkReferenced excludes the entry of path from eviction until a matching MarkUnreferenced.
// Calls nest. It reports whether path is cached.
func (c *Cache) MarkReferenced(path string) bool {
	if !c.Enabled() {
		return false
	}

	c.mu.Lock()
	entry, found := c.db.Get(path)
	if !found {
		c.mu.Unlock()
		return false
	}
	c.db.Ref(entry)
	w, hasWarn := c.checkThresholdUnlocked()
	c.mu.Unlock()

	c.emit(w, hasWarn)
	return true
}

// MarkUnreferenced drops one reference of path. On the last one the entry becomes the most recently
// used eviction candidate and the capacity is enforced again. It reports whether a reference was dropped.
func (c *Cache) MarkUnreferenced(path string) bool {
	if !c.Enabled() {
		return false
	}

	c.mu.Lock()
	entry, found := c.db.Get(path)
	if !found || !entry.IsReferenced() {
		c.mu.Unlock()
		return false
	}
	w, hasWarn := c.unrefUnlocked(entry)
	c.mu.Unlock()

	c.emit(w, hasWarn)
	return true
}

// Unref drops one reference of the entry ref was issued for. A ref of an evicted or replaced incarnation is ignored.
func (c *Cache) Unref(ref Ref) bool {
	if !c.Enabled() {
		return false
	}

	c.mu.Lock()
	entry, found := c.db.Get(ref.Path)
	if !found || entry.Seq() != ref.Seq || !entry.IsReferenced() {
		c.mu.Unlock()
		return false
	}
	w, hasWarn := c.unrefUnlocked(entry)
	c.mu.Unlock()

	c.emit(w, hasWarn)
	return true
}

// Evict removes path whatever its references (node deleted or renamed).
func (c *Cache) Evict(path string) bool {
	if !c.Enabled() {
		return false
	}

	c.mu.Lock()
	c.gen++
	_, removed := c.db.Remove(path)
	if removed {
		c.counters.removals.Add(1)
	}
	w, hasWarn := c.checkThresholdUnlocked()
	c.mu.Unlock()

	c.emit(w, hasWarn)
	return removed
}

// EvictTree removes path and every cached descendant of it (group deleted or renamed).
// It returns the number of removed entries.
func (c *Cache) EvictTree(path string) int64 {
	if !c.Enabled() {
		return 0
	}

	root := strings.TrimSuffix(path, "/")
	prefix := root + "/"

	c.mu.Lock()
	var victims []*model.Entry
	c.db.Walk(func(e *model.Entry) bool {
		if p := e.Path(); p == root || strings.HasPrefix(p, prefix) {
			victims = append(victims, e)
		}
		return true
	})
	for _, e := range victims {
		c.db.RemoveEntry(e)
	}
	removed := int64(len(victims))
	c.gen++
	c.counters.removals.Add(removed)
	w, hasWarn := c.checkThresholdUnlocked()
	c.mu.Unlock()

	c.emit(w, hasWarn)
	return removed
}

// Clear drops every entry (store close).
func (c *Cache) Clear() {
	c.mu.Lock()
	items := c.clearUnlocked()
	c.mu.Unlock()

	if items > 0 {
		c.logger.Debug().Int64("entries", items).Msg("node cache cleared")
	}
}

// Close drops every entry and turns every later put into a no-op (store close).
func (c *Cache) Close() {
	c.mu.Lock()
	c.closed = true
	items := c.clearUnlocked()
	c.mu.Unlock()

	c.logger.Debug().Int64("entries", items).Msg("node cache closed")
}

// Contains reports whether path is cached without promoting it.
func (c *Cache) Contains(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, found := c.db.Get(path)
	return found
}

// IsReferenced reports whether path is cached and referenced.
func (c *Cache) IsReferenced(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, found := c.db.Get(path)
	return found && entry.IsReferenced()
}

// Keys returns the eviction candidates from most to least recently used.
func (c *Cache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, c.db.Unreferenced())
	c.db.WalkLRU(func(e *model.Entry) bool {
		keys = append(keys, e.Path())
		return true
	})
	return keys
}

// ReferencedKeys returns the paths which are currently protected from eviction, in no particular order.
func (c *Cache) ReferencedKeys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, c.db.Referenced())
	c.db.Walk(func(e *model.Entry) bool {
		if e.IsReferenced() {
			keys = append(keys, e.Path())
		}
		return true
	})
	return keys
}

func (c *Cache) Len() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.db.Len()
}

func (c *Cache) Referenced() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.db.Referenced()
}

func (c *Cache) Unreferenced() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.db.Unreferenced()
}

/**
 * Private API.
 */

func (c *Cache) getUnlocked(path string) (*model.Entry, bool) {
	entry, found := c.db.Get(path)
	if !found {
		c.counters.misses.Add(1)
		return nil, false
	}
	c.counters.hits.Add(1)
	// move to front in LRU list
	c.db.Touch(entry)
	return entry, true
}

func (c *Cache) setUnlocked(path string, node any) *model.Entry {
	entry, inserted := c.db.Set(path, node)
	if inserted {
		c.counters.inserts.Add(1)
	}
	return entry
}

func (c *Cache) putUnlocked(path string, node any) (warning.Warning, bool) {
	entry := c.setUnlocked(path, node)
	c.evictUnlocked(entry)
	return c.checkThresholdUnlocked()
}

func (c *Cache) putReferencedUnlocked(path string, node any) (Ref, warning.Warning, bool) {
	entry := c.setUnlocked(path, node)
	c.db.Ref(entry)
	c.evictUnlocked(nil)
	w, hasWarn := c.checkThresholdUnlocked()
	return Ref{Path: path, Seq: entry.Seq()}, w, hasWarn
}

func (c *Cache) clearUnlocked() int64 {
	items := c.db.Clear()
	c.gen++
	c.armed = true
	return items
}

func (c *Cache) unrefUnlocked(entry *model.Entry) (warning.Warning, bool) {
	if c.db.Unref(entry) == 0 {
		c.evictUnlocked(nil)
	}
	return c.checkThresholdUnlocked()
}

// evictUnlocked enforces the bounded mode capacity; keep is spared.
func (c *Cache) evictUnlocked(keep *model.Entry) {
	if c.mode != config.NodeCacheBounded || c.db.Len() <= c.slots {
		return
	}

	evicted := c.db.EvictUntilWithinLimit(c.slots, keep, func(e *model.Entry) {
		c.logger.Debug().Str("path", e.Path()).Msg("node evicted")
	})
	if evicted > 0 {
		c.counters.evictions.Add(evicted)
	}
}

// checkThresholdUnlocked implements the one-shot overflow warning of the unbounded mode.
func (c *Cache) checkThresholdUnlocked() (warning.Warning, bool) {
	if c.mode != config.NodeCacheUnbounded {
		return warning.Warning{}, false
	}

	loaded := c.db.Unreferenced()
	switch {
	case c.armed && loaded >= c.threshold:
		c.armed = false
		c.counters.warnings.Add(1)
		return warning.New(warning.NodeCacheOverflow, loaded, c.threshold,
			"%d unreferenced nodes are loaded, consider a positive node_max_slots to bound memory usage", loaded), true
	case !c.armed && loaded < c.threshold:
		c.armed = true
	}
	return warning.Warning{}, false
}

func (c *Cache) emit(w warning.Warning, ok bool) {
	if ok {
		c.warn(w)
	}
}
