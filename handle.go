package nodecache

import (
	"github.com/Borislavv/go-ash-nodecache/internal/cache"
	"sync/atomic"
)

// Handle is a user reference to a loaded node. While at least one handle of a node is alive
// the node is never evicted from the cache. Release must be called once the node is no longer used.
type Handle struct {
	nodes    *Nodes
	path     string
	node     any
	ref      cache.Ref
	tracked  bool // false when the cache is disabled and nothing holds the reference
	released atomic.Bool
}

func (h *Handle) Path() string { return h.path }
func (h *Handle) Node() any    { return h.node }

// Release drops the reference. Subsequent calls are no-ops.
func (h *Handle) Release() {
	if !h.released.CompareAndSwap(false, true) || !h.tracked {
		return
	}
	h.nodes.cache.Unref(h.ref)
}
