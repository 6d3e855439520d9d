// Package nodecache keeps the metadata of the nodes of an open hierarchical store in memory.
//
// Nodes are loaded through a caller supplied Loader and cached by path. The number of cached
// unreferenced nodes is bounded by config.Params.NodeMaxSlots; nodes held through a Handle are
// never evicted. Tree limits of the same parameter set are enforced on every path passed in.
package nodecache

import (
	"context"
	"errors"
	"fmt"
	"github.com/Borislavv/go-ash-nodecache/config"
	"github.com/Borislavv/go-ash-nodecache/internal/cache"
	"github.com/Borislavv/go-ash-nodecache/internal/limits"
	"github.com/Borislavv/go-ash-nodecache/internal/telemetry"
	"github.com/Borislavv/go-ash-nodecache/warning"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
	"strconv"
	"sync/atomic"
)

var ErrClosed = errors.New("node store is closed")

// Loader reads the metadata of the node at path from the underlying store.
type Loader func(path string) (node any, err error)

type Nodes struct {
	cfg     *config.Params
	logger  zerolog.Logger
	cache   *cache.Cache
	limits  *limits.Checker
	logs    *telemetry.Logs
	metrics *telemetry.Metrics
	flight  singleflight.Group
	closed  atomic.Bool
	cls     context.CancelFunc
}

// New opens the node cache of a store. A nil cfg means config.Default().
func New(ctx context.Context, cfg *config.Params, logger zerolog.Logger, opts ...Option) (*Nodes, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	cfg.AdjustConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.warn == nil {
		o.warn = warning.LogSink(logger)
	}

	ctx, cancel := context.WithCancel(ctx)
	nodes := &Nodes{
		cfg:    cfg,
		logger: logger,
		cache:  cache.New(cfg, logger, o.warn),
		limits: limits.New(cfg, o.warn),
		cls:    cancel,
	}

	metrics, err := telemetry.NewMetrics(o.meter, nodes.cache)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("register node cache metrics: %w", err)
	}
	nodes.metrics = metrics
	nodes.logs = telemetry.New(ctx, cfg, logger, nodes.cache)

	logger.Debug().
		Str("mode", string(nodes.cache.Mode())).
		Int("node_max_slots", cfg.NodeMaxSlots).
		Msg("node cache opened")

	return nodes, nil
}

// Load returns the node at path, from the cache or through loader on a miss.
// Concurrent misses of one path call loader once. A node whose load raced a Remove, Rename
// or Close is returned but not cached.
func (n *Nodes) Load(path string, loader Loader) (any, error) {
	if err := n.check(path); err != nil {
		return nil, err
	}

	gen := n.cache.Gen()
	if node, ok := n.cache.Get(path); ok {
		return node, nil
	}

	node, err := n.load(path, gen, loader)
	if err != nil {
		return nil, err
	}
	n.cache.PutIfGen(path, node, gen)

	return node, nil
}

// Acquire is Load plus a reference which keeps the node cached until the handle is released.
func (n *Nodes) Acquire(path string, loader Loader) (*Handle, error) {
	if err := n.check(path); err != nil {
		return nil, err
	}

	gen := n.cache.Gen()
	if node, ref, ok := n.cache.GetReferenced(path); ok {
		return &Handle{nodes: n, path: path, node: node, ref: ref, tracked: true}, nil
	}

	node, err := n.load(path, gen, loader)
	if err != nil {
		return nil, err
	}
	ref, tracked := n.cache.PutReferencedIfGen(path, node, gen)

	return &Handle{nodes: n, path: path, node: node, ref: ref, tracked: tracked}, nil
}

// Peek returns the cached node at path without loading it.
func (n *Nodes) Peek(path string) (any, bool) {
	return n.cache.Get(path)
}

// Remove drops path and its cached descendants after the node was deleted from the store.
func (n *Nodes) Remove(path string) int64 {
	return n.cache.EvictTree(path)
}

// Rename drops both subtrees after a node moved from one path to another.
// The destination is checked against the tree limits first; on rejection nothing is dropped.
func (n *Nodes) Rename(from, to string) error {
	if err := n.check(to); err != nil {
		return err
	}
	n.cache.EvictTree(from)
	n.cache.EvictTree(to)
	return nil
}

// Limits enforces the hard and advisory limits of the store parameters.
func (n *Nodes) Limits() *limits.Checker { return n.limits }

func (n *Nodes) Params() *config.Params     { return n.cfg }
func (n *Nodes) Mode() config.NodeCacheMode { return n.cache.Mode() }
func (n *Nodes) Len() int64                 { return n.cache.Len() }
func (n *Nodes) Metrics() cache.Metrics     { return n.cache.Metrics() }

// Close empties the cache for good and stops telemetry. It is idempotent.
// Loads still running when Close is called return their node without caching it.
func (n *Nodes) Close() error {
	if !n.closed.CompareAndSwap(false, true) {
		return nil
	}

	err := errors.Join(n.logs.Close(), n.metrics.Close())
	n.cache.Close()
	n.cls()

	n.logger.Debug().Msg("node cache closed")
	return err
}

func (n *Nodes) check(path string) error {
	if n.closed.Load() {
		return ErrClosed
	}
	return n.limits.CheckDepth(path)
}

// load shares one loader call between the misses of path within one removal generation,
// so a caller never joins a load that started before a removal it has observed.
func (n *Nodes) load(path string, gen uint64, loader Loader) (any, error) {
	node, err, _ := n.flight.Do(strconv.FormatUint(gen, 10)+":"+path, func() (any, error) {
		return loader(path)
	})
	if err != nil {
		return nil, fmt.Errorf("load node %s: %w", path, err)
	}
	return node, nil
}
