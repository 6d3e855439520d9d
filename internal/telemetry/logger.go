package telemetry

import (
	"context"
	"github.com/Borislavv/go-ash-nodecache/config"
	"github.com/Borislavv/go-ash-nodecache/internal/shared/bytes"
	"github.com/rs/zerolog"
	"time"
)

type Logger interface {
	Interval() time.Duration
	Close() error
}

// Logs writes node cache stats every interval until closed or ctx is done.
type Logs struct {
	ctx      context.Context
	cancel   context.CancelFunc
	cfg      *config.Params
	logger   zerolog.Logger
	src      Source
	interval time.Duration
	done     chan struct{}
}

func New(ctx context.Context, cfg *config.Params, logger zerolog.Logger, src Source) *Logs {
	ctx, cancel := context.WithCancel(ctx)

	var interval time.Duration
	if cfg.Telemetry.Enabled() {
		interval = cfg.Telemetry.Interval
		if interval <= 0 {
			interval = config.DefaultTelemetryInterval
		}
	}

	return (&Logs{
		ctx:      ctx,
		cancel:   cancel,
		cfg:      cfg,
		logger:   logger.With().Str("component", "telemetry").Logger(),
		src:      src,
		interval: interval,
		done:     make(chan struct{}),
	}).run()
}

// Interval is zero when stat logs are disabled.
func (l *Logs) Interval() time.Duration {
	return l.interval
}

// Close stops the loop and waits for it to exit. It is idempotent.
func (l *Logs) Close() error {
	l.cancel()
	<-l.done
	return nil
}

func (l *Logs) run() *Logs {
	if l.interval <= 0 {
		close(l.done)
		return l
	}
	go l.loop()
	return l
}

func (l *Logs) loop() {
	defer close(l.done)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.logger.Info().
		Str("mode", string(l.src.Mode())).
		Int("node_max_slots", l.cfg.NodeMaxSlots).
		Str("metadata_cache_size", bytes.FmtMem(uint64(max(l.cfg.MetadataCacheSize, 0)))).
		Str("table_max_size", bytes.FmtMem(uint64(max(l.cfg.TableMaxSize, 0)))).
		Dur("interval", l.interval).
		Msg("stat logs are running")

	s := newSampler(l.src)
	prev := s.snapshot()

	for {
		select {
		case <-l.ctx.Done():
			return

		case <-ticker.C:
			cur := s.snapshot()
			d := deltaSnapshot(prev, cur)
			prev = cur

			l.logger.Info().
				Str("interval", l.interval.String()).
				Str("mode", string(l.src.Mode())).
				Int64("entries", d.entries).
				Int64("referenced", d.referenced).
				Int64("unreferenced", d.unreferenced).
				Uint64("hits", d.hits).
				Uint64("misses", d.misses).
				Float64("hit_ratio", d.hitRatio()).
				Uint64("inserts", d.inserts).
				Uint64("evictions", d.evictions).
				Uint64("removals", d.removals).
				Uint64("warnings", d.warnings).
				Msg("node_cache")
		}
	}
}
