package telemetry

import (
	"bytes"
	"context"
	"github.com/Borislavv/go-ash-nodecache/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"strings"
	"sync"
	"testing"
	"time"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// TestLogs_Disabled does not start the loop without telemetry config.
func TestLogs_Disabled(t *testing.T) {
	var out syncBuffer
	l := New(context.Background(), config.Default(), zerolog.New(&out), newTestSource(t, 4))

	require.Equal(t, time.Duration(0), l.Interval())
	require.NoError(t, l.Close())
	require.Empty(t, out.String())
}

// TestLogs_WritesStats writes node_cache lines every interval.
func TestLogs_WritesStats(t *testing.T) {
	cfg := config.Default()
	cfg.Telemetry = &config.TelemetryCfg{Interval: 10 * time.Millisecond}
	cfg.AdjustConfig()

	src := newTestSource(t, 4)
	src.Put("/a", 1)

	var out syncBuffer
	l := New(context.Background(), cfg, zerolog.New(&out), src)
	require.Equal(t, 10*time.Millisecond, l.Interval())

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), `"message":"node_cache"`)
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, l.Close())
	require.NoError(t, l.Close(), "close is idempotent")

	logs := out.String()
	require.Contains(t, logs, `"message":"stat logs are running"`)
	require.Contains(t, logs, `"metadata_cache_size":"1MB 0KB"`)
	require.Contains(t, logs, `"entries":1`)
	require.Contains(t, logs, `"mode":"bounded"`)
}

// TestLogs_StopsOnContext exits when the parent context is done.
func TestLogs_StopsOnContext(t *testing.T) {
	cfg := config.Default()
	cfg.Telemetry = &config.TelemetryCfg{Interval: time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	l := New(ctx, cfg, zerolog.Nop(), newTestSource(t, 4))
	cancel()

	select {
	case <-l.done:
	case <-time.After(time.Second):
		t.Fatal("stat logs loop did not stop")
	}
}
