package main

import (
	"bytes"
	"context"
	"github.com/Borislavv/go-ash-nodecache/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
)

// TestParseTrace_SkipsCommentsAndBlanks keeps line numbers of the source.
func TestParseTrace_SkipsCommentsAndBlanks(t *testing.T) {
	ops, err := parseTrace(strings.NewReader("# header\n\nput /a\n  GET /a  \nclear\n"))
	require.NoError(t, err)

	require.Equal(t, []op{
		{line: 3, kind: opPut, path: "/a"},
		{line: 4, kind: opGet, path: "/a"},
		{line: 5, kind: opClear},
	}, ops)
}

// TestParseTrace_Rejects reports malformed lines.
func TestParseTrace_Rejects(t *testing.T) {
	for _, trace := range []string{"jump /a", "put", "put /a /b", "clear /a"} {
		_, err := parseTrace(strings.NewReader(trace))
		require.ErrorIs(t, err, ErrBadTrace, trace)
	}
}

// TestSimulate_ReferencedSurvives replays a bounded trace with a referenced node.
func TestSimulate_ReferencedSurvives(t *testing.T) {
	cfg := config.Default()
	cfg.NodeMaxSlots = 2
	cfg.AdjustConfig()

	ops, err := parseTrace(strings.NewReader("put /A\nref /A\nput /B\nput /C\nget /B\n"))
	require.NoError(t, err)

	var out bytes.Buffer
	sum, err := simulate(context.Background(), cfg, zerolog.Nop(), ops, &out)
	require.NoError(t, err)

	require.Equal(t, config.NodeCacheBounded, sum.Mode)
	require.Equal(t, int64(2), sum.Entries)
	require.Equal(t, []string{"/A"}, sum.Referenced)
	require.Equal(t, []string{"/C"}, sum.Candidates)
	require.Equal(t, int64(1), sum.Metrics.Evictions)
	require.Contains(t, out.String(), "5\tget /B\tmiss")
}

// TestSimulate_UnboundedWarns collects the overflow warning.
func TestSimulate_UnboundedWarns(t *testing.T) {
	cfg := config.Default()
	cfg.NodeMaxSlots = -2
	cfg.AdjustConfig()

	ops, err := parseTrace(strings.NewReader("put /a\nput /b\nput /c\n"))
	require.NoError(t, err)

	sum, err := simulate(context.Background(), cfg, zerolog.Nop(), ops, &bytes.Buffer{})
	require.NoError(t, err)

	require.Equal(t, int64(3), sum.Entries)
	require.Len(t, sum.Warnings, 1)
}

// TestSimulate_Canceled stops on a canceled context.
func TestSimulate_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := simulate(ctx, config.Default(), zerolog.Nop(), []op{{line: 1, kind: opPut, path: "/a"}}, &bytes.Buffer{})
	require.ErrorIs(t, err, context.Canceled)
}
