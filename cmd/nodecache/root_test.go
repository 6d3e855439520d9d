package main

import (
	"bytes"
	"github.com/Borislavv/go-ash-nodecache/config"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer

	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	err := cmd.Execute()
	return out.String(), err
}

// TestParamsCmd_Defaults prints the stock parameters.
func TestParamsCmd_Defaults(t *testing.T) {
	out, err := execute(t, "", "params")
	require.NoError(t, err)

	require.Contains(t, out, "node_max_slots: 256")
	require.Contains(t, out, "# node cache mode: bounded")
	require.Contains(t, out, "# metadata cache: 1MB")
}

// TestParamsCmd_ConfigFile prints the parameters of --config.
func TestParamsCmd_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.toml")
	require.NoError(t, os.WriteFile(path, []byte("node_max_slots = 0\n"), 0o600))

	out, err := execute(t, "", "params", "--config", path)
	require.NoError(t, err)
	require.Contains(t, out, "node_max_slots: 0")
	require.Contains(t, out, "# node cache mode: disabled")
}

// TestValidateCmd accepts valid files and rejects broken ones.
func TestValidateCmd(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(good, []byte("node_max_slots: -10\n"), 0o600))
	require.NoError(t, os.WriteFile(bad, []byte("max_tree_depth: 0\n"), 0o600))

	out, err := execute(t, "", "validate", good)
	require.NoError(t, err)
	require.Contains(t, out, "ok (node cache unbounded)")

	_, err = execute(t, "", "validate", bad)
	require.ErrorIs(t, err, config.ErrInvalidParam)

	_, err = execute(t, "", "validate")
	require.Error(t, err)
}

// TestSimulateCmd_Stdin replays a trace from stdin with overridden slots.
func TestSimulateCmd_Stdin(t *testing.T) {
	out, err := execute(t, "put /a\nref /a\nput /b\nunref /a\n", "simulate", "--slots", "1")
	require.NoError(t, err)

	require.Contains(t, out, "2\tref /a\treferenced")
	require.Contains(t, out, "4\tunref /a\treleased")
	require.Contains(t, out, "entries: 1")
	require.Contains(t, out, "- /a")
}

// TestSimulateCmd_File replays a trace file.
func TestSimulateCmd_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.txt")
	require.NoError(t, os.WriteFile(path, []byte("put /g\nput /g/t\nevict-tree /g\n"), 0o600))

	out, err := execute(t, "", "simulate", path)
	require.NoError(t, err)
	require.Contains(t, out, "evicted 2")
	require.Contains(t, out, "entries: 0")
}

// TestSimulateCmd_BadTrace fails on malformed input.
func TestSimulateCmd_BadTrace(t *testing.T) {
	_, err := execute(t, "fly /a\n", "simulate")
	require.ErrorIs(t, err, ErrBadTrace)
}
