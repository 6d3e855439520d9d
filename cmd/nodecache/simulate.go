package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"github.com/Borislavv/go-ash-nodecache/config"
	"github.com/Borislavv/go-ash-nodecache/internal/cache"
	"github.com/Borislavv/go-ash-nodecache/warning"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
	"io"
	"sort"
	"strings"
)

var ErrBadTrace = errors.New("bad trace line")

type opKind string

const (
	opGet       opKind = "get"
	opPut       opKind = "put"
	opRef       opKind = "ref"
	opUnref     opKind = "unref"
	opEvict     opKind = "evict"
	opEvictTree opKind = "evict-tree"
	opClear     opKind = "clear"
)

type op struct {
	line int
	kind opKind
	path string
}

// parseTrace reads one operation per line: "<op> <path>", or a bare "clear".
// Blank lines and lines starting with '#' are skipped.
func parseTrace(r io.Reader) ([]op, error) {
	var ops []op

	scanner := bufio.NewScanner(r)
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		kind := opKind(strings.ToLower(fields[0]))
		switch kind {
		case opClear:
			if len(fields) != 1 {
				return nil, fmt.Errorf("%w %d: %q takes no path", ErrBadTrace, n, kind)
			}
		case opGet, opPut, opRef, opUnref, opEvict, opEvictTree:
			if len(fields) != 2 {
				return nil, fmt.Errorf("%w %d: %q takes exactly one path", ErrBadTrace, n, kind)
			}
		default:
			return nil, fmt.Errorf("%w %d: unknown operation %q", ErrBadTrace, n, fields[0])
		}

		o := op{line: n, kind: kind}
		if len(fields) == 2 {
			o.path = fields[1]
		}
		ops = append(ops, o)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read trace: %w", err)
	}

	return ops, nil
}

// summary is the final state of a replayed trace.
type summary struct {
	Mode       config.NodeCacheMode `yaml:"mode"`
	Entries    int64                `yaml:"entries"`
	Referenced []string             `yaml:"referenced"`
	Candidates []string             `yaml:"candidates"` // most recently used first
	Warnings   []string             `yaml:"warnings,omitempty"`
	Metrics    cache.Metrics        `yaml:"metrics"`
}

// simulate replays ops against a cache built from cfg, writing one result line per operation to out.
func simulate(ctx context.Context, cfg *config.Params, logger zerolog.Logger, ops []op, out io.Writer) (summary, error) {
	var warnings []string
	sink := warning.Tee(warning.LogSink(logger), func(w warning.Warning) {
		warnings = append(warnings, w.String())
	})
	c := cache.New(cfg, logger, sink)

	for _, o := range ops {
		if err := ctx.Err(); err != nil {
			return summary{}, err
		}

		var result string
		switch o.kind {
		case opGet:
			_, ok := c.Get(o.path)
			result = hitOrMiss(ok)
		case opPut:
			c.Put(o.path, o.path)
			result = "stored"
		case opRef:
			result = okOr(c.MarkReferenced(o.path), "referenced", "not cached")
		case opUnref:
			result = okOr(c.MarkUnreferenced(o.path), "released", "not referenced")
		case opEvict:
			result = okOr(c.Evict(o.path), "evicted", "not cached")
		case opEvictTree:
			result = fmt.Sprintf("evicted %d", c.EvictTree(o.path))
		case opClear:
			c.Clear()
			result = "cleared"
		}

		if _, err := fmt.Fprintf(out, "%d\t%s %s\t%s\n", o.line, o.kind, o.path, result); err != nil {
			return summary{}, err
		}
	}

	referenced := c.ReferencedKeys()
	sort.Strings(referenced)

	return summary{
		Mode:       c.Mode(),
		Entries:    c.Len(),
		Referenced: referenced,
		Candidates: c.Keys(),
		Warnings:   warnings,
		Metrics:    c.Metrics(),
	}, nil
}

func (s summary) marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

func hitOrMiss(ok bool) string {
	return okOr(ok, "hit", "miss")
}

func okOr(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}
