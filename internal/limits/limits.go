// Package limits enforces the tree, attribute and undo limits of a store and derives the sizes
// of chunked and buffered I/O from its parameters.
//
// Hard limits reject the checked operation with an error and never change any state, so a rejected
// operation leaves the store consistent. Performance limits only surface a warning.
package limits

import (
	"github.com/Borislavv/go-ash-nodecache/config"
	"github.com/Borislavv/go-ash-nodecache/warning"
	"strings"
)

type Kind int

const (
	KindTable Kind = iota
	KindEArray
)

type Checker struct {
	cfg  *config.Params
	warn warning.Sink
}

func New(cfg *config.Params, warn warning.Sink) *Checker {
	if warn == nil {
		warn = warning.Discard
	}
	return &Checker{cfg: cfg, warn: warn}
}

// Depth is the number of non-empty components of a slash separated path; the root "/" has depth 0.
func Depth(path string) int {
	var depth int
	for _, part := range strings.Split(path, "/") {
		if part != "" {
			depth++
		}
	}
	return depth
}

// CheckDepth rejects paths nested deeper than MaxTreeDepth.
func (c *Checker) CheckDepth(path string) error {
	if depth := Depth(path); depth > c.cfg.MaxTreeDepth {
		return violation(ErrTreeTooDeep, path, int64(depth), int64(c.cfg.MaxTreeDepth))
	}
	return nil
}

// CheckGroupWidth rejects adding a child to a group which already holds current children.
func (c *Checker) CheckGroupWidth(group string, current int) error {
	if current >= c.cfg.MaxGroupWidth {
		return violation(ErrGroupTooWide, group, int64(current+1), int64(c.cfg.MaxGroupWidth))
	}
	return nil
}

// CheckAttrs rejects adding an attribute to a node which already holds current attributes.
func (c *Checker) CheckAttrs(node string, current int) error {
	if current >= c.cfg.MaxNodeAttrs {
		return violation(ErrTooManyAttrs, node, int64(current+1), int64(c.cfg.MaxNodeAttrs))
	}
	return nil
}

// CheckUndoPath rejects recording paths longer than MaxUndoPathLength in the undo/redo log.
func (c *Checker) CheckUndoPath(path string) error {
	if len(path) > c.cfg.MaxUndoPathLength {
		return violation(ErrUndoPathTooLong, "", int64(len(path)), int64(c.cfg.MaxUndoPathLength))
	}
	return nil
}

// CheckColumns warns when a table declares more than MaxColumns columns.
// It reports whether a warning was issued.
func (c *Checker) CheckColumns(table string, columns int) bool {
	if columns <= c.cfg.MaxColumns {
		return false
	}
	c.warn(warning.New(warning.TooManyColumns, int64(columns), int64(c.cfg.MaxColumns),
		"table %s has %d columns, more than %d hurts performance and memory usage", table, columns, c.cfg.MaxColumns))
	return true
}

// CheckBufferRatio warns when a buffer holds more than BufferTimes rows.
// It reports whether a warning was issued.
func (c *Checker) CheckBufferRatio(bufferSize, rowSize int64) bool {
	if rowSize <= 0 {
		return false
	}
	ratio := bufferSize / rowSize
	if ratio <= int64(c.cfg.BufferTimes) {
		return false
	}
	c.warn(warning.New(warning.BufferRatio, ratio, int64(c.cfg.BufferTimes),
		"buffer of %d bytes holds %d rows of %d bytes, consider a smaller buffer", bufferSize, ratio, rowSize))
	return true
}

// ChunkBufferSize is the I/O buffer size for a chunked dataset with the given chunk size.
func (c *Checker) ChunkBufferSize(chunkSize int64) int64 {
	return chunkSize * int64(c.cfg.ChunkTimes)
}

// RowsPerRead is how many rows of rowSize bytes fit in one table read, at least one.
func (c *Checker) RowsPerRead(rowSize int64) int64 {
	if rowSize <= 0 {
		return 1
	}
	return max(c.cfg.TableMaxSize/rowSize, 1)
}

// ExpectedRows is the default row-count hint of a leaf kind; an explicit positive hint wins.
func (c *Checker) ExpectedRows(kind Kind, hint int64) int64 {
	if hint > 0 {
		return hint
	}
	if kind == KindEArray {
		return c.cfg.ExpectedRowsEArray
	}
	return c.cfg.ExpectedRowsTable
}

// MetadataCacheSize is the size hint handed to the storage engine's own metadata cache.
func (c *Checker) MetadataCacheSize() int64 {
	return c.cfg.MetadataCacheSize
}
