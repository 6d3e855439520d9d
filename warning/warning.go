// Package warning carries non-fatal advisories: conditions that degrade performance or memory
// usage but never abort the operation that triggered them.
package warning

import (
	"fmt"
	"github.com/rs/zerolog"
)

type Kind string

const (
	// NodeCacheOverflow - an unbounded node cache has loaded its soft threshold of nodes.
	NodeCacheOverflow Kind = "node_cache_overflow"

	// TooManyColumns - a table schema has more columns than MaxColumns.
	TooManyColumns Kind = "too_many_columns"

	// BufferRatio - a row buffer is larger than BufferTimes rows.
	BufferRatio Kind = "buffer_ratio"
)

type Warning struct {
	Kind    Kind
	Message string
	Value   int64 // observed value
	Limit   int64 // threshold that Value reached or crossed
}

func New(kind Kind, value, limit int64, format string, args ...any) Warning {
	return Warning{Kind: kind, Value: value, Limit: limit, Message: fmt.Sprintf(format, args...)}
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s (value=%d, limit=%d)", w.Kind, w.Message, w.Value, w.Limit)
}

// Sink receives warnings synchronously. It must not call back into the component that emitted the warning.
type Sink func(w Warning)

// LogSink writes every warning as a warn-level log line.
func LogSink(logger zerolog.Logger) Sink {
	return func(w Warning) {
		logger.Warn().
			Str("kind", string(w.Kind)).
			Int64("value", w.Value).
			Int64("limit", w.Limit).
			Msg(w.Message)
	}
}

// Tee fans a warning out to every non-nil sink.
func Tee(sinks ...Sink) Sink {
	return func(w Warning) {
		for _, sink := range sinks {
			if sink != nil {
				sink(w)
			}
		}
	}
}

// Discard drops warnings.
func Discard(Warning) {}
