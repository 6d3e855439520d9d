package nodecache

import (
	"github.com/Borislavv/go-ash-nodecache/warning"
	"go.opentelemetry.io/otel/metric"
)

type Option func(*options)

type options struct {
	warn  warning.Sink
	meter metric.Meter
}

// WithWarningSink receives advisory warnings instead of the default warn-level log lines.
func WithWarningSink(sink warning.Sink) Option {
	return func(o *options) { o.warn = sink }
}

// WithMeter exports node cache metrics through meter.
func WithMeter(meter metric.Meter) Option {
	return func(o *options) { o.meter = meter }
}
