package telemetry

import (
	"context"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Metrics exports node cache counters as OpenTelemetry observable instruments.
// Values are read from the Source at collection time, the cache hot path records nothing.
type Metrics struct {
	registration metric.Registration
}

// NewMetrics registers the instruments on meter. A nil meter yields no-op instruments.
func NewMetrics(meter metric.Meter, src Source) (*Metrics, error) {
	if meter == nil {
		meter = noop.NewMeterProvider().Meter("nodecache")
	}

	hits, err := meter.Int64ObservableCounter(
		"nodecache.hits",
		metric.WithDescription("Node lookups served from the cache"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	misses, err := meter.Int64ObservableCounter(
		"nodecache.misses",
		metric.WithDescription("Node lookups not found in the cache"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	evictions, err := meter.Int64ObservableCounter(
		"nodecache.evictions",
		metric.WithDescription("Nodes unloaded by LRU pressure"),
		metric.WithUnit("{node}"),
	)
	if err != nil {
		return nil, err
	}

	warnings, err := meter.Int64ObservableCounter(
		"nodecache.warnings",
		metric.WithDescription("Node cache overflow warnings"),
		metric.WithUnit("{warning}"),
	)
	if err != nil {
		return nil, err
	}

	entries, err := meter.Int64ObservableGauge(
		"nodecache.entries",
		metric.WithDescription("Loaded nodes by reference state"),
		metric.WithUnit("{node}"),
	)
	if err != nil {
		return nil, err
	}

	referenced := metric.WithAttributes(attribute.String("state", "referenced"))
	unreferenced := metric.WithAttributes(attribute.String("state", "unreferenced"))

	registration, err := meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		mode := metric.WithAttributes(attribute.String("mode", string(src.Mode())))
		m := src.Metrics()
		o.ObserveInt64(hits, m.Hits, mode)
		o.ObserveInt64(misses, m.Misses, mode)
		o.ObserveInt64(evictions, m.Evictions, mode)
		o.ObserveInt64(warnings, m.Warnings, mode)
		o.ObserveInt64(entries, src.Referenced(), referenced)
		o.ObserveInt64(entries, src.Unreferenced(), unreferenced)
		return nil
	}, hits, misses, evictions, warnings, entries)
	if err != nil {
		return nil, err
	}

	return &Metrics{registration: registration}, nil
}

// Close unregisters the instruments callback.
func (m *Metrics) Close() error {
	return m.registration.Unregister()
}
