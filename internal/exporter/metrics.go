package exporter

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/calcium-format/exporter/internal/exporter"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

type metrics struct {
	runs      metric.Int64Counter
	curves    metric.Int64Counter
	keyframes metric.Int64Counter
	errors    metric.Int64Counter
	duration  metric.Float64Histogram
}

func newMetrics() (*metrics, error) {
	m := meter()
	out := &metrics{}

	var err error
	out.runs, err = m.Int64Counter(
		"calcium.export.runs",
		metric.WithDescription("Export runs by final state"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating runs counter: %w", err)
	}

	out.curves, err = m.Int64Counter(
		"calcium.export.curves",
		metric.WithDescription("Curve records written"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating curves counter: %w", err)
	}

	out.keyframes, err = m.Int64Counter(
		"calcium.export.keyframes",
		metric.WithDescription("Keyframe records written"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating keyframes counter: %w", err)
	}

	out.errors, err = m.Int64Counter(
		"calcium.export.errors",
		metric.WithDescription("Export errors recorded, by kind"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating errors counter: %w", err)
	}

	out.duration, err = m.Float64Histogram(
		"calcium.export.duration",
		metric.WithDescription("Export run duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}

	return out, nil
}

func (m *metrics) record(ctx context.Context, r Result) {
	state := metric.WithAttributes(attribute.String("state", r.State.String()))
	m.runs.Add(ctx, 1, state)
	m.duration.Record(ctx, r.Stats.Duration.Seconds(), state)
	m.curves.Add(ctx, int64(r.Stats.Curves))
	m.keyframes.Add(ctx, int64(r.Stats.Keyframes))

	counts := make(map[string]int64)
	for _, e := range r.Errors {
		counts[string(e.Kind)]++
	}
	for kind, n := range counts {
		m.errors.Add(ctx, n, metric.WithAttributes(attribute.String("kind", kind)))
	}
}
