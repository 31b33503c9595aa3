package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "carcassonne/experiments/metrics"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Instruments are the OpenTelemetry counters shared by every search. They
// are safe for concurrent use; the per-search state lives in the collectors
// handed out by NewCollector.
type Instruments struct {
	searches    metric.Int64Counter
	evaluations metric.Int64Counter
	duration    metric.Float64Histogram
}

// otelCollector forwards every completed search to the shared instruments
// while keeping the in-process counts of the wrapped collector.
type otelCollector struct {
	Collector
	instruments *Instruments
}

// NewOTelInstruments uses the global OTel meter, which is a no-op unless a
// provider has been installed.
func NewOTelInstruments() (*Instruments, error) {
	m := meter()
	i := &Instruments{}

	var err error
	i.searches, err = m.Int64Counter(
		"search.moves",
		metric.WithDescription("Total moves chosen by the search opponent"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating search counter: %w", err)
	}

	i.evaluations, err = m.Int64Counter(
		"search.evaluations",
		metric.WithDescription("Total candidate moves evaluated"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating evaluation counter: %w", err)
	}

	i.duration, err = m.Float64Histogram(
		"search.duration",
		metric.WithDescription("Time spent choosing a move"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}

	return i, nil
}

// NewCollector returns a collector of its own for one searcher.
func (i *Instruments) NewCollector() Collector {
	return &otelCollector{Collector: NewCollector(), instruments: i}
}

func (c *otelCollector) Complete(best float64) SearchMetric {
	sm := c.Collector.Complete(best)
	attrs := metric.WithAttributes(attribute.Bool("sampled", sm.Sampled))
	ctx := context.Background()
	c.instruments.searches.Add(ctx, 1, attrs)
	c.instruments.evaluations.Add(ctx, int64(sm.Evaluations), attrs)
	c.instruments.duration.Record(ctx, float64(sm.Duration.Microseconds())/1000, attrs)
	return sm
}
