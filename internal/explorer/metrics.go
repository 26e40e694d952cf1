package explorer

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Metric instruments — initialized once via InitMetrics().
var (
	queryCounter   metric.Int64Counter
	queryHistogram metric.Float64Histogram
	errorCounter   metric.Int64Counter
	lastValueGauge metric.Float64Gauge
	renderCounter  metric.Int64Counter
)

// InitMetrics registers the explorer's OTel instruments.
// Call this once at startup (after observability.InitMetrics).
func InitMetrics() error {
	meter := otel.Meter("explorer")

	var err error

	queryCounter, err = meter.Int64Counter("probability.queries.total",
		metric.WithDescription("Total number of probability queries answered"),
		metric.WithUnit("{query}"),
	)
	if err != nil {
		return fmt.Errorf("creating query counter: %w", err)
	}

	queryHistogram, err = meter.Float64Histogram("probability.compute.duration",
		metric.WithDescription("Duration of probability computations in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1),
	)
	if err != nil {
		return fmt.Errorf("creating query histogram: %w", err)
	}

	errorCounter, err = meter.Int64Counter("probability.errors.total",
		metric.WithDescription("Total number of rejected or failed requests"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating error counter: %w", err)
	}

	lastValueGauge, err = meter.Float64Gauge("probability.last_value",
		metric.WithDescription("The probability returned by the last query"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("creating last value gauge: %w", err)
	}

	renderCounter, err = meter.Int64Counter("chart.renders.total",
		metric.WithDescription("Total number of charts rendered"),
		metric.WithUnit("{chart}"),
	)
	if err != nil {
		return fmt.Errorf("creating render counter: %w", err)
	}

	return nil
}
