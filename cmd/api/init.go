package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"znormal-explorer/internal/config"
	"znormal-explorer/internal/explorer"
	"znormal-explorer/internal/observability"
)

// initMetrics initialises the meter provider and the explorer's metric
// instruments.
func initMetrics(ctx context.Context, cfg config.Config) (func(context.Context) error, error) {
	shutdown, err := observability.InitMetrics(ctx, cfg.ServiceName, cfg.TelemetryEnabled, prometheus.DefaultRegisterer)
	if err != nil {
		return nil, err
	}

	if err := explorer.InitMetrics(); err != nil {
		return nil, err
	}

	return shutdown, nil
}
