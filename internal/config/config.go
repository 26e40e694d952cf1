// Package config loads runtime settings from the process environment,
// optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"

	"znormal-explorer/internal/chart"
)

const defaultServiceName = "znormal-explorer"

type Config struct {
	HTTPAddr         string
	ShutdownTimeout  time.Duration
	LogLevel         zapcore.Level
	ServiceName      string
	TelemetryEnabled bool
	ChartSamples     int
}

// LoadDotEnv loads environment variables from path (".env" when empty) if
// the file exists. Existing process environment variables are not
// overridden.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}

	err := godotenv.Load(path)
	if err == nil {
		return nil
	}

	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("load %s: %w", path, err)
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	cfg := Config{
		HTTPAddr:     getenv("HTTP_ADDR", ":8080"),
		ServiceName:  getenv("OTEL_SERVICE_NAME", defaultServiceName),
		ChartSamples: chart.DefaultSamples,
	}

	var err error

	cfg.ShutdownTimeout, err = time.ParseDuration(getenv("SHUTDOWN_TIMEOUT", "5s"))
	if err != nil {
		return Config{}, fmt.Errorf("SHUTDOWN_TIMEOUT: %w", err)
	}

	cfg.LogLevel, err = zapcore.ParseLevel(getenv("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	if v := os.Getenv("TELEMETRY_ENABLED"); v != "" {
		cfg.TelemetryEnabled, err = strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("TELEMETRY_ENABLED: %w", err)
		}
	}

	if v := os.Getenv("CHART_SAMPLES"); v != "" {
		cfg.ChartSamples, err = strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("CHART_SAMPLES: %w", err)
		}
		if cfg.ChartSamples < chart.MinSamples {
			return Config{}, fmt.Errorf("CHART_SAMPLES: %d is below the minimum of %d", cfg.ChartSamples, chart.MinSamples)
		}
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
