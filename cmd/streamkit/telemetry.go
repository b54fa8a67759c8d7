package main

import (
	"context"
	"fmt"

	"github.com/kbukum/streamkit/logger"
	"github.com/kbukum/streamkit/observability"
	"github.com/kbukum/streamkit/version"
)

// telemetry holds the providers started for one command.
type telemetry struct {
	metrics   *observability.StreamMetrics
	shutdowns []func(context.Context) error
}

// startTelemetry installs the OTLP tracer and meter providers the config
// enables. With both off, spans go to the no-op global provider and no
// metrics are recorded.
func startTelemetry(ctx context.Context, cfg *AppConfig) (*telemetry, error) {
	t := &telemetry{}
	obs := cfg.Observability
	ver := version.Get().Short()

	if obs.Tracing {
		tc := observability.DefaultTracerConfig(cfg.Name)
		tc.ServiceVersion = ver
		tc.Environment = cfg.Environment
		tc.Endpoint = obs.Endpoint
		tc.Insecure = obs.Insecure
		tc.SampleRate = obs.SampleRate
		tp, err := observability.InitTracer(ctx, tc)
		if err != nil {
			return nil, fmt.Errorf("starting tracer: %w", err)
		}
		t.shutdowns = append(t.shutdowns, tp.Shutdown)
	}

	if obs.Metrics {
		mc := observability.DefaultMeterConfig(cfg.Name)
		mc.ServiceVersion = ver
		mc.Environment = cfg.Environment
		mc.Endpoint = obs.Endpoint
		mc.Insecure = obs.Insecure
		mc.Interval = obs.Interval
		mp, err := observability.InitMeter(ctx, &mc)
		if err != nil {
			t.shutdown(ctx)
			return nil, fmt.Errorf("starting meter: %w", err)
		}
		t.shutdowns = append(t.shutdowns, mp.Shutdown)

		metrics, err := observability.NewStreamMetrics(observability.Meter(cfg.Name))
		if err != nil {
			t.shutdown(ctx)
			return nil, fmt.Errorf("creating stream metrics: %w", err)
		}
		t.metrics = metrics
	}
	return t, nil
}

// shutdown flushes and stops the providers, last started first.
func (t *telemetry) shutdown(ctx context.Context) {
	for i := len(t.shutdowns) - 1; i >= 0; i-- {
		if err := t.shutdowns[i](ctx); err != nil {
			logger.Warn("telemetry shutdown failed", logger.ErrorFields("shutdown", err))
		}
	}
}
