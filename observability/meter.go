package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/streamkit/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns defaults for a local collector.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "dev",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider and installs it
// globally. The caller shuts the provider down on exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		logger.FieldService, config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metric names.
const (
	MetricPushTotal      = "stream.push.total"
	MetricRefusalTotal   = "stream.refusal.total"
	MetricRunTotal       = "stream.run.total"
	MetricRunDuration    = "stream.run.duration"
	MetricGeneratedTotal = "stream.generated.total"
)

// Run statuses recorded on stream.run.total.
const (
	RunStatusOK         = "ok"
	RunStatusBuildError = "build_error"
	RunStatusCanceled   = "canceled"
	RunStatusError      = "error"
)

// StreamMetrics holds the instruments for pipeline runs.
type StreamMetrics struct {
	pushTotal      metric.Int64Counter
	refusalTotal   metric.Int64Counter
	runTotal       metric.Int64Counter
	runDuration    metric.Float64Histogram
	generatedTotal metric.Int64Counter
}

// NewStreamMetrics creates the pipeline instruments on meter.
func NewStreamMetrics(meter metric.Meter) (*StreamMetrics, error) {
	pushTotal, err := meter.Int64Counter(MetricPushTotal,
		metric.WithDescription("Values pushed into a stage"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricPushTotal, err)
	}

	refusalTotal, err := meter.Int64Counter(MetricRefusalTotal,
		metric.WithDescription("Pushes a stage answered with stop"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricRefusalTotal, err)
	}

	runTotal, err := meter.Int64Counter(MetricRunTotal,
		metric.WithDescription("Pipeline runs by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricRunTotal, err)
	}

	runDuration, err := meter.Float64Histogram(MetricRunDuration,
		metric.WithDescription("Duration of pipeline runs in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricRunDuration, err)
	}

	generatedTotal, err := meter.Int64Counter(MetricGeneratedTotal,
		metric.WithDescription("Values generated by pipeline sources"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricGeneratedTotal, err)
	}

	return &StreamMetrics{
		pushTotal:      pushTotal,
		refusalTotal:   refusalTotal,
		runTotal:       runTotal,
		runDuration:    runDuration,
		generatedTotal: generatedTotal,
	}, nil
}

// RecordPush counts one push into stage, and a refusal when it was not
// accepted.
func (m *StreamMetrics) RecordPush(ctx context.Context, stage string, accepted bool) {
	attrs := metric.WithAttributes(attribute.String("stage", stage))
	m.pushTotal.Add(ctx, 1, attrs)
	if !accepted {
		m.refusalTotal.Add(ctx, 1, attrs)
	}
}

// RecordRun records a finished run.
func (m *StreamMetrics) RecordRun(ctx context.Context, status string, generated int, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.String("status", status))
	m.runTotal.Add(ctx, 1, attrs)
	m.runDuration.Record(ctx, duration.Seconds(), attrs)
	if generated > 0 {
		m.generatedTotal.Add(ctx, int64(generated))
	}
}
