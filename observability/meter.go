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

	"github.com/kbukum/recq/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns defaults for local development.
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

// InitMeter installs a periodic OTLP meter provider as the global provider.
// The caller must shut the provider down on exit.
func InitMeter(ctx context.Context, cfg MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(ctx, cfg.ServiceName, cfg.ServiceVersion, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		logger.FieldService, cfg.ServiceName,
		"endpoint", cfg.Endpoint,
		"interval", cfg.Interval.String(),
	))
	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the instruments recorded for every plan run.
type Metrics struct {
	runs       metric.Int64Counter
	duration   metric.Float64Histogram
	recordsIn  metric.Int64Counter
	recordsOut metric.Int64Counter
	errors     metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	runs, err := meter.Int64Counter("plan.runs",
		metric.WithDescription("Total number of plan executions"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating plan.runs counter: %w", err)
	}

	duration, err := meter.Float64Histogram("plan.duration",
		metric.WithDescription("Duration of plan executions in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating plan.duration histogram: %w", err)
	}

	recordsIn, err := meter.Int64Counter("plan.records.in",
		metric.WithDescription("Records fed into plan executions"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating plan.records.in counter: %w", err)
	}

	recordsOut, err := meter.Int64Counter("plan.records.out",
		metric.WithDescription("Records or groups produced by plan executions"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating plan.records.out counter: %w", err)
	}

	errorTotal, err := meter.Int64Counter("plan.errors",
		metric.WithDescription("Failed plan executions by error code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating plan.errors counter: %w", err)
	}

	return &Metrics{
		runs:       runs,
		duration:   duration,
		recordsIn:  recordsIn,
		recordsOut: recordsOut,
		errors:     errorTotal,
	}, nil
}

// RecordRun records one completed plan execution.
func (m *Metrics) RecordRun(ctx context.Context, plan, status string, in, out int, elapsed time.Duration) {
	planAttr := attribute.String("plan", plan)
	m.runs.Add(ctx, 1, metric.WithAttributes(planAttr, attribute.String("status", status)))
	m.duration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(planAttr))
	m.recordsIn.Add(ctx, int64(in), metric.WithAttributes(planAttr))
	m.recordsOut.Add(ctx, int64(out), metric.WithAttributes(planAttr))
}

// RecordError records a failed execution by error code.
func (m *Metrics) RecordError(ctx context.Context, plan, code string) {
	m.errors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("plan", plan),
		attribute.String("code", code),
	))
}
