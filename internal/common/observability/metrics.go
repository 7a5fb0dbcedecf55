package observability

import (
	"context"
	"time"

	"actionbridge/internal/common/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/otlptranslator"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

type Observability struct {
	meterProvider  *metric.MeterProvider
	meter          otelmetric.Meter
	execCounter    otelmetric.Int64Counter
	execDuration   otelmetric.Float64Histogram
	bytesRequested otelmetric.Int64Counter
}

// New builds an OpenTelemetry meter exported through reg. A nil reg uses the
// default prometheus registerer. Metric names are underscore escaped with
// unit and _total suffixes.
func New(serviceName string, reg prometheus.Registerer, log logger.Logger) *Observability {
	opts := []otelprom.Option{
		otelprom.WithTranslationStrategy(otlptranslator.UnderscoreEscapingWithSuffixes),
	}
	if reg != nil {
		opts = append(opts, otelprom.WithRegisterer(reg))
	}
	exporter, err := otelprom.New(opts...)
	if err != nil {
		if log != nil {
			log.Warn("failed to create prometheus exporter", map[string]interface{}{"error": err.Error()})
		}
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	meter := provider.Meter(serviceName)

	execCounter, _ := meter.Int64Counter(
		"executions.processed",
		otelmetric.WithDescription("Number of executions processed"),
	)

	execDuration, _ := meter.Float64Histogram(
		"executions.duration",
		otelmetric.WithDescription("Execution lifecycle duration"),
		otelmetric.WithUnit("ms"),
	)

	bytesRequested, _ := meter.Int64Counter(
		"executions.response_bytes",
		otelmetric.WithDescription("Vendor response bytes received"),
		otelmetric.WithUnit("By"),
	)

	return &Observability{
		meterProvider:  provider,
		meter:          meter,
		execCounter:    execCounter,
		execDuration:   execDuration,
		bytesRequested: bytesRequested,
	}
}

func (o *Observability) RecordExecution(ctx context.Context, operation, status string) {
	if o == nil || o.execCounter == nil {
		return
	}
	o.execCounter.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("status", status),
	))
}

func (o *Observability) RecordDuration(ctx context.Context, operation string, duration time.Duration, status string) {
	if o == nil || o.execDuration == nil {
		return
	}
	o.execDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("status", status),
	))
}

func (o *Observability) RecordResponseBytes(ctx context.Context, operation string, n int) {
	if o == nil || o.bytesRequested == nil {
		return
	}
	o.bytesRequested.Add(ctx, int64(n), otelmetric.WithAttributes(
		attribute.String("operation", operation),
	))
}

func (o *Observability) Shutdown() {
	if o == nil || o.meterProvider == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = o.meterProvider.Shutdown(ctx)
}
