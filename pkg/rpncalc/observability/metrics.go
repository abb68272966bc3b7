package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/randalmurphal/rpncalc/pkg/rpncalc/expr"
)

// MetricsRecorder records rule evaluation metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordEvaluation records one rule evaluation with its duration and error status.
	RecordEvaluation(ctx context.Context, rule string, duration time.Duration, err error)

	// RecordParse records the postfix length of a parsed rule.
	RecordParse(ctx context.Context, rule string, tokens int)

	// RecordBatch records an evaluate-all pass.
	RecordBatch(ctx context.Context, rules, failed int, duration time.Duration)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	evaluations  metric.Int64Counter
	evalLatency  metric.Float64Histogram
	evalErrors   metric.Int64Counter
	rpnTokens    metric.Int64Histogram
	batches      metric.Int64Counter
	batchLatency metric.Float64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("rpncalc")

	evaluations, err := meter.Int64Counter("rpncalc.rule.evaluations",
		metric.WithDescription("Number of rule evaluations"),
	)
	if err != nil {
		return nil, err
	}

	evalLatency, err := meter.Float64Histogram("rpncalc.rule.latency_ms",
		metric.WithDescription("Rule evaluation latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	evalErrors, err := meter.Int64Counter("rpncalc.rule.errors",
		metric.WithDescription("Number of failed rule evaluations"),
	)
	if err != nil {
		return nil, err
	}

	rpnTokens, err := meter.Int64Histogram("rpncalc.rule.rpn_tokens",
		metric.WithDescription("Postfix token count per parsed rule"),
	)
	if err != nil {
		return nil, err
	}

	batches, err := meter.Int64Counter("rpncalc.batch.runs",
		metric.WithDescription("Number of evaluate-all passes"),
	)
	if err != nil {
		return nil, err
	}

	batchLatency, err := meter.Float64Histogram("rpncalc.batch.latency_ms",
		metric.WithDescription("Evaluate-all latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		evaluations:  evaluations,
		evalLatency:  evalLatency,
		evalErrors:   evalErrors,
		rpnTokens:    rpnTokens,
		batches:      batches,
		batchLatency: batchLatency,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordEvaluation records a rule evaluation.
func (m *otelMetrics) RecordEvaluation(ctx context.Context, rule string, duration time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.String("rule", rule))

	m.evaluations.Add(ctx, 1, attrs)
	m.evalLatency.Record(ctx, durationMs(duration), attrs)

	if err != nil {
		m.evalErrors.Add(ctx, 1, metric.WithAttributes(
			attribute.String("rule", rule),
			attribute.String("error_kind", expr.KindOf(err).String()),
		))
	}
}

// RecordParse records the postfix length of a rule.
func (m *otelMetrics) RecordParse(ctx context.Context, rule string, tokens int) {
	m.rpnTokens.Record(ctx, int64(tokens), metric.WithAttributes(attribute.String("rule", rule)))
}

// RecordBatch records an evaluate-all pass.
func (m *otelMetrics) RecordBatch(ctx context.Context, rules, failed int, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.Bool("success", failed == 0))
	m.batches.Add(ctx, 1, attrs)
	m.batchLatency.Record(ctx, durationMs(duration), attrs)
}
