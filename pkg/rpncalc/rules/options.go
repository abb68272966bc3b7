package rules

import (
	"log/slog"
	"maps"

	"github.com/randalmurphal/rpncalc/pkg/rpncalc/observability"
)

// engineConfig holds configuration for an Engine.
type engineConfig struct {
	logger         *slog.Logger
	metrics        observability.MetricsRecorder
	spans          observability.SpanManager
	tracingEnabled bool
	defaults       map[string]float64
}

// defaultEngineConfig returns the default engine configuration.
// Logging, metrics and tracing are all disabled.
func defaultEngineConfig() engineConfig {
	return engineConfig{
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
	}
}

// Option configures an Engine.
type Option func(*engineConfig)

// WithLogger sets the structured logger for rule loading and evaluation.
// A nil logger disables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *engineConfig) {
		c.logger = logger
	}
}

// WithMetrics enables OpenTelemetry metrics using the global meter provider.
//
// Example:
//
//	engine := rules.New(rules.WithMetrics(true))
func WithMetrics(enabled bool) Option {
	return func(c *engineConfig) {
		if enabled {
			c.metrics = observability.NewMetricsRecorder()
		} else {
			c.metrics = observability.NoopMetrics{}
		}
	}
}

// WithMetricsRecorder sets a custom metrics recorder.
func WithMetricsRecorder(m observability.MetricsRecorder) Option {
	return func(c *engineConfig) {
		if m == nil {
			return
		}
		c.metrics = m
	}
}

// WithTracing enables OpenTelemetry spans using the global tracer provider.
func WithTracing(enabled bool) Option {
	return func(c *engineConfig) {
		c.tracingEnabled = enabled
		if enabled {
			c.spans = observability.NewSpanManager()
		} else {
			c.spans = observability.NoopSpanManager{}
		}
	}
}

// WithSpanManager sets a custom span manager and enables tracing.
func WithSpanManager(s observability.SpanManager) Option {
	return func(c *engineConfig) {
		if s == nil {
			return
		}
		c.spans = s
		c.tracingEnabled = true
	}
}

// WithDefaults sets variable bindings applied under caller-supplied ones.
// Later calls merge into earlier ones.
func WithDefaults(defaults map[string]float64) Option {
	return func(c *engineConfig) {
		if len(defaults) == 0 {
			return
		}
		if c.defaults == nil {
			c.defaults = make(map[string]float64, len(defaults))
		}
		maps.Copy(c.defaults, defaults)
	}
}
