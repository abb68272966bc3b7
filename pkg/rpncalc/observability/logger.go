// Package observability provides logging, metrics, and tracing for rule
// evaluation.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"

	"github.com/randalmurphal/rpncalc/pkg/rpncalc/expr"
)

// EnrichLogger adds batch context to a logger.
// Returns a new logger with the eval_id field.
//
// Example:
//
//	enriched := EnrichLogger(logger, "3f1c...")
//	LogEvaluation(enriched, "gray_release", 1, 0.02) // includes eval_id
func EnrichLogger(logger *slog.Logger, evalID string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(slog.String("eval_id", evalID))
}

// LogEvaluation logs a successful rule evaluation.
func LogEvaluation(logger *slog.Logger, rule string, result, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("rule evaluated",
		slog.String("rule", rule),
		slog.Float64("result", result),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogEvaluationError logs a failed rule evaluation with its error kind.
func LogEvaluationError(logger *slog.Logger, rule string, err error, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Warn("rule evaluation failed",
		slog.String("rule", rule),
		slog.String("error", err.Error()),
		slog.String("error_kind", expr.KindOf(err).String()),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogBatchStart logs the start of an evaluate-all pass.
func LogBatchStart(logger *slog.Logger, evalID string, rules int) {
	if logger == nil {
		return
	}
	logger.Info("rule batch starting",
		slog.String("eval_id", evalID),
		slog.Int("rules", rules),
	)
}

// LogBatchComplete logs the end of an evaluate-all pass.
func LogBatchComplete(logger *slog.Logger, evalID string, durationMs float64, evaluated, failed int) {
	if logger == nil {
		return
	}
	logger.Info("rule batch completed",
		slog.String("eval_id", evalID),
		slog.Float64("duration_ms", durationMs),
		slog.Int("evaluated", evaluated),
		slog.Int("failed", failed),
	)
}

// LogRuleLoaded logs a rule accepted into an engine.
func LogRuleLoaded(logger *slog.Logger, rule, source string) {
	if logger == nil {
		return
	}
	logger.Debug("rule loaded",
		slog.String("rule", rule),
		slog.String("source", source),
	)
}

// LogRuleRejected logs a rule that failed validation.
func LogRuleRejected(logger *slog.Logger, rule string, err error) {
	if logger == nil {
		return
	}
	logger.Error("rule rejected",
		slog.String("rule", rule),
		slog.String("error", err.Error()),
	)
}

// LogStoreError logs a rule store failure.
func LogStoreError(logger *slog.Logger, op string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("rule store failed",
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return durationMs(time.Since(start))
	}
}

// durationMs converts d to fractional milliseconds; evaluations are often sub-millisecond.
func durationMs(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
