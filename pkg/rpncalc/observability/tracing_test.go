package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTracingTest installs a tracer provider with an in-memory exporter.
func setupTracingTest(t *testing.T) *tracetest.InMemoryExporter {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)

	t.Cleanup(func() {
		otel.SetTracerProvider(original)
		if err := tp.Shutdown(context.Background()); err != nil {
			t.Logf("shutdown tracer provider: %v", err)
		}
	})
	return exporter
}

func TestSpanManager_BatchAndRuleSpans(t *testing.T) {
	exporter := setupTracingTest(t)
	spans := NewSpanManager()

	ctx, batch := spans.StartBatchSpan(context.Background(), "eval-1", 2)
	ruleCtx, rule := spans.StartRuleSpan(ctx, "gray")
	spans.AddSpanEvent(ruleCtx, "parsed", attribute.Int("rpn.tokens", 7))
	spans.EndSpanWithError(rule, errors.New("undefined variable"))
	spans.EndSpanWithError(batch, nil)

	got := exporter.GetSpans()
	require.Len(t, got, 2)

	ruleSpan, batchSpan := got[0], got[1]
	assert.Equal(t, "rpncalc.rule.gray", ruleSpan.Name)
	assert.Equal(t, codes.Error, ruleSpan.Status.Code)
	assert.Contains(t, ruleSpan.Attributes, attribute.String("rule.name", "gray"))
	assert.Equal(t, batchSpan.SpanContext.SpanID(), ruleSpan.Parent.SpanID())
	require.Len(t, ruleSpan.Events, 2)
	assert.Equal(t, "parsed", ruleSpan.Events[0].Name)

	assert.Equal(t, "rpncalc.batch", batchSpan.Name)
	assert.Equal(t, codes.Ok, batchSpan.Status.Code)
	assert.Contains(t, batchSpan.Attributes, attribute.String("eval.id", "eval-1"))
	assert.Contains(t, batchSpan.Attributes, attribute.Int("rule.count", 2))
}

func TestSpanManager_EndNilSpan(t *testing.T) {
	assert.NotPanics(t, func() {
		NewSpanManager().EndSpanWithError(nil, errors.New("x"))
	})
}

func TestNoopSpanManager(t *testing.T) {
	var m SpanManager = NoopSpanManager{}
	ctx := context.Background()

	got, span := m.StartRuleSpan(ctx, "gray")
	assert.Equal(t, ctx, got)
	assert.False(t, span.IsRecording())
	assert.NotPanics(t, func() {
		m.AddSpanEvent(ctx, "e")
		m.EndSpanWithError(span, errors.New("x"))
	})
}
