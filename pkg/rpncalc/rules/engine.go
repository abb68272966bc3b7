package rules

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/randalmurphal/rpncalc/pkg/rpncalc/config"
	"github.com/randalmurphal/rpncalc/pkg/rpncalc/expr"
	"github.com/randalmurphal/rpncalc/pkg/rpncalc/observability"
	"github.com/randalmurphal/rpncalc/pkg/rpncalc/registry"
	"github.com/randalmurphal/rpncalc/pkg/rpncalc/store"
)

// Rule is a named expression.
type Rule struct {
	Name        string
	Expr        string
	Description string
}

// Result is the outcome of one rule in a batch.
type Result struct {
	Rule  string
	Value float64
	Err   error
}

// Matched reports whether the rule evaluated to a non-zero value.
func (r Result) Matched() bool {
	return r.Err == nil && r.Value != 0
}

// Batch is the outcome of EvaluateAll.
type Batch struct {
	// ID is the eval_id shared by every log record of the batch.
	ID string

	// Results are ordered by rule name.
	Results []Result
}

// Failed returns the number of rules that returned an error.
func (b *Batch) Failed() int {
	n := 0
	for _, r := range b.Results {
		if r.Err != nil {
			n++
		}
	}
	return n
}

// Engine holds named rules and evaluates them against variable bindings.
// Engine is safe for concurrent use.
type Engine struct {
	rules    *registry.Registry[string, Rule]
	defaults *registry.Registry[string, float64]
	cfg      engineConfig
}

// New creates an empty engine.
func New(opts ...Option) *Engine {
	cfg := defaultEngineConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	e := &Engine{
		rules:    registry.New[string, Rule](),
		defaults: registry.New[string, float64](),
		cfg:      cfg,
	}
	e.defaults.PutAll(cfg.defaults)
	return e
}

// Add registers a rule. The expression must parse.
// Returns ErrDuplicateRule if the name is already registered.
func (e *Engine) Add(r Rule) error {
	return e.put(r, "api", false)
}

// Put registers a rule, replacing any rule with the same name.
func (e *Engine) Put(r Rule) error {
	return e.put(r, "api", true)
}

func (e *Engine) put(r Rule, source string, replace bool) error {
	if r.Name == "" {
		return &RuleError{Rule: r.Name, Op: "add", Err: ErrEmptyName}
	}
	if _, err := expr.ToRPN(r.Expr); err != nil {
		observability.LogRuleRejected(e.cfg.logger, r.Name, err)
		return &RuleError{Rule: r.Name, Op: "add", Err: err}
	}

	if replace {
		e.rules.Put(r.Name, r)
	} else if !e.rules.Add(r.Name, r) {
		return &RuleError{Rule: r.Name, Op: "add", Err: ErrDuplicateRule}
	}

	observability.LogRuleLoaded(e.cfg.logger, r.Name, source)
	return nil
}

// Get returns the named rule.
func (e *Engine) Get(name string) (Rule, bool) {
	return e.rules.Get(name)
}

// Remove deletes the named rule.
func (e *Engine) Remove(name string) error {
	if !e.rules.Delete(name) {
		return &RuleError{Rule: name, Op: "remove", Err: ErrRuleNotFound}
	}
	return nil
}

// Names returns the registered rule names in sorted order.
func (e *Engine) Names() []string {
	return e.rules.Keys()
}

// Defaults returns a copy of the engine's default bindings.
func (e *Engine) Defaults() map[string]float64 {
	return e.defaults.Snapshot()
}

// LoadConfig imports every rule and default binding from a rule file.
// Existing rules with the same name are replaced. All invalid rules are
// reported; valid ones are still loaded.
func (e *Engine) LoadConfig(f *config.File) error {
	if f == nil {
		return nil
	}

	e.defaults.PutAll(f.Defaults)

	var errs []error
	for _, r := range f.Rules {
		err := e.put(Rule{Name: r.Name, Expr: r.Expr, Description: r.Description}, "config", true)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LoadStore imports every rule held by s.
// Existing rules with the same name are replaced.
func (e *Engine) LoadStore(s store.Store) error {
	infos, err := s.List()
	if err != nil {
		observability.LogStoreError(e.cfg.logger, "list", err)
		return fmt.Errorf("list rules: %w", err)
	}

	var errs []error
	for _, info := range infos {
		text, err := s.Load(info.Name)
		if err != nil {
			observability.LogStoreError(e.cfg.logger, "load", err)
			errs = append(errs, &RuleError{Rule: info.Name, Op: "load", Err: err})
			continue
		}
		if err := e.put(Rule{Name: info.Name, Expr: text}, "store", true); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SaveTo writes every registered rule to s in name order.
func (e *Engine) SaveTo(s store.Store) error {
	for _, name := range e.rules.Keys() {
		r, ok := e.rules.Get(name)
		if !ok {
			continue
		}
		if err := s.Save(r.Name, r.Expr); err != nil {
			observability.LogStoreError(e.cfg.logger, "save", err)
			return fmt.Errorf("save rule %s: %w", r.Name, err)
		}
	}
	return nil
}

// Evaluate parses and evaluates the named rule.
// Default bindings apply under vars; a name present in both takes the
// value from vars.
//
// Errors are returned as *RuleError wrapping ErrRuleNotFound or the
// *expr.Error from parsing or evaluation.
func (e *Engine) Evaluate(ctx context.Context, name string, vars map[string]float64) (float64, error) {
	return e.evaluate(ctx, e.cfg.logger, name, vars)
}

// Match evaluates the named rule and reports whether the result is non-zero.
func (e *Engine) Match(ctx context.Context, name string, vars map[string]float64) (bool, error) {
	v, err := e.Evaluate(ctx, name, vars)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

// EvaluateAll evaluates every registered rule against vars.
// Rules are evaluated in name order. A failing rule does not stop the
// batch; its error is recorded in the Result. If ctx is cancelled the
// remaining rules fail with the context error.
func (e *Engine) EvaluateAll(ctx context.Context, vars map[string]float64) (batch *Batch) {
	names := e.Names()
	batch = &Batch{
		ID:      uuid.New().String(),
		Results: make([]Result, 0, len(names)),
	}
	logger := observability.EnrichLogger(e.cfg.logger, batch.ID)

	start := time.Now()
	observability.LogBatchStart(e.cfg.logger, batch.ID, len(names))

	execCtx := ctx
	if e.cfg.tracingEnabled {
		var span trace.Span
		execCtx, span = e.cfg.spans.StartBatchSpan(ctx, batch.ID, len(names))
		defer func() {
			var err error
			if n := batch.Failed(); n > 0 {
				err = fmt.Errorf("%d of %d rules failed", n, len(names))
			}
			e.cfg.spans.EndSpanWithError(span, err)
		}()
	}

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			batch.Results = append(batch.Results, Result{Rule: name, Err: err})
			continue
		}
		v, err := e.evaluate(execCtx, logger, name, vars)
		batch.Results = append(batch.Results, Result{Rule: name, Value: v, Err: err})
	}

	duration := time.Since(start)
	failed := batch.Failed()
	e.cfg.metrics.RecordBatch(execCtx, len(names), failed, duration)
	observability.LogBatchComplete(e.cfg.logger, batch.ID, millis(duration), len(names), failed)
	return batch
}

func (e *Engine) evaluate(ctx context.Context, logger *slog.Logger, name string, vars map[string]float64) (result float64, evalErr error) {
	rule, ok := e.Get(name)
	if !ok {
		return 0, &RuleError{Rule: name, Op: "evaluate", Err: ErrRuleNotFound}
	}

	if e.cfg.tracingEnabled {
		var span trace.Span
		ctx, span = e.cfg.spans.StartRuleSpan(ctx, name)
		defer func() {
			e.cfg.spans.EndSpanWithError(span, evalErr)
		}()
	}

	start := time.Now()

	rpn, err := expr.ToRPN(rule.Expr)
	if err == nil {
		e.cfg.metrics.RecordParse(ctx, name, rpn.Len())
		if e.cfg.tracingEnabled {
			e.cfg.spans.AddSpanEvent(ctx, "parsed", attribute.Int("rpn.tokens", rpn.Len()))
		}
		result, err = expr.NewCalculator().Evaluate(rpn, e.defaults.Overlay(vars))
	}

	duration := time.Since(start)
	e.cfg.metrics.RecordEvaluation(ctx, name, duration, err)
	if err != nil {
		observability.LogEvaluationError(logger, name, err, millis(duration))
		return 0, &RuleError{Rule: name, Op: "evaluate", Err: err}
	}
	observability.LogEvaluation(logger, name, result, millis(duration))
	return result, nil
}

func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
