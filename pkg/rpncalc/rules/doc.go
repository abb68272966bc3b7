// Package rules evaluates named expressions against variable bindings.
//
// An Engine holds rules loaded from code, a rule file or a rule store, and
// evaluates them by name:
//
//	engine := rules.New(rules.WithLogger(logger))
//	err := engine.Add(rules.Rule{Name: "gray", Expr: "uid % 10 == 0 && cityid == 131"})
//	ok, err := engine.Match(ctx, "gray", map[string]float64{"uid": 30, "cityid": 131})
//
// Every evaluation parses the rule text again; parsed forms are never
// cached. EvaluateAll runs every rule once and tags the pass with an
// eval_id shared by its log records and its trace span.
//
// Metrics and tracing are off by default. WithMetrics and WithTracing use
// the global OpenTelemetry providers.
package rules
