package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/valyala/fasthttp"

	"github.com/randalmurphal/rpncalc/pkg/rpncalc/expr"
	"github.com/randalmurphal/rpncalc/pkg/rpncalc/rules"
)

// Number is a float64 that encodes non-finite values as JSON strings
// ("+Inf", "-Inf", "NaN").
type Number float64

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return []byte(strconv.Quote(strconv.FormatFloat(f, 'g', -1, 64))), nil
	}
	return []byte(strconv.FormatFloat(f, 'g', -1, 64)), nil
}

// EvalRequest is the body of the evaluation routes. Expr is only read by /eval.
type EvalRequest struct {
	Expr string             `json:"expr,omitempty"`
	Vars map[string]float64 `json:"vars"`
}

// EvalResponse is one evaluation outcome.
type EvalResponse struct {
	Rule    string `json:"rule,omitempty"`
	Value   Number `json:"value"`
	Matched bool   `json:"matched"`
}

// BatchResponse is the outcome of /eval-all.
type BatchResponse struct {
	EvalID  string        `json:"eval_id"`
	Results []BatchResult `json:"results"`
	Failed  int           `json:"failed"`
}

// BatchResult is one rule within a batch.
type BatchResult struct {
	Rule  string `json:"rule"`
	Value Number `json:"value"`
	Error string `json:"error,omitempty"`
}

// RuleInfo describes a loaded rule.
type RuleInfo struct {
	Name        string `json:"name"`
	Expr        string `json:"expr"`
	Description string `json:"description,omitempty"`
}

// ErrorResponse is returned with every non-2xx status.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// Handle routes a request.
func (s *Server) Handle(ctx *fasthttp.RequestCtx) {
	path := string(ctx.Path())
	switch {
	case path == "/rules":
		s.onlyMethod(ctx, fasthttp.MethodGet, s.handleRules)
	case path == "/eval":
		s.onlyMethod(ctx, fasthttp.MethodPost, s.handleEval)
	case path == "/eval-all":
		s.onlyMethod(ctx, fasthttp.MethodPost, s.handleEvalAll)
	case path == "/reload":
		s.onlyMethod(ctx, fasthttp.MethodPost, s.handleReload)
	case strings.HasPrefix(path, "/rules/") && strings.HasSuffix(path, "/eval"):
		name := strings.TrimSuffix(strings.TrimPrefix(path, "/rules/"), "/eval")
		s.onlyMethod(ctx, fasthttp.MethodPost, func(ctx *fasthttp.RequestCtx) {
			s.handleRuleEval(ctx, name)
		})
	default:
		writeError(ctx, fasthttp.StatusNotFound, errors.New("no such route"))
	}
	s.logger.Debug("request",
		slog.String("method", string(ctx.Method())),
		slog.String("path", path),
		slog.Int("status", ctx.Response.StatusCode()),
	)
}

func (s *Server) onlyMethod(ctx *fasthttp.RequestCtx, method string, h fasthttp.RequestHandler) {
	if string(ctx.Method()) != method {
		ctx.Response.Header.Set(fasthttp.HeaderAllow, method)
		writeError(ctx, fasthttp.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}
	h(ctx)
}

func (s *Server) handleRules(ctx *fasthttp.RequestCtx) {
	names := s.engine.Names()
	infos := make([]RuleInfo, 0, len(names))
	for _, name := range names {
		if r, ok := s.engine.Get(name); ok {
			infos = append(infos, RuleInfo{Name: r.Name, Expr: r.Expr, Description: r.Description})
		}
	}
	writeJSON(ctx, fasthttp.StatusOK, infos)
}

func (s *Server) handleEval(ctx *fasthttp.RequestCtx) {
	req, ok := readRequest(ctx)
	if !ok {
		return
	}
	v, err := expr.Eval(req.Expr, req.Vars)
	if err != nil {
		writeError(ctx, fasthttp.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, EvalResponse{Value: Number(v), Matched: v != 0})
}

func (s *Server) handleRuleEval(ctx *fasthttp.RequestCtx, name string) {
	req, ok := readRequest(ctx)
	if !ok {
		return
	}
	v, err := s.engine.Evaluate(ctx, name, req.Vars)
	switch {
	case errors.Is(err, rules.ErrRuleNotFound):
		writeError(ctx, fasthttp.StatusNotFound, err)
	case err != nil:
		writeError(ctx, fasthttp.StatusUnprocessableEntity, err)
	default:
		writeJSON(ctx, fasthttp.StatusOK, EvalResponse{Rule: name, Value: Number(v), Matched: v != 0})
	}
}

func (s *Server) handleEvalAll(ctx *fasthttp.RequestCtx) {
	req, ok := readRequest(ctx)
	if !ok {
		return
	}
	batch := s.engine.EvaluateAll(ctx, req.Vars)
	resp := BatchResponse{
		EvalID:  batch.ID,
		Results: make([]BatchResult, 0, len(batch.Results)),
		Failed:  batch.Failed(),
	}
	for _, r := range batch.Results {
		br := BatchResult{Rule: r.Rule, Value: Number(r.Value)}
		if r.Err != nil {
			br.Error = r.Err.Error()
		}
		resp.Results = append(resp.Results, br)
	}
	writeJSON(ctx, fasthttp.StatusOK, resp)
}

func (s *Server) handleReload(ctx *fasthttp.RequestCtx) {
	err := s.Reload()
	switch {
	case errors.Is(err, ErrNoStore):
		writeError(ctx, fasthttp.StatusBadRequest, err)
	case errors.Is(err, ErrReloadInProgress):
		writeError(ctx, fasthttp.StatusConflict, err)
	case err != nil:
		writeError(ctx, fasthttp.StatusInternalServerError, err)
	default:
		ctx.SetStatusCode(fasthttp.StatusNoContent)
	}
}

// readRequest decodes the JSON body. An empty body is an empty request.
func readRequest(ctx *fasthttp.RequestCtx) (EvalRequest, bool) {
	var req EvalRequest
	body := ctx.PostBody()
	if len(body) == 0 {
		return req, true
	}
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err)
		return req, false
	}
	return req, true
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	buf, err := json.Marshal(v)
	if err != nil {
		ctx.Error(err.Error(), fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	ctx.SetBody(buf)
}

func writeError(ctx *fasthttp.RequestCtx, status int, err error) {
	resp := ErrorResponse{Error: err.Error()}
	if kind := expr.KindOf(err); kind != expr.KindNone {
		resp.Kind = kind.String()
	}
	writeJSON(ctx, status, resp)
}
