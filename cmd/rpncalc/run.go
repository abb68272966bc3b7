package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/randalmurphal/rpncalc/pkg/rpncalc/config"
	"github.com/randalmurphal/rpncalc/pkg/rpncalc/expr"
	"github.com/randalmurphal/rpncalc/pkg/rpncalc/observability"
	"github.com/randalmurphal/rpncalc/pkg/rpncalc/rules"
	"github.com/randalmurphal/rpncalc/pkg/rpncalc/server"
	"github.com/randalmurphal/rpncalc/pkg/rpncalc/store"
)

var (
	matchColor = color.New(color.FgGreen)
	errorColor = color.New(color.FgRed)
)

// app is one invocation of the command.
type app struct {
	opts   *options
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
	engine *rules.Engine
	store  store.Store
}

func run(argv []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseArgs(argv)
	if err != nil {
		errorColor.Fprintf(stderr, "rpncalc: %v\n", err)
		printUsage(stderr, argv[0])
		return 2
	}
	if opts.help {
		printUsage(stdout, argv[0])
		return 0
	}

	a := &app{opts: opts, stdin: stdin, stdout: stdout, stderr: stderr}
	defer a.close()
	if err := a.load(); err != nil {
		a.fail(err)
		return 1
	}

	switch {
	case opts.save:
		return a.save()
	case opts.listen != "":
		return a.serve()
	case len(opts.exprs) > 0:
		return a.evalArgs()
	case opts.rule != "":
		return a.evalRule()
	case len(a.engine.Names()) > 0:
		return a.evalAll()
	default:
		return a.evalLines()
	}
}

// load builds the logger and engine and imports rules from -f and -d.
func (a *app) load() error {
	settings := config.NewSettings(nil)
	var file *config.File
	if a.opts.rulesFile != "" {
		f, err := config.FromFile(a.opts.rulesFile)
		if err != nil {
			return err
		}
		file, settings = f, f.Settings
	}

	a.logger = newLogger(a.stderr, settings.String("log_level", "warn"),
		a.opts.jsonLog || settings.Bool("json_log", false))
	a.engine = rules.New(
		rules.WithLogger(a.logger),
		rules.WithMetrics(settings.Bool("metrics", false)),
		rules.WithTracing(settings.Bool("tracing", false)),
	)
	if a.opts.interval == 0 && a.opts.dbPath != "" {
		a.opts.interval = settings.Duration("reload_interval", 0)
	}

	var errs []error
	if file != nil {
		if err := a.engine.LoadConfig(file); err != nil {
			errs = append(errs, err)
		}
	}
	if a.opts.dbPath != "" {
		st, err := store.NewSQLiteStore(a.opts.dbPath)
		if err != nil {
			return errors.Join(append(errs, err)...)
		}
		a.store = st
		if !a.opts.save {
			if err := a.engine.LoadStore(st); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (a *app) close() {
	if a.store == nil {
		return
	}
	if err := a.store.Close(); err != nil {
		observability.LogStoreError(a.logger, "close", err)
	}
}

func (a *app) save() int {
	if err := a.engine.SaveTo(a.store); err != nil {
		a.fail(err)
		return 1
	}
	fmt.Fprintf(a.stdout, "saved %d rules to %s\n", len(a.engine.Names()), a.opts.dbPath)
	return 0
}

func (a *app) serve() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []server.Option{
		server.WithLogger(a.logger),
		server.WithReloadInterval(a.opts.interval),
	}
	if a.store != nil {
		opts = append(opts, server.WithStore(a.store))
	}
	srv := server.New(a.engine, opts...)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe(a.opts.listen)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			a.fail(err)
			return 1
		}
		return 0
	case <-ctx.Done():
	}
	if err := srv.Shutdown(); err != nil {
		a.fail(err)
		return 1
	}
	return 0
}

// bindings returns the -v variables over the engine defaults.
func (a *app) bindings() map[string]float64 {
	vars := a.engine.Defaults()
	maps.Copy(vars, a.opts.vars)
	return vars
}

func (a *app) evalArgs() int {
	status := 0
	for _, infix := range a.opts.exprs {
		if !a.evalOne(infix) {
			status = 1
		}
	}
	return status
}

// evalOne evaluates or prints one literal expression and reports success.
func (a *app) evalOne(infix string) bool {
	if a.opts.printRPN {
		rpn, err := expr.ToRPN(infix)
		if err != nil {
			a.fail(err)
			return false
		}
		fmt.Fprintln(a.stdout, rpn)
		return true
	}

	done := observability.TimedOperation()
	v, err := expr.Eval(infix, a.bindings())
	if err != nil {
		observability.LogEvaluationError(a.logger, infix, err, done())
		a.fail(err)
		return false
	}
	observability.LogEvaluation(a.logger, infix, v, done())
	fmt.Fprintln(a.stdout, formatValue(v))
	return true
}

func (a *app) evalRule() int {
	if a.opts.printRPN {
		r, ok := a.engine.Get(a.opts.rule)
		if !ok {
			a.fail(&rules.RuleError{Rule: a.opts.rule, Op: "evaluate", Err: rules.ErrRuleNotFound})
			return 1
		}
		return exitCode(a.evalOne(r.Expr))
	}

	v, err := a.engine.Evaluate(context.Background(), a.opts.rule, a.opts.vars)
	if err != nil {
		a.fail(err)
		return 1
	}
	fmt.Fprintln(a.stdout, formatValue(v))
	return 0
}

func (a *app) evalAll() int {
	batch := a.engine.EvaluateAll(context.Background(), a.opts.vars)
	for _, r := range batch.Results {
		switch {
		case r.Err != nil:
			errorColor.Fprintf(a.stdout, "%s\terror: %v\n", r.Rule, ruleCause(r.Err))
		case r.Matched():
			matchColor.Fprintf(a.stdout, "%s\t%s\n", r.Rule, formatValue(r.Value))
		default:
			fmt.Fprintf(a.stdout, "%s\t%s\n", r.Rule, formatValue(r.Value))
		}
	}
	if batch.Failed() > 0 {
		return 1
	}
	return 0
}

// evalLines evaluates stdin line by line, prompting when it is a terminal.
func (a *app) evalLines() int {
	interactive := isTerminal(a.stdin)
	scanner := bufio.NewScanner(a.stdin)
	status := 0
	for {
		if interactive {
			fmt.Fprint(a.stdout, "> ")
		}
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !a.evalOne(line) && !interactive {
			status = 1
		}
	}
	if err := scanner.Err(); err != nil {
		a.fail(err)
		return 1
	}
	return status
}

func (a *app) fail(err error) {
	errorColor.Fprintf(a.stderr, "rpncalc: %v\n", err)
}

// ruleCause strips the RuleError prefix, which repeats the rule name.
func ruleCause(err error) error {
	var re *rules.RuleError
	if errors.As(err, &re) {
		return re.Err
	}
	return err
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func exitCode(ok bool) int {
	if ok {
		return 0
	}
	return 1
}

func newLogger(w io.Writer, level string, json bool) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if json {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
