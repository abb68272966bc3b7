package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"git.sr.ht/~sircmpwn/getopt"

	"github.com/randalmurphal/rpncalc/pkg/rpncalc/expr"
)

const optstring = "hjpsv:f:d:r:l:i:"

const usage = `usage: %s [options] [expr ...]

options:
  -v name=value  bind a variable; value may be an expression (repeatable)
  -f file        load rules from a YAML or JSON rule file
  -d path        load rules from a SQLite rule store
  -s             save rules loaded with -f into the -d store and exit
  -r name        evaluate only the named rule
  -p             print the postfix form instead of evaluating
  -l addr        serve rules over HTTP on addr
  -i interval    reload rules from the -d store every interval while serving
  -j             log as JSON
  -h             show this help
`

type options struct {
	vars      map[string]float64
	rulesFile string
	dbPath    string
	rule      string
	save      bool
	printRPN  bool
	listen    string
	interval  time.Duration
	jsonLog   bool
	help      bool
	exprs     []string
}

// parseArgs parses argv, including the program name.
func parseArgs(argv []string) (*options, error) {
	opts, optind, err := getopt.Getopts(argv, optstring)
	if err != nil {
		return nil, err
	}

	o := &options{vars: make(map[string]float64)}
	for _, opt := range opts {
		switch opt.Option {
		case 'h':
			o.help = true
		case 'j':
			o.jsonLog = true
		case 'p':
			o.printRPN = true
		case 's':
			o.save = true
		case 'v':
			if err := o.bind(opt.Value); err != nil {
				return nil, err
			}
		case 'f':
			o.rulesFile = opt.Value
		case 'd':
			o.dbPath = opt.Value
		case 'r':
			o.rule = opt.Value
		case 'l':
			o.listen = opt.Value
		case 'i':
			d, err := time.ParseDuration(opt.Value)
			if err != nil || d <= 0 {
				return nil, fmt.Errorf("invalid -i interval %q", opt.Value)
			}
			o.interval = d
		}
	}
	o.exprs = argv[optind:]

	if o.save && (o.rulesFile == "" || o.dbPath == "") {
		return nil, fmt.Errorf("-s requires both -f and -d")
	}
	if o.interval > 0 && o.dbPath == "" {
		return nil, fmt.Errorf("-i requires -d")
	}
	return o, nil
}

// bind parses a name=value definition. The value is evaluated as an
// expression over the variables bound so far.
func (o *options) bind(def string) error {
	name, value, ok := strings.Cut(def, "=")
	name, value = strings.TrimSpace(name), strings.TrimSpace(value)
	if !ok || name == "" {
		return fmt.Errorf(`variable definitions must be "name=value", not %q`, def)
	}
	v, err := expr.Eval(value, o.vars)
	if err != nil {
		return fmt.Errorf("setting %s: %w", name, err)
	}
	o.vars[name] = v
	return nil
}

func printUsage(w io.Writer, prog string) {
	fmt.Fprintf(w, usage, prog)
}
