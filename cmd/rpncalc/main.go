// Command rpncalc evaluates infix expressions and named rules.
//
// Usage:
//
//	rpncalc [-v name=value ...] [-f rules.yaml] [-d rules.db] [-r rule] [-s] [-p] [-j] [expr ...]
//	rpncalc -l :8080 [-f rules.yaml] [-d rules.db] [-i 30s]
//
// With expressions as arguments each one is evaluated and printed. With
// -r the named rule is evaluated; otherwise every loaded rule is. With no
// expressions and no rules, lines are read from stdin, interactively when
// stdin is a terminal.
package main

import "os"

func main() {
	os.Exit(run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}
