package benchmarks

import (
	"fmt"
	"strings"
	"testing"

	"github.com/randalmurphal/rpncalc/pkg/rpncalc/expr"
)

const grayRule = "uid % 10 == 0 && cityid == 131"

var grayVars = map[string]float64{"uid": 20, "cityid": 131}

// BenchmarkLex measures tokenizing a typical rule.
func BenchmarkLex(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = expr.Lex(grayRule)
	}
}

// BenchmarkToRPN measures lexing plus shunting-yard conversion.
func BenchmarkToRPN(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = expr.ToRPN(grayRule)
	}
}

// BenchmarkEval_Fresh parses and evaluates with a new calculator per call.
func BenchmarkEval_Fresh(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = expr.Eval(grayRule, grayVars)
	}
}

// BenchmarkEval_Reused reuses one calculator across calls.
func BenchmarkEval_Reused(b *testing.B) {
	calc := expr.NewCalculator()
	for i := 0; i < b.N; i++ {
		_, _ = calc.Eval(grayRule, grayVars)
	}
}

// BenchmarkEvaluate_Only evaluates a pre-parsed sequence; parsing is excluded.
func BenchmarkEvaluate_Only(b *testing.B) {
	calc := expr.NewCalculator()
	tokens, err := expr.Lex(grayRule)
	if err != nil {
		b.Fatal(err)
	}
	parser := expr.NewParser(nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		rpn, _ := parser.ParseTokens(tokens)
		b.StartTimer()
		_, _ = calc.Evaluate(rpn, grayVars)
	}
}

// BenchmarkEval_Terms measures how cost grows with expression length.
func BenchmarkEval_Terms(b *testing.B) {
	for _, n := range []int{5, 50, 500} {
		infix := sumOfTerms(n)
		b.Run(fmt.Sprintf("terms=%d", n), func(b *testing.B) {
			calc := expr.NewCalculator()
			for i := 0; i < b.N; i++ {
				_, _ = calc.Eval(infix, grayVars)
			}
		})
	}
}

// BenchmarkEval_Nested measures deeply parenthesized input.
func BenchmarkEval_Nested(b *testing.B) {
	infix := strings.Repeat("(", 100) + "1" + strings.Repeat("+1)", 100)
	calc := expr.NewCalculator()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = calc.Eval(infix, nil)
	}
}

// sumOfTerms builds "uid * 1 + cityid * 2 + ..." with n terms.
func sumOfTerms(n int) string {
	var sb strings.Builder
	for i := range n {
		if i > 0 {
			sb.WriteString(" + ")
		}
		if i%2 == 0 {
			fmt.Fprintf(&sb, "uid * %d", i)
		} else {
			fmt.Fprintf(&sb, "cityid %% %d", i+1)
		}
	}
	return sb.String()
}
