/*
Package expr evaluates numeric infix expressions over named variables.

# Overview

expr turns a rule such as

	uid % 10 == 1 && cityid != 131

into postfix (RPN) form with the shunting-yard algorithm, then reduces the
postfix form on an operand stack against a map of float64 bindings. It exists
so callers can evaluate dynamically supplied rules without a scripting engine.

# Expression Syntax

	<expr>    := <operand> | <expr> <op> <expr> | '(' <expr> ')'
	<operand> := number | identifier
	<op>      := '**' | '*' | '/' | '%' | '+' | '-' | '<<' | '>>'
	           | '<' | '<=' | '>' | '>=' | '==' | '!=' | '&&' | '||'

Numbers start with a digit: 42, 3.14, 1e6. Identifiers match
[A-Za-z_][A-Za-z0-9_]*. There are no unary operators, so "-3" is an error.

# Operators

Precedence, tightest first. Operators on the same line associate left to right.

	**
	*  /  %
	+  -
	<<  >>
	<  <=  >  >=
	==  !=
	&&
	||

+ - * / and ** use full float64 precision. Every other operator truncates both
operands to integers first; relational and logical operators yield 1 or 0.
&& and || do not short-circuit.

# Usage

	v, err := expr.Eval("(20+10)*3/2-3", nil) // 42

	vars := map[string]float64{"uid": 434243291, "cityid": 131}
	v, err = expr.Eval("uid % 10 == 1 && cityid == 131", vars) // 1

Parsing and evaluating can be split:

	rpn, err := expr.ToRPN("a + b * c")
	fmt.Println(rpn) // a b c * +
	v, err := expr.NewCalculator().Evaluate(rpn, vars)

An RPN sequence is consumed by evaluation and cannot be evaluated twice.

# Errors

Failures are *Error values wrapping one sentinel per kind:

	_, err := expr.Eval("a + 1", nil)
	errors.Is(err, expr.ErrUndefinedVariable) // true
	expr.KindOf(err)                          // KindUndefinedVariable

# Thread Safety

The precedence table and Parser are safe for concurrent use. A Calculator is
not; the package-level Eval creates a new one per call.
*/
package expr
