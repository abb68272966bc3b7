package expr

// Calculator evaluates RPN sequences against variable bindings.
//
// A Calculator reuses its operand stack between calls and must not be shared
// across goroutines. Use one per goroutine, or the package-level Eval.
type Calculator struct {
	parser   *Parser
	operands stack[float64]
}

// NewCalculator creates a Calculator using the default precedence table.
func NewCalculator() *Calculator {
	return &Calculator{parser: NewParser(nil)}
}

// Eval parses infix and evaluates it against vars.
func (c *Calculator) Eval(infix string, vars map[string]float64) (float64, error) {
	rpn, err := c.parser.Parse(infix)
	if err != nil {
		return 0, err
	}
	return c.Evaluate(rpn, vars)
}

// Evaluate consumes rpn and reduces it to a single value.
//
// Each operator pops its right operand first, then its left. Both sides of
// && and || are always evaluated. On failure the rest of rpn is discarded and
// the result is 0.
func (c *Calculator) Evaluate(rpn *RPN, vars map[string]float64) (float64, error) {
	c.operands.reset()
	v, err := c.reduce(rpn, vars)
	if err != nil {
		rpn.discard()
		c.operands.reset()
		return 0, err
	}
	return v, nil
}

func (c *Calculator) reduce(rpn *RPN, vars map[string]float64) (float64, error) {
	for {
		tok, ok := rpn.Pop()
		if !ok {
			break
		}
		switch tok.Kind {
		case TokenNumber:
			c.operands.push(tok.Num)

		case TokenVariable:
			v, ok := vars[tok.Text]
			if !ok {
				return 0, newError(KindUndefinedVariable, tok.Text)
			}
			c.operands.push(v)

		case TokenOperator:
			right, ok := c.operands.pop()
			if !ok {
				return 0, newError(KindStackUnderflow, tok.Text)
			}
			left, ok := c.operands.pop()
			if !ok {
				return 0, newError(KindStackUnderflow, tok.Text)
			}
			v, err := Apply(tok.Text, left, right)
			if err != nil {
				return 0, err
			}
			c.operands.push(v)

		default:
			return 0, newError(KindUnsupportedOperator, tok.String())
		}
	}

	switch n := c.operands.len(); {
	case n == 0:
		return 0, newError(KindStackUnderflow, "")
	case n > 1:
		return 0, newError(KindStackOverflow, "")
	}
	v, _ := c.operands.pop()
	return v, nil
}

// Eval is a convenience function that evaluates infix with a fresh Calculator.
// It is safe for concurrent use.
func Eval(infix string, vars map[string]float64) (float64, error) {
	return NewCalculator().Eval(infix, vars)
}
