package expr

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a parse or evaluation failure.
type ErrorKind int

const (
	// KindNone is reported by KindOf for errors that did not come from this package.
	KindNone ErrorKind = iota

	// KindLex indicates a character sequence that cannot form a token.
	KindLex

	// KindUnbalancedParentheses indicates a '(' without ')' or the reverse.
	KindUnbalancedParentheses

	// KindUndefinedVariable indicates a variable missing from the bindings.
	KindUndefinedVariable

	// KindUnsupportedOperator indicates an operator symbol with no semantics.
	KindUnsupportedOperator

	// KindStackUnderflow indicates too few operands for an operator or an empty result.
	KindStackUnderflow

	// KindStackOverflow indicates operands left over once the expression is exhausted.
	KindStackOverflow

	// KindDivisionByZero indicates an integer modulo by zero.
	KindDivisionByZero

	// KindInvalidOperand indicates an operand that cannot be truncated to an integer,
	// or a negative shift count.
	KindInvalidOperand
)

// String returns the snake_case name used in logs and metric attributes.
func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindLex:
		return "lex_error"
	case KindUnbalancedParentheses:
		return "unbalanced_parentheses"
	case KindUndefinedVariable:
		return "undefined_variable"
	case KindUnsupportedOperator:
		return "unsupported_operator"
	case KindStackUnderflow:
		return "stack_underflow"
	case KindStackOverflow:
		return "stack_overflow"
	case KindDivisionByZero:
		return "division_by_zero"
	case KindInvalidOperand:
		return "invalid_operand"
	default:
		return "unknown"
	}
}

// Sentinel errors, one per ErrorKind. Every *Error unwraps to exactly one of these.
var (
	ErrLex                   = errors.New("unrecognized character sequence")
	ErrUnbalancedParentheses = errors.New("unbalanced parentheses")
	ErrUndefinedVariable     = errors.New("undefined variable")
	ErrUnsupportedOperator   = errors.New("unsupported operator")
	ErrStackUnderflow        = errors.New("stack underflow")
	ErrStackOverflow         = errors.New("stack overflow")
	ErrDivisionByZero        = errors.New("integer division by zero")
	ErrInvalidOperand        = errors.New("invalid operand")
)

var sentinels = map[ErrorKind]error{
	KindLex:                   ErrLex,
	KindUnbalancedParentheses: ErrUnbalancedParentheses,
	KindUndefinedVariable:     ErrUndefinedVariable,
	KindUnsupportedOperator:   ErrUnsupportedOperator,
	KindStackUnderflow:        ErrStackUnderflow,
	KindStackOverflow:         ErrStackOverflow,
	KindDivisionByZero:        ErrDivisionByZero,
	KindInvalidOperand:        ErrInvalidOperand,
}

// Error is returned by every failing lex, parse, or evaluation step.
type Error struct {
	// Kind classifies the failure.
	Kind ErrorKind
	// Symbol is the offending operator, variable name, or text. May be empty.
	Symbol string
	// Err is the sentinel for Kind.
	Err error
}

func newError(kind ErrorKind, symbol string) *Error {
	return &Error{Kind: kind, Symbol: symbol, Err: sentinels[kind]}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Symbol != "" {
		return fmt.Sprintf("%v: %q", e.Err, e.Symbol)
	}
	return e.Err.Error()
}

// Unwrap returns the sentinel for errors.Is support.
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the ErrorKind carried by err, or KindNone.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindNone
}
