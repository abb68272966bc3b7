package expr

import "strconv"

// TokenKind tags the variant held by a Token.
type TokenKind int

const (
	// TokenNumber is a numeric literal; Token.Num holds its value.
	TokenNumber TokenKind = iota + 1
	// TokenVariable is an identifier resolved from the bindings; Token.Text holds its name.
	TokenVariable
	// TokenOperator is a binary operator; Token.Text holds its symbol.
	TokenOperator
	// TokenLeftParen and TokenRightParen only travel from the lexer to the parser.
	TokenLeftParen
	TokenRightParen
)

// String returns the kind name.
func (k TokenKind) String() string {
	switch k {
	case TokenNumber:
		return "number"
	case TokenVariable:
		return "variable"
	case TokenOperator:
		return "operator"
	case TokenLeftParen:
		return "lparen"
	case TokenRightParen:
		return "rparen"
	default:
		return "invalid"
	}
}

// Token is one lexical unit. Only the field matching Kind is meaningful.
type Token struct {
	Kind TokenKind
	Num  float64
	Text string
}

// Number returns a numeric literal token.
func Number(v float64) Token {
	return Token{Kind: TokenNumber, Num: v}
}

// Variable returns a variable reference token.
func Variable(name string) Token {
	return Token{Kind: TokenVariable, Text: name}
}

// Operator returns an operator token.
func Operator(symbol string) Token {
	return Token{Kind: TokenOperator, Text: symbol}
}

// String renders the token as it would appear in source.
func (t Token) String() string {
	switch t.Kind {
	case TokenNumber:
		return strconv.FormatFloat(t.Num, 'g', -1, 64)
	case TokenVariable, TokenOperator:
		return t.Text
	case TokenLeftParen:
		return "("
	case TokenRightParen:
		return ")"
	default:
		return "<invalid>"
	}
}
