package expr

// Parser converts infix token streams to RPN with the shunting-yard algorithm.
// A Parser holds no per-parse state and is safe for concurrent use.
type Parser struct {
	prec *Precedence
}

// NewParser returns a Parser using prec, or DefaultPrecedence if prec is nil.
func NewParser(prec *Precedence) *Parser {
	if prec == nil {
		prec = DefaultPrecedence()
	}
	return &Parser{prec: prec}
}

// ToRPN lexes and parses infix with the default precedence table.
func ToRPN(infix string) (*RPN, error) {
	return NewParser(nil).Parse(infix)
}

// Parse lexes and parses an infix expression.
func (p *Parser) Parse(infix string) (*RPN, error) {
	tokens, err := Lex(infix)
	if err != nil {
		return nil, err
	}
	return p.ParseTokens(tokens)
}

// ParseTokens converts tokens to postfix order.
//
// An incoming operator first flushes every stacked operator whose rank is
// less than or equal to its own, so equal ranks associate to the left.
func (p *Parser) ParseTokens(tokens []Token) (*RPN, error) {
	out := &RPN{tokens: make([]Token, 0, len(tokens))}
	var ops stack[Token]

	for _, tok := range tokens {
		switch tok.Kind {
		case TokenNumber, TokenVariable:
			out.Push(tok)

		case TokenLeftParen:
			ops.push(tok)

		case TokenRightParen:
			for {
				top, ok := ops.pop()
				if !ok {
					return nil, newError(KindUnbalancedParentheses, ")")
				}
				if top.Kind == TokenLeftParen {
					break
				}
				out.Push(top)
			}

		case TokenOperator:
			rank, ok := p.prec.Rank(tok.Text)
			if !ok {
				return nil, newError(KindUnsupportedOperator, tok.Text)
			}
			for {
				top, ok := ops.peek()
				if !ok || rank < p.prec.stackRank(top) {
					break
				}
				ops.pop()
				out.Push(top)
			}
			ops.push(tok)

		default:
			return nil, newError(KindLex, tok.String())
		}
	}

	for {
		top, ok := ops.pop()
		if !ok {
			break
		}
		if top.Kind == TokenLeftParen {
			return nil, newError(KindUnbalancedParentheses, "(")
		}
		out.Push(top)
	}
	return out, nil
}
