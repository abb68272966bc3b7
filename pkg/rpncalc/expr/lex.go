package expr

import (
	"errors"
	"strconv"
)

// Lex splits an infix expression into tokens.
//
// Numbers start with a digit and may carry a fraction and an exponent.
// Identifiers match [A-Za-z_][A-Za-z0-9_]*. Parentheses are single tokens.
// Any other run of ASCII punctuation is one operator symbol; the run ends at
// whitespace, a digit, an identifier character, or a parenthesis, so "*(" lexes
// as "*" followed by "(".
func Lex(s string) ([]Token, error) {
	var tokens []Token
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case isSpace(c):
			i++
		case isDigit(c):
			end := scanNumber(s, i)
			v, err := strconv.ParseFloat(s[i:end], 64)
			// Out-of-range literals saturate to ±Inf, same as strtod.
			if err != nil && !errors.Is(err, strconv.ErrRange) {
				return nil, newError(KindLex, s[i:end])
			}
			tokens = append(tokens, Number(v))
			i = end
		case isIdentStart(c):
			end := i + 1
			for end < len(s) && isIdentChar(s[end]) {
				end++
			}
			tokens = append(tokens, Variable(s[i:end]))
			i = end
		case c == '(':
			tokens = append(tokens, Token{Kind: TokenLeftParen})
			i++
		case c == ')':
			tokens = append(tokens, Token{Kind: TokenRightParen})
			i++
		case isOperatorChar(c):
			end := i + 1
			for end < len(s) && isOperatorChar(s[end]) {
				end++
			}
			tokens = append(tokens, Operator(s[i:end]))
			i = end
		default:
			return nil, newError(KindLex, s[i:i+1])
		}
	}
	return tokens, nil
}

// scanNumber returns the end offset of the numeric literal starting at i.
func scanNumber(s string, i int) int {
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			i = j
		}
	}
	return i
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

// isOperatorChar reports printable ASCII that is not part of another token class.
func isOperatorChar(c byte) bool {
	if c <= ' ' || c > '~' {
		return false
	}
	return !isIdentChar(c) && c != '(' && c != ')'
}
