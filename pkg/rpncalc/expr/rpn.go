package expr

import "strings"

// RPN is a postfix token sequence. Tokens are appended while parsing and
// consumed front to back, once, while evaluating.
type RPN struct {
	tokens []Token
	head   int
}

// Push appends a token.
func (r *RPN) Push(t Token) {
	r.tokens = append(r.tokens, t)
}

// Pop removes and returns the oldest remaining token.
func (r *RPN) Pop() (Token, bool) {
	if r.Len() == 0 {
		return Token{}, false
	}
	t := r.tokens[r.head]
	r.head++
	if r.head == len(r.tokens) {
		r.tokens, r.head = nil, 0
	}
	return t, true
}

// Empty reports whether no tokens remain.
func (r *RPN) Empty() bool {
	return r.Len() == 0
}

// Len returns the number of tokens not yet consumed.
func (r *RPN) Len() int {
	if r == nil {
		return 0
	}
	return len(r.tokens) - r.head
}

// Tokens returns a copy of the remaining tokens without consuming them.
func (r *RPN) Tokens() []Token {
	if r.Len() == 0 {
		return nil
	}
	out := make([]Token, r.Len())
	copy(out, r.tokens[r.head:])
	return out
}

// discard drops every remaining token.
func (r *RPN) discard() {
	if r != nil {
		r.tokens, r.head = nil, 0
	}
}

// String renders the remaining tokens space-separated, e.g. "20 10 + 3 *".
func (r *RPN) String() string {
	var b strings.Builder
	for i, t := range r.Tokens() {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(t.String())
	}
	return b.String()
}
