package expr

import "sync"

// sentinelSymbol is the operator-stack marker for an open parenthesis.
const sentinelSymbol = "("

// defaultRanks maps operator symbols to precedence ranks. Smaller binds tighter.
// The "(" entry must outrank every operator so the parser never pops past it.
var defaultRanks = map[string]int{
	"**": 3,
	"*":  5, "/": 5, "%": 5,
	"+": 6, "-": 6,
	"<<": 7, ">>": 7,
	"<": 8, "<=": 8, ">": 8, ">=": 8,
	"==": 9, "!=": 9,
	"&&": 13,
	"||": 14,

	sentinelSymbol: 17,
}

// Precedence is an immutable operator precedence table.
// It is safe for concurrent use.
type Precedence struct {
	ranks map[string]int
}

var (
	defaultPrecedence     *Precedence
	defaultPrecedenceOnce sync.Once
)

// DefaultPrecedence returns the shared table for the supported operators.
// The table is built on first call.
func DefaultPrecedence() *Precedence {
	defaultPrecedenceOnce.Do(func() {
		ranks := make(map[string]int, len(defaultRanks))
		for op, r := range defaultRanks {
			ranks[op] = r
		}
		defaultPrecedence = &Precedence{ranks: ranks}
	})
	return defaultPrecedence
}

// Rank returns the rank of an operator symbol and whether the symbol is known.
// The parenthesis sentinel is not an operator and reports false.
func (p *Precedence) Rank(op string) (int, bool) {
	if op == sentinelSymbol {
		return 0, false
	}
	r, ok := p.ranks[op]
	return r, ok
}

// Operators returns the number of operator symbols in the table.
func (p *Precedence) Operators() int {
	return len(p.ranks) - 1
}

// stackRank is the rank of an operator-stack entry, with the sentinel acting as a floor.
func (p *Precedence) stackRank(t Token) int {
	if t.Kind == TokenLeftParen {
		return p.ranks[sentinelSymbol]
	}
	return p.ranks[t.Text]
}
