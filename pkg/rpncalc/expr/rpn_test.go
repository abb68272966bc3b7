package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRPN_FIFO(t *testing.T) {
	var r RPN
	assert.True(t, r.Empty())

	r.Push(Number(1))
	r.Push(Variable("x"))
	r.Push(Operator("+"))
	assert.Equal(t, 3, r.Len())
	assert.Equal(t, "1 x +", r.String())

	for _, want := range []Token{Number(1), Variable("x"), Operator("+")} {
		got, ok := r.Pop()
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}

	_, ok := r.Pop()
	assert.False(t, ok)
	assert.True(t, r.Empty())
	assert.Equal(t, "", r.String())
}

func TestRPN_TokensIsCopy(t *testing.T) {
	var r RPN
	r.Push(Number(1))
	r.Push(Number(2))

	toks := r.Tokens()
	toks[0] = Number(9)

	got, _ := r.Pop()
	assert.Equal(t, Number(1), got)
	assert.Equal(t, []Token{Number(2)}, r.Tokens())
}

func TestRPN_Nil(t *testing.T) {
	var r *RPN
	assert.True(t, r.Empty())
	assert.Zero(t, r.Len())
	assert.Nil(t, r.Tokens())
	_, ok := r.Pop()
	assert.False(t, ok)
}
