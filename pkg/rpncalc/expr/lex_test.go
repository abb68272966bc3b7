package expr

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var (
	lp = Token{Kind: TokenLeftParen}
	rp = Token{Kind: TokenRightParen}
)

func TestLex(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []Token
	}{
		{"empty", "", nil},
		{"spaces", " \t\n ", nil},
		{"rule", "uid % 10 == 0 && cityid == 131", []Token{
			Variable("uid"), Operator("%"), Number(10), Operator("=="), Number(0),
			Operator("&&"), Variable("cityid"), Operator("=="), Number(131),
		}},
		{"no spaces", "(20+10)*3/2-3", []Token{
			lp, Number(20), Operator("+"), Number(10), rp, Operator("*"),
			Number(3), Operator("/"), Number(2), Operator("-"), Number(3),
		}},
		{"operator stops at open paren", "2*(a)", []Token{Number(2), Operator("*"), lp, Variable("a"), rp}},
		{"operator stops at close paren", "a)*(b", []Token{Variable("a"), rp, Operator("*"), lp, Variable("b")}},
		{"glued punctuation is one operator", "x<=-y", []Token{Variable("x"), Operator("<=-"), Variable("y")}},
		{"multi-char operators", "a ** b << c >> d || e", []Token{
			Variable("a"), Operator("**"), Variable("b"), Operator("<<"), Variable("c"),
			Operator(">>"), Variable("d"), Operator("||"), Variable("e"),
		}},
		{"identifier with digits", "foo_1bar2", []Token{Variable("foo_1bar2")}},
		{"leading underscore", "_x", []Token{Variable("_x")}},
		{"fraction", "3.25", []Token{Number(3.25)}},
		{"trailing dot", "3.", []Token{Number(3)}},
		{"exponent", "1.5E+3", []Token{Number(1500)}},
		{"negative exponent", "25e-1", []Token{Number(2.5)}},
		{"dangling exponent", "1e", []Token{Number(1), Variable("e")}},
		{"dangling exponent sign", "1e+", []Token{Number(1), Variable("e"), Operator("+")}},
		{"number then identifier", "2x", []Token{Number(2), Variable("x")}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := Lex(c.in)
			if err != nil {
				t.Fatalf("Lex(%q): unexpected error: %v", c.in, err)
			}
			if diff := cmp.Diff(c.want, got); diff != "" {
				t.Errorf("Lex(%q) mismatch (-want +got):\n%s", c.in, diff)
			}
		})
	}
}

func TestLex_OverflowSaturates(t *testing.T) {
	got, err := Lex("1e999")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || !math.IsInf(got[0].Num, 1) {
		t.Errorf("Lex(1e999) = %v, want +Inf", got)
	}
}

func TestLex_Errors(t *testing.T) {
	for _, in := range []string{"1 + é", "a\x00b", "\x7f", "ü"} {
		t.Run(in, func(t *testing.T) {
			_, err := Lex(in)
			if KindOf(err) != KindLex {
				t.Errorf("Lex(%q) error = %v, want lex error", in, err)
			}
		})
	}
}

func TestToken_String(t *testing.T) {
	cases := []struct {
		tok  Token
		want string
	}{
		{Number(42), "42"},
		{Number(0.5), "0.5"},
		{Variable("uid"), "uid"},
		{Operator("&&"), "&&"},
		{lp, "("},
		{rp, ")"},
		{Token{}, "<invalid>"},
	}
	for _, c := range cases {
		if got := c.tok.String(); got != c.want {
			t.Errorf("%#v.String() = %q, want %q", c.tok, got, c.want)
		}
	}
}
