// Tests the lexer by verifying that a small BMinor snippet is tokenized
// into the expected stream, grounded in the teacher's frontend/lexer_test.go
// table-driven shape.
package lexer

import (
	"testing"

	"bminor/internal/diag"
	"bminor/internal/token"
)

func scan(t *testing.T, src string) ([]token.Token, *diag.Bag) {
	t.Helper()
	bag := diag.New(nil)
	lx := New(src, bag)
	lx.Run()
	var toks []token.Token
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return toks, bag
}

func TestLexerBasic(t *testing.T) {
	src := `integer x = 1 + 2;`
	toks, bag := scan(t, src)
	if bag.Count() != 0 {
		t.Fatalf("unexpected diagnostics: %d", bag.Count())
	}
	want := []token.Kind{
		token.KwInteger, token.Ident, token.Assign, token.IntLit,
		token.Plus, token.IntLit, token.Semi, token.EOF,
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Kind, k)
		}
	}
}

func TestLexerStringAndChar(t *testing.T) {
	toks, bag := scan(t, `"hello\n" 'a'`)
	if bag.Count() != 0 {
		t.Fatalf("unexpected diagnostics: %d", bag.Count())
	}
	if toks[0].Kind != token.StringLit || toks[1].Kind != token.CharLit {
		t.Fatalf("got %v, want StringLit then CharLit", toks)
	}
}

func TestLexerFloatVsInt(t *testing.T) {
	toks, _ := scan(t, `1 2.5 3e10`)
	want := []token.Kind{token.IntLit, token.FloatLit, token.FloatLit, token.EOF}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Kind, k)
		}
	}
}

func TestLexerIllegalCharacterContinues(t *testing.T) {
	toks, bag := scan(t, "x = 1 @ 2;")
	if bag.Count() != 1 {
		t.Fatalf("expected exactly one diagnostic, got %d", bag.Count())
	}
	last := toks[len(toks)-1]
	if last.Kind != token.EOF {
		t.Fatalf("scanning did not continue past the illegal character: %v", toks)
	}
}

func TestLexerTwoCharOperators(t *testing.T) {
	toks, _ := scan(t, `<= >= == != && || ++ --`)
	want := []token.Kind{
		token.Le, token.Ge, token.Eq, token.Ne, token.AndAnd, token.OrOr,
		token.Inc, token.Dec, token.EOF,
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Kind, k)
		}
	}
}

func TestLexerUnterminatedString(t *testing.T) {
	_, bag := scan(t, "\"oops\nrest")
	if bag.Count() == 0 {
		t.Fatalf("expected an unterminated-string diagnostic")
	}
}
