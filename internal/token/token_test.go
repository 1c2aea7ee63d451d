package token

import "testing"

func TestLookupKeyword(t *testing.T) {
	cases := map[string]Kind{
		"if": KwIf, "else": KwElse, "while": KwWhile, "for": KwFor,
		"function": KwFunction, "integer": KwInteger, "true": KwTrue,
	}
	for word, want := range cases {
		got, ok := Lookup(word)
		if !ok {
			t.Fatalf("Lookup(%q): not found", word)
		}
		if got != want {
			t.Errorf("Lookup(%q) = %v, want %v", word, got, want)
		}
	}
}

func TestLookupNonKeyword(t *testing.T) {
	if _, ok := Lookup("foobar"); ok {
		t.Fatalf("Lookup(%q): expected not-found, got a hit", "foobar")
	}
}

func TestKindString(t *testing.T) {
	if KwIf.String() != "if" && KwIf.String() == "" {
		t.Fatalf("Kind.String() returned empty for KwIf")
	}
	if got := Ident.String(); got == "" {
		t.Fatalf("Kind.String() returned empty for Ident")
	}
}

func TestTokenString(t *testing.T) {
	tok := Token{Kind: Ident, Lexeme: "x", Line: 3}
	if got := tok.String(); got == "" {
		t.Fatalf("Token.String() returned empty string")
	}
}
