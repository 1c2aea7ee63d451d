package compiler

import (
	"testing"

	"bminor/internal/cliopt"
	"bminor/internal/diag"
)

func TestRunValidProgramProducesModule(t *testing.T) {
	src := `add: function integer (a: integer, b: integer) = {
		return a + b;
	}
	main: function void () = {
		x: integer = add(1, 2);
		print x;
	}`
	bag := diag.New(nil)
	result, err := Run(src, cliopt.Options{Src: "test.bminor"}, bag)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil || result.Gen == nil {
		t.Fatalf("expected a generated module for a valid program")
	}
	defer result.Gen.Dispose()
}

func TestRunStopsAfterSyntaxError(t *testing.T) {
	bag := diag.New(nil)
	result, err := Run(`x: integer = ;`, cliopt.Options{Src: "test.bminor"}, bag)
	if err == nil {
		t.Fatalf("expected a syntax error")
	}
	if result != nil {
		t.Fatalf("expected no result once the syntax stage fails")
	}
}

func TestRunStopsAfterSemanticError(t *testing.T) {
	bag := diag.New(nil)
	result, err := Run(`main: function void () = { print y; }`, cliopt.Options{Src: "test.bminor"}, bag)
	if err == nil {
		t.Fatalf("expected a semantic error")
	}
	if result != nil {
		t.Fatalf("expected no result once the semantic stage fails")
	}
}

func TestRunTokenStreamModeSkipsLaterStages(t *testing.T) {
	bag := diag.New(nil)
	result, err := Run(`x: integer = 1;`, cliopt.Options{Src: "test.bminor", TokenStream: true}, bag)
	if err != nil {
		t.Fatalf("unexpected error in token-stream mode: %v", err)
	}
	if result != nil {
		t.Fatalf("token-stream mode should not produce a compilation result")
	}
}
