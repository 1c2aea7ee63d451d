package checker

import (
	"testing"

	"bminor/internal/diag"
	"bminor/internal/parser"
	"bminor/internal/types"
)

func check(t *testing.T, src string) *diag.Bag {
	t.Helper()
	bag := diag.New(nil)
	prog := parser.Parse(src, bag)
	if bag.Count() > 0 {
		t.Fatalf("source failed to parse: %d diagnostics", bag.Count())
	}
	Check(prog, bag)
	return bag
}

func TestCheckValidProgram(t *testing.T) {
	src := `add: function integer (a: integer, b: integer) = {
		return a + b;
	}
	main: function void () = {
		x: integer = add(1, 2);
		print x;
	}`
	if bag := check(t, src); bag.Count() != 0 {
		t.Fatalf("expected no diagnostics, got %d", bag.Count())
	}
}

func TestCheckTypeMismatchOnInit(t *testing.T) {
	bag := check(t, `x: integer = 1.5;`)
	if bag.Count() == 0 {
		t.Fatalf("expected a type-mismatch diagnostic")
	}
}

func TestCheckUndefinedVariable(t *testing.T) {
	bag := check(t, `main: function void () = { print y; }`)
	if bag.Count() == 0 {
		t.Fatalf("expected an undefined-variable diagnostic")
	}
}

func TestCheckDuplicateDeclarationSameType(t *testing.T) {
	bag := check(t, `x: integer = 1; x: integer = 2;`)
	if bag.Count() == 0 {
		t.Fatalf("expected a duplicate-declaration diagnostic")
	}
}

func TestCheckConditionMustBeBoolean(t *testing.T) {
	bag := check(t, `main: function void () = { if (1) { print 1; } }`)
	if bag.Count() == 0 {
		t.Fatalf("expected a non-boolean-condition diagnostic")
	}
}

func TestCheckArrayDeclAndIndex(t *testing.T) {
	src := `main: function void () = {
		xs: array[3] integer = {1, 2, 3};
		print xs[0];
	}`
	if bag := check(t, src); bag.Count() != 0 {
		t.Fatalf("expected no diagnostics, got %d", bag.Count())
	}
}

func TestCheckArraySizeMustBeLiteral(t *testing.T) {
	src := `main: function void () = {
		n: integer = 3;
		xs: array[n] integer;
	}`
	if bag := check(t, src); bag.Count() == 0 {
		t.Fatalf("expected a diagnostic for a non-literal array size")
	}
}

func TestCheckMissingReturnValue(t *testing.T) {
	bag := check(t, `f: function integer () = { return; }`)
	if bag.Count() == 0 {
		t.Fatalf("expected a missing-return-value diagnostic")
	}
}

func TestCheckRecursiveCallResolves(t *testing.T) {
	src := `fact: function integer (n: integer) = {
		if (n <= 1) { return 1; }
		return n * fact(n - 1);
	}`
	if bag := check(t, src); bag.Count() != 0 {
		t.Fatalf("expected recursive self-call to resolve cleanly, got %d diagnostics", bag.Count())
	}
}

func TestCheckAnnotatesExpressionTypes(t *testing.T) {
	bag := diag.New(nil)
	prog := parser.Parse(`x: integer = 1 + 2;`, bag)
	Check(prog, bag)
	init := prog.Stmts[0].Init
	if init.Type == nil || init.Type.Kind != types.Integer {
		t.Fatalf("checker did not annotate the BinOp's Type field")
	}
}
