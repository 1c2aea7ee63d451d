package parser

import (
	"testing"

	"bminor/internal/ast"
	"bminor/internal/diag"
)

func parse(t *testing.T, src string) (*ast.Node, *diag.Bag) {
	t.Helper()
	bag := diag.New(nil)
	return Parse(src, bag), bag
}

func TestParseVarDecl(t *testing.T) {
	prog, bag := parse(t, `x: integer = 1 + 2;`)
	if bag.Count() != 0 {
		t.Fatalf("unexpected diagnostics: %d", bag.Count())
	}
	if len(prog.Stmts) != 1 || prog.Stmts[0].Kind != ast.VarDecl {
		t.Fatalf("expected a single VarDecl, got %v", prog.Stmts)
	}
}

func TestParseFuncDecl(t *testing.T) {
	src := `add: function integer (a: integer, b: integer) = {
		return a + b;
	}`
	prog, bag := parse(t, src)
	if bag.Count() != 0 {
		t.Fatalf("unexpected diagnostics: %d", bag.Count())
	}
	if len(prog.Stmts) != 1 || prog.Stmts[0].Kind != ast.FuncDecl {
		t.Fatalf("expected a single FuncDecl, got %v", prog.Stmts)
	}
	fn := prog.Stmts[0]
	if len(fn.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Params))
	}
	if len(fn.Body.Stmts) != 1 || fn.Body.Stmts[0].Kind != ast.Return {
		t.Fatalf("expected function body to hold one Return statement")
	}
}

// TestAssignVsDeclarationDisambiguation guards against a regression where
// the parser lacked real lookahead and treated every identifier-led
// top-level statement as a named declaration.
func TestAssignVsDeclarationDisambiguation(t *testing.T) {
	src := `main: function void () = {
		x: integer = 0;
		x = 5;
		print x;
	}`
	prog, bag := parse(t, src)
	if bag.Count() != 0 {
		t.Fatalf("unexpected diagnostics: %d", bag.Count())
	}
	body := prog.Stmts[0].Body.Stmts
	if len(body) != 3 {
		t.Fatalf("expected 3 statements in main's body, got %d", len(body))
	}
	if body[1].Kind != ast.Assign {
		t.Fatalf("expected the second statement to be a plain Assign, got %s", body[1].Kind)
	}
}

func TestParseForCStyle(t *testing.T) {
	src := `main: function void () = {
		for (i: integer = 0; i < 10; ++i) {
			print i;
		}
	}`
	prog, bag := parse(t, src)
	if bag.Count() != 0 {
		t.Fatalf("unexpected diagnostics: %d", bag.Count())
	}
	forNode := prog.Stmts[0].Body.Stmts[0]
	if forNode.Kind != ast.For {
		t.Fatalf("expected a For node, got %s", forNode.Kind)
	}
	if forNode.Init == nil || forNode.Cond == nil || forNode.Update == nil {
		t.Fatalf("for-loop missing init/cond/update: %+v", forNode)
	}
}

// TestParseForRangeSugar exercises the `for i in range(a,b)` desugaring;
// this previously had a lookahead stub that always matched, misparsing
// every identifier-led for-loop as range-sugar.
func TestParseForRangeSugar(t *testing.T) {
	src := `main: function void () = {
		for (i in range(0, 10)) {
			print i;
		}
	}`
	prog, bag := parse(t, src)
	if bag.Count() != 0 {
		t.Fatalf("unexpected diagnostics: %d", bag.Count())
	}
	forNode := prog.Stmts[0].Body.Stmts[0]
	if forNode.Kind != ast.For {
		t.Fatalf("expected desugared For node, got %s", forNode.Kind)
	}
	if forNode.Init.Kind != ast.Assign {
		t.Fatalf("expected desugared init to be an Assign, got %s", forNode.Init.Kind)
	}
	if forNode.Update.Expr.Kind != ast.PreInc {
		t.Fatalf("expected desugared update to be a PreInc, got %s", forNode.Update.Expr.Kind)
	}
}

func TestParseArrayDecl(t *testing.T) {
	prog, bag := parse(t, `xs: array[3] integer = {1, 2, 3};`)
	if bag.Count() != 0 {
		t.Fatalf("unexpected diagnostics: %d", bag.Count())
	}
	decl := prog.Stmts[0]
	if decl.Kind != ast.ArrayDecl {
		t.Fatalf("expected ArrayDecl, got %s", decl.Kind)
	}
	if len(decl.Init.Elems) != 3 {
		t.Fatalf("expected 3 initializer elements, got %d", len(decl.Init.Elems))
	}
}

func TestOperatorPrecedence(t *testing.T) {
	prog, bag := parse(t, `x: integer = 1 + 2 * 3;`)
	if bag.Count() != 0 {
		t.Fatalf("unexpected diagnostics: %d", bag.Count())
	}
	top := prog.Stmts[0].Init
	if top.Op != "+" {
		t.Fatalf("expected '+' at the top, multiplication should bind tighter; got %q", top.Op)
	}
	if top.R.Op != "*" {
		t.Fatalf("expected '*' on the right operand, got %q", top.R.Op)
	}
}

func TestSyntaxErrorDoesNotHang(t *testing.T) {
	_, bag := parse(t, `x: integer = ;`)
	if bag.Count() == 0 {
		t.Fatalf("expected at least one diagnostic for malformed input")
	}
}
