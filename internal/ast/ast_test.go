package ast

import "testing"

func TestAsBlockWrapsSingleStatement(t *testing.T) {
	stmt := NewExprStmt(NewIntLit(1, 1), 1)
	blk := AsBlock(stmt)
	if blk.Kind != Block {
		t.Fatalf("AsBlock did not produce a Block, got %s", blk.Kind)
	}
	if len(blk.Stmts) != 1 || blk.Stmts[0] != stmt {
		t.Fatalf("AsBlock did not wrap the given statement faithfully")
	}
}

func TestAsBlockIdempotent(t *testing.T) {
	blk := NewBlock([]*Node{NewExprStmt(NewIntLit(1, 1), 1)}, 1)
	if AsBlock(blk) != blk {
		t.Fatalf("AsBlock re-wrapped an existing Block")
	}
}

func TestAsBlockNilStaysNil(t *testing.T) {
	if AsBlock(nil) != nil {
		t.Fatalf("AsBlock(nil) should stay nil, not become an empty block")
	}
}

func TestLiteralConstructorsSetType(t *testing.T) {
	if NewIntLit(1, 1).Type == nil {
		t.Fatalf("NewIntLit did not set Type eagerly")
	}
	if NewStringLit("s", 1).Type == nil {
		t.Fatalf("NewStringLit did not set Type eagerly")
	}
	if NewBoolLit(true, 1).Type == nil {
		t.Fatalf("NewBoolLit did not set Type eagerly")
	}
}

func TestNodeStringDoesNotPanicOnNil(t *testing.T) {
	var n *Node
	if n.String() != "<nil>" {
		t.Fatalf("nil Node.String() = %q, want <nil>", n.String())
	}
}

func TestChildrenEnumeratesAcrossKinds(t *testing.T) {
	cond := NewBinOp("<", NewVarLoc("i", 1), NewIntLit(10, 1), 1)
	body := NewBlock([]*Node{NewExprStmt(NewCall("f", nil, 1), 1)}, 1)
	n := NewWhile(cond, body, 1)
	kids := n.children()
	if len(kids) != 2 {
		t.Fatalf("While should expose Cond and Body as children, got %d", len(kids))
	}
}
