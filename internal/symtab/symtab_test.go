package symtab

import (
	"errors"
	"testing"

	"bminor/internal/ast"
	"bminor/internal/types"
)

func decl(name string, t *types.Type) *ast.Node {
	n := ast.NewVarDecl(name, t, nil, 1)
	n.Type = t
	return n
}

func TestAddAndGet(t *testing.T) {
	s := New("global", nil)
	if err := s.Add("x", decl("x", types.Int)); err != nil {
		t.Fatalf("unexpected error adding fresh name: %v", err)
	}
	got, ok := s.Get("x")
	if !ok {
		t.Fatalf("Get did not find a just-added name")
	}
	if got.Type != types.Int {
		t.Fatalf("Get returned the wrong declaration")
	}
}

func TestAddSameTypeIsErrDefined(t *testing.T) {
	s := New("global", nil)
	_ = s.Add("x", decl("x", types.Int))
	err := s.Add("x", decl("x", types.Int))
	if !errors.Is(err, ErrDefined) {
		t.Fatalf("expected ErrDefined, got %v", err)
	}
}

func TestAddDifferentTypeIsErrConflict(t *testing.T) {
	s := New("global", nil)
	_ = s.Add("x", decl("x", types.Int))
	err := s.Add("x", decl("x", types.Flt))
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestGetWalksParentChain(t *testing.T) {
	parent := New("global", nil)
	_ = parent.Add("x", decl("x", types.Int))
	child := New("block", parent)

	if _, ok := child.Get("x"); !ok {
		t.Fatalf("Get should find a name bound only in a parent scope")
	}
	if _, ok := child.GetLocal("x"); ok {
		t.Fatalf("GetLocal should not see a parent-only binding")
	}
}

func TestShadowingInChildScope(t *testing.T) {
	parent := New("global", nil)
	_ = parent.Add("x", decl("x", types.Int))
	child := New("block", parent)
	if err := child.Add("x", decl("x", types.Flt)); err != nil {
		t.Fatalf("shadowing a parent binding with a new type in a child scope should succeed: %v", err)
	}
	got, _ := child.Get("x")
	if got.Type != types.Flt {
		t.Fatalf("child scope's binding should shadow the parent's")
	}
}
