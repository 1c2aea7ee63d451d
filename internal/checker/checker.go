// Package checker implements BMinor's semantic analysis: name binding,
// scope resolution, and full type checking over the parsed AST.
//
// Structurally grounded in the teacher's ir/validate.go — a tree walk
// dispatching on node kind, reporting through a diagnostics sink and
// continuing after every error rather than aborting — generalized from
// the teacher's small VSL type lattice (integer/real only) to BMinor's
// richer one (integer, float, boolean, char, string, arrays, functions),
// and rewritten from the teacher's stack-based scope walk to the
// parent-chained internal/symtab this project uses. The exact rule
// wording and per-node semantics come from original_source/Checker.py,
// which the distilled spec in turn was written from.
package checker

import (
	"errors"

	"bminor/internal/ast"
	"bminor/internal/diag"
	"bminor/internal/symtab"
	"bminor/internal/types"
)

// unknown is the type sentinel used when a node's real type cannot be
// determined because of an earlier error. checkPrint reports nothing for
// it; other checks compare it like any other type, so an expression or
// declaration built on it can draw further diagnostics.
var unknown = &types.Type{Kind: types.Invalid}

// Checker walks a Program node, resolving names against nested scopes and
// annotating every expression node's Type field.
type Checker struct {
	bag    *diag.Bag
	global *symtab.Scope
}

// Check type-checks program, reporting every diagnostic found to bag. It
// returns the global scope, which internal/irgen.Generate takes and keeps
// on its Generator; the generator lowers declarations from the AST itself.
func Check(program *ast.Node, bag *diag.Bag) *symtab.Scope {
	c := &Checker{bag: bag, global: symtab.New("global", nil)}
	for _, decl := range program.Stmts {
		c.checkTop(decl, c.global)
	}
	return c.global
}

func (c *Checker) errorf(line int, format string, args ...interface{}) {
	c.bag.Report(line, format, args...)
}

// checkTop dispatches a top-level declaration or statement (spec §4.4:
// "top-level accepts both declarations and the statements that would form
// main").
func (c *Checker) checkTop(n *ast.Node, scope *symtab.Scope) {
	switch n.Kind {
	case ast.VarDecl:
		c.checkVarDecl(n, scope)
	case ast.ArrayDecl:
		c.checkArrayDecl(n, scope)
	case ast.FuncDecl:
		c.checkFuncDecl(n, scope)
	default:
		c.checkStmt(n, scope)
	}
}

// ---- Declarations ---------------------------------------------------------

func (c *Checker) checkVarDecl(n *ast.Node, scope *symtab.Scope) {
	if n.Init != nil {
		c.checkExpr(n.Init, scope)
		if !types.Compatible(n.DeclType, n.Init.Type) {
			c.errorf(n.Line, "tipos no coinciden: no se puede inicializar %q de tipo %s con %s",
				n.Name, n.DeclType, n.Init.Type)
		}
	}
	n.Type = n.DeclType
	c.add(scope, n.Name, n)
}

// checkArrayDecl implements spec §4.6.2's ArrayDecl rule: only 1-D is
// accepted, the size must be a positive integer literal, and the
// declaration registers under the composite array type.
func (c *Checker) checkArrayDecl(n *ast.Node, scope *symtab.Scope) {
	size, ok := literalArraySize(n.Size)
	if !ok {
		c.errorf(n.Line, "el tamaño de un arreglo debe ser un literal entero positivo")
		n.Type = unknown
		c.add(scope, n.Name, n)
		return
	}

	arrType := types.NewArray(n.DeclType, size)
	n.Type = arrType

	if n.Init != nil {
		c.checkArrayLit(n.Init, n.DeclType, scope)
	}
	c.add(scope, n.Name, n)
}

// literalArraySize extracts a compile-time positive integer constant from
// an array-size expression. BMinor has no generalized constant folding
// (spec's Non-goals exclude optimization passes), so only a bare IntLit
// qualifies — exactly what spec §4.6.2 requires ("the dimension must be a
// positive integer literal").
func literalArraySize(n *ast.Node) (int, bool) {
	if n == nil || n.Kind != ast.IntLit || n.IntVal <= 0 {
		return 0, false
	}
	return int(n.IntVal), true
}

func (c *Checker) checkArrayLit(n *ast.Node, elemType *types.Type, scope *symtab.Scope) {
	if len(n.Elems) == 0 {
		c.errorf(n.Line, "el literal de arreglo no puede estar vacío")
		n.Type = unknown
		return
	}
	for _, e := range n.Elems {
		c.checkExpr(e, scope)
		if !types.Compatible(e.Type, elemType) {
			c.errorf(e.Line, "los elementos del literal de arreglo no coinciden en tipo")
		}
	}
	n.Type = types.NewArray(elemType, len(n.Elems))
}

// checkFuncDecl implements spec §4.6.2's FuncDecl rule: add to the
// enclosing scope first so recursive and forward calls resolve, open a
// function-tagged scope, register the parameter nodes (VarParm/ArrayParm)
// with their types, then visit the body.
func (c *Checker) checkFuncDecl(n *ast.Node, scope *symtab.Scope) {
	params := make([]*types.Type, len(n.Params))
	for i, p := range n.Params {
		params[i] = paramType(p)
	}
	n.Type = types.NewFunction(params, n.DeclType)
	c.add(scope, n.Name, n)

	fnScope := symtab.New(n.Name, scope)
	for _, p := range n.Params {
		p.Type = paramType(p)
		c.add(fnScope, p.Name, p)
	}
	c.checkBlock(n.Body, fnScope)
}

func paramType(p *ast.Node) *types.Type {
	if p.Kind == ast.ArrayParm {
		return types.NewArray(p.DeclType, 0)
	}
	return p.DeclType
}

// add registers name in scope, reporting whichever of the two
// declaration-conflict diagnostics symtab.Add signals.
func (c *Checker) add(scope *symtab.Scope, name string, decl *ast.Node) {
	if err := scope.Add(name, decl); err != nil {
		switch {
		case errors.Is(err, symtab.ErrConflict):
			c.errorf(decl.Line, "%q ya fue declarado con un tipo distinto", name)
		case errors.Is(err, symtab.ErrDefined):
			c.errorf(decl.Line, "%q ya fue declarado", name)
		}
	}
}

// ---- Statements -------------------------------------------------------

func (c *Checker) checkBlock(n *ast.Node, scope *symtab.Scope) {
	for _, s := range n.Stmts {
		c.checkStmt(s, scope)
	}
}

func (c *Checker) checkStmt(n *ast.Node, scope *symtab.Scope) {
	switch n.Kind {
	case ast.Block:
		c.checkBlock(n, symtab.New("block", scope))
	case ast.If:
		c.checkCond(n.Cond, scope, "if")
		c.checkBlock(n.Body, symtab.New("block", scope))
		if n.Else != nil {
			c.checkBlock(n.Else, symtab.New("block", scope))
		}
	case ast.While:
		c.checkCond(n.Cond, scope, "while")
		c.checkBlock(n.Body, symtab.New("block", scope))
	case ast.DoWhile:
		c.checkBlock(n.Body, symtab.New("block", scope))
		c.checkCond(n.Cond, scope, "do-while")
	case ast.For:
		c.checkFor(n, scope)
	case ast.Return:
		c.checkReturn(n, scope)
	case ast.Assign:
		c.checkAssign(n, scope)
	case ast.ExprStmt:
		if n.Expr != nil {
			c.checkExpr(n.Expr, scope)
		}
	case ast.Print:
		c.checkPrint(n, scope)
	case ast.VarDecl:
		c.checkVarDecl(n, scope)
	case ast.ArrayDecl:
		c.checkArrayDecl(n, scope)
	case ast.FuncDecl:
		c.checkFuncDecl(n, scope)
	}
}

func (c *Checker) checkCond(cond *ast.Node, scope *symtab.Scope, where string) {
	c.checkExpr(cond, scope)
	if !types.Equal(cond.Type, types.Bool) {
		c.errorf(cond.Line, "la condición de %s debe ser boolean, se encontró %s", where, cond.Type)
	}
}

// checkFor gives the loop its own scope for init/update, per spec §4.6.3.
func (c *Checker) checkFor(n *ast.Node, scope *symtab.Scope) {
	forScope := symtab.New("for", scope)
	if n.Init != nil {
		c.checkStmt(n.Init, forScope)
	}
	if n.Cond != nil {
		c.checkCond(n.Cond, forScope, "for")
	}
	if n.Update != nil {
		c.checkStmt(n.Update, forScope)
	}
	c.checkBlock(n.Body, symtab.New("block", forScope))
}

// checkReturn implements spec §4.6.3's Return rule: resolve the owning
// function by the nearest function-tagged scope, not "global".
func (c *Checker) checkReturn(n *ast.Node, scope *symtab.Scope) {
	fn := enclosingFunc(scope)
	if fn == nil {
		c.errorf(n.Line, "return fuera de una función")
		return
	}
	retType := fn.DeclType
	if n.Expr == nil {
		if !types.Equal(retType, types.VoidTy) {
			c.errorf(n.Line, "falta el valor de retorno en una función que no es void")
		}
		return
	}
	c.checkExpr(n.Expr, scope)
	if !types.Compatible(n.Expr.Type, retType) {
		c.errorf(n.Line, "el tipo de retorno %s no coincide con el tipo declarado %s", n.Expr.Type, retType)
	}
}

// enclosingFunc walks scope's parent chain for the nearest FuncDecl scope,
// identified by a non-"global"/"block"/"for" tag that names a FuncDecl
// visible from that scope.
func enclosingFunc(scope *symtab.Scope) *ast.Node {
	for s := scope; s != nil; s = s.Parent {
		if s.Tag == "global" || s.Tag == "block" || s.Tag == "for" {
			continue
		}
		if decl, ok := s.Get(s.Tag); ok && decl.Kind == ast.FuncDecl {
			return decl
		}
	}
	return nil
}

func (c *Checker) checkAssign(n *ast.Node, scope *symtab.Scope) {
	c.checkExpr(n.Loc, scope)
	c.checkExpr(n.Expr, scope)
	if !types.Compatible(n.Loc.Type, n.Expr.Type) {
		c.errorf(n.Line, "tipos no coinciden en la asignación: %s y %s", n.Loc.Type, n.Expr.Type)
	}
}

// checkPrint implements spec §4.6.3: print accepts integer, boolean,
// char, string, float — no arrays.
func (c *Checker) checkPrint(n *ast.Node, scope *symtab.Scope) {
	c.checkExpr(n.Expr, scope)
	t := n.Expr.Type
	if t == nil || t.Kind == types.Invalid {
		return
	}
	switch t.Kind {
	case types.Integer, types.Boolean, types.Char, types.String, types.Float:
	default:
		c.errorf(n.Expr.Line, "print no admite el tipo %s", t)
	}
}

// ---- Expressions --------------------------------------------------------

func (c *Checker) checkExpr(n *ast.Node, scope *symtab.Scope) {
	switch n.Kind {
	case ast.IntLit, ast.FloatLit, ast.CharLit, ast.StringLit, ast.BoolLit:
		// Type already set at construction.
	case ast.BinOp:
		c.checkBinOp(n, scope)
	case ast.UnaryOp:
		c.checkUnaryOp(n, scope)
	case ast.PreInc, ast.PreDec, ast.PostInc, ast.PostDec:
		c.checkIncDec(n, scope)
	case ast.Call:
		c.checkCall(n, scope)
	case ast.VarLoc:
		c.checkVarLoc(n, scope)
	case ast.ArrayLoc:
		c.checkArrayLoc(n, scope)
	case ast.ArrayLit:
		n.Type = unknown // only legal as a declaration initializer; see checkArrayLit
	default:
		n.Type = unknown
	}
}

func (c *Checker) checkBinOp(n *ast.Node, scope *symtab.Scope) {
	c.checkExpr(n.L, scope)
	c.checkExpr(n.R, scope)
	result := types.CheckBinOp(n.Op, n.L.Type, n.R.Type)
	if result == nil {
		c.errorf(n.Line, "tipos no coinciden para el operador %q: %s y %s", n.Op, n.L.Type, n.R.Type)
		n.Type = unknown
		return
	}
	n.Type = result
}

func (c *Checker) checkUnaryOp(n *ast.Node, scope *symtab.Scope) {
	c.checkExpr(n.X, scope)
	result := types.CheckUnaryOp(n.Op, n.X.Type)
	if result == nil {
		c.errorf(n.Line, "tipos no coinciden para el operador unario %q: %s", n.Op, n.X.Type)
		n.Type = unknown
		return
	}
	n.Type = result
}

// checkIncDec implements spec §4.6.4: the operand must be an lvalue,
// currently restricted to VarLoc, and integer-typed.
func (c *Checker) checkIncDec(n *ast.Node, scope *symtab.Scope) {
	if n.X.Kind != ast.VarLoc {
		c.errorf(n.Line, "el operando de ++/-- no es una variable")
		n.Type = unknown
		return
	}
	c.checkExpr(n.X, scope)
	if !types.Equal(n.X.Type, types.Int) {
		c.errorf(n.Line, "++/-- requiere un operando integer, se encontró %s", n.X.Type)
		n.Type = unknown
		return
	}
	n.Type = types.Int
}

func (c *Checker) checkCall(n *ast.Node, scope *symtab.Scope) {
	decl, ok := scope.Get(n.Name)
	for _, a := range n.Args {
		c.checkExpr(a, scope)
	}
	if !ok || decl.Kind != ast.FuncDecl {
		c.errorf(n.Line, "%q no está definida como función", n.Name)
		n.Type = unknown
		return
	}
	n.Type = decl.Type.Result

	if len(n.Args) != len(decl.Params) {
		c.errorf(n.Line, "número de argumentos incorrecto en la llamada a %q: se esperaban %d, se encontraron %d",
			n.Name, len(decl.Params), len(n.Args))
		return
	}
	for i, a := range n.Args {
		want := decl.Type.Params[i]
		if !types.Compatible(a.Type, want) {
			c.errorf(a.Line, "el argumento %d de %q tiene tipo %s, se esperaba %s", i+1, n.Name, a.Type, want)
		}
	}
}

func (c *Checker) checkVarLoc(n *ast.Node, scope *symtab.Scope) {
	decl, ok := scope.Get(n.Name)
	if !ok {
		c.errorf(n.Line, "variable %q no está definida", n.Name)
		n.Type = unknown
		return
	}
	n.Type = decl.Type
}

// checkArrayLoc implements spec §4.6.4: the symbol must be an ArrayDecl
// or ArrayParm, exactly one integer index is required, and the node's type is the
// element type.
func (c *Checker) checkArrayLoc(n *ast.Node, scope *symtab.Scope) {
	decl, ok := scope.Get(n.Name)
	if !ok || (decl.Kind != ast.ArrayDecl && decl.Kind != ast.ArrayParm) {
		c.errorf(n.Line, "%q no es un arreglo", n.Name)
		n.Type = unknown
		for _, idx := range n.Indices {
			c.checkExpr(idx, scope)
		}
		return
	}
	if len(n.Indices) != 1 {
		c.errorf(n.Line, "se requiere exactamente un índice para %q", n.Name)
		n.Type = unknown
		return
	}
	idx := n.Indices[0]
	c.checkExpr(idx, scope)
	if !types.Equal(idx.Type, types.Int) {
		c.errorf(idx.Line, "el índice de %q debe ser integer, se encontró %s", n.Name, idx.Type)
	}
	n.Type = types.ElementType(decl.Type)
	if n.Type == nil {
		n.Type = unknown
	}
}
