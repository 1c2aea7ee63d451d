// Package ast defines BMinor's abstract syntax tree.
//
// Grounded in the teacher's ir/nodetype.go: one flat Node type tagged by a
// Kind enum, carrying a debug Print/String pair. Two deliberate departures
// from the teacher, both called out in spec §9's DESIGN NOTES:
//
//   - The teacher's Node has a single untyped Data interface{} plus a flat
//     Children slice, requiring callers to know by convention which child
//     index means what. We give each Kind's fields a name (L/R for BinOp,
//     Cond/Body/Else for If, and so on), which is the Go-idiomatic reading
//     of "tagged-union match... exhaustiveness is a feature": a switch over
//     Kind reads its operands directly instead of indexing Children.
//   - The teacher's Node carries Entry *Symbol, a cached symbol-table
//     pointer. We drop that field entirely: giving ast a *symtab.Symbol
//     field would force an import cycle (symtab.Scope stores *ast.Node as
//     declarations). The checker does name resolution through
//     symtab.Scope.Get directly instead of a cached pointer; the IR
//     generator keeps its own name-to-address map.
//
// Every node carries Line (spec §3.2, "every node carries a lineno") and a
// mutable Type slot for expressions, filled in by internal/checker and
// consumed by internal/irgen; literal nodes have Type set at construction.
package ast

import (
	"fmt"
	"strings"

	"bminor/internal/types"
)

// Kind tags the syntactic category of a Node.
type Kind int

const (
	Program Kind = iota

	VarDecl
	ArrayDecl
	FuncDecl
	VarParm
	ArrayParm

	Block
	If
	While
	DoWhile
	For
	Return
	Assign
	ExprStmt
	Print

	BinOp
	UnaryOp
	PreInc
	PreDec
	PostInc
	PostDec
	Call
	VarLoc
	ArrayLoc
	ArrayLit

	IntLit
	FloatLit
	CharLit
	StringLit
	BoolLit
)

var kindNames = [...]string{
	Program: "Program",

	VarDecl:   "VarDecl",
	ArrayDecl: "ArrayDecl",
	FuncDecl:  "FuncDecl",
	VarParm:   "VarParm",
	ArrayParm: "ArrayParm",

	Block:    "Block",
	If:       "If",
	While:    "While",
	DoWhile:  "DoWhile",
	For:      "For",
	Return:   "Return",
	Assign:   "Assign",
	ExprStmt: "ExprStmt",
	Print:    "Print",

	BinOp:     "BinOp",
	UnaryOp:   "UnaryOp",
	PreInc:    "PreInc",
	PreDec:    "PreDec",
	PostInc:   "PostInc",
	PostDec:   "PostDec",
	Call:      "Call",
	VarLoc:    "VarLoc",
	ArrayLoc:  "ArrayLoc",
	ArrayLit:  "ArrayLit",
	IntLit:    "IntLit",
	FloatLit:  "FloatLit",
	CharLit:   "CharLit",
	StringLit: "StringLit",
	BoolLit:   "BoolLit",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Node is every BMinor AST node. Which fields are meaningful depends on
// Kind; see the per-Kind constructors below for the populated subset.
type Node struct {
	Kind Kind
	Line int

	// Type is nil until the checker resolves it (spec §3.2: "mutable type
	// slot that is unset at parse time"). Literal nodes set it eagerly at
	// construction since their type is never ambiguous.
	Type *types.Type

	Name     string      // VarDecl, ArrayDecl, FuncDecl, VarParm, ArrayParm, VarLoc, ArrayLoc, Call
	DeclType *types.Type // VarDecl/ArrayDecl/VarParm element type, FuncDecl return type

	Init   *Node   // VarDecl/ArrayDecl initializer (nil if absent); For init statement
	Size   *Node   // ArrayDecl declared size expression
	Params []*Node // FuncDecl parameters (VarParm/ArrayParm nodes)
	Body   *Node   // FuncDecl/If/While/DoWhile/For body, always a Block
	Else   *Node   // If else branch, a Block or nil
	Cond   *Node   // If/While/DoWhile/For condition
	Update *Node   // For update statement

	Stmts []*Node // Block statements

	Loc  *Node // Assign target lvalue
	Expr *Node // Assign/Return/ExprStmt/Print operand expression

	L, R *Node  // BinOp operands
	X    *Node  // UnaryOp/PreInc/PreDec/PostInc/PostDec operand
	Op   string // BinOp/UnaryOp operator text

	Args    []*Node // Call arguments
	Indices []*Node // ArrayLoc index expressions (exactly one, per spec §4.6)
	Elems   []*Node // ArrayLit elements

	IntVal    int64
	FloatVal  float64
	CharVal   byte
	StringVal string
	BoolVal   bool
}

// ---- Constructors -----------------------------------------------------

func NewProgram(decls []*Node) *Node {
	return &Node{Kind: Program, Stmts: decls}
}

func NewVarDecl(name string, declType *types.Type, init *Node, line int) *Node {
	return &Node{Kind: VarDecl, Name: name, DeclType: declType, Init: init, Line: line}
}

// NewArrayDecl builds an array declaration. elemType is resolved already:
// BMinor's array element type is always one of the primitive type
// keywords, a grammar terminal, so the parser never needs an intermediate
// "type expression" node for it.
func NewArrayDecl(name string, elemType *types.Type, size *Node, init *Node, line int) *Node {
	return &Node{Kind: ArrayDecl, Name: name, DeclType: elemType, Init: init, Size: size, Line: line}
}

func NewFuncDecl(name string, returnType *types.Type, params []*Node, body *Node, line int) *Node {
	return &Node{Kind: FuncDecl, Name: name, DeclType: returnType, Params: params, Body: body, Line: line}
}

func NewVarParm(name string, t *types.Type, line int) *Node {
	return &Node{Kind: VarParm, Name: name, DeclType: t, Line: line}
}

func NewArrayParm(name string, elemType *types.Type, line int) *Node {
	return &Node{Kind: ArrayParm, Name: name, DeclType: elemType, Line: line}
}

// NewBlock normalizes stmts into a Block node per spec §3.2/§4.4: "a
// single statement becomes a block containing it; a list becomes a block
// wrapping the list".
func NewBlock(stmts []*Node, line int) *Node {
	return &Node{Kind: Block, Stmts: stmts, Line: line}
}

// AsBlock wraps a single statement in a Block if it isn't already one, and
// returns nil unchanged (a missing else stays absent, never an empty
// block, per spec §4.4).
func AsBlock(n *Node) *Node {
	if n == nil {
		return nil
	}
	if n.Kind == Block {
		return n
	}
	return NewBlock([]*Node{n}, n.Line)
}

func NewIf(cond, then, els *Node, line int) *Node {
	return &Node{Kind: If, Cond: cond, Body: AsBlock(then), Else: AsBlock(els), Line: line}
}

func NewWhile(cond, body *Node, line int) *Node {
	return &Node{Kind: While, Cond: cond, Body: AsBlock(body), Line: line}
}

func NewDoWhile(body, cond *Node, line int) *Node {
	return &Node{Kind: DoWhile, Body: AsBlock(body), Cond: cond, Line: line}
}

func NewFor(init, cond, update, body *Node, line int) *Node {
	return &Node{Kind: For, Init: init, Cond: cond, Update: update, Body: AsBlock(body), Line: line}
}

func NewReturn(expr *Node, line int) *Node {
	return &Node{Kind: Return, Expr: expr, Line: line}
}

func NewAssign(loc, expr *Node, line int) *Node {
	return &Node{Kind: Assign, Loc: loc, Expr: expr, Line: line}
}

func NewExprStmt(expr *Node, line int) *Node {
	return &Node{Kind: ExprStmt, Expr: expr, Line: line}
}

func NewPrint(expr *Node, line int) *Node {
	return &Node{Kind: Print, Expr: expr, Line: line}
}

func NewBinOp(op string, l, r *Node, line int) *Node {
	return &Node{Kind: BinOp, Op: op, L: l, R: r, Line: line}
}

func NewUnaryOp(op string, x *Node, line int) *Node {
	return &Node{Kind: UnaryOp, Op: op, X: x, Line: line}
}

func NewPreInc(x *Node, line int) *Node  { return &Node{Kind: PreInc, X: x, Line: line} }
func NewPreDec(x *Node, line int) *Node  { return &Node{Kind: PreDec, X: x, Line: line} }
func NewPostInc(x *Node, line int) *Node { return &Node{Kind: PostInc, X: x, Line: line} }
func NewPostDec(x *Node, line int) *Node { return &Node{Kind: PostDec, X: x, Line: line} }

func NewCall(name string, args []*Node, line int) *Node {
	return &Node{Kind: Call, Name: name, Args: args, Line: line}
}

func NewVarLoc(name string, line int) *Node {
	return &Node{Kind: VarLoc, Name: name, Line: line}
}

func NewArrayLoc(name string, indices []*Node, line int) *Node {
	return &Node{Kind: ArrayLoc, Name: name, Indices: indices, Line: line}
}

func NewArrayLit(elems []*Node, line int) *Node {
	return &Node{Kind: ArrayLit, Elems: elems, Line: line}
}

func NewIntLit(v int64, line int) *Node {
	return &Node{Kind: IntLit, IntVal: v, Type: types.Int, Line: line}
}

func NewFloatLit(v float64, line int) *Node {
	return &Node{Kind: FloatLit, FloatVal: v, Type: types.Flt, Line: line}
}

func NewCharLit(v byte, line int) *Node {
	return &Node{Kind: CharLit, CharVal: v, Type: types.Chr, Line: line}
}

func NewStringLit(v string, line int) *Node {
	return &Node{Kind: StringLit, StringVal: v, Type: types.Str, Line: line}
}

func NewBoolLit(v bool, line int) *Node {
	return &Node{Kind: BoolLit, BoolVal: v, Type: types.Bool, Line: line}
}

// ---- Debug dump ---------------------------------------------------------

// String renders a one-line summary of n, grounded in the teacher's
// Node.String.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	switch n.Kind {
	case IntLit:
		return fmt.Sprintf("IntLit(%d)", n.IntVal)
	case FloatLit:
		return fmt.Sprintf("FloatLit(%g)", n.FloatVal)
	case CharLit:
		return fmt.Sprintf("CharLit(%q)", rune(n.CharVal))
	case StringLit:
		return fmt.Sprintf("StringLit(%q)", n.StringVal)
	case BoolLit:
		return fmt.Sprintf("BoolLit(%t)", n.BoolVal)
	case BinOp, UnaryOp:
		return fmt.Sprintf("%s(%q)", n.Kind, n.Op)
	case VarLoc, ArrayLoc, Call, VarDecl, ArrayDecl, FuncDecl, VarParm, ArrayParm:
		return fmt.Sprintf("%s(%s)", n.Kind, n.Name)
	default:
		return n.Kind.String()
	}
}

// Print recursively dumps n and its children, indenting by depth, in the
// teacher's ir/nodetype.go Node.Print style.
func (n *Node) Print(depth int) {
	if n == nil {
		fmt.Printf("%s---> NIL\n", strings.Repeat("  ", depth))
		return
	}
	fmt.Printf("%s%s\n", strings.Repeat("  ", depth), n.String())
	for _, c := range n.children() {
		c.Print(depth + 1)
	}
}

// children enumerates n's sub-nodes for Print in a fixed field order
// (Init, Size, Params, Body, Else, Cond, ...), independent of which named
// fields a given Kind actually uses; this is not always source order (a
// While lists its Body before its Cond).
func (n *Node) children() []*Node {
	var out []*Node
	add := func(c *Node) {
		if c != nil {
			out = append(out, c)
		}
	}
	add(n.Init)
	add(n.Size)
	out = append(out, n.Params...)
	add(n.Body)
	add(n.Else)
	add(n.Cond)
	add(n.Update)
	out = append(out, n.Stmts...)
	add(n.Loc)
	add(n.Expr)
	add(n.L)
	add(n.R)
	add(n.X)
	out = append(out, n.Args...)
	out = append(out, n.Indices...)
	out = append(out, n.Elems...)
	return out
}
