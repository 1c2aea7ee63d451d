package irgen

import (
	"tinygo.org/x/go-llvm"

	"bminor/internal/ast"
	"bminor/internal/types"
)

// genPrint lowers a print statement to a call into libc's printf, selecting
// the format specifier from the expression's checked type rather than
// inspecting its IR type dynamically the way the teacher's genPrint does
// (spec §4.7.5 fixes the mapping at the source-type level: integer->%d,
// float->%f, char->%c, string->%s, boolean->%d after an i1->i32
// zero-extension, since printf has no boolean conversion).
func (g *Generator) genPrint(n *ast.Node) error {
	printf := g.printfDecl()

	v, err := g.genExpr(n.Expr)
	if err != nil {
		return err
	}

	var format string
	switch n.Expr.Type.Kind {
	case types.Integer:
		format = "%d\n"
	case types.Float:
		format = "%f\n"
	case types.Char:
		format = "%c\n"
		v = g.builder.CreateZExt(v, g.ctx.Int32Type(), "")
	case types.Boolean:
		format = "%d\n"
		v = g.builder.CreateZExt(v, g.ctx.Int32Type(), "")
	case types.String:
		format = "%s\n"
	default:
		format = "%d\n"
	}

	fstr := g.builder.CreateGlobalStringPtr(format, g.nextStringName())
	g.builder.CreateCall(printf, []llvm.Value{fstr, v}, "")
	return nil
}

// printfDecl returns the module's printf declaration, creating it on
// first use (teacher's genPrintf/genPrint lazily declare printf the same
// way).
func (g *Generator) printfDecl() llvm.Value {
	if fn := g.mod.NamedFunction("printf"); !fn.IsNil() {
		return fn
	}
	i8ptr := llvm.PointerType(g.ctx.Int8Type(), 0)
	ftyp := llvm.FunctionType(g.ctx.Int32Type(), []llvm.Type{i8ptr}, true)
	return llvm.AddFunction(g.mod, "printf", ftyp)
}
