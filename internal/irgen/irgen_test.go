package irgen

import (
	"strings"
	"testing"

	"tinygo.org/x/go-llvm"

	"bminor/internal/checker"
	"bminor/internal/diag"
	"bminor/internal/parser"
)

func generate(t *testing.T, src string) (*Generator, *diag.Bag) {
	t.Helper()
	bag := diag.New(nil)
	prog := parser.Parse(src, bag)
	if bag.Count() > 0 {
		t.Fatalf("source failed to parse: %d diagnostics", bag.Count())
	}
	global := checker.Check(prog, bag)
	if bag.Count() > 0 {
		t.Fatalf("source failed to type-check: %d diagnostics", bag.Count())
	}
	gen, err := Generate("test", prog, global)
	if err != nil {
		t.Fatalf("Generate returned an error: %v", err)
	}
	return gen, bag
}

func TestGenerateSimpleFunction(t *testing.T) {
	gen, _ := generate(t, `add: function integer (a: integer, b: integer) = {
		return a + b;
	}`)
	defer gen.Dispose()

	ir := gen.Module().String()
	if !strings.Contains(ir, "define i32 @add") {
		t.Fatalf("expected a defined i32 @add function, got:\n%s", ir)
	}
}

func TestGenerateControlFlowTerminatesEveryBlock(t *testing.T) {
	gen, _ := generate(t, `classify: function integer (x: integer) = {
		if (x < 0) {
			return 0;
		} else {
			return 1;
		}
	}`)
	defer gen.Dispose()

	fn := gen.Module().NamedFunction("classify")
	if fn.IsNil() {
		t.Fatalf("expected a classify function in the module")
	}
	for bb := fn.FirstBasicBlock(); !bb.IsNil(); bb = llvm.NextBasicBlock(bb) {
		last := bb.LastInstruction()
		if last.IsNil() {
			t.Fatalf("basic block has no terminator")
		}
		if op := last.InstructionOpcode(); op != llvm.Ret && op != llvm.Br {
			t.Fatalf("basic block ends in opcode %v, not a ret or br terminator", op)
		}
	}
}

func TestGenerateWhileLoop(t *testing.T) {
	gen, _ := generate(t, `count: function integer (n: integer) = {
		i: integer = 0;
		while (i < n) {
			++i;
		}
		return i;
	}`)
	defer gen.Dispose()

	ir := gen.Module().String()
	if !strings.Contains(ir, "while.cond") {
		t.Fatalf("expected a while.cond block label in IR, got:\n%s", ir)
	}
}

func TestGenerateShortCircuitAnd(t *testing.T) {
	gen, _ := generate(t, `both: function boolean (a: boolean, b: boolean) = {
		return a && b;
	}`)
	defer gen.Dispose()

	ir := gen.Module().String()
	if !strings.Contains(ir, "sc.rhs") {
		t.Fatalf("expected short-circuit blocks for &&, got:\n%s", ir)
	}
}

func TestGenerateGlobalWithInitializer(t *testing.T) {
	gen, _ := generate(t, `counter: integer = 42;
	main: function void () = {
		print counter;
	}`)
	defer gen.Dispose()

	g := gen.Module().NamedGlobal("counter")
	if g.IsNil() {
		t.Fatalf("expected a module global named counter")
	}
}

func TestGenerateStringConcatenationFails(t *testing.T) {
	bag := diag.New(nil)
	prog := parser.Parse(`x: string = "a" + "b";`, bag)
	global := checker.Check(prog, bag)
	if bag.Count() > 0 {
		t.Fatalf("source failed to type-check: %d diagnostics", bag.Count())
	}
	if _, err := Generate("test", prog, global); err == nil {
		t.Fatalf("expected string concatenation to fail at code generation")
	}
}

// llvmNextBlock forwards to a NextBasicBlock method on its argument. The
// tests above do not use it; they call the package-level
// llvm.NextBasicBlock.
func llvmNextBlock(bb interface{ NextBasicBlock() interface{ IsNil() bool } }) interface{ IsNil() bool } {
	return bb.NextBasicBlock()
}
