// Package compiler sequences BMinor's pipeline stages: lex, parse, check,
// generate. Grounded in the teacher's main.go run() function — read
// source, optionally dump the token stream and stop, parse, validate,
// generate — but without the teacher's worker pool: stages run one after
// another (the lexer scans on its own goroutine, feeding the parser), with every stage
// after the first gated on the shared diag.Bag's error count rather than
// the teacher's per-stage error-returning + separate ir.Errors() slice.
package compiler

import (
	"fmt"
	"os"

	"bminor/internal/ast"
	"bminor/internal/checker"
	"bminor/internal/cliopt"
	"bminor/internal/diag"
	"bminor/internal/irgen"
	"bminor/internal/lexer"
	"bminor/internal/parser"
	"bminor/internal/token"
)

// Result carries a successful compilation's generated module, if any
// stage beyond the syntax tree was actually run.
type Result struct {
	Program *ast.Node
	Gen     *irgen.Generator
}

// Run executes the pipeline described by opt against src, reporting
// diagnostics to bag. It stops at the first stage that leaves bag
// non-empty, matching spec §5's "each stage gates the next on a clean
// diagnostics bag" rule.
func Run(src string, opt cliopt.Options, bag *diag.Bag) (*Result, error) {
	if opt.TokenStream {
		return nil, DumpTokens(src, bag)
	}

	program := parser.Parse(src, bag)
	if bag.Count() > 0 {
		return nil, fmt.Errorf("syntax error")
	}

	global := checker.Check(program, bag)
	if bag.Count() > 0 {
		return nil, fmt.Errorf("semantic error")
	}

	gen, err := irgen.Generate(moduleName(opt), program, global)
	if err != nil {
		return nil, fmt.Errorf("code generation error: %w", err)
	}

	return &Result{Program: program, Gen: gen}, nil
}

func moduleName(opt cliopt.Options) string {
	if opt.Src != "" {
		return opt.Src
	}
	return "bminor_module"
}

// DumpTokens lexes src and writes its token stream to stdout, one token
// per line, per the -ts flag's contract (teacher's frontend.TokenStream).
func DumpTokens(src string, bag *diag.Bag) error {
	lx := lexer.New(src, bag)
	lx.Run()
	for {
		t := lx.Next()
		fmt.Fprintln(os.Stdout, t.String())
		if t.Kind == token.EOF {
			break
		}
	}
	return nil
}
