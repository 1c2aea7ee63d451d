// Command bminorc is the BMinor compiler's entry point.
//
// Grounded in the teacher's main.go: ParseArgs, then a run(opt) function
// sequencing the pipeline and translating an error into a printed message
// plus a non-zero exit code. There is no goroutine-backed output writer or
// WaitGroup, unlike the teacher; the only goroutine in the pipeline is the
// lexer's scanner (see internal/lexer).
package main

import (
	"fmt"
	"os"
	"time"

	"tinygo.org/x/go-llvm"

	"bminor/internal/cliopt"
	"bminor/internal/compiler"
	"bminor/internal/diag"
)

func run(opt cliopt.Options) error {
	start := time.Now()

	src, err := os.ReadFile(opt.Src)
	if err != nil {
		return fmt.Errorf("could not read source file: %w", err)
	}

	bag := diag.New(os.Stderr)
	result, err := compiler.Run(string(src), opt, bag)
	if err != nil {
		return err
	}
	if opt.TokenStream {
		return nil
	}
	defer result.Gen.Dispose()

	if opt.Verbose {
		fmt.Fprintf(os.Stderr, "bminorc: compiled %s in %s\n", opt.Src, time.Since(start))
	}

	return emit(result, opt)
}

// emit verifies the generated module, then writes it as textual LLVM IR
// when -S is given or no output path is set (to stdout in the latter
// case), otherwise as an object file at opt.Out via the LLVM target
// machine — the same split the teacher's GenLLVM offers between
// human-readable and machine-consumable output.
func emit(result *compiler.Result, opt cliopt.Options) error {
	mod := result.Gen.Module()

	if err := llvm.VerifyModule(mod, llvm.PrintMessageAction); err != nil {
		return fmt.Errorf("module verification failed: %w", err)
	}

	if opt.EmitIR || opt.Out == "" {
		ir := mod.String()
		if opt.Out == "" {
			fmt.Print(ir)
			return nil
		}
		return os.WriteFile(opt.Out, []byte(ir), 0644)
	}

	return writeObjectFile(mod, opt.Out)
}

func writeObjectFile(mod llvm.Module, path string) error {
	llvm.InitializeAllTargetInfos()
	llvm.InitializeAllTargetMCs()
	llvm.InitializeAllAsmParsers()
	llvm.InitializeAllAsmPrinters()
	llvm.InitializeAllTargets()

	triple := llvm.DefaultTargetTriple()
	target, err := llvm.GetTargetFromTriple(triple)
	if err != nil {
		return fmt.Errorf("could not resolve target %q: %w", triple, err)
	}
	machine := target.CreateTargetMachine(triple, "generic", "",
		llvm.CodeGenLevelNone, llvm.RelocDefault, llvm.CodeModelDefault)
	defer machine.Dispose()

	data := machine.CreateTargetData()
	defer data.Dispose()
	mod.SetDataLayout(data.String())
	mod.SetTarget(machine.Triple())

	buf, err := machine.EmitToMemoryBuffer(mod, llvm.ObjectFile)
	if err != nil {
		return fmt.Errorf("could not emit object file: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

func main() {
	opt, err := cliopt.ParseArgs()
	if err != nil {
		fmt.Fprintf(os.Stderr, "bminorc: %s\n", err)
		os.Exit(1)
	}

	if err := run(opt); err != nil {
		fmt.Fprintf(os.Stderr, "bminorc: %s\n", err)
		os.Exit(1)
	}
}
