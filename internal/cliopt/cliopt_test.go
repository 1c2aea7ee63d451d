package cliopt

import (
	"os"
	"testing"
)

func withArgs(t *testing.T, args []string, fn func()) {
	t.Helper()
	old := os.Args
	os.Args = append([]string{"bminorc"}, args...)
	defer func() { os.Args = old }()
	fn()
}

func TestParseArgsSourceOnly(t *testing.T) {
	withArgs(t, []string{"prog.bminor"}, func() {
		opt, err := ParseArgs()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if opt.Src != "prog.bminor" {
			t.Fatalf("Src = %q, want prog.bminor", opt.Src)
		}
	})
}

func TestParseArgsFlags(t *testing.T) {
	withArgs(t, []string{"-o", "out.ll", "-S", "-vb", "prog.bminor"}, func() {
		opt, err := ParseArgs()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if opt.Out != "out.ll" || !opt.EmitIR || !opt.Verbose || opt.Src != "prog.bminor" {
			t.Fatalf("unexpected options: %+v", opt)
		}
	})
}

func TestParseArgsMissingSource(t *testing.T) {
	withArgs(t, []string{"-vb"}, func() {
		if _, err := ParseArgs(); err == nil {
			t.Fatalf("expected an error when no source file is given")
		}
	})
}

func TestParseArgsDanglingFlag(t *testing.T) {
	withArgs(t, []string{"-o"}, func() {
		if _, err := ParseArgs(); err == nil {
			t.Fatalf("expected an error for -o with no argument")
		}
	})
}
