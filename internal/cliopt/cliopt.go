// Package cliopt parses bminorc's command-line arguments.
//
// Grounded in the teacher's util/args.go: the same Options struct +
// ParseArgs()/printHelp() shape, using tabwriter for the help listing and
// plain os.Args scanning rather than flag/pflag (the teacher never reaches
// for a flag-parsing library, so neither do we here). Trimmed to the
// flags BMinor actually needs — no thread count or target
// triple/vendor/CPU selection, since irgen emits to the host default
// target rather than the teacher's cross-compilation matrix.
package cliopt

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
)

// Options holds bminorc's parsed command-line configuration.
type Options struct {
	Src         string // path to the BMinor source file.
	Out         string // path to the output file (.ll or .o).
	TokenStream bool   // -ts: dump the token stream and exit.
	Verbose     bool   // -vb: print compiler statistics to stderr.
	EmitIR      bool   // -S: emit textual LLVM IR instead of an object file.
}

const appVersion = "bminorc 1.0"

// ParseArgs parses os.Args[1:] into Options. The last non-flag argument is
// the source path, matching the teacher's convention.
func ParseArgs() (Options, error) {
	opt := Options{}
	args := os.Args[1:]
	if len(args) == 0 {
		return opt, fmt.Errorf("no source file given")
	}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-h", "--h", "-help", "--help":
			printHelp()
			os.Exit(0)
		case "-v", "--v", "-version", "--version":
			fmt.Println(appVersion)
			os.Exit(0)
		case "-ts":
			opt.TokenStream = true
		case "-vb":
			opt.Verbose = true
		case "-S":
			opt.EmitIR = true
		case "-o":
			if i+1 >= len(args) {
				return opt, fmt.Errorf("got flag %s but no argument", args[i])
			}
			if strings.HasPrefix(args[i+1], "-") {
				return opt, fmt.Errorf("expected path to output file, got new flag %s", args[i+1])
			}
			opt.Out = args[i+1]
			i++
		default:
			if strings.HasPrefix(args[i], "-") {
				return opt, fmt.Errorf("unexpected flag: %s", args[i])
			}
			opt.Src = args[i]
		}
	}

	if opt.Src == "" {
		return opt, fmt.Errorf("no source file given")
	}
	return opt, nil
}

// printHelp prints a usage message to stdout, in the teacher's
// tabwriter-aligned style.
func printHelp() {
	w := tabwriter.NewWriter(os.Stdout, 6, 1, 1, 0, 0)
	_, _ = fmt.Fprintln(w, "-h, -help\tPrints this help message and exits.")
	_, _ = fmt.Fprintln(w, "--h, --help")
	_, _ = fmt.Fprintln(w, "-o\tPath and name of the output file.")
	_, _ = fmt.Fprintln(w, "-S\tEmit textual LLVM IR instead of an object file.")
	_, _ = fmt.Fprintln(w, "-ts\tPrint the token stream of the source file and exit.")
	_, _ = fmt.Fprintln(w, "-v, -version\tPrints the compiler version and exits.")
	_, _ = fmt.Fprintln(w, "--v, --version")
	_, _ = fmt.Fprintln(w, "-vb\tVerbose mode: print compiler statistics to stderr.")
	_ = w.Flush()
}
