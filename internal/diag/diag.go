// Package diag collects and reports compiler diagnostics for one compilation.
//
// The original VSL teacher kept its error listener as process-wide state
// (util.perror, a channel-based singleton). BMinor scopes the same idea to a
// per-compilation Bag instead, per the teacher's own design note that a
// process-wide diagnostic counter should be "wrapped in a per-compilation
// context passed through the pipeline rather than module state" — necessary
// here because the lexer and parser run concurrently (see internal/lexer)
// and both may report against the same Bag.
package diag

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

// errorLabel renders "Error" in red unless fatih/color has color turned off
// (stdout is not a terminal, or NO_COLOR is set). The choice does not depend
// on which writer the Bag's sink is.
var errorLabel = color.New(color.FgRed, color.Bold).SprintFunc()

// Bag accumulates diagnostics reported during one compilation. It is safe
// for concurrent use: the lexer goroutine and the parser may both report
// against the same Bag while a source file is being scanned and parsed.
type Bag struct {
	mx    sync.Mutex
	count int
	out   io.Writer
}

// New returns a Bag that writes formatted diagnostics to out. If out is nil,
// os.Stderr is used.
func New(out io.Writer) *Bag {
	if out == nil {
		out = os.Stderr
	}
	return &Bag{out: out}
}

// Report formats msg, increments the diagnostic counter, and writes the
// result to the Bag's sink. A lineno of 0 or less omits the line number,
// per the "Error: <msg>" form in spec §6.4.
func (b *Bag) Report(lineno int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	label := errorLabel("Error")
	b.mx.Lock()
	b.count++
	if lineno > 0 {
		_, _ = fmt.Fprintf(b.out, "%s en línea %d: %s\n", label, lineno, msg)
	} else {
		_, _ = fmt.Fprintf(b.out, "%s: %s\n", label, msg)
	}
	b.mx.Unlock()
}

// Count returns the number of diagnostics reported so far.
func (b *Bag) Count() int {
	b.mx.Lock()
	defer b.mx.Unlock()
	return b.count
}

// Reset zeroes the diagnostic counter so the Bag can be reused for another
// compilation in the same process.
func (b *Bag) Reset() {
	b.mx.Lock()
	b.count = 0
	b.mx.Unlock()
}
