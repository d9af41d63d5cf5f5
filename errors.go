// errors.go — the shared error reporter.
//
// All four pipeline stages report through one Reporter per run. It records
// that at least one syntax error and/or at least one runtime error occurred
// and prints a diagnostic line per report:
//
//	[line 2] Error at ')': Expect expression.     (parser)
//	[line 4] Error: Unterminated string.          (scanner, resolver)
//	Undefined variable 'x'.                       (runtime, message line)
//	[line 7]                                      (runtime, position line)
//
// The flags drive the callers' policy: any syntax error suppresses
// execution, a runtime error ends the current Interpret call, and the REPL
// clears both between lines.
package lox

import (
	"fmt"
	"io"
)

// Reporter is the mutable error sink shared by scanner, parser, resolver,
// and interpreter for the duration of one run.
type Reporter struct {
	out             io.Writer
	hadError        bool
	hadRuntimeError bool
}

// NewReporter creates a reporter writing diagnostics to out.
func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

// Error reports a syntax error with no lexeme context (scanner, resolver).
func (r *Reporter) Error(line int, msg string) {
	r.report(line, "", msg)
}

// ErrorAt reports a syntax error at a token (parser).
func (r *Reporter) ErrorAt(tok Token, msg string) {
	if tok.Type == EOF {
		r.report(tok.Line, " at end", msg)
		return
	}
	r.report(tok.Line, " at '"+tok.Lexeme+"'", msg)
}

// Runtime reports a runtime error and latches the runtime flag.
func (r *Reporter) Runtime(err *RuntimeError) {
	fmt.Fprintln(r.out, err.Error())
	r.hadRuntimeError = true
}

// HadError reports whether any syntax (scan/parse/resolve) error occurred.
func (r *Reporter) HadError() bool { return r.hadError }

// HadRuntimeError reports whether any runtime error occurred.
func (r *Reporter) HadRuntimeError() bool { return r.hadRuntimeError }

// Reset clears both flags; the prompt calls this between lines.
func (r *Reporter) Reset() {
	r.hadError = false
	r.hadRuntimeError = false
}

func (r *Reporter) report(line int, where, msg string) {
	fmt.Fprintf(r.out, "[line %d] Error%s: %s\n", line, where, msg)
	r.hadError = true
}
