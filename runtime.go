// runtime.go — pipeline assembly.
//
// A Runner owns one interpreter plus one reporter and drives the linear
// dataflow: source → tokens → statements → resolved statements → execution.
// Each stage fully consumes its predecessor; any scan/parse error skips
// resolution and execution, any resolve error skips execution.
package lox

import "io"

// Runner wires scanner, parser, resolver, and interpreter around shared
// error state. Global bindings persist across Run calls on one Runner,
// which is what the interactive prompt relies on.
type Runner struct {
	ip  *Interpreter
	rep *Reporter
}

// NewRuntime returns a fully-initialized runner. Program output (print)
// goes to stdout, diagnostics to stderr.
func NewRuntime(stdout, stderr io.Writer) *Runner {
	rep := NewReporter(stderr)
	return &Runner{ip: NewInterpreter(stdout, rep), rep: rep}
}

// Run executes src. Errors are reported through the runner's reporter;
// inspect HadError/HadRuntimeError afterwards.
func (r *Runner) Run(src string) {
	stmts, ok := r.compile(src)
	if !ok {
		return
	}
	r.ip.Interpret(stmts)
}

// RunInteractive is Run for the prompt: when src is a single bare
// expression statement, the expression's value is additionally returned
// (rendered by FormatValue) for echoing.
func (r *Runner) RunInteractive(src string) (echo string, hasEcho bool) {
	stmts, ok := r.compile(src)
	if !ok {
		return "", false
	}
	if len(stmts) == 1 {
		if es, isExpr := stmts[0].(*ExpressionStmt); isExpr {
			v, evalOK := r.ip.InterpretExpr(es.Expression)
			if !evalOK {
				return "", false
			}
			return FormatValue(v), true
		}
	}
	r.ip.Interpret(stmts)
	return "", false
}

// compile runs the three front-end stages and reports whether execution may
// proceed.
func (r *Runner) compile(src string) ([]Stmt, bool) {
	tokens := NewScanner(src, r.rep).ScanTokens()
	stmts := Parse(tokens, r.rep)
	if r.rep.HadError() {
		return nil, false
	}
	NewResolver(r.ip, r.rep).Resolve(stmts)
	if r.rep.HadError() {
		return nil, false
	}
	return stmts, true
}

// HadError reports whether any syntax error occurred.
func (r *Runner) HadError() bool { return r.rep.HadError() }

// HadRuntimeError reports whether any runtime error occurred.
func (r *Runner) HadRuntimeError() bool { return r.rep.HadRuntimeError() }

// Reset clears error state between prompt lines.
func (r *Runner) Reset() { r.rep.Reset() }
