// printer.go — value stringification and the canonical source formatter.
//
// FormatValue is the runtime's single textual rendering of a value; the
// print statement and string coercion both go through it. FormatProgram /
// FormatStmt / FormatExpr render a parsed tree back to normalized Lox
// source; the formatter is idempotent (formatting formatted output is a
// fixed point), which is what the round-trip tests lean on.
package lox

import (
	"strconv"
	"strings"
)

// FormatValue renders a value the way 'print' shows it.
//
//	nil → "nil", booleans → "true"/"false", numbers → shortest round-trip
//	%g form (no fraction when integral; exponent form when the decimal
//	exponent is below -4 or 6 and up, e.g. 1e+06), strings → their text,
//	functions → "<fn NAME>" (natives "<native fn>"), classes → NAME,
//	instances → "NAME instance".
func FormatValue(v Value) string {
	switch v.Tag {
	case VTNil:
		return "nil"
	case VTBool:
		if v.Data.(bool) {
			return "true"
		}
		return "false"
	case VTNum:
		return strconv.FormatFloat(v.Data.(float64), 'g', -1, 64)
	case VTStr:
		return v.Data.(string)
	case VTFun:
		f := v.Data.(*Fun)
		if f.NativeName != "" {
			return "<native fn>"
		}
		return "<fn " + f.Decl.Name.Lexeme + ">"
	case VTClass:
		return v.Data.(*Class).Name
	case VTInstance:
		return v.Data.(*Instance).Class.Name + " instance"
	}
	return "nil"
}

/* ---------- canonical source formatter ---------- */

// FormatProgram renders statements as normalized source, one statement per
// line at each nesting level.
func FormatProgram(stmts []Stmt) string {
	p := &pp{}
	for _, s := range stmts {
		p.stmt(s)
	}
	return p.b.String()
}

// FormatStmt renders a single statement (trailing newline included).
func FormatStmt(s Stmt) string {
	p := &pp{}
	p.stmt(s)
	return p.b.String()
}

// FormatExpr renders an expression.
func FormatExpr(e Expr) string {
	p := &pp{}
	p.expr(e)
	return p.b.String()
}

type pp struct {
	b     strings.Builder
	depth int
}

func (p *pp) write(s string) { p.b.WriteString(s) }
func (p *pp) nl()            { p.b.WriteByte('\n') }
func (p *pp) pad() {
	for i := 0; i < p.depth; i++ {
		p.write("  ")
	}
}
func (p *pp) line(s string) {
	p.pad()
	p.write(s)
	p.nl()
}
func (p *pp) withIndent(fn func()) { p.depth++; fn(); p.depth-- }

func (p *pp) stmt(s Stmt) {
	switch t := s.(type) {
	case *ExpressionStmt:
		p.pad()
		p.expr(t.Expression)
		p.write(";")
		p.nl()

	case *PrintStmt:
		p.pad()
		p.write("print ")
		p.expr(t.Expression)
		p.write(";")
		p.nl()

	case *VarStmt:
		p.pad()
		p.write("var " + t.Name.Lexeme)
		if t.Initializer != nil {
			p.write(" = ")
			p.expr(t.Initializer)
		}
		p.write(";")
		p.nl()

	case *BlockStmt:
		p.line("{")
		p.withIndent(func() {
			for _, inner := range t.Statements {
				p.stmt(inner)
			}
		})
		p.line("}")

	case *IfStmt:
		p.pad()
		p.write("if (")
		p.expr(t.Condition)
		p.write(")")
		p.nl()
		p.withIndent(func() { p.stmt(t.Then) })
		if t.Else != nil {
			p.line("else")
			p.withIndent(func() { p.stmt(t.Else) })
		}

	case *WhileStmt:
		p.pad()
		p.write("while (")
		p.expr(t.Condition)
		p.write(")")
		p.nl()
		p.withIndent(func() { p.stmt(t.Body) })

	case *FunctionStmt:
		p.function(t, "fun ")

	case *ReturnStmt:
		p.pad()
		p.write("return")
		if t.Value != nil {
			p.write(" ")
			p.expr(t.Value)
		}
		p.write(";")
		p.nl()

	case *ClassStmt:
		p.pad()
		p.write("class " + t.Name.Lexeme)
		if t.Superclass != nil {
			p.write(" < " + t.Superclass.Name.Lexeme)
		}
		p.write(" {")
		p.nl()
		p.withIndent(func() {
			for _, m := range t.Methods {
				p.function(m, "")
			}
		})
		p.line("}")
	}
}

func (p *pp) function(fn *FunctionStmt, keyword string) {
	p.pad()
	p.write(keyword + fn.Name.Lexeme + "(")
	for i, param := range fn.Params {
		if i > 0 {
			p.write(", ")
		}
		p.write(param.Lexeme)
	}
	p.write(") {")
	p.nl()
	p.withIndent(func() {
		for _, s := range fn.Body {
			p.stmt(s)
		}
	})
	p.line("}")
}

func (p *pp) expr(e Expr) {
	switch t := e.(type) {
	case *LiteralExpr:
		p.write(literalSource(t.Value))

	case *GroupingExpr:
		p.write("(")
		p.expr(t.Expression)
		p.write(")")

	case *UnaryExpr:
		p.write(t.Operator.Lexeme)
		p.expr(t.Right)

	case *BinaryExpr:
		p.expr(t.Left)
		p.write(" " + t.Operator.Lexeme + " ")
		p.expr(t.Right)

	case *LogicalExpr:
		p.expr(t.Left)
		p.write(" " + t.Operator.Lexeme + " ")
		p.expr(t.Right)

	case *VariableExpr:
		p.write(t.Name.Lexeme)

	case *AssignExpr:
		p.write(t.Name.Lexeme + " = ")
		p.expr(t.Value)

	case *CallExpr:
		p.expr(t.Callee)
		p.write("(")
		for i, a := range t.Args {
			if i > 0 {
				p.write(", ")
			}
			p.expr(a)
		}
		p.write(")")

	case *GetExpr:
		p.expr(t.Object)
		p.write("." + t.Name.Lexeme)

	case *SetExpr:
		p.expr(t.Object)
		p.write("." + t.Name.Lexeme + " = ")
		p.expr(t.Value)

	case *ThisExpr:
		p.write("this")

	case *SuperExpr:
		p.write("super." + t.Method.Lexeme)
	}
}

// literalSource renders a literal so it re-scans to the same value. Numbers
// use fixed notation: the scanner accepts no exponent form, and 'f' with -1
// precision round-trips every double the scanner can produce.
func literalSource(v Value) string {
	switch v.Tag {
	case VTNum:
		return strconv.FormatFloat(v.Data.(float64), 'f', -1, 64)
	case VTStr:
		return "\"" + v.Data.(string) + "\""
	default:
		return FormatValue(v)
	}
}
