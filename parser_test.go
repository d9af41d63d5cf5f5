package lox

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
)

// --- helpers ---------------------------------------------------------------

func parseSrc(t *testing.T, src string) []Stmt {
	t.Helper()
	rep := NewReporter(io.Discard)
	stmts := Parse(NewScanner(src, rep).ScanTokens(), rep)
	if rep.HadError() {
		t.Fatalf("unexpected parse error for %q", src)
	}
	return stmts
}

func parseWithErrors(src string) ([]Stmt, *Reporter, string) {
	var buf bytes.Buffer
	rep := NewReporter(&buf)
	stmts := Parse(NewScanner(src, rep).ScanTokens(), rep)
	return stmts, rep, buf.String()
}

func parseExpr(t *testing.T, src string) Expr {
	t.Helper()
	stmts := parseSrc(t, src+";")
	es, ok := stmts[0].(*ExpressionStmt)
	if !ok {
		t.Fatalf("want expression statement, got %s", spew.Sdump(stmts[0]))
	}
	return es.Expression
}

// --- tests -----------------------------------------------------------------

func Test_Parser_Precedence_Factor_Over_Term(t *testing.T) {
	e := parseExpr(t, "1 + 2 * 3")
	add, ok := e.(*BinaryExpr)
	if !ok || add.Operator.Type != PLUS {
		t.Fatalf("want '+' at root, got %s", spew.Sdump(e))
	}
	mul, ok := add.Right.(*BinaryExpr)
	if !ok || mul.Operator.Type != STAR {
		t.Fatalf("want '*' on the right of '+', got %s", spew.Sdump(add.Right))
	}
}

func Test_Parser_Term_Is_Left_Associative(t *testing.T) {
	e := parseExpr(t, "1 - 2 - 3")
	outer, ok := e.(*BinaryExpr)
	if !ok || outer.Operator.Type != MINUS {
		t.Fatalf("want '-' at root, got %s", spew.Sdump(e))
	}
	inner, ok := outer.Left.(*BinaryExpr)
	if !ok || inner.Operator.Type != MINUS {
		t.Fatalf("left-assoc: want '-' on the left, got %s", spew.Sdump(outer.Left))
	}
}

func Test_Parser_Equality_Vs_Assignment(t *testing.T) {
	if _, ok := parseExpr(t, "a == b").(*BinaryExpr); !ok {
		t.Fatal("a == b should be a binary expression")
	}
	if _, ok := parseExpr(t, "a = b").(*AssignExpr); !ok {
		t.Fatal("a = b should be an assignment")
	}
}

func Test_Parser_Assignment_Reinterprets_Get_As_Set(t *testing.T) {
	e := parseExpr(t, "a.b = 1")
	set, ok := e.(*SetExpr)
	if !ok {
		t.Fatalf("want SetExpr, got %s", spew.Sdump(e))
	}
	if set.Name.Lexeme != "b" {
		t.Fatalf("want property b, got %q", set.Name.Lexeme)
	}
	if _, ok := set.Object.(*VariableExpr); !ok {
		t.Fatalf("want variable object, got %s", spew.Sdump(set.Object))
	}
}

func Test_Parser_Assignment_Is_Right_Associative(t *testing.T) {
	e := parseExpr(t, "a = b = 1")
	outer, ok := e.(*AssignExpr)
	if !ok || outer.Name.Lexeme != "a" {
		t.Fatalf("want assignment to a, got %s", spew.Sdump(e))
	}
	if _, ok := outer.Value.(*AssignExpr); !ok {
		t.Fatalf("want nested assignment, got %s", spew.Sdump(outer.Value))
	}
}

func Test_Parser_Invalid_Assignment_Target_Is_NonFatal(t *testing.T) {
	stmts, rep, out := parseWithErrors("1 = 2; print 3;")
	if !rep.HadError() {
		t.Fatal("want parse error")
	}
	if !strings.Contains(out, "[line 1] Error at '=': Invalid assignment target.") {
		t.Fatalf("bad diagnostic: %q", out)
	}
	// parsing continued through both statements
	if len(stmts) != 2 {
		t.Fatalf("want 2 statements, got %d: %s", len(stmts), spew.Sdump(stmts))
	}
}

func Test_Parser_Logical_Nodes_And_Precedence(t *testing.T) {
	e := parseExpr(t, "a or b and c")
	or, ok := e.(*LogicalExpr)
	if !ok || or.Operator.Type != OR {
		t.Fatalf("want 'or' at root, got %s", spew.Sdump(e))
	}
	and, ok := or.Right.(*LogicalExpr)
	if !ok || and.Operator.Type != AND {
		t.Fatalf("want 'and' under 'or', got %s", spew.Sdump(or.Right))
	}
}

func Test_Parser_Call_Chaining(t *testing.T) {
	e := parseExpr(t, "f(1)(2).g")
	get, ok := e.(*GetExpr)
	if !ok || get.Name.Lexeme != "g" {
		t.Fatalf("want .g at root, got %s", spew.Sdump(e))
	}
	call2, ok := get.Object.(*CallExpr)
	if !ok || len(call2.Args) != 1 {
		t.Fatalf("want call with one arg, got %s", spew.Sdump(get.Object))
	}
	if _, ok := call2.Callee.(*CallExpr); !ok {
		t.Fatalf("want chained call, got %s", spew.Sdump(call2.Callee))
	}
}

func Test_Parser_For_Desugars_To_While(t *testing.T) {
	stmts := parseSrc(t, "for (var i = 0; i < 3; i = i + 1) print i;")
	block, ok := stmts[0].(*BlockStmt)
	if !ok || len(block.Statements) != 2 {
		t.Fatalf("want Block[init, while], got %s", spew.Sdump(stmts[0]))
	}
	if _, ok := block.Statements[0].(*VarStmt); !ok {
		t.Fatalf("want var initializer first, got %s", spew.Sdump(block.Statements[0]))
	}
	loop, ok := block.Statements[1].(*WhileStmt)
	if !ok {
		t.Fatalf("want while loop, got %s", spew.Sdump(block.Statements[1]))
	}
	inner, ok := loop.Body.(*BlockStmt)
	if !ok || len(inner.Statements) != 2 {
		t.Fatalf("want Block[body, increment], got %s", spew.Sdump(loop.Body))
	}
	if _, ok := inner.Statements[1].(*ExpressionStmt); !ok {
		t.Fatalf("want increment expression last, got %s", spew.Sdump(inner.Statements[1]))
	}
}

func Test_Parser_For_Without_Clauses(t *testing.T) {
	stmts := parseSrc(t, "for (;;) print 1;")
	loop, ok := stmts[0].(*WhileStmt)
	if !ok {
		t.Fatalf("want bare while (no wrapping block), got %s", spew.Sdump(stmts[0]))
	}
	lit, ok := loop.Condition.(*LiteralExpr)
	if !ok || !truthy(lit.Value) {
		t.Fatalf("want literal-true condition, got %s", spew.Sdump(loop.Condition))
	}
	if _, ok := loop.Body.(*PrintStmt); !ok {
		t.Fatalf("want undecorated body, got %s", spew.Sdump(loop.Body))
	}
}

func Test_Parser_Dangling_Else_Binds_To_Nearest_If(t *testing.T) {
	stmts := parseSrc(t, "if (a) if (b) print 1; else print 2;")
	outer := stmts[0].(*IfStmt)
	if outer.Else != nil {
		t.Fatalf("else must bind to the inner if: %s", spew.Sdump(outer))
	}
	inner, ok := outer.Then.(*IfStmt)
	if !ok || inner.Else == nil {
		t.Fatalf("inner if should own the else: %s", spew.Sdump(outer.Then))
	}
}

func Test_Parser_Class_With_Superclass_And_Methods(t *testing.T) {
	stmts := parseSrc(t, "class B < A { init(n) {} m() {} }")
	cls := stmts[0].(*ClassStmt)
	if cls.Name.Lexeme != "B" || cls.Superclass == nil || cls.Superclass.Name.Lexeme != "A" {
		t.Fatalf("bad class header: %s", spew.Sdump(cls))
	}
	if len(cls.Methods) != 2 || cls.Methods[0].Name.Lexeme != "init" {
		t.Fatalf("bad method list: %s", spew.Sdump(cls.Methods))
	}
}

func Test_Parser_Super_Expression(t *testing.T) {
	e := parseExpr(t, "super.m")
	se, ok := e.(*SuperExpr)
	if !ok || se.Method.Lexeme != "m" {
		t.Fatalf("want super.m, got %s", spew.Sdump(e))
	}
}

func Test_Parser_Synchronize_Recovers_At_Statement_Boundary(t *testing.T) {
	stmts, rep, _ := parseWithErrors("var = 1; print 2;")
	if !rep.HadError() {
		t.Fatal("want parse error")
	}
	// the bad declaration is dropped, the next statement survives
	if len(stmts) != 1 {
		t.Fatalf("want 1 surviving statement, got %d: %s", len(stmts), spew.Sdump(stmts))
	}
	if _, ok := stmts[0].(*PrintStmt); !ok {
		t.Fatalf("want print statement, got %s", spew.Sdump(stmts[0]))
	}
}

func Test_Parser_Error_At_End(t *testing.T) {
	_, rep, out := parseWithErrors("print 1")
	if !rep.HadError() {
		t.Fatal("want parse error")
	}
	if !strings.Contains(out, "Error at end:") {
		t.Fatalf("want 'at end' diagnostic, got %q", out)
	}
}

func Test_Parser_Error_At_Lexeme(t *testing.T) {
	_, _, out := parseWithErrors("print ;")
	if !strings.Contains(out, "[line 1] Error at ';': Expect expression.") {
		t.Fatalf("bad diagnostic: %q", out)
	}
}

func Test_Parser_Argument_Limit_Reports_At_256th(t *testing.T) {
	var b strings.Builder
	b.WriteString("f(")
	for i := 0; i < 256; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("1")
	}
	b.WriteString(");")

	stmts, rep, out := parseWithErrors(b.String())
	if !rep.HadError() {
		t.Fatal("want reported error")
	}
	if !strings.Contains(out, "Can't have more than 255 arguments.") {
		t.Fatalf("bad diagnostic: %q", out)
	}
	// non-fatal: the call still parses with all 256 arguments
	call := stmts[0].(*ExpressionStmt).Expression.(*CallExpr)
	if len(call.Args) != 256 {
		t.Fatalf("want 256 parsed args, got %d", len(call.Args))
	}
}
