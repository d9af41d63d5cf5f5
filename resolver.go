// resolver.go — static resolution pass.
//
// Walks the parsed tree once, maintaining a stack of block scopes, and
// records in the interpreter's side table how many environments each local
// variable use must hop outward at runtime. Globals are never tracked: a use
// with no scope hit gets no entry and the interpreter reads Globals for it.
//
// The pass also rejects the constructs that are only detectable statically:
// reading a local in its own initializer, duplicate local declarations,
// return outside a function, returning a value from an initializer, and
// 'this'/'super' misuse. Errors are reported and resolution
// continues, so one pass collects them all; the caller suppresses execution
// if any were found.
package lox

// FunctionKind tracks what kind of function body is being resolved.
type FunctionKind int

const (
	FunNone FunctionKind = iota
	FunFunction
	FunMethod
	FunInitializer
)

// ClassKind tracks whether 'this'/'super' are meaningful here.
type ClassKind int

const (
	ClassNone ClassKind = iota
	ClassClass
	ClassSubclass
)

// Resolver computes scope distances into the interpreter's side table.
type Resolver struct {
	ip  *Interpreter
	rep *Reporter

	// Each scope maps a name to its defined flag: false between declare and
	// define, true once the initializer has been resolved.
	scopes []map[string]bool

	currentFunction FunctionKind
	currentClass    ClassKind
}

// NewResolver creates a resolver feeding the given interpreter's side table.
func NewResolver(ip *Interpreter, rep *Reporter) *Resolver {
	return &Resolver{ip: ip, rep: rep}
}

// Resolve walks the whole program.
func (r *Resolver) Resolve(stmts []Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

// ────────────────────────────── scope operations ────────────────────────────

func (r *Resolver) beginScope() { r.scopes = append(r.scopes, map[string]bool{}) }
func (r *Resolver) endScope()   { r.scopes = r.scopes[:len(r.scopes)-1] }

func (r *Resolver) declare(name Token) {
	if len(r.scopes) == 0 {
		return
	}
	top := r.scopes[len(r.scopes)-1]
	if _, ok := top[name.Lexeme]; ok {
		r.rep.Error(name.Line, "Already a variable with this name in this scope.")
	}
	top[name.Lexeme] = false
}

func (r *Resolver) define(name Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

// resolveLocal searches scopes inner-to-outer; a hit records the hop count
// for this expression node. No hit means the variable is global.
func (r *Resolver) resolveLocal(e Expr, name Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.ip.resolve(e, len(r.scopes)-1-i)
			return
		}
	}
}

// ─────────────────────────────────── walk ───────────────────────────────────

func (r *Resolver) resolveStmt(s Stmt) {
	switch t := s.(type) {
	case *ExpressionStmt:
		r.resolveExpr(t.Expression)

	case *PrintStmt:
		r.resolveExpr(t.Expression)

	case *VarStmt:
		r.declare(t.Name)
		if t.Initializer != nil {
			r.resolveExpr(t.Initializer)
		}
		r.define(t.Name)

	case *BlockStmt:
		r.beginScope()
		r.Resolve(t.Statements)
		r.endScope()

	case *IfStmt:
		r.resolveExpr(t.Condition)
		r.resolveStmt(t.Then)
		if t.Else != nil {
			r.resolveStmt(t.Else)
		}

	case *WhileStmt:
		r.resolveExpr(t.Condition)
		r.resolveStmt(t.Body)

	case *FunctionStmt:
		r.declare(t.Name)
		r.define(t.Name)
		r.resolveFunction(t, FunFunction)

	case *ReturnStmt:
		if r.currentFunction == FunNone {
			r.rep.Error(t.Keyword.Line, "Can't return from top-level code.")
		}
		if t.Value != nil {
			if r.currentFunction == FunInitializer {
				r.rep.Error(t.Keyword.Line, "Can't return a value from an initializer.")
			}
			r.resolveExpr(t.Value)
		}

	case *ClassStmt:
		r.resolveClass(t)
	}
}

func (r *Resolver) resolveFunction(fn *FunctionStmt, kind FunctionKind) {
	enclosing := r.currentFunction
	r.currentFunction = kind

	r.beginScope()
	for _, p := range fn.Params {
		r.declare(p)
		r.define(p)
	}
	r.Resolve(fn.Body)
	r.endScope()

	r.currentFunction = enclosing
}

func (r *Resolver) resolveClass(t *ClassStmt) {
	enclosing := r.currentClass
	r.currentClass = ClassClass

	r.declare(t.Name)
	r.define(t.Name)

	if t.Superclass != nil {
		if t.Superclass.Name.Lexeme == t.Name.Lexeme {
			r.rep.Error(t.Superclass.Name.Line, "A class can't inherit from itself.")
		}
		r.currentClass = ClassSubclass
		r.resolveExpr(t.Superclass)

		r.beginScope()
		r.scopes[len(r.scopes)-1]["super"] = true
	}

	r.beginScope()
	r.scopes[len(r.scopes)-1]["this"] = true

	for _, m := range t.Methods {
		kind := FunMethod
		if m.Name.Lexeme == "init" {
			kind = FunInitializer
		}
		r.resolveFunction(m, kind)
	}

	r.endScope()
	if t.Superclass != nil {
		r.endScope()
	}

	r.currentClass = enclosing
}

func (r *Resolver) resolveExpr(e Expr) {
	switch t := e.(type) {
	case *LiteralExpr:
		// nothing to resolve

	case *GroupingExpr:
		r.resolveExpr(t.Expression)

	case *UnaryExpr:
		r.resolveExpr(t.Right)

	case *BinaryExpr:
		r.resolveExpr(t.Left)
		r.resolveExpr(t.Right)

	case *LogicalExpr:
		r.resolveExpr(t.Left)
		r.resolveExpr(t.Right)

	case *VariableExpr:
		if len(r.scopes) > 0 {
			if defined, ok := r.scopes[len(r.scopes)-1][t.Name.Lexeme]; ok && !defined {
				r.rep.Error(t.Name.Line, "Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocal(e, t.Name)

	case *AssignExpr:
		r.resolveExpr(t.Value)
		r.resolveLocal(e, t.Name)

	case *CallExpr:
		r.resolveExpr(t.Callee)
		for _, a := range t.Args {
			r.resolveExpr(a)
		}

	case *GetExpr:
		r.resolveExpr(t.Object)

	case *SetExpr:
		r.resolveExpr(t.Object)
		r.resolveExpr(t.Value)

	case *ThisExpr:
		if r.currentClass == ClassNone {
			r.rep.Error(t.Keyword.Line, "Can't use 'this' outside of a class.")
			return
		}
		r.resolveLocal(e, t.Keyword)

	case *SuperExpr:
		switch r.currentClass {
		case ClassNone:
			r.rep.Error(t.Keyword.Line, "Can't use 'super' outside of a class.")
		case ClassSubclass:
			r.resolveLocal(e, t.Keyword)
		default:
			r.rep.Error(t.Keyword.Line, "Can't use 'super' in a class with no superclass.")
		}
	}
}
