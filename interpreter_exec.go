// interpreter_exec.go — private execution engine for Lox.
//
// Statement execution and expression evaluation are two switches over the
// node sum types. Two non-normal completions travel as panics:
//   - *RuntimeError, raised by fail(), unwinds to Interpret's recover.
//   - returnSig carries a return value out of arbitrary statement depth and
//     is caught at the function frame boundary (callable.go).
//
// The moving environment pointer is saved and restored with defer so every
// exit path, signal propagation included, leaves ip.env where it found it.
package lox

// returnSig is the early-exit signal of a 'return' statement.
type returnSig struct {
	v Value
}

// fail raises a runtime error positioned at tok.
func fail(tok Token, msg string) {
	panic(&RuntimeError{Token: tok, Msg: msg})
}

// ───────────────────────────────── statements ───────────────────────────────

func (ip *Interpreter) exec(s Stmt) {
	switch t := s.(type) {
	case *ExpressionStmt:
		ip.eval(t.Expression)

	case *PrintStmt:
		v := ip.eval(t.Expression)
		ip.print(FormatValue(v))

	case *VarStmt:
		v := Nil
		if t.Initializer != nil {
			v = ip.eval(t.Initializer)
		}
		ip.env.Define(t.Name.Lexeme, v)

	case *BlockStmt:
		ip.executeBlock(t.Statements, NewEnv(ip.env))

	case *IfStmt:
		if truthy(ip.eval(t.Condition)) {
			ip.exec(t.Then)
		} else if t.Else != nil {
			ip.exec(t.Else)
		}

	case *WhileStmt:
		for truthy(ip.eval(t.Condition)) {
			ip.exec(t.Body)
		}

	case *FunctionStmt:
		f := &Fun{Decl: t, Closure: ip.env}
		ip.env.Define(t.Name.Lexeme, FunVal(f))

	case *ReturnStmt:
		v := Nil
		if t.Value != nil {
			v = ip.eval(t.Value)
		}
		panic(returnSig{v: v})

	case *ClassStmt:
		ip.execClass(t)
	}
}

// executeBlock runs stmts in env and restores the previous environment on
// all exit paths, including signal propagation.
func (ip *Interpreter) executeBlock(stmts []Stmt, env *Env) {
	prev := ip.env
	ip.env = env
	defer func() { ip.env = prev }()
	for _, s := range stmts {
		ip.exec(s)
	}
}

// execClass evaluates a class declaration. The name is defined as nil first
// so method bodies can refer to the class; with a superclass, an extra
// environment holding 'super' wraps the method closures.
func (ip *Interpreter) execClass(t *ClassStmt) {
	var super *Class
	if t.Superclass != nil {
		sv := ip.eval(t.Superclass)
		if sv.Tag != VTClass {
			fail(t.Superclass.Name, "Superclass must be a class.")
		}
		super = sv.Data.(*Class)
	}

	ip.env.Define(t.Name.Lexeme, Nil)

	env := ip.env
	if super != nil {
		env = NewEnv(env)
		env.Define("super", ClassVal(super))
	}

	methods := make(map[string]*Fun, len(t.Methods))
	for _, m := range t.Methods {
		methods[m.Name.Lexeme] = &Fun{
			Decl:          m,
			Closure:       env,
			IsInitializer: m.Name.Lexeme == "init",
		}
	}

	c := &Class{Name: t.Name.Lexeme, Superclass: super, Methods: methods}
	if err := ip.env.Set(t.Name.Lexeme, ClassVal(c)); err != nil {
		fail(t.Name, err.Error())
	}
}

func (ip *Interpreter) print(s string) {
	ip.stdout.Write([]byte(s + "\n"))
}

// ──────────────────────────────── expressions ───────────────────────────────

func (ip *Interpreter) eval(e Expr) Value {
	switch t := e.(type) {
	case *LiteralExpr:
		return t.Value

	case *GroupingExpr:
		return ip.eval(t.Expression)

	case *UnaryExpr:
		return ip.evalUnary(t)

	case *BinaryExpr:
		return ip.evalBinary(t)

	case *LogicalExpr:
		left := ip.eval(t.Left)
		if t.Operator.Type == OR {
			if truthy(left) {
				return left
			}
		} else {
			if !truthy(left) {
				return left
			}
		}
		return ip.eval(t.Right)

	case *VariableExpr:
		return ip.lookUpVariable(t.Name, t)

	case *AssignExpr:
		v := ip.eval(t.Value)
		if dist, ok := ip.locals[e]; ok {
			ip.env.SetAt(dist, t.Name.Lexeme, v)
		} else if err := ip.Globals.Set(t.Name.Lexeme, v); err != nil {
			fail(t.Name, err.Error())
		}
		return v

	case *CallExpr:
		return ip.evalCall(t)

	case *GetExpr:
		obj := ip.eval(t.Object)
		if obj.Tag != VTInstance {
			fail(t.Name, "Only instances have properties.")
		}
		return ip.getProperty(obj.Data.(*Instance), t.Name)

	case *SetExpr:
		obj := ip.eval(t.Object)
		if obj.Tag != VTInstance {
			fail(t.Name, "Only instances have fields.")
		}
		v := ip.eval(t.Value)
		obj.Data.(*Instance).Fields[t.Name.Lexeme] = v
		return v

	case *ThisExpr:
		return ip.lookUpVariable(t.Keyword, t)

	case *SuperExpr:
		return ip.evalSuper(t)
	}
	return Nil
}

// lookUpVariable reads through the side table: resolved expressions fetch at
// their recorded distance, everything else is a global.
func (ip *Interpreter) lookUpVariable(name Token, e Expr) Value {
	var v Value
	var err error
	if dist, ok := ip.locals[e]; ok {
		v, err = ip.env.GetAt(dist, name.Lexeme)
	} else {
		v, err = ip.Globals.Get(name.Lexeme)
	}
	if err != nil {
		fail(name, err.Error())
	}
	return v
}

func (ip *Interpreter) evalUnary(t *UnaryExpr) Value {
	right := ip.eval(t.Right)
	switch t.Operator.Type {
	case BANG:
		return Bool(!truthy(right))
	case MINUS:
		if right.Tag != VTNum {
			fail(t.Operator, "Operand must be a number.")
		}
		return Num(-right.Data.(float64))
	}
	return Nil
}

func (ip *Interpreter) evalBinary(t *BinaryExpr) Value {
	left := ip.eval(t.Left)
	right := ip.eval(t.Right)
	op := t.Operator

	switch op.Type {
	case PLUS:
		switch {
		case left.Tag == VTNum && right.Tag == VTNum:
			return Num(left.Data.(float64) + right.Data.(float64))
		case left.Tag == VTStr || right.Tag == VTStr:
			// either-operand-string concatenates both print forms
			return Str(FormatValue(left) + FormatValue(right))
		}
		fail(op, "Operands must be two numbers or two strings.")

	case MINUS:
		a, b := numOperands(op, left, right)
		return Num(a - b)
	case STAR:
		a, b := numOperands(op, left, right)
		return Num(a * b)
	case SLASH:
		// division by zero yields IEEE infinity or NaN
		a, b := numOperands(op, left, right)
		return Num(a / b)

	case GREATER:
		a, b := numOperands(op, left, right)
		return Bool(a > b)
	case GREATER_EQUAL:
		a, b := numOperands(op, left, right)
		return Bool(a >= b)
	case LESS:
		a, b := numOperands(op, left, right)
		return Bool(a < b)
	case LESS_EQUAL:
		a, b := numOperands(op, left, right)
		return Bool(a <= b)

	case EQUAL_EQUAL:
		return Bool(valuesEqual(left, right))
	case BANG_EQUAL:
		return Bool(!valuesEqual(left, right))
	}
	return Nil
}

func numOperands(op Token, left, right Value) (float64, float64) {
	if left.Tag != VTNum || right.Tag != VTNum {
		fail(op, "Operands must be numbers.")
	}
	return left.Data.(float64), right.Data.(float64)
}

func (ip *Interpreter) evalCall(t *CallExpr) Value {
	callee := ip.eval(t.Callee)
	args := make([]Value, 0, len(t.Args))
	for _, a := range t.Args {
		args = append(args, ip.eval(a))
	}

	switch callee.Tag {
	case VTFun:
		f := callee.Data.(*Fun)
		checkArity(t.Paren, f.arity(), len(args))
		return ip.callFun(f, args)
	case VTClass:
		c := callee.Data.(*Class)
		checkArity(t.Paren, c.arity(), len(args))
		return ip.instantiate(c, args)
	}
	fail(t.Paren, "Can only call functions and classes.")
	return Nil
}

// evalSuper reads the superclass at the resolved distance and the receiver
// one environment closer in, then binds the named method to the receiver.
func (ip *Interpreter) evalSuper(t *SuperExpr) Value {
	dist := ip.locals[t]
	sv, err := ip.env.GetAt(dist, "super")
	if err != nil {
		fail(t.Keyword, err.Error())
	}
	ov, err := ip.env.GetAt(dist-1, "this")
	if err != nil {
		fail(t.Keyword, err.Error())
	}
	method := sv.Data.(*Class).findMethod(t.Method.Lexeme)
	if method == nil {
		fail(t.Method, "Undefined property '"+t.Method.Lexeme+"'.")
	}
	return FunVal(method.bind(ov.Data.(*Instance)))
}

// ─────────────────────────── truthiness & equality ──────────────────────────

// truthy: nil and false are falsy; every other value is truthy.
func truthy(v Value) bool {
	switch v.Tag {
	case VTNil:
		return false
	case VTBool:
		return v.Data.(bool)
	}
	return true
}

// valuesEqual implements '=='. No implicit conversions: values of different
// tags are never equal. Reference kinds compare by identity.
func valuesEqual(a, b Value) bool {
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case VTNil:
		return true
	case VTBool:
		return a.Data.(bool) == b.Data.(bool)
	case VTNum:
		return a.Data.(float64) == b.Data.(float64)
	case VTStr:
		return a.Data.(string) == b.Data.(string)
	default:
		return a.Data == b.Data
	}
}
