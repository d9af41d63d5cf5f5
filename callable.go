// callable.go — functions, classes, instances, and the call machinery.
package lox

import "fmt"

// Fun represents a function value: a user closure over a declaration, a
// bound method, or a registered native.
//
// Fields:
//   - Decl          — the declaration; nil for natives.
//   - Closure       — environment captured at declaration time. Methods
//     close over an extra frame defining 'this' (and 'super' under
//     inheritance).
//   - IsInitializer — true for methods named init; they always yield the
//     bound instance, whatever the body does.
//   - NativeName    — non-empty iff implemented by a registered native.
//   - NativeParams  — native parameter names; their count is the arity.
type Fun struct {
	Decl          *FunctionStmt
	Closure       *Env
	IsInitializer bool
	NativeName    string
	NativeParams  []string
}

func (f *Fun) arity() int {
	if f.NativeName != "" {
		return len(f.NativeParams)
	}
	return len(f.Decl.Params)
}

// bind returns a copy of the method whose closure wraps the original with
// 'this' defined to the instance.
func (f *Fun) bind(inst *Instance) *Fun {
	env := NewEnv(f.Closure)
	env.Define("this", InstanceVal(inst))
	return &Fun{Decl: f.Decl, Closure: env, IsInitializer: f.IsInitializer}
}

// Class is a callable class descriptor. Calling it constructs an instance.
type Class struct {
	Name       string
	Superclass *Class
	Methods    map[string]*Fun
}

// findMethod walks the class and its superclass chain.
func (c *Class) findMethod(name string) *Fun {
	for k := c; k != nil; k = k.Superclass {
		if m, ok := k.Methods[name]; ok {
			return m
		}
	}
	return nil
}

// arity of a class is the arity of its init method, or 0 without one.
func (c *Class) arity() int {
	if init := c.findMethod("init"); init != nil {
		return init.arity()
	}
	return 0
}

// Instance is an object with a mutable field map. Fields shadow methods on
// property reads; writes always go to the field map.
type Instance struct {
	Class  *Class
	Fields map[string]Value
}

func checkArity(paren Token, want, got int) {
	if want != got {
		fail(paren, fmt.Sprintf("Expected %d arguments but got %d.", want, got))
	}
}

// callFun invokes a function value whose arity has been checked. User
// functions run their body in a fresh child of the closure; a returnSig is
// consumed at this frame boundary. Initializers yield the bound instance on
// every exit path.
func (ip *Interpreter) callFun(f *Fun, args []Value) (res Value) {
	if f.NativeName != "" {
		return ip.native[f.NativeName](ip, args)
	}

	env := NewEnv(f.Closure)
	for i, p := range f.Decl.Params {
		env.Define(p.Lexeme, args[i])
	}

	defer func() {
		if r := recover(); r != nil {
			sig, ok := r.(returnSig)
			if !ok {
				panic(r)
			}
			if f.IsInitializer {
				res = f.boundThis()
			} else {
				res = sig.v
			}
		}
	}()

	ip.executeBlock(f.Decl.Body, env)
	if f.IsInitializer {
		return f.boundThis()
	}
	return Nil
}

// boundThis reads the instance a bound method closes over.
func (f *Fun) boundThis() Value {
	v, _ := f.Closure.GetAt(0, "this")
	return v
}

// instantiate creates a new instance and, if an init method exists, binds
// and invokes it with the arguments.
func (ip *Interpreter) instantiate(c *Class, args []Value) Value {
	inst := &Instance{Class: c, Fields: map[string]Value{}}
	if init := c.findMethod("init"); init != nil {
		ip.callFun(init.bind(inst), args)
	}
	return InstanceVal(inst)
}

// getProperty reads a field, falling back to a method bound to the instance.
func (ip *Interpreter) getProperty(inst *Instance, name Token) Value {
	if v, ok := inst.Fields[name.Lexeme]; ok {
		return v
	}
	if m := inst.Class.findMethod(name.Lexeme); m != nil {
		return FunVal(m.bind(inst))
	}
	fail(name, "Undefined property '"+name.Lexeme+"'.")
	return Nil
}
