// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lox

import (
	"bytes"
	"fmt"
	"os"

	"github.com/fabiommendes/craftinginterpreters/resolve"
	"github.com/fabiommendes/craftinginterpreters/syntax"
)

// A Thread contains the state of a Lox interpreter thread, such as its
// call stack. The Thread is threaded throughout the evaluator.
// Execution is synchronous and single-threaded; a Thread must not be
// shared.
type Thread struct {
	// Print is the client-supplied implementation of the Lox print
	// statement. If nil, fmt.Fprintln(os.Stdout, msg) is used instead.
	Print func(thread *Thread, msg string)

	// frame is the current Lox execution frame.
	frame *Frame

	// calls counts active Lox calls, to catch runaway recursion
	// before the host stack does.
	calls int
}

// maxCallDepth bounds Lox call nesting. Exceeding it is reported as a
// stack overflow at the offending call site.
const maxCallDepth = 4096

func (thread *Thread) print(msg string) {
	if thread.Print != nil {
		thread.Print(thread, msg)
	} else {
		fmt.Fprintln(os.Stdout, msg)
	}
}

// Caller returns the frame of the innermost enclosing Lox function.
// It should only be used in builtins called from Lox code.
func (thread *Thread) Caller() *Frame { return thread.frame }

// A Frame holds the execution state of a single Lox call or of the
// program top level.
type Frame struct {
	thread   *Thread           // thread-associated state
	parent   *Frame            // caller's frame (or nil)
	posn     syntax.Position   // source position of PC (set during call and error)
	fn       *Function         // current function (nil at toplevel)
	bindings *resolve.Bindings // depth annotations for the code this frame runs
	globals  *Environment      // global frame for unresolved references
	env      *Environment      // innermost environment frame in effect
	result   Value             // operand of current function's return statement
}

func (fr *Frame) errorf(posn syntax.Position, format string, args ...interface{}) *EvalError {
	fr.posn = posn
	msg := fmt.Sprintf(format, args...)
	return &EvalError{Msg: msg, Frame: fr}
}

// Position returns the source position of the current point of execution in this frame.
func (fr *Frame) Position() syntax.Position { return fr.posn }

// Function returns the frame's function, or nil for the top-level of a program.
func (fr *Frame) Function() *Function { return fr.fn }

// Parent returns the frame of the enclosing function call, if any.
func (fr *Frame) Parent() *Frame { return fr.parent }

// An EvalError is a Lox evaluation error and its associated call stack.
type EvalError struct {
	Msg   string
	Frame *Frame
}

func (e *EvalError) Error() string { return e.Msg }

// Backtrace returns a user-friendly error message describing the stack
// of calls that led to this error.
func (e *EvalError) Backtrace() string {
	var buf bytes.Buffer
	e.Frame.WriteBacktrace(&buf)
	fmt.Fprintf(&buf, "Error: %s", e.Msg)
	return buf.String()
}

// WriteBacktrace writes a user-friendly description of the stack to buf.
func (fr *Frame) WriteBacktrace(out *bytes.Buffer) {
	fmt.Fprintf(out, "Traceback (most recent call last):\n")
	var print func(fr *Frame)
	print = func(fr *Frame) {
		if fr != nil {
			print(fr.parent)

			name := "<toplevel>"
			if fr.fn != nil {
				name = fr.fn.Name()
			}
			fmt.Fprintf(out, "  %s:%d:%d: in %s\n",
				fr.posn.Filename(),
				fr.posn.Line,
				fr.posn.Col,
				name)
		}
	}
	print(fr)
}

// Stack returns the stack of frames, innermost first.
func (e *EvalError) Stack() []*Frame {
	var stack []*Frame
	for fr := e.Frame; fr != nil; fr = fr.parent {
		stack = append(stack, fr)
	}
	return stack
}

// push pushes a new Frame on the thread's stack.
// It must be followed by a call to pop when the frame is done.
func (thread *Thread) push(fn *Function, posn syntax.Position) (*Frame, error) {
	if thread.calls >= maxCallDepth {
		return nil, &EvalError{Msg: "stack overflow", Frame: thread.frame}
	}
	fr := &Frame{
		thread: thread,
		parent: thread.frame,
		posn:   posn,
		fn:     fn,
	}
	thread.frame = fr
	thread.calls++
	return fr, nil
}

func (thread *Thread) pop() {
	thread.frame = thread.frame.parent
	thread.calls--
}

// ExecFile parses, resolves, and executes a Lox file against the
// specified global frame, which may be modified during execution.
//
// The filename and src parameters are as for syntax.Parse.
//
// Scanner, parser, and resolver errors abort execution before any
// statement runs; they are returned as ErrorLists carrying every
// error found. If evaluation fails, ExecFile returns an *EvalError
// containing a backtrace.
func ExecFile(thread *Thread, filename string, src interface{}, globals *Environment) error {
	f, err := syntax.Parse(filename, src)
	if err != nil {
		return err
	}
	bindings, err := resolve.File(f)
	if err != nil {
		return err
	}
	return execResolved(thread, f.Stmts, bindings, globals)
}

// ExecREPLChunk executes a parsed chunk of statements from a REPL
// entry against the specified global frame.
func ExecREPLChunk(f *syntax.File, thread *Thread, globals *Environment) error {
	bindings, err := resolve.REPLChunk(f.Stmts)
	if err != nil {
		return err
	}
	return execResolved(thread, f.Stmts, bindings, globals)
}

func execResolved(thread *Thread, stmts []syntax.Stmt, bindings *resolve.Bindings, globals *Environment) error {
	fr, err := thread.push(nil, syntax.Position{})
	if err != nil {
		return err
	}
	fr.bindings = bindings
	fr.globals = globals
	fr.env = globals
	err = execStmts(fr, stmts)
	thread.pop()
	return err
}

// Eval parses, resolves, and evaluates an expression against the
// specified global frame.
//
// The filename and src parameters are as for syntax.Parse.
func Eval(thread *Thread, filename string, src interface{}, globals *Environment) (Value, error) {
	expr, err := syntax.ParseExpr(filename, src)
	if err != nil {
		return nil, err
	}
	return EvalExpr(thread, expr, globals)
}

// EvalExpr resolves and evaluates an already-parsed expression against
// the specified global frame.
func EvalExpr(thread *Thread, expr syntax.Expr, globals *Environment) (Value, error) {
	bindings, err := resolve.Expr(expr)
	if err != nil {
		return nil, err
	}
	fr, err := thread.push(nil, syntax.Start(expr))
	if err != nil {
		return nil, err
	}
	fr.bindings = bindings
	fr.globals = globals
	fr.env = globals
	v, err := eval(fr, expr)
	thread.pop()
	return v, err
}

// errReturn is the sentinel error used for the return statement.
// The returned operand travels in fr.result. Internal use only.
var errReturn = fmt.Errorf("return")

// execStmts executes the statements in the context of the specified
// frame's current environment.
func execStmts(fr *Frame, stmts []syntax.Stmt) error {
	for _, stmt := range stmts {
		if err := exec(fr, stmt); err != nil {
			return err
		}
	}
	return nil
}

func exec(fr *Frame, stmt syntax.Stmt) error {
	switch stmt := stmt.(type) {
	case *syntax.ExprStmt:
		_, err := eval(fr, stmt.X)
		return err

	case *syntax.PrintStmt:
		v, err := eval(fr, stmt.X)
		if err != nil {
			return err
		}
		fr.thread.print(v.String())
		return nil

	case *syntax.VarStmt:
		// A declaration without an initializer binds nil.
		var v Value = Nil
		if stmt.Init != nil {
			var err error
			v, err = eval(fr, stmt.Init)
			if err != nil {
				return err
			}
		}
		fr.env.Define(stmt.Name.Name, v)
		return nil

	case *syntax.BlockStmt:
		// One fresh frame per block execution, mirroring the scope
		// frame the resolver opened for this node.
		prev := fr.env
		fr.env = NewEnvironment(prev)
		err := execStmts(fr, stmt.Stmts)
		fr.env = prev
		return err

	case *syntax.IfStmt:
		cond, err := eval(fr, stmt.Cond)
		if err != nil {
			return err
		}
		if cond.Truth() {
			return exec(fr, stmt.Then)
		} else if stmt.Else != nil {
			return exec(fr, stmt.Else)
		}
		return nil

	case *syntax.WhileStmt:
		for {
			cond, err := eval(fr, stmt.Cond)
			if err != nil {
				return err
			}
			if !cond.Truth() {
				return nil
			}
			if err := exec(fr, stmt.Body); err != nil {
				return err
			}
		}

	case *syntax.FunctionStmt:
		// The closure captures the frame chain in effect here, at the
		// function's definition point. Later declarations in this same
		// scope never become visible inside the closure: calls extend
		// this captured chain, not the chain active at the call site.
		fn := &Function{
			decl:     stmt,
			closure:  fr.env,
			bindings: fr.bindings,
			globals:  fr.globals,
		}
		fr.env.Define(stmt.Name.Name, fn)
		return nil

	case *syntax.ReturnStmt:
		var v Value = Nil
		if stmt.Result != nil {
			var err error
			v, err = eval(fr, stmt.Result)
			if err != nil {
				return err
			}
		}
		fr.result = v
		return errReturn

	case *syntax.ClassStmt:
		return execClass(fr, stmt)
	}
	panic(stmt) // unreachable: the statement variants are closed
}

func execClass(fr *Frame, stmt *syntax.ClassStmt) error {
	var superclass *Class
	if stmt.Superclass != nil {
		v, err := eval(fr, stmt.Superclass)
		if err != nil {
			return err
		}
		sc, ok := v.(*Class)
		if !ok {
			return fr.errorf(stmt.Superclass.NamePos, "superclass must be a class, not %s", v.Type())
		}
		superclass = sc
	}

	// The super anchor: one extra frame, created once per
	// class-with-superclass, captured by every method closure. The
	// receiver frame added by Bind is its immediate child, which is
	// why a super expression finds the receiver at depth-1.
	methodEnv := fr.env
	if superclass != nil {
		methodEnv = NewEnvironment(fr.env)
		methodEnv.Define("super", superclass)
	}

	class := &Class{
		name:       stmt.Name.Name,
		superclass: superclass,
		methods:    make(map[string]*Function, len(stmt.Methods)),
	}
	for _, method := range stmt.Methods {
		class.methods[method.Name.Name] = &Function{
			decl:          method,
			closure:       methodEnv,
			bindings:      fr.bindings,
			globals:       fr.globals,
			isInitializer: method.Name.Name == "init",
		}
	}

	fr.env.Define(stmt.Name.Name, class)
	return nil
}

func eval(fr *Frame, e syntax.Expr) (Value, error) {
	switch e := e.(type) {
	case *syntax.Literal:
		switch v := e.Value.(type) {
		case nil:
			return Nil, nil
		case bool:
			return Bool(v), nil
		case float64:
			return Number(v), nil
		case string:
			return String(v), nil
		}
		panic(e) // parser emits no other literals

	case *syntax.ParenExpr:
		return eval(fr, e.X)

	case *syntax.Ident:
		return lookupVariable(fr, e.ID, e.Name, e.NamePos)

	case *syntax.AssignExpr:
		v, err := eval(fr, e.Value)
		if err != nil {
			return nil, err
		}
		if depth, ok := fr.bindings.Depth(e.ID); ok {
			if !fr.env.AssignAt(depth, e.Name, v) {
				return nil, fr.errorf(e.NamePos, "undefined variable '%s'", e.Name)
			}
		} else if !fr.globals.Assign(e.Name, v) {
			return nil, fr.errorf(e.NamePos, "undefined variable '%s'%s",
				e.Name, didYouMean(e.Name, fr.env.Names()))
		}
		return v, nil

	case *syntax.UnaryExpr:
		x, err := eval(fr, e.X)
		if err != nil {
			return nil, err
		}
		switch e.Op {
		case syntax.BANG:
			return Bool(!x.Truth()), nil
		case syntax.MINUS:
			n, ok := x.(Number)
			if !ok {
				return nil, fr.errorf(e.OpPos, "operand must be a number, not %s", x.Type())
			}
			return -n, nil
		}
		panic(e)

	case *syntax.BinaryExpr:
		x, err := eval(fr, e.X)
		if err != nil {
			return nil, err
		}
		y, err := eval(fr, e.Y)
		if err != nil {
			return nil, err
		}
		return binary(fr, e, x, y)

	case *syntax.LogicalExpr:
		x, err := eval(fr, e.X)
		if err != nil {
			return nil, err
		}
		// Short-circuit: the operator yields an operand value, not a
		// boolean.
		if e.Op == syntax.OR {
			if x.Truth() {
				return x, nil
			}
		} else if !x.Truth() {
			return x, nil
		}
		return eval(fr, e.Y)

	case *syntax.CallExpr:
		callee, err := eval(fr, e.Fn)
		if err != nil {
			return nil, err
		}
		var args []Value
		for _, arg := range e.Args {
			v, err := eval(fr, arg)
			if err != nil {
				return nil, err
			}
			args = append(args, v)
		}
		c, ok := callee.(Callable)
		if !ok {
			return nil, fr.errorf(e.Lparen, "can only call functions and classes, not %s", callee.Type())
		}
		if len(args) != c.Arity() {
			return nil, fr.errorf(e.Lparen, "expected %d arguments but got %d", c.Arity(), len(args))
		}
		fr.posn = e.Lparen
		return c.Call(fr.thread, args)

	case *syntax.DotExpr:
		obj, err := eval(fr, e.X)
		if err != nil {
			return nil, err
		}
		inst, ok := obj.(*Instance)
		if !ok {
			return nil, fr.errorf(e.Dot, "only instances have properties, not %s", obj.Type())
		}
		if v, ok := inst.get(e.Name.Name); ok {
			return v, nil
		}
		return nil, fr.errorf(e.Name.NamePos, "undefined property '%s'%s",
			e.Name.Name, didYouMean(e.Name.Name, inst.attrNames()))

	case *syntax.SetExpr:
		obj, err := eval(fr, e.Object)
		if err != nil {
			return nil, err
		}
		inst, ok := obj.(*Instance)
		if !ok {
			return nil, fr.errorf(e.Name.NamePos, "only instances have fields, not %s", obj.Type())
		}
		v, err := eval(fr, e.Value)
		if err != nil {
			return nil, err
		}
		inst.fields[e.Name.Name] = v
		return v, nil

	case *syntax.ThisExpr:
		return lookupVariable(fr, e.ID, "this", e.TokenPos)

	case *syntax.SuperExpr:
		return evalSuper(fr, e)
	}
	panic(e) // unreachable: the expression variants are closed
}

// lookupVariable returns the value of a variable or this reference.
// A depth-annotated reference trusts the resolver and walks exactly
// that many frames; anything else is a global, looked up by name in
// the global frame (where a miss is an ordinary runtime error, since
// the global scope is not statically tracked).
func lookupVariable(fr *Frame, id syntax.NodeID, name string, posn syntax.Position) (Value, error) {
	if depth, ok := fr.bindings.Depth(id); ok {
		if v, ok := fr.env.GetAt(depth, name); ok {
			return v, nil
		}
		// Unreachable unless the evaluator and resolver disagree
		// about frame creation order.
		return nil, fr.errorf(posn, "undefined variable '%s'", name)
	}
	if v, ok := fr.globals.Get(name); ok {
		return v, nil
	}
	return nil, fr.errorf(posn, "undefined variable '%s'%s",
		name, didYouMean(name, fr.env.Names()))
}

// evalSuper resolves super.m: the superclass is found at the
// statically recorded depth, the receiver exactly one frame closer,
// and method lookup starts at that superclass. The starting point is
// fixed by the class whose method lexically contains the expression,
// not by the receiver's runtime class, which is what makes dispatch
// continue upward correctly from the middle of a deep hierarchy.
func evalSuper(fr *Frame, e *syntax.SuperExpr) (Value, error) {
	depth, ok := fr.bindings.Depth(e.ID)
	if !ok {
		return nil, fr.errorf(e.TokenPos, "undefined variable 'super'")
	}
	sv, ok1 := fr.env.GetAt(depth, "super")
	rv, ok2 := fr.env.GetAt(depth-1, "this")
	if !ok1 || !ok2 {
		return nil, fr.errorf(e.TokenPos, "undefined variable 'super'")
	}
	superclass := sv.(*Class)
	receiver := rv.(*Instance)
	method := superclass.FindMethod(e.Method.Name)
	if method == nil {
		return nil, fr.errorf(e.Method.NamePos, "undefined property '%s'%s",
			e.Method.Name, didYouMean(e.Method.Name, superclass.methodNames()))
	}
	return method.Bind(receiver), nil
}

func binary(fr *Frame, e *syntax.BinaryExpr, x, y Value) (Value, error) {
	switch e.Op {
	case syntax.PLUS:
		switch x := x.(type) {
		case Number:
			if y, ok := y.(Number); ok {
				return x + y, nil
			}
		case String:
			if y, ok := y.(String); ok {
				return x + y, nil
			}
		}
		return nil, fr.errorf(e.OpPos, "operands must be two numbers or two strings")

	case syntax.EQL:
		return Bool(Equal(x, y)), nil
	case syntax.NEQ:
		return Bool(!Equal(x, y)), nil
	}

	xn, xok := x.(Number)
	yn, yok := y.(Number)
	if !xok || !yok {
		return nil, fr.errorf(e.OpPos, "operands must be numbers")
	}
	switch e.Op {
	case syntax.MINUS:
		return xn - yn, nil
	case syntax.STAR:
		return xn * yn, nil
	case syntax.SLASH:
		// IEEE semantics: x/0 is an infinity and 0/0 is NaN.
		return xn / yn, nil
	case syntax.GT:
		return Bool(xn > yn), nil
	case syntax.GE:
		return Bool(xn >= yn), nil
	case syntax.LT:
		return Bool(xn < yn), nil
	case syntax.LE:
		return Bool(xn <= yn), nil
	}
	panic(e) // unreachable: the parser emits no other binary operators
}

func didYouMean(name string, candidates []string) string {
	if n := nearest(name, candidates); n != "" {
		return fmt.Sprintf(" (did you mean '%s'?)", n)
	}
	return ""
}
