// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package resolve defines a name-resolution pass for Lox syntax trees.
//
// The resolver computes, for every variable reference, the lexical
// distance (in enclosing scopes) to the declaration it binds to, or
// determines that the reference must be resolved dynamically in the
// global frame. The evaluator later creates one environment frame per
// scope-opening construct in exactly the order this pass creates scope
// frames, so a recorded depth can be trusted unconditionally at run
// time: walking that many parent links always lands on the frame that
// holds the binding.
//
// The pass is purely static. It never evaluates anything: both arms of
// a conditional are visited, a loop body is visited exactly once, and
// the operands of and/or are both visited. It is also best-effort:
// static errors are accumulated across the whole tree and reported as
// one batch, and a tree with any static error must not be executed.
package resolve

import "github.com/fabiommendes/craftinginterpreters/syntax"

// File resolves the syntax tree of a Lox file.
//
// On success it returns the binding table for the tree. On failure it
// returns an ErrorList containing every static error found.
// Resolution has no effect on the tree itself, so resolving the same
// tree twice produces identical tables.
func File(file *syntax.File) (*Bindings, error) {
	r := newResolver()
	r.stmts(file.Stmts)
	if len(r.errors) > 0 {
		return nil, r.errors
	}
	return r.bindings, nil
}

// Expr resolves a single expression, as in a REPL entry.
// The expression is resolved at the global scope, so every variable
// reference in it is global, but misuse of this and super is still
// reported.
func Expr(expr syntax.Expr) (*Bindings, error) {
	r := newResolver()
	r.expr(expr)
	if len(r.errors) > 0 {
		return nil, r.errors
	}
	return r.bindings, nil
}

// REPLChunk resolves a list of statements typed at a REPL prompt.
// It is identical to File except that the statements of earlier
// entries are not available; they live on only as global bindings,
// which need no static resolution.
func REPLChunk(stmts []syntax.Stmt) (*Bindings, error) {
	r := newResolver()
	r.stmts(stmts)
	if len(r.errors) > 0 {
		return nil, r.errors
	}
	return r.bindings, nil
}

// A funcContext describes the innermost enclosing function-like
// construct, for checking return placement.
type funcContext int8

const (
	funcNone funcContext = iota
	funcFunction
	funcMethod
	funcInitializer
)

// A classContext describes the innermost enclosing class declaration,
// for checking this and super placement.
type classContext int8

const (
	classNone classContext = iota
	classClass
	classSubclass
)

// A binding state distinguishes a name whose initializer is still
// being resolved (declared) from one that is ready for use (defined).
type state int8

const (
	declared state = iota // name reserved; reading it here is an error
	defined               // initializer done; name usable
)

// A frame is a resolve-time scope: one per block, function or method
// body, and superclass anchor. It exists only during this pass; the
// evaluator builds a structurally identical chain of environment
// frames at run time.
//
// The outermost (global) scope is deliberately not represented:
// globals may be redeclared freely and are resolved by name at run
// time, so the frame chain ends where locals end.
type frame struct {
	parent *frame
	names  map[string]state
}

type resolver struct {
	env      *frame // innermost scope frame, or nil at global scope
	function funcContext
	class    classContext
	bindings *Bindings
	errors   ErrorList
}

func newResolver() *resolver {
	return &resolver{bindings: &Bindings{depths: make(map[syntax.NodeID]int)}}
}

func (r *resolver) errorf(pos syntax.Position, msg string) {
	r.errors = append(r.errors, Error{Pos: pos, Msg: msg})
}

// push opens a new scope frame as a child of the current one.
func (r *resolver) push() {
	r.env = &frame{parent: r.env, names: make(map[string]state)}
}

func (r *resolver) pop() { r.env = r.env.parent }

// declare reserves id's name in the current scope without making it
// usable, so that a read of the name from within its own initializer
// can be detected. Globals are untracked.
func (r *resolver) declare(id *syntax.Ident) {
	if r.env == nil {
		return
	}
	if _, ok := r.env.names[id.Name]; ok {
		r.errorf(id.NamePos, "already a variable with this name in this scope")
	}
	r.env.names[id.Name] = declared
}

// define marks id's name as ready for use in the current scope.
func (r *resolver) define(id *syntax.Ident) {
	if r.env == nil {
		return
	}
	r.env.names[id.Name] = defined
}

// resolveLocal records the scope depth of a reference to name: the
// number of frames between the current one and the nearest enclosing
// frame that binds name. A name bound by no frame is left for the
// global environment to resolve by name at run time.
func (r *resolver) resolveLocal(id syntax.NodeID, name string) {
	depth := 0
	for env := r.env; env != nil; env = env.parent {
		if _, ok := env.names[name]; ok {
			r.bindings.set(id, depth)
			return
		}
		depth++
	}
}

func (r *resolver) stmts(stmts []syntax.Stmt) {
	for _, stmt := range stmts {
		r.stmt(stmt)
	}
}

func (r *resolver) stmt(s syntax.Stmt) {
	switch s := s.(type) {
	case *syntax.ExprStmt:
		r.expr(s.X)

	case *syntax.PrintStmt:
		r.expr(s.X)

	case *syntax.VarStmt:
		// Two phases: the name is declared before its initializer is
		// resolved and defined only afterwards, so "var a = a;" inside
		// a scope is caught statically.
		r.declare(s.Name)
		if s.Init != nil {
			r.expr(s.Init)
		}
		r.define(s.Name)

	case *syntax.BlockStmt:
		r.push()
		r.stmts(s.Stmts)
		r.pop()

	case *syntax.IfStmt:
		r.expr(s.Cond)
		r.stmt(s.Then)
		if s.Else != nil {
			r.stmt(s.Else)
		}

	case *syntax.WhileStmt:
		r.expr(s.Cond)
		r.stmt(s.Body)

	case *syntax.FunctionStmt:
		// The function's own name is defined before its body is
		// resolved, so the body may recursively call it.
		r.declare(s.Name)
		r.define(s.Name)
		r.functionBody(s, funcFunction)

	case *syntax.ReturnStmt:
		if r.function == funcNone {
			r.errorf(s.Return, "return outside function")
		}
		if s.Result != nil {
			if r.function == funcInitializer {
				r.errorf(s.Return, "cannot return a value from an initializer")
			}
			r.expr(s.Result)
		}

	case *syntax.ClassStmt:
		r.classStmt(s)

	default:
		panic(s) // unreachable: the statement variants are closed
	}
}

func (r *resolver) classStmt(s *syntax.ClassStmt) {
	r.declare(s.Name)
	r.define(s.Name)

	enclosing := r.class
	r.class = classClass
	defer func() { r.class = enclosing }()

	if s.Superclass != nil {
		if s.Superclass.Name == s.Name.Name {
			r.errorf(s.Superclass.NamePos, "a class cannot inherit from itself")
		}
		// The superclass name is an ordinary read in the enclosing scope.
		r.expr(s.Superclass)

		// One extra frame anchors super for every method of the class.
		// The evaluator opens the matching environment frame exactly
		// once, when the class declaration executes.
		r.push()
		r.env.names["super"] = defined
		r.class = classSubclass
		defer r.pop()
	}

	for _, method := range s.Methods {
		context := funcMethod
		if method.Name.Name == "init" {
			context = funcInitializer
		}
		// The receiver frame is the immediate child of the super
		// anchor (when one exists); the super expression relies on
		// this fixed offset.
		r.push()
		r.env.names["this"] = defined
		r.functionBody(method, context)
		r.pop()
	}
}

// functionBody resolves a function or method body in a child frame
// holding the parameters.
func (r *resolver) functionBody(fn *syntax.FunctionStmt, context funcContext) {
	enclosing := r.function
	r.function = context
	r.push()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.stmts(fn.Body)
	r.pop()
	r.function = enclosing
}

func (r *resolver) expr(e syntax.Expr) {
	switch e := e.(type) {
	case *syntax.Literal:
		// nothing to do

	case *syntax.ParenExpr:
		r.expr(e.X)

	case *syntax.UnaryExpr:
		r.expr(e.X)

	case *syntax.BinaryExpr:
		r.expr(e.X)
		r.expr(e.Y)

	case *syntax.LogicalExpr:
		// Resolution does not short-circuit.
		r.expr(e.X)
		r.expr(e.Y)

	case *syntax.Ident:
		if r.env != nil {
			if st, ok := r.env.names[e.Name]; ok && st == declared {
				r.errorf(e.NamePos, "cannot read local variable in its own initializer")
			}
		}
		r.resolveLocal(e.ID, e.Name)

	case *syntax.AssignExpr:
		// The assigned value first; the target is then resolved like a
		// read, minus the declared-state check, since assignment
		// requires a binding that already exists.
		r.expr(e.Value)
		r.resolveLocal(e.ID, e.Name)

	case *syntax.CallExpr:
		r.expr(e.Fn)
		for _, arg := range e.Args {
			r.expr(arg)
		}

	case *syntax.DotExpr:
		// Property names are looked up dynamically; only the object
		// expression resolves.
		r.expr(e.X)

	case *syntax.SetExpr:
		r.expr(e.Object)
		r.expr(e.Value)

	case *syntax.ThisExpr:
		if r.class == classNone {
			r.errorf(e.TokenPos, "cannot use 'this' outside of a class")
		}
		r.resolveLocal(e.ID, "this")

	case *syntax.SuperExpr:
		switch r.class {
		case classNone:
			r.errorf(e.TokenPos, "cannot use 'super' outside of a class")
		case classClass:
			r.errorf(e.TokenPos, "cannot use 'super' in a class with no superclass")
		}
		r.resolveLocal(e.ID, "super")

	default:
		panic(e) // unreachable: the expression variants are closed
	}
}
