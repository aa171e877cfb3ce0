// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lox

import (
	"sort"

	"github.com/fabiommendes/craftinginterpreters/resolve"
	"github.com/fabiommendes/craftinginterpreters/syntax"
)

// A Callable is a value that may appear before the parentheses of a
// call expression: a function, a bound method, a class, or a builtin.
type Callable interface {
	Value
	// Arity returns the number of arguments the callable requires.
	// Call sites check it before calling.
	Arity() int
	// Call invokes the callable. len(args) equals Arity.
	Call(thread *Thread, args []Value) (Value, error)
}

var (
	_ Callable = (*Builtin)(nil)
	_ Callable = (*Function)(nil)
	_ Callable = (*Class)(nil)
)

// A Builtin is a function implemented in Go.
type Builtin struct {
	name  string
	arity int
	fn    func(thread *Thread, args []Value) (Value, error)
}

// NewBuiltin returns a new builtin of the specified name and arity
// implemented by the function fn.
func NewBuiltin(name string, arity int, fn func(thread *Thread, args []Value) (Value, error)) *Builtin {
	return &Builtin{name: name, arity: arity, fn: fn}
}

func (b *Builtin) Name() string   { return b.name }
func (b *Builtin) Arity() int     { return b.arity }
func (b *Builtin) String() string { return "<native fn>" }
func (b *Builtin) Type() string   { return "builtin" }
func (b *Builtin) Truth() bool    { return true }

func (b *Builtin) Call(thread *Thread, args []Value) (Value, error) {
	return b.fn(thread, args)
}

// A Function is a Lox function or method value.
//
// It pairs a body with the environment chain in effect at its
// definition point. A call never consults the caller's chain: it
// pushes a fresh frame whose parent is the captured chain, so the
// frames a running body sees line up exactly with the scope frames
// the resolver saw when it computed the body's depths.
type Function struct {
	decl          *syntax.FunctionStmt
	closure       *Environment      // frame chain at definition point
	bindings      *resolve.Bindings // depth annotations of the defining file
	globals       *Environment      // global frame of the defining file
	isInitializer bool
}

// Name returns the name of the function.
func (fn *Function) Name() string { return fn.decl.Name.Name }

func (fn *Function) Arity() int     { return len(fn.decl.Params) }
func (fn *Function) String() string { return "<fn " + fn.Name() + ">" }
func (fn *Function) Type() string   { return "function" }
func (fn *Function) Truth() bool    { return true }

func (fn *Function) Call(thread *Thread, args []Value) (Value, error) {
	fr, err := thread.push(fn, fn.decl.Name.NamePos)
	if err != nil {
		return nil, err
	}
	defer thread.pop()

	env := NewEnvironment(fn.closure)
	for i, param := range fn.decl.Params {
		env.Define(param.Name, args[i])
	}
	fr.bindings = fn.bindings
	fr.globals = fn.globals
	fr.env = env

	switch err := execStmts(fr, fn.decl.Body); err {
	case nil, errReturn:
		if fn.isInitializer {
			// An initializer always returns the receiver, even on a
			// bare return. (A return with a value was rejected
			// statically.)
			this, _ := fn.closure.GetAt(0, "this")
			return this, nil
		}
		if err == errReturn {
			return fr.result, nil
		}
		return Nil, nil
	default:
		return nil, err
	}
}

// Bind returns a method value: a copy of fn whose closure is a fresh
// frame binding the receiver, nested directly under fn's captured
// chain. For a method of a class with a superclass that chain ends in
// the super anchor, so the receiver frame is always the anchor's
// immediate child.
func (fn *Function) Bind(receiver *Instance) *Function {
	env := NewEnvironment(fn.closure)
	env.Define("this", receiver)
	return &Function{
		decl:          fn.decl,
		closure:       env,
		bindings:      fn.bindings,
		globals:       fn.globals,
		isInitializer: fn.isInitializer,
	}
}

// A Class is a runtime class object: the value a class declaration
// binds to the class name. Calling it instantiates it.
type Class struct {
	name       string
	superclass *Class // nil if the class has no superclass clause
	methods    map[string]*Function
}

// Name returns the name of the class.
func (c *Class) Name() string { return c.name }

// Superclass returns the class's superclass, or nil.
func (c *Class) Superclass() *Class { return c.superclass }

func (c *Class) String() string { return c.name }
func (c *Class) Type() string   { return "class" }
func (c *Class) Truth() bool    { return true }

// Arity returns the arity of the class's initializer, or zero if the
// hierarchy defines none.
func (c *Class) Arity() int {
	if init := c.FindMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

// Call instantiates the class, running the inherited or own init
// method, if any, against the new instance.
func (c *Class) Call(thread *Thread, args []Value) (Value, error) {
	instance := &Instance{class: c, fields: make(map[string]Value)}
	if init := c.FindMethod("init"); init != nil {
		if _, err := init.Bind(instance).Call(thread, args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

// FindMethod returns the method of the specified name, delegating to
// the superclass chain when the class does not define it, or nil if no
// class in the hierarchy does. The returned method is unbound.
func (c *Class) FindMethod(name string) *Function {
	for ; c != nil; c = c.superclass {
		if m, ok := c.methods[name]; ok {
			return m
		}
	}
	return nil
}

func (c *Class) methodNames() []string {
	var names []string
	for ; c != nil; c = c.superclass {
		for name := range c.methods {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// An Instance is an object: a bag of fields plus its runtime class.
type Instance struct {
	class  *Class
	fields map[string]Value
}

// Class returns the instance's class.
func (inst *Instance) Class() *Class { return inst.class }

func (inst *Instance) String() string { return inst.class.name + " instance" }
func (inst *Instance) Type() string   { return "instance" }
func (inst *Instance) Truth() bool    { return true }

// get returns the named property: a field of the instance if one is
// set, otherwise a method of its class hierarchy bound to it.
func (inst *Instance) get(name string) (Value, bool) {
	if v, ok := inst.fields[name]; ok {
		return v, true
	}
	if m := inst.class.FindMethod(name); m != nil {
		return m.Bind(inst), true
	}
	return nil, false
}

func (inst *Instance) attrNames() []string {
	names := inst.class.methodNames()
	for name := range inst.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
