// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lox

// This file defines the run-time environment chain: a linked stack of
// binding frames mirroring, frame for frame, the scope frames the
// resolver built. The evaluator opens a frame per block execution, per
// call (fresh for each invocation), and per superclass anchor, in
// exactly the order the resolver opened scope frames for the same
// nodes; that pairing is what lets GetAt and AssignAt trust a resolved
// depth unconditionally.
//
// A frame is owned by the call path that created it until a closure or
// bound method captures it, after which it lives as long as its
// longest-lived holder. Execution is single-threaded, so frame maps
// need no locking.

// An Environment is one frame of bindings plus a link to the frame of
// the enclosing scope. The global frame is the root: its enclosing
// link is nil.
type Environment struct {
	values    map[string]Value
	enclosing *Environment
}

// NewEnvironment returns a new empty frame whose parent is enclosing.
// A nil enclosing makes the new frame a global (root) frame.
func NewEnvironment(enclosing *Environment) *Environment {
	return &Environment{values: make(map[string]Value), enclosing: enclosing}
}

// Define binds name in this frame, shadowing any binding for name in
// an enclosing frame and overwriting any previous binding in this one.
// Overwriting is what permits rebinding at the untracked global scope.
func (env *Environment) Define(name string, v Value) {
	env.values[name] = v
}

// Get returns the value of name, searching this frame and then its
// parents up to the global frame.
func (env *Environment) Get(name string) (Value, bool) {
	for ; env != nil; env = env.enclosing {
		if v, ok := env.values[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Assign overwrites the binding for name in the nearest frame that
// contains one. It reports false, and creates no binding, if no frame
// in the chain binds name.
func (env *Environment) Assign(name string, v Value) bool {
	for ; env != nil; env = env.enclosing {
		if _, ok := env.values[name]; ok {
			env.values[name] = v
			return true
		}
	}
	return false
}

// GetAt returns the value of name in the frame exactly depth parent
// links up the chain. The depth comes from the resolver, and under the
// resolver/evaluator frame pairing the binding is always present; a
// miss means the pairing was violated, and the caller reports it as an
// undefined-variable error rather than crashing.
func (env *Environment) GetAt(depth int, name string) (Value, bool) {
	v, ok := env.ancestor(depth).values[name]
	return v, ok
}

// AssignAt overwrites name in the frame exactly depth parent links up
// the chain. Like GetAt, a miss indicates a protocol violation and is
// reported by the caller.
func (env *Environment) AssignAt(depth int, name string, v Value) bool {
	anc := env.ancestor(depth)
	if _, ok := anc.values[name]; !ok {
		return false
	}
	anc.values[name] = v
	return true
}

func (env *Environment) ancestor(depth int) *Environment {
	for ; depth > 0; depth-- {
		env = env.enclosing
	}
	return env
}

// Names returns every name visible from this frame, nearest frame
// first, for use in error suggestions.
func (env *Environment) Names() []string {
	var names []string
	for ; env != nil; env = env.enclosing {
		for name := range env.values {
			names = append(names, name)
		}
	}
	return names
}
