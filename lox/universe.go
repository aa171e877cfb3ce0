// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lox

import "time"

// Universe defines the set of predefined global bindings.
// NewGlobals seeds every fresh global frame with it.
var Universe = map[string]Value{
	"clock": NewBuiltin("clock", 0, clock),
}

// NewGlobals returns a new global frame populated with the Universe
// bindings. Being ordinary bindings in the root frame, they may be
// shadowed or reassigned like any other global.
func NewGlobals() *Environment {
	globals := NewEnvironment(nil)
	for name, v := range Universe {
		globals.Define(name, v)
	}
	return globals
}

// clock returns the time in seconds since the Unix epoch,
// with sub-second precision. It is the one ambient builtin,
// there so scripts can time themselves.
func clock(thread *Thread, args []Value) (Value, error) {
	return Number(float64(time.Now().UnixNano()) / 1e9), nil
}
