// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lox provides a Lox interpreter: runtime values, the
// environment chain the resolver's depth annotations are evaluated
// against, and class/method dispatch.
package lox

import "strconv"

// Value is a value in the Lox interpreter.
type Value interface {
	// String returns the string form of the value as the print
	// statement shows it.
	String() string
	// Type returns a short string describing the value's type.
	Type() string
	// Truth returns the truth value: everything is true except nil
	// and false.
	Truth() bool
}

// NilType is the type of Nil. Its only legal value is Nil.
type NilType byte

// Nil is the Lox nil value.
const Nil = NilType(0)

func (NilType) String() string { return "nil" }
func (NilType) Type() string   { return "nil" }
func (NilType) Truth() bool    { return false }

// Bool is the type of a Lox boolean.
type Bool bool

// False and True are the two values of type Bool.
const (
	False Bool = false
	True  Bool = true
)

func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}
func (b Bool) Type() string { return "boolean" }
func (b Bool) Truth() bool  { return bool(b) }

// Number is the type of a Lox number (a 64-bit float).
type Number float64

func (n Number) String() string {
	// The fraction is omitted when zero: 2.0 prints as "2".
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}
func (n Number) Type() string { return "number" }
func (n Number) Truth() bool  { return true }

// String is the type of a Lox string.
// It prints without quotation.
type String string

func (s String) String() string { return string(s) }
func (s String) Type() string   { return "string" }
func (s String) Truth() bool    { return true }

// Equal reports whether two Lox values are equal, per the == operator:
// values of different types are never equal, numbers, strings, and
// booleans compare by value, and everything else compares by identity.
func Equal(x, y Value) bool {
	switch x := x.(type) {
	case NilType:
		_, ok := y.(NilType)
		return ok
	case Bool:
		y, ok := y.(Bool)
		return ok && x == y
	case Number:
		y, ok := y.(Number)
		return ok && x == y
	case String:
		y, ok := y.(String)
		return ok && x == y
	}
	return x == y // pointer identity
}
