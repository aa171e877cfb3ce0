// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax_test

import (
	"testing"

	"github.com/fabiommendes/craftinginterpreters/syntax"
)

func TestTreeString(t *testing.T) {
	for _, test := range []struct {
		input, want string
	}{
		{`1 + 2 * 3;`, "(; (+ 1 (* 2 3)))"},
		{`print -x;`, "(print (- x))"},
		{`print !true == false;`, "(print (== (! true) false))"},
		{`print (1 + 2) * 3;`, "(print (* (group (+ 1 2)) 3))"},
		{`var a = "hi";`, `(var a "hi")`},
		{`var a;`, "(var a)"},
		{`a = b or c and nil;`, "(; (= a (or b (and c nil))))"},
		{`{ var a; a = 2; }`, "(block (var a) (; (= a 2)))"},
		{`if (x) print 1; else print 2;`, "(if x (print 1) (print 2))"},
		{`if (x) return;`, "(if x (return))"},
		{`while (x) x = x - 1;`, "(while x (; (= x (- x 1))))"},
		{`fun f(a, b) { return a; }`, "(fun f (a b) (return a))"},
		{`f(1, 2);`, "(; (call f 1 2))"},
		{`a.b.c = d;`, "(; (= (. (. a b) c) d))"},
		{`print a.b(c);`, "(print (call (. a b) c))"},
		{
			`class B < A { m() { return super.m(); } }`,
			"(class B < A (fun m () (return (call (super m)))))",
		},
		{
			`class C { init() { this.x = 1; } }`,
			"(class C (fun init () (; (= (. this x) 1))))",
		},
		{
			// The desugared form of a for loop is what prints.
			`for (var i = 0; i < 2; i = i + 1) print i;`,
			"(block (var i 0) (while (< i 2) (block (print i) (; (= i (+ i 1))))))",
		},
		{
			"print 1;\nprint 2;",
			"(print 1)\n(print 2)",
		},
	} {
		f, err := syntax.Parse("test.lox", test.input)
		if err != nil {
			t.Errorf("parse `%s`: %v", test.input, err)
			continue
		}
		if got := syntax.TreeString(f); got != test.want {
			t.Errorf("TreeString(`%s`) = %s, want %s", test.input, got, test.want)
		}
	}
}
