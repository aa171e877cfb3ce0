// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lox_test

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/fabiommendes/craftinginterpreters/lox"
	"github.com/fabiommendes/craftinginterpreters/resolve"
)

// run executes a Lox program and returns everything it printed,
// one line per print statement.
func run(src string, globals *lox.Environment) (string, error) {
	var buf bytes.Buffer
	thread := &lox.Thread{
		Print: func(_ *lox.Thread, msg string) { fmt.Fprintln(&buf, msg) },
	}
	err := lox.ExecFile(thread, "test.lox", src, globals)
	return buf.String(), err
}

func TestExecFile(t *testing.T) {
	for _, test := range []struct {
		src  string
		want string // expected print lines, "\n"-joined
	}{
		// print and literals
		{`print "hello";`, "hello"},
		{`print 1 + 1;`, "2"},
		{`print 0.5 * 3;`, "1.5"},
		{`print 10 / 4;`, "2.5"},
		{`print nil;`, "nil"},
		{`print true; print false;`, "true\nfalse"},
		{`print "con" + "cat";`, "concat"},

		// IEEE division
		{`print 1 / 0;`, "+Inf"},
		{`print -1 / 0;`, "-Inf"},
		{`print 0 / 0;`, "NaN"},

		// equality and truthiness
		{`print 1 == 1; print 1 == "1"; print nil == nil;`, "true\nfalse\ntrue"},
		{`print !nil; print !0; print !"";`, "true\nfalse\nfalse"},
		{`print 1 != 2; print "a" == "a";`, "true\ntrue"},

		// short-circuit yields an operand, not a boolean
		{`print "hi" or 2;`, "hi"},
		{`print nil or "yes";`, "yes"},
		{`print nil and 1;`, "nil"},
		{`print 0 and 2;`, "2"},

		// variables and shadowing
		{`var a = 1; a = a + 1; print a;`, "2"},
		{`var a; print a;`, "nil"},
		{`var a = 1; var a = 2; print a;`, "2"}, // global redeclaration
		{
			`var a = "outer";
			{ var a = "inner"; print a; }
			print a;`,
			"inner\nouter",
		},
		{
			`var a = 1;
			{ a = 2; }
			print a;`,
			"2",
		},

		// control flow
		{`if (1 < 2) print "then"; else print "else";`, "then"},
		{`if (nil) print "then"; else print "else";`, "else"},
		{
			`var i = 0;
			while (i < 3) { print i; i = i + 1; }`,
			"0\n1\n2",
		},
		{
			`var sum = 0;
			for (var i = 1; i <= 4; i = i + 1) sum = sum + i;
			print sum;`,
			"10",
		},

		// functions and closures
		{`fun add(a, b) { return a + b; } print add(2, 3);`, "5"},
		{`fun f() {} print f(); print f;`, "nil\n<fn f>"},
		{
			`fun fib(n) {
				if (n < 2) return n;
				return fib(n - 2) + fib(n - 1);
			}
			print fib(10);`,
			"55",
		},
		{
			`fun makeCounter() {
				var i = 0;
				fun count() { i = i + 1; print i; }
				return count;
			}
			var counter = makeCounter();
			counter();
			counter();`,
			"1\n2",
		},

		// A closure sees its definition environment, not the one in
		// effect at the call, so a later declaration in the same block
		// never changes what the closure reads.
		{
			`var a = "global";
			{
				fun showA() { print a; }
				showA();
				var a = "block";
				showA();
			}`,
			"global\nglobal",
		},

		// classes, fields, methods, this
		{`class C {} print C; print C();`, "C\nC instance"},
		{
			`class C {}
			var c = C();
			c.x = 1;
			c.x = c.x + 1;
			print c.x;`,
			"2",
		},
		{
			`class Person {
				init(name) { this.name = name; }
				greet() { print "Hello, " + this.name; }
			}
			Person("Ada").greet();`,
			"Hello, Ada",
		},
		{
			// A bound method remembers its receiver.
			`class Person {
				init(name) { this.name = name; }
				greet() { print "Hello, " + this.name; }
			}
			var m = Person("Ada").greet;
			m();`,
			"Hello, Ada",
		},
		{
			// A field shadows a method of the same name.
			`class C { m() { print "method"; } }
			var c = C();
			c.m();
			c.m = 1;
			print c.m;`,
			"method\n1",
		},

		// initializers return the receiver, even on a bare return
		{
			`class Foo {
				init() { this.x = 1; return; }
			}
			var f = Foo();
			print f.x;
			print f.init();`,
			"1\nFoo instance",
		},

		// inheritance
		{
			`class A { f() { print "A.f"; } }
			class B < A {}
			B().f();`,
			"A.f",
		},
		{
			`class A { f() { print "A.f"; } }
			class B < A { f() { super.f(); print "B.f"; } }
			class C < B { f() { super.f(); print "C.f"; } }
			C().f();`,
			"A.f\nB.f\nC.f",
		},
		{
			// Dispatch through super starts at the statically recorded
			// superclass, not the receiver's class, even when the method
			// is inherited into a subclass.
			`class A { method() { print "A method"; } }
			class B < A {
				method() { print "B method"; }
				test() { super.method(); }
			}
			class C < B {}
			C().test();`,
			"A method",
		},
		{
			// super.init chains constructors.
			`class A { init() { this.a = "a"; } }
			class B < A {
				init() { super.init(); this.b = "b"; }
			}
			var x = B();
			print x.a + x.b;`,
			"ab",
		},

		// builtins
		{`print clock() > 0;`, "true"},
		{`print clock;`, "<native fn>"},
	} {
		got, err := run(test.src, lox.NewGlobals())
		if err != nil {
			t.Errorf("exec `%s`: %v", test.src, err)
			continue
		}
		want := test.want + "\n"
		if test.want == "" {
			want = ""
		}
		if got != want {
			t.Errorf("exec `%s`: got %q, want %q", test.src, got, want)
		}
	}
}

func TestExecErrors(t *testing.T) {
	for _, test := range []struct {
		src  string
		want string // substring of the error
	}{
		{`print x;`, "undefined variable 'x'"},
		{`x = 1;`, "undefined variable 'x'"},
		{`var length = 1; print lenght;`, "did you mean 'length'?"},
		{`"x"();`, "can only call functions and classes, not string"},
		{`fun f(a) {} f(1, 2);`, "expected 1 arguments but got 2"},
		{`clock(1);`, "expected 0 arguments but got 1"},
		{`var x = 1; print x.y;`, "only instances have properties, not number"},
		{`var x = 1; x.y = 2;`, "only instances have fields, not number"},
		{`class C {} print C().z;`, "undefined property 'z'"},
		{`class C { world() {} } print C().wrold;`, "did you mean 'world'?"},
		{`var NotClass = 1; class C < NotClass {}`, "superclass must be a class, not number"},
		{
			`class A {}
			class B < A { m() { super.missing(); } }
			B().m();`,
			"undefined property 'missing'",
		},
		{`print -"x";`, "operand must be a number, not string"},
		{`print 1 + "x";`, "operands must be two numbers or two strings"},
		{`print 1 + nil;`, "operands must be two numbers or two strings"},
		{`print 1 < "x";`, "operands must be numbers"},
		{`fun f() { f(); } f();`, "stack overflow"},
	} {
		got, err := run(test.src, lox.NewGlobals())
		if err == nil {
			t.Errorf("exec `%s`: unexpected success, printed %q", test.src, got)
			continue
		}
		if _, ok := err.(*lox.EvalError); !ok {
			t.Errorf("exec `%s`: error is %T, want *EvalError", test.src, err)
			continue
		}
		if !strings.Contains(err.Error(), test.want) {
			t.Errorf("exec `%s`: error %q, want substring %q", test.src, err, test.want)
		}
	}
}

// A program with static errors must not execute at all, and every
// static error is reported in the batch.
func TestStaticErrorsAbortExecution(t *testing.T) {
	out, err := run(`print "runs"; return 1; { var a; var a; }`, lox.NewGlobals())
	if out != "" {
		t.Errorf("statically invalid program printed %q", out)
	}
	errs, ok := err.(resolve.ErrorList)
	if !ok {
		t.Fatalf("error is %T (%v), want resolve.ErrorList", err, err)
	}
	if len(errs) != 2 {
		t.Errorf("got %d errors %v, want 2", len(errs), errs)
	}
}

func TestBacktrace(t *testing.T) {
	_, err := run(`
fun boom() { return 1 + nil; }
fun outer() { boom(); }
outer();
`, lox.NewGlobals())
	evalErr, ok := err.(*lox.EvalError)
	if !ok {
		t.Fatalf("error is %T (%v), want *EvalError", err, err)
	}
	bt := evalErr.Backtrace()
	for _, want := range []string{
		"Traceback (most recent call last):",
		"test.lox:4:6: in <toplevel>",
		"in outer",
		"in boom",
		"Error: operands must be two numbers or two strings",
	} {
		if !strings.Contains(bt, want) {
			t.Errorf("backtrace does not contain %q:\n%s", want, bt)
		}
	}
	if got := len(evalErr.Stack()); got != 3 {
		t.Errorf("stack has %d frames, want 3", got)
	}
}

// Globals persist across chunks, and a function value carries the
// binding table of the chunk that defined it, so closures defined in
// one chunk keep working when called from another.
func TestCrossChunkGlobals(t *testing.T) {
	globals := lox.NewGlobals()
	var buf bytes.Buffer
	thread := &lox.Thread{
		Print: func(_ *lox.Thread, msg string) { fmt.Fprintln(&buf, msg) },
	}

	chunks := []string{
		`fun make() {
			var n = 0;
			fun inc() { n = n + 1; return n; }
			return inc;
		}
		var inc = make();`,
		`print inc();`,
		`print inc();`,
	}
	for i, src := range chunks {
		if err := lox.ExecFile(thread, fmt.Sprintf("chunk%d.lox", i), src, globals); err != nil {
			t.Fatalf("chunk %d: %v", i, err)
		}
	}
	if got, want := buf.String(), "1\n2\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEval(t *testing.T) {
	globals := lox.NewGlobals()
	thread := new(lox.Thread)

	if err := lox.ExecFile(thread, "defs.lox", `var x = 10; fun double(n) { return 2 * n; }`, globals); err != nil {
		t.Fatal(err)
	}
	for _, test := range []struct {
		expr string
		want string
	}{
		{`1 + 2 * 3`, "7"},
		{`x + 1`, "11"},
		{`double(x)`, "20"},
		{`"a" + "b"`, "ab"},
		{`x > 5 and x < 20`, "true"},
	} {
		v, err := lox.Eval(thread, "expr.lox", test.expr, globals)
		if err != nil {
			t.Errorf("eval `%s`: %v", test.expr, err)
			continue
		}
		if v.String() != test.want {
			t.Errorf("eval `%s` = %s, want %s", test.expr, v, test.want)
		}
	}

	if _, err := lox.Eval(thread, "expr.lox", `nope`, globals); err == nil {
		t.Error("eval of undefined variable: unexpected success")
	}
}
