// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/go-test/deep"

	"github.com/fabiommendes/craftinginterpreters/syntax"
)

// nodeTypes parses src and returns the preorder sequence of node type
// names, such as ["File", "VarStmt", "Ident", "Literal"].
func nodeTypes(t *testing.T, src string) []string {
	t.Helper()
	f, err := syntax.Parse("test.lox", src)
	if err != nil {
		t.Fatalf("parse `%s`: %v", src, err)
	}
	var types []string
	syntax.Walk(f, func(n syntax.Node) bool {
		if n != nil {
			types = append(types, strings.TrimPrefix(reflect.TypeOf(n).String(), "*syntax."))
		}
		return true
	})
	return types
}

func TestParseShapes(t *testing.T) {
	for _, test := range []struct {
		input string
		want  []string
	}{
		{
			`var x = 1;`,
			[]string{"File", "VarStmt", "Ident", "Literal"},
		},
		{
			`print a + b * c;`,
			[]string{"File", "PrintStmt", "BinaryExpr", "Ident", "BinaryExpr", "Ident", "Ident"},
		},
		{
			`a = b or c;`,
			[]string{"File", "ExprStmt", "AssignExpr", "LogicalExpr", "Ident", "Ident"},
		},
		{
			`if (x) print 1; else { print 2; }`,
			[]string{"File", "IfStmt", "Ident", "PrintStmt", "Literal", "BlockStmt", "PrintStmt", "Literal"},
		},
		{
			`fun f(a, b) { return a; }`,
			[]string{"File", "FunctionStmt", "Ident", "Ident", "Ident", "ReturnStmt", "Ident"},
		},
		{
			`class A < B { m() { return this; } }`,
			[]string{"File", "ClassStmt", "Ident", "Ident", "FunctionStmt", "Ident", "ReturnStmt", "ThisExpr"},
		},
		{
			`obj.field = obj.method(1);`,
			[]string{"File", "ExprStmt", "SetExpr", "Ident", "Ident", "CallExpr", "DotExpr", "Ident", "Ident", "Literal"},
		},
		{
			`super.m();`,
			[]string{"File", "ExprStmt", "CallExpr", "SuperExpr", "Ident"},
		},
		{
			`!(-a == b);`,
			[]string{"File", "ExprStmt", "UnaryExpr", "ParenExpr", "BinaryExpr", "UnaryExpr", "Ident", "Ident"},
		},
	} {
		got := nodeTypes(t, test.input)
		if diff := deep.Equal(got, test.want); diff != nil {
			t.Errorf("parse `%s`: %v", test.input, diff)
		}
	}
}

// A for statement has no node of its own: it parses to the same shape
// as the handwritten Block/While equivalent.
func TestForDesugar(t *testing.T) {
	got := nodeTypes(t, `for (var i = 0; i < 3; i = i + 1) print i;`)
	want := nodeTypes(t, `{ var i = 0; while (i < 3) { print i; i = i + 1; } }`)
	if diff := deep.Equal(got, want); diff != nil {
		t.Errorf("for loop did not desugar to block/while form: %v", diff)
	}

	// Degenerate form: no clauses at all.
	got = nodeTypes(t, `for (;;) print 1;`)
	want = nodeTypes(t, `while (true) print 1;`)
	if diff := deep.Equal(got, want); diff != nil {
		t.Errorf("empty for loop did not desugar to while form: %v", diff)
	}
}

func TestPrecedence(t *testing.T) {
	// a = b or c and d == e < f + g * -h
	// must parse as a = (b or (c and (d == (e < (f + (g * (-h)))))))
	f, err := syntax.Parse("test.lox", `a = b or c and d == e < f + g * -h;`)
	if err != nil {
		t.Fatal(err)
	}
	assign := f.Stmts[0].(*syntax.ExprStmt).X.(*syntax.AssignExpr)
	or := assign.Value.(*syntax.LogicalExpr)
	if or.Op != syntax.OR {
		t.Fatalf("outermost op = %s, want or", or.Op)
	}
	and := or.Y.(*syntax.LogicalExpr)
	if and.Op != syntax.AND {
		t.Fatalf("second op = %s, want and", and.Op)
	}
	eq := and.Y.(*syntax.BinaryExpr)
	if eq.Op != syntax.EQL {
		t.Fatalf("third op = %s, want ==", eq.Op)
	}
	lt := eq.Y.(*syntax.BinaryExpr)
	if lt.Op != syntax.LT {
		t.Fatalf("fourth op = %s, want <", lt.Op)
	}
	plus := lt.Y.(*syntax.BinaryExpr)
	if plus.Op != syntax.PLUS {
		t.Fatalf("fifth op = %s, want +", plus.Op)
	}
	star := plus.Y.(*syntax.BinaryExpr)
	if star.Op != syntax.STAR {
		t.Fatalf("sixth op = %s, want *", star.Op)
	}
	if _, ok := star.Y.(*syntax.UnaryExpr); !ok {
		t.Fatalf("innermost operand is %T, want unary minus", star.Y)
	}
}

// Node identities must be dense, unique, and nonzero, since the
// resolver's annotation table is keyed by them.
func TestNodeIDs(t *testing.T) {
	f, err := syntax.Parse("test.lox", `
var a = 1;
fun f(x) { return x + a; }
class C < Object { m() { return this; } n() { return super.m(); } }
a = f(2);
`)
	if err != nil {
		t.Fatal(err)
	}
	seen := make(map[syntax.NodeID]bool)
	check := func(id syntax.NodeID) {
		if id == syntax.NoID {
			t.Errorf("node has no ID")
		}
		if int(id) > f.NumIDs {
			t.Errorf("node ID %d out of range (NumIDs=%d)", id, f.NumIDs)
		}
		if seen[id] {
			t.Errorf("duplicate node ID %d", id)
		}
		seen[id] = true
	}
	syntax.Walk(f, func(n syntax.Node) bool {
		switch n := n.(type) {
		case *syntax.Ident:
			check(n.ID)
		case *syntax.AssignExpr:
			check(n.ID)
		case *syntax.ThisExpr:
			check(n.ID)
		case *syntax.SuperExpr:
			check(n.ID)
		}
		return true
	})
	if len(seen) == 0 {
		t.Fatal("no identified nodes found")
	}
}

func TestParseErrors(t *testing.T) {
	for _, test := range []struct {
		input string
		want  []string // one substring per expected error
	}{
		{`var;`, []string{"want identifier as variable name"}},
		{`print 1`, []string{"want ; after value"}},
		{`(1 + 2;`, []string{"want ) after expression"}},
		{`1 = 2;`, []string{"invalid assignment target"}},
		{`fun f { }`, []string{"want ( after function name"}},
		{`class { }`, []string{"want identifier as class name"}},
		{`super;`, []string{"want . after 'super'"}},
		{`+;`, []string{"want expression"}},
		// Recovery: both statements report their own error.
		{"var 1;\nprint;", []string{"want identifier as variable name", "want expression"}},
		{"fun f(;\nvar x = ;", []string{"want identifier as parameter name", "want expression"}},
	} {
		_, err := syntax.Parse("test.lox", test.input)
		if err == nil {
			t.Errorf("parse `%s`: unexpected success", test.input)
			continue
		}
		errs, ok := err.(syntax.ErrorList)
		if !ok {
			t.Errorf("parse `%s`: error is %T, want ErrorList", test.input, err)
			continue
		}
		if len(errs) != len(test.want) {
			t.Errorf("parse `%s`: got %d errors %v, want %d", test.input, len(errs), errs, len(test.want))
			continue
		}
		for i, want := range test.want {
			if !strings.Contains(errs[i].Msg, want) {
				t.Errorf("parse `%s`: error %d is %q, want substring %q", test.input, i, errs[i].Msg, want)
			}
		}
	}
}

func TestParseExpr(t *testing.T) {
	expr, err := syntax.ParseExpr("test.lox", `1 + 2`)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := expr.(*syntax.BinaryExpr); !ok {
		t.Errorf("ParseExpr returned %T, want *BinaryExpr", expr)
	}

	if _, err := syntax.ParseExpr("test.lox", `var x = 1;`); err == nil {
		t.Error("ParseExpr of a statement: unexpected success")
	}
	if _, err := syntax.ParseExpr("test.lox", `1 + 2;`); err == nil {
		t.Error("ParseExpr with trailing input: unexpected success")
	}
}
