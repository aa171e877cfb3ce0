// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax_test

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/fabiommendes/craftinginterpreters/syntax"
)

func TestWalk(t *testing.T) {
	const src = `
fun fib(n) {
  if (n < 2) return n;
  return fib(n - 1) + fib(n - 2);
}
print fib(10);
`
	// Parse and walk the tree, printing the node types in this shape:
	//
	// (File
	//   (FunctionStmt
	//     ...
	f, err := syntax.Parse("hello.lox", src)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	var depth int
	syntax.Walk(f, func(n syntax.Node) bool {
		if n == nil {
			depth--
		} else {
			fmt.Fprintf(&buf, "%*s%s\n",
				2*depth, "",
				strings.TrimPrefix(reflect.TypeOf(n).String(), "*syntax."))
			depth++
		}
		return true
	})

	got := buf.String()
	want := `
File
  FunctionStmt
    Ident
    Ident
    IfStmt
      BinaryExpr
        Ident
        Literal
      ReturnStmt
        Ident
    ReturnStmt
      BinaryExpr
        CallExpr
          Ident
          BinaryExpr
            Ident
            Literal
        CallExpr
          Ident
          BinaryExpr
            Ident
            Literal
  PrintStmt
    CallExpr
      Ident
      Literal
`
	if got != want[1:] {
		t.Errorf("got %s, want %s", got, want)
	}
}

// Walk must stop descending into a subtree when f returns false,
// but still visit the siblings that follow.
func TestWalkPrune(t *testing.T) {
	f, err := syntax.Parse("prune.lox", `fun f() { print 1; } print 2;`)
	if err != nil {
		t.Fatal(err)
	}
	var visited []string
	syntax.Walk(f, func(n syntax.Node) bool {
		if n == nil {
			return true
		}
		name := strings.TrimPrefix(reflect.TypeOf(n).String(), "*syntax.")
		visited = append(visited, name)
		return name != "FunctionStmt" // don't descend into the function
	})
	want := []string{"File", "FunctionStmt", "PrintStmt", "Literal"}
	if fmt.Sprint(visited) != fmt.Sprint(want) {
		t.Errorf("visited %v, want %v", visited, want)
	}
}
