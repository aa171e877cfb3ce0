// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// Walk traverses a syntax tree in depth-first order.
// It starts by calling f(n); n must not be nil.
// If f returns true, Walk calls itself
// recursively for each non-nil child of n,
// then calls f(nil).
//
// The traversal visits only the explicitly declared child slots of
// each variant; no reflection is involved.
func Walk(n Node, f func(Node) bool) {
	if n == nil {
		panic("nil")
	}
	if !f(n) {
		return
	}

	switch n := n.(type) {
	case *File:
		walkStmts(n.Stmts, f)

	case *ExprStmt:
		Walk(n.X, f)

	case *PrintStmt:
		Walk(n.X, f)

	case *VarStmt:
		Walk(n.Name, f)
		if n.Init != nil {
			Walk(n.Init, f)
		}

	case *BlockStmt:
		walkStmts(n.Stmts, f)

	case *IfStmt:
		Walk(n.Cond, f)
		Walk(n.Then, f)
		if n.Else != nil {
			Walk(n.Else, f)
		}

	case *WhileStmt:
		Walk(n.Cond, f)
		Walk(n.Body, f)

	case *FunctionStmt:
		Walk(n.Name, f)
		for _, param := range n.Params {
			Walk(param, f)
		}
		walkStmts(n.Body, f)

	case *ReturnStmt:
		if n.Result != nil {
			Walk(n.Result, f)
		}

	case *ClassStmt:
		Walk(n.Name, f)
		if n.Superclass != nil {
			Walk(n.Superclass, f)
		}
		for _, method := range n.Methods {
			Walk(method, f)
		}

	case *Ident, *Literal, *ThisExpr:
		// leaf

	case *ParenExpr:
		Walk(n.X, f)

	case *UnaryExpr:
		Walk(n.X, f)

	case *BinaryExpr:
		Walk(n.X, f)
		Walk(n.Y, f)

	case *LogicalExpr:
		Walk(n.X, f)
		Walk(n.Y, f)

	case *AssignExpr:
		Walk(n.Value, f)

	case *CallExpr:
		Walk(n.Fn, f)
		for _, arg := range n.Args {
			Walk(arg, f)
		}

	case *DotExpr:
		Walk(n.X, f)
		Walk(n.Name, f)

	case *SetExpr:
		Walk(n.Object, f)
		Walk(n.Name, f)
		Walk(n.Value, f)

	case *SuperExpr:
		Walk(n.Method, f)

	default:
		panic(n)
	}

	f(nil)
}

func walkStmts(stmts []Stmt, f func(Node) bool) {
	for _, stmt := range stmts {
		Walk(stmt, f)
	}
}
