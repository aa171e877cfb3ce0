// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import "strings"

// TreeString returns a parenthesized prefix rendering of the tree,
// one top-level statement per line, for inspecting the parser's
// output: `print 1 + 2;` renders as "(print (+ 1 2))".
//
// Desugaring is visible: a for loop renders in its Block/While form.
func TreeString(n Node) string {
	var b strings.Builder
	writeTree(&b, n)
	return b.String()
}

func writeTree(b *strings.Builder, n Node) {
	switch n := n.(type) {
	case *File:
		for i, stmt := range n.Stmts {
			if i > 0 {
				b.WriteByte('\n')
			}
			writeTree(b, stmt)
		}

	case *ExprStmt:
		list(b, ";", n.X)

	case *PrintStmt:
		list(b, "print", n.X)

	case *VarStmt:
		if n.Init != nil {
			list(b, "var "+n.Name.Name, n.Init)
		} else {
			list(b, "var "+n.Name.Name)
		}

	case *BlockStmt:
		list(b, "block", stmtNodes(n.Stmts)...)

	case *IfStmt:
		if n.Else != nil {
			list(b, "if", n.Cond, n.Then, n.Else)
		} else {
			list(b, "if", n.Cond, n.Then)
		}

	case *WhileStmt:
		list(b, "while", n.Cond, n.Body)

	case *FunctionStmt:
		b.WriteString("(fun " + n.Name.Name + " (")
		for i, param := range n.Params {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(param.Name)
		}
		b.WriteByte(')')
		for _, stmt := range n.Body {
			b.WriteByte(' ')
			writeTree(b, stmt)
		}
		b.WriteByte(')')

	case *ReturnStmt:
		if n.Result != nil {
			list(b, "return", n.Result)
		} else {
			list(b, "return")
		}

	case *ClassStmt:
		b.WriteString("(class " + n.Name.Name)
		if n.Superclass != nil {
			b.WriteString(" < " + n.Superclass.Name)
		}
		for _, method := range n.Methods {
			b.WriteByte(' ')
			writeTree(b, method)
		}
		b.WriteByte(')')

	case *Literal:
		b.WriteString(n.Raw)

	case *Ident:
		b.WriteString(n.Name)

	case *ParenExpr:
		list(b, "group", n.X)

	case *UnaryExpr:
		list(b, n.Op.String(), n.X)

	case *BinaryExpr:
		list(b, n.Op.String(), n.X, n.Y)

	case *LogicalExpr:
		list(b, n.Op.String(), n.X, n.Y)

	case *AssignExpr:
		list(b, "= "+n.Name, n.Value)

	case *CallExpr:
		b.WriteString("(call ")
		writeTree(b, n.Fn)
		for _, arg := range n.Args {
			b.WriteByte(' ')
			writeTree(b, arg)
		}
		b.WriteByte(')')

	case *DotExpr:
		b.WriteString("(. ")
		writeTree(b, n.X)
		b.WriteString(" " + n.Name.Name + ")")

	case *SetExpr:
		b.WriteString("(= (. ")
		writeTree(b, n.Object)
		b.WriteString(" " + n.Name.Name + ") ")
		writeTree(b, n.Value)
		b.WriteByte(')')

	case *ThisExpr:
		b.WriteString("this")

	case *SuperExpr:
		b.WriteString("(super " + n.Method.Name + ")")

	default:
		panic(n) // unreachable: the node variants are closed
	}
}

func list(b *strings.Builder, head string, nodes ...Node) {
	b.WriteByte('(')
	b.WriteString(head)
	for _, n := range nodes {
		b.WriteByte(' ')
		writeTree(b, n)
	}
	b.WriteByte(')')
}

func stmtNodes(stmts []Stmt) []Node {
	nodes := make([]Node, len(stmts))
	for i, stmt := range stmts {
		nodes[i] = stmt
	}
	return nodes
}
