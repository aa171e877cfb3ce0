// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package syntax provides a Lox scanner, parser, and abstract syntax tree.
package syntax

// A Node is a node in a Lox syntax tree.
type Node interface {
	// Span returns the start and end position of the expression.
	Span() (start, end Position)
}

// Start returns the start position of the expression.
func Start(n Node) Position {
	start, _ := n.Span()
	return start
}

// End returns the end position of the expression.
func End(n Node) Position {
	_, end := n.Span()
	return end
}

// A NodeID is the identity of a syntax tree node, assigned sequentially
// by the parser as nodes are built. The resolver's annotations are keyed
// by NodeID so that the tree itself is never mutated after parsing.
//
// Only nodes that denote variable references (Ident, AssignExpr,
// ThisExpr, SuperExpr) carry a NodeID.
type NodeID int32

// NoID is the NodeID of a node built outside the parser.
const NoID NodeID = 0

// A File represents a Lox source file: a sequence of statements.
type File struct {
	Path  string
	Stmts []Stmt

	// NumIDs records how many NodeIDs the parser assigned,
	// so a consumer may size an annotation table.
	NumIDs int
}

func (x *File) Span() (start, end Position) {
	if len(x.Stmts) == 0 {
		return
	}
	start, _ = x.Stmts[0].Span()
	_, end = x.Stmts[len(x.Stmts)-1].Span()
	return start, end
}

// A Stmt is a Lox statement.
type Stmt interface {
	Node
	stmt()
}

func (*BlockStmt) stmt()    {}
func (*ClassStmt) stmt()    {}
func (*ExprStmt) stmt()     {}
func (*FunctionStmt) stmt() {}
func (*IfStmt) stmt()       {}
func (*PrintStmt) stmt()    {}
func (*ReturnStmt) stmt()   {}
func (*VarStmt) stmt()      {}
func (*WhileStmt) stmt()    {}

// An ExprStmt is an expression evaluated for side effects.
type ExprStmt struct {
	X         Expr
	Semicolon Position
}

func (x *ExprStmt) Span() (start, end Position) {
	start, _ = x.X.Span()
	return start, x.Semicolon.add(";")
}

// A PrintStmt prints the value of an expression: print X;
type PrintStmt struct {
	Print     Position
	X         Expr
	Semicolon Position
}

func (x *PrintStmt) Span() (start, end Position) {
	return x.Print, x.Semicolon.add(";")
}

// A VarStmt declares a variable: var Name = Init;
// Init is nil if the declaration has no initializer.
type VarStmt struct {
	Var       Position
	Name      *Ident
	Init      Expr
	Semicolon Position
}

func (x *VarStmt) Span() (start, end Position) {
	return x.Var, x.Semicolon.add(";")
}

// A BlockStmt is a brace-delimited sequence of statements: { Stmts }.
// It opens a new lexical scope.
type BlockStmt struct {
	Lbrace Position
	Stmts  []Stmt
	Rbrace Position
}

func (x *BlockStmt) Span() (start, end Position) {
	return x.Lbrace, x.Rbrace.add("}")
}

// An IfStmt is a conditional: if (Cond) Then else Else.
// Else is nil if there is no else clause.
type IfStmt struct {
	If   Position
	Cond Expr
	Then Stmt
	Else Stmt
}

func (x *IfStmt) Span() (start, end Position) {
	body := x.Else
	if body == nil {
		body = x.Then
	}
	_, end = body.Span()
	return x.If, end
}

// A WhileStmt is a loop: while (Cond) Body.
// The parser also desugars for statements into WhileStmts.
type WhileStmt struct {
	While Position
	Cond  Expr
	Body  Stmt
}

func (x *WhileStmt) Span() (start, end Position) {
	_, end = x.Body.Span()
	return x.While, end
}

// A FunctionStmt is a named function declaration: fun Name(Params) { Body }.
// The same node represents a method when it appears in ClassStmt.Methods;
// methods are introduced without the fun keyword, so Fun is invalid there.
type FunctionStmt struct {
	Fun    Position // position of "fun" token; invalid for methods
	Name   *Ident
	Params []*Ident
	Body   []Stmt
	Rbrace Position
}

func (x *FunctionStmt) Span() (start, end Position) {
	start = x.Fun
	if !start.IsValid() {
		start, _ = x.Name.Span()
	}
	return start, x.Rbrace.add("}")
}

// A ReturnStmt returns from a function: return Result;
// Result is nil for a bare return.
type ReturnStmt struct {
	Return    Position
	Result    Expr
	Semicolon Position
}

func (x *ReturnStmt) Span() (start, end Position) {
	return x.Return, x.Semicolon.add(";")
}

// A ClassStmt declares a class: class Name < Superclass { Methods }.
// Superclass is nil if there is no superclass clause.
type ClassStmt struct {
	Class      Position
	Name       *Ident
	Superclass *Ident
	Methods    []*FunctionStmt
	Rbrace     Position
}

func (x *ClassStmt) Span() (start, end Position) {
	return x.Class, x.Rbrace.add("}")
}

// An Expr is a Lox expression.
type Expr interface {
	Node
	expr()
}

func (*AssignExpr) expr()  {}
func (*BinaryExpr) expr()  {}
func (*CallExpr) expr()    {}
func (*DotExpr) expr()     {}
func (*Ident) expr()       {}
func (*Literal) expr()     {}
func (*LogicalExpr) expr() {}
func (*ParenExpr) expr()   {}
func (*SetExpr) expr()     {}
func (*SuperExpr) expr()   {}
func (*ThisExpr) expr()    {}
func (*UnaryExpr) expr()   {}

// An Ident represents an identifier. In expression position it denotes a
// variable read; resolution of the read is recorded against its ID.
type Ident struct {
	ID      NodeID
	NamePos Position
	Name    string
}

func (x *Ident) Span() (start, end Position) {
	return x.NamePos, x.NamePos.add(x.Name)
}

// A Literal represents a literal number, string, boolean, or nil.
type Literal struct {
	Token    Token // = NUMBER | STRING | TRUE | FALSE | NIL
	TokenPos Position
	Raw      string      // uninterpreted text
	Value    interface{} // = float64 | string | bool | nil
}

func (x *Literal) Span() (start, end Position) {
	return x.TokenPos, x.TokenPos.add(x.Raw)
}

// A ParenExpr represents a parenthesized expression: (X).
type ParenExpr struct {
	Lparen Position
	X      Expr
	Rparen Position
}

func (x *ParenExpr) Span() (start, end Position) {
	return x.Lparen, x.Rparen.add(")")
}

// A UnaryExpr represents a unary expression: Op X.
type UnaryExpr struct {
	OpPos Position
	Op    Token // = BANG | MINUS
	X     Expr
}

func (x *UnaryExpr) Span() (start, end Position) {
	_, end = x.X.Span()
	return x.OpPos, end
}

// A BinaryExpr represents a binary expression: X Op Y.
type BinaryExpr struct {
	X     Expr
	OpPos Position
	Op    Token
	Y     Expr
}

func (x *BinaryExpr) Span() (start, end Position) {
	start, _ = x.X.Span()
	_, end = x.Y.Span()
	return start, end
}

// A LogicalExpr represents a short-circuit expression: X and Y, X or Y.
type LogicalExpr struct {
	X     Expr
	OpPos Position
	Op    Token // = AND | OR
	Y     Expr
}

func (x *LogicalExpr) Span() (start, end Position) {
	start, _ = x.X.Span()
	_, end = x.Y.Span()
	return start, end
}

// An AssignExpr represents an assignment to a variable: Name = Value.
// Assignment to a field is represented by SetExpr instead.
type AssignExpr struct {
	ID      NodeID
	NamePos Position
	Name    string
	Value   Expr
}

func (x *AssignExpr) Span() (start, end Position) {
	_, end = x.Value.Span()
	return x.NamePos, end
}

// A CallExpr represents a function call expression: Fn(Args).
type CallExpr struct {
	Fn     Expr
	Lparen Position
	Args   []Expr
	Rparen Position
}

func (x *CallExpr) Span() (start, end Position) {
	start, _ = x.Fn.Span()
	return start, x.Rparen.add(")")
}

// A DotExpr represents a property access: X.Name.
type DotExpr struct {
	X    Expr
	Dot  Position
	Name *Ident
}

func (x *DotExpr) Span() (start, end Position) {
	start, _ = x.X.Span()
	_, end = x.Name.Span()
	return start, end
}

// A SetExpr represents a property assignment: Object.Name = Value.
type SetExpr struct {
	Object Expr
	Name   *Ident
	Value  Expr
}

func (x *SetExpr) Span() (start, end Position) {
	start, _ = x.Object.Span()
	_, end = x.Value.Span()
	return start, end
}

// A ThisExpr represents the receiver of the enclosing method: this.
type ThisExpr struct {
	ID       NodeID
	TokenPos Position
}

func (x *ThisExpr) Span() (start, end Position) {
	return x.TokenPos, x.TokenPos.add("this")
}

// A SuperExpr represents a superclass method access: super.Method.
type SuperExpr struct {
	ID       NodeID
	TokenPos Position
	Dot      Position
	Method   *Ident
}

func (x *SuperExpr) Span() (start, end Position) {
	_, end = x.Method.Span()
	return x.TokenPos, end
}
