// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// This file defines a recursive-descent parser for Lox.
// Errors cause a panic that is recovered at the nearest statement
// boundary, recorded, and followed by resynchronization, so a single
// parse reports as many errors as possible.

import "fmt"

// Parse parses the input data and returns the corresponding parse tree.
//
// If src != nil, Parse parses the source from src and the filename is
// only used when recording position information. The type of the
// argument for the src parameter must be string, []byte, or io.Reader.
// If src == nil, Parse parses the file specified by filename.
//
// If parsing fails, it returns an ErrorList reporting every syntax
// error found before resynchronization gave up.
func Parse(filename string, src interface{}) (f *File, err error) {
	sc, err := newScanner(filename, src)
	if err != nil {
		return nil, err
	}
	p := &parser{sc: sc}
	defer sc.recover(&err)
	p.next() // initialize lookahead
	f = p.parseFile(filename)
	if len(p.errors) > 0 {
		return nil, p.errors
	}
	return f, nil
}

// ParseExpr parses a Lox expression.
// The arguments are as for Parse.
func ParseExpr(filename string, src interface{}) (expr Expr, err error) {
	sc, err := newScanner(filename, src)
	if err != nil {
		return nil, err
	}
	p := &parser{sc: sc}
	defer sc.recover(&err)
	p.next()
	expr = p.expression()
	if p.tok != EOF {
		p.errorf(p.tokval.pos, "got %s, want end of file", p.tok)
	}
	if len(p.errors) > 0 {
		return nil, p.errors
	}
	return expr, nil
}

type parser struct {
	sc     *scanner
	tok    Token      // current lookahead token
	tokval tokenValue // value of lookahead token
	errors ErrorList
	lastID NodeID
}

// newID returns a fresh node identity.
// Identities are dense and start at 1; NoID (zero) is never assigned.
func (p *parser) newID() NodeID {
	p.lastID++
	return p.lastID
}

// next advances the lookahead token.
func (p *parser) next() {
	p.tok = p.sc.nextToken(&p.tokval)
}

func (p *parser) at(tok Token) bool { return p.tok == tok }

// match consumes the lookahead token if it has the specified kind.
func (p *parser) match(tok Token) bool {
	if p.tok != tok {
		return false
	}
	p.next()
	return true
}

// consume reports an error unless the lookahead token has the
// specified kind, then advances past it.
func (p *parser) consume(tok Token, context string) tokenValue {
	if p.tok != tok {
		p.errorf(p.tokval.pos, "got %s, want %s %s", p.describe(), tok, context)
	}
	val := p.tokval
	p.next()
	return val
}

func (p *parser) describe() string {
	switch p.tok {
	case EOF:
		return "end of file"
	case IDENT, NUMBER, STRING:
		return fmt.Sprintf("%s '%s'", p.tok, p.tokval.raw)
	default:
		return fmt.Sprintf("'%s'", p.tokval.raw)
	}
}

func (p *parser) errorf(pos Position, format string, args ...interface{}) {
	panic(Error{Pos: pos, Msg: fmt.Sprintf(format, args...)})
}

// report records an error without unwinding, for errors that do not
// prevent the parse from continuing in place.
func (p *parser) report(pos Position, format string, args ...interface{}) {
	p.errors = append(p.errors, Error{Pos: pos, Msg: fmt.Sprintf(format, args...)})
}

// synchronize discards tokens until a likely statement boundary,
// so that one syntax error does not trigger a cascade of bogus ones.
func (p *parser) synchronize() {
	for p.tok != EOF {
		if p.match(SEMICOLON) {
			return
		}
		switch p.tok {
		case CLASS, FUN, VAR, FOR, IF, WHILE, PRINT, RETURN:
			return
		}
		p.next()
	}
}

func (p *parser) parseFile(path string) *File {
	var stmts []Stmt
	for p.tok != EOF {
		if stmt := p.declaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return &File{Path: path, Stmts: stmts, NumIDs: int(p.lastID)}
}

// declaration parses one declaration or statement, recovering from a
// syntax error by discarding tokens up to a statement boundary.
// It returns nil if recovery occurred.
func (p *parser) declaration() (stmt Stmt) {
	defer func() {
		switch e := recover().(type) {
		case nil:
			// no panic
		case Error:
			p.errors = append(p.errors, e)
			p.synchronize()
			stmt = nil
		default:
			panic(e)
		}
	}()

	switch {
	case p.at(CLASS):
		return p.classDecl()
	case p.at(FUN):
		return p.funDecl()
	case p.at(VAR):
		return p.varDecl()
	default:
		return p.statement()
	}
}

// classDecl = CLASS IDENT ['<' IDENT] '{' {method} '}' .
func (p *parser) classDecl() Stmt {
	classPos := p.tokval.pos
	p.next() // consume CLASS
	name := p.parseIdent("as class name")

	var superclass *Ident
	if p.match(LT) {
		superclass = p.parseIdent("as superclass name")
	}

	p.consume(LBRACE, "before class body")
	var methods []*FunctionStmt
	for !p.at(RBRACE) && !p.at(EOF) {
		methods = append(methods, p.function(Position{} /* no fun keyword */))
	}
	rbrace := p.consume(RBRACE, "after class body")

	return &ClassStmt{
		Class:      classPos,
		Name:       name,
		Superclass: superclass,
		Methods:    methods,
		Rbrace:     rbrace.pos,
	}
}

// funDecl = FUN function .
func (p *parser) funDecl() Stmt {
	funPos := p.tokval.pos
	p.next() // consume FUN
	return p.function(funPos)
}

// function = IDENT '(' [params] ')' block .
func (p *parser) function(funPos Position) *FunctionStmt {
	name := p.parseIdent("as function name")
	p.consume(LPAREN, "after function name")
	var params []*Ident
	if !p.at(RPAREN) {
		for {
			params = append(params, p.parseIdent("as parameter name"))
			if !p.match(COMMA) {
				break
			}
		}
	}
	p.consume(RPAREN, "after parameters")
	p.consume(LBRACE, "before function body")
	body, rbrace := p.blockRest()
	return &FunctionStmt{
		Fun:    funPos,
		Name:   name,
		Params: params,
		Body:   body,
		Rbrace: rbrace,
	}
}

// varDecl = VAR IDENT ['=' expression] ';' .
func (p *parser) varDecl() Stmt {
	varPos := p.tokval.pos
	p.next() // consume VAR
	name := p.parseIdent("as variable name")
	var init Expr
	if p.match(EQ) {
		init = p.expression()
	}
	semi := p.consume(SEMICOLON, "after variable declaration")
	return &VarStmt{Var: varPos, Name: name, Init: init, Semicolon: semi.pos}
}

func (p *parser) statement() Stmt {
	switch p.tok {
	case FOR:
		return p.forStmt()
	case IF:
		return p.ifStmt()
	case PRINT:
		return p.printStmt()
	case RETURN:
		return p.returnStmt()
	case WHILE:
		return p.whileStmt()
	case LBRACE:
		lbrace := p.tokval.pos
		p.next()
		stmts, rbrace := p.blockRest()
		return &BlockStmt{Lbrace: lbrace, Stmts: stmts, Rbrace: rbrace}
	}
	return p.exprStmt()
}

// blockRest parses statements up to the closing brace,
// the opening brace having been consumed already.
func (p *parser) blockRest() (stmts []Stmt, rbrace Position) {
	for !p.at(RBRACE) && !p.at(EOF) {
		if stmt := p.declaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	end := p.consume(RBRACE, "after block")
	return stmts, end.pos
}

// forStmt = FOR '(' (varDecl | exprStmt | ';') [expression] ';' [expression] ')' statement .
//
// There is no For node: the loop is desugared into the equivalent
// Block/While form. The desugared tree is what both the resolver and
// the evaluator traverse, so the two passes cannot disagree about
// which scopes a for loop opens.
func (p *parser) forStmt() Stmt {
	forPos := p.tokval.pos
	p.next() // consume FOR
	p.consume(LPAREN, "after 'for'")

	var init Stmt
	switch {
	case p.match(SEMICOLON):
		// no initializer
	case p.at(VAR):
		init = p.varDecl()
	default:
		init = p.exprStmt()
	}

	var cond Expr
	if !p.at(SEMICOLON) {
		cond = p.expression()
	}
	p.consume(SEMICOLON, "after loop condition")

	var incr Expr
	if !p.at(RPAREN) {
		incr = p.expression()
	}
	rparen := p.consume(RPAREN, "after for clauses")

	body := p.statement()

	if incr != nil {
		_, end := body.Span()
		body = &BlockStmt{
			Lbrace: forPos,
			Stmts:  []Stmt{body, &ExprStmt{X: incr, Semicolon: rparen.pos}},
			Rbrace: end,
		}
	}
	if cond == nil {
		cond = &Literal{Token: TRUE, TokenPos: forPos, Raw: "true", Value: true}
	}
	var loop Stmt = &WhileStmt{While: forPos, Cond: cond, Body: body}
	if init != nil {
		_, end := loop.Span()
		loop = &BlockStmt{Lbrace: forPos, Stmts: []Stmt{init, loop}, Rbrace: end}
	}
	return loop
}

// ifStmt = IF '(' expression ')' statement [ELSE statement] .
func (p *parser) ifStmt() Stmt {
	ifPos := p.tokval.pos
	p.next() // consume IF
	p.consume(LPAREN, "after 'if'")
	cond := p.expression()
	p.consume(RPAREN, "after if condition")
	then := p.statement()
	var els Stmt
	if p.match(ELSE) {
		els = p.statement()
	}
	return &IfStmt{If: ifPos, Cond: cond, Then: then, Else: els}
}

// printStmt = PRINT expression ';' .
func (p *parser) printStmt() Stmt {
	printPos := p.tokval.pos
	p.next() // consume PRINT
	x := p.expression()
	semi := p.consume(SEMICOLON, "after value")
	return &PrintStmt{Print: printPos, X: x, Semicolon: semi.pos}
}

// returnStmt = RETURN [expression] ';' .
func (p *parser) returnStmt() Stmt {
	retPos := p.tokval.pos
	p.next() // consume RETURN
	var result Expr
	if !p.at(SEMICOLON) {
		result = p.expression()
	}
	semi := p.consume(SEMICOLON, "after return value")
	return &ReturnStmt{Return: retPos, Result: result, Semicolon: semi.pos}
}

// whileStmt = WHILE '(' expression ')' statement .
func (p *parser) whileStmt() Stmt {
	whilePos := p.tokval.pos
	p.next() // consume WHILE
	p.consume(LPAREN, "after 'while'")
	cond := p.expression()
	p.consume(RPAREN, "after while condition")
	body := p.statement()
	return &WhileStmt{While: whilePos, Cond: cond, Body: body}
}

// exprStmt = expression ';' .
func (p *parser) exprStmt() Stmt {
	x := p.expression()
	semi := p.consume(SEMICOLON, "after expression")
	return &ExprStmt{X: x, Semicolon: semi.pos}
}

// expression = assignment .
func (p *parser) expression() Expr {
	return p.assignment()
}

// assignment = (call '.')? IDENT '=' assignment | logicOr .
//
// The target is parsed as an ordinary expression and reinterpreted,
// since arbitrary lookahead would otherwise be needed.
func (p *parser) assignment() Expr {
	x := p.logicOr()
	if p.at(EQ) {
		eqPos := p.tokval.pos
		p.next()
		value := p.assignment()
		switch x := x.(type) {
		case *Ident:
			return &AssignExpr{
				ID:      p.newID(),
				NamePos: x.NamePos,
				Name:    x.Name,
				Value:   value,
			}
		case *DotExpr:
			return &SetExpr{Object: x.X, Name: x.Name, Value: value}
		}
		p.report(eqPos, "invalid assignment target")
	}
	return x
}

// logicOr = logicAnd {OR logicAnd} .
func (p *parser) logicOr() Expr {
	x := p.logicAnd()
	for p.at(OR) {
		opPos := p.tokval.pos
		p.next()
		y := p.logicAnd()
		x = &LogicalExpr{X: x, OpPos: opPos, Op: OR, Y: y}
	}
	return x
}

// logicAnd = equality {AND equality} .
func (p *parser) logicAnd() Expr {
	x := p.equality()
	for p.at(AND) {
		opPos := p.tokval.pos
		p.next()
		y := p.equality()
		x = &LogicalExpr{X: x, OpPos: opPos, Op: AND, Y: y}
	}
	return x
}

// equality = comparison {('!=' | '==') comparison} .
func (p *parser) equality() Expr {
	x := p.comparison()
	for p.at(NEQ) || p.at(EQL) {
		op, opPos := p.tok, p.tokval.pos
		p.next()
		y := p.comparison()
		x = &BinaryExpr{X: x, OpPos: opPos, Op: op, Y: y}
	}
	return x
}

// comparison = term {('>' | '>=' | '<' | '<=') term} .
func (p *parser) comparison() Expr {
	x := p.term()
	for p.at(GT) || p.at(GE) || p.at(LT) || p.at(LE) {
		op, opPos := p.tok, p.tokval.pos
		p.next()
		y := p.term()
		x = &BinaryExpr{X: x, OpPos: opPos, Op: op, Y: y}
	}
	return x
}

// term = factor {('-' | '+') factor} .
func (p *parser) term() Expr {
	x := p.factor()
	for p.at(MINUS) || p.at(PLUS) {
		op, opPos := p.tok, p.tokval.pos
		p.next()
		y := p.factor()
		x = &BinaryExpr{X: x, OpPos: opPos, Op: op, Y: y}
	}
	return x
}

// factor = unary {('/' | '*') unary} .
func (p *parser) factor() Expr {
	x := p.unary()
	for p.at(SLASH) || p.at(STAR) {
		op, opPos := p.tok, p.tokval.pos
		p.next()
		y := p.unary()
		x = &BinaryExpr{X: x, OpPos: opPos, Op: op, Y: y}
	}
	return x
}

// unary = ('!' | '-') unary | call .
func (p *parser) unary() Expr {
	if p.at(BANG) || p.at(MINUS) {
		op, opPos := p.tok, p.tokval.pos
		p.next()
		x := p.unary()
		return &UnaryExpr{OpPos: opPos, Op: op, X: x}
	}
	return p.call()
}

// call = primary {'(' [args] ')' | '.' IDENT} .
func (p *parser) call() Expr {
	x := p.primary()
	for {
		switch {
		case p.at(LPAREN):
			lparen := p.tokval.pos
			p.next()
			var args []Expr
			if !p.at(RPAREN) {
				for {
					args = append(args, p.expression())
					if !p.match(COMMA) {
						break
					}
				}
			}
			rparen := p.consume(RPAREN, "after arguments")
			x = &CallExpr{Fn: x, Lparen: lparen, Args: args, Rparen: rparen.pos}
		case p.at(DOT):
			dot := p.tokval.pos
			p.next()
			name := p.parseIdent("after '.'")
			x = &DotExpr{X: x, Dot: dot, Name: name}
		default:
			return x
		}
	}
}

// primary = NUMBER | STRING | TRUE | FALSE | NIL | THIS | IDENT | '(' expression ')' | SUPER '.' IDENT .
func (p *parser) primary() Expr {
	switch p.tok {
	case NUMBER:
		val := p.tokval
		p.next()
		return &Literal{Token: NUMBER, TokenPos: val.pos, Raw: val.raw, Value: val.num}
	case STRING:
		val := p.tokval
		p.next()
		return &Literal{Token: STRING, TokenPos: val.pos, Raw: val.raw, Value: val.string}
	case TRUE:
		val := p.tokval
		p.next()
		return &Literal{Token: TRUE, TokenPos: val.pos, Raw: "true", Value: true}
	case FALSE:
		val := p.tokval
		p.next()
		return &Literal{Token: FALSE, TokenPos: val.pos, Raw: "false", Value: false}
	case NIL:
		val := p.tokval
		p.next()
		return &Literal{Token: NIL, TokenPos: val.pos, Raw: "nil", Value: nil}
	case THIS:
		val := p.tokval
		p.next()
		return &ThisExpr{ID: p.newID(), TokenPos: val.pos}
	case SUPER:
		val := p.tokval
		p.next()
		dot := p.consume(DOT, "after 'super'")
		method := p.parseIdent("as superclass method name")
		return &SuperExpr{ID: p.newID(), TokenPos: val.pos, Dot: dot.pos, Method: method}
	case IDENT:
		return p.parseIdent("")
	case LPAREN:
		lparen := p.tokval.pos
		p.next()
		x := p.expression()
		rparen := p.consume(RPAREN, "after expression")
		return &ParenExpr{Lparen: lparen, X: x, Rparen: rparen.pos}
	}
	p.errorf(p.tokval.pos, "got %s, want expression", p.describe())
	panic("unreachable")
}

func (p *parser) parseIdent(context string) *Ident {
	if p.tok != IDENT {
		if context == "" {
			p.errorf(p.tokval.pos, "got %s, want identifier", p.describe())
		} else {
			p.errorf(p.tokval.pos, "got %s, want identifier %s", p.describe(), context)
		}
	}
	id := &Ident{ID: p.newID(), NamePos: p.tokval.pos, Name: p.tokval.raw}
	p.next()
	return id
}
