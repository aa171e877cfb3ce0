// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// A scanner tokenizes Lox source, one token per call to nextToken.

import (
	"fmt"
	"io"
	"io/ioutil"
	"strconv"
)

// An Error describes the nature and position of a scanner or parser error.
type Error struct {
	Pos Position
	Msg string
}

func (e Error) Error() string { return e.Pos.String() + ": " + e.Msg }

// An ErrorList is a non-empty list of scanner or parser errors,
// accumulated during panic-mode recovery.
type ErrorList []Error

func (l ErrorList) Error() string { return l[0].Error() }

// tokenValue records the position and value associated with each token.
type tokenValue struct {
	raw    string   // raw text of token
	num    float64  // decoded value of NUMBER
	string string   // decoded value of STRING
	pos    Position // start position of token
}

type scanner struct {
	src       string
	offset    int     // byte offset of next rune
	line, col int32   // 1-based position of next rune
	file      *string // filename, shared by all positions
}

func newScanner(filename string, src interface{}) (*scanner, error) {
	data, err := readSource(filename, src)
	if err != nil {
		return nil, err
	}
	return &scanner{
		src:  string(data),
		line: 1,
		col:  1,
		file: &filename,
	}, nil
}

func readSource(filename string, src interface{}) ([]byte, error) {
	switch src := src.(type) {
	case string:
		return []byte(src), nil
	case []byte:
		return src, nil
	case io.Reader:
		return ioutil.ReadAll(src)
	case nil:
		return ioutil.ReadFile(filename)
	default:
		return nil, fmt.Errorf("invalid source: %T", src)
	}
}

func (sc *scanner) pos() Position {
	return MakePosition(sc.file, sc.line, sc.col)
}

// errorf panics with an Error at the specified position.
// The parser recovers it at a statement boundary.
func (sc *scanner) errorf(pos Position, format string, args ...interface{}) {
	panic(Error{Pos: pos, Msg: fmt.Sprintf(format, args...)})
}

// recover records a panicked Error in *err. Used by tests and by the
// parser's statement-level recovery.
func (sc *scanner) recover(err *error) {
	switch e := recover().(type) {
	case nil:
		// no panic
	case Error:
		*err = e
	default:
		panic(e)
	}
}

func (sc *scanner) eof() bool { return sc.offset >= len(sc.src) }

// peek returns the next byte of input without consuming it.
func (sc *scanner) peek() byte {
	if sc.eof() {
		return 0
	}
	return sc.src[sc.offset]
}

func (sc *scanner) peekNext() byte {
	if sc.offset+1 >= len(sc.src) {
		return 0
	}
	return sc.src[sc.offset+1]
}

// advance consumes and returns the next byte of input.
func (sc *scanner) advance() byte {
	c := sc.src[sc.offset]
	sc.offset++
	if c == '\n' {
		sc.line++
		sc.col = 1
	} else {
		sc.col++
	}
	return c
}

// match consumes the next byte if it equals c.
func (sc *scanner) match(c byte) bool {
	if sc.eof() || sc.src[sc.offset] != c {
		return false
	}
	sc.advance()
	return true
}

// nextToken scans the next token, records its position and value in *val,
// and returns its kind. At end of input it returns EOF forever.
func (sc *scanner) nextToken(val *tokenValue) Token {
	// Skip whitespace and comments.
	for !sc.eof() {
		switch sc.peek() {
		case ' ', '\t', '\r', '\n':
			sc.advance()
		case '/':
			if sc.peekNext() != '/' {
				goto start
			}
			for !sc.eof() && sc.peek() != '\n' {
				sc.advance()
			}
		default:
			goto start
		}
	}
start:
	val.pos = sc.pos()
	if sc.eof() {
		val.raw = ""
		return EOF
	}

	mark := sc.offset
	c := sc.advance()
	switch c {
	case '(':
		val.raw = "("
		return LPAREN
	case ')':
		val.raw = ")"
		return RPAREN
	case '{':
		val.raw = "{"
		return LBRACE
	case '}':
		val.raw = "}"
		return RBRACE
	case ',':
		val.raw = ","
		return COMMA
	case '.':
		val.raw = "."
		return DOT
	case '-':
		val.raw = "-"
		return MINUS
	case '+':
		val.raw = "+"
		return PLUS
	case ';':
		val.raw = ";"
		return SEMICOLON
	case '*':
		val.raw = "*"
		return STAR
	case '/':
		val.raw = "/"
		return SLASH
	case '!':
		if sc.match('=') {
			val.raw = "!="
			return NEQ
		}
		val.raw = "!"
		return BANG
	case '=':
		if sc.match('=') {
			val.raw = "=="
			return EQL
		}
		val.raw = "="
		return EQ
	case '<':
		if sc.match('=') {
			val.raw = "<="
			return LE
		}
		val.raw = "<"
		return LT
	case '>':
		if sc.match('=') {
			val.raw = ">="
			return GE
		}
		val.raw = ">"
		return GT
	case '"':
		return sc.scanString(val, mark)
	}

	switch {
	case isDigit(c):
		return sc.scanNumber(val, mark)
	case isAlpha(c):
		for !sc.eof() && isAlphaNumeric(sc.peek()) {
			sc.advance()
		}
		val.raw = sc.src[mark:sc.offset]
		if tok, ok := keywordToken[val.raw]; ok {
			return tok
		}
		return IDENT
	}

	sc.errorf(val.pos, "unexpected character %q", c)
	panic("unreachable")
}

// scanString scans the remainder of a double-quoted string.
// Lox strings have no escape sequences and may span multiple lines.
func (sc *scanner) scanString(val *tokenValue, mark int) Token {
	for !sc.eof() && sc.peek() != '"' {
		sc.advance()
	}
	if sc.eof() {
		sc.errorf(val.pos, "unterminated string")
	}
	sc.advance() // closing quote
	val.raw = sc.src[mark:sc.offset]
	val.string = val.raw[1 : len(val.raw)-1]
	return STRING
}

func (sc *scanner) scanNumber(val *tokenValue, mark int) Token {
	for !sc.eof() && isDigit(sc.peek()) {
		sc.advance()
	}
	// Fractional part requires a digit after the dot,
	// so "1.foo" scans as NUMBER DOT IDENT.
	if sc.peek() == '.' && isDigit(sc.peekNext()) {
		sc.advance()
		for !sc.eof() && isDigit(sc.peek()) {
			sc.advance()
		}
	}
	val.raw = sc.src[mark:sc.offset]
	num, err := strconv.ParseFloat(val.raw, 64)
	if err != nil {
		sc.errorf(val.pos, "invalid number literal %s", val.raw)
	}
	val.num = num
	return NUMBER
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func isAlpha(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '_'
}

func isAlphaNumeric(c byte) bool { return isAlpha(c) || isDigit(c) }
