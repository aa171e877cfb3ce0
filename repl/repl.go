// Package repl provides a read/eval/print loop for Lox.
//
// It supports readline-style command editing and interrupts through
// Control-C.
//
// If an input line can be parsed as an expression, the REPL evaluates
// it and prints its value. Otherwise the REPL reads lines until the
// input parses as a list of statements, then executes them for side
// effects. Errors of either kind are printed and the loop continues
// with the next entry.
package repl

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/fabiommendes/craftinginterpreters/lox"
	"github.com/fabiommendes/craftinginterpreters/resolve"
	"github.com/fabiommendes/craftinginterpreters/syntax"
)

// REPL executes a read, eval, print loop.
//
// Each entry is evaluated against the same globals frame, so bindings
// persist across entries; static resolution applies to each entry
// individually, with earlier entries visible only as globals.
func REPL(thread *lox.Thread, globals *lox.Environment) {
	rl, err := readline.New(">>> ")
	if err != nil {
		PrintError(err)
		return
	}
	defer rl.Close()
	for {
		if err := rep(rl, thread, globals); err != nil {
			if err == readline.ErrInterrupt {
				fmt.Println(err)
				continue
			}
			break
		}
	}
	fmt.Println()
}

// rep reads, evaluates, and prints one item.
//
// It returns an error (possibly readline.ErrInterrupt)
// only if readline failed. Lox errors are printed.
func rep(rl *readline.Instance, thread *lox.Thread, globals *lox.Environment) error {
	rl.SetPrompt(">>> ")
	line, err := rl.Readline()
	if err != nil {
		if err == io.EOF {
			return io.EOF
		}
		return err
	}
	if line == "" {
		return nil
	}

	// An entry whose first line parses as a sole expression is
	// evaluated and printed.
	if expr, err := syntax.ParseExpr("<stdin>", line); err == nil {
		evalAndPrint(thread, expr, globals)
		return nil
	}

	// Otherwise read continuation lines until the entry parses as a
	// complete list of statements. A blank line forces the attempt.
	chunk := line
	var f *syntax.File
	for {
		var err error
		f, err = syntax.Parse("<stdin>", chunk)
		if err == nil {
			break
		}
		if !incomplete(err) {
			PrintError(err)
			return nil
		}
		rl.SetPrompt("... ")
		line, rlErr := rl.Readline()
		if rlErr != nil || line == "" {
			PrintError(err)
			return nil
		}
		chunk += "\n" + line
	}

	// An entry that turned out to be a sole expression statement is
	// still printed, so "1 + 2;" behaves like "1 + 2".
	if len(f.Stmts) == 1 {
		if stmt, ok := f.Stmts[0].(*syntax.ExprStmt); ok {
			evalAndPrint(thread, stmt.X, globals)
			return nil
		}
	}
	if err := lox.ExecREPLChunk(f, thread, globals); err != nil {
		PrintError(err)
	}
	return nil
}

func evalAndPrint(thread *lox.Thread, expr syntax.Expr, globals *lox.Environment) {
	v, err := lox.EvalExpr(thread, expr, globals)
	if err != nil {
		PrintError(err)
		return
	}
	if v != lox.Nil {
		fmt.Println(v)
	}
}

// incomplete reports whether a parse error indicates that the input
// ended in the middle of a construct, so that more lines may complete
// it. An unterminated string counts: strings may span lines, so the
// closing quote can arrive with the next one. A scan error on the very
// first token arrives as a bare Error rather than a list.
func incomplete(err error) bool {
	switch err := err.(type) {
	case syntax.Error:
		return continuable(err.Msg)
	case syntax.ErrorList:
		return continuable(err[len(err)-1].Msg)
	}
	return false
}

func continuable(msg string) bool {
	return strings.Contains(msg, "end of file") ||
		strings.Contains(msg, "unterminated string")
}

// PrintError prints the error to stderr,
// or its backtrace if it is a Lox evaluation error.
// Batched static errors print one per line.
func PrintError(err error) {
	switch err := err.(type) {
	case *lox.EvalError:
		fmt.Fprintln(os.Stderr, err.Backtrace())
	case syntax.ErrorList:
		for _, e := range err {
			fmt.Fprintln(os.Stderr, e)
		}
	case resolve.ErrorList:
		for _, e := range err {
			fmt.Fprintln(os.Stderr, e)
		}
	default:
		fmt.Fprintln(os.Stderr, err)
	}
}
