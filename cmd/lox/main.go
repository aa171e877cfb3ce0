// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The lox command interprets a Lox file.
// With no arguments and a terminal on stdin, it starts a
// read-eval-print loop (REPL); with piped input it executes stdin.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/pprof"
	"sort"
	"strings"

	"golang.org/x/term"

	"github.com/fabiommendes/craftinginterpreters/lox"
	"github.com/fabiommendes/craftinginterpreters/repl"
	"github.com/fabiommendes/craftinginterpreters/syntax"
)

// flags
var (
	cpuprofile = flag.String("cpuprofile", "", "gather Go CPU profile in this file")
	memprofile = flag.String("memprofile", "", "gather Go memory profile in this file")
	showenv    = flag.Bool("showenv", false, "on success, print final global environment")
	showast    = flag.Bool("ast", false, "print the parse tree instead of executing")
	execprog   = flag.String("c", "", "execute program `prog`")
)

// Exit codes, following the sysexits convention:
// 64 usage, 65 static (scan/parse/resolve) error, 70 runtime error.
const (
	exitUsage   = 64
	exitStatic  = 65
	exitRuntime = 70
)

func main() {
	os.Exit(doMain())
}

func doMain() int {
	log.SetPrefix("lox: ")
	log.SetFlags(0)
	flag.Parse()

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		check(err)
		err = pprof.StartCPUProfile(f)
		check(err)
		defer func() {
			pprof.StopCPUProfile()
			err := f.Close()
			check(err)
		}()
	}
	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		check(err)
		defer func() {
			runtime.GC()
			err := pprof.Lookup("heap").WriteTo(f, 0)
			check(err)
			err = f.Close()
			check(err)
		}()
	}

	thread := &lox.Thread{}
	globals := lox.NewGlobals()

	var (
		filename string
		src      interface{}
	)
	switch {
	case *execprog != "":
		if flag.NArg() > 0 {
			log.Print("want either -c prog or a Lox file name")
			return exitUsage
		}
		filename = "cmdline"
		src = *execprog
	case flag.NArg() == 1:
		filename = flag.Arg(0)
	case flag.NArg() == 0:
		if term.IsTerminal(int(os.Stdin.Fd())) {
			fmt.Println("Welcome to Lox")
			repl.REPL(thread, globals)
			return 0
		}
		// Piped input: execute stdin as a file.
		filename = "<stdin>"
		src = os.Stdin
	default:
		log.Print("want at most one Lox file name")
		return exitUsage
	}

	if *showast {
		f, err := syntax.Parse(filename, src)
		if err != nil {
			repl.PrintError(err)
			return exitStatic
		}
		fmt.Println(syntax.TreeString(f))
		return 0
	}

	if err := lox.ExecFile(thread, filename, src, globals); err != nil {
		repl.PrintError(err)
		if _, ok := err.(*lox.EvalError); ok {
			return exitRuntime
		}
		return exitStatic
	}

	// Print the global environment.
	if *showenv {
		names := globals.Names()
		sort.Strings(names)
		for _, name := range names {
			if !strings.HasPrefix(name, "_") {
				v, _ := globals.Get(name)
				fmt.Fprintf(os.Stderr, "%s = %s\n", name, v)
			}
		}
	}

	return 0
}

func check(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
