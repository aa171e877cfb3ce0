// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

import "github.com/fabiommendes/craftinginterpreters/syntax"

// Bindings is the output of the resolver: for each variable reference
// that binds to a local, the number of environment frames between the
// frame in effect at the reference and the frame holding the binding.
//
// References absent from the table did not bind to any enclosing local
// scope and must be looked up by name in the global frame at run time.
//
// The table is keyed by node identity, so the syntax tree itself is
// never modified by resolution.
type Bindings struct {
	depths map[syntax.NodeID]int
}

// Depth returns the scope depth recorded for the node, if any.
//
// depth = k means: starting at the environment frame in effect when the
// node is evaluated, walk k parent links to reach the frame that holds
// the binding.
func (b *Bindings) Depth(id syntax.NodeID) (int, bool) {
	depth, ok := b.depths[id]
	return depth, ok
}

// Len returns the number of depth-resolved references.
func (b *Bindings) Len() int { return len(b.depths) }

func (b *Bindings) set(id syntax.NodeID, depth int) {
	if id == syntax.NoID {
		return // node built outside the parser; must resolve globally
	}
	b.depths[id] = depth
}

// An Error describes the nature and position of a resolver error.
type Error struct {
	Pos syntax.Position
	Msg string
}

func (e Error) Error() string { return e.Pos.String() + ": " + e.Msg }

// An ErrorList is a non-empty list of resolver error messages.
// Resolution is best-effort: the whole tree is visited and every
// static error found is reported in one batch.
type ErrorList []Error

func (e ErrorList) Error() string { return e[0].Error() }
