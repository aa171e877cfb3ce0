package repl

import (
	"testing"

	"github.com/fabiommendes/craftinginterpreters/syntax"
)

// An entry whose parse failed only because the input ran out must get
// a continuation prompt; one with a real error must be reported as is.
func TestIncomplete(t *testing.T) {
	for _, test := range []struct {
		src  string
		want bool
	}{
		{`fun f() {`, true},
		{`{ var x = 1;`, true},
		{`class C {`, true},
		{`print 1`, true},    // missing ; may arrive on the next line
		{`print "abc`, true}, // strings may span lines
		{`"abc`, true},       // ditto, as the sole token of the entry
		{`if (x) { print 1;`, true},
		{`1 = 2;`, false},
		{`var;`, false},
		{`@`, false},
		{`fun f( { }`, false},
	} {
		_, err := syntax.Parse("<stdin>", test.src)
		if err == nil {
			t.Errorf("parse `%s`: unexpected success", test.src)
			continue
		}
		if got := incomplete(err); got != test.want {
			t.Errorf("incomplete(`%s`) = %t (err: %v), want %t", test.src, got, err, test.want)
		}
	}
}
