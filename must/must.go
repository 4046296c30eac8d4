// Package must turns broken invariants into panics.
package must

import "fmt"

// Be panics with msg when an invariant does not hold.
func Be(expr bool, msg string) {
	if !expr {
		panic("invariant violated: " + msg)
	}
}

// NilErr panics when err is set. what names the operation that could not
// fail, and the panic value wraps err.
func NilErr(err error, what string) {
	if nil != err {
		panic(fmt.Errorf("%s: unexpected error: %w", what, err))
	}
}
