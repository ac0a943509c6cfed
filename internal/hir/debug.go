package hir

import "fmt"

// DebugChecks enables internal invariant assertions. These guard against
// defects in the optimization passes themselves, not against malformed
// input graphs; release builds of the compiler set this to false.
const DebugChecks = true

// Assertf panics with a formatted message when cond is false and
// DebugChecks is enabled.
func Assertf(cond bool, format string, args ...interface{}) {
	if DebugChecks && !cond {
		panic(fmt.Sprintf("hir: internal check failed: "+format, args...))
	}
}
