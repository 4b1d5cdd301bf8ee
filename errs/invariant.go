package errs

import "fmt"

// Check panics with a formatted message when cond is false. Used at the
// exact invariant points spec.md §8 calls out (ColumnBuffer bounds,
// RowVector row-count agreement, predicate index-map/batch-shape match) —
// ported from the original C++ prototype's debug_assert/tdb_assert
// (common/assert.hpp): those are debug-only and compiled out in release
// builds, but per spec.md §7 an invariant violation is undefined behavior
// that "must be prevented by construction" in release, so Check panicking
// unconditionally is the honest Go analog rather than silently ignoring it.
func Check(cond bool, format string, args ...interface{}) {
	if !cond {
		panic(fmt.Sprintf("invariant violated: %s", fmt.Sprintf(format, args...)))
	}
}

// Unreachable panics; use at the default branch of an exhaustive switch over
// a closed tagged union (DataType, predicate node kind, ...) — the Go analog
// of the original's tdb_unreachable.
func Unreachable(format string, args ...interface{}) {
	panic(fmt.Sprintf("unreachable: %s", fmt.Sprintf(format, args...)))
}
