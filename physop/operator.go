// Package physop implements the pull-based physical operator framework of
// spec.md §4.5: CsvScan (§4.6) and NestedLoopJoin (§4.7), the two
// non-trivial leaf/binary operators, over the buffer.RowVector batch
// format. Grounded on the teacher's own pull-style codegen loop shape
// (cg/gen_tablescan.go, cg/gen_join.go emit AWK "while (next line)"
// loops); here the loop is a literal Go Operator.Next call chain instead
// of generated text.
package physop

import "github.com/arvidellis/toydb/buffer"

// DefaultBatchSize is the batch_size default of spec.md §4.6.
const DefaultBatchSize = 8192

// Operator is the pull-model iterator contract of spec.md §4.5.
// Initialize is one-shot and propagates depth-first to children; Next
// fills out with up to its batch size rows and returns the row count, 0
// meaning end-of-stream. The caller owns out and may reuse it across
// calls; the callee resets it at entry.
type Operator interface {
	Initialize() error
	Next(out *buffer.RowVector) (int64, error)
}
