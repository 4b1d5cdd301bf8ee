package physop

import (
	"github.com/arvidellis/toydb/buffer"
	"github.com/arvidellis/toydb/errs"
	"github.com/arvidellis/toydb/predicate"
)

// Filter evaluates Predicate against each batch pulled from Input and
// passes through only rows where the result is TRUE, per spec.md §4.5
// ("filter ... [has] one [child]"). A row whose predicate is FALSE or
// NULL is discarded — NULL does not pass, matching spec.md §4.2's "only
// TRUE rows survive a filter" testable property.
type Filter struct {
	Input     Operator
	Predicate predicate.Expr

	indexMap *predicate.IndexMap
}

func NewFilter(input Operator, pred predicate.Expr) *Filter {
	return &Filter{Input: input, Predicate: pred}
}

func (f *Filter) Initialize() error {
	if err := f.Input.Initialize(); err != nil {
		return err
	}
	f.indexMap = f.Predicate.InitializeIndexMap()
	return nil
}

// Next pulls batches from Input, re-pulling on an all-discarded batch,
// until it has at least one surviving row or Input reaches end-of-stream.
func (f *Filter) Next(out *buffer.RowVector) (int64, error) {
	out.Reset()
	for {
		in := buffer.NewRowVector()
		n, err := f.Input.Next(in)
		if err != nil {
			return 0, err
		}
		if n == 0 {
			return 0, nil
		}

		eval := f.assembleEvalBatch(in)
		result := f.Predicate.Evaluate(eval)
		kept := buildFilteredColumns(in, result)
		out.Reset()
		for _, col := range kept.cols {
			out.AddColumn(col)
		}
		out.SetRowCount(kept.n)
		if kept.n > 0 {
			return kept.n, nil
		}
		// entire batch discarded; loop and pull the next one
	}
}

// assembleEvalBatch narrows in to just the columns f.Predicate references,
// in index-map order, the same contract NestedLoopJoin.assembleEvalBatch
// upholds for its join predicate: each ColumnRef reads its column by the
// position Initialize's index map assigned it, so Evaluate can never be
// handed the raw full-schema batch Input produces.
func (f *Filter) assembleEvalBatch(in *buffer.RowVector) *buffer.RowVector {
	eval := buffer.NewRowVector()
	for _, entry := range f.indexMap.Entries() {
		eval.AddColumn(in.ColumnByID(entry.ColumnId))
	}
	eval.SetRowCount(in.RowCount())
	return eval
}

type filteredColumns struct {
	cols []*buffer.ColumnBuffer
	n    int64
}

func buildFilteredColumns(in *buffer.RowVector, result *predicate.ResultVector) filteredColumns {
	n := in.RowCount()
	srcCols := in.Columns()
	dstCols := make([]*buffer.ColumnBuffer, len(srcCols))
	for i, src := range srcCols {
		col, err := buffer.Allocate(src.ColumnId, src.Type, n)
		errs.Check(err == nil, "buildFilteredColumns: allocate: %v", err)
		dstCols[i] = col
	}

	var out int64
	for row := int64(0); row < n; row++ {
		if !result.IsTrue(row) {
			continue
		}
		for i, src := range srcCols {
			copyEntry(dstCols[i], out, src, row)
		}
		out++
	}
	return filteredColumns{cols: dstCols, n: out}
}
