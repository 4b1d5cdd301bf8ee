package physop

import (
	"github.com/arvidellis/toydb/buffer"
	"github.com/arvidellis/toydb/errs"
	"github.com/arvidellis/toydb/types"
)

// Projection restricts each batch pulled from Input to Columns, in the
// given order, per spec.md §4.5's "filter/projection have one [child]"
// and §4.4's "named column lists add a top-level Projection" lowering
// rule. A nil/empty Columns passes every input column through unchanged
// (the lowering for bare SELECT * never actually builds a Projection —
// see planner — but Next stays correct either way).
type Projection struct {
	Input   Operator
	Columns []types.ColumnId
}

func NewProjection(input Operator, columns []types.ColumnId) *Projection {
	return &Projection{Input: input, Columns: columns}
}

func (p *Projection) Initialize() error { return p.Input.Initialize() }

func (p *Projection) Next(out *buffer.RowVector) (int64, error) {
	out.Reset()
	in := buffer.NewRowVector()
	n, err := p.Input.Next(in)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}

	if len(p.Columns) == 0 {
		for _, col := range in.Columns() {
			out.AddColumn(col)
		}
		out.SetRowCount(n)
		return n, nil
	}

	for _, id := range p.Columns {
		src := in.ColumnByID(id)
		dst, err := buffer.Allocate(src.ColumnId, src.Type, n)
		errs.Check(err == nil, "Projection.Next: allocate: %v", err)
		for row := int64(0); row < n; row++ {
			copyEntry(dst, row, src, row)
		}
		out.AddColumn(dst)
	}
	out.SetRowCount(n)
	return n, nil
}
