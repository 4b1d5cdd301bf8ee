package predicate

import (
	"github.com/arvidellis/toydb/buffer"
	"github.com/arvidellis/toydb/errs"
	"github.com/arvidellis/toydb/types"
)

// Cast reconciles a child's type to Target using the lattice of
// types.CommonType, inserted by the planner whenever a Compare operand's
// type differs from the comparison's common operand type (spec.md §3,
// §4.4). Integer-narrowing and float->int conversions are never generated
// by the planner (spec.md §4.3); NewCast enforces that Target is actually
// reachable from the child's type via the lattice.
//
// As a boolean predicate in its own right (spec.md §4.3: Cast's
// EvaluateRow just forwards null-ness), Cast delegates straight to its
// child — the actual numeric widening only matters to an enclosing
// Compare, which extracts and converts the typed scalar value itself (see
// compare.go), the same way the original C++ CompareExpr::extractValue
// dynamic_casts into ColumnRefExpr/ConstantExpr rather than asking Cast to
// materialize a value up front.
type Cast struct {
	Target    types.DataType
	Child     Expr
	childType types.DataType
}

// NewCast validates that Target differs from the child's static type (the
// planner invariant of spec.md §3: "a Cast appears iff the child's type
// differs from target_type") and that the lattice actually allows the
// conversion, returning a TypeError otherwise.
func NewCast(target, childType types.DataType, child Expr) (*Cast, error) {
	if target == childType {
		return nil, errs.New(errs.Type, "cast", "Cast target %s equals child type %s; planner should not have inserted this node", target, childType)
	}
	if common, ok := types.CommonType(target, childType); !ok || common != target {
		return nil, errs.New(errs.Type, "cast", "cannot cast %s to %s: not reachable via the type lattice", childType, target)
	}
	return &Cast{Target: target, Child: child, childType: childType}, nil
}

func (c *Cast) assignIndices(a *indexAssigner) { c.Child.assignIndices(a) }

func (c *Cast) InitializeIndexMap() *IndexMap { return initializeIndexMap(c) }

func (c *Cast) EvaluateRow(batch *buffer.RowVector, row int64) Value {
	return c.Child.EvaluateRow(batch, row)
}

func (c *Cast) Evaluate(batch *buffer.RowVector) *ResultVector {
	return c.Child.Evaluate(batch)
}
