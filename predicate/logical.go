package predicate

import (
	"github.com/arvidellis/toydb/buffer"
	"github.com/arvidellis/toydb/errs"
)

type LogicalOp int

const (
	And LogicalOp = iota
	Or
	Not
)

// Logical combines one or two boolean sub-predicates with AND/OR/NOT,
// per spec.md §3/§4.2. Not uses only Left; And/Or use both.
type Logical struct {
	Op          LogicalOp
	Left, Right Expr
}

func NewAnd(left, right Expr) *Logical { return &Logical{Op: And, Left: left, Right: right} }
func NewOr(left, right Expr) *Logical  { return &Logical{Op: Or, Left: left, Right: right} }
func NewNot(child Expr) *Logical       { return &Logical{Op: Not, Left: child} }

func (l *Logical) assignIndices(a *indexAssigner) {
	l.Left.assignIndices(a)
	if l.Op != Not {
		l.Right.assignIndices(a)
	}
}

func (l *Logical) InitializeIndexMap() *IndexMap { return initializeIndexMap(l) }

func (l *Logical) EvaluateRow(batch *buffer.RowVector, row int64) Value {
	switch l.Op {
	case And:
		return and3(l.Left.EvaluateRow(batch, row), l.Right.EvaluateRow(batch, row))
	case Or:
		return or3(l.Left.EvaluateRow(batch, row), l.Right.EvaluateRow(batch, row))
	case Not:
		return not3(l.Left.EvaluateRow(batch, row))
	default:
		errs.Unreachable("Logical.EvaluateRow: unknown op %d", l.Op)
		return Null
	}
}

func (l *Logical) Evaluate(batch *buffer.RowVector) *ResultVector {
	switch l.Op {
	case And:
		result := l.Left.Evaluate(batch)
		result.CombineAnd(l.Right.Evaluate(batch))
		return result
	case Or:
		result := l.Left.Evaluate(batch)
		result.CombineOr(l.Right.Evaluate(batch))
		return result
	case Not:
		child := l.Left.Evaluate(batch)
		n := child.Len()
		result := NewResultVector(n)
		for i := int64(0); i < n; i++ {
			result.Set(i, not3(child.Get(i)))
		}
		return result
	default:
		errs.Unreachable("Logical.Evaluate: unknown op %d", l.Op)
		return nil
	}
}
