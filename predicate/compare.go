package predicate

import (
	"strings"

	"github.com/arvidellis/toydb/buffer"
	"github.com/arvidellis/toydb/errs"
	"github.com/arvidellis/toydb/types"
)

type CompareOp int

const (
	Equal CompareOp = iota
	NotEqual
	Greater
	Less
	GreaterEqual
	LessEqual
)

// Compare is a two-operand boolean comparison over a shared OperandType,
// per spec.md §3: "a Compare node's two operands share operand_type".
// Equality on STRING is byte equality after trailing NULs (both sides are
// already NUL-padded ColumnBuffer slots so this is just Go string
// equality); ordering is lexicographic, per spec.md §4.3.
type Compare struct {
	Op          CompareOp
	OperandType types.DataType
	Left, Right Expr
}

// NewCompare validates the spec.md §3 invariant that both operands'
// static type equals OperandType, returning a TypeError if the planner
// failed to reconcile them (a Cast should have been inserted instead).
func NewCompare(op CompareOp, operandType types.DataType, left, right Expr) (*Compare, error) {
	if lt, ok := staticType(left); ok && lt != operandType {
		return nil, errs.New(errs.Type, "compare", "left operand has type %s, expected %s", lt, operandType)
	}
	if rt, ok := staticType(right); ok && rt != operandType {
		return nil, errs.New(errs.Type, "compare", "right operand has type %s, expected %s", rt, operandType)
	}
	return &Compare{Op: op, OperandType: operandType, Left: left, Right: right}, nil
}

// staticType reports the declared type of a ColumnRef, Constant, or Cast
// node, used only for the NewCompare construction-time check above.
// Constants typed NULL_CONST report ok=false since a null constant's type
// carries no comparison-relevant information (it always produces NULL).
func staticType(e Expr) (types.DataType, bool) {
	switch n := e.(type) {
	case *ColumnRef:
		return n.Type, true
	case *Constant:
		if n.IsNull() {
			return types.NullConst, false
		}
		return n.Type, true
	case *Cast:
		return n.Target, true
	default:
		return types.NullConst, false
	}
}

func (c *Compare) assignIndices(a *indexAssigner) {
	c.Left.assignIndices(a)
	c.Right.assignIndices(a)
}

func (c *Compare) InitializeIndexMap() *IndexMap { return initializeIndexMap(c) }

// scalar holds an extracted operand value along with which representation
// is populated, mirroring the original CompareExpr::extractValue<T>
// dynamic_cast dispatch with a type switch instead.
type scalar struct {
	isNull bool
	i      int64
	f      float64
	s      string
	b      bool
}

func extractScalar(e Expr, batch *buffer.RowVector, row int64, operandType types.DataType) scalar {
	switch n := e.(type) {
	case *ColumnRef:
		col := batch.Column(int(n.Index()))
		if col.IsNull(row) {
			return scalar{isNull: true}
		}
		return scalarFromColumn(col, row, operandType)
	case *Constant:
		if n.IsNull() {
			return scalar{isNull: true}
		}
		return scalarFromConstant(n, operandType)
	case *Cast:
		inner := extractScalar(n.Child, batch, row, n.childType)
		if inner.isNull {
			return inner
		}
		return widen(inner, n.childType, n.Target)
	default:
		errs.Unreachable("extractScalar: unsupported expression node")
		return scalar{}
	}
}

func scalarFromColumn(col *buffer.ColumnBuffer, row int64, operandType types.DataType) scalar {
	switch operandType {
	case types.Int32:
		return scalar{i: int64(col.GetInt32(row))}
	case types.Int64:
		return scalar{i: col.GetInt64(row)}
	case types.Double:
		return scalar{f: col.GetDouble(row)}
	case types.Bool:
		return scalar{b: col.GetBool(row)}
	case types.String:
		return scalar{s: col.GetString(row)}
	default:
		errs.Unreachable("scalarFromColumn: unsupported operand type %s", operandType)
		return scalar{}
	}
}

func scalarFromConstant(c *Constant, operandType types.DataType) scalar {
	switch operandType {
	case types.Int32, types.Int64:
		return scalar{i: c.IntValue()}
	case types.Double:
		return scalar{f: c.DoubleValue()}
	case types.Bool:
		return scalar{b: c.BoolValue()}
	case types.String:
		return scalar{s: c.StringValue()}
	default:
		errs.Unreachable("scalarFromConstant: unsupported operand type %s", operandType)
		return scalar{}
	}
}

// widen converts a scalar already extracted at srcType to dstType,
// following the lattice of types.CommonType. Float->int narrowing is
// never requested (spec.md §4.3) and panics as an internal invariant if it
// somehow is.
func widen(s scalar, srcType, dstType types.DataType) scalar {
	if srcType == dstType {
		return s
	}
	if srcType == types.Bool && s.b {
		s.i = 1
	}
	switch dstType {
	case types.Int32, types.Int64:
		errs.Check(srcType == types.Int32 || srcType == types.Bool, "widen: narrowing/unsupported cast %s -> %s", srcType, dstType)
		return scalar{i: s.i}
	case types.Double:
		errs.Check(srcType == types.Int32 || srcType == types.Int64 || srcType == types.Bool, "widen: unsupported cast %s -> %s", srcType, dstType)
		return scalar{f: float64(s.i)}
	default:
		errs.Unreachable("widen: unsupported target type %s", dstType)
		return scalar{}
	}
}

func compareScalars(op CompareOp, operandType types.DataType, l, r scalar) Value {
	if l.isNull || r.isNull {
		return Null
	}
	var result bool
	switch operandType {
	case types.Int32, types.Int64:
		result = compareOrdered(op, l.i, r.i)
	case types.Double:
		result = compareOrdered(op, l.f, r.f)
	case types.Bool:
		result = compareBool(op, l.b, r.b)
	case types.String:
		result = compareString(op, l.s, r.s)
	default:
		errs.Unreachable("compareScalars: unsupported operand type %s", operandType)
	}
	if result {
		return True
	}
	return False
}

type ordered interface{ ~int64 | ~float64 }

func compareOrdered[T ordered](op CompareOp, l, r T) bool {
	switch op {
	case Equal:
		return l == r
	case NotEqual:
		return l != r
	case Greater:
		return l > r
	case Less:
		return l < r
	case GreaterEqual:
		return l >= r
	case LessEqual:
		return l <= r
	default:
		errs.Unreachable("compareOrdered: unknown op %d", op)
		return false
	}
}

func compareBool(op CompareOp, l, r bool) bool {
	li, ri := int64(0), int64(0)
	if l {
		li = 1
	}
	if r {
		ri = 1
	}
	return compareOrdered(op, li, ri)
}

func compareString(op CompareOp, l, r string) bool {
	switch op {
	case Equal:
		return l == r
	case NotEqual:
		return l != r
	case Greater:
		return strings.Compare(l, r) > 0
	case Less:
		return strings.Compare(l, r) < 0
	case GreaterEqual:
		return strings.Compare(l, r) >= 0
	case LessEqual:
		return strings.Compare(l, r) <= 0
	default:
		errs.Unreachable("compareString: unknown op %d", op)
		return false
	}
}

func (c *Compare) EvaluateRow(batch *buffer.RowVector, row int64) Value {
	l := extractScalar(c.Left, batch, row, c.OperandType)
	r := extractScalar(c.Right, batch, row, c.OperandType)
	return compareScalars(c.Op, c.OperandType, l, r)
}

func (c *Compare) Evaluate(batch *buffer.RowVector) *ResultVector {
	// Index this subtree only if no enclosing root has done so already;
	// re-indexing would overwrite the positions the root assigned.
	var indexed func(e Expr) bool
	indexed = func(e Expr) bool {
		switch n := e.(type) {
		case *ColumnRef:
			return n.indexSet
		case *Cast:
			return indexed(n.Child)
		default:
			return true
		}
	}
	if !indexed(c.Left) || !indexed(c.Right) {
		c.InitializeIndexMap().AssertShape(batch)
	}

	n := batch.RowCount()
	result := NewResultVector(n)
	for i := int64(0); i < n; i++ {
		result.Set(i, c.EvaluateRow(batch, i))
	}
	return result
}
