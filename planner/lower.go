package planner

import (
	"math"

	"github.com/arvidellis/toydb/catalog"
	"github.com/arvidellis/toydb/errs"
	"github.com/arvidellis/toydb/predicate"
	"github.com/arvidellis/toydb/sql"
	"github.com/arvidellis/toydb/types"
)

// lowerExpr turns one sql.Expr into a predicate.Expr plus its static
// result type, resolving column names against q. Literals and column
// references report their own type; BinaryCompare/BinaryLogical/Not
// always report types.Bool since their 3VL result isn't itself an
// operand type any enclosing Compare needs (spec.md §3's Compare
// operands are always Ident/literal, never a nested boolean).
func lowerExpr(e sql.Expr, cat *catalog.Catalog, q *catalog.QueryContext) (predicate.Expr, types.DataType, error) {
	switch n := e.(type) {
	case *sql.Ident:
		id, t, err := cat.ResolveColumn(q, n.Table, n.Column)
		if err != nil {
			return nil, types.NullConst, err
		}
		return predicate.NewColumnRef(id, t), t, nil

	case *sql.IntLiteral:
		// An integer literal is typed INT32 when it fits (matching spec.md
		// §8 scenario 4's Const_INT32(1) against an INT64 column, which is
		// exactly what forces a Cast to be inserted below), INT64 otherwise.
		if n.Value >= math.MinInt32 && n.Value <= math.MaxInt32 {
			return predicate.NewIntConstant(types.Int32, n.Value), types.Int32, nil
		}
		return predicate.NewIntConstant(types.Int64, n.Value), types.Int64, nil
	case *sql.RealLiteral:
		return predicate.NewDoubleConstant(n.Value), types.Double, nil
	case *sql.StringLiteral:
		return predicate.NewStringConstant(n.Value), types.String, nil
	case *sql.BoolLiteral:
		return predicate.NewBoolConstant(n.Value), types.Bool, nil
	case *sql.NullLiteral:
		return predicate.NewNullConstant(), types.NullConst, nil

	case *sql.BinaryCompare:
		return lowerCompare(n, cat, q)

	case *sql.BinaryLogical:
		left, _, err := lowerExpr(n.Left, cat, q)
		if err != nil {
			return nil, types.NullConst, err
		}
		right, _, err := lowerExpr(n.Right, cat, q)
		if err != nil {
			return nil, types.NullConst, err
		}
		switch n.Op {
		case sql.OpAnd:
			return predicate.NewAnd(left, right), types.Bool, nil
		case sql.OpOr:
			return predicate.NewOr(left, right), types.Bool, nil
		default:
			errs.Unreachable("lowerExpr: unknown logical op %d", n.Op)
			return nil, types.NullConst, nil
		}

	case *sql.Not:
		child, _, err := lowerExpr(n.Child, cat, q)
		if err != nil {
			return nil, types.NullConst, err
		}
		return predicate.NewNot(child), types.Bool, nil

	default:
		return nil, types.NullConst, errs.New(errs.Type, "lower", "unsupported expression in WHERE clause")
	}
}

var compareOps = map[sql.CompareOp]predicate.CompareOp{
	sql.OpEq: predicate.Equal,
	sql.OpNe: predicate.NotEqual,
	sql.OpLt: predicate.Less,
	sql.OpLe: predicate.LessEqual,
	sql.OpGt: predicate.Greater,
	sql.OpGe: predicate.GreaterEqual,
}

// lowerCompare lowers a single comparison, inserting a Cast on whichever
// side's static type differs from the reconciled operand type — spec.md
// §3/§4.4's "a Cast appears iff the child's type differs from
// target_type" invariant, reconciled via types.CommonType the same way
// §8 scenario 4 ("Select with WHERE") expects: `id = 1` over an INT64
// column compares against an INT32 literal, producing
// Cast(INT64, Const_INT32(1)).
func lowerCompare(n *sql.BinaryCompare, cat *catalog.Catalog, q *catalog.QueryContext) (predicate.Expr, types.DataType, error) {
	left, lt, err := lowerExpr(n.Left, cat, q)
	if err != nil {
		return nil, types.NullConst, err
	}
	right, rt, err := lowerExpr(n.Right, cat, q)
	if err != nil {
		return nil, types.NullConst, err
	}

	operandType := lt
	if lt != rt {
		common, ok := types.CommonType(lt, rt)
		if !ok {
			return nil, types.NullConst, errs.New(errs.Type, "lower", "cannot compare %s against %s: no common type", lt, rt)
		}
		operandType = common
	}

	if lt != operandType && lt != types.NullConst {
		left, err = insertCast(operandType, lt, left)
		if err != nil {
			return nil, types.NullConst, err
		}
	}
	if rt != operandType && rt != types.NullConst {
		right, err = insertCast(operandType, rt, right)
		if err != nil {
			return nil, types.NullConst, err
		}
	}

	op, ok := compareOps[n.Op]
	if !ok {
		errs.Unreachable("lowerCompare: unknown compare op %d", n.Op)
	}

	cmp, err := predicate.NewCompare(op, operandType, left, right)
	if err != nil {
		return nil, types.NullConst, err
	}
	return cmp, types.Bool, nil
}

func insertCast(target, childType types.DataType, child predicate.Expr) (predicate.Expr, error) {
	cast, err := predicate.NewCast(target, childType, child)
	if err != nil {
		return nil, err
	}
	return cast, nil
}
