package planner

import (
	"fmt"

	"github.com/arvidellis/toydb/catalog"
	"github.com/arvidellis/toydb/sql"
	"github.com/arvidellis/toydb/types"
)

func columnIdsOf(meta *catalog.TableMetadata) []types.ColumnId {
	ids := make([]types.ColumnId, len(meta.Schema.Columns))
	for i, c := range meta.Schema.Columns {
		ids[i] = c.ColumnId
	}
	return ids
}

// projectionColumns decides whether s's SELECT list is a bare `*` (no
// Projection node needed, per spec.md §4.4: "a SELECT * lowers to
// either a bare TableScan or Filter(TableScan)") or a named column list
// that must be resolved against q and lowered to a top-level
// Projection.
func projectionColumns(s *sql.SelectStmt, cat *catalog.Catalog, q *catalog.QueryContext) (cols []types.ColumnId, names []string, isStar bool) {
	if len(s.Items) == 1 && s.Items[0].Star {
		return nil, nil, true
	}

	for _, item := range s.Items {
		if item.Star {
			continue
		}
		ident, ok := item.Expr.(*sql.Ident)
		if !ok {
			continue
		}
		id, _, err := cat.ResolveColumn(q, ident.Table, ident.Column)
		if err != nil {
			continue
		}
		name := item.Alias
		if name == "" {
			name = ident.Column
		}
		cols = append(cols, id)
		names = append(names, name)
	}
	return cols, names, false
}

func describeWhere(e sql.Expr) string {
	switch n := e.(type) {
	case *sql.Ident:
		if n.Table != "" {
			return n.Table + "." + n.Column
		}
		return n.Column
	case *sql.IntLiteral:
		return fmt.Sprintf("%d", n.Value)
	case *sql.RealLiteral:
		return fmt.Sprintf("%g", n.Value)
	case *sql.StringLiteral:
		return "'" + n.Value + "'"
	case *sql.BoolLiteral:
		return fmt.Sprintf("%t", n.Value)
	case *sql.NullLiteral:
		return "NULL"
	case *sql.BinaryCompare:
		return describeWhere(n.Left) + " " + compareSymbol(n.Op) + " " + describeWhere(n.Right)
	case *sql.BinaryLogical:
		op := "AND"
		if n.Op == sql.OpOr {
			op = "OR"
		}
		return describeWhere(n.Left) + " " + op + " " + describeWhere(n.Right)
	case *sql.Not:
		return "NOT " + describeWhere(n.Child)
	default:
		return "?"
	}
}

func compareSymbol(op sql.CompareOp) string {
	switch op {
	case sql.OpEq:
		return "="
	case sql.OpNe:
		return "!="
	case sql.OpLt:
		return "<"
	case sql.OpLe:
		return "<="
	case sql.OpGt:
		return ">"
	case sql.OpGe:
		return ">="
	default:
		return "?"
	}
}
