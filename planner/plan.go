package planner

import (
	"github.com/arvidellis/toydb/catalog"
	"github.com/arvidellis/toydb/errs"
	"github.com/arvidellis/toydb/physop"
	"github.com/arvidellis/toydb/sql"
)

// Result is what PlanStatement hands back: the logical plan (for --explain) paired
// with the physical operator tree ready for Initialize/Next.
type Result struct {
	Logical  Plan
	Physical physop.Operator
}

// PlanStatement lowers one parsed statement against cat into an executable
// operator tree, per spec.md §4.4. Only single-table SELECT is lowered
// to something executable; multi-table/JOIN SELECT and every DML/DDL
// statement type produce a NotImplemented error at this stage, per
// spec.md §7 ("feature recognized but not executable").
func PlanStatement(stmt sql.Statement, cat *catalog.Catalog, batchSize int64) (*Result, error) {
	switch s := stmt.(type) {
	case *sql.SelectStmt:
		return planSelect(s, cat, batchSize)
	case *sql.InsertStmt:
		return nil, errs.New(errs.NotImplemented, "plan", "INSERT is parsed but not executed")
	case *sql.UpdateStmt:
		return nil, errs.New(errs.NotImplemented, "plan", "UPDATE is parsed but not executed")
	case *sql.DeleteStmt:
		return nil, errs.New(errs.NotImplemented, "plan", "DELETE is parsed but not executed")
	case *sql.CreateTableStmt:
		return nil, errs.New(errs.NotImplemented, "plan", "CREATE TABLE is parsed but not executed")
	default:
		errs.Unreachable("PlanStatement: unknown statement type %T", stmt)
		return nil, nil
	}
}

func planSelect(s *sql.SelectStmt, cat *catalog.Catalog, batchSize int64) (*Result, error) {
	if len(s.From) != 1 || len(s.Joins) != 0 {
		return nil, errs.New(errs.NotImplemented, "plan", "multi-table/JOIN SELECT is not implemented (operator itself is, see physop.NestedLoopJoin)")
	}

	ref := s.From[0]
	meta, ok := cat.GetTableByName(ref.Name)
	if !ok {
		return nil, errs.New(errs.Catalog, "plan", "table %q not found", ref.Name)
	}
	handle, err := cat.GetTableHandle(ref.Name)
	if err != nil {
		return nil, err
	}

	q := catalog.NewQueryContext()
	q.AddTable(meta, ref.Alias)

	scanOp, err := handle.NewScan(batchSize)
	if err != nil {
		return nil, err
	}

	var logical Plan = &TableScan{
		TableName: meta.TableId.Name,
		TableId:   meta.TableId,
		Columns:   columnIdsOf(meta),
	}
	var physical physop.Operator = scanOp

	if s.Where != nil {
		predExpr, _, err := lowerExpr(s.Where, cat, q)
		if err != nil {
			return nil, err
		}
		logical = &Filter{Input: logical, Description: describeWhere(s.Where)}
		physical = physop.NewFilter(physical, predExpr)
	}

	if proj, names, isStar := projectionColumns(s, cat, q); !isStar {
		if proj == nil {
			return nil, errs.New(errs.Resolution, "plan", "empty SELECT list")
		}
		logical = &Projection{Input: logical, Columns: proj, Names: names}
		physical = physop.NewProjection(physical, proj)
	}

	return &Result{Logical: logical, Physical: physical}, nil
}
