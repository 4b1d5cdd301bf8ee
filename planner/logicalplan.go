// Package planner lowers a parsed sql.Statement into the logical plan of
// spec.md §3 and then into an executable physop.Operator tree (spec.md
// §4.4 "Logical plan -> physical plan lowering"). Grounded on the
// teacher's own plan package (plan/plan.go, plan/resolve.go): a small
// set of node structs plus a single recursive lowering pass, the same
// "AST -> plan -> backend" pipeline shape the teacher uses to go from
// sql.Statement to an AWK program, here retargeted to a physop tree
// instead of generated text.
package planner

import (
	"fmt"
	"strings"

	"github.com/arvidellis/toydb/types"
)

// Plan is the logical plan node sum type of spec.md §3: TableScan,
// Filter, Projection, Join, CrossProduct. Exactly one root per query.
type Plan interface {
	Children() []Plan
	// Describe renders one line describing this node (not its children),
	// for the --explain tree printer.
	Describe() string
}

// TableScan is a leaf reading one table's columns in file order.
type TableScan struct {
	TableName string
	TableId   types.TableId
	Columns   []types.ColumnId
}

func (t *TableScan) Children() []Plan { return nil }
func (t *TableScan) Describe() string {
	return fmt.Sprintf("TableScan(%s, %d cols)", t.TableName, len(t.Columns))
}

// Filter keeps only rows where the WHERE predicate evaluates TRUE. The
// node carries only a textual Description; the executable predicate.Expr
// is built by lowerExpr and handed to physop.Filter in planSelect.
type Filter struct {
	Input       Plan
	Description string
}

func (f *Filter) Children() []Plan  { return []Plan{f.Input} }
func (f *Filter) Describe() string  { return fmt.Sprintf("Filter(%s)", f.Description) }

// Projection restricts the row to a named column list, in order.
type Projection struct {
	Input   Plan
	Columns []types.ColumnId
	Names   []string
}

func (p *Projection) Children() []Plan { return []Plan{p.Input} }
func (p *Projection) Describe() string {
	return fmt.Sprintf("Projection([%s])", strings.Join(p.Names, ", "))
}

// JoinKind enumerates the join kinds the logical plan model can name,
// per spec.md §3. Lowering produces no Join node (multi-table SELECT is
// NotImplemented); the kinds exist so the plan model can represent them.
type JoinKind int

const (
	InnerJoin JoinKind = iota
	LeftJoin
	RightJoin
	FullJoin
	CrossJoin
)

func (k JoinKind) String() string {
	switch k {
	case InnerJoin:
		return "INNER"
	case LeftJoin:
		return "LEFT"
	case RightJoin:
		return "RIGHT"
	case FullJoin:
		return "FULL"
	case CrossJoin:
		return "CROSS"
	default:
		return "UNKNOWN"
	}
}

// Join pairs a build and probe input under a join predicate.
type Join struct {
	Kind        JoinKind
	Build       Plan
	Probe       Plan
	Description string
}

func (j *Join) Children() []Plan { return []Plan{j.Build, j.Probe} }
func (j *Join) Describe() string {
	return fmt.Sprintf("Join(%s, %s)", j.Kind, j.Description)
}

// CrossProduct is a Join with an always-true condition, kept as its own
// node per spec.md §3's variant list.
type CrossProduct struct {
	Left, Right Plan
}

func (c *CrossProduct) Children() []Plan { return []Plan{c.Left, c.Right} }
func (c *CrossProduct) Describe() string { return "CrossProduct" }

// Explain renders the plan tree as indented lines, the shape the
// teacher's own AST dumper (sql/ast.go's debug String methods) and the
// original C++ REPL's AST printer (spec.md §6) both use.
func Explain(p Plan) string {
	var b strings.Builder
	explain(&b, p, 0)
	return strings.TrimRight(b.String(), "\n")
}

func explain(b *strings.Builder, p Plan, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(p.Describe())
	b.WriteByte('\n')
	for _, c := range p.Children() {
		explain(b, c, depth+1)
	}
}
