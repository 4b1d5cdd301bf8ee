package catalog

import (
	"github.com/arvidellis/toydb/errs"
	"github.com/arvidellis/toydb/types"
)

// QueryContext is the set of in-scope tables (with optional aliases) a
// planner resolves names against, per spec.md §4.4. Grounded on
// catalog.hpp's QueryContext: a flat list built up as the FROM clause is
// walked.
type QueryContext struct {
	tables []*TableMetadata
	alias  map[string]*TableMetadata
}

func NewQueryContext() *QueryContext {
	return &QueryContext{alias: make(map[string]*TableMetadata)}
}

// AddTable brings a table into scope, optionally under an alias. Pass an
// empty alias to make the table addressable only by its catalog name.
func (q *QueryContext) AddTable(meta *TableMetadata, alias string) {
	q.tables = append(q.tables, meta)
	name := alias
	if name == "" {
		name = meta.TableId.Name
	}
	q.alias[name] = meta
}

func (q *QueryContext) Tables() []*TableMetadata { return q.tables }

// ResolveColumn resolves a name against the in-scope tables of q, per
// spec.md §4.4: a qualified "table.column" is resolved against that one
// table; a bare "column" matching columns in more than one in-scope table
// is an AmbiguousColumn error.
func (c *Catalog) ResolveColumn(q *QueryContext, qualifier, column string) (types.ColumnId, types.DataType, error) {
	if qualifier != "" {
		meta, ok := q.alias[qualifier]
		if !ok {
			return types.ColumnId{}, types.NullConst, errs.New(errs.Resolution, "ResolveColumn", "UnresolvedTable: %s not in scope", qualifier)
		}
		cs, ok := meta.Schema.GetColumnByName(column)
		if !ok {
			return types.ColumnId{}, types.NullConst, errs.New(errs.Resolution, "ResolveColumn", "UnresolvedColumn: %s.%s", qualifier, column)
		}
		return cs.ColumnId, cs.Type, nil
	}

	var found *ColumnSchema
	var foundIn *TableMetadata
	for _, meta := range q.tables {
		if cs, ok := meta.Schema.GetColumnByName(column); ok {
			if found != nil {
				return types.ColumnId{}, types.NullConst, errs.New(errs.Resolution, "ResolveColumn", "AmbiguousColumn: %s found in both %s and %s", column, foundIn.TableId.Name, meta.TableId.Name)
			}
			csCopy := cs
			found = &csCopy
			foundIn = meta
		}
	}
	if found == nil {
		return types.ColumnId{}, types.NullConst, errs.New(errs.Resolution, "ResolveColumn", "UnresolvedColumn: %s", column)
	}
	return found.ColumnId, found.Type, nil
}

// GetColumnType is a convenience wrapper over ResolveColumn returning only
// the type, matching catalog.hpp's GetColumnType.
func (c *Catalog) GetColumnType(q *QueryContext, qualifier, column string) (types.DataType, error) {
	_, t, err := c.ResolveColumn(q, qualifier, column)
	return t, err
}

// GetTableHandle looks up a table by name and wraps it in a TableHandle,
// the seam from storage/table_handle.hpp that lets the planner ask for a
// scan operator without knowing about file formats.
func (c *Catalog) GetTableHandle(name string) (*TableHandle, error) {
	meta, ok := c.GetTableByName(name)
	if !ok {
		return nil, errs.New(errs.Catalog, "GetTableHandle", "TableNotFound: %s", name)
	}
	return &TableHandle{meta: meta}, nil
}
