// Package catalog loads the JSON manifest of spec.md §6 (tables, schemas,
// file locations) and exposes the read-side resolution API of
// catalog.hpp in _examples/original_source: Schema column lookup,
// table/column resolution against a set of in-scope tables, and
// TableHandle construction binding a table's metadata to a physop.CsvScan.
package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/arvidellis/toydb/errs"
	"github.com/arvidellis/toydb/types"
)

// manifestJSON and its nested types mirror the wire format of spec.md §6
// exactly; encoding/json is the right tool here (it is a plain JSON
// document, not a format with custom parsing rules the way CSV is) so no
// ecosystem library is substituted — see DESIGN.md.
type manifestJSON struct {
	Tables []tableJSON `json:"tables"`
}

type tableJSON struct {
	Name   string       `json:"name"`
	Id     uint64       `json:"id"`
	IdName string       `json:"id_name"`
	Format string       `json:"format"`
	Schema []columnJSON `json:"schema"`
	Files  []fileJSON   `json:"files"`
}

type columnJSON struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable *bool  `json:"nullable"`
}

type fileJSON struct {
	Path     string `json:"path"`
	RowCount *int64 `json:"row_count"`
}

// ColumnSchema is one column's declared type and nullability within a
// table, in declaration order.
type ColumnSchema struct {
	ColumnId types.ColumnId
	Type     types.DataType
	Nullable bool
}

// DataFile is one file backing a table, with the optional row count from
// the manifest (carried as loaded; the scan does not read it).
type DataFile struct {
	Path     string
	RowCount *int64
}

// Schema is a table's ordered column list plus a name index for
// GetColumnByName, matching catalog.hpp's Schema class.
type Schema struct {
	Columns []ColumnSchema
	byName  map[string]int
}

func (s *Schema) GetColumnByName(name string) (ColumnSchema, bool) {
	idx, ok := s.byName[name]
	if !ok {
		return ColumnSchema{}, false
	}
	return s.Columns[idx], true
}

// TableMetadata describes one catalog table: identity, format, schema, and
// backing files.
type TableMetadata struct {
	TableId types.TableId
	Format  string
	Schema  *Schema
	Files   []DataFile
}

// Catalog is the read-only, loaded-once manifest: a set of tables indexed
// by both id and name, per spec.md §6 ("column ids assigned at load time,
// numbering columns within each table starting at 1").
type Catalog struct {
	tables   []*TableMetadata
	byName   map[string]*TableMetadata
	byTabKey map[uint64]*TableMetadata
}

// Load reads and parses the manifest at path, assigning ColumnIds
// deterministically (1-based per table, per spec.md §6) and resolving
// file paths relative to the manifest's parent directory.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(errs.IO, "catalog.Load", err)
	}

	var doc manifestJSON
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errs.Wrap(errs.Catalog, "catalog.Load", err)
	}

	dir := filepath.Dir(path)
	cat := &Catalog{
		byName:   make(map[string]*TableMetadata),
		byTabKey: make(map[uint64]*TableMetadata),
	}

	for _, tj := range doc.Tables {
		tableId := types.TableId{Id: tj.Id, Name: tj.Name}

		schema := &Schema{byName: make(map[string]int, len(tj.Schema))}
		for i, cj := range tj.Schema {
			t, ok := types.ParseDataType(cj.Type)
			if !ok {
				return nil, errs.New(errs.Catalog, "catalog.Load", "table %s: unknown column type %q for column %s", tj.Name, cj.Type, cj.Name)
			}
			nullable := true
			if cj.Nullable != nil {
				nullable = *cj.Nullable
			}
			colId := types.ColumnId{Id: uint64(i + 1), Name: cj.Name, Owner: tableId}
			schema.byName[cj.Name] = len(schema.Columns)
			schema.Columns = append(schema.Columns, ColumnSchema{ColumnId: colId, Type: t, Nullable: nullable})
		}

		files := make([]DataFile, 0, len(tj.Files))
		for _, fj := range tj.Files {
			p := fj.Path
			if !filepath.IsAbs(p) {
				p = filepath.Join(dir, p)
			}
			files = append(files, DataFile{Path: p, RowCount: fj.RowCount})
		}

		meta := &TableMetadata{TableId: tableId, Format: tj.Format, Schema: schema, Files: files}
		cat.tables = append(cat.tables, meta)
		cat.byName[tj.Name] = meta
		cat.byTabKey[tableId.Key()] = meta
	}

	return cat, nil
}

func (c *Catalog) Tables() []*TableMetadata { return c.tables }

func (c *Catalog) GetTableByName(name string) (*TableMetadata, bool) {
	t, ok := c.byName[name]
	return t, ok
}

func (c *Catalog) GetTableById(id types.TableId) (*TableMetadata, bool) {
	t, ok := c.byTabKey[id.Key()]
	return t, ok
}
