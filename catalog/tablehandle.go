package catalog

import (
	"github.com/arvidellis/toydb/errs"
	"github.com/arvidellis/toydb/physop"
)

// TableHandle is the seam from storage/table_handle.hpp: a thin per-table
// handle binding a TableMetadata to a physop.CsvScan constructor, so a
// planner never has to know about file formats — it asks the catalog for
// a handle and the handle hands back a scan operator. Narrow by design:
// spec.md excludes Parquet, so the only format this handle ever produces
// is a CSV scan, but the seam means a future format is a new TableHandle
// implementation, not a planner change.
type TableHandle struct {
	meta *TableMetadata
}

func (h *TableHandle) TableMetadata() *TableMetadata { return h.meta }

// NewScan builds a physop.CsvScan over this table's first backing file,
// per spec.md's single-file-per-table examples. batchSize <= 0 uses
// physop.DefaultBatchSize.
func (h *TableHandle) NewScan(batchSize int64) (*physop.CsvScan, error) {
	if h.meta.Format != "csv" {
		return nil, errs.New(errs.NotImplemented, "TableHandle.NewScan", "format %q not implemented (only csv)", h.meta.Format)
	}
	if len(h.meta.Files) == 0 {
		return nil, errs.New(errs.Catalog, "TableHandle.NewScan", "table %s has no backing files", h.meta.TableId.Name)
	}

	schema := make([]physop.ColumnSpec, len(h.meta.Schema.Columns))
	for i, c := range h.meta.Schema.Columns {
		schema[i] = physop.ColumnSpec{ColumnId: c.ColumnId, Type: c.Type, Nullable: c.Nullable}
	}
	return physop.NewCsvScan(h.meta.Files[0].Path, schema, batchSize), nil
}
