package types

// TableId is the stable identity of a table. Equality and hashing (maps
// are keyed by Key()) are defined over Id alone; Name is carried
// only for display and parser resolution, per spec.md §3.
type TableId struct {
	Id   uint64
	Name string
}

// ColumnId is the stable identity of a column. Like TableId, equality is
// Id-only; Name and Owner exist for display/resolution.
type ColumnId struct {
	Id    uint64
	Name  string
	Owner TableId
}

// Equal compares identity only (Id), ignoring the Name display field.
func (t TableId) Equal(o TableId) bool { return t.Id == o.Id }

// Equal compares identity only (Id), ignoring Name/Owner display fields.
func (c ColumnId) Equal(o ColumnId) bool { return c.Id == o.Id }

// key is what actually gets used as a Go map key for ColumnId-indexed maps
// throughout the engine. Go struct equality on ColumnId would incorrectly
// compare Name and Owner.Name too, so every map keyed "by ColumnId" in this
// codebase is in fact keyed by id.Key() to honor the Id-only identity
// rule from spec.md §3.
type columnKey = uint64

// Key returns the map key to use for this ColumnId in column-indexed maps.
func (c ColumnId) Key() columnKey { return c.Id }

// Key returns the map key to use for this TableId in table-indexed maps.
func (t TableId) Key() uint64 { return t.Id }
