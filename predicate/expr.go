package predicate

import (
	"github.com/arvidellis/toydb/buffer"
	"github.com/arvidellis/toydb/errs"
	"github.com/arvidellis/toydb/types"
)

// Expr is the predicate expression tree sum type of spec.md §3: ColumnRef,
// Constant, Cast, Compare, Logical. It is a pure value, freely cloneable,
// owned exclusively by its parent node — there is no shared-subtree
// identity concern here (unlike the logical plan, §3).
//
// Modeled as a Go interface with one concrete type per variant and an
// unexported assignIndices for the pre-order column-index walk, the same
// "tagged sum type, exhaustive type switch" shape the teacher uses for
// sql.Expr (sql/ast.go: Type() tag + type assertions in cg/gen_expr.go)
// rather than the original C++'s dynamic_cast-based dispatch.
type Expr interface {
	// Evaluate computes a three-valued result for every row of batch.
	Evaluate(batch *buffer.RowVector) *ResultVector
	// EvaluateRow computes a three-valued result for a single row.
	EvaluateRow(batch *buffer.RowVector, row int64) Value
	// InitializeIndexMap must be called once, on the root of the tree,
	// before Evaluate/EvaluateRow. It performs the pre-order ColumnRef
	// numbering of spec.md §4.3 and returns the resulting map. A Compare
	// evaluated without it indexes its own subtree on first Evaluate.
	InitializeIndexMap() *IndexMap
	assignIndices(a *indexAssigner)
}

// indexAssigner threads the shared "next index" counter and dedup set
// through the pre-order tree walk.
type indexAssigner struct {
	next    int32
	seen    map[uint64]int32
	entries []IndexEntry
}

func newIndexAssigner() *indexAssigner {
	return &indexAssigner{seen: make(map[uint64]int32)}
}

func (a *indexAssigner) indexFor(id types.ColumnId) int32 {
	if idx, ok := a.seen[id.Key()]; ok {
		return idx
	}
	idx := a.next
	a.next++
	a.seen[id.Key()] = idx
	a.entries = append(a.entries, IndexEntry{ColumnId: id, Index: idx})
	return idx
}

// IndexEntry pairs a ColumnId with the position a predicate expects it at
// in the batch it is evaluated against.
type IndexEntry struct {
	ColumnId types.ColumnId
	Index    int32
}

// IndexMap is the column-index map of spec.md §3/§4.3: the immutable
// (after InitializeIndexMap) declaration of which column identity a
// predicate expects at each positional slot of the RowVector it evaluates.
type IndexMap struct {
	entries []IndexEntry
	byKey   map[uint64]int32
}

func (m *IndexMap) Size() int { return len(m.entries) }

func (m *IndexMap) IndexOf(id types.ColumnId) (int32, bool) {
	idx, ok := m.byKey[id.Key()]
	return idx, ok
}

// Entries returns the map's (ColumnId, Index) pairs in index order —
// Entries()[i].Index == i for every i.
func (m *IndexMap) Entries() []IndexEntry { return m.entries }

// AssertShape is the debug-only check from spec.md §4.3: the batch
// presented to Evaluate must contain exactly the referenced columns, in
// the assigned order.
func (m *IndexMap) AssertShape(batch *buffer.RowVector) {
	errs.Check(batch.ColumnCount() == len(m.entries),
		"batch column count mismatch: predicate expects %d columns, batch has %d", len(m.entries), batch.ColumnCount())
	for _, e := range m.entries {
		col := batch.Column(int(e.Index))
		errs.Check(col.ColumnId.Equal(e.ColumnId),
			"batch column at index %d is %s, predicate expects %s at that index", e.Index, col.ColumnId.Name, e.ColumnId.Name)
	}
}

func initializeIndexMap(root Expr) *IndexMap {
	a := newIndexAssigner()
	root.assignIndices(a)
	m := &IndexMap{entries: a.entries, byKey: make(map[uint64]int32, len(a.entries))}
	for _, e := range a.entries {
		m.byKey[e.ColumnId.Key()] = e.Index
	}
	return m
}

// -----------------------------------------------------------------------
// ColumnRef

// ColumnRef references a column by identity. index is resolved once by
// InitializeIndexMap (spec.md §3). It is rarely used as a predicate
// directly — it primarily supplies a typed value to Compare/Cast; per
// spec.md §4.3, EvaluateRow on a bare ColumnRef yields NULL if the row's
// null bit is clear, TRUE otherwise.
type ColumnRef struct {
	ColumnId types.ColumnId
	Type     types.DataType
	index    int32
	indexSet bool
}

func NewColumnRef(id types.ColumnId, t types.DataType) *ColumnRef {
	return &ColumnRef{ColumnId: id, Type: t, index: -1}
}

func (c *ColumnRef) Index() int32 {
	errs.Check(c.indexSet, "column index not initialized for %s; call InitializeIndexMap first", c.ColumnId.Name)
	return c.index
}

func (c *ColumnRef) assignIndices(a *indexAssigner) {
	c.index = a.indexFor(c.ColumnId)
	c.indexSet = true
}

func (c *ColumnRef) InitializeIndexMap() *IndexMap { return initializeIndexMap(c) }

func (c *ColumnRef) EvaluateRow(batch *buffer.RowVector, row int64) Value {
	col := batch.Column(int(c.Index()))
	if col.IsNull(row) {
		return Null
	}
	return True
}

func (c *ColumnRef) Evaluate(batch *buffer.RowVector) *ResultVector {
	col := batch.Column(int(c.Index()))
	result := NewResultVector(col.Count)
	for i := int64(0); i < col.Count; i++ {
		result.Set(i, c.EvaluateRow(batch, i))
	}
	return result
}

// -----------------------------------------------------------------------
// Constant

// Constant is a literal value. Its value component is consumed by an
// enclosing Compare/Cast; EvaluateRow returns NULL iff Type is NullConst,
// TRUE otherwise (spec.md §4.3, and the caveat of spec.md §9: this is only
// meaningful because Constant is always a Compare/Cast child).
type Constant struct {
	Type types.DataType
	i    int64
	f    float64
	s    string
}

func NewNullConstant() *Constant { return &Constant{Type: types.NullConst} }

func NewIntConstant(t types.DataType, v int64) *Constant {
	errs.Check(t == types.Int32 || t == types.Int64 || t == types.Bool, "NewIntConstant: type must be INT32/INT64/BOOL, got %s", t)
	return &Constant{Type: t, i: v}
}

func NewBoolConstant(v bool) *Constant {
	var i int64
	if v {
		i = 1
	}
	return &Constant{Type: types.Bool, i: i}
}

func NewDoubleConstant(v float64) *Constant { return &Constant{Type: types.Double, f: v} }
func NewStringConstant(v string) *Constant  { return &Constant{Type: types.String, s: v} }

func (c *Constant) IsNull() bool { return c.Type == types.NullConst }

func (c *Constant) IntValue() int64     { return c.i }
func (c *Constant) DoubleValue() float64 { return c.f }
func (c *Constant) BoolValue() bool      { return c.i != 0 }
func (c *Constant) StringValue() string  { return c.s }

func (c *Constant) assignIndices(a *indexAssigner) {}

func (c *Constant) InitializeIndexMap() *IndexMap { return initializeIndexMap(c) }

func (c *Constant) EvaluateRow(batch *buffer.RowVector, row int64) Value {
	if c.IsNull() {
		return Null
	}
	return True
}

func (c *Constant) Evaluate(batch *buffer.RowVector) *ResultVector {
	n := batch.RowCount()
	result := NewResultVector(n)
	v := True
	if c.IsNull() {
		v = Null
	}
	result.SetAll(v)
	return result
}
