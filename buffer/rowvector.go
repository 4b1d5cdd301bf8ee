package buffer

import (
	"strconv"
	"strings"

	"github.com/arvidellis/toydb/errs"
	"github.com/arvidellis/toydb/types"
	"github.com/mattn/go-runewidth"
)

// RowVector is an ordered list of ColumnBuffers sharing a common RowCount,
// with an auxiliary ColumnId -> index map for O(1) lookup by identity —
// spec.md §3. Constructed fresh (or reset) by a producer operator on every
// PhysicalOperator.Next call; the caller of Next owns it.
type RowVector struct {
	columns  []*ColumnBuffer
	byID     map[uint64]int
	rowCount int64
}

func NewRowVector() *RowVector {
	return &RowVector{byID: make(map[uint64]int)}
}

func (r *RowVector) RowCount() int64     { return r.rowCount }
func (r *RowVector) ColumnCount() int    { return len(r.columns) }
func (r *RowVector) Columns() []*ColumnBuffer { return r.columns }

func (r *RowVector) SetRowCount(n int64) { r.rowCount = n }

// Column returns the column at a positional index (as assigned by a
// predicate's column index map).
func (r *RowVector) Column(i int) *ColumnBuffer {
	errs.Check(i >= 0 && i < len(r.columns), "column index %d out of range [0,%d)", i, len(r.columns))
	return r.columns[i]
}

func (r *RowVector) ColumnIndex(id types.ColumnId) (int, bool) {
	idx, ok := r.byID[id.Key()]
	return idx, ok
}

func (r *RowVector) ColumnByID(id types.ColumnId) *ColumnBuffer {
	idx, ok := r.byID[id.Key()]
	errs.Check(ok, "column %s (id %d) not present in row vector", id.Name, id.Id)
	return r.columns[idx]
}

// AddColumn appends col. The first column added establishes RowCount if it
// is currently zero; adding a column whose Count disagrees with an already
// established RowCount is an invariant violation (spec.md §4.1).
func (r *RowVector) AddColumn(col *ColumnBuffer) {
	if len(r.columns) == 0 && r.rowCount == 0 {
		r.rowCount = col.Count
	} else {
		errs.Check(col.Count == r.rowCount, "column %s has count %d, row vector count is %d", col.ColumnId.Name, col.Count, r.rowCount)
	}
	idx := len(r.columns)
	r.columns = append(r.columns, col)
	r.byID[col.ColumnId.Key()] = idx
}

// AddOrReplaceColumn replaces the existing column sharing col's ColumnId,
// or appends it if no such column is present.
func (r *RowVector) AddOrReplaceColumn(col *ColumnBuffer) {
	if idx, ok := r.byID[col.ColumnId.Key()]; ok {
		r.columns[idx] = col
		return
	}
	r.AddColumn(col)
}

// Reset clears the vector for reuse across Next calls without reallocating
// the backing slice/map.
func (r *RowVector) Reset() {
	r.columns = r.columns[:0]
	for k := range r.byID {
		delete(r.byID, k)
	}
	r.rowCount = 0
}

// ToPrettyString renders the batch as a bordered table, capped at maxRows
// rows (maxRows < 0 means unlimited) — ported from
// RowVector::toPrettyString in the original C++ prototype, used by the REPL
// and by debug logging.
func (r *RowVector) ToPrettyString(maxRows int64) string {
	if len(r.columns) == 0 || r.rowCount == 0 {
		return "[empty buffer]"
	}

	widths := make([]int, len(r.columns))
	for i, col := range r.columns {
		widths[i] = runewidth.StringWidth(col.ColumnId.Name)
	}

	truncated := false
	displayRows := r.rowCount
	if maxRows >= 0 && r.rowCount > maxRows {
		displayRows = maxRows
		truncated = true
	}

	for row := int64(0); row < displayRows; row++ {
		for i, col := range r.columns {
			w := runewidth.StringWidth(col.GetValueAsString(row))
			if w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	border := func() {
		b.WriteByte('+')
		for _, w := range widths {
			b.WriteString(strings.Repeat("-", w+2))
			b.WriteByte('+')
		}
		b.WriteByte('\n')
	}

	border()
	b.WriteByte('|')
	for i, col := range r.columns {
		name := col.ColumnId.Name
		b.WriteByte(' ')
		b.WriteString(name)
		b.WriteString(strings.Repeat(" ", widths[i]-runewidth.StringWidth(name)+1))
		b.WriteByte('|')
	}
	b.WriteByte('\n')
	border()

	for row := int64(0); row < displayRows; row++ {
		b.WriteByte('|')
		for i, col := range r.columns {
			v := col.GetValueAsString(row)
			b.WriteByte(' ')
			b.WriteString(v)
			b.WriteString(strings.Repeat(" ", widths[i]-runewidth.StringWidth(v)+1))
			b.WriteByte('|')
		}
		b.WriteByte('\n')
	}

	if truncated {
		border()
		truncMsg := "... (" + strconv.FormatInt(r.rowCount-maxRows, 10) + " more rows)"
		if runewidth.StringWidth(truncMsg) > widths[0] {
			truncMsg = "..."
		}
		b.WriteByte('|')
		b.WriteByte(' ')
		b.WriteString(truncMsg)
		b.WriteString(strings.Repeat(" ", widths[0]-runewidth.StringWidth(truncMsg)+1))
		b.WriteByte('|')
		for i := 1; i < len(widths); i++ {
			b.WriteString(strings.Repeat(" ", widths[i]+2))
			b.WriteByte('|')
		}
		b.WriteByte('\n')
	}

	border()
	return strings.TrimRight(b.String(), "\n")
}
