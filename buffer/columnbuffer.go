package buffer

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/arvidellis/toydb/errs"
	"github.com/arvidellis/toydb/types"
)

// AllocationError is returned by Allocate when capacity*type.Size() would
// overflow a signed 64-bit byte count, per spec.md §4.1.
type AllocationError struct {
	Capacity int64
	Type     types.DataType
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("allocate: capacity %d * size %d overflows int64", e.Capacity, e.Type.Size())
}

// ColumnBuffer is a single column's slice of one batch: an immutable schema
// triple (ColumnId, Type, Capacity), a mutable Count of populated rows, a
// contiguous typed data region, and an optional null bitmap — spec.md §3.
type ColumnBuffer struct {
	ColumnId types.ColumnId
	Type     types.DataType
	Count    int64 // rows populated so far; 0 <= Count <= Capacity

	capacity int64
	data     []byte
	nulls    *NullBitmap
}

// Allocate obtains backing storage for capacity rows of the given type plus
// a null bitmap of matching capacity, per spec.md §4.1.
func Allocate(colId types.ColumnId, t types.DataType, capacity int64) (*ColumnBuffer, error) {
	size := int64(t.Size())
	if size != 0 && capacity > math.MaxInt64/size {
		return nil, &AllocationError{Capacity: capacity, Type: t}
	}
	return &ColumnBuffer{
		ColumnId: colId,
		Type:     t,
		Count:    0,
		capacity: capacity,
		data:     make([]byte, capacity*size),
		nulls:    NewNullBitmap(capacity),
	}, nil
}

func (c *ColumnBuffer) Capacity() int64 { return c.capacity }

func (c *ColumnBuffer) IsNull(i int64) bool  { return c.nulls.IsNull(i) }
func (c *ColumnBuffer) SetNull(i int64)      { c.nulls.SetNull(i) }
func (c *ColumnBuffer) ClearNull(i int64)    { c.nulls.ClearNull(i) }
func (c *ColumnBuffer) bumpCount(i int64) {
	if i+1 > c.Count {
		c.Count = i + 1
	}
}

// WriteNull records row i as present but null-valued: the null bit is set
// and Count advances, without writing a value into the data region (a
// null slot's data bytes are undefined per spec.md §4.1 and must only be
// read via IsNull-guarded accessors).
func (c *ColumnBuffer) WriteNull(i int64) {
	errs.Check(i >= 0 && i < c.capacity, "write index %d out of range [0,%d)", i, c.capacity)
	c.SetNull(i)
	c.bumpCount(i)
}

func (c *ColumnBuffer) checkWrite(i int64, t types.DataType) {
	errs.Check(c.Type == t, "column %s is %s, cannot write %s", c.ColumnId.Name, c.Type, t)
	errs.Check(i >= 0 && i < c.capacity, "write index %d out of range [0,%d)", i, c.capacity)
}

func (c *ColumnBuffer) checkRead(i int64, t types.DataType) {
	errs.Check(c.Type == t, "column %s is %s, cannot read as %s", c.ColumnId.Name, c.Type, t)
	errs.Check(i >= 0 && i < c.Count, "read index %d out of range [0,%d)", i, c.Count)
}

func (c *ColumnBuffer) WriteInt32(i int64, v int32) {
	c.checkWrite(i, types.Int32)
	binary.LittleEndian.PutUint32(c.data[i*4:], uint32(v))
	c.ClearNull(i)
	c.bumpCount(i)
}

func (c *ColumnBuffer) GetInt32(i int64) int32 {
	c.checkRead(i, types.Int32)
	return int32(binary.LittleEndian.Uint32(c.data[i*4:]))
}

func (c *ColumnBuffer) WriteInt64(i int64, v int64) {
	c.checkWrite(i, types.Int64)
	binary.LittleEndian.PutUint64(c.data[i*8:], uint64(v))
	c.ClearNull(i)
	c.bumpCount(i)
}

func (c *ColumnBuffer) GetInt64(i int64) int64 {
	c.checkRead(i, types.Int64)
	return int64(binary.LittleEndian.Uint64(c.data[i*8:]))
}

func (c *ColumnBuffer) WriteDouble(i int64, v float64) {
	c.checkWrite(i, types.Double)
	binary.LittleEndian.PutUint64(c.data[i*8:], math.Float64bits(v))
	c.ClearNull(i)
	c.bumpCount(i)
}

func (c *ColumnBuffer) GetDouble(i int64) float64 {
	c.checkRead(i, types.Double)
	return math.Float64frombits(binary.LittleEndian.Uint64(c.data[i*8:]))
}

func (c *ColumnBuffer) WriteBool(i int64, v bool) {
	c.checkWrite(i, types.Bool)
	if v {
		c.data[i] = 1
	} else {
		c.data[i] = 0
	}
	c.ClearNull(i)
	c.bumpCount(i)
}

func (c *ColumnBuffer) GetBool(i int64) bool {
	c.checkRead(i, types.Bool)
	return c.data[i] != 0
}

// WriteString truncates v at 255 bytes and NUL-pads to the fixed 256-byte
// width, per spec.md §4.1.
func (c *ColumnBuffer) WriteString(i int64, v string) {
	c.checkWrite(i, types.String)
	off := i * types.StringWidth
	slot := c.data[off : off+types.StringWidth]
	for j := range slot {
		slot[j] = 0
	}
	n := len(v)
	if n > types.StringWidth-1 {
		n = types.StringWidth - 1
	}
	copy(slot, v[:n])
	c.ClearNull(i)
	c.bumpCount(i)
}

// GetString returns the value up to its first NUL byte.
func (c *ColumnBuffer) GetString(i int64) string {
	c.checkRead(i, types.String)
	off := i * types.StringWidth
	slot := c.data[off : off+types.StringWidth]
	n := 0
	for n < len(slot) && slot[n] != 0 {
		n++
	}
	return string(slot[:n])
}

// GetValueAsString renders the entry at i for diagnostics (RowVector
// pretty-printing), matching ColumnBuffer::getValueAsString in the original
// C++ prototype.
func (c *ColumnBuffer) GetValueAsString(i int64) string {
	if c.IsNull(i) {
		return "NULL"
	}
	switch c.Type {
	case types.Int32:
		return fmt.Sprintf("%d", c.GetInt32(i))
	case types.Int64:
		return fmt.Sprintf("%d", c.GetInt64(i))
	case types.Double:
		return fmt.Sprintf("%g", c.GetDouble(i))
	case types.Bool:
		return fmt.Sprintf("%t", c.GetBool(i))
	case types.String:
		return "'" + c.GetString(i) + "'"
	default:
		return "NULL"
	}
}
