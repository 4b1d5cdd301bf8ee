package buffer

import (
	"testing"

	"github.com/arvidellis/toydb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func idCol(id uint64, name string) types.ColumnId {
	return types.ColumnId{Id: id, Name: name}
}

func TestColumnBufferWriteReadAndNull(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	col, err := Allocate(idCol(1, "age"), types.Int32, 4)
	require.NoError(err)
	assert.Equal(int64(0), col.Count)

	col.WriteInt32(0, 42)
	col.SetNull(1)
	col.WriteInt32(2, -7)

	assert.Equal(int64(3), col.Count)
	assert.Equal(int32(42), col.GetInt32(0))
	assert.True(col.IsNull(1))
	assert.Equal(int32(-7), col.GetInt32(2))
	assert.False(col.IsNull(0))
}

func TestColumnBufferStringTruncateAndPad(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	col, err := Allocate(idCol(2, "name"), types.String, 2)
	require.NoError(err)

	long := make([]byte, 400)
	for i := range long {
		long[i] = 'x'
	}
	col.WriteString(0, string(long))
	assert.Equal(255, len(col.GetString(0)))

	col.WriteString(1, "bob")
	assert.Equal("bob", col.GetString(1))
}

func TestAllocateOverflow(t *testing.T) {
	assert := assert.New(t)
	_, err := Allocate(idCol(3, "x"), types.Double, 1<<62)
	assert.Error(err)
}

func TestRowVectorAddColumnEstablishesRowCount(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	col, err := Allocate(idCol(4, "id"), types.Int64, 3)
	require.NoError(err)
	col.WriteInt64(0, 1)
	col.WriteInt64(1, 2)
	col.WriteInt64(2, 3)

	rv := NewRowVector()
	rv.AddColumn(col)
	assert.Equal(int64(3), rv.RowCount())
	assert.Equal(1, rv.ColumnCount())

	got, ok := rv.ColumnIndex(idCol(4, "id"))
	assert.True(ok)
	assert.Equal(0, got)
}

func TestRowVectorAddOrReplaceColumn(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	c1, err := Allocate(idCol(5, "v"), types.Bool, 1)
	require.NoError(err)
	c1.WriteBool(0, true)

	rv := NewRowVector()
	rv.AddColumn(c1)

	c2, err := Allocate(idCol(5, "v"), types.Bool, 1)
	require.NoError(err)
	c2.WriteBool(0, false)
	rv.AddOrReplaceColumn(c2)

	assert.Equal(1, rv.ColumnCount())
	assert.False(rv.ColumnByID(idCol(5, "v")).GetBool(0))
}

func TestRowVectorToPrettyStringEmpty(t *testing.T) {
	assert := assert.New(t)
	rv := NewRowVector()
	assert.Equal("[empty buffer]", rv.ToPrettyString(10))
}

func TestRowVectorToPrettyStringRendersValuesAndNulls(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	col, err := Allocate(idCol(6, "age"), types.Int32, 2)
	require.NoError(err)
	col.WriteInt32(0, 30)
	col.SetNull(1)
	col.Count = 2

	rv := NewRowVector()
	rv.AddColumn(col)
	out := rv.ToPrettyString(-1)
	assert.Contains(out, "age")
	assert.Contains(out, "30")
	assert.Contains(out, "NULL")
}
