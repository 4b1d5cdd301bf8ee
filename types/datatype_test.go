package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSizes(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(4, Int32.Size())
	assert.Equal(8, Int64.Size())
	assert.Equal(8, Double.Size())
	assert.Equal(1, Bool.Size())
	assert.Equal(256, String.Size())
	assert.Equal(0, NullConst.Size())
}

func TestCommonTypeLattice(t *testing.T) {
	assert := assert.New(t)

	cases := []struct {
		a, b DataType
		want DataType
		ok   bool
	}{
		{Int32, Int64, Int64, true},
		{Int64, Int32, Int64, true},
		{Int32, Double, Double, true},
		{Int64, Double, Double, true},
		{Bool, Int32, Int32, true},
		{Bool, Int64, Int64, true},
		{Int64, Int64, Int64, true},
		{String, Int32, NullConst, false},
		{Bool, Double, NullConst, false},
	}

	for _, c := range cases {
		got, ok := CommonType(c.a, c.b)
		assert.Equal(c.ok, ok, "%s vs %s", c.a, c.b)
		if ok {
			assert.Equal(c.want, got, "%s vs %s", c.a, c.b)
		}
	}
}

func TestParseDataType(t *testing.T) {
	assert := assert.New(t)
	for _, s := range []string{"INT32", "INT64", "DOUBLE", "BOOL", "STRING"} {
		dt, ok := ParseDataType(s)
		assert.True(ok)
		assert.Equal(s, dt.String())
	}
	_, ok := ParseDataType("PARQUET")
	assert.False(ok)
}

func TestIdentityIsIdOnly(t *testing.T) {
	assert := assert.New(t)
	t1 := TableId{Id: 1, Name: "a"}
	t2 := TableId{Id: 1, Name: "b"}
	assert.True(t1.Equal(t2))
	assert.Equal(t1.Key(), t2.Key())

	c1 := ColumnId{Id: 5, Name: "x", Owner: t1}
	c2 := ColumnId{Id: 5, Name: "y", Owner: t2}
	assert.True(c1.Equal(c2))
	assert.Equal(c1.Key(), c2.Key())
}
