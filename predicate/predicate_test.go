package predicate

import (
	"testing"

	"github.com/arvidellis/toydb/buffer"
	"github.com/arvidellis/toydb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func idCol(id uint64, name string) types.ColumnId {
	return types.ColumnId{Id: id, Name: name}
}

func intBatch(t *testing.T, colID types.ColumnId, vals []int32, nulls []int64) *buffer.RowVector {
	t.Helper()
	col, err := buffer.Allocate(colID, types.Int32, int64(len(vals)))
	require.New(t).NoError(err)
	for i, v := range vals {
		col.WriteInt32(int64(i), v)
	}
	for _, n := range nulls {
		col.SetNull(n)
	}
	rv := buffer.NewRowVector()
	rv.AddColumn(col)
	return rv
}

func TestResultVectorThreeValuedLogic(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(False, and3(True, False))
	assert.Equal(False, and3(False, Null))
	assert.Equal(Null, and3(True, Null))
	assert.Equal(True, and3(True, True))

	assert.Equal(True, or3(True, False))
	assert.Equal(True, or3(False, True))
	assert.Equal(Null, or3(False, Null))
	assert.Equal(False, or3(False, False))

	assert.Equal(False, not3(True))
	assert.Equal(True, not3(False))
	assert.Equal(Null, not3(Null))
}

func TestConstantEvaluate(t *testing.T) {
	assert := assert.New(t)
	rv := buffer.NewRowVector()
	rv.SetRowCount(3)

	trueConst := NewIntConstant(types.Bool, 1)
	result := trueConst.Evaluate(rv)
	for i := int64(0); i < 3; i++ {
		assert.Equal(True, result.Get(i))
	}

	nullConst := NewNullConstant()
	result = nullConst.Evaluate(rv)
	for i := int64(0); i < 3; i++ {
		assert.Equal(Null, result.Get(i))
	}
}

func TestColumnRefEvaluateReflectsNullBit(t *testing.T) {
	assert := assert.New(t)
	id := idCol(1, "age")
	rv := intBatch(t, id, []int32{1, 2, 3}, []int64{1})

	ref := NewColumnRef(id, types.Int32)
	ref.InitializeIndexMap()
	result := ref.Evaluate(rv)

	assert.Equal(True, result.Get(0))
	assert.Equal(Null, result.Get(1))
	assert.Equal(True, result.Get(2))
}

func TestCompareColumnAgainstConstant(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	id := idCol(2, "age")
	rv := intBatch(t, id, []int32{10, 20, 30}, []int64{2})

	ref := NewColumnRef(id, types.Int32)
	cmp, err := NewCompare(GreaterEqual, types.Int32, ref, NewIntConstant(types.Int32, 20))
	require.NoError(err)

	result := cmp.Evaluate(rv)
	assert.Equal(False, result.Get(0))
	assert.Equal(True, result.Get(1))
	assert.Equal(Null, result.Get(2))
}

func TestCompareEqualityAndNullPropagation(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	id := idCol(3, "x")
	rv := intBatch(t, id, []int32{5, 5}, []int64{0})

	ref := NewColumnRef(id, types.Int32)
	cmp, err := NewCompare(Equal, types.Int32, ref, NewIntConstant(types.Int32, 5))
	require.NoError(err)

	result := cmp.Evaluate(rv)
	assert.Equal(Null, result.Get(0))
	assert.Equal(True, result.Get(1))
}

func TestCompareWithCastWidensInt32ToInt64(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	id := idCol(4, "n")
	rv := intBatch(t, id, []int32{100}, nil)

	ref := NewColumnRef(id, types.Int32)
	cast, err := NewCast(types.Int64, types.Int32, ref)
	require.NoError(err)

	cmp, err := NewCompare(Equal, types.Int64, cast, NewIntConstant(types.Int64, 100))
	require.NoError(err)

	result := cmp.Evaluate(rv)
	assert.Equal(True, result.Get(0))
}

func TestNewCastRejectsSameType(t *testing.T) {
	assert := assert.New(t)
	_, err := NewCast(types.Int32, types.Int32, NewIntConstant(types.Int32, 1))
	assert.Error(err)
}

func TestNewCastRejectsUnreachableConversion(t *testing.T) {
	assert := assert.New(t)
	_, err := NewCast(types.Int32, types.String, NewStringConstant("x"))
	assert.Error(err)
}

func TestNewCompareRejectsOperandTypeMismatch(t *testing.T) {
	assert := assert.New(t)
	id := idCol(5, "x")
	ref := NewColumnRef(id, types.Int32)
	_, err := NewCompare(Equal, types.Double, ref, NewDoubleConstant(1.0))
	assert.Error(err)
}

func TestLogicalAndOrNot(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	id := idCol(6, "age")
	rv := intBatch(t, id, []int32{10, 20, 30}, []int64{2})
	ref := NewColumnRef(id, types.Int32)

	gt, err := NewCompare(Greater, types.Int32, ref, NewIntConstant(types.Int32, 15))
	require.NoError(err)
	lt, err := NewCompare(Less, types.Int32, ref, NewIntConstant(types.Int32, 25))
	require.NoError(err)

	and := NewAnd(gt, lt)
	result := and.Evaluate(rv)
	assert.Equal(False, result.Get(0))
	assert.Equal(True, result.Get(1))
	assert.Equal(Null, result.Get(2))

	or := NewOr(gt, lt)
	result = or.Evaluate(rv)
	assert.Equal(True, result.Get(0))
	assert.Equal(True, result.Get(1))
	assert.Equal(Null, result.Get(2))

	not := NewNot(gt)
	result = not.Evaluate(rv)
	assert.Equal(True, result.Get(0))
	assert.Equal(False, result.Get(1))
	assert.Equal(Null, result.Get(2))
}

func TestIndexMapAssertShapeRejectsMismatch(t *testing.T) {
	require := require.New(t)

	id := idCol(7, "age")
	_ = intBatch(t, id, []int32{1}, nil)
	ref := NewColumnRef(id, types.Int32)
	idx := ref.InitializeIndexMap()
	require.Equal(1, idx.Size())

	other, err := buffer.Allocate(idCol(8, "other"), types.Int32, 1)
	require.NoError(err)
	other.WriteInt32(0, 1)
	otherRv := buffer.NewRowVector()
	otherRv.AddColumn(other)

	assert.Panics(t, func() { idx.AssertShape(otherRv) })
}
