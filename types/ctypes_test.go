package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rnshah9/mayhem-lacc/types"
)

func TestIntegerAndRealConstructors(t *testing.T) {
	i := types.NewInteger(4, false)
	assert.Equal(t, types.Integer, i.Kind)
	assert.Equal(t, 4, i.Size)
	assert.False(t, i.IsUnsigned)

	r := types.NewReal(8)
	assert.Equal(t, types.Real, r.Kind)
	assert.Equal(t, 8, r.Size)
}

func TestArrayIncompleteUntilCompleted(t *testing.T) {
	elem := types.NewInteger(4, false)
	arr := types.NewArray(elem, 0)
	assert.True(t, types.IsIncomplete(arr))
	assert.Equal(t, 0, arr.ArrayLength())

	types.Complete(arr, 5)
	assert.False(t, types.IsIncomplete(arr))
	assert.Equal(t, 5, arr.ArrayLength())
	assert.Equal(t, 20, arr.Size)
}

func TestArrayKnownLengthSizedUpFront(t *testing.T) {
	elem := types.NewInteger(4, false)
	arr := types.NewArray(elem, 3)
	assert.Equal(t, 12, arr.Size)
	assert.False(t, types.IsIncomplete(arr))
}

func TestStructLayoutNaturalAlignment(t *testing.T) {
	obj := types.NewObject("point3")
	obj.AddMember("flag", types.NewInteger(1, false))
	obj.AddMember("value", types.NewInteger(4, false))
	obj.AddMember("big", types.NewInteger(8, false))
	types.AlignStructMembers(obj)

	require.Len(t, obj.Members, 3)
	assert.Equal(t, 0, obj.Members[0].Offset)
	assert.Equal(t, 4, obj.Members[1].Offset)
	assert.Equal(t, 8, obj.Members[2].Offset)
	assert.Equal(t, 16, obj.Size)
}

func TestUnionLayoutOverlapsMembers(t *testing.T) {
	obj := types.NewObject("variant")
	obj.IsUnion = true
	obj.AddMember("asInt", types.NewInteger(4, false))
	obj.AddMember("asLong", types.NewInteger(8, false))
	types.AlignUnionMembers(obj)

	for _, m := range obj.Members {
		assert.Equal(t, 0, m.Offset)
	}
	assert.Equal(t, 8, obj.Size)
}

func TestEqualComparesStructurally(t *testing.T) {
	a := types.NewPointer(types.NewInteger(4, false), 8)
	b := types.NewPointer(types.NewInteger(4, false), 8)
	assert.True(t, types.Equal(a, b))

	c := types.NewPointer(types.NewInteger(8, false), 8)
	assert.False(t, types.Equal(a, c))
}

func TestPointerSizeMatchesGivenWidth(t *testing.T) {
	p := types.NewPointer(types.NewInteger(4, false), 8)
	assert.Equal(t, 8, p.Size)
}

func TestMaybeField(t *testing.T) {
	obj := types.NewObject("s")
	obj.AddMember("x", types.NewInteger(4, false))
	types.AlignStructMembers(obj)

	m, ok := obj.MaybeField("x")
	require.True(t, ok)
	assert.Equal(t, 0, m.Offset)

	_, ok = obj.MaybeField("missing")
	assert.False(t, ok)
}
