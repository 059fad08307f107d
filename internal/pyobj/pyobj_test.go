package pyobj

import (
	"testing"

	"github.com/nlpodyssey/gopickle/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectAttr(t *testing.T) {
	t.Run("DirectState", func(t *testing.T) {
		obj := &Object{Class: &Class{Module: "m", Name: "C"}}
		require.NoError(t, obj.PyDictSet("key", "value"))

		v, ok := obj.Attr("key")
		require.True(t, ok)
		assert.Equal(t, "value", v)

		_, ok = obj.Attr("missing")
		assert.False(t, ok)
	})

	t.Run("NestedDunderDict", func(t *testing.T) {
		inner := types.NewDict()
		inner.Set("page_content", "body")
		state := types.NewDict()
		state.Set("__dict__", inner)

		obj := &Object{}
		require.NoError(t, obj.PySetState(state))

		v, ok := obj.Attr("page_content")
		require.True(t, ok)
		assert.Equal(t, "body", v)
	})

	t.Run("NilSafe", func(t *testing.T) {
		var obj *Object
		_, ok := obj.Attr("x")
		assert.False(t, ok)
	})
}

func TestIntKeyedStrings(t *testing.T) {
	d := types.NewDict()
	d.Set(0, "first")
	d.Set(1, "second")
	d.Set("skipme", "third")
	d.Set(2, 42)

	m := IntKeyedStrings(d)
	require.NotNil(t, m)
	assert.Equal(t, map[int]string{0: "first", 1: "second"}, m)

	assert.Nil(t, IntKeyedStrings("not a dict"))
}

func TestStringMap(t *testing.T) {
	d := types.NewDict()
	d.Set("source", "a.pdf")
	d.Set("page", 3)
	d.Set("tags", &types.List{"x", "y"})

	m, ok := StringMap(d)
	require.True(t, ok)
	assert.Equal(t, "a.pdf", m["source"])
	assert.Equal(t, 3, m["page"])
	assert.Equal(t, []any{"x", "y"}, m["tags"])
}

func TestAsTuple(t *testing.T) {
	elems, ok := AsTuple(&types.Tuple{"a", "b"})
	require.True(t, ok)
	assert.Len(t, elems, 2)

	_, ok = AsTuple(42)
	assert.False(t, ok)
}
