package tensor

import (
	"testing"

	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequential(t *testing.T, shape Shape) *Tensor {
	t.Helper()
	x, err := New(shape)
	require.NoError(t, err)
	require.NoError(t, x.FillSequential())
	return x
}

func TestReshape(t *testing.T) {
	x := sequential(t, Shape{2, 3})

	require.NoError(t, x.Reshape(Shape{3, 2}))
	assert.Equal(t, Shape{3, 2}, x.Shape())
	assert.Equal(t, []int{2, 1}, x.Strides())

	v := must.M1(x.At(2, 1))
	assert.Equal(t, float32(5), v)
	v = must.M1(x.At(1, 0))
	assert.Equal(t, float32(2), v)
}

func TestReshape_RoundTrip(t *testing.T) {
	x := sequential(t, Shape{2, 3, 4})
	want := make(map[[3]int]float32)
	ForEachIndex(x.Shape(), func(_ int, index []int) {
		want[[3]int{index[0], index[1], index[2]}] = must.M1(x.At(index...))
	})

	require.NoError(t, x.Reshape(Shape{24}))
	require.NoError(t, x.Reshape(Shape{2, 3, 4}))

	ForEachIndex(x.Shape(), func(_ int, index []int) {
		got := must.M1(x.At(index...))
		assert.Equal(t, want[[3]int{index[0], index[1], index[2]}], got)
	})
}

func TestReshape_Errors(t *testing.T) {
	x := sequential(t, Shape{2, 3})

	assert.ErrorIs(t, x.Reshape(Shape{}), ErrInvalidArgument, "empty shape")
	assert.ErrorIs(t, x.Reshape(Shape{4, 2}), ErrInvalidArgument, "size mismatch")
	assert.Equal(t, Shape{2, 3}, x.Shape(), "failed reshape leaves tensor untouched")

	view := must.M1(x.Slice(Range{0, 2}, Range{0, 3}))
	assert.ErrorIs(t, view.Reshape(Shape{6}), ErrInvalidState, "views cannot reshape")
}

func TestSlice(t *testing.T) {
	x := sequential(t, Shape{3, 4})

	v := must.M1(x.Slice(Range{1, 3}, Range{1, 3}))
	assert.Equal(t, Shape{2, 2}, v.Shape())
	assert.Equal(t, []int{4, 1}, v.Strides(), "strides are inherited")
	assert.Equal(t, 5, v.Offset())
	assert.False(t, v.OwnsData())
	assert.Equal(t, Detached, v.Kind())
	assert.Equal(t, "view", v.Op())
	assert.Empty(t, v.Parents())

	assert.Equal(t, float32(5), must.M1(v.At(0, 0)))
	assert.Equal(t, float32(6), must.M1(v.At(0, 1)))
	assert.Equal(t, float32(9), must.M1(v.At(1, 0)))
	assert.Equal(t, float32(10), must.M1(v.At(1, 1)))
}

func TestSlice_SharesStorage(t *testing.T) {
	x := sequential(t, Shape{3, 4})
	v := must.M1(x.Slice(Range{1, 2}, Range{0, 4}))

	require.NoError(t, v.Set(-1, 0, 2))
	assert.Equal(t, float32(-1), must.M1(x.At(1, 2)), "write through view")

	require.NoError(t, x.Set(42, 1, 0))
	assert.Equal(t, float32(42), must.M1(v.At(0, 0)), "write through source")
}

func TestSlice_OfView(t *testing.T) {
	x := sequential(t, Shape{4, 4})
	v := must.M1(x.Slice(Range{1, 4}, Range{1, 4}))
	w := must.M1(v.Slice(Range{1, 3}, Range{0, 1}))

	assert.Equal(t, Shape{2, 1}, w.Shape())
	assert.Equal(t, float32(9), must.M1(w.At(0, 0)))
	assert.Equal(t, float32(13), must.M1(w.At(1, 0)))
}

func TestSlice_Errors(t *testing.T) {
	x := sequential(t, Shape{3, 4})

	_, err := x.Slice(Range{0, 1})
	assert.ErrorIs(t, err, ErrInvalidArgument, "wrong number of ranges")
	_, err = x.Slice(Range{0, 4}, Range{0, 1})
	assert.ErrorIs(t, err, ErrInvalidArgument, "stop past end")
	_, err = x.Slice(Range{2, 1}, Range{0, 1})
	assert.ErrorIs(t, err, ErrInvalidArgument, "stop before start")
}

func TestClone_Contiguous(t *testing.T) {
	x := sequential(t, Shape{2, 3})
	c := x.Clone()

	assert.True(t, c.OwnsData())
	assert.True(t, c.IsContiguous())
	assert.Equal(t, Detached, c.Kind())
	assert.Equal(t, x.Data(), c.Data())

	require.NoError(t, c.Set(100, 0, 0))
	assert.Equal(t, float32(0), must.M1(x.At(0, 0)), "clone is a deep copy")
}

func TestClone_NonContiguousView(t *testing.T) {
	x := sequential(t, Shape{3, 4})
	v := must.M1(x.Slice(Range{0, 3}, Range{1, 3}))
	require.False(t, v.IsContiguous())

	c := v.Clone()
	assert.Equal(t, Shape{3, 2}, c.Shape())
	assert.Equal(t, []int{2, 1}, c.Strides())
	assert.Equal(t, []float32{1, 2, 5, 6, 9, 10}, c.Data())

	// Clones are base tensors again.
	require.NoError(t, c.Reshape(Shape{6}))
	assert.Equal(t, float32(10), must.M1(c.AtFlat(5)))
}

func TestClone_ContiguousView(t *testing.T) {
	x := sequential(t, Shape{3, 2})
	v := must.M1(x.Slice(Range{1, 3}, Range{0, 2}))

	c := v.Clone()
	assert.Equal(t, []float32{2, 3, 4, 5}, c.Data())
}
