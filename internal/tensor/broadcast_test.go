package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		name string
		a, b Shape
		want Shape
	}{
		{"same", Shape{2, 3}, Shape{2, 3}, Shape{2, 3}},
		{"row vector", Shape{2, 3}, Shape{1, 3}, Shape{2, 3}},
		{"column vector", Shape{3, 1}, Shape{3, 5}, Shape{3, 5}},
		{"lower rank", Shape{5}, Shape{3, 5}, Shape{3, 5}},
		{"both expand", Shape{3, 1}, Shape{1, 4}, Shape{3, 4}},
		{"scalar", Shape{}, Shape{2, 2}, Shape{2, 2}},
		{"3d", Shape{2, 1, 4}, Shape{3, 1}, Shape{2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BroadcastShapes(tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			// Broadcasting is symmetric.
			rev, err := BroadcastShapes(tt.b, tt.a)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rev)
		})
	}
}

func TestBroadcastShapes_Incompatible(t *testing.T) {
	_, err := BroadcastShapes(Shape{3, 4}, Shape{3, 5})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrShape)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestBroadcastShapes_Identity(t *testing.T) {
	shapes := []Shape{{4}, {2, 3}, {2, 3, 4}, {1, 5, 1}}
	for _, s := range shapes {
		got, err := BroadcastShapes(s, s)
		require.NoError(t, err)
		assert.Equal(t, s, got, "broadcast(S, S) == S")

		ones := make(Shape, len(s))
		for i := range ones {
			ones[i] = 1
		}
		got, err = BroadcastShapes(s, ones)
		require.NoError(t, err)
		assert.Equal(t, s, got, "broadcast(S, [1]*len(S)) == S")
	}
}

func TestBroadcastStrides(t *testing.T) {
	tests := []struct {
		name    string
		shape   Shape
		strides []int
		target  Shape
		want    []int
	}{
		{"same shape", Shape{2, 3}, []int{3, 1}, Shape{2, 3}, []int{3, 1}},
		{"row vector", Shape{1, 3}, []int{3, 1}, Shape{2, 3}, []int{0, 1}},
		{"column vector", Shape{2, 1}, []int{1, 1}, Shape{2, 3}, []int{1, 0}},
		{"left padding", Shape{3}, []int{1}, Shape{4, 2, 3}, []int{0, 0, 1}},
		{"view strides kept", Shape{2, 2}, []int{4, 1}, Shape{3, 2, 2}, []int{0, 4, 1}},
		{"scalar", Shape{}, []int{}, Shape{2}, []int{0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BroadcastStrides(tt.shape, tt.strides, tt.target)
			assert.Equal(t, tt.want, got)
		})
	}
}
