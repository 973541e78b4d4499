package autodiff_test

import (
	"testing"

	"github.com/janpfeifer/must"
	"github.com/ndgrad/ndgrad/internal/autodiff"
	"github.com/ndgrad/ndgrad/internal/autodiff/ops"
	"github.com/ndgrad/ndgrad/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	epsilon   = 1e-2
	tolerance = 1e-2
)

func TestCheckGradient_Ops(t *testing.T) {
	a := leaf(t, []float32{0.5, 1.5, -1, 2, 0.75, -0.5}, tensor.Shape{2, 3}, "a")
	b := leaf(t, []float32{1.25, -0.75, 2}, tensor.Shape{1, 3}, "b")
	m := leaf(t, []float32{1, -2, 0.5, 3, 1.5, -1}, tensor.Shape{3, 2}, "m")

	tests := []struct {
		name string
		x    *tensor.Tensor
		f    autodiff.Func
	}{
		{"add broadcast", b, func() (*tensor.Tensor, error) { return ops.Add(a, b) }},
		{"sub lhs", a, func() (*tensor.Tensor, error) { return ops.Sub(a, b) }},
		{"sub rhs", b, func() (*tensor.Tensor, error) { return ops.Sub(a, b) }},
		{"mul", a, func() (*tensor.Tensor, error) { return ops.Mul(a, b) }},
		{"div lhs", a, func() (*tensor.Tensor, error) { return ops.Div(a, b) }},
		{"div rhs", b, func() (*tensor.Tensor, error) { return ops.Div(a, b) }},
		{"pow", a, func() (*tensor.Tensor, error) { return ops.Pow(a, 3), nil }},
		{"scalar chain", a, func() (*tensor.Tensor, error) {
			return ops.DivScalar(ops.SubScalar(ops.MulScalar(ops.AddScalar(a, 1), 3), 2), 4), nil
		}},
		{"matmul lhs", a, func() (*tensor.Tensor, error) { return ops.MatMul(a, m) }},
		{"matmul rhs", m, func() (*tensor.Tensor, error) { return ops.MatMul(a, m) }},
		{"sum dim", a, func() (*tensor.Tensor, error) {
			s, err := ops.SumDim(a, 0)
			if err != nil {
				return nil, err
			}
			return ops.Mul(s, s)
		}},
		{"composite", a, func() (*tensor.Tensor, error) {
			p, err := ops.MatMul(a, m)
			if err != nil {
				return nil, err
			}
			return ops.Sum(ops.Pow(p, 2)), nil
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			maxDiff, err := autodiff.CheckGradient(tt.f, tt.x, epsilon, tolerance)
			require.NoError(t, err)
			assert.Less(t, maxDiff, 0.1)
		})
	}
}

func TestCheckGradient_RestoresValues(t *testing.T) {
	x := leaf(t, []float32{1, 2, 3}, tensor.Shape{3}, "x")
	f := func() (*tensor.Tensor, error) { return ops.Mul(x, x) }

	_, err := autodiff.CheckGradient(f, x, epsilon, tolerance)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3}, x.Data())
}

func TestCheckGradient_DetectsMismatch(t *testing.T) {
	x := leaf(t, []float32{1, 2}, tensor.Shape{2}, "x")

	// The graph sees x·c, but the evaluated values move like x² once x is
	// perturbed, because c is built from x's data outside the graph.
	f := func() (*tensor.Tensor, error) {
		c := must.M1(tensor.FromSlice(append([]float32(nil), x.Data()...), x.Shape()))
		return ops.Mul(x, c)
	}

	_, err := autodiff.CheckGradient(f, x, epsilon, tolerance)
	assert.ErrorIs(t, err, autodiff.ErrGradientMismatch)
}

func TestNumericalGradient_InvalidEpsilon(t *testing.T) {
	x := leaf(t, []float32{1}, tensor.Shape{1}, "x")
	_, err := autodiff.NumericalGradient(func() (*tensor.Tensor, error) { return x, nil }, x, 0)
	assert.ErrorIs(t, err, tensor.ErrInvalidArgument)
}

func TestNumericalGradient_PropagatesErrors(t *testing.T) {
	x := leaf(t, []float32{1, 2}, tensor.Shape{2}, "x")
	y := leaf(t, []float32{1, 2, 3}, tensor.Shape{3}, "y")

	_, err := autodiff.NumericalGradient(func() (*tensor.Tensor, error) { return ops.Add(x, y) }, x, epsilon)
	assert.ErrorIs(t, err, tensor.ErrShape)
}

func TestNumericalGradient_RestoreFailure(t *testing.T) {
	x := leaf(t, []float32{1, 2}, tensor.Shape{2}, "x")

	// The second evaluation changes x's rank, so putting the original value
	// back with a rank-1 index fails.
	calls := 0
	f := func() (*tensor.Tensor, error) {
		calls++
		if calls == 2 {
			if err := x.Reshape(tensor.Shape{1, 2}); err != nil {
				return nil, err
			}
		}
		return x, nil
	}

	_, err := autodiff.NumericalGradient(f, x, epsilon)
	assert.ErrorIs(t, err, tensor.ErrInvalidArgument)
	assert.Contains(t, err.Error(), "restoring original value")
	assert.Equal(t, 2, calls, "evaluation stops at the first error")
}
