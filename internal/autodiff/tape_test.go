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

func leaf(t *testing.T, data []float32, shape tensor.Shape, label string) *tensor.Tensor {
	t.Helper()
	x, err := tensor.FromSlice(data, shape, tensor.WithLabel(label))
	require.NoError(t, err)
	return x
}

func TestGradientTape_Order(t *testing.T) {
	a := leaf(t, []float32{1, 2}, tensor.Shape{2}, "a")
	b := leaf(t, []float32{3, 4}, tensor.Shape{2}, "b")
	c := must.M1(ops.Mul(a, b))
	d := must.M1(ops.Add(c, a)) // a is used twice
	loss := ops.Sum(d)

	tape := autodiff.NewGradientTape(loss)
	assert.Same(t, loss, tape.Root())

	order := tape.Tensors()
	require.Len(t, order, 5)
	assert.Same(t, loss, order[len(order)-1])

	pos := make(map[*tensor.Tensor]int)
	for i, n := range order {
		pos[n] = i
	}
	for _, n := range order {
		for _, p := range n.Parents() {
			assert.Less(t, pos[p], pos[n], "%s must precede %s", p, n)
		}
	}

	assert.ElementsMatch(t, []*tensor.Tensor{a, b}, tape.Leaves())
	assert.Equal(t, 3, tape.NumOps())
}

func TestGradientTape_LeafOnly(t *testing.T) {
	x := leaf(t, []float32{5}, tensor.Shape{1}, "x")
	tape := autodiff.NewGradientTape(x)

	assert.Equal(t, []*tensor.Tensor{x}, tape.Tensors())
	assert.Equal(t, 0, tape.NumOps())

	tape.Backward()
	assert.Equal(t, []float32{1}, x.Grad())
}

func TestGradientTape_BackwardAccumulates(t *testing.T) {
	x := leaf(t, []float32{3}, tensor.Shape{1}, "x")
	y := must.M1(ops.Mul(x, x))
	tape := autodiff.NewGradientTape(y)

	tape.Backward()
	assert.Equal(t, []float32{6}, x.Grad())

	tape.Backward()
	assert.Equal(t, []float32{12}, x.Grad())
	assert.Equal(t, []float32{1}, y.Grad(), "root is re-seeded, not accumulated")

	tape.ZeroGrad()
	assert.Equal(t, []float32{0}, x.Grad())
	assert.Equal(t, []float32{0}, y.Grad())

	tape.Backward()
	assert.Equal(t, []float32{6}, x.Grad())
}

func TestGradientTape_TensorsIsCopy(t *testing.T) {
	x := leaf(t, []float32{1}, tensor.Shape{1}, "x")
	tape := autodiff.NewGradientTape(ops.AddScalar(x, 1))

	order := tape.Tensors()
	order[0] = nil
	assert.Same(t, x, tape.Tensors()[0])
}

func TestBackward_Gradients(t *testing.T) {
	x := leaf(t, []float32{1, 2, 3}, tensor.Shape{3}, "x")
	w := leaf(t, []float32{2}, tensor.Shape{1}, "w")
	y := must.M1(ops.Mul(must.M1(ops.Mul(x, x)), w)) // w·x²

	grads := autodiff.Backward(y)
	require.Len(t, grads, 2)
	assert.Equal(t, []float32{4, 8, 12}, grads[x])
	assert.Equal(t, []float32{14}, grads[w]) // Σ x²
}

func TestBackward_ViewLeaf(t *testing.T) {
	src := leaf(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, "src")
	v := must.M1(src.Slice(tensor.Range{Start: 0, Stop: 2}, tensor.Range{Start: 2, Stop: 3})) // [3, 6]

	grads := autodiff.Backward(ops.MulScalar(v, 3))
	assert.Equal(t, []float32{3, 3}, grads[v])
	assert.NotContains(t, grads, src)
	assert.Equal(t, make([]float32, 6), src.Grad())
}

func TestGradientTape_ChainedBackwardTwice(t *testing.T) {
	x := leaf(t, []float32{1, 2}, tensor.Shape{2}, "x")
	h := ops.MulScalar(x, 2)
	z := must.M1(ops.Mul(ops.AddScalar(h, 1), h)) // (2x + 1) * 2x
	tape := autodiff.NewGradientTape(z)

	// dz/dx = 8x + 2
	tape.Backward()
	assert.Equal(t, []float32{10, 18}, x.Grad())

	tape.Backward()
	assert.Equal(t, []float32{20, 36}, x.Grad(), "leaf is double-counted")
	assert.Equal(t, []float32{5, 9}, h.Grad(), "intermediate holds a single pass")
}
