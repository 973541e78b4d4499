package autodiff

import "github.com/ndgrad/ndgrad/internal/tensor"

// Backward computes gradients of root with respect to every leaf of its graph.
//
// It runs a full backward pass (accumulating into each tensor's gradient
// buffer, like root.Backward) and returns a copy of each leaf's gradient in
// row-major logical order.
//
// Example:
//
//	x, _ := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{3})
//	y, _ := ops.Mul(x, x) // y = x²
//	grads := autodiff.Backward(y)
//	grad := grads[x] // [2, 4, 6]
func Backward(root *tensor.Tensor) map[*tensor.Tensor][]float32 {
	tape := NewGradientTape(root)
	tape.Backward()

	grads := make(map[*tensor.Tensor][]float32)
	for _, leaf := range tape.Leaves() {
		grads[leaf] = logicalGrad(leaf)
	}
	return grads
}

// logicalGrad gathers x's gradient in row-major order of its shape.
func logicalGrad(x *tensor.Tensor) []float32 {
	g := x.Grad()
	out := make([]float32, 0, x.Size())
	base, strides := x.Offset(), x.Strides()
	tensor.ForEachIndex(x.Shape(), func(_ int, index []int) {
		out = append(out, g[base+tensor.Offset(index, strides)])
	})
	return out
}
