// Package autodiff implements reverse-mode automatic differentiation over
// tensor graphs.
//
// Operations in the ops subpackage attach a graph node to every tensor they
// produce, so the graph is recorded implicitly during the forward pass.
// GradientTape snapshots that graph from a root tensor and replays it in
// reverse to accumulate gradients.
//
// Architecture:
//   - Node interface: each op (Add, Mul, MatMul, ...) implements its backward pass
//   - GradientTape: topological order of every tensor reachable from a root
//   - Reverse-mode AD: gradients are accumulated with the chain rule, never overwritten
//
// Usage:
//
//	x, _ := tensor.FromSlice([]float32{2}, tensor.Shape{1})
//	y, _ := ops.Mul(x, x) // y = x²
//
//	grads := autodiff.Backward(y)
//	fmt.Println(grads[x]) // [4]
//
// CheckGradient compares the gradients produced by the graph with central
// finite differences, and is meant for tests.
package autodiff
