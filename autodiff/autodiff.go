// Copyright 2025 The ndgrad Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides the differentiable operations of ndgrad.
//
// Every operation returns a new owning tensor that records its operands as
// parents. Calling Backward on any result (or on its sum) fills the gradient
// buffer of every tensor it was derived from.
//
// Example:
//
//	import (
//	    "github.com/ndgrad/ndgrad/autodiff"
//	    "github.com/ndgrad/ndgrad/tensor"
//	)
//
//	func main() {
//	    a, _ := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2})
//	    b, _ := tensor.FromSlice([]float32{1, 0, 0, 1}, tensor.Shape{2, 2})
//
//	    c, _ := autodiff.MatMul(a, b)
//	    c.Backward()
//
//	    fmt.Println(b.Format(tensor.PrintGrad)) // [4, 4]\n[6, 6]
//	}
package autodiff

import (
	"github.com/ndgrad/ndgrad/internal/autodiff"
	"github.com/ndgrad/ndgrad/internal/autodiff/ops"
	"github.com/ndgrad/ndgrad/internal/tensor"
)

// Operation is the graph node interface implemented by every operation.
type Operation = ops.Operation

// GradientTape is the topological order of every tensor reachable from a root.
type GradientTape = autodiff.GradientTape

// Func rebuilds a graph from its inputs, for gradient checking.
type Func = autodiff.Func

// ErrGradientMismatch is returned by CheckGradient when the graph's gradient
// differs from the numerical estimate.
var ErrGradientMismatch = autodiff.ErrGradientMismatch

// Element-wise operations (with broadcasting)

// Add returns a + b.
func Add(a, b *tensor.Tensor) (*tensor.Tensor, error) {
	return ops.Add(a, b)
}

// Sub returns a - b.
func Sub(a, b *tensor.Tensor) (*tensor.Tensor, error) {
	return ops.Sub(a, b)
}

// Mul returns the element-wise product a * b.
func Mul(a, b *tensor.Tensor) (*tensor.Tensor, error) {
	return ops.Mul(a, b)
}

// Div returns a / b. Zero divisors produce ±Inf/NaN, log a warning and
// contribute nothing to gradients.
func Div(a, b *tensor.Tensor) (*tensor.Tensor, error) {
	return ops.Div(a, b)
}

// Scalar operations

// AddScalar returns x + c.
func AddScalar(x *tensor.Tensor, c float32) *tensor.Tensor {
	return ops.AddScalar(x, c)
}

// SubScalar returns x - c.
func SubScalar(x *tensor.Tensor, c float32) *tensor.Tensor {
	return ops.SubScalar(x, c)
}

// MulScalar returns x * c.
func MulScalar(x *tensor.Tensor, c float32) *tensor.Tensor {
	return ops.MulScalar(x, c)
}

// DivScalar returns x / c.
func DivScalar(x *tensor.Tensor, c float32) *tensor.Tensor {
	return ops.DivScalar(x, c)
}

// Pow returns x raised to the constant power c.
func Pow(x *tensor.Tensor, c float32) *tensor.Tensor {
	return ops.Pow(x, c)
}

// Matrix operations

// MatMul multiplies two rank-2 tensors: (M, K) @ (K, N) -> (M, N).
func MatMul(a, b *tensor.Tensor) (*tensor.Tensor, error) {
	return ops.MatMul(a, b)
}

// Reductions

// Sum returns the sum of all elements as a tensor of shape [1].
func Sum(x *tensor.Tensor) *tensor.Tensor {
	return ops.Sum(x)
}

// SumDim sums x along axis, keeping it with size 1. Negative axes count from the end.
func SumDim(x *tensor.Tensor, axis int) (*tensor.Tensor, error) {
	return ops.SumDim(x, axis)
}

// Gradients

// NewGradientTape records the graph that produced root.
func NewGradientTape(root *tensor.Tensor) *GradientTape {
	return autodiff.NewGradientTape(root)
}

// Backward runs a backward pass from root and returns a copy of each leaf's
// gradient in row-major order.
func Backward(root *tensor.Tensor) map[*tensor.Tensor][]float32 {
	return autodiff.Backward(root)
}

// CheckGradient compares x's gradient from the graph built by f with central
// finite differences, returning the largest absolute difference.
func CheckGradient(f Func, x *tensor.Tensor, eps, tol float64) (float64, error) {
	return autodiff.CheckGradient(f, x, eps, tol)
}
