// Package ops implements the differentiable operations of ndgrad.
//
// Each operation has a forward constructor (Add, MatMul, Sum, ...) that
// computes the result and a node type (AddOp, MatMulOp, SumOp, ...) attached
// to that result. The node's Backward reads the result's gradient and adds
// each operand's contribution into the operand's gradient buffer.
//
// Supported operations:
//   - AddOp: element-wise addition (d(a+b)/da = 1, d(a+b)/db = 1)
//   - SubOp: element-wise subtraction (d(a-b)/da = 1, d(a-b)/db = -1)
//   - MulOp: element-wise multiplication (d(a*b)/da = b, d(a*b)/db = a)
//   - DivOp: element-wise division (d(a/b)/da = 1/b, d(a/b)/db = -a/b²)
//   - ScalarOp: tensor ⊕ constant for +, -, *, /
//   - PowOp: x^c for a constant exponent (d(x^c)/dx = c·x^(c-1))
//   - MatMulOp: rank-2 matrix multiplication (dA = dC @ B^T, dB = A^T @ dC)
//   - SumOp, SumDimOp: full and axis-wise reductions
//
// Element-wise operations broadcast their operands. Backward passes iterate the
// same output shape with the same broadcast strides as the forward pass, so
// gradients of broadcast operands are summed over the expanded axes.
package ops

import "github.com/ndgrad/ndgrad/internal/tensor"

// Operation is the graph node interface implemented by every op in this package.
type Operation = tensor.Node

// binaryOp holds the operands of a broadcasting element-wise operation.
type binaryOp struct {
	a, b *tensor.Tensor
	plan broadcastPlan
}

// Parents returns the operands [a, b].
func (op *binaryOp) Parents() []*tensor.Tensor {
	return []*tensor.Tensor{op.a, op.b}
}
