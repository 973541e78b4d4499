package ops

import (
	"github.com/ndgrad/ndgrad/internal/tensor"
	"github.com/pkg/errors"
)

// SumDimOp represents a reduction sum along one axis, keeping the axis with size 1.
//
// Forward:
//
//	y[..., 0, ...] = Σ_k x[..., k, ...]
//
// Backward:
//
//	grad_x[..., k, ...] += grad_y[..., 0, ...] for every k
type SumDimOp struct {
	x    *tensor.Tensor
	axis int
	// Layout of x at forward time.
	xShape   tensor.Shape
	xStrides []int
	// outStrides maps indices of x onto the output; the reduced axis has stride 0.
	outStrides []int
}

// SumDim sums x along axis. Negative axes count from the end (axis + ndim).
// Axes outside [0, ndim) fail with ErrInvalidArgument.
//
// Example:
//
//	x [2, 3]: SumDim(x, 1) -> [2, 1], SumDim(x, -2) -> [1, 3]
func SumDim(x *tensor.Tensor, axis int) (*tensor.Tensor, error) {
	ndim := x.NDim()
	norm := axis
	if norm < 0 {
		norm += ndim
	}
	if norm < 0 || norm >= ndim {
		return nil, errors.Wrapf(tensor.ErrInvalidArgument, "sum: axis %d out of range for %d dimensions", axis, ndim)
	}

	outShape := x.Shape().Clone()
	outShape[norm] = 1

	op := &SumDimOp{
		x:          x,
		axis:       norm,
		xShape:     x.Shape().Clone(),
		xStrides:   append([]int(nil), x.Strides()...),
		outStrides: tensor.BroadcastStrides(outShape, outShape.ComputeStrides(), x.Shape()),
	}
	out := tensor.NewDerived(outShape, op)

	xd, od := x.Data(), out.Data()
	base := x.Offset()
	tensor.ForEachIndex(op.xShape, func(_ int, index []int) {
		od[tensor.Offset(index, op.outStrides)] += xd[base+tensor.Offset(index, op.xStrides)]
	})
	return out, nil
}

// Op returns the operation tag.
func (op *SumDimOp) Op() string {
	return "sum(axis)"
}

// Axis returns the normalized reduced axis.
func (op *SumDimOp) Axis() int {
	return op.axis
}

// Parents returns [x].
func (op *SumDimOp) Parents() []*tensor.Tensor {
	return []*tensor.Tensor{op.x}
}

// Backward copies each output gradient to every position along the reduced axis.
func (op *SumDimOp) Backward(out *tensor.Tensor) {
	g, gx := out.Grad(), op.x.Grad()
	base := op.x.Offset()
	tensor.ForEachIndex(op.xShape, func(_ int, index []int) {
		gx[base+tensor.Offset(index, op.xStrides)] += g[tensor.Offset(index, op.outStrides)]
	})
}
