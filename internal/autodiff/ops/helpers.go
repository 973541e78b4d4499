package ops

import (
	"github.com/ndgrad/ndgrad/internal/tensor"
	"k8s.io/klog/v2"
)

// broadcastPlan describes how two operands map onto their broadcast output.
//
// Example:
//
//	a[2,3] + b[1,3] -> shape [2,3], stridesA [3,1], stridesB [0,1]
type broadcastPlan struct {
	shape    tensor.Shape
	stridesA []int
	stridesB []int
}

// planBroadcast computes the output shape and broadcast strides of a and b.
func planBroadcast(a, b *tensor.Tensor) (broadcastPlan, error) {
	shape, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		return broadcastPlan{}, err
	}
	return broadcastPlan{
		shape:    shape,
		stridesA: tensor.BroadcastStrides(a.Shape(), a.Strides(), shape),
		stridesB: tensor.BroadcastStrides(b.Shape(), b.Strides(), shape),
	}, nil
}

// each visits every output position i in row-major order together with the
// storage offsets of the matching elements of a and b.
func (p broadcastPlan) each(a, b *tensor.Tensor, fn func(i, offA, offB int)) {
	baseA, baseB := a.Offset(), b.Offset()
	tensor.ForEachIndex(p.shape, func(i int, index []int) {
		fn(i, baseA+tensor.Offset(index, p.stridesA), baseB+tensor.Offset(index, p.stridesB))
	})
}

// eachElement visits every element of x in row-major order with its storage offset.
func eachElement(x *tensor.Tensor, fn func(i, off int)) {
	base, strides := x.Offset(), x.Strides()
	tensor.ForEachIndex(x.Shape(), func(i int, index []int) {
		fn(i, base+tensor.Offset(index, strides))
	})
}

// warnZero reports elements that hit a zero divisor or base.
// The forward result still follows IEEE-754 (±Inf or NaN).
func warnZero(op string, count int) {
	if count > 0 {
		klog.Warningf("%s: zero divisor in %d element(s), result will be inf/nan", op, count)
	}
}
