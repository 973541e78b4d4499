package ops

import (
	"github.com/ndgrad/ndgrad/internal/tensor"
	"github.com/pkg/errors"
)

// AddOp represents an element-wise addition operation: output = a + b.
//
// Backward pass:
//   - d(a+b)/da = 1, so grad_a += outputGrad
//   - d(a+b)/db = 1, so grad_b += outputGrad
//
// Broadcast operands receive the sum of outputGrad over their expanded axes.
type AddOp struct {
	binaryOp
}

// Add returns a + b with broadcasting.
func Add(a, b *tensor.Tensor) (*tensor.Tensor, error) {
	plan, err := planBroadcast(a, b)
	if err != nil {
		return nil, errors.WithMessage(err, "add")
	}

	op := &AddOp{binaryOp{a: a, b: b, plan: plan}}
	out := tensor.NewDerived(plan.shape, op)

	ad, bd, od := a.Data(), b.Data(), out.Data()
	plan.each(a, b, func(i, offA, offB int) {
		od[i] = ad[offA] + bd[offB]
	})
	return out, nil
}

// Op returns the operation tag.
func (op *AddOp) Op() string {
	return "+"
}

// Backward accumulates the output gradient into both operands.
func (op *AddOp) Backward(out *tensor.Tensor) {
	g, ga, gb := out.Grad(), op.a.Grad(), op.b.Grad()
	op.plan.each(op.a, op.b, func(i, offA, offB int) {
		ga[offA] += g[i]
		gb[offB] += g[i]
	})
}
