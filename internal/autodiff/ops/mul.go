package ops

import (
	"github.com/ndgrad/ndgrad/internal/tensor"
	"github.com/pkg/errors"
)

// MulOp represents an element-wise multiplication operation: output = a * b.
//
// Backward pass:
//   - d(a*b)/da = b, so grad_a += outputGrad * b
//   - d(a*b)/db = a, so grad_b += outputGrad * a
//
// Operand values are read when Backward runs.
type MulOp struct {
	binaryOp
}

// Mul returns the element-wise product a * b with broadcasting.
func Mul(a, b *tensor.Tensor) (*tensor.Tensor, error) {
	plan, err := planBroadcast(a, b)
	if err != nil {
		return nil, errors.WithMessage(err, "mul")
	}

	op := &MulOp{binaryOp{a: a, b: b, plan: plan}}
	out := tensor.NewDerived(plan.shape, op)

	ad, bd, od := a.Data(), b.Data(), out.Data()
	plan.each(a, b, func(i, offA, offB int) {
		od[i] = ad[offA] * bd[offB]
	})
	return out, nil
}

// Op returns the operation tag.
func (op *MulOp) Op() string {
	return "*"
}

// Backward accumulates outputGrad*b into a and outputGrad*a into b.
func (op *MulOp) Backward(out *tensor.Tensor) {
	g, ga, gb := out.Grad(), op.a.Grad(), op.b.Grad()
	ad, bd := op.a.Data(), op.b.Data()
	op.plan.each(op.a, op.b, func(i, offA, offB int) {
		ga[offA] += g[i] * bd[offB]
		gb[offB] += g[i] * ad[offA]
	})
}
