package ops

import (
	"github.com/ndgrad/ndgrad/internal/tensor"
	"github.com/pkg/errors"
)

// DivOp represents an element-wise division operation: output = a / b.
//
// Backward pass:
//   - d(a/b)/da = 1/b, so grad_a += outputGrad / b
//   - d(a/b)/db = -a/b², so grad_b -= outputGrad * a / b²
//
// Positions where b is zero contribute nothing to either gradient.
type DivOp struct {
	binaryOp
}

// Div returns a / b with broadcasting.
// Zero divisors are logged as a warning and produce ±Inf or NaN.
func Div(a, b *tensor.Tensor) (*tensor.Tensor, error) {
	plan, err := planBroadcast(a, b)
	if err != nil {
		return nil, errors.WithMessage(err, "div")
	}

	op := &DivOp{binaryOp{a: a, b: b, plan: plan}}
	out := tensor.NewDerived(plan.shape, op)

	zeros := 0
	ad, bd, od := a.Data(), b.Data(), out.Data()
	plan.each(a, b, func(i, offA, offB int) {
		if bd[offB] == 0 {
			zeros++
		}
		od[i] = ad[offA] / bd[offB]
	})
	warnZero("div", zeros)
	return out, nil
}

// Op returns the operation tag.
func (op *DivOp) Op() string {
	return "/"
}

// Backward accumulates outputGrad/b into a and -outputGrad*a/b² into b.
func (op *DivOp) Backward(out *tensor.Tensor) {
	g, ga, gb := out.Grad(), op.a.Grad(), op.b.Grad()
	ad, bd := op.a.Data(), op.b.Data()
	op.plan.each(op.a, op.b, func(i, offA, offB int) {
		b := bd[offB]
		if b == 0 {
			return
		}
		ga[offA] += g[i] / b
		gb[offB] -= g[i] * ad[offA] / (b * b)
	})
}
