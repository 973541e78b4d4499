package ops

import (
	"math"

	"github.com/ndgrad/ndgrad/internal/tensor"
)

// PowOp represents element-wise exponentiation by a constant: output = x^c.
//
// Backward pass:
//   - d(x^c)/dx = c * x^(c-1), so grad_x += outputGrad * c * x^(c-1)
//   - when c == 0 and x == 0 the local gradient is 0
type PowOp struct {
	x *tensor.Tensor
	c float32
}

// Pow returns x raised to the constant power c.
// Zero bases with a negative exponent are logged as a warning and produce +Inf.
func Pow(x *tensor.Tensor, c float32) *tensor.Tensor {
	op := &PowOp{x: x, c: c}
	out := tensor.NewDerived(x.Shape(), op)

	zeros := 0
	xd, od := x.Data(), out.Data()
	eachElement(x, func(i, off int) {
		v := xd[off]
		if v == 0 && c < 0 {
			zeros++
		}
		od[i] = pow32(v, c)
	})
	warnZero("pow", zeros)
	return out
}

// Op returns the operation tag.
func (op *PowOp) Op() string {
	return "pow"
}

// Parents returns [x].
func (op *PowOp) Parents() []*tensor.Tensor {
	return []*tensor.Tensor{op.x}
}

// Backward accumulates outputGrad * c * x^(c-1) into x.
func (op *PowOp) Backward(out *tensor.Tensor) {
	g, gx, xd := out.Grad(), op.x.Grad(), op.x.Data()
	eachElement(op.x, func(i, off int) {
		v := xd[off]
		if op.c == 0 && v == 0 {
			return
		}
		gx[off] += g[i] * op.c * pow32(v, op.c-1)
	})
}

func pow32(v, c float32) float32 {
	return float32(math.Pow(float64(v), float64(c)))
}
