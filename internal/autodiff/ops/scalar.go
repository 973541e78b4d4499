package ops

import "github.com/ndgrad/ndgrad/internal/tensor"

// ScalarKind selects the arithmetic of a ScalarOp.
type ScalarKind int

// Tensor-constant operations.
const (
	ScalarAdd ScalarKind = iota
	ScalarSub
	ScalarMul
	ScalarDiv
)

// ScalarOp represents x ⊕ c for a constant c.
//
// Backward pass (local gradient d(x⊕c)/dx):
//   - x + c, x - c: 1
//   - x * c: c
//   - x / c: 1/c, or 0 when c is zero
type ScalarOp struct {
	x    *tensor.Tensor
	c    float32
	kind ScalarKind
}

// AddScalar returns x + c.
func AddScalar(x *tensor.Tensor, c float32) *tensor.Tensor {
	return scalarOp(x, c, ScalarAdd)
}

// SubScalar returns x - c.
func SubScalar(x *tensor.Tensor, c float32) *tensor.Tensor {
	return scalarOp(x, c, ScalarSub)
}

// MulScalar returns x * c.
func MulScalar(x *tensor.Tensor, c float32) *tensor.Tensor {
	return scalarOp(x, c, ScalarMul)
}

// DivScalar returns x / c.
// A zero c is logged as a warning and produces ±Inf or NaN.
func DivScalar(x *tensor.Tensor, c float32) *tensor.Tensor {
	return scalarOp(x, c, ScalarDiv)
}

func scalarOp(x *tensor.Tensor, c float32, kind ScalarKind) *tensor.Tensor {
	op := &ScalarOp{x: x, c: c, kind: kind}
	out := tensor.NewDerived(x.Shape(), op)

	xd, od := x.Data(), out.Data()
	eachElement(x, func(i, off int) {
		od[i] = op.apply(xd[off])
	})
	if kind == ScalarDiv && c == 0 {
		warnZero("div", x.Size())
	}
	return out
}

func (op *ScalarOp) apply(v float32) float32 {
	switch op.kind {
	case ScalarAdd:
		return v + op.c
	case ScalarSub:
		return v - op.c
	case ScalarMul:
		return v * op.c
	default:
		return v / op.c
	}
}

// local returns d(x⊕c)/dx.
func (op *ScalarOp) local() float32 {
	switch op.kind {
	case ScalarMul:
		return op.c
	case ScalarDiv:
		if op.c == 0 {
			return 0
		}
		return 1 / op.c
	default:
		return 1
	}
}

// Op returns the operation tag: "+c", "-c", "*c" or "/c".
func (op *ScalarOp) Op() string {
	switch op.kind {
	case ScalarAdd:
		return "+c"
	case ScalarSub:
		return "-c"
	case ScalarMul:
		return "*c"
	default:
		return "/c"
	}
}

// Parents returns [x].
func (op *ScalarOp) Parents() []*tensor.Tensor {
	return []*tensor.Tensor{op.x}
}

// Backward accumulates outputGrad * local into x.
func (op *ScalarOp) Backward(out *tensor.Tensor) {
	g, gx := out.Grad(), op.x.Grad()
	local := op.local()
	eachElement(op.x, func(i, off int) {
		gx[off] += g[i] * local
	})
}
