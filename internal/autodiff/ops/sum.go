package ops

import "github.com/ndgrad/ndgrad/internal/tensor"

// SumOp represents a full reduction: output = Σ x, with shape [1].
//
// Backward pass:
//
//	grad_x[i] += outputGrad[0] for every position i
type SumOp struct {
	x *tensor.Tensor
}

// Sum returns the sum of all elements of x as a tensor of shape [1].
func Sum(x *tensor.Tensor) *tensor.Tensor {
	op := &SumOp{x: x}
	out := tensor.NewDerived(tensor.Shape{1}, op)

	var total float32
	xd := x.Data()
	eachElement(x, func(_, off int) {
		total += xd[off]
	})
	out.Data()[0] = total
	return out
}

// Op returns the operation tag.
func (op *SumOp) Op() string {
	return "sum"
}

// Parents returns [x].
func (op *SumOp) Parents() []*tensor.Tensor {
	return []*tensor.Tensor{op.x}
}

// Backward broadcasts the scalar output gradient to every input position.
func (op *SumOp) Backward(out *tensor.Tensor) {
	g := out.Grad()[0]
	gx := op.x.Grad()
	eachElement(op.x, func(_, off int) {
		gx[off] += g
	})
}
