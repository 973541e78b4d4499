package autodiff

import (
	"github.com/ndgrad/ndgrad/internal/tensor"
	"k8s.io/klog/v2"
)

// GradientTape is the topological order of every tensor reachable from a root.
//
// The order is captured once, at construction. Tensors derived from the
// graph afterwards are not part of the tape.
//
// Usage:
//
//	tape := autodiff.NewGradientTape(loss)
//	tape.ZeroGrad()
//	tape.Backward()
type GradientTape struct {
	root  *tensor.Tensor
	order []*tensor.Tensor // Parents before children, root last
}

// NewGradientTape records the graph that produced root.
func NewGradientTape(root *tensor.Tensor) *GradientTape {
	return &GradientTape{
		root:  root,
		order: root.Topological(),
	}
}

// Root returns the tensor the tape was built from.
func (t *GradientTape) Root() *tensor.Tensor {
	return t.root
}

// Tensors returns every recorded tensor, parents before children.
func (t *GradientTape) Tensors() []*tensor.Tensor {
	return append([]*tensor.Tensor(nil), t.order...)
}

// Leaves returns the recorded tensors without parents: user leaves, views and
// clones.
func (t *GradientTape) Leaves() []*tensor.Tensor {
	var leaves []*tensor.Tensor
	for _, n := range t.order {
		if n.Node() == nil {
			leaves = append(leaves, n)
		}
	}
	return leaves
}

// NumOps returns the number of recorded operations.
func (t *GradientTape) NumOps() int {
	count := 0
	for _, n := range t.order {
		if n.Node() != nil {
			count++
		}
	}
	return count
}

// ZeroGrad clears the gradient buffer of every recorded tensor.
func (t *GradientTape) ZeroGrad() {
	for _, n := range t.order {
		n.ZeroGrad()
	}
}

// Backward clears the gradients of recorded intermediate tensors, seeds the
// root's gradient with ones and walks the tape in reverse, so a tensor's node
// runs only after every consumer has contributed to its gradient. Leaf
// gradients accumulate across calls.
func (t *GradientTape) Backward() {
	klog.V(2).Infof("tape: replaying %d ops over %d tensors", t.NumOps(), len(t.order))
	tensor.Propagate(t.order)
}
