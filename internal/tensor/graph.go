package tensor

import "k8s.io/klog/v2"

// Node is the graph record attached to a Derived tensor.
//
// Each operation implements Node with its own type (AddOp, MatMulOp, ...), so
// the backward behavior is chosen by the node's type rather than by a closure
// over raw buffers. Leaf and Detached tensors carry no node.
type Node interface {
	// Op returns the operation tag, e.g. "+" or "matmul".
	Op() string

	// Parents returns the operands, in order.
	Parents() []*Tensor

	// Backward reads out's gradient buffer and adds the contribution of each
	// parent into that parent's gradient buffer. It must never overwrite.
	Backward(out *Tensor)
}

// Parents returns the tensors this one was derived from.
// Leaf and Detached tensors have none.
func (t *Tensor) Parents() []*Tensor {
	if t.node == nil {
		return nil
	}
	return t.node.Parents()
}

// Node returns the graph record of a Derived tensor, or nil.
func (t *Tensor) Node() Node {
	return t.node
}

// Topological returns every tensor reachable from t through parent links,
// parents before children, with t last.
//
// Tensors are compared by identity, so a parent used twice (x*x) appears once.
func (t *Tensor) Topological() []*Tensor {
	var tape []*Tensor
	visited := make(map[*Tensor]struct{})

	var visit func(n *Tensor)
	visit = func(n *Tensor) {
		if _, ok := visited[n]; ok {
			return
		}
		visited[n] = struct{}{}
		for _, p := range n.Parents() {
			visit(p)
		}
		tape = append(tape, n)
	}
	visit(t)

	return tape
}

// Backward propagates gradients from t to every tensor it was derived from.
// It is Propagate over t.Topological().
func (t *Tensor) Backward() {
	Propagate(t.Topological())
}

// Propagate runs a backward pass over order, a topological order whose last
// element is the root.
//
// Algorithm:
//  1. Clear the gradient of every Derived tensor in order, so intermediate
//     results only carry this pass's contributions
//  2. Seed the root's gradient with ones (dt/dt = 1)
//  3. Walk the order in reverse, running each node's backward pass, so a
//     tensor is processed only after all of its consumers have contributed
//
// Leaf, view and clone gradients accumulate: calling Propagate twice without
// ZeroGrad double-counts them.
func Propagate(order []*Tensor) {
	if len(order) == 0 {
		return
	}
	root := order[len(order)-1]
	klog.V(2).Infof("backward: %d tensors reachable from %s", len(order), root)

	for _, n := range order {
		if n.node != nil {
			n.ZeroGrad()
		}
	}
	root.SeedGrad()

	for i := len(order) - 1; i >= 0; i-- {
		n := order[i]
		if n.node != nil {
			n.node.Backward(n)
		}
	}
}

// SeedGrad overwrites the tensor's gradient with ones (dt/dt = 1).
// Only the elements addressed by the tensor are touched.
func (t *Tensor) SeedGrad() {
	ForEachIndex(t.shape, func(_ int, index []int) {
		t.grad[t.offset+Offset(index, t.strides)] = 1
	})
}

// ZeroGrad resets the tensor's gradient buffer to zero.
func (t *Tensor) ZeroGrad() {
	clear(t.grad)
}
