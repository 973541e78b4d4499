package tensor

import "github.com/pkg/errors"

// Range is a half-open interval [Start, Stop) along one axis.
type Range struct {
	Start int
	Stop  int
}

// Reshape changes the tensor's shape in place.
//
// The tensor must own its storage and be contiguous, so the data layout is
// unchanged and no elements move. The new shape must be non-empty and hold the
// same number of elements.
func (t *Tensor) Reshape(newShape Shape) error {
	if !t.isBase() {
		return errors.Wrap(ErrInvalidState, "reshape is only allowed on owning, contiguous tensors")
	}
	if len(newShape) == 0 {
		return errors.Wrap(ErrInvalidArgument, "new shape should have at least one dimension, got 0")
	}
	if err := newShape.Validate(); err != nil {
		return err
	}
	if newShape.NumElements() != t.Size() {
		return errors.Wrapf(ErrInvalidArgument, "cannot reshape %v (%d elements) into %v (%d elements)",
			t.shape, t.Size(), newShape, newShape.NumElements())
	}

	t.shape = newShape.Clone()
	t.strides = newShape.ComputeStrides()
	return nil
}

// Slice returns a view of the region selected by one range per axis.
//
// The view shares storage with t, keeps t's strides (so it may be
// non-contiguous with respect to its own shape) and is detached: it has no
// parents, and gradients reaching it are kept in its own gradient buffer.
//
// Example:
//
//	// Rows 0..1, columns 1..2 of a [3, 4] tensor.
//	v, err := t.Slice(tensor.Range{0, 2}, tensor.Range{1, 3})
func (t *Tensor) Slice(ranges ...Range) (*Tensor, error) {
	if len(ranges) != len(t.shape) {
		return nil, errors.Wrapf(ErrInvalidArgument, "expected %d slices, got %d", len(t.shape), len(ranges))
	}

	offset := t.offset
	newShape := make(Shape, len(ranges))
	for i, r := range ranges {
		if r.Start < 0 || r.Stop < r.Start || r.Stop > t.shape[i] {
			return nil, errors.Wrapf(ErrInvalidArgument, "slice [%d, %d) invalid for dimension %d (size %d)",
				r.Start, r.Stop, i, t.shape[i])
		}
		offset += r.Start * t.strides[i]
		newShape[i] = r.Stop - r.Start
	}

	return &Tensor{
		data:    t.data,
		grad:    make([]float32, len(t.data)),
		shape:   newShape,
		strides: append([]int(nil), t.strides...),
		offset:  offset,
		owns:    false,
		kind:    Detached,
		op:      "view",
	}, nil
}

// Clone returns an owning, contiguous, detached copy of the tensor's values.
// It is the way to materialize a view into a tensor that can take part in
// new computations as an independent leaf.
func (t *Tensor) Clone() *Tensor {
	out := newOwned(t.shape, Detached)
	out.op = "clone"

	if t.Size() == 0 {
		return out
	}
	if t.IsContiguous() {
		copy(out.data, t.data[t.offset:t.offset+t.Size()])
		return out
	}

	ForEachIndex(t.shape, func(pos int, index []int) {
		out.data[pos] = t.data[t.offset+Offset(index, t.strides)]
	})
	return out
}
