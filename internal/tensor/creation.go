package tensor

import (
	"math/rand/v2"

	"github.com/pkg/errors"
)

// Fill sets every element to value.
// The tensor must own its storage and be contiguous.
func (t *Tensor) Fill(value float32) error {
	if !t.isBase() {
		return errors.Wrap(ErrInvalidState, "cannot fill a view or non-contiguous tensor")
	}
	for i := 0; i < t.Size(); i++ {
		if err := t.SetFlat(i, value); err != nil {
			return err
		}
	}
	return nil
}

// Zeros fills the tensor with 0.
func (t *Tensor) Zeros() error {
	return t.Fill(0)
}

// Ones fills the tensor with 1.
func (t *Tensor) Ones() error {
	return t.Fill(1)
}

// FillSequential fills the tensor with 0, 1, 2, ... in row-major order.
func (t *Tensor) FillSequential() error {
	if !t.isBase() {
		return errors.Wrap(ErrInvalidState, "cannot fill a view or non-contiguous tensor")
	}
	for i := 0; i < t.Size(); i++ {
		if err := t.SetFlat(i, float32(i)); err != nil {
			return err
		}
	}
	return nil
}

// RandInt fills the tensor with integers drawn uniformly from [low, high).
//
// Example:
//
//	rng := rand.New(rand.NewPCG(42, 0))
//	err := w.RandInt(rng, 1, 5)
func (t *Tensor) RandInt(rng *rand.Rand, low, high int) error {
	if low >= high {
		return errors.Wrapf(ErrInvalidArgument, "empty range [%d, %d)", low, high)
	}
	if !t.isBase() {
		return errors.Wrap(ErrInvalidState, "cannot fill a view or non-contiguous tensor")
	}
	for i := 0; i < t.Size(); i++ {
		v := low + rng.IntN(high-low)
		if err := t.SetFlat(i, float32(v)); err != nil {
			return err
		}
	}
	return nil
}
