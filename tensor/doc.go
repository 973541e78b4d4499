// Copyright 2025 The ndgrad Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public N-dimensional array type of ndgrad.
//
// # Overview
//
// A Tensor is a float32 buffer viewed through a shape, row-major strides and
// an offset. This package provides:
//   - Owning tensors (New, FromSlice) and non-owning views (Tensor.Slice)
//   - NumPy-style broadcasting helpers (BroadcastShapes, BroadcastStrides)
//   - Element access by multi-index or flat index
//   - In-place Reshape and materializing Clone
//   - A per-tensor gradient buffer filled by Tensor.Backward
//
// # Basic Usage
//
//	import (
//	    "github.com/ndgrad/ndgrad/autodiff"
//	    "github.com/ndgrad/ndgrad/tensor"
//	)
//
//	func main() {
//	    a, _ := tensor.New(tensor.Shape{2, 3})
//	    b, _ := tensor.New(tensor.Shape{1, 3})
//	    _ = a.FillSequential()
//	    _ = b.Ones()
//
//	    c, _ := autodiff.Add(a, b) // b is broadcast along axis 0
//	    c.Backward()
//
//	    g, _ := b.GradAt(0, 0) // 2: summed over the broadcast axis
//	}
//
// # Ownership
//
// Views share storage with their source and never take part in the autograd
// graph: they have no parents, and gradients that reach a view stay in the
// view's own gradient buffer. Use Clone to materialize a view.
//
// # Errors
//
// Failing calls return errors wrapping ErrInvalidArgument, ErrOutOfRange,
// ErrInvalidState or ErrShape. Test for them with errors.Is.
package tensor
