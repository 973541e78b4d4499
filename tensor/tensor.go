// Copyright 2025 The ndgrad Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/ndgrad/ndgrad/internal/tensor"
)

// Type aliases for public API

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
type Shape = tensor.Shape

// Tensor is a shaped, strided handle to float32 storage.
type Tensor = tensor.Tensor

// Range is a half-open interval [Start, Stop) used by Tensor.Slice.
type Range = tensor.Range

// Option configures a tensor at construction.
type Option = tensor.Option

// Kind classifies a tensor's role in the autograd graph.
type Kind = tensor.Kind

// Graph roles.
const (
	Leaf     Kind = tensor.Leaf
	Derived  Kind = tensor.Derived
	Detached Kind = tensor.Detached
)

// Node is the graph record attached to tensors produced by operations.
type Node = tensor.Node

// PrintKind selects the value or gradient buffer for printing helpers.
type PrintKind = tensor.PrintKind

// Printable buffers.
const (
	PrintData PrintKind = tensor.PrintData
	PrintGrad PrintKind = tensor.PrintGrad
)

// MetadataOptions selects the fields rendered by Tensor.Metadata.
type MetadataOptions = tensor.MetadataOptions

// MetadataField is a single rendered metadata entry.
type MetadataField = tensor.MetadataField

// Indexer walks every multi-index of a shape in row-major order.
type Indexer = tensor.Indexer

// Error kinds.
var (
	ErrInvalidArgument = tensor.ErrInvalidArgument
	ErrOutOfRange      = tensor.ErrOutOfRange
	ErrInvalidState    = tensor.ErrInvalidState
	ErrShape           = tensor.ErrShape
)

// Creation functions

// New creates an owning, zero-initialized leaf tensor.
//
// Example:
//
//	x, err := tensor.New(tensor.Shape{2, 3}, tensor.WithLabel("x"))
func New(shape Shape, opts ...Option) (*Tensor, error) {
	return tensor.New(shape, opts...)
}

// FromSlice creates an owning leaf tensor holding a copy of data.
//
// Example:
//
//	x, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2})
func FromSlice(data []float32, shape Shape, opts ...Option) (*Tensor, error) {
	return tensor.FromSlice(data, shape, opts...)
}

// WithLabel attaches a human-readable label to a new tensor.
func WithLabel(label string) Option {
	return tensor.WithLabel(label)
}

// Stride and broadcasting helpers

// BroadcastShapes returns the NumPy-style broadcast of two shapes.
func BroadcastShapes(a, b Shape) (Shape, error) {
	return tensor.BroadcastShapes(a, b)
}

// BroadcastStrides returns strides mapping indices of target onto a tensor of
// the given shape and strides; broadcast axes get stride 0.
func BroadcastStrides(origShape Shape, origStrides []int, target Shape) []int {
	return tensor.BroadcastStrides(origShape, origStrides, target)
}

// Offset returns the dot product of a multi-index with a stride vector.
func Offset(index, strides []int) int {
	return tensor.Offset(index, strides)
}

// NewIndexer creates a row-major Indexer over shape.
func NewIndexer(shape Shape) *Indexer {
	return tensor.NewIndexer(shape)
}
