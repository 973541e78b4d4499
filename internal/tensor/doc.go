// Package tensor provides the strided N-dimensional array at the core of ndgrad.
//
// A Tensor is a float32 buffer interpreted through a shape, a stride vector
// and an offset. Tensors either own their storage or are views created by
// Slice. Broadcasting follows NumPy rules (BroadcastShapes, BroadcastStrides)
// and every element-wise kernel walks its output in the row-major order of
// Indexer.
//
// Each tensor also carries a gradient buffer and, when produced by an
// operation, a Node recording its parents. Backward walks that graph in
// reverse topological order and accumulates gradients into every ancestor.
package tensor
