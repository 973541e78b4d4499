// Package serialization saves and loads tensors in the SafeTensors format.
//
//	Format Structure:
//	  [8 bytes: Header Size (uint64 LE)]
//	  [Header: JSON object, tensor name -> {dtype, shape, data_offsets}]
//	  [Tensor data: raw little-endian bytes, in header order]
//
// Only float32 ("F32") tensors are supported. Values are written in row-major
// logical order, so views and non-contiguous tensors are materialized on the
// way out. Loaded tensors are owning, contiguous leaves labeled with their
// names.
//
// Example usage:
//
//	// Save values and gradients
//	err := serialization.SaveFile("grads.safetensors",
//	    map[string]*tensor.Tensor{"W": w, "b": b},
//	    serialization.WithGradients(),
//	    serialization.WithMetadata(map[string]string{"demo": "walkthrough"}))
//
//	// Load them back
//	tensors, metadata, err := serialization.LoadFile("grads.safetensors")
package serialization
