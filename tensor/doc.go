// Copyright 2025 OrthoNet ML Library. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides type-safe tensor operations for the OrthoNet library.
//
// # Overview
//
// Tensors are the fundamental data structure in OrthoNet. This package provides:
//   - Generic type-safe tensors (Tensor[T, B])
//   - NumPy-style broadcasting
//   - Zero-copy operations where possible
//   - Device abstraction via the Backend interface
//
// # Basic Usage
//
//	import (
//	    "github.com/orthonet-ml/orthonet/tensor"
//	    "github.com/orthonet-ml/orthonet/backend/cpu"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    // Create tensors
//	    x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	    y := tensor.Ones[float32](tensor.Shape{2, 3}, backend)
//
//	    // Tensor operations
//	    z := x.Add(y)
//	    result := x.MatMul(y.T())
//	}
//
// # Layout
//
// Image feature maps are NHWC ([batch, height, width, channels]) and
// convolution kernels are HWIO ([kernel_h, kernel_w, in_channels, out_channels]).
//
// # Supported Data Types
//
// The tensor package supports the following data types via the DType constraint:
//   - float32, float64 (floating-point)
package tensor
