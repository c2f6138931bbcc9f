// Copyright 2025 OrthoNet ML Library. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network layers and building blocks.
//
// # Overview
//
// This package contains:
//   - Layers: Conv2D, ConvTranspose2D, BatchNorm2D
//   - Activations: ReLU, Sigmoid, Tanh
//   - Regularizers: OrthogonalRegularizer, OrthogonalRegularizerDense
//   - Residual blocks: BasicResBlock, ResBottleneckBlock, ResidualDeconvBlock
//   - Utilities: Sequential, Module interface, Parameter
//   - Initialization: Xavier, Zeros, Ones
//
// # Basic Usage
//
//	import (
//	    "github.com/orthonet-ml/orthonet/nn"
//	    "github.com/orthonet-ml/orthonet/backend/cpu"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    // Build a downsampling encoder
//	    model := nn.NewSequential[*cpu.Backend](
//	        nn.NewBasicResBlock(3, 16, nn.BlockConfig{}, backend),
//	        nn.NewResBottleneckBlock(16, 8, nn.BlockConfig{}, backend),
//	    )
//
//	    // Forward pass
//	    output := model.Forward(input)
//	}
//
// # Layout
//
// All layers operate on NHWC feature maps ([batch, height, width, channels])
// with HWIO kernels. The optional variadic training flag of Forward selects
// between batch and running statistics in normalization layers; each module
// documents its default.
//
// # Regularization
//
// Convolution layers accept a KernelRegularizer; RegularizationLoss on a
// layer, block, or Sequential evaluates the attached penalties for the
// external optimizer to add to its loss. Gradients and parameter updates are
// the enclosing framework's job: substitute its gradient-recording backend as
// the B type parameter.
package nn
