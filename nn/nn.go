// Copyright 2025 OrthoNet ML Library. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/orthonet-ml/orthonet/internal/nn"
	"github.com/orthonet-ml/orthonet/internal/tensor"
)

// Module interface defines the common interface for all neural network modules.
type Module[B tensor.Backend] = nn.Module[B]

// Regularized is implemented by modules that carry weight penalties for the
// external optimizer to add to its loss.
type Regularized = nn.Regularized

// Parameter represents a trainable parameter in a neural network.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// NewParameter creates a new parameter with the given name and tensor.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// Padding selects how convolution layers pad their input.
type Padding = nn.Padding

// Padding modes.
const (
	Same  Padding = nn.Same
	Valid Padding = nn.Valid
)

// Regularizers

// Regularizer is a weight penalty attached to a layer's kernel slot.
type Regularizer[B tensor.Backend] = nn.Regularizer[B]

// OrthogonalRegularizer returns a penalty measuring how far a 4D convolution
// kernel's columns are from orthonormal: scale * sum((WᵀW - I)²) / 2 with the
// kernel flattened to [k_h*k_w*c_in, c_out].
//
// Example:
//
//	reg := nn.OrthogonalRegularizer[*cpu.Backend](1e-4)
//	conv := nn.NewConv2D(16, 32, nn.Conv2DConfig[*cpu.Backend]{KernelRegularizer: reg}, backend)
func OrthogonalRegularizer[B tensor.Backend](scale float32) Regularizer[B] {
	return nn.OrthogonalRegularizer[B](scale)
}

// OrthogonalRegularizerDense is the 2D specialization of
// OrthogonalRegularizer for dense weights of shape [in, out].
func OrthogonalRegularizerDense[B tensor.Backend](scale float32) Regularizer[B] {
	return nn.OrthogonalRegularizerDense[B](scale)
}

// Layers

// Conv2DConfig holds the construction-time options of Conv2D and
// ConvTranspose2D layers.
type Conv2DConfig[B tensor.Backend] = nn.Conv2DConfig[B]

// Conv2D represents a 2D convolutional layer in NHWC layout.
type Conv2D[B tensor.Backend] = nn.Conv2D[B]

// NewConv2D creates a new 2D convolutional layer with Xavier initialization.
//
// Example:
//
//	backend := cpu.New()
//	conv := nn.NewConv2D(16, 32, nn.Conv2DConfig[*cpu.Backend]{
//	    KernelSize: [2]int{3, 3},
//	    Strides:    [2]int{2, 2},
//	    Padding:    nn.Same,
//	}, backend)
func NewConv2D[B tensor.Backend](inChannels, filters int, cfg Conv2DConfig[B], backend B) *Conv2D[B] {
	return nn.NewConv2D(inChannels, filters, cfg, backend)
}

// ConvTranspose2D represents a 2D transposed convolution (deconvolution) layer.
type ConvTranspose2D[B tensor.Backend] = nn.ConvTranspose2D[B]

// NewConvTranspose2D creates a new transposed convolution layer with Xavier
// initialization.
func NewConvTranspose2D[B tensor.Backend](inChannels, filters int, cfg Conv2DConfig[B], backend B) *ConvTranspose2D[B] {
	return nn.NewConvTranspose2D(inChannels, filters, cfg, backend)
}

// BatchNorm2D represents per-channel batch normalization for NHWC inputs.
type BatchNorm2D[B tensor.Backend] = nn.BatchNorm2D[B]

// NewBatchNorm2D creates a new batch normalization layer.
//
// Example:
//
//	bn := nn.NewBatchNorm2D(32, 0.99, 1e-3, backend)  // channels=32, momentum, epsilon
func NewBatchNorm2D[B tensor.Backend](features int, momentum, epsilon float32, backend B) *BatchNorm2D[B] {
	return nn.NewBatchNorm2D(features, momentum, epsilon, backend)
}

// Activations

// ReLU represents the Rectified Linear Unit activation function.
type ReLU[B tensor.Backend] = nn.ReLU[B]

// NewReLU creates a new ReLU activation layer.
//
// Example:
//
//	relu := nn.NewReLU[B]()
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return nn.NewReLU[B]()
}

// Sigmoid represents the Sigmoid activation function.
type Sigmoid[B tensor.Backend] = nn.Sigmoid[B]

// NewSigmoid creates a new Sigmoid activation layer.
func NewSigmoid[B tensor.Backend]() *Sigmoid[B] {
	return nn.NewSigmoid[B]()
}

// Tanh represents the Tanh activation function.
type Tanh[B tensor.Backend] = nn.Tanh[B]

// NewTanh creates a new Tanh activation layer.
func NewTanh[B tensor.Backend]() *Tanh[B] {
	return nn.NewTanh[B]()
}

// Residual blocks

// BlockConfig holds the shared construction options of the residual blocks.
type BlockConfig = nn.BlockConfig

// BasicResBlock is a two-convolution residual block with a projection shortcut.
type BasicResBlock[B tensor.Backend] = nn.BasicResBlock[B]

// NewBasicResBlock creates a basic residual block.
//
// Example:
//
//	block := nn.NewBasicResBlock(16, 32, nn.BlockConfig{}, backend)
//	output := block.Forward(input)  // [N, ceil(H/2), ceil(W/2), 32]
func NewBasicResBlock[B tensor.Backend](inChannels, filters int, cfg BlockConfig, backend B) *BasicResBlock[B] {
	return nn.NewBasicResBlock(inChannels, filters, cfg, backend)
}

// ResBottleneckBlock is a three-convolution bottleneck residual block that
// outputs filters*4 channels.
type ResBottleneckBlock[B tensor.Backend] = nn.ResBottleneckBlock[B]

// NewResBottleneckBlock creates a bottleneck residual block.
func NewResBottleneckBlock[B tensor.Backend](inChannels, filters int, cfg BlockConfig, backend B) *ResBottleneckBlock[B] {
	return nn.NewResBottleneckBlock(inChannels, filters, cfg, backend)
}

// ResidualDeconvBlock is a pre-activation residual block built on transposed
// convolutions, used for upsampling in decoders.
type ResidualDeconvBlock[B tensor.Backend] = nn.ResidualDeconvBlock[B]

// NewResidualDeconvBlock creates an upsampling residual block.
func NewResidualDeconvBlock[B tensor.Backend](inChannels, filters int, cfg BlockConfig, backend B) *ResidualDeconvBlock[B] {
	return nn.NewResidualDeconvBlock(inChannels, filters, cfg, backend)
}

// Containers

// Sequential chains modules, feeding each one's output to the next.
type Sequential[B tensor.Backend] = nn.Sequential[B]

// NewSequential creates a sequential container from the given modules.
//
// Example:
//
//	model := nn.NewSequential[*cpu.Backend](
//	    nn.NewBasicResBlock(3, 16, nn.BlockConfig{}, backend),
//	    nn.NewBasicResBlock(16, 32, nn.BlockConfig{}, backend),
//	)
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return nn.NewSequential(modules...)
}

// Initialization

// Xavier creates a tensor with Xavier (Glorot) uniform initialization.
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Xavier(fanIn, fanOut, shape, backend)
}

// Zeros creates a zero-filled tensor, commonly used for bias initialization.
func Zeros[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Zeros(shape, backend)
}

// Ones creates a one-filled tensor, used for normalization scale parameters.
func Ones[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Ones(shape, backend)
}
