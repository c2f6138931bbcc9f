// Package nn implements the neural network building blocks of the OrthoNet
// layer library.
//
// The package provides:
//   - Module interface: base interface for all layer components
//   - Parameter: trainable parameters owned by layers
//   - Conv2D, ConvTranspose2D: convolution layers in NHWC layout
//   - BatchNorm2D: per-channel batch normalization
//   - Activations: ReLU, Sigmoid, Tanh
//   - OrthogonalRegularizer: orthogonality penalties for kernels
//   - BasicResBlock, ResBottleneckBlock, ResidualDeconvBlock: residual blocks
//   - Sequential: container for stacking layers
//
// Layers are generic over the tensor.Backend so an enclosing training
// framework can substitute a gradient-recording or device backend.
package nn

import (
	"github.com/orthonet-ml/orthonet/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Forward computes the module's output for an NHWC input tensor. The
// optional variadic training flag selects between batch statistics
// (training) and running statistics (inference) in normalization layers;
// modules without normalization accept and ignore it. Each module documents
// the default it applies when the flag is absent.
//
// Parameters returns all trainable parameters of the module, including
// nested module parameters. Modules without trainable parameters return an
// empty slice.
type Module[B tensor.Backend] interface {
	Forward(x *tensor.Tensor[float32, B], training ...bool) *tensor.Tensor[float32, B]
	Parameters() []*Parameter[B]
}

// Regularized is implemented by modules that carry weight penalties for the
// external optimizer to add to its loss.
type Regularized interface {
	RegularizationLoss() float32
}
