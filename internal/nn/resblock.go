package nn

import (
	"fmt"

	"github.com/orthonet-ml/orthonet/internal/tensor"
)

// orthoScale is the orthogonal-regularizer weight attached to every
// convolution kernel inside the residual blocks.
const orthoScale = 1e-4

// BlockConfig holds the shared construction options of the residual blocks.
// Zero values fall back to a 3×3 kernel, stride 2 and same padding.
type BlockConfig struct {
	KernelSize [2]int
	Strides    [2]int
	Padding    Padding
}

func (c BlockConfig) withDefaults() BlockConfig {
	if c.KernelSize == [2]int{} {
		c.KernelSize = [2]int{3, 3}
	}
	if c.Strides == [2]int{} {
		c.Strides = [2]int{2, 2}
	}
	if c.Padding == "" {
		c.Padding = Same
	}
	return c
}

// BasicResBlock is a two-convolution residual block with a projection
// shortcut.
//
// Main path:  conv(filters, strides) → BN → ReLU → conv(filters, 1×1 stride) → BN
// Shortcut:   1×1 conv(filters, strides) → BN, applied to the block input
// Output:     ReLU(main + shortcut)
//
// Every convolution kernel carries an orthogonal regularizer. With the
// default stride of 2 and same padding, an input [N, H, W, C] maps to
// [N, ceil(H/2), ceil(W/2), filters].
type BasicResBlock[B tensor.Backend] struct {
	conv1 *Conv2D[B]
	bn1   *BatchNorm2D[B]
	act1  *ReLU[B]
	conv2 *Conv2D[B]
	bn2   *BatchNorm2D[B]

	resConv *Conv2D[B]
	resBn   *BatchNorm2D[B]

	act2 *ReLU[B]

	filters int
}

// NewBasicResBlock creates a basic residual block producing the given number
// of output channels.
func NewBasicResBlock[B tensor.Backend](inChannels, filters int, cfg BlockConfig, backend B) *BasicResBlock[B] {
	cfg = cfg.withDefaults()
	if inChannels <= 0 || filters <= 0 {
		panic(fmt.Sprintf("basic resblock: invalid channels in=%d, filters=%d", inChannels, filters))
	}

	return &BasicResBlock[B]{
		conv1: NewConv2D(inChannels, filters, Conv2DConfig[B]{
			KernelSize:        cfg.KernelSize,
			Strides:           cfg.Strides,
			Padding:           cfg.Padding,
			KernelRegularizer: OrthogonalRegularizer[B](orthoScale),
		}, backend),
		bn1:  NewBatchNorm2D(filters, 0.99, 1e-3, backend),
		act1: NewReLU[B](),
		conv2: NewConv2D(filters, filters, Conv2DConfig[B]{
			KernelSize:        cfg.KernelSize,
			Strides:           [2]int{1, 1},
			Padding:           cfg.Padding,
			KernelRegularizer: OrthogonalRegularizer[B](orthoScale),
		}, backend),
		bn2: NewBatchNorm2D(filters, 0.99, 1e-3, backend),
		resConv: NewConv2D(inChannels, filters, Conv2DConfig[B]{
			KernelSize:        [2]int{1, 1},
			Strides:           cfg.Strides,
			Padding:           cfg.Padding,
			KernelRegularizer: OrthogonalRegularizer[B](orthoScale),
		}, backend),
		resBn:   NewBatchNorm2D(filters, 0.99, 1e-3, backend),
		act2:    NewReLU[B](),
		filters: filters,
	}
}

// Forward runs the block. The training flag defaults to true and is threaded
// into the batch normalization layers.
func (b *BasicResBlock[B]) Forward(x *tensor.Tensor[float32, B], training ...bool) *tensor.Tensor[float32, B] {
	train := true
	if len(training) > 0 {
		train = training[0]
	}

	main := b.conv1.Forward(x)
	main = b.bn1.Forward(main, train)
	main = b.act1.Forward(main)
	main = b.conv2.Forward(main)
	main = b.bn2.Forward(main, train)

	res := b.resConv.Forward(x)
	res = b.resBn.Forward(res, train)

	if !main.Shape().Equal(res.Shape()) {
		panic(fmt.Sprintf("basic resblock: main path %v and shortcut %v are not add-compatible", main.Shape(), res.Shape()))
	}

	return b.act2.Forward(main.Add(res))
}

// Parameters returns the trainable parameters of every sublayer.
func (b *BasicResBlock[B]) Parameters() []*Parameter[B] {
	var params []*Parameter[B]
	params = append(params, b.conv1.Parameters()...)
	params = append(params, b.bn1.Parameters()...)
	params = append(params, b.conv2.Parameters()...)
	params = append(params, b.bn2.Parameters()...)
	params = append(params, b.resConv.Parameters()...)
	params = append(params, b.resBn.Parameters()...)
	return params
}

// RegularizationLoss sums the orthogonal penalties of all three convolution
// kernels.
func (b *BasicResBlock[B]) RegularizationLoss() float32 {
	return b.conv1.RegularizationLoss() + b.conv2.RegularizationLoss() + b.resConv.RegularizationLoss()
}

// Filters returns the block's output channel count.
func (b *BasicResBlock[B]) Filters() int {
	return b.filters
}
