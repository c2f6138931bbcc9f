package nn

import (
	"fmt"

	"github.com/orthonet-ml/orthonet/internal/tensor"
)

// bottleneckExpansion is the channel multiplier of the bottleneck's final
// 1×1 convolution.
const bottleneckExpansion = 4

// ResBottleneckBlock is a three-convolution bottleneck residual block.
//
// Main path:  1×1 conv(filters) → BN → ReLU
//             k×k conv(filters, strides) → BN → ReLU
//             1×1 conv(filters*4) → BN
// Shortcut:   1×1 conv(filters*4, strides) → BN, applied to the block input
// Output:     ReLU(main + shortcut)
//
// The output channel count is always filters*4. With the default stride of 2
// and same padding, an input [N, H, W, C] maps to
// [N, ceil(H/2), ceil(W/2), filters*4].
type ResBottleneckBlock[B tensor.Backend] struct {
	conv1 *Conv2D[B]
	bn1   *BatchNorm2D[B]
	act1  *ReLU[B]
	conv2 *Conv2D[B]
	bn2   *BatchNorm2D[B]
	act2  *ReLU[B]
	conv3 *Conv2D[B]
	bn3   *BatchNorm2D[B]
	act3  *ReLU[B]

	resConv *Conv2D[B]
	resBn   *BatchNorm2D[B]

	filters int
}

// NewResBottleneckBlock creates a bottleneck residual block. filters is the
// inner channel count; the block outputs filters*4 channels.
func NewResBottleneckBlock[B tensor.Backend](inChannels, filters int, cfg BlockConfig, backend B) *ResBottleneckBlock[B] {
	cfg = cfg.withDefaults()
	if inChannels <= 0 || filters <= 0 {
		panic(fmt.Sprintf("bottleneck resblock: invalid channels in=%d, filters=%d", inChannels, filters))
	}

	outChannels := filters * bottleneckExpansion

	return &ResBottleneckBlock[B]{
		conv1: NewConv2D(inChannels, filters, Conv2DConfig[B]{
			KernelSize:        [2]int{1, 1},
			Strides:           [2]int{1, 1},
			Padding:           cfg.Padding,
			KernelRegularizer: OrthogonalRegularizer[B](orthoScale),
		}, backend),
		bn1:  NewBatchNorm2D(filters, 0.99, 1e-3, backend),
		act1: NewReLU[B](),
		conv2: NewConv2D(filters, filters, Conv2DConfig[B]{
			KernelSize:        cfg.KernelSize,
			Strides:           cfg.Strides,
			Padding:           cfg.Padding,
			KernelRegularizer: OrthogonalRegularizer[B](orthoScale),
		}, backend),
		bn2:  NewBatchNorm2D(filters, 0.99, 1e-3, backend),
		act2: NewReLU[B](),
		conv3: NewConv2D(filters, outChannels, Conv2DConfig[B]{
			KernelSize:        [2]int{1, 1},
			Strides:           [2]int{1, 1},
			Padding:           cfg.Padding,
			KernelRegularizer: OrthogonalRegularizer[B](orthoScale),
		}, backend),
		bn3:  NewBatchNorm2D(outChannels, 0.99, 1e-3, backend),
		act3: NewReLU[B](),
		resConv: NewConv2D(inChannels, outChannels, Conv2DConfig[B]{
			KernelSize:        [2]int{1, 1},
			Strides:           cfg.Strides,
			Padding:           cfg.Padding,
			KernelRegularizer: OrthogonalRegularizer[B](orthoScale),
		}, backend),
		resBn:   NewBatchNorm2D(outChannels, 0.99, 1e-3, backend),
		filters: filters,
	}
}

// Forward runs the block. The training flag defaults to true and is threaded
// into the batch normalization layers.
func (b *ResBottleneckBlock[B]) Forward(x *tensor.Tensor[float32, B], training ...bool) *tensor.Tensor[float32, B] {
	train := true
	if len(training) > 0 {
		train = training[0]
	}

	main := b.conv1.Forward(x)
	main = b.bn1.Forward(main, train)
	main = b.act1.Forward(main)
	main = b.conv2.Forward(main)
	main = b.bn2.Forward(main, train)
	main = b.act2.Forward(main)
	main = b.conv3.Forward(main)
	main = b.bn3.Forward(main, train)

	res := b.resConv.Forward(x)
	res = b.resBn.Forward(res, train)

	if !main.Shape().Equal(res.Shape()) {
		panic(fmt.Sprintf("bottleneck resblock: main path %v and shortcut %v are not add-compatible", main.Shape(), res.Shape()))
	}

	// act3 also serves as the post-add activation.
	return b.act3.Forward(main.Add(res))
}

// Parameters returns the trainable parameters of every sublayer.
func (b *ResBottleneckBlock[B]) Parameters() []*Parameter[B] {
	var params []*Parameter[B]
	params = append(params, b.conv1.Parameters()...)
	params = append(params, b.bn1.Parameters()...)
	params = append(params, b.conv2.Parameters()...)
	params = append(params, b.bn2.Parameters()...)
	params = append(params, b.conv3.Parameters()...)
	params = append(params, b.bn3.Parameters()...)
	params = append(params, b.resConv.Parameters()...)
	params = append(params, b.resBn.Parameters()...)
	return params
}

// RegularizationLoss sums the orthogonal penalties of all four convolution
// kernels.
func (b *ResBottleneckBlock[B]) RegularizationLoss() float32 {
	return b.conv1.RegularizationLoss() +
		b.conv2.RegularizationLoss() +
		b.conv3.RegularizationLoss() +
		b.resConv.RegularizationLoss()
}

// Filters returns the inner channel count. The block outputs Filters()*4
// channels.
func (b *ResBottleneckBlock[B]) Filters() int {
	return b.filters
}

// OutChannels returns the block's output channel count (filters*4).
func (b *ResBottleneckBlock[B]) OutChannels() int {
	return b.filters * bottleneckExpansion
}
