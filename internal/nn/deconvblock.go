package nn

import (
	"fmt"

	"github.com/orthonet-ml/orthonet/internal/tensor"
)

// ResidualDeconvBlock is a pre-activation residual block built on transposed
// convolutions, used for upsampling in decoders.
//
// Main path:  BN → ReLU → deconv(filters, strides)
//             BN → ReLU → deconv(filters, 1×1 stride)
// Residual:   BN → BN → deconv(filters, strides), applied to the main path's
//             output rather than the block input
// Output:     main + residual, with no trailing activation
//
// Because the residual branch transforms the already-upsampled main output,
// only unit strides keep the two branches add-compatible; any other stride
// fails the pre-add shape check. The training flag defaults to false.
type ResidualDeconvBlock[B tensor.Backend] struct {
	bn1     *BatchNorm2D[B]
	act1    *ReLU[B]
	deconv1 *ConvTranspose2D[B]
	bn2     *BatchNorm2D[B]
	act2    *ReLU[B]
	deconv2 *ConvTranspose2D[B]

	bn3 *BatchNorm2D[B]
	// act3 holds a second normalization rather than an activation: the
	// residual branch is BN → BN → deconv.
	act3    *BatchNorm2D[B]
	deconv3 *ConvTranspose2D[B]

	filters int
}

// NewResidualDeconvBlock creates an upsampling residual block producing the
// given number of output channels.
func NewResidualDeconvBlock[B tensor.Backend](inChannels, filters int, cfg BlockConfig, backend B) *ResidualDeconvBlock[B] {
	cfg = cfg.withDefaults()
	if inChannels <= 0 || filters <= 0 {
		panic(fmt.Sprintf("residual deconv block: invalid channels in=%d, filters=%d", inChannels, filters))
	}

	return &ResidualDeconvBlock[B]{
		bn1:  NewBatchNorm2D(inChannels, 0.99, 1e-3, backend),
		act1: NewReLU[B](),
		deconv1: NewConvTranspose2D(inChannels, filters, Conv2DConfig[B]{
			KernelSize:        cfg.KernelSize,
			Strides:           cfg.Strides,
			Padding:           cfg.Padding,
			KernelRegularizer: OrthogonalRegularizer[B](orthoScale),
		}, backend),
		bn2:  NewBatchNorm2D(filters, 0.99, 1e-3, backend),
		act2: NewReLU[B](),
		deconv2: NewConvTranspose2D(filters, filters, Conv2DConfig[B]{
			KernelSize:        cfg.KernelSize,
			Strides:           [2]int{1, 1},
			Padding:           cfg.Padding,
			KernelRegularizer: OrthogonalRegularizer[B](orthoScale),
		}, backend),
		bn3:  NewBatchNorm2D(filters, 0.99, 1e-3, backend),
		act3: NewBatchNorm2D(filters, 0.99, 1e-3, backend),
		deconv3: NewConvTranspose2D(filters, filters, Conv2DConfig[B]{
			KernelSize:        cfg.KernelSize,
			Strides:           cfg.Strides,
			Padding:           cfg.Padding,
			KernelRegularizer: OrthogonalRegularizer[B](orthoScale),
		}, backend),
		filters: filters,
	}
}

// Forward runs the block. The training flag defaults to false.
func (b *ResidualDeconvBlock[B]) Forward(x *tensor.Tensor[float32, B], training ...bool) *tensor.Tensor[float32, B] {
	train := false
	if len(training) > 0 {
		train = training[0]
	}

	main := b.bn1.Forward(x, train)
	main = b.act1.Forward(main)
	main = b.deconv1.Forward(main)
	main = b.bn2.Forward(main, train)
	main = b.act2.Forward(main)
	main = b.deconv2.Forward(main)

	res := b.bn3.Forward(main, train)
	res = b.act3.Forward(res, train)
	res = b.deconv3.Forward(res)

	if !main.Shape().Equal(res.Shape()) {
		panic(fmt.Sprintf("residual deconv block: main path %v and residual branch %v are not add-compatible (only unit strides line up)", main.Shape(), res.Shape()))
	}

	return main.Add(res)
}

// Parameters returns the trainable parameters of every sublayer.
func (b *ResidualDeconvBlock[B]) Parameters() []*Parameter[B] {
	var params []*Parameter[B]
	params = append(params, b.bn1.Parameters()...)
	params = append(params, b.deconv1.Parameters()...)
	params = append(params, b.bn2.Parameters()...)
	params = append(params, b.deconv2.Parameters()...)
	params = append(params, b.bn3.Parameters()...)
	params = append(params, b.act3.Parameters()...)
	params = append(params, b.deconv3.Parameters()...)
	return params
}

// RegularizationLoss sums the orthogonal penalties of all three deconvolution
// kernels.
func (b *ResidualDeconvBlock[B]) RegularizationLoss() float32 {
	return b.deconv1.RegularizationLoss() + b.deconv2.RegularizationLoss() + b.deconv3.RegularizationLoss()
}

// Filters returns the block's output channel count.
func (b *ResidualDeconvBlock[B]) Filters() int {
	return b.filters
}
