package nn

import (
	"fmt"

	"github.com/orthonet-ml/orthonet/internal/tensor"
)

// ConvTranspose2D is a 2D transposed (deconvolution) layer in NHWC layout,
// used for upsampling.
//
// Input shape:  [batch, height, width, in_channels]
// Weight shape: [kernel_h, kernel_w, in_channels, filters]
// Bias shape:   [filters]
// Output shape: [batch, out_h, out_w, filters]
//
// With Same padding out_h = height*strideH; with Valid padding
// out_h = (height-1)*strideH + kernel_h.
type ConvTranspose2D[B tensor.Backend] struct {
	inChannels int
	filters    int
	kernelSize [2]int
	strides    [2]int
	padding    Padding

	weight      *Parameter[B] // [kernel_h, kernel_w, in_channels, filters]
	bias        *Parameter[B] // [filters] or nil
	regularizer Regularizer[B]

	backend B
}

// NewConvTranspose2D creates a new transposed convolution layer with
// Xavier-initialized weights and zero bias. The configuration mirrors
// Conv2D, including the kernel regularizer slot.
func NewConvTranspose2D[B tensor.Backend](inChannels, filters int, cfg Conv2DConfig[B], backend B) *ConvTranspose2D[B] {
	cfg = cfg.withDefaults()
	validateConvConfig("convtranspose2d", inChannels, filters, cfg.KernelSize, cfg.Strides, cfg.Padding)

	kh, kw := cfg.KernelSize[0], cfg.KernelSize[1]
	weightShape := tensor.Shape{kh, kw, inChannels, filters}

	fanIn := inChannels * kh * kw
	fanOut := filters * kh * kw
	weight := NewParameter("convtranspose2d.weight", Xavier(fanIn, fanOut, weightShape, backend))

	var bias *Parameter[B]
	if !cfg.NoBias {
		bias = NewParameter("convtranspose2d.bias", Zeros(tensor.Shape{filters}, backend))
	}

	return &ConvTranspose2D[B]{
		inChannels:  inChannels,
		filters:     filters,
		kernelSize:  cfg.KernelSize,
		strides:     cfg.Strides,
		padding:     cfg.Padding,
		weight:      weight,
		bias:        bias,
		regularizer: cfg.KernelRegularizer,
		backend:     backend,
	}
}

// Forward performs the forward pass.
//
// Input: [batch, height, width, in_channels]
// Output: [batch, out_h, out_w, filters]
//
// The variadic training flag is accepted for Module conformance and ignored.
func (c *ConvTranspose2D[B]) Forward(input *tensor.Tensor[float32, B], _ ...bool) *tensor.Tensor[float32, B] {
	inputShape := input.Shape()
	if len(inputShape) != 4 {
		panic(fmt.Sprintf("convtranspose2d: expected 4D input [N,H,W,C], got %dD", len(inputShape)))
	}
	if inputShape[3] != c.inChannels {
		panic(fmt.Sprintf("convtranspose2d: input channels %d != expected %d", inputShape[3], c.inChannels))
	}

	outSize := [2]int{
		deconvOutSize(inputShape[1], c.kernelSize[0], c.strides[0], c.padding),
		deconvOutSize(inputShape[2], c.kernelSize[1], c.strides[1], c.padding),
	}

	var pad [4]int
	pad[0], pad[1] = deconvPad(inputShape[1], c.kernelSize[0], c.strides[0], c.padding)
	pad[2], pad[3] = deconvPad(inputShape[2], c.kernelSize[1], c.strides[1], c.padding)

	outputRaw := c.backend.ConvTranspose2D(input.Raw(), c.weight.Tensor().Raw(), c.strides, pad, outSize)
	output := tensor.New[float32, B](outputRaw, c.backend)

	if c.bias != nil {
		output = output.Add(c.bias.Tensor().Reshape(1, 1, 1, c.filters))
	}

	return output
}

// Parameters returns all trainable parameters.
func (c *ConvTranspose2D[B]) Parameters() []*Parameter[B] {
	if c.bias != nil {
		return []*Parameter[B]{c.weight, c.bias}
	}
	return []*Parameter[B]{c.weight}
}

// RegularizationLoss evaluates the kernel regularizer, or returns 0 when
// none is attached.
func (c *ConvTranspose2D[B]) RegularizationLoss() float32 {
	if c.regularizer == nil {
		return 0
	}
	return c.regularizer(c.weight.Tensor())
}

// Weight returns the kernel parameter.
func (c *ConvTranspose2D[B]) Weight() *Parameter[B] {
	return c.weight
}

// Filters returns the number of output channels.
func (c *ConvTranspose2D[B]) Filters() int {
	return c.filters
}

// ComputeOutputSize computes output spatial dimensions for a given input
// size. Returns [out_height, out_width].
func (c *ConvTranspose2D[B]) ComputeOutputSize(inputH, inputW int) [2]int {
	return [2]int{
		deconvOutSize(inputH, c.kernelSize[0], c.strides[0], c.padding),
		deconvOutSize(inputW, c.kernelSize[1], c.strides[1], c.padding),
	}
}

// String returns a string representation of the layer.
func (c *ConvTranspose2D[B]) String() string {
	return fmt.Sprintf("ConvTranspose2D(in_channels=%d, filters=%d, kernel_size=%v, strides=%v, padding=%q, bias=%v)",
		c.inChannels, c.filters, c.kernelSize, c.strides, string(c.padding), c.bias != nil)
}
