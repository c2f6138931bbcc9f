package nn

import (
	"fmt"

	"github.com/orthonet-ml/orthonet/internal/tensor"
)

// Conv2DConfig holds the construction-time options of a Conv2D layer.
// Zero values fall back to the usual framework defaults: 3×3 kernel,
// stride 1, valid padding, bias enabled.
type Conv2DConfig[B tensor.Backend] struct {
	KernelSize        [2]int
	Strides           [2]int
	Padding           Padding
	NoBias            bool
	KernelRegularizer Regularizer[B]
}

func (c Conv2DConfig[B]) withDefaults() Conv2DConfig[B] {
	if c.KernelSize == [2]int{} {
		c.KernelSize = [2]int{3, 3}
	}
	if c.Strides == [2]int{} {
		c.Strides = [2]int{1, 1}
	}
	if c.Padding == "" {
		c.Padding = Valid
	}
	return c
}

// Conv2D is a 2D convolutional layer in NHWC layout.
//
// Input shape:  [batch, height, width, in_channels]
// Weight shape: [kernel_h, kernel_w, in_channels, filters]
// Bias shape:   [filters]
// Output shape: [batch, out_h, out_w, filters]
//
// With Same padding out_h = ceil(height/strideH); with Valid padding
// out_h = (height - kernel_h)/strideH + 1.
//
// Example:
//
//	conv := nn.NewConv2D(16, 32, nn.Conv2DConfig[*cpu.CPUBackend]{
//	    KernelSize: [2]int{3, 3},
//	    Strides:    [2]int{2, 2},
//	    Padding:    nn.Same,
//	}, backend)
//	output := conv.Forward(input) // [N, ceil(H/2), ceil(W/2), 32]
type Conv2D[B tensor.Backend] struct {
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

// NewConv2D creates a new 2D convolutional layer with Xavier-initialized
// weights and zero bias.
func NewConv2D[B tensor.Backend](inChannels, filters int, cfg Conv2DConfig[B], backend B) *Conv2D[B] {
	cfg = cfg.withDefaults()
	validateConvConfig("conv2d", inChannels, filters, cfg.KernelSize, cfg.Strides, cfg.Padding)

	kh, kw := cfg.KernelSize[0], cfg.KernelSize[1]
	weightShape := tensor.Shape{kh, kw, inChannels, filters}

	fanIn := inChannels * kh * kw
	fanOut := filters * kh * kw
	weight := NewParameter("conv2d.weight", Xavier(fanIn, fanOut, weightShape, backend))

	var bias *Parameter[B]
	if !cfg.NoBias {
		bias = NewParameter("conv2d.bias", Zeros(tensor.Shape{filters}, backend))
	}

	return &Conv2D[B]{
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

// validateConvConfig applies the construction-time checks shared by Conv2D
// and ConvTranspose2D.
func validateConvConfig(layer string, inChannels, filters int, kernelSize, strides [2]int, padding Padding) {
	if inChannels <= 0 || filters <= 0 {
		panic(fmt.Sprintf("%s: invalid channels in=%d, filters=%d", layer, inChannels, filters))
	}
	if kernelSize[0] <= 0 || kernelSize[1] <= 0 {
		panic(fmt.Sprintf("%s: invalid kernel size %v", layer, kernelSize))
	}
	if strides[0] <= 0 || strides[1] <= 0 {
		panic(fmt.Sprintf("%s: invalid strides %v", layer, strides))
	}
	padding.validate(layer)
}

// Forward performs the forward pass.
//
// Input: [batch, height, width, in_channels]
// Output: [batch, out_h, out_w, filters]
//
// The variadic training flag is accepted for Module conformance and ignored.
func (c *Conv2D[B]) Forward(input *tensor.Tensor[float32, B], _ ...bool) *tensor.Tensor[float32, B] {
	inputShape := input.Shape()
	if len(inputShape) != 4 {
		panic(fmt.Sprintf("conv2d: expected 4D input [N,H,W,C], got %dD", len(inputShape)))
	}
	if inputShape[3] != c.inChannels {
		panic(fmt.Sprintf("conv2d: input channels %d != expected %d", inputShape[3], c.inChannels))
	}

	var pad [4]int
	if c.padding == Same {
		pad[0], pad[1] = samePad(inputShape[1], c.kernelSize[0], c.strides[0])
		pad[2], pad[3] = samePad(inputShape[2], c.kernelSize[1], c.strides[1])
	}

	outputRaw := c.backend.Conv2D(input.Raw(), c.weight.Tensor().Raw(), c.strides, pad)
	output := tensor.New[float32, B](outputRaw, c.backend)

	if c.bias != nil {
		// Bias [filters] broadcasts over [N, out_h, out_w, filters].
		output = output.Add(c.bias.Tensor().Reshape(1, 1, 1, c.filters))
	}

	return output
}

// Parameters returns all trainable parameters.
func (c *Conv2D[B]) Parameters() []*Parameter[B] {
	if c.bias != nil {
		return []*Parameter[B]{c.weight, c.bias}
	}
	return []*Parameter[B]{c.weight}
}

// RegularizationLoss evaluates the kernel regularizer, or returns 0 when
// none is attached.
func (c *Conv2D[B]) RegularizationLoss() float32 {
	if c.regularizer == nil {
		return 0
	}
	return c.regularizer(c.weight.Tensor())
}

// Weight returns the kernel parameter.
func (c *Conv2D[B]) Weight() *Parameter[B] {
	return c.weight
}

// Filters returns the number of output channels.
func (c *Conv2D[B]) Filters() int {
	return c.filters
}

// InChannels returns the number of input channels.
func (c *Conv2D[B]) InChannels() int {
	return c.inChannels
}

// ComputeOutputSize computes output spatial dimensions for a given input
// size. Returns [out_height, out_width].
func (c *Conv2D[B]) ComputeOutputSize(inputH, inputW int) [2]int {
	return [2]int{
		convOutSize(inputH, c.kernelSize[0], c.strides[0], c.padding),
		convOutSize(inputW, c.kernelSize[1], c.strides[1], c.padding),
	}
}

// String returns a string representation of the layer.
func (c *Conv2D[B]) String() string {
	return fmt.Sprintf("Conv2D(in_channels=%d, filters=%d, kernel_size=%v, strides=%v, padding=%q, bias=%v)",
		c.inChannels, c.filters, c.kernelSize, c.strides, string(c.padding), c.bias != nil)
}
