package tensor

// Backend defines the interface that compute backends must implement for the
// layer library. The CPU backend in this repository is the reference
// implementation; an enclosing training framework may substitute a backend
// that records operations for automatic differentiation or dispatches to a
// device, which is why every layer is generic over B.
//
// Convolution arguments follow the NHWC/HWIO layout of the library:
//   - input:  [batch, height, width, in_channels]
//   - kernel: [kernel_h, kernel_w, in_channels, out_channels]
//
// stride is [strideH, strideW] and pad is [top, bottom, left, right],
// resolved by the calling layer from its padding mode. Explicit per-side
// pads let layers express TensorFlow-style "same" padding, which is
// asymmetric for even kernel/stride combinations.
type Backend interface {
	// Element-wise binary operations with NumPy-style broadcasting
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// Matrix operations
	MatMul(a, b *RawTensor) *RawTensor

	// Convolutional operations
	Conv2D(input, kernel *RawTensor, stride [2]int, pad [4]int) *RawTensor

	// ConvTranspose2D computes the adjoint (gradient) convolution used for
	// upsampling. outSize is the output spatial size [outH, outW] resolved
	// by the layer from its padding mode.
	ConvTranspose2D(input, kernel *RawTensor, stride [2]int, pad [4]int, outSize [2]int) *RawTensor

	// Shape operations
	Reshape(t *RawTensor, newShape Shape) *RawTensor
	Transpose(t *RawTensor, axes ...int) *RawTensor

	// Scalar operations (element-wise with scalar)
	MulScalar(x *RawTensor, scalar any) *RawTensor
	AddScalar(x *RawTensor, scalar any) *RawTensor
	SubScalar(x *RawTensor, scalar any) *RawTensor
	DivScalar(x *RawTensor, scalar any) *RawTensor

	// Math operations (element-wise)
	Sqrt(x *RawTensor) *RawTensor
	Rsqrt(x *RawTensor) *RawTensor

	// Reduction operations
	Sum(x *RawTensor) *RawTensor
	SumDim(x *RawTensor, dim int, keepDim bool) *RawTensor
	MeanDim(x *RawTensor, dim int, keepDim bool) *RawTensor

	// Metadata
	Name() string
	Device() Device
}
