package nn

import "fmt"

// Padding selects how convolution layers pad their input.
type Padding string

// Supported padding modes.
const (
	// Same pads so that out = ceil(in/stride). The total padding is split
	// with the extra pixel after, matching the convention of mainstream
	// frameworks, so pads can be asymmetric.
	Same Padding = "same"
	// Valid applies no padding: out = (in-k)/stride + 1.
	Valid Padding = "valid"
)

func (p Padding) validate(layer string) {
	if p != Same && p != Valid {
		panic(fmt.Sprintf("%s: invalid padding %q (must be %q or %q)", layer, string(p), Same, Valid))
	}
}

// samePad returns the (before, after) padding for one spatial axis under
// Same padding.
func samePad(in, kernel, stride int) (int, int) {
	out := (in + stride - 1) / stride
	total := (out-1)*stride + kernel - in
	if total < 0 {
		total = 0
	}
	before := total / 2
	return before, total - before
}

// convOutSize returns the output size of a convolution along one axis.
func convOutSize(in, kernel, stride int, padding Padding) int {
	if padding == Same {
		return (in + stride - 1) / stride
	}
	return (in-kernel)/stride + 1
}

// deconvOutSize returns the output size of a transposed convolution along
// one axis: in*stride under Same, (in-1)*stride + k under Valid.
func deconvOutSize(in, kernel, stride int, padding Padding) int {
	if padding == Same {
		return in * stride
	}
	return (in-1)*stride + kernel
}

// deconvPad returns the (before, after) padding of the equivalent forward
// convolution for a transposed convolution along one axis.
func deconvPad(in, kernel, stride int, padding Padding) (int, int) {
	if padding == Valid {
		return 0, 0
	}
	out := deconvOutSize(in, kernel, stride, padding)
	total := (in-1)*stride + kernel - out
	if total < 0 {
		total = 0
	}
	before := total / 2
	return before, total - before
}
