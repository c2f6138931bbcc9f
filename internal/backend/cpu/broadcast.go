package cpu

import (
	"github.com/orthonet-ml/orthonet/internal/tensor"
)

// broadcastStrides computes strides for broadcasting inShape to outShape.
// Dimensions of size 1 (and missing leading dimensions) get stride 0 so the
// same source element is reused along them.
func broadcastStrides(inShape, outShape tensor.Shape) []int {
	outDim := len(outShape)
	strides := make([]int, outDim)

	inDim := len(inShape)
	offset := outDim - inDim

	origStrides := inShape.ComputeStrides()

	for i := 0; i < outDim; i++ {
		inIdx := i - offset
		switch {
		case inIdx < 0 || inIdx >= inDim:
			strides[i] = 0
		case inShape[inIdx] == 1:
			strides[i] = 0
		default:
			strides[i] = origStrides[inIdx]
		}
	}

	return strides
}

// flatIndex maps a flat output index to a flat source index.
// outStrides are the strides of the output shape; inStrides are the
// broadcast-adjusted strides of the source.
func flatIndex(outIdx int, outStrides, inStrides []int) int {
	idx := 0
	for i := 0; i < len(outStrides); i++ {
		coord := outIdx / outStrides[i]
		outIdx %= outStrides[i]
		idx += coord * inStrides[i]
	}
	return idx
}
