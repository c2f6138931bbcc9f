package cpu

import (
	"fmt"

	"github.com/orthonet-ml/orthonet/internal/tensor"
)

// Sum computes the total sum of all elements (0-D scalar result).
func (cpu *CPUBackend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	result, err := tensor.NewRaw(tensor.Shape{}, x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("sum: %v", err))
	}

	switch x.DType() {
	case tensor.Float32:
		result.AsFloat32()[0] = sumKernel(x.AsFloat32())
	case tensor.Float64:
		result.AsFloat64()[0] = sumKernel(x.AsFloat64())
	default:
		panic(fmt.Sprintf("sum: unsupported dtype %s", x.DType()))
	}

	return result
}

func sumKernel[T tensor.DType](src []T) T {
	var sum T
	for _, v := range src {
		sum += v
	}
	return sum
}

// SumDim sums tensor elements along the specified dimension.
//
// Parameters:
//   - dim: dimension to reduce (negative indexing supported: -1 = last dim)
//   - keepDim: if true, keep the reduced dimension with size 1
//
// Example:
//
//	x := tensor.Randn[float32](tensor.Shape{2, 3, 4}, backend)
//	y := backend.SumDim(x.Raw(), -1, true)  // shape: [2, 3, 1]
//	z := backend.SumDim(x.Raw(), -1, false) // shape: [2, 3]
func (cpu *CPUBackend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)

	if dim < 0 {
		dim = ndim + dim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("sumdim: dimension %d out of range for %dD tensor", dim, ndim))
	}

	var outShape tensor.Shape
	if keepDim {
		outShape = shape.Clone()
		outShape[dim] = 1
	} else {
		outShape = make(tensor.Shape, 0, ndim-1)
		for i := 0; i < ndim; i++ {
			if i != dim {
				outShape = append(outShape, shape[i])
			}
		}
	}

	result, err := tensor.NewRaw(outShape, x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("sumdim: %v", err))
	}

	switch x.DType() {
	case tensor.Float32:
		sumDimKernel(x.AsFloat32(), result.AsFloat32(), shape, dim)
	case tensor.Float64:
		sumDimKernel(x.AsFloat64(), result.AsFloat64(), shape, dim)
	default:
		panic(fmt.Sprintf("sumdim: unsupported dtype %s", x.DType()))
	}

	return result
}

// sumDimKernel accumulates along dim. The result slice is the same for
// keepDim true/false; only its shape differs.
func sumDimKernel[T tensor.DType](data, result []T, shape tensor.Shape, dim int) {
	strides := shape.ComputeStrides()
	numElements := shape.NumElements()

	outShape := shape.Clone()
	outShape[dim] = 1
	outStrides := outShape.ComputeStrides()

	for i := 0; i < numElements; i++ {
		outIdx := 0
		temp := i
		for d := 0; d < len(shape); d++ {
			coord := temp / strides[d]
			temp %= strides[d]
			if d != dim {
				outIdx += coord * outStrides[d]
			}
		}
		result[outIdx] += data[i]
	}
}

// MeanDim computes the mean of tensor elements along the specified dimension.
func (cpu *CPUBackend) MeanDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	sumResult := cpu.SumDim(x, dim, keepDim)

	shape := x.Shape()
	if dim < 0 {
		dim = len(shape) + dim
	}
	divisor := float64(shape[dim])

	switch sumResult.DType() {
	case tensor.Float32:
		meanKernel(sumResult.AsFloat32(), float32(divisor))
	case tensor.Float64:
		meanKernel(sumResult.AsFloat64(), divisor)
	default:
		panic(fmt.Sprintf("meandim: unsupported dtype %s", sumResult.DType()))
	}

	return sumResult
}

func meanKernel[T tensor.DType](data []T, divisor T) {
	for i := range data {
		data[i] /= divisor
	}
}
