package cpu

import (
	"fmt"
	"math"

	"github.com/orthonet-ml/orthonet/internal/tensor"
)

// Sqrt computes the element-wise square root: sqrt(x).
func (cpu *CPUBackend) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	result, err := tensor.NewRaw(x.Shape(), x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("sqrt: %v", err))
	}

	switch x.DType() {
	case tensor.Float32:
		sqrtKernel(result.AsFloat32(), x.AsFloat32())
	case tensor.Float64:
		sqrtKernel(result.AsFloat64(), x.AsFloat64())
	default:
		panic(fmt.Sprintf("sqrt: unsupported dtype %s", x.DType()))
	}

	return result
}

func sqrtKernel[T tensor.DType](dst, src []T) {
	for i, v := range src {
		if v < 0 {
			panic(fmt.Sprintf("sqrt: negative value at index %d: %f", i, float64(v)))
		}
		dst[i] = T(math.Sqrt(float64(v)))
	}
}

// Rsqrt computes the element-wise reciprocal square root: 1/sqrt(x).
// Used by the normalization layers, which guarantee x > 0 via epsilon.
func (cpu *CPUBackend) Rsqrt(x *tensor.RawTensor) *tensor.RawTensor {
	result, err := tensor.NewRaw(x.Shape(), x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("rsqrt: %v", err))
	}

	switch x.DType() {
	case tensor.Float32:
		rsqrtKernel(result.AsFloat32(), x.AsFloat32())
	case tensor.Float64:
		rsqrtKernel(result.AsFloat64(), x.AsFloat64())
	default:
		panic(fmt.Sprintf("rsqrt: unsupported dtype %s", x.DType()))
	}

	return result
}

func rsqrtKernel[T tensor.DType](dst, src []T) {
	for i, v := range src {
		if v <= 0 {
			panic(fmt.Sprintf("rsqrt: non-positive value at index %d: %f", i, float64(v)))
		}
		dst[i] = T(1.0 / math.Sqrt(float64(v)))
	}
}
