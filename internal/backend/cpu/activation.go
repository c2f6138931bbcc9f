package cpu

import (
	"fmt"
	"math"

	"github.com/orthonet-ml/orthonet/internal/tensor"
)

// Activation functions. These are capability ops outside the core Backend
// interface; the nn package discovers them through interface assertions.

// ReLU computes element-wise max(0, x).
func (cpu *CPUBackend) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	result, err := tensor.NewRaw(x.Shape(), x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("relu: %v", err))
	}

	switch x.DType() {
	case tensor.Float32:
		reluKernel(result.AsFloat32(), x.AsFloat32())
	case tensor.Float64:
		reluKernel(result.AsFloat64(), x.AsFloat64())
	default:
		panic(fmt.Sprintf("relu: unsupported dtype %s", x.DType()))
	}

	return result
}

func reluKernel[T tensor.DType](dst, src []T) {
	for i, v := range src {
		if v > 0 {
			dst[i] = v
		}
	}
}

// Sigmoid computes element-wise 1 / (1 + exp(-x)).
func (cpu *CPUBackend) Sigmoid(x *tensor.RawTensor) *tensor.RawTensor {
	result, err := tensor.NewRaw(x.Shape(), x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("sigmoid: %v", err))
	}

	switch x.DType() {
	case tensor.Float32:
		sigmoidKernel(result.AsFloat32(), x.AsFloat32())
	case tensor.Float64:
		sigmoidKernel(result.AsFloat64(), x.AsFloat64())
	default:
		panic(fmt.Sprintf("sigmoid: unsupported dtype %s", x.DType()))
	}

	return result
}

func sigmoidKernel[T tensor.DType](dst, src []T) {
	for i, v := range src {
		dst[i] = T(1.0 / (1.0 + math.Exp(-float64(v))))
	}
}

// Tanh computes element-wise hyperbolic tangent.
func (cpu *CPUBackend) Tanh(x *tensor.RawTensor) *tensor.RawTensor {
	result, err := tensor.NewRaw(x.Shape(), x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("tanh: %v", err))
	}

	switch x.DType() {
	case tensor.Float32:
		tanhKernel(result.AsFloat32(), x.AsFloat32())
	case tensor.Float64:
		tanhKernel(result.AsFloat64(), x.AsFloat64())
	default:
		panic(fmt.Sprintf("tanh: unsupported dtype %s", x.DType()))
	}

	return result
}

func tanhKernel[T tensor.DType](dst, src []T) {
	for i, v := range src {
		dst[i] = T(math.Tanh(float64(v)))
	}
}
