package cpu

import (
	"fmt"

	"github.com/orthonet-ml/orthonet/internal/tensor"
)

// Scalar operations: element-wise combination with a single scalar value.
// The scalar must match the tensor's dtype (float32 or float64).

// MulScalar multiplies each element of the tensor by a scalar value.
func (cpu *CPUBackend) MulScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return cpu.scalarOp(opMul, x, scalar)
}

// AddScalar adds a scalar value to each element of the tensor.
func (cpu *CPUBackend) AddScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return cpu.scalarOp(opAdd, x, scalar)
}

// SubScalar subtracts a scalar value from each element of the tensor.
func (cpu *CPUBackend) SubScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return cpu.scalarOp(opSub, x, scalar)
}

// DivScalar divides each element of the tensor by a scalar value.
func (cpu *CPUBackend) DivScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return cpu.scalarOp(opDiv, x, scalar)
}

func (cpu *CPUBackend) scalarOp(op binOp, x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	result, err := tensor.NewRaw(x.Shape(), x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%sScalar: failed to create result tensor: %v", op, err))
	}

	switch x.DType() {
	case tensor.Float32:
		s, ok := scalar.(float32)
		if !ok {
			panic(fmt.Sprintf("%sScalar: scalar %T does not match tensor dtype float32", op, scalar))
		}
		scalarKernel(op, result.AsFloat32(), x.AsFloat32(), s)
	case tensor.Float64:
		s, ok := scalar.(float64)
		if !ok {
			panic(fmt.Sprintf("%sScalar: scalar %T does not match tensor dtype float64", op, scalar))
		}
		scalarKernel(op, result.AsFloat64(), x.AsFloat64(), s)
	default:
		panic(fmt.Sprintf("%sScalar: unsupported dtype %s", op, x.DType()))
	}

	return result
}

func scalarKernel[T tensor.DType](op binOp, dst, src []T, scalar T) {
	switch op {
	case opAdd:
		for i := range dst {
			dst[i] = src[i] + scalar
		}
	case opSub:
		for i := range dst {
			dst[i] = src[i] - scalar
		}
	case opMul:
		for i := range dst {
			dst[i] = src[i] * scalar
		}
	case opDiv:
		for i := range dst {
			dst[i] = src[i] / scalar
		}
	}
}
