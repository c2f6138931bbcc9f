package nn

import (
	"fmt"

	"github.com/orthonet-ml/orthonet/internal/tensor"
)

// Regularizer is a weight penalty attached to a layer's kernel slot. It is
// evaluated by the external training harness (or through the layer's
// RegularizationLoss method) and never mutates the weight.
type Regularizer[B tensor.Backend] func(w *tensor.Tensor[float32, B]) float32

// OrthogonalRegularizer returns a penalty measuring how far a convolution
// kernel's columns are from orthonormal.
//
// The HWIO weight [k_h, k_w, c_in, c_out] is flattened to a matrix
// W of shape [k_h*k_w*c_in, c_out]; the penalty is
//
//	scale * sum((WᵀW − I_cout)²) / 2
//
// following the L2 loss convention of half the sum of squares. Orthonormal
// columns give exactly zero, and the penalty is linear in scale.
func OrthogonalRegularizer[B tensor.Backend](scale float32) Regularizer[B] {
	return func(w *tensor.Tensor[float32, B]) float32 {
		shape := w.Shape()
		if len(shape) != 4 {
			panic(fmt.Sprintf("orthogonal regularizer: weight must be 4D [K_h,K_w,C_in,C_out], got shape %v", shape))
		}
		cols := shape[3]
		flat := w.Reshape(shape[0]*shape[1]*shape[2], cols)
		return scale * orthogonalPenalty(flat, cols)
	}
}

// OrthogonalRegularizerDense is the rank-2 specialization for fully
// connected weights of shape [in, out].
func OrthogonalRegularizerDense[B tensor.Backend](scale float32) Regularizer[B] {
	return func(w *tensor.Tensor[float32, B]) float32 {
		shape := w.Shape()
		if len(shape) != 2 {
			panic(fmt.Sprintf("orthogonal regularizer: weight must be 2D [in, out], got shape %v", shape))
		}
		return scale * orthogonalPenalty(w, shape[1])
	}
}

// orthogonalPenalty computes sum((WᵀW − I)²)/2 for a 2-D weight matrix whose
// columns are the units being regularized.
func orthogonalPenalty[B tensor.Backend](w *tensor.Tensor[float32, B], cols int) float32 {
	identity := tensor.Eye[float32](cols, w.Backend())
	residual := w.T().MatMul(w).Sub(identity)
	return residual.Mul(residual).Sum().Item() / 2
}
