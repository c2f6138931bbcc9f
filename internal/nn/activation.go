package nn

import (
	"github.com/orthonet-ml/orthonet/internal/tensor"
)

// ReLUBackend is implemented by backends that support the ReLU activation.
type ReLUBackend interface {
	ReLU(*tensor.RawTensor) *tensor.RawTensor
}

// SigmoidBackend is implemented by backends that support Sigmoid.
type SigmoidBackend interface {
	Sigmoid(*tensor.RawTensor) *tensor.RawTensor
}

// TanhBackend is implemented by backends that support Tanh.
type TanhBackend interface {
	Tanh(*tensor.RawTensor) *tensor.RawTensor
}

// ReLU is the rectified linear unit activation module: f(x) = max(0, x).
// It is stateless and safe to share between call sites.
type ReLU[B tensor.Backend] struct{}

// NewReLU creates a new ReLU activation module.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return &ReLU[B]{}
}

// Forward applies ReLU element-wise. The training flag is ignored.
func (r *ReLU[B]) Forward(x *tensor.Tensor[float32, B], _ ...bool) *tensor.Tensor[float32, B] {
	backend := x.Backend()
	if rb, ok := any(backend).(ReLUBackend); ok {
		return tensor.New[float32, B](rb.ReLU(x.Raw()), backend)
	}
	panic("ReLU: backend does not implement the ReLU operation")
}

// Parameters returns an empty slice (ReLU has no trainable parameters).
func (r *ReLU[B]) Parameters() []*Parameter[B] {
	return nil
}

// Sigmoid is the logistic activation module: σ(x) = 1 / (1 + exp(-x)).
type Sigmoid[B tensor.Backend] struct{}

// NewSigmoid creates a new Sigmoid activation module.
func NewSigmoid[B tensor.Backend]() *Sigmoid[B] {
	return &Sigmoid[B]{}
}

// Forward applies Sigmoid element-wise. The training flag is ignored.
func (s *Sigmoid[B]) Forward(x *tensor.Tensor[float32, B], _ ...bool) *tensor.Tensor[float32, B] {
	backend := x.Backend()
	if sb, ok := any(backend).(SigmoidBackend); ok {
		return tensor.New[float32, B](sb.Sigmoid(x.Raw()), backend)
	}
	panic("Sigmoid: backend does not implement the Sigmoid operation")
}

// Parameters returns an empty slice.
func (s *Sigmoid[B]) Parameters() []*Parameter[B] {
	return nil
}

// Tanh is the hyperbolic tangent activation module, commonly used as the
// output activation of image generators.
type Tanh[B tensor.Backend] struct{}

// NewTanh creates a new Tanh activation module.
func NewTanh[B tensor.Backend]() *Tanh[B] {
	return &Tanh[B]{}
}

// Forward applies Tanh element-wise. The training flag is ignored.
func (t *Tanh[B]) Forward(x *tensor.Tensor[float32, B], _ ...bool) *tensor.Tensor[float32, B] {
	backend := x.Backend()
	if tb, ok := any(backend).(TanhBackend); ok {
		return tensor.New[float32, B](tb.Tanh(x.Raw()), backend)
	}
	panic("Tanh: backend does not implement the Tanh operation")
}

// Parameters returns an empty slice.
func (t *Tanh[B]) Parameters() []*Parameter[B] {
	return nil
}
