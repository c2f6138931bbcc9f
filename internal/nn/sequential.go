package nn

import (
	"github.com/orthonet-ml/orthonet/internal/tensor"
)

// Sequential chains modules, feeding each one's output to the next.
//
// Example:
//
//	model := nn.NewSequential(
//	    nn.NewConv2D(3, 16, nn.Conv2DConfig[*cpu.CPUBackend]{Padding: nn.Same}, backend),
//	    nn.NewReLU[*cpu.CPUBackend](),
//	)
//	output := model.Forward(input)
type Sequential[B tensor.Backend] struct {
	modules []Module[B]
}

// NewSequential creates a sequential container from the given modules.
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return &Sequential[B]{modules: modules}
}

// Add appends a module and returns the container for chaining.
func (s *Sequential[B]) Add(m Module[B]) *Sequential[B] {
	s.modules = append(s.modules, m)
	return s
}

// Forward runs the input through every module in order, threading the
// training flag through to each of them.
func (s *Sequential[B]) Forward(x *tensor.Tensor[float32, B], training ...bool) *tensor.Tensor[float32, B] {
	out := x
	for _, m := range s.modules {
		out = m.Forward(out, training...)
	}
	return out
}

// Parameters returns the concatenated parameters of all modules.
func (s *Sequential[B]) Parameters() []*Parameter[B] {
	var params []*Parameter[B]
	for _, m := range s.modules {
		params = append(params, m.Parameters()...)
	}
	return params
}

// RegularizationLoss sums the regularization penalties of every member that
// carries one.
func (s *Sequential[B]) RegularizationLoss() float32 {
	var total float32
	for _, m := range s.modules {
		if r, ok := m.(Regularized); ok {
			total += r.RegularizationLoss()
		}
	}
	return total
}

// Len returns the number of modules in the container.
func (s *Sequential[B]) Len() int {
	return len(s.modules)
}

// Module returns the module at index i.
func (s *Sequential[B]) Module(i int) Module[B] {
	return s.modules[i]
}
