package nn_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orthonet-ml/orthonet/internal/backend/cpu"
	"github.com/orthonet-ml/orthonet/internal/nn"
	"github.com/orthonet-ml/orthonet/internal/tensor"
)

func TestOrthogonalRegularizerZeroWeight(t *testing.T) {
	backend := cpu.New()

	// For W = 0 the residual is -I_cout, so the penalty is
	// scale * c_out / 2 regardless of the kernel's spatial extent.
	w := tensor.Zeros[float32](tensor.Shape{3, 3, 8, 16}, backend)

	reg := nn.OrthogonalRegularizer[*cpu.CPUBackend](1.0)
	assert.InDelta(t, 8.0, reg(w), 1e-5)

	scaled := nn.OrthogonalRegularizer[*cpu.CPUBackend](0.01)
	assert.InDelta(t, 0.08, scaled(w), 1e-6)
}

func TestOrthogonalRegularizerOrthonormal(t *testing.T) {
	backend := cpu.New()

	// A 1×1 kernel whose [c_in, c_out] slice is the identity has exactly
	// orthonormal columns.
	w := tensor.Zeros[float32](tensor.Shape{1, 1, 4, 4}, backend)
	for i := 0; i < 4; i++ {
		w.Set(1, 0, 0, i, i)
	}

	reg := nn.OrthogonalRegularizer[*cpu.CPUBackend](0.5)
	assert.InDelta(t, 0.0, reg(w), 1e-6)
}

func TestOrthogonalRegularizerScaleLinearity(t *testing.T) {
	backend := cpu.New()

	w := tensor.Randn[float32](tensor.Shape{3, 3, 4, 8}, backend)

	base := nn.OrthogonalRegularizer[*cpu.CPUBackend](0.1)(w)
	doubled := nn.OrthogonalRegularizer[*cpu.CPUBackend](0.2)(w)

	require.Greater(t, base, float32(0))
	assert.InEpsilon(t, 2*base, doubled, 1e-4)
}

func TestOrthogonalRegularizerRankCheck(t *testing.T) {
	backend := cpu.New()

	w2d := tensor.Zeros[float32](tensor.Shape{8, 4}, backend)
	require.Panics(t, func() {
		nn.OrthogonalRegularizer[*cpu.CPUBackend](1.0)(w2d)
	})

	w4d := tensor.Zeros[float32](tensor.Shape{1, 1, 8, 4}, backend)
	require.Panics(t, func() {
		nn.OrthogonalRegularizerDense[*cpu.CPUBackend](1.0)(w4d)
	})
}

func TestOrthogonalRegularizerDense(t *testing.T) {
	backend := cpu.New()

	// Identity weight: orthonormal, zero penalty.
	id := tensor.Eye[float32](4, backend)
	reg := nn.OrthogonalRegularizerDense[*cpu.CPUBackend](1.0)
	assert.InDelta(t, 0.0, reg(id), 1e-6)

	// Doubled identity: WᵀW = 4I, residual 3I, penalty 4*9/2 = 18.
	scaled := id.MulScalar(2)
	assert.InDelta(t, 18.0, reg(scaled), 1e-4)

	// Zero [in, out] weight: penalty out/2.
	zero := tensor.Zeros[float32](tensor.Shape{16, 6}, backend)
	assert.InDelta(t, 3.0, reg(zero), 1e-5)
}
