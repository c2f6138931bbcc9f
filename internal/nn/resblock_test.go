package nn_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orthonet-ml/orthonet/internal/backend/cpu"
	"github.com/orthonet-ml/orthonet/internal/nn"
	"github.com/orthonet-ml/orthonet/internal/tensor"
)

func TestBasicResBlockDownsample(t *testing.T) {
	backend := cpu.New()

	block := nn.NewBasicResBlock(16, 32, nn.BlockConfig{}, backend)

	input := tensor.Randn[float32](tensor.Shape{2, 32, 32, 16}, backend)
	output := block.Forward(input)

	assert.True(t, output.Shape().Equal(tensor.Shape{2, 16, 16, 32}), "shape = %v", output.Shape())
}

func TestBasicResBlockUnitStride(t *testing.T) {
	backend := cpu.New()

	block := nn.NewBasicResBlock(8, 8, nn.BlockConfig{Strides: [2]int{1, 1}}, backend)

	input := tensor.Randn[float32](tensor.Shape{1, 8, 8, 8}, backend)
	output := block.Forward(input)

	assert.True(t, output.Shape().Equal(tensor.Shape{1, 8, 8, 8}), "shape = %v", output.Shape())
}

func TestBasicResBlockOutputNonNegative(t *testing.T) {
	backend := cpu.New()

	// The block ends in a ReLU.
	block := nn.NewBasicResBlock(4, 8, nn.BlockConfig{}, backend)
	output := block.Forward(tensor.Randn[float32](tensor.Shape{1, 8, 8, 4}, backend))

	for i, v := range output.Data() {
		require.GreaterOrEqual(t, v, float32(0), "element %d", i)
	}
}

func TestBasicResBlockRegularization(t *testing.T) {
	backend := cpu.New()

	block := nn.NewBasicResBlock(4, 8, nn.BlockConfig{}, backend)

	// Three convs with Xavier-initialized, non-orthonormal kernels.
	assert.Greater(t, block.RegularizationLoss(), float32(0))
}

func TestBasicResBlockParameters(t *testing.T) {
	backend := cpu.New()

	block := nn.NewBasicResBlock(4, 8, nn.BlockConfig{}, backend)

	// 3 convs × (weight+bias) + 3 batchnorms × (gamma+beta)
	assert.Len(t, block.Parameters(), 12)
}

func TestResBottleneckBlockShape(t *testing.T) {
	backend := cpu.New()

	block := nn.NewResBottleneckBlock(64, 16, nn.BlockConfig{Strides: [2]int{1, 1}}, backend)
	require.Equal(t, 64, block.OutChannels())

	input := tensor.Randn[float32](tensor.Shape{2, 16, 16, 64}, backend)
	output := block.Forward(input)

	assert.True(t, output.Shape().Equal(tensor.Shape{2, 16, 16, 64}), "shape = %v", output.Shape())
}

func TestResBottleneckBlockDownsample(t *testing.T) {
	backend := cpu.New()

	block := nn.NewResBottleneckBlock(16, 8, nn.BlockConfig{}, backend)

	input := tensor.Randn[float32](tensor.Shape{1, 16, 16, 16}, backend)
	output := block.Forward(input)

	// Stride 2 halves the spatial dims; channels expand to filters*4.
	assert.True(t, output.Shape().Equal(tensor.Shape{1, 8, 8, 32}), "shape = %v", output.Shape())
}

func TestResBottleneckBlockRegularization(t *testing.T) {
	backend := cpu.New()

	block := nn.NewResBottleneckBlock(8, 4, nn.BlockConfig{}, backend)
	assert.Greater(t, block.RegularizationLoss(), float32(0))
}

func TestResidualDeconvBlockUnitStride(t *testing.T) {
	backend := cpu.New()

	block := nn.NewResidualDeconvBlock(16, 16, nn.BlockConfig{Strides: [2]int{1, 1}}, backend)

	input := tensor.Randn[float32](tensor.Shape{2, 8, 8, 16}, backend)
	output := block.Forward(input)

	assert.True(t, output.Shape().Equal(tensor.Shape{2, 8, 8, 16}), "shape = %v", output.Shape())
}

func TestResidualDeconvBlockStrideMismatch(t *testing.T) {
	backend := cpu.New()

	// The residual branch re-upsamples the main path's output, so any
	// stride other than 1 cannot line up for the final add.
	block := nn.NewResidualDeconvBlock(16, 16, nn.BlockConfig{}, backend)

	require.Panics(t, func() {
		block.Forward(tensor.Randn[float32](tensor.Shape{1, 4, 4, 16}, backend))
	})
}

func TestResidualDeconvBlockRegularization(t *testing.T) {
	backend := cpu.New()

	block := nn.NewResidualDeconvBlock(8, 8, nn.BlockConfig{Strides: [2]int{1, 1}}, backend)
	assert.Greater(t, block.RegularizationLoss(), float32(0))
}

func TestBlockConfigValidation(t *testing.T) {
	backend := cpu.New()

	require.Panics(t, func() {
		nn.NewBasicResBlock(0, 8, nn.BlockConfig{}, backend)
	})
	require.Panics(t, func() {
		nn.NewResBottleneckBlock(8, -1, nn.BlockConfig{}, backend)
	})
	require.Panics(t, func() {
		nn.NewResidualDeconvBlock(8, 8, nn.BlockConfig{Padding: "full"}, backend)
	})
}

func TestBasicResBlockAddCompatibility(t *testing.T) {
	backend := cpu.New()
	rng := rand.New(rand.NewSource(42))

	batches := []int{1, 2}
	sizes := []int{4, 7, 8, 12}
	channels := []int{1, 3, 8}
	filters := []int{4, 8}
	kernels := []int{1, 3, 5}
	strides := []int{1, 2}

	for trial := 0; trial < 20; trial++ {
		n := batches[rng.Intn(len(batches))]
		hw := sizes[rng.Intn(len(sizes))]
		c := channels[rng.Intn(len(channels))]
		f := filters[rng.Intn(len(filters))]
		k := kernels[rng.Intn(len(kernels))]
		s := strides[rng.Intn(len(strides))]

		name := fmt.Sprintf("n%d_hw%d_c%d_f%d_k%d_s%d", n, hw, c, f, k, s)
		t.Run(name, func(t *testing.T) {
			block := nn.NewBasicResBlock(c, f, nn.BlockConfig{
				KernelSize: [2]int{k, k},
				Strides:    [2]int{s, s},
				Padding:    nn.Same,
			}, backend)

			input := tensor.Randn[float32](tensor.Shape{n, hw, hw, c}, backend)
			output := block.Forward(input)

			out := (hw + s - 1) / s
			assert.True(t, output.Shape().Equal(tensor.Shape{n, out, out, f}), "shape = %v", output.Shape())
		})
	}
}

func TestResBottleneckBlockAddCompatibility(t *testing.T) {
	backend := cpu.New()
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 10; trial++ {
		hw := 4 + rng.Intn(8)
		c := 1 + rng.Intn(8)
		f := 1 + rng.Intn(4)
		s := 1 + rng.Intn(2)

		name := fmt.Sprintf("hw%d_c%d_f%d_s%d", hw, c, f, s)
		t.Run(name, func(t *testing.T) {
			block := nn.NewResBottleneckBlock(c, f, nn.BlockConfig{
				Strides: [2]int{s, s},
				Padding: nn.Same,
			}, backend)

			input := tensor.Randn[float32](tensor.Shape{1, hw, hw, c}, backend)
			output := block.Forward(input)

			out := (hw + s - 1) / s
			assert.True(t, output.Shape().Equal(tensor.Shape{1, out, out, 4 * f}), "shape = %v", output.Shape())
		})
	}
}

func TestSequentialEncoder(t *testing.T) {
	backend := cpu.New()

	model := nn.NewSequential[*cpu.CPUBackend](
		nn.NewBasicResBlock(3, 8, nn.BlockConfig{}, backend),
		nn.NewBasicResBlock(8, 16, nn.BlockConfig{}, backend),
	)
	require.Equal(t, 2, model.Len())

	input := tensor.Randn[float32](tensor.Shape{1, 16, 16, 3}, backend)
	output := model.Forward(input, true)

	assert.True(t, output.Shape().Equal(tensor.Shape{1, 4, 4, 16}), "shape = %v", output.Shape())
	assert.Len(t, model.Parameters(), 24)
	assert.Greater(t, model.RegularizationLoss(), float32(0))
}

func TestSequentialThreadsTrainingFlag(t *testing.T) {
	backend := cpu.New()

	bn := nn.NewBatchNorm2D(4, 0.99, 1e-3, backend)
	model := nn.NewSequential[*cpu.CPUBackend](bn)

	input := tensor.Randn[float32](tensor.Shape{2, 4, 4, 4}, backend)
	model.Forward(input, false)

	// Inference mode must leave running stats at their init values.
	for c := 0; c < 4; c++ {
		assert.Zero(t, bn.RunningMean().At(0, 0, 0, c))
	}
}
