package nn

import (
	"fmt"

	"github.com/orthonet-ml/orthonet/internal/tensor"
)

// BatchNorm2D applies batch normalization over the channel dimension of an
// NHWC tensor.
//
// Formula: Y = gamma * (X - mean) / sqrt(var + eps) + beta
//
// Statistics are computed per channel over the batch and both spatial
// dimensions. In training mode the layer uses the current batch statistics
// and folds them into the running estimates:
//
//	running = momentum*running + (1-momentum)*batch
//
// In inference mode it uses the running estimates. Gamma is initialized to
// ones, beta to zeros; the running mean starts at zero and the running
// variance at one.
type BatchNorm2D[B tensor.Backend] struct {
	Gamma    *Parameter[B] // learnable scale [channels]
	Beta     *Parameter[B] // learnable shift [channels]
	Momentum float32
	Epsilon  float32

	// Running statistics, kept broadcast-ready as [1, 1, 1, channels].
	// These are buffers, not parameters: the optimizer never touches them.
	runningMean *tensor.Tensor[float32, B]
	runningVar  *tensor.Tensor[float32, B]

	features int
	backend  B
}

// NewBatchNorm2D creates a new batch normalization layer for NHWC inputs
// with the given channel count. momentum is the running-statistics decay
// (typically 0.99) and epsilon the numerical stability constant (typically
// 1e-3).
func NewBatchNorm2D[B tensor.Backend](features int, momentum, epsilon float32, backend B) *BatchNorm2D[B] {
	if features <= 0 {
		panic(fmt.Sprintf("batchnorm2d: invalid feature count %d", features))
	}
	if momentum < 0 || momentum >= 1 {
		panic(fmt.Sprintf("batchnorm2d: momentum %f outside [0, 1)", momentum))
	}
	if epsilon <= 0 {
		panic(fmt.Sprintf("batchnorm2d: epsilon %f must be positive", epsilon))
	}

	statShape := tensor.Shape{1, 1, 1, features}

	return &BatchNorm2D[B]{
		Gamma:       NewParameter("batchnorm2d.gamma", Ones(tensor.Shape{features}, backend)),
		Beta:        NewParameter("batchnorm2d.beta", Zeros(tensor.Shape{features}, backend)),
		Momentum:    momentum,
		Epsilon:     epsilon,
		runningMean: tensor.Zeros[float32](statShape, backend),
		runningVar:  tensor.Ones[float32](statShape, backend),
		features:    features,
		backend:     backend,
	}
}

// Forward normalizes the input.
//
// Input and output: [batch, height, width, channels].
//
// When the training flag is absent the layer defaults to training mode
// (batch statistics plus a running-statistics update).
func (b *BatchNorm2D[B]) Forward(x *tensor.Tensor[float32, B], training ...bool) *tensor.Tensor[float32, B] {
	train := true
	if len(training) > 0 {
		train = training[0]
	}

	shape := x.Shape()
	if len(shape) != 4 {
		panic(fmt.Sprintf("batchnorm2d: expected 4D input [N,H,W,C], got %dD", len(shape)))
	}
	if shape[3] != b.features {
		panic(fmt.Sprintf("batchnorm2d: input channels %d != expected %d", shape[3], b.features))
	}

	var mean, variance *tensor.Tensor[float32, B]
	if train {
		// Per-channel statistics over batch and spatial dims: [1,1,1,C].
		mean = x.MeanDim(0, true).MeanDim(1, true).MeanDim(2, true)
		centered := x.Sub(mean)
		variance = centered.Mul(centered).MeanDim(0, true).MeanDim(1, true).MeanDim(2, true)

		b.runningMean = b.runningMean.MulScalar(b.Momentum).Add(mean.MulScalar(1 - b.Momentum))
		b.runningVar = b.runningVar.MulScalar(b.Momentum).Add(variance.MulScalar(1 - b.Momentum))
	} else {
		mean = b.runningMean
		variance = b.runningVar
	}

	inv := variance.AddScalar(b.Epsilon).Rsqrt()
	normalized := x.Sub(mean).Mul(inv)

	gamma := b.Gamma.Tensor().Reshape(1, 1, 1, b.features)
	beta := b.Beta.Tensor().Reshape(1, 1, 1, b.features)

	return normalized.Mul(gamma).Add(beta)
}

// Parameters returns the learnable parameters (gamma and beta). The running
// statistics are buffers and are excluded.
func (b *BatchNorm2D[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{b.Gamma, b.Beta}
}

// RunningMean returns the running mean buffer, shaped [1, 1, 1, channels].
func (b *BatchNorm2D[B]) RunningMean() *tensor.Tensor[float32, B] {
	return b.runningMean
}

// RunningVar returns the running variance buffer, shaped [1, 1, 1, channels].
func (b *BatchNorm2D[B]) RunningVar() *tensor.Tensor[float32, B] {
	return b.runningVar
}

// Features returns the channel count this layer normalizes.
func (b *BatchNorm2D[B]) Features() int {
	return b.features
}
