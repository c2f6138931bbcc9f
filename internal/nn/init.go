package nn

import (
	"math"
	"math/rand"

	"github.com/orthonet-ml/orthonet/internal/tensor"
)

// Xavier (Glorot) uniform initialization for weights.
//
// Draws from U(-sqrt(6/(fan_in+fan_out)), sqrt(6/(fan_in+fan_out))), which
// keeps activation variance roughly constant across layers. For an HWIO
// convolution kernel, fan_in = c_in*k_h*k_w and fan_out = c_out*k_h*k_w.
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))

	t, err := tensor.NewRaw(shape, tensor.Float32, backend.Device())
	if err != nil {
		panic(err)
	}

	data := t.AsFloat32()
	for i := range data {
		//nolint:gosec // math/rand is fine for weight initialization
		data[i] = float32((rand.Float64()*2.0 - 1.0) * bound)
	}

	return tensor.New[float32, B](t, backend)
}

// Zeros creates a zero-filled tensor, commonly used for bias initialization.
func Zeros[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return tensor.Zeros[float32](shape, backend)
}

// Ones creates a one-filled tensor, used for normalization scale parameters.
func Ones[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return tensor.Ones[float32](shape, backend)
}
