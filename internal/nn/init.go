package nn

import (
	"math"
	"math/rand"

	"github.com/asif31iqbal/pytorch-sentiment-analysis/internal/tensor"
)

// Xavier creates a tensor initialized with Xavier/Glorot uniform values.
//
// Values are drawn uniformly from [-limit, limit] where
// limit = sqrt(6 / (fanIn + fanOut)). This keeps activation variance
// roughly constant across layers at initialization.
//
// The rng is taken explicitly so that model construction is reproducible
// from a single seed.
func Xavier(fanIn, fanOut int, shape tensor.Shape, rng *rand.Rand, device tensor.Device) *tensor.Tensor {
	limit := float32(math.Sqrt(6.0 / float64(fanIn+fanOut)))

	t, err := tensor.New(shape, tensor.Float32, device)
	if err != nil {
		panic("nn.Xavier: " + err.Error())
	}
	data := t.AsFloat32()
	for i := range data {
		data[i] = (rng.Float32()*2 - 1) * limit
	}
	return t
}

// Normal creates a tensor initialized with values drawn from N(0, std²).
func Normal(shape tensor.Shape, std float32, rng *rand.Rand, device tensor.Device) *tensor.Tensor {
	t, err := tensor.New(shape, tensor.Float32, device)
	if err != nil {
		panic("nn.Normal: " + err.Error())
	}
	data := t.AsFloat32()
	for i := range data {
		data[i] = float32(rng.NormFloat64()) * std
	}
	return t
}

// Zeros creates a zero-initialized float32 tensor.
func Zeros(shape tensor.Shape, device tensor.Device) *tensor.Tensor {
	return tensor.Zeros(shape, device)
}
