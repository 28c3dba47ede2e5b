package nn

import (
	"fmt"
	"math/rand"

	"github.com/asif31iqbal/pytorch-sentiment-analysis/internal/tensor"
)

// Dropout zeroes each element of its input with probability p during
// training and scales the survivors by 1/(1-p), so the expected
// activation is unchanged (inverted dropout). In ModeEval it is the
// identity.
//
// The mask is applied through the backend's Mul, so when the backend
// records to a gradient tape the backward pass routes gradients only
// through the surviving elements.
type Dropout struct {
	p       float32
	rng     *rand.Rand
	backend tensor.Backend
}

// NewDropout creates a dropout layer with drop probability p in [0, 1).
func NewDropout(p float32, rng *rand.Rand, backend tensor.Backend) *Dropout {
	if p < 0 || p >= 1 {
		panic(fmt.Sprintf("NewDropout: probability must be in [0, 1), got %v", p))
	}
	return &Dropout{p: p, rng: rng, backend: backend}
}

// Forward applies the dropout mask in ModeTrain; in ModeEval (or with
// p == 0) it returns the input unchanged.
func (d *Dropout) Forward(input *tensor.Tensor, mode Mode) *tensor.Tensor {
	if mode == ModeEval || d.p == 0 {
		return input
	}

	mask := tensor.Zeros(input.Shape().Clone(), d.backend.Device())
	data := mask.AsFloat32()
	keep := 1 / (1 - d.p)
	for i := range data {
		if d.rng.Float32() >= d.p {
			data[i] = keep
		}
	}
	return d.backend.Mul(input, mask)
}

// Parameters returns nil; dropout has no trainable parameters.
func (d *Dropout) Parameters() []*Parameter {
	return nil
}
