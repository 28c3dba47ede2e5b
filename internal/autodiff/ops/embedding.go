package ops

import (
	"fmt"

	"github.com/asif31iqbal/pytorch-sentiment-analysis/internal/tensor"
)

// EmbeddingOp represents an embedding lookup: output[i] = weight[indices[i]].
//
// Backward scatter-adds each output-row gradient into the weight row it
// was read from. Rows looked up several times (the pad index in a padded
// batch, repeated tokens, repeated timesteps) accumulate all of their
// gradients.
type EmbeddingOp struct {
	weight  *tensor.Tensor
	indices *tensor.Tensor
	output  *tensor.Tensor
}

// NewEmbeddingOp creates a new embedding lookup operation.
func NewEmbeddingOp(weight, indices, output *tensor.Tensor) *EmbeddingOp {
	return &EmbeddingOp{weight: weight, indices: indices, output: output}
}

// Inputs returns the weight tensor; integer indices carry no gradient.
func (op *EmbeddingOp) Inputs() []*tensor.Tensor { return []*tensor.Tensor{op.weight} }

// Output returns the output tensor.
func (op *EmbeddingOp) Output() *tensor.Tensor { return op.output }

// Backward scatter-adds output gradients into a zero-initialized weight
// gradient.
func (op *EmbeddingOp) Backward(outputGrad *tensor.Tensor, _ tensor.Backend) []*tensor.Tensor {
	weightShape := op.weight.Shape()
	numEmbed, embedDim := weightShape[0], weightShape[1]

	gradWeight := tensor.Zeros(weightShape, outputGrad.Device())
	gw := gradWeight.AsFloat32()
	gd := outputGrad.AsFloat32()

	for i, ix := range op.indices.AsInt32() {
		if ix < 0 || int(ix) >= numEmbed {
			panic(fmt.Sprintf("embedding backward: index %d out of range [0, %d)", ix, numEmbed))
		}
		src := gd[i*embedDim : (i+1)*embedDim]
		dst := gw[int(ix)*embedDim : (int(ix)+1)*embedDim]
		for j := range src {
			dst[j] += src[j]
		}
	}
	return []*tensor.Tensor{gradWeight}
}
