package nn

import (
	"fmt"
	"math/rand"

	"github.com/asif31iqbal/pytorch-sentiment-analysis/internal/tensor"
)

// Embedding implements a learned lookup table mapping token indices to
// dense vectors.
//
// The weight matrix has shape [num_embeddings, embedding_dim]; row i is
// the vector for token index i. Weights are initialized from N(0, 1).
//
// Lookup rows for repeated indices share the same weight row, so their
// gradients accumulate into that row during the backward pass.
type Embedding struct {
	numEmbeddings int
	embeddingDim  int
	weight        *Parameter // [num_embeddings, embedding_dim]
	backend       tensor.Backend
}

// NewEmbedding creates an embedding table with numEmbeddings rows of
// embeddingDim values, initialized from N(0, 1) drawn from rng.
func NewEmbedding(numEmbeddings, embeddingDim int, rng *rand.Rand, backend tensor.Backend) *Embedding {
	shape := tensor.Shape{numEmbeddings, embeddingDim}
	weight := NewParameter("weight", Normal(shape, 1.0, rng, backend.Device()))

	return &Embedding{
		numEmbeddings: numEmbeddings,
		embeddingDim:  embeddingDim,
		weight:        weight,
		backend:       backend,
	}
}

// Lookup gathers the embedding vectors for a 1D int32 index tensor.
//
// Input shape: [n] (int32)
// Output shape: [n, embedding_dim] (float32)
//
// Panics if any index falls outside [0, num_embeddings).
func (e *Embedding) Lookup(indices *tensor.Tensor) *tensor.Tensor {
	if indices.DType() != tensor.Int32 {
		panic(fmt.Sprintf("Embedding.Lookup: expected int32 indices, got %s", indices.DType()))
	}
	return e.backend.Embedding(e.weight.Tensor(), indices)
}

// Forward is Lookup with the Module signature; the mode is ignored.
func (e *Embedding) Forward(indices *tensor.Tensor, _ Mode) *tensor.Tensor {
	return e.Lookup(indices)
}

// Parameters returns the embedding weight.
func (e *Embedding) Parameters() []*Parameter {
	return []*Parameter{e.weight}
}

// Weight returns the weight parameter.
func (e *Embedding) Weight() *Parameter {
	return e.weight
}
