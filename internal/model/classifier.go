// Package model assembles the sentiment classifier: embedding lookup,
// stacked bidirectional LSTM encoder, dropout, and a linear head that
// emits one raw logit per example.
package model

import (
	"fmt"
	"math/rand"

	"github.com/asif31iqbal/pytorch-sentiment-analysis/internal/nn"
	"github.com/asif31iqbal/pytorch-sentiment-analysis/internal/tensor"
)

// Config holds the classifier hyperparameters.
type Config struct {
	VocabSize     int     // embedding rows, including special tokens
	EmbedDim      int     // embedding width
	HiddenDim     int     // LSTM hidden width per direction
	NumLayers     int     // stacked LSTM layers
	Bidirectional bool    // run a backward direction per layer
	Dropout       float32 // drop probability; 0 disables dropout
}

// Classifier predicts binary sentiment from token-index sequences.
//
// Forward consumes a time-major [T, B] int32 index grid and produces
// [B, 1] raw logits. Callers apply sigmoid themselves; training uses the
// fused BCE-with-logits loss instead.
type Classifier struct {
	config    Config
	embedding *nn.Embedding
	encoder   *nn.LSTM
	dropout   *nn.Dropout // nil when config.Dropout == 0
	head      *nn.Linear
	backend   tensor.Backend
}

// New creates a classifier with weights initialized from rng.
func New(config Config, rng *rand.Rand, backend tensor.Backend) *Classifier {
	if config.VocabSize < 2 {
		panic(fmt.Sprintf("model.New: vocab size must include the special tokens, got %d", config.VocabSize))
	}

	c := &Classifier{
		config:    config,
		embedding: nn.NewEmbedding(config.VocabSize, config.EmbedDim, rng, backend),
		encoder: nn.NewLSTM(config.EmbedDim, config.HiddenDim, config.NumLayers,
			config.Bidirectional, config.Dropout, rng, backend),
		head:    nil,
		backend: backend,
	}
	if config.Dropout > 0 {
		c.dropout = nn.NewDropout(config.Dropout, rng, backend)
	}
	c.head = nn.NewLinear(c.encoder.OutputDim(), 1, rng, backend)
	return c
}

// Forward computes raw logits for a batch of index sequences.
//
// indices: [T, B] int32, time-major. Each timestep row is embedded
// separately, so repeated tokens share (and during training accumulate
// gradient into) the same embedding row. Dropout applies to the embedded
// inputs, between stacked LSTM layers, and to the final hidden state,
// and only in ModeTrain.
//
// Returns [B, 1] float32 logits.
func (c *Classifier) Forward(indices *tensor.Tensor, mode nn.Mode) *tensor.Tensor {
	shape := indices.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("Classifier.Forward: expected [T, B] indices, got shape %v", shape))
	}
	T, B := shape[0], shape[1]
	if T == 0 {
		panic("Classifier.Forward: empty sequence")
	}

	flat := indices.AsInt32()
	embedded := make([]*tensor.Tensor, T)
	for t := 0; t < T; t++ {
		row, err := tensor.FromInt32(flat[t*B:(t+1)*B], tensor.Shape{B}, indices.Device())
		if err != nil {
			panic("Classifier.Forward: " + err.Error())
		}
		x := c.embedding.Lookup(row) // [B, E]
		if c.dropout != nil {
			x = c.dropout.Forward(x, mode)
		}
		embedded[t] = x
	}

	_, final := c.encoder.Encode(embedded, mode) // [B, dirs*H]
	if c.dropout != nil {
		final = c.dropout.Forward(final, mode)
	}
	return c.head.Forward(final, mode) // [B, 1]
}

// Parameters returns all trainable parameters: embedding weight, every
// LSTM gate weight and bias, and the head weight and bias.
func (c *Classifier) Parameters() []*nn.Parameter {
	var params []*nn.Parameter
	params = append(params, c.embedding.Parameters()...)
	params = append(params, c.encoder.Parameters()...)
	params = append(params, c.head.Parameters()...)
	return params
}

// Config returns the hyperparameters the classifier was built with.
func (c *Classifier) Config() Config {
	return c.config
}
