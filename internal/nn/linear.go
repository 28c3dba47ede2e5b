package nn

import (
	"fmt"
	"math/rand"

	"github.com/asif31iqbal/pytorch-sentiment-analysis/internal/tensor"
)

// Linear implements a fully connected (dense) layer.
//
// Performs the transformation: y = x @ W.T + b
// where:
//   - x is the input tensor with shape [batch_size, in_features]
//   - W is the weight matrix with shape [out_features, in_features]
//   - b is the bias vector with shape [1, out_features]
//   - y is the output tensor with shape [batch_size, out_features]
//
// Weights are initialized using Xavier/Glorot initialization.
// Biases are initialized to zeros.
//
// The bias is stored as [1, out_features] so the broadcast add in the
// forward pass works directly on the parameter tensor, and the gradient
// tape keys the bias gradient by that same tensor.
type Linear struct {
	inFeatures  int
	outFeatures int
	weight      *Parameter // [out_features, in_features]
	bias        *Parameter // [1, out_features]
	backend     tensor.Backend
}

// NewLinear creates a new Linear layer.
//
// Weights are initialized using Xavier/Glorot uniform distribution drawn
// from rng. Biases are initialized to zeros.
func NewLinear(inFeatures, outFeatures int, rng *rand.Rand, backend tensor.Backend) *Linear {
	weightShape := tensor.Shape{outFeatures, inFeatures}
	weight := NewParameter("weight", Xavier(inFeatures, outFeatures, weightShape, rng, backend.Device()))

	biasShape := tensor.Shape{1, outFeatures}
	bias := NewParameter("bias", Zeros(biasShape, backend.Device()))

	return &Linear{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      weight,
		bias:        bias,
		backend:     backend,
	}
}

// Forward computes y = x @ W.T + b.
//
// Input shape: [batch_size, in_features]
// Output shape: [batch_size, out_features]
//
// Panics if the input is not 2D or its feature dimension does not match.
func (l *Linear) Forward(input *tensor.Tensor, _ Mode) *tensor.Tensor {
	shape := input.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("Linear.Forward: expected 2D input [batch, features], got shape %v", shape))
	}
	if shape[1] != l.inFeatures {
		panic(fmt.Sprintf("Linear.Forward: expected input with %d features, got %d", l.inFeatures, shape[1]))
	}

	wT := l.backend.Transpose(l.weight.Tensor()) // [in_features, out_features]
	out := l.backend.MatMul(input, wT)           // [batch, out_features]
	return l.backend.Add(out, l.bias.Tensor())
}

// Parameters returns the weight and bias parameters.
func (l *Linear) Parameters() []*Parameter {
	return []*Parameter{l.weight, l.bias}
}

// Weight returns the weight parameter.
func (l *Linear) Weight() *Parameter {
	return l.weight
}

// Bias returns the bias parameter.
func (l *Linear) Bias() *Parameter {
	return l.bias
}
