// Package ops defines the differentiable operations recorded on the
// gradient tape. Each operation captures its input and output tensors
// during the forward pass and computes input gradients during the
// backward pass.
package ops

import "github.com/asif31iqbal/pytorch-sentiment-analysis/internal/tensor"

// Operation is a single recorded step in the computation graph.
type Operation interface {
	// Backward computes gradients for the operation's inputs given the
	// gradient of the loss with respect to the output. The returned slice
	// is parallel to Inputs(); a nil entry means no gradient flows to
	// that input.
	Backward(outputGrad *tensor.Tensor, backend tensor.Backend) []*tensor.Tensor

	// Inputs returns the tensors that require gradient flow.
	Inputs() []*tensor.Tensor

	// Output returns the tensor produced by the forward pass.
	Output() *tensor.Tensor
}
