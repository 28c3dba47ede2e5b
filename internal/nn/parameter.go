package nn

import (
	"github.com/asif31iqbal/pytorch-sentiment-analysis/internal/tensor"
)

// Parameter represents a trainable parameter in a neural network.
//
// Parameters are tensors that require gradient computation during training.
// They typically represent weights and biases of layers.
//
// Example:
//
//	weight := nn.NewParameter("weight", weightTensor)
//	w := weight.Tensor()
type Parameter struct {
	name   string         // Parameter name (e.g., "embedding.weight")
	tensor *tensor.Tensor // The parameter tensor
	grad   *tensor.Tensor // Gradient from the most recent backward pass
}

// NewParameter creates a new trainable parameter.
//
// The parameter tensor should be initialized before creating the Parameter.
// The gradient is nil until the optimizer records one.
func NewParameter(name string, t *tensor.Tensor) *Parameter {
	return &Parameter{
		name:   name,
		tensor: t,
	}
}

// Name returns the parameter name.
func (p *Parameter) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter) Tensor() *tensor.Tensor {
	return p.tensor
}

// Grad returns the gradient tensor.
//
// Returns nil if no gradient has been recorded yet.
func (p *Parameter) Grad() *tensor.Tensor {
	return p.grad
}

// SetGrad sets the gradient tensor.
//
// Typically called by the optimizer after a backward pass.
func (p *Parameter) SetGrad(grad *tensor.Tensor) {
	p.grad = grad
}

// ZeroGrad clears the gradient tensor.
//
// Called before each training iteration to drop the reference to the
// previous step's gradient.
func (p *Parameter) ZeroGrad() {
	p.grad = nil
}
