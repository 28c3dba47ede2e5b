package ops

import "github.com/asif31iqbal/pytorch-sentiment-analysis/internal/tensor"

// SigmoidOp represents the logistic activation σ(x) = 1 / (1 + exp(-x)).
type SigmoidOp struct {
	input  *tensor.Tensor
	output *tensor.Tensor
}

// NewSigmoidOp creates a new sigmoid operation.
func NewSigmoidOp(input, output *tensor.Tensor) *SigmoidOp {
	return &SigmoidOp{input: input, output: output}
}

// Inputs returns the input tensors.
func (op *SigmoidOp) Inputs() []*tensor.Tensor { return []*tensor.Tensor{op.input} }

// Output returns the output tensor.
func (op *SigmoidOp) Output() *tensor.Tensor { return op.output }

// Backward uses the cached forward output: dσ/dx = σ(x) * (1 - σ(x)).
func (op *SigmoidOp) Backward(outputGrad *tensor.Tensor, backend tensor.Backend) []*tensor.Tensor {
	ones := tensor.Full(op.output.Shape(), 1, op.output.Device())
	deriv := backend.Mul(op.output, backend.Sub(ones, op.output))
	return []*tensor.Tensor{backend.Mul(outputGrad, deriv)}
}

// TanhOp represents the hyperbolic tangent activation.
type TanhOp struct {
	input  *tensor.Tensor
	output *tensor.Tensor
}

// NewTanhOp creates a new tanh operation.
func NewTanhOp(input, output *tensor.Tensor) *TanhOp {
	return &TanhOp{input: input, output: output}
}

// Inputs returns the input tensors.
func (op *TanhOp) Inputs() []*tensor.Tensor { return []*tensor.Tensor{op.input} }

// Output returns the output tensor.
func (op *TanhOp) Output() *tensor.Tensor { return op.output }

// Backward uses the cached forward output: d(tanh x)/dx = 1 - tanh²(x).
func (op *TanhOp) Backward(outputGrad *tensor.Tensor, backend tensor.Backend) []*tensor.Tensor {
	ones := tensor.Full(op.output.Shape(), 1, op.output.Device())
	deriv := backend.Sub(ones, backend.Mul(op.output, op.output))
	return []*tensor.Tensor{backend.Mul(outputGrad, deriv)}
}
