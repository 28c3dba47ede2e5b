package ops

import "github.com/asif31iqbal/pytorch-sentiment-analysis/internal/tensor"

// MatMulOp represents matrix multiplication A @ B.
type MatMulOp struct {
	a, c   *tensor.Tensor
	output *tensor.Tensor
}

// NewMatMulOp creates a new matrix multiplication operation.
func NewMatMulOp(a, c, output *tensor.Tensor) *MatMulOp {
	return &MatMulOp{a: a, c: c, output: output}
}

// Inputs returns the input tensors.
func (op *MatMulOp) Inputs() []*tensor.Tensor { return []*tensor.Tensor{op.a, op.c} }

// Output returns the output tensor.
func (op *MatMulOp) Output() *tensor.Tensor { return op.output }

// Backward: d(A@B)/dA = grad @ B^T, d(A@B)/dB = A^T @ grad.
func (op *MatMulOp) Backward(outputGrad *tensor.Tensor, backend tensor.Backend) []*tensor.Tensor {
	gradA := backend.MatMul(outputGrad, backend.Transpose(op.c))
	gradC := backend.MatMul(backend.Transpose(op.a), outputGrad)
	return []*tensor.Tensor{gradA, gradC}
}

// TransposeOp represents a 2D transpose. Recording it matters: without it,
// gradients computed for a transposed weight view would never reach the
// parameter tensor itself.
type TransposeOp struct {
	input  *tensor.Tensor
	output *tensor.Tensor
}

// NewTransposeOp creates a new transpose operation.
func NewTransposeOp(input, output *tensor.Tensor) *TransposeOp {
	return &TransposeOp{input: input, output: output}
}

// Inputs returns the input tensors.
func (op *TransposeOp) Inputs() []*tensor.Tensor { return []*tensor.Tensor{op.input} }

// Output returns the output tensor.
func (op *TransposeOp) Output() *tensor.Tensor { return op.output }

// Backward transposes the gradient back to the input orientation.
func (op *TransposeOp) Backward(outputGrad *tensor.Tensor, backend tensor.Backend) []*tensor.Tensor {
	return []*tensor.Tensor{backend.Transpose(outputGrad)}
}
