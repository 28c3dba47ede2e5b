package ops

import "github.com/asif31iqbal/pytorch-sentiment-analysis/internal/tensor"

// rowBroadcast reports whether c was broadcast from [1, N] across the
// rows of a [B, N] operand during the forward pass.
func rowBroadcast(a, c *tensor.Tensor) bool {
	as, cs := a.Shape(), c.Shape()
	return !as.Equal(cs) && len(cs) == 2 && cs[0] == 1
}

// reduceForBroadcast collapses a gradient back to a [1, N] operand shape
// by summing over the broadcast rows.
func reduceForBroadcast(grad *tensor.Tensor, backend tensor.Backend) *tensor.Tensor {
	return backend.SumDim(grad, 0, true)
}

// AddOp represents element-wise addition, including the bias case where
// the second operand is row-broadcast.
type AddOp struct {
	a, c   *tensor.Tensor
	output *tensor.Tensor
}

// NewAddOp creates a new addition operation.
func NewAddOp(a, c, output *tensor.Tensor) *AddOp {
	return &AddOp{a: a, c: c, output: output}
}

// Inputs returns the input tensors.
func (op *AddOp) Inputs() []*tensor.Tensor { return []*tensor.Tensor{op.a, op.c} }

// Output returns the output tensor.
func (op *AddOp) Output() *tensor.Tensor { return op.output }

// Backward passes the output gradient through to both inputs, summing
// over broadcast rows for the second operand when needed.
func (op *AddOp) Backward(outputGrad *tensor.Tensor, backend tensor.Backend) []*tensor.Tensor {
	gradC := outputGrad
	if rowBroadcast(op.a, op.c) {
		gradC = reduceForBroadcast(outputGrad, backend)
	}
	return []*tensor.Tensor{outputGrad, gradC}
}

// SubOp represents element-wise subtraction a - c.
type SubOp struct {
	a, c   *tensor.Tensor
	output *tensor.Tensor
}

// NewSubOp creates a new subtraction operation.
func NewSubOp(a, c, output *tensor.Tensor) *SubOp {
	return &SubOp{a: a, c: c, output: output}
}

// Inputs returns the input tensors.
func (op *SubOp) Inputs() []*tensor.Tensor { return []*tensor.Tensor{op.a, op.c} }

// Output returns the output tensor.
func (op *SubOp) Output() *tensor.Tensor { return op.output }

// Backward: d(a-c)/da = 1, d(a-c)/dc = -1.
func (op *SubOp) Backward(outputGrad *tensor.Tensor, backend tensor.Backend) []*tensor.Tensor {
	zeros := tensor.Zeros(outputGrad.Shape(), outputGrad.Device())
	gradC := backend.Sub(zeros, outputGrad)
	if rowBroadcast(op.a, op.c) {
		gradC = reduceForBroadcast(gradC, backend)
	}
	return []*tensor.Tensor{outputGrad, gradC}
}

// MulOp represents element-wise multiplication.
type MulOp struct {
	a, c   *tensor.Tensor
	output *tensor.Tensor
}

// NewMulOp creates a new multiplication operation.
func NewMulOp(a, c, output *tensor.Tensor) *MulOp {
	return &MulOp{a: a, c: c, output: output}
}

// Inputs returns the input tensors.
func (op *MulOp) Inputs() []*tensor.Tensor { return []*tensor.Tensor{op.a, op.c} }

// Output returns the output tensor.
func (op *MulOp) Output() *tensor.Tensor { return op.output }

// Backward: d(a*c)/da = c, d(a*c)/dc = a.
func (op *MulOp) Backward(outputGrad *tensor.Tensor, backend tensor.Backend) []*tensor.Tensor {
	gradA := backend.Mul(outputGrad, op.c)
	gradC := backend.Mul(outputGrad, op.a)
	if rowBroadcast(op.a, op.c) {
		gradC = reduceForBroadcast(gradC, backend)
	}
	return []*tensor.Tensor{gradA, gradC}
}
