package ops

import "github.com/asif31iqbal/pytorch-sentiment-analysis/internal/tensor"

// CatOp represents concatenation of 2D tensors along dim 0 or 1.
//
// Backward splits the output gradient at the input boundaries and hands
// each input its own slice.
type CatOp struct {
	inputs []*tensor.Tensor
	dim    int
	sizes  []int
	output *tensor.Tensor
}

// NewCatOp creates a new concatenation operation. sizes holds each
// input's extent along the concatenation dimension.
func NewCatOp(inputs []*tensor.Tensor, dim int, sizes []int, output *tensor.Tensor) *CatOp {
	return &CatOp{inputs: inputs, dim: dim, sizes: sizes, output: output}
}

// Inputs returns the input tensors.
func (op *CatOp) Inputs() []*tensor.Tensor { return op.inputs }

// Output returns the output tensor.
func (op *CatOp) Output() *tensor.Tensor { return op.output }

// Backward slices the output gradient back into per-input gradients.
func (op *CatOp) Backward(outputGrad *tensor.Tensor, _ tensor.Backend) []*tensor.Tensor {
	grads := make([]*tensor.Tensor, len(op.inputs))
	gradShape := outputGrad.Shape()
	gd := outputGrad.AsFloat32()

	offset := 0
	for i, size := range op.sizes {
		inShape := gradShape.Clone()
		inShape[op.dim] = size
		grad := tensor.Zeros(inShape, outputGrad.Device())
		dst := grad.AsFloat32()

		if op.dim == 0 {
			rowLen := gradShape[1]
			copy(dst, gd[offset*rowLen:(offset+size)*rowLen])
		} else {
			rows, outCols := gradShape[0], gradShape[1]
			for r := 0; r < rows; r++ {
				copy(dst[r*size:(r+1)*size], gd[r*outCols+offset:r*outCols+offset+size])
			}
		}

		grads[i] = grad
		offset += size
	}
	return grads
}
