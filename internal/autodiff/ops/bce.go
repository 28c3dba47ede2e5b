package ops

import (
	"math"

	"github.com/asif31iqbal/pytorch-sentiment-analysis/internal/tensor"
)

// BCEWithLogitsOp represents the fused sigmoid + binary cross-entropy
// loss with batch-mean reduction. Fusing the two keeps the backward pass
// a single stable expression instead of chaining log and sigmoid
// gradients.
type BCEWithLogitsOp struct {
	logits  *tensor.Tensor
	targets *tensor.Tensor
	output  *tensor.Tensor
}

// NewBCEWithLogitsOp creates a new fused loss operation.
func NewBCEWithLogitsOp(logits, targets, output *tensor.Tensor) *BCEWithLogitsOp {
	return &BCEWithLogitsOp{logits: logits, targets: targets, output: output}
}

// Inputs returns the logits; targets carry no gradient.
func (op *BCEWithLogitsOp) Inputs() []*tensor.Tensor { return []*tensor.Tensor{op.logits} }

// Output returns the scalar loss tensor.
func (op *BCEWithLogitsOp) Output() *tensor.Tensor { return op.output }

// Backward: dL/dz_i = (σ(z_i) - y_i) / N, scaled by the upstream scalar
// gradient.
func (op *BCEWithLogitsOp) Backward(outputGrad *tensor.Tensor, _ tensor.Backend) []*tensor.Tensor {
	scale := outputGrad.AsFloat32()[0] / float32(op.logits.NumElements())

	grad := tensor.Zeros(op.logits.Shape(), op.logits.Device())
	gd := grad.AsFloat32()
	zd := op.logits.AsFloat32()
	yd := op.targets.AsFloat32()
	for i := range zd {
		sig := float32(1.0 / (1.0 + math.Exp(-float64(zd[i]))))
		gd[i] = scale * (sig - yd[i])
	}
	return []*tensor.Tensor{grad}
}
