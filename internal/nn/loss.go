package nn

import (
	"fmt"

	"github.com/asif31iqbal/pytorch-sentiment-analysis/internal/tensor"
)

// BCEWithLogitsLoss computes binary cross-entropy directly on raw logits,
// reduced by batch mean.
//
// Fusing the sigmoid into the loss uses the numerically stable form
// max(z, 0) - z*y + log(1 + exp(-|z|)), which never exponentiates a
// large positive value, so extreme logits produce finite losses.
type BCEWithLogitsLoss struct {
	backend tensor.Backend
}

// NewBCEWithLogitsLoss creates the loss over the given backend.
func NewBCEWithLogitsLoss(backend tensor.Backend) *BCEWithLogitsLoss {
	return &BCEWithLogitsLoss{backend: backend}
}

// Forward computes the mean loss between logits and 0/1 targets.
//
// Both tensors must hold the same number of float32 elements. Returns a
// [1] scalar tensor.
func (l *BCEWithLogitsLoss) Forward(logits, targets *tensor.Tensor) *tensor.Tensor {
	if logits.NumElements() != targets.NumElements() {
		panic(fmt.Sprintf("BCEWithLogitsLoss.Forward: logits have %d elements, targets have %d",
			logits.NumElements(), targets.NumElements()))
	}
	return l.backend.BCEWithLogits(logits, targets)
}
