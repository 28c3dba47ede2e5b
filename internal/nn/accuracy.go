package nn

import (
	"fmt"
	"math"

	"github.com/asif31iqbal/pytorch-sentiment-analysis/internal/tensor"
)

// BinaryAccuracy computes the fraction of examples whose predicted class
// matches the label.
//
// Logits are squashed through a sigmoid and rounded half away from zero,
// so a probability of exactly 0.5 (logit 0) predicts class 1. Labels are
// expected to be exactly 0.0 or 1.0.
//
// This is a pure metric: it reads the tensors directly and records
// nothing on any gradient tape.
func BinaryAccuracy(logits, labels *tensor.Tensor) float32 {
	n := logits.NumElements()
	if n != labels.NumElements() {
		panic(fmt.Sprintf("BinaryAccuracy: logits have %d elements, labels have %d", n, labels.NumElements()))
	}
	if n == 0 {
		panic("BinaryAccuracy: empty batch")
	}

	z := logits.AsFloat32()
	y := labels.AsFloat32()

	correct := 0
	for i := 0; i < n; i++ {
		p := 1 / (1 + math.Exp(-float64(z[i])))
		if float32(math.Round(p)) == y[i] {
			correct++
		}
	}
	return float32(correct) / float32(n)
}
