// Package nn provides neural network building blocks: layers, parameter
// containers, weight initialization, losses, and classification metrics.
//
// Layers operate on tensors through a tensor.Backend. When the backend is
// an autodiff decorator, every forward pass is recorded on its gradient
// tape, so Backward on the tape yields gradients for all parameters that
// participated in the computation.
package nn

import (
	"github.com/asif31iqbal/pytorch-sentiment-analysis/internal/tensor"
)

// Module is the common interface for layers that map one tensor to another.
//
// Forward takes an explicit Mode so that train-only behavior (dropout)
// is selected per call rather than via hidden module state.
type Module interface {
	// Forward computes the layer output for the given input.
	Forward(input *tensor.Tensor, mode Mode) *tensor.Tensor

	// Parameters returns the trainable parameters of this module.
	// Modules without parameters return nil.
	Parameters() []*Parameter
}
