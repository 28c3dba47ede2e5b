// Package optim implements optimization algorithms for training neural networks.
//
// This package provides:
//   - Optimizer interface: Base interface for all optimizers
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation
//
// Example usage:
//
//	optimizer := optim.NewAdam(model.Parameters(), optim.AdamConfig{
//	    LR: 0.001,
//	})
//
//	for batch := range batches {
//	    backend.Tape().Clear()
//	    loss := lossFn.Forward(model.Forward(batch.Inputs, nn.ModeTrain), batch.Labels)
//	    grads := backend.Tape().Backward(seed, backend.Inner())
//	    optimizer.Step(grads)
//	    optimizer.ZeroGrad()
//	}
package optim

import (
	"github.com/asif31iqbal/pytorch-sentiment-analysis/internal/nn"
	"github.com/asif31iqbal/pytorch-sentiment-analysis/internal/tensor"
)

// Optimizer is the base interface for all optimization algorithms.
//
// Optimizers update model parameters in place based on the gradient map
// produced by a backward pass.
type Optimizer interface {
	// Step applies gradient updates to all parameters.
	//
	// The map is keyed by parameter tensor pointer, as produced by
	// GradientTape.Backward. Parameters missing from the map (they did
	// not participate in the recorded computation) are skipped.
	Step(grads map[*tensor.Tensor]*tensor.Tensor)

	// ZeroGrad clears all parameter gradients.
	ZeroGrad()

	// GetLR returns the current learning rate.
	GetLR() float32
}

// Config is the base configuration shared by all optimizers.
type Config struct {
	LR float32 // Learning rate
}

// getGradient retrieves the gradient for a parameter from the gradient
// map, or nil if the parameter was not part of the recorded computation.
func getGradient(param *nn.Parameter, grads map[*tensor.Tensor]*tensor.Tensor) *tensor.Tensor {
	if param == nil {
		return nil
	}
	return grads[param.Tensor()]
}
