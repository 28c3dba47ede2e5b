// Package autodiff implements reverse-mode automatic differentiation as a
// decorator around any tensor.Backend.
//
// The Backend type wraps an inner compute backend (CPU or WebGPU) and
// records every differentiable operation on a GradientTape during the
// forward pass. Calling Tape().Backward walks the tape in reverse and
// returns a gradient per participating tensor.
//
// Usage:
//
//	backend := autodiff.New(cpu.New())
//	backend.Tape().StartRecording()
//	loss := backend.BCEWithLogits(logits, targets)
//	grads := backend.Tape().Backward(tensor.Scalar(1, backend.Device()), backend)
package autodiff

import (
	"github.com/asif31iqbal/pytorch-sentiment-analysis/internal/autodiff/ops"
	"github.com/asif31iqbal/pytorch-sentiment-analysis/internal/tensor"
)

// Backend wraps a compute backend and adds gradient tracking.
type Backend struct {
	inner tensor.Backend
	tape  *GradientTape
}

// New creates an autodiff backend wrapping the given compute backend.
func New(inner tensor.Backend) *Backend {
	return &Backend{
		inner: inner,
		tape:  NewGradientTape(),
	}
}

// Tape returns the gradient tape for recording control and backward
// passes.
func (b *Backend) Tape() *GradientTape {
	return b.tape
}

// Inner returns the wrapped compute backend.
func (b *Backend) Inner() tensor.Backend {
	return b.inner
}

// Name returns the backend name.
func (b *Backend) Name() string {
	return "Autodiff(" + b.inner.Name() + ")"
}

// Device returns the compute device.
func (b *Backend) Device() tensor.Device {
	return b.inner.Device()
}

// Add performs element-wise addition and records the operation.
func (b *Backend) Add(a, c *tensor.Tensor) *tensor.Tensor {
	result := b.inner.Add(a, c)
	b.tape.Record(ops.NewAddOp(a, c, result))
	return result
}

// Sub performs element-wise subtraction and records the operation.
func (b *Backend) Sub(a, c *tensor.Tensor) *tensor.Tensor {
	result := b.inner.Sub(a, c)
	b.tape.Record(ops.NewSubOp(a, c, result))
	return result
}

// Mul performs element-wise multiplication and records the operation.
func (b *Backend) Mul(a, c *tensor.Tensor) *tensor.Tensor {
	result := b.inner.Mul(a, c)
	b.tape.Record(ops.NewMulOp(a, c, result))
	return result
}

// MatMul performs matrix multiplication and records the operation.
func (b *Backend) MatMul(a, c *tensor.Tensor) *tensor.Tensor {
	result := b.inner.MatMul(a, c)
	b.tape.Record(ops.NewMatMulOp(a, c, result))
	return result
}

// Transpose transposes a 2D tensor and records the operation, so that
// gradients of a transposed weight view flow back to the parameter.
func (b *Backend) Transpose(t *tensor.Tensor) *tensor.Tensor {
	result := b.inner.Transpose(t)
	b.tape.Record(ops.NewTransposeOp(t, result))
	return result
}

// Sigmoid applies the logistic function and records the operation.
func (b *Backend) Sigmoid(x *tensor.Tensor) *tensor.Tensor {
	result := b.inner.Sigmoid(x)
	b.tape.Record(ops.NewSigmoidOp(x, result))
	return result
}

// Tanh applies the hyperbolic tangent and records the operation.
func (b *Backend) Tanh(x *tensor.Tensor) *tensor.Tensor {
	result := b.inner.Tanh(x)
	b.tape.Record(ops.NewTanhOp(x, result))
	return result
}

// Cat concatenates tensors along a dimension and records the operation.
func (b *Backend) Cat(tensors []*tensor.Tensor, dim int) *tensor.Tensor {
	result := b.inner.Cat(tensors, dim)
	sizes := make([]int, len(tensors))
	for i, t := range tensors {
		sizes[i] = t.Shape()[dim]
	}
	b.tape.Record(ops.NewCatOp(tensors, dim, sizes, result))
	return result
}

// SumDim sums along a dimension. It is only used inside backward passes,
// so it is not recorded.
func (b *Backend) SumDim(x *tensor.Tensor, dim int, keepDim bool) *tensor.Tensor {
	return b.inner.SumDim(x, dim, keepDim)
}

// Embedding gathers weight rows by index and records the operation.
func (b *Backend) Embedding(weight, indices *tensor.Tensor) *tensor.Tensor {
	result := b.inner.Embedding(weight, indices)
	b.tape.Record(ops.NewEmbeddingOp(weight, indices, result))
	return result
}

// BCEWithLogits computes the fused stable loss and records the operation.
func (b *Backend) BCEWithLogits(logits, targets *tensor.Tensor) *tensor.Tensor {
	result := b.inner.BCEWithLogits(logits, targets)
	b.tape.Record(ops.NewBCEWithLogitsOp(logits, targets, result))
	return result
}
