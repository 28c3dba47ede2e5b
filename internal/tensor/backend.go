package tensor

// Backend defines the interface every compute implementation must satisfy.
// The CPU backend is the reference implementation; the WebGPU backend
// accelerates matrix multiplication and delegates the rest; the autodiff
// decorator wraps either one and records operations on a gradient tape.
//
// Binary element-wise operations accept operands of identical shape, or a
// second operand of shape [1, N] broadcast across the rows of a [B, N]
// first operand (the bias case). Anything else is a precondition
// violation and panics.
type Backend interface {
	// Element-wise binary operations.
	Add(a, b *Tensor) *Tensor
	Sub(a, b *Tensor) *Tensor
	Mul(a, b *Tensor) *Tensor

	// Matrix operations (2D, float32).
	MatMul(a, b *Tensor) *Tensor
	Transpose(t *Tensor) *Tensor

	// Activations (element-wise, float32).
	Sigmoid(x *Tensor) *Tensor
	Tanh(x *Tensor) *Tensor

	// Manipulation.
	Cat(tensors []*Tensor, dim int) *Tensor

	// Reductions.
	SumDim(x *Tensor, dim int, keepDim bool) *Tensor

	// Embedding looks up rows of weight ([V, E], float32) by indices
	// ([N], int32), producing [N, E]. Indices outside [0, V) panic.
	Embedding(weight, indices *Tensor) *Tensor

	// BCEWithLogits computes the numerically stable binary cross-entropy
	// between raw logits and 0/1 targets, reduced to a [1] scalar by
	// batch mean.
	BCEWithLogits(logits, targets *Tensor) *Tensor

	// Metadata.
	Name() string
	Device() Device
}
