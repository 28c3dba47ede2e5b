package autodiff

import (
	"github.com/asif31iqbal/pytorch-sentiment-analysis/internal/autodiff/ops"
	"github.com/asif31iqbal/pytorch-sentiment-analysis/internal/tensor"
)

// GradientTape records operations during the forward pass and computes
// gradients by walking the recorded operations in reverse.
type GradientTape struct {
	operations []ops.Operation
	recording  bool
}

// NewGradientTape creates a new, non-recording tape.
func NewGradientTape() *GradientTape {
	return &GradientTape{
		operations: make([]ops.Operation, 0, 64),
	}
}

// StartRecording enables operation recording.
func (t *GradientTape) StartRecording() {
	t.recording = true
}

// StopRecording disables operation recording.
func (t *GradientTape) StopRecording() {
	t.recording = false
}

// IsRecording reports whether the tape is currently recording.
func (t *GradientTape) IsRecording() bool {
	return t.recording
}

// Record appends an operation if the tape is recording.
func (t *GradientTape) Record(op ops.Operation) {
	if t.recording {
		t.operations = append(t.operations, op)
	}
}

// Len returns the number of recorded operations.
func (t *GradientTape) Len() int {
	return len(t.operations)
}

// Clear removes all recorded operations. Recording state is preserved.
func (t *GradientTape) Clear() {
	t.operations = t.operations[:0]
}

// Backward computes gradients for every tensor the recorded operations
// depend on, starting from outputGrad (the gradient of the loss with
// respect to the last recorded operation's output, typically ones).
//
// Gradients for tensors used by several operations (recurrent weights
// applied at every timestep, the embedding table looked up per step)
// accumulate by addition.
func (t *GradientTape) Backward(outputGrad *tensor.Tensor, backend tensor.Backend) map[*tensor.Tensor]*tensor.Tensor {
	grads := make(map[*tensor.Tensor]*tensor.Tensor)
	if len(t.operations) == 0 {
		return grads
	}

	// Recording must be off while the ops' Backward methods run the
	// backend, otherwise the tape would record its own gradient math.
	wasRecording := t.recording
	t.recording = false
	defer func() {
		t.recording = wasRecording
	}()

	lastOp := t.operations[len(t.operations)-1]
	grads[lastOp.Output()] = outputGrad

	for i := len(t.operations) - 1; i >= 0; i-- {
		op := t.operations[i]
		outGrad, ok := grads[op.Output()]
		if !ok {
			continue
		}

		inputGrads := op.Backward(outGrad, backend)
		for j, input := range op.Inputs() {
			grad := inputGrads[j]
			if grad == nil {
				continue
			}
			if existing, ok := grads[input]; ok {
				grads[input] = backend.Add(existing, grad)
			} else {
				grads[input] = grad
			}
		}
	}

	return grads
}
