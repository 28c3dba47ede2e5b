package autodiff_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asif31iqbal/pytorch-sentiment-analysis/internal/autodiff"
	"github.com/asif31iqbal/pytorch-sentiment-analysis/internal/backend/cpu"
	"github.com/asif31iqbal/pytorch-sentiment-analysis/internal/tensor"
)

func ones(shape tensor.Shape) *tensor.Tensor {
	return tensor.Full(shape, 1, tensor.CPU)
}

func TestSquareGradient(t *testing.T) {
	b := autodiff.New(cpu.New())
	b.Tape().StartRecording()

	// y = x * x, dy/dx = 2x. Both Mul inputs are the same tensor, so the
	// gradient must accumulate across the two input slots.
	x, err := tensor.FromFloat32([]float32{2, -3}, tensor.Shape{2}, tensor.CPU)
	require.NoError(t, err)
	b.Mul(x, x)

	grads := b.Tape().Backward(ones(tensor.Shape{2}), b)
	require.Contains(t, grads, x)
	assert.InDeltaSlice(t, []float32{4, -6}, grads[x].AsFloat32(), 1e-6)
}

func TestMatMulGradient(t *testing.T) {
	b := autodiff.New(cpu.New())
	b.Tape().StartRecording()

	a, _ := tensor.FromFloat32([]float32{1, 2, 3, 4}, tensor.Shape{2, 2}, tensor.CPU)
	c, _ := tensor.FromFloat32([]float32{5, 6, 7, 8}, tensor.Shape{2, 2}, tensor.CPU)
	b.MatMul(a, c)

	grads := b.Tape().Backward(ones(tensor.Shape{2, 2}), b)

	// dL/dA = grad @ C^T with grad = ones: rows are [sum of C rows].
	assert.InDeltaSlice(t, []float32{11, 15, 11, 15}, grads[a].AsFloat32(), 1e-6)
	// dL/dB = A^T @ grad: rows are column sums of A.
	assert.InDeltaSlice(t, []float32{4, 4, 6, 6}, grads[c].AsFloat32(), 1e-6)
}

func TestBiasBroadcastGradientReduces(t *testing.T) {
	b := autodiff.New(cpu.New())
	b.Tape().StartRecording()

	x, _ := tensor.FromFloat32([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{3, 2}, tensor.CPU)
	bias, _ := tensor.FromFloat32([]float32{10, 20}, tensor.Shape{1, 2}, tensor.CPU)
	b.Add(x, bias)

	grads := b.Tape().Backward(ones(tensor.Shape{3, 2}), b)

	require.Contains(t, grads, bias)
	assert.True(t, grads[bias].Shape().Equal(tensor.Shape{1, 2}))
	assert.InDeltaSlice(t, []float32{3, 3}, grads[bias].AsFloat32(), 1e-6)
}

func TestSigmoidGradient(t *testing.T) {
	b := autodiff.New(cpu.New())
	b.Tape().StartRecording()

	x, _ := tensor.FromFloat32([]float32{0}, tensor.Shape{1}, tensor.CPU)
	b.Sigmoid(x)

	grads := b.Tape().Backward(ones(tensor.Shape{1}), b)
	// σ(0) = 0.5, σ'(0) = 0.25.
	assert.InDelta(t, 0.25, grads[x].AsFloat32()[0], 1e-6)
}

func TestTanhGradient(t *testing.T) {
	b := autodiff.New(cpu.New())
	b.Tape().StartRecording()

	x, _ := tensor.FromFloat32([]float32{0}, tensor.Shape{1}, tensor.CPU)
	b.Tanh(x)

	grads := b.Tape().Backward(ones(tensor.Shape{1}), b)
	// tanh'(0) = 1.
	assert.InDelta(t, 1.0, grads[x].AsFloat32()[0], 1e-6)
}

func TestCatGradientSplits(t *testing.T) {
	b := autodiff.New(cpu.New())
	b.Tape().StartRecording()

	left, _ := tensor.FromFloat32([]float32{1, 2}, tensor.Shape{2, 1}, tensor.CPU)
	right, _ := tensor.FromFloat32([]float32{3, 4, 5, 6}, tensor.Shape{2, 2}, tensor.CPU)
	b.Cat([]*tensor.Tensor{left, right}, 1)

	upstream, _ := tensor.FromFloat32([]float32{10, 20, 30, 40, 50, 60}, tensor.Shape{2, 3}, tensor.CPU)
	grads := b.Tape().Backward(upstream, b)

	assert.InDeltaSlice(t, []float32{10, 40}, grads[left].AsFloat32(), 1e-6)
	assert.InDeltaSlice(t, []float32{20, 30, 50, 60}, grads[right].AsFloat32(), 1e-6)
}

func TestEmbeddingGradientAccumulates(t *testing.T) {
	b := autodiff.New(cpu.New())
	b.Tape().StartRecording()

	weight, _ := tensor.FromFloat32([]float32{1, 1, 2, 2}, tensor.Shape{2, 2}, tensor.CPU)
	// Index 0 appears twice: its gradient rows must sum.
	indices, _ := tensor.FromInt32([]int32{0, 1, 0}, tensor.Shape{3}, tensor.CPU)
	b.Embedding(weight, indices)

	grads := b.Tape().Backward(ones(tensor.Shape{3, 2}), b)

	require.Contains(t, grads, weight)
	assert.InDeltaSlice(t, []float32{2, 2, 1, 1}, grads[weight].AsFloat32(), 1e-6)
}

func TestBCEWithLogitsGradient(t *testing.T) {
	b := autodiff.New(cpu.New())
	b.Tape().StartRecording()

	logits, _ := tensor.FromFloat32([]float32{0}, tensor.Shape{1}, tensor.CPU)
	targets, _ := tensor.FromFloat32([]float32{1}, tensor.Shape{1}, tensor.CPU)
	b.BCEWithLogits(logits, targets)

	grads := b.Tape().Backward(ones(tensor.Shape{1}), b)
	// dL/dz = σ(0) - 1 = -0.5.
	assert.InDelta(t, -0.5, grads[logits].AsFloat32()[0], 1e-6)
}

func TestTapeNotRecordingRecordsNothing(t *testing.T) {
	b := autodiff.New(cpu.New())

	x, _ := tensor.FromFloat32([]float32{1}, tensor.Shape{1}, tensor.CPU)
	b.Mul(x, x)

	assert.Equal(t, 0, b.Tape().Len())
	grads := b.Tape().Backward(ones(tensor.Shape{1}), b)
	assert.Empty(t, grads)
}

func TestClearPreservesRecordingState(t *testing.T) {
	b := autodiff.New(cpu.New())
	b.Tape().StartRecording()

	x, _ := tensor.FromFloat32([]float32{1}, tensor.Shape{1}, tensor.CPU)
	b.Mul(x, x)
	require.Equal(t, 1, b.Tape().Len())

	b.Tape().Clear()
	assert.Equal(t, 0, b.Tape().Len())
	assert.True(t, b.Tape().IsRecording())
}
