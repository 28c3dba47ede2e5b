package model

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asif31iqbal/pytorch-sentiment-analysis/internal/autodiff"
	"github.com/asif31iqbal/pytorch-sentiment-analysis/internal/backend/cpu"
	"github.com/asif31iqbal/pytorch-sentiment-analysis/internal/nn"
	"github.com/asif31iqbal/pytorch-sentiment-analysis/internal/tensor"
)

func testConfig() Config {
	return Config{
		VocabSize:     20,
		EmbedDim:      8,
		HiddenDim:     6,
		NumLayers:     2,
		Bidirectional: true,
		Dropout:       0.5,
	}
}

func makeIndices(t *testing.T, values []int32, seqLen, batch int) *tensor.Tensor {
	t.Helper()
	idx, err := tensor.FromInt32(values, tensor.Shape{seqLen, batch}, tensor.CPU)
	require.NoError(t, err)
	return idx
}

func TestClassifierForwardShape(t *testing.T) {
	backend := cpu.New()
	rng := rand.New(rand.NewSource(42))
	clf := New(testConfig(), rng, backend)

	indices := makeIndices(t, []int32{2, 3, 4, 5, 6, 7}, 3, 2)
	logits := clf.Forward(indices, nn.ModeEval)

	assert.Equal(t, tensor.Shape{2, 1}, logits.Shape())
}

func TestClassifierEvalDeterministic(t *testing.T) {
	backend := cpu.New()
	rng := rand.New(rand.NewSource(42))
	clf := New(testConfig(), rng, backend)

	indices := makeIndices(t, []int32{2, 3, 4, 5}, 2, 2)

	a := clf.Forward(indices, nn.ModeEval).AsFloat32()
	b := clf.Forward(indices, nn.ModeEval).AsFloat32()
	assert.Equal(t, a, b)
}

func TestClassifierAllPaddingFinite(t *testing.T) {
	backend := cpu.New()
	rng := rand.New(rand.NewSource(7))
	clf := New(testConfig(), rng, backend)

	indices := makeIndices(t, []int32{1, 1, 1, 1}, 2, 2)
	logits := clf.Forward(indices, nn.ModeEval)

	for _, v := range logits.AsFloat32() {
		assert.False(t, math.IsNaN(float64(v)) || math.IsInf(float64(v), 0))
	}
}

func TestClassifierOutOfRangeIndexPanics(t *testing.T) {
	backend := cpu.New()
	rng := rand.New(rand.NewSource(7))
	clf := New(testConfig(), rng, backend)

	indices := makeIndices(t, []int32{99}, 1, 1)
	assert.Panics(t, func() { clf.Forward(indices, nn.ModeEval) })
}

func TestClassifierParameterCount(t *testing.T) {
	backend := cpu.New()
	rng := rand.New(rand.NewSource(1))
	clf := New(testConfig(), rng, backend)

	// embedding (1) + 2 layers * 2 directions * 12 gate params (48)
	// + head weight and bias (2).
	assert.Len(t, clf.Parameters(), 51)
}

func TestClassifierGradientsReachAllParameters(t *testing.T) {
	inner := cpu.New()
	backend := autodiff.New(inner)
	rng := rand.New(rand.NewSource(3))

	config := testConfig()
	config.Dropout = 0 // keep every path active
	clf := New(config, rng, backend)

	indices := makeIndices(t, []int32{2, 3, 4, 5}, 2, 2)
	targets, err := tensor.FromFloat32([]float32{1, 0}, tensor.Shape{2, 1}, tensor.CPU)
	require.NoError(t, err)

	backend.Tape().StartRecording()
	logits := clf.Forward(indices, nn.ModeTrain)
	loss := nn.NewBCEWithLogitsLoss(backend).Forward(logits, targets)
	backend.Tape().StopRecording()

	require.Equal(t, tensor.Shape{1}, loss.Shape())

	seed := tensor.Scalar(1, tensor.CPU)
	grads := backend.Tape().Backward(seed, inner)

	for _, p := range clf.Parameters() {
		grad, ok := grads[p.Tensor()]
		require.True(t, ok, "no gradient for %s", p.Name())
		assert.True(t, p.Tensor().Shape().Equal(grad.Shape()), "gradient shape mismatch for %s", p.Name())
	}
}
