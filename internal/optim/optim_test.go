package optim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asif31iqbal/pytorch-sentiment-analysis/internal/nn"
	"github.com/asif31iqbal/pytorch-sentiment-analysis/internal/tensor"
)

func newTestParam(t *testing.T, values []float32) *nn.Parameter {
	t.Helper()
	w, err := tensor.FromFloat32(values, tensor.Shape{len(values)}, tensor.CPU)
	require.NoError(t, err)
	return nn.NewParameter("w", w)
}

func gradsFor(param *nn.Parameter, values []float32) map[*tensor.Tensor]*tensor.Tensor {
	g, err := tensor.FromFloat32(values, tensor.Shape{len(values)}, tensor.CPU)
	if err != nil {
		panic(err)
	}
	return map[*tensor.Tensor]*tensor.Tensor{param.Tensor(): g}
}

func TestSGDStep(t *testing.T) {
	param := newTestParam(t, []float32{1, 2, 3})
	sgd := NewSGD([]*nn.Parameter{param}, SGDConfig{LR: 0.1})

	sgd.Step(gradsFor(param, []float32{1, 1, 1}))

	assert.InDeltaSlice(t, []float32{0.9, 1.9, 2.9}, param.Tensor().AsFloat32(), 1e-6)
	assert.Equal(t, float32(0.1), sgd.GetLR())
}

func TestSGDMomentumAccumulates(t *testing.T) {
	param := newTestParam(t, []float32{0})
	sgd := NewSGD([]*nn.Parameter{param}, SGDConfig{LR: 1, Momentum: 0.9})

	// Step 1: velocity = 1, param = -1.
	sgd.Step(gradsFor(param, []float32{1}))
	assert.InDelta(t, -1.0, float64(param.Tensor().AsFloat32()[0]), 1e-6)

	// Step 2: velocity = 0.9 + 1 = 1.9, param = -2.9.
	sgd.Step(gradsFor(param, []float32{1}))
	assert.InDelta(t, -2.9, float64(param.Tensor().AsFloat32()[0]), 1e-6)
}

func TestSGDSkipsMissingGradient(t *testing.T) {
	param := newTestParam(t, []float32{5})
	other := newTestParam(t, []float32{7})
	sgd := NewSGD([]*nn.Parameter{param}, SGDConfig{LR: 0.5})

	sgd.Step(gradsFor(other, []float32{1}))

	assert.Equal(t, float32(5), param.Tensor().AsFloat32()[0])
	assert.Nil(t, param.Grad())
}

func TestSGDDefaults(t *testing.T) {
	sgd := NewSGD(nil, SGDConfig{})
	assert.Equal(t, float32(0.01), sgd.GetLR())
}

func TestAdamFirstStepMovesByLR(t *testing.T) {
	// On the first step bias correction makes m_hat == g and
	// v_hat == g², so the update is lr * g / (|g| + eps) ≈ lr * sign(g).
	param := newTestParam(t, []float32{1, 1})
	adam := NewAdam([]*nn.Parameter{param}, AdamConfig{LR: 0.1})

	adam.Step(gradsFor(param, []float32{2, -3}))

	p := param.Tensor().AsFloat32()
	assert.InDelta(t, 0.9, float64(p[0]), 1e-4)
	assert.InDelta(t, 1.1, float64(p[1]), 1e-4)
}

func TestAdamBiasCorrection(t *testing.T) {
	param := newTestParam(t, []float32{0})
	adam := NewAdam([]*nn.Parameter{param}, AdamConfig{LR: 0.001})

	adam.Step(gradsFor(param, []float32{1}))

	// Hand-computed second step with constant gradient 1:
	// m = 0.9*0.09 + 0.1 = 0.181, corrected by 1 - 0.9² = 0.19
	// v = 0.999*0.000999 + 0.001, corrected by 1 - 0.999²
	m := 0.9*0.1 + 0.1*1.0
	v := 0.999*0.001 + 0.001*1.0
	mHat := m / (1 - 0.9*0.9)
	vHat := v / (1 - 0.999*0.999)
	expected := -0.001 - 0.001*mHat/(math.Sqrt(vHat)+1e-8)

	adam.Step(gradsFor(param, []float32{1}))
	assert.InDelta(t, expected, float64(param.Tensor().AsFloat32()[0]), 1e-5)
}

func TestAdamDefaults(t *testing.T) {
	adam := NewAdam(nil, AdamConfig{})
	assert.Equal(t, float32(0.001), adam.GetLR())
	assert.Equal(t, float32(0.9), adam.beta1)
	assert.Equal(t, float32(0.999), adam.beta2)
	assert.Equal(t, float32(1e-8), adam.eps)
}

func TestZeroGradClearsParameters(t *testing.T) {
	param := newTestParam(t, []float32{1})
	sgd := NewSGD([]*nn.Parameter{param}, SGDConfig{LR: 0.1})

	sgd.Step(gradsFor(param, []float32{1}))
	require.NotNil(t, param.Grad())

	sgd.ZeroGrad()
	assert.Nil(t, param.Grad())
}
