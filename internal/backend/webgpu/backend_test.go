package webgpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asif31iqbal/pytorch-sentiment-analysis/internal/tensor"
)

func TestIsAvailable(t *testing.T) {
	// Must not panic regardless of whether a GPU is present.
	available := IsAvailable()
	t.Logf("WebGPU available: %v", available)
}

func TestMatMulAgainstCPU(t *testing.T) {
	if !IsAvailable() {
		t.Skip("WebGPU not available on this system")
	}

	gpu, err := New()
	require.NoError(t, err)
	defer gpu.Release()

	a, _ := tensor.FromFloat32([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, tensor.CPU)
	b, _ := tensor.FromFloat32([]float32{7, 8, 9, 10, 11, 12}, tensor.Shape{3, 2}, tensor.CPU)

	got := gpu.MatMul(a, b)
	assert.True(t, got.Shape().Equal(tensor.Shape{2, 2}))
	assert.InDeltaSlice(t, []float32{58, 64, 139, 154}, got.AsFloat32(), 1e-4)
}
