// Package webgpu implements a GPU-accelerated backend using zero-CGO
// WebGPU bindings (github.com/go-webgpu/webgpu).
//
// Only matrix multiplication runs on the GPU; it dominates the recurrent
// forward and backward passes. Every other operation delegates to the CPU
// reference backend. Backend selection happens once at startup: callers
// probe with IsAvailable and fall back to the CPU backend when no adapter
// is present.
package webgpu

import (
	"fmt"
	"sync"

	"github.com/go-webgpu/webgpu/wgpu"

	"github.com/asif31iqbal/pytorch-sentiment-analysis/internal/backend/cpu"
	"github.com/asif31iqbal/pytorch-sentiment-analysis/internal/tensor"
)

// Backend computes matrix products on the GPU and delegates the remaining
// operations to an embedded CPU backend.
type Backend struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	shaders   map[string]*wgpu.ShaderModule
	pipelines map[string]*wgpu.ComputePipeline
	mu        sync.RWMutex

	fallback *cpu.Backend
}

// New creates a new WebGPU backend.
// Returns an error if no compatible adapter or device is available.
func New() (backend *Backend, err error) {
	// The native wgpu library panics when missing; report that as an error
	// so callers can fall back to CPU.
	defer func() {
		if r := recover(); r != nil {
			backend = nil
			err = fmt.Errorf("webgpu: native library not available: %v", r)
		}
	}()

	instance, instanceErr := wgpu.CreateInstance(nil)
	if instanceErr != nil {
		return nil, fmt.Errorf("webgpu: failed to create instance: %w", instanceErr)
	}

	adapter, adapterErr := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if adapterErr != nil {
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to request adapter: %w", adapterErr)
	}

	device, deviceErr := adapter.RequestDevice(nil)
	if deviceErr != nil {
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to request device: %w", deviceErr)
	}

	queue := device.GetQueue()
	if queue == nil {
		device.Release()
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to get queue")
	}

	return &Backend{
		instance:  instance,
		adapter:   adapter,
		device:    device,
		queue:     queue,
		shaders:   make(map[string]*wgpu.ShaderModule),
		pipelines: make(map[string]*wgpu.ComputePipeline),
		fallback:  cpu.New(),
	}, nil
}

// IsAvailable checks whether a WebGPU adapter can be acquired on this
// system. Used for the one-time capability probe at startup.
func IsAvailable() (available bool) {
	defer func() {
		if r := recover(); r != nil {
			available = false
		}
	}()

	instance, err := wgpu.CreateInstance(nil)
	if err != nil {
		return false
	}
	defer instance.Release()

	adapter, err := instance.RequestAdapter(nil)
	if err != nil {
		return false
	}
	adapter.Release()
	return true
}

// Release frees GPU resources held by the backend.
func (b *Backend) Release() {
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}

// Name returns the backend name.
func (b *Backend) Name() string {
	return "WebGPU"
}

// Device returns the compute device.
func (b *Backend) Device() tensor.Device {
	return tensor.WebGPU
}

// MatMul performs 2D matrix multiplication on the GPU.
func (b *Backend) MatMul(a, c *tensor.Tensor) *tensor.Tensor {
	result, err := b.runMatMul(a, c)
	if err != nil {
		panic("webgpu: MatMul: " + err.Error())
	}
	return result
}

// Operations below delegate to the CPU reference backend; their cost is
// linear in tensor size and does not justify a GPU round trip.

// Add performs element-wise addition.
func (b *Backend) Add(a, c *tensor.Tensor) *tensor.Tensor { return b.fallback.Add(a, c) }

// Sub performs element-wise subtraction.
func (b *Backend) Sub(a, c *tensor.Tensor) *tensor.Tensor { return b.fallback.Sub(a, c) }

// Mul performs element-wise multiplication.
func (b *Backend) Mul(a, c *tensor.Tensor) *tensor.Tensor { return b.fallback.Mul(a, c) }

// Transpose transposes a 2D tensor.
func (b *Backend) Transpose(t *tensor.Tensor) *tensor.Tensor { return b.fallback.Transpose(t) }

// Sigmoid applies the logistic function element-wise.
func (b *Backend) Sigmoid(x *tensor.Tensor) *tensor.Tensor { return b.fallback.Sigmoid(x) }

// Tanh applies the hyperbolic tangent element-wise.
func (b *Backend) Tanh(x *tensor.Tensor) *tensor.Tensor { return b.fallback.Tanh(x) }

// Cat concatenates tensors along a dimension.
func (b *Backend) Cat(tensors []*tensor.Tensor, dim int) *tensor.Tensor {
	return b.fallback.Cat(tensors, dim)
}

// SumDim sums along a dimension.
func (b *Backend) SumDim(x *tensor.Tensor, dim int, keepDim bool) *tensor.Tensor {
	return b.fallback.SumDim(x, dim, keepDim)
}

// Embedding gathers rows of weight by index.
func (b *Backend) Embedding(weight, indices *tensor.Tensor) *tensor.Tensor {
	return b.fallback.Embedding(weight, indices)
}

// BCEWithLogits computes the batch-mean stable binary cross-entropy.
func (b *Backend) BCEWithLogits(logits, targets *tensor.Tensor) *tensor.Tensor {
	return b.fallback.BCEWithLogits(logits, targets)
}
