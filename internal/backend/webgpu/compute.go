package webgpu

import (
	"encoding/binary"
	"fmt"
	"unsafe"

	"github.com/go-webgpu/webgpu/wgpu"

	"github.com/asif31iqbal/pytorch-sentiment-analysis/internal/tensor"
)

// compileShader compiles WGSL into a cached ShaderModule.
func (b *Backend) compileShader(name, code string) *wgpu.ShaderModule {
	b.mu.RLock()
	if shader, exists := b.shaders[name]; exists {
		b.mu.RUnlock()
		return shader
	}
	b.mu.RUnlock()

	shader := b.device.CreateShaderModuleWGSL(code)

	b.mu.Lock()
	b.shaders[name] = shader
	b.mu.Unlock()

	return shader
}

// getOrCreatePipeline returns a cached ComputePipeline or creates one.
func (b *Backend) getOrCreatePipeline(name string, shader *wgpu.ShaderModule) *wgpu.ComputePipeline {
	b.mu.RLock()
	if pipeline, exists := b.pipelines[name]; exists {
		b.mu.RUnlock()
		return pipeline
	}
	b.mu.RUnlock()

	pipeline := b.device.CreateComputePipelineSimple(nil, shader, "main")

	b.mu.Lock()
	b.pipelines[name] = pipeline
	b.mu.Unlock()

	return pipeline
}

// float32Bytes reinterprets a float32 slice as raw bytes (zero copy).
func float32Bytes(data []float32) []byte {
	if len(data) == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy upload; length is exact.
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(data)*4)
}

// createBuffer creates a GPU buffer pre-filled with data.
func (b *Backend) createBuffer(data []byte, usage wgpu.BufferUsage) *wgpu.Buffer {
	size := uint64(len(data))

	buffer := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            usage,
		Size:             size,
		MappedAtCreation: wgpu.True,
	})

	mappedPtr := buffer.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice over the mapped range, bounds match size.
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), size)
	copy(mappedSlice, data)
	buffer.Unmap()

	return buffer
}

// createUniformBuffer creates a 16-byte aligned uniform buffer.
func (b *Backend) createUniformBuffer(data []byte) *wgpu.Buffer {
	aligned := make([]byte, (len(data)+15)/16*16)
	copy(aligned, data)

	buffer := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		Size:             uint64(len(aligned)),
		MappedAtCreation: wgpu.True,
	})

	mappedPtr := buffer.GetMappedRange(0, uint64(len(aligned)))
	//nolint:gosec // unsafe.Slice over the mapped range, bounds match size.
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), len(aligned))
	copy(mappedSlice, aligned)
	buffer.Unmap()

	return buffer
}

// readBuffer copies a GPU buffer back to CPU memory via a staging buffer.
func (b *Backend) readBuffer(srcBuffer *wgpu.Buffer, size uint64) ([]byte, error) {
	stagingBuffer := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
		Size:  size,
	})
	defer stagingBuffer.Release()

	encoder := b.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(srcBuffer, 0, stagingBuffer, 0, size)
	cmdBuffer := encoder.Finish(nil)
	b.queue.Submit(cmdBuffer)

	if err := stagingBuffer.MapAsync(b.device, wgpu.MapModeRead, 0, size); err != nil {
		return nil, fmt.Errorf("failed to map staging buffer: %w", err)
	}

	mappedPtr := stagingBuffer.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice over the mapped range, bounds match size.
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), size)
	result := make([]byte, size)
	copy(result, mappedSlice)
	stagingBuffer.Unmap()

	return result, nil
}

// runMatMul dispatches the matmul compute shader.
func (b *Backend) runMatMul(a, other *tensor.Tensor) (*tensor.Tensor, error) {
	if a.DType() != tensor.Float32 || other.DType() != tensor.Float32 {
		return nil, fmt.Errorf("webgpu: matmul requires float32 tensors")
	}
	if len(a.Shape()) != 2 || len(other.Shape()) != 2 {
		return nil, fmt.Errorf("webgpu: matmul requires 2D tensors, got %s and %s",
			a.Shape(), other.Shape())
	}

	m := a.Shape()[0]
	k := a.Shape()[1]
	n := other.Shape()[1]
	if other.Shape()[0] != k {
		return nil, fmt.Errorf("webgpu: matmul shape mismatch: %s @ %s", a.Shape(), other.Shape())
	}

	shader := b.compileShader("matmul", matmulShader)
	pipeline := b.getOrCreatePipeline("matmul", shader)

	bufferA := b.createBuffer(float32Bytes(a.AsFloat32()), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufferA.Release()

	bufferOther := b.createBuffer(float32Bytes(other.AsFloat32()), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufferOther.Release()

	resultSize := uint64(m * n * 4)
	bufferResult := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
		Size:  resultSize,
	})
	defer bufferResult.Release()

	params := make([]byte, 16)
	//nolint:gosec // G115: shape dimensions are non-negative.
	binary.LittleEndian.PutUint32(params[0:4], uint32(m))
	//nolint:gosec // G115: shape dimensions are non-negative.
	binary.LittleEndian.PutUint32(params[4:8], uint32(k))
	//nolint:gosec // G115: shape dimensions are non-negative.
	binary.LittleEndian.PutUint32(params[8:12], uint32(n))
	bufferParams := b.createUniformBuffer(params)
	defer bufferParams.Release()

	bindGroupLayout := pipeline.GetBindGroupLayout(0)
	bindGroup := b.device.CreateBindGroupSimple(bindGroupLayout, []wgpu.BindGroupEntry{
		wgpu.BufferBindingEntry(0, bufferA, 0, uint64(m*k*4)),
		wgpu.BufferBindingEntry(1, bufferOther, 0, uint64(k*n*4)),
		wgpu.BufferBindingEntry(2, bufferResult, 0, resultSize),
		wgpu.BufferBindingEntry(3, bufferParams, 0, 16),
	})
	defer bindGroup.Release()

	encoder := b.device.CreateCommandEncoder(nil)
	computePass := encoder.BeginComputePass(nil)
	computePass.SetPipeline(pipeline)
	computePass.SetBindGroup(0, bindGroup, nil)

	//nolint:gosec // G115: workgroup counts are non-negative.
	computePass.DispatchWorkgroups(uint32((n+15)/16), uint32((m+15)/16), 1)
	computePass.End()

	cmdBuffer := encoder.Finish(nil)
	b.queue.Submit(cmdBuffer)

	resultData, err := b.readBuffer(bufferResult, resultSize)
	if err != nil {
		return nil, err
	}

	result := tensor.Zeros(tensor.Shape{m, n}, tensor.WebGPU)
	copy(float32Bytes(result.AsFloat32()), resultData)
	return result, nil
}
