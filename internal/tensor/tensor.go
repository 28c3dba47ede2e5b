// Package tensor provides dense tensors and the compute Backend interface
// used throughout the sentiment trainer.
//
// Two data types are supported: Float32 for activations, parameters and
// gradients, and Int32 for token indices. Tensors are plain row-major
// buffers; all arithmetic lives behind the Backend interface so that the
// CPU and WebGPU implementations (and the autodiff decorator) are
// interchangeable.
package tensor

import (
	"fmt"
)

// Device identifies where tensor computation runs.
type Device int

// Supported compute devices.
const (
	CPU Device = iota
	WebGPU
)

// String returns a human-readable device name.
func (d Device) String() string {
	switch d {
	case CPU:
		return "CPU"
	case WebGPU:
		return "WebGPU"
	default:
		return "Unknown"
	}
}

// DataType is the element type of a tensor.
type DataType int

// Supported data types.
const (
	Float32 DataType = iota
	Int32
)

// String returns the data type name.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Int32:
		return "int32"
	default:
		return "unknown"
	}
}

// Tensor is a dense, row-major tensor. Exactly one of the two element
// buffers is non-nil, matching the dtype.
type Tensor struct {
	shape  Shape
	stride []int
	dtype  DataType
	device Device
	f32    []float32
	i32    []int32
}

// New allocates a zero-filled tensor with the given shape and dtype.
func New(shape Shape, dtype DataType, device Device) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}

	t := &Tensor{
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		dtype:  dtype,
		device: device,
	}
	switch dtype {
	case Float32:
		t.f32 = make([]float32, shape.NumElements())
	case Int32:
		t.i32 = make([]int32, shape.NumElements())
	default:
		return nil, fmt.Errorf("unsupported dtype %v", dtype)
	}
	return t, nil
}

// Shape returns the tensor's shape.
func (t *Tensor) Shape() Shape {
	return t.shape
}

// Strides returns the tensor's row-major strides.
func (t *Tensor) Strides() []int {
	return t.stride
}

// DType returns the element type.
func (t *Tensor) DType() DataType {
	return t.dtype
}

// Device returns the compute device the tensor belongs to.
func (t *Tensor) Device() Device {
	return t.device
}

// NumElements returns the total number of elements.
func (t *Tensor) NumElements() int {
	return t.shape.NumElements()
}

// AsFloat32 returns the underlying float32 buffer.
// Panics if the tensor's dtype is not Float32.
func (t *Tensor) AsFloat32() []float32 {
	if t.dtype != Float32 {
		panic(fmt.Sprintf("tensor dtype is %s, not float32", t.dtype))
	}
	return t.f32
}

// AsInt32 returns the underlying int32 buffer.
// Panics if the tensor's dtype is not Int32.
func (t *Tensor) AsInt32() []int32 {
	if t.dtype != Int32 {
		panic(fmt.Sprintf("tensor dtype is %s, not int32", t.dtype))
	}
	return t.i32
}

// Clone returns a deep copy of the tensor.
func (t *Tensor) Clone() *Tensor {
	out := &Tensor{
		shape:  t.shape.Clone(),
		stride: append([]int(nil), t.stride...),
		dtype:  t.dtype,
		device: t.device,
	}
	if t.f32 != nil {
		out.f32 = append([]float32(nil), t.f32...)
	}
	if t.i32 != nil {
		out.i32 = append([]int32(nil), t.i32...)
	}
	return out
}
