package tensor

import (
	"fmt"
)

// Zeros creates a float32 tensor filled with zeros.
func Zeros(shape Shape, device Device) *Tensor {
	t, err := New(shape, Float32, device)
	if err != nil {
		panic(err)
	}
	return t
}

// Full creates a float32 tensor filled with value.
func Full(shape Shape, value float32, device Device) *Tensor {
	t := Zeros(shape, device)
	data := t.AsFloat32()
	for i := range data {
		data[i] = value
	}
	return t
}

// Scalar creates a shape-[1] float32 tensor holding value.
func Scalar(value float32, device Device) *Tensor {
	return Full(Shape{1}, value, device)
}

// FromFloat32 creates a float32 tensor from a slice. The slice is copied.
func FromFloat32(data []float32, shape Shape, device Device) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if len(data) != shape.NumElements() {
		return nil, fmt.Errorf("data length %d does not match shape %s (%d elements)",
			len(data), shape, shape.NumElements())
	}
	t := Zeros(shape, device)
	copy(t.AsFloat32(), data)
	return t, nil
}

// FromInt32 creates an int32 tensor from a slice. The slice is copied.
func FromInt32(data []int32, shape Shape, device Device) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if len(data) != shape.NumElements() {
		return nil, fmt.Errorf("data length %d does not match shape %s (%d elements)",
			len(data), shape, shape.NumElements())
	}
	t, err := New(shape, Int32, device)
	if err != nil {
		return nil, err
	}
	copy(t.AsInt32(), data)
	return t, nil
}
