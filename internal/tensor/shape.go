package tensor

import (
	"fmt"
	"strings"
)

// Shape represents the dimensions of a tensor.
// Example: Shape{20, 64} is a 2D tensor with 20 rows and 64 columns.
type Shape []int

// Validate checks that every dimension is positive.
func (s Shape) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("shape must have at least one dimension")
	}
	for i, dim := range s {
		if dim <= 0 {
			return fmt.Errorf("dimension %d must be positive, got %d", i, dim)
		}
	}
	return nil
}

// NumElements returns the total number of elements described by the shape.
func (s Shape) NumElements() int {
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Equal reports whether two shapes have identical dimensions.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the shape.
func (s Shape) Clone() Shape {
	return append(Shape(nil), s...)
}

// ComputeStrides returns row-major strides for the shape.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	stride := 1
	for i := len(s) - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= s[i]
	}
	return strides
}

// String formats the shape as "[d0, d1, ...]".
func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, dim := range s {
		parts[i] = fmt.Sprintf("%d", dim)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
