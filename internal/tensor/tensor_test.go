package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShapeValidateAndElements(t *testing.T) {
	assert.NoError(t, Shape{2, 3}.Validate())
	assert.NoError(t, Shape{1}.Validate())
	assert.Error(t, Shape{}.Validate())
	assert.Error(t, Shape{2, 0}.Validate())
	assert.Error(t, Shape{-1, 3}.Validate())

	assert.Equal(t, 6, Shape{2, 3}.NumElements())
	assert.Equal(t, 24, Shape{2, 3, 4}.NumElements())
}

func TestShapeEqualAndClone(t *testing.T) {
	a := Shape{2, 3}
	b := a.Clone()

	assert.True(t, a.Equal(b))
	b[0] = 5
	assert.False(t, a.Equal(b))
	assert.Equal(t, Shape{2, 3}, a)
	assert.False(t, a.Equal(Shape{2, 3, 1}))
}

func TestComputeStrides(t *testing.T) {
	assert.Equal(t, []int{3, 1}, Shape{2, 3}.ComputeStrides())
	assert.Equal(t, []int{12, 4, 1}, Shape{2, 3, 4}.ComputeStrides())
	assert.Equal(t, []int{1}, Shape{7}.ComputeStrides())
}

func TestNewAllocatesByDType(t *testing.T) {
	f, err := New(Shape{2, 2}, Float32, CPU)
	require.NoError(t, err)
	assert.Len(t, f.AsFloat32(), 4)
	assert.Panics(t, func() { f.AsInt32() })

	i, err := New(Shape{3}, Int32, CPU)
	require.NoError(t, err)
	assert.Len(t, i.AsInt32(), 3)
	assert.Panics(t, func() { i.AsFloat32() })
}

func TestNewRejectsBadShape(t *testing.T) {
	_, err := New(Shape{0}, Float32, CPU)
	assert.Error(t, err)
}

func TestFromSliceLengthChecks(t *testing.T) {
	got, err := FromFloat32([]float32{1, 2, 3, 4}, Shape{2, 2}, CPU)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3, 4}, got.AsFloat32())

	_, err = FromFloat32([]float32{1, 2, 3}, Shape{2, 2}, CPU)
	assert.Error(t, err)

	_, err = FromInt32([]int32{1}, Shape{2}, CPU)
	assert.Error(t, err)
}

func TestCloneIsIndependent(t *testing.T) {
	orig, err := FromFloat32([]float32{1, 2}, Shape{2}, CPU)
	require.NoError(t, err)

	clone := orig.Clone()
	clone.AsFloat32()[0] = 99

	assert.Equal(t, float32(1), orig.AsFloat32()[0])
	assert.True(t, orig.Shape().Equal(clone.Shape()))
}

func TestScalarAndFull(t *testing.T) {
	s := Scalar(2.5, CPU)
	assert.Equal(t, Shape{1}, s.Shape())
	assert.Equal(t, []float32{2.5}, s.AsFloat32())

	f := Full(Shape{2, 2}, 7, CPU)
	assert.Equal(t, []float32{7, 7, 7, 7}, f.AsFloat32())
}
