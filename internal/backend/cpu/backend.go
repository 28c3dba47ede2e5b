// Package cpu implements the pure-Go reference backend.
//
// All operations allocate a fresh result tensor; nothing is modified in
// place. This keeps the autodiff decorator's recorded inputs valid for the
// backward pass without any copy-on-write machinery.
package cpu

import (
	"fmt"
	"math"

	"github.com/asif31iqbal/pytorch-sentiment-analysis/internal/tensor"
)

// Backend is the CPU compute backend.
type Backend struct{}

// New creates a new CPU backend.
func New() *Backend {
	return &Backend{}
}

// Name returns the backend name.
func (b *Backend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (b *Backend) Device() tensor.Device {
	return tensor.CPU
}

// binaryShape validates operand shapes for element-wise binary operations.
// Returns true if the second operand is a [1, N] row broadcast over [B, N].
func binaryShape(op string, a, c *tensor.Tensor) bool {
	if a.DType() != tensor.Float32 || c.DType() != tensor.Float32 {
		panic(fmt.Sprintf("cpu: %s requires float32 operands", op))
	}
	as, cs := a.Shape(), c.Shape()
	if as.Equal(cs) {
		return false
	}
	if len(as) == 2 && len(cs) == 2 && cs[0] == 1 && as[1] == cs[1] {
		return true
	}
	panic(fmt.Sprintf("cpu: %s shape mismatch: %s vs %s", op, as, cs))
}

func (b *Backend) binary(op string, a, c *tensor.Tensor, f func(x, y float32) float32) *tensor.Tensor {
	broadcast := binaryShape(op, a, c)
	out := tensor.Zeros(a.Shape(), b.Device())
	ad, cd, od := a.AsFloat32(), c.AsFloat32(), out.AsFloat32()
	if !broadcast {
		for i := range ad {
			od[i] = f(ad[i], cd[i])
		}
		return out
	}
	cols := a.Shape()[1]
	for i := range ad {
		od[i] = f(ad[i], cd[i%cols])
	}
	return out
}

// Add performs element-wise addition. The second operand may be a [1, N]
// row broadcast across a [B, N] first operand.
func (b *Backend) Add(a, c *tensor.Tensor) *tensor.Tensor {
	return b.binary("Add", a, c, func(x, y float32) float32 { return x + y })
}

// Sub performs element-wise subtraction.
func (b *Backend) Sub(a, c *tensor.Tensor) *tensor.Tensor {
	return b.binary("Sub", a, c, func(x, y float32) float32 { return x - y })
}

// Mul performs element-wise multiplication.
func (b *Backend) Mul(a, c *tensor.Tensor) *tensor.Tensor {
	return b.binary("Mul", a, c, func(x, y float32) float32 { return x * y })
}

// MatMul performs 2D matrix multiplication: [M, K] @ [K, N] -> [M, N].
func (b *Backend) MatMul(a, c *tensor.Tensor) *tensor.Tensor {
	as, cs := a.Shape(), c.Shape()
	if len(as) != 2 || len(cs) != 2 {
		panic(fmt.Sprintf("cpu: MatMul requires 2D tensors, got %s and %s", as, cs))
	}
	if as[1] != cs[0] {
		panic(fmt.Sprintf("cpu: MatMul shape mismatch: %s @ %s", as, cs))
	}

	m, k, n := as[0], as[1], cs[1]
	out := tensor.Zeros(tensor.Shape{m, n}, b.Device())
	ad, cd, od := a.AsFloat32(), c.AsFloat32(), out.AsFloat32()

	// ikj loop order keeps the inner loop sequential over both operands.
	for i := 0; i < m; i++ {
		for kk := 0; kk < k; kk++ {
			av := ad[i*k+kk]
			if av == 0 {
				continue
			}
			cRow := cd[kk*n : (kk+1)*n]
			oRow := od[i*n : (i+1)*n]
			for j := range oRow {
				oRow[j] += av * cRow[j]
			}
		}
	}
	return out
}

// Transpose transposes a 2D tensor.
func (b *Backend) Transpose(t *tensor.Tensor) *tensor.Tensor {
	s := t.Shape()
	if len(s) != 2 {
		panic(fmt.Sprintf("cpu: Transpose requires a 2D tensor, got %s", s))
	}
	rows, cols := s[0], s[1]
	out := tensor.Zeros(tensor.Shape{cols, rows}, b.Device())
	td, od := t.AsFloat32(), out.AsFloat32()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			od[j*rows+i] = td[i*cols+j]
		}
	}
	return out
}

// Sigmoid applies 1 / (1 + exp(-x)) element-wise.
func (b *Backend) Sigmoid(x *tensor.Tensor) *tensor.Tensor {
	out := tensor.Zeros(x.Shape(), b.Device())
	xd, od := x.AsFloat32(), out.AsFloat32()
	for i := range xd {
		od[i] = float32(1.0 / (1.0 + math.Exp(-float64(xd[i]))))
	}
	return out
}

// Tanh applies the hyperbolic tangent element-wise.
func (b *Backend) Tanh(x *tensor.Tensor) *tensor.Tensor {
	out := tensor.Zeros(x.Shape(), b.Device())
	xd, od := x.AsFloat32(), out.AsFloat32()
	for i := range xd {
		od[i] = float32(math.Tanh(float64(xd[i])))
	}
	return out
}

// Cat concatenates 2D float32 tensors along dim 0 or 1.
func (b *Backend) Cat(tensors []*tensor.Tensor, dim int) *tensor.Tensor {
	if len(tensors) == 0 {
		panic("cpu: Cat requires at least one tensor")
	}
	if dim != 0 && dim != 1 {
		panic(fmt.Sprintf("cpu: Cat supports dims 0 and 1, got %d", dim))
	}
	first := tensors[0].Shape()
	if len(first) != 2 {
		panic(fmt.Sprintf("cpu: Cat requires 2D tensors, got %s", first))
	}

	outShape := first.Clone()
	outShape[dim] = 0
	for _, t := range tensors {
		s := t.Shape()
		if len(s) != 2 || s[1-dim] != first[1-dim] {
			panic(fmt.Sprintf("cpu: Cat shape mismatch: %s vs %s along dim %d", first, s, dim))
		}
		outShape[dim] += s[dim]
	}

	out := tensor.Zeros(outShape, b.Device())
	od := out.AsFloat32()

	if dim == 0 {
		offset := 0
		for _, t := range tensors {
			n := copy(od[offset:], t.AsFloat32())
			offset += n
		}
		return out
	}

	rows, outCols := outShape[0], outShape[1]
	colOffset := 0
	for _, t := range tensors {
		cols := t.Shape()[1]
		td := t.AsFloat32()
		for i := 0; i < rows; i++ {
			copy(od[i*outCols+colOffset:i*outCols+colOffset+cols], td[i*cols:(i+1)*cols])
		}
		colOffset += cols
	}
	return out
}

// SumDim sums a 2D tensor along the given dimension.
func (b *Backend) SumDim(x *tensor.Tensor, dim int, keepDim bool) *tensor.Tensor {
	s := x.Shape()
	if len(s) != 2 {
		panic(fmt.Sprintf("cpu: SumDim requires a 2D tensor, got %s", s))
	}
	if dim != 0 && dim != 1 {
		panic(fmt.Sprintf("cpu: SumDim supports dims 0 and 1, got %d", dim))
	}

	rows, cols := s[0], s[1]
	var outShape tensor.Shape
	if dim == 0 {
		if keepDim {
			outShape = tensor.Shape{1, cols}
		} else {
			outShape = tensor.Shape{cols}
		}
	} else {
		if keepDim {
			outShape = tensor.Shape{rows, 1}
		} else {
			outShape = tensor.Shape{rows}
		}
	}

	out := tensor.Zeros(outShape, b.Device())
	xd, od := x.AsFloat32(), out.AsFloat32()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if dim == 0 {
				od[j] += xd[i*cols+j]
			} else {
				od[i] += xd[i*cols+j]
			}
		}
	}
	return out
}

// Embedding gathers rows of weight by index: output[i] = weight[indices[i]].
// Callers must guarantee all indices come from the fitted vocabulary;
// out-of-range indices panic.
func (b *Backend) Embedding(weight, indices *tensor.Tensor) *tensor.Tensor {
	ws := weight.Shape()
	if len(ws) != 2 {
		panic(fmt.Sprintf("cpu: Embedding weight must be 2D, got %s", ws))
	}
	if indices.DType() != tensor.Int32 {
		panic("cpu: Embedding indices must be int32")
	}

	numEmbed, embedDim := ws[0], ws[1]
	idx := indices.AsInt32()
	out := tensor.Zeros(tensor.Shape{len(idx), embedDim}, b.Device())
	wd, od := weight.AsFloat32(), out.AsFloat32()

	for i, ix := range idx {
		if ix < 0 || int(ix) >= numEmbed {
			panic(fmt.Sprintf("cpu: Embedding index %d out of range [0, %d)", ix, numEmbed))
		}
		copy(od[i*embedDim:(i+1)*embedDim], wd[int(ix)*embedDim:(int(ix)+1)*embedDim])
	}
	return out
}

// BCEWithLogits computes the batch-mean binary cross-entropy between raw
// logits and 0/1 targets using the log-sum-exp stable form:
//
//	loss(z, y) = max(z, 0) - z*y + log(1 + exp(-|z|))
func (b *Backend) BCEWithLogits(logits, targets *tensor.Tensor) *tensor.Tensor {
	if logits.NumElements() != targets.NumElements() {
		panic(fmt.Sprintf("cpu: BCEWithLogits size mismatch: %s vs %s",
			logits.Shape(), targets.Shape()))
	}

	zd, yd := logits.AsFloat32(), targets.AsFloat32()
	var total float64
	for i := range zd {
		z, y := float64(zd[i]), float64(yd[i])
		total += math.Max(z, 0) - z*y + math.Log1p(math.Exp(-math.Abs(z)))
	}
	mean := float32(total / float64(len(zd)))

	return tensor.Scalar(mean, b.Device())
}
