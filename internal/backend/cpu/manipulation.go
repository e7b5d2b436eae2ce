package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/cblas128"

	"github.com/born-ml/photonic/internal/tensor"
)

// Reshape returns a view of x with a new shape. A single -1 dimension is inferred.
func (cpu *CPUBackend) Reshape(x *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	shape := newShape.Clone()
	infer, known := -1, 1
	for i, d := range shape {
		if d == -1 {
			if infer >= 0 {
				panic(fmt.Sprintf("reshape: more than one inferred dimension in %v", newShape))
			}
			infer = i
			continue
		}
		known *= d
	}
	if infer >= 0 {
		if known == 0 || x.NumElements()%known != 0 {
			panic(fmt.Sprintf("reshape: cannot infer dimension of %v for %v", newShape, x.Shape()))
		}
		shape[infer] = x.NumElements() / known
	}

	view, err := x.WithShape(shape)
	if err != nil {
		panic(fmt.Sprintf("reshape: %v", err))
	}
	return view
}

// Transpose permutes the axes of x: result.Shape()[i] = x.Shape()[axes[i]].
// With no axes the order is reversed.
func (cpu *CPUBackend) Transpose(x *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	rank := x.Rank()
	if len(axes) == 0 {
		axes = make([]int, rank)
		for i := range axes {
			axes[i] = rank - 1 - i
		}
	}
	if err := tensor.ValidatePermutation(axes, rank); err != nil {
		panic(fmt.Sprintf("transpose: %v", err))
	}

	result := tensor.MustNewRaw(x.Shape().Permute(axes), x.DType(), cpu.device)
	switch x.DType() {
	case tensor.Complex128:
		permuteInto(result.AsComplex128(), x.AsComplex128(), x.Shape(), axes)
	default:
		permuteInto(result.AsFloat64(), x.AsFloat64(), x.Shape(), axes)
	}
	return result
}

// permuteInto writes src (of shape) into dst laid out with permuted axes.
func permuteInto[T float64 | complex128](dst, src []T, shape tensor.Shape, axes []int) {
	rank := len(shape)
	if rank == 0 {
		dst[0] = src[0]
		return
	}
	srcStrides := shape.ComputeStrides()
	outShape := shape.Permute(axes)
	// Stride in src for each output axis.
	strides := make([]int, rank)
	for i, a := range axes {
		strides[i] = srcStrides[a]
	}

	idx := make([]int, rank)
	off := 0
	for i := range dst {
		dst[i] = src[off]
		for d := rank - 1; d >= 0; d-- {
			idx[d]++
			off += strides[d]
			if idx[d] < outShape[d] {
				break
			}
			off -= strides[d] * idx[d]
			idx[d] = 0
		}
	}
}

// Truncate keeps the leading [0:limits[i]) block of every axis.
func (cpu *CPUBackend) Truncate(x *tensor.RawTensor, limits tensor.Shape) *tensor.RawTensor {
	shape := x.Shape()
	if len(limits) != len(shape) {
		panic(fmt.Sprintf("truncate: %d limits for rank %d", len(limits), len(shape)))
	}
	for i, l := range limits {
		if l <= 0 || l > shape[i] {
			panic(fmt.Sprintf("truncate: limit %d out of range for axis %d of %v", l, i, shape))
		}
	}

	result := tensor.MustNewRaw(limits, x.DType(), cpu.device)
	strides := x.Strides()
	idx := make([]int, len(limits))
	for i := 0; i < result.NumElements(); i++ {
		limits.Unravel(i, idx)
		off := 0
		for d, v := range idx {
			off += v * strides[d]
		}
		switch x.DType() {
		case tensor.Complex128:
			result.AsComplex128()[i] = x.AsComplex128()[off]
		default:
			result.AsFloat64()[i] = x.AsFloat64()[off]
		}
	}
	return result
}

// Outer returns the tensor product: result[i..., j...] = a[i...] * b[j...].
func (cpu *CPUBackend) Outer(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.Tensordot(a, b, nil, nil)
}

// Tensordot contracts axesA of a with axesB of b.
// The result has the free axes of a followed by the free axes of b, each in
// their original order. The contraction runs as a single Gemm.
func (cpu *CPUBackend) Tensordot(a, b *tensor.RawTensor, axesA, axesB []int) *tensor.RawTensor {
	if len(axesA) != len(axesB) {
		panic(fmt.Sprintf("tensordot: %d axes for a, %d for b", len(axesA), len(axesB)))
	}
	for i := range axesA {
		if a.Shape()[axesA[i]] != b.Shape()[axesB[i]] {
			panic(fmt.Sprintf("tensordot: axis %d of %v does not match axis %d of %v",
				axesA[i], a.Shape(), axesB[i], b.Shape()))
		}
	}

	freeA := freeAxes(a.Rank(), axesA)
	freeB := freeAxes(b.Rank(), axesB)

	// a -> (freeA..., axesA...), b -> (axesB..., freeB...)
	at := cpu.Transpose(cpu.Cast(a, tensor.Complex128), append(append([]int{}, freeA...), axesA...)...)
	bt := cpu.Transpose(cpu.Cast(b, tensor.Complex128), append(append([]int{}, axesB...), freeB...)...)

	m, k, n := 1, 1, 1
	outShape := tensor.Shape{}
	for _, ax := range freeA {
		m *= a.Shape()[ax]
		outShape = append(outShape, a.Shape()[ax])
	}
	for _, ax := range axesA {
		k *= a.Shape()[ax]
	}
	for _, ax := range freeB {
		n *= b.Shape()[ax]
		outShape = append(outShape, b.Shape()[ax])
	}

	result := tensor.MustNewRaw(outShape, tensor.Complex128, cpu.device)
	cblas128.Gemm(blas.NoTrans, blas.NoTrans, 1,
		general(at.AsComplex128(), m, k),
		general(bt.AsComplex128(), k, n),
		0, general(result.AsComplex128(), m, n))

	if a.DType() == tensor.Float64 && b.DType() == tensor.Float64 {
		return cpu.Cast(result, tensor.Float64)
	}
	return result
}

func freeAxes(rank int, contracted []int) []int {
	used := make([]bool, rank)
	for _, ax := range contracted {
		if ax < 0 || ax >= rank || used[ax] {
			panic(fmt.Sprintf("tensordot: invalid axes %v for rank %d", contracted, rank))
		}
		used[ax] = true
	}
	free := make([]int, 0, rank-len(contracted))
	for ax := 0; ax < rank; ax++ {
		if !used[ax] {
			free = append(free, ax)
		}
	}
	return free
}
