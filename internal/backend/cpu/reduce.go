package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/cmplxs"
	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/photonic/internal/tensor"
)

// Sum returns the sum of all elements as a scalar tensor.
func (cpu *CPUBackend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	result := tensor.MustNewRaw(tensor.Shape{}, x.DType(), cpu.device)
	switch x.DType() {
	case tensor.Complex128:
		result.AsComplex128()[0] = cmplxs.Sum(x.AsComplex128())
	default:
		result.AsFloat64()[0] = floats.Sum(x.AsFloat64())
	}
	return result
}

// SumAxes sums over the given axes, removing them from the shape.
func (cpu *CPUBackend) SumAxes(x *tensor.RawTensor, axes []int) *tensor.RawTensor {
	shape := x.Shape()
	reduce := make([]bool, len(shape))
	for _, ax := range axes {
		if ax < 0 || ax >= len(shape) || reduce[ax] {
			panic(fmt.Sprintf("sumaxes: invalid axes %v for shape %v", axes, shape))
		}
		reduce[ax] = true
	}

	outShape := tensor.Shape{}
	for d, n := range shape {
		if !reduce[d] {
			outShape = append(outShape, n)
		}
	}
	result := tensor.MustNewRaw(outShape, x.DType(), cpu.device)

	idx := make([]int, len(shape))
	keep := make([]int, 0, len(outShape))
	for i := 0; i < x.NumElements(); i++ {
		shape.Unravel(i, idx)
		keep = keep[:0]
		for d, v := range idx {
			if !reduce[d] {
				keep = append(keep, v)
			}
		}
		o := outShape.Ravel(keep)
		switch x.DType() {
		case tensor.Complex128:
			result.AsComplex128()[o] += x.AsComplex128()[i]
		default:
			result.AsFloat64()[o] += x.AsFloat64()[i]
		}
	}
	return result
}

// Diagonal extracts the diagonal of axis1 and axis2. Both axes are removed
// and the diagonal is appended as the last axis, as numpy.diagonal does.
func (cpu *CPUBackend) Diagonal(x *tensor.RawTensor, axis1, axis2 int) *tensor.RawTensor {
	shape := x.Shape()
	rank := len(shape)
	if axis1 == axis2 || axis1 < 0 || axis2 < 0 || axis1 >= rank || axis2 >= rank {
		panic(fmt.Sprintf("diagonal: invalid axes (%d, %d) for shape %v", axis1, axis2, shape))
	}
	diag := min(shape[axis1], shape[axis2])

	rest := make([]int, 0, rank-2)
	for d := 0; d < rank; d++ {
		if d != axis1 && d != axis2 {
			rest = append(rest, d)
		}
	}
	outShape := make(tensor.Shape, 0, rank-1)
	for _, d := range rest {
		outShape = append(outShape, shape[d])
	}
	outShape = append(outShape, diag)

	result := tensor.MustNewRaw(outShape, x.DType(), cpu.device)
	strides := x.Strides()
	idx := make([]int, len(outShape))
	for i := 0; i < result.NumElements(); i++ {
		outShape.Unravel(i, idx)
		off := 0
		for j, d := range rest {
			off += idx[j] * strides[d]
		}
		k := idx[len(idx)-1]
		off += k*strides[axis1] + k*strides[axis2]
		switch x.DType() {
		case tensor.Complex128:
			result.AsComplex128()[i] = x.AsComplex128()[off]
		default:
			result.AsFloat64()[i] = x.AsFloat64()[off]
		}
	}
	return result
}

// Cast converts x to dtype. Complex to real keeps the real part.
func (cpu *CPUBackend) Cast(x *tensor.RawTensor, dtype tensor.DataType) *tensor.RawTensor {
	if x.DType() == dtype {
		return x
	}
	result := tensor.MustNewRaw(x.Shape(), dtype, cpu.device)
	switch dtype {
	case tensor.Complex128:
		cmplxs.Complex(result.AsComplex128(), x.AsFloat64(), make([]float64, x.NumElements()))
	case tensor.Float64:
		cmplxs.Real(result.AsFloat64(), x.AsComplex128())
	default:
		panic(fmt.Sprintf("cast: unsupported dtype %s", dtype))
	}
	return result
}
