package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/cblas128"
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/photonic/internal/tensor"
)

// MatMul performs matrix multiplication of two 2-D tensors.
// Float64 operands use gonum's dense matrices; everything else runs through
// cblas128.Gemm.
func (cpu *CPUBackend) MatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	if a.Rank() != 2 || b.Rank() != 2 {
		panic(fmt.Sprintf("matmul: expected 2-D tensors, got %v and %v", a.Shape(), b.Shape()))
	}
	m, k := a.Shape()[0], a.Shape()[1]
	k2, n := b.Shape()[0], b.Shape()[1]
	if k != k2 {
		panic(fmt.Sprintf("matmul: inner dimensions differ: %v @ %v", a.Shape(), b.Shape()))
	}

	if a.DType() == tensor.Float64 && b.DType() == tensor.Float64 {
		result := tensor.MustNewRaw(tensor.Shape{m, n}, tensor.Float64, cpu.device)
		out := mat.NewDense(m, n, result.AsFloat64())
		out.Mul(mat.NewDense(m, k, a.AsFloat64()), mat.NewDense(k, n, b.AsFloat64()))
		return result
	}

	a = cpu.Cast(a, tensor.Complex128)
	b = cpu.Cast(b, tensor.Complex128)
	result := tensor.MustNewRaw(tensor.Shape{m, n}, tensor.Complex128, cpu.device)
	cblas128.Gemm(blas.NoTrans, blas.NoTrans, 1,
		general(a.AsComplex128(), m, k),
		general(b.AsComplex128(), k, n),
		0, general(result.AsComplex128(), m, n))
	return result
}

func general(data []complex128, rows, cols int) cblas128.General {
	return cblas128.General{Rows: rows, Cols: cols, Stride: cols, Data: data}
}
