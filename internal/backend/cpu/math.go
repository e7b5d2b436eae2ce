package cpu

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/cmplxs"
	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/photonic/internal/tensor"
)

// MulScalar multiplies every element by scalar.
// A Float64 tensor is promoted to Complex128 when scalar has an imaginary part.
func (cpu *CPUBackend) MulScalar(x *tensor.RawTensor, scalar complex128) *tensor.RawTensor {
	if x.DType() == tensor.Float64 && imag(scalar) == 0 {
		result := x.Copy()
		floats.Scale(real(scalar), result.AsFloat64())
		return result
	}
	result := cpu.Cast(x, tensor.Complex128).Copy()
	cmplxs.Scale(scalar, result.AsComplex128())
	return result
}

// AddScalar adds scalar to every element.
func (cpu *CPUBackend) AddScalar(x *tensor.RawTensor, scalar complex128) *tensor.RawTensor {
	if x.DType() == tensor.Float64 && imag(scalar) == 0 {
		result := x.Copy()
		floats.AddConst(real(scalar), result.AsFloat64())
		return result
	}
	result := cpu.Cast(x, tensor.Complex128).Copy()
	cmplxs.AddConst(scalar, result.AsComplex128())
	return result
}

// Exp computes the element-wise exponential.
func (cpu *CPUBackend) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary(x, cmplx.Exp, math.Exp)
}

// Sqrt computes the element-wise principal square root.
// Negative Float64 entries yield NaN, as math.Sqrt does.
func (cpu *CPUBackend) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary(x, cmplx.Sqrt, math.Sqrt)
}

// Abs computes the element-wise modulus, keeping the dtype.
func (cpu *CPUBackend) Abs(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary(x, func(v complex128) complex128 {
		return complex(cmplx.Abs(v), 0)
	}, math.Abs)
}

// Conj computes the element-wise complex conjugate.
func (cpu *CPUBackend) Conj(x *tensor.RawTensor) *tensor.RawTensor {
	if x.DType() == tensor.Float64 {
		return x.Copy()
	}
	return cpu.unary(x, cmplx.Conj, nil)
}

func (cpu *CPUBackend) unary(x *tensor.RawTensor, fc func(complex128) complex128, ff func(float64) float64) *tensor.RawTensor {
	result := tensor.MustNewRaw(x.Shape(), x.DType(), cpu.device)
	switch x.DType() {
	case tensor.Complex128:
		src, dst := x.AsComplex128(), result.AsComplex128()
		for i, v := range src {
			dst[i] = fc(v)
		}
	default:
		src, dst := x.AsFloat64(), result.AsFloat64()
		for i, v := range src {
			dst[i] = ff(v)
		}
	}
	return result
}
