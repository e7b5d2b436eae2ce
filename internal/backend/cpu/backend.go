// Package cpu implements the CPU backend on top of gonum's BLAS and dense
// linear algebra.
package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/cmplxs"
	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/photonic/internal/tensor"
)

// CPUBackend implements tensor operations on CPU.
type CPUBackend struct {
	device tensor.Device
}

// New creates a new CPU backend.
func New() *CPUBackend {
	return &CPUBackend{
		device: tensor.CPU,
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// Add performs element-wise addition with NumPy-style broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("add", a, b, binaryKernels{
		c:    func(x, y complex128) complex128 { return x + y },
		f:    func(x, y float64) float64 { return x + y },
		vecC: cmplxs.Add,
		vecF: floats.Add,
	})
}

// Sub performs element-wise subtraction with broadcasting.
func (cpu *CPUBackend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("sub", a, b, binaryKernels{
		c:    func(x, y complex128) complex128 { return x - y },
		f:    func(x, y float64) float64 { return x - y },
		vecC: cmplxs.Sub,
		vecF: floats.Sub,
	})
}

// Mul performs element-wise multiplication with broadcasting.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("mul", a, b, binaryKernels{
		c:    func(x, y complex128) complex128 { return x * y },
		f:    func(x, y float64) float64 { return x * y },
		vecC: cmplxs.Mul,
		vecF: floats.Mul,
	})
}

// Div performs element-wise division with broadcasting.
func (cpu *CPUBackend) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("div", a, b, binaryKernels{
		c:    func(x, y complex128) complex128 { return x / y },
		f:    func(x, y float64) float64 { return x / y },
		vecC: cmplxs.Div,
		vecF: floats.Div,
	})
}

type binaryKernels struct {
	c    func(x, y complex128) complex128
	f    func(x, y float64) float64
	vecC func(dst, s []complex128)
	vecF func(dst, s []float64)
}

// binary applies an element-wise kernel. Mixed dtypes are promoted to Complex128.
func (cpu *CPUBackend) binary(op string, a, b *tensor.RawTensor, k binaryKernels) *tensor.RawTensor {
	if a.DType() != b.DType() {
		a = cpu.Cast(a, tensor.Complex128)
		b = cpu.Cast(b, tensor.Complex128)
	}

	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", op, err))
	}

	result, err := tensor.NewRaw(outShape, a.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", op, err))
	}

	if !needsBroadcast {
		// Fast path: same shape, vectorized kernel
		switch a.DType() {
		case tensor.Complex128:
			dst := result.AsComplex128()
			copy(dst, a.AsComplex128())
			k.vecC(dst, b.AsComplex128())
		default:
			dst := result.AsFloat64()
			copy(dst, a.AsFloat64())
			k.vecF(dst, b.AsFloat64())
		}
		return result
	}

	// Slow path: broadcasting required
	aOff := broadcastOffsets(a.Shape(), outShape)
	bOff := broadcastOffsets(b.Shape(), outShape)
	switch a.DType() {
	case tensor.Complex128:
		dst, x, y := result.AsComplex128(), a.AsComplex128(), b.AsComplex128()
		for i := range dst {
			dst[i] = k.c(x[aOff[i]], y[bOff[i]])
		}
	default:
		dst, x, y := result.AsFloat64(), a.AsFloat64(), b.AsFloat64()
		for i := range dst {
			dst[i] = k.f(x[aOff[i]], y[bOff[i]])
		}
	}
	return result
}

// broadcastOffsets maps every flat position of outShape to the flat position
// of the (broadcast) source shape.
func broadcastOffsets(src, outShape tensor.Shape) []int {
	n := outShape.NumElements()
	offsets := make([]int, n)

	// Source strides aligned to the right of outShape, zero on broadcast axes.
	rank := len(outShape)
	srcStrides := src.ComputeStrides()
	strides := make([]int, rank)
	for i := 0; i < len(src); i++ {
		d := rank - len(src) + i
		if src[i] != 1 {
			strides[d] = srcStrides[i]
		}
	}

	idx := make([]int, rank)
	off := 0
	for i := 0; i < n; i++ {
		offsets[i] = off
		// Increment the multi-index (row-major odometer).
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
	return offsets
}
