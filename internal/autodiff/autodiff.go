// Package autodiff implements automatic differentiation using the decorator pattern.
//
// AutodiffBackend wraps any Backend implementation and adds gradient tracking
// through a GradientTape. Gradients of real losses with respect to complex
// tensors use the conjugate Wirtinger convention, the same one the amplitude
// engine's VJP uses, so the Hermite recursion composes with ordinary tensor
// algebra.
//
// Architecture:
//   - Decorator pattern: AutodiffBackend[B] wraps any Backend implementation
//   - GradientTape: Records operations during forward pass
//   - Operation interface: Each op (Add, Mul, MatMul, Hermite) implements backward pass
//   - Reverse-mode AD: Computes gradients efficiently using chain rule
//
// Routines without a recorded rule (Sqrt, Abs, Det, EigH, Sqrtm, Truncate,
// SumAxes) pass through and block gradient flow.
//
// Usage:
//
//	backend := autodiff.New(cpu.New())
//	backend.Tape().StartRecording()
//	g, _ := backend.Hermite(a, b, c, []int{5, 5})
//	loss := backend.Sum(backend.Mul(g, backend.Conj(g)))
//	grads := backend.Tape().Backward(loss, tensor.RawScalar(1), backend)
package autodiff

import (
	"github.com/born-ml/photonic/internal/autodiff/ops"
	"github.com/born-ml/photonic/internal/hermite"
	"github.com/born-ml/photonic/internal/tensor"
)

// AutodiffBackend wraps a Backend and adds automatic differentiation.
// It implements the tensor.Backend interface and records operations in a GradientTape.
//
// Type parameter B must satisfy the tensor.Backend interface.
type AutodiffBackend[B tensor.Backend] struct {
	inner B             // Wrapped backend
	tape  *GradientTape // Records operations for backpropagation
}

// New creates a new AutodiffBackend wrapping the given backend.
func New[B tensor.Backend](backend B) *AutodiffBackend[B] {
	return &AutodiffBackend[B]{
		inner: backend,
		tape:  NewGradientTape(),
	}
}

// Tape returns the gradient tape for manual control.
func (b *AutodiffBackend[B]) Tape() *GradientTape {
	return b.tape
}

// Inner returns the wrapped backend for direct access.
func (b *AutodiffBackend[B]) Inner() B {
	return b.inner
}

// Name returns the backend name.
func (b *AutodiffBackend[B]) Name() string {
	return "Autodiff(" + b.inner.Name() + ")"
}

// Device returns the compute device.
func (b *AutodiffBackend[B]) Device() tensor.Device {
	return b.inner.Device()
}

// Add performs element-wise addition and records the operation.
func (b *AutodiffBackend[B]) Add(x, y *tensor.RawTensor) *tensor.RawTensor {
	out := b.inner.Add(x, y)
	b.tape.Record(ops.NewAddOp(x, y, out))
	return out
}

// Sub performs element-wise subtraction and records the operation.
func (b *AutodiffBackend[B]) Sub(x, y *tensor.RawTensor) *tensor.RawTensor {
	out := b.inner.Sub(x, y)
	b.tape.Record(ops.NewSubOp(x, y, out))
	return out
}

// Mul performs element-wise multiplication and records the operation.
func (b *AutodiffBackend[B]) Mul(x, y *tensor.RawTensor) *tensor.RawTensor {
	out := b.inner.Mul(x, y)
	b.tape.Record(ops.NewMulOp(x, y, out))
	return out
}

// Div performs element-wise division and records the operation.
func (b *AutodiffBackend[B]) Div(x, y *tensor.RawTensor) *tensor.RawTensor {
	out := b.inner.Div(x, y)
	b.tape.Record(ops.NewDivOp(x, y, out))
	return out
}

// MulScalar multiplies by a constant and records the operation.
func (b *AutodiffBackend[B]) MulScalar(x *tensor.RawTensor, s complex128) *tensor.RawTensor {
	out := b.inner.MulScalar(x, s)
	b.tape.Record(ops.NewScaleOp(x, out, s))
	return out
}

// AddScalar adds a constant and records the operation.
func (b *AutodiffBackend[B]) AddScalar(x *tensor.RawTensor, s complex128) *tensor.RawTensor {
	out := b.inner.AddScalar(x, s)
	b.tape.Record(ops.NewShiftOp(x, out))
	return out
}

// Exp computes exp(x) and records the operation.
func (b *AutodiffBackend[B]) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	out := b.inner.Exp(x)
	b.tape.Record(ops.NewExpOp(x, out))
	return out
}

// Conj conjugates x and records the operation.
func (b *AutodiffBackend[B]) Conj(x *tensor.RawTensor) *tensor.RawTensor {
	out := b.inner.Conj(x)
	b.tape.Record(ops.NewConjOp(x, out))
	return out
}

// Sqrt is not differentiated.
func (b *AutodiffBackend[B]) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	return b.inner.Sqrt(x)
}

// Abs is not differentiated.
func (b *AutodiffBackend[B]) Abs(x *tensor.RawTensor) *tensor.RawTensor {
	return b.inner.Abs(x)
}

// MatMul performs matrix multiplication and records the operation.
func (b *AutodiffBackend[B]) MatMul(x, y *tensor.RawTensor) *tensor.RawTensor {
	out := b.inner.MatMul(x, y)
	b.tape.Record(ops.NewMatMulOp(x, y, out))
	return out
}

// Inv inverts a matrix and records the operation on success.
func (b *AutodiffBackend[B]) Inv(x *tensor.RawTensor) (*tensor.RawTensor, error) {
	out, err := b.inner.Inv(x)
	if err != nil {
		return nil, err
	}
	b.tape.Record(ops.NewInvOp(x, out))
	return out, nil
}

// Det is not differentiated.
func (b *AutodiffBackend[B]) Det(x *tensor.RawTensor) (complex128, error) {
	return b.inner.Det(x)
}

// EigH is not differentiated.
func (b *AutodiffBackend[B]) EigH(x *tensor.RawTensor) (values, vectors *tensor.RawTensor, err error) {
	return b.inner.EigH(x)
}

// Sqrtm is not differentiated.
func (b *AutodiffBackend[B]) Sqrtm(x *tensor.RawTensor) (*tensor.RawTensor, error) {
	return b.inner.Sqrtm(x)
}

// Reshape reshapes x and records the operation.
func (b *AutodiffBackend[B]) Reshape(x *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	out := b.inner.Reshape(x, newShape)
	b.tape.Record(ops.NewReshapeOp(x, out))
	return out
}

// Transpose permutes the axes of x and records the operation.
func (b *AutodiffBackend[B]) Transpose(x *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	out := b.inner.Transpose(x, axes...)
	b.tape.Record(ops.NewTransposeOp(x, out, axes))
	return out
}

// Truncate is not differentiated.
func (b *AutodiffBackend[B]) Truncate(x *tensor.RawTensor, limits tensor.Shape) *tensor.RawTensor {
	return b.inner.Truncate(x, limits)
}

// Outer computes the outer product and records it as a contraction over no axes.
func (b *AutodiffBackend[B]) Outer(x, y *tensor.RawTensor) *tensor.RawTensor {
	out := b.inner.Outer(x, y)
	b.tape.Record(ops.NewTensordotOp(x, y, out, nil, nil))
	return out
}

// Tensordot contracts x and y over paired axes and records the operation.
func (b *AutodiffBackend[B]) Tensordot(x, y *tensor.RawTensor, axesX, axesY []int) *tensor.RawTensor {
	out := b.inner.Tensordot(x, y, axesX, axesY)
	b.tape.Record(ops.NewTensordotOp(x, y, out, axesX, axesY))
	return out
}

// Sum reduces x to a scalar and records the operation.
func (b *AutodiffBackend[B]) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	out := b.inner.Sum(x)
	b.tape.Record(ops.NewSumOp(x, out))
	return out
}

// SumAxes is not differentiated.
func (b *AutodiffBackend[B]) SumAxes(x *tensor.RawTensor, axes []int) *tensor.RawTensor {
	return b.inner.SumAxes(x, axes)
}

// Diagonal extracts a diagonal and records the operation.
func (b *AutodiffBackend[B]) Diagonal(x *tensor.RawTensor, axis1, axis2 int) *tensor.RawTensor {
	out := b.inner.Diagonal(x, axis1, axis2)
	b.tape.Record(ops.NewDiagonalOp(x, out, axis1, axis2))
	return out
}

// Cast converts x to dtype. A no-op cast returns x and records nothing.
func (b *AutodiffBackend[B]) Cast(x *tensor.RawTensor, dtype tensor.DataType) *tensor.RawTensor {
	out := b.inner.Cast(x, dtype)
	if out != x {
		b.tape.Record(ops.NewCastOp(x, out))
	}
	return out
}

// Hermite runs the amplitude recursion for the triple (a, bv, c) and records
// it with the recursion's closed-form VJP. The same options drive the
// backward pass.
func (b *AutodiffBackend[B]) Hermite(a, bv, c *tensor.RawTensor, cutoffs []int, opts ...hermite.Option) (*tensor.RawTensor, error) {
	out, err := hermite.Vanilla(a, bv, c, cutoffs, opts...)
	if err != nil {
		return nil, err
	}
	vjp := func(a, bv, c, g, dy *tensor.RawTensor) (da, db, dc *tensor.RawTensor, err error) {
		return hermite.VJP(a, bv, c, g, dy, opts...)
	}
	b.tape.Record(ops.NewHermiteOp(a, bv, c, out, vjp))
	return out, nil
}
