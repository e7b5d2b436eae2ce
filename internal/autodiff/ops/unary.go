package ops

import (
	"math/cmplx"

	"github.com/born-ml/photonic/internal/tensor"
)

// ScaleOp represents multiplication by a constant: output = s * x.
type ScaleOp struct {
	node
	scalar complex128
}

// NewScaleOp creates a new ScaleOp.
func NewScaleOp(x, output *tensor.RawTensor, s complex128) *ScaleOp {
	return &ScaleOp{node: newNode(output, x), scalar: s}
}

// Backward returns conj(s) * outputGrad.
func (op *ScaleOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	grad := backend.MulScalar(outputGrad, cmplx.Conj(op.scalar))
	return []*tensor.RawTensor{like(grad, op.inputs[0], backend)}
}

// ShiftOp represents addition of a constant: output = x + s.
type ShiftOp struct {
	node
}

// NewShiftOp creates a new ShiftOp.
func NewShiftOp(x, output *tensor.RawTensor) *ShiftOp {
	return &ShiftOp{newNode(output, x)}
}

// Backward passes the gradient through.
func (op *ShiftOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{like(outputGrad, op.inputs[0], backend)}
}

// ConjOp represents complex conjugation. Its gradient is conj(outputGrad).
type ConjOp struct {
	node
}

// NewConjOp creates a new ConjOp.
func NewConjOp(x, output *tensor.RawTensor) *ConjOp {
	return &ConjOp{newNode(output, x)}
}

// Backward returns conj(outputGrad).
func (op *ConjOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{like(backend.Conj(outputGrad), op.inputs[0], backend)}
}

// ExpOp represents element-wise exponential: output = exp(x).
// Since d(exp(x))/dx = exp(x), the gradient is outputGrad * conj(output).
type ExpOp struct {
	node
}

// NewExpOp creates a new ExpOp.
func NewExpOp(x, output *tensor.RawTensor) *ExpOp {
	return &ExpOp{newNode(output, x)}
}

// Backward computes the input gradient for exp.
func (op *ExpOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	grad := backend.Mul(outputGrad, backend.Conj(op.output))
	return []*tensor.RawTensor{like(grad, op.inputs[0], backend)}
}

// CastOp represents a dtype conversion.
type CastOp struct {
	node
}

// NewCastOp creates a new CastOp.
func NewCastOp(x, output *tensor.RawTensor) *CastOp {
	return &CastOp{newNode(output, x)}
}

// Backward converts the gradient back to the input dtype. A real input takes
// the real part of a complex gradient.
func (op *CastOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{like(outputGrad, op.inputs[0], backend)}
}
