package ops

import (
	"github.com/born-ml/photonic/internal/tensor"
)

// SumOp represents a full reduction to a scalar. Every input element receives
// the scalar gradient.
type SumOp struct {
	node
}

// NewSumOp creates a new SumOp.
func NewSumOp(x, output *tensor.RawTensor) *SumOp {
	return &SumOp{newNode(output, x)}
}

// Backward broadcasts the scalar gradient to the input shape.
func (op *SumOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	x := op.inputs[0]
	return []*tensor.RawTensor{like(fill(x.Shape(), outputGrad.Item(), backend), x, backend)}
}

// DiagonalOp represents extraction of the diagonal over two axes, appended as
// the last output axis. Backward scatters the gradient onto that diagonal.
type DiagonalOp struct {
	node
	axis1, axis2 int
}

// NewDiagonalOp creates a new DiagonalOp.
func NewDiagonalOp(x, output *tensor.RawTensor, axis1, axis2 int) *DiagonalOp {
	return &DiagonalOp{node: newNode(output, x), axis1: axis1, axis2: axis2}
}

// Backward computes the input gradient for diagonal extraction.
func (op *DiagonalOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	x := op.inputs[0]
	shape := x.Shape()
	strides := x.Strides()

	rest := make([]int, 0, len(shape)-2)
	for d := range shape {
		if d != op.axis1 && d != op.axis2 {
			rest = append(rest, d)
		}
	}

	grad := tensor.MustNewRaw(shape, tensor.Complex128, backend.Device())
	dst := grad.AsComplex128()
	src := backend.Cast(outputGrad, tensor.Complex128).AsComplex128()
	gshape := outputGrad.Shape()
	idx := make([]int, len(gshape))
	for i := range src {
		gshape.Unravel(i, idx)
		off := 0
		for j, d := range rest {
			off += idx[j] * strides[d]
		}
		k := idx[len(idx)-1]
		off += k * (strides[op.axis1] + strides[op.axis2])
		dst[off] += src[i]
	}
	return []*tensor.RawTensor{like(grad, x, backend)}
}
