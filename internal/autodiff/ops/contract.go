package ops

import (
	"slices"

	"github.com/born-ml/photonic/internal/tensor"
)

// TensordotOp represents a tensor contraction over paired axes.
//
// The output axes are the free axes of a followed by the free axes of b.
// Each input gradient contracts the output gradient with the conjugate of the
// other operand over that operand's free axes, then restores the input's axis
// order.
type TensordotOp struct {
	node
	axesA, axesB []int
}

// NewTensordotOp creates a new TensordotOp. Nil axes describe an outer product.
func NewTensordotOp(a, b, output *tensor.RawTensor, axesA, axesB []int) *TensordotOp {
	return &TensordotOp{
		node:  newNode(output, a, b),
		axesA: slices.Clone(axesA),
		axesB: slices.Clone(axesB),
	}
}

// Backward computes input gradients for the contraction.
func (op *TensordotOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	a, b := op.inputs[0], op.inputs[1]
	freeA := free(a.Rank(), op.axesA)
	freeB := free(b.Rank(), op.axesB)

	// Output positions of b's free axes in the gradient.
	gradFreeB := make([]int, len(freeB))
	for i := range freeB {
		gradFreeB[i] = len(freeA) + i
	}
	gradFreeA := make([]int, len(freeA))
	for i := range freeA {
		gradFreeA[i] = i
	}

	// grad_a axes: freeA..., then b's contracted axes in order, relabelled to a.
	gradA := backend.Tensordot(outputGrad, backend.Conj(b), gradFreeB, freeB)
	labelsA := append(slices.Clone(freeA), paired(op.axesB, op.axesA)...)
	gradA = backend.Transpose(gradA, tensor.InversePermutation(labelsA)...)

	// grad_b axes: a's contracted axes in order relabelled to b, then freeB...
	gradB := backend.Tensordot(backend.Conj(a), outputGrad, freeA, gradFreeA)
	labelsB := append(paired(op.axesA, op.axesB), freeB...)
	gradB = backend.Transpose(gradB, tensor.InversePermutation(labelsB)...)

	return []*tensor.RawTensor{like(gradA, a, backend), like(gradB, b, backend)}
}

// free returns the axes of a rank-n tensor not listed in contracted, ascending.
func free(rank int, contracted []int) []int {
	out := make([]int, 0, rank-len(contracted))
	for d := 0; d < rank; d++ {
		if !slices.Contains(contracted, d) {
			out = append(out, d)
		}
	}
	return out
}

// paired walks from's axes in ascending order and returns the partner of each
// in to.
func paired(from, to []int) []int {
	order := make([]int, len(from))
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(i, j int) int { return from[i] - from[j] })

	out := make([]int, len(order))
	for k, i := range order {
		out[k] = to[i]
	}
	return out
}
