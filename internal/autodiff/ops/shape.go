package ops

import "github.com/born-ml/photonic/internal/tensor"

// ReshapeOp represents a reshape. The gradient is reshaped back.
type ReshapeOp struct {
	node
}

// NewReshapeOp creates a new ReshapeOp.
func NewReshapeOp(x, output *tensor.RawTensor) *ReshapeOp {
	return &ReshapeOp{newNode(output, x)}
}

// Backward reshapes the gradient to the input shape.
func (op *ReshapeOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	x := op.inputs[0]
	return []*tensor.RawTensor{like(backend.Reshape(outputGrad, x.Shape()), x, backend)}
}

// TransposeOp represents an axis permutation.
//
// Backward applies the inverse permutation to the gradient.
type TransposeOp struct {
	node
	axes []int
}

// NewTransposeOp creates a new TransposeOp. An empty axes list reverses the axes.
func NewTransposeOp(x, output *tensor.RawTensor, axes []int) *TransposeOp {
	if len(axes) == 0 {
		rank := x.Rank()
		axes = make([]int, rank)
		for i := range axes {
			axes[i] = rank - 1 - i
		}
	}
	return &TransposeOp{node: newNode(output, x), axes: append([]int(nil), axes...)}
}

// Backward computes the input gradient for transpose.
func (op *TransposeOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	grad := backend.Transpose(outputGrad, tensor.InversePermutation(op.axes)...)
	return []*tensor.RawTensor{like(grad, op.inputs[0], backend)}
}
