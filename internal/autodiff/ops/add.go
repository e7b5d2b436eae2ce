package ops

import "github.com/born-ml/photonic/internal/tensor"

// AddOp represents element-wise addition: output = a + b.
// Broadcast inputs receive the gradient summed over the broadcast axes.
type AddOp struct {
	node
}

// NewAddOp creates a new AddOp.
func NewAddOp(a, b, output *tensor.RawTensor) *AddOp {
	return &AddOp{newNode(output, a, b)}
}

// Backward passes the gradient to both inputs.
func (op *AddOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	a, b := op.inputs[0], op.inputs[1]
	return []*tensor.RawTensor{
		like(reduceBroadcast(outputGrad, a.Shape(), backend), a, backend),
		like(reduceBroadcast(outputGrad, b.Shape(), backend), b, backend),
	}
}

// SubOp represents element-wise subtraction: output = a - b.
type SubOp struct {
	node
}

// NewSubOp creates a new SubOp.
func NewSubOp(a, b, output *tensor.RawTensor) *SubOp {
	return &SubOp{newNode(output, a, b)}
}

// Backward returns g for a and -g for b.
func (op *SubOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	a, b := op.inputs[0], op.inputs[1]
	gradB := backend.MulScalar(outputGrad, -1)
	return []*tensor.RawTensor{
		like(reduceBroadcast(outputGrad, a.Shape(), backend), a, backend),
		like(reduceBroadcast(gradB, b.Shape(), backend), b, backend),
	}
}
