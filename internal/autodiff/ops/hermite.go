package ops

import "github.com/born-ml/photonic/internal/tensor"

// HermiteVJP maps an upstream gradient on the amplitude tensor G to gradients
// for the Gaussian triple (A, b, c).
type HermiteVJP func(a, b, c, g, dy *tensor.RawTensor) (da, db, dc *tensor.RawTensor, err error)

// HermiteOp represents the multidimensional Hermite recursion G = H(A, b, c).
//
// The gradient is not assembled from primitive ops: the recursion supplies its
// own vector-Jacobian product.
type HermiteOp struct {
	node
	vjp HermiteVJP
}

// NewHermiteOp creates a new HermiteOp.
func NewHermiteOp(a, b, c, output *tensor.RawTensor, vjp HermiteVJP) *HermiteOp {
	return &HermiteOp{node: newNode(output, a, b, c), vjp: vjp}
}

// Backward calls the recursion's VJP. It panics if the VJP rejects the
// recorded tensors, which were validated in the forward pass.
func (op *HermiteOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	a, b, c := op.inputs[0], op.inputs[1], op.inputs[2]
	dy := backend.Cast(outputGrad, tensor.Complex128)
	da, db, dc, err := op.vjp(a, b, c, op.output, dy)
	if err != nil {
		panic("hermite backward: " + err.Error())
	}
	return []*tensor.RawTensor{like(da, a, backend), like(db, b, backend), like(dc, c, backend)}
}
