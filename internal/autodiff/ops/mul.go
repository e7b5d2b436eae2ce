package ops

import "github.com/born-ml/photonic/internal/tensor"

// MulOp represents element-wise multiplication: output = a * b.
//
// Backward pass:
//   - grad_a = outputGrad * conj(b)
//   - grad_b = outputGrad * conj(a)
type MulOp struct {
	node
}

// NewMulOp creates a new MulOp.
func NewMulOp(a, b, output *tensor.RawTensor) *MulOp {
	return &MulOp{newNode(output, a, b)}
}

// Backward computes input gradients for multiplication.
func (op *MulOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	a, b := op.inputs[0], op.inputs[1]

	gradA := backend.Mul(outputGrad, backend.Conj(b))
	gradB := backend.Mul(outputGrad, backend.Conj(a))

	return []*tensor.RawTensor{
		like(reduceBroadcast(gradA, a.Shape(), backend), a, backend),
		like(reduceBroadcast(gradB, b.Shape(), backend), b, backend),
	}
}

// DivOp represents element-wise division: output = a / b.
//
// Backward pass:
//   - grad_a = outputGrad / conj(b)
//   - grad_b = -outputGrad * conj(a / b²)
type DivOp struct {
	node
}

// NewDivOp creates a new DivOp.
func NewDivOp(a, b, output *tensor.RawTensor) *DivOp {
	return &DivOp{newNode(output, a, b)}
}

// Backward computes input gradients for division.
func (op *DivOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	a, b := op.inputs[0], op.inputs[1]

	gradA := backend.Div(outputGrad, backend.Conj(b))

	// a / b² = output / b
	gradB := backend.Mul(outputGrad, backend.Conj(backend.Div(op.output, b)))
	gradB = backend.MulScalar(gradB, -1)

	return []*tensor.RawTensor{
		like(reduceBroadcast(gradA, a.Shape(), backend), a, backend),
		like(reduceBroadcast(gradB, b.Shape(), backend), b, backend),
	}
}
