package ops

import "github.com/born-ml/photonic/internal/tensor"

// MatMulOp represents a matrix multiplication operation: output = a @ b.
//
// Backward pass:
//   - grad_a = outputGrad @ bᴴ
//   - grad_b = aᴴ @ outputGrad
type MatMulOp struct {
	node
}

// NewMatMulOp creates a new MatMulOp.
func NewMatMulOp(a, b, output *tensor.RawTensor) *MatMulOp {
	return &MatMulOp{newNode(output, a, b)}
}

// Backward computes input gradients for matrix multiplication.
func (op *MatMulOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	a, b := op.inputs[0], op.inputs[1]

	gradA := backend.MatMul(outputGrad, adjoint(b, backend))
	gradB := backend.MatMul(adjoint(a, backend), outputGrad)

	return []*tensor.RawTensor{like(gradA, a, backend), like(gradB, b, backend)}
}

// InvOp represents a matrix inverse: output = a⁻¹.
//
// From d(a⁻¹) = -a⁻¹ da a⁻¹ the gradient is -Yᴴ @ outputGrad @ Yᴴ with Y = a⁻¹.
type InvOp struct {
	node
}

// NewInvOp creates a new InvOp.
func NewInvOp(a, output *tensor.RawTensor) *InvOp {
	return &InvOp{newNode(output, a)}
}

// Backward computes the input gradient for the inverse.
func (op *InvOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	yh := adjoint(op.output, backend)
	grad := backend.MatMul(backend.MatMul(yh, outputGrad), yh)
	grad = backend.MulScalar(grad, -1)
	return []*tensor.RawTensor{like(grad, op.inputs[0], backend)}
}
