// Package ops defines the differentiable operations recorded by the gradient tape.
//
// Each operation keeps its inputs and output from the forward pass and maps an
// output gradient to input gradients. Gradients follow the conjugate Wirtinger
// convention: for a real loss L and a complex tensor x the gradient is
// ∂L/∂Re x + i ∂L/∂Im x, so a holomorphic y = f(x) pulls g back as conj(f'(x)) g.
// Real inputs receive the real part of that gradient.
//
// Supported operations:
//   - AddOp, SubOp: g, ±g
//   - MulOp: g conj(b), g conj(a)
//   - DivOp: g / conj(b), -g conj(a / b²)
//   - ScaleOp, ShiftOp: conj(s) g, g
//   - ConjOp: conj(g)
//   - ExpOp: g conj(exp(x))
//   - MatMulOp: g Bᴴ, Aᴴ g
//   - InvOp: -Yᴴ g Yᴴ
//   - ReshapeOp, TransposeOp: inverse reshape or permutation
//   - TensordotOp: contraction of g with the conjugate of the other operand
//   - SumOp, DiagonalOp: broadcast or scatter of g
//   - CastOp: dtype conversion of g
//   - HermiteOp: the closed-form VJP of the amplitude engine
package ops

import "github.com/born-ml/photonic/internal/tensor"

// Operation represents a differentiable operation in the computation graph.
type Operation interface {
	// Backward computes gradients for inputs given the output gradient.
	// Returns one gradient per input; nil means no gradient flows there.
	Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor

	// Inputs returns the input tensors for this operation.
	Inputs() []*tensor.RawTensor

	// Output returns the output tensor produced by this operation.
	Output() *tensor.RawTensor
}

// node stores the recorded tensors shared by every operation.
type node struct {
	inputs []*tensor.RawTensor
	output *tensor.RawTensor
}

func newNode(output *tensor.RawTensor, inputs ...*tensor.RawTensor) node {
	return node{inputs: inputs, output: output}
}

// Inputs returns the recorded inputs.
func (n node) Inputs() []*tensor.RawTensor {
	return n.inputs
}

// Output returns the recorded output.
func (n node) Output() *tensor.RawTensor {
	return n.output
}
