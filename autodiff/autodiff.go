// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides automatic differentiation capabilities.
//
// This package implements reverse-mode automatic differentiation using a
// gradient tape. It wraps any backend, and its Hermite method records the
// amplitude engine so that losses built on Fock amplitudes can be
// differentiated with respect to the Bargmann triple (A, B, C).
//
// Gradients follow the conjugate Wirtinger convention: for a real loss L and
// a complex input z the gradient is ∂L/∂Re z + i ∂L/∂Im z.
//
// Example:
//
//	import (
//	    "github.com/born-ml/photonic/autodiff"
//	    "github.com/born-ml/photonic/backend/cpu"
//	    "github.com/born-ml/photonic/tensor"
//	)
//
//	func main() {
//	    backend := autodiff.New(cpu.New())
//	    backend.Tape().StartRecording()
//
//	    g, _ := backend.Hermite(a, b, c, []int{4, 4})
//	    loss := backend.Sum(backend.Mul(g, backend.Conj(g)))
//
//	    grads := autodiff.Backward(tensor.New[complex128](loss, backend), backend)
//	    dA := grads[a]
//	}
package autodiff

import (
	"github.com/born-ml/photonic/internal/autodiff"
	"github.com/born-ml/photonic/internal/tensor"
)

// Backend is the autodiff-enabled backend.
type Backend[B tensor.Backend] = autodiff.AutodiffBackend[B]

// New creates a new autodiff backend wrapping the given backend.
func New[B tensor.Backend](backend B) *Backend[B] {
	return autodiff.New(backend)
}

// GradientTape records operations for automatic differentiation.
type GradientTape = autodiff.GradientTape

// NewGradientTape creates a new gradient tape.
func NewGradientTape() *GradientTape {
	return autodiff.NewGradientTape()
}

// BackwardCapable interface for backends that support backpropagation.
type BackwardCapable = autodiff.BackwardCapable

// Backward computes the gradients of t with respect to every recorded input,
// seeding the output gradient with ones.
func Backward[T tensor.DType, B BackwardCapable](t *tensor.Tensor[T, B], backend B) map[*tensor.RawTensor]*tensor.RawTensor {
	return autodiff.Backward(t, backend)
}
