// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the array types shared by the photonic packages.
//
// # Overview
//
// Amplitudes, density matrices, unitaries and Bargmann triples are
// complex128 tensors. Covariance matrices, probabilities and quadrature axes
// are float64 tensors. This package provides:
//   - Generic type-safe tensors (Tensor[T, B])
//   - RawTensor, the untyped storage every backend works on
//   - The Backend contract used by the amplitude engine and the Fock layer
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/photonic/backend/cpu"
//	    "github.com/born-ml/photonic/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    a, _ := tensor.FromSlice([]complex128{1, 1i, -1i, 2}, tensor.Shape{2, 2}, backend)
//	    h := a.H()              // conjugate transpose
//	    y := a.MatMul(h).Sum()  // scalar tensor
//	}
//
// # Broadcasting
//
// Element-wise operations follow NumPy broadcasting rules:
//
//	a := tensor.Zeros[complex128](tensor.Shape{3, 1}, backend) // (3, 1)
//	b := tensor.Ones[complex128](tensor.Shape{3, 4}, backend)  // (3, 4)
//	c := a.Add(b)                                              // (3, 4)
//
// # Memory Management
//
// Tensors are contiguous and row-major. Buffers are reference-counted and
// shared by clones. Backends never write into their inputs.
package tensor
