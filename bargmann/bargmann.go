// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package bargmann converts Gaussian states and transformations into
// generating-function triples (A, B, C) with f(z) = C exp(½ zᵀAz + zᵀB).
//
// A triple feeds the hermite package, which expands it into Fock amplitudes.
//
// Example:
//
//	import (
//	    "github.com/born-ml/photonic/backend/cpu"
//	    "github.com/born-ml/photonic/bargmann"
//	    "github.com/born-ml/photonic/fock"
//	    "github.com/born-ml/photonic/hermite"
//	)
//
//	func main() {
//	    state, _ := fock.SqueezedVacuum([]float64{0.3}, []float64{0}, 2)
//	    cov, means, _ := state.Tensors()
//
//	    t, _ := bargmann.GaussianToTriple(cpu.New(), cov, means, bargmann.Ket.Request(2, nil))
//	    ket, _ := hermite.Vanilla(t.A, t.B, t.C, []int{20})
//	}
package bargmann

import "github.com/born-ml/photonic/internal/bargmann"

// Triple is a generating-function triple. A is [M, M], B is [M], C is a scalar.
type Triple = bargmann.Triple

// Mode selects which physical object a triple describes.
type Mode = bargmann.Mode

// Request describes one conversion. Mode.Request builds the usual ones.
type Request = bargmann.Request

// Supported modes.
const (
	Ket     = bargmann.Ket
	DM      = bargmann.DM
	Unitary = bargmann.Unitary
	Choi    = bargmann.Choi
)

// Errors returned before any computation starts.
var (
	ErrInvalidConfiguration = bargmann.ErrInvalidConfiguration
	ErrMissingParameter     = bargmann.ErrMissingParameter
	ErrShapeMismatch        = bargmann.ErrShapeMismatch
)

// Converters.
var (
	GaussianToTriple       = bargmann.GaussianToTriple
	TransformationToTriple = bargmann.TransformationToTriple
	HusimiQ                = bargmann.HusimiQ
)
