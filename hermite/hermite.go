// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package hermite fills Fock amplitudes from a Bargmann triple (A, B, C).
//
// The amplitudes are the renormalized multidimensional Hermite polynomials
//
//	G[0] = C
//	G[n + e_i] = (B_i G[n] + Σ_j A_ij √n_j G[n - e_j]) / √(n_i + 1)
//
// computed shell by shell over the lattice 0..cutoffs. VJP pulls a gradient
// of the amplitudes back to (A, B, C) without differentiating through the
// recursion.
//
// Example:
//
//	import (
//	    "github.com/born-ml/photonic/hermite"
//	    "github.com/born-ml/photonic/tensor"
//	)
//
//	func main() {
//	    a, _ := tensor.RawFromComplex([]complex128{0}, tensor.Shape{1, 1})
//	    b, _ := tensor.RawFromComplex([]complex128{0.5}, tensor.Shape{1})
//	    c := tensor.RawScalar(0.8825)
//
//	    g, _ := hermite.Vanilla(a, b, c, []int{9}, hermite.WithParallel(hermite.DefaultParallel()))
//	    da, db, dc, _ := hermite.VJP(a, b, c, g, g)
//	}
package hermite

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/born-ml/photonic/internal/hermite"
	"github.com/born-ml/photonic/internal/metrics"
	"github.com/born-ml/photonic/internal/parallel"
)

// Option configures one engine call.
type Option = hermite.Option

// ParallelConfig controls the worker pool of a fill.
type ParallelConfig = parallel.Config

// Metrics holds the Prometheus collectors of the engine.
type Metrics = metrics.Engine

// Options.
var (
	WithParallel     = hermite.WithParallel
	WithLogger       = hermite.WithLogger
	WithMetrics      = hermite.WithMetrics
	WithMaxL2        = hermite.WithMaxL2
	WithGlobalCutoff = hermite.WithGlobalCutoff
)

// Errors returned by the engine before any amplitude is computed.
var (
	ErrInvalidCutoff = hermite.ErrInvalidCutoff
	ErrShapeMismatch = hermite.ErrShapeMismatch
)

// Amplitude fills. Vanilla covers the full lattice, Binomial stops early on
// a norm budget, Diagonal and OneLeftoverMode keep the photon-number diagonal
// of a doubled triple.
var (
	Vanilla         = hermite.Vanilla
	Binomial        = hermite.Binomial
	Diagonal        = hermite.Diagonal
	OneLeftoverMode = hermite.OneLeftoverMode
)

// Gradients. VJP returns (dA, dB, dC) for an upstream gradient on G in the
// conjugate Wirtinger convention. Jacobian returns G with ∂G/∂A and ∂G/∂B.
var (
	VJP      = hermite.VJP
	Jacobian = hermite.Jacobian
)

// DefaultParallel returns a worker configuration sized to the CPU count.
func DefaultParallel() ParallelConfig {
	return parallel.DefaultConfig()
}

// NewMetrics registers the engine collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return metrics.NewEngine(reg)
}
