// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package fock converts Gaussian states and transformations to truncated
// photon-number tensors and operates on them.
//
// Example:
//
//	import (
//	    "github.com/born-ml/photonic/backend/cpu"
//	    "github.com/born-ml/photonic/fock"
//	)
//
//	func main() {
//	    space := fock.New(cpu.New(), fock.DefaultPhysics())
//
//	    state, _ := fock.Coherent([]float64{1}, []float64{0}, 2)
//	    cov, means, _ := state.Tensors()
//	    ket, _ := space.WignerToFockState(cov, means, []int{10}, false)
//	    n, _ := space.NumberMeans(ket, false)
//	}
package fock

import (
	"github.com/born-ml/photonic/internal/config"
	"github.com/born-ml/photonic/internal/fock"
	"github.com/born-ml/photonic/internal/gaussian"
	"github.com/born-ml/photonic/internal/tensor"
)

// Space runs Fock-layer operations with one backend and one physics configuration.
type Space = fock.Space

// Option configures a Space.
type Option = fock.Option

// Physics contains the numerical settings of the Fock layer.
type Physics = config.Physics

// GaussianState is a covariance matrix and a means vector in xxpp ordering.
type GaussianState = gaussian.State

// Options.
var (
	WithParallel = fock.WithParallel
	WithLogger   = fock.WithLogger
	WithMetrics  = fock.WithMetrics
)

// Errors returned by the Fock layer.
var (
	ErrShapeMismatch   = fock.ErrShapeMismatch
	ErrMixedState      = fock.ErrMixedState
	ErrInvalidOperator = fock.ErrInvalidOperator
	ErrNotSingleMode   = fock.ErrNotSingleMode
)

// Gaussian states.
var (
	Vacuum                = gaussian.Vacuum
	Coherent              = gaussian.Coherent
	SqueezedVacuum        = gaussian.SqueezedVacuum
	Thermal               = gaussian.Thermal
	TwoModeSqueezedVacuum = gaussian.TwoModeSqueezedVacuum
)

// New creates a Space.
func New(b tensor.Backend, cfg Physics, opts ...Option) *Space {
	return fock.New(b, cfg, opts...)
}

// DefaultPhysics returns the default physics settings (ħ = 2).
func DefaultPhysics() Physics {
	return config.Default().Physics
}

// EstimateQuadratureAxis returns a quadrature axis, in units of √ħ, suited
// to states with the given cutoff.
func EstimateQuadratureAxis(cutoff int) []float64 {
	return fock.EstimateQuadratureAxis(cutoff, fock.DefaultXmaxMinimum, fock.DefaultPeriodResolution)
}
