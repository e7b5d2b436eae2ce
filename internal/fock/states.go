package fock

import (
	"fmt"
	"slices"

	"github.com/born-ml/photonic/internal/bargmann"
	"github.com/born-ml/photonic/internal/gaussian"
	"github.com/born-ml/photonic/internal/hermite"
	"github.com/born-ml/photonic/internal/tensor"
)

// FockState returns the ket |n⟩ with shape n+1.
func (s *Space) FockState(n []int) (*tensor.RawTensor, error) {
	shape := make(tensor.Shape, len(n))
	for i, v := range n {
		if v < 0 {
			return nil, fmt.Errorf("%w: negative photon number %d", ErrShapeMismatch, v)
		}
		shape[i] = v + 1
	}
	ket, err := tensor.NewRaw(shape, tensor.Complex128, s.backend.Device())
	if err != nil {
		return nil, err
	}
	ket.AsComplex128()[shape.Ravel(n)] = 1
	return ket, nil
}

// Autocutoffs suggests a dimension per mode from photon-number statistics:
// min + int(mean + stdev·factor), clipped to [min, max].
func (s *Space) Autocutoffs(stdev, means []float64) []int {
	out := make([]int, len(means))
	for i := range means {
		c := s.cfg.AutocutoffMin + int(means[i]+stdev[i]*s.cfg.AutocutoffStdevFactor)
		out[i] = min(max(c, s.cfg.AutocutoffMin), s.cfg.AutocutoffMax)
	}
	return out
}

// GaussianAutocutoffs suggests a dimension per mode for a Gaussian state.
func (s *Space) GaussianAutocutoffs(state gaussian.State) []int {
	means, stdevs := gaussian.NumberStats(state, s.cfg.Hbar)
	return s.Autocutoffs(stdevs, means)
}

func (s *Space) triple(cov, means *tensor.RawTensor, mode bargmann.Mode, dims int) (bargmann.Triple, error) {
	t, err := bargmann.GaussianToTriple(s.backend, cov, means, mode.Request(s.cfg.Hbar, nil))
	if err != nil {
		return bargmann.Triple{}, err
	}
	if t.Dim() != dims {
		return bargmann.Triple{}, fmt.Errorf("%w: %s triple of dimension %d for %d axes", ErrShapeMismatch, mode, t.Dim(), dims)
	}
	return t, nil
}

// WignerToFockState returns the ket, or the density matrix when returnDM is
// set, of a Gaussian state. shape has one dimension per mode; a density
// matrix has shape (shape..., shape...).
//
// A ket of a mixed covariance is meaningless; callers choose returnDM for
// mixed states.
func (s *Space) WignerToFockState(cov, means *tensor.RawTensor, shape []int, returnDM bool) (*tensor.RawTensor, error) {
	mode, dims := bargmann.Ket, shape
	if returnDM {
		mode, dims = bargmann.DM, slices.Concat(shape, shape)
	}
	t, err := s.triple(cov, means, mode, len(dims))
	if err != nil {
		return nil, err
	}
	s.log.Debug().Stringer("mode", mode).Ints("shape", dims).Msg("wigner to fock")
	return hermite.Vanilla(t.A, t.B, t.C, cutoffs(dims), s.engine()...)
}

// WignerToFockStateAdaptive returns the ket of a pure Gaussian state filled
// shell by shell until the captured probability exceeds the configured
// autocutoff probability. It also returns the captured probability.
func (s *Space) WignerToFockStateAdaptive(cov, means *tensor.RawTensor, shape []int) (*tensor.RawTensor, float64, error) {
	t, err := s.triple(cov, means, bargmann.Ket, len(shape))
	if err != nil {
		return nil, 0, err
	}
	ket, norm, err := hermite.Binomial(t.A, t.B, t.C, cutoffs(shape),
		s.engine(hermite.WithMaxL2(s.cfg.AutocutoffProbability))...)
	if err != nil {
		return nil, 0, err
	}
	s.log.Debug().Ints("shape", shape).Float64("norm", norm).Msg("adaptive wigner to fock")
	return ket, norm, nil
}

// WignerToFockProbs returns the photon-number distribution of a Gaussian
// state as a Float64 tensor with the given shape.
func (s *Space) WignerToFockProbs(cov, means *tensor.RawTensor, shape []int) (*tensor.RawTensor, error) {
	t, err := s.triple(cov, means, bargmann.DM, 2*len(shape))
	if err != nil {
		return nil, err
	}
	diag, err := hermite.Diagonal(t.A, t.B, t.C, cutoffs(shape), s.engine()...)
	if err != nil {
		return nil, err
	}
	return s.backend.Cast(diag, tensor.Float64), nil
}

// WignerToFockTransformation returns the unitary (out..., in...) of the
// Gaussian transformation (X, Y, d), or its Choi tensor
// (out_l, in_l, out_r, in_r) when returnChoi is set. shape has one dimension
// per mode.
func (s *Space) WignerToFockTransformation(X, Y, d *tensor.RawTensor, shape []int, returnChoi bool) (*tensor.RawTensor, error) {
	t, err := bargmann.TransformationToTriple(s.backend, X, Y, d, returnChoi, s.cfg.Hbar, s.cfg.ChoiR)
	if err != nil {
		return nil, err
	}
	dims := slices.Concat(shape, shape)
	if returnChoi {
		dims = slices.Concat(dims, dims)
	}
	if t.Dim() != len(dims) {
		return nil, fmt.Errorf("%w: transformation triple of dimension %d for %d axes", ErrShapeMismatch, t.Dim(), len(dims))
	}
	return hermite.Vanilla(t.A, t.B, t.C, cutoffs(dims), s.engine()...)
}
