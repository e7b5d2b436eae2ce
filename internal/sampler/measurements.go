package sampler

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/photonic/internal/fock"
	"github.com/born-ml/photonic/internal/tensor"
)

// NewPNR returns a photon-number-resolving sampler with outcomes
// 0..cutoff-1 on a single-mode state. Dimensions of the state beyond cutoff
// are ignored and missing ones count as zero.
func NewPNR(space *fock.Space, cutoff int, opts ...Option) *Sampler {
	outcomes := make([]float64, cutoff)
	for n := range outcomes {
		outcomes[n] = float64(n)
	}
	return NewFunc(outcomes, func(state *tensor.RawTensor, isDM bool) ([]float64, error) {
		if want := 1 + btoi(isDM); state.Rank() != want {
			return nil, fmt.Errorf("%w: state of shape %v", fock.ErrNotSingleMode, state.Shape())
		}
		var diag *tensor.RawTensor
		if isDM {
			var err error
			if diag, err = space.DMToProbs(state); err != nil {
				return nil, err
			}
		} else {
			diag = space.KetToProbs(state)
		}
		probs := make([]float64, cutoff)
		copy(probs, diag.AsFloat64())
		return clip(probs), nil
	}, opts...)
}

// NewHomodyne returns a sampler of the x quadrature of a single-mode state
// with bins outcomes evenly spaced over [lo, hi].
func NewHomodyne(space *fock.Space, lo, hi float64, bins int, opts ...Option) (*Sampler, error) {
	if bins < 2 || !(hi > lo) {
		return nil, fmt.Errorf("%w: %d bins over [%g, %g]", ErrShapeMismatch, bins, lo, hi)
	}
	outcomes := floats.Span(make([]float64, bins), lo, hi)
	return NewFunc(outcomes, func(state *tensor.RawTensor, _ bool) ([]float64, error) {
		_, pdf, err := space.QuadratureDistribution(state, 0, outcomes)
		if err != nil {
			return nil, err
		}
		return clip(pdf), nil
	}, opts...), nil
}

// clip zeroes the small negative values left by round-off.
func clip(p []float64) []float64 {
	for i, v := range p {
		p[i] = math.Max(v, 0)
	}
	return p
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}
