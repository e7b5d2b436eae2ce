package fock

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/born-ml/photonic/internal/hermite"
	"github.com/born-ml/photonic/internal/parallel"
	"github.com/born-ml/photonic/internal/tensor"
)

// Defaults of the quadrature axis estimate.
const (
	DefaultPeriodResolution = 20
	DefaultXmaxMinimum      = 5.0
)

// OscillatorEigenstate returns ψ_n(q_j) = ⟨n|q_j⟩ for n < cutoff as a
// Float64 tensor of shape [cutoff, len(q)]. q is in the same units as the
// quadratures, so x = q/√ħ is dimensionless.
//
// The Hermite functions come from the engine with A = [[-2]], B = [2x] and
// C = 1, which yields H_n(x)/√n!.
func (s *Space) OscillatorEigenstate(q []float64, cutoff int) (*tensor.RawTensor, error) {
	if cutoff < 1 {
		return nil, fmt.Errorf("%w: cutoff %d", ErrShapeMismatch, cutoff)
	}
	a, err := tensor.RawFromComplex([]complex128{-2}, tensor.Shape{1, 1})
	if err != nil {
		return nil, err
	}
	c := tensor.RawScalar(1)
	scale := math.Sqrt(1 / s.cfg.Hbar)
	pre := math.Pow(1/(math.Pi*s.cfg.Hbar), 0.25)

	out := tensor.MustNewRaw(tensor.Shape{cutoff, len(q)}, tensor.Float64, s.backend.Device())
	psi := out.AsFloat64()
	errs := make([]error, len(q))
	parallel.For(len(q), func(j int) {
		x := q[j] * scale
		b, err := tensor.RawFromComplex([]complex128{complex(2*x, 0)}, tensor.Shape{1})
		if err != nil {
			errs[j] = err
			return
		}
		g, err := hermite.Vanilla(a, b, c, []int{cutoff - 1}, hermite.WithLogger(s.root), hermite.WithMetrics(s.metrics))
		if err != nil {
			errs[j] = err
			return
		}
		gauss := pre * math.Exp(-x*x/2)
		for n, h := range g.AsComplex128() {
			psi[n*len(q)+j] = gauss * math.Pow(2, -float64(n)/2) * real(h)
		}
	}, s.par)
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("fock: oscillator eigenstate: %w", err)
	}
	return out, nil
}

// EstimateDx returns a quadrature step that samples the fastest oscillation
// of Fock state cutoff, of angular frequency √(2(cutoff+1)), with
// periodResolution points.
func EstimateDx(cutoff, periodResolution int) float64 {
	period := 2 * math.Pi / math.Sqrt(2*float64(cutoff+1))
	return period / float64(periodResolution)
}

// EstimateXmax returns a quadrature half-range past the classical turning
// point of Fock state cutoff, at least minimum.
func EstimateXmax(cutoff int, minimum float64) float64 {
	est := 3.0
	if cutoff != 0 {
		c := float64(cutoff)
		excess := 1 / (7.464 * math.Cbrt(c))
		est = math.Sqrt(2*c) * (1 + 5*excess)
	}
	return math.Max(minimum, est)
}

// EstimateQuadratureAxis returns an evenly spaced axis centered on 0 that
// covers [-xmax, xmax] with step EstimateDx.
func EstimateQuadratureAxis(cutoff int, minimum float64, periodResolution int) []float64 {
	xmax := EstimateXmax(cutoff, minimum)
	dx := EstimateDx(cutoff, periodResolution)
	n := int(math.Ceil(2 * xmax / dx))
	half := float64(n) * dx / 2
	return floats.Span(make([]float64, n+1), -half, half)
}

// singleMode returns the dimension of a single-mode ket (rank 1) or density
// matrix (rank 2).
func singleMode(state *tensor.RawTensor) (d int, isDM bool, err error) {
	switch state.Rank() {
	case 1:
		return state.Shape()[0], false, nil
	case 2:
		if _, err := halfRank(state); err != nil {
			return 0, false, err
		}
		return state.Shape()[0], true, nil
	}
	return 0, false, fmt.Errorf("%w: state of shape %v", ErrNotSingleMode, state.Shape())
}

// QuadratureDistribution returns the probability density of the quadrature
// at angle over the points x of a single-mode ket or density matrix. A nil
// x selects √ħ times the estimated quadrature axis. It returns the points
// together with the density.
func (s *Space) QuadratureDistribution(state *tensor.RawTensor, angle float64, x []float64) ([]float64, []float64, error) {
	d, isDM, err := singleMode(state)
	if err != nil {
		return nil, nil, err
	}
	if x == nil {
		x = EstimateQuadratureAxis(d, DefaultXmaxMinimum, DefaultPeriodResolution)
		floats.Scale(math.Sqrt(s.cfg.Hbar), x)
	}
	eig, err := s.OscillatorEigenstate(x, d)
	if err != nil {
		return nil, nil, err
	}
	psi := eig.AsFloat64()
	m := len(x)

	rot := make([]complex128, d)
	for n := range rot {
		rot[n] = cmplx.Exp(complex(0, -float64(n)*angle))
	}
	amp := s.backend.Cast(state, tensor.Complex128).AsComplex128()

	pdf := make([]float64, m)
	if !isDM {
		for j := range pdf {
			var sum complex128
			for n := 0; n < d; n++ {
				sum += rot[n] * amp[n] * complex(psi[n*m+j], 0)
			}
			pdf[j] = sqAbs(sum)
		}
		return x, pdf, nil
	}
	for j := range pdf {
		var sum complex128
		for n := 0; n < d; n++ {
			for k := 0; k < d; k++ {
				rho := rot[n] * amp[n*d+k] * cmplx.Conj(rot[k])
				sum += rho * complex(psi[n*m+j]*psi[k*m+j], 0)
			}
		}
		pdf[j] = real(sum)
	}
	return x, pdf, nil
}

// SampleHomodyne draws one homodyne outcome at angle from a single-mode
// state and returns it with its probability on the discretized axis.
func (s *Space) SampleHomodyne(state *tensor.RawTensor, angle float64, src rand.Source) (float64, float64, error) {
	x, pdf, err := s.QuadratureDistribution(state, angle, nil)
	if err != nil {
		return 0, 0, err
	}
	dx := x[1] - x[0]
	probs := make([]float64, len(pdf))
	for i, p := range pdf {
		probs[i] = math.Max(p*dx, 0)
	}
	idx := int(distuv.NewCategorical(probs, src).Rand())
	s.log.Debug().Float64("angle", angle).Float64("outcome", x[idx]).Msg("homodyne sample")
	return x[idx], probs[idx], nil
}
