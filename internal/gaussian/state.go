// Package gaussian holds Gaussian states and transformations in phase space.
//
// Quadratures use xxpp ordering: a state of N modes has a 2N×2N covariance
// matrix and a 2N means vector (x_0..x_{N-1}, p_0..p_{N-1}). Vacuum
// fluctuations are ħ/2 per quadrature.
package gaussian

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/photonic/internal/tensor"
)

// ErrShapeMismatch is returned when matrix or vector sizes disagree with the
// number of modes.
var ErrShapeMismatch = errors.New("gaussian: shape mismatch")

// State is a Gaussian state: covariance matrix and means vector in xxpp order.
type State struct {
	Cov   *mat.Dense
	Means []float64
}

// NewState validates the sizes of cov and means.
func NewState(cov *mat.Dense, means []float64) (State, error) {
	r, c := cov.Dims()
	if r != c || r%2 != 0 || len(means) != r {
		return State{}, fmt.Errorf("%w: cov %dx%d, means %d", ErrShapeMismatch, r, c, len(means))
	}
	return State{Cov: cov, Means: means}, nil
}

// Modes returns the number of modes.
func (s State) Modes() int {
	return len(s.Means) / 2
}

// Apply transforms the state by cov' = X cov Xᵀ + Y, means' = X means + d.
// A nil Y or d is zero.
func (s State) Apply(X, Y *mat.Dense, d []float64) (State, error) {
	return s.Transform(X, Y, d, nil)
}

// Transform applies (X, Y, d), defined on the given modes, to the state.
// The remaining modes are left untouched. Nil modes means every mode.
func (s State) Transform(X, Y *mat.Dense, d []float64, modes []int) (State, error) {
	n := s.Modes()
	if modes == nil {
		modes = make([]int, n)
		for i := range modes {
			modes[i] = i
		}
	}
	k := len(modes)
	if r, c := X.Dims(); r != 2*k || c != 2*k {
		return State{}, fmt.Errorf("%w: X is %dx%d for %d modes", ErrShapeMismatch, r, c, k)
	}
	if Y != nil {
		if r, c := Y.Dims(); r != 2*k || c != 2*k {
			return State{}, fmt.Errorf("%w: Y is %dx%d for %d modes", ErrShapeMismatch, r, c, k)
		}
	}
	if d != nil && len(d) != 2*k {
		return State{}, fmt.Errorf("%w: d has %d entries for %d modes", ErrShapeMismatch, len(d), k)
	}
	for _, m := range modes {
		if m < 0 || m >= n {
			return State{}, fmt.Errorf("%w: mode %d out of range [0, %d)", ErrShapeMismatch, m, n)
		}
	}

	XX := Embed(X, modes, n)
	var cov mat.Dense
	cov.Product(XX, s.Cov, XX.T())
	if Y != nil {
		cov.Add(&cov, embedNoise(Y, modes, n))
	}

	means := mat.NewVecDense(2*n, nil)
	means.MulVec(XX, mat.NewVecDense(2*n, append([]float64(nil), s.Means...)))
	out := means.RawVector().Data
	if d != nil {
		for i, m := range modes {
			out[m] += d[i]
			out[m+n] += d[i+k]
		}
	}
	return State{Cov: &cov, Means: out}, nil
}

// Tensors returns the covariance and means as Float64 tensors.
func (s State) Tensors() (cov, means *tensor.RawTensor, err error) {
	r, c := s.Cov.Dims()
	data := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		data = append(data, s.Cov.RawRowView(i)...)
	}
	if cov, err = tensor.RawFromFloat(data, tensor.Shape{r, c}); err != nil {
		return nil, nil, err
	}
	if means, err = tensor.RawFromFloat(append([]float64(nil), s.Means...), tensor.Shape{len(s.Means)}); err != nil {
		return nil, nil, err
	}
	return cov, means, nil
}

// NumberStats returns per-mode photon-number means and standard deviations.
func NumberStats(s State, hbar float64) (means, stdevs []float64) {
	n := s.Modes()
	means = make([]float64, n)
	stdevs = make([]float64, n)
	for m := 0; m < n; m++ {
		sxx := s.Cov.At(m, m)
		spp := s.Cov.At(m+n, m+n)
		sxp := s.Cov.At(m, m+n)
		x, p := s.Means[m], s.Means[m+n]

		means[m] = (sxx+spp+x*x+p*p)/(2*hbar) - 0.5
		variance := (sxx*sxx+spp*spp+2*sxp*sxp)/(2*hbar*hbar) +
			(x*x*sxx+p*p*spp+2*x*p*sxp)/(hbar*hbar) - 0.25
		stdevs[m] = math.Sqrt(math.Max(variance, 0))
	}
	return means, stdevs
}
