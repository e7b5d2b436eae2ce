package gaussian

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

func diagonal(values []float64) *mat.Dense {
	n := len(values)
	m := mat.NewDense(n, n, nil)
	for i, v := range values {
		m.Set(i, i, v)
	}
	return m
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// Vacuum returns the n-mode vacuum state.
func Vacuum(n int, hbar float64) State {
	return State{Cov: diagonal(repeat(hbar/2, 2*n)), Means: make([]float64, 2*n)}
}

// Coherent returns the coherent state with quadrature means x and p.
func Coherent(x, p []float64, hbar float64) (State, error) {
	if len(x) != len(p) {
		return State{}, fmt.Errorf("%w: %d x means, %d p means", ErrShapeMismatch, len(x), len(p))
	}
	s := Vacuum(len(x), hbar)
	copy(s.Means, x)
	copy(s.Means[len(x):], p)
	return s, nil
}

// SqueezedVacuum returns the vacuum squeezed by r at angle phi on each mode.
// phi = 0 squeezes the x quadrature.
func SqueezedVacuum(r, phi []float64, hbar float64) (State, error) {
	S, err := Squeezing(r, phi)
	if err != nil {
		return State{}, err
	}
	return Vacuum(len(r), hbar).Apply(S, nil, nil)
}

// Thermal returns the thermal state with mean photon numbers nbar.
func Thermal(nbar []float64, hbar float64) State {
	n := len(nbar)
	values := make([]float64, 2*n)
	for i, v := range nbar {
		values[i] = hbar / 2 * (2*v + 1)
		values[i+n] = values[i]
	}
	return State{Cov: diagonal(values), Means: make([]float64, 2*n)}
}

// TwoModeSqueezedVacuum returns 2N modes where mode i and mode i+N form a
// two-mode squeezed pair with squeezing r[i].
func TwoModeSqueezedVacuum(r []float64, hbar float64) (State, error) {
	n := len(r)
	s := Vacuum(2*n, hbar)
	for i, ri := range r {
		var err error
		if s, err = s.Transform(TwoModeSqueezing(ri, 0), nil, nil, []int{i, i + n}); err != nil {
			return State{}, err
		}
	}
	return s, nil
}
