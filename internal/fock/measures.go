package fock

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/photonic/internal/tensor"
)

// trace returns tr ρ.
func (s *Space) trace(dm *tensor.RawTensor) (complex128, error) {
	d, err := s.diagonals(dm)
	if err != nil {
		return 0, err
	}
	return s.backend.Sum(d).Item(), nil
}

// Norm returns the L2 norm of a ket or the real trace of a density matrix.
func (s *Space) Norm(state *tensor.RawTensor, isDM bool) (float64, error) {
	if isDM {
		tr, err := s.trace(state)
		if err != nil {
			return 0, err
		}
		return real(tr), nil
	}
	return math.Sqrt(real(s.backend.Sum(s.backend.Mul(state, s.backend.Conj(state))).Item())), nil
}

// Normalize divides a ket by its norm or a density matrix by its trace.
func (s *Space) Normalize(state *tensor.RawTensor, isDM bool) (*tensor.RawTensor, error) {
	var scale complex128
	if isDM {
		tr, err := s.trace(state)
		if err != nil {
			return nil, err
		}
		scale = tr
	} else {
		n, _ := s.Norm(state, false)
		scale = complex(n, 0)
	}
	if scale == 0 {
		return nil, fmt.Errorf("%w: cannot normalize a zero state", ErrShapeMismatch)
	}
	return s.backend.MulScalar(state, 1/scale), nil
}

// square reshapes a density matrix to (D, D).
func (s *Space) square(dm *tensor.RawTensor) (*tensor.RawTensor, int, error) {
	n, err := halfRank(dm)
	if err != nil {
		return nil, 0, err
	}
	d := product(dm.Shape()[:n])
	return s.backend.Reshape(dm, tensor.Shape{d, d}), d, nil
}

// Purity returns |tr(ρ̂²)| with ρ̂ = ρ / tr ρ.
func (s *Space) Purity(dm *tensor.RawTensor) (float64, error) {
	sq, _, err := s.square(dm)
	if err != nil {
		return 0, err
	}
	tr := s.backend.Sum(s.backend.Diagonal(sq, 0, 1)).Item()
	if tr == 0 {
		return 0, fmt.Errorf("%w: density matrix with zero trace", ErrShapeMismatch)
	}
	sq = s.backend.MulScalar(sq, 1/tr)
	return cmplx.Abs(s.backend.Sum(s.backend.Mul(s.backend.Transpose(sq), sq)).Item()), nil
}

// IsMixedDM reports whether tr(ρ²) is not close to 1 under the configured
// tolerances. The trace is not normalized first.
func (s *Space) IsMixedDM(dm *tensor.RawTensor) (bool, error) {
	sq, _, err := s.square(dm)
	if err != nil {
		return false, err
	}
	p := real(s.backend.Sum(s.backend.Mul(s.backend.Transpose(sq), sq)).Item())
	return !s.isClose(p, 1), nil
}

// Fidelity returns the fidelity of two states, each a ket or a density
// matrix. Both are truncated to their common dimensions first.
//
//	ket–ket  |⟨a|b⟩|²
//	ket–dm   Re⟨a|ρ|a⟩
//	dm–dm    (tr √(√ρ σ √ρ))²
func (s *Space) Fidelity(a, b *tensor.RawTensor, aKet, bKet bool) (float64, error) {
	if !aKet && bKet {
		return s.Fidelity(b, a, true, false)
	}

	modesA, err := modeShape(a, aKet)
	if err != nil {
		return 0, err
	}
	modesB, err := modeShape(b, bKet)
	if err != nil {
		return 0, err
	}
	if len(modesA) != len(modesB) {
		return 0, fmt.Errorf("%w: %d and %d modes", ErrShapeMismatch, len(modesA), len(modesB))
	}
	common := make(tensor.Shape, len(modesA))
	for i := range common {
		common[i] = min(modesA[i], modesB[i])
	}
	a = s.truncate(a, common, aKet)
	b = s.truncate(b, common, bKet)
	d := product(common)

	switch {
	case aKet && bKet:
		return sqAbs(s.backend.Sum(s.backend.Mul(s.backend.Conj(a), b)).Item()), nil
	case aKet:
		col := s.backend.Reshape(a, tensor.Shape{d, 1})
		row := s.backend.Reshape(s.backend.Conj(a), tensor.Shape{1, d})
		rho := s.backend.Reshape(b, tensor.Shape{d, d})
		return real(s.backend.MatMul(row, s.backend.MatMul(rho, col)).Item()), nil
	}

	rho := s.backend.Reshape(a, tensor.Shape{d, d})
	sigma := s.backend.Reshape(b, tensor.Shape{d, d})
	root, err := s.backend.Sqrtm(rho)
	if err != nil {
		return 0, fmt.Errorf("fock: fidelity: %w", err)
	}
	inner, err := s.backend.Sqrtm(s.backend.MatMul(root, s.backend.MatMul(sigma, root)))
	if err != nil {
		return 0, fmt.Errorf("fock: fidelity: %w", err)
	}
	tr := real(s.backend.Sum(s.backend.Diagonal(inner, 0, 1)).Item())
	return tr * tr, nil
}

// modeShape returns the per-mode dimensions of a ket or density matrix.
func modeShape(state *tensor.RawTensor, ket bool) (tensor.Shape, error) {
	if ket {
		return state.Shape(), nil
	}
	n, err := halfRank(state)
	if err != nil {
		return nil, err
	}
	return state.Shape()[:n], nil
}

func (s *Space) truncate(state *tensor.RawTensor, dims tensor.Shape, ket bool) *tensor.RawTensor {
	if ket {
		return s.backend.Truncate(state, dims)
	}
	limits := make(tensor.Shape, 0, 2*len(dims))
	limits = append(append(limits, dims...), dims...)
	return s.backend.Truncate(state, limits)
}

func sqAbs(z complex128) float64 {
	return real(z)*real(z) + imag(z)*imag(z)
}

// marginals returns the photon-number distribution of each mode.
func (s *Space) marginals(state *tensor.RawTensor, isDM bool) ([][]float64, error) {
	probs := s.KetToProbs(state)
	if isDM {
		var err error
		if probs, err = s.DMToProbs(state); err != nil {
			return nil, err
		}
	}
	rank := probs.Rank()
	out := make([][]float64, rank)
	for m := 0; m < rank; m++ {
		out[m] = s.backend.SumAxes(probs, free(rank, []int{m})).AsFloat64()
	}
	return out, nil
}

// NumberMeans returns the mean photon number of each mode.
func (s *Space) NumberMeans(state *tensor.RawTensor, isDM bool) ([]float64, error) {
	marginals, err := s.marginals(state, isDM)
	if err != nil {
		return nil, err
	}
	means := make([]float64, len(marginals))
	for m, p := range marginals {
		means[m] = floats.Dot(p, photons(len(p), 1))
	}
	return means, nil
}

// NumberVariances returns the photon-number variance of each mode.
func (s *Space) NumberVariances(state *tensor.RawTensor, isDM bool) ([]float64, error) {
	marginals, err := s.marginals(state, isDM)
	if err != nil {
		return nil, err
	}
	vars := make([]float64, len(marginals))
	for m, p := range marginals {
		mean := floats.Dot(p, photons(len(p), 1))
		vars[m] = floats.Dot(p, photons(len(p), 2)) - mean*mean
	}
	return vars, nil
}

// photons returns n^power for n in [0, d).
func photons(d int, power float64) []float64 {
	out := make([]float64, d)
	for n := range out {
		out[n] = math.Pow(float64(n), power)
	}
	return out
}
