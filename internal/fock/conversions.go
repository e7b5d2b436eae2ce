package fock

import (
	"fmt"
	"math"

	"github.com/born-ml/photonic/internal/tensor"
)

// KetToDM returns |ψ⟩⟨ψ|.
func (s *Space) KetToDM(ket *tensor.RawTensor) *tensor.RawTensor {
	return s.backend.Outer(ket, s.backend.Conj(ket))
}

// DMToKet returns the ket of a pure density matrix: the dominant eigenvector
// scaled by the square root of its eigenvalue. It fails with ErrMixedState
// when the purity differs from 1 by more than 1e-6.
func (s *Space) DMToKet(dm *tensor.RawTensor) (*tensor.RawTensor, error) {
	n, err := halfRank(dm)
	if err != nil {
		return nil, err
	}
	p, err := s.Purity(dm)
	if err != nil {
		return nil, err
	}
	if math.Abs(p-1) > 1e-6 {
		return nil, fmt.Errorf("%w: purity %g", ErrMixedState, p)
	}

	shape := dm.Shape()[:n].Clone()
	d := product(shape)
	values, vectors, err := s.backend.EigH(s.backend.Reshape(dm, tensor.Shape{d, d}))
	if err != nil {
		return nil, fmt.Errorf("fock: dm to ket: %w", err)
	}

	vals, vecs := values.AsFloat64(), vectors.AsComplex128()
	scale := complex(math.Sqrt(math.Max(vals[d-1], 0)), 0)
	ket := tensor.MustNewRaw(shape, tensor.Complex128, s.backend.Device())
	out := ket.AsComplex128()
	for i := range out {
		out[i] = vecs[i*d+d-1] * scale
	}
	return ket, nil
}

// KetToProbs returns |ψ|² as a Float64 tensor.
func (s *Space) KetToProbs(ket *tensor.RawTensor) *tensor.RawTensor {
	return s.backend.Cast(s.backend.Mul(ket, s.backend.Conj(ket)), tensor.Float64)
}

// DMToProbs returns the photon-number diagonal of a density matrix as a
// Float64 tensor with one axis per mode.
func (s *Space) DMToProbs(dm *tensor.RawTensor) (*tensor.RawTensor, error) {
	x, err := s.diagonals(dm)
	if err != nil {
		return nil, err
	}
	return s.backend.Cast(x, tensor.Float64), nil
}

// diagonals keeps every ρ[n, n] entry, complex.
func (s *Space) diagonals(dm *tensor.RawTensor) (*tensor.RawTensor, error) {
	n, err := halfRank(dm)
	if err != nil {
		return nil, err
	}
	x := dm
	for k := 0; k < n; k++ {
		// out_k sits at 0 and in_k at n-k once k diagonals have been appended.
		x = s.backend.Diagonal(x, 0, n-k)
	}
	return x, nil
}

// UToChoi returns the Choi tensor (out_l, in_l, out_r, in_r) of a unitary.
func (s *Space) UToChoi(u *tensor.RawTensor) *tensor.RawTensor {
	return s.backend.Outer(u, s.backend.Conj(u))
}

// halfRank returns the number of modes of a density matrix.
func halfRank(dm *tensor.RawTensor) (int, error) {
	r := dm.Rank()
	if r == 0 || r%2 != 0 {
		return 0, fmt.Errorf("%w: density matrix of rank %d", ErrShapeMismatch, r)
	}
	shape := dm.Shape()
	n := r / 2
	for i := 0; i < n; i++ {
		if shape[i] != shape[i+n] {
			return 0, fmt.Errorf("%w: density matrix shape %v", ErrShapeMismatch, shape)
		}
	}
	return n, nil
}
