// Package bargmann converts Gaussian phase-space data into generating-function
// triples (A, B, C) with f(z) = C exp(½ zᵀAz + zᵀB).
//
// The creation/annihilation basis is reached through
// R = (1/√2)[[I, -iI], [I, iI]], so β = R·means/√ħ = (α*, α). With the
// Husimi matrix Q = R·cov·Rᴴ/ħ + ½I:
//
//	A = X_N (I - Q⁻¹)                   X_N = [[0, I], [I, 0]]
//	full: B = Q⁻ᵀ conj(β)               C = exp(-½ βᴴQ⁻¹β) / √det Q
//	half: B = β[N:] - A[:N,:N] β[:N]    C = exp(-½ β[:N]·B) / det(Q)^¼
//
// A full triple is already ordered (out..., in...).
package bargmann

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/born-ml/photonic/internal/tensor"
)

// Triple is a generating-function triple. A is [M, M], B is [M], C is a scalar.
type Triple struct {
	A, B, C *tensor.RawTensor
}

// Dim returns M.
func (t Triple) Dim() int {
	return t.B.NumElements()
}

func identity(n int, scale complex128) *tensor.RawTensor {
	data := make([]complex128, n*n)
	for i := 0; i < n; i++ {
		data[i*n+i] = scale
	}
	r, _ := tensor.RawFromComplex(data, tensor.Shape{n, n})
	return r
}

// rotation returns R for n modes.
func rotation(n int) *tensor.RawTensor {
	s := complex(1/math.Sqrt2, 0)
	data := make([]complex128, 4*n*n)
	m := 2 * n
	for i := 0; i < n; i++ {
		data[i*m+i] = s
		data[i*m+i+n] = -1i * s
		data[(i+n)*m+i] = s
		data[(i+n)*m+i+n] = 1i * s
	}
	r, _ := tensor.RawFromComplex(data, tensor.Shape{m, m})
	return r
}

// swap returns X_N = [[0, I], [I, 0]] for n modes.
func swap(n int) *tensor.RawTensor {
	m := 2 * n
	data := make([]complex128, m*m)
	for i := 0; i < n; i++ {
		data[i*m+i+n] = 1
		data[(i+n)*m+i] = 1
	}
	r, _ := tensor.RawFromComplex(data, tensor.Shape{m, m})
	return r
}

func checkGaussian(cov, means *tensor.RawTensor) (int, error) {
	s := cov.Shape()
	if len(s) != 2 || s[0] != s[1] || s[0]%2 != 0 || s[0] == 0 {
		return 0, fmt.Errorf("%w: covariance shape %v is not 2N×2N", ErrShapeMismatch, s)
	}
	if means != nil && !means.Shape().Equal(tensor.Shape{s[0]}) {
		return 0, fmt.Errorf("%w: means shape %v for covariance %v", ErrShapeMismatch, means.Shape(), s)
	}
	return s[0] / 2, nil
}

// HusimiQ returns Q = R·cov·Rᴴ/ħ + ½I.
func HusimiQ(b tensor.Backend, cov *tensor.RawTensor, hbar float64) (*tensor.RawTensor, error) {
	n, err := checkGaussian(cov, nil)
	if err != nil {
		return nil, err
	}
	return husimi(b, cov, n, hbar), nil
}

func husimi(b tensor.Backend, cov *tensor.RawTensor, n int, hbar float64) *tensor.RawTensor {
	r := rotation(n)
	rh := b.Conj(b.Transpose(r, 1, 0))
	q := b.MatMul(b.MatMul(r, b.Cast(cov, tensor.Complex128)), rh)
	q = b.MulScalar(q, complex(1/hbar, 0))
	return b.Add(q, identity(2*n, 0.5))
}

// GaussianToTriple converts a covariance matrix and means vector into the
// triple requested by req.
func GaussianToTriple(b tensor.Backend, cov, means *tensor.RawTensor, req Request) (Triple, error) {
	if err := req.Validate(); err != nil {
		return Triple{}, err
	}
	n, err := checkGaussian(cov, means)
	if err != nil {
		return Triple{}, err
	}
	if (req.Unitary || req.Choi) && n%2 != 0 {
		return Triple{}, fmt.Errorf("%w: a transformation encoding needs an even number of modes, got %d", ErrShapeMismatch, n)
	}

	q := husimi(b, cov, n, req.Hbar)
	qinv, err := b.Inv(q)
	if err != nil {
		return Triple{}, fmt.Errorf("bargmann: husimi matrix: %w", err)
	}
	det, err := b.Det(q)
	if err != nil {
		return Triple{}, fmt.Errorf("bargmann: husimi matrix: %w", err)
	}

	a := b.MatMul(swap(n), b.Sub(identity(2*n, 1), qinv))
	beta := b.MatMul(rotation(n), b.Reshape(b.Cast(means, tensor.Complex128), tensor.Shape{2 * n, 1}))
	beta = b.MulScalar(beta, complex(1/math.Sqrt(req.Hbar), 0))

	var t Triple
	if req.Full {
		t = full(b, a, qinv, beta, det)
	} else {
		t = half(b, a, beta, det, n)
	}

	switch {
	case req.Unitary:
		t = decode(b, t, []int{n / 2}, n/2, *req.ChoiR)
	case req.Choi:
		t = decode(b, t, []int{n / 2, n + n/2}, n/2, *req.ChoiR)
	}
	return t, nil
}

func full(b tensor.Backend, a, qinv, beta *tensor.RawTensor, det complex128) Triple {
	m := beta.NumElements()
	vec := b.MatMul(b.Transpose(qinv, 1, 0), b.Conj(beta))

	quad := b.Sum(b.Mul(b.Conj(beta), b.MatMul(qinv, beta))).Item()
	c := cmplx.Exp(-0.5*quad) / cmplx.Sqrt(det)

	return Triple{A: a, B: b.Reshape(vec, tensor.Shape{m}), C: tensor.RawScalar(c)}
}

func half(b tensor.Backend, a, beta *tensor.RawTensor, det complex128, n int) Triple {
	ah := b.Truncate(a, tensor.Shape{n, n})
	bd := beta.AsComplex128()
	top, _ := tensor.RawFromComplex(append([]complex128(nil), bd[:n]...), tensor.Shape{n, 1})
	bottom, _ := tensor.RawFromComplex(append([]complex128(nil), bd[n:]...), tensor.Shape{n, 1})

	vec := b.Sub(bottom, b.MatMul(ah, top))
	quad := b.Sum(b.Mul(top, vec)).Item()
	c := cmplx.Exp(-0.5*quad) / cmplx.Sqrt(cmplx.Sqrt(det))

	return Triple{A: ah, B: b.Reshape(vec, tensor.Shape{n}), C: tensor.RawScalar(c)}
}

// decode undoes the TMSV(r) channel encoding. starts lists the first index of
// each block of k reference modes; their rows and columns of A and entries of
// B are multiplied by coth r, and C by cosh(r) per reference index.
func decode(b tensor.Backend, t Triple, starts []int, k int, r float64) Triple {
	m := t.Dim()
	coth := 1 / math.Tanh(r)
	scale := make([]complex128, m)
	for i := range scale {
		scale[i] = 1
	}
	for _, s := range starts {
		for i := s; i < s+k; i++ {
			scale[i] = complex(coth, 0)
		}
	}
	col, _ := tensor.RawFromComplex(append([]complex128(nil), scale...), tensor.Shape{m, 1})
	row, _ := tensor.RawFromComplex(scale, tensor.Shape{m})

	a := b.Mul(b.Mul(t.A, col), row)
	vec := b.Mul(t.B, row)
	c := t.C.Item() * complex(math.Pow(math.Cosh(r), float64(len(starts)*k)), 0)
	return Triple{A: a, B: vec, C: tensor.RawScalar(c)}
}
