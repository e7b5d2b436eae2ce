package cpu

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/cmplxs"
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/photonic/internal/tensor"
)

func squareDim(op string, x *tensor.RawTensor) (int, error) {
	if x.Rank() != 2 || x.Shape()[0] != x.Shape()[1] {
		return 0, fmt.Errorf("%s: shape %v: %w", op, x.Shape(), tensor.ErrNotSquare)
	}
	return x.Shape()[0], nil
}

// realBlock embeds the complex matrix X + iY in the real matrix [[X, -Y], [Y, X]].
// The embedding is a ring homomorphism, so products and inverses map to the
// same block form.
func realBlock(h []complex128, n int) *mat.Dense {
	m := mat.NewDense(2*n, 2*n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			re, im := real(h[i*n+j]), imag(h[i*n+j])
			m.Set(i, j, re)
			m.Set(n+i, n+j, re)
			m.Set(i, n+j, -im)
			m.Set(n+i, j, im)
		}
	}
	return m
}

// Inv computes the inverse of a square matrix by inverting its real block
// embedding with gonum. A matrix whose condition number exceeds
// mat.ConditionTolerance yields tensor.ErrSingular.
func (cpu *CPUBackend) Inv(x *tensor.RawTensor) (*tensor.RawTensor, error) {
	n, err := squareDim("inv", x)
	if err != nil {
		return nil, err
	}

	var inv mat.Dense
	if err := inv.Inverse(realBlock(cpu.Cast(x, tensor.Complex128).AsComplex128(), n)); err != nil {
		var cond mat.Condition
		if errors.As(err, &cond) {
			return nil, fmt.Errorf("inv: condition number %g: %w", float64(cond), tensor.ErrSingular)
		}
		return nil, fmt.Errorf("inv: %w", err)
	}

	result := tensor.MustNewRaw(tensor.Shape{n, n}, tensor.Complex128, cpu.device)
	out := result.AsComplex128()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			out[i*n+j] = complex(inv.At(i, j), inv.At(n+i, j))
		}
	}
	if x.DType() == tensor.Float64 {
		return cpu.Cast(result, tensor.Float64), nil
	}
	return result, nil
}

// Det computes the determinant of a square matrix with partially pivoted LU
// elimination. Singular matrices give 0.
func (cpu *CPUBackend) Det(x *tensor.RawTensor) (complex128, error) {
	n, err := squareDim("det", x)
	if err != nil {
		return 0, err
	}
	lu := make([]complex128, n*n)
	copy(lu, cpu.Cast(x, tensor.Complex128).AsComplex128())

	det := complex(1, 0)
	for k := 0; k < n; k++ {
		p, best := k, cmplx.Abs(lu[k*n+k])
		for i := k + 1; i < n; i++ {
			if v := cmplx.Abs(lu[i*n+k]); v > best {
				p, best = i, v
			}
		}
		if best == 0 {
			return 0, nil
		}
		if p != k {
			for j := k; j < n; j++ {
				lu[k*n+j], lu[p*n+j] = lu[p*n+j], lu[k*n+j]
			}
			det = -det
		}
		pivot := lu[k*n+k]
		det *= pivot
		for i := k + 1; i < n; i++ {
			l := lu[i*n+k] / pivot
			if l == 0 {
				continue
			}
			for j := k + 1; j < n; j++ {
				lu[i*n+j] -= l * lu[k*n+j]
			}
		}
	}
	return det, nil
}

// EigH computes the eigendecomposition of a Hermitian matrix H = X + iY.
//
// H is embedded in the real symmetric matrix [[X, -Y], [Y, X]], whose spectrum
// is that of H with every eigenvalue doubled. An eigenvector (u, v) of the
// embedding maps to the eigenvector u + iv of H; the doubled copies are removed
// by Gram-Schmidt in the complex inner product.
func (cpu *CPUBackend) EigH(x *tensor.RawTensor) (values, vectors *tensor.RawTensor, err error) {
	n, err := squareDim("eigh", x)
	if err != nil {
		return nil, nil, err
	}
	h := cpu.Cast(x, tensor.Complex128).AsComplex128()

	m := 2 * n
	sym := mat.NewSymDense(m, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			// Hermitian part, guards against round-off asymmetry.
			v := (h[i*n+j] + cmplx.Conj(h[j*n+i])) / 2
			re, im := real(v), imag(v)
			sym.SetSym(i, j, re)
			sym.SetSym(n+i, n+j, re)
			sym.SetSym(i, n+j, -im)
			sym.SetSym(j, n+i, im)
		}
	}

	var es mat.EigenSym
	if ok := es.Factorize(sym, true); !ok {
		return nil, nil, fmt.Errorf("eigh: %w", tensor.ErrNoConvergence)
	}
	lambda := es.Values(nil)
	var q mat.Dense
	es.VectorsTo(&q)

	values = tensor.MustNewRaw(tensor.Shape{n}, tensor.Float64, cpu.device)
	vectors = tensor.MustNewRaw(tensor.Shape{n, n}, tensor.Complex128, cpu.device)
	vals, vecs := values.AsFloat64(), vectors.AsComplex128()

	basis := make([][]complex128, 0, n)
	for c := 0; c < m && len(basis) < n; c++ {
		z := make([]complex128, n)
		for i := 0; i < n; i++ {
			z[i] = complex(q.At(i, c), q.At(n+i, c))
		}
		for _, b := range basis {
			cmplxs.AddScaled(z, -cmplxs.Dot(b, z), b)
		}
		norm := cmplxs.Norm(z, 2)
		if norm < 1e-3 {
			continue
		}
		cmplxs.Scale(complex(1/norm, 0), z)
		vals[len(basis)] = lambda[c]
		basis = append(basis, z)
	}
	if len(basis) != n {
		return nil, nil, fmt.Errorf("eigh: recovered %d of %d eigenvectors: %w", len(basis), n, tensor.ErrNoConvergence)
	}
	for j, b := range basis {
		for i := 0; i < n; i++ {
			vecs[i*n+j] = b[i]
		}
	}
	return values, vectors, nil
}

// Sqrtm computes the principal square root of a Hermitian positive
// semidefinite matrix. Negative eigenvalues from round-off are clamped to zero.
func (cpu *CPUBackend) Sqrtm(x *tensor.RawTensor) (*tensor.RawTensor, error) {
	values, vectors, err := cpu.EigH(x)
	if err != nil {
		return nil, fmt.Errorf("sqrtm: %w", err)
	}
	n := values.Shape()[0]
	vals, v := values.AsFloat64(), vectors.AsComplex128()

	result := tensor.MustNewRaw(tensor.Shape{n, n}, tensor.Complex128, cpu.device)
	out := result.AsComplex128()
	for k := 0; k < n; k++ {
		s := complex(math.Sqrt(math.Max(vals[k], 0)), 0)
		if s == 0 {
			continue
		}
		for i := 0; i < n; i++ {
			vik := v[i*n+k] * s
			for j := 0; j < n; j++ {
				out[i*n+j] += vik * cmplx.Conj(v[j*n+k])
			}
		}
	}
	return result, nil
}
