package bargmann

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/photonic/internal/backend/cpu"
	"github.com/born-ml/photonic/internal/gaussian"
	"github.com/born-ml/photonic/internal/tensor"
)

const hbar = 2.0

func assertComplex(t *testing.T, want []complex128, got *tensor.RawTensor, msgAndArgs ...any) {
	t.Helper()
	data := got.AsComplex128()
	require.Len(t, data, len(want), msgAndArgs...)
	for i := range want {
		assert.InDelta(t, 0, cmplx.Abs(data[i]-want[i]), 1e-10, append([]any{"index %d: got %v, want %v", i, data[i], want[i]}, msgAndArgs...)...)
	}
}

func convert(t *testing.T, s gaussian.State, mode Mode) Triple {
	t.Helper()
	cov, means, err := s.Tensors()
	require.NoError(t, err)
	triple, err := GaussianToTriple(cpu.New(), cov, means, mode.Request(hbar, nil))
	require.NoError(t, err)
	return triple
}

func TestRequestValidate(t *testing.T) {
	r := 0.5
	zero := 0.0
	tests := []struct {
		name string
		req  Request
		want error
	}{
		{"ket", Ket.Request(hbar, nil), nil},
		{"dm", DM.Request(hbar, nil), nil},
		{"unitary", Unitary.Request(hbar, &r), nil},
		{"choi", Choi.Request(hbar, &r), nil},
		{"full unitary", Request{Full: true, Unitary: true, ChoiR: &r, Hbar: hbar}, ErrInvalidConfiguration},
		{"unitary and choi", Request{Unitary: true, Choi: true, ChoiR: &r, Hbar: hbar}, ErrInvalidConfiguration},
		{"half choi", Request{Choi: true, ChoiR: &r, Hbar: hbar}, ErrInvalidConfiguration},
		{"unitary without r", Unitary.Request(hbar, nil), ErrMissingParameter},
		{"choi without r", Choi.Request(hbar, nil), ErrMissingParameter},
		{"zero r", Unitary.Request(hbar, &zero), ErrInvalidConfiguration},
		{"zero hbar", Ket.Request(0, nil), ErrInvalidConfiguration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
	assert.Equal(t, "choi", Choi.String())
}

func TestVacuum(t *testing.T) {
	triple := convert(t, gaussian.Vacuum(2, hbar), Ket)
	assertComplex(t, []complex128{0, 0, 0, 0}, triple.A)
	assertComplex(t, []complex128{0, 0}, triple.B)
	assertComplex(t, []complex128{1}, triple.C)

	full := convert(t, gaussian.Vacuum(1, hbar), DM)
	assert.Equal(t, 2, full.Dim())
	assertComplex(t, []complex128{0, 0, 0, 0}, full.A)
	assertComplex(t, []complex128{1}, full.C)
}

func TestCoherent(t *testing.T) {
	s, err := gaussian.Coherent([]float64{1}, []float64{0.5}, hbar)
	require.NoError(t, err)
	alpha := complex(1, 0.5) / complex(math.Sqrt(2*hbar), 0)
	n := real(alpha * cmplx.Conj(alpha))

	ket := convert(t, s, Ket)
	assertComplex(t, []complex128{alpha}, ket.B)
	assertComplex(t, []complex128{complex(math.Exp(-n/2), 0)}, ket.C)

	dm := convert(t, s, DM)
	assertComplex(t, []complex128{0, 0, 0, 0}, dm.A)
	assertComplex(t, []complex128{alpha, cmplx.Conj(alpha)}, dm.B)
	assertComplex(t, []complex128{complex(math.Exp(-n), 0)}, dm.C)
}

func TestSqueezed(t *testing.T) {
	r, phi := 0.4, math.Pi/2
	s, err := gaussian.SqueezedVacuum([]float64{r}, []float64{phi}, hbar)
	require.NoError(t, err)

	triple := convert(t, s, Ket)
	assertComplex(t, []complex128{-cmplx.Exp(complex(0, phi)) * complex(math.Tanh(r), 0)}, triple.A)
	assertComplex(t, []complex128{complex(1/math.Sqrt(math.Cosh(r)), 0)}, triple.C)

	// The full triple of a pure state is A ⊕ conj(A).
	full := convert(t, s, DM)
	a := -cmplx.Exp(complex(0, phi)) * complex(math.Tanh(r), 0)
	assertComplex(t, []complex128{a, 0, 0, cmplx.Conj(a)}, full.A)
	assertComplex(t, []complex128{complex(1/math.Cosh(r), 0)}, full.C)
}

func TestTwoModeSqueezed(t *testing.T) {
	r := 0.7
	s, err := gaussian.TwoModeSqueezedVacuum([]float64{r}, hbar)
	require.NoError(t, err)

	triple := convert(t, s, Ket)
	th := complex(math.Tanh(r), 0)
	assertComplex(t, []complex128{0, th, th, 0}, triple.A)
	assertComplex(t, []complex128{complex(1/math.Cosh(r), 0)}, triple.C)
}

func TestHusimiQ(t *testing.T) {
	cov, _, err := gaussian.Vacuum(1, hbar).Tensors()
	require.NoError(t, err)

	q, err := HusimiQ(cpu.New(), cov, hbar)
	require.NoError(t, err)
	assertComplex(t, []complex128{1, 0, 0, 1}, q)

	bad, _ := tensor.RawFromFloat(make([]float64, 6), tensor.Shape{2, 3})
	_, err = HusimiQ(cpu.New(), bad, hbar)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestGaussianToTriple_Errors(t *testing.T) {
	b := cpu.New()
	cov, means, err := gaussian.Vacuum(1, hbar).Tensors()
	require.NoError(t, err)

	_, err = GaussianToTriple(b, cov, means, Request{Full: true, Unitary: true, Hbar: hbar})
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	short, _ := tensor.RawFromFloat([]float64{0}, tensor.Shape{1})
	_, err = GaussianToTriple(b, cov, short, Ket.Request(hbar, nil))
	assert.ErrorIs(t, err, ErrShapeMismatch)

	r := 0.5
	_, err = GaussianToTriple(b, cov, means, Unitary.Request(hbar, &r))
	assert.ErrorIs(t, err, ErrShapeMismatch, "a single mode cannot hold a TMSV encoding")

	// Q = 0 when cov = -ħ/2 I.
	singular, _ := tensor.RawFromFloat([]float64{-1, 0, 0, -1}, tensor.Shape{2, 2})
	_, err = GaussianToTriple(b, singular, means, Ket.Request(hbar, nil))
	assert.ErrorIs(t, err, tensor.ErrSingular)
}

func transformation(t *testing.T, X, Y, d []float64, n int, choi bool) Triple {
	t.Helper()
	raw := func(data []float64, shape ...int) *tensor.RawTensor {
		if data == nil {
			return nil
		}
		r, err := tensor.RawFromFloat(data, shape)
		require.NoError(t, err)
		return r
	}
	triple, err := TransformationToTriple(cpu.New(), raw(X, 2*n, 2*n), raw(Y, 2*n, 2*n), raw(d, 2*n), choi, hbar, 0.9)
	require.NoError(t, err)
	return triple
}

func TestTransformation_Unitary(t *testing.T) {
	t.Run("identity", func(t *testing.T) {
		triple := transformation(t, []float64{1, 0, 0, 1}, nil, nil, 1, false)
		assertComplex(t, []complex128{0, 1, 1, 0}, triple.A)
		assertComplex(t, []complex128{0, 0}, triple.B)
		assertComplex(t, []complex128{1}, triple.C)
	})

	t.Run("rotation", func(t *testing.T) {
		th := 0.3
		X := []float64{math.Cos(th), -math.Sin(th), math.Sin(th), math.Cos(th)}
		triple := transformation(t, X, nil, nil, 1, false)
		e := cmplx.Exp(complex(0, th))
		assertComplex(t, []complex128{0, e, e, 0}, triple.A)
		assertComplex(t, []complex128{1}, triple.C)
	})

	t.Run("displacement", func(t *testing.T) {
		triple := transformation(t, []float64{1, 0, 0, 1}, nil, []float64{0.6, -0.2}, 1, false)
		alpha := complex(0.6, -0.2) / 2
		n := real(alpha * cmplx.Conj(alpha))
		assertComplex(t, []complex128{0, 1, 1, 0}, triple.A)
		assertComplex(t, []complex128{alpha, -cmplx.Conj(alpha)}, triple.B)
		assertComplex(t, []complex128{complex(math.Exp(-n/2), 0)}, triple.C)
	})
}

func TestTransformation_Choi(t *testing.T) {
	// The identity channel is |I⟩⟩⟨⟨I|: A couples out_l with in_l and out_r with in_r.
	triple := transformation(t, []float64{1, 0, 0, 1}, []float64{0, 0, 0, 0}, nil, 1, true)
	assertComplex(t, []complex128{
		0, 1, 0, 0,
		1, 0, 0, 0,
		0, 0, 0, 1,
		0, 0, 1, 0,
	}, triple.A)
	assertComplex(t, []complex128{1}, triple.C)

	_, err := TransformationToTriple(cpu.New(), tensor.RawScalar(1), nil, nil, true, hbar, 0.9)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}
