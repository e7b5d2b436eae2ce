package fock

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/photonic/internal/gaussian"
	"github.com/born-ml/photonic/internal/tensor"
)

var invSqrt2 = complex(1/math.Sqrt2, 0)

// psi is (|0⟩ + i|1⟩)/√2 and phi is (|0⟩ + |2⟩)/√2.
func psi(t *testing.T) *tensor.RawTensor {
	t.Helper()
	return raw(t, []complex128{invSqrt2, 1i * invSqrt2}, 2)
}

func phi(t *testing.T) *tensor.RawTensor {
	t.Helper()
	return raw(t, []complex128{invSqrt2, 0, invSqrt2}, 3)
}

func thermalDM(t *testing.T, s *Space, nbar float64, d int) *tensor.RawTensor {
	t.Helper()
	cov, means := tensors(t, gaussian.Thermal([]float64{nbar}, hbar))
	dm, err := s.WignerToFockState(cov, means, []int{d}, true)
	require.NoError(t, err)
	return dm
}

func TestKetDMConversions(t *testing.T) {
	s := newSpace()
	ket := psi(t)
	dm := s.KetToDM(ket)
	assert.Equal(t, tensor.Shape{2, 2}, dm.Shape())
	assertComplex(t, []complex128{0.5, -0.5i, 0.5i, 0.5}, dm, 1e-12)

	back, err := s.DMToKet(dm)
	require.NoError(t, err)
	f, err := s.Fidelity(ket, back, true, true)
	require.NoError(t, err)
	assert.InDelta(t, 1, f, 1e-10)

	_, err = s.DMToKet(thermalDM(t, s, 0.5, 6))
	assert.ErrorIs(t, err, ErrMixedState)

	_, err = s.DMToKet(ket)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestProbs(t *testing.T) {
	s := newSpace()
	probs := s.KetToProbs(psi(t))
	assert.Equal(t, tensor.Float64, probs.DType())
	assert.InDeltaSlice(t, []float64{0.5, 0.5}, probs.AsFloat64(), 1e-12)

	one, err := s.FockState([]int{1})
	require.NoError(t, err)
	two := s.KetToDM(s.backend.Outer(psi(t), raw(t, []complex128{0, 1, 0}, 3)))
	diag, err := s.DMToProbs(two)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 3}, diag.Shape())
	assert.InDeltaSlice(t, []float64{0, 0.5, 0, 0, 0.5, 0}, diag.AsFloat64(), 1e-12)
	assert.InDeltaSlice(t, []float64{0, 1}, s.KetToProbs(one).AsFloat64(), 0)
}

func TestNormAndNormalize(t *testing.T) {
	s := newSpace()
	ket := raw(t, []complex128{3, 4i}, 2)

	n, err := s.Norm(ket, false)
	require.NoError(t, err)
	assert.InDelta(t, 5, n, 1e-12)
	n, err = s.Norm(s.KetToDM(ket), true)
	require.NoError(t, err)
	assert.InDelta(t, 25, n, 1e-12)

	unit, err := s.Normalize(ket, false)
	require.NoError(t, err)
	assertComplex(t, []complex128{0.6, 0.8i}, unit, 1e-12)
	dm, err := s.Normalize(s.KetToDM(ket), true)
	require.NoError(t, err)
	assertComplex(t, s.KetToDM(unit).AsComplex128(), dm, 1e-12)

	_, err = s.Normalize(raw(t, []complex128{0, 0}, 2), false)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestPurityAndMixedness(t *testing.T) {
	s := newSpace()
	pure := s.KetToDM(psi(t))
	p, err := s.Purity(pure)
	require.NoError(t, err)
	assert.InDelta(t, 1, p, 1e-12)
	mixed, err := s.IsMixedDM(pure)
	require.NoError(t, err)
	assert.False(t, mixed)

	nbar := 0.5
	thermal := thermalDM(t, s, nbar, 8)
	var sum, sq float64
	for n := 0; n < 8; n++ {
		pn := math.Pow(nbar, float64(n)) / math.Pow(1+nbar, float64(n+1))
		sum += pn
		sq += pn * pn
	}
	p, err = s.Purity(thermal)
	require.NoError(t, err)
	assert.InDelta(t, sq/(sum*sum), p, 1e-10)
	mixed, err = s.IsMixedDM(thermal)
	require.NoError(t, err)
	assert.True(t, mixed)
}

func TestFidelity(t *testing.T) {
	s := newSpace()
	ket := psi(t)
	dm := s.KetToDM(ket)

	tests := []struct {
		name       string
		a, b       *tensor.RawTensor
		aKet, bKet bool
		want       float64
	}{
		{"ket ket", ket, ket, true, true, 1},
		{"ket dm", ket, dm, true, false, 1},
		{"dm ket", dm, ket, false, true, 1},
		{"dm dm", dm, dm, false, false, 1},
		{"orthogonal", raw(t, []complex128{1, 0}, 2), raw(t, []complex128{0, 1}, 2), true, true, 0},
		{"truncated", raw(t, []complex128{1, 0, 0}, 3), raw(t, []complex128{1, 0}, 2), true, true, 1},
		{"overlap", ket, raw(t, []complex128{1, 0}, 2), true, true, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := s.Fidelity(tt.a, tt.b, tt.aKet, tt.bKet)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, f, 1e-8)
		})
	}

	thermal, err := s.Normalize(thermalDM(t, s, 0.3, 6), true)
	require.NoError(t, err)
	f, err := s.Fidelity(thermal, thermal, false, false)
	require.NoError(t, err)
	assert.InDelta(t, 1, f, 1e-8)

	_, err = s.Fidelity(ket, s.backend.Outer(ket, ket), true, true)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestNumberMoments(t *testing.T) {
	s := newSpace()
	alpha := complex(0.8, -0.6)
	cov, means := tensors(t, coherent(t, alpha))
	ket, err := s.WignerToFockState(cov, means, []int{40}, false)
	require.NoError(t, err)

	for _, isDM := range []bool{false, true} {
		state := ket
		if isDM {
			state = s.KetToDM(ket)
		}
		m, err := s.NumberMeans(state, isDM)
		require.NoError(t, err)
		v, err := s.NumberVariances(state, isDM)
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float64{1}, m, 1e-8)
		assert.InDeltaSlice(t, []float64{1}, v, 1e-8)
	}

	two := s.backend.Outer(psi(t), phi(t))
	m, err := s.NumberMeans(two, false)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.5, 1}, m, 1e-12)
	v, err := s.NumberVariances(two, false)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.25, 1}, v, 1e-12)
}

// general3 is a non-Hermitian 3x3 operator.
func general3(t *testing.T) *tensor.RawTensor {
	return raw(t, []complex128{
		1, 2i, 0,
		0.5, -1, 1 + 1i,
		0, 3, 0.25i,
	}, 3, 3)
}

func TestApplyOpToKet(t *testing.T) {
	s := newSpace()
	ket := raw(t, []complex128{1, 2, 3i, 4, -5, 6}, 2, 3)
	a := ket.AsComplex128()

	x := raw(t, []complex128{0, 1, 1, 0}, 2, 2)
	out, err := s.ApplyOpToKet(x, ket, []int{0})
	require.NoError(t, err)
	assertComplex(t, []complex128{4, -5, 6, 1, 2, 3i}, out, 1e-12)

	m := general3(t)
	out, err = s.ApplyOpToKet(m, ket, []int{1})
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 3}, out.Shape())
	mv := m.AsComplex128()
	want := make([]complex128, 6)
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				want[i*3+j] += mv[j*3+k] * a[i*3+k]
			}
		}
	}
	assertComplex(t, want, out, 1e-12)

	viaChoi, err := s.ApplyOpToKet(s.UToChoi(m), ket, []int{1})
	require.NoError(t, err)
	assertComplex(t, s.KetToDM(out).AsComplex128(), viaChoi, 1e-10)

	_, err = s.ApplyOpToKet(raw(t, make([]complex128, 8), 2, 2, 2), ket, []int{0})
	assert.ErrorIs(t, err, ErrInvalidOperator)
	_, err = s.ApplyOpToKet(x, ket, []int{1})
	assert.ErrorIs(t, err, ErrShapeMismatch)
	_, err = s.ApplyOpToKet(x, ket, []int{2})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestApplyOpToDM(t *testing.T) {
	s := newSpace()
	ket := s.backend.Outer(psi(t), raw(t, []complex128{1, 1i, -2}, 3))
	dm := s.KetToDM(ket)
	m := general3(t)

	evolved, err := s.ApplyOpToKet(m, ket, []int{1})
	require.NoError(t, err)
	want := s.KetToDM(evolved).AsComplex128()

	out, err := s.ApplyOpToDM(m, dm, []int{1})
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 3, 2, 3}, out.Shape())
	assertComplex(t, want, out, 1e-10)

	out, err = s.ApplyOpToDM(s.UToChoi(m), dm, []int{1})
	require.NoError(t, err)
	assertComplex(t, want, out, 1e-10)

	// A two-mode operator acting on both modes in swapped order.
	swapped := s.backend.Transpose(s.backend.Outer(m, raw(t, []complex128{0, 1, 1, 0}, 2, 2)), 0, 2, 1, 3)
	evolved, err = s.ApplyOpToKet(swapped, ket, []int{1, 0})
	require.NoError(t, err)
	out, err = s.ApplyOpToDM(swapped, dm, []int{1, 0})
	require.NoError(t, err)
	assertComplex(t, s.KetToDM(evolved).AsComplex128(), out, 1e-10)

	_, err = s.ApplyOpToDM(m, ket, []int{1})
	assert.ErrorIs(t, err, ErrShapeMismatch)
	_, err = s.ApplyOpToDM(raw(t, make([]complex128, 27), 3, 3, 3), dm, []int{1})
	assert.ErrorIs(t, err, ErrInvalidOperator)
}

func TestContractStates(t *testing.T) {
	s := newSpace()
	a := s.backend.Outer(psi(t), phi(t))

	out, err := s.ContractStates(a, phi(t), false, false, []int{1}, true)
	require.NoError(t, err)
	assertComplex(t, psi(t).AsComplex128(), out, 1e-12)

	want := s.KetToDM(psi(t)).AsComplex128()
	tests := []struct {
		name           string
		a, b           *tensor.RawTensor
		aMixed, bMixed bool
	}{
		{"mixed a", s.KetToDM(a), phi(t), true, false},
		{"mixed b", a, s.KetToDM(phi(t)), false, true},
		{"both mixed", s.KetToDM(a), s.KetToDM(phi(t)), true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := s.ContractStates(tt.a, tt.b, tt.aMixed, tt.bMixed, []int{1}, true)
			require.NoError(t, err)
			assertComplex(t, want, out, 1e-12)
		})
	}

	// Projecting mode 0 onto |0⟩ leaves phi scaled by 1/√2.
	out, err = s.ContractStates(a, raw(t, []complex128{1, 0}, 2), false, false, []int{0}, false)
	require.NoError(t, err)
	assertComplex(t, []complex128{0.5, 0, 0.5}, out, 1e-12)

	_, err = s.ContractStates(a, phi(t), false, false, []int{0}, true)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestPartialTrace(t *testing.T) {
	s := newSpace()
	dm := s.KetToDM(s.backend.Outer(psi(t), phi(t)))

	left, err := s.PartialTrace(dm, []int{0})
	require.NoError(t, err)
	assertComplex(t, s.KetToDM(psi(t)).AsComplex128(), left, 1e-12)

	right, err := s.PartialTrace(dm, []int{1})
	require.NoError(t, err)
	assertComplex(t, s.KetToDM(phi(t)).AsComplex128(), right, 1e-12)

	swapped, err := s.PartialTrace(dm, []int{1, 0})
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{3, 2, 3, 2}, swapped.Shape())
	assertComplex(t, s.KetToDM(s.backend.Outer(phi(t), psi(t))).AsComplex128(), swapped, 1e-12)

	all, err := s.PartialTrace(dm, nil)
	require.NoError(t, err)
	assert.InDelta(t, 1, real(all.Item()), 1e-12)

	_, err = s.PartialTrace(dm, []int{2})
	assert.ErrorIs(t, err, ErrShapeMismatch)
	_, err = s.PartialTrace(dm, []int{0, 0})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}
