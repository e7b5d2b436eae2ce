package cpu

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/born-ml/photonic/internal/tensor"
)

func TestInv(t *testing.T) {
	backend := New()
	a := complexRaw(t, []complex128{
		2, 1i, 0,
		-1i, 3, 1,
		0, 1, 4 + 1i,
	}, tensor.Shape{3, 3})

	inv, err := backend.Inv(a)
	if err != nil {
		t.Fatalf("Inv: %v", err)
	}
	identity := backend.MatMul(a, inv)
	want := []complex128{1, 0, 0, 0, 1, 0, 0, 0, 1}
	assertComplexClose(t, identity.AsComplex128(), want, 1e-12)
}

func TestInvSingular(t *testing.T) {
	backend := New()
	a := complexRaw(t, []complex128{1, 2, 2, 4}, tensor.Shape{2, 2})
	if _, err := backend.Inv(a); !errors.Is(err, tensor.ErrSingular) {
		t.Errorf("expected ErrSingular, got %v", err)
	}
	if _, err := backend.Inv(complexRaw(t, make([]complex128, 6), tensor.Shape{2, 3})); !errors.Is(err, tensor.ErrNotSquare) {
		t.Errorf("expected ErrNotSquare, got %v", err)
	}
}

func TestInvIllConditioned(t *testing.T) {
	backend := New()
	// Condition number 1e17 is above gonum's tolerance.
	a := complexRaw(t, []complex128{1, 0, 0, 1e-17i}, tensor.Shape{2, 2})
	if _, err := backend.Inv(a); !errors.Is(err, tensor.ErrSingular) {
		t.Errorf("expected ErrSingular, got %v", err)
	}
}

func TestInvFloat64(t *testing.T) {
	backend := New()
	a, err := tensor.NewRaw(tensor.Shape{2, 2}, tensor.Float64, tensor.CPU)
	if err != nil {
		t.Fatal(err)
	}
	copy(a.AsFloat64(), []float64{4, 7, 2, 6})

	inv, err := backend.Inv(a)
	if err != nil {
		t.Fatalf("Inv: %v", err)
	}
	if inv.DType() != tensor.Float64 {
		t.Fatalf("dtype = %s, want float64", inv.DType())
	}
	want := []float64{0.6, -0.7, -0.2, 0.4}
	for i, v := range inv.AsFloat64() {
		if math.Abs(v-want[i]) > 1e-12 {
			t.Errorf("inv[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestDet(t *testing.T) {
	backend := New()
	tests := []struct {
		name string
		data []complex128
		n    int
		want complex128
	}{
		{"identity", []complex128{1, 0, 0, 1}, 2, 1},
		{"complex 2x2", []complex128{1 + 1i, 2, 3, 4i}, 2, (1+1i)*4i - 6},
		{"needs pivot", []complex128{0, 1, 1, 0}, 2, -1},
		{"singular", []complex128{1, 2, 2, 4}, 2, 0},
		{"3x3", []complex128{2, 0, 0, 0, 3, 0, 0, 0, 1i}, 3, 6i},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			det, err := backend.Det(complexRaw(t, tt.data, tensor.Shape{tt.n, tt.n}))
			if err != nil {
				t.Fatalf("Det: %v", err)
			}
			if cmplx.Abs(det-tt.want) > 1e-12 {
				t.Errorf("Det = %v, want %v", det, tt.want)
			}
		})
	}
}

func TestEigH(t *testing.T) {
	backend := New()
	// Hermitian with a degenerate eigenvalue pair.
	h := complexRaw(t, []complex128{
		2, 1i, 0,
		-1i, 2, 0,
		0, 0, 1,
	}, tensor.Shape{3, 3})

	values, vectors, err := backend.EigH(h)
	if err != nil {
		t.Fatalf("EigH: %v", err)
	}

	wantValues := []float64{1, 1, 3}
	for i, v := range values.AsFloat64() {
		if math.Abs(v-wantValues[i]) > 1e-10 {
			t.Errorf("eigenvalue %d: got %v, want %v", i, v, wantValues[i])
		}
	}

	// H V = V diag(values)
	hv := backend.MatMul(h, vectors).AsComplex128()
	v := vectors.AsComplex128()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := v[i*3+j] * complex(values.AsFloat64()[j], 0)
			if cmplx.Abs(hv[i*3+j]-want) > 1e-10 {
				t.Errorf("H V [%d,%d] = %v, want %v", i, j, hv[i*3+j], want)
			}
		}
	}

	// Vᴴ V = I
	vh := backend.Transpose(backend.Conj(vectors), 1, 0)
	assertComplexClose(t, backend.MatMul(vh, vectors).AsComplex128(),
		[]complex128{1, 0, 0, 0, 1, 0, 0, 0, 1}, 1e-10)
}

func TestSqrtm(t *testing.T) {
	backend := New()
	// Positive definite Hermitian matrix.
	a := complexRaw(t, []complex128{4, 1 - 1i, 1 + 1i, 3}, tensor.Shape{2, 2})
	root, err := backend.Sqrtm(a)
	if err != nil {
		t.Fatalf("Sqrtm: %v", err)
	}
	assertComplexClose(t, backend.MatMul(root, root).AsComplex128(), a.AsComplex128(), 1e-10)

	// Rank-deficient projector: sqrt(P) = P.
	p := complexRaw(t, []complex128{0.5, 0.5, 0.5, 0.5}, tensor.Shape{2, 2})
	rootP, err := backend.Sqrtm(p)
	if err != nil {
		t.Fatalf("Sqrtm: %v", err)
	}
	assertComplexClose(t, rootP.AsComplex128(), p.AsComplex128(), 1e-8)
}
