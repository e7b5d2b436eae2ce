package hermite

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/born-ml/photonic/internal/parallel"
	"github.com/born-ml/photonic/internal/tensor"
)

func TestVanilla_BaseCase(t *testing.T) {
	a, b, _ := randomTriple(t, 3, 1)
	c := tensor.RawScalar(0.25 - 1i)

	g, err := Vanilla(a, b, c, []int{0, 0, 0})
	if err != nil {
		t.Fatalf("Vanilla: %v", err)
	}
	if !g.Shape().Equal(tensor.Shape{1, 1, 1}) {
		t.Fatalf("Expected shape [1 1 1], got %v", g.Shape())
	}
	if got := g.Item(); got != 0.25-1i {
		t.Errorf("G[0] = %v, want C", got)
	}
}

func TestVanilla_Vacuum(t *testing.T) {
	cutoffs := []int{3, 2}
	g, err := Vanilla(raw(t, make([]complex128, 4), 2, 2), raw(t, make([]complex128, 2), 2),
		tensor.RawScalar(1), cutoffs)
	if err != nil {
		t.Fatalf("Vanilla: %v", err)
	}
	want := make([]complex128, 12)
	want[0] = 1
	assertClose(t, g.AsComplex128(), want, 0)
}

// taylor returns √n! times the zⁿ coefficient of C exp(½ A z² + B z).
func taylor(a, b, c complex128, n int) complex128 {
	var sum complex128
	for k := 0; 2*k <= n; k++ {
		r := n - 2*k
		term := cmplx.Pow(a/2, complex(float64(k), 0)) / complex(factorial(k), 0)
		term *= cmplx.Pow(b, complex(float64(r), 0)) / complex(factorial(r), 0)
		sum += term
	}
	return c * sum * complex(math.Sqrt(factorial(n)), 0)
}

func factorial(n int) float64 {
	f := 1.0
	for i := 2; i <= n; i++ {
		f *= float64(i)
	}
	return f
}

func TestVanilla_MatchesSeries(t *testing.T) {
	a, b, c := 0.3+0.1i, 0.2-0.4i, complex128(1)
	g, err := Vanilla(raw(t, []complex128{a}, 1, 1), raw(t, []complex128{b}, 1), tensor.RawScalar(c), []int{5})
	if err != nil {
		t.Fatalf("Vanilla: %v", err)
	}
	for n, got := range g.AsComplex128() {
		if want := taylor(a, b, c, n); cmplx.Abs(got-want) > 1e-12 {
			t.Errorf("G[%d] = %v, want %v", n, got, want)
		}
	}
}

func TestVanilla_PermutationSymmetry(t *testing.T) {
	a, b, c := randomTriple(t, 3, 2)
	cutoffs := []int{2, 3, 1}
	perm := []int{2, 0, 1}

	ad, bd := a.AsComplex128(), b.AsComplex128()
	pa := make([]complex128, 9)
	pb := make([]complex128, 3)
	pc := make([]int, 3)
	for i, pi := range perm {
		pb[i] = bd[pi]
		pc[i] = cutoffs[pi]
		for j, pj := range perm {
			pa[i*3+j] = ad[pi*3+pj]
		}
	}

	g, err := Vanilla(a, b, c, cutoffs)
	if err != nil {
		t.Fatalf("Vanilla: %v", err)
	}
	gp, err := Vanilla(raw(t, pa, 3, 3), raw(t, pb, 3), c, pc)
	if err != nil {
		t.Fatalf("Vanilla: %v", err)
	}

	// gp[i0, i1, i2] = g[n] with n[perm[k]] = i_k.
	idx := make([]int, 3)
	orig := make([]int, 3)
	for flat, v := range gp.AsComplex128() {
		gp.Shape().Unravel(flat, idx)
		for k, pk := range perm {
			orig[pk] = idx[k]
		}
		if want := g.AsComplex128()[g.Shape().Ravel(orig)]; cmplx.Abs(v-want) > 1e-12 {
			t.Errorf("permuted G%v = %v, want %v", idx, v, want)
		}
	}
}

func TestVanilla_TruncationMonotone(t *testing.T) {
	a, b, c := randomTriple(t, 2, 3)
	small, err := Vanilla(a, b, c, []int{2, 3})
	if err != nil {
		t.Fatalf("Vanilla: %v", err)
	}
	large, err := Vanilla(a, b, c, []int{3, 3})
	if err != nil {
		t.Fatalf("Vanilla: %v", err)
	}
	idx := make([]int, 2)
	for flat, v := range small.AsComplex128() {
		small.Shape().Unravel(flat, idx)
		if w := large.AsComplex128()[large.Shape().Ravel(idx)]; v != w {
			t.Errorf("G%v changed from %v to %v", idx, v, w)
		}
	}
}

func TestVanilla_ParallelMatchesSequential(t *testing.T) {
	a, b, c := randomTriple(t, 3, 4)
	cutoffs := []int{6, 5, 7}

	seq, err := Vanilla(a, b, c, cutoffs)
	if err != nil {
		t.Fatalf("Vanilla: %v", err)
	}
	par, err := Vanilla(a, b, c, cutoffs,
		WithParallel(parallel.Config{Enabled: true, NumWorkers: 4, MinChunkSize: 2}))
	if err != nil {
		t.Fatalf("Vanilla: %v", err)
	}
	assertClose(t, par.AsComplex128(), seq.AsComplex128(), 1e-13)
}

func TestVanilla_RealInputs(t *testing.T) {
	a, _ := tensor.RawFromFloat([]float64{-2}, tensor.Shape{1, 1})
	b, _ := tensor.RawFromFloat([]float64{1}, tensor.Shape{1})
	c, _ := tensor.RawFromFloat([]float64{1}, tensor.Shape{})

	g, err := Vanilla(a, b, c, []int{3})
	if err != nil {
		t.Fatalf("Vanilla: %v", err)
	}
	// Physicists' Hermite polynomials at x = 1/2 over √n!: 1, 1, -1, -5.
	want := []complex128{1, 1, -1 / math.Sqrt(2), -5 / math.Sqrt(6)}
	assertClose(t, g.AsComplex128(), want, 1e-12)
}

func TestVanilla_Errors(t *testing.T) {
	a, b, c := randomTriple(t, 2, 5)
	tests := []struct {
		name    string
		a, b, c *tensor.RawTensor
		cutoffs []int
		want    error
	}{
		{"negative cutoff", a, b, c, []int{2, -1}, ErrInvalidCutoff},
		{"empty cutoffs", a, b, c, nil, ErrInvalidCutoff},
		{"too few cutoffs", a, b, c, []int{2}, ErrShapeMismatch},
		{"non-square A", raw(t, make([]complex128, 6), 2, 3), b, c, []int{1, 1}, ErrShapeMismatch},
		{"B length", a, raw(t, make([]complex128, 3), 3), c, []int{1, 1}, ErrShapeMismatch},
		{"C not scalar", a, b, raw(t, make([]complex128, 2), 2), []int{1, 1}, ErrShapeMismatch},
		{"missing B", a, nil, c, []int{1, 1}, ErrShapeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Vanilla(tt.a, tt.b, tt.c, tt.cutoffs)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if g != nil {
				t.Error("expected no tensor on error")
			}
		})
	}
}
