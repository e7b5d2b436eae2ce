package hermite

import (
	"math/cmplx"
	"math/rand/v2"
	"testing"

	"github.com/born-ml/photonic/internal/tensor"
)

func raw(t *testing.T, data []complex128, shape ...int) *tensor.RawTensor {
	t.Helper()
	r, err := tensor.RawFromComplex(data, shape)
	if err != nil {
		t.Fatalf("Failed to create tensor: %v", err)
	}
	return r
}

// randomTriple returns a symmetric A of small norm, B and a non-zero C.
func randomTriple(t *testing.T, m int, seed uint64) (a, b, c *tensor.RawTensor) {
	t.Helper()
	rng := rand.New(rand.NewPCG(seed, 7))
	z := func(scale float64) complex128 {
		return complex((rng.Float64()*2-1)*scale, (rng.Float64()*2-1)*scale)
	}
	ad := make([]complex128, m*m)
	for i := 0; i < m; i++ {
		for j := i; j < m; j++ {
			v := z(0.3)
			ad[i*m+j], ad[j*m+i] = v, v
		}
	}
	bd := make([]complex128, m)
	for i := range bd {
		bd[i] = z(0.5)
	}
	return raw(t, ad, m, m), raw(t, bd, m), tensor.RawScalar(0.7 + 0.2i)
}

func assertClose(t *testing.T, got, want []complex128, tol float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		if cmplx.Abs(got[i]-want[i]) > tol {
			t.Errorf("element %d: got %v, want %v", i, got[i], want[i])
		}
	}
}
