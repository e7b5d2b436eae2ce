package gaussian

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Rotation returns the phase rotation by theta[i] on mode i.
func Rotation(theta []float64) *mat.Dense {
	n := len(theta)
	S := mat.NewDense(2*n, 2*n, nil)
	for i, t := range theta {
		c, s := math.Cos(t), math.Sin(t)
		S.Set(i, i, c)
		S.Set(i, i+n, -s)
		S.Set(i+n, i, s)
		S.Set(i+n, i+n, c)
	}
	return S
}

// Squeezing returns the single-mode squeezing by r[i] at angle phi[i] on mode i.
func Squeezing(r, phi []float64) (*mat.Dense, error) {
	if len(r) != len(phi) {
		return nil, fmt.Errorf("%w: %d squeezing magnitudes, %d angles", ErrShapeMismatch, len(r), len(phi))
	}
	n := len(r)
	S := mat.NewDense(2*n, 2*n, nil)
	for i := range r {
		ch, sh := math.Cosh(r[i]), math.Sinh(r[i])
		c, s := math.Cos(phi[i]), math.Sin(phi[i])
		S.Set(i, i, ch-sh*c)
		S.Set(i, i+n, -sh*s)
		S.Set(i+n, i, -sh*s)
		S.Set(i+n, i+n, ch+sh*c)
	}
	return S, nil
}

// Beamsplitter returns the two-mode beamsplitter with transmissivity cos²θ
// and phase phi, acting on modes (0, 1).
func Beamsplitter(theta, phi float64) *mat.Dense {
	ct, st := math.Cos(theta), math.Sin(theta)
	cp, sp := math.Cos(phi), math.Sin(phi)
	return mat.NewDense(4, 4, []float64{
		ct, -cp * st, 0, -sp * st,
		cp * st, ct, -sp * st, 0,
		0, sp * st, ct, -cp * st,
		sp * st, 0, cp * st, ct,
	})
}

// TwoModeSqueezing returns the two-mode squeezer with magnitude r and phase
// phi, acting on modes (0, 1).
func TwoModeSqueezing(r, phi float64) *mat.Dense {
	ch, sh := math.Cosh(r), math.Sinh(r)
	cp, sp := math.Cos(phi), math.Sin(phi)
	return mat.NewDense(4, 4, []float64{
		ch, cp * sh, 0, sp * sh,
		cp * sh, ch, sp * sh, 0,
		0, sp * sh, ch, -cp * sh,
		sp * sh, 0, -cp * sh, ch,
	})
}

// LossXY returns the (X, Y) pair of a pure-loss channel with the given
// transmissivity on each mode.
func LossXY(transmissivity []float64, hbar float64) (X, Y *mat.Dense) {
	n := len(transmissivity)
	xs := make([]float64, 2*n)
	ys := make([]float64, 2*n)
	for i, eta := range transmissivity {
		xs[i], xs[i+n] = math.Sqrt(eta), math.Sqrt(eta)
		ys[i], ys[i+n] = (1-eta)*hbar/2, (1-eta)*hbar/2
	}
	return diagonal(xs), diagonal(ys)
}

// Embed places a 2k×2k matrix acting on the given modes into the 2n×2n
// identity.
func Embed(S mat.Matrix, modes []int, n int) *mat.Dense {
	out := diagonal(repeat(1, 2*n))
	place(out, S, modes, n)
	return out
}

// embedNoise places a 2k×2k matrix acting on the given modes into a 2n×2n
// zero matrix.
func embedNoise(Y mat.Matrix, modes []int, n int) *mat.Dense {
	out := mat.NewDense(2*n, 2*n, nil)
	place(out, Y, modes, n)
	return out
}

func place(dst *mat.Dense, src mat.Matrix, modes []int, n int) {
	k := len(modes)
	index := make([]int, 2*k)
	for i, m := range modes {
		index[i], index[i+k] = m, m+n
	}
	for i, gi := range index {
		for j, gj := range index {
			dst.Set(gi, gj, src.At(i, j))
		}
	}
}
