package hermite

import (
	"fmt"
	"slices"
	"time"

	"github.com/born-ml/photonic/internal/tensor"
)

// checkDoubled validates cutoffs for a 2N-variable triple whose first N
// variables pair with the last N.
func checkDoubled(cutoffs []int, m int) error {
	if m%2 != 0 {
		return fmt.Errorf("%w: diagonal variants need an even number of variables, got %d", ErrShapeMismatch, m)
	}
	return checkCutoffs(cutoffs, m/2)
}

// fillDoubled fills the full tensor over (cutoffs, cutoffs).
func fillDoubled(t *triple, cutoffs []int, o *options) (*lattice, []complex128) {
	lat := newLattice(slices.Concat(cutoffs, cutoffs))
	g := make([]complex128, lat.size)
	fill(g, t, lat, o.par)
	return lat, g
}

// Diagonal returns D[n] = G[n, n] for a triple over 2N variables, e.g. the
// photon-number amplitudes of a density matrix. cutoffs has length N and the
// result has shape (cutoffs[i]+1 ...).
func Diagonal(a, b, c *tensor.RawTensor, cutoffs []int, opts ...Option) (*tensor.RawTensor, error) {
	const variant = "diagonal"
	o := newOptions(opts)
	start := time.Now()

	t, err := validate(a, b, c)
	if err == nil {
		err = checkDoubled(cutoffs, t.m)
	}
	if err != nil {
		return nil, o.fail(variant, err)
	}

	lat, g := fillDoubled(t, cutoffs, o)
	n := len(cutoffs)

	shape := lat.shape[:n].Clone()
	out := tensor.MustNewRaw(shape, tensor.Complex128, tensor.CPU)
	d := out.AsComplex128()
	idx := make([]int, n)
	for i := range d {
		shape.Unravel(i, idx)
		off := 0
		for k, v := range idx {
			off += v * (lat.strides[k] + lat.strides[n+k])
		}
		d[i] = g[off]
	}

	o.done(variant, cutoffs, lat.size, start)
	return out, nil
}

// OneLeftoverMode keeps the first mode in full and the others on their
// diagonal: L[a, b, n_1, ..., n_{N-1}] = G[a, n_1, ..., b, n_1, ...].
// The result has shape (cutoffs[0]+1, cutoffs[0]+1, cutoffs[1]+1, ...).
func OneLeftoverMode(a, b, c *tensor.RawTensor, cutoffs []int, opts ...Option) (*tensor.RawTensor, error) {
	const variant = "leftover"
	o := newOptions(opts)
	start := time.Now()

	t, err := validate(a, b, c)
	if err == nil {
		err = checkDoubled(cutoffs, t.m)
	}
	if err != nil {
		return nil, o.fail(variant, err)
	}

	lat, g := fillDoubled(t, cutoffs, o)
	n := len(cutoffs)

	shape := make(tensor.Shape, 0, n+1)
	shape = append(shape, cutoffs[0]+1, cutoffs[0]+1)
	for _, co := range cutoffs[1:] {
		shape = append(shape, co+1)
	}
	out := tensor.MustNewRaw(shape, tensor.Complex128, tensor.CPU)
	l := out.AsComplex128()
	idx := make([]int, n+1)
	for i := range l {
		shape.Unravel(i, idx)
		off := idx[0]*lat.strides[0] + idx[1]*lat.strides[n]
		for k := 1; k < n; k++ {
			off += idx[k+1] * (lat.strides[k] + lat.strides[n+k])
		}
		l[i] = g[off]
	}

	o.done(variant, cutoffs, lat.size, start)
	return out, nil
}
