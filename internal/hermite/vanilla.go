package hermite

import (
	"time"

	"github.com/born-ml/photonic/internal/parallel"
	"github.com/born-ml/photonic/internal/tensor"
)

// Vanilla fills the full amplitude tensor up to cutoffs.
//
// A must be an M×M symmetric matrix, B a vector of length M, C a scalar and
// cutoffs a list of M non-negative photon numbers. The result has shape
// (cutoffs[i]+1 ...) and dtype complex128.
func Vanilla(a, b, c *tensor.RawTensor, cutoffs []int, opts ...Option) (*tensor.RawTensor, error) {
	const variant = "vanilla"
	o := newOptions(opts)
	start := time.Now()

	t, err := validate(a, b, c)
	if err == nil {
		err = checkCutoffs(cutoffs, t.m)
	}
	if err != nil {
		return nil, o.fail(variant, err)
	}

	lat := newLattice(cutoffs)
	out := tensor.MustNewRaw(lat.shape, tensor.Complex128, tensor.CPU)
	fill(out.AsComplex128(), t, lat, o.par)

	o.done(variant, cutoffs, lat.size, start)
	return out, nil
}

// fill computes every cell of g. Row-major order is a valid fill order since
// each predecessor has a smaller flat position; the parallel path walks shells.
func fill(g []complex128, t *triple, lat *lattice, par parallel.Config) {
	g[0] = t.c
	if lat.size == 1 {
		return
	}

	if !par.Enabled {
		idx := make([]int, lat.rank())
		for flat := 1; flat < lat.size; flat++ {
			lat.shape.Unravel(flat, idx)
			lat.step(g, t.a, t.b, idx, flat)
		}
		return
	}

	for _, shell := range lat.shells()[1:] {
		fillShell(g, t, lat, shell, par)
	}
}

// fillShell computes the cells of one shell. All lower shells must be complete.
func fillShell(g []complex128, t *triple, lat *lattice, shell []int, par parallel.Config) {
	parallel.ForChunks(len(shell), func(_, start, end int) {
		idx := make([]int, lat.rank())
		for _, flat := range shell[start:end] {
			lat.shape.Unravel(flat, idx)
			lat.step(g, t.a, t.b, idx, flat)
		}
	}, par)
}
