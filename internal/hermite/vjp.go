package hermite

import (
	"fmt"
	"math/cmplx"
	"time"

	"github.com/born-ml/photonic/internal/parallel"
	"github.com/born-ml/photonic/internal/tensor"
)

// VJP pulls an upstream gradient dy back through a fill that produced g from
// (a, b, c). It returns
//
//	dB_i  = Σ_n dy[n] conj(√n_i G[n-e_i])
//	dA_ij = Σ_n dy[n] conj(½ √(n_i (n_j-δ_ij)) G[n-e_i-e_j])
//	dC    = Σ_n dy[n] conj(G[n] / C)
//
// dC is zero when C is zero. dA is symmetric. With parallelism enabled each
// worker accumulates its own partial sums.
func VJP(a, b, c, g, dy *tensor.RawTensor, opts ...Option) (da, db, dc *tensor.RawTensor, err error) {
	const variant = "vjp"
	o := newOptions(opts)
	start := time.Now()

	t, err := validate(a, b, c)
	if err == nil {
		err = checkGradShapes(g, dy, t.m)
	}
	if err != nil {
		return nil, nil, nil, o.fail(variant, err)
	}

	cutoffs := make([]int, t.m)
	for i, d := range g.Shape() {
		cutoffs[i] = d - 1
	}
	lat := newLattice(cutoffs)
	gd, dyd := complexData(g), complexData(dy)
	m := t.m

	type partial struct {
		a, b []complex128
		c    complex128
	}
	parts := make([]partial, o.par.Chunks(lat.size))

	parallel.ForChunks(lat.size, func(chunk, lo, hi int) {
		p := partial{a: make([]complex128, m*m), b: make([]complex128, m)}
		idx := make([]int, m)
		for flat := lo; flat < hi; flat++ {
			w := dyd[flat]
			if w == 0 {
				continue
			}
			lat.shape.Unravel(flat, idx)
			if t.c != 0 {
				p.c += w * cmplx.Conj(gd[flat]/t.c)
			}
			for i := 0; i < m; i++ {
				ni := idx[i]
				if ni == 0 {
					continue
				}
				prev := flat - lat.strides[i]
				p.b[i] += w * cmplx.Conj(complex(lat.sqrt[ni], 0)*gd[prev])

				idx[i]--
				for j := i; j < m; j++ {
					nj := idx[j]
					if nj == 0 {
						continue
					}
					coef := complex(0.5*lat.sqrt[ni]*lat.sqrt[nj], 0)
					v := w * cmplx.Conj(coef*gd[prev-lat.strides[j]])
					p.a[i*m+j] += v
					if j != i {
						p.a[j*m+i] += v
					}
				}
				idx[i]++
			}
		}
		parts[chunk] = p
	}, o.par)

	da = tensor.MustNewRaw(tensor.Shape{m, m}, tensor.Complex128, tensor.CPU)
	db = tensor.MustNewRaw(tensor.Shape{m}, tensor.Complex128, tensor.CPU)
	dc = tensor.MustNewRaw(tensor.Shape{}, tensor.Complex128, tensor.CPU)
	sa, sb := da.AsComplex128(), db.AsComplex128()
	for _, p := range parts {
		for i, v := range p.a {
			sa[i] += v
		}
		for i, v := range p.b {
			sb[i] += v
		}
		dc.AsComplex128()[0] += p.c
	}

	o.done(variant, cutoffs, lat.size, start)
	return da, db, dc, nil
}

func checkGradShapes(g, dy *tensor.RawTensor, m int) error {
	if g == nil || dy == nil {
		return fmt.Errorf("%w: G and dY are required", ErrShapeMismatch)
	}
	if g.Rank() != m {
		return fmt.Errorf("%w: G has rank %d, triple has %d variables", ErrShapeMismatch, g.Rank(), m)
	}
	if !g.Shape().Equal(dy.Shape()) {
		return fmt.Errorf("%w: dY shape %v differs from G shape %v", ErrShapeMismatch, dy.Shape(), g.Shape())
	}
	return nil
}
