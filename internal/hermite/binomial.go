package hermite

import (
	"time"

	"github.com/born-ml/photonic/internal/tensor"
)

// Binomial fills the amplitude tensor shell by shell in total photon number
// and stops once the accumulated Σ|G|² exceeds the norm budget.
//
// Shells 1 through globalCutoff-1 are considered (WithGlobalCutoff, default
// Σ cutoffs + 1, which covers the whole tensor). Cells outside the per-axis
// cutoffs are never computed. The norm is compared after each completed
// shell against WithMaxL2 (default DefaultMaxL2); cells beyond the stopping
// shell stay zero. The returned norm is Σ|G|² over all filled cells.
func Binomial(a, b, c *tensor.RawTensor, cutoffs []int, opts ...Option) (*tensor.RawTensor, float64, error) {
	const variant = "binomial"
	o := newOptions(opts)
	start := time.Now()

	t, err := validate(a, b, c)
	if err == nil {
		err = checkCutoffs(cutoffs, t.m)
	}
	if err != nil {
		return nil, 0, o.fail(variant, err)
	}

	lat := newLattice(cutoffs)
	out := tensor.MustNewRaw(lat.shape, tensor.Complex128, tensor.CPU)
	g := out.AsComplex128()
	g[0] = t.c
	norm := sqAbs(t.c)

	shells := lat.shells()
	global := o.globalCutoff
	if global <= 0 {
		global = len(shells)
	}
	last := min(global, len(shells)) - 1

	cells := 1
	for s := 1; s <= last; s++ {
		fillShell(g, t, lat, shells[s], o.par)
		cells += len(shells[s])
		for _, flat := range shells[s] {
			norm += sqAbs(g[flat])
		}
		if norm > o.maxL2 {
			if s < last {
				o.metrics.EarlyStop()
				o.log.Debug().
					Int("shell", s).
					Float64("norm", norm).
					Float64("max_l2", o.maxL2).
					Msg("norm budget reached")
			}
			break
		}
	}

	o.done(variant, cutoffs, cells, start)
	return out, norm, nil
}

func sqAbs(z complex128) float64 {
	return real(z)*real(z) + imag(z)*imag(z)
}
