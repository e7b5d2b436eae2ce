package hermite

import (
	"time"

	"github.com/born-ml/photonic/internal/tensor"
)

// Jacobian fills G together with ∂G/∂A and ∂G/∂B by differentiating the
// recursion. dgda has shape (G shape..., M, M) and is symmetric in its last two
// axes; dgdb has shape (G shape..., M). ∂G/∂C is G/C and is not returned.
//
// Memory grows as M² times the size of G, so this is meant for small
// tensors. The fill is sequential.
func Jacobian(a, b, c *tensor.RawTensor, cutoffs []int, opts ...Option) (g, dgda, dgdb *tensor.RawTensor, err error) {
	const variant = "jacobian"
	o := newOptions(opts)
	start := time.Now()

	t, err := validate(a, b, c)
	if err == nil {
		err = checkCutoffs(cutoffs, t.m)
	}
	if err != nil {
		return nil, nil, nil, o.fail(variant, err)
	}

	lat := newLattice(cutoffs)
	m, mm := t.m, t.m*t.m

	g = tensor.MustNewRaw(lat.shape, tensor.Complex128, tensor.CPU)
	dgda = tensor.MustNewRaw(append(lat.shape.Clone(), m, m), tensor.Complex128, tensor.CPU)
	dgdb = tensor.MustNewRaw(append(lat.shape.Clone(), m), tensor.Complex128, tensor.CPU)
	gv, da, db := g.AsComplex128(), dgda.AsComplex128(), dgdb.AsComplex128()

	gv[0] = t.c
	idx := make([]int, m)
	for flat := 1; flat < lat.size; flat++ {
		lat.shape.Unravel(flat, idx)
		k := 0
		for idx[k] == 0 {
			k++
		}
		nk := idx[k]
		prev := flat - lat.strides[k]
		inv := complex(1/lat.sqrt[nk], 0)
		row := t.a[k*m : (k+1)*m]

		idx[k]--
		// G itself.
		v := t.b[k] * gv[prev]
		for j, mj := range idx {
			if mj > 0 {
				v += row[j] * complex(lat.sqrt[mj], 0) * gv[prev-lat.strides[j]]
			}
		}
		gv[flat] = v * inv

		// ∂G/∂B_i: the homogeneous recursion plus δ_ki G[m].
		for i := 0; i < m; i++ {
			v := t.b[k] * db[prev*m+i]
			for j, mj := range idx {
				if mj > 0 {
					v += row[j] * complex(lat.sqrt[mj], 0) * db[(prev-lat.strides[j])*m+i]
				}
			}
			if i == k {
				v += gv[prev]
			}
			db[flat*m+i] = v * inv
		}

		// ∂G/∂A_pq with entries treated as independent: the homogeneous
		// recursion plus √m_q G[m-e_q] on row p = k.
		for p := 0; p < mm; p++ {
			v := t.b[k] * da[prev*mm+p]
			for j, mj := range idx {
				if mj > 0 {
					v += row[j] * complex(lat.sqrt[mj], 0) * da[(prev-lat.strides[j])*mm+p]
				}
			}
			da[flat*mm+p] = v
		}
		for q, mq := range idx {
			if mq > 0 {
				da[flat*mm+k*m+q] += complex(lat.sqrt[mq], 0) * gv[prev-lat.strides[q]]
			}
		}
		for p := 0; p < mm; p++ {
			da[flat*mm+p] *= inv
		}
		idx[k]++
	}

	// Only the symmetric part of A enters f, so report the symmetric derivative.
	for flat := 0; flat < lat.size; flat++ {
		cell := da[flat*mm : (flat+1)*mm]
		for p := 0; p < m; p++ {
			for q := p + 1; q < m; q++ {
				s := (cell[p*m+q] + cell[q*m+p]) / 2
				cell[p*m+q], cell[q*m+p] = s, s
			}
		}
	}

	o.done(variant, cutoffs, lat.size, start)
	return g, dgda, dgdb, nil
}
