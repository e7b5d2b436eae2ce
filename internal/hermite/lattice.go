package hermite

import (
	"errors"
	"fmt"
	"math"

	"github.com/born-ml/photonic/internal/tensor"
)

// lattice describes the multi-index grid of one fill.
type lattice struct {
	shape   tensor.Shape
	strides []int
	size    int
	sqrt    []float64 // sqrt[i] = √i for i up to the largest axis length
}

func newLattice(cutoffs []int) *lattice {
	shape := make(tensor.Shape, len(cutoffs))
	longest := 0
	for i, c := range cutoffs {
		shape[i] = c + 1
		longest = max(longest, c+1)
	}
	sq := make([]float64, longest+1)
	for i := range sq {
		sq[i] = math.Sqrt(float64(i))
	}
	return &lattice{
		shape:   shape,
		strides: shape.ComputeStrides(),
		size:    shape.NumElements(),
		sqrt:    sq,
	}
}

// rank is the number of axes.
func (l *lattice) rank() int {
	return len(l.shape)
}

// shells groups flat positions by total photon number. shells[s] lists the
// positions with Σn = s in row-major order.
func (l *lattice) shells() [][]int {
	maxTotal := 0
	for _, d := range l.shape {
		maxTotal += d - 1
	}
	out := make([][]int, maxTotal+1)
	idx := make([]int, l.rank())
	total := 0
	for flat := 0; flat < l.size; flat++ {
		out[total] = append(out[total], flat)
		// Odometer increment keeps the running total in step with idx.
		for d := l.rank() - 1; d >= 0; d-- {
			idx[d]++
			total++
			if idx[d] < l.shape[d] {
				break
			}
			total -= idx[d]
			idx[d] = 0
		}
	}
	return out
}

// step computes G[flat] from its predecessors. idx is the multi-index of flat
// and is restored before returning.
func (l *lattice) step(g, a, b []complex128, idx []int, flat int) {
	m := l.rank()
	k := 0
	for idx[k] == 0 {
		k++
	}
	nk := idx[k]
	prev := flat - l.strides[k]

	idx[k]--
	v := b[k] * g[prev]
	row := a[k*m : (k+1)*m]
	for j, mj := range idx {
		if mj > 0 && row[j] != 0 {
			v += row[j] * complex(l.sqrt[mj], 0) * g[prev-l.strides[j]]
		}
	}
	idx[k]++

	g[flat] = v / complex(l.sqrt[nk], 0)
}

// triple holds validated generating-function data as flat complex slices.
type triple struct {
	m int
	a []complex128 // m×m row-major
	b []complex128
	c complex128
}

func complexData(x *tensor.RawTensor) []complex128 {
	if x.DType() == tensor.Complex128 {
		return x.AsComplex128()
	}
	f := x.AsFloat64()
	out := make([]complex128, len(f))
	for i, v := range f {
		out[i] = complex(v, 0)
	}
	return out
}

// reason labels a validation failure for metrics.
func reason(err error) string {
	if errors.Is(err, ErrInvalidCutoff) {
		return "invalid_cutoff"
	}
	return "shape_mismatch"
}

// validate checks the shapes of A, B and C. Nothing is allocated for the
// output before it and checkCutoffs succeed.
func validate(a, b, c *tensor.RawTensor) (*triple, error) {
	if a == nil || b == nil || c == nil {
		return nil, fmt.Errorf("%w: A, B and C are required", ErrShapeMismatch)
	}
	if a.Rank() != 2 || a.Shape()[0] != a.Shape()[1] {
		return nil, fmt.Errorf("%w: A must be square, got %v", ErrShapeMismatch, a.Shape())
	}
	m := a.Shape()[0]
	if b.Rank() != 1 || b.Shape()[0] != m {
		return nil, fmt.Errorf("%w: B has shape %v, A is %d×%d", ErrShapeMismatch, b.Shape(), m, m)
	}
	if c.NumElements() != 1 {
		return nil, fmt.Errorf("%w: C must be a scalar, got %v", ErrShapeMismatch, c.Shape())
	}
	return &triple{m: m, a: complexData(a), b: complexData(b), c: c.Item()}, nil
}

// checkCutoffs requires want non-negative cutoffs.
func checkCutoffs(cutoffs []int, want int) error {
	if len(cutoffs) == 0 {
		return fmt.Errorf("%w: no cutoffs given", ErrInvalidCutoff)
	}
	for i, co := range cutoffs {
		if co < 0 {
			return fmt.Errorf("%w: cutoff %d is %d", ErrInvalidCutoff, i, co)
		}
	}
	if len(cutoffs) != want {
		return fmt.Errorf("%w: %d cutoffs for %d variables", ErrShapeMismatch, len(cutoffs), want)
	}
	return nil
}
