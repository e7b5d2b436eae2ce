package fock

import (
	"fmt"
	"slices"

	"github.com/born-ml/photonic/internal/tensor"
)

// checkModes validates that modes are distinct axes of a rank-n state and
// that the operator axes starting at from match their dimensions.
func checkModes(op *tensor.RawTensor, from int, state tensor.Shape, modes []int, n int) error {
	seen := make(map[int]bool, len(modes))
	for i, m := range modes {
		if m < 0 || m >= n || seen[m] {
			return fmt.Errorf("%w: invalid modes %v for %d modes", ErrShapeMismatch, modes, n)
		}
		seen[m] = true
		if op.Shape()[from+i] != state[m] {
			return fmt.Errorf("%w: operator axis %d has dimension %d, mode %d has %d",
				ErrShapeMismatch, from+i, op.Shape()[from+i], m, state[m])
		}
	}
	return nil
}

// restore puts the leading axes of a contraction result back at the target
// positions, keeping the other axes in order.
func (s *Space) restore(x *tensor.RawTensor, targets []int) *tensor.RawTensor {
	labels := slices.Concat(targets, free(x.Rank(), targets))
	return s.backend.Transpose(x, tensor.InversePermutation(labels)...)
}

func shift(modes []int, by int) []int {
	out := make([]int, len(modes))
	for i, m := range modes {
		out[i] = m + by
	}
	return out
}

// ApplyOpToKet applies op to the given modes of a ket. An op with 2k axes
// (out..., in...) returns a ket. A Choi op with 4k axes returns a density
// matrix.
func (s *Space) ApplyOpToKet(op, ket *tensor.RawTensor, modes []int) (*tensor.RawTensor, error) {
	k := len(modes)
	switch op.Rank() {
	case 2 * k:
		if err := checkModes(op, k, ket.Shape(), modes, ket.Rank()); err != nil {
			return nil, err
		}
		out := s.backend.Tensordot(op, ket, seq(k, 2*k), modes)
		return s.restore(out, modes), nil
	case 4 * k:
		return s.ApplyOpToDM(op, s.KetToDM(ket), modes)
	}
	return nil, fmt.Errorf("%w: rank %d on %d modes", ErrInvalidOperator, op.Rank(), k)
}

// ApplyOpToDM applies op to the given modes of a density matrix: U ρ U† for
// an op with 2k axes, or the channel of a Choi op with 4k axes
// (out_l, in_l, out_r, in_r).
func (s *Space) ApplyOpToDM(op, dm *tensor.RawTensor, modes []int) (*tensor.RawTensor, error) {
	n, err := halfRank(dm)
	if err != nil {
		return nil, err
	}
	k := len(modes)
	right := shift(modes, n)

	switch op.Rank() {
	case 2 * k:
		if err := checkModes(op, k, dm.Shape(), modes, n); err != nil {
			return nil, err
		}
		left := s.restore(s.backend.Tensordot(op, dm, seq(k, 2*k), modes), modes)
		out := s.backend.Tensordot(s.backend.Conj(op), left, seq(k, 2*k), right)
		return s.restore(out, right), nil
	case 4 * k:
		if err := checkModes(op, k, dm.Shape(), modes, n); err != nil {
			return nil, err
		}
		if err := checkModes(op, 3*k, dm.Shape(), modes, n); err != nil {
			return nil, err
		}
		out := s.backend.Tensordot(op, dm,
			slices.Concat(seq(k, 2*k), seq(3*k, 4*k)), slices.Concat(modes, right))
		return s.restore(out, slices.Concat(modes, right)), nil
	}
	return nil, fmt.Errorf("%w: rank %d on %d modes", ErrInvalidOperator, op.Rank(), k)
}

// ContractStates contracts b, which lives on the given modes of a, with the
// conjugate of b on those modes. Two kets give a ket normalized in L2 when
// normalize is set. If either state is mixed the other is promoted to a
// density matrix and the result is a density matrix normalized by its trace.
func (s *Space) ContractStates(a, b *tensor.RawTensor, aMixed, bMixed bool, modes []int, normalize bool) (*tensor.RawTensor, error) {
	k := len(modes)
	if !aMixed && !bMixed {
		if b.Rank() != k {
			return nil, fmt.Errorf("%w: ket of rank %d on %d modes", ErrShapeMismatch, b.Rank(), k)
		}
		if err := checkModes(b, 0, a.Shape(), modes, a.Rank()); err != nil {
			return nil, err
		}
		out := s.backend.Tensordot(s.backend.Conj(b), a, seq(0, k), modes)
		if normalize {
			return s.Normalize(out, false)
		}
		return out, nil
	}

	if !aMixed {
		a = s.KetToDM(a)
	}
	if !bMixed {
		b = s.KetToDM(b)
	}
	na, err := halfRank(a)
	if err != nil {
		return nil, err
	}
	if b.Rank() != 2*k {
		return nil, fmt.Errorf("%w: density matrix of rank %d on %d modes", ErrShapeMismatch, b.Rank(), k)
	}
	if err := checkModes(b, 0, a.Shape(), modes, na); err != nil {
		return nil, err
	}
	out := s.backend.Tensordot(a, s.backend.Conj(b),
		slices.Concat(modes, shift(modes, na)), seq(0, 2*k))
	if normalize {
		return s.Normalize(out, true)
	}
	return out, nil
}

// PartialTrace traces out every mode not in keep. The result has axes
// (out keep..., in keep...) in the order of keep.
func (s *Space) PartialTrace(dm *tensor.RawTensor, keep []int) (*tensor.RawTensor, error) {
	n, err := halfRank(dm)
	if err != nil {
		return nil, err
	}
	kept := slices.Clone(keep)
	slices.Sort(kept)
	if len(slices.Compact(slices.Clone(kept))) != len(kept) || (len(kept) > 0 && (kept[0] < 0 || kept[len(kept)-1] >= n)) {
		return nil, fmt.Errorf("%w: invalid modes %v for %d modes", ErrShapeMismatch, keep, n)
	}

	traced := free(n, kept)
	slices.Reverse(traced)
	x, cur := dm, n
	for _, m := range traced {
		x = s.backend.Diagonal(x, m, m+cur)
		x = s.backend.SumAxes(x, []int{x.Rank() - 1})
		cur--
	}

	pos := make([]int, len(keep))
	for i, m := range keep {
		pos[i], _ = slices.BinarySearch(kept, m)
	}
	return s.backend.Transpose(x, slices.Concat(pos, shift(pos, len(keep)))...), nil
}
