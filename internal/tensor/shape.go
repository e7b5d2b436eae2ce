package tensor

import (
	"fmt"
	"math"
)

// Shape represents the dimensions of a tensor.
// The empty shape denotes a scalar.
type Shape []int

// NumElements returns the total number of elements in the tensor.
// It panics if the count overflows int; Validate reports that as an error.
func (s Shape) NumElements() int {
	n, ok := mulChecked(1, s...)
	if !ok {
		panic(fmt.Sprintf("shape %v: %v", []int(s), ErrShapeOverflow))
	}
	return n
}

// ByteSize returns the storage size of a tensor of this shape and dtype.
func (s Shape) ByteSize(dtype DataType) (int, error) {
	n, ok := mulChecked(dtype.Size(), s...)
	if !ok {
		return 0, fmt.Errorf("shape %v of %s: %w", []int(s), dtype, ErrShapeOverflow)
	}
	return n, nil
}

// Validate checks that all dimensions are positive and that the element
// count fits in an int.
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim <= 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be > 0)", i, dim)
		}
	}
	if _, ok := mulChecked(1, s...); !ok {
		return fmt.Errorf("shape %v: %w", []int(s), ErrShapeOverflow)
	}
	return nil
}

// mulChecked multiplies n by the factors, reporting overflow of positive products.
func mulChecked(n int, factors ...int) (int, bool) {
	for _, f := range factors {
		if f > 0 && n > math.MaxInt/f {
			return 0, false
		}
		n *= f
	}
	return n, true
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// ComputeStrides calculates row-major strides for the shape.
// Strides define memory layout: stride[i] = product of all dimensions after i.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// Unravel writes the multi-index of flat position i into idx.
// idx must have len(s) elements.
func (s Shape) Unravel(i int, idx []int) {
	for d := len(s) - 1; d >= 0; d-- {
		idx[d] = i % s[d]
		i /= s[d]
	}
}

// Ravel returns the flat row-major position of a multi-index.
func (s Shape) Ravel(idx []int) int {
	flat := 0
	for d, v := range idx {
		flat = flat*s[d] + v
	}
	return flat
}

// Permute returns the shape with its axes reordered: out[i] = s[axes[i]].
func (s Shape) Permute(axes []int) Shape {
	out := make(Shape, len(axes))
	for i, a := range axes {
		out[i] = s[a]
	}
	return out
}

// BroadcastShapes implements NumPy-style broadcasting rules.
//
// Rules:
// 1. Compare shapes element-wise from right to left
// 2. Dimensions are compatible if:
//   - They are equal, OR
//   - One of them is 1
//
// 3. Missing dimensions are treated as 1
//
// Returns the broadcasted shape, a flag indicating if broadcasting is needed, and an error if incompatible.
//
// Examples:
//
//	(3, 1) + (3, 5) → (3, 5), true, nil
//	() + (3, 5) → (3, 5), true, nil
//	(3, 5) + (3, 5) → (3, 5), false, nil
//	(3, 4) + (3, 5) → nil, false, Error
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	maxLen := max(len(a), len(b))
	result := make(Shape, maxLen)
	needsBroadcast := len(a) != len(b)

	for i := 0; i < maxLen; i++ {
		aIdx := len(a) - 1 - i
		bIdx := len(b) - 1 - i

		aDim := 1
		if aIdx >= 0 {
			aDim = a[aIdx]
		}

		bDim := 1
		if bIdx >= 0 {
			bDim = b[bIdx]
		}

		switch {
		case aDim == bDim:
			result[maxLen-1-i] = aDim
		case aDim == 1:
			result[maxLen-1-i] = bDim
			needsBroadcast = true
		case bDim == 1:
			result[maxLen-1-i] = aDim
			needsBroadcast = true
		default:
			return nil, false, fmt.Errorf("shapes not compatible for broadcasting: %v vs %v (dimension %d: %d vs %d)",
				a, b, maxLen-1-i, aDim, bDim)
		}
	}

	return result, needsBroadcast, nil
}

// ValidatePermutation checks that axes is a permutation of 0..rank-1.
func ValidatePermutation(axes []int, rank int) error {
	if len(axes) != rank {
		return fmt.Errorf("permutation has %d axes, tensor has rank %d", len(axes), rank)
	}
	seen := make([]bool, rank)
	for _, a := range axes {
		if a < 0 || a >= rank || seen[a] {
			return fmt.Errorf("invalid permutation %v for rank %d", axes, rank)
		}
		seen[a] = true
	}
	return nil
}

// InversePermutation returns the permutation that undoes axes.
func InversePermutation(axes []int) []int {
	inv := make([]int, len(axes))
	for i, a := range axes {
		inv[a] = i
	}
	return inv
}
