package hermite

import "errors"

var (
	// ErrInvalidCutoff is returned for empty or negative cutoffs.
	ErrInvalidCutoff = errors.New("hermite: invalid cutoff")

	// ErrShapeMismatch is returned when A, B, C, the cutoffs or an upstream
	// gradient disagree in size.
	ErrShapeMismatch = errors.New("hermite: shape mismatch")
)
