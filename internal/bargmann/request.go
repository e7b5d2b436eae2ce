package bargmann

import (
	"errors"
	"fmt"
)

// Errors returned by the converter. All of them are reported before any
// computation starts.
var (
	ErrInvalidConfiguration = errors.New("bargmann: invalid configuration")
	ErrMissingParameter     = errors.New("bargmann: missing parameter")
	ErrShapeMismatch        = errors.New("bargmann: shape mismatch")
)

// Mode selects which physical object a triple describes.
type Mode int

// Supported modes.
const (
	Ket Mode = iota
	DM
	Unitary
	Choi
)

func (m Mode) String() string {
	switch m {
	case Ket:
		return "ket"
	case DM:
		return "dm"
	case Unitary:
		return "unitary"
	case Choi:
		return "choi"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Request describes one conversion.
type Request struct {
	Full    bool     // doubled-size triple (density matrix or Choi)
	Unitary bool     // undo the TMSV encoding on the half triple
	Choi    bool     // undo the TMSV encoding on the full triple
	ChoiR   *float64 // TMSV squeezing used for the channel encoding
	Hbar    float64
}

// Request returns the conversion request for m.
func (m Mode) Request(hbar float64, choiR *float64) Request {
	return Request{
		Full:    m == DM || m == Choi,
		Unitary: m == Unitary,
		Choi:    m == Choi,
		ChoiR:   choiR,
		Hbar:    hbar,
	}
}

// Validate rejects conflicting or incomplete requests.
func (r Request) Validate() error {
	switch {
	case r.Full && r.Unitary:
		return fmt.Errorf("%w: a unitary triple cannot be full size", ErrInvalidConfiguration)
	case r.Unitary && r.Choi:
		return fmt.Errorf("%w: unitary and choi are exclusive", ErrInvalidConfiguration)
	case r.Choi && !r.Full:
		return fmt.Errorf("%w: a choi triple must be full size", ErrInvalidConfiguration)
	case (r.Unitary || r.Choi) && r.ChoiR == nil:
		return fmt.Errorf("%w: choi_r is required to decode a transformation", ErrMissingParameter)
	case r.ChoiR != nil && *r.ChoiR <= 0:
		return fmt.Errorf("%w: choi_r must be positive, got %v", ErrInvalidConfiguration, *r.ChoiR)
	case r.Hbar <= 0:
		return fmt.Errorf("%w: hbar must be positive, got %v", ErrInvalidConfiguration, r.Hbar)
	}
	return nil
}
