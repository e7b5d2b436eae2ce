// Package fock implements algebra on truncated photon-number tensors.
//
// Kets have one axis per mode. Density matrices have axes
// (out_0..out_{N-1}, in_0..in_{N-1}). Unitaries share that order and Choi
// tensors use (out_l, in_l, out_r, in_r), each a block of N axes. Shapes are
// dimensions: an axis of size d holds photon numbers 0..d-1. Every operation
// returns a new tensor.
package fock

import (
	"errors"
	"math"

	"github.com/rs/zerolog"

	"github.com/born-ml/photonic/internal/config"
	"github.com/born-ml/photonic/internal/hermite"
	"github.com/born-ml/photonic/internal/logger"
	"github.com/born-ml/photonic/internal/metrics"
	"github.com/born-ml/photonic/internal/parallel"
	"github.com/born-ml/photonic/internal/tensor"
)

// Errors returned by the Fock layer.
var (
	ErrShapeMismatch   = errors.New("fock: shape mismatch")
	ErrMixedState      = errors.New("fock: state is mixed")
	ErrInvalidOperator = errors.New("fock: operator rank does not match its modes")
	ErrNotSingleMode   = errors.New("fock: expected a single-mode state")
)

// Space runs Fock-layer operations with one backend and one physics configuration.
type Space struct {
	backend tensor.Backend
	cfg     config.Physics
	par     parallel.Config
	root    zerolog.Logger // untagged, handed to the engine
	log     zerolog.Logger
	metrics *metrics.Engine
}

// Option configures a Space.
type Option func(*Space)

// WithParallel sets the worker configuration of the amplitude engine.
func WithParallel(cfg parallel.Config) Option {
	return func(s *Space) {
		s.par = cfg
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Space) {
		s.root = l
		s.log = logger.Component(l, "fock")
	}
}

// WithMetrics records engine calls on m.
func WithMetrics(m *metrics.Engine) Option {
	return func(s *Space) {
		s.metrics = m
	}
}

// New creates a Space.
func New(b tensor.Backend, cfg config.Physics, opts ...Option) *Space {
	s := &Space{
		backend: b,
		cfg:     cfg,
		par:     parallel.Sequential(),
		root:    zerolog.Nop(),
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Backend returns the backend used by s.
func (s *Space) Backend() tensor.Backend {
	return s.backend
}

// Physics returns the physics configuration of s.
func (s *Space) Physics() config.Physics {
	return s.cfg
}

func (s *Space) engine(extra ...hermite.Option) []hermite.Option {
	opts := []hermite.Option{
		hermite.WithParallel(s.par),
		hermite.WithLogger(s.root),
		hermite.WithMetrics(s.metrics),
	}
	return append(opts, extra...)
}

// isClose mirrors numpy.isclose with the configured tolerances.
func (s *Space) isClose(a, b float64) bool {
	return math.Abs(a-b) <= s.cfg.Atol+s.cfg.Rtol*math.Abs(b)
}

// cutoffs converts dimensions to engine cutoffs.
func cutoffs(shape []int) []int {
	out := make([]int, len(shape))
	for i, d := range shape {
		out[i] = d - 1
	}
	return out
}

func seq(from, to int) []int {
	out := make([]int, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, i)
	}
	return out
}

// free returns the axes of a rank-n tensor not in used, ascending.
func free(rank int, used []int) []int {
	skip := make(map[int]bool, len(used))
	for _, a := range used {
		skip[a] = true
	}
	out := make([]int, 0, rank)
	for d := 0; d < rank; d++ {
		if !skip[d] {
			out = append(out, d)
		}
	}
	return out
}

func product(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}
