// Package sampler draws measurement outcomes from Fock-space states.
package sampler

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/born-ml/photonic/internal/logger"
	"github.com/born-ml/photonic/internal/tensor"
)

// Errors returned by samplers.
var (
	ErrShapeMismatch       = errors.New("sampler: shape mismatch")
	ErrInvalidDistribution = errors.New("sampler: invalid distribution")
)

// ProbFunc returns unnormalized outcome probabilities for a state.
type ProbFunc func(state *tensor.RawTensor, isDM bool) ([]float64, error)

// Sampler draws outcomes either from fixed probabilities or from
// probabilities computed per state. It is not safe for concurrent use.
type Sampler struct {
	outcomes []float64
	probs    []float64
	fn       ProbFunc
	src      rand.Source
	log      zerolog.Logger
}

// Option configures a Sampler.
type Option func(*Sampler)

// WithSeed seeds the PCG source. Zero seeds from the clock.
func WithSeed(seed uint64) Option {
	return func(s *Sampler) {
		if seed == 0 {
			seed = uint64(time.Now().UnixNano()) //nolint:gosec // clock seed for unseeded runs
		}
		s.src = rand.NewPCG(seed, seed)
	}
}

// WithSource sets the random source.
func WithSource(src rand.Source) Option {
	return func(s *Sampler) {
		s.src = src
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Sampler) {
		s.log = logger.Component(l, "sampler")
	}
}

func build(outcomes []float64, opts []Option) *Sampler {
	s := &Sampler{outcomes: outcomes, log: zerolog.Nop()}
	WithSeed(0)(s)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// New returns a sampler with fixed outcome probabilities, normalized to sum 1.
func New(outcomes, probs []float64, opts ...Option) (*Sampler, error) {
	if len(outcomes) != len(probs) {
		return nil, fmt.Errorf("%w: %d outcomes, %d probabilities", ErrShapeMismatch, len(outcomes), len(probs))
	}
	p, err := normalize(probs)
	if err != nil {
		return nil, err
	}
	s := build(outcomes, opts)
	s.probs = p
	return s, nil
}

// NewFunc returns a sampler whose probabilities come from fn.
func NewFunc(outcomes []float64, fn ProbFunc, opts ...Option) *Sampler {
	s := build(outcomes, opts)
	s.fn = fn
	return s
}

// Outcomes returns the outcome values.
func (s *Sampler) Outcomes() []float64 {
	return s.outcomes
}

// Probs returns the normalized outcome probabilities for state. Samplers
// with fixed probabilities ignore the state.
func (s *Sampler) Probs(state *tensor.RawTensor, isDM bool) ([]float64, error) {
	if s.fn == nil {
		return append([]float64(nil), s.probs...), nil
	}
	raw, err := s.fn(state, isDM)
	if err != nil {
		return nil, err
	}
	if len(raw) != len(s.outcomes) {
		return nil, fmt.Errorf("%w: %d outcomes, %d probabilities", ErrShapeMismatch, len(s.outcomes), len(raw))
	}
	return normalize(raw)
}

// Sample draws n outcomes for state.
func (s *Sampler) Sample(state *tensor.RawTensor, isDM bool, n int) ([]float64, error) {
	probs, err := s.Probs(state, isDM)
	if err != nil {
		return nil, err
	}
	dist := distuv.NewCategorical(probs, s.src)
	out := make([]float64, n)
	for i := range out {
		out[i] = s.outcomes[int(dist.Rand())]
	}
	s.log.Debug().Int("samples", n).Int("outcomes", len(s.outcomes)).Msg("sampled")
	return out, nil
}

func normalize(probs []float64) ([]float64, error) {
	for _, p := range probs {
		if p < 0 {
			return nil, fmt.Errorf("%w: negative probability %g", ErrInvalidDistribution, p)
		}
	}
	sum := floats.Sum(probs)
	if sum <= 0 {
		return nil, fmt.Errorf("%w: probabilities sum to %g", ErrInvalidDistribution, sum)
	}
	out := append([]float64(nil), probs...)
	floats.Scale(1/sum, out)
	return out, nil
}
