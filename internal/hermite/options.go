package hermite

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/born-ml/photonic/internal/metrics"
	"github.com/born-ml/photonic/internal/parallel"
)

// DefaultMaxL2 is the norm budget of the binomial fill.
const DefaultMaxL2 = 0.999

// Option configures an engine call.
type Option func(*options)

type options struct {
	par          parallel.Config
	log          zerolog.Logger
	metrics      *metrics.Engine
	maxL2        float64
	globalCutoff int // 0 means Σ cutoffs + 1
}

func newOptions(opts []Option) *options {
	o := &options{
		par:   parallel.Sequential(),
		log:   zerolog.Nop(),
		maxL2: DefaultMaxL2,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithParallel fills each shell of equal total photon number concurrently.
func WithParallel(cfg parallel.Config) Option {
	return func(o *options) {
		o.par = cfg
	}
}

// WithLogger sets the logger for fill diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.log = l.With().Str("component", "hermite").Logger()
	}
}

// WithMetrics records fills on m.
func WithMetrics(m *metrics.Engine) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithMaxL2 sets the norm at which the binomial fill stops.
func WithMaxL2(v float64) Option {
	return func(o *options) {
		o.maxL2 = v
	}
}

// WithGlobalCutoff bounds the total photon number of the binomial fill:
// shells 1..n-1 are filled.
func WithGlobalCutoff(n int) Option {
	return func(o *options) {
		o.globalCutoff = n
	}
}

func (o *options) fail(variant string, err error) error {
	o.metrics.Error(variant, reason(err))
	o.log.Debug().Err(err).Str("variant", variant).Msg("rejected")
	return err
}

func (o *options) done(variant string, cutoffs []int, cells int, start time.Time) {
	elapsed := time.Since(start)
	o.metrics.ObserveFill(variant, cells, elapsed)
	o.log.Debug().
		Str("variant", variant).
		Ints("cutoffs", cutoffs).
		Int("cells", cells).
		Dur("elapsed", elapsed).
		Msg("fill complete")
}
