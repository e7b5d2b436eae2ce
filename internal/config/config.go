// Package config holds the process configuration.
//
// Values are resolved in a fixed order: Default, then an optional YAML file,
// then PHOTONIC_* environment variables, then Validate. The result is passed
// by value and never mutated afterwards.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/born-ml/photonic/internal/parallel"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config is the full process configuration.
type Config struct {
	Physics  Physics  `yaml:"physics"`
	Engine   Engine   `yaml:"engine"`
	Log      Log      `yaml:"log"`
	Sampling Sampling `yaml:"sampling"`
}

// Physics contains the numerical settings of the Fock layer.
type Physics struct {
	Hbar                  float64 `yaml:"hbar"`
	AutocutoffMin         int     `yaml:"autocutoff_min"`
	AutocutoffMax         int     `yaml:"autocutoff_max"`
	AutocutoffStdevFactor float64 `yaml:"autocutoff_stdev_factor"`
	AutocutoffProbability float64 `yaml:"autocutoff_probability"`
	ChoiR                 float64 `yaml:"choi_r"`
	Rtol                  float64 `yaml:"rtol"`
	Atol                  float64 `yaml:"atol"`
}

// Engine contains the worker settings of the amplitude engine.
type Engine struct {
	Parallel     bool `yaml:"parallel"`
	Workers      int  `yaml:"workers"`
	MinChunkSize int  `yaml:"min_chunk_size"`
}

// Log contains logger settings.
type Log struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Sampling contains the sampler seed. Zero means seed from the clock.
type Sampling struct {
	Seed uint64 `yaml:"seed"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Physics: Physics{
			Hbar:                  2,
			AutocutoffMin:         1,
			AutocutoffMax:         100,
			AutocutoffStdevFactor: 5,
			AutocutoffProbability: 0.999,
			ChoiR:                 math.Asinh(1), // 0.881373587019543
			Rtol:                  1e-6,
			Atol:                  1e-8,
		},
		Engine: Engine{
			Parallel:     false,
			Workers:      runtime.NumCPU(),
			MinChunkSize: 64,
		},
		Log: Log{Level: "info"},
	}
}

// Load resolves the configuration. An empty path skips the file stage.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges and cross-field constraints.
func (c Config) Validate() error {
	p := c.Physics
	switch {
	case p.Hbar <= 0:
		return fmt.Errorf("%w: hbar must be positive, got %g", ErrInvalid, p.Hbar)
	case p.AutocutoffMin < 1:
		return fmt.Errorf("%w: autocutoff_min must be at least 1, got %d", ErrInvalid, p.AutocutoffMin)
	case p.AutocutoffMax < p.AutocutoffMin:
		return fmt.Errorf("%w: autocutoff_max %d below autocutoff_min %d", ErrInvalid, p.AutocutoffMax, p.AutocutoffMin)
	case p.AutocutoffStdevFactor < 0:
		return fmt.Errorf("%w: autocutoff_stdev_factor must be non-negative", ErrInvalid)
	case p.AutocutoffProbability <= 0 || p.AutocutoffProbability > 1:
		return fmt.Errorf("%w: autocutoff_probability must be in (0, 1], got %g", ErrInvalid, p.AutocutoffProbability)
	case p.ChoiR <= 0:
		return fmt.Errorf("%w: choi_r must be positive, got %g", ErrInvalid, p.ChoiR)
	case p.Rtol < 0 || p.Atol < 0:
		return fmt.Errorf("%w: tolerances must be non-negative", ErrInvalid)
	}
	if c.Engine.Workers < 1 {
		return fmt.Errorf("%w: engine.workers must be at least 1, got %d", ErrInvalid, c.Engine.Workers)
	}
	if c.Engine.MinChunkSize < 1 {
		return fmt.Errorf("%w: engine.min_chunk_size must be at least 1, got %d", ErrInvalid, c.Engine.MinChunkSize)
	}
	return nil
}

// ParallelConfig converts the engine section for the worker pool.
func (e Engine) ParallelConfig() parallel.Config {
	return parallel.Config{
		Enabled:      e.Parallel,
		NumWorkers:   e.Workers,
		MinChunkSize: e.MinChunkSize,
	}
}
