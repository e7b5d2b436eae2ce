package config

import (
	"fmt"
	"os"
	"strconv"
)

const envPrefix = "PHOTONIC_"

func (c *Config) applyEnv() error {
	floats := []struct {
		key string
		dst *float64
	}{
		{"HBAR", &c.Physics.Hbar},
		{"AUTOCUTOFF_STDEV_FACTOR", &c.Physics.AutocutoffStdevFactor},
		{"AUTOCUTOFF_PROBABILITY", &c.Physics.AutocutoffProbability},
		{"CHOI_R", &c.Physics.ChoiR},
		{"RTOL", &c.Physics.Rtol},
		{"ATOL", &c.Physics.Atol},
	}
	for _, f := range floats {
		if err := envFloat(f.key, f.dst); err != nil {
			return err
		}
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"AUTOCUTOFF_MIN", &c.Physics.AutocutoffMin},
		{"AUTOCUTOFF_MAX", &c.Physics.AutocutoffMax},
		{"ENGINE_WORKERS", &c.Engine.Workers},
		{"ENGINE_MIN_CHUNK_SIZE", &c.Engine.MinChunkSize},
	}
	for _, i := range ints {
		if err := envInt(i.key, i.dst); err != nil {
			return err
		}
	}

	if err := envBool("ENGINE_PARALLEL", &c.Engine.Parallel); err != nil {
		return err
	}
	if err := envBool("LOG_PRETTY", &c.Log.Pretty); err != nil {
		return err
	}
	if v, ok := os.LookupEnv(envPrefix + "LOG_LEVEL"); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := os.LookupEnv(envPrefix + "SEED"); ok && v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %sSEED: %v", ErrInvalid, envPrefix, err)
		}
		c.Sampling.Seed = seed
	}
	return nil
}

func envFloat(key string, dst *float64) error {
	v, ok := os.LookupEnv(envPrefix + key)
	if !ok || v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("%w: %s%s: %v", ErrInvalid, envPrefix, key, err)
	}
	*dst = f
	return nil
}

func envInt(key string, dst *int) error {
	v, ok := os.LookupEnv(envPrefix + key)
	if !ok || v == "" {
		return nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%w: %s%s: %v", ErrInvalid, envPrefix, key, err)
	}
	*dst = i
	return nil
}

func envBool(key string, dst *bool) error {
	v, ok := os.LookupEnv(envPrefix + key)
	if !ok || v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%w: %s%s: %v", ErrInvalid, envPrefix, key, err)
	}
	*dst = b
	return nil
}
