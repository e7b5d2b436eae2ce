// Package parallel provides the worker-pool helpers used by the amplitude engine.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum items per goroutine to avoid overhead.
}

// DefaultConfig returns defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 64,
	}
}

// Sequential returns a configuration that never spawns goroutines.
func Sequential() Config {
	return Config{NumWorkers: 1, MinChunkSize: 1}
}

// Chunks returns the number of chunks ForChunks will use for n items.
func (cfg Config) Chunks(n int) int {
	if n <= 0 {
		return 0
	}
	if !cfg.Enabled || cfg.NumWorkers <= 1 || n < cfg.MinChunkSize {
		return 1
	}
	size := cfg.chunkSize(n)
	return (n + size - 1) / size
}

func (cfg Config) chunkSize(n int) int {
	workers := max(cfg.NumWorkers, 1)
	return max((n+workers-1)/workers, cfg.MinChunkSize, 1)
}

// For executes f(i) for i in [0, n) with optional parallelism.
// Falls back to sequential execution if parallelism is disabled or n is too small.
func For(n int, f func(i int), cfg Config) {
	ForChunks(n, func(_, start, end int) {
		for i := start; i < end; i++ {
			f(i)
		}
	}, cfg)
}

// ForChunks splits [0, n) into cfg.Chunks(n) contiguous ranges and calls
// f(chunk, start, end) for each, concurrently when enabled. Chunk indices are
// dense in [0, cfg.Chunks(n)), so callers can keep one accumulator per chunk.
func ForChunks(n int, f func(chunk, start, end int), cfg Config) {
	chunks := cfg.Chunks(n)
	if chunks == 0 {
		return
	}
	if chunks == 1 {
		f(0, 0, n)
		return
	}

	size := cfg.chunkSize(n)
	var wg sync.WaitGroup
	for c := 0; c < chunks; c++ {
		start := c * size
		end := min(start+size, n)
		wg.Add(1)
		go func(c, s, e int) {
			defer wg.Done()
			f(c, s, e)
		}(c, start, end)
	}
	wg.Wait()
}
