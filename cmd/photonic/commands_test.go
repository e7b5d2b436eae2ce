package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the CLI with args and returns what it printed to stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--env-file", "", "--log-level", "error"}, args...))
	err := cmd.Execute()
	return stdout.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "photonic "+version+"\n", out)
}

func TestFockCoherent(t *testing.T) {
	// ħ = 2: α = (x + ip)/2, so x = 1 gives a mean photon number of 1/4.
	out, err := run(t, "fock", "--state", "coherent", "--x", "1", "--cutoff", "20")
	require.NoError(t, err)
	assert.Contains(t, out, "state: coherent (1 modes)")
	assert.Contains(t, out, "shape: [20] (ket)")
	assert.Contains(t, out, "norm: 1.00000000")
	assert.Contains(t, out, "mode 0: mean 0.250000 variance 0.250000")
}

func TestFockConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photonic.yaml")
	require.NoError(t, os.WriteFile(path, []byte("physics:\n  hbar: 1\n"), 0o600))

	out, err := run(t, "--config", path, "fock", "--state", "coherent", "--x", "1", "--cutoff", "20")
	require.NoError(t, err)
	assert.Contains(t, out, "mode 0: mean 0.500000")
}

func TestFockEnvFile(t *testing.T) {
	t.Setenv("PHOTONIC_HBAR", "")
	require.NoError(t, os.Unsetenv("PHOTONIC_HBAR"))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PHOTONIC_HBAR=1\n"), 0o600))

	var stdout bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--env-file", path, "fock", "--state", "coherent", "--x", "1", "--cutoff", "20"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), "mode 0: mean 0.500000")
}

func TestFockMixedStateIsDM(t *testing.T) {
	out, err := run(t, "fock", "--state", "thermal", "--nbar", "0.3")
	require.NoError(t, err)
	assert.Contains(t, out, "(dm)")
}

func TestFockErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown state", []string{"fock", "--state", "cat"}},
		{"coherent without means", []string{"fock", "--state", "coherent"}},
		{"squeezed without r", []string{"fock", "--state", "squeezed"}},
		{"mismatched means", []string{"fock", "--state", "coherent", "--x", "1,2", "--p", "1"}},
		{"bad config", []string{"--config", "missing.yaml", "fock"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestFockWriteAndInspect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.safetensors")

	out, err := run(t, "fock", "--state", "coherent", "--x", "1", "--p", "0.5", "--cutoff", "8", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "written: "+path)

	out, err = run(t, "inspect", path)
	require.NoError(t, err)
	assert.Contains(t, out, "  state complex128 [8]")
	assert.Contains(t, out, "  cov float64 [2 2]")
	assert.Contains(t, out, "  means float64 [2]")
	assert.Contains(t, out, "  gaussian: coherent")
	assert.Contains(t, out, "  kind: ket")
	assert.Contains(t, out, "  hbar: 2")
}

func TestInspectCorrupted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.safetensors")
	_, err := run(t, "fock", "--state", "vacuum", "--cutoff", "3", "--out", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[len(data)-1] ^= 0xff
	require.NoError(t, os.WriteFile(path, data, 0o600))

	_, err = run(t, "inspect", path)
	assert.Error(t, err)

	_, err = run(t, "inspect", "--skip-checksum", path)
	assert.NoError(t, err)
}

func TestSamplePNRVacuum(t *testing.T) {
	out, err := run(t, "sample", "--state", "vacuum", "--cutoff", "4", "--shots", "50", "--seed", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "measurement: pnr on vacuum")
	assert.Contains(t, out, "mean: 0.000000")
	assert.Contains(t, out, "n=0: 50")
}

func TestSampleHomodyneSeeded(t *testing.T) {
	args := []string{"sample", "--state", "coherent", "--x", "2", "--measure", "homodyne", "--shots", "200", "--seed", "7"}
	first, err := run(t, args...)
	require.NoError(t, err)
	second, err := run(t, args...)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Contains(t, first, "measurement: homodyne on coherent")
}

func TestSampleErrors(t *testing.T) {
	_, err := run(t, "sample", "--state", "tmsv", "--r", "0.3")
	assert.Error(t, err)

	_, err = run(t, "sample", "--measure", "heterodyne")
	assert.Error(t, err)

	_, err = run(t, "sample", "--shots", "0")
	assert.Error(t, err)
}

func TestMetricsFlag(t *testing.T) {
	out, err := run(t, "--metrics", "fock", "--state", "vacuum", "--cutoff", "3")
	require.NoError(t, err)
	assert.Contains(t, out, `photonic_engine_cells_total{variant="vanilla"} 3`)
	assert.Contains(t, out, `photonic_engine_fill_seconds_count{variant="vanilla"} 1`)
}
