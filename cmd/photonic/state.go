package main

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/born-ml/photonic/internal/gaussian"
	"github.com/born-ml/photonic/internal/tensor"
)

// stateFlags describes a Gaussian state on the command line.
type stateFlags struct {
	name   string
	modes  int
	x, p   []float64
	r, phi []float64
	nbar   []float64
	cutoff int
	dm     bool
}

func (f *stateFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.name, "state", "vacuum", "Gaussian state: vacuum, coherent, squeezed, thermal or tmsv")
	fl.IntVar(&f.modes, "modes", 1, "number of modes of the vacuum")
	fl.Float64SliceVar(&f.x, "x", nil, "coherent x means, one per mode")
	fl.Float64SliceVar(&f.p, "p", nil, "coherent p means, one per mode")
	fl.Float64SliceVar(&f.r, "r", nil, "squeezing magnitudes (squeezed, tmsv)")
	fl.Float64SliceVar(&f.phi, "phi", nil, "squeezing angles; defaults to zero")
	fl.Float64SliceVar(&f.nbar, "nbar", nil, "thermal mean photon numbers")
	fl.IntVar(&f.cutoff, "cutoff", 0, "Fock dimension per mode; 0 picks one from the photon-number statistics")
	fl.BoolVar(&f.dm, "dm", false, "return a density matrix instead of a ket")
}

// gaussian builds the state described by the flags.
func (f *stateFlags) gaussian(hbar float64) (gaussian.State, error) {
	switch f.name {
	case "vacuum":
		if f.modes < 1 {
			return gaussian.State{}, fmt.Errorf("--modes must be at least 1, got %d", f.modes)
		}
		return gaussian.Vacuum(f.modes, hbar), nil
	case "coherent":
		x, p := f.x, f.p
		if len(p) == 0 {
			p = make([]float64, len(x))
		}
		if len(x) == 0 {
			x = make([]float64, len(p))
		}
		if len(x) == 0 {
			return gaussian.State{}, errors.New("coherent state needs --x or --p")
		}
		return gaussian.Coherent(x, p, hbar)
	case "squeezed":
		if len(f.r) == 0 {
			return gaussian.State{}, errors.New("squeezed state needs --r")
		}
		phi := f.phi
		if len(phi) == 0 {
			phi = make([]float64, len(f.r))
		}
		return gaussian.SqueezedVacuum(f.r, phi, hbar)
	case "thermal":
		if len(f.nbar) == 0 {
			return gaussian.State{}, errors.New("thermal state needs --nbar")
		}
		return gaussian.Thermal(f.nbar, hbar), nil
	case "tmsv":
		if len(f.r) == 0 {
			return gaussian.State{}, errors.New("two-mode squeezed vacuum needs --r")
		}
		return gaussian.TwoModeSqueezedVacuum(f.r, hbar)
	default:
		return gaussian.State{}, fmt.Errorf("unknown state %q", f.name)
	}
}

// mixed reports whether the state can only be represented as a density matrix.
func (f *stateFlags) mixed() bool {
	return f.name == "thermal" && slices.ContainsFunc(f.nbar, func(v float64) bool { return v > 0 })
}

// fockState is a Fock-space state built from the command line.
type fockState struct {
	gaussian gaussian.State
	tensor   *tensor.RawTensor
	shape    []int
	isDM     bool
}

func (a *app) buildState(f *stateFlags) (fockState, error) {
	g, err := f.gaussian(a.cfg.Physics.Hbar)
	if err != nil {
		return fockState{}, err
	}

	shape := a.space.GaussianAutocutoffs(g)
	if f.cutoff > 0 {
		for i := range shape {
			shape[i] = f.cutoff
		}
	}

	isDM := f.dm
	if !isDM && f.mixed() {
		a.log.Info().Str("state", f.name).Msg("Mixed state, returning a density matrix")
		isDM = true
	}

	cov, means, err := g.Tensors()
	if err != nil {
		return fockState{}, err
	}
	t, err := a.space.WignerToFockState(cov, means, shape, isDM)
	if err != nil {
		return fockState{}, fmt.Errorf("convert %s state: %w", f.name, err)
	}
	a.log.Debug().Str("state", f.name).Ints("shape", shape).Bool("dm", isDM).Msg("State converted")
	return fockState{gaussian: g, tensor: t, shape: shape, isDM: isDM}, nil
}

func kind(isDM bool) string {
	if isDM {
		return "dm"
	}
	return "ket"
}
