package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/born-ml/photonic/internal/serialization"
	"github.com/born-ml/photonic/internal/tensor"
)

func newFockCmd(a *app) *cobra.Command {
	var (
		state stateFlags
		out   string
	)
	cmd := &cobra.Command{
		Use:   "fock",
		Short: "Convert a Gaussian state to the Fock basis",
		Example: `  photonic fock --state coherent --x 1 --p 0.5 --cutoff 12
  photonic fock --state thermal --nbar 0.3 --out thermal.safetensors`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.buildState(&state)
			if err != nil {
				return err
			}

			norm, err := a.space.Norm(s.tensor, s.isDM)
			if err != nil {
				return err
			}
			means, err := a.space.NumberMeans(s.tensor, s.isDM)
			if err != nil {
				return err
			}
			variances, err := a.space.NumberVariances(s.tensor, s.isDM)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "state: %s (%d modes)\n", state.name, s.gaussian.Modes())
			fmt.Fprintf(w, "shape: %v (%s)\n", s.tensor.Shape(), kind(s.isDM))
			fmt.Fprintf(w, "norm: %.8f\n", norm)
			for i := range means {
				fmt.Fprintf(w, "mode %d: mean %.6f variance %.6f\n", i, means[i], variances[i])
			}

			if out == "" {
				return nil
			}
			cov, mu, err := s.gaussian.Tensors()
			if err != nil {
				return err
			}
			runID, err := serialization.Write(out, map[string]*tensor.RawTensor{
				"state": s.tensor,
				"cov":   cov,
				"means": mu,
			}, map[string]string{
				"gaussian": state.name,
				"kind":     kind(s.isDM),
				"hbar":     strconv.FormatFloat(a.cfg.Physics.Hbar, 'g', -1, 64),
			})
			if err != nil {
				return err
			}
			a.log.Info().Str("path", out).Str("run_id", runID).Msg("State written")
			fmt.Fprintf(w, "written: %s (run %s)\n", out, runID)
			return nil
		},
	}
	state.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the state to a SafeTensors file")
	return cmd
}
