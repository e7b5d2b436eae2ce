package main

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/born-ml/photonic/internal/backend/cpu"
	"github.com/born-ml/photonic/internal/config"
	"github.com/born-ml/photonic/internal/fock"
	"github.com/born-ml/photonic/internal/logger"
	"github.com/born-ml/photonic/internal/metrics"
)

// app is the per-invocation state shared by subcommands. It is filled by the
// root PersistentPreRunE.
type app struct {
	// Global flags
	configPath  string
	envFile     string
	logLevel    string
	pretty      bool
	showMetrics bool

	cfg      config.Config
	log      zerolog.Logger
	registry *prometheus.Registry
	space    *fock.Space
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "photonic",
		Short: "Fock-space representations of Gaussian photonic states",
		Long: `photonic converts Gaussian states to truncated photon-number
tensors, samples measurement outcomes from them and stores the results
in SafeTensors files.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if a.showMetrics && a.registry != nil {
				a.printMetrics(cmd)
			}
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML configuration file")
	pf.StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before the configuration")
	pf.StringVar(&a.logLevel, "log-level", "", "log level (trace, debug, info, warn, error); overrides the configuration")
	pf.BoolVar(&a.pretty, "pretty", false, "human-readable log output")
	pf.BoolVar(&a.showMetrics, "metrics", false, "print engine metrics after the command")

	rootCmd.AddCommand(
		newVersionCmd(),
		newFockCmd(a),
		newSampleCmd(a),
		newInspectCmd(a),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "photonic %s\n", version)
		},
	}
}

// setup loads the environment and configuration, then builds the logger,
// the metrics registry and the Fock space.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if a.envFile != "" {
		if err := godotenv.Load(a.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", a.envFile, err)
		}
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if cmd.Flags().Changed("pretty") {
		cfg.Log.Pretty = a.pretty
	}
	a.cfg = cfg

	a.log = logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Pretty,
		Output: cmd.ErrOrStderr(),
	})
	a.registry = prometheus.NewRegistry()
	a.space = fock.New(cpu.New(), cfg.Physics,
		fock.WithParallel(cfg.Engine.ParallelConfig()),
		fock.WithLogger(a.log),
		fock.WithMetrics(metrics.NewEngine(a.registry)),
	)

	a.log.Debug().
		Str("command", cmd.Name()).
		Str("config", a.configPath).
		Float64("hbar", cfg.Physics.Hbar).
		Bool("parallel", cfg.Engine.Parallel).
		Msg("Configuration loaded")
	return nil
}

func (a *app) printMetrics(cmd *cobra.Command) {
	families, err := a.registry.Gather()
	if err != nil {
		a.log.Warn().Err(err).Msg("Failed to gather metrics")
		return
	}
	sort.Slice(families, func(i, j int) bool { return families[i].GetName() < families[j].GetName() })

	out := cmd.OutOrStdout()
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := ""
			for _, l := range m.GetLabel() {
				labels += fmt.Sprintf("%s=%q,", l.GetName(), l.GetValue())
			}
			if labels != "" {
				labels = "{" + labels[:len(labels)-1] + "}"
			}
			switch {
			case m.GetCounter() != nil:
				fmt.Fprintf(out, "%s%s %g\n", mf.GetName(), labels, m.GetCounter().GetValue())
			case m.GetHistogram() != nil:
				h := m.GetHistogram()
				fmt.Fprintf(out, "%s_count%s %d\n", mf.GetName(), labels, h.GetSampleCount())
				fmt.Fprintf(out, "%s_sum%s %g\n", mf.GetName(), labels, h.GetSampleSum())
			}
		}
	}
}
