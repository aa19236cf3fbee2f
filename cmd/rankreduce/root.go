// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/katalvlaran/rankreduce/internal/config"
	"github.com/katalvlaran/rankreduce/rankreduce"
)

// app carries what every subcommand needs after the root pre-run.
type app struct {
	configPath string
	logLevel   string
	cfg        config.Config
	logger     zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "rankreduce",
		Short: "Rank-reduce correlation matrices",
		Long: `rankreduce finds an n×r matrix B with unit rows such that B·Bᵀ approximates
a given n×n correlation matrix. Algorithms: ezi (iterative eigenvalue zeroing),
ezn (normalised eigenvalue zeroing) and sap (spectral angle parametrisation).`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML configuration file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (trace|debug|info|warn|error), overrides the config")

	root.AddCommand(newReduceCmd(a), newBatchCmd(a), newServeCmd(a), newVersionCmd())

	return root
}

// init loads the configuration and sets the global log level.
func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
		if err = cfg.Validate(); err != nil {
			return err
		}
	}
	zerolog.SetGlobalLevel(cfg.LogLevel())
	a.cfg = cfg
	a.logger = log.Logger.With().Str("cmd", cmd.Name()).Logger()
	a.logger.Debug().Str("config", a.configPath).Str("algorithm", cfg.Algorithm).Int("rank", cfg.Rank).Msg("configuration loaded")

	return nil
}

// decompositionFlags are shared by reduce and batch.
type decompositionFlags struct {
	algorithm string
	rank      int
	solver    string
	minimizer string
	approx    bool
}

func (f *decompositionFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.algorithm, "algo", "", "algorithm: ezi, ezn or sap (default from config)")
	fs.IntVar(&f.rank, "rank", 0, "target rank (default from config)")
	fs.StringVar(&f.solver, "solver", "", "eigensolver: gonum or jacobi (default from config)")
	fs.StringVar(&f.minimizer, "minimizer", "", "SAP optimizer: nelder-mead or bfgs (default from config)")
	fs.BoolVar(&f.approx, "approx", false, "also print the approximation B·Bᵀ and the residuals C − B·Bᵀ")
}

// apply overlays the flags that were set on the loaded config.
func (f *decompositionFlags) apply(fs *pflag.FlagSet, cfg config.Config) (config.Config, error) {
	if fs.Changed("algo") {
		cfg.Algorithm = f.algorithm
	}
	if fs.Changed("rank") {
		cfg.Rank = f.rank
	}
	if fs.Changed("solver") {
		cfg.Solver = f.solver
	}
	if fs.Changed("minimizer") {
		cfg.Minimizer = f.minimizer
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("flags: %w", err)
	}

	return cfg, nil
}

// logOutcome reports the state of one decomposition on the logger.
func logOutcome(l zerolog.Logger, name string, kind rankreduce.Kind, st rankreduce.State) {
	lvl := zerolog.InfoLevel
	if st.Classification != rankreduce.ProperResult || !st.Converged {
		lvl = zerolog.WarnLevel
	}
	l.WithLevel(lvl).Str("input", name).
		Str("algorithm", kind.String()).
		Int("rank", st.Rank).
		Str("classification", st.Classification.String()).
		Bool("converged", st.Converged).
		Float64("residual", st.Residual).
		Msg("decomposed")
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, _ []string) {
			printVersion(cmd.OutOrStdout())
		},
	}
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "rankreduce %s\n", version)
}
