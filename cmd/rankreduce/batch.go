// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/rankreduce/internal/document"
	"github.com/katalvlaran/rankreduce/matrix"
	"github.com/katalvlaran/rankreduce/rankreduce"
)

func newBatchCmd(a *app) *cobra.Command {
	var (
		flags    decompositionFlags
		paths    []string
		parallel int
	)
	cmd := &cobra.Command{
		Use:   "batch --in FILE [--in FILE]...",
		Short: "Reduce several correlation matrices concurrently",
		Long: `Runs one decomposition per input document with a bounded number in
flight and prints one YAML result document per input, in --in order.
Every input uses the algorithm and rank from flags or config; per-document
overrides are ignored with a warning. The first failing input aborts the batch.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(paths) == 0 {
				return fmt.Errorf("batch: at least one --in is required")
			}
			cfg, err := flags.apply(cmd.Flags(), a.cfg)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("parallel") {
				cfg.Batch.Parallelism = parallel
			}

			names := make([]string, len(paths))
			inputs := make([]matrix.Matrix, len(paths))
			warnings := make([][]string, len(paths))
			for i, path := range paths {
				doc, err := document.ReadFile(path)
				if err != nil {
					return err
				}
				if (doc.Algorithm != "" && doc.Algorithm != cfg.Algorithm) || (doc.Rank != 0 && doc.Rank != cfg.Rank) {
					a.logger.Warn().Str("input", doc.Name).Msg("per-document algorithm or rank ignored in batch mode")
				}
				if inputs[i], warnings[i], err = doc.Matrix(); err != nil {
					return err
				}
				names[i] = doc.Name
			}

			kind := cfg.Kind()
			d, err := cfg.Decomposer(kind, a.logger)
			if err != nil {
				return err
			}
			outcomes, err := rankreduce.CreateBatch(cmd.Context(), d, inputs, cfg.Rank, cfg.Batch.Parallelism)
			if err != nil {
				return err
			}

			results := make([]document.Result, len(outcomes))
			for i, o := range outcomes {
				logOutcome(a.logger, names[i], kind, o.State)
				var input matrix.Matrix
				if flags.approx {
					input = inputs[i]
				}
				if results[i], err = document.NewResult(names[i], kind, o.B, o.State, input); err != nil {
					return err
				}
				results[i].Warnings = warnings[i]
			}

			return document.Encode(cmd.OutOrStdout(), results...)
		},
	}
	flags.register(cmd.Flags())
	cmd.Flags().StringArrayVarP(&paths, "in", "i", nil, `input YAML document, repeatable ("-" for stdin)`)
	cmd.Flags().IntVarP(&parallel, "parallel", "p", 0, "maximum concurrent decompositions (0 = GOMAXPROCS, default from config)")

	return cmd
}
