// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/rankreduce/internal/document"
	"github.com/katalvlaran/rankreduce/matrix"
)

func newReduceCmd(a *app) *cobra.Command {
	var (
		flags decompositionFlags
		in    string
	)
	cmd := &cobra.Command{
		Use:   "reduce",
		Short: "Reduce one correlation matrix",
		Long: `Reads a YAML document with either a "correlation" matrix or "samples"
(observations × series) and prints the loadings B and the decomposition state
as YAML. Algorithm and rank in the document override the config; flags
override both.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := document.ReadFile(in)
			if err != nil {
				return err
			}
			cfg := a.cfg
			if doc.Algorithm != "" {
				cfg.Algorithm = doc.Algorithm
			}
			if doc.Rank != 0 {
				cfg.Rank = doc.Rank
			}
			if cfg, err = flags.apply(cmd.Flags(), cfg); err != nil {
				return err
			}

			c, warnings, err := doc.Matrix()
			if err != nil {
				return err
			}
			for _, w := range warnings {
				a.logger.Warn().Str("input", doc.Name).Msg(w)
			}
			kind := cfg.Kind()
			d, err := cfg.Decomposer(kind, a.logger)
			if err != nil {
				return err
			}
			b, st, err := d.Create(c, cfg.Rank)
			if err != nil {
				return fmt.Errorf("%s: %w", doc.Name, err)
			}
			logOutcome(a.logger, doc.Name, kind, st)

			var input matrix.Matrix
			if flags.approx {
				input = c
			}
			res, err := document.NewResult(doc.Name, kind, b, st, input)
			if err != nil {
				return err
			}
			res.Warnings = warnings

			return document.Encode(cmd.OutOrStdout(), res)
		},
	}
	flags.register(cmd.Flags())
	cmd.Flags().StringVarP(&in, "in", "i", "-", `input YAML document ("-" for stdin)`)

	return cmd
}
