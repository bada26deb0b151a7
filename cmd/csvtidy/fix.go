package main

import (
	"github.com/oleg578/csvtidy"
	"github.com/oleg578/csvtidy/internal/config"
	"github.com/oleg578/csvtidy/internal/logging"
	"github.com/oleg578/csvtidy/internal/report"
	"github.com/spf13/cobra"
)

func newFixCommand(g *globalOptions) *cobra.Command {
	opts := config.NewOptions()

	cmd := &cobra.Command{
		Use:   "fix [files...]",
		Short: "Rewrite CSV files with consistent minimal quoting",
		Long: `Each file is parsed completely, checked for rows whose field count differs from
the header, and written back with a field quoted only when it contains a comma,
a double quote, or a line break. Field values never change.

A file that cannot be read or parsed is reported and skipped; the remaining files
are still processed. Partial failure does not change the exit status.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.Complete(args); err != nil {
				return err
			}
			logger, err := logging.New(g.logLevel, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			n := csvtidy.NewNormalizer(opts.NormalizeOptions(), logger)
			rep := n.Run(opts.Paths())
			report.WriteFixSummary(cmd.OutOrStdout(), rep)
			return nil
		},
	}
	opts.AddFixFlags(cmd)
	return cmd
}
