package main

import (
	"github.com/oleg578/csvtidy"
	"github.com/oleg578/csvtidy/internal/config"
	"github.com/oleg578/csvtidy/internal/report"
	"github.com/spf13/cobra"
)

func newCountCommand() *cobra.Command {
	opts := config.NewOptions()

	cmd := &cobra.Command{
		Use:           "count [files...]",
		Short:         "Count data rows per CSV file against an expected number",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.Complete(args); err != nil {
				return err
			}
			rep := csvtidy.CountFiles(opts.Paths(), opts.ExpectedRows)
			report.WriteCountTable(cmd.OutOrStdout(), rep)
			return nil
		},
	}
	opts.AddCountFlags(cmd)
	return cmd
}
