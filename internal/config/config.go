// Package config holds the typed options behind the csvtidy commands and binds
// them to Cobra/pflag flag sets.
package config

import (
	"fmt"
	"strings"

	"github.com/oleg578/csvtidy"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Options holds the CLI configuration shared by fix and count.
type Options struct {
	BaseDir string
	Files   []string

	DryRun         bool
	ExpectedFields int
	LazyQuotes     bool
	CRLF           bool

	ExpectedRows int
}

// NewOptions returns Options populated with defaults.
func NewOptions() *Options {
	return &Options{
		LazyQuotes:   true,
		ExpectedRows: csvtidy.DefaultExpectedRows,
	}
}

// AddFixFlags binds the fix command's flags to cmd.
func (o *Options) AddFixFlags(cmd *cobra.Command) {
	fs := cmd.Flags()
	o.bindPathFlags(fs)
	fs.BoolVarP(&o.DryRun, "dry-run", "n", false, "Parse and diagnose files without rewriting them")
	fs.IntVar(&o.ExpectedFields, "expected-fields", 0, "Expected fields per record; 0 uses the header width")
	fs.BoolVar(&o.LazyQuotes, "lazy-quotes", o.LazyQuotes, "Keep quotes that appear inside unquoted fields instead of failing")
	fs.BoolVar(&o.CRLF, "crlf", false, "Terminate rewritten records with \\r\\n")
}

// AddCountFlags binds the count command's flags to cmd.
func (o *Options) AddCountFlags(cmd *cobra.Command) {
	fs := cmd.Flags()
	o.bindPathFlags(fs)
	fs.IntVar(&o.ExpectedRows, "expected", o.ExpectedRows, "Expected data rows per file")
}

func (o *Options) bindPathFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.BaseDir, "base-dir", "d", "", "Directory that relative file names are resolved against")
	fs.StringSliceVarP(&o.Files, "file", "f", nil, "CSV file to process; repeat or comma-separate for several")
}

// Complete appends positional file arguments and validates the result.
func (o *Options) Complete(args []string) error {
	for _, arg := range args {
		if arg = strings.TrimSpace(arg); arg != "" {
			o.Files = append(o.Files, arg)
		}
	}
	return o.Validate()
}

// Validate ensures the options are coherent.
func (o *Options) Validate() error {
	if len(o.Files) == 0 {
		return fmt.Errorf("no CSV files given; pass file names as arguments or with --file")
	}
	if o.ExpectedFields < 0 {
		return fmt.Errorf("--expected-fields must be >= 0, got %d", o.ExpectedFields)
	}
	if o.ExpectedRows <= 0 {
		return fmt.Errorf("--expected must be > 0, got %d", o.ExpectedRows)
	}
	return nil
}

// Paths returns the file list resolved against BaseDir.
func (o *Options) Paths() []string {
	return csvtidy.ResolvePaths(o.BaseDir, o.Files)
}

// NormalizeOptions converts the CLI options into normalizer options.
func (o *Options) NormalizeOptions() csvtidy.Options {
	return csvtidy.Options{
		LazyQuotes:     o.LazyQuotes,
		UseCRLF:        o.CRLF,
		ExpectedFields: o.ExpectedFields,
		DryRun:         o.DryRun,
	}
}
