// Package main provides the csvtidy CLI entrypoint.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type globalOptions struct {
	logLevel   string
	noColor    bool
	configFile string
}

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		handleError(err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	g := &globalOptions{logLevel: "info"}
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "csvtidy",
		Short: "Re-quote and count rows in CSV files",
		Long: strings.TrimSpace(`
csvtidy rewrites CSV files with minimal quoting, reports rows whose width differs
from the header, and counts data rows against an expected number per file.

Flags can also be set through CSVTIDY_* environment variables or a .csvtidy
config file (yaml, json or toml) in the working directory or $XDG_CONFIG_HOME/csvtidy.
`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := applyViper(v, cmd, g.configFile); err != nil {
				return err
			}
			if g.noColor {
				color.NoColor = true
			}
			return nil
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", g.logLevel, "Log level for diagnostics (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&g.noColor, "no-color", false, "Disable colored output")
	cmd.PersistentFlags().StringVar(&g.configFile, "config", os.Getenv("CSVTIDY_CONFIG"), "Path to a csvtidy config file")

	cmd.AddCommand(newFixCommand(g), newCountCommand())
	cmd.Example = `  # Re-quote three files under a data directory
  csvtidy fix --base-dir data Q-4.csv Q-5.csv Q-6.csv

  # Report shape problems without touching the files
  csvtidy fix --dry-run questions.csv

  # Count data rows, expecting 100 per file
  csvtidy count --base-dir data *.csv`
	return cmd
}

// applyViper fills every flag the user did not set from the environment or the
// config file. Explicit flags always win.
func applyViper(v *viper.Viper, cmd *cobra.Command, explicitConfig string) error {
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.SetEnvPrefix("CSVTIDY")
	v.AutomaticEnv()
	configureConfigFile(v, explicitConfig)
	if err := readConfigFile(v, explicitConfig != ""); err != nil {
		return err
	}

	var setErr error
	apply := func(f *pflag.Flag) {
		if setErr != nil || f.Changed || f.Name == "config" || !v.IsSet(f.Name) {
			return
		}
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			setErr = sv.Replace(v.GetStringSlice(f.Name))
			return
		}
		val := fmt.Sprintf("%v", v.Get(f.Name))
		if val == "" {
			return
		}
		if err := f.Value.Set(val); err != nil {
			setErr = fmt.Errorf("invalid value %q for %s from config: %w", val, f.Name, err)
		}
	}
	cmd.Flags().VisitAll(apply)
	cmd.InheritedFlags().VisitAll(apply)
	return setErr
}

func configureConfigFile(v *viper.Viper, explicitPath string) {
	if explicitPath != "" {
		v.SetConfigFile(explicitPath)
		return
	}
	v.SetConfigName(".csvtidy")
	v.AddConfigPath(".")
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		v.AddConfigPath(filepath.Join(xdg, "csvtidy"))
	} else if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "csvtidy"))
	}
}

func readConfigFile(v *viper.Viper, strict bool) error {
	if err := v.ReadInConfig(); err != nil {
		var cfgErr viper.ConfigFileNotFoundError
		if errors.As(err, &cfgErr) && !strict {
			return nil
		}
		return err
	}
	return nil
}

func handleError(err error) {
	if err == nil || errors.Is(err, pflag.ErrHelp) {
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %s\n", err)
}
