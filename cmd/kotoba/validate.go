package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mercator-hq/kotoba/pkg/cli"
)

var validateFlags struct {
	format string
	quiet  bool
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate and print the effective configuration",
	Long: `Load the configuration exactly as "kotoba run" would, validate it and print
the result with the API key masked.

Examples:
  # Print the effective configuration as YAML
  kotoba validate

  # Check a file without printing it
  kotoba validate --config /etc/kotoba/kotoba.yaml --quiet

  # JSON output
  kotoba validate --format json`,
	Args: cobra.NoArgs,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateFlags.format, "format", "yaml", "output format: yaml, json")
	validateCmd.Flags().BoolVarP(&validateFlags.quiet, "quiet", "q", false, "only report whether the configuration is valid")
}

func validateConfig(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(validateFlags.format)
	if err != nil {
		return err
	}
	if format == cli.FormatText {
		return fmt.Errorf("validate supports yaml or json output")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if validateFlags.quiet {
		fmt.Fprintln(out, "✓ Configuration valid")
		return nil
	}

	return cli.NewFormatter(format).FormatTo(out, cfg.Redacted())
}
