package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/kotoba/pkg/cli"
	"mercator-hq/kotoba/pkg/config"
)

var (
	// Global flags
	cfgFile string
	envFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "kotoba",
	Short: "Kotoba - keyword translation relay",
	Long: `Kotoba relays short pieces of text to an OpenAI-compatible chat completion
API, which picks the single most important word and returns it with its
English translation.

Configuration is read from, in increasing precedence:
  - built-in defaults
  - the YAML file given by --config (kotoba.yaml by default, optional)
  - the env file given by --env-file (.env by default, optional)
  - the process environment (OPENAI_API_KEY, OPENAI_MODEL, OPENAI_API_URL,
    PORT and KOTOBA_SECTION_FIELD overrides)`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", config.DefaultCfgPath, "config file path")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", config.DefaultDotEnvPath, "env file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
}

// loadConfig reads configuration from the global flags. The default config
// path may be absent; an explicitly given one must exist.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	optional := true
	if flag := cmd.Flags().Lookup("config"); flag != nil && flag.Changed {
		optional = false
	}

	cfg, err := config.Load(config.LoadOptions{
		ConfigPath:     cfgFile,
		ConfigOptional: optional,
		DotEnvPath:     envFile,
	})
	if err != nil {
		return nil, cli.WrapConfigError(err)
	}

	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	return cfg, nil
}
