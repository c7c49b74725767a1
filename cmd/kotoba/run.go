package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"mercator-hq/kotoba/internal/app"
	"mercator-hq/kotoba/pkg/cli"
	"mercator-hq/kotoba/pkg/config"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the relay server",
	Long: `Start the relay server with the specified configuration.

POST / relays {"message": "..."} upstream and answers with plain text.
GET / serves the chat page. The server stops gracefully on SIGINT or SIGTERM.

A missing OPENAI_API_KEY does not prevent startup; every request is then
answered with the missing-credential message and /ready reports 503.

Examples:
  # Start with default config
  kotoba run

  # Start with custom config
  kotoba run --config /etc/kotoba/kotoba.yaml

  # Override listen address
  kotoba run --listen 0.0.0.0:8080

  # Validate config without starting server
  kotoba run --dry-run`,
	Args: cobra.NoArgs,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if err := config.Validate(cfg); err != nil {
		return cli.WrapConfigError(err)
	}

	out := cmd.OutOrStdout()
	if runFlags.dryRun {
		fmt.Fprintln(out, "✓ Configuration valid")
		return nil
	}

	a, err := app.New(cfg, app.Options{Version: versionInfo()})
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := a.Close(ctx); err != nil {
			a.Logger.Warn("failed to release resources", "error", err)
		}
	}()

	printBanner(cmd, cfg)

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	if err := a.Server().Start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}

	fmt.Fprintln(out, "✓ Server stopped")
	return nil
}

func printBanner(cmd *cobra.Command, cfg *config.Config) {
	out := cmd.OutOrStdout()
	addr := cfg.Server.ListenAddress

	fmt.Fprintf(out, "Kotoba v%s\n", Version)
	fmt.Fprintf(out, "✓ Upstream: %s (model %s, temperature %s)\n",
		cfg.Upstream.Endpoint, cfg.Upstream.Model,
		strconv.FormatFloat(cfg.Upstream.Temperature, 'f', -1, 64))
	if cfg.Upstream.APIKey == "" {
		fmt.Fprintf(out, "! %s is not set; requests will be answered with the missing-credential message\n", config.EnvAPIKey)
	}
	fmt.Fprintf(out, "✓ Listening on http://%s/\n", addr)
	fmt.Fprintf(out, "✓ Health endpoint: http://%s/health\n", addr)
	if cfg.Telemetry.Metrics.Enabled {
		fmt.Fprintf(out, "✓ Metrics endpoint: http://%s%s\n", addr, cfg.Telemetry.Metrics.Path)
	}
	fmt.Fprintln(out, "\nPress Ctrl+C to stop")
}
