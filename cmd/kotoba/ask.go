package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"mercator-hq/kotoba/internal/app"
	"mercator-hq/kotoba/pkg/cli"
	"mercator-hq/kotoba/pkg/config"
)

var askFlags struct {
	format string
	strict bool
}

var askCmd = &cobra.Command{
	Use:   "ask [text]",
	Short: "Relay one message and print the reply",
	Long: `Relay one message through the same pipeline as POST / and print the reply.

The message is taken from the arguments, joined with spaces, or from stdin
when no arguments are given. The reply is printed exactly as the chat page
would show it, including error messages.

Examples:
  kotoba ask "明日は新幹線で東京に行きます"
  echo "今日は雨です" | kotoba ask
  kotoba ask --format json "猫が好きです"
  kotoba ask --strict "..."   # exit 1 unless the reply is a translation`,
	RunE: askOnce,
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().StringVar(&askFlags.format, "format", "text", "output format: text, json, yaml")
	askCmd.Flags().BoolVar(&askFlags.strict, "strict", false, "return an error when the reply is an error message")
}

type askResult struct {
	Reply   string `json:"reply" yaml:"reply"`
	Outcome string `json:"outcome" yaml:"outcome"`
}

func (r askResult) String() string {
	return r.Reply
}

func askOnce(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(askFlags.format)
	if err != nil {
		return err
	}

	message, err := readMessage(cmd.InOrStdin(), args)
	if err != nil {
		return cli.NewCommandError("ask", err)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// Keep stdout for the reply.
	cfg.Telemetry.Logging.Level = quietLevel(cfg)

	a, err := app.New(cfg, app.Options{
		LogWriter: cmd.ErrOrStderr(),
		Registry:  prometheus.NewRegistry(),
		Version:   versionInfo(),
	})
	if err != nil {
		return cli.NewCommandError("ask", err)
	}
	defer a.Close(context.Background())

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	reply := a.Relay.Relay(ctx, message)

	result := askResult{Reply: reply.Text, Outcome: reply.Outcome.String()}
	if err := cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), result); err != nil {
		return cli.NewCommandError("ask", err)
	}

	if askFlags.strict && reply.Outcome.Failed() {
		return cli.NewCommandError("ask", fmt.Errorf("relay outcome %s", reply.Outcome))
	}
	return nil
}

// readMessage joins args, or reads stdin when there are none. Only a single
// trailing newline is dropped from stdin so the relay sees the text as typed.
func readMessage(stdin io.Reader, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	data, err := io.ReadAll(io.LimitReader(stdin, config.DefaultMaxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	data = bytes.TrimSuffix(data, []byte("\n"))
	data = bytes.TrimSuffix(data, []byte("\r"))
	return string(data), nil
}

func quietLevel(cfg *config.Config) string {
	if verbose {
		return "debug"
	}
	if strings.EqualFold(cfg.Telemetry.Logging.Level, "error") {
		return "error"
	}
	return "warn"
}
