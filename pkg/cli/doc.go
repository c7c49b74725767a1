/*
Package cli provides command-line helpers for the kotoba command.

Output Formatting:

Commands that print structured data accept --format text, json or yaml:

	format, err := cli.ParseOutputFormat(flagValue)
	if err != nil {
		return err
	}
	if err := cli.NewFormatter(format).FormatTo(os.Stdout, cfg.Redacted()); err != nil {
		return err
	}

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()

Exit Codes:

ExitCode maps command errors to process exit codes: 2 for configuration
errors, 1 for everything else.
*/
package cli
