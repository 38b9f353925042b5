/*
Package cli provides command-line helpers shared by the gateway commands.

Output Formatting:

Command results can be rendered as text, JSON or YAML. The check command
prints the effective configuration with the YAML formatter, so its output can
be fed back as a configuration file:

	formatter := cli.NewFormatter(cli.FormatYAML)
	if err := formatter.FormatTo(os.Stdout, cfg); err != nil {
		return err
	}

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
	// ctx is cancelled on the first signal

Errors:

ConfigError and CommandError classify command failures; ExitCode maps them to
the process exit status.
*/
package cli
