package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// NewRoot builds the toaster command tree with its global flags bound to
// flags. The caller adds Before and After hooks.
func NewRoot(flags *Flags) *cli.Command {
	root := &cli.Command{
		Name:      "toaster",
		Usage:     "Transient toast notifications in the terminal",
		UsageText: "toaster [global options] command [command options]",
		Description: `Toaster routes notifications from producers to a single viewer, which
shows each one as a toast until it expires or is closed.

Run 'toaster' with no arguments to open the interactive viewer.
Run 'toaster replay' to play a scripted scenario.`,
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("TOASTER_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (the viewer defaults to the state directory, other commands to stderr)",
				Sources:     cli.EnvVars("TOASTER_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("TOASTER_CONFIG"),
				Value:       DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
		},
	}

	tuiCmd := NewTuiCmd(flags)

	root = tuiCmd.Register(root)
	root = NewReplayCmd(flags).Register(root)
	root = NewConfigValidateCmd(flags).Register(root)

	// Register TUI flags on root command
	root.Flags = append(root.Flags, tuiCmd.Flags()...)

	// Set TUI as default action when no subcommand is provided
	root.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'toaster --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	return root
}
