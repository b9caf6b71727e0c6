package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/hay-kot/toaster/internal/core/logging"
	"github.com/hay-kot/toaster/internal/replay"
)

type ReplayCmd struct {
	flags    *Flags
	simulate bool
	format   string
}

// NewReplayCmd creates a new replay command.
func NewReplayCmd(flags *Flags) *ReplayCmd {
	return &ReplayCmd{flags: flags}
}

// Register adds the replay command to the application.
func (cmd *ReplayCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "replay",
		Usage:     "Play a toast script and print what a viewer would show",
		UsageText: "toaster replay [options] <script.yaml | ->",
		Description: `Publishes and closes toasts at the offsets given in a YAML script and
prints every display, close, expiry and drop as it happens.

Pass - to read the script from stdin.

With --simulate the script runs on a simulated clock and finishes
immediately with the same output every time.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "simulate",
				Usage:       "run on a simulated clock instead of waiting in real time",
				Destination: &cmd.simulate,
			},
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &cmd.format,
			},
		},
		ShellComplete: ScriptCompleter(),
		Action:        cmd.run,
	})

	return app
}

func (cmd *ReplayCmd) run(ctx context.Context, c *cli.Command) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("script path is required. Run 'toaster replay --help' for usage")
	}

	emit, err := eventWriter(c.Root().Writer, cmd.format)
	if err != nil {
		return err
	}

	script, err := readScript(path, os.Stdin)
	if err != nil {
		return err
	}

	stopTelemetry, err := startTelemetry(ctx, cmd.flags)
	if err != nil {
		return err
	}
	defer stopTelemetry()

	opts := []replay.Option{
		replay.WithLogger(logging.Component("replay")),
		replay.WithMetrics(cmd.flags.Metrics),
	}

	if cmd.simulate {
		replay.Simulate(script, emit, opts...)
		return nil
	}

	timers, releaseTimers, err := openTimers(cmd.flags)
	if err != nil {
		return err
	}
	defer releaseTimers()

	if err := replay.Run(ctx, script, timers, emit, opts...); err != nil {
		return fmt.Errorf("replay %s: %w", path, err)
	}
	return nil
}

// readScript loads path, or stdin when path is "-".
func readScript(path string, stdin *os.File) (*replay.Script, error) {
	if path != "-" {
		return replay.Load(path)
	}

	if term.IsTerminal(int(stdin.Fd())) {
		return nil, fmt.Errorf("no input provided (stdin is a terminal); pass a script path or pipe YAML input")
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return replay.Parse(data)
}

// eventWriter returns an emitter printing one event per line.
func eventWriter(w io.Writer, format string) (func(replay.Event), error) {
	switch format {
	case "text":
		return func(e replay.Event) {
			_, _ = fmt.Fprintln(w, e.String())
		}, nil
	case "json":
		enc := json.NewEncoder(w)
		return func(e replay.Event) {
			_ = enc.Encode(e)
		}, nil
	default:
		return nil, fmt.Errorf("unknown format %q (text, json)", format)
	}
}
