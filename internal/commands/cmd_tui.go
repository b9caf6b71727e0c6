package commands

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/toaster/internal/core/eventloop"
	"github.com/hay-kot/toaster/internal/core/logging"
	"github.com/hay-kot/toaster/internal/core/toast"
	"github.com/hay-kot/toaster/internal/core/toaster"
	"github.com/hay-kot/toaster/internal/tui"
)

type TuiCmd struct {
	flags *Flags
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags) *TuiCmd {
	return &TuiCmd{flags: flags}
}

// Register adds the tui command to the application.
func (cmd *TuiCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "tui",
		Usage:       "Open the interactive toast viewer",
		UsageText:   "toaster tui [options]",
		Description: "Type a title and press enter to publish a toast. Text after ' | ' becomes its markdown body.",
		Action:      cmd.run,
	})
	return app
}

// Flags returns the TUI-specific flags for registration on the root command
func (cmd *TuiCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "metrics-addr",
			Usage:       "serve Prometheus metrics and pprof on this address (e.g., 127.0.0.1:9090)",
			Sources:     cli.EnvVars("TOASTER_METRICS_ADDR"),
			Destination: &cmd.flags.MetricsAddr,
		},
	}
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *TuiCmd) run(ctx context.Context, _ *cli.Command) error {
	cfg := cmd.flags.Config

	stopTelemetry, err := startTelemetry(ctx, cmd.flags)
	if err != nil {
		return err
	}
	defer stopTelemetry()

	timers, releaseTimers, err := openTimers(cmd.flags)
	if err != nil {
		return err
	}
	defer releaseTimers()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger := logging.Component("tui")

	loop := eventloop.New(logging.Sub(logger, "loop"))
	loopDone := make(chan error, 1)
	go func() { loopDone <- loop.Run(ctx) }()

	t := toaster.New(
		toaster.WithLogger(logger),
		toaster.WithMetrics(cmd.flags.Metrics),
		toaster.WithLifetimes(cfg.Toasts.Lifetimes),
	)
	toaster.RegisterDebugLogger(t, logger)

	store := toast.NewStore(timers,
		toast.WithDispatch(loop.Dispatch()),
		toast.WithLogger(logger),
		toast.WithMetrics(cmd.flags.Metrics),
	)
	if err := loop.Call(ctx, func() { store.Mount(t) }); err != nil {
		return fmt.Errorf("mount toast store: %w", err)
	}

	bridge := tui.NewBridge(loop, store)
	m := tui.New(t, bridge, tui.Options{
		Lifetimes:  cfg.Toasts.Lifetimes,
		ToastWidth: cfg.TUI.ToastWidth,
		MaxVisible: cfg.TUI.MaxVisible,
		Now:        timers.Now,
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	bridge.Forward(p.Send)

	t.Infof("toaster ready on the %s timer backend", cfg.Timer.Backend)

	_, runErr := p.Run()

	if err := loop.Call(ctx, store.Unmount); err != nil {
		log.Warn().Err(err).Msg("failed to unmount toast store")
	}
	cancel()
	<-loopDone

	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return fmt.Errorf("run tui: %w", runErr)
	}
	return nil
}
