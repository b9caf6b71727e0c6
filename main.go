package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/toaster/internal/commands"
	"github.com/hay-kot/toaster/internal/core/config"
	"github.com/hay-kot/toaster/internal/core/metrics"
	"github.com/hay-kot/toaster/internal/core/styles"
	"github.com/hay-kot/toaster/internal/printer"
	"github.com/hay-kot/toaster/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

// wantsTUI reports whether c will open the viewer, which owns the terminal
// and so cannot share it with log output.
func wantsTUI(c *cli.Command) bool {
	return c.Args().Len() == 0 || c.Args().First() == "tui"
}

// validatesConfig reports whether c runs `config validate`, which reports
// config errors itself instead of failing early.
func validatesConfig(c *cli.Command) bool {
	return c.Args().First() == "config"
}

func main() {
	ctx := context.Background()

	var logCloser func()

	flags := &commands.Flags{}

	app := commands.NewRoot(flags)
	app.Version = build()
	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Before = func(ctx context.Context, c *cli.Command) (context.Context, error) {
		logFile := flags.LogFile
		if logFile == "" && wantsTUI(c) {
			logFile = commands.DefaultLogFile()
		}

		logger, closer, err := logutils.New(flags.LogLevel, logFile)
		if err != nil {
			return ctx, fmt.Errorf("setup logger: %w", err)
		}
		log.Logger = logger
		logCloser = closer

		cfg, err := config.Read(flags.ConfigPath)
		if err != nil {
			return ctx, fmt.Errorf("load config: %w", err)
		}
		if flags.MetricsAddr != "" {
			cfg.Metrics.Addr = flags.MetricsAddr
		}
		if !validatesConfig(c) {
			if err := cfg.Validate(); err != nil {
				return ctx, fmt.Errorf("invalid config %s: %w", flags.ConfigPath, err)
			}
		}
		flags.Config = cfg

		// Apply configured theme (validation ensures name is valid)
		if palette, ok := styles.GetPalette(cfg.TUI.Theme); ok {
			styles.SetTheme(palette)
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		flags.Registry = reg
		flags.Metrics = metrics.New(reg)

		return printer.NewContext(ctx, printer.New(os.Stdout)), nil
	}
	app.After = func(ctx context.Context, c *cli.Command) error {
		if logCloser != nil {
			logCloser()
		}
		return nil
	}

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
