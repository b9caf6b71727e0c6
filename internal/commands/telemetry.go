package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hay-kot/toaster/internal/core/clock"
	"github.com/hay-kot/toaster/internal/core/logging"
	"github.com/hay-kot/toaster/internal/telemetry"
)

// startTelemetry serves the metrics registry when an address is configured.
// The returned stop function is always safe to call.
func startTelemetry(ctx context.Context, flags *Flags) (func(), error) {
	addr := flags.Config.Metrics.Addr
	if addr == "" {
		return func() {}, nil
	}

	server := telemetry.New(addr, flags.Registry, logging.Component("telemetry"))
	if err := server.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start telemetry server: %w", err)
	}
	log.Info().
		Str("url", fmt.Sprintf("http://%s/metrics", server.Addr())).
		Msg("metrics endpoint available")

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("failed to shutdown telemetry server")
		}
	}, nil
}

// openTimers builds the configured timer backend and logs failures to
// release it.
func openTimers(flags *Flags) (clock.Timers, func(), error) {
	timers, closeTimers, err := clock.New(flags.Config.Timer.Backend)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s timers: %w", flags.Config.Timer.Backend, err)
	}

	return timers, func() {
		if err := closeTimers(); err != nil {
			log.Error().Err(err).Msg("failed to release timers")
		}
	}, nil
}
