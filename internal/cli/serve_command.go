package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"task-dashboard/internal/api"
	"task-dashboard/internal/config"
	v1 "task-dashboard/internal/delivery/http/v1"
)

// ServeCommand runs the HTTP API with the daily reminder scheduler.
type ServeCommand struct {
	api      api.BusinessAPI
	cfg      *config.Config
	logger   zerolog.Logger
	gatherer prometheus.Gatherer
}

// NewServeCommand creates a new serve command handler
func NewServeCommand(app *App) *ServeCommand {
	return &ServeCommand{api: app.api, cfg: app.cfg, logger: app.logger, gatherer: app.registry}
}

// Execute serves until ctx is cancelled or SIGINT/SIGTERM arrives, then
// shuts the listener down within the configured grace period.
func (c *ServeCommand) Execute(ctx context.Context, withScheduler bool) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handler := v1.New(c.logger, c.api)
	router := v1.NewRouter(c.logger, handler, c.gatherer, c.cfg.Application.Env == config.EnvProd)

	server := &http.Server{
		Addr:              net.JoinHostPort(c.cfg.HTTP.Host, strconv.Itoa(c.cfg.HTTP.Port)),
		Handler:           router,
		ReadHeaderTimeout: c.cfg.HTTP.ReadHeaderTimeout,
	}

	schedulerDone := make(chan error, 1)
	if withScheduler {
		go func() {
			schedulerDone <- c.api.RunScheduler(ctx)
		}()
	} else {
		close(schedulerDone)
	}

	serverErr := make(chan error, 1)
	go func() {
		c.logger.Info().Str("addr", server.Addr).Bool("scheduler", withScheduler).Msg("http server started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		c.logger.Info().Msg("shutting down")
	case err := <-serverErr:
		runErr = err
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), c.cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		c.logger.Error().Err(err).Msg("http server shutdown")
		if runErr == nil {
			runErr = err
		}
	}

	if err := <-schedulerDone; err != nil && !errors.Is(err, context.Canceled) && runErr == nil {
		runErr = err
	}
	return runErr
}
