package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"task-dashboard/internal/api"
	"task-dashboard/internal/config"
)

// APIFactory builds the business API once configuration is known. Metrics
// are registered on reg so the serve command can expose them.
type APIFactory func(cfg *config.Config, logger zerolog.Logger, reg prometheus.Registerer) (api.BusinessAPI, error)

// DefaultAPIFactory opens the configured storage and the real SMTP transport.
func DefaultAPIFactory(cfg *config.Config, logger zerolog.Logger, reg prometheus.Registerer) (api.BusinessAPI, error) {
	return api.New(cfg, logger, api.WithRegisterer(reg))
}

// App holds what every command needs: configuration, the logger and a
// lazily opened business API.
type App struct {
	cfg      *config.Config
	logger   zerolog.Logger
	registry *prometheus.Registry
	factory  APIFactory
	api      api.BusinessAPI
	errors   *ErrorHandler
}

// NewApp creates an App that opens its API through factory on first use.
func NewApp(cfg *config.Config, logger zerolog.Logger, factory APIFactory) *App {
	if factory == nil {
		factory = DefaultAPIFactory
	}
	return &App{
		cfg:      cfg,
		logger:   logger,
		registry: prometheus.NewRegistry(),
		factory:  factory,
		errors:   NewErrorHandler(),
	}
}

// API returns the business API, opening it on the first call.
func (a *App) API() (api.BusinessAPI, error) {
	if a.api != nil {
		return a.api, nil
	}
	instance, err := a.factory(a.cfg, a.logger, a.registry)
	if err != nil {
		return nil, a.errors.Handle("open task store", err)
	}
	a.api = instance
	return instance, nil
}

// Close releases the API if it was opened.
func (a *App) Close() error {
	if a.api == nil {
		return nil
	}
	err := a.api.Close()
	a.api = nil
	return err
}
