package api

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"task-dashboard/internal/config"
	"task-dashboard/internal/domain"
	"task-dashboard/internal/mailer"
	"task-dashboard/internal/reminder"
	"task-dashboard/internal/repository/csvfile"
	"task-dashboard/internal/repository/jsonfile"
	"task-dashboard/internal/repository/sqlite"
	"task-dashboard/internal/secret"
	"task-dashboard/internal/services"
	"task-dashboard/internal/validation"
)

// Option customises New.
type Option func(*options)

type options struct {
	sender     mailer.Sender
	now        func() time.Time
	registerer prometheus.Registerer
	repo       sqlite.Repository
}

// WithSender replaces the SMTP transport.
func WithSender(sender mailer.Sender) Option {
	return func(o *options) {
		o.sender = sender
	}
}

// WithClock replaces time.Now for the gate, the sweep and "today".
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithRegisterer registers the reminder metrics with reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

// WithRepository uses repo instead of opening the configured database.
func WithRepository(repo sqlite.Repository) Option {
	return func(o *options) {
		o.repo = repo
	}
}

// New opens every store named by cfg, restores the task list from the
// CSV snapshot when the database is empty and returns the coordinator.
func New(cfg *config.Config, logger zerolog.Logger, opts ...Option) (BusinessAPI, error) {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	threshold, err := cfg.ReminderThreshold()
	if err != nil {
		return nil, fmt.Errorf("reminder threshold: %w", err)
	}
	loc, err := cfg.ReminderLocation()
	if err != nil {
		return nil, fmt.Errorf("reminder location: %w", err)
	}

	repo := o.repo
	if repo == nil {
		repo, err = config.CreateRepository(cfg)
		if err != nil {
			return nil, err
		}
	}

	box, err := secret.New(secret.Options{
		Passphrase: cfg.Storage.SecretPassphrase,
		SaltFile:   cfg.GetSaltPath(),
		KeyFile:    cfg.GetKeyPath(),
		DirPerm:    cfg.DirMode(),
	})
	if err != nil {
		repo.Close()
		return nil, err
	}

	snapshot := csvfile.NewStore(cfg.GetSnapshotPath(), cfg.DirMode())
	settingsStore := jsonfile.NewSettingsStore(cfg.GetSettingsPath(), cfg.DirMode())

	sender := o.sender
	if sender == nil {
		sender = mailer.NewTransport(cfg.SMTP.Host,
			mailer.NewStoredCredentials(settingsStore, box),
			mailer.WithProfiles(mailer.DefaultProfiles(cfg.SMTP.StartTLSPort, cfg.SMTP.TLSPort)...),
			mailer.WithTimeout(cfg.SMTP.Timeout),
			mailer.WithLogger(logger),
		)
	}
	renderer := mailer.NewRenderer(cfg.Display.DateFormat)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Application.Timeout)
	defer cancel()

	ledger := reminder.NewLedger(loc, reminder.NewRepositoryStore(repo))
	if err := ledger.Load(ctx); err != nil {
		repo.Close()
		return nil, err
	}

	gate := reminder.NewGate(threshold, loc)
	metrics := reminder.NewMetrics(o.registerer)
	sweeper := reminder.NewSweeper(ledger, sender, renderer,
		reminder.WithClock(o.now),
		reminder.WithMetrics(metrics),
		reminder.WithLogger(logger),
	)

	taskService := services.NewTaskService(repo,
		services.WithSnapshot(snapshot),
		services.WithLedger(ledger),
		services.WithTaskValidator(validation.NewTaskValidatorWithConfig(cfg)),
		services.WithTaskLogger(logger),
	)
	settingsService := services.NewSettingsService(settingsStore, box, sender, renderer)

	b := &businessAPIImpl{
		repo:   repo,
		direct: services.NewDirectSource(taskService, settingsService),
		today: func() domain.Date {
			return domain.DateOf(o.now().In(loc))
		},
	}
	b.services = &services.ServiceContainer{
		TaskService:     taskService,
		SettingsService: settingsService,
		ReminderService: services.NewReminderService(services.ReminderDeps{
			Source:   b,
			Sweeper:  sweeper,
			Gate:     gate,
			Ledger:   ledger,
			Sender:   sender,
			Renderer: renderer,
			Metrics:  metrics,
			Now:      o.now,
			Logger:   logger,
		}),
	}
	b.scheduler = reminder.NewScheduler(gate, b, logger)

	restored, err := taskService.RestoreSnapshot(ctx)
	if err != nil {
		logger.Warn().Err(err).Str("path", snapshot.Path()).Msg("could not restore tasks from snapshot")
	} else if restored > 0 {
		logger.Info().Int("tasks", restored).Str("path", snapshot.Path()).Msg("restored tasks from snapshot")
	}

	return b, nil
}
