package api

import (
	"context"
	"io"
	"sync"

	"task-dashboard/internal/chart"
	"task-dashboard/internal/domain"
	"task-dashboard/internal/reminder"
	"task-dashboard/internal/repository/sqlite"
	"task-dashboard/internal/services"
)

// BusinessAPI is the coordinator both the CLI and the HTTP surface talk
// to. It serialises task and settings mutations and hands sweeps a
// consistent copy of the task list.
type BusinessAPI interface {
	// ========== Tasks ==========

	CreateTask(ctx context.Context, input services.TaskInput) (*domain.Task, error)
	GetTask(ctx context.Context, id string) (*domain.Task, error)
	ListTasks(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error)
	UpdateTask(ctx context.Context, id string, input services.TaskInput) (*domain.Task, error)
	DeleteTask(ctx context.Context, id string) error
	DeleteTasksByName(ctx context.Context, name string) ([]string, error)
	ReplaceTasks(ctx context.Context, tasks []domain.Task) ([]domain.Task, error)
	ImportTasks(ctx context.Context, tasks []domain.Task, replace bool) ([]domain.Task, error)
	ClearTasks(ctx context.Context, confirm bool) (int, error)
	Owners(ctx context.Context) ([]string, error)
	ActiveToday(ctx context.Context) ([]domain.Task, error)

	// SnapshotWarning returns the last snapshot write failure, if any.
	SnapshotWarning() error

	// ========== Settings ==========

	GetSettings(ctx context.Context) (*services.SettingsView, error)
	SetSender(ctx context.Context, email string) (*services.SettingsView, error)
	SetReceiver(ctx context.Context, email string) (*services.SettingsView, error)
	SetPassword(ctx context.Context, password string) (*services.SettingsView, error)
	SetOwnerEmail(ctx context.Context, owner, email string) (*services.SettingsView, error)
	RemoveOwnerEmail(ctx context.Context, owner string) (*services.SettingsView, error)
	SendTestEmail(ctx context.Context) (string, error)

	// ========== Reminders ==========

	CheckDaily(ctx context.Context) (reminder.Result, bool, error)
	SweepNow(ctx context.Context) (reminder.Result, error)
	SendReminder(ctx context.Context, taskID string) (*services.SingleSendResult, error)
	ReminderStatus(ctx context.Context) (*services.ReminderStatus, error)

	// RunScheduler blocks, running the daily sweep at every threshold
	// time, until ctx is cancelled.
	RunScheduler(ctx context.Context) error

	// ========== Chart ==========

	RenderChart(ctx context.Context, w io.Writer, filter domain.TaskFilter, opts chart.Options) error
	// RenderExampleChart draws the built-in sample tasks.
	RenderExampleChart(w io.Writer, opts chart.Options) error

	Close() error
}

// businessAPIImpl implements the BusinessAPI interface
type businessAPIImpl struct {
	mu        sync.Mutex
	repo      sqlite.Repository
	services  *services.ServiceContainer
	direct    services.ReminderSource
	scheduler *reminder.Scheduler
	today     func() domain.Date
}

// ========== Tasks ==========

func (b *businessAPIImpl) CreateTask(ctx context.Context, input services.TaskInput) (*domain.Task, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.services.TaskService.CreateTask(ctx, input)
}

func (b *businessAPIImpl) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.services.TaskService.GetTask(ctx, id)
}

func (b *businessAPIImpl) ListTasks(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.services.TaskService.ListTasks(ctx, filter)
}

func (b *businessAPIImpl) UpdateTask(ctx context.Context, id string, input services.TaskInput) (*domain.Task, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.services.TaskService.UpdateTask(ctx, id, input)
}

func (b *businessAPIImpl) DeleteTask(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.services.TaskService.DeleteTask(ctx, id)
}

func (b *businessAPIImpl) DeleteTasksByName(ctx context.Context, name string) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.services.TaskService.DeleteTasksByName(ctx, name)
}

func (b *businessAPIImpl) ReplaceTasks(ctx context.Context, tasks []domain.Task) ([]domain.Task, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.services.TaskService.ReplaceTasks(ctx, tasks)
}

func (b *businessAPIImpl) ImportTasks(ctx context.Context, tasks []domain.Task, replace bool) ([]domain.Task, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.services.TaskService.ImportTasks(ctx, tasks, replace)
}

func (b *businessAPIImpl) ClearTasks(ctx context.Context, confirm bool) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.services.TaskService.ClearTasks(ctx, confirm)
}

func (b *businessAPIImpl) Owners(ctx context.Context) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.services.TaskService.Owners(ctx)
}

func (b *businessAPIImpl) ActiveToday(ctx context.Context) ([]domain.Task, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.services.TaskService.ActiveOn(ctx, b.today())
}

func (b *businessAPIImpl) SnapshotWarning() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.services.TaskService.SnapshotError()
}

// ========== Settings ==========

func (b *businessAPIImpl) GetSettings(ctx context.Context) (*services.SettingsView, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.services.SettingsService.GetSettings()
}

func (b *businessAPIImpl) SetSender(ctx context.Context, email string) (*services.SettingsView, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.services.SettingsService.SetSender(email)
}

func (b *businessAPIImpl) SetReceiver(ctx context.Context, email string) (*services.SettingsView, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.services.SettingsService.SetReceiver(email)
}

func (b *businessAPIImpl) SetPassword(ctx context.Context, password string) (*services.SettingsView, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.services.SettingsService.SetPassword(password)
}

func (b *businessAPIImpl) SetOwnerEmail(ctx context.Context, owner, email string) (*services.SettingsView, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.services.SettingsService.SetOwnerEmail(owner, email)
}

func (b *businessAPIImpl) RemoveOwnerEmail(ctx context.Context, owner string) (*services.SettingsView, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.services.SettingsService.RemoveOwnerEmail(owner)
}

// SendTestEmail runs outside the lock; delivery can take as long as the
// SMTP timeout.
func (b *businessAPIImpl) SendTestEmail(ctx context.Context) (string, error) {
	return b.services.SettingsService.SendTest(ctx)
}

// ========== Reminders ==========

// ReminderInputs implements services.ReminderSource by copying the task
// list and address book under the lock.
func (b *businessAPIImpl) ReminderInputs(ctx context.Context) ([]domain.Task, reminder.AddressBook, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.direct.ReminderInputs(ctx)
}

func (b *businessAPIImpl) CheckDaily(ctx context.Context) (reminder.Result, bool, error) {
	return b.services.ReminderService.CheckDaily(ctx)
}

func (b *businessAPIImpl) SweepNow(ctx context.Context) (reminder.Result, error) {
	return b.services.ReminderService.SweepNow(ctx)
}

func (b *businessAPIImpl) SendReminder(ctx context.Context, taskID string) (*services.SingleSendResult, error) {
	return b.services.ReminderService.SendOne(ctx, taskID)
}

func (b *businessAPIImpl) ReminderStatus(ctx context.Context) (*services.ReminderStatus, error) {
	return b.services.ReminderService.Status(ctx)
}

func (b *businessAPIImpl) RunScheduler(ctx context.Context) error {
	return b.scheduler.Run(ctx)
}

// ========== Chart ==========

func (b *businessAPIImpl) RenderChart(ctx context.Context, w io.Writer, filter domain.TaskFilter, opts chart.Options) error {
	tasks, err := b.ListTasks(ctx, filter)
	if err != nil {
		return err
	}
	if opts.Today.IsZero() {
		opts.Today = b.today()
	}
	return chart.Render(w, tasks, opts)
}

func (b *businessAPIImpl) RenderExampleChart(w io.Writer, opts chart.Options) error {
	if opts.Today.IsZero() {
		opts.Today = b.today()
	}
	return chart.Render(w, nil, opts)
}

func (b *businessAPIImpl) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.repo.Close()
}
