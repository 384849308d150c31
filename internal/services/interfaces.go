package services

import (
	"context"
	"time"

	"task-dashboard/internal/domain"
	"task-dashboard/internal/reminder"
)

// TaskInput carries the user-editable fields of a task.
type TaskInput struct {
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description" yaml:"description"`
	StartDate   domain.Date `json:"start_date" yaml:"start_date"`
	EndDate     domain.Date `json:"end_date" yaml:"end_date"`
	Owner       string      `json:"owner" yaml:"owner"`
	OwnerEmail  string      `json:"owner_email,omitempty" yaml:"owner_email,omitempty"`
}

// SettingsView is the displayable form of the email configuration. The
// password itself never leaves the settings service.
type SettingsView struct {
	SenderEmail        string                `json:"sender_email"`
	ReceiverEmail      string                `json:"receiver_email"`
	PasswordConfigured bool                  `json:"password_configured"`
	OwnerEmails        domain.OwnerDirectory `json:"owner_emails"`
}

// TaskReminderStatus describes one active task from the reminder engine's
// point of view.
type TaskReminderStatus struct {
	Task          domain.Task `json:"task"`
	Recipient     string      `json:"recipient"`
	Eligible      bool        `json:"eligible"`
	DaysRemaining int         `json:"days_remaining"`
	LastSent      *time.Time  `json:"last_sent,omitempty"`
	LastSentAgo   string      `json:"last_sent_ago,omitempty"`
}

// ReminderStatus summarises the scheduler state and today's workload.
type ReminderStatus struct {
	Now          time.Time            `json:"now"`
	Today        domain.Date          `json:"today"`
	Threshold    string               `json:"threshold"`
	Location     string               `json:"location"`
	LastCheck    *time.Time           `json:"last_check,omitempty"`
	LastCheckAgo string               `json:"last_check_ago,omitempty"`
	NextRun      time.Time            `json:"next_run"`
	NextRunIn    string               `json:"next_run_in"`
	Active       []TaskReminderStatus `json:"active"`
}

// SingleSendResult reports a manual reminder for one task.
type SingleSendResult struct {
	TaskID    string `json:"task_id"`
	TaskName  string `json:"task_name"`
	Recipient string `json:"recipient"`
}

// TaskService handles task lifecycle and the CSV snapshot.
type TaskService interface {
	// Task CRUD operations
	CreateTask(ctx context.Context, input TaskInput) (*domain.Task, error)
	GetTask(ctx context.Context, id string) (*domain.Task, error)
	ListTasks(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error)
	UpdateTask(ctx context.Context, id string, input TaskInput) (*domain.Task, error)
	DeleteTask(ctx context.Context, id string) error
	DeleteTasksByName(ctx context.Context, name string) ([]string, error)

	// Bulk operations
	ReplaceTasks(ctx context.Context, tasks []domain.Task) ([]domain.Task, error)
	ImportTasks(ctx context.Context, tasks []domain.Task, replace bool) ([]domain.Task, error)
	ClearTasks(ctx context.Context, confirm bool) (int, error)

	// Queries
	Owners(ctx context.Context) ([]string, error)
	ActiveOn(ctx context.Context, day domain.Date) ([]domain.Task, error)

	// Snapshot handling
	RestoreSnapshot(ctx context.Context) (int, error)
	SnapshotError() error
}

// SettingsService manages the persisted email configuration.
type SettingsService interface {
	GetSettings() (*SettingsView, error)
	AddressBook() (reminder.AddressBook, error)

	SetSender(email string) (*SettingsView, error)
	SetReceiver(email string) (*SettingsView, error)
	SetPassword(password string) (*SettingsView, error)
	SetOwnerEmail(owner, email string) (*SettingsView, error)
	RemoveOwnerEmail(owner string) (*SettingsView, error)

	SendTest(ctx context.Context) (string, error)
}

// ReminderService runs sweeps and reports on reminder state.
type ReminderService interface {
	CheckDaily(ctx context.Context) (reminder.Result, bool, error)
	SweepNow(ctx context.Context) (reminder.Result, error)
	SendOne(ctx context.Context, taskID string) (*SingleSendResult, error)
	Status(ctx context.Context) (*ReminderStatus, error)
}

// ReminderSource supplies the inputs of a sweep: the task list and the
// address book, read consistently.
type ReminderSource interface {
	ReminderInputs(ctx context.Context) ([]domain.Task, reminder.AddressBook, error)
}

// ServiceContainer manages all services and their dependencies
type ServiceContainer struct {
	TaskService     TaskService
	SettingsService SettingsService
	ReminderService ReminderService
}
