package services

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"task-dashboard/internal/domain"
	"task-dashboard/internal/errors"
	"task-dashboard/internal/mailer"
	"task-dashboard/internal/reminder"
	"task-dashboard/internal/validation"
)

// ManualMessageRenderer builds the email for a manual single-task send.
type ManualMessageRenderer interface {
	ManualReminder(task domain.Task, today domain.Date) (mailer.Message, error)
}

// ReminderDeps wires the reminder service.
type ReminderDeps struct {
	Source   ReminderSource
	Sweeper  *reminder.Sweeper
	Gate     *reminder.Gate
	Ledger   *reminder.Ledger
	Sender   mailer.Sender
	Renderer ManualMessageRenderer
	Metrics  *reminder.Metrics
	Now      func() time.Time
	Logger   zerolog.Logger
}

// reminderServiceImpl implements the ReminderService interface
type reminderServiceImpl struct {
	ReminderDeps
	taskValidator *validation.TaskValidator
}

// NewReminderService creates a new ReminderService instance
func NewReminderService(deps ReminderDeps) ReminderService {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &reminderServiceImpl{
		ReminderDeps:  deps,
		taskValidator: validation.NewTaskValidator(),
	}
}

func (r *reminderServiceImpl) clock() (time.Time, domain.Date) {
	now := r.Now().In(r.Gate.Location())
	return now, domain.DateOf(now)
}

// CheckDaily runs the sweep when the gate is open. The bool reports
// whether a sweep ran.
func (r *reminderServiceImpl) CheckDaily(ctx context.Context) (reminder.Result, bool, error) {
	now, today := r.clock()
	if !r.Gate.TryEnter(now) {
		return reminder.Result{}, false, nil
	}

	result, err := r.sweep(ctx, today)
	if err != nil {
		return result, true, err
	}
	r.Metrics.ObserveSweep(reminder.TriggerDaily, now)
	r.Logger.Info().
		Str("trigger", reminder.TriggerDaily).
		Int("sent", result.Sent).
		Int("errors", result.Errors).
		Int("skipped", result.Skipped).
		Msg("reminder sweep finished")
	return result, true, nil
}

// SweepNow runs the sweep regardless of the gate. The ledger still
// prevents a second reminder on the same day.
func (r *reminderServiceImpl) SweepNow(ctx context.Context) (reminder.Result, error) {
	now, today := r.clock()

	result, err := r.sweep(ctx, today)
	if err != nil {
		return result, err
	}
	r.Metrics.ObserveSweep(reminder.TriggerManual, now)
	r.Logger.Info().
		Str("trigger", reminder.TriggerManual).
		Int("sent", result.Sent).
		Int("errors", result.Errors).
		Int("skipped", result.Skipped).
		Msg("reminder sweep finished")
	return result, nil
}

func (r *reminderServiceImpl) sweep(ctx context.Context, today domain.Date) (reminder.Result, error) {
	tasks, book, err := r.Source.ReminderInputs(ctx)
	if err != nil {
		return reminder.Result{}, err
	}
	return r.Sweeper.Run(ctx, tasks, book, today), nil
}

// SendOne mails the manual reminder for one task. It neither consults
// nor updates the ledger.
func (r *reminderServiceImpl) SendOne(ctx context.Context, taskID string) (*SingleSendResult, error) {
	if err := r.taskValidator.ValidateTaskID(taskID); err != nil {
		return nil, errors.NewValidationError("invalid task ID", err)
	}

	tasks, book, err := r.Source.ReminderInputs(ctx)
	if err != nil {
		return nil, err
	}

	task, ok := findTask(tasks, taskID)
	if !ok {
		return nil, errors.NewNotFoundError("task", taskID)
	}

	recipient := book.Resolve(task)
	if recipient == "" {
		return nil, errors.NewInvalidInputError("recipient", task.Owner,
			"no email for this owner and no default receiver configured")
	}

	_, today := r.clock()
	msg, err := r.Renderer.ManualReminder(task, today)
	if err != nil {
		return nil, err
	}

	result := &SingleSendResult{TaskID: task.ID, TaskName: task.Name, Recipient: recipient}
	err = r.Sender.Send(ctx, msg, recipient)
	r.Metrics.ObserveSingle(err)
	if err != nil {
		r.Logger.Warn().Err(err).Str("task_id", task.ID).Str("recipient", recipient).Msg("manual reminder failed")
		return result, err
	}
	r.Logger.Info().Str("task_id", task.ID).Str("recipient", recipient).Msg("manual reminder sent")
	return result, nil
}

// Status reports the gate state and, for every task active today, where
// its reminder would go and whether it is still due.
func (r *reminderServiceImpl) Status(ctx context.Context) (*ReminderStatus, error) {
	now, today := r.clock()

	tasks, book, err := r.Source.ReminderInputs(ctx)
	if err != nil {
		return nil, err
	}

	next := r.Gate.NextRun(now)
	status := &ReminderStatus{
		Now:       now,
		Today:     today,
		Threshold: r.Gate.Threshold().String(),
		Location:  r.Gate.Location().String(),
		NextRun:   next,
		NextRunIn: humanize.RelTime(next, now, "ago", "from now"),
		Active:    []TaskReminderStatus{},
	}
	if last, ok := r.Gate.LastCheck(); ok {
		status.LastCheck = &last
		status.LastCheckAgo = humanize.RelTime(last, now, "ago", "from now")
	}

	for _, task := range tasks {
		if !task.IsActiveOn(today) {
			continue
		}
		entry := TaskReminderStatus{
			Task:          task,
			Recipient:     book.Resolve(task),
			Eligible:      r.Ledger.IsEligible(task.ID, today),
			DaysRemaining: task.DaysRemaining(today),
		}
		if last, ok := r.Ledger.LastSent(task.ID); ok {
			entry.LastSent = &last
			entry.LastSentAgo = humanize.RelTime(last, now, "ago", "from now")
		}
		status.Active = append(status.Active, entry)
	}
	return status, nil
}

func findTask(tasks []domain.Task, id string) (domain.Task, bool) {
	for _, task := range tasks {
		if task.ID == id {
			return task, true
		}
	}
	return domain.Task{}, false
}

// directSource reads sweep inputs straight from the services, without
// any locking.
type directSource struct {
	tasks    TaskService
	settings SettingsService
}

// NewDirectSource returns a ReminderSource over the task and settings
// services. Callers that mutate concurrently wrap it in their own lock.
func NewDirectSource(tasks TaskService, settings SettingsService) ReminderSource {
	return &directSource{tasks: tasks, settings: settings}
}

func (d *directSource) ReminderInputs(ctx context.Context) ([]domain.Task, reminder.AddressBook, error) {
	tasks, err := d.tasks.ListTasks(ctx, domain.TaskFilter{})
	if err != nil {
		return nil, reminder.AddressBook{}, err
	}
	book, err := d.settings.AddressBook()
	if err != nil {
		return nil, reminder.AddressBook{}, err
	}
	return tasks, book, nil
}
