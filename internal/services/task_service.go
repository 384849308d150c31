package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"task-dashboard/internal/domain"
	"task-dashboard/internal/errors"
	"task-dashboard/internal/repository/sqlite"
	"task-dashboard/internal/validation"
)

// TaskSnapshot is the flat-file copy of the task list rewritten after
// every mutation.
type TaskSnapshot interface {
	Exists() bool
	Load() ([]domain.Task, error)
	Save(tasks []domain.Task) error
}

// LedgerPruner drops reminder records for tasks that no longer exist.
type LedgerPruner interface {
	Retain(keep map[string]bool)
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	repo          sqlite.Repository
	mapper        *domain.Mapper
	taskValidator *validation.TaskValidator
	snapshot      TaskSnapshot
	ledger        LedgerPruner
	logger        zerolog.Logger
	snapshotErr   error
}

// TaskServiceOption customises the task service.
type TaskServiceOption func(*taskServiceImpl)

// WithSnapshot enables the CSV snapshot.
func WithSnapshot(snapshot TaskSnapshot) TaskServiceOption {
	return func(t *taskServiceImpl) {
		t.snapshot = snapshot
	}
}

// WithLedger prunes reminder records on deletes.
func WithLedger(ledger LedgerPruner) TaskServiceOption {
	return func(t *taskServiceImpl) {
		t.ledger = ledger
	}
}

// WithTaskValidator replaces the default validator, e.g. one built from
// configured limits.
func WithTaskValidator(v *validation.TaskValidator) TaskServiceOption {
	return func(t *taskServiceImpl) {
		t.taskValidator = v
	}
}

// WithTaskLogger attaches a logger.
func WithTaskLogger(logger zerolog.Logger) TaskServiceOption {
	return func(t *taskServiceImpl) {
		t.logger = logger
	}
}

// NewTaskService creates a new TaskService instance
func NewTaskService(repo sqlite.Repository, opts ...TaskServiceOption) TaskService {
	t := &taskServiceImpl{
		repo:          repo,
		mapper:        domain.NewMapper(),
		taskValidator: validation.NewTaskValidator(),
		logger:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (in TaskInput) toTask() domain.Task {
	return domain.Task{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Owner:       strings.TrimSpace(in.Owner),
		OwnerEmail:  strings.TrimSpace(in.OwnerEmail),
	}
}

func cleanTask(task domain.Task) domain.Task {
	in := TaskInput{
		Name:        task.Name,
		Description: task.Description,
		StartDate:   task.StartDate,
		EndDate:     task.EndDate,
		Owner:       task.Owner,
		OwnerEmail:  task.OwnerEmail,
	}
	cleaned := in.toTask()
	cleaned.ID = strings.TrimSpace(task.ID)
	cleaned.CreatedAt = task.CreatedAt
	return cleaned
}

func (t *taskServiceImpl) validateID(id string) error {
	if err := t.taskValidator.ValidateTaskID(id); err != nil {
		return errors.NewValidationError("invalid task ID", err)
	}
	return nil
}

// CreateTask validates input and stores it under a new id.
func (t *taskServiceImpl) CreateTask(ctx context.Context, input TaskInput) (*domain.Task, error) {
	task := input.toTask()
	task.ID = domain.NewTaskID()

	if err := t.taskValidator.ValidateTask(task); err != nil {
		return nil, errors.NewValidationError("invalid task", err)
	}

	dbTask := t.mapper.Task.ToDatabase(task)
	if err := t.repo.CreateTask(ctx, &dbTask); err != nil {
		return nil, err
	}

	t.writeSnapshot(ctx)

	created := t.mapper.Task.FromDatabase(dbTask)
	return &created, nil
}

// GetTask retrieves a task by its ID
func (t *taskServiceImpl) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	if err := t.validateID(id); err != nil {
		return nil, err
	}

	dbTask, err := t.repo.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	task := t.mapper.Task.FromDatabase(*dbTask)
	return &task, nil
}

// ListTasks returns tasks in creation order. Owners are filtered in SQL,
// the text search in Go.
func (t *taskServiceImpl) ListTasks(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	dbTasks, err := t.repo.SearchTasks(ctx, t.mapper.Filter.ToDatabase(filter))
	if err != nil {
		return nil, err
	}

	tasks := t.mapper.Task.FromDatabaseSlice(dbTasks)
	if strings.TrimSpace(filter.Search) == "" {
		return tasks, nil
	}

	matched := make([]domain.Task, 0, len(tasks))
	for _, task := range tasks {
		if filter.Matches(task) {
			matched = append(matched, task)
		}
	}
	return matched, nil
}

// UpdateTask replaces the editable fields of an existing task.
func (t *taskServiceImpl) UpdateTask(ctx context.Context, id string, input TaskInput) (*domain.Task, error) {
	if err := t.validateID(id); err != nil {
		return nil, err
	}

	existing, err := t.repo.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	task := input.toTask()
	task.ID = id
	task.CreatedAt = existing.CreatedAt

	if err := t.taskValidator.ValidateTask(task); err != nil {
		return nil, errors.NewValidationError("invalid task", err)
	}

	dbTask := t.mapper.Task.ToDatabase(task)
	if err := t.repo.UpdateTask(ctx, &dbTask); err != nil {
		return nil, err
	}

	t.writeSnapshot(ctx)
	return &task, nil
}

// DeleteTask removes one task and its reminder record.
func (t *taskServiceImpl) DeleteTask(ctx context.Context, id string) error {
	if err := t.validateID(id); err != nil {
		return err
	}

	if err := t.repo.DeleteTask(ctx, id); err != nil {
		return err
	}

	t.reconcile(ctx)
	return nil
}

// DeleteTasksByName removes every task carrying name.
func (t *taskServiceImpl) DeleteTasksByName(ctx context.Context, name string) ([]string, error) {
	name, err := t.taskValidator.GetValidTaskName(name)
	if err != nil {
		return nil, errors.NewValidationError("invalid task name", err)
	}

	ids, err := t.repo.DeleteTasksByName(ctx, name)
	if err != nil {
		return nil, err
	}

	t.reconcile(ctx)
	return ids, nil
}

// ReplaceTasks swaps the whole list, as a bulk edit does. Every row is
// validated; rows without an id get one. The given order becomes the
// listing order.
func (t *taskServiceImpl) ReplaceTasks(ctx context.Context, tasks []domain.Task) ([]domain.Task, error) {
	rows := make([]domain.Task, len(tasks))
	for i, task := range tasks {
		rows[i] = cleanTask(task)
		rows[i].CreatedAt = time.Time{}
		if rows[i].ID == "" {
			rows[i].ID = domain.NewTaskID()
		}
	}

	if err := t.taskValidator.ValidateTasks(rows); err != nil {
		return nil, errors.NewValidationError("invalid task list", err)
	}

	stored, err := t.replaceAll(ctx, rows)
	if err != nil {
		return nil, err
	}

	t.reconcile(ctx)
	return stored, nil
}

// ImportTasks adds tasks read from a snapshot file, or replaces the list
// with them when replace is set.
func (t *taskServiceImpl) ImportTasks(ctx context.Context, tasks []domain.Task, replace bool) ([]domain.Task, error) {
	if replace {
		return t.ReplaceTasks(ctx, tasks)
	}

	existing, err := t.ListTasks(ctx, domain.TaskFilter{})
	if err != nil {
		return nil, err
	}

	rows := make([]domain.Task, 0, len(existing)+len(tasks))
	rows = append(rows, existing...)
	for _, task := range tasks {
		row := cleanTask(task)
		row.CreatedAt = time.Time{}
		if row.ID == "" {
			row.ID = domain.NewTaskID()
		}
		rows = append(rows, row)
	}

	if err := t.taskValidator.ValidateTasks(rows[len(existing):]); err != nil {
		return nil, errors.NewValidationError("invalid imported tasks", err)
	}
	if err := t.taskValidator.ValidateTasks(rows); err != nil {
		return nil, errors.NewValidationError("imported tasks clash with existing ids", err)
	}

	stored, err := t.replaceAll(ctx, rows)
	if err != nil {
		return nil, err
	}

	t.writeSnapshot(ctx)
	return stored[len(existing):], nil
}

// ClearTasks deletes every task. It refuses to run without confirm.
func (t *taskServiceImpl) ClearTasks(ctx context.Context, confirm bool) (int, error) {
	if !confirm {
		return 0, errors.NewInvalidInputError("confirm", false, "clearing every task must be confirmed")
	}

	count, err := t.repo.CountTasks(ctx)
	if err != nil {
		return 0, err
	}

	if err := t.repo.DeleteAllTasks(ctx); err != nil {
		return 0, err
	}

	t.reconcile(ctx)
	return count, nil
}

// Owners returns the distinct non-empty owner names, sorted.
func (t *taskServiceImpl) Owners(ctx context.Context) ([]string, error) {
	tasks, err := t.ListTasks(ctx, domain.TaskFilter{})
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	owners := []string{}
	for _, task := range tasks {
		if task.Owner == "" || seen[task.Owner] {
			continue
		}
		seen[task.Owner] = true
		owners = append(owners, task.Owner)
	}
	sort.Strings(owners)
	return owners, nil
}

// ActiveOn returns the tasks whose date range contains day.
func (t *taskServiceImpl) ActiveOn(ctx context.Context, day domain.Date) ([]domain.Task, error) {
	at := day.Time(time.UTC)
	dbTasks, err := t.repo.SearchTasks(ctx, sqlite.SearchOptions{ActiveOn: &at})
	if err != nil {
		return nil, err
	}
	return t.mapper.Task.FromDatabaseSlice(dbTasks), nil
}

// RestoreSnapshot loads the snapshot into an empty store. It returns the
// number of tasks imported; a populated store is left alone.
func (t *taskServiceImpl) RestoreSnapshot(ctx context.Context) (int, error) {
	if t.snapshot == nil || !t.snapshot.Exists() {
		return 0, nil
	}

	count, err := t.repo.CountTasks(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	tasks, err := t.snapshot.Load()
	if err != nil {
		return 0, err
	}
	if len(tasks) == 0 {
		return 0, nil
	}

	rows := make([]domain.Task, len(tasks))
	for i, task := range tasks {
		rows[i] = cleanTask(task)
	}
	if err := t.taskValidator.ValidateTasks(rows); err != nil {
		return 0, errors.NewValidationError("snapshot contains invalid tasks", err)
	}

	if _, err := t.replaceAll(ctx, rows); err != nil {
		return 0, err
	}

	t.logger.Info().Int("tasks", len(rows)).Msg("restored tasks from snapshot")
	return len(rows), nil
}

// SnapshotError returns the error of the last snapshot write, or nil when
// it succeeded.
func (t *taskServiceImpl) SnapshotError() error {
	return t.snapshotErr
}

func (t *taskServiceImpl) replaceAll(ctx context.Context, tasks []domain.Task) ([]domain.Task, error) {
	dbTasks := t.mapper.Task.ToDatabaseSlice(tasks)
	if err := t.repo.ReplaceTasks(ctx, dbTasks); err != nil {
		return nil, err
	}
	return t.mapper.Task.FromDatabaseSlice(dbTasks), nil
}

// reconcile prunes the ledger to the stored ids and rewrites the snapshot.
func (t *taskServiceImpl) reconcile(ctx context.Context) {
	tasks, err := t.ListTasks(ctx, domain.TaskFilter{})
	if err != nil {
		t.logger.Warn().Err(err).Msg("could not reload tasks after delete")
		return
	}

	if t.ledger != nil {
		keep := make(map[string]bool, len(tasks))
		for _, task := range tasks {
			keep[task.ID] = true
		}
		t.ledger.Retain(keep)
	}

	t.saveSnapshot(tasks)
}

// writeSnapshot rewrites the snapshot. Failures are logged and kept for
// SnapshotError; the database stays authoritative.
func (t *taskServiceImpl) writeSnapshot(ctx context.Context) {
	if t.snapshot == nil {
		return
	}
	tasks, err := t.ListTasks(ctx, domain.TaskFilter{})
	if err != nil {
		t.snapshotErr = err
		t.logger.Warn().Err(err).Msg("could not read tasks for snapshot")
		return
	}
	t.saveSnapshot(tasks)
}

func (t *taskServiceImpl) saveSnapshot(tasks []domain.Task) {
	if t.snapshot == nil {
		return
	}
	if err := t.snapshot.Save(tasks); err != nil {
		t.snapshotErr = err
		t.logger.Warn().Err(err).Msg("task snapshot not written")
		return
	}
	t.snapshotErr = nil
}
