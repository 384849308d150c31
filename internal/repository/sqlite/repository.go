package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"task-dashboard/internal/errors"
	"task-dashboard/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// SearchOptions narrows ListTasks. Zero values mean "no constraint".
type SearchOptions struct {
	Owners   []string
	Name     *string
	ActiveOn *time.Time
}

// Repository defines the interface for database operations
type Repository interface {
	// Tasks
	CreateTask(ctx context.Context, task *Task) error
	GetTask(ctx context.Context, id string) (*Task, error)
	ListTasks(ctx context.Context) ([]*Task, error)
	SearchTasks(ctx context.Context, opts SearchOptions) ([]*Task, error)
	CountTasks(ctx context.Context) (int, error)
	UpdateTask(ctx context.Context, task *Task) error
	DeleteTask(ctx context.Context, id string) error
	DeleteTasksByName(ctx context.Context, name string) ([]string, error)
	ReplaceTasks(ctx context.Context, tasks []*Task) error
	DeleteAllTasks(ctx context.Context) error

	// Reminder log
	ListReminderRecords(ctx context.Context) ([]*ReminderRecord, error)
	UpsertReminderRecord(ctx context.Context, record *ReminderRecord) error

	// Utility
	Close() error
}

const taskColumns = `id, name, description, start_date, end_date, owner, owner_email, created_at`

// Option customises a SQLiteRepository.
type Option func(*SQLiteRepository)

// WithTimeouts bounds every read and write with the given durations.
func WithTimeouts(query, write time.Duration) Option {
	return func(r *SQLiteRepository) {
		r.queryTimeout = query
		r.writeTimeout = write
	}
}

// WithClock replaces the clock used for created_at stamps.
func WithClock(now func() time.Time) Option {
	return func(r *SQLiteRepository) {
		r.now = now
	}
}

// SQLiteRepository implements the Repository interface
type SQLiteRepository struct {
	db           *sql.DB
	queryTimeout time.Duration
	writeTimeout time.Duration
	now          func() time.Time
}

// New creates a new SQLite repository instance and applies pending migrations.
func New(dbPath string, opts ...Option) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.NewDatabaseError("open database", err)
	}
	// :memory: databases are per-connection.
	db.SetMaxOpenConns(1)

	if err := migrations.RunMigrations(db); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("run migrations", err)
	}

	repo := &SQLiteRepository{db: db, now: time.Now}
	for _, opt := range opts {
		opt(repo)
	}
	return repo, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) readContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.queryTimeout)
}

func (r *SQLiteRepository) writeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.writeTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.writeTimeout)
}

// CreateTask inserts a task. The caller assigns the id; CreatedAt is
// stamped when empty.
func (r *SQLiteRepository) CreateTask(ctx context.Context, task *Task) error {
	ctx, cancel := r.writeContext(ctx)
	defer cancel()
	return r.insertTask(ctx, r.db, task)
}

func (r *SQLiteRepository) insertTask(ctx context.Context, db execer, task *Task) error {
	if task.CreatedAt.IsZero() {
		task.CreatedAt = r.now()
	}
	query := `INSERT INTO tasks (` + taskColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := Execute(ctx, db, "insert task", query,
		task.ID, task.Name, task.Description,
		FormatDateForDB(task.StartDate), FormatDateForDB(task.EndDate),
		task.Owner, task.OwnerEmail, FormatTimeForDB(task.CreatedAt))
	return err
}

// GetTask retrieves a task by ID
func (r *SQLiteRepository) GetTask(ctx context.Context, id string) (*Task, error) {
	ctx, cancel := r.readContext(ctx)
	defer cancel()
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	return QuerySingle(ctx, r.db, query, ScanTask, "task", id, id)
}

// ListTasks retrieves all tasks in creation order
func (r *SQLiteRepository) ListTasks(ctx context.Context) ([]*Task, error) {
	return r.SearchTasks(ctx, SearchOptions{})
}

// SearchTasks lists tasks matching every non-empty option.
func (r *SQLiteRepository) SearchTasks(ctx context.Context, opts SearchOptions) ([]*Task, error) {
	ctx, cancel := r.readContext(ctx)
	defer cancel()

	var conditions []string
	var args []any

	if len(opts.Owners) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(opts.Owners)), ", ")
		conditions = append(conditions, "owner IN ("+placeholders+")")
		for _, owner := range opts.Owners {
			args = append(args, owner)
		}
	}
	if opts.Name != nil {
		conditions = append(conditions, "name = ?")
		args = append(args, *opts.Name)
	}
	if opts.ActiveOn != nil {
		day := FormatDateForDB(*opts.ActiveOn)
		conditions = append(conditions, "start_date <= ? AND end_date >= ?")
		args = append(args, day, day)
	}

	query := `SELECT ` + taskColumns + ` FROM tasks`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at ASC, rowid ASC"

	return QueryMultiple(ctx, r.db, query, ScanTasks, "tasks", args...)
}

// CountTasks returns the number of stored tasks.
func (r *SQLiteRepository) CountTasks(ctx context.Context) (int, error) {
	ctx, cancel := r.readContext(ctx)
	defer cancel()
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&n); err != nil {
		return 0, HandleDatabaseError("count tasks", err)
	}
	return n, nil
}

// UpdateTask updates every editable column of an existing task
func (r *SQLiteRepository) UpdateTask(ctx context.Context, task *Task) error {
	ctx, cancel := r.writeContext(ctx)
	defer cancel()
	query := `
	UPDATE tasks
	SET name = ?, description = ?, start_date = ?, end_date = ?, owner = ?, owner_email = ?
	WHERE id = ?`
	return ExecuteWithRowsAffected(ctx, r.db, query, "task", task.ID,
		task.Name, task.Description,
		FormatDateForDB(task.StartDate), FormatDateForDB(task.EndDate),
		task.Owner, task.OwnerEmail, task.ID)
}

// DeleteTask deletes a task and its reminder record.
func (r *SQLiteRepository) DeleteTask(ctx context.Context, id string) error {
	ctx, cancel := r.writeContext(ctx)
	defer cancel()
	return r.inTx(ctx, "delete task", func(tx *sql.Tx) error {
		if err := ExecuteWithRowsAffected(ctx, tx, `DELETE FROM tasks WHERE id = ?`, "task", id, id); err != nil {
			return err
		}
		_, err := Execute(ctx, tx, "delete reminder record", `DELETE FROM reminder_log WHERE task_id = ?`, id)
		return err
	})
}

// DeleteTasksByName removes every task carrying name and returns their ids.
func (r *SQLiteRepository) DeleteTasksByName(ctx context.Context, name string) ([]string, error) {
	ctx, cancel := r.writeContext(ctx)
	defer cancel()

	var ids []string
	err := r.inTx(ctx, "delete tasks by name", func(tx *sql.Tx) error {
		matches, err := QueryMultiple(ctx, tx, `SELECT `+taskColumns+` FROM tasks WHERE name = ?`, ScanTasks, "tasks", name)
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			return errors.NewNotFoundError("task", name)
		}
		for _, task := range matches {
			ids = append(ids, task.ID)
			if _, err := Execute(ctx, tx, "delete task", `DELETE FROM tasks WHERE id = ?`, task.ID); err != nil {
				return err
			}
			if _, err := Execute(ctx, tx, "delete reminder record", `DELETE FROM reminder_log WHERE task_id = ?`, task.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ReplaceTasks swaps the whole task list in one transaction. Reminder
// records survive for ids that are still present.
func (r *SQLiteRepository) ReplaceTasks(ctx context.Context, tasks []*Task) error {
	ctx, cancel := r.writeContext(ctx)
	defer cancel()
	return r.inTx(ctx, "replace tasks", func(tx *sql.Tx) error {
		if _, err := Execute(ctx, tx, "clear tasks", `DELETE FROM tasks`); err != nil {
			return err
		}
		for _, task := range tasks {
			if err := r.insertTask(ctx, tx, task); err != nil {
				return err
			}
		}
		_, err := Execute(ctx, tx, "prune reminder records",
			`DELETE FROM reminder_log WHERE task_id NOT IN (SELECT id FROM tasks)`)
		return err
	})
}

// DeleteAllTasks removes every task and reminder record.
func (r *SQLiteRepository) DeleteAllTasks(ctx context.Context) error {
	ctx, cancel := r.writeContext(ctx)
	defer cancel()
	return r.inTx(ctx, "delete all tasks", func(tx *sql.Tx) error {
		if _, err := Execute(ctx, tx, "clear tasks", `DELETE FROM tasks`); err != nil {
			return err
		}
		_, err := Execute(ctx, tx, "clear reminder records", `DELETE FROM reminder_log`)
		return err
	})
}

// ListReminderRecords returns every stored last-sent timestamp.
func (r *SQLiteRepository) ListReminderRecords(ctx context.Context) ([]*ReminderRecord, error) {
	ctx, cancel := r.readContext(ctx)
	defer cancel()
	query := `SELECT task_id, last_sent_at FROM reminder_log ORDER BY task_id`
	return QueryMultiple(ctx, r.db, query, ScanReminderRecords, "reminder records")
}

// UpsertReminderRecord stores the last successful send for a task. A task
// deleted while its reminder was in flight leaves no record behind.
func (r *SQLiteRepository) UpsertReminderRecord(ctx context.Context, record *ReminderRecord) error {
	ctx, cancel := r.writeContext(ctx)
	defer cancel()
	query := `
	INSERT INTO reminder_log (task_id, last_sent_at)
	SELECT ?, ? WHERE EXISTS (SELECT 1 FROM tasks WHERE id = ?)
	ON CONFLICT(task_id) DO UPDATE SET last_sent_at = excluded.last_sent_at`
	_, err := Execute(ctx, r.db, "upsert reminder record", query,
		record.TaskID, FormatTimeForDB(record.LastSentAt), record.TaskID)
	return err
}

func (r *SQLiteRepository) inTx(ctx context.Context, operation string, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return HandleDatabaseError("begin "+operation, err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return HandleDatabaseError("commit "+operation, err)
	}
	return nil
}
