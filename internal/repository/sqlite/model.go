package sqlite

import "time"

// Task is a row of the tasks table. Dates are stored as YYYY-MM-DD text
// and surface here as midnight UTC.
type Task struct {
	ID          string
	Name        string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	Owner       string
	OwnerEmail  string
	CreatedAt   time.Time
}

// ReminderRecord is a row of the reminder_log table: the last successful
// reminder for a task.
type ReminderRecord struct {
	TaskID     string
	LastSentAt time.Time
}
