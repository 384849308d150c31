package sqlite

import (
	"fmt"
)

// Scanner interface defines the common scanning behavior for both sql.Row and sql.Rows
type Scanner interface {
	Scan(dest ...any) error
}

// Rows interface defines the common behavior for sql.Rows
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// ScanTask scans a single task; column order matches taskColumns.
func ScanTask(scanner Scanner) (*Task, error) {
	task := &Task{}
	var startDate, endDate, createdAt string

	err := scanner.Scan(
		&task.ID,
		&task.Name,
		&task.Description,
		&startDate,
		&endDate,
		&task.Owner,
		&task.OwnerEmail,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	if task.StartDate, err = ParseDateFromDB(startDate); err != nil {
		return nil, fmt.Errorf("task %s start_date: %w", task.ID, err)
	}
	if task.EndDate, err = ParseDateFromDB(endDate); err != nil {
		return nil, fmt.Errorf("task %s end_date: %w", task.ID, err)
	}
	if task.CreatedAt, err = ParseTimeFromDB(createdAt); err != nil {
		return nil, fmt.Errorf("task %s created_at: %w", task.ID, err)
	}

	return task, nil
}

// ScanTasks scans multiple tasks from database rows
func ScanTasks(rows Rows) ([]*Task, error) {
	tasks := []*Task{}
	for rows.Next() {
		task, err := ScanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}

// ScanReminderRecord scans a single reminder_log row.
func ScanReminderRecord(scanner Scanner) (*ReminderRecord, error) {
	record := &ReminderRecord{}
	var lastSent string
	if err := scanner.Scan(&record.TaskID, &lastSent); err != nil {
		return nil, err
	}
	var err error
	if record.LastSentAt, err = ParseTimeFromDB(lastSent); err != nil {
		return nil, fmt.Errorf("reminder for %s: %w", record.TaskID, err)
	}
	return record, nil
}

// ScanReminderRecords scans multiple reminder_log rows.
func ScanReminderRecords(rows Rows) ([]*ReminderRecord, error) {
	records := []*ReminderRecord{}
	for rows.Next() {
		record, err := ScanReminderRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
