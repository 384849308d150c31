package domain

import (
	"time"

	"task-dashboard/internal/repository/sqlite"
)

// TaskMapper handles conversion between domain and database Task models.
type TaskMapper struct{}

// NewTaskMapper creates a new TaskMapper instance.
func NewTaskMapper() *TaskMapper {
	return &TaskMapper{}
}

// ToDatabase converts a domain Task to a database Task.
func (m *TaskMapper) ToDatabase(task Task) sqlite.Task {
	return sqlite.Task{
		ID:          task.ID,
		Name:        task.Name,
		Description: task.Description,
		StartDate:   task.StartDate.Time(time.UTC),
		EndDate:     task.EndDate.Time(time.UTC),
		Owner:       task.Owner,
		OwnerEmail:  task.OwnerEmail,
		CreatedAt:   task.CreatedAt,
	}
}

// FromDatabase converts a database Task to a domain Task.
func (m *TaskMapper) FromDatabase(dbTask sqlite.Task) Task {
	return Task{
		ID:          dbTask.ID,
		Name:        dbTask.Name,
		Description: dbTask.Description,
		StartDate:   DateOf(dbTask.StartDate),
		EndDate:     DateOf(dbTask.EndDate),
		Owner:       dbTask.Owner,
		OwnerEmail:  dbTask.OwnerEmail,
		CreatedAt:   dbTask.CreatedAt,
	}
}

// ToDatabaseSlice converts a slice of domain Tasks to database Tasks.
func (m *TaskMapper) ToDatabaseSlice(tasks []Task) []*sqlite.Task {
	dbTasks := make([]*sqlite.Task, len(tasks))
	for i, task := range tasks {
		dbTask := m.ToDatabase(task)
		dbTasks[i] = &dbTask
	}
	return dbTasks
}

// FromDatabaseSlice converts database Tasks to domain Tasks.
func (m *TaskMapper) FromDatabaseSlice(dbTasks []*sqlite.Task) []Task {
	tasks := make([]Task, len(dbTasks))
	for i, dbTask := range dbTasks {
		tasks[i] = m.FromDatabase(*dbTask)
	}
	return tasks
}

// FilterMapper converts a TaskFilter into repository search options. Only
// the owner part is pushed down; SQLite's LIKE folds ASCII case only, so
// text search stays in TaskFilter.Matches.
type FilterMapper struct{}

// ToDatabase converts a domain TaskFilter to sqlite.SearchOptions.
func (m *FilterMapper) ToDatabase(filter TaskFilter) sqlite.SearchOptions {
	return sqlite.SearchOptions{Owners: filter.Owners}
}

// Mapper provides a unified interface for all mapping operations.
type Mapper struct {
	Task   *TaskMapper
	Filter *FilterMapper
}

// NewMapper creates a new Mapper instance with all sub-mappers.
func NewMapper() *Mapper {
	return &Mapper{
		Task:   NewTaskMapper(),
		Filter: &FilterMapper{},
	}
}
