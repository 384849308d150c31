package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "task-dashboard/internal/errors"
)

func setupTestDB(t *testing.T) *SQLiteRepository {
	t.Helper()
	tick := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	repo, err := New(":memory:", WithClock(func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTask(id, name, owner string, start, end time.Time) *Task {
	return &Task{
		ID:          id,
		Name:        name,
		Description: name + " description",
		StartDate:   start,
		EndDate:     end,
		Owner:       owner,
		OwnerEmail:  owner + "@example.com",
	}
}

func TestCreateAndGetTask(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	task := newTask("a", "Relatório", "ana", day(2024, 3, 1), day(2024, 3, 10))
	require.NoError(t, repo.CreateTask(ctx, task))
	assert.False(t, task.CreatedAt.IsZero())

	got, err := repo.GetTask(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Relatório", got.Name)
	assert.Equal(t, "Relatório description", got.Description)
	assert.Equal(t, day(2024, 3, 1), got.StartDate)
	assert.Equal(t, day(2024, 3, 10), got.EndDate)
	assert.Equal(t, "ana", got.Owner)
	assert.Equal(t, "ana@example.com", got.OwnerEmail)
	assert.Equal(t, task.CreatedAt.Unix(), got.CreatedAt.Unix())
}

func TestGetTaskNotFound(t *testing.T) {
	repo := setupTestDB(t)

	_, err := repo.GetTask(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
}

func TestCreateTaskDuplicateID(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateTask(ctx, newTask("a", "One", "ana", day(2024, 1, 1), day(2024, 1, 2))))
	err := repo.CreateTask(ctx, newTask("a", "Two", "ana", day(2024, 1, 1), day(2024, 1, 2)))
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeDatabase))
}

func TestListTasksKeepsInsertionOrder(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	empty, err := repo.ListTasks(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, repo.CreateTask(ctx, newTask(id, "Task "+id, "ana", day(2024, 1, 1), day(2024, 1, 5))))
	}

	tasks, err := repo.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "c", tasks[0].ID)
	assert.Equal(t, "a", tasks[1].ID)
	assert.Equal(t, "b", tasks[2].ID)

	n, err := repo.CountTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestSearchTasks(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateTask(ctx, newTask("1", "Deploy", "ana", day(2024, 5, 1), day(2024, 5, 3))))
	require.NoError(t, repo.CreateTask(ctx, newTask("2", "Review", "bruno", day(2024, 5, 2), day(2024, 5, 2))))
	require.NoError(t, repo.CreateTask(ctx, newTask("3", "Deploy", "carla", day(2024, 6, 1), day(2024, 6, 9))))

	name := "Deploy"
	onDay := day(2024, 5, 2)
	tests := []struct {
		name string
		opts SearchOptions
		want []string
	}{
		{"no options", SearchOptions{}, []string{"1", "2", "3"}},
		{"single owner", SearchOptions{Owners: []string{"bruno"}}, []string{"2"}},
		{"several owners", SearchOptions{Owners: []string{"ana", "carla"}}, []string{"1", "3"}},
		{"by name", SearchOptions{Name: &name}, []string{"1", "3"}},
		{"active on day", SearchOptions{ActiveOn: &onDay}, []string{"1", "2"}},
		{"combined", SearchOptions{Owners: []string{"ana"}, ActiveOn: &onDay}, []string{"1"}},
		{"unknown owner", SearchOptions{Owners: []string{"zé"}}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, err := repo.SearchTasks(ctx, tt.opts)
			require.NoError(t, err)
			ids := []string{}
			for _, task := range tasks {
				ids = append(ids, task.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestSearchTasksActiveOnBoundaries(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	require.NoError(t, repo.CreateTask(ctx, newTask("1", "Edge", "ana", day(2024, 5, 1), day(2024, 5, 3))))

	for _, d := range []time.Time{day(2024, 5, 1), day(2024, 5, 3)} {
		tasks, err := repo.SearchTasks(ctx, SearchOptions{ActiveOn: &d})
		require.NoError(t, err)
		assert.Len(t, tasks, 1, d.String())
	}
	outside := day(2024, 5, 4)
	tasks, err := repo.SearchTasks(ctx, SearchOptions{ActiveOn: &outside})
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestUpdateTask(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	task := newTask("a", "Draft", "ana", day(2024, 1, 1), day(2024, 1, 2))
	require.NoError(t, repo.CreateTask(ctx, task))

	task.Name = "Final"
	task.EndDate = day(2024, 1, 20)
	task.Owner = "bruno"
	require.NoError(t, repo.UpdateTask(ctx, task))

	got, err := repo.GetTask(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Final", got.Name)
	assert.Equal(t, day(2024, 1, 20), got.EndDate)
	assert.Equal(t, "bruno", got.Owner)

	err = repo.UpdateTask(ctx, newTask("zzz", "x", "y", day(2024, 1, 1), day(2024, 1, 1)))
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
}

func TestDeleteTaskRemovesReminderRecord(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateTask(ctx, newTask("a", "One", "ana", day(2024, 1, 1), day(2024, 1, 2))))
	require.NoError(t, repo.CreateTask(ctx, newTask("b", "Two", "ana", day(2024, 1, 1), day(2024, 1, 2))))
	sent := time.Date(2024, 1, 1, 7, 5, 0, 0, time.UTC)
	require.NoError(t, repo.UpsertReminderRecord(ctx, &ReminderRecord{TaskID: "a", LastSentAt: sent}))
	require.NoError(t, repo.UpsertReminderRecord(ctx, &ReminderRecord{TaskID: "b", LastSentAt: sent}))

	require.NoError(t, repo.DeleteTask(ctx, "a"))

	_, err := repo.GetTask(ctx, "a")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))

	records, err := repo.ListReminderRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "b", records[0].TaskID)

	err = repo.DeleteTask(ctx, "a")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
}

func TestDeleteTasksByName(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateTask(ctx, newTask("1", "Backup", "ana", day(2024, 1, 1), day(2024, 1, 2))))
	require.NoError(t, repo.CreateTask(ctx, newTask("2", "Audit", "ana", day(2024, 1, 1), day(2024, 1, 2))))
	require.NoError(t, repo.CreateTask(ctx, newTask("3", "Backup", "bruno", day(2024, 1, 1), day(2024, 1, 2))))

	ids, err := repo.DeleteTasksByName(ctx, "Backup")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"1", "3"}, ids)

	remaining, err := repo.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "2", remaining[0].ID)

	_, err = repo.DeleteTasksByName(ctx, "Backup")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
}

func TestReplaceTasks(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateTask(ctx, newTask("keep", "Keep", "ana", day(2024, 1, 1), day(2024, 1, 2))))
	require.NoError(t, repo.CreateTask(ctx, newTask("drop", "Drop", "ana", day(2024, 1, 1), day(2024, 1, 2))))
	sent := time.Date(2024, 1, 1, 7, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpsertReminderRecord(ctx, &ReminderRecord{TaskID: "keep", LastSentAt: sent}))
	require.NoError(t, repo.UpsertReminderRecord(ctx, &ReminderRecord{TaskID: "drop", LastSentAt: sent}))

	replacement := []*Task{
		newTask("new", "New", "bruno", day(2024, 2, 1), day(2024, 2, 2)),
		newTask("keep", "Keep edited", "ana", day(2024, 1, 1), day(2024, 1, 3)),
	}
	require.NoError(t, repo.ReplaceTasks(ctx, replacement))

	tasks, err := repo.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	names := []string{tasks[0].Name, tasks[1].Name}
	assert.ElementsMatch(t, []string{"New", "Keep edited"}, names)

	records, err := repo.ListReminderRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "keep", records[0].TaskID)
}

func TestReplaceTasksRollsBackOnFailure(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateTask(ctx, newTask("a", "Original", "ana", day(2024, 1, 1), day(2024, 1, 2))))

	dup := []*Task{
		newTask("x", "One", "ana", day(2024, 1, 1), day(2024, 1, 2)),
		newTask("x", "Two", "ana", day(2024, 1, 1), day(2024, 1, 2)),
	}
	require.Error(t, repo.ReplaceTasks(ctx, dup))

	tasks, err := repo.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Original", tasks[0].Name)
}

func TestDeleteAllTasks(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateTask(ctx, newTask("a", "One", "ana", day(2024, 1, 1), day(2024, 1, 2))))
	require.NoError(t, repo.UpsertReminderRecord(ctx, &ReminderRecord{TaskID: "a", LastSentAt: time.Now()}))

	require.NoError(t, repo.DeleteAllTasks(ctx))

	n, err := repo.CountTasks(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	records, err := repo.ListReminderRecords(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestUpsertReminderRecord(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateTask(ctx, newTask("t", "One", "ana", day(2024, 3, 1), day(2024, 3, 5))))
	first := time.Date(2024, 3, 1, 7, 1, 0, 0, time.UTC)
	second := time.Date(2024, 3, 2, 7, 3, 0, 0, time.UTC)
	require.NoError(t, repo.UpsertReminderRecord(ctx, &ReminderRecord{TaskID: "t", LastSentAt: first}))
	require.NoError(t, repo.UpsertReminderRecord(ctx, &ReminderRecord{TaskID: "t", LastSentAt: second}))

	records, err := repo.ListReminderRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, second.Equal(records[0].LastSentAt))
}

func TestUpsertReminderRecord_SkipsDeletedTask(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateTask(ctx, newTask("gone", "Gone", "ana", day(2024, 3, 1), day(2024, 3, 5))))
	require.NoError(t, repo.DeleteTask(ctx, "gone"))

	// A sweep that copied the task list before the delete still records
	// its send; nothing may be stored for the missing task.
	sent := time.Date(2024, 3, 1, 7, 1, 0, 0, time.UTC)
	require.NoError(t, repo.UpsertReminderRecord(ctx, &ReminderRecord{TaskID: "gone", LastSentAt: sent}))
	require.NoError(t, repo.UpsertReminderRecord(ctx, &ReminderRecord{TaskID: "never-existed", LastSentAt: sent}))

	records, err := repo.ListReminderRecords(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestQueryTimeout(t *testing.T) {
	repo := setupTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.ListTasks(ctx)
	assert.Error(t, err)
}
