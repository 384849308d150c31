package services

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-dashboard/internal/domain"
	"task-dashboard/internal/errors"
	"task-dashboard/internal/mailer"
	"task-dashboard/internal/reminder"
)

var brt = time.FixedZone("BRT", -3*3600)

type reminderFixture struct {
	service  ReminderService
	tasks    TaskService
	settings SettingsService
	ledger   *reminder.Ledger
	sender   *fakeSender
	metrics  *reminder.Metrics
	registry *prometheus.Registry

	mu  sync.Mutex
	now time.Time
}

func (f *reminderFixture) setNow(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = t
}

func (f *reminderFixture) clock() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func setupReminderService(t *testing.T) *reminderFixture {
	t.Helper()
	repo := setupRepo(t)

	f := &reminderFixture{now: time.Date(2024, 2, 5, 6, 0, 0, 0, brt)}
	f.ledger = reminder.NewLedger(brt, reminder.NewRepositoryStore(repo))
	f.tasks = NewTaskService(repo, WithLedger(f.ledger))

	f.settings, _, _ = setupSettingsService(t)

	f.sender = &fakeSender{}
	f.registry = prometheus.NewRegistry()
	f.metrics = reminder.NewMetrics(f.registry)
	renderer := mailer.NewRenderer("")
	sweeper := reminder.NewSweeper(f.ledger, f.sender, renderer,
		reminder.WithClock(f.clock), reminder.WithMetrics(f.metrics))

	f.service = NewReminderService(ReminderDeps{
		Source:   NewDirectSource(f.tasks, f.settings),
		Sweeper:  sweeper,
		Gate:     reminder.NewGate(domain.TimeOfDay{Hour: 7}, brt),
		Ledger:   f.ledger,
		Sender:   f.sender,
		Renderer: renderer,
		Metrics:  f.metrics,
		Now:      f.clock,
	})
	return f
}

func seedReminderData(t *testing.T, f *reminderFixture) (joao, maria, past *domain.Task) {
	t.Helper()
	ctx := context.Background()

	_, err := f.settings.SetReceiver("fallback@x.com")
	require.NoError(t, err)
	_, err = f.settings.SetOwnerEmail("João", "joao@x.com")
	require.NoError(t, err)

	joao, err = f.tasks.CreateTask(ctx, input("Tarefa 1", "João", "2024-02-01", "2024-02-10"))
	require.NoError(t, err)
	maria, err = f.tasks.CreateTask(ctx, input("Tarefa 2", "Maria", "2024-02-05", "2024-02-15"))
	require.NoError(t, err)
	past, err = f.tasks.CreateTask(ctx, input("Antiga", "João", "2024-01-01", "2024-01-31"))
	require.NoError(t, err)
	return joao, maria, past
}

func recipients(sent []sentMail) []string {
	var out []string
	for _, m := range sent {
		out = append(out, m.Recipient)
	}
	return out
}

func TestReminderService_CheckDailyHonoursGate(t *testing.T) {
	f := setupReminderService(t)
	seedReminderData(t, f)
	ctx := context.Background()

	_, ran, err := f.service.CheckDaily(ctx)
	require.NoError(t, err)
	assert.False(t, ran, "06:00 is before the threshold")
	assert.Empty(t, f.sender.sent)

	f.setNow(time.Date(2024, 2, 5, 7, 0, 0, 0, brt))
	result, ran, err := f.service.CheckDaily(ctx)
	require.NoError(t, err)
	require.True(t, ran)
	assert.Equal(t, 2, result.Sent)
	assert.Equal(t, 0, result.Errors)
	assert.ElementsMatch(t, []string{"joao@x.com", "fallback@x.com"}, recipients(f.sender.sent))
	assert.Equal(t, "Lembrete Diário: Tarefa 1", f.sender.sent[0].Subject)

	f.setNow(time.Date(2024, 2, 5, 18, 0, 0, 0, brt))
	_, ran, err = f.service.CheckDaily(ctx)
	require.NoError(t, err)
	assert.False(t, ran, "gate opens once per day")

	f.setNow(time.Date(2024, 2, 6, 7, 30, 0, 0, brt))
	result, ran, err = f.service.CheckDaily(ctx)
	require.NoError(t, err)
	require.True(t, ran)
	assert.Equal(t, 2, result.Sent)

	expected := `
# HELP taskdash_reminder_sweeps_total Reminder sweeps executed, by trigger
# TYPE taskdash_reminder_sweeps_total counter
taskdash_reminder_sweeps_total{trigger="daily"} 2
`
	assert.NoError(t, testutil.GatherAndCompare(f.registry, strings.NewReader(expected), "taskdash_reminder_sweeps_total"))
}

func TestReminderService_SweepNowHonoursLedger(t *testing.T) {
	f := setupReminderService(t)
	seedReminderData(t, f)
	ctx := context.Background()

	first, err := f.service.SweepNow(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Sent)

	second, err := f.service.SweepNow(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Sent)
	assert.Equal(t, 2, second.Skipped)
	assert.Len(t, f.sender.sent, 2)
}

func TestReminderService_FailedSendStaysEligible(t *testing.T) {
	f := setupReminderService(t)
	joao, _, _ := seedReminderData(t, f)
	ctx := context.Background()
	f.sender.err = errors.NewTransportError("joao@x.com", stderrors.New("both profiles failed"))

	result, err := f.service.SweepNow(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Sent)
	assert.Equal(t, 2, result.Errors)
	assert.True(t, f.ledger.IsEligible(joao.ID, domain.MustParseDate("2024-02-05")))

	f.sender.err = nil
	result, err = f.service.SweepNow(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Sent)
}

func TestReminderService_SendOneBypassesLedger(t *testing.T) {
	f := setupReminderService(t)
	joao, maria, _ := seedReminderData(t, f)
	ctx := context.Background()

	sent, err := f.service.SendOne(ctx, joao.ID)
	require.NoError(t, err)
	assert.Equal(t, "joao@x.com", sent.Recipient)
	require.Len(t, f.sender.sent, 1)
	assert.Equal(t, "Lembrete de Tarefa: Tarefa 1", f.sender.sent[0].Subject)
	assert.True(t, f.ledger.IsEligible(joao.ID, domain.MustParseDate("2024-02-05")), "manual send leaves the ledger alone")

	sent, err = f.service.SendOne(ctx, maria.ID)
	require.NoError(t, err)
	assert.Equal(t, "fallback@x.com", sent.Recipient)

	_, err = f.service.SendOne(ctx, domain.NewTaskID())
	assertErrorType(t, err, errors.ErrorTypeNotFound)

	_, err = f.service.SendOne(ctx, "tarefa-1")
	assertErrorType(t, err, errors.ErrorTypeValidation)
}

func TestReminderService_SendOneWithoutRecipient(t *testing.T) {
	f := setupReminderService(t)
	task, err := f.tasks.CreateTask(context.Background(), input("Solta", "Ninguém", "2024-02-01", "2024-02-10"))
	require.NoError(t, err)

	_, err = f.service.SendOne(context.Background(), task.ID)
	assertErrorType(t, err, errors.ErrorTypeInvalidInput)
	assert.Empty(t, f.sender.sent)
}

func TestReminderService_Status(t *testing.T) {
	f := setupReminderService(t)
	joao, maria, _ := seedReminderData(t, f)
	ctx := context.Background()

	status, err := f.service.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, "07:00", status.Threshold)
	assert.Nil(t, status.LastCheck)
	assert.True(t, time.Date(2024, 2, 5, 7, 0, 0, 0, brt).Equal(status.NextRun))
	assert.Equal(t, "1 hour from now", status.NextRunIn)
	require.Len(t, status.Active, 2, "past tasks are not listed")
	assert.Equal(t, joao.ID, status.Active[0].Task.ID)
	assert.Equal(t, "joao@x.com", status.Active[0].Recipient)
	assert.Equal(t, 5, status.Active[0].DaysRemaining)
	assert.True(t, status.Active[0].Eligible)

	f.setNow(time.Date(2024, 2, 5, 7, 0, 0, 0, brt))
	_, _, err = f.service.CheckDaily(ctx)
	require.NoError(t, err)
	f.setNow(time.Date(2024, 2, 5, 9, 0, 0, 0, brt))

	status, err = f.service.Status(ctx)
	require.NoError(t, err)
	require.NotNil(t, status.LastCheck)
	assert.Equal(t, "2 hours ago", status.LastCheckAgo)
	assert.True(t, time.Date(2024, 2, 6, 7, 0, 0, 0, brt).Equal(status.NextRun))
	for _, entry := range status.Active {
		assert.False(t, entry.Eligible)
		require.NotNil(t, entry.LastSent)
	}
	assert.Equal(t, maria.ID, status.Active[1].Task.ID)
	assert.Equal(t, "fallback@x.com", status.Active[1].Recipient)
}
