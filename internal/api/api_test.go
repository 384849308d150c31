package api

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-dashboard/internal/config"
	"task-dashboard/internal/domain"
	"task-dashboard/internal/logging"
	"task-dashboard/internal/mailer"
	"task-dashboard/internal/services"
)

type sentMail struct {
	Recipient string
	Subject   string
}

type fakeSender struct {
	mu   sync.Mutex
	err  error
	sent []sentMail
}

func (f *fakeSender) Send(ctx context.Context, msg mailer.Message, recipient string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{Recipient: recipient, Subject: msg.Subject})
	return nil
}

func (f *fakeSender) recipients() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, m := range f.sent {
		out = append(out, m.Recipient)
	}
	return out
}

var saoPaulo = time.FixedZone("BRT", -3*3600)

func taskInput(name, owner, start, end string) services.TaskInput {
	return services.TaskInput{
		Name:      name,
		StartDate: domain.MustParseDate(start),
		EndDate:   domain.MustParseDate(end),
		Owner:     owner,
	}
}

func testConfig(t *testing.T, dir string) *config.Config {
	t.Helper()
	cfg := config.NewConfig()
	cfg.Storage.Dir = dir
	cfg.Storage.DBFilename = ":memory:"
	cfg.Reminder.Location = "America/Sao_Paulo"
	require.NoError(t, cfg.Validate())
	return cfg
}

type testEnv struct {
	api      BusinessAPI
	sender   *fakeSender
	registry *prometheus.Registry
	dir      string

	mu  sync.Mutex
	now time.Time
}

func (e *testEnv) clock() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.now
}

func (e *testEnv) setNow(t time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.now = t
}

func newTestEnv(t *testing.T, dir string) *testEnv {
	t.Helper()
	env := &testEnv{
		sender:   &fakeSender{},
		registry: prometheus.NewRegistry(),
		dir:      dir,
		now:      time.Date(2024, 2, 5, 6, 0, 0, 0, saoPaulo),
	}
	api, err := New(testConfig(t, dir), logging.Nop(),
		WithSender(env.sender),
		WithClock(env.clock),
		WithRegisterer(env.registry),
	)
	require.NoError(t, err)
	t.Cleanup(func() { api.Close() })
	env.api = api
	return env
}

func TestNew_CreatesKeyAndSettingsOnDemand(t *testing.T) {
	dir := t.TempDir()
	env := newTestEnv(t, dir)

	_, err := os.Stat(filepath.Join(dir, "secret.key"))
	require.NoError(t, err, "key is created on first start")

	view, err := env.api.SetPassword(context.Background(), "app-password")
	require.NoError(t, err)
	assert.True(t, view.PasswordConfigured)

	raw, err := os.ReadFile(filepath.Join(dir, "email_config.json"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "app-password")
}

func TestNew_RestoresTasksFromSnapshot(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first := newTestEnv(t, dir)
	_, err := first.api.CreateTask(ctx, taskInput("Relatório", "João", "2024-02-01", "2024-02-10"))
	require.NoError(t, err)
	_, err = first.api.CreateTask(ctx, taskInput("Revisão", "Maria", "2024-02-05", "2024-02-15"))
	require.NoError(t, err)
	require.NoError(t, first.api.SnapshotWarning())
	require.NoError(t, first.api.Close())

	// The database is in memory, so only the CSV snapshot survives.
	second := newTestEnv(t, dir)
	tasks, err := second.api.ListTasks(ctx, domain.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	names := []string{tasks[0].Name, tasks[1].Name}
	assert.ElementsMatch(t, []string{"Relatório", "Revisão"}, names)
}

func TestNew_IgnoresCorruptSnapshot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "backup_tarefas.csv"), []byte("not,a,snapshot\n"), 0o600))

	env := newTestEnv(t, dir)
	tasks, err := env.api.ListTasks(context.Background(), domain.TaskFilter{})
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestNew_RejectsBadReminderSettings(t *testing.T) {
	cfg := testConfig(t, t.TempDir())
	cfg.Reminder.Threshold = "7h"

	_, err := New(cfg, logging.Nop(), WithSender(&fakeSender{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reminder threshold")
}

func TestNew_RegistersMetrics(t *testing.T) {
	env := newTestEnv(t, t.TempDir())

	_, err := env.api.SweepNow(context.Background())
	require.NoError(t, err)

	expected := `
# HELP taskdash_reminder_sweeps_total Reminder sweeps executed, by trigger
# TYPE taskdash_reminder_sweeps_total counter
taskdash_reminder_sweeps_total{trigger="manual"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(env.registry, strings.NewReader(expected), "taskdash_reminder_sweeps_total"))
}
