package reminder

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-dashboard/internal/domain"
	"task-dashboard/internal/repository/sqlite"
)

func TestRepositoryStoreSurvivesRestart(t *testing.T) {
	repo, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	ctx := context.Background()
	store := NewRepositoryStore(repo)

	day := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.CreateTask(ctx, &sqlite.Task{ID: "k", Name: "Kept", StartDate: day, EndDate: day.AddDate(0, 0, 10)}))
	require.NoError(t, repo.CreateTask(ctx, &sqlite.Task{ID: "gone", Name: "Gone", StartDate: day, EndDate: day.AddDate(0, 0, 10)}))

	ledger := NewLedger(saoPaulo, store)
	require.NoError(t, ledger.RecordSent(ctx, "k", at(5, 7, 0)))
	// Deleted while its reminder was being sent.
	require.NoError(t, repo.DeleteTask(ctx, "gone"))
	require.NoError(t, ledger.RecordSent(ctx, "gone", at(5, 7, 1)))

	reloaded := NewLedger(saoPaulo, store)
	require.NoError(t, reloaded.Load(ctx))

	last, ok := reloaded.LastSent("k")
	require.True(t, ok)
	assert.True(t, at(5, 7, 0).Equal(last))
	assert.False(t, reloaded.IsEligible("k", domain.MustParseDate("2024-02-05")))
	assert.True(t, reloaded.IsEligible("k", domain.MustParseDate("2024-02-06")))

	_, ok = reloaded.LastSent("gone")
	assert.False(t, ok)
}
