package reminder

import (
	"context"
	"time"

	"task-dashboard/internal/repository/sqlite"
)

// RepositoryStore keeps ledger records in the reminder_log table.
type RepositoryStore struct {
	repo sqlite.Repository
}

// NewRepositoryStore wraps repo as a LedgerStore.
func NewRepositoryStore(repo sqlite.Repository) *RepositoryStore {
	return &RepositoryStore{repo: repo}
}

// LoadSent implements LedgerStore.
func (s *RepositoryStore) LoadSent(ctx context.Context) (map[string]time.Time, error) {
	records, err := s.repo.ListReminderRecords(ctx)
	if err != nil {
		return nil, err
	}
	sent := make(map[string]time.Time, len(records))
	for _, r := range records {
		sent[r.TaskID] = r.LastSentAt
	}
	return sent, nil
}

// SaveSent implements LedgerStore. Records for tasks that no longer exist
// are dropped by the repository.
func (s *RepositoryStore) SaveSent(ctx context.Context, taskID string, at time.Time) error {
	return s.repo.UpsertReminderRecord(ctx, &sqlite.ReminderRecord{TaskID: taskID, LastSentAt: at})
}
