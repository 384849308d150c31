package reminder

import (
	"context"
	"sync"
	"time"

	"task-dashboard/internal/domain"
)

// LedgerStore persists last-sent timestamps so a restart on the same day
// does not send again.
type LedgerStore interface {
	LoadSent(ctx context.Context) (map[string]time.Time, error)
	SaveSent(ctx context.Context, taskID string, at time.Time) error
}

// Ledger remembers, per task id, when the last reminder was delivered.
type Ledger struct {
	mu    sync.Mutex
	loc   *time.Location
	sent  map[string]time.Time
	store LedgerStore
}

// NewLedger creates an empty ledger. Calendar days are evaluated in loc.
// store may be nil for a memory-only ledger.
func NewLedger(loc *time.Location, store LedgerStore) *Ledger {
	if loc == nil {
		loc = time.UTC
	}
	return &Ledger{loc: loc, sent: make(map[string]time.Time), store: store}
}

// Load replaces the in-memory state with the store's records.
func (l *Ledger) Load(ctx context.Context) error {
	if l.store == nil {
		return nil
	}
	records, err := l.store.LoadSent(ctx)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sent = make(map[string]time.Time, len(records))
	for id, at := range records {
		l.sent[id] = at
	}
	return nil
}

// IsEligible reports whether taskID may be reminded on today: never sent,
// or last sent on an earlier calendar day.
func (l *Ledger) IsEligible(taskID string, today domain.Date) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	last, ok := l.sent[taskID]
	if !ok {
		return true
	}
	return domain.DateOf(last.In(l.loc)).Before(today)
}

// RecordSent marks a confirmed delivery. The in-memory record is updated
// even when the store write fails; the error is returned for logging.
func (l *Ledger) RecordSent(ctx context.Context, taskID string, at time.Time) error {
	l.mu.Lock()
	l.sent[taskID] = at
	l.mu.Unlock()

	if l.store == nil {
		return nil
	}
	return l.store.SaveSent(ctx, taskID, at)
}

// LastSent returns the last delivery time for taskID.
func (l *Ledger) LastSent(taskID string) (time.Time, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	at, ok := l.sent[taskID]
	return at, ok
}

// Retain drops every record whose task id is not in keep. Used after any
// delete; the store removes its rows together with the tasks.
func (l *Ledger) Retain(keep map[string]bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for id := range l.sent {
		if !keep[id] {
			delete(l.sent, id)
		}
	}
}
