package reminder

import (
	"sync"
	"time"

	"task-dashboard/internal/domain"
)

// ShouldRunSweep reports whether the daily sweep is due: the wall clock of
// now has reached threshold and no sweep ran earlier on now's calendar day.
// lastCheck and now must be in the same location.
func ShouldRunSweep(lastCheck *time.Time, now time.Time, threshold domain.TimeOfDay) bool {
	if !threshold.Reached(now) {
		return false
	}
	if lastCheck == nil {
		return true
	}
	return domain.DateOf(*lastCheck).Before(domain.DateOf(now))
}

// Gate lets the automatic sweep through at most once per calendar day.
// Its state lives only as long as the process.
type Gate struct {
	mu        sync.Mutex
	threshold domain.TimeOfDay
	loc       *time.Location
	lastCheck *time.Time
}

// NewGate creates a gate that opens at threshold in loc.
func NewGate(threshold domain.TimeOfDay, loc *time.Location) *Gate {
	if loc == nil {
		loc = time.UTC
	}
	return &Gate{threshold: threshold, loc: loc}
}

// TryEnter returns true when the sweep is due and records now as the last
// check before returning, so a failed sweep is not retried the same day.
func (g *Gate) TryEnter(now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now = now.In(g.loc)
	if !ShouldRunSweep(g.lastCheck, now, g.threshold) {
		return false
	}
	g.lastCheck = &now
	return true
}

// LastCheck returns when the gate last opened.
func (g *Gate) LastCheck() (time.Time, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.lastCheck == nil {
		return time.Time{}, false
	}
	return *g.lastCheck, true
}

// NextRun returns the earliest instant at or after now when TryEnter
// would succeed.
func (g *Gate) NextRun(now time.Time) time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()

	now = now.In(g.loc)
	today := domain.DateOf(now)
	if g.lastCheck != nil && !domain.DateOf(*g.lastCheck).Before(today) {
		return g.threshold.On(today.AddDays(1), g.loc)
	}
	if at := g.threshold.On(today, g.loc); now.Before(at) {
		return at
	}
	return now
}

// Threshold returns the configured opening time.
func (g *Gate) Threshold() domain.TimeOfDay {
	return g.threshold
}

// Location returns the location calendar days are evaluated in.
func (g *Gate) Location() *time.Location {
	return g.loc
}
