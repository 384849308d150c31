package reminder

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// DailyChecker runs the gated sweep. The coordinator implements it so the
// sweep sees a consistent task list.
type DailyChecker interface {
	CheckDaily(ctx context.Context) (Result, bool, error)
}

// Scheduler wakes at startup and at every following threshold time and
// asks the checker to run the gated sweep.
type Scheduler struct {
	gate    *Gate
	checker DailyChecker
	now     func() time.Time
	after   func(time.Duration) (<-chan time.Time, func() bool)
	logger  zerolog.Logger
}

// NewScheduler creates a Scheduler.
func NewScheduler(gate *Gate, checker DailyChecker, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		gate:    gate,
		checker: checker,
		now:     time.Now,
		after:   afterTimer,
		logger:  logger,
	}
}

func afterTimer(d time.Duration) (<-chan time.Time, func() bool) {
	t := time.NewTimer(d)
	return t.C, t.Stop
}

// NextRun returns when the next automatic sweep will happen.
func (s *Scheduler) NextRun() time.Time {
	return s.gate.NextRun(s.now())
}

// Run blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info().
		Str("threshold", s.gate.Threshold().String()).
		Str("location", s.gate.Location().String()).
		Msg("reminder scheduler started")

	for {
		s.tick(ctx)

		next := s.NextRun()
		wait := next.Sub(s.now())
		// A minimum wait keeps a clock that moves backwards from spinning.
		if wait < time.Second {
			wait = time.Second
		}
		s.logger.Debug().Time("next_run", next).Dur("wait", wait).Msg("scheduler sleeping")

		fired, stop := s.after(wait)
		select {
		case <-ctx.Done():
			stop()
			s.logger.Info().Msg("reminder scheduler stopped")
			return ctx.Err()
		case <-fired:
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	result, ran, err := s.checker.CheckDaily(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("daily reminder check failed")
		return
	}
	if !ran {
		return
	}
	s.logger.Info().
		Int("sent", result.Sent).
		Int("errors", result.Errors).
		Int("skipped", result.Skipped).
		Msg("daily reminders processed")
}
