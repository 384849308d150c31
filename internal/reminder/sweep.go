package reminder

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"task-dashboard/internal/domain"
	"task-dashboard/internal/mailer"
)

// MessageRenderer turns a task into the daily reminder email.
type MessageRenderer interface {
	Reminder(task domain.Task, today domain.Date) (mailer.Message, error)
}

// Decision records what the sweep did with one active task.
type Decision struct {
	TaskID    string `json:"task_id"`
	TaskName  string `json:"task_name"`
	Recipient string `json:"recipient,omitempty"`
	Outcome   string `json:"outcome"`
	Error     string `json:"error,omitempty"`
}

// Result summarises a sweep. Tasks outside their date range are not part
// of it at all; Skipped counts active tasks that were not attempted.
type Result struct {
	Sent      int        `json:"sent"`
	Errors    int        `json:"errors"`
	Skipped   int        `json:"skipped"`
	Decisions []Decision `json:"decisions"`
}

// Sweeper sends the daily reminder for every active, eligible task.
type Sweeper struct {
	// mu serialises runs so concurrent sweeps cannot both send to a task.
	mu       sync.Mutex
	ledger   *Ledger
	sender   mailer.Sender
	renderer MessageRenderer
	metrics  *Metrics
	now      func() time.Time
	logger   zerolog.Logger
}

// SweeperOption customises a Sweeper.
type SweeperOption func(*Sweeper)

// WithClock replaces time.Now for the recorded send time.
func WithClock(now func() time.Time) SweeperOption {
	return func(s *Sweeper) {
		s.now = now
	}
}

// WithMetrics attaches prometheus counters.
func WithMetrics(m *Metrics) SweeperOption {
	return func(s *Sweeper) {
		s.metrics = m
	}
}

// WithLogger attaches a logger.
func WithLogger(logger zerolog.Logger) SweeperOption {
	return func(s *Sweeper) {
		s.logger = logger
	}
}

// NewSweeper creates a Sweeper.
func NewSweeper(ledger *Ledger, sender mailer.Sender, renderer MessageRenderer, opts ...SweeperOption) *Sweeper {
	s := &Sweeper{
		ledger:   ledger,
		sender:   sender,
		renderer: renderer,
		now:      time.Now,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run walks tasks once. Failures are counted per task and never stop the
// sweep; a failed task stays eligible for the next sweep.
func (s *Sweeper) Run(ctx context.Context, tasks []domain.Task, book AddressBook, today domain.Date) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := Result{Decisions: []Decision{}}

	for _, task := range tasks {
		if !task.IsActiveOn(today) {
			continue
		}

		decision := Decision{TaskID: task.ID, TaskName: task.Name}
		log := s.logger.With().Str("task_id", task.ID).Str("task", task.Name).Logger()

		if !s.ledger.IsEligible(task.ID, today) {
			decision.Outcome = OutcomeIneligible
			result.Skipped++
			s.finish(&result, decision)
			log.Debug().Msg("reminder already sent today")
			continue
		}

		recipient := book.Resolve(task)
		decision.Recipient = recipient
		if recipient == "" {
			decision.Outcome = OutcomeNoRecipient
			result.Skipped++
			s.finish(&result, decision)
			log.Debug().Msg("no recipient for task")
			continue
		}

		if err := s.deliver(ctx, task, recipient, today); err != nil {
			decision.Outcome = OutcomeFailed
			decision.Error = err.Error()
			result.Errors++
			s.finish(&result, decision)
			log.Warn().Err(err).Str("recipient", recipient).Msg("reminder failed")
			continue
		}

		if err := s.ledger.RecordSent(ctx, task.ID, s.now()); err != nil {
			log.Error().Err(err).Msg("could not persist reminder record")
		}
		decision.Outcome = OutcomeSent
		result.Sent++
		s.finish(&result, decision)
		log.Info().Str("recipient", recipient).Msg("reminder sent")
	}

	return result
}

func (s *Sweeper) deliver(ctx context.Context, task domain.Task, recipient string, today domain.Date) error {
	msg, err := s.renderer.Reminder(task, today)
	if err != nil {
		return err
	}
	return s.sender.Send(ctx, msg, recipient)
}

func (s *Sweeper) finish(result *Result, decision Decision) {
	result.Decisions = append(result.Decisions, decision)
	s.metrics.observe(decision.Outcome)
}
