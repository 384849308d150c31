package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Task is one tracked unit of work. ID is a stable surrogate key assigned
// at creation; Name is a label and may repeat across tasks.
type Task struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	StartDate   Date      `json:"start_date" yaml:"start_date"`
	EndDate     Date      `json:"end_date" yaml:"end_date"`
	Owner       string    `json:"owner" yaml:"owner"`
	OwnerEmail  string    `json:"owner_email,omitempty" yaml:"owner_email,omitempty"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
}

// NewTaskID returns a fresh identifier for a task.
func NewTaskID() string {
	return uuid.NewString()
}

// NewTask creates a task with a new identifier.
func NewTask(name, description string, start, end Date, owner, ownerEmail string) Task {
	return Task{
		ID:          NewTaskID(),
		Name:        name,
		Description: description,
		StartDate:   start,
		EndDate:     end,
		Owner:       owner,
		OwnerEmail:  ownerEmail,
	}
}

// IsValid checks the invariants every stored task must hold.
func (t Task) IsValid() bool {
	return strings.TrimSpace(t.Name) != "" &&
		!t.StartDate.IsZero() && !t.EndDate.IsZero() &&
		!t.EndDate.Before(t.StartDate)
}

// IsActiveOn reports whether day falls inside [StartDate, EndDate].
func (t Task) IsActiveOn(day Date) bool {
	return !day.Before(t.StartDate) && !day.After(t.EndDate)
}

// DaysRemaining counts days from day until the end date (negative when overdue).
func (t Task) DaysRemaining(day Date) int {
	return day.DaysUntil(t.EndDate)
}

// Period classifies the task relative to day: "past", "active" or "upcoming".
func (t Task) Period(day Date) string {
	switch {
	case day.After(t.EndDate):
		return PeriodPast
	case day.Before(t.StartDate):
		return PeriodUpcoming
	default:
		return PeriodActive
	}
}

const (
	PeriodPast     = "past"
	PeriodActive   = "active"
	PeriodUpcoming = "upcoming"
)

func (t Task) String() string {
	return t.Name
}

// TaskFilter narrows a task listing. Owners match any-of; Search matches
// name or description case-insensitively.
type TaskFilter struct {
	Owners []string
	Search string
}

// IsEmpty reports whether the filter matches everything.
func (f TaskFilter) IsEmpty() bool {
	return len(f.Owners) == 0 && strings.TrimSpace(f.Search) == ""
}

// Matches applies the filter to a single task.
func (f TaskFilter) Matches(t Task) bool {
	if len(f.Owners) > 0 {
		found := false
		for _, owner := range f.Owners {
			if owner == t.Owner {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	term := strings.ToLower(strings.TrimSpace(f.Search))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Name), term) ||
		strings.Contains(strings.ToLower(t.Description), term)
}
