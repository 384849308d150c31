package validation

import (
	"fmt"

	"github.com/google/uuid"

	"task-dashboard/internal/config"
	"task-dashboard/internal/domain"
)

// TaskValidator validates tasks on every mutation path: creation, single
// edits and bulk replacement.
type TaskValidator struct {
	validator *Validator
}

// NewTaskValidator creates a new task validator
func NewTaskValidator() *TaskValidator {
	return &TaskValidator{validator: NewValidator()}
}

// NewTaskValidatorWithConfig uses the configured name length limits.
func NewTaskValidatorWithConfig(cfg *config.Config) *TaskValidator {
	return &TaskValidator{validator: NewValidatorWithConfig(cfg)}
}

// ValidateTaskName validates a task name for creation or update
func (tv *TaskValidator) ValidateTaskName(name string) error {
	ve := NewValidationError()
	tv.checkName(ve, name)
	return ve.OrNil()
}

func (tv *TaskValidator) checkName(ve *ValidationError, name string) {
	trimmed := tv.validator.TrimAndValidateString(name)
	if !tv.validator.IsNonEmptyString(trimmed) {
		ve.AddRequiredError("name")
		return
	}
	if !tv.validator.IsValidTaskNameLength(trimmed) {
		ve.AddInvalidLengthError("name", trimmed, tv.validator.getTaskNameMinLength(), tv.validator.getTaskNameMaxLength())
	}
	if !tv.validator.HasNoControlCharacters(trimmed) {
		ve.AddInvalidCharacterError("name", trimmed)
	}
}

// ValidateTask checks name, dates and the optional owner email.
func (tv *TaskValidator) ValidateTask(task domain.Task) error {
	ve := NewValidationError()

	tv.checkName(ve, task.Name)

	if task.StartDate.IsZero() {
		ve.AddRequiredError("start_date")
	}
	if task.EndDate.IsZero() {
		ve.AddRequiredError("end_date")
	}
	if !task.StartDate.IsZero() && !task.EndDate.IsZero() &&
		!tv.validator.IsValidDateRange(task.StartDate, task.EndDate) {
		ve.AddInvalidRangeError("end_date", task.EndDate.String(), "end date must be on or after the start date")
	}

	if !tv.validator.HasNoControlCharacters(task.Owner) {
		ve.AddInvalidCharacterError("owner", task.Owner)
	}
	if email := tv.validator.TrimAndValidateString(task.OwnerEmail); email != "" && !tv.validator.IsValidEmail(email) {
		ve.AddInvalidFormatError("owner_email", email, "name@example.com")
	}

	if task.ID != "" {
		if err := tv.ValidateTaskID(task.ID); err != nil {
			ve.Merge("", err)
		}
	}

	return ve.OrNil()
}

// ValidateTasks validates a whole replacement list; field names carry the
// row index so the offending row can be found.
func (tv *TaskValidator) ValidateTasks(tasks []domain.Task) error {
	ve := NewValidationError()
	seen := make(map[string]int, len(tasks))
	for i, task := range tasks {
		prefix := fmt.Sprintf("tasks[%d].", i)
		if err := tv.ValidateTask(task); err != nil {
			ve.Merge(prefix, err)
		}
		if task.ID == "" {
			continue
		}
		if first, dup := seen[task.ID]; dup {
			ve.AddError(prefix+"id", ErrorTypeInvalidValue, fmt.Sprintf("%sid duplicates tasks[%d]", prefix, first), task.ID)
			continue
		}
		seen[task.ID] = i
	}
	return ve.OrNil()
}

// ValidateTaskID checks that id is a UUID.
func (tv *TaskValidator) ValidateTaskID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		ve := NewValidationError()
		ve.AddInvalidFormatError("id", id, "UUID")
		return ve
	}
	return nil
}

// GetValidTaskName returns a cleaned task name if valid
func (tv *TaskValidator) GetValidTaskName(name string) (string, error) {
	if err := tv.ValidateTaskName(name); err != nil {
		return "", err
	}
	return tv.validator.TrimAndValidateString(name), nil
}
