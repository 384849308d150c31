package validation

import (
	"strings"
	"unicode"
	"unicode/utf8"

	playground "github.com/go-playground/validator/v10"

	"task-dashboard/internal/config"
	"task-dashboard/internal/domain"
)

// Validator provides common validation utilities
type Validator struct {
	config *config.Config
	rules  *playground.Validate
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		rules: playground.New(),
	}
}

// NewValidatorWithConfig creates a new validator instance with configuration
func NewValidatorWithConfig(cfg *config.Config) *Validator {
	v := NewValidator()
	v.config = cfg
	return v
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsValidStringLength checks the trimmed length in characters, not bytes.
func (v *Validator) IsValidStringLength(s string, min, max int) bool {
	length := utf8.RuneCountInString(strings.TrimSpace(s))
	return length >= min && length <= max
}

// IsValidTaskNameLength checks if a task name length is within configured limits
func (v *Validator) IsValidTaskNameLength(name string) bool {
	return v.IsValidStringLength(name, v.getTaskNameMinLength(), v.getTaskNameMaxLength())
}

// HasNoControlCharacters rejects newlines, tabs and other control runes.
// Accented letters and symbols are fine.
func (v *Validator) HasNoControlCharacters(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}

// IsValidEmail checks a single bare address such as "ana@example.com".
func (v *Validator) IsValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	return v.rules.Var(email, "email") == nil
}

// IsValidDateRange checks that end is not before start.
func (v *Validator) IsValidDateRange(start, end domain.Date) bool {
	return !end.Before(start)
}

// TrimAndValidateString trims whitespace and returns the cleaned string
func (v *Validator) TrimAndValidateString(s string) string {
	return strings.TrimSpace(s)
}

func (v *Validator) getTaskNameMinLength() int {
	if v.config != nil {
		return v.config.Validation.TaskNameMinLength
	}
	return 1
}

func (v *Validator) getTaskNameMaxLength() int {
	if v.config != nil {
		return v.config.Validation.TaskNameMaxLength
	}
	return 255
}
