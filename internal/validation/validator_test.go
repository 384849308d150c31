package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"task-dashboard/internal/config"
	"task-dashboard/internal/domain"
)

func TestValidator_IsNonEmptyString(t *testing.T) {
	v := NewValidator()

	assert.False(t, v.IsNonEmptyString(""))
	assert.False(t, v.IsNonEmptyString("   "))
	assert.False(t, v.IsNonEmptyString("\t\n"))
	assert.True(t, v.IsNonEmptyString("  hello  "))
}

func TestValidator_IsValidStringLength(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name     string
		input    string
		min, max int
		expected bool
	}{
		{"within", "hello", 1, 10, true},
		{"too short", "", 1, 10, false},
		{"too long", "hello world", 1, 5, false},
		{"counts runes", "ção", 3, 3, true},
		{"trims first", "  ab  ", 2, 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, v.IsValidStringLength(tt.input, tt.min, tt.max))
		})
	}
}

func TestValidator_ConfiguredNameLength(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Validation.TaskNameMaxLength = 5

	v := NewValidatorWithConfig(cfg)
	assert.True(t, v.IsValidTaskNameLength("abcde"))
	assert.False(t, v.IsValidTaskNameLength("abcdef"))

	assert.True(t, NewValidator().IsValidTaskNameLength(strings.Repeat("a", 255)))
}

func TestValidator_HasNoControlCharacters(t *testing.T) {
	v := NewValidator()

	assert.True(t, v.HasNoControlCharacters("Relatório @ 50% (final)"))
	assert.False(t, v.HasNoControlCharacters("line\nbreak"))
	assert.False(t, v.HasNoControlCharacters("tab\there"))
}

func TestValidator_IsValidEmail(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		input    string
		expected bool
	}{
		{"joao@x.com", true},
		{"  ana.silva+tasks@empresa.com.br ", true},
		{"", false},
		{"joao", false},
		{"joao@", false},
		{"João <joao@x.com>", false},
		{"a@b@c.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, v.IsValidEmail(tt.input))
		})
	}
}

func TestValidator_IsValidDateRange(t *testing.T) {
	v := NewValidator()
	a := domain.MustParseDate("2024-02-01")
	b := domain.MustParseDate("2024-02-10")

	assert.True(t, v.IsValidDateRange(a, b))
	assert.True(t, v.IsValidDateRange(a, a))
	assert.False(t, v.IsValidDateRange(b, a))
}
