package validation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name   string
		errors []FieldError
		want   string
	}{
		{"No errors", []FieldError{}, "validation error"},
		{"Single error", []FieldError{{Field: "name", Message: "is required"}}, "name: is required"},
		{"Multiple errors", []FieldError{
			{Field: "name", Message: "is required"},
			{Field: "end_date", Message: "is before start"},
		}, "multiple validation errors: name: is required; end_date: is before start"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ve := &ValidationError{Errors: tt.errors}
			assert.Equal(t, tt.want, ve.Error())
		})
	}
}

func TestValidationError_OrNil(t *testing.T) {
	ve := NewValidationError()
	assert.NoError(t, ve.OrNil())
	assert.False(t, ve.HasErrors())

	ve.AddRequiredError("name")
	err := ve.OrNil()
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.True(t, IsValidationError(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsValidationError(fmt.Errorf("plain")))
}

func TestValidationError_Helpers(t *testing.T) {
	ve := NewValidationError()
	ve.AddRequiredError("name")
	ve.AddInvalidFormatError("owner_email", "x", "name@example.com")
	ve.AddInvalidLengthError("name", "", 1, 255)
	ve.AddInvalidRangeError("end_date", "2024-01-01", "end date must be on or after the start date")
	ve.AddInvalidCharacterError("owner", "a\tb")

	require.Len(t, ve.Errors, 5)
	assert.Equal(t, ErrorTypeRequired, ve.Errors[0].Type)
	assert.Equal(t, "name is required", ve.Errors[0].Message)
	assert.Equal(t, ErrorTypeInvalidFormat, ve.Errors[1].Type)
	assert.Equal(t, "owner_email has invalid format, expected: name@example.com", ve.Errors[1].Message)
	assert.Equal(t, "name must be between 1 and 255 characters long", ve.Errors[2].Message)
	assert.Equal(t, ErrorTypeInvalidRange, ve.Errors[3].Type)
	assert.Equal(t, ErrorTypeInvalidCharacter, ve.Errors[4].Type)

	assert.Len(t, ve.GetFieldErrors("name"), 2)
	assert.Empty(t, ve.GetFieldErrors("missing"))
}

func TestValidationError_Merge(t *testing.T) {
	inner := NewValidationError()
	inner.AddRequiredError("name")

	outer := NewValidationError()
	outer.Merge("tasks[3].", inner)
	outer.Merge("ignored.", fmt.Errorf("not a validation error"))

	require.Len(t, outer.Errors, 1)
	assert.Equal(t, "tasks[3].name", outer.Errors[0].Field)
	assert.Equal(t, "tasks[3].name is required", outer.Errors[0].Message)
}

func TestValidationError_GetUserFriendlyMessage(t *testing.T) {
	assert.Equal(t, "Input validation failed", NewValidationError().GetUserFriendlyMessage())

	ve := NewValidationError()
	ve.AddRequiredError("name")
	assert.Equal(t, "name is required", ve.GetUserFriendlyMessage())

	ve.AddRequiredError("start_date")
	assert.Equal(t, "Multiple validation errors occurred:\n- name is required\n- start_date is required", ve.GetUserFriendlyMessage())
}
