package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name     string
		err      *AppError
		wantType ErrorType
		wantCode string
		wantMsg  string
	}{
		{"validation", NewValidationError("invalid task", cause), ErrorTypeValidation, "VALIDATION_FAILED", "invalid task"},
		{"not found", NewNotFoundError("task", "abc"), ErrorTypeNotFound, "NOT_FOUND", "task not found: abc"},
		{"database", NewDatabaseError("insert task", cause), ErrorTypeDatabase, "DATABASE_ERROR", "database operation failed: insert task"},
		{"invalid input", NewInvalidInputError("format", "xml", "unsupported format"), ErrorTypeInvalidInput, "INVALID_INPUT", "invalid input for format: unsupported format"},
		{"timeout", NewTimeoutError("send", "30s"), ErrorTypeTimeout, "TIMEOUT", "operation timed out: send"},
		{"transport", NewTransportError("a@x.com", cause), ErrorTypeTransport, "TRANSPORT_FAILED", "could not deliver email to a@x.com"},
		{"credentials", NewCredentialsError("configure email first", nil), ErrorTypeCredentials, "CREDENTIALS_UNAVAILABLE", "configure email first"},
		{"persistence", NewPersistenceError("/tmp/x.csv", "write", cause), ErrorTypePersistence, "PERSISTENCE_FAILED", "could not write /tmp/x.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.Equal(t, tt.wantCode, tt.err.Code)
			assert.Equal(t, tt.wantMsg, tt.err.Message)
		})
	}
}

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := NewTransportError("joao@x.com", cause)

	assert.Equal(t, "transport: could not deliver email to joao@x.com (caused by: dial tcp: refused)", err.Error())
	assert.ErrorIs(t, err, cause)

	recipient, ok := err.GetContext("recipient")
	require.True(t, ok)
	assert.Equal(t, "joao@x.com", recipient)
}

func TestAppError_Is(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewNotFoundError("task", "1"))

	assert.True(t, errors.Is(err, &AppError{Type: ErrorTypeNotFound, Code: "NOT_FOUND"}))
	assert.False(t, errors.Is(err, &AppError{Type: ErrorTypeDatabase, Code: "DATABASE_ERROR"}))
	assert.True(t, IsErrorType(err, ErrorTypeNotFound))
	assert.True(t, IsAppError(err))
	assert.False(t, IsAppError(errors.New("plain")))
}

func TestErrorType_String(t *testing.T) {
	assert.Equal(t, "credentials", ErrorTypeCredentials.String())
	assert.Equal(t, "persistence", ErrorTypePersistence.String())
	assert.Equal(t, "unknown", ErrorType(999).String())
}

func TestGetUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"plain error", errors.New("plain"), "plain"},
		{"not found", NewNotFoundError("task", "7"), "task not found: 7"},
		{"validation with cause", NewValidationError("invalid task", errors.New("end_date before start_date")), "invalid task: end_date before start_date"},
		{"database hides details", NewDatabaseError("insert", errors.New("disk I/O")), "A database error occurred. Please try again."},
		{"credentials", NewCredentialsError("credentials unavailable", nil), "credentials unavailable"},
		{"transport", NewTransportError("a@x.com", nil), "could not deliver email to a@x.com. Check the email settings and try again."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetUserMessage(tt.err))
		})
	}
}

func TestShouldLogError(t *testing.T) {
	assert.False(t, ShouldLogError(NewValidationError("x", nil)))
	assert.False(t, ShouldLogError(NewNotFoundError("task", "1")))
	assert.True(t, ShouldLogError(NewTransportError("a@x.com", nil)))
	assert.True(t, ShouldLogError(errors.New("unknown")))
	assert.Equal(t, "UNKNOWN_ERROR", GetErrorCode(errors.New("x")))
	assert.Equal(t, "PERSISTENCE_FAILED", GetErrorCode(NewPersistenceError("p", "read", nil)))
}
