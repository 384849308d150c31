package mailer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-dashboard/internal/domain"
	apperrors "task-dashboard/internal/errors"
	"task-dashboard/internal/secret"
)

type memorySettings struct {
	settings *domain.Settings
	err      error
}

func (m memorySettings) Load() (*domain.Settings, error) {
	return m.settings, m.err
}

func newBox(t *testing.T, seed byte) *secret.Box {
	t.Helper()
	key := make([]byte, secret.KeySize)
	key[0] = seed
	box, err := secret.NewBox(key)
	require.NoError(t, err)
	return box
}

func TestStoredCredentials(t *testing.T) {
	box := newBox(t, 1)
	sealed, err := box.Seal("app-pass")
	require.NoError(t, err)

	settings := domain.NewSettings()
	settings.Email = domain.EmailConfig{SenderEmail: " me@gmail.com ", PasswordEncrypted: sealed}

	creds, err := NewStoredCredentials(memorySettings{settings: settings}, box).Credentials(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Credentials{Username: "me@gmail.com", Password: "app-pass"}, creds)
}

func TestStoredCredentialsMissing(t *testing.T) {
	provider := NewStoredCredentials(memorySettings{settings: domain.NewSettings()}, newBox(t, 1))

	_, err := provider.Credentials(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeCredentials))
	assert.Contains(t, apperrors.GetUserMessage(err), "configure email first")
}

func TestStoredCredentialsUndecryptable(t *testing.T) {
	sealed, err := newBox(t, 1).Seal("app-pass")
	require.NoError(t, err)

	settings := domain.NewSettings()
	settings.Email = domain.EmailConfig{SenderEmail: "me@gmail.com", PasswordEncrypted: sealed}

	// A different key stands in for a rotated or lost key file.
	_, err = NewStoredCredentials(memorySettings{settings: settings}, newBox(t, 2)).Credentials(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeCredentials))
}

func TestStoredCredentialsLoadError(t *testing.T) {
	loadErr := apperrors.NewPersistenceError("email_config.json", "read", nil)
	_, err := NewStoredCredentials(memorySettings{err: loadErr}, newBox(t, 1)).Credentials(context.Background())
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypePersistence))
}
