package jsonfile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-dashboard/internal/domain"
	apperrors "task-dashboard/internal/errors"
)

func TestLoadMissingFile(t *testing.T) {
	store := NewSettingsStore(filepath.Join(t.TempDir(), "email_config.json"), 0)

	settings, err := store.Load()
	require.NoError(t, err)
	assert.NotNil(t, settings.OwnerEmails)
	assert.Empty(t, settings.Email.SenderEmail)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "email_config.json")
	store := NewSettingsStore(path, 0)

	settings := domain.NewSettings()
	settings.OwnerEmails["João"] = "joao@x.com"
	settings.Email = domain.EmailConfig{
		SenderEmail:       "me@gmail.com",
		PasswordEncrypted: "sealed",
		ReceiverEmail:     "fallback@x.com",
	}
	require.NoError(t, store.Save(settings))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var generic map[string]map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))
	assert.Equal(t, "joao@x.com", generic["responsaveis_emails"]["João"])
	assert.Equal(t, "me@gmail.com", generic["email_config"]["sender_email"])
	assert.Equal(t, "sealed", generic["email_config"]["password_encrypted"])
	assert.Equal(t, "fallback@x.com", generic["email_config"]["receiver_email"])

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, settings, loaded)
}

func TestLoadLegacyFileWithoutDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "email_config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"email_config": {"sender_email": "a@b.com"}}`), 0o600))

	settings, err := NewSettingsStore(path, 0).Load()
	require.NoError(t, err)
	assert.NotNil(t, settings.OwnerEmails)
	assert.Equal(t, "a@b.com", settings.Email.SenderEmail)
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "email_config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o600))

	_, err := NewSettingsStore(path, 0).Load()
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypePersistence))
}
