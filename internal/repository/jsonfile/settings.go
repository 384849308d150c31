// Package jsonfile persists the email configuration record.
package jsonfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"task-dashboard/internal/domain"
	apperrors "task-dashboard/internal/errors"
	"task-dashboard/internal/repository/atomicfile"
)

// SettingsStore reads and writes domain.Settings at a fixed path. The file
// holds a sealed password, so it is written owner-only.
type SettingsStore struct {
	path    string
	dirPerm os.FileMode
}

// NewSettingsStore returns a store for path.
func NewSettingsStore(path string, dirPerm os.FileMode) *SettingsStore {
	if dirPerm == 0 {
		dirPerm = 0o700
	}
	return &SettingsStore{path: path, dirPerm: dirPerm}
}

// Path returns the settings file location.
func (s *SettingsStore) Path() string {
	return s.path
}

// Load returns the stored settings, or empty settings when the file does
// not exist yet.
func (s *SettingsStore) Load() (*domain.Settings, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.NewSettings(), nil
	}
	if err != nil {
		return nil, apperrors.NewPersistenceError(s.path, "read", err)
	}

	settings := domain.NewSettings()
	if len(bytes.TrimSpace(data)) == 0 {
		return settings, nil
	}
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, apperrors.NewPersistenceError(s.path, "parse", fmt.Errorf("failed to decode settings: %w", err))
	}
	if settings.OwnerEmails == nil {
		settings.OwnerEmails = domain.OwnerDirectory{}
	}
	return settings, nil
}

// Save rewrites the whole file.
func (s *SettingsStore) Save(settings *domain.Settings) error {
	if settings == nil {
		settings = domain.NewSettings()
	}
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return apperrors.NewPersistenceError(s.path, "encode", err)
	}
	data = append(data, '\n')
	if err := atomicfile.Write(s.path, data, 0o600, s.dirPerm); err != nil {
		return apperrors.NewPersistenceError(s.path, "write", err)
	}
	return nil
}
