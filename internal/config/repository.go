package config

import (
	"fmt"
	"os"

	"task-dashboard/internal/repository/sqlite"
)

// CreateRepository opens the SQLite store described by config, creating
// the storage directory when needed.
func CreateRepository(config *Config) (sqlite.Repository, error) {
	dbPath := config.GetDatabasePath()
	if dbPath != ":memory:" {
		if err := os.MkdirAll(config.Storage.Dir, config.DirMode()); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
	}

	repo, err := sqlite.New(dbPath, sqlite.WithTimeouts(config.Storage.QueryTimeout, config.Storage.WriteTimeout))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return repo, nil
}

// CreateTestRepository creates an in-memory repository for testing
func CreateTestRepository() (sqlite.Repository, error) {
	repo, err := sqlite.New(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize test database: %w", err)
	}

	return repo, nil
}
