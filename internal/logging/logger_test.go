package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebugEnabled(t *testing.T) {
	t.Setenv(DebugEnv, "")
	assert.False(t, DebugEnabled())

	t.Setenv(DebugEnv, "1")
	assert.True(t, DebugEnabled())
}

func TestResolveLevel(t *testing.T) {
	t.Setenv(DebugEnv, "")

	tests := []struct {
		name string
		opts Options
		want zerolog.Level
	}{
		{"prod default", Options{Env: "prod"}, zerolog.InfoLevel},
		{"dev default", Options{Env: "dev"}, zerolog.DebugLevel},
		{"local default", Options{Env: "local"}, zerolog.WarnLevel},
		{"explicit level", Options{Env: "prod", Level: "ERROR"}, zerolog.ErrorLevel},
		{"invalid level falls back", Options{Env: "prod", Level: "loud"}, zerolog.InfoLevel},
		{"verbose", Options{Env: "prod", Level: "error", Verbose: true}, zerolog.DebugLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveLevel(tt.opts))
		})
	}

	t.Setenv(DebugEnv, "yes")
	assert.Equal(t, zerolog.DebugLevel, ResolveLevel(Options{Env: "prod", Level: "error"}))
}

func TestNewJSONOutput(t *testing.T) {
	t.Setenv(DebugEnv, "")
	var buf bytes.Buffer
	logger := New(&buf, Options{Env: "prod"})

	logger.Debug().Msg("hidden")
	logger.Info().Str("task_id", "abc").Msg("reminder sent")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "reminder sent", entry["message"])
	assert.Equal(t, "abc", entry["task_id"])
	assert.Equal(t, "info", entry["level"])
	assert.Contains(t, entry, "timestamp")
}

func TestNewConsoleOutput(t *testing.T) {
	t.Setenv(DebugEnv, "")
	var buf bytes.Buffer
	logger := New(&buf, Options{Env: "local", Verbose: true})

	logger.Debug().Msg("sweep started")
	assert.Contains(t, buf.String(), "sweep started")
	assert.NotContains(t, buf.String(), `"message"`)
}
