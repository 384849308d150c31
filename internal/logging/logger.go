// Package logging builds the zerolog logger shared by every component.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DebugEnv forces debug level when set to any non-empty value.
const DebugEnv = "TASKDASH_DEBUG"

const (
	envLocal = "local"
	envDev   = "dev"
)

// Options selects the output format and level.
type Options struct {
	Env     string
	Level   string
	Verbose bool
}

// DebugEnabled returns true if debug mode is enabled via TASKDASH_DEBUG
func DebugEnabled() bool {
	return os.Getenv(DebugEnv) != ""
}

// New returns a logger writing to w. The local env and verbose mode get a
// human readable console writer; everything else logs JSON lines.
func New(w io.Writer, opts Options) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	zerolog.TimestampFieldName = "timestamp"

	if opts.Env == envLocal || opts.Verbose {
		console := zerolog.NewConsoleWriter()
		console.TimeFormat = time.DateTime
		console.Out = w
		w = console
	}

	return zerolog.New(w).
		Level(ResolveLevel(opts)).
		With().
		Timestamp().
		Logger()
}

// ResolveLevel picks the effective level: TASKDASH_DEBUG and verbose mode
// win, then the configured level, then an env based default.
func ResolveLevel(opts Options) zerolog.Level {
	if DebugEnabled() || opts.Verbose {
		return zerolog.DebugLevel
	}
	if opts.Level != "" {
		if lvl, err := zerolog.ParseLevel(strings.ToLower(opts.Level)); err == nil && lvl != zerolog.NoLevel {
			return lvl
		}
	}
	if opts.Env == envDev {
		return zerolog.DebugLevel
	}
	// CLI output goes to the same terminal, keep it quiet by default.
	if opts.Env == envLocal {
		return zerolog.WarnLevel
	}
	return zerolog.InfoLevel
}

// Nop returns a logger that discards everything.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
