package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// ConfigFileEnv names the variable that points at an optional YAML file.
const ConfigFileEnv = "TASKDASH_CONFIG"

// Loader handles loading configuration from multiple sources
type Loader struct {
	config     *Config
	configFile string
	envFiles   []string
}

// LoaderOption customises a Loader.
type LoaderOption func(*Loader)

// WithConfigFile reads path as YAML instead of the file named by TASKDASH_CONFIG.
func WithConfigFile(path string) LoaderOption {
	return func(l *Loader) {
		l.configFile = path
	}
}

// WithEnvFiles replaces the default ".env" lookup.
func WithEnvFiles(paths ...string) LoaderOption {
	return func(l *Loader) {
		l.envFiles = paths
	}
}

// NewLoader creates a new configuration loader
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		config:   NewConfig(),
		envFiles: []string{".env"},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load loads configuration using the cascading strategy:
// 1. Start with defaults
// 2. Override with the YAML file, if any
// 3. Override with .env files and environment variables
// 4. Override with command line flags (LoadWithOverrides)
func (l *Loader) Load() (*Config, error) {
	// .env values never replace variables already set in the process.
	for _, path := range l.envFiles {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	configFile := l.configFile
	if configFile == "" {
		configFile = os.Getenv(ConfigFileEnv)
	}

	if configFile != "" {
		// ReadConfig parses the file and then applies the environment.
		if err := cleanenv.ReadConfig(configFile, l.config); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	} else if err := cleanenv.ReadEnv(l.config); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := l.config.Validate(); err != nil {
		return nil, err
	}

	return l.config, nil
}

// LoadWithOverrides loads configuration and applies command line overrides
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	config, err := l.Load()
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		overrides.Apply(config)
	}

	// Re-validate after applying overrides
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// ConfigOverrides holds command line flag overrides. Nil fields were not
// set on the command line.
type ConfigOverrides struct {
	// Storage overrides
	Dir          *string
	DBFilename   *string
	QueryTimeout *time.Duration
	WriteTimeout *time.Duration

	// Reminder overrides
	Threshold *string
	Location  *string

	// SMTP overrides
	SMTPHost    *string
	SMTPTimeout *time.Duration

	// HTTP overrides
	HTTPHost *string
	HTTPPort *int

	// Display overrides
	DateFormat *string
	ChartWidth *int

	// Application overrides
	Env      *string
	Timeout  *time.Duration
	Verbose  *bool
	LogLevel *string
}

// Apply copies every set override into config.
func (o *ConfigOverrides) Apply(config *Config) {
	setString(&config.Storage.Dir, o.Dir)
	setString(&config.Storage.DBFilename, o.DBFilename)
	setDuration(&config.Storage.QueryTimeout, o.QueryTimeout)
	setDuration(&config.Storage.WriteTimeout, o.WriteTimeout)

	setString(&config.Reminder.Threshold, o.Threshold)
	setString(&config.Reminder.Location, o.Location)

	setString(&config.SMTP.Host, o.SMTPHost)
	setDuration(&config.SMTP.Timeout, o.SMTPTimeout)

	setString(&config.HTTP.Host, o.HTTPHost)
	if o.HTTPPort != nil {
		config.HTTP.Port = *o.HTTPPort
	}

	setString(&config.Display.DateFormat, o.DateFormat)
	if o.ChartWidth != nil {
		config.Display.ChartWidth = *o.ChartWidth
	}

	setString(&config.Application.Env, o.Env)
	setDuration(&config.Application.Timeout, o.Timeout)
	if o.Verbose != nil {
		config.Application.Verbose = *o.Verbose
	}
	setString(&config.Application.LogLevel, o.LogLevel)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *time.Duration) {
	if v != nil {
		*dst = *v
	}
}
