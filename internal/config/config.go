package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"task-dashboard/internal/domain"
)

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

// Config holds all configuration options for the task dashboard
type Config struct {
	Storage     StorageConfig     `yaml:"storage"`
	Reminder    ReminderConfig    `yaml:"reminder"`
	SMTP        SMTPConfig        `yaml:"smtp"`
	HTTP        HTTPConfig        `yaml:"http"`
	Display     DisplayConfig     `yaml:"display"`
	Validation  ValidationConfig  `yaml:"validation"`
	Application ApplicationConfig `yaml:"application"`
}

// StorageConfig locates the database, the flat files and the key material
type StorageConfig struct {
	Dir              string        `yaml:"dir" env:"TASKDASH_DIR"`
	DBFilename       string        `yaml:"db_filename" env:"TASKDASH_DB_FILENAME"`
	SnapshotFilename string        `yaml:"snapshot_filename" env:"TASKDASH_SNAPSHOT_FILENAME"`
	SettingsFilename string        `yaml:"settings_filename" env:"TASKDASH_SETTINGS_FILENAME"`
	KeyFilename      string        `yaml:"key_filename" env:"TASKDASH_KEY_FILENAME"`
	SaltFilename     string        `yaml:"salt_filename" env:"TASKDASH_SALT_FILENAME"`
	SecretPassphrase string        `yaml:"-" env:"TASKDASH_SECRET_PASSPHRASE"`
	QueryTimeout     time.Duration `yaml:"query_timeout" env:"TASKDASH_DB_QUERY_TIMEOUT"`
	WriteTimeout     time.Duration `yaml:"write_timeout" env:"TASKDASH_DB_WRITE_TIMEOUT"`
	DirPermissions   uint32        `yaml:"dir_permissions" env:"TASKDASH_DIR_PERMISSIONS"`
}

// ReminderConfig holds the daily gate settings
type ReminderConfig struct {
	Threshold string `yaml:"threshold" env:"TASKDASH_REMINDER_THRESHOLD"`
	Location  string `yaml:"location" env:"TASKDASH_REMINDER_LOCATION"`
}

// SMTPConfig holds the outgoing mail endpoint
type SMTPConfig struct {
	Host         string        `yaml:"host" env:"TASKDASH_SMTP_HOST"`
	StartTLSPort int           `yaml:"starttls_port" env:"TASKDASH_SMTP_STARTTLS_PORT"`
	TLSPort      int           `yaml:"tls_port" env:"TASKDASH_SMTP_TLS_PORT"`
	Timeout      time.Duration `yaml:"timeout" env:"TASKDASH_SMTP_TIMEOUT"`
}

// HTTPConfig holds the serve command listener settings
type HTTPConfig struct {
	Host              string        `yaml:"host" env:"TASKDASH_HTTP_HOST"`
	Port              int           `yaml:"port" env:"TASKDASH_HTTP_PORT"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" env:"TASKDASH_HTTP_READ_HEADER_TIMEOUT"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout" env:"TASKDASH_HTTP_SHUTDOWN_TIMEOUT"`
}

// DisplayConfig holds display formatting configuration
type DisplayConfig struct {
	DateFormat string `yaml:"date_format" env:"TASKDASH_DATE_FORMAT"`
	ChartWidth int    `yaml:"chart_width" env:"TASKDASH_CHART_WIDTH"`
}

// ValidationConfig holds validation rules configuration
type ValidationConfig struct {
	TaskNameMinLength int `yaml:"task_name_min_length" env:"TASKDASH_VALIDATION_TASK_NAME_MIN"`
	TaskNameMaxLength int `yaml:"task_name_max_length" env:"TASKDASH_VALIDATION_TASK_NAME_MAX"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Env      string        `yaml:"env" env:"TASKDASH_ENV"`
	Timeout  time.Duration `yaml:"timeout" env:"TASKDASH_APP_TIMEOUT"`
	Verbose  bool          `yaml:"verbose" env:"TASKDASH_VERBOSE"`
	LogLevel string        `yaml:"log_level" env:"TASKDASH_LOG_LEVEL"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Storage: StorageConfig{
			Dir:              filepath.Join(homeDir, ".taskdash"),
			DBFilename:       "taskdash.db",
			SnapshotFilename: "backup_tarefas.csv",
			SettingsFilename: "email_config.json",
			KeyFilename:      "secret.key",
			SaltFilename:     "secret.salt",
			QueryTimeout:     10 * time.Second,
			WriteTimeout:     5 * time.Second,
			DirPermissions:   0o700,
		},
		Reminder: ReminderConfig{
			Threshold: "07:00",
			Location:  "America/Sao_Paulo",
		},
		SMTP: SMTPConfig{
			Host:         "smtp.gmail.com",
			StartTLSPort: 587,
			TLSPort:      465,
			Timeout:      30 * time.Second,
		},
		HTTP: HTTPConfig{
			Host:              "127.0.0.1",
			Port:              8080,
			ReadHeaderTimeout: 5 * time.Second,
			ShutdownTimeout:   10 * time.Second,
		},
		Display: DisplayConfig{
			DateFormat: "02/01/2006",
			ChartWidth: 60,
		},
		Validation: ValidationConfig{
			TaskNameMinLength: 1,
			TaskNameMaxLength: 255,
		},
		Application: ApplicationConfig{
			Env:      EnvLocal,
			Timeout:  60 * time.Second,
			Verbose:  false,
			LogLevel: "info",
		},
	}
}

// GetDatabasePath returns the full path to the database file
func (c *Config) GetDatabasePath() string {
	return c.storagePath(c.Storage.DBFilename)
}

// GetSnapshotPath returns the full path to the CSV task snapshot
func (c *Config) GetSnapshotPath() string {
	return c.storagePath(c.Storage.SnapshotFilename)
}

// GetSettingsPath returns the full path to the email configuration file
func (c *Config) GetSettingsPath() string {
	return c.storagePath(c.Storage.SettingsFilename)
}

// GetKeyPath returns the full path to the random encryption key
func (c *Config) GetKeyPath() string {
	return c.storagePath(c.Storage.KeyFilename)
}

// GetSaltPath returns the full path to the passphrase salt
func (c *Config) GetSaltPath() string {
	return c.storagePath(c.Storage.SaltFilename)
}

// storagePath keeps absolute filenames and ":memory:" as they are.
func (c *Config) storagePath(name string) string {
	if filepath.IsAbs(name) || strings.HasPrefix(name, ":") {
		return name
	}
	return filepath.Join(c.Storage.Dir, name)
}

// DirMode returns the permissions used for created directories.
func (c *Config) DirMode() os.FileMode {
	return os.FileMode(c.Storage.DirPermissions)
}

// ReminderThreshold parses the daily gate time.
func (c *Config) ReminderThreshold() (domain.TimeOfDay, error) {
	return domain.ParseTimeOfDay(c.Reminder.Threshold)
}

// ReminderLocation loads the fixed location reminders are evaluated in.
func (c *Config) ReminderLocation() (*time.Location, error) {
	return time.LoadLocation(c.Reminder.Location)
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	// Storage
	if c.Storage.Dir == "" {
		return &ConfigError{Field: "storage.dir", Message: "storage directory cannot be empty"}
	}
	if c.Storage.DBFilename == "" {
		return &ConfigError{Field: "storage.db_filename", Message: "database filename cannot be empty"}
	}
	if c.Storage.SnapshotFilename == "" {
		return &ConfigError{Field: "storage.snapshot_filename", Message: "snapshot filename cannot be empty"}
	}
	if c.Storage.SettingsFilename == "" {
		return &ConfigError{Field: "storage.settings_filename", Message: "settings filename cannot be empty"}
	}
	if c.Storage.KeyFilename == "" || c.Storage.SaltFilename == "" {
		return &ConfigError{Field: "storage.key_filename", Message: "key and salt filenames cannot be empty"}
	}
	if c.Storage.QueryTimeout <= 0 {
		return &ConfigError{Field: "storage.query_timeout", Message: "query timeout must be positive"}
	}
	if c.Storage.WriteTimeout <= 0 {
		return &ConfigError{Field: "storage.write_timeout", Message: "write timeout must be positive"}
	}
	if c.Storage.DirPermissions == 0 || c.Storage.DirPermissions > 0o777 {
		return &ConfigError{Field: "storage.dir_permissions", Message: "directory permissions must be between 0001 and 0777"}
	}

	// Reminder
	if _, err := c.ReminderThreshold(); err != nil {
		return &ConfigError{Field: "reminder.threshold", Message: err.Error()}
	}
	if _, err := c.ReminderLocation(); err != nil {
		return &ConfigError{Field: "reminder.location", Message: "unknown location " + c.Reminder.Location}
	}

	// SMTP
	if c.SMTP.Host == "" {
		return &ConfigError{Field: "smtp.host", Message: "SMTP host cannot be empty"}
	}
	if !validPort(c.SMTP.StartTLSPort) || !validPort(c.SMTP.TLSPort) {
		return &ConfigError{Field: "smtp.ports", Message: "SMTP ports must be between 1 and 65535"}
	}
	if c.SMTP.Timeout <= 0 {
		return &ConfigError{Field: "smtp.timeout", Message: "SMTP timeout must be positive"}
	}

	// HTTP
	if !validPort(c.HTTP.Port) {
		return &ConfigError{Field: "http.port", Message: "HTTP port must be between 1 and 65535"}
	}
	if c.HTTP.ShutdownTimeout <= 0 {
		return &ConfigError{Field: "http.shutdown_timeout", Message: "shutdown timeout must be positive"}
	}

	// Display
	if c.Display.DateFormat == "" {
		return &ConfigError{Field: "display.date_format", Message: "date format cannot be empty"}
	}
	if c.Display.ChartWidth < 10 {
		return &ConfigError{Field: "display.chart_width", Message: "chart width must be at least 10"}
	}

	// Validation
	if c.Validation.TaskNameMinLength < 1 {
		return &ConfigError{Field: "validation.task_name_min_length", Message: "task name minimum length must be at least 1"}
	}
	if c.Validation.TaskNameMaxLength < c.Validation.TaskNameMinLength {
		return &ConfigError{Field: "validation.task_name_max_length", Message: "task name maximum length must be greater than minimum length"}
	}

	// Application
	switch c.Application.Env {
	case EnvDev, EnvProd, EnvLocal:
	default:
		return &ConfigError{Field: "application.env", Message: "env must be one of local, dev, prod"}
	}
	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}

	return nil
}

func validPort(p int) bool {
	return p > 0 && p <= 65535
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
