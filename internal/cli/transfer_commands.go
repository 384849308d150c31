package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"task-dashboard/internal/api"
	"task-dashboard/internal/domain"
	"task-dashboard/internal/errors"
	"task-dashboard/internal/repository/csvfile"
)

// Formats understood by import and export.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// formatFor returns format, or the one implied by the file extension.
func formatFor(format, path string) (string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".json":
			format = FormatJSON
		case ".yaml", ".yml":
			format = FormatYAML
		default:
			format = FormatCSV
		}
	}
	switch format {
	case FormatCSV, FormatJSON, FormatYAML:
		return format, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", errors.NewInvalidInputError("format", format, "must be csv, json or yaml")
}

func decodeTasks(r io.Reader, format string) ([]domain.Task, error) {
	var tasks []domain.Task
	var err error
	switch format {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&tasks)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&tasks)
		if err == io.EOF {
			err = nil
		}
	default:
		return csvfile.Read(r)
	}
	if err != nil {
		return nil, errors.NewInvalidInputError("file", format, "could not be parsed: "+err.Error())
	}
	return tasks, nil
}

func encodeTasks(w io.Writer, tasks []domain.Task, format string) error {
	if tasks == nil {
		tasks = []domain.Task{}
	}
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(tasks)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tasks); err != nil {
			return err
		}
		return enc.Close()
	default:
		return csvfile.Write(w, tasks)
	}
}

// ImportCommand handles the import command
type ImportCommand struct {
	api    api.BusinessAPI
	out    io.Writer
	errors *ErrorHandler
}

// NewImportCommand creates a new import command handler
func NewImportCommand(app *App, out io.Writer) *ImportCommand {
	return &ImportCommand{api: app.api, out: out, errors: app.errors}
}

// Execute reads tasks in format from r and adds them, or replaces the
// whole list when replace is set.
func (c *ImportCommand) Execute(ctx context.Context, r io.Reader, format string, replace bool) error {
	tasks, err := decodeTasks(r, format)
	if err != nil {
		return c.errors.Handle("import tasks", err)
	}

	stored, err := c.api.ImportTasks(ctx, tasks, replace)
	if err != nil {
		return c.errors.Handle("import tasks", err)
	}

	verb := "Imported"
	if replace {
		verb = "Replaced the task list with"
	}
	fmt.Fprintf(c.out, "%s %s\n", verb, plural(len(stored), "task"))
	warnSnapshot(c.out, c.api)
	return nil
}

// ExportCommand handles the export command
type ExportCommand struct {
	api    api.BusinessAPI
	errors *ErrorHandler
}

// NewExportCommand creates a new export command handler
func NewExportCommand(app *App) *ExportCommand {
	return &ExportCommand{api: app.api, errors: app.errors}
}

// Execute writes the tasks matching filter to w in format
func (c *ExportCommand) Execute(ctx context.Context, w io.Writer, filter domain.TaskFilter, format string) error {
	tasks, err := c.api.ListTasks(ctx, filter)
	if err != nil {
		return c.errors.Handle("export tasks", err)
	}
	if err := encodeTasks(w, tasks, format); err != nil {
		return c.errors.Handle("export tasks", err)
	}
	return nil
}
