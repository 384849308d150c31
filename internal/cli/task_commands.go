package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"task-dashboard/internal/api"
	"task-dashboard/internal/domain"
	"task-dashboard/internal/errors"
	"task-dashboard/internal/services"
)

// TaskFields holds the task flags as typed on the command line. Nil
// fields were not given.
type TaskFields struct {
	Name        *string
	Description *string
	Start       *string
	End         *string
	Owner       *string
	OwnerEmail  *string
}

// apply copies the given fields onto input, parsing dates with layout.
func (f TaskFields) apply(input *services.TaskInput, layout string) error {
	setIf(&input.Name, f.Name)
	setIf(&input.Description, f.Description)
	setIf(&input.Owner, f.Owner)
	setIf(&input.OwnerEmail, f.OwnerEmail)

	if f.Start != nil {
		d, err := parseDateArg("start_date", *f.Start, layout)
		if err != nil {
			return err
		}
		input.StartDate = d
	}
	if f.End != nil {
		d, err := parseDateArg("end_date", *f.End, layout)
		if err != nil {
			return err
		}
		input.EndDate = d
	}
	return nil
}

func setIf(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// AddCommand handles the add command
type AddCommand struct {
	api    api.BusinessAPI
	out    io.Writer
	layout string
	errors *ErrorHandler
}

// NewAddCommand creates a new add command handler
func NewAddCommand(app *App, out io.Writer) *AddCommand {
	return &AddCommand{api: app.api, out: out, layout: app.cfg.Display.DateFormat, errors: app.errors}
}

// Execute creates a task from fields
func (c *AddCommand) Execute(ctx context.Context, fields TaskFields) error {
	var input services.TaskInput
	if err := fields.apply(&input, c.layout); err != nil {
		return c.errors.Handle("add task", err)
	}

	task, err := c.api.CreateTask(ctx, input)
	if err != nil {
		return c.errors.Handle("add task", err)
	}

	fmt.Fprintf(c.out, "Added task %s (%s)\n", task.Name, task.ID)
	warnSnapshot(c.out, c.api)
	return nil
}

// ListOptions selects which tasks the list command prints.
type ListOptions struct {
	Owners []string
	Search string
	Active bool
	JSON   bool
}

// ListCommand handles the list command
type ListCommand struct {
	api    api.BusinessAPI
	out    io.Writer
	layout string
	errors *ErrorHandler
}

// NewListCommand creates a new list command handler
func NewListCommand(app *App, out io.Writer) *ListCommand {
	return &ListCommand{api: app.api, out: out, layout: app.cfg.Display.DateFormat, errors: app.errors}
}

// Execute prints the tasks matching opts
func (c *ListCommand) Execute(ctx context.Context, opts ListOptions) error {
	var tasks []domain.Task
	var err error
	if opts.Active {
		tasks, err = c.api.ActiveToday(ctx)
		if err == nil {
			tasks = filterTasks(tasks, domain.TaskFilter{Owners: opts.Owners, Search: opts.Search})
		}
	} else {
		tasks, err = c.api.ListTasks(ctx, domain.TaskFilter{Owners: opts.Owners, Search: opts.Search})
	}
	if err != nil {
		return c.errors.Handle("list tasks", err)
	}

	if opts.JSON {
		if tasks == nil {
			tasks = []domain.Task{}
		}
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(tasks)
	}
	return printTasks(c.out, tasks, c.layout)
}

func filterTasks(tasks []domain.Task, filter domain.TaskFilter) []domain.Task {
	if filter.IsEmpty() {
		return tasks
	}
	var out []domain.Task
	for _, t := range tasks {
		if filter.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// ShowCommand prints a single task.
type ShowCommand struct {
	api    api.BusinessAPI
	out    io.Writer
	layout string
	errors *ErrorHandler
}

// NewShowCommand creates a new show command handler
func NewShowCommand(app *App, out io.Writer) *ShowCommand {
	return &ShowCommand{api: app.api, out: out, layout: app.cfg.Display.DateFormat, errors: app.errors}
}

// Execute prints the task with id
func (c *ShowCommand) Execute(ctx context.Context, id string) error {
	task, err := c.api.GetTask(ctx, id)
	if err != nil {
		return c.errors.Handle("show task", err)
	}
	return printTask(c.out, *task, c.layout)
}

// EditCommand handles the edit command
type EditCommand struct {
	api    api.BusinessAPI
	out    io.Writer
	layout string
	errors *ErrorHandler
}

// NewEditCommand creates a new edit command handler
func NewEditCommand(app *App, out io.Writer) *EditCommand {
	return &EditCommand{api: app.api, out: out, layout: app.cfg.Display.DateFormat, errors: app.errors}
}

// Execute changes the given fields of task id and keeps the rest
func (c *EditCommand) Execute(ctx context.Context, id string, fields TaskFields) error {
	current, err := c.api.GetTask(ctx, id)
	if err != nil {
		return c.errors.Handle("edit task", err)
	}

	input := services.TaskInput{
		Name:        current.Name,
		Description: current.Description,
		StartDate:   current.StartDate,
		EndDate:     current.EndDate,
		Owner:       current.Owner,
		OwnerEmail:  current.OwnerEmail,
	}
	if err := fields.apply(&input, c.layout); err != nil {
		return c.errors.Handle("edit task", err)
	}

	task, err := c.api.UpdateTask(ctx, id, input)
	if err != nil {
		return c.errors.Handle("edit task", err)
	}

	fmt.Fprintf(c.out, "Updated task %s (%s)\n", task.Name, task.ID)
	warnSnapshot(c.out, c.api)
	return nil
}

// DeleteCommand handles the delete command
type DeleteCommand struct {
	api    api.BusinessAPI
	out    io.Writer
	errors *ErrorHandler
}

// NewDeleteCommand creates a new delete command handler
func NewDeleteCommand(app *App, out io.Writer) *DeleteCommand {
	return &DeleteCommand{api: app.api, out: out, errors: app.errors}
}

// Execute deletes the task with id, or every task called name when name
// is set.
func (c *DeleteCommand) Execute(ctx context.Context, id, name string) error {
	switch {
	case id != "" && name != "":
		return c.errors.Handle("delete task", errors.NewInvalidInputError("name", name, "give either an id or --name, not both"))
	case id == "" && name == "":
		return c.errors.Handle("delete task", errors.NewInvalidInputError("id", "", "give a task id or --name"))
	case name != "":
		ids, err := c.api.DeleteTasksByName(ctx, name)
		if err != nil {
			return c.errors.Handle("delete task", err)
		}
		fmt.Fprintf(c.out, "Deleted %s named %q\n", plural(len(ids), "task"), name)
	default:
		if err := c.api.DeleteTask(ctx, id); err != nil {
			return c.errors.Handle("delete task", err)
		}
		fmt.Fprintf(c.out, "Deleted task %s\n", id)
	}

	warnSnapshot(c.out, c.api)
	return nil
}

// ClearCommand handles the clear command
type ClearCommand struct {
	api    api.BusinessAPI
	out    io.Writer
	errors *ErrorHandler
}

// NewClearCommand creates a new clear command handler
func NewClearCommand(app *App, out io.Writer) *ClearCommand {
	return &ClearCommand{api: app.api, out: out, errors: app.errors}
}

// Execute removes every task when confirm is set
func (c *ClearCommand) Execute(ctx context.Context, confirm bool) error {
	count, err := c.api.ClearTasks(ctx, confirm)
	if err != nil {
		return c.errors.Handle("clear tasks", err)
	}
	fmt.Fprintf(c.out, "Removed %s\n", plural(count, "task"))
	warnSnapshot(c.out, c.api)
	return nil
}

// warnSnapshot tells the user when the CSV snapshot could not be written.
// The database already holds the change.
func warnSnapshot(w io.Writer, b api.BusinessAPI) {
	if err := b.SnapshotWarning(); err != nil {
		fmt.Fprintf(w, "Warning: %s\n", errors.GetUserMessage(err))
	}
}
