package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"task-dashboard/internal/api"
	"task-dashboard/internal/reminder"
)

// RemindCommand handles the remind subcommands
type RemindCommand struct {
	api    api.BusinessAPI
	out    io.Writer
	layout string
	errors *ErrorHandler
}

// NewRemindCommand creates a new remind command handler
func NewRemindCommand(app *App, out io.Writer) *RemindCommand {
	return &RemindCommand{api: app.api, out: out, layout: app.cfg.Display.DateFormat, errors: app.errors}
}

// Now runs a sweep immediately, ignoring the daily gate.
func (c *RemindCommand) Now(ctx context.Context) error {
	result, err := c.api.SweepNow(ctx)
	if err != nil {
		return c.errors.Handle("send reminders", err)
	}
	return c.printResult(result)
}

// Daily runs the sweep only if today's threshold has passed and no sweep
// ran since.
func (c *RemindCommand) Daily(ctx context.Context) error {
	result, ran, err := c.api.CheckDaily(ctx)
	if err != nil {
		return c.errors.Handle("check daily reminders", err)
	}
	if !ran {
		fmt.Fprintln(c.out, "Daily reminders already sent or not due yet")
		return nil
	}
	return c.printResult(result)
}

// Send emails the reminder for one task regardless of the ledger.
func (c *RemindCommand) Send(ctx context.Context, taskID string) error {
	result, err := c.api.SendReminder(ctx, taskID)
	if err != nil {
		return c.errors.Handle("send reminder", err)
	}
	fmt.Fprintf(c.out, "Reminder for %s sent to %s\n", result.TaskName, result.Recipient)
	return nil
}

// Status prints the gate state and every active task's eligibility.
func (c *RemindCommand) Status(ctx context.Context) error {
	status, err := c.api.ReminderStatus(ctx)
	if err != nil {
		return c.errors.Handle("read reminder status", err)
	}

	tw := newTable(c.out)
	fmt.Fprintf(tw, "Today:\t%s\n", formatDate(status.Today, c.layout))
	fmt.Fprintf(tw, "Threshold:\t%s %s\n", status.Threshold, status.Location)
	fmt.Fprintf(tw, "Last check:\t%s\n", ago(status.LastCheck))
	fmt.Fprintf(tw, "Next run:\t%s\n", humanize.RelTime(status.NextRun, status.Now, "ago", "from now"))
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(status.Active) == 0 {
		fmt.Fprintln(c.out, "No active tasks today")
		return nil
	}

	fmt.Fprintln(c.out)
	tw = newTable(c.out)
	fmt.Fprintln(tw, "TASK\tRECIPIENT\tDAYS LEFT\tDUE\tLAST SENT")
	for _, a := range status.Active {
		due := "no"
		if a.Eligible {
			due = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			a.Task.Name, orDash(a.Recipient), a.DaysRemaining, due, ago(a.LastSent))
	}
	return tw.Flush()
}

func (c *RemindCommand) printResult(result reminder.Result) error {
	for _, d := range result.Decisions {
		line := fmt.Sprintf("%-8s %s", d.Outcome, d.TaskName)
		if d.Recipient != "" {
			line += " -> " + d.Recipient
		}
		if d.Error != "" {
			line += ": " + d.Error
		}
		fmt.Fprintln(c.out, line)
	}
	_, err := fmt.Fprintf(c.out, "Sent %d, errors %d, skipped %d\n", result.Sent, result.Errors, result.Skipped)
	return err
}
