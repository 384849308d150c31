package cli

import (
	"context"
	"fmt"
	"io"

	"task-dashboard/internal/api"
	"task-dashboard/internal/errors"
	"task-dashboard/internal/services"
)

// SettingsCommand handles the settings and owners commands
type SettingsCommand struct {
	api    api.BusinessAPI
	out    io.Writer
	errors *ErrorHandler
}

// NewSettingsCommand creates a new settings command handler
func NewSettingsCommand(app *App, out io.Writer) *SettingsCommand {
	return &SettingsCommand{api: app.api, out: out, errors: app.errors}
}

// SettingsUpdate carries the settings flags; nil fields are left alone.
type SettingsUpdate struct {
	Sender   *string
	Receiver *string
	Password *string
}

// Show prints the email configuration without the password.
func (c *SettingsCommand) Show(ctx context.Context) error {
	view, err := c.api.GetSettings(ctx)
	if err != nil {
		return c.errors.Handle("read settings", err)
	}
	return c.print(view)
}

// Update applies every set field of update.
func (c *SettingsCommand) Update(ctx context.Context, update SettingsUpdate) error {
	if update.Sender == nil && update.Receiver == nil && update.Password == nil {
		return c.errors.Handle("update settings", errors.NewInvalidInputError("settings", "", "nothing to update"))
	}

	var view *services.SettingsView
	var err error
	if update.Sender != nil {
		if view, err = c.api.SetSender(ctx, *update.Sender); err != nil {
			return c.errors.Handle("set sender", err)
		}
	}
	if update.Receiver != nil {
		if view, err = c.api.SetReceiver(ctx, *update.Receiver); err != nil {
			return c.errors.Handle("set receiver", err)
		}
	}
	if update.Password != nil {
		if view, err = c.api.SetPassword(ctx, *update.Password); err != nil {
			return c.errors.Handle("set password", err)
		}
	}

	fmt.Fprintln(c.out, "Settings saved")
	return c.print(view)
}

// Test sends the configuration test email.
func (c *SettingsCommand) Test(ctx context.Context) error {
	recipient, err := c.api.SendTestEmail(ctx)
	if err != nil {
		return c.errors.Handle("send test email", err)
	}
	fmt.Fprintf(c.out, "Test email sent to %s\n", recipient)
	return nil
}

// ListOwners prints the owner directory next to the owners found in tasks.
func (c *SettingsCommand) ListOwners(ctx context.Context) error {
	view, err := c.api.GetSettings(ctx)
	if err != nil {
		return c.errors.Handle("list owners", err)
	}
	owners, err := c.api.Owners(ctx)
	if err != nil {
		return c.errors.Handle("list owners", err)
	}

	seen := map[string]bool{}
	var names []string
	for _, owner := range owners {
		seen[owner] = true
		names = append(names, owner)
	}
	for _, owner := range view.OwnerEmails.Owners() {
		if !seen[owner] {
			names = append(names, owner)
		}
	}
	if len(names) == 0 {
		fmt.Fprintln(c.out, "No owners found")
		return nil
	}

	tw := newTable(c.out)
	fmt.Fprintln(tw, "OWNER\tEMAIL")
	for _, owner := range names {
		email := view.OwnerEmails.Lookup(owner)
		if email == "" {
			email = "(receiver) " + orDash(view.ReceiverEmail)
		}
		fmt.Fprintf(tw, "%s\t%s\n", owner, email)
	}
	return tw.Flush()
}

// SetOwner maps owner to email in the directory.
func (c *SettingsCommand) SetOwner(ctx context.Context, owner, email string) error {
	if _, err := c.api.SetOwnerEmail(ctx, owner, email); err != nil {
		return c.errors.Handle("set owner email", err)
	}
	fmt.Fprintf(c.out, "Reminders for %s go to %s\n", owner, email)
	return nil
}

// UnsetOwner removes owner from the directory.
func (c *SettingsCommand) UnsetOwner(ctx context.Context, owner string) error {
	if _, err := c.api.RemoveOwnerEmail(ctx, owner); err != nil {
		return c.errors.Handle("remove owner email", err)
	}
	fmt.Fprintf(c.out, "Removed the email of %s\n", owner)
	return nil
}

func (c *SettingsCommand) print(view *services.SettingsView) error {
	password := "not set"
	if view.PasswordConfigured {
		password = "set"
	}

	tw := newTable(c.out)
	fmt.Fprintf(tw, "Sender:\t%s\n", orDash(view.SenderEmail))
	fmt.Fprintf(tw, "Receiver:\t%s\n", orDash(view.ReceiverEmail))
	fmt.Fprintf(tw, "Password:\t%s\n", password)
	fmt.Fprintf(tw, "Owner emails:\t%d\n", len(view.OwnerEmails))
	return tw.Flush()
}
