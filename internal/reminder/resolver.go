// Package reminder decides which active tasks get an email today and
// makes sure each task is reminded at most once per calendar day.
package reminder

import (
	"strings"

	"task-dashboard/internal/domain"
)

// AddressBook holds the fallback recipients used by Resolve.
type AddressBook struct {
	Directory domain.OwnerDirectory
	Default   string
}

// Resolve picks the recipient for task: its own owner_email, then the
// directory entry for its owner, then defaultEmail. An empty result means
// the task has nowhere to go and must be skipped.
func Resolve(task domain.Task, directory domain.OwnerDirectory, defaultEmail string) string {
	if email := strings.TrimSpace(task.OwnerEmail); email != "" {
		return email
	}
	if email := directory.Lookup(task.Owner); email != "" {
		return email
	}
	return strings.TrimSpace(defaultEmail)
}

// Resolve is Resolve with the book's directory and default.
func (b AddressBook) Resolve(task domain.Task) string {
	return Resolve(task, b.Directory, b.Default)
}
