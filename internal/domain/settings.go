package domain

import (
	"sort"
	"strings"
)

// OwnerDirectory maps an owner name to the address reminders should go to.
type OwnerDirectory map[string]string

// Lookup returns the trimmed address for owner, or "" when absent.
func (d OwnerDirectory) Lookup(owner string) string {
	if d == nil {
		return ""
	}
	return strings.TrimSpace(d[owner])
}

// Owners returns the directory keys in sorted order.
func (d OwnerDirectory) Owners() []string {
	owners := make([]string, 0, len(d))
	for owner := range d {
		owners = append(owners, owner)
	}
	sort.Strings(owners)
	return owners
}

// Clone returns an independent copy.
func (d OwnerDirectory) Clone() OwnerDirectory {
	out := make(OwnerDirectory, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// EmailConfig holds the SMTP sender account and the default receiver.
// The password is only ever stored sealed.
type EmailConfig struct {
	SenderEmail       string `json:"sender_email"`
	PasswordEncrypted string `json:"password_encrypted"`
	ReceiverEmail     string `json:"receiver_email"`
}

// HasCredentials reports whether a sender and a sealed password are present.
func (c EmailConfig) HasCredentials() bool {
	return strings.TrimSpace(c.SenderEmail) != "" && c.PasswordEncrypted != ""
}

// Settings is the persisted email configuration record.
type Settings struct {
	OwnerEmails OwnerDirectory `json:"responsaveis_emails"`
	Email       EmailConfig    `json:"email_config"`
}

// NewSettings returns empty settings with an initialised directory.
func NewSettings() *Settings {
	return &Settings{OwnerEmails: OwnerDirectory{}}
}
