package services

import (
	"context"
	"strings"

	"task-dashboard/internal/domain"
	"task-dashboard/internal/errors"
	"task-dashboard/internal/mailer"
	"task-dashboard/internal/reminder"
	"task-dashboard/internal/secret"
	"task-dashboard/internal/validation"
)

// SettingsRepository loads and saves the email configuration record.
type SettingsRepository interface {
	Load() (*domain.Settings, error)
	Save(settings *domain.Settings) error
}

// TestMessageRenderer builds the configuration test email.
type TestMessageRenderer interface {
	Test(sender string) (mailer.Message, error)
}

// settingsServiceImpl implements the SettingsService interface
type settingsServiceImpl struct {
	store     SettingsRepository
	sealer    secret.Sealer
	sender    mailer.Sender
	renderer  TestMessageRenderer
	validator *validation.SettingsValidator
}

// NewSettingsService creates a new SettingsService instance
func NewSettingsService(store SettingsRepository, sealer secret.Sealer, sender mailer.Sender, renderer TestMessageRenderer) SettingsService {
	return &settingsServiceImpl{
		store:     store,
		sealer:    sealer,
		sender:    sender,
		renderer:  renderer,
		validator: validation.NewSettingsValidator(),
	}
}

func toView(settings *domain.Settings) *SettingsView {
	return &SettingsView{
		SenderEmail:        settings.Email.SenderEmail,
		ReceiverEmail:      settings.Email.ReceiverEmail,
		PasswordConfigured: settings.Email.PasswordEncrypted != "",
		OwnerEmails:        settings.OwnerEmails.Clone(),
	}
}

// GetSettings returns the configuration without the password.
func (s *settingsServiceImpl) GetSettings() (*SettingsView, error) {
	settings, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	return toView(settings), nil
}

// AddressBook returns the owner directory and default receiver used to
// resolve reminder recipients.
func (s *settingsServiceImpl) AddressBook() (reminder.AddressBook, error) {
	settings, err := s.store.Load()
	if err != nil {
		return reminder.AddressBook{}, err
	}
	return reminder.AddressBook{
		Directory: settings.OwnerEmails.Clone(),
		Default:   settings.Email.ReceiverEmail,
	}, nil
}

// SetSender stores the SMTP account address.
func (s *settingsServiceImpl) SetSender(email string) (*SettingsView, error) {
	if err := s.validator.ValidateEmail("sender_email", email); err != nil {
		return nil, errors.NewValidationError("invalid sender", err)
	}
	return s.update(func(settings *domain.Settings) error {
		settings.Email.SenderEmail = strings.TrimSpace(email)
		return nil
	})
}

// SetReceiver stores the default reminder recipient.
func (s *settingsServiceImpl) SetReceiver(email string) (*SettingsView, error) {
	if err := s.validator.ValidateEmail("receiver_email", email); err != nil {
		return nil, errors.NewValidationError("invalid receiver", err)
	}
	return s.update(func(settings *domain.Settings) error {
		settings.Email.ReceiverEmail = strings.TrimSpace(email)
		return nil
	})
}

// SetPassword seals the SMTP app password before it is stored.
func (s *settingsServiceImpl) SetPassword(password string) (*SettingsView, error) {
	if err := s.validator.ValidatePassword(password); err != nil {
		return nil, errors.NewValidationError("invalid password", err)
	}
	sealed, err := s.sealer.Seal(password)
	if err != nil {
		return nil, errors.NewCredentialsError("could not encrypt the password", err)
	}
	return s.update(func(settings *domain.Settings) error {
		settings.Email.PasswordEncrypted = sealed
		return nil
	})
}

// SetOwnerEmail maps owner to email in the directory.
func (s *settingsServiceImpl) SetOwnerEmail(owner, email string) (*SettingsView, error) {
	if err := s.validator.ValidateOwnerEntry(owner, email); err != nil {
		return nil, errors.NewValidationError("invalid owner email", err)
	}
	return s.update(func(settings *domain.Settings) error {
		settings.OwnerEmails[strings.TrimSpace(owner)] = strings.TrimSpace(email)
		return nil
	})
}

// RemoveOwnerEmail deletes owner from the directory.
func (s *settingsServiceImpl) RemoveOwnerEmail(owner string) (*SettingsView, error) {
	owner = strings.TrimSpace(owner)
	return s.update(func(settings *domain.Settings) error {
		if _, ok := settings.OwnerEmails[owner]; !ok {
			return errors.NewNotFoundError("owner", owner)
		}
		delete(settings.OwnerEmails, owner)
		return nil
	})
}

// SendTest mails the test message to the default receiver and returns
// the address used.
func (s *settingsServiceImpl) SendTest(ctx context.Context) (string, error) {
	settings, err := s.store.Load()
	if err != nil {
		return "", err
	}

	receiver := strings.TrimSpace(settings.Email.ReceiverEmail)
	if receiver == "" {
		return "", errors.NewInvalidInputError("receiver_email", "", "configure a receiver first")
	}

	msg, err := s.renderer.Test(settings.Email.SenderEmail)
	if err != nil {
		return "", err
	}
	if err := s.sender.Send(ctx, msg, receiver); err != nil {
		return receiver, err
	}
	return receiver, nil
}

func (s *settingsServiceImpl) update(apply func(*domain.Settings) error) (*SettingsView, error) {
	settings, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	if settings.OwnerEmails == nil {
		settings.OwnerEmails = domain.OwnerDirectory{}
	}
	if err := apply(settings); err != nil {
		return nil, err
	}
	if err := s.store.Save(settings); err != nil {
		return nil, err
	}
	return toView(settings), nil
}
