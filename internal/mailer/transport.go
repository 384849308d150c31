// Package mailer renders reminder emails and delivers them over SMTP.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/wneessen/go-mail"

	"task-dashboard/internal/domain"
	apperrors "task-dashboard/internal/errors"
	"task-dashboard/internal/secret"
)

// Sender delivers a rendered message to one recipient. A nil error means
// the message was accepted by the server.
type Sender interface {
	Send(ctx context.Context, msg Message, recipient string) error
}

// Credentials is the SMTP account used as sender.
type Credentials struct {
	Username string
	Password string
}

// CredentialsProvider returns the account to send from. It is consulted on
// every send so settings changes apply without a restart.
type CredentialsProvider interface {
	Credentials(ctx context.Context) (Credentials, error)
}

// Profile is one way of reaching the SMTP host.
type Profile struct {
	Name        string
	Port        int
	ImplicitTLS bool
}

// DefaultProfiles returns the fixed two-step policy: STARTTLS first, then
// implicit TLS.
func DefaultProfiles(startTLSPort, tlsPort int) []Profile {
	return []Profile{
		{Name: "starttls", Port: startTLSPort},
		{Name: "implicit-tls", Port: tlsPort, ImplicitTLS: true},
	}
}

// DialFunc delivers msg through a single profile.
type DialFunc func(ctx context.Context, host string, profile Profile, creds Credentials, timeout time.Duration, msg *mail.Msg) error

// Transport sends through each profile in order and stops at the first
// success.
type Transport struct {
	host        string
	profiles    []Profile
	timeout     time.Duration
	credentials CredentialsProvider
	dial        DialFunc
	logger      zerolog.Logger
}

// TransportOption customises a Transport.
type TransportOption func(*Transport)

// WithProfiles replaces the default STARTTLS/TLS pair.
func WithProfiles(profiles ...Profile) TransportOption {
	return func(t *Transport) {
		t.profiles = profiles
	}
}

// WithDialFunc replaces the network layer.
func WithDialFunc(dial DialFunc) TransportOption {
	return func(t *Transport) {
		t.dial = dial
	}
}

// WithTimeout bounds each connection attempt.
func WithTimeout(d time.Duration) TransportOption {
	return func(t *Transport) {
		t.timeout = d
	}
}

// WithLogger attaches a logger for per-attempt diagnostics.
func WithLogger(logger zerolog.Logger) TransportOption {
	return func(t *Transport) {
		t.logger = logger
	}
}

// NewTransport creates a Transport for host.
func NewTransport(host string, credentials CredentialsProvider, opts ...TransportOption) *Transport {
	t := &Transport{
		host:        host,
		profiles:    DefaultProfiles(587, 465),
		timeout:     30 * time.Second,
		credentials: credentials,
		dial:        DialAndSend,
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Send implements Sender. Missing credentials fail before any connection
// is made; otherwise a transport error is returned only when every profile
// failed.
func (t *Transport) Send(ctx context.Context, msg Message, recipient string) error {
	creds, err := t.credentials.Credentials(ctx)
	if err != nil {
		return err
	}

	m, err := buildMsg(creds.Username, recipient, msg)
	if err != nil {
		return apperrors.NewTransportError(recipient, err)
	}

	var errs []error
	for _, profile := range t.profiles {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		err := t.dial(ctx, t.host, profile, creds, t.timeout, m)
		if err == nil {
			t.logger.Debug().
				Str("recipient", recipient).
				Str("profile", profile.Name).
				Int("port", profile.Port).
				Msg("email delivered")
			return nil
		}
		t.logger.Warn().
			Err(err).
			Str("recipient", recipient).
			Str("profile", profile.Name).
			Int("port", profile.Port).
			Msg("email delivery attempt failed")
		errs = append(errs, fmt.Errorf("%s:%d (%s): %w", t.host, profile.Port, profile.Name, err))
	}
	return apperrors.NewTransportError(recipient, errors.Join(errs...))
}

func buildMsg(from, to string, msg Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", from, err)
	}
	if err := m.To(to); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", to, err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextHTML, msg.HTML)
	return m, nil
}

// DialAndSend is the go-mail backed DialFunc.
func DialAndSend(ctx context.Context, host string, profile Profile, creds Credentials, timeout time.Duration, msg *mail.Msg) error {
	opts := []mail.Option{
		mail.WithPort(profile.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(creds.Username),
		mail.WithPassword(creds.Password),
		mail.WithTimeout(timeout),
	}
	if profile.ImplicitTLS {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	}

	client, err := mail.NewClient(host, opts...)
	if err != nil {
		return err
	}
	return client.DialAndSendWithContext(ctx, msg)
}

// SettingsSource loads the persisted email configuration.
type SettingsSource interface {
	Load() (*domain.Settings, error)
}

// StoredCredentials reads the sender and decrypts the password from the
// settings file on every call.
type StoredCredentials struct {
	source SettingsSource
	sealer secret.Sealer
}

// NewStoredCredentials creates a CredentialsProvider over persisted settings.
func NewStoredCredentials(source SettingsSource, sealer secret.Sealer) *StoredCredentials {
	return &StoredCredentials{source: source, sealer: sealer}
}

// Credentials implements CredentialsProvider.
func (s *StoredCredentials) Credentials(ctx context.Context) (Credentials, error) {
	settings, err := s.source.Load()
	if err != nil {
		return Credentials{}, err
	}
	if !settings.Email.HasCredentials() {
		return Credentials{}, apperrors.NewCredentialsError("configure email first: sender and password are required", nil)
	}
	password, err := s.sealer.Open(settings.Email.PasswordEncrypted)
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{
		Username: strings.TrimSpace(settings.Email.SenderEmail),
		Password: password,
	}, nil
}
