// Package secret seals the SMTP app password at rest.
//
// Key material is either derived from a passphrase with Argon2id and a
// persisted salt, or read from a random key file created on first use.
// Either way the same key is recovered after a restart.
package secret

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"

	apperrors "task-dashboard/internal/errors"
)

const (
	// KeySize is the length of a ChaCha20-Poly1305 key.
	KeySize = chacha20poly1305.KeySize
	// SaltSize is the length of the persisted Argon2id salt.
	SaltSize = 16

	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
)

// ErrCredentialsUnavailable is the message for ciphertexts that cannot be opened.
const ErrCredentialsUnavailable = "credentials unavailable, re-enter the password"

// Sealer encrypts and decrypts short secrets.
type Sealer interface {
	Seal(plaintext string) (string, error)
	Open(sealed string) (string, error)
}

// Box seals secrets with XChaCha20-Poly1305. Output is base64 of
// nonce || ciphertext.
type Box struct {
	aead cipher.AEAD
	rand io.Reader
}

// NewBox builds a Box from a KeySize-byte key.
func NewBox(key []byte) (*Box, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	return &Box{aead: aead, rand: rand.Reader}, nil
}

// Seal encrypts plaintext with a fresh random nonce.
func (b *Box) Seal(plaintext string) (string, error) {
	nonce := make([]byte, b.aead.NonceSize(), b.aead.NonceSize()+len(plaintext)+b.aead.Overhead())
	if _, err := io.ReadFull(b.rand, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	out := b.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(out), nil
}

// Open decrypts a value produced by Seal. Any failure, including a key
// change since sealing, is a credentials error.
func (b *Box) Open(sealed string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", apperrors.NewCredentialsError(ErrCredentialsUnavailable, err)
	}
	if len(raw) < b.aead.NonceSize()+b.aead.Overhead() {
		return "", apperrors.NewCredentialsError(ErrCredentialsUnavailable, errors.New("ciphertext too short"))
	}
	nonce, ciphertext := raw[:b.aead.NonceSize()], raw[b.aead.NonceSize():]
	plain, err := b.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", apperrors.NewCredentialsError(ErrCredentialsUnavailable, err)
	}
	return string(plain), nil
}

// DeriveKey stretches a passphrase into a key with Argon2id.
func DeriveKey(passphrase string, salt []byte) []byte {
	return argon2.IDKey([]byte(passphrase), salt, argonTime, argonMemory, argonThreads, KeySize)
}

// Options selects the key source for Open.
type Options struct {
	// Passphrase, when set, is stretched with the salt stored in SaltFile.
	Passphrase string
	SaltFile   string
	// KeyFile holds a random key used when no passphrase is given.
	KeyFile string
	DirPerm os.FileMode
}

// New returns a Box whose key survives restarts.
func New(opts Options) (*Box, error) {
	dirPerm := opts.DirPerm
	if dirPerm == 0 {
		dirPerm = 0o700
	}

	if opts.Passphrase != "" {
		salt, err := loadOrCreate(opts.SaltFile, SaltSize, dirPerm)
		if err != nil {
			return nil, apperrors.NewCredentialsError("could not load key salt", err)
		}
		return NewBox(DeriveKey(opts.Passphrase, salt))
	}

	key, err := loadOrCreate(opts.KeyFile, KeySize, dirPerm)
	if err != nil {
		return nil, apperrors.NewCredentialsError("could not load encryption key", err)
	}
	return NewBox(key)
}

// loadOrCreate returns the size random bytes stored at path, generating
// them with mode 0600 when the file is absent.
func loadOrCreate(path string, size int, dirPerm os.FileMode) ([]byte, error) {
	if path == "" {
		return nil, errors.New("no key path configured")
	}
	data, err := os.ReadFile(path)
	if err == nil {
		if len(data) != size {
			return nil, fmt.Errorf("%s: expected %d bytes, found %d", path, size, len(data))
		}
		return data, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return nil, err
	}
	data = make([]byte, size)
	if _, err := io.ReadFull(rand.Reader, data); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if errors.Is(err, os.ErrExist) {
		// Lost a race with another process; use its key.
		return loadOrCreate(path, size, dirPerm)
	}
	if err != nil {
		return nil, err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return nil, err
	}
	return data, f.Close()
}
