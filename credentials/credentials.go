// Package credentials provides secure secret storage for the guestpulse CLI.
// It keeps the SMTP password and the legacy sheet-mirror DSN in
// ~/.guestpulse/secrets.yaml, encrypted at rest with AES-GCM.
//
// The sealing key comes from the first available source: the
// GUESTPULSE_ENCRYPTION_KEY variable (64 hex chars, for CI and tests), a
// GUESTPULSE_PASSPHRASE variable run through Argon2id, or a random key kept
// in the OS keyring.
package credentials

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Secret storage constants.
const (
	DefaultSecretsDir  = ".guestpulse"
	DefaultSecretsFile = "secrets.yaml"

	// EnvSMTPPassword bypasses the store for the SMTP password.
	EnvSMTPPassword = "GUESTPULSE_SMTP_PASSWORD"
	// EnvSheetDSN bypasses the store for the sheet-mirror DSN.
	EnvSheetDSN = "GUESTPULSE_SHEET_DSN"
)

// Common errors.
var (
	// ErrNoSecrets is returned when no secrets are stored.
	ErrNoSecrets = errors.New("no secrets stored")
	// ErrEncryptionFailed is returned when encryption/decryption fails.
	ErrEncryptionFailed = errors.New("encryption failed")
)

// Secrets holds the stored sensitive settings.
type Secrets struct {
	// SMTPPassword is the mailbox password for report delivery (encrypted at rest).
	SMTPPassword string `yaml:"smtp_password,omitempty"`
	// SheetDSN is the connection string for the legacy sheet mirror (encrypted at rest).
	SheetDSN string `yaml:"sheet_dsn,omitempty"`
	// LastUpdated is when the secrets were last written.
	LastUpdated time.Time `yaml:"last_updated"`
}

// Store manages secret storage operations.
type Store struct {
	// secretsDir is the directory containing the secrets file.
	secretsDir string
	// encryptionKey seals the secret fields.
	encryptionKey []byte
	// keySource names where the key came from, for display.
	keySource string
}

// NewStore creates a secret store, resolving the sealing key per the
// package's source order.
func NewStore() (*Store, error) {
	dir, err := SecretsDir()
	if err != nil {
		return nil, fmt.Errorf("getting secrets directory: %w", err)
	}

	key, source, err := resolveKey(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving encryption key: %w", err)
	}

	return &Store{
		secretsDir:    dir,
		encryptionKey: key,
		keySource:     source,
	}, nil
}

// KeySource names where the sealing key came from, for display.
func (s *Store) KeySource() string {
	return s.keySource
}

// SecretsDir returns the secrets directory path.
// Uses $GUESTPULSE_CONFIG_DIR if set, otherwise ~/.guestpulse
func SecretsDir() (string, error) {
	if dir := os.Getenv("GUESTPULSE_CONFIG_DIR"); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}

	return filepath.Join(home, DefaultSecretsDir), nil
}

// SecretsPath returns the full path to the secrets file.
func SecretsPath() (string, error) {
	dir, err := SecretsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultSecretsFile), nil
}

// Save stores secrets to the secrets file, encrypting sensitive fields.
func (s *Store) Save(secrets *Secrets) error {
	if err := s.ensureDir(); err != nil {
		return fmt.Errorf("creating secrets directory: %w", err)
	}

	stored := *secrets
	stored.LastUpdated = time.Now()

	if stored.SMTPPassword != "" {
		encrypted, err := s.encrypt(stored.SMTPPassword)
		if err != nil {
			return fmt.Errorf("encrypting smtp password: %w", err)
		}
		stored.SMTPPassword = encrypted
	}

	if stored.SheetDSN != "" {
		encrypted, err := s.encrypt(stored.SheetDSN)
		if err != nil {
			return fmt.Errorf("encrypting sheet dsn: %w", err)
		}
		stored.SheetDSN = encrypted
	}

	data, err := yaml.Marshal(&stored)
	if err != nil {
		return fmt.Errorf("marshaling secrets: %w", err)
	}

	path := filepath.Join(s.secretsDir, DefaultSecretsFile)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing secrets file: %w", err)
	}

	return nil
}

// Load reads secrets from the secrets file and decrypts sensitive fields.
func (s *Store) Load() (*Secrets, error) {
	path := filepath.Join(s.secretsDir, DefaultSecretsFile)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSecrets
		}
		return nil, fmt.Errorf("reading secrets file: %w", err)
	}

	var secrets Secrets
	if err := yaml.Unmarshal(data, &secrets); err != nil {
		return nil, fmt.Errorf("parsing secrets: %w", err)
	}

	if secrets.SMTPPassword != "" {
		decrypted, err := s.decrypt(secrets.SMTPPassword)
		if err != nil {
			return nil, fmt.Errorf("decrypting smtp password: %w", err)
		}
		secrets.SMTPPassword = decrypted
	}

	if secrets.SheetDSN != "" {
		decrypted, err := s.decrypt(secrets.SheetDSN)
		if err != nil {
			return nil, fmt.Errorf("decrypting sheet dsn: %w", err)
		}
		secrets.SheetDSN = decrypted
	}

	return &secrets, nil
}

// Update loads the current secrets (or starts empty), applies mutate, and
// saves the result.
func (s *Store) Update(mutate func(*Secrets)) error {
	secrets, err := s.Load()
	if err != nil {
		if !errors.Is(err, ErrNoSecrets) {
			return err
		}
		secrets = &Secrets{}
	}
	mutate(secrets)
	return s.Save(secrets)
}

// Delete removes stored secrets.
func (s *Store) Delete() error {
	path := filepath.Join(s.secretsDir, DefaultSecretsFile)

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return nil // Already deleted
		}
		return fmt.Errorf("removing secrets file: %w", err)
	}

	return nil
}

// Exists checks if the secrets file exists.
func (s *Store) Exists() bool {
	path := filepath.Join(s.secretsDir, DefaultSecretsFile)
	_, err := os.Stat(path)
	return err == nil
}

// SMTPPassword resolves the SMTP password: environment variable first, then
// the stored secret. Empty string means no password is configured.
func (s *Store) SMTPPassword() (string, error) {
	if pw := os.Getenv(EnvSMTPPassword); pw != "" {
		return pw, nil
	}
	secrets, err := s.Load()
	if err != nil {
		if errors.Is(err, ErrNoSecrets) {
			return "", nil
		}
		return "", err
	}
	return secrets.SMTPPassword, nil
}

// SheetDSN resolves the sheet-mirror DSN: environment variable first, then
// the stored secret. Empty string means the mirror is not configured here.
func (s *Store) SheetDSN() (string, error) {
	if dsn := os.Getenv(EnvSheetDSN); dsn != "" {
		return dsn, nil
	}
	secrets, err := s.Load()
	if err != nil {
		if errors.Is(err, ErrNoSecrets) {
			return "", nil
		}
		return "", err
	}
	return secrets.SheetDSN, nil
}

// ensureDir creates the secrets directory if it doesn't exist.
func (s *Store) ensureDir() error {
	return os.MkdirAll(s.secretsDir, 0700)
}

// encrypt encrypts a string using AES-GCM.
func (s *Store) encrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(s.encryptionKey)
	if err != nil {
		return "", fmt.Errorf("%w: creating cipher: %v", ErrEncryptionFailed, err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("%w: creating GCM: %v", ErrEncryptionFailed, err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("%w: generating nonce: %v", ErrEncryptionFailed, err)
	}

	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// decrypt decrypts an AES-GCM encrypted string.
func (s *Store) decrypt(ciphertext string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: decoding base64: %v", ErrEncryptionFailed, err)
	}

	block, err := aes.NewCipher(s.encryptionKey)
	if err != nil {
		return "", fmt.Errorf("%w: creating cipher: %v", ErrEncryptionFailed, err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("%w: creating GCM: %v", ErrEncryptionFailed, err)
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return "", fmt.Errorf("%w: ciphertext too short", ErrEncryptionFailed)
	}

	nonce, ciphertextBytes := data[:nonceSize], data[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertextBytes, nil)
	if err != nil {
		return "", fmt.Errorf("%w: decryption failed: %v", ErrEncryptionFailed, err)
	}

	return string(plaintext), nil
}

// MaskSecret returns a masked version of a secret for display.
func MaskSecret(secret string) string {
	if len(secret) <= 8 {
		return strings.Repeat("*", len(secret))
	}
	return secret[:4] + strings.Repeat("*", len(secret)-8) + secret[len(secret)-4:]
}

// MaskDSN masks the password portion of a connection string for display.
// Anything between ":" and "@" in the userinfo part is replaced.
func MaskDSN(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	if at < 0 {
		return MaskSecret(dsn)
	}
	scheme := ""
	rest := dsn
	if i := strings.Index(dsn, "://"); i >= 0 {
		scheme, rest = dsn[:i+3], dsn[i+3:]
		at -= i + 3
	}
	colon := strings.Index(rest[:at], ":")
	if colon < 0 {
		return dsn
	}
	return scheme + rest[:colon+1] + "****" + rest[at:]
}
