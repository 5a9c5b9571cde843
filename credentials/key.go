package credentials

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/zalando/go-keyring"
	"golang.org/x/crypto/argon2"
)

// Key sources, tried in order: an explicit hex key, an explicit passphrase,
// then the OS keyring.
const (
	// EnvEncryptionKey supplies the sealing key directly as 64 hex chars.
	// Meant for CI and tests.
	EnvEncryptionKey = "GUESTPULSE_ENCRYPTION_KEY"
	// EnvPassphrase derives the sealing key from a passphrase instead of
	// the keyring. The salt lives next to the secrets file.
	EnvPassphrase = "GUESTPULSE_PASSPHRASE"

	keySize  = 32 // AES-256
	saltFile = "secrets.salt"
	saltSize = 16

	keyringService = "guestpulse-cli"
	keyringAccount = "secrets-key"
)

// Argon2id parameters for the passphrase source.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
)

// ErrKeyringUnavailable means the OS keyring cannot be reached and no
// explicit key source is set.
var ErrKeyringUnavailable = errors.New("system keyring unavailable")

// keyringMu serializes the get-or-create against concurrent stores.
var keyringMu sync.Mutex

// resolveKey returns the AES key sealing the secrets file and the name of
// the source it came from, for display. Explicit material wins over the
// ambient keyring so a set passphrase is never silently ignored.
func resolveKey(secretsDir string) (key []byte, source string, err error) {
	if os.Getenv(EnvEncryptionKey) != "" {
		key, err = envKey()
		return key, "environment (" + EnvEncryptionKey + ")", err
	}
	if os.Getenv(EnvPassphrase) != "" {
		key, err = passphraseKey(secretsDir)
		return key, "passphrase (argon2id)", err
	}
	key, err = keyringKey()
	if err != nil {
		if errors.Is(err, ErrKeyringUnavailable) {
			return nil, "", fmt.Errorf("%w; set %s or %s", err, EnvEncryptionKey, EnvPassphrase)
		}
		return nil, "", err
	}
	return key, keyringName(), nil
}

// envKey decodes the key from GUESTPULSE_ENCRYPTION_KEY.
func envKey() ([]byte, error) {
	key, err := hex.DecodeString(os.Getenv(EnvEncryptionKey))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", EnvEncryptionKey, err)
	}
	if len(key) != keySize {
		return nil, fmt.Errorf("%s must be %d hex-encoded bytes, got %d", EnvEncryptionKey, keySize, len(key))
	}
	return key, nil
}

// passphraseKey derives the key from GUESTPULSE_PASSPHRASE with Argon2id.
// The salt is created on first use and kept beside the secrets file, so the
// same passphrase opens the same store on every run.
func passphraseKey(secretsDir string) ([]byte, error) {
	salt, err := loadOrCreateSalt(secretsDir)
	if err != nil {
		return nil, err
	}
	pass := []byte(os.Getenv(EnvPassphrase))
	return argon2.IDKey(pass, salt, argonTime, argonMemory, argonThreads, keySize), nil
}

// loadOrCreateSalt reads the hex salt file, creating it when absent.
func loadOrCreateSalt(secretsDir string) ([]byte, error) {
	path := filepath.Join(secretsDir, saltFile)

	raw, err := os.ReadFile(path)
	if err == nil {
		salt, decErr := hex.DecodeString(string(raw))
		if decErr != nil || len(salt) != saltSize {
			return nil, fmt.Errorf("corrupt salt file %s, remove it to reset the store", path)
		}
		return salt, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading salt file: %w", err)
	}

	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generating salt: %w", err)
	}
	if err := os.MkdirAll(secretsDir, 0700); err != nil {
		return nil, fmt.Errorf("creating secrets directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(hex.EncodeToString(salt)), 0600); err != nil {
		return nil, fmt.Errorf("writing salt file: %w", err)
	}
	return salt, nil
}

// keyringKey fetches the key from the OS keyring, generating and storing a
// random one on first use. A stored value that does not decode to a valid
// key is replaced.
func keyringKey() ([]byte, error) {
	keyringMu.Lock()
	defer keyringMu.Unlock()

	stored, err := keyring.Get(keyringService, keyringAccount)
	if err == nil {
		if key, decErr := hex.DecodeString(stored); decErr == nil && len(key) == keySize {
			return key, nil
		}
	} else if !errors.Is(err, keyring.ErrNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}

	key := make([]byte, keySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generating key: %w", err)
	}
	if err := keyring.Set(keyringService, keyringAccount, hex.EncodeToString(key)); err != nil {
		return nil, fmt.Errorf("%w: storing key: %v", ErrKeyringUnavailable, err)
	}
	return key, nil
}

// keyringName names the platform keyring for display.
func keyringName() string {
	switch runtime.GOOS {
	case "darwin":
		return "macOS Keychain"
	case "windows":
		return "Windows Credential Manager"
	default:
		return "system keyring"
	}
}
