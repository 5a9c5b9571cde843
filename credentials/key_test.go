package credentials

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEnvKey(t *testing.T) {
	t.Setenv(EnvEncryptionKey, strings.Repeat("0f", 32))

	key, err := envKey()
	if err != nil {
		t.Fatalf("envKey() error = %v", err)
	}
	if len(key) != keySize {
		t.Errorf("key length = %d, want %d", len(key), keySize)
	}
}

func TestEnvKeyErrors(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"not hex", "zz" + strings.Repeat("00", 31)},
		{"too short", strings.Repeat("ab", 16)},
		{"too long", strings.Repeat("ab", 40)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvEncryptionKey, tt.value)
			if _, err := envKey(); err == nil {
				t.Errorf("envKey() accepted %q", tt.value)
			}
		})
	}
}

func TestResolveKeyPrefersEnvKey(t *testing.T) {
	t.Setenv(EnvEncryptionKey, strings.Repeat("1a", 32))
	t.Setenv(EnvPassphrase, "swordfish")

	_, source, err := resolveKey(t.TempDir())
	if err != nil {
		t.Fatalf("resolveKey() error = %v", err)
	}
	if !strings.Contains(source, EnvEncryptionKey) {
		t.Errorf("source = %q, want the env key to win over the passphrase", source)
	}
}

func TestPassphraseKeyIsStable(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvEncryptionKey, "")
	t.Setenv(EnvPassphrase, "correct horse battery staple")

	first, source, err := resolveKey(dir)
	if err != nil {
		t.Fatalf("first resolveKey() error = %v", err)
	}
	if !strings.Contains(source, "passphrase") {
		t.Errorf("source = %q, want passphrase", source)
	}

	// Same dir, same passphrase: the stored salt must yield the same key.
	second, _, err := resolveKey(dir)
	if err != nil {
		t.Fatalf("second resolveKey() error = %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("key changed between runs with the same passphrase and salt")
	}

	// A different store dir means a fresh salt and a different key.
	other, _, err := resolveKey(t.TempDir())
	if err != nil {
		t.Fatalf("resolveKey() in fresh dir error = %v", err)
	}
	if bytes.Equal(first, other) {
		t.Error("different salts produced the same key")
	}
}

func TestPassphraseKeyDiffersByPassphrase(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvEncryptionKey, "")

	t.Setenv(EnvPassphrase, "first")
	a, _, err := resolveKey(dir)
	if err != nil {
		t.Fatal(err)
	}

	t.Setenv(EnvPassphrase, "second")
	b, _, err := resolveKey(dir)
	if err != nil {
		t.Fatal(err)
	}

	if bytes.Equal(a, b) {
		t.Error("different passphrases over the same salt produced the same key")
	}
}

func TestLoadOrCreateSalt(t *testing.T) {
	dir := t.TempDir()

	salt, err := loadOrCreateSalt(dir)
	if err != nil {
		t.Fatalf("loadOrCreateSalt() error = %v", err)
	}
	if len(salt) != saltSize {
		t.Errorf("salt length = %d, want %d", len(salt), saltSize)
	}

	again, err := loadOrCreateSalt(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(salt, again) {
		t.Error("second load returned a different salt")
	}

	if err := os.WriteFile(filepath.Join(dir, saltFile), []byte("not-hex"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := loadOrCreateSalt(dir); err == nil {
		t.Error("corrupt salt file should be an error, not a silent reset")
	}
}

func TestStoreKeySource(t *testing.T) {
	t.Setenv("GUESTPULSE_CONFIG_DIR", t.TempDir())
	t.Setenv(EnvEncryptionKey, strings.Repeat("cd", 32))

	store, err := NewStore()
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if !strings.Contains(store.KeySource(), EnvEncryptionKey) {
		t.Errorf("KeySource() = %q, want the env var named", store.KeySource())
	}
}
