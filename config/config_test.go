package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/otherjamesbrown/guestpulse/pkg/history"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Timeout, DefaultTimeout)
	}
	if cfg.OutputFormat != OutputFormatText {
		t.Errorf("OutputFormat = %v, want text", cfg.OutputFormat)
	}
	if cfg.History.Driver != history.DriverSQLite {
		t.Errorf("History.Driver = %q, want sqlite", cfg.History.Driver)
	}
	if cfg.History.SQLitePath == "" {
		t.Error("expected a default sqlite path")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestConfigDirEnvOverride(t *testing.T) {
	t.Setenv("GUESTPULSE_CONFIG_DIR", "/tmp/gp-test")

	dir, err := ConfigDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != "/tmp/gp-test" {
		t.Errorf("ConfigDir() = %q", dir)
	}

	path, err := ConfigPath()
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join("/tmp/gp-test", DefaultConfigFile) {
		t.Errorf("ConfigPath() = %q", path)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	content := `
timeout: 2m
output_format: json
lexicon_path: /etc/guestpulse/lexicon.yaml
history:
  driver: postgres
smtp:
  host: mail.hotel.example
  port: 587
  from: reports@hotel.example
  to:
    - gm@hotel.example
    - fo@hotel.example
redis:
  addr: localhost:6379
  db: 2
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatalf("LoadConfigFrom() error = %v", err)
	}

	if cfg.Timeout != 2*time.Minute {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
	if cfg.OutputFormat != OutputFormatJSON {
		t.Errorf("OutputFormat = %v", cfg.OutputFormat)
	}
	if cfg.LexiconPath != "/etc/guestpulse/lexicon.yaml" {
		t.Errorf("LexiconPath = %q", cfg.LexiconPath)
	}
	if cfg.History.Driver != history.DriverPostgres {
		t.Errorf("History.Driver = %q", cfg.History.Driver)
	}
	// Unset file fields keep their defaults.
	if cfg.History.SQLitePath != DefaultSQLitePath {
		t.Errorf("SQLitePath = %q", cfg.History.SQLitePath)
	}
	if !cfg.SMTP.IsConfigured() || len(cfg.SMTP.To) != 2 {
		t.Errorf("SMTP = %+v", cfg.SMTP)
	}
	if !cfg.Redis.IsConfigured() || cfg.Redis.DB != 2 {
		t.Errorf("Redis = %+v", cfg.Redis)
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfigFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error, got %v", err)
	}
	if cfg.History.Driver != history.DriverSQLite {
		t.Errorf("Driver = %q", cfg.History.Driver)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	content := "output_format: json\n"
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("GUESTPULSE_OUTPUT_FORMAT", "csv")
	t.Setenv("GUESTPULSE_SMTP_HOST", "smtp.env.example")
	t.Setenv("GUESTPULSE_SMTP_FROM", "bot@env.example")
	t.Setenv("GUESTPULSE_SMTP_TO", "a@env.example, b@env.example")
	t.Setenv("GUESTPULSE_SHEET_DSN", "postgres://legacy")
	t.Setenv("GUESTPULSE_DEBUG", "1")

	cfg, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.OutputFormat != OutputFormatCSV {
		t.Errorf("OutputFormat = %v, env should win", cfg.OutputFormat)
	}
	if cfg.SMTP.Host != "smtp.env.example" || len(cfg.SMTP.To) != 2 {
		t.Errorf("SMTP = %+v", cfg.SMTP)
	}
	if !cfg.SheetMirror.IsConfigured() {
		t.Error("sheet mirror should be configured from env")
	}
	if !cfg.Debug {
		t.Error("Debug should be set from env")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CLIConfig)
		wantErr bool
	}{
		{"valid", func(c *CLIConfig) {}, false},
		{"zero timeout", func(c *CLIConfig) { c.Timeout = 0 }, true},
		{"bad format", func(c *CLIConfig) { c.OutputFormat = "xml" }, true},
		{"bad driver", func(c *CLIConfig) { c.History.Driver = "mysql" }, true},
		{"sqlite without path", func(c *CLIConfig) { c.History.SQLitePath = "" }, true},
		{"postgres without sqlite path", func(c *CLIConfig) {
			c.History.Driver = history.DriverPostgres
			c.History.SQLitePath = ""
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	t.Setenv("GUESTPULSE_CONFIG_DIR", t.TempDir())

	cfg := DefaultConfig()
	cfg.Timeout = 90 * time.Second
	cfg.OutputFormat = OutputFormatJSON
	cfg.SMTP.Host = "mail.hotel.example"
	cfg.SMTP.From = "reports@hotel.example"
	cfg.SMTP.To = []string{"gm@hotel.example"}

	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig() error = %v", err)
	}

	loaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if loaded.Timeout != 90*time.Second {
		t.Errorf("Timeout = %v", loaded.Timeout)
	}
	if loaded.OutputFormat != OutputFormatJSON {
		t.Errorf("OutputFormat = %v", loaded.OutputFormat)
	}
	if loaded.SMTP.Host != "mail.hotel.example" {
		t.Errorf("SMTP.Host = %q", loaded.SMTP.Host)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}

	got, err := ExpandPath("~/history.db")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(home, "history.db") {
		t.Errorf("ExpandPath() = %q", got)
	}

	got, _ = ExpandPath("/abs/path.db")
	if got != "/abs/path.db" {
		t.Errorf("absolute path changed: %q", got)
	}

	got, _ = ExpandPath("")
	if got != "" {
		t.Errorf("empty path changed: %q", got)
	}
}

func TestOutputFormatIsValid(t *testing.T) {
	for _, f := range []OutputFormat{OutputFormatText, OutputFormatJSON, OutputFormatCSV} {
		if !f.IsValid() {
			t.Errorf("%s should be valid", f)
		}
	}
	if OutputFormat("yaml").IsValid() {
		t.Error("yaml is not a supported output format here")
	}
}
