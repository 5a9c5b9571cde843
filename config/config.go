// Package config provides configuration management for the guestpulse
// command-line tool. It supports loading configuration from YAML files,
// a local .env file, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/subosito/gotenv"
	"gopkg.in/yaml.v3"

	"github.com/otherjamesbrown/guestpulse/pkg/export/sheetmirror"
	"github.com/otherjamesbrown/guestpulse/pkg/history"
	"github.com/otherjamesbrown/guestpulse/pkg/report"
)

// OutputFormat defines the supported output formats for CLI results.
type OutputFormat string

const (
	// OutputFormatText is human-readable plain text output.
	OutputFormatText OutputFormat = "text"
	// OutputFormatJSON is JSON-formatted output for machine processing.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatCSV is CSV output for spreadsheets.
	OutputFormatCSV OutputFormat = "csv"
)

// Default configuration values.
const (
	DefaultTimeout      = 10 * time.Minute
	DefaultOutputFormat = OutputFormatText
	DefaultConfigDir    = ".guestpulse"
	DefaultConfigFile   = "config.yaml"
	DefaultSQLitePath   = "~/.guestpulse/history.db"
)

// HistoryConfig selects and configures the history store backend.
type HistoryConfig struct {
	// Driver is "sqlite" (default) or "postgres". Postgres connection
	// settings come from GUESTPULSE_DB_* environment variables.
	Driver string `yaml:"driver"`

	// SQLitePath is the database file for the sqlite driver.
	// Supports ~ for home directory expansion.
	SQLitePath string `yaml:"sqlite_path"`
}

// RedisConfig holds the optional shared tracker settings. Empty Addr means
// the in-memory tracker.
type RedisConfig struct {
	Addr string `yaml:"addr,omitempty"`
	DB   int    `yaml:"db,omitempty"`
}

// IsConfigured reports whether a Redis tracker is set up.
func (c *RedisConfig) IsConfigured() bool {
	return c != nil && c.Addr != ""
}

// CLIConfig holds the CLI configuration settings.
type CLIConfig struct {
	// Timeout is the default timeout for agent runs.
	Timeout time.Duration `yaml:"timeout"`

	// OutputFormat specifies the default output format for commands.
	OutputFormat OutputFormat `yaml:"output_format"`

	// LexiconPath optionally replaces the built-in lexicon with a YAML file.
	LexiconPath string `yaml:"lexicon_path,omitempty"`

	// Debug enables verbose debug logging.
	Debug bool `yaml:"debug,omitempty"`

	// History selects the results store.
	History HistoryConfig `yaml:"history"`

	// SMTP configures weekly report delivery. The password lives in the
	// credentials store.
	SMTP report.SMTPConfig `yaml:"smtp,omitempty"`

	// SheetMirror configures the optional legacy worksheet sink. The DSN
	// may also live in the credentials store.
	SheetMirror sheetmirror.Config `yaml:"sheet_mirror,omitempty"`

	// Redis configures the optional shared idempotency tracker.
	Redis RedisConfig `yaml:"redis,omitempty"`
}

// DefaultConfig returns a CLIConfig with default values.
func DefaultConfig() *CLIConfig {
	return &CLIConfig{
		Timeout:      DefaultTimeout,
		OutputFormat: DefaultOutputFormat,
		History: HistoryConfig{
			Driver:     history.DriverSQLite,
			SQLitePath: DefaultSQLitePath,
		},
	}
}

// ConfigDir returns the configuration directory path.
// Uses $GUESTPULSE_CONFIG_DIR if set, otherwise ~/.guestpulse
func ConfigDir() (string, error) {
	if dir := os.Getenv("GUESTPULSE_CONFIG_DIR"); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}

	return filepath.Join(home, DefaultConfigDir), nil
}

// ConfigPath returns the full path to the configuration file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultConfigFile), nil
}

// LoadConfig loads the CLI configuration.
// Configuration is loaded in this order (later sources override earlier):
// 1. Default values
// 2. Config file (~/.guestpulse/config.yaml or $GUESTPULSE_CONFIG_DIR/config.yaml)
// 3. A .env file in the working directory
// 4. Environment variables (GUESTPULSE_*)
func LoadConfig() (*CLIConfig, error) {
	return LoadConfigFrom("")
}

// LoadConfigFrom loads configuration from an explicit file path. An empty
// path means the default location.
func LoadConfigFrom(path string) (*CLIConfig, error) {
	cfg := DefaultConfig()

	if path == "" {
		var err error
		path, err = ConfigPath()
		if err != nil {
			return nil, fmt.Errorf("getting config path: %w", err)
		}
	}

	if _, err := os.Stat(path); err == nil {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	// Local .env files are a development convenience; missing is fine.
	_ = gotenv.Load()

	loadFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(cfg *CLIConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	// We need a temp struct for unmarshaling duration as string.
	type configFile struct {
		Timeout      string             `yaml:"timeout"`
		OutputFormat OutputFormat       `yaml:"output_format"`
		LexiconPath  string             `yaml:"lexicon_path"`
		Debug        bool               `yaml:"debug"`
		History      *HistoryConfig     `yaml:"history"`
		SMTP         *report.SMTPConfig `yaml:"smtp"`
		SheetMirror  *sheetmirror.Config `yaml:"sheet_mirror"`
		Redis        *RedisConfig       `yaml:"redis"`
	}

	var fileCfg configFile
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	if fileCfg.Timeout != "" {
		timeout, err := time.ParseDuration(fileCfg.Timeout)
		if err != nil {
			return fmt.Errorf("parsing timeout: %w", err)
		}
		cfg.Timeout = timeout
	}
	if fileCfg.OutputFormat != "" {
		cfg.OutputFormat = fileCfg.OutputFormat
	}
	if fileCfg.LexiconPath != "" {
		cfg.LexiconPath = fileCfg.LexiconPath
	}
	if fileCfg.History != nil {
		if fileCfg.History.Driver != "" {
			cfg.History.Driver = fileCfg.History.Driver
		}
		if fileCfg.History.SQLitePath != "" {
			cfg.History.SQLitePath = fileCfg.History.SQLitePath
		}
	}
	if fileCfg.SMTP != nil {
		cfg.SMTP = *fileCfg.SMTP
	}
	if fileCfg.SheetMirror != nil {
		cfg.SheetMirror = *fileCfg.SheetMirror
	}
	if fileCfg.Redis != nil {
		cfg.Redis = *fileCfg.Redis
	}
	cfg.Debug = fileCfg.Debug

	return nil
}

// loadFromEnv overlays environment variables onto the configuration.
func loadFromEnv(cfg *CLIConfig) {
	if v := os.Getenv("GUESTPULSE_TIMEOUT"); v != "" {
		if timeout, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = timeout
		}
	}

	if v := os.Getenv("GUESTPULSE_OUTPUT_FORMAT"); v != "" {
		cfg.OutputFormat = OutputFormat(v)
	}

	if v := os.Getenv("GUESTPULSE_LEXICON"); v != "" {
		cfg.LexiconPath = v
	}

	if v := os.Getenv("GUESTPULSE_DEBUG"); v == "true" || v == "1" {
		cfg.Debug = true
	}

	if v := os.Getenv("GUESTPULSE_HISTORY_DRIVER"); v != "" {
		cfg.History.Driver = v
	}

	if v := os.Getenv("GUESTPULSE_SQLITE_PATH"); v != "" {
		cfg.History.SQLitePath = v
	}

	if v := os.Getenv("GUESTPULSE_SMTP_HOST"); v != "" {
		cfg.SMTP.Host = v
	}
	if v := os.Getenv("GUESTPULSE_SMTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.SMTP.Port = port
		}
	}
	if v := os.Getenv("GUESTPULSE_SMTP_USERNAME"); v != "" {
		cfg.SMTP.Username = v
	}
	if v := os.Getenv("GUESTPULSE_SMTP_FROM"); v != "" {
		cfg.SMTP.From = v
	}
	if v := os.Getenv("GUESTPULSE_SMTP_TO"); v != "" {
		var to []string
		for _, addr := range strings.Split(v, ",") {
			if addr = strings.TrimSpace(addr); addr != "" {
				to = append(to, addr)
			}
		}
		cfg.SMTP.To = to
	}

	if v := os.Getenv("GUESTPULSE_SHEET_DSN"); v != "" {
		cfg.SheetMirror.DSN = v
	}

	if v := os.Getenv("GUESTPULSE_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("GUESTPULSE_REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.Redis.DB = db
		}
	}
}

// Validate checks that the configuration is valid.
func (c *CLIConfig) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}

	if !c.OutputFormat.IsValid() {
		return fmt.Errorf("invalid output_format: %q (must be text, json, or csv)", c.OutputFormat)
	}

	switch c.History.Driver {
	case history.DriverSQLite, history.DriverPostgres:
	default:
		return fmt.Errorf("invalid history driver: %q (must be sqlite or postgres)", c.History.Driver)
	}

	if c.History.Driver == history.DriverSQLite && c.History.SQLitePath == "" {
		return fmt.Errorf("sqlite_path is required for the sqlite driver")
	}

	return nil
}

// IsValid checks if the output format is valid.
func (f OutputFormat) IsValid() bool {
	switch f {
	case OutputFormatText, OutputFormatJSON, OutputFormatCSV:
		return true
	default:
		return false
	}
}

// String returns the string representation of the output format.
func (f OutputFormat) String() string {
	return string(f)
}

// SaveConfig saves the configuration to the config file.
func SaveConfig(cfg *CLIConfig) error {
	configDir, err := ConfigDir()
	if err != nil {
		return fmt.Errorf("getting config directory: %w", err)
	}

	// Ensure config directory exists.
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath := filepath.Join(configDir, DefaultConfigFile)

	// Convert to YAML-friendly format with duration as string.
	type configFile struct {
		Timeout      string             `yaml:"timeout"`
		OutputFormat OutputFormat       `yaml:"output_format"`
		LexiconPath  string             `yaml:"lexicon_path,omitempty"`
		Debug        bool               `yaml:"debug,omitempty"`
		History      HistoryConfig      `yaml:"history"`
		SMTP         report.SMTPConfig  `yaml:"smtp,omitempty"`
		SheetMirror  sheetmirror.Config `yaml:"sheet_mirror,omitempty"`
		Redis        RedisConfig        `yaml:"redis,omitempty"`
	}

	fileCfg := configFile{
		Timeout:      cfg.Timeout.String(),
		OutputFormat: cfg.OutputFormat,
		LexiconPath:  cfg.LexiconPath,
		Debug:        cfg.Debug,
		History:      cfg.History,
		SMTP:         cfg.SMTP,
		SheetMirror:  cfg.SheetMirror,
		Redis:        cfg.Redis,
	}

	data, err := yaml.Marshal(&fileCfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// ExpandPath expands ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}
