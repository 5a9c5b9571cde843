package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/otherjamesbrown/guestpulse/config"
	"github.com/otherjamesbrown/guestpulse/credentials"
	"github.com/otherjamesbrown/guestpulse/pkg/export/sheetmirror"
	"github.com/otherjamesbrown/guestpulse/pkg/history"
	"github.com/otherjamesbrown/guestpulse/pkg/lexicon"
	"github.com/otherjamesbrown/guestpulse/pkg/logging"
	"github.com/otherjamesbrown/guestpulse/pkg/report"
	"github.com/otherjamesbrown/guestpulse/pkg/tracker"
)

// loadCLIConfig loads configuration, honoring the --config flag.
func loadCLIConfig() (*config.CLIConfig, error) {
	if cfgFile != "" {
		return config.LoadConfigFrom(cfgFile)
	}
	return config.LoadConfig()
}

// newLogger builds the command logger from config and the persistent flags.
func newLogger(cfg *config.CLIConfig) logging.Logger {
	lc := logging.DefaultConfig()
	if cfg.Debug {
		lc.Level = logging.LevelDebug
	}
	if logLevel != "" {
		lc.Level = logging.Level(logLevel)
	}
	lc.JSONFormat = logJSON
	return logging.NewLogger(lc)
}

// openStore opens the configured history store.
func openStore(ctx context.Context, cfg *config.CLIConfig, logger logging.Logger) (history.Store, error) {
	switch cfg.History.Driver {
	case history.DriverSQLite:
		path, err := config.ExpandPath(cfg.History.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("resolving sqlite path: %w", err)
		}
		return history.NewSQLite(path, logger)
	case history.DriverPostgres:
		return history.NewPostgres(ctx, history.PostgresConfigFromEnv(), logger)
	default:
		return nil, fmt.Errorf("unknown history driver %q", cfg.History.Driver)
	}
}

// openTracker returns the Redis tracker when configured, else in-memory.
func openTracker(ctx context.Context, cfg *config.CLIConfig, logger logging.Logger) (tracker.Tracker, error) {
	if !cfg.Redis.IsConfigured() {
		return tracker.NewMemory(), nil
	}
	trk, err := tracker.NewRedisFromAddr(ctx, cfg.Redis.Addr, "", cfg.Redis.DB)
	if err != nil {
		return nil, fmt.Errorf("connecting to redis %s: %w", cfg.Redis.Addr, err)
	}
	logger.Debug("using redis tracker", logging.F("addr", cfg.Redis.Addr))
	return trk, nil
}

// loadLexicon resolves the lexicon: command flag, then config, then built-in.
func loadLexicon(cfg *config.CLIConfig, flagPath string) (*lexicon.Lexicon, error) {
	path := flagPath
	if path == "" {
		path = cfg.LexiconPath
	}
	if path == "" {
		return lexicon.Builtin(), nil
	}
	return lexicon.LoadFile(path)
}

// smtpPassword resolves the SMTP password from the env escape hatch or the
// encrypted secret store. Missing secrets are not fatal: some servers accept
// unauthenticated relay from inside the network.
func smtpPassword(logger logging.Logger) string {
	if pw := os.Getenv(credentials.EnvSMTPPassword); pw != "" {
		return pw
	}
	store, err := credentials.NewStore()
	if err != nil {
		logger.Warn("secret store unavailable, sending without password", logging.Err(err))
		return ""
	}
	pw, err := store.SMTPPassword()
	if err != nil {
		logger.Warn("reading smtp password failed", logging.Err(err))
		return ""
	}
	return pw
}

// newMailer builds the report mailer, or nil when SMTP is not configured.
func newMailer(cfg *config.CLIConfig, logger logging.Logger) *report.Mailer {
	if !cfg.SMTP.IsConfigured() {
		return nil
	}
	return report.NewMailer(cfg.SMTP, smtpPassword(logger), logger)
}

// newMirror builds the legacy sheet mirror, or nil when no DSN is known.
// The DSN comes from config (including its env overlay) or the secret store.
func newMirror(cfg *config.CLIConfig, logger logging.Logger) (*sheetmirror.Mirror, error) {
	dsn := cfg.SheetMirror.DSN
	if dsn == "" {
		store, err := credentials.NewStore()
		if err == nil {
			dsn, _ = store.SheetDSN()
		}
	}
	if dsn == "" {
		return nil, nil
	}
	return sheetmirror.New(&sheetmirror.Config{DSN: dsn}, logger)
}
