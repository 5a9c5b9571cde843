package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/otherjamesbrown/guestpulse/config"
	"github.com/otherjamesbrown/guestpulse/pkg/agent"
	"github.com/otherjamesbrown/guestpulse/pkg/history"
	"github.com/otherjamesbrown/guestpulse/pkg/logging"
	"github.com/otherjamesbrown/guestpulse/pkg/metrics"
	"github.com/otherjamesbrown/guestpulse/pkg/tracker"
)

// Weekly command flags.
var (
	weeklyAsOf        string
	weeklyLexicon     string
	weeklySend        bool
	weeklyForce       bool
	weeklyMinMentions int
	weeklyHTMLOut     string
)

// WeeklyCommandDeps holds the dependencies for the weekly command.
type WeeklyCommandDeps struct {
	LoadConfig  func() (*config.CLIConfig, error)
	OpenStore   func(ctx context.Context, cfg *config.CLIConfig, logger logging.Logger) (history.Store, error)
	OpenTracker func(ctx context.Context, cfg *config.CLIConfig, logger logging.Logger) (tracker.Tracker, error)

	// RunFn overrides the weekly run for testing.
	RunFn func(ctx context.Context, opts agent.WeeklyOptions) (*agent.WeeklyResult, error)

	Out io.Writer
}

// DefaultWeeklyDeps returns the default dependencies for production use.
func DefaultWeeklyDeps() *WeeklyCommandDeps {
	return &WeeklyCommandDeps{
		LoadConfig:  loadCLIConfig,
		OpenStore:   openStore,
		OpenTracker: openTracker,
		Out:         os.Stdout,
	}
}

// NewWeeklyCommand creates the 'weekly' command.
func NewWeeklyCommand(deps *WeeklyCommandDeps) *cobra.Command {
	if deps == nil {
		deps = DefaultWeeklyDeps()
	}

	cmd := &cobra.Command{
		Use:   "weekly",
		Short: "Build the report for the last complete week",
		Long: `Build the weekly report from stored results and optionally email it.

The reported week is the last complete ISO week before now (or before
--as-of). Delivery is tracked: a week that already went out is skipped
unless --force is set.

Examples:
  # Render only, write the HTML next to you
  guestpulse weekly --html report.html

  # Deliver by email
  guestpulse weekly --send

  # Re-send a specific week
  guestpulse weekly --as-of 2025-04-09 --send --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWeekly(cmd.Context(), deps)
		},
	}

	cmd.Flags().StringVar(&weeklyAsOf, "as-of", "", "resolve the week as of this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&weeklyLexicon, "lexicon", "", "lexicon YAML file (default: built-in rules)")
	cmd.Flags().BoolVar(&weeklySend, "send", false, "deliver the report by email")
	cmd.Flags().BoolVar(&weeklyForce, "force", false, "send even if the week was already delivered")
	cmd.Flags().IntVar(&weeklyMinMentions, "min-mentions", agent.DefaultMinMentions, "impact table mention threshold")
	cmd.Flags().StringVar(&weeklyHTMLOut, "html", "", "also write the rendered HTML to this file")

	return cmd
}

func runWeekly(ctx context.Context, deps *WeeklyCommandDeps) error {
	opts := agent.WeeklyOptions{
		Send:        weeklySend,
		Force:       weeklyForce,
		MinMentions: weeklyMinMentions,
	}
	if weeklyAsOf != "" {
		asOf, err := parseDateFlag("as-of", weeklyAsOf)
		if err != nil {
			return err
		}
		opts.AsOf = asOf
	}

	timeout := config.DefaultTimeout
	run := deps.RunFn
	if run == nil {
		cfg, err := deps.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
		if cfg.Timeout > 0 {
			timeout = cfg.Timeout
		}
		logger := newLogger(cfg)

		lex, err := loadLexicon(cfg, weeklyLexicon)
		if err != nil {
			return err
		}

		store, err := deps.OpenStore(ctx, cfg, logger)
		if err != nil {
			return fmt.Errorf("opening history store: %w", err)
		}
		defer store.Close()

		trk, err := deps.OpenTracker(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer trk.Close()

		w := agent.NewWeekly(clockwork.NewRealClock(), store, lex, trk,
			newMailer(cfg, logger), metrics.DefaultPipelineMetrics(), logger)
		run = w.Run
	}

	// The whole run should finish inside the configured timeout.
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res, err := run(runCtx, opts)
	if err != nil {
		return err
	}

	out := deps.Out
	if res.AlreadySent {
		fmt.Fprintf(out, "Week %s was already delivered, nothing to do (use --force to re-send).\n", res.WeekKey)
		return nil
	}

	fmt.Fprintf(out, "Weekly report for %s: %d reviews\n", res.WeekKey, res.Reviews)
	if res.Delivered {
		fmt.Fprintln(out, "  Delivered by email.")
	}
	if weeklyHTMLOut != "" {
		if err := os.WriteFile(weeklyHTMLOut, res.HTML, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", weeklyHTMLOut, err)
		}
		fmt.Fprintf(out, "  HTML written to %s\n", weeklyHTMLOut)
	}
	return nil
}
