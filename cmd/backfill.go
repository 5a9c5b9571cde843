package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/otherjamesbrown/guestpulse/config"
	"github.com/otherjamesbrown/guestpulse/pkg/agent"
	"github.com/otherjamesbrown/guestpulse/pkg/history"
	"github.com/otherjamesbrown/guestpulse/pkg/logging"
	"github.com/otherjamesbrown/guestpulse/pkg/metrics"
	"github.com/otherjamesbrown/guestpulse/pkg/tracker"
)

// Backfill command flags.
var (
	backfillInput     string
	backfillLexicon   string
	backfillSince     string
	backfillUntil     string
	backfillReanalyze bool
)

// BackfillCommandDeps holds the dependencies for the backfill command.
type BackfillCommandDeps struct {
	LoadConfig  func() (*config.CLIConfig, error)
	OpenStore   func(ctx context.Context, cfg *config.CLIConfig, logger logging.Logger) (history.Store, error)
	OpenTracker func(ctx context.Context, cfg *config.CLIConfig, logger logging.Logger) (tracker.Tracker, error)

	// RunFn overrides the full backfill run for testing.
	RunFn func(ctx context.Context, path string, opts agent.BackfillOptions) (*agent.BackfillResult, error)

	Out io.Writer
}

// DefaultBackfillDeps returns the default dependencies for production use.
func DefaultBackfillDeps() *BackfillCommandDeps {
	return &BackfillCommandDeps{
		LoadConfig:  loadCLIConfig,
		OpenStore:   openStore,
		OpenTracker: openTracker,
		Out:         os.Stdout,
	}
}

// NewBackfillCommand creates the 'backfill' command.
func NewBackfillCommand(deps *BackfillCommandDeps) *cobra.Command {
	if deps == nil {
		deps = DefaultBackfillDeps()
	}

	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Import a review export into the history store",
		Long: `Run the full pipeline over a CSV export: ingest, analyze, persist,
and recompute the period rollups for every year the file touches.

Reviews the tracker has already seen are skipped, so re-running the same
file is safe. Use --reanalyze after a lexicon change to force a fresh pass.

Examples:
  # Import everything
  guestpulse backfill --input export.csv

  # Only rows from 2025
  guestpulse backfill --input export.csv --since 2025-01-01

  # Re-run after editing the lexicon
  guestpulse backfill --input export.csv --lexicon rules.yaml --reanalyze`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackfill(cmd.Context(), deps)
		},
	}

	cmd.Flags().StringVar(&backfillInput, "input", "", "review export file (CSV)")
	cmd.Flags().StringVar(&backfillLexicon, "lexicon", "", "lexicon YAML file (default: built-in rules)")
	cmd.Flags().StringVar(&backfillSince, "since", "", "keep only rows on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&backfillUntil, "until", "", "keep only rows on or before this date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&backfillReanalyze, "reanalyze", false, "process reviews the tracker has already seen")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func runBackfill(ctx context.Context, deps *BackfillCommandDeps) error {
	opts := agent.BackfillOptions{Reanalyze: backfillReanalyze}

	var err error
	if opts.Since, err = parseDateFlag("since", backfillSince); err != nil {
		return err
	}
	if opts.Until, err = parseDateFlag("until", backfillUntil); err != nil {
		return err
	}

	run := deps.RunFn
	if run == nil {
		cfg, err := deps.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
		logger := newLogger(cfg)

		lex, err := loadLexicon(cfg, backfillLexicon)
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

		mirror, err := newMirror(cfg, logger)
		if err != nil {
			return fmt.Errorf("connecting sheet mirror: %w", err)
		}
		if mirror != nil {
			defer mirror.Close()
		}

		b := agent.NewBackfill(lex, store, trk, metrics.DefaultPipelineMetrics(), mirror, logger)
		run = b.Run
	}

	res, err := run(ctx, backfillInput, opts)
	if err != nil {
		return err
	}

	out := deps.Out
	fmt.Fprintf(out, "Backfill complete: %s\n", backfillInput)
	fmt.Fprintf(out, "  Rows read:  %d (%d skipped empty, %d future-dated, %d row errors)\n",
		res.Ingest.Rows, res.Ingest.EmptyText, res.Ingest.Future, len(res.RowErrors))
	fmt.Fprintf(out, "  Analyzed:   %d\n", res.Run.Analyzed)
	fmt.Fprintf(out, "  Skipped:    %d (already seen)\n", res.Run.Skipped)
	fmt.Fprintf(out, "  Failed:     %d\n", res.Run.Failed)
	fmt.Fprintf(out, "  Rollups:    %d KPI, %d source, %d aspect, %d pair rows\n",
		res.KPIRows, res.SourceRows, res.AspectRows, res.PairRows)

	for _, re := range res.Run.Errors {
		fmt.Fprintf(os.Stderr, "Warning: review %s: %s\n", re.ReviewID, re.Error)
	}
	return nil
}

// parseDateFlag parses an optional YYYY-MM-DD flag value.
func parseDateFlag(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, usageErrorf("invalid --%s value %q (want YYYY-MM-DD)", name, value)
	}
	return d, nil
}
