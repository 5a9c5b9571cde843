package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/otherjamesbrown/guestpulse/config"
	"github.com/otherjamesbrown/guestpulse/pkg/aggregate"
	"github.com/otherjamesbrown/guestpulse/pkg/analyze"
	"github.com/otherjamesbrown/guestpulse/pkg/history"
	"github.com/otherjamesbrown/guestpulse/pkg/impact"
	"github.com/otherjamesbrown/guestpulse/pkg/lexicon"
	"github.com/otherjamesbrown/guestpulse/pkg/logging"
	"github.com/otherjamesbrown/guestpulse/pkg/period"
	"github.com/otherjamesbrown/guestpulse/pkg/report"
)

// Impact command flags.
var (
	impactPeriod      string
	impactMinMentions int
	impactOutput      string
)

// ImpactCommandDeps holds the dependencies for the impact command.
type ImpactCommandDeps struct {
	LoadConfig func() (*config.CLIConfig, error)
	OpenStore  func(ctx context.Context, cfg *config.CLIConfig, logger logging.Logger) (history.Store, error)

	Out io.Writer
}

// DefaultImpactDeps returns the default dependencies for production use.
func DefaultImpactDeps() *ImpactCommandDeps {
	return &ImpactCommandDeps{
		LoadConfig: loadCLIConfig,
		OpenStore:  openStore,
		Out:        os.Stdout,
	}
}

// NewImpactCommand creates the 'impact' command.
func NewImpactCommand(deps *ImpactCommandDeps) *cobra.Command {
	if deps == nil {
		deps = DefaultImpactDeps()
	}

	cmd := &cobra.Command{
		Use:   "impact",
		Short: "Rank aspect impact for a stored week",
		Long: `Rank aspects by their negative and positive impact for one ISO week.

Rows are ordered worst-first: the composite negative index weighs how
often an aspect is mentioned, how often those mentions are negative, and
how much of the week's low ratings it accounts for.

Examples:
  guestpulse impact --period 2025-W14
  guestpulse impact --period 2025-W14 --min-mentions 3 --output json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImpact(cmd.Context(), deps)
		},
	}

	cmd.Flags().StringVar(&impactPeriod, "period", "", "ISO week key, e.g. 2025-W14")
	cmd.Flags().IntVar(&impactMinMentions, "min-mentions", 2, "hide aspects with fewer distinct reviews")
	cmd.Flags().StringVarP(&impactOutput, "output", "o", "text", "output format: text, json, csv")
	_ = cmd.MarkFlagRequired("period")

	return cmd
}

func runImpact(ctx context.Context, deps *ImpactCommandDeps) error {
	if _, _, err := period.ParseWeekKey(impactPeriod); err != nil {
		return usageErrorf("invalid --period %q (want e.g. 2025-W14): %v", impactPeriod, err)
	}

	cfg, err := deps.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	logger := newLogger(cfg)

	store, err := deps.OpenStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("opening history store: %w", err)
	}
	defer store.Close()

	results, err := store.ResultsForWeek(ctx, impactPeriod)
	if err != nil {
		return fmt.Errorf("loading week results: %w", err)
	}
	results = aggregate.Dedupe(results)
	if len(results) == 0 {
		fmt.Fprintf(deps.Out, "No stored reviews for %s. Run 'guestpulse backfill' first.\n", impactPeriod)
		return nil
	}

	rows := impact.FilterMinMentions(
		impact.Aggregate(results, aspectHits(results)), impactMinMentions)

	lex, err := loadLexicon(cfg, "")
	if err != nil {
		return err
	}
	return outputImpact(deps.Out, rows, lex)
}

func aspectHits(results []analyze.Result) []analyze.AspectHit {
	var hits []analyze.AspectHit
	for _, r := range results {
		hits = append(hits, r.Aspects...)
	}
	return hits
}

func outputImpact(w io.Writer, rows []impact.Row, lex *lexicon.Lexicon) error {
	switch impactOutput {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "csv":
		return report.WriteImpactCSV(w, rows)
	case "text":
		fmt.Fprintf(w, "%-28s %8s %6s %6s %6s %8s %8s\n",
			"ASPECT", "MENTIONS", "FREQ", "INT-", "INT+", "NEG IDX", "POS IDX")
		for _, r := range rows {
			name := lex.AspectDisplay(r.AspectCode)
			if name == "" {
				name = r.AspectCode
			}
			fmt.Fprintf(w, "%-28s %8d %6.2f %6.2f %6.2f %8.3f %8.3f\n",
				name, r.Mentions, r.Frequency, r.IntensityNeg, r.IntensityPos,
				r.NegativeIndex, r.PositiveIndex)
		}
		return nil
	default:
		return usageErrorf("invalid output format %q (must be text, json, or csv)", impactOutput)
	}
}
