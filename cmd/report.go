package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

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

// Report command flags.
var (
	reportPeriod      string
	reportLexicon     string
	reportHTMLOut     string
	reportCSVDir      string
	reportMinMentions int
)

// ReportCommandDeps holds the dependencies for the report command.
type ReportCommandDeps struct {
	LoadConfig func() (*config.CLIConfig, error)
	OpenStore  func(ctx context.Context, cfg *config.CLIConfig, logger logging.Logger) (history.Store, error)

	Out io.Writer
}

// DefaultReportDeps returns the default dependencies for production use.
func DefaultReportDeps() *ReportCommandDeps {
	return &ReportCommandDeps{
		LoadConfig: loadCLIConfig,
		OpenStore:  openStore,
		Out:        os.Stdout,
	}
}

// NewReportCommand creates the 'report' command.
func NewReportCommand(deps *ReportCommandDeps) *cobra.Command {
	if deps == nil {
		deps = DefaultReportDeps()
	}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render the report for a stored week",
		Long: `Render the report for one ISO week from stored results.

Unlike 'weekly', this never emails anything and never refreshes the
stored rollups: it is a pure read for any week already in the store.

Examples:
  # HTML to stdout
  guestpulse report --period 2025-W14

  # HTML file plus the rollup tables as CSV
  guestpulse report --period 2025-W14 --html week14.html --csv ./out`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd.Context(), deps)
		},
	}

	cmd.Flags().StringVar(&reportPeriod, "period", "", "ISO week key, e.g. 2025-W14")
	cmd.Flags().StringVar(&reportLexicon, "lexicon", "", "lexicon YAML file (default: built-in rules)")
	cmd.Flags().StringVar(&reportHTMLOut, "html", "", "write the rendered HTML to this file (default: stdout)")
	cmd.Flags().StringVar(&reportCSVDir, "csv", "", "write rollup CSV files into this directory")
	cmd.Flags().IntVar(&reportMinMentions, "min-mentions", 2, "impact table mention threshold")
	_ = cmd.MarkFlagRequired("period")

	return cmd
}

func runReport(ctx context.Context, deps *ReportCommandDeps) error {
	weekEnd, err := period.WeekEnd(reportPeriod)
	if err != nil {
		return usageErrorf("invalid --period %q (want e.g. 2025-W14): %v", reportPeriod, err)
	}
	weekStart, _ := period.WeekStart(reportPeriod)

	cfg, err := deps.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	logger := newLogger(cfg)

	lex, err := loadLexicon(cfg, reportLexicon)
	if err != nil {
		return err
	}

	store, err := deps.OpenStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("opening history store: %w", err)
	}
	defer store.Close()

	weekResults, err := store.ResultsForWeek(ctx, reportPeriod)
	if err != nil {
		return fmt.Errorf("loading week results: %w", err)
	}
	weekResults = aggregate.Dedupe(weekResults)
	if len(weekResults) == 0 {
		fmt.Fprintf(os.Stderr, "Warning: no stored reviews for %s\n", reportPeriod)
	}

	// Deltas compare against surrounding periods, including last year's YTD.
	from := time.Date(weekStart.Year()-1, 1, 1, 0, 0, 0, 0, time.UTC)
	window, err := store.ResultsBetween(ctx, from, weekEnd)
	if err != nil {
		return fmt.Errorf("loading summary window: %w", err)
	}
	window = aggregate.Dedupe(window)

	summaries, err := aggregate.Summaries(window, reportPeriod)
	if err != nil {
		return fmt.Errorf("computing summaries: %w", err)
	}

	impactRows := impact.FilterMinMentions(
		impact.Aggregate(weekResults, aspectHits(weekResults)), reportMinMentions)
	sources := aggregate.SourceWeeklyRows(weekResults)
	quotes := aggregate.Quotes(weekResults, lex)

	data := report.Build(reportPeriod, summaries, sources, impactRows, quotes, time.Now())
	html, err := report.RenderHTML(data)
	if err != nil {
		return err
	}

	if reportHTMLOut != "" {
		if err := os.WriteFile(reportHTMLOut, html, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", reportHTMLOut, err)
		}
		fmt.Fprintf(deps.Out, "HTML written to %s\n", reportHTMLOut)
	} else {
		if _, err := deps.Out.Write(html); err != nil {
			return err
		}
	}

	if reportCSVDir != "" {
		if err := writeReportCSVs(reportCSVDir, weekResults, impactRows, lex); err != nil {
			return err
		}
		fmt.Fprintf(deps.Out, "CSV files written to %s\n", reportCSVDir)
	}
	return nil
}

// writeReportCSVs dumps the week's rollup tables, one CSV per table. Only
// week-level rollup rows are written: a single week's slice cannot produce
// complete month or year rows.
func writeReportCSVs(dir string, weekResults []analyze.Result, impactRows []impact.Row, lex *lexicon.Lexicon) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	var kpi []aggregate.KPIRow
	for _, row := range aggregate.KPIRows(weekResults) {
		if row.PeriodType == period.LevelWeek {
			kpi = append(kpi, row)
		}
	}
	var asp []aggregate.AspectRow
	for _, row := range aggregate.AspectRows(weekResults) {
		if row.PeriodType == period.LevelWeek {
			asp = append(asp, row)
		}
	}
	var pairs []aggregate.PairRow
	for _, row := range aggregate.PairRows(weekResults, lex) {
		if row.PeriodType == period.LevelWeek {
			pairs = append(pairs, row)
		}
	}

	files := []struct {
		name  string
		write func(io.Writer) error
	}{
		{"kpi.csv", func(w io.Writer) error { return report.WriteKPICSV(w, kpi) }},
		{"sources.csv", func(w io.Writer) error { return report.WriteSourceCSV(w, aggregate.SourceWeeklyRows(weekResults)) }},
		{"aspects.csv", func(w io.Writer) error { return report.WriteAspectCSV(w, asp) }},
		{"pairs.csv", func(w io.Writer) error { return report.WritePairCSV(w, pairs) }},
		{"impact.csv", func(w io.Writer) error { return report.WriteImpactCSV(w, impactRows) }},
	}
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		out, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		if err := f.write(out); err != nil {
			out.Close()
			return fmt.Errorf("writing %s: %w", path, err)
		}
		if err := out.Close(); err != nil {
			return err
		}
	}
	return nil
}
