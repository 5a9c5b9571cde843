package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/otherjamesbrown/guestpulse/config"
	"github.com/otherjamesbrown/guestpulse/pkg/analyze"
	"github.com/otherjamesbrown/guestpulse/pkg/ingest"
)

// Analyze command flags.
var (
	analyzeInput   string
	analyzeLexicon string
	analyzeOutput  string
)

// AnalyzeCommandDeps holds the dependencies for the analyze command.
type AnalyzeCommandDeps struct {
	LoadConfig func() (*config.CLIConfig, error)

	// Out receives the rendered results (defaults to stdout).
	Out io.Writer
}

// DefaultAnalyzeDeps returns the default dependencies for production use.
func DefaultAnalyzeDeps() *AnalyzeCommandDeps {
	return &AnalyzeCommandDeps{
		LoadConfig: loadCLIConfig,
		Out:        os.Stdout,
	}
}

// NewAnalyzeCommand creates the 'analyze' command.
func NewAnalyzeCommand(deps *AnalyzeCommandDeps) *cobra.Command {
	if deps == nil {
		deps = DefaultAnalyzeDeps()
	}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a review export without touching the history store",
		Long: `Run the classification engine over a CSV export and print the results.

Nothing is persisted: this is the one-shot path for inspecting how the
lexicon reads a file before committing it with 'backfill'.

Examples:
  # JSON results to stdout
  guestpulse analyze --input reviews.csv

  # CSV results with a custom lexicon
  guestpulse analyze --input reviews.csv --lexicon rules.yaml --output csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(deps)
		},
	}

	cmd.Flags().StringVar(&analyzeInput, "input", "", "review export file (CSV)")
	cmd.Flags().StringVar(&analyzeLexicon, "lexicon", "", "lexicon YAML file (default: built-in rules)")
	cmd.Flags().StringVarP(&analyzeOutput, "output", "o", "json", "output format: json, csv")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func runAnalyze(deps *AnalyzeCommandDeps) error {
	cfg, err := deps.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	lex, err := loadLexicon(cfg, analyzeLexicon)
	if err != nil {
		return err
	}

	records, summary, rowErrs, err := ingest.NewReader().ReadFile(analyzeInput)
	if err != nil {
		return fmt.Errorf("reading export: %w", err)
	}
	for _, re := range rowErrs {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", re)
	}

	inputs := make([]analyze.Input, len(records))
	for i, rec := range records {
		inputs[i] = rec.Input
	}
	results, analyzeErrs := analyze.AnalyzeMany(inputs, lex)
	for _, ae := range analyzeErrs {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", ae)
	}
	if len(results) == 0 && summary.Rows > 0 {
		return fmt.Errorf("no analyzable reviews in %s (%d rows, %d row errors)",
			analyzeInput, summary.Rows, len(rowErrs))
	}

	switch analyzeOutput {
	case "json":
		enc := json.NewEncoder(deps.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case "csv":
		return writeResultsCSV(deps.Out, results)
	default:
		return usageErrorf("invalid output format %q (must be json or csv)", analyzeOutput)
	}
}

// writeResultsCSV renders per-review results as flat CSV rows.
func writeResultsCSV(w io.Writer, results []analyze.Result) error {
	cw := csv.NewWriter(w)
	header := []string{
		"review_id", "date", "week", "source", "rating", "language",
		"sentiment", "score", "topics", "aspects",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range results {
		rating := ""
		if r.Rating != nil {
			rating = strconv.FormatFloat(*r.Rating, 'f', -1, 64)
		}
		topics := make([]string, len(r.TopicHits))
		for i, tp := range r.TopicHits {
			topics[i] = tp.Topic + ":" + tp.Subtopic
		}
		aspects := make([]string, len(r.Aspects))
		for i, h := range r.Aspects {
			aspects[i] = h.AspectCode
		}
		row := []string{
			r.ReviewID,
			r.CreatedAt.Format("2006-01-02"),
			r.WeekKey,
			r.Source,
			rating,
			r.Language,
			string(r.SentimentOverall),
			strconv.FormatFloat(r.SentimentScore, 'f', -1, 64),
			strings.Join(topics, ";"),
			strings.Join(aspects, ";"),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
