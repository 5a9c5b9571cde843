package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/jonreiter/govader"
	"github.com/spf13/cobra"

	"github.com/otherjamesbrown/guestpulse/config"
	"github.com/otherjamesbrown/guestpulse/pkg/analyze"
	"github.com/otherjamesbrown/guestpulse/pkg/ingest"
	"github.com/otherjamesbrown/guestpulse/pkg/lexicon"
)

// Bench command flags.
var (
	benchInput     string
	benchLexicon   string
	benchThreshold float64
)

// BenchCommandDeps holds the dependencies for the bench command.
type BenchCommandDeps struct {
	LoadConfig func() (*config.CLIConfig, error)

	Out io.Writer
}

// DefaultBenchDeps returns the default dependencies for production use.
func DefaultBenchDeps() *BenchCommandDeps {
	return &BenchCommandDeps{
		LoadConfig: loadCLIConfig,
		Out:        os.Stdout,
	}
}

// NewBenchCommand creates the 'bench' command.
func NewBenchCommand(deps *BenchCommandDeps) *cobra.Command {
	if deps == nil {
		deps = DefaultBenchDeps()
	}

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Compare lexicon sentiment against VADER on English reviews",
		Long: `Sanity-check the lexicon's sentiment rules against VADER.

For every English-language row of the input, the lexicon label is
compared with VADER's compound score (>= threshold is positive,
<= -threshold is negative). Diagnostic only: nothing here feeds the
actual scoring.

Examples:
  guestpulse bench --input reviews.csv
  guestpulse bench --input reviews.csv --threshold 0.1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(deps)
		},
	}

	cmd.Flags().StringVar(&benchInput, "input", "", "review export file (CSV)")
	cmd.Flags().StringVar(&benchLexicon, "lexicon", "", "lexicon YAML file (default: built-in rules)")
	cmd.Flags().Float64Var(&benchThreshold, "threshold", 0.05, "VADER compound cutoff for positive/negative")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

// benchTally is the agreement summary of one bench run.
type benchTally struct {
	Total int
	Agree int
	// Confusion counts lexicon label -> VADER label.
	Confusion map[string]map[string]int
}

func runBench(deps *BenchCommandDeps) error {
	cfg, err := deps.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	lex, err := loadLexicon(cfg, benchLexicon)
	if err != nil {
		return err
	}

	records, _, rowErrs, err := ingest.NewReader().ReadFile(benchInput)
	if err != nil {
		return fmt.Errorf("reading export: %w", err)
	}
	for _, re := range rowErrs {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", re)
	}

	tally := runBenchTally(records, lex, benchThreshold)
	if tally.Total == 0 {
		return fmt.Errorf("no English-language reviews in %s", benchInput)
	}
	return outputBench(deps.Out, tally)
}

// runBenchTally compares the lexicon label with VADER for English rows.
func runBenchTally(records []ingest.Record, lex *lexicon.Lexicon, threshold float64) benchTally {
	analyzer := govader.NewSentimentIntensityAnalyzer()
	tally := benchTally{Confusion: make(map[string]map[string]int)}

	for _, rec := range records {
		if rec.Input.Language != "en" {
			continue
		}
		ours, _ := analyze.ClassifySentiment(rec.Input.Text, "en", lex)
		vader := vaderLabel(analyzer.PolarityScores(rec.Input.Text).Compound, threshold)

		tally.Total++
		if string(ours) == vader {
			tally.Agree++
		}
		if tally.Confusion[string(ours)] == nil {
			tally.Confusion[string(ours)] = make(map[string]int)
		}
		tally.Confusion[string(ours)][vader]++
	}
	return tally
}

// vaderLabel maps a compound score to the three-way VADER verdict.
func vaderLabel(compound, threshold float64) string {
	switch {
	case compound >= threshold:
		return string(analyze.LabelPositive)
	case compound <= -threshold:
		return string(analyze.LabelNegative)
	default:
		return string(analyze.LabelNeutral)
	}
}

func outputBench(w io.Writer, tally benchTally) error {
	fmt.Fprintf(w, "Compared %d English reviews\n", tally.Total)
	fmt.Fprintf(w, "Agreement: %d/%d (%.1f%%)\n\n",
		tally.Agree, tally.Total, 100*float64(tally.Agree)/float64(tally.Total))

	fmt.Fprintf(w, "%-10s -> %-10s %6s\n", "LEXICON", "VADER", "COUNT")
	ourLabels := make([]string, 0, len(tally.Confusion))
	for l := range tally.Confusion {
		ourLabels = append(ourLabels, l)
	}
	sort.Strings(ourLabels)
	for _, ours := range ourLabels {
		theirs := make([]string, 0, len(tally.Confusion[ours]))
		for l := range tally.Confusion[ours] {
			theirs = append(theirs, l)
		}
		sort.Strings(theirs)
		for _, v := range theirs {
			fmt.Fprintf(w, "%-10s -> %-10s %6d\n", ours, v, tally.Confusion[ours][v])
		}
	}
	return nil
}
