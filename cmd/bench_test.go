package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/otherjamesbrown/guestpulse/config"
	"github.com/otherjamesbrown/guestpulse/pkg/analyze"
	"github.com/otherjamesbrown/guestpulse/pkg/ingest"
	"github.com/otherjamesbrown/guestpulse/pkg/lexicon"
)

func TestBenchCommand(t *testing.T) {
	cmd := NewBenchCommand(nil)

	if cmd.Use != "bench" {
		t.Errorf("Use = %q, want %q", cmd.Use, "bench")
	}
	for _, name := range []string{"input", "lexicon", "threshold"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("Missing flag --%s", name)
		}
	}
}

func TestVaderLabel(t *testing.T) {
	tests := []struct {
		compound  float64
		threshold float64
		want      string
	}{
		{0.6, 0.05, string(analyze.LabelPositive)},
		{0.05, 0.05, string(analyze.LabelPositive)},
		{-0.6, 0.05, string(analyze.LabelNegative)},
		{-0.05, 0.05, string(analyze.LabelNegative)},
		{0.02, 0.05, string(analyze.LabelNeutral)},
		{0.0, 0.05, string(analyze.LabelNeutral)},
		{0.08, 0.1, string(analyze.LabelNeutral)},
	}
	for _, tt := range tests {
		if got := vaderLabel(tt.compound, tt.threshold); got != tt.want {
			t.Errorf("vaderLabel(%v, %v) = %q, want %q", tt.compound, tt.threshold, got, tt.want)
		}
	}
}

func benchRecord(lang, text string) ingest.Record {
	return ingest.Record{Input: analyze.Input{Language: lang, Text: text}}
}

func TestRunBenchTallySkipsNonEnglish(t *testing.T) {
	records := []ingest.Record{
		benchRecord("en", "Friendly staff, the breakfast was great."),
		benchRecord("en", "The room was dirty and everything was terrible."),
		benchRecord("ru", "Отличный отель, прекрасный завтрак."),
	}

	tally := runBenchTally(records, lexicon.Builtin(), 0.05)

	if tally.Total != 2 {
		t.Errorf("Total = %d, want 2 (non-English rows skipped)", tally.Total)
	}
	if tally.Agree < 0 || tally.Agree > tally.Total {
		t.Errorf("Agree = %d out of %d", tally.Agree, tally.Total)
	}

	rows := 0
	for _, byVader := range tally.Confusion {
		for _, n := range byVader {
			rows += n
		}
	}
	if rows != tally.Total {
		t.Errorf("confusion rows sum to %d, want %d", rows, tally.Total)
	}
}

func TestRunBenchTallyClearAgreement(t *testing.T) {
	// Texts both classifiers read the same way keep the smoke test stable.
	records := []ingest.Record{
		benchRecord("en", "Friendly staff and a great breakfast, we loved it."),
		benchRecord("en", "Dirty room, terrible service, awful experience."),
	}

	tally := runBenchTally(records, lexicon.Builtin(), 0.05)

	if tally.Agree != 2 {
		t.Errorf("Agree = %d, want 2\nconfusion: %v", tally.Agree, tally.Confusion)
	}
}

func TestBenchNoEnglishRows(t *testing.T) {
	input := writeTempCSV(t, "Date,Source,Language,Review\n2025-04-01,Booking,ru,\"Отличный отель.\"\n")

	deps := &BenchCommandDeps{
		LoadConfig: func() (*config.CLIConfig, error) { return config.DefaultConfig(), nil },
		Out:        &bytes.Buffer{},
	}
	cmd := NewBenchCommand(deps)
	cmd.SetArgs([]string{"--input", input})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected an error when no English rows exist")
	}
	if !strings.Contains(err.Error(), "no English-language reviews") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestOutputBench(t *testing.T) {
	tally := benchTally{
		Total: 10,
		Agree: 7,
		Confusion: map[string]map[string]int{
			"positive": {"positive": 5, "neutral": 1},
			"negative": {"negative": 2, "positive": 2},
		},
	}

	var out bytes.Buffer
	if err := outputBench(&out, tally); err != nil {
		t.Fatalf("outputBench() error = %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "Agreement: 7/10 (70.0%)") {
		t.Errorf("missing agreement line in: %q", got)
	}
	if !strings.Contains(got, "LEXICON") || !strings.Contains(got, "VADER") {
		t.Errorf("missing confusion header in: %q", got)
	}
}
