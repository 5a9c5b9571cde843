package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/otherjamesbrown/guestpulse/config"
	"github.com/otherjamesbrown/guestpulse/pkg/analyze"
)

// writeTempCSV writes a review export and returns its path.
func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reviews.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing temp csv: %v", err)
	}
	return path
}

const sampleExport = `Date,Source,Rating,Language,Review
2025-04-01,Booking,9,en,"Great breakfast and friendly staff, loved the stay."
2025-04-02,Google,3,en,"The room was dirty and the wifi kept dropping."
`

func TestAnalyzeCommand(t *testing.T) {
	cmd := NewAnalyzeCommand(nil)

	if cmd.Use != "analyze" {
		t.Errorf("Use = %q, want %q", cmd.Use, "analyze")
	}
	for _, name := range []string{"input", "lexicon", "output"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("Missing flag --%s", name)
		}
	}
}

func TestAnalyzeJSONOutput(t *testing.T) {
	input := writeTempCSV(t, sampleExport)

	var out bytes.Buffer
	deps := &AnalyzeCommandDeps{
		LoadConfig: func() (*config.CLIConfig, error) { return config.DefaultConfig(), nil },
		Out:        &out,
	}
	cmd := NewAnalyzeCommand(deps)
	cmd.SetArgs([]string{"--input", input, "--output", "json"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var results []analyze.Result
	if err := json.Unmarshal(out.Bytes(), &results); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	for _, r := range results {
		if r.ReviewID == "" {
			t.Error("result has empty review_id")
		}
		if r.WeekKey == "" {
			t.Error("result has empty week_key")
		}
	}
	if results[0].SentimentOverall != analyze.LabelPositive {
		t.Errorf("first review sentiment = %q, want positive", results[0].SentimentOverall)
	}
	if results[1].SentimentOverall != analyze.LabelNegative {
		t.Errorf("second review sentiment = %q, want negative", results[1].SentimentOverall)
	}
}

func TestAnalyzeCSVOutput(t *testing.T) {
	input := writeTempCSV(t, sampleExport)

	var out bytes.Buffer
	deps := &AnalyzeCommandDeps{
		LoadConfig: func() (*config.CLIConfig, error) { return config.DefaultConfig(), nil },
		Out:        &out,
	}
	cmd := NewAnalyzeCommand(deps)
	cmd.SetArgs([]string{"--input", input, "--output", "csv"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d CSV lines, want header + 2 rows", len(lines))
	}
	if !strings.HasPrefix(lines[0], "review_id,date,week,source,") {
		t.Errorf("unexpected CSV header: %q", lines[0])
	}
}

func TestAnalyzeInvalidOutputFormat(t *testing.T) {
	input := writeTempCSV(t, sampleExport)

	deps := &AnalyzeCommandDeps{
		LoadConfig: func() (*config.CLIConfig, error) { return config.DefaultConfig(), nil },
		Out:        &bytes.Buffer{},
	}
	cmd := NewAnalyzeCommand(deps)
	cmd.SetArgs([]string{"--input", input, "--output", "xml"})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected an error for --output xml")
	}
	if !isUsageError(err) {
		t.Errorf("bad output format should be a usage error, got: %v", err)
	}
}

func TestAnalyzeMissingInputFlag(t *testing.T) {
	cmd := NewAnalyzeCommand(&AnalyzeCommandDeps{
		LoadConfig: func() (*config.CLIConfig, error) { return config.DefaultConfig(), nil },
		Out:        &bytes.Buffer{},
	})
	cmd.SetArgs([]string{})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected an error without --input")
	}
	if !isUsageError(err) {
		t.Errorf("missing required flag should be a usage error, got: %v", err)
	}
}
