package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/otherjamesbrown/guestpulse/config"
	"github.com/otherjamesbrown/guestpulse/pkg/aggregate"
	"github.com/otherjamesbrown/guestpulse/pkg/analyze"
	"github.com/otherjamesbrown/guestpulse/pkg/history"
	"github.com/otherjamesbrown/guestpulse/pkg/lexicon"
	"github.com/otherjamesbrown/guestpulse/pkg/logging"
)

// fakeStore serves canned week results and ignores writes.
type fakeStore struct {
	results []analyze.Result
}

func (s *fakeStore) SaveResults(ctx context.Context, results []analyze.Result) error { return nil }
func (s *fakeStore) ResultsBetween(ctx context.Context, from, to time.Time) ([]analyze.Result, error) {
	return s.results, nil
}
func (s *fakeStore) ResultsForWeek(ctx context.Context, weekKey string) ([]analyze.Result, error) {
	return s.results, nil
}
func (s *fakeStore) SaveKPIRows(ctx context.Context, rows []aggregate.KPIRow) error       { return nil }
func (s *fakeStore) SaveSourceRows(ctx context.Context, rows []aggregate.SourceRow) error { return nil }
func (s *fakeStore) SaveAspectRows(ctx context.Context, rows []aggregate.AspectRow) error { return nil }
func (s *fakeStore) SavePairRows(ctx context.Context, rows []aggregate.PairRow) error     { return nil }
func (s *fakeStore) LogRun(ctx context.Context, rec history.RunRecord) error              { return nil }
func (s *fakeStore) Ping(ctx context.Context) error                                      { return nil }
func (s *fakeStore) Close() error                                                        { return nil }

func fakeStoreDeps(store history.Store, out *bytes.Buffer) *ImpactCommandDeps {
	return &ImpactCommandDeps{
		LoadConfig: func() (*config.CLIConfig, error) { return config.DefaultConfig(), nil },
		OpenStore: func(ctx context.Context, cfg *config.CLIConfig, logger logging.Logger) (history.Store, error) {
			return store, nil
		},
		Out: out,
	}
}

func TestImpactCommand(t *testing.T) {
	cmd := NewImpactCommand(nil)

	if cmd.Use != "impact" {
		t.Errorf("Use = %q, want %q", cmd.Use, "impact")
	}
	for _, name := range []string{"period", "min-mentions", "output"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("Missing flag --%s", name)
		}
	}
}

func TestImpactBadPeriod(t *testing.T) {
	cmd := NewImpactCommand(fakeStoreDeps(&fakeStore{}, &bytes.Buffer{}))
	cmd.SetArgs([]string{"--period", "april"})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected an error for a malformed --period")
	}
	if !isUsageError(err) {
		t.Errorf("malformed period should be a usage error, got: %v", err)
	}
}

func TestImpactEmptyWeek(t *testing.T) {
	var out bytes.Buffer
	cmd := NewImpactCommand(fakeStoreDeps(&fakeStore{}, &out))
	cmd.SetArgs([]string{"--period", "2025-W14"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out.String(), "No stored reviews for 2025-W14") {
		t.Errorf("missing empty-week message in: %q", out.String())
	}
}

// impactResult builds a one-aspect stored result for the given review.
func impactResult(id string, rating float64, polarity lexicon.Polarity, overall analyze.Label) analyze.Result {
	created := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	return analyze.Result{
		ReviewID:         id,
		Source:           "booking",
		CreatedAt:        created,
		WeekKey:          "2025-W14",
		Rating:           &rating,
		Language:         "en",
		SentimentOverall: overall,
		Aspects: []analyze.AspectHit{{
			ReviewID:         id,
			AspectCode:       "room_dirty",
			Polarity:         polarity,
			CreatedAt:        created,
			WeekKey:          "2025-W14",
			Source:           "booking",
			Rating:           &rating,
			SentimentOverall: overall,
			Language:         "en",
		}},
	}
}

func TestImpactTextOutput(t *testing.T) {
	store := &fakeStore{results: []analyze.Result{
		impactResult("rv-1", 3, lexicon.PolarityNegative, analyze.LabelNegative),
		impactResult("rv-2", 4, lexicon.PolarityNegative, analyze.LabelNegative),
	}}

	var out bytes.Buffer
	cmd := NewImpactCommand(fakeStoreDeps(store, &out))
	cmd.SetArgs([]string{"--period", "2025-W14", "--output", "text"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "ASPECT") || !strings.Contains(got, "NEG IDX") {
		t.Errorf("missing table header in: %q", got)
	}
	// Two low-rated reviews name the aspect, so it survives the default
	// min-mentions threshold and shows its display name.
	if !strings.Contains(got, "dirty room") {
		t.Errorf("missing aspect row in: %q", got)
	}
}

func TestImpactMinMentionsFilter(t *testing.T) {
	store := &fakeStore{results: []analyze.Result{
		impactResult("rv-1", 3, lexicon.PolarityNegative, analyze.LabelNegative),
	}}

	var out bytes.Buffer
	cmd := NewImpactCommand(fakeStoreDeps(store, &out))
	cmd.SetArgs([]string{"--period", "2025-W14", "--output", "text", "--min-mentions", "2"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if strings.Contains(out.String(), "dirty room") {
		t.Errorf("single-mention aspect should be filtered out: %q", out.String())
	}
}
