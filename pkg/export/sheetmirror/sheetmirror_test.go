package sheetmirror

import (
	"testing"
	"time"

	"github.com/otherjamesbrown/guestpulse/pkg/aggregate"
	"github.com/otherjamesbrown/guestpulse/pkg/analyze"
	"github.com/otherjamesbrown/guestpulse/pkg/lexicon"
	"github.com/otherjamesbrown/guestpulse/pkg/period"
)

func TestConfigIsConfigured(t *testing.T) {
	var nilCfg *Config
	if nilCfg.IsConfigured() {
		t.Error("nil config should report not configured")
	}
	if (&Config{}).IsConfigured() {
		t.Error("empty DSN should report not configured")
	}
	if !(&Config{DSN: "postgres://localhost/legacy"}).IsConfigured() {
		t.Error("non-empty DSN should report configured")
	}
}

func TestResultCells(t *testing.T) {
	rating := 9.0
	created := time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC)
	r := analyze.Result{
		ReviewID:         "booking:0000000000000001",
		Source:           "booking",
		CreatedAt:        created,
		WeekKey:          "2025-W14",
		Rating:           &rating,
		Language:         "en",
		SentimentOverall: analyze.LabelPositive,
		SentimentScore:   0.76,
		TopicHits: []analyze.TopicPair{
			{Topic: "staff", Subtopic: "attitude"},
			{Topic: "food", Subtopic: "breakfast"},
		},
		Aspects: []analyze.AspectHit{
			{AspectCode: "staff_friendly", Polarity: lexicon.PolarityPositive},
			{AspectCode: "breakfast_tasty", Polarity: lexicon.PolarityPositive},
		},
		RawText: "Friendly staff, tasty breakfast.",
	}

	cells := resultCells(r)
	header := semanticRawHeader()
	if len(cells) != len(header) {
		t.Fatalf("got %d cells, header has %d columns", len(cells), len(header))
	}

	want := []string{
		"booking:0000000000000001",
		"2025-04-02",
		"2025-W14",
		"booking",
		"9",
		"en",
		"positive",
		"0.76",
		"staff:attitude;food:breakfast",
		"staff_friendly;breakfast_tasty",
		"Friendly staff, tasty breakfast.",
	}
	for i, w := range want {
		if cells[i] != w {
			t.Errorf("cell %s = %q, want %q", header[i], cells[i], w)
		}
	}
}

func TestResultCellsUnrated(t *testing.T) {
	r := analyze.Result{
		ReviewID:  "2gis:0000000000000002",
		Source:    "2gis",
		CreatedAt: time.Date(2025, 4, 3, 0, 0, 0, 0, time.UTC),
		WeekKey:   "2025-W14",
	}
	cells := resultCells(r)
	if cells[4] != "" {
		t.Errorf("unrated review should leave the rating cell empty, got %q", cells[4])
	}
	if cells[8] != "" || cells[9] != "" {
		t.Errorf("no hits should leave topic/aspect cells empty, got %q %q", cells[8], cells[9])
	}
}

func TestKPICells(t *testing.T) {
	avg := 8.25
	k := aggregate.KPIRow{
		PeriodType:  period.LevelWeek,
		PeriodKey:   "2025-W14",
		Reviews:     12,
		AvgRating10: &avg,
		Positive:    7,
		Neutral:     2,
		Negative:    2,
		Mixed:       1,
	}
	cells := kpiCells(k)
	want := []string{"week", "2025-W14", "12", "8.25", "7", "2", "2", "1"}
	for i, w := range want {
		if cells[i] != w {
			t.Errorf("cell %d = %q, want %q", i, cells[i], w)
		}
	}

	k.AvgRating10 = nil
	if kpiCells(k)[3] != "" {
		t.Error("nil average should render as an empty cell")
	}
}

func TestAspectAndPairCells(t *testing.T) {
	a := aggregate.AspectRow{
		PeriodType:  period.LevelMonth,
		PeriodKey:   "2025-04",
		SourceScope: aggregate.ScopeAll,
		AspectCode:  "ac_noisy",
		Mentions:    5,
		NegMentions: 4,
		NegShare:    0.8,
		NegWeight:   0.3333,
	}
	cells := aspectCells(a)
	if len(cells) != len(aspectHeader()) {
		t.Fatalf("got %d cells, header has %d columns", len(cells), len(aspectHeader()))
	}
	if cells[0] != "month" || cells[2] != "all" || cells[9] != "0.8" || cells[11] != "0.3333" {
		t.Errorf("aspect cells = %v", cells)
	}

	p := aggregate.PairRow{
		PeriodType:      period.LevelWeek,
		PeriodKey:       "2025-W14",
		PairKey:         "ac_noisy|noisy_room",
		Category:        "comfort",
		DistinctReviews: 3,
		ExampleQuote:    "Кондиционер гудел всю ночь…",
	}
	pc := pairCells(p)
	if len(pc) != len(pairHeader()) {
		t.Fatalf("got %d cells, header has %d columns", len(pc), len(pairHeader()))
	}
	if pc[2] != "ac_noisy|noisy_room" || pc[4] != "3" {
		t.Errorf("pair cells = %v", pc)
	}
}

func TestSourceCells(t *testing.T) {
	s := aggregate.SourceRow{WeekKey: "2025-W14", Source: "yandex", Reviews: 4}
	cells := sourceCells(s)
	if cells[0] != "2025-W14" || cells[1] != "yandex" || cells[2] != "4" || cells[3] != "" {
		t.Errorf("source cells = %v", cells)
	}
}
