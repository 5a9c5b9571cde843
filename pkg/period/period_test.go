package period

import (
	"testing"
	"time"
)

func TestWeekKeyFormat(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2025-01-01", "2025-W01"},
		{"2025-04-06", "2025-W14"},
		{"2024-12-30", "2025-W01"}, // ISO year rolls forward
		{"2021-01-01", "2020-W53"}, // and backward
		{"2025-02-10", "2025-W07"},
	}
	for _, tt := range tests {
		d, err := time.Parse("2006-01-02", tt.date)
		if err != nil {
			t.Fatal(err)
		}
		if got := WeekKey(d); got != tt.want {
			t.Errorf("WeekKey(%s) = %q, want %q", tt.date, got, tt.want)
		}
	}
}

func TestWeekKeyStable(t *testing.T) {
	d := time.Date(2025, 4, 2, 13, 45, 0, 0, time.UTC)
	first := WeekKey(d)
	for i := 0; i < 5; i++ {
		if got := WeekKey(d); got != first {
			t.Fatalf("WeekKey not stable: %q then %q", first, got)
		}
	}
}

func TestOtherKeys(t *testing.T) {
	d := time.Date(2025, 8, 24, 0, 0, 0, 0, time.UTC)
	if got := MonthKey(d); got != "2025-08" {
		t.Errorf("MonthKey = %q", got)
	}
	if got := QuarterKey(d); got != "2025-Q3" {
		t.Errorf("QuarterKey = %q", got)
	}
	if got := YearKey(d); got != "2025" {
		t.Errorf("YearKey = %q", got)
	}
}

func TestWeekStartEnd(t *testing.T) {
	start, err := WeekStart("2025-W14")
	if err != nil {
		t.Fatalf("WeekStart() error = %v", err)
	}
	if start.Weekday() != time.Monday {
		t.Errorf("WeekStart weekday = %v, want Monday", start.Weekday())
	}
	if got := start.Format("2006-01-02"); got != "2025-03-31" {
		t.Errorf("WeekStart(2025-W14) = %s, want 2025-03-31", got)
	}
	end, err := WeekEnd("2025-W14")
	if err != nil {
		t.Fatal(err)
	}
	if got := end.Format("2006-01-02"); got != "2025-04-06" {
		t.Errorf("WeekEnd(2025-W14) = %s, want 2025-04-06", got)
	}
	// Round trip: every day in the week maps back to the key.
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if WeekKey(d) != "2025-W14" {
			t.Errorf("WeekKey(%s) = %q, want 2025-W14", d.Format("2006-01-02"), WeekKey(d))
		}
	}
}

func TestParseWeekKeyRejectsGarbage(t *testing.T) {
	for _, key := range []string{"", "2025W14", "2025-W99", "2025-W14-x", "W14-2025"} {
		if _, _, err := ParseWeekKey(key); err == nil {
			t.Errorf("ParseWeekKey(%q) succeeded, want error", key)
		}
	}
}

func TestLastCompleteWeek(t *testing.T) {
	asOf := time.Date(2025, 4, 9, 10, 0, 0, 0, time.UTC) // Wednesday of W15
	if got := LastCompleteWeek(asOf); got != "2025-W14" {
		t.Errorf("LastCompleteWeek = %q, want 2025-W14", got)
	}
}

func TestSummaryRanges(t *testing.T) {
	current, previous, err := SummaryRanges("2025-W14")
	if err != nil {
		t.Fatalf("SummaryRanges() error = %v", err)
	}
	if len(current) != 4 || len(previous) != 4 {
		t.Fatalf("got %d current and %d previous ranges", len(current), len(previous))
	}
	week := current[0]
	if week.From.Format("2006-01-02") != "2025-03-31" || week.To.Format("2006-01-02") != "2025-04-06" {
		t.Errorf("week range = %s..%s", week.From.Format("2006-01-02"), week.To.Format("2006-01-02"))
	}
	ytd := current[3]
	if ytd.From.Format("2006-01-02") != "2025-01-01" {
		t.Errorf("ytd starts %s, want 2025-01-01", ytd.From.Format("2006-01-02"))
	}
	if !ytd.Contains(time.Date(2025, 2, 14, 12, 0, 0, 0, time.UTC)) {
		t.Error("ytd should contain mid-February")
	}
	if previous[0].From.Format("2006-01-02") != "2025-03-24" {
		t.Errorf("previous week starts %s", previous[0].From.Format("2006-01-02"))
	}
}
