package aggregate

import (
	"testing"
	"time"

	"github.com/otherjamesbrown/guestpulse/pkg/analyze"
	"github.com/otherjamesbrown/guestpulse/pkg/lexicon"
	"github.com/otherjamesbrown/guestpulse/pkg/period"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func f(v float64) *float64 { return &v }

func res(id, source, date string, rating *float64, label analyze.Label) analyze.Result {
	d := day(date)
	return analyze.Result{
		ReviewID:         id,
		Source:           source,
		CreatedAt:        d,
		WeekKey:          period.WeekKey(d),
		Rating:           rating,
		SentimentOverall: label,
	}
}

func withAspects(r analyze.Result, hits ...analyze.AspectHit) analyze.Result {
	for i := range hits {
		hits[i].ReviewID = r.ReviewID
		hits[i].CreatedAt = r.CreatedAt
		hits[i].WeekKey = r.WeekKey
		hits[i].Source = r.Source
		hits[i].Rating = r.Rating
		hits[i].SentimentOverall = r.SentimentOverall
	}
	r.Aspects = hits
	return r
}

func hit(code, topic string, pol lexicon.Polarity) analyze.AspectHit {
	return analyze.AspectHit{AspectCode: code, Topic: topic, Polarity: pol}
}

func TestKPIRows(t *testing.T) {
	results := []analyze.Result{
		res("a", "booking", "2025-04-02", f(9), analyze.LabelPositive),
		res("b", "yandex", "2025-04-03", f(4), analyze.LabelNegative),
		res("c", "yandex", "2025-04-04", nil, analyze.LabelNeutral),
		res("a", "booking", "2025-04-02", f(9), analyze.LabelPositive), // duplicate
		res("d", "booking", "2025-04-09", f(7), analyze.LabelMixed),    // next week
	}
	rows := KPIRows(results)

	var week *KPIRow
	for i := range rows {
		if rows[i].PeriodType == period.LevelWeek && rows[i].PeriodKey == "2025-W14" {
			week = &rows[i]
		}
	}
	if week == nil {
		t.Fatalf("no 2025-W14 week row in %+v", rows)
	}
	if week.Reviews != 3 {
		t.Errorf("Reviews = %d, want 3 (duplicate dropped)", week.Reviews)
	}
	if week.AvgRating10 == nil || *week.AvgRating10 != 6.5 {
		t.Errorf("AvgRating10 = %v, want 6.5", week.AvgRating10)
	}
	if week.Positive != 1 || week.Negative != 1 || week.Neutral != 1 || week.Mixed != 0 {
		t.Errorf("counts = %+v", week)
	}

	var month *KPIRow
	for i := range rows {
		if rows[i].PeriodType == period.LevelMonth && rows[i].PeriodKey == "2025-04" {
			month = &rows[i]
		}
	}
	if month == nil || month.Reviews != 4 {
		t.Fatalf("month row = %+v, want 4 reviews", month)
	}
	if month.Positive+month.Neutral+month.Negative+month.Mixed != month.Reviews {
		t.Errorf("verdict counts do not sum to reviews: %+v", month)
	}
}

func TestSourceWeeklyRows(t *testing.T) {
	results := []analyze.Result{
		res("a", "booking", "2025-04-02", f(9), analyze.LabelPositive),
		res("b", "yandex", "2025-04-03", f(4), analyze.LabelNegative),
		res("c", "yandex", "2025-04-04", f(6), analyze.LabelNeutral),
	}
	rows := SourceWeeklyRows(results)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].Source != "booking" || rows[1].Source != "yandex" {
		t.Errorf("rows not ordered by source: %+v", rows)
	}
	y := rows[1]
	if y.Reviews != 2 || y.AvgRating10 == nil || *y.AvgRating10 != 5 {
		t.Errorf("yandex row = %+v", y)
	}
}

func TestAspectRows(t *testing.T) {
	results := []analyze.Result{
		withAspects(res("a", "booking", "2025-04-02", f(9), analyze.LabelPositive),
			hit("breakfast_tasty", "breakfast", lexicon.PolarityPositive)),
		withAspects(res("b", "booking", "2025-04-03", f(3), analyze.LabelNegative),
			hit("room_dirty", "cleanliness", lexicon.PolarityNegative)),
		withAspects(res("c", "yandex", "2025-04-04", f(8), analyze.LabelPositive),
			hit("breakfast_tasty", "breakfast", lexicon.PolarityPositive),
			hit("breakfast_tasty", "breakfast", lexicon.PolarityPositive)), // second sentence
	}
	rows := AspectRows(results)

	find := func(scope, aspect string) *AspectRow {
		for i := range rows {
			r := &rows[i]
			if r.PeriodType == period.LevelWeek && r.SourceScope == scope && r.AspectCode == aspect {
				return r
			}
		}
		return nil
	}

	bt := find(ScopeAll, "breakfast_tasty")
	if bt == nil {
		t.Fatal("missing all-scope breakfast_tasty row")
	}
	if bt.Mentions != 2 {
		t.Errorf("Mentions = %d, want 2 distinct reviews", bt.Mentions)
	}
	if bt.PosMentions != 2 || bt.NegMentions != 0 || bt.NeuMentions != 0 {
		t.Errorf("mention split = %+v", bt)
	}
	if bt.PosShare != 1 {
		t.Errorf("PosShare = %v, want 1", bt.PosShare)
	}
	// Both of the period's positive reviews mention it positively.
	if bt.PosWeight != 1 {
		t.Errorf("PosWeight = %v, want 1", bt.PosWeight)
	}

	rd := find(ScopeAll, "room_dirty")
	if rd == nil {
		t.Fatal("missing all-scope room_dirty row")
	}
	if rd.NegWeight != 1 {
		t.Errorf("NegWeight = %v, want 1 (the only negative review mentions it)", rd.NegWeight)
	}

	// Source scope narrows the sets.
	btBooking := find("booking", "breakfast_tasty")
	if btBooking == nil || btBooking.Mentions != 1 {
		t.Fatalf("booking-scope breakfast_tasty = %+v, want 1 mention", btBooking)
	}

	// "all" scope sorts before named sources within a period.
	for i := 1; i < len(rows); i++ {
		a, b := rows[i-1], rows[i]
		if a.PeriodType == b.PeriodType && a.PeriodKey == b.PeriodKey &&
			a.SourceScope != ScopeAll && b.SourceScope == ScopeAll {
			t.Fatalf("all scope sorted after %q", a.SourceScope)
		}
	}
}

func TestPairRows(t *testing.T) {
	lex := lexicon.Builtin()
	results := []analyze.Result{
		withAspects(res("a", "booking", "2025-04-02", f(3), analyze.LabelNegative),
			hit("room_dirty", "cleanliness", lexicon.PolarityNegative),
			hit("staff_rude", "staff", lexicon.PolarityNegative)),
		withAspects(res("b", "booking", "2025-04-03", f(4), analyze.LabelNegative),
			hit("room_dirty", "cleanliness", lexicon.PolarityNegative),
			hit("staff_rude", "staff", lexicon.PolarityNegative)),
		withAspects(res("c", "booking", "2025-04-04", f(2), analyze.LabelNegative),
			hit("ac_noisy", "comfort", lexicon.PolarityNegative),
			hit("noisy_room", "comfort", lexicon.PolarityNegative)),
	}
	rows := PairRows(results, lex)

	var cross, shared *PairRow
	for i := range rows {
		if rows[i].PeriodType != period.LevelWeek {
			continue
		}
		switch rows[i].PairKey {
		case "room_dirty|staff_rude":
			cross = &rows[i]
		case "ac_noisy|noisy_room":
			shared = &rows[i]
		}
	}
	if cross == nil || shared == nil {
		t.Fatalf("missing expected pairs in %+v", rows)
	}
	if cross.Category != CategoryCrossTopic {
		t.Errorf("room_dirty|staff_rude category = %q, want cross_topic", cross.Category)
	}
	if cross.DistinctReviews != 2 {
		t.Errorf("DistinctReviews = %d, want 2", cross.DistinctReviews)
	}
	if shared.Category != "comfort" {
		t.Errorf("ac_noisy|noisy_room category = %q, want comfort", shared.Category)
	}
	// More frequent pair ranks first inside the week.
	if rows[0].PeriodType == period.LevelWeek && rows[0].PairKey != "room_dirty|staff_rude" {
		t.Errorf("first week pair = %q, want the 2-review pair", rows[0].PairKey)
	}
}

func TestQuoteCandidates(t *testing.T) {
	lex := lexicon.Builtin()
	r := res("a", "yandex", "2025-04-02", f(7), analyze.LabelMixed)
	r.Language = "ru"
	r.RawText = "Персонал очень дружелюбный. Но в номере грязно."
	q := QuoteCandidates(r, lex)
	if q.Positive == "" {
		t.Error("want a positive quote for the friendly-staff sentence")
	}
	if q.Negative == "" {
		t.Error("want a negative quote for the dirty-room sentence")
	}
	if q.Positive == q.Negative {
		t.Errorf("quotes should differ, both = %q", q.Positive)
	}
}

func TestQuoteTrimming(t *testing.T) {
	lex := lexicon.Builtin()
	long := "Great stay"
	for i := 0; i < 60; i++ {
		long += " and very nice"
	}
	r := res("a", "booking", "2025-04-02", f(9), analyze.LabelPositive)
	r.Language = "en"
	r.RawText = long
	q := QuoteCandidates(r, lex)
	if n := len([]rune(q.Positive)); n > 180 {
		t.Errorf("quote is %d runes, want <= 180", n)
	}
}

func TestSummaries(t *testing.T) {
	results := []analyze.Result{
		// Report week 2025-W14 (Mar 31 - Apr 6).
		res("a", "booking", "2025-04-01", f(8), analyze.LabelPositive),
		res("b", "booking", "2025-04-02", f(6), analyze.LabelNegative),
		// Previous week.
		res("c", "booking", "2025-03-26", f(9), analyze.LabelPositive),
		// Earlier in the quarter.
		res("d", "booking", "2025-02-10", f(5), analyze.LabelNegative),
	}
	rows, err := Summaries(results, "2025-W14")
	if err != nil {
		t.Fatalf("Summaries() error = %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want week/mtd/qtd/ytd", len(rows))
	}

	week := rows[0]
	if week.Label != "week" || week.Reviews != 2 {
		t.Fatalf("week row = %+v", week)
	}
	if week.AvgRating10 == nil || *week.AvgRating10 != 7 {
		t.Errorf("week avg = %v, want 7", week.AvgRating10)
	}
	if week.PrevReviews != 1 || week.PrevAvgRating10 == nil || *week.PrevAvgRating10 != 9 {
		t.Errorf("prev week = %+v", week)
	}
	if week.DeltaAvg == nil || *week.DeltaAvg != -2 {
		t.Errorf("DeltaAvg = %v, want -2", week.DeltaAvg)
	}
	if week.NegShare != 0.5 {
		t.Errorf("NegShare = %v, want 0.5", week.NegShare)
	}

	ytd := rows[3]
	if ytd.Label != "ytd" || ytd.Reviews != 4 {
		t.Errorf("ytd row = %+v, want all 4 reviews", ytd)
	}
	if ytd.PrevReviews != 0 || ytd.DeltaAvg != nil {
		t.Errorf("no prior-year data: prev = %d, delta = %v", ytd.PrevReviews, ytd.DeltaAvg)
	}
}

func TestSummariesBadWeekKey(t *testing.T) {
	if _, err := Summaries(nil, "garbage"); err == nil {
		t.Error("expected error for malformed week key")
	}
}
