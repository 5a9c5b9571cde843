// Package report renders the weekly review digest: KPI cards with deltas,
// a per-source breakdown, top risks and drivers from the impact ranking,
// and supporting quotes. Output is HTML for email, CSV for spreadsheets.
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/otherjamesbrown/guestpulse/pkg/aggregate"
	"github.com/otherjamesbrown/guestpulse/pkg/impact"
	"github.com/otherjamesbrown/guestpulse/pkg/ingest"
)

// DefaultTopN is how many risks and drivers the report shows.
const DefaultTopN = 5

// Data is everything the templates need, pre-formatted where display rules
// apply (native /5 ratings, signed deltas).
type Data struct {
	WeekKey     string
	GeneratedAt time.Time
	Summaries   []SummaryView
	Sources     []SourceView
	Risks       []ImpactView
	Drivers     []ImpactView
	Quotes      []QuoteView
}

// SummaryView is one KPI card (week, MTD, QTD, YTD).
type SummaryView struct {
	Label    string
	Reviews  int
	Avg      string // "8.64" or "—"
	NegShare string // "12.5%"
	DeltaAvg string // "+0.32", "-0.18" or ""
}

// SourceView is one row of the per-source table.
type SourceView struct {
	Name     string
	Reviews  int
	Rating   string // "8.6 / 10" or "4.3 / 5" for five-star sources
	Positive int
	Negative int
	Mixed    int
	Neutral  int
}

// ImpactView is one row of the risks or drivers table.
type ImpactView struct {
	AspectCode string
	Mentions   int
	Index      string // formatted impact index
}

// QuoteView is one supporting quote.
type QuoteView struct {
	Source string
	Tone   string // "positive" or "negative"
	Text   string
}

// Subject renders the email subject for a week.
func Subject(weekKey string) string {
	return fmt.Sprintf("Guest reviews — week %s", weekKey)
}

// Build assembles report data from rollups. Impact rows must already be
// thresholded by the caller; Build only splits and trims them.
func Build(weekKey string, summaries []aggregate.SummaryRow, sources []aggregate.SourceRow, impactRows []impact.Row, quotes []aggregate.Quote, now time.Time) Data {
	d := Data{
		WeekKey:     weekKey,
		GeneratedAt: now,
	}

	for _, s := range summaries {
		d.Summaries = append(d.Summaries, SummaryView{
			Label:    s.Label,
			Reviews:  s.Reviews,
			Avg:      fmtAvg(s.AvgRating10),
			NegShare: fmt.Sprintf("%.1f%%", s.NegShare*100),
			DeltaAvg: fmtDelta(s.DeltaAvg),
		})
	}

	for _, s := range sources {
		d.Sources = append(d.Sources, SourceView{
			Name:     ingest.SourceDisplayName(s.Source),
			Reviews:  s.Reviews,
			Rating:   fmtSourceRating(s.Source, s.AvgRating10),
			Positive: s.Positive,
			Negative: s.Negative,
			Mixed:    s.Mixed,
			Neutral:  s.Neutral,
		})
	}

	d.Risks, d.Drivers = splitImpact(impactRows, DefaultTopN)

	for _, q := range quotes {
		name := ingest.SourceDisplayName(q.Source)
		if q.Negative != "" {
			d.Quotes = append(d.Quotes, QuoteView{Source: name, Tone: "negative", Text: q.Negative})
		}
		if q.Positive != "" {
			d.Quotes = append(d.Quotes, QuoteView{Source: name, Tone: "positive", Text: q.Positive})
		}
	}

	return d
}

// splitImpact picks the top risks (by negative index) and top drivers (by
// positive index) out of the ranked rows. A row only qualifies for a table
// when its index is non-trivial, so an aspect never shows up as a "risk"
// purely on frequency.
func splitImpact(rows []impact.Row, topN int) (risks, drivers []ImpactView) {
	byNeg := make([]impact.Row, len(rows))
	copy(byNeg, rows)
	// Aggregate already ranks by negative index first.
	for _, r := range byNeg {
		if len(risks) >= topN {
			break
		}
		if r.IntensityNeg > 0 {
			risks = append(risks, ImpactView{
				AspectCode: r.AspectCode,
				Mentions:   r.Mentions,
				Index:      fmt.Sprintf("%.3f", r.NegativeIndex),
			})
		}
	}

	byPos := make([]impact.Row, len(rows))
	copy(byPos, rows)
	sortByPositive(byPos)
	for _, r := range byPos {
		if len(drivers) >= topN {
			break
		}
		if r.IntensityPos > 0 {
			drivers = append(drivers, ImpactView{
				AspectCode: r.AspectCode,
				Mentions:   r.Mentions,
				Index:      fmt.Sprintf("%.3f", r.PositiveIndex),
			})
		}
	}
	return risks, drivers
}

func sortByPositive(rows []impact.Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].PositiveIndex != rows[j].PositiveIndex {
			return rows[i].PositiveIndex > rows[j].PositiveIndex
		}
		return rows[i].Mentions > rows[j].Mentions
	})
}

func fmtAvg(avg *float64) string {
	if avg == nil {
		return "—"
	}
	return fmt.Sprintf("%.2f", *avg)
}

// fmtDelta formats a rating delta with an explicit sign. A zero delta (or a
// period with no comparison data) renders empty.
func fmtDelta(delta *float64) string {
	switch {
	case delta == nil:
		return ""
	case *delta > 0:
		return fmt.Sprintf("+%.2f", *delta)
	case *delta < 0:
		return fmt.Sprintf("%.2f", *delta)
	default:
		return ""
	}
}

// fmtSourceRating shows the average on the scale guests see on that
// platform: /5 for five-star sources, /10 otherwise.
func fmtSourceRating(source string, avg *float64) string {
	if avg == nil {
		return "—"
	}
	if ingest.SourceIsFiveStar(source) {
		native := ingest.NativeRating(avg, source)
		return fmt.Sprintf("%.1f / 5", *native)
	}
	return fmt.Sprintf("%.1f / 10", *avg)
}
