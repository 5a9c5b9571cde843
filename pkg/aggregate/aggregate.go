// Package aggregate turns per-review analysis results into the period
// rollup rows the history store keeps: KPI counts, per-source weekly
// breakdowns, aspect shares and weights, and aspect co-occurrence pairs.
// Everything here is a pure function over deduplicated results.
package aggregate

import (
	"math"
	"sort"

	"github.com/otherjamesbrown/guestpulse/pkg/analyze"
	"github.com/otherjamesbrown/guestpulse/pkg/period"
)

// KPIRow is one period's headline counts.
type KPIRow struct {
	PeriodType  period.Level `json:"period_type"`
	PeriodKey   string       `json:"period_key"`
	Reviews     int          `json:"reviews"`
	AvgRating10 *float64     `json:"avg_rating10,omitempty"` // 2 dp, nil when no rated reviews
	Positive    int          `json:"positive"`
	Neutral     int          `json:"neutral"`
	Negative    int          `json:"negative"`
	Mixed       int          `json:"mixed"`
}

// SourceRow is one source's weekly breakdown.
type SourceRow struct {
	WeekKey     string   `json:"week_key"`
	Source      string   `json:"source"`
	Reviews     int      `json:"reviews"`
	AvgRating10 *float64 `json:"avg_rating10,omitempty"`
	Positive    int      `json:"positive"`
	Neutral     int      `json:"neutral"`
	Negative    int      `json:"negative"`
	Mixed       int      `json:"mixed"`
}

// Dedupe drops repeated review IDs, keeping the first occurrence. Every
// rollup in this package runs on deduplicated input so re-ingesting an
// overlapping export cannot double-count.
func Dedupe(results []analyze.Result) []analyze.Result {
	seen := make(map[string]bool, len(results))
	out := make([]analyze.Result, 0, len(results))
	for _, r := range results {
		if seen[r.ReviewID] {
			continue
		}
		seen[r.ReviewID] = true
		out = append(out, r)
	}
	return out
}

type counts struct {
	reviews   int
	ratingSum float64
	rated     int
	positive  int
	neutral   int
	negative  int
	mixed     int
}

func (c *counts) add(r analyze.Result) {
	c.reviews++
	if r.Rating != nil {
		c.ratingSum += *r.Rating
		c.rated++
	}
	switch r.SentimentOverall {
	case analyze.LabelPositive:
		c.positive++
	case analyze.LabelNegative:
		c.negative++
	case analyze.LabelMixed:
		c.mixed++
	default:
		c.neutral++
	}
}

func (c *counts) avg() *float64 {
	if c.rated == 0 {
		return nil
	}
	v := round2(c.ratingSum / float64(c.rated))
	return &v
}

// KPIRows computes headline counts for every period touched by the results,
// at all four levels. Ordered by level (week first) then key.
func KPIRows(results []analyze.Result) []KPIRow {
	results = Dedupe(results)
	byKey := map[period.Level]map[string]*counts{}
	for _, level := range period.Levels() {
		byKey[level] = map[string]*counts{}
	}
	for _, r := range results {
		for _, level := range period.Levels() {
			key := period.Key(level, r.CreatedAt)
			c := byKey[level][key]
			if c == nil {
				c = &counts{}
				byKey[level][key] = c
			}
			c.add(r)
		}
	}

	var rows []KPIRow
	for _, level := range period.Levels() {
		keys := make([]string, 0, len(byKey[level]))
		for k := range byKey[level] {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			c := byKey[level][k]
			rows = append(rows, KPIRow{
				PeriodType:  level,
				PeriodKey:   k,
				Reviews:     c.reviews,
				AvgRating10: c.avg(),
				Positive:    c.positive,
				Neutral:     c.neutral,
				Negative:    c.negative,
				Mixed:       c.mixed,
			})
		}
	}
	return rows
}

// SourceWeeklyRows computes per-source counts for every week touched.
// Ordered by week key then source.
func SourceWeeklyRows(results []analyze.Result) []SourceRow {
	results = Dedupe(results)
	type skey struct{ week, source string }
	byKey := map[skey]*counts{}
	for _, r := range results {
		k := skey{week: r.WeekKey, source: r.Source}
		c := byKey[k]
		if c == nil {
			c = &counts{}
			byKey[k] = c
		}
		c.add(r)
	}

	keys := make([]skey, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].week != keys[j].week {
			return keys[i].week < keys[j].week
		}
		return keys[i].source < keys[j].source
	})

	rows := make([]SourceRow, 0, len(keys))
	for _, k := range keys {
		c := byKey[k]
		rows = append(rows, SourceRow{
			WeekKey:     k.week,
			Source:      k.source,
			Reviews:     c.reviews,
			AvgRating10: c.avg(),
			Positive:    c.positive,
			Neutral:     c.neutral,
			Negative:    c.negative,
			Mixed:       c.mixed,
		})
	}
	return rows
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
