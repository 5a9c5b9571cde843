package aggregate

import (
	"github.com/otherjamesbrown/guestpulse/pkg/analyze"
	"github.com/otherjamesbrown/guestpulse/pkg/period"
)

// SummaryRow compares one to-date window against its previous counterpart.
// Deltas are in rating points and share points; nil when either side has no
// rated reviews to compare.
type SummaryRow struct {
	Label           string   `json:"label"` // week, mtd, qtd, ytd
	Reviews         int      `json:"reviews"`
	AvgRating10     *float64 `json:"avg_rating10,omitempty"`
	NegShare        float64  `json:"neg_share"` // negative+mixed, 4 dp
	PrevReviews     int      `json:"prev_reviews"`
	PrevAvgRating10 *float64 `json:"prev_avg_rating10,omitempty"`
	DeltaAvg        *float64 `json:"delta_avg,omitempty"`
	DeltaNegShare   *float64 `json:"delta_neg_share,omitempty"`
}

// Summaries computes the weekly report's comparison table for the report
// week: the week itself plus month-, quarter- and year-to-date, each against
// the equivalent slice of the previous period.
func Summaries(results []analyze.Result, weekKey string) ([]SummaryRow, error) {
	current, previous, err := period.SummaryRanges(weekKey)
	if err != nil {
		return nil, err
	}
	results = Dedupe(results)

	rows := make([]SummaryRow, 0, len(current))
	for i := range current {
		cur := windowCounts(results, current[i])
		prev := windowCounts(results, previous[i])

		row := SummaryRow{
			Label:           current[i].Label,
			Reviews:         cur.reviews,
			AvgRating10:     cur.avg(),
			NegShare:        negShare(cur),
			PrevReviews:     prev.reviews,
			PrevAvgRating10: prev.avg(),
		}
		if row.AvgRating10 != nil && row.PrevAvgRating10 != nil {
			d := round2(*row.AvgRating10 - *row.PrevAvgRating10)
			row.DeltaAvg = &d
		}
		if cur.reviews > 0 && prev.reviews > 0 {
			d := round4(negShare(cur) - negShare(prev))
			row.DeltaNegShare = &d
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func windowCounts(results []analyze.Result, r period.Range) *counts {
	c := &counts{}
	for _, res := range results {
		if r.Contains(res.CreatedAt) {
			c.add(res)
		}
	}
	return c
}

// negShare counts mixed reviews as negative signal: a mixed review still
// carries a complaint worth tracking.
func negShare(c *counts) float64 {
	if c.reviews == 0 {
		return 0
	}
	return round4(float64(c.negative+c.mixed) / float64(c.reviews))
}
