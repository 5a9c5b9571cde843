// Package impact computes the period aspect-impact indices that rank which
// aspects drive scores up (drivers) or down (risks). It is a pure function
// over one period's analysis results; callers apply their own
// minimum-mention threshold before display.
package impact

import (
	"sort"

	"github.com/otherjamesbrown/guestpulse/pkg/analyze"
	"github.com/otherjamesbrown/guestpulse/pkg/lexicon"
)

// Row is the per-aspect impact summary for one period.
type Row struct {
	AspectCode    string  `json:"aspect_code"`
	Mentions      int     `json:"mentions"` // distinct reviews with this aspect
	Frequency     float64 `json:"frequency"`
	IntensityPos  float64 `json:"intensity_pos"`
	IntensityNeg  float64 `json:"intensity_neg"`
	ShareHi       float64 `json:"share_hi"`
	ShareLo       float64 `json:"share_lo"`
	PositiveIndex float64 `json:"positive_impact_index"`
	NegativeIndex float64 `json:"negative_impact_index"`
}

// rating bands: hi is 9+, mid is [7,8], lo is 6 and below. A missing rating
// belongs to no band.
func bands(rating *float64) (hi, mid, lo bool) {
	if rating == nil {
		return false, false, false
	}
	switch r := *rating; {
	case r >= 9:
		return true, false, false
	case r >= 7:
		return false, true, false
	default:
		return false, false, true
	}
}

// mentionWeight scores one deduplicated hit. A positive-polarity mention is
// worth 1.0 in a hi-band review, 0.6 in a mid-band review, 0.6 in a
// positive-overall review whose rating is absent or non-extreme, else 0.
// A lo-band rating overrules a positive overall verdict. Negative mentions
// mirror against the lo band and a negative overall verdict, with the hi
// band overruling. Neutral-polarity mentions carry no weight.
func mentionWeight(h analyze.AspectHit) (pos, neg float64, counted bool) {
	hi, mid, lo := bands(h.Rating)
	switch h.Polarity {
	case lexicon.PolarityPositive:
		switch {
		case hi:
			return 1.0, 0, true
		case mid, !lo && h.SentimentOverall == analyze.LabelPositive:
			return 0.6, 0, true
		default:
			return 0, 0, true
		}
	case lexicon.PolarityNegative:
		switch {
		case lo:
			return 0, 1.0, true
		case mid, !hi && h.SentimentOverall == analyze.LabelNegative:
			return 0, 0.6, true
		default:
			return 0, 0, true
		}
	default:
		return 0, 0, false
	}
}

// Aggregate computes one Row per aspect present in the period. Results are
// deduplicated by review_id and hits by (aspect_code, review_id): an aspect
// counts once per review no matter how many sentences triggered it. Rows
// come back ranked by negative index desc, positive index desc, mentions
// desc, which is the contract for top-risk / top-driver selection.
func Aggregate(results []analyze.Result, hits []analyze.AspectHit) []Row {
	reviews := map[string]bool{}
	for _, r := range results {
		reviews[r.ReviewID] = true
	}
	total := len(reviews)
	if total < 1 {
		total = 1
	}

	type key struct{ aspect, review string }
	seen := map[key]bool{}

	type acc struct {
		mentions  int
		posWeight float64
		posCount  int
		negWeight float64
		negCount  int
		hiCount   int
		loCount   int
	}
	byAspect := map[string]*acc{}
	var order []string

	for _, h := range hits {
		k := key{aspect: h.AspectCode, review: h.ReviewID}
		if seen[k] {
			continue
		}
		seen[k] = true

		a := byAspect[h.AspectCode]
		if a == nil {
			a = &acc{}
			byAspect[h.AspectCode] = a
			order = append(order, h.AspectCode)
		}
		a.mentions++

		hi, _, lo := bands(h.Rating)
		if hi {
			a.hiCount++
		}
		if lo {
			a.loCount++
		}

		pos, neg, counted := mentionWeight(h)
		if !counted {
			continue
		}
		if h.Polarity == lexicon.PolarityPositive {
			a.posWeight += pos
			a.posCount++
		} else {
			a.negWeight += neg
			a.negCount++
		}
	}

	rows := make([]Row, 0, len(order))
	for _, code := range order {
		a := byAspect[code]
		row := Row{
			AspectCode: code,
			Mentions:   a.mentions,
			Frequency:  float64(a.mentions) / float64(total),
			ShareHi:    float64(a.hiCount) / float64(a.mentions),
			ShareLo:    float64(a.loCount) / float64(a.mentions),
		}
		if a.posCount > 0 {
			row.IntensityPos = a.posWeight / float64(a.posCount)
		}
		if a.negCount > 0 {
			row.IntensityNeg = a.negWeight / float64(a.negCount)
		}
		row.PositiveIndex = 0.50*row.Frequency + 0.30*row.IntensityPos + 0.20*row.ShareHi
		row.NegativeIndex = 0.50*row.Frequency + 0.30*row.IntensityNeg + 0.20*row.ShareLo
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].NegativeIndex != rows[j].NegativeIndex {
			return rows[i].NegativeIndex > rows[j].NegativeIndex
		}
		if rows[i].PositiveIndex != rows[j].PositiveIndex {
			return rows[i].PositiveIndex > rows[j].PositiveIndex
		}
		return rows[i].Mentions > rows[j].Mentions
	})
	return rows
}

// FilterMinMentions drops rows below the mention floor, preserving rank
// order. The weekly report uses 2 so one-off comments do not top the list.
func FilterMinMentions(rows []Row, min int) []Row {
	if min <= 1 {
		return rows
	}
	out := rows[:0:0]
	for _, r := range rows {
		if r.Mentions >= min {
			out = append(out, r)
		}
	}
	return out
}
