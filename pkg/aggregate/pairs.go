package aggregate

import (
	"sort"

	"github.com/otherjamesbrown/guestpulse/pkg/analyze"
	"github.com/otherjamesbrown/guestpulse/pkg/lexicon"
	"github.com/otherjamesbrown/guestpulse/pkg/period"
)

// CategoryCrossTopic marks a pair whose aspects bind to different topics.
const CategoryCrossTopic = "cross_topic"

// PairRow is one co-occurring aspect pair inside a period. Pairs surface
// compound complaints ("dirty room AND rude staff") that single-aspect
// rollups hide.
type PairRow struct {
	PeriodType      period.Level `json:"period_type"`
	PeriodKey       string       `json:"period_key"`
	PairKey         string       `json:"pair_key"` // sorted codes joined by "|"
	Category        string       `json:"category"` // shared topic key or cross_topic
	DistinctReviews int          `json:"distinct_reviews"`
	ExampleQuote    string       `json:"example_quote,omitempty"`
}

// PairKey builds the canonical unordered key for two aspect codes.
func PairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "|" + b
}

// PairRows computes aspect co-occurrence pairs per period. The category and
// example quote come from the earliest contributing review: the category is
// the topic both aspects bound to there, or cross_topic when they differ.
func PairRows(results []analyze.Result, lex *lexicon.Lexicon) []PairRow {
	results = Dedupe(results)
	// Earliest review first so the first contribution wins deterministically.
	sort.SliceStable(results, func(i, j int) bool {
		if !results[i].CreatedAt.Equal(results[j].CreatedAt) {
			return results[i].CreatedAt.Before(results[j].CreatedAt)
		}
		return results[i].ReviewID < results[j].ReviewID
	})

	type cell struct {
		level period.Level
		key   string
		pair  string
	}
	type acc struct {
		reviews  map[string]bool
		category string
		quote    string
	}
	accs := map[cell]*acc{}

	for _, r := range results {
		// Distinct aspect codes in the review, each with its first binding.
		topicOf := map[string]string{}
		var codes []string
		for _, h := range r.Aspects {
			if _, ok := topicOf[h.AspectCode]; !ok {
				topicOf[h.AspectCode] = h.Topic
				codes = append(codes, h.AspectCode)
			}
		}
		if len(codes) < 2 {
			continue
		}
		sort.Strings(codes)

		for i := 0; i < len(codes); i++ {
			for j := i + 1; j < len(codes); j++ {
				pair := PairKey(codes[i], codes[j])
				category := CategoryCrossTopic
				if topicOf[codes[i]] == topicOf[codes[j]] {
					category = topicOf[codes[i]]
				}
				for _, level := range period.Levels() {
					c := cell{level, period.Key(level, r.CreatedAt), pair}
					a := accs[c]
					if a == nil {
						a = &acc{reviews: map[string]bool{}, category: category}
						if q := QuoteCandidates(r, lex); q.Positive != "" {
							a.quote = q.Positive
						} else {
							a.quote = q.Negative
						}
						accs[c] = a
					}
					a.reviews[r.ReviewID] = true
				}
			}
		}
	}

	levelOrder := map[period.Level]int{}
	for i, l := range period.Levels() {
		levelOrder[l] = i
	}
	rows := make([]PairRow, 0, len(accs))
	for c, a := range accs {
		rows = append(rows, PairRow{
			PeriodType:      c.level,
			PeriodKey:       c.key,
			PairKey:         c.pair,
			Category:        a.category,
			DistinctReviews: len(a.reviews),
			ExampleQuote:    a.quote,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if levelOrder[a.PeriodType] != levelOrder[b.PeriodType] {
			return levelOrder[a.PeriodType] < levelOrder[b.PeriodType]
		}
		if a.PeriodKey != b.PeriodKey {
			return a.PeriodKey < b.PeriodKey
		}
		if a.DistinctReviews != b.DistinctReviews {
			return a.DistinctReviews > b.DistinctReviews
		}
		return a.PairKey < b.PairKey
	})
	return rows
}
