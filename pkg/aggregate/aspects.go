package aggregate

import (
	"sort"

	"github.com/otherjamesbrown/guestpulse/pkg/analyze"
	"github.com/otherjamesbrown/guestpulse/pkg/lexicon"
	"github.com/otherjamesbrown/guestpulse/pkg/period"
)

// ScopeAll is the source scope covering every source in the period.
const ScopeAll = "all"

// AspectRow summarizes one aspect inside one (period, source scope) cell.
// Weights relate the aspect to the period's overall verdicts: PosWeight is
// the share of the period's positive reviews that mention this aspect
// positively, so a high-weight aspect "explains" the period's mood.
type AspectRow struct {
	PeriodType  period.Level `json:"period_type"`
	PeriodKey   string       `json:"period_key"`
	SourceScope string       `json:"source_scope"`
	AspectCode  string       `json:"aspect_code"`
	Mentions    int          `json:"mentions_total"` // distinct reviews
	PosMentions int          `json:"pos_mentions"`
	NegMentions int          `json:"neg_mentions"`
	NeuMentions int          `json:"neu_mentions"`
	PosShare    float64      `json:"pos_share"` // 4 dp
	NegShare    float64      `json:"neg_share"`
	PosWeight   float64      `json:"pos_weight"`
	NegWeight   float64      `json:"neg_weight"`
}

type aspectAcc struct {
	reviews    map[string]bool
	posReviews map[string]bool
	negReviews map[string]bool
}

func newAspectAcc() *aspectAcc {
	return &aspectAcc{
		reviews:    map[string]bool{},
		posReviews: map[string]bool{},
		negReviews: map[string]bool{},
	}
}

// AspectRows computes aspect rollups for every (level, key, scope) cell the
// results touch. Scope "all" plus one scope per source present. Ordered by
// level, key, scope ("all" first), mentions desc, aspect code.
func AspectRows(results []analyze.Result) []AspectRow {
	results = Dedupe(results)

	type cell struct {
		level  period.Level
		key    string
		scope  string
		aspect string
	}
	accs := map[cell]*aspectAcc{}
	// Positive/negative review sets per (level, key, scope) for the weights.
	type pcell struct {
		level period.Level
		key   string
		scope string
	}
	posSet := map[pcell]map[string]bool{}
	negSet := map[pcell]map[string]bool{}

	addVerdict := func(p pcell, r analyze.Result) {
		switch r.SentimentOverall {
		case analyze.LabelPositive:
			if posSet[p] == nil {
				posSet[p] = map[string]bool{}
			}
			posSet[p][r.ReviewID] = true
		case analyze.LabelNegative:
			if negSet[p] == nil {
				negSet[p] = map[string]bool{}
			}
			negSet[p][r.ReviewID] = true
		}
	}

	for _, r := range results {
		for _, level := range period.Levels() {
			key := period.Key(level, r.CreatedAt)
			for _, scope := range []string{ScopeAll, r.Source} {
				if scope == "" {
					continue
				}
				addVerdict(pcell{level, key, scope}, r)
				for _, h := range r.Aspects {
					c := cell{level, key, scope, h.AspectCode}
					a := accs[c]
					if a == nil {
						a = newAspectAcc()
						accs[c] = a
					}
					a.reviews[r.ReviewID] = true
					switch h.Polarity {
					case lexicon.PolarityPositive:
						a.posReviews[r.ReviewID] = true
					case lexicon.PolarityNegative:
						a.negReviews[r.ReviewID] = true
					}
				}
			}
		}
	}

	rows := make([]AspectRow, 0, len(accs))
	for c, a := range accs {
		p := pcell{c.level, c.key, c.scope}
		row := AspectRow{
			PeriodType:  c.level,
			PeriodKey:   c.key,
			SourceScope: c.scope,
			AspectCode:  c.aspect,
			Mentions:    len(a.reviews),
			PosMentions: len(a.posReviews),
			NegMentions: len(a.negReviews),
		}
		row.NeuMentions = row.Mentions - len(union(a.posReviews, a.negReviews))
		if row.Mentions > 0 {
			row.PosShare = round4(float64(row.PosMentions) / float64(row.Mentions))
			row.NegShare = round4(float64(row.NegMentions) / float64(row.Mentions))
		}
		if n := len(posSet[p]); n > 0 {
			row.PosWeight = round4(float64(intersect(a.posReviews, posSet[p])) / float64(n))
		}
		if n := len(negSet[p]); n > 0 {
			row.NegWeight = round4(float64(intersect(a.negReviews, negSet[p])) / float64(n))
		}
		rows = append(rows, row)
	}

	levelOrder := map[period.Level]int{}
	for i, l := range period.Levels() {
		levelOrder[l] = i
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if levelOrder[a.PeriodType] != levelOrder[b.PeriodType] {
			return levelOrder[a.PeriodType] < levelOrder[b.PeriodType]
		}
		if a.PeriodKey != b.PeriodKey {
			return a.PeriodKey < b.PeriodKey
		}
		if (a.SourceScope == ScopeAll) != (b.SourceScope == ScopeAll) {
			return a.SourceScope == ScopeAll
		}
		if a.SourceScope != b.SourceScope {
			return a.SourceScope < b.SourceScope
		}
		if a.Mentions != b.Mentions {
			return a.Mentions > b.Mentions
		}
		return a.AspectCode < b.AspectCode
	})
	return rows
}

func union(a, b map[string]bool) map[string]bool {
	out := make(map[string]bool, len(a)+len(b))
	for k := range a {
		out[k] = true
	}
	for k := range b {
		out[k] = true
	}
	return out
}

func intersect(a, b map[string]bool) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for k := range a {
		if b[k] {
			n++
		}
	}
	return n
}
