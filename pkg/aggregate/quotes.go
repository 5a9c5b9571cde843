package aggregate

import (
	"github.com/otherjamesbrown/guestpulse/pkg/analyze"
	"github.com/otherjamesbrown/guestpulse/pkg/lexicon"
)

// quoteMaxRunes keeps quotes short enough for the report's quote list.
const quoteMaxRunes = 180

// Quote holds a review's first positive-toned and first negative-toned
// sentence, if any. Either side may be empty.
type Quote struct {
	ReviewID string `json:"review_id"`
	Source   string `json:"source"`
	WeekKey  string `json:"week_key"`
	Positive string `json:"positive,omitempty"`
	Negative string `json:"negative,omitempty"`
}

// QuoteCandidates picks quotable sentences out of one review: the first
// sentence that fires a positive bucket and the first that fires a negative
// one, each trimmed to 180 runes.
func QuoteCandidates(r analyze.Result, lex *lexicon.Lexicon) Quote {
	q := Quote{ReviewID: r.ReviewID, Source: r.Source, WeekKey: r.WeekKey}
	langs := lexicon.CandidateLanguages(r.Language)
	for _, sentence := range analyze.Segment(analyze.Normalize(r.RawText)) {
		if q.Positive == "" &&
			(lex.SentimentMatch(lexicon.BucketPositiveStrong, sentence, langs) ||
				lex.SentimentMatch(lexicon.BucketPositiveSoft, sentence, langs)) {
			q.Positive = trimRunes(sentence, quoteMaxRunes)
		}
		if q.Negative == "" &&
			(lex.SentimentMatch(lexicon.BucketNegativeStrong, sentence, langs) ||
				lex.SentimentMatch(lexicon.BucketNegativeSoft, sentence, langs)) {
			q.Negative = trimRunes(sentence, quoteMaxRunes)
		}
		if q.Positive != "" && q.Negative != "" {
			break
		}
	}
	return q
}

// Quotes collects quote candidates for every review that yields at least one.
func Quotes(results []analyze.Result, lex *lexicon.Lexicon) []Quote {
	var out []Quote
	for _, r := range Dedupe(results) {
		q := QuoteCandidates(r, lex)
		if q.Positive != "" || q.Negative != "" {
			out = append(out, q)
		}
	}
	return out
}

func trimRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
