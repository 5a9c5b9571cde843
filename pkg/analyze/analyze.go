package analyze

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/otherjamesbrown/guestpulse/pkg/errors"
	"github.com/otherjamesbrown/guestpulse/pkg/lexicon"
	"github.com/otherjamesbrown/guestpulse/pkg/period"
)

// dateLayouts are tried in order when parsing Input.CreatedAt.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"02.01.2006",
	"2006/01/02",
}

// ParseDate normalizes a raw date value to a UTC calendar date. Time-of-day
// components are accepted and discarded.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable date %q", raw)
}

// Analyze runs the full pipeline for one review: date normalization and week
// key derivation, sentiment classification over the raw text, then one
// normalize+segment pass with per-sentence topic matching and aspect binding.
// The only failure is an unparsable date, returned as an AnalysisError so
// batch callers can isolate it.
func Analyze(in Input, lex *lexicon.Lexicon) (Result, error) {
	createdAt, err := ParseDate(in.CreatedAt)
	if err != nil {
		return Result{}, errors.NewAnalysisError(in.ReviewID, errors.StageDate, err)
	}
	weekKey := period.WeekKey(createdAt)

	label, detail := ClassifySentiment(in.Text, in.Language, lex)
	score := Score(detail, in.Rating)

	ctx := ReviewContext{
		ReviewID:         in.ReviewID,
		CreatedAt:        createdAt,
		WeekKey:          weekKey,
		Source:           in.Source,
		Rating:           in.Rating,
		SentimentOverall: label,
		Language:         in.Language,
	}

	langs := lexicon.CandidateLanguages(in.Language)
	sentences := Segment(Normalize(in.Text))

	seen := make(map[TopicPair]bool)
	var topicHits []TopicPair
	var aspects []AspectHit
	for _, sentence := range sentences {
		sentenceTopics := TopicsIn(sentence, langs, lex)
		for _, p := range sentenceTopics {
			if !seen[p] {
				seen[p] = true
				topicHits = append(topicHits, p)
			}
		}
		aspects = append(aspects, AspectsIn(sentence, langs, lex, sentenceTopics, ctx)...)
	}
	sort.Slice(topicHits, func(i, j int) bool {
		if topicHits[i].Topic != topicHits[j].Topic {
			return topicHits[i].Topic < topicHits[j].Topic
		}
		return topicHits[i].Subtopic < topicHits[j].Subtopic
	})

	return Result{
		ReviewID:         in.ReviewID,
		Source:           in.Source,
		CreatedAt:        createdAt,
		WeekKey:          weekKey,
		Rating:           in.Rating,
		Language:         in.Language,
		SentimentOverall: label,
		SentimentDetail:  detail,
		SentimentScore:   score,
		TopicHits:        topicHits,
		Aspects:          aspects,
		RawText:          in.Text,
	}, nil
}

// AnalyzeMany processes inputs independently, collecting successes and
// reporting failures separately. One malformed review never aborts the
// batch; every returned error is an *errors.AnalysisError.
func AnalyzeMany(inputs []Input, lex *lexicon.Lexicon) ([]Result, []error) {
	results := make([]Result, 0, len(inputs))
	var failures []error
	for _, in := range inputs {
		res, err := Analyze(in, lex)
		if err != nil {
			failures = append(failures, err)
			continue
		}
		results = append(results, res)
	}
	return results, failures
}
