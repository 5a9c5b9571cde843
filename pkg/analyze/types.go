// Package analyze is the classification-and-scoring core: lexicon-driven
// sentiment detection, sentence-scoped topic matching and aspect binding,
// composed into one result per review. Every operation is a pure function
// of its inputs and the immutable lexicon; callers may parallelize batches
// across reviews with no coordination.
package analyze

import (
	"time"

	"github.com/otherjamesbrown/guestpulse/pkg/lexicon"
)

// Label is the review-level sentiment verdict.
type Label string

const (
	LabelPositive Label = "positive"
	LabelNegative Label = "negative"
	LabelMixed    Label = "mixed"
	LabelNeutral  Label = "neutral"
)

// Input is one ingested review, owned by the caller until passed in.
// CreatedAt accepts a date, a timestamp, or any parseable form of either;
// an unparsable value fails that single review, never the batch.
type Input struct {
	ReviewID  string   `json:"review_id"`
	Source    string   `json:"source"`
	CreatedAt string   `json:"created_at"`
	Rating    *float64 `json:"rating,omitempty"` // 1..10 when present
	Language  string   `json:"language_code"`
	Text      string   `json:"text"`
}

// TopicPair names one (topic, subtopic) match.
type TopicPair struct {
	Topic    string `json:"topic"`
	Subtopic string `json:"subtopic"`
}

// ReviewContext is the per-review metadata stamped onto every AspectHit.
type ReviewContext struct {
	ReviewID         string
	CreatedAt        time.Time
	WeekKey          string
	Source           string
	Rating           *float64
	SentimentOverall Label
	Language         string
}

// AspectHit is one sentence-level aspect match, bound to the topical context
// found in the same sentence. Never mutated after creation.
type AspectHit struct {
	ReviewID         string           `json:"review_id"`
	AspectCode       string           `json:"aspect_code"`
	Topic            string           `json:"topic"`
	Subtopic         string           `json:"subtopic"`
	Polarity         lexicon.Polarity `json:"polarity"`
	CreatedAt        time.Time        `json:"created_at"`
	WeekKey          string           `json:"week_key"`
	Source           string           `json:"source"`
	Rating           *float64         `json:"rating,omitempty"`
	SentimentOverall Label            `json:"sentiment_overall"`
	Language         string           `json:"language_code"`
}

// Result is the full analysis of one review. TopicHits is a deduplicated
// set ordered by (topic, subtopic) so equal inputs produce equal results.
type Result struct {
	ReviewID         string                  `json:"review_id"`
	Source           string                  `json:"source"`
	CreatedAt        time.Time               `json:"created_at"`
	WeekKey          string                  `json:"week_key"`
	Rating           *float64                `json:"rating,omitempty"`
	Language         string                  `json:"language_code"`
	SentimentOverall Label                   `json:"sentiment_overall"`
	SentimentDetail  map[lexicon.Bucket]bool `json:"sentiment_detail"`
	SentimentScore   float64                 `json:"sentiment_score"`
	TopicHits        []TopicPair             `json:"topic_hits"`
	Aspects          []AspectHit             `json:"aspects"`
	RawText          string                  `json:"raw_text"`
}

// HasAspect reports whether the result carries a hit for code.
func (r *Result) HasAspect(code string) bool {
	for _, h := range r.Aspects {
		if h.AspectCode == code {
			return true
		}
	}
	return false
}
