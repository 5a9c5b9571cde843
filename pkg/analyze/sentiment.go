package analyze

import (
	"math"

	"github.com/otherjamesbrown/guestpulse/pkg/lexicon"
)

// ClassifySentiment probes every sentiment bucket against the normalized
// full text under the candidate-language chain for langCode, and derives
// the review-level label from the bucket flags.
func ClassifySentiment(text, langCode string, lex *lexicon.Lexicon) (Label, map[lexicon.Bucket]bool) {
	norm := Normalize(text)
	langs := lexicon.CandidateLanguages(langCode)

	detail := make(map[lexicon.Bucket]bool, 5)
	for _, b := range lexicon.Buckets() {
		detail[b] = norm != "" && lex.SentimentMatch(b, norm, langs)
	}

	pos := detail[lexicon.BucketPositiveStrong] || detail[lexicon.BucketPositiveSoft]
	neg := detail[lexicon.BucketNegativeStrong] || detail[lexicon.BucketNegativeSoft]

	switch {
	case pos && neg:
		return LabelMixed, detail
	case pos:
		return LabelPositive, detail
	case neg:
		return LabelNegative, detail
	default:
		return LabelNeutral, detail
	}
}

// Score combines text strength with rating strength. Text strength is
// 1.0 for strong positive plus 0.6 for soft positive, minus the mirrored
// negative weights, clamped to [-1, 1]. With a rating present the final
// score is round(0.6*text + 0.4*rating_strength, 4) where rating strength
// is clamp((rating-5.5)/4.5, -1, 1); without one it is the text strength.
// A text with no bucket signal at all falls back to the rating strength
// alone, so an unsupported language with a 10/10 rating still scores 1.0.
func Score(detail map[lexicon.Bucket]bool, rating *float64) float64 {
	anySignal := false
	for _, v := range detail {
		if v {
			anySignal = true
			break
		}
	}

	var text float64
	if detail[lexicon.BucketPositiveStrong] {
		text += 1.0
	}
	if detail[lexicon.BucketPositiveSoft] {
		text += 0.6
	}
	if detail[lexicon.BucketNegativeStrong] {
		text -= 1.0
	}
	if detail[lexicon.BucketNegativeSoft] {
		text -= 0.6
	}
	text = clamp(text, -1, 1)

	if rating == nil {
		return text
	}
	rs := clamp((*rating-5.5)/4.5, -1, 1)
	if !anySignal {
		return round4(rs)
	}
	return round4(0.6*text + 0.4*rs)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
