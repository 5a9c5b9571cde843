package analyze

import (
	"github.com/otherjamesbrown/guestpulse/pkg/lexicon"
)

// TopicsIn returns the complete set of (topic, subtopic) pairs whose
// candidate-language patterns match the sentence, in schema declaration
// order.
func TopicsIn(sentence string, langs []string, lex *lexicon.Lexicon) []TopicPair {
	var pairs []TopicPair
	for _, topic := range lex.Topics() {
		for i := range topic.Subtopics {
			if topic.Subtopics[i].Match(sentence, langs) {
				pairs = append(pairs, TopicPair{Topic: topic.Key, Subtopic: topic.Subtopics[i].Key})
			}
		}
	}
	return pairs
}

// AspectsIn returns one AspectHit per aspect rule that both matches the
// sentence and intersects the sentence's topics with its allowed pairs.
// An empty intersection is a context-binding miss, not an error: the aspect
// simply does not fire here. When several allowed pairs are present in the
// sentence, the first by the rule's declared order wins.
func AspectsIn(sentence string, langs []string, lex *lexicon.Lexicon, sentenceTopics []TopicPair, ctx ReviewContext) []AspectHit {
	if len(sentenceTopics) == 0 {
		return nil
	}
	present := make(map[lexicon.TopicRef]bool, len(sentenceTopics))
	for _, p := range sentenceTopics {
		present[lexicon.TopicRef{Topic: p.Topic, Subtopic: p.Subtopic}] = true
	}

	var hits []AspectHit
	for i := range lex.Aspects() {
		aspect := &lex.Aspects()[i]
		if !aspect.Match(sentence, langs) {
			continue
		}
		for _, ref := range aspect.AllowedSubtopics {
			if !present[ref] {
				continue
			}
			hits = append(hits, AspectHit{
				ReviewID:         ctx.ReviewID,
				AspectCode:       aspect.Code,
				Topic:            ref.Topic,
				Subtopic:         ref.Subtopic,
				Polarity:         aspect.Polarity,
				CreatedAt:        ctx.CreatedAt,
				WeekKey:          ctx.WeekKey,
				Source:           ctx.Source,
				Rating:           ctx.Rating,
				SentimentOverall: ctx.SentimentOverall,
				Language:         ctx.Language,
			})
			break
		}
	}
	return hits
}
