// Package lexicon holds the rule set the analysis engine consults: sentiment
// pattern buckets, the topic/subtopic schema, and aspect rules with polarity
// hints and topic bindings.
//
// A Lexicon is compiled once from a Spec and is immutable afterwards. All
// pattern lists are keyed first by rule identifier, then by language code;
// a missing language key means "no patterns for that language", never an
// error. Matchers are compiled in declaration order and probed in that order.
package lexicon

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Bucket identifies one of the five graded sentiment pattern groups.
type Bucket string

const (
	BucketPositiveStrong Bucket = "positive_strong"
	BucketPositiveSoft   Bucket = "positive_soft"
	BucketNegativeSoft   Bucket = "negative_soft"
	BucketNegativeStrong Bucket = "negative_strong"
	BucketNeutral        Bucket = "neutral"
)

// Buckets returns all sentiment buckets in their canonical order.
func Buckets() []Bucket {
	return []Bucket{
		BucketPositiveStrong,
		BucketPositiveSoft,
		BucketNegativeSoft,
		BucketNegativeStrong,
		BucketNeutral,
	}
}

// Polarity is the hint an aspect rule carries about the sentiment of a match.
type Polarity string

const (
	PolarityPositive Polarity = "positive"
	PolarityNegative Polarity = "negative"
	PolarityNeutral  Polarity = "neutral"
)

// Errors returned by Compile.
var (
	ErrEmptyLexicon  = errors.New("lexicon has no rules")
	ErrDuplicateKey  = errors.New("duplicate key in lexicon")
	ErrUnknownTopic  = errors.New("aspect references unknown topic/subtopic")
	ErrBadPolarity   = errors.New("invalid polarity hint")
	ErrBadPattern    = errors.New("pattern does not compile")
	ErrUnknownBucket = errors.New("unknown sentiment bucket")
)

// TopicRef names one (topic, subtopic) pair.
type TopicRef struct {
	Topic    string `yaml:"topic"`
	Subtopic string `yaml:"subtopic"`
}

// Spec is the declarative, serializable form of a lexicon. It is what the
// YAML loader reads and what the built-in lexicon is written as.
type Spec struct {
	Version   string                         `yaml:"version"`
	Sentiment map[Bucket]map[string][]string `yaml:"sentiment"`
	Topics    []TopicSpec                    `yaml:"topics"`
	Aspects   []AspectSpec                   `yaml:"aspects"`
}

// TopicSpec declares one topic with its subtopics in display order.
type TopicSpec struct {
	Key       string         `yaml:"key"`
	Display   string         `yaml:"display"`
	Subtopics []SubtopicSpec `yaml:"subtopics"`
}

// SubtopicSpec declares one subtopic and its per-language trigger patterns.
type SubtopicSpec struct {
	Key      string              `yaml:"key"`
	Display  string              `yaml:"display"`
	Patterns map[string][]string `yaml:"patterns"`
}

// AspectSpec declares one aspect rule. An aspect only fires inside a sentence
// that also matches one of its allowed (topic, subtopic) pairs.
type AspectSpec struct {
	Code             string              `yaml:"code"`
	DisplayShort     string              `yaml:"display_short"`
	LongHint         string              `yaml:"long_hint,omitempty"`
	Polarity         Polarity            `yaml:"polarity"`
	Patterns         map[string][]string `yaml:"patterns"`
	AllowedSubtopics []TopicRef          `yaml:"allowed_subtopics"`
}

// matcherSet holds compiled patterns per language, in declaration order.
type matcherSet map[string][]*regexp.Regexp

// match reports whether text matches any pattern of any candidate language.
func (m matcherSet) match(text string, langs []string) bool {
	for _, lang := range langs {
		for _, re := range m[lang] {
			if re.MatchString(text) {
				return true
			}
		}
	}
	return false
}

// Subtopic is a compiled subtopic.
type Subtopic struct {
	Key      string
	Display  string
	patterns matcherSet
}

// Match reports whether the subtopic's patterns match text under the
// candidate-language chain.
func (s *Subtopic) Match(text string, langs []string) bool {
	return s.patterns.match(text, langs)
}

// Topic is a compiled topic with its subtopics in declaration order.
type Topic struct {
	Key       string
	Display   string
	Subtopics []Subtopic
}

// Aspect is a compiled aspect rule.
type Aspect struct {
	Code             string
	DisplayShort     string
	LongHint         string
	Polarity         Polarity
	AllowedSubtopics []TopicRef
	patterns         matcherSet
}

// Match reports whether the aspect's patterns match text under the
// candidate-language chain.
func (a *Aspect) Match(text string, langs []string) bool {
	return a.patterns.match(text, langs)
}

// Lexicon is the compiled, read-only rule set.
type Lexicon struct {
	version   string
	sentiment map[Bucket]matcherSet
	topics    []Topic
	aspects   []Aspect
	aspectIdx map[string]int
}

// Version returns the lexicon version string.
func (l *Lexicon) Version() string { return l.version }

// Topics returns the compiled topics in declaration order.
func (l *Lexicon) Topics() []Topic { return l.topics }

// Aspects returns the compiled aspect rules in declaration order.
func (l *Lexicon) Aspects() []Aspect { return l.aspects }

// Aspect returns the compiled rule for code, or nil if unknown.
func (l *Lexicon) Aspect(code string) *Aspect {
	i, ok := l.aspectIdx[code]
	if !ok {
		return nil
	}
	return &l.aspects[i]
}

// AspectDisplay returns the short display name for an aspect code, falling
// back to the code itself so report rendering never fails on unknown codes.
func (l *Lexicon) AspectDisplay(code string) string {
	if a := l.Aspect(code); a != nil && a.DisplayShort != "" {
		return a.DisplayShort
	}
	return code
}

// SentimentMatch reports whether text matches any pattern of the given bucket
// for any of the candidate languages.
func (l *Lexicon) SentimentMatch(bucket Bucket, text string, langs []string) bool {
	return l.sentiment[bucket].match(text, langs)
}

// CandidateLanguages builds the ordered fallback chain for a language code:
// the full code, its primary subtag (before "-"), then "en", deduplicated.
func CandidateLanguages(code string) []string {
	code = strings.ToLower(strings.TrimSpace(code))
	var chain []string
	seen := map[string]bool{}
	add := func(c string) {
		if c != "" && !seen[c] {
			seen[c] = true
			chain = append(chain, c)
		}
	}
	add(code)
	if i := strings.IndexByte(code, '-'); i > 0 {
		add(code[:i])
	}
	add("en")
	return chain
}

// Compile validates a Spec and compiles every pattern once. Patterns are
// compiled case-insensitively.
func Compile(spec Spec) (*Lexicon, error) {
	if len(spec.Sentiment) == 0 && len(spec.Topics) == 0 && len(spec.Aspects) == 0 {
		return nil, ErrEmptyLexicon
	}

	lex := &Lexicon{
		version:   spec.Version,
		sentiment: make(map[Bucket]matcherSet, len(spec.Sentiment)),
		aspectIdx: make(map[string]int, len(spec.Aspects)),
	}

	valid := map[Bucket]bool{}
	for _, b := range Buckets() {
		valid[b] = true
	}
	for bucket, byLang := range spec.Sentiment {
		if !valid[bucket] {
			return nil, fmt.Errorf("%w: %q", ErrUnknownBucket, bucket)
		}
		ms, err := compileSet(byLang, fmt.Sprintf("sentiment %s", bucket))
		if err != nil {
			return nil, err
		}
		lex.sentiment[bucket] = ms
	}
	for _, b := range Buckets() {
		if lex.sentiment[b] == nil {
			lex.sentiment[b] = matcherSet{}
		}
	}

	pairs := map[TopicRef]bool{}
	topicKeys := map[string]bool{}
	for _, ts := range spec.Topics {
		if topicKeys[ts.Key] {
			return nil, fmt.Errorf("%w: topic %q", ErrDuplicateKey, ts.Key)
		}
		topicKeys[ts.Key] = true

		topic := Topic{Key: ts.Key, Display: ts.Display}
		subKeys := map[string]bool{}
		for _, ss := range ts.Subtopics {
			if subKeys[ss.Key] {
				return nil, fmt.Errorf("%w: subtopic %q in topic %q", ErrDuplicateKey, ss.Key, ts.Key)
			}
			subKeys[ss.Key] = true
			ms, err := compileSet(ss.Patterns, fmt.Sprintf("topic %s/%s", ts.Key, ss.Key))
			if err != nil {
				return nil, err
			}
			topic.Subtopics = append(topic.Subtopics, Subtopic{Key: ss.Key, Display: ss.Display, patterns: ms})
			pairs[TopicRef{Topic: ts.Key, Subtopic: ss.Key}] = true
		}
		lex.topics = append(lex.topics, topic)
	}

	for _, as := range spec.Aspects {
		if _, dup := lex.aspectIdx[as.Code]; dup {
			return nil, fmt.Errorf("%w: aspect %q", ErrDuplicateKey, as.Code)
		}
		switch as.Polarity {
		case PolarityPositive, PolarityNegative, PolarityNeutral:
		default:
			return nil, fmt.Errorf("%w: aspect %q has polarity %q", ErrBadPolarity, as.Code, as.Polarity)
		}
		for _, ref := range as.AllowedSubtopics {
			if !pairs[ref] {
				return nil, fmt.Errorf("%w: aspect %q binds (%s, %s)", ErrUnknownTopic, as.Code, ref.Topic, ref.Subtopic)
			}
		}
		ms, err := compileSet(as.Patterns, fmt.Sprintf("aspect %s", as.Code))
		if err != nil {
			return nil, err
		}
		lex.aspectIdx[as.Code] = len(lex.aspects)
		lex.aspects = append(lex.aspects, Aspect{
			Code:             as.Code,
			DisplayShort:     as.DisplayShort,
			LongHint:         as.LongHint,
			Polarity:         as.Polarity,
			AllowedSubtopics: append([]TopicRef(nil), as.AllowedSubtopics...),
			patterns:         ms,
		})
	}

	return lex, nil
}

func compileSet(byLang map[string][]string, where string) (matcherSet, error) {
	ms := make(matcherSet, len(byLang))
	for lang, patterns := range byLang {
		compiled := make([]*regexp.Regexp, 0, len(patterns))
		for _, p := range patterns {
			re, err := regexp.Compile("(?i)" + p)
			if err != nil {
				return nil, fmt.Errorf("%w: %s lang %q pattern %q: %v", ErrBadPattern, where, lang, p, err)
			}
			compiled = append(compiled, re)
		}
		ms[lang] = compiled
	}
	return ms, nil
}
