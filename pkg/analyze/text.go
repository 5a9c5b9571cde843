package analyze

import (
	"regexp"
	"strings"
)

var (
	urlRe   = regexp.MustCompile(`(?i)\b(?:https?://|www\.)\S+`)
	emailRe = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	wsRe    = regexp.MustCompile(`[\s\x{00A0}]+`)
	segRe   = regexp.MustCompile(`[.!?…\n]+`)
)

// Normalize strips URL-like and email-like substrings, collapses whitespace
// runs (including NBSP) to single spaces, and trims. Total: never fails,
// empty in means empty out.
func Normalize(text string) string {
	text = urlRe.ReplaceAllString(text, " ")
	text = emailRe.ReplaceAllString(text, " ")
	text = wsRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Segment splits text into sentence-like fragments on runs of ".", "!", "?",
// "…" or newlines, discarding empty and whitespace-only pieces. Boundaries
// are heuristic, not syntactic.
func Segment(text string) []string {
	if text == "" {
		return nil
	}
	parts := segRe.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
