package ingest

import (
	"strconv"
	"strings"
)

// NormalizeRating parses a raw rating cell and rescales it to /10.
// Comma decimals are accepted ("4,5"). Scale is inferred per value:
// 0 or below means no rating, up to 5 is a five-point scale (doubled),
// up to 10 passes through, up to 100 is a percentage (divided by 10),
// anything larger is garbage. Returns nil when no usable rating exists.
func NormalizeRating(raw string) *float64 {
	s := strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	switch {
	case v <= 0:
		return nil
	case v <= 5:
		v *= 2
	case v <= 10:
		// already /10
	case v <= 100:
		v /= 10
	default:
		return nil
	}
	return &v
}
