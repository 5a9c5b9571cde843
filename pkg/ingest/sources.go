package ingest

import (
	"regexp"
	"strings"
)

// Canonical source codes. Yandex and Yandex Travel fold into one code on
// purpose: downstream rollups treat them as a single channel.
var sourceCanon = map[string]string{
	"tl: marketing":                   "tl_marketing",
	"tl marketing":                    "tl_marketing",
	"tl-marketing":                    "tl_marketing",
	"trip.com":                        "trip_com",
	"tripcom":                         "trip_com",
	"yandex":                          "yandex",
	"яндекс":                          "yandex",
	"яндекс путешествия":              "yandex",
	"yandex travel":                   "yandex",
	"yandex.travel":                   "yandex",
	"ostrovok.ru":                     "ostrovok",
	"ostrovok":                        "ostrovok",
	"emerging travel group":           "ostrovok",
	"ostrovok (emerging travel group)": "ostrovok",
	"2gis":                            "2gis",
	"2 гис":                           "2gis",
	"sutochno":                        "sutochno",
	"суточно":                         "sutochno",
	"суточно.ру":                      "sutochno",
	"google":                          "google",
	"google maps":                     "google",
	"google reviews":                  "google",
	"tripadvisor":                     "tripadvisor",
	"trip advisor":                    "tripadvisor",
	"onetwotrip":                      "onetwotrip",
	"one two trip":                    "onetwotrip",
	"one-two-trip":                    "onetwotrip",
	"101hotels.com":                   "101hotels",
	"101hotels":                       "101hotels",
	"tvil.ru":                         "tvil",
	"tvil":                            "tvil",
	"tophotels":                       "tophotels",
	"top hotels":                      "tophotels",
	"booking":                         "booking",
	"booking.com":                     "booking",
}

var sourceDisplay = map[string]string{
	"tl_marketing": "TL: Marketing",
	"trip_com":     "Trip.com",
	"yandex":       "Яндекс",
	"ostrovok":     "Ostrovok.ru",
	"2gis":         "2GIS",
	"sutochno":     "Суточно.ру",
	"google":       "Google",
	"tripadvisor":  "TripAdvisor",
	"onetwotrip":   "OneTwoTrip",
	"101hotels":    "101Hotels.com",
	"tvil":         "Tvil.ru",
	"tophotels":    "TopHotels",
	"booking":      "Booking.com",
}

// fiveStarSources rate natively on a 1-5 scale; the source breakdown in the
// report shows them as /5 while every calculation stays on /10.
var fiveStarSources = map[string]bool{
	"tl_marketing": true,
	"trip_com":     true,
	"yandex":       true,
	"2gis":         true,
	"google":       true,
	"tripadvisor":  true,
}

var (
	spaceRunRe = regexp.MustCompile(`\s+`)
	dashRunRe  = regexp.MustCompile(`\s*-\s*`)
)

func cleanNBSP(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\u00a0", " "))
}

// NormalizeSource maps an arbitrary source string from an export to its
// canonical code. Unknown sources come back lower-cased and space-collapsed
// so they still land in rollups, just without a display name.
func NormalizeSource(s string) string {
	raw := spaceRunRe.ReplaceAllString(strings.ToLower(cleanNBSP(s)), " ")
	if raw == "" {
		return ""
	}
	key := dashRunRe.ReplaceAllString(strings.ReplaceAll(strings.ReplaceAll(raw, ".", ""), "—", "-"), "-")
	if code, ok := sourceCanon[key]; ok {
		return code
	}
	if code, ok := sourceCanon[raw]; ok {
		return code
	}
	switch {
	case strings.Contains(raw, "yandex") || strings.Contains(raw, "яндекс"):
		return "yandex"
	case strings.Contains(raw, "booking"):
		return "booking"
	case strings.Contains(raw, "tripadvisor") || strings.Contains(raw, "trip advisor"):
		return "tripadvisor"
	case strings.Contains(raw, "google"):
		return "google"
	case strings.Contains(raw, "2gis"):
		return "2gis"
	case strings.Contains(raw, "ostrovok"):
		return "ostrovok"
	case strings.Contains(raw, "onetwotrip"):
		return "onetwotrip"
	case strings.Contains(raw, "101hotels"):
		return "101hotels"
	case strings.Contains(raw, "tvil"):
		return "tvil"
	case strings.Contains(raw, "tophotels"):
		return "tophotels"
	case strings.Contains(raw, "tl") && strings.Contains(raw, "marketing"):
		return "tl_marketing"
	case strings.Contains(raw, "sutochno") || strings.Contains(raw, "суточно"):
		return "sutochno"
	}
	return raw
}

// SourceDisplayName returns the human-readable name for a canonical code,
// falling back to the code itself.
func SourceDisplayName(code string) string {
	if name, ok := sourceDisplay[code]; ok {
		return name
	}
	return code
}

// SourceIsFiveStar reports whether the source rates natively out of 5.
func SourceIsFiveStar(code string) bool {
	return fiveStarSources[code]
}

// NativeRating converts a /10 rating to the source's native /5 scale for
// display, or nil when the source is ten-point native. Pipeline math never
// uses this value.
func NativeRating(rating10 *float64, code string) *float64 {
	if rating10 == nil || !SourceIsFiveStar(code) {
		return nil
	}
	v := float64(int(*rating10/2.0*100+0.5)) / 100
	return &v
}
