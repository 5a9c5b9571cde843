package ingest

import (
	"strings"
	"unicode"

	"golang.org/x/text/language"
)

// LangOther marks text in a language the lexicon has no rules for. The
// analysis core still scores such reviews from the rating.
const LangOther = "other"

// langByBase collapses base languages to the codes the lexicon knows.
// Ukrainian and Belarusian fold to ru: the Russian stem patterns catch
// enough shared vocabulary to be useful, and the original corpus treated
// them the same way.
var langByBase = map[string]string{
	"ru": "ru", "uk": "ru", "be": "ru",
	"en": "en",
	"tr": "tr",
	"ar": "ar",
	"zh": "zh", "cn": "zh", "ch": "zh",
}

// NormalizeLanguage resolves the language for a review from its declared
// code, falling back to script heuristics over the text. Returns one of
// ru, en, tr, ar, zh or LangOther.
func NormalizeLanguage(code, text string) string {
	code = strings.TrimSpace(strings.ToLower(strings.ReplaceAll(code, "_", "-")))
	if code != "" {
		if tag, err := language.Parse(code); err == nil {
			base, _ := tag.Base()
			if norm, ok := langByBase[base.String()]; ok {
				return norm
			}
		}
		// Raw prefix as a second chance for codes BCP-47 rejects.
		prefix, _, _ := strings.Cut(code, "-")
		if norm, ok := langByBase[prefix]; ok {
			return norm
		}
	}
	return DetectLanguage(text)
}

// DetectLanguage guesses the language from the script of the text alone.
func DetectLanguage(text string) string {
	var cyrillic, arabic, cjk, latin, turkish int
	for _, r := range text {
		switch {
		case unicode.Is(unicode.Cyrillic, r):
			cyrillic++
		case unicode.Is(unicode.Arabic, r):
			arabic++
		case unicode.Is(unicode.Han, r) || unicode.Is(unicode.Hiragana, r) ||
			unicode.Is(unicode.Katakana, r) || unicode.Is(unicode.Hangul, r):
			cjk++
		case strings.ContainsRune("ğĞışŞİçÇöÖüÜ", r):
			turkish++
			latin++
		case unicode.Is(unicode.Latin, r):
			latin++
		}
	}
	switch {
	case cyrillic > 0 && cyrillic >= latin:
		return "ru"
	case arabic > 0:
		return "ar"
	case cjk > 0:
		return "zh"
	case turkish > 0:
		return "tr"
	case latin > 0:
		return "en"
	default:
		return LangOther
	}
}
