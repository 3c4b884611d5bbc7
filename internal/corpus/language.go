package corpus

import (
	"strings"
	"unicode"
)

const (
	//only the prefix is scanned; language rarely changes mid-document
	detectPrefixRunes    = 400
	scriptRatioThreshold = 0.3
	maxTitleLength       = 120
)

// DetectLanguage picks the dominant language from the ratio of
// script-specific characters in the content prefix. Cyrillic above the
// threshold selects Russian; everything else defaults to English.
func DetectLanguage(text string) string {
	letters := 0
	cyrillic := 0

	for i, r := range text {
		if i >= detectPrefixRunes*4 {
			break //byte bound, generous for multibyte runes
		}
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.Is(unicode.Cyrillic, r) {
			cyrillic++
		}
		if letters >= detectPrefixRunes {
			break
		}
	}

	if letters > 0 && float64(cyrillic)/float64(letters) >= scriptRatioThreshold {
		return "ru"
	}
	return "en"
}

// ExtractTitle returns the first heading line, falling back to the first
// non-empty line when the document has no headings.
func ExtractTitle(text string) string {
	fallback := ""
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "#") {
			return clipTitle(strings.TrimSpace(strings.TrimLeft(trimmed, "# ")))
		}
		if fallback == "" {
			fallback = trimmed
		}
	}
	return clipTitle(fallback)
}

func clipTitle(title string) string {
	if len(title) > maxTitleLength {
		return title[:maxTitleLength]
	}
	return title
}
