package sanitizer

import (
	"strings"
	"unicode"
)

// TrimAndNormalize collapses internal whitespace runs to single spaces
// and trims the ends.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

func NormalizeLocation(location string) string {
	return TrimAndNormalize(location)
}

// NormalizeLabel lowercases in addition to whitespace cleanup; labels
// are matched, not displayed.
func NormalizeLabel(label string) string {
	return strings.ToLower(TrimAndNormalize(label))
}
