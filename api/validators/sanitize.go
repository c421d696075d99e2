package validators

import (
	"strings"
	"unicode"
)

// SanitizeString trims, folds runs of whitespace to one space, drops control characters
// and truncates to maxLen runes. A non-positive maxLen disables truncation.
func SanitizeString(input string, maxLen int) string {
	fields := strings.FieldsFunc(input, unicode.IsSpace)
	joined := strings.Join(fields, " ")
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, joined)

	if maxLen <= 0 {
		return cleaned
	}
	runes := []rune(cleaned)
	if len(runes) > maxLen {
		return strings.TrimSpace(string(runes[:maxLen]))
	}
	return cleaned
}
