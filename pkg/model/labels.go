package model

import (
	"strings"
	"unicode"
)

// DefaultLabeler derives a label from a member name: "adminCode" and
// "admin_code" both become "Admin Code".
func DefaultLabeler(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || r == '.' || unicode.IsSpace(r)
	})
	segments := make([]string, 0, len(words))
	for _, word := range words {
		for _, part := range splitCamel(word) {
			segments = append(segments, titleCase(part))
		}
	}
	return strings.Join(segments, " ")
}

func splitCamel(word string) []string {
	runes := []rune(word)
	var parts []string
	start := 0
	for i := 1; i < len(runes); i++ {
		prev, cur := runes[i-1], runes[i]
		boundary := (unicode.IsLower(prev) && unicode.IsUpper(cur)) ||
			(unicode.IsLetter(prev) && unicode.IsDigit(cur)) ||
			(unicode.IsDigit(prev) && unicode.IsLetter(cur))
		if boundary {
			parts = append(parts, string(runes[start:i]))
			start = i
		}
	}
	return append(parts, string(runes[start:]))
}

func titleCase(word string) string {
	runes := []rune(strings.ToLower(word))
	if len(runes) == 0 {
		return ""
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
