package textutil

import (
	"strings"
	"unicode/utf8"
)

// Capitalize keeps the first character of text as-is and lowercases the
// rest. The empty string is returned unchanged.
func Capitalize(text string) string {
	if text == "" {
		return ""
	}
	_, size := utf8.DecodeRuneInString(text)
	return text[:size] + strings.ToLower(text[size:])
}

// Prettify turns a role slug such as "college_coordinator" into a title
// ("College Coordinator").
func Prettify(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool { return r == '_' })
	for i, word := range words {
		_, size := utf8.DecodeRuneInString(word)
		words[i] = Capitalize(strings.ToUpper(word[:size]) + word[size:])
	}
	return strings.Join(words, " ")
}
