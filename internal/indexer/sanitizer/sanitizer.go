// Package sanitizer normalises raw document text into the canonical form the
// chunker and the phrase service work on: lowercase, one line per source
// line, words reduced to their alphanumeric runes.
package sanitizer

import (
	"strings"
	"unicode"
)

// IsSentenceMark reports whether r terminates a sentence.
func IsSentenceMark(r rune) bool {
	return r == '.' || r == '?' || r == '!'
}

// Sanitize lowercases text and strips every non-alphanumeric rune from each
// word. The last word of a line keeps a trailing sentence mark. Lines left
// without words are dropped and the rest are joined with "\n".
func Sanitize(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if s := sanitizeLine(line); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, "\n")
}

func sanitizeLine(line string) string {
	words := strings.Fields(line)
	kept := make([]string, 0, len(words))
	for i, word := range words {
		if w := sanitizeWord(word, i == len(words)-1); w != "" {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

func sanitizeWord(word string, keepEndMark bool) string {
	runes := []rune(strings.ToLower(word))
	var b strings.Builder
	b.Grow(len(runes))
	for i, r := range runes {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			b.WriteRune(r)
			continue
		}
		// A bare mark with nothing before it is punctuation, not an ending.
		if keepEndMark && i == len(runes)-1 && IsSentenceMark(r) && b.Len() > 0 {
			b.WriteRune(r)
		}
	}
	return b.String()
}
