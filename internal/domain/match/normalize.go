// Package match implements query normalization and keyword scoring.
// Both functions are pure: no state, no I/O, safe for concurrent use.
package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Normalize canonicalizes raw input text for scoring.
// Rules:
//  1. Compose to NFC so "e" + combining accent becomes "é"
//  2. Lowercase all with full Unicode case mapping (final sigma becomes "ς")
//  3. Drop every rune that is not a word character or whitespace
//  4. Collapse whitespace runs to one space, trim both ends
//
// Normalize(Normalize(s)) == Normalize(s) for all s.
func Normalize(text string) string {
	if len(text) == 0 {
		return ""
	}

	lowered := lower(norm.NFC.String(text))

	var b strings.Builder
	b.Grow(len(lowered))
	pendingSpace := false
	for _, r := range lowered {
		switch {
		case isSpaceRune(r):
			pendingSpace = b.Len() > 0
		case isWordRune(r):
			if pendingSpace {
				b.WriteByte(' ')
				pendingSpace = false
			}
			b.WriteRune(r)
		}
	}
	// Dropped runes can leave composable neighbours (Hangul jamo); compose
	// again so a second pass is a no-op.
	return norm.NFC.String(b.String())
}

// Tokens splits a normalized query into whitespace-delimited tokens.
func Tokens(normalized string) []string {
	return strings.Fields(normalized)
}

// lower applies full Unicode lowercasing. A Caser holds state, so each call
// gets its own.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

// isSpaceRune reports whether r is whitespace, counting the information
// separators U+001C..U+001F as \s does.
func isSpaceRune(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// isWordRune reports whether r is a word character: letter, number, or underscore.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
