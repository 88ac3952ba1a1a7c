package match

import (
	"strings"
	"unicode/utf8"
)

// Score weights. Every keyword contributes independently; there is no cap.
const (
	PhraseWeight = 10 // keyword occurs in the query at a word-start boundary
	WordWeight   = 5  // a query token equals the keyword
	PrefixWeight = 2  // a query token and the keyword are prefixes of one another
)

// Threshold is the minimum score an entry or option needs to be selected.
const Threshold = 5

// Score returns how well a normalized query matches a keyword list.
// Keywords are case-folded before comparison. Short tokens prefix-match
// longer keywords ("a" scores against "access").
func Score(normalizedQuery string, keywords []string) int {
	if normalizedQuery == "" || len(keywords) == 0 {
		return 0
	}

	words := Tokens(normalizedQuery)
	score := 0
	for _, kw := range keywords {
		kw = lower(kw)
		if kw == "" {
			continue
		}
		if containsAtWordStart(normalizedQuery, kw) {
			score += PhraseWeight
		}
		for _, w := range words {
			switch {
			case w == kw:
				score += WordWeight
			case strings.HasPrefix(kw, w) || strings.HasPrefix(w, kw):
				score += PrefixWeight
			}
		}
	}
	return score
}

// containsAtWordStart reports whether kw occurs in s at a position where the
// word-character class changes, i.e. a regex \b immediately before kw.
// "api" matches in "the api docs" and "api" but not in "rapid".
func containsAtWordStart(s, kw string) bool {
	first, _ := utf8.DecodeRuneInString(kw)
	kwWord := isWordRune(first)

	for offset := 0; offset <= len(s)-len(kw); {
		i := strings.Index(s[offset:], kw)
		if i < 0 {
			return false
		}
		pos := offset + i

		prevWord := false
		if pos > 0 {
			prev, _ := utf8.DecodeLastRuneInString(s[:pos])
			prevWord = isWordRune(prev)
		}
		if prevWord != kwWord {
			return true
		}

		_, size := utf8.DecodeRuneInString(s[pos:])
		offset = pos + size
	}
	return false
}

// Best scores n keyword sets, fetched by index, and returns the index and
// score of the highest. Ties keep the lowest index. idx is -1 when n is 0.
func Best(normalizedQuery string, n int, keywords func(i int) []string) (idx, score int) {
	idx = -1
	for i := 0; i < n; i++ {
		s := Score(normalizedQuery, keywords(i))
		if idx < 0 || s > score {
			idx, score = i, s
		}
	}
	return idx, score
}
