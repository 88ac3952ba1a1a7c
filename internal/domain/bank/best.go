package bank

import "github.com/corey/awmit/internal/domain/match"

// Best scores a normalized query against every entry of b and returns the
// highest scoring one. Ties keep the entry declared first. ok is false when
// the best score is below match.Threshold; score is reported either way.
func (b *Bank) Best(normalizedQuery string) (e Entry, score int, ok bool) {
	idx, score := match.Best(normalizedQuery, len(b.Entries), func(i int) []string {
		return b.Entries[i].Keywords
	})
	if idx < 0 || score < match.Threshold {
		return Entry{}, score, false
	}
	return b.Entries[idx], score, true
}

// BestOption picks the option of fu that best matches a normalized query.
// ok is false when no option clears match.Threshold.
func (fu *FollowUp) BestOption(normalizedQuery string) (o Option, score int, ok bool) {
	idx, score := match.Best(normalizedQuery, len(fu.Options), func(i int) []string {
		return fu.Options[i].Keywords
	})
	if idx < 0 || score < match.Threshold {
		return Option{}, score, false
	}
	return fu.Options[idx], score, true
}
