package ports

// PatternMatcher finds keywords in content using multi-pattern matching (Aho-Corasick).
// A single pass over the content finds every keyword of the set at once.
// Content lint rebuilds it once per answer with that answer's trigger keywords.
type PatternMatcher interface {
	// Match returns the distinct keywords found in content, or nil.
	// Content is matched as-is (caller normalizes case).
	Match(content string) []string

	// Rebuild replaces the keyword set and reconstructs the automaton.
	// Returns an error if any keyword is empty.
	Rebuild(keywords []string) error
}
