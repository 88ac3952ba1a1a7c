// Package ahocorasick provides multi-pattern string matching using an Aho-Corasick automaton.
// It wraps the petar-dambovaliev/aho-corasick library for O(n + m + z) matching.
package ahocorasick

import (
	"errors"

	aho "github.com/petar-dambovaliev/aho-corasick"
)

// ErrEmptyKeyword is returned by Rebuild when the keyword set contains "".
var ErrEmptyKeyword = errors.New("ahocorasick: empty keyword")

// Matcher implements ports.PatternMatcher.
// Rebuild compiles an automaton; Match returns matching keywords.
type Matcher struct {
	automaton aho.AhoCorasick
	keywords  []string
	built     bool
}

// New returns a matcher compiled for keywords.
func New(keywords []string) (*Matcher, error) {
	m := &Matcher{}
	if err := m.Rebuild(keywords); err != nil {
		return nil, err
	}
	return m, nil
}

// Rebuild replaces the automaton with a new set of keywords.
func (m *Matcher) Rebuild(keywords []string) error {
	for _, kw := range keywords {
		if kw == "" {
			return ErrEmptyKeyword
		}
	}
	m.keywords = make([]string, len(keywords))
	copy(m.keywords, keywords)
	m.built = false
	if len(m.keywords) == 0 {
		return nil
	}

	builder := aho.NewAhoCorasickBuilder(aho.Opts{
		DFA: true,
	})
	m.automaton = builder.Build(m.keywords)
	m.built = true
	return nil
}

// Match returns all keywords found in content, in order of first occurrence.
func (m *Matcher) Match(content string) []string {
	if !m.built || len(m.keywords) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(m.keywords))
	var result []string
	iter := m.automaton.IterOverlappingByte([]byte(content))
	for next := iter.Next(); next != nil; next = iter.Next() {
		kw := m.keywords[next.Pattern()]
		if !seen[kw] {
			seen[kw] = true
			result = append(result, kw)
		}
	}
	return result
}
