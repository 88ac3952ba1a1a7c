package bank

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/corey/awmit/internal/domain/match"
	"github.com/corey/awmit/internal/ports"
)

// Lint check names.
const (
	CheckID          = "id-format"
	CheckTags        = "allowed-tags"
	CheckKeywordCase = "keyword-case"
	CheckLength      = "answer-length"
	CheckReachable   = "reachable"
	CheckNextResolve = "next-resolves"
	CheckSelfLoop    = "no-self-loop"
	CheckMention     = "mentions-keyword"
)

// MinAnswerLength is the shortest answer text lint accepts, in runes.
const MinAnswerLength = 20

var (
	kebabID   = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	htmlTag   = regexp.MustCompile(`</?\s*([a-zA-Z][a-zA-Z0-9]*)[^>]*>`)
	allowTags = map[string]bool{"strong": true, "br": true}
)

// Finding is a soft content-quality problem. Unlike integrity faults,
// findings never stop the registry from loading.
type Finding struct {
	Check    string `json:"check"`
	Scope    string `json:"scope"`
	AnswerID string `json:"answerId,omitempty"`
	Message  string `json:"message"`
}

func (f Finding) String() string {
	scope := f.Scope
	if scope == "" {
		scope = "global"
	}
	if f.AnswerID != "" {
		return fmt.Sprintf("[%s] %s/%s: %s", f.Check, scope, f.AnswerID, f.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", f.Check, scope, f.Message)
}

// Lint runs the soft content checks over r. Findings are
// ordered by bank (global first, then courses in declaration order) and by
// answer declaration order within a bank. When pm is nil the keyword
// mention check is skipped.
func Lint(r *Registry, pm ports.PatternMatcher) []Finding {
	var out []Finding
	out = append(out, lintGlobal(r.global, pm)...)
	for _, ref := range r.courseOrder {
		out = append(out, lintScope(r.courses[ref.Slug])...)
	}
	return out
}

// lintGlobal runs the per-answer checks once, on the global bank. Next
// questions are sent back as unscoped chat messages, so they are resolved
// against the global bank only.
func lintGlobal(b *Bank, pm ports.PatternMatcher) []Finding {
	var out []Finding
	for _, id := range b.Order {
		text := b.Answers[id]
		if !kebabID.MatchString(id) {
			out = append(out, Finding{CheckID, "", id, "answer id is not kebab-case"})
		}
		for _, m := range htmlTag.FindAllStringSubmatch(text, -1) {
			if tag := strings.ToLower(m[1]); !allowTags[tag] {
				out = append(out, Finding{CheckTags, "", id, fmt.Sprintf("disallowed tag <%s>", tag)})
			}
		}
		if n := utf8.RuneCountInString(strings.TrimSpace(text)); n < MinAnswerLength {
			out = append(out, Finding{CheckLength, "", id, fmt.Sprintf("answer text is %d characters, want at least %d", n, MinAnswerLength)})
		}
		if pm != nil && id != CatalogAnswerID {
			if f, ok := lintMention(b, id, pm); !ok {
				out = append(out, f)
			}
		}
	}

	for _, e := range b.Entries {
		out = append(out, lintKeywordCase(e.Keywords, "entry")...)
		if fu, ok := e.Target.(*FollowUp); ok {
			for _, o := range fu.Options {
				out = append(out, lintKeywordCase(o.Keywords, "option "+o.Label)...)
			}
		}
	}
	for _, s := range b.Suggestions {
		out = append(out, lintKeywordCase(s.Keywords, "suggestion "+s.Text)...)
	}

	out = append(out, lintScope(b)...)
	return append(out, lintNext(b)...)
}

// lintScope checks that every answer of b is reachable within b.
func lintScope(b *Bank) []Finding {
	var out []Finding
	for _, id := range b.Order {
		if !reachable(b, id) {
			out = append(out, Finding{CheckReachable, b.Scope, id, "no entry or option reaches this answer through its first keyword"})
		}
	}
	return out
}

// lintNext resolves every next question of b and flags the ones that miss
// or loop back to the answer they hang off.
func lintNext(b *Bank) []Finding {
	var out []Finding
	for _, id := range b.Order {
		for _, q := range b.NextQuestions[id] {
			e, _, ok := b.Best(match.Normalize(q))
			if !ok {
				out = append(out, Finding{CheckNextResolve, b.Scope, id, fmt.Sprintf("next question %q resolves to no match", q)})
				continue
			}
			if ref, isRef := e.Target.(AnswerRef); isRef && ref.ID == id {
				out = append(out, Finding{CheckSelfLoop, b.Scope, id, fmt.Sprintf("next question %q resolves back to this answer", q)})
			}
		}
	}
	return out
}

// reachable reports whether some entry (or follow-up option) of b that
// targets id resolves to id when its own first keyword is the query.
func reachable(b *Bank, id string) bool {
	for _, e := range b.Entries {
		switch t := e.Target.(type) {
		case AnswerRef:
			if t.ID != id {
				continue
			}
			got, _, ok := b.Best(match.Normalize(e.Keywords[0]))
			if ref, isRef := got.Target.(AnswerRef); ok && isRef && ref.ID == id {
				return true
			}
		case *FollowUp:
			for _, o := range t.Options {
				if o.AnswerID != id {
					continue
				}
				got, _, ok := t.BestOption(match.Normalize(o.Keywords[0]))
				if ok && got.AnswerID == id {
					return true
				}
			}
		}
	}
	return false
}

// lintMention checks that an answer's text mentions at least one of the
// keywords that trigger it.
func lintMention(b *Bank, id string, pm ports.PatternMatcher) (Finding, bool) {
	var keywords []string
	for _, e := range b.Entries {
		switch t := e.Target.(type) {
		case AnswerRef:
			if t.ID == id {
				keywords = appendNormalized(keywords, e.Keywords)
			}
		case *FollowUp:
			for _, o := range t.Options {
				if o.AnswerID == id {
					keywords = appendNormalized(keywords, o.Keywords)
				}
			}
		}
	}
	if len(keywords) == 0 {
		return Finding{}, true
	}
	if err := pm.Rebuild(keywords); err != nil {
		return Finding{CheckMention, "", id, fmt.Sprintf("build keyword matcher: %v", err)}, false
	}
	plain := match.Normalize(htmlTag.ReplaceAllString(b.Answers[id], " "))
	if len(pm.Match(plain)) > 0 {
		return Finding{}, true
	}
	return Finding{CheckMention, "", id, "answer text mentions none of its trigger keywords"}, false
}

func lintKeywordCase(keywords []string, where string) []Finding {
	var out []Finding
	for _, kw := range keywords {
		if kw != strings.ToLower(kw) {
			out = append(out, Finding{CheckKeywordCase, "", "", fmt.Sprintf("%s keyword %q is not lowercase", where, kw)})
		}
	}
	return out
}

func appendNormalized(dst, keywords []string) []string {
	for _, kw := range keywords {
		if n := match.Normalize(kw); n != "" {
			dst = appendUnique(dst, n)
		}
	}
	return dst
}
