// Package engine resolves chat queries against a bank.Registry.
//
// An Engine is stateless between calls: the only conversational state is the
// pending follow-up, which the caller holds and passes back on the next turn.
// Every method is safe for concurrent use and never fails; malformed or
// empty input degrades to a no-match response or an empty list.
package engine

import (
	"sort"
	"time"

	"github.com/corey/awmit/internal/domain/bank"
	"github.com/corey/awmit/internal/domain/match"
	"github.com/corey/awmit/internal/ports"
)

// DefaultSuggestionLimit is used by Autocomplete when limit <= 0.
const DefaultSuggestionLimit = 5

// Engine answers queries from an immutable registry.
type Engine struct {
	reg      *bank.Registry
	observer ports.ResolveObserver
	now      func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithObserver registers an observer notified after every Resolve.
func WithObserver(o ports.ResolveObserver) Option {
	return func(e *Engine) { e.observer = o }
}

// WithClock overrides the clock used to stamp observer events.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an engine over reg.
func New(reg *bank.Registry, opts ...Option) *Engine {
	e := &Engine{reg: reg, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the registry the engine reads from.
func (e *Engine) Registry() *bank.Registry { return e.reg }

// Resolve answers a chat message. pending is the follow-up returned by the
// previous turn, or nil. scope is a course slug; "" or an unknown slug means
// the global bank.
//
// A pending follow-up is checked first: the best option wins when it clears
// the threshold and its answer is in scope. Otherwise the best entry of the
// scope's bank wins when it clears the threshold. Ties keep the earlier option
// or entry.
func (e *Engine) Resolve(query string, pending *FollowUpState, scope string) Response {
	q := match.Normalize(query)
	b := e.reg.Resolve(scope)
	if q == "" {
		e.observe(q, b, NoMatch(), 0)
		return NoMatch()
	}

	if pending != nil {
		if resp, score, ok := e.resolvePending(q, pending, b); ok {
			e.observe(q, b, resp, score)
			return resp
		}
	}

	entry, score, ok := b.Best(q)
	if !ok {
		e.observe(q, b, NoMatch(), score)
		return NoMatch()
	}

	var resp Response
	switch t := entry.Target.(type) {
	case *bank.FollowUp:
		resp = followUpResponse(t)
	case bank.AnswerRef:
		resp = NoMatch()
		if a, found := b.Answer(t.ID); found {
			resp = BuildAnswer(e.reg, b, a.ID, a.Text)
		}
	default:
		resp = NoMatch()
	}
	e.observe(q, b, resp, score)
	return resp
}

func (e *Engine) resolvePending(q string, pending *FollowUpState, b *bank.Bank) (Response, int, bool) {
	idx, score := match.Best(q, len(pending.Options), func(i int) []string {
		return pending.Options[i].Keywords
	})
	if idx < 0 || score < match.Threshold {
		return Response{}, score, false
	}
	a, ok := b.Answer(pending.Options[idx].AnswerID)
	if !ok {
		return Response{}, score, false
	}
	return BuildAnswer(e.reg, b, a.ID, a.Text), score, true
}

// ResolveByAnswerID looks an answer up directly in the global bank, as for
// a follow-up button click. Unknown ids yield a no-match response.
func (e *Engine) ResolveByAnswerID(id string) Response {
	g := e.reg.Global()
	a, ok := g.Answer(id)
	if !ok {
		return NoMatch()
	}
	return BuildAnswer(e.reg, g, a.ID, a.Text)
}

// Autocomplete ranks the suggestions of scope against query. Only
// suggestions scoring above zero are returned, highest first, with ties in
// declaration order. The result is never nil.
func (e *Engine) Autocomplete(query, scope string, limit int) []bank.Suggestion {
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}
	q := match.Normalize(query)
	if q == "" {
		return []bank.Suggestion{}
	}

	type scored struct {
		s     bank.Suggestion
		score int
	}
	var hits []scored
	for _, s := range e.reg.Resolve(scope).Suggestions {
		if n := match.Score(q, s.Keywords); n > 0 {
			hits = append(hits, scored{s, n})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]bank.Suggestion, len(hits))
	for i, h := range hits {
		out[i] = bank.Suggestion{Text: h.s.Text, Keywords: append([]string(nil), h.s.Keywords...)}
	}
	return out
}

func (e *Engine) observe(q string, b *bank.Bank, resp Response, score int) {
	if e.observer == nil {
		return
	}
	e.observer.ObserveResolve(ports.ResolveEvent{
		Query:    q,
		Scope:    b.Scope,
		Type:     string(resp.Type),
		AnswerID: resp.AnswerID,
		Score:    score,
		At:       e.now(),
	})
}
