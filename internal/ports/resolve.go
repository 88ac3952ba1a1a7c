package ports

import "time"

// ResolveEvent describes one finished chat resolution. Query is the
// normalized query text; raw user input never leaves the engine.
type ResolveEvent struct {
	Query    string
	Scope    string // scope of the bank that was used; "" for global
	Type     string // "answer", "followUp" or "noMatch"
	AnswerID string
	Score    int // best score seen; 0 for empty queries
	At       time.Time
}

// ResolveObserver is notified after every resolution. Implementations must
// be safe for concurrent use and must not block: they run on the request path.
type ResolveObserver interface {
	ObserveResolve(ev ResolveEvent)
}

// ResolveObserverFunc adapts a function to ResolveObserver.
type ResolveObserverFunc func(ev ResolveEvent)

// ObserveResolve calls f(ev).
func (f ResolveObserverFunc) ObserveResolve(ev ResolveEvent) { f(ev) }
