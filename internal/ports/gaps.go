package ports

import "time"

// GlobalScope names the global bank in gap storage.
const GlobalScope = "global"

// GapStore records queries the engine could not answer so curators can see
// which keywords the banks are missing. Only normalized query text is kept;
// nothing identifies a user or a session.
//
// Each scope is an independent namespace. Writes must be transactional.
type GapStore interface {
	// RecordMiss counts one unanswered query in scope ("" means global).
	RecordMiss(scope, query string, at time.Time) error

	// TopMisses returns up to limit misses for scope, most frequent first.
	// An empty scope returns misses across every scope. limit <= 0 means all.
	TopMisses(scope string, limit int) ([]Miss, error)

	// Reset deletes every recorded miss.
	Reset() error

	// Close releases the underlying storage.
	Close() error
}

// Miss is the aggregate for one unanswered query.
type Miss struct {
	Scope     string    `json:"scope"`
	Query     string    `json:"query"`
	Count     uint32    `json:"count"`
	FirstSeen time.Time `json:"firstSeen"`
	LastSeen  time.Time `json:"lastSeen"`
}
