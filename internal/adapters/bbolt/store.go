// Package bbolt implements ports.GapStore using bbolt (embedded B+ tree).
// A top-level "gaps" bucket holds one sub-bucket per scope; within it each
// key is a normalized query and each value a JSON miss record. Writes are
// transactional, so a crash mid-write cannot corrupt committed data.
package bbolt

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/corey/awmit/internal/ports"
	bolt "go.etcd.io/bbolt"
)

var bucketGaps = []byte("gaps")

// ErrEmptyQuery is returned by RecordMiss for a blank query.
var ErrEmptyQuery = errors.New("gap store: empty query")

// Store implements ports.GapStore backed by bbolt.
type Store struct {
	db *bolt.DB
}

var _ ports.GapStore = (*Store)(nil)

// NewStore opens (or creates) a bbolt database at the given path.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// missRecord is the stored value for one query.
type missRecord struct {
	Count     uint32    `json:"count"`
	FirstSeen time.Time `json:"firstSeen"`
	LastSeen  time.Time `json:"lastSeen"`
}

func scopeKey(scope string) []byte {
	if scope == "" {
		return []byte(ports.GlobalScope)
	}
	return []byte(scope)
}

// RecordMiss counts one unanswered query in scope.
func (s *Store) RecordMiss(scope, query string, at time.Time) error {
	if strings.TrimSpace(query) == "" {
		return ErrEmptyQuery
	}
	at = at.UTC()

	return s.db.Update(func(tx *bolt.Tx) error {
		gaps, err := tx.CreateBucketIfNotExists(bucketGaps)
		if err != nil {
			return err
		}
		sb, err := gaps.CreateBucketIfNotExists(scopeKey(scope))
		if err != nil {
			return err
		}

		key := []byte(query)
		var rec missRecord
		if v := sb.Get(key); v != nil {
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("unmarshal miss %q: %w", query, err)
			}
		}
		if rec.Count == 0 || at.Before(rec.FirstSeen) {
			rec.FirstSeen = at
		}
		if at.After(rec.LastSeen) {
			rec.LastSeen = at
		}
		rec.Count++

		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal miss: %w", err)
		}
		return sb.Put(key, data)
	})
}

// TopMisses returns up to limit misses, most frequent first. Ties go to the
// most recently seen, then to query order. An empty scope reads every scope.
func (s *Store) TopMisses(scope string, limit int) ([]ports.Miss, error) {
	var out []ports.Miss

	err := s.db.View(func(tx *bolt.Tx) error {
		gaps := tx.Bucket(bucketGaps)
		if gaps == nil {
			return nil
		}
		if scope != "" {
			sb := gaps.Bucket(scopeKey(scope))
			if sb == nil {
				return nil
			}
			return collect(sb, string(scopeKey(scope)), &out)
		}
		return gaps.ForEach(func(k, v []byte) error {
			if v != nil {
				return nil // not a bucket
			}
			return collect(gaps.Bucket(k), string(k), &out)
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if !a.LastSeen.Equal(b.LastSeen) {
			return a.LastSeen.After(b.LastSeen)
		}
		if a.Query != b.Query {
			return a.Query < b.Query
		}
		return a.Scope < b.Scope
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func collect(sb *bolt.Bucket, scope string, out *[]ports.Miss) error {
	return sb.ForEach(func(k, v []byte) error {
		var rec missRecord
		if err := json.Unmarshal(v, &rec); err != nil {
			return fmt.Errorf("unmarshal miss %q: %w", k, err)
		}
		// string(k) copies; bbolt slices are only valid within the tx
		*out = append(*out, ports.Miss{
			Scope:     scope,
			Query:     string(k),
			Count:     rec.Count,
			FirstSeen: rec.FirstSeen,
			LastSeen:  rec.LastSeen,
		})
		return nil
	})
}

// Reset deletes every recorded miss. Idempotent.
func (s *Store) Reset() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketGaps); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		return nil
	})
}
