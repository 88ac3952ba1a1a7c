package app

import (
	"sync"

	"github.com/corey/awmit/internal/domain/engine"
	"github.com/corey/awmit/internal/logger"
	"github.com/corey/awmit/internal/ports"
)

// gapQueueSize bounds the misses waiting to be written.
const gapQueueSize = 256

// gapRecorder logs every resolution and queues no-match queries for the gap
// store. A single goroutine drains the queue so the request path never waits
// on a disk write. Misses arriving while the queue is full are dropped.
type gapRecorder struct {
	store ports.GapStore // nil = logging only
	log   *logger.Logger

	queue chan ports.ResolveEvent
	done  chan struct{}

	mu      sync.Mutex // guards queue sends against Close
	closed  bool
	dropped int
}

var _ ports.ResolveObserver = (*gapRecorder)(nil)

func newGapRecorder(store ports.GapStore, log *logger.Logger) *gapRecorder {
	g := &gapRecorder{
		store: store,
		log:   log,
		queue: make(chan ports.ResolveEvent, gapQueueSize),
		done:  make(chan struct{}),
	}
	go g.run()
	return g
}

// ObserveResolve implements ports.ResolveObserver.
func (g *gapRecorder) ObserveResolve(ev ports.ResolveEvent) {
	g.log.Debug("resolve",
		"scope", ev.Scope,
		"type", ev.Type,
		"answer_id", ev.AnswerID,
		"score", ev.Score,
	)
	if g.store == nil || ev.Type != string(engine.TypeNoMatch) || ev.Query == "" {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return
	}
	select {
	case g.queue <- ev:
	default:
		g.dropped++
	}
}

func (g *gapRecorder) run() {
	defer close(g.done)
	for ev := range g.queue {
		if err := g.store.RecordMiss(ev.Scope, ev.Query, ev.At); err != nil {
			g.log.Warn("record miss", "scope", ev.Scope, "error", err)
		}
	}
}

// Dropped returns how many misses were discarded on a full queue.
func (g *gapRecorder) Dropped() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.dropped
}

// Close stops accepting events and waits for queued misses to be written.
// Idempotent.
func (g *gapRecorder) Close() {
	g.mu.Lock()
	if !g.closed {
		g.closed = true
		close(g.queue)
	}
	g.mu.Unlock()
	<-g.done
}
