package driver

import "time"

// EventKind tags batch progress events.
type EventKind uint8

const (
	// EventStart fires when a model is picked up by a worker.
	EventStart EventKind = iota
	// EventDone fires when its check completes, cache hits included.
	EventDone
)

// Event is one progress notification. Observers may be called from
// multiple workers concurrently; consumers serialize as needed.
type Event struct {
	Kind     EventKind
	Index    int
	Total    int
	Path     string
	Errors   int
	Warnings int
	CacheHit bool
	Elapsed  time.Duration
}
