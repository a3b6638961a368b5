// Package metrics counts what the guard processed and why it refused what
// it refused. Counters are monotonic, safe for concurrent recording, and
// exposed as a JSON snapshot over HTTP for scraping.
package metrics

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Outcome labels the terminal result of one decode attempt.
type Outcome string

const (
	OutcomeAccepted   Outcome = "accepted"
	OutcomeOpenFailed Outcome = "open_failed"
	OutcomeInvalid    Outcome = "invalid_canvas"
	OutcomeParseError Outcome = "parse_failed"
	OutcomeRejected   Outcome = "rejected"
)

// Registry accumulates per-format, per-outcome counters for one process.
// The zero value is not usable; construct with New.
type Registry struct {
	instance string
	started  time.Time

	mu        sync.Mutex
	processed map[string]uint64 // "format/outcome"
	rejected  map[string]uint64 // "format/reason"
}

// New creates an empty registry with a fresh instance id.
func New() *Registry {
	return &Registry{
		instance:  uuid.NewString(),
		started:   time.Now(),
		processed: make(map[string]uint64),
		rejected:  make(map[string]uint64),
	}
}

// Instance returns the id generated for this registry.
func (r *Registry) Instance() string { return r.instance }

// RecordProcessed counts one finished decode attempt.
func (r *Registry) RecordProcessed(format string, outcome Outcome) {
	r.mu.Lock()
	r.processed[format+"/"+string(outcome)]++
	r.mu.Unlock()
}

// RecordRejection counts one policy rejection by reason.
func (r *Registry) RecordRejection(format, reason string) {
	r.mu.Lock()
	r.rejected[format+"/"+reason]++
	r.mu.Unlock()
}

// Snapshot is a point-in-time copy of all counters.
type Snapshot struct {
	Instance      string            `json:"instance"`
	UptimeSeconds float64           `json:"uptime_seconds"`
	Processed     map[string]uint64 `json:"processed"`
	Rejected      map[string]uint64 `json:"rejected"`
}

// Snapshot copies the counters; recorders are blocked only for the copy.
func (r *Registry) Snapshot() Snapshot {
	s := Snapshot{
		Instance:      r.instance,
		UptimeSeconds: time.Since(r.started).Seconds(),
		Processed:     make(map[string]uint64),
		Rejected:      make(map[string]uint64),
	}
	r.mu.Lock()
	for k, v := range r.processed {
		s.Processed[k] = v
	}
	for k, v := range r.rejected {
		s.Rejected[k] = v
	}
	r.mu.Unlock()
	return s
}
