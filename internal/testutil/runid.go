// Package testutil provides deterministic helpers for tests.
package testutil

import (
	"fmt"
	"sync"
)

// RunIDs hands out run identifiers in sequence: "run-0001", "run-0002", ...
// Safe for concurrent use.
type RunIDs struct {
	mu     sync.Mutex
	prefix string
	seq    int
}

// NewRunIDs creates a sequence with the given prefix ("run" if empty).
// The first call to Next returns "<prefix>-0001".
func NewRunIDs(prefix string) *RunIDs {
	if prefix == "" {
		prefix = "run"
	}
	return &RunIDs{prefix: prefix}
}

// Next returns the next identifier.
func (r *RunIDs) Next() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return fmt.Sprintf("%s-%04d", r.prefix, r.seq)
}

// Reset restarts the sequence so the same test can run twice with
// identical identifiers.
func (r *RunIDs) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq = 0
}

// FixedRunID returns a generator that always yields id.
func FixedRunID(id string) func() string {
	return func() string { return id }
}
