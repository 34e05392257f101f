package testutil

import (
	"context"
	"sync"

	"github.com/roach88/roster/internal/journal"
)

// MemoryRecorder collects journal entries in memory.
//
// If Err is set, Record returns it without storing the entry.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type MemoryRecorder struct {
	mu      sync.Mutex
	entries []journal.Entry
	Err     error
}

// NewMemoryRecorder creates an empty recorder.
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{}
}

// Record stores e.
//
// Implements scenario.Recorder.
func (r *MemoryRecorder) Record(_ context.Context, e journal.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.entries = append(r.entries, e)
	return nil
}

// Entries returns a copy of the recorded entries in order.
func (r *MemoryRecorder) Entries() []journal.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]journal.Entry, len(r.entries))
	copy(out, r.entries)
	return out
}
