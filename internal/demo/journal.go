package demo

import (
	"fmt"
	"sync"
)

// Journal is the shared context of the demo charts. Side effects append to
// it, so callers can see which transitions were adopted.
type Journal struct {
	mu      sync.RWMutex
	entries []string
}

// NewJournal creates an empty journal.
func NewJournal() *Journal {
	return &Journal{}
}

// Record appends a formatted entry.
func (j *Journal) Record(format string, args ...any) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, fmt.Sprintf(format, args...))
}

// Entries returns a copy of all entries in the order they were recorded.
func (j *Journal) Entries() []string {
	j.mu.RLock()
	defer j.mu.RUnlock()
	out := make([]string, len(j.entries))
	copy(out, j.entries)
	return out
}

// Len returns the number of entries.
func (j *Journal) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.entries)
}

// Reset drops all entries.
func (j *Journal) Reset() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = nil
}
