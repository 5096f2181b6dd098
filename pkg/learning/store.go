// Package learning keeps per-session (reading, candidate) commit counts and
// optional host-side persistence for them.
package learning

import (
	"sync"
)

// Counter is the read/increment view the reranker and service need.
type Counter interface {
	// Increment adds one to the pair's count and returns the new value.
	Increment(reading, candidate string) int
	// Count returns the pair's count, or 0 when it was never committed.
	Count(reading, candidate string) int
}

// Key identifies one learned pair.
type Key struct {
	Reading   string
	Candidate string
}

// Store is an in-memory Counter. Increments are serialized so no update is
// lost under concurrent commits. Counts only grow.
type Store struct {
	mu     sync.RWMutex
	counts map[Key]int
}

var _ Counter = (*Store)(nil)

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{counts: make(map[Key]int)}
}

// Increment adds one to the pair. Empty readings or candidates are ignored
// and report 0.
func (s *Store) Increment(reading, candidate string) int {
	if reading == "" || candidate == "" {
		return 0
	}
	k := Key{reading, candidate}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[k]++
	return s.counts[k]
}

func (s *Store) Count(reading, candidate string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counts[Key{reading, candidate}]
}

// Len returns the number of learned pairs.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.counts)
}

// Snapshot copies the current counts.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := make(Snapshot, 0, len(s.counts))
	for k, v := range s.counts {
		snap = append(snap, Entry{Reading: k.Reading, Candidate: k.Candidate, Count: v})
	}
	snap.sort()
	return snap
}

// Restore raises each listed pair to at least the snapshot's count.
// Counts are never lowered, so restoring cannot undo a commit.
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range snap {
		if e.Reading == "" || e.Candidate == "" || e.Count <= 0 {
			continue
		}
		k := Key{e.Reading, e.Candidate}
		if e.Count > s.counts[k] {
			s.counts[k] = e.Count
		}
	}
}
