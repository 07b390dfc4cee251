package graph

import "sync/atomic"

// Store holds the current snapshot pointer. Publish is a single atomic swap:
// in-flight queries keep reading the snapshot they started with, new queries
// see the new one.
type Store struct {
	cur atomic.Pointer[Snapshot]
}

func NewStore() *Store {
	return &Store{}
}

// Publish makes the snapshot the current one.
func (s *Store) Publish(snap *Snapshot) {
	s.cur.Store(snap)
}

// Current returns the current snapshot, or nil before the first publish.
func (s *Store) Current() *Snapshot {
	return s.cur.Load()
}
