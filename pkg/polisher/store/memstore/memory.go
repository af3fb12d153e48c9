package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/leandrojofre/prosepolisher/pkg/polisher/store"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu         sync.RWMutex
	saved      bool
	state      store.State
	records    []store.Record
	candidates []string
	snapshots  map[string]store.Snapshot
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{snapshots: make(map[string]store.Snapshot)}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// Save implements store.Store.
func (s *Store) Save(ctx context.Context, cp store.Checkpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.saved = true
	s.state = cp.State
	s.records = append([]store.Record(nil), cp.Records...)
	s.candidates = append([]string(nil), cp.Candidates...)
	if cp.Snapshot != nil {
		s.snapshots[cp.Snapshot.ID] = copySnapshot(*cp.Snapshot)
	}
	return nil
}

// Load implements store.Store.
func (s *Store) Load(ctx context.Context) (store.Checkpoint, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.saved {
		return store.Checkpoint{}, false, nil
	}
	cp := store.Checkpoint{
		State:      s.state,
		Records:    append([]store.Record(nil), s.records...),
		Candidates: append([]string(nil), s.candidates...),
	}
	if snap, ok := s.snapshots[s.state.SnapshotID]; ok {
		snap = copySnapshot(snap)
		cp.Snapshot = &snap
	}
	return cp, true, nil
}

// History implements store.Store.
func (s *Store) History(ctx context.Context, limit int) ([]store.SnapshotInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.sortedIDs()
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	out := make([]store.SnapshotInfo, len(ids))
	for i, id := range ids {
		out[i] = s.snapshots[id].Info()
	}
	return out, nil
}

// Clear implements store.Store.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.saved = false
	s.state = store.State{}
	s.records = nil
	s.candidates = nil
	s.snapshots = make(map[string]store.Snapshot)
	return nil
}

// sortedIDs returns snapshot IDs newest first. IDs are ULIDs, so they sort by
// creation time.
func (s *Store) sortedIDs() []string {
	ids := make([]string, 0, len(s.snapshots))
	for id := range s.snapshots {
		ids = append(ids, id)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(ids)))
	return ids
}

func copySnapshot(snap store.Snapshot) store.Snapshot {
	snap.Merged = append([]store.Pattern(nil), snap.Merged...)
	snap.Remaining = append([]store.Phrase(nil), snap.Remaining...)
	return snap
}
