package store

import (
	"context"
	"time"
)

// Store persists analyzer checkpoints
type Store interface {
	Close() error

	// Save replaces the stored records, candidates and counters and adds the
	// checkpoint's snapshot (if any) to the snapshot history.
	Save(ctx context.Context, cp Checkpoint) error

	// Load returns the last saved checkpoint with the snapshot its state
	// points at. ok is false when nothing was saved yet.
	Load(ctx context.Context) (cp Checkpoint, ok bool, err error)

	// History lists stored snapshots, newest first. A non-positive limit
	// returns all of them.
	History(ctx context.Context, limit int) ([]SnapshotInfo, error)

	// Clear deletes everything.
	Clear(ctx context.Context) error
}

// Checkpoint is the persisted engine state.
type Checkpoint struct {
	State      State
	Records    []Record
	Candidates []string
	Snapshot   *Snapshot
}

// State holds the engine counters.
type State struct {
	MessageCount int
	LastMined    int
	Mined        bool
	// SnapshotID names the current snapshot; empty when there is none.
	SnapshotID string
	SavedAt    time.Time
}

// Record is a stored frequency record.
type Record struct {
	Key           string
	Original      string
	Context       string
	Count         int
	Score         float64
	LastSeen      int
	DecayedCycles int
}

// Snapshot is a stored leaderboard snapshot.
type Snapshot struct {
	ID           string
	MessageCount int
	CreatedAt    time.Time
	Candidates   int
	Merged       []Pattern
	Remaining    []Phrase
}

// Pattern is a stored pattern in its "prefix|v1/v2" form.
type Pattern struct {
	Encoded string  `json:"pattern"`
	Score   float64 `json:"score"`
}

// Phrase is a stored standalone phrase.
type Phrase struct {
	Text  string  `json:"phrase"`
	Score float64 `json:"score"`
}

// SnapshotInfo summarizes a stored snapshot.
type SnapshotInfo struct {
	ID           string
	MessageCount int
	CreatedAt    time.Time
	Patterns     int
	Phrases      int
}

// Info summarizes s.
func (s Snapshot) Info() SnapshotInfo {
	return SnapshotInfo{
		ID:           s.ID,
		MessageCount: s.MessageCount,
		CreatedAt:    s.CreatedAt,
		Patterns:     len(s.Merged),
		Phrases:      len(s.Remaining),
	}
}
