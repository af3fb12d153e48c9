package polisher

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/leandrojofre/prosepolisher/pkg/polisher/frequency"
	"github.com/leandrojofre/prosepolisher/pkg/polisher/internalerr"
	"github.com/leandrojofre/prosepolisher/pkg/polisher/leaderboard"
	"github.com/leandrojofre/prosepolisher/pkg/polisher/mining"
	"github.com/leandrojofre/prosepolisher/pkg/polisher/store"
)

// Checkpoint saves records, candidates, counters and the latest snapshot.
func (e *Engine) Checkpoint(ctx context.Context, st store.Store) error {
	recs := e.freq.Records()
	cp := store.Checkpoint{
		State: store.State{
			MessageCount: e.count,
			LastMined:    e.lastMined,
			Mined:        e.mined,
			SavedAt:      time.Now().UTC(),
		},
		Records:    make([]store.Record, len(recs)),
		Candidates: e.freq.Candidates(),
	}
	for i, r := range recs {
		cp.Records[i] = store.Record{
			Key:           r.Key,
			Original:      r.Original,
			Context:       r.Context,
			Count:         r.Count,
			Score:         r.Score,
			LastSeen:      r.LastSeen,
			DecayedCycles: r.DecayedCycles,
		}
	}
	if e.mined && e.snapshot.ID != "" {
		snap := encodeSnapshot(e.snapshot)
		cp.Snapshot = &snap
		cp.State.SnapshotID = snap.ID
	}

	if err := st.Save(ctx, cp); err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	e.logger.Debug("checkpoint saved", zap.Int("records", len(cp.Records)), zap.Int("messages", e.count))
	return nil
}

// Restore replaces the engine state with the last checkpoint in st. It
// returns an error wrapping ErrNotFound when nothing was saved.
func (e *Engine) Restore(ctx context.Context, st store.Store) error {
	cp, ok, err := st.Load(ctx)
	if err != nil {
		return fmt.Errorf("load checkpoint: %w", err)
	}
	if !ok {
		return fmt.Errorf("load checkpoint: %w", internalerr.ErrNotFound)
	}

	var snap leaderboard.Snapshot
	if cp.Snapshot != nil && cp.State.Mined {
		snap, err = decodeSnapshot(*cp.Snapshot)
		if err != nil {
			return fmt.Errorf("decode snapshot %s: %w", cp.Snapshot.ID, err)
		}
	}

	recs := make([]frequency.Record, len(cp.Records))
	for i, r := range cp.Records {
		recs[i] = frequency.Record{
			Key:           r.Key,
			Count:         r.Count,
			Score:         r.Score,
			LastSeen:      r.LastSeen,
			Original:      r.Original,
			Context:       r.Context,
			DecayedCycles: r.DecayedCycles,
		}
	}
	e.freq.Load(recs, cp.Candidates)
	e.snapshot = snap
	e.count = cp.State.MessageCount
	e.lastMined = cp.State.LastMined
	e.mined = cp.State.Mined

	e.logger.Info("checkpoint restored",
		zap.Int("records", len(recs)),
		zap.Int("messages", e.count),
		zap.String("snapshot", snap.ID))
	return nil
}

func encodeSnapshot(snap leaderboard.Snapshot) store.Snapshot {
	out := store.Snapshot{
		ID:           snap.ID,
		MessageCount: snap.MessageCount,
		CreatedAt:    snap.CreatedAt,
		Candidates:   snap.Candidates,
		Merged:       make([]store.Pattern, len(snap.Merged)),
		Remaining:    make([]store.Phrase, len(snap.Remaining)),
	}
	for i, p := range snap.Merged {
		out.Merged[i] = store.Pattern{Encoded: p.String(), Score: p.Score}
	}
	for i, p := range snap.Remaining {
		out.Remaining[i] = store.Phrase{Text: p.Text, Score: p.Score}
	}
	return out
}

func decodeSnapshot(snap store.Snapshot) (leaderboard.Snapshot, error) {
	out := leaderboard.Snapshot{
		ID:           snap.ID,
		MessageCount: snap.MessageCount,
		CreatedAt:    snap.CreatedAt,
		Candidates:   snap.Candidates,
	}
	for _, sp := range snap.Merged {
		p, err := mining.ParsePattern(sp.Encoded)
		if err != nil {
			return leaderboard.Snapshot{}, err
		}
		p.Score = sp.Score
		out.Merged = append(out.Merged, p)
	}
	for _, sp := range snap.Remaining {
		out.Remaining = append(out.Remaining, mining.Phrase{Text: sp.Text, Score: sp.Score})
	}
	return out, nil
}
