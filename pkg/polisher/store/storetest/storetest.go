// Package storetest holds behaviour checks shared by every store.Store
// implementation.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leandrojofre/prosepolisher/pkg/polisher/store"
)

// Run exercises a fresh store returned by open.
func Run(t *testing.T, open func(t *testing.T) store.Store) {
	t.Run("EmptyLoad", func(t *testing.T) {
		st := open(t)
		_, ok, err := st.Load(context.Background())
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("SaveLoad", func(t *testing.T) {
		ctx := context.Background()
		st := open(t)

		cp := sampleCheckpoint("01HZY0000000000000000000A1", 40)
		require.NoError(t, st.Save(ctx, cp))

		got, ok, err := st.Load(ctx)
		require.NoError(t, err)
		require.True(t, ok)

		assert.Equal(t, cp.State.MessageCount, got.State.MessageCount)
		assert.Equal(t, cp.State.LastMined, got.State.LastMined)
		assert.True(t, got.State.Mined)
		assert.Equal(t, cp.State.SnapshotID, got.State.SnapshotID)
		assert.Equal(t, cp.Records, got.Records)
		assert.Equal(t, cp.Candidates, got.Candidates)

		require.NotNil(t, got.Snapshot)
		assert.Equal(t, cp.Snapshot.ID, got.Snapshot.ID)
		assert.True(t, cp.Snapshot.CreatedAt.Equal(got.Snapshot.CreatedAt))
		assert.Equal(t, cp.Snapshot.Merged, got.Snapshot.Merged)
		assert.Equal(t, cp.Snapshot.Remaining, got.Snapshot.Remaining)
	})

	t.Run("SaveReplacesRecords", func(t *testing.T) {
		ctx := context.Background()
		st := open(t)

		require.NoError(t, st.Save(ctx, sampleCheckpoint("01HZY0000000000000000000A1", 40)))
		require.NoError(t, st.Save(ctx, store.Checkpoint{
			State:   store.State{MessageCount: 3},
			Records: []store.Record{{Key: "velvet night air", Original: "velvet night air", Count: 1, Score: 2.5}},
		}))

		got, ok, err := st.Load(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, 3, got.State.MessageCount)
		assert.Len(t, got.Records, 1)
		assert.Empty(t, got.Candidates)
		assert.Nil(t, got.Snapshot, "a state without a snapshot loads none")

		hist, err := st.History(ctx, 0)
		require.NoError(t, err)
		require.Len(t, hist, 1, "history keeps the older snapshot")
		assert.Equal(t, "01HZY0000000000000000000A1", hist[0].ID)
	})

	t.Run("LoadsNamedSnapshot", func(t *testing.T) {
		ctx := context.Background()
		st := open(t)

		require.NoError(t, st.Save(ctx, sampleCheckpoint("01HZY0000000000000000000B2", 20)))
		// an older snapshot saved later is still the one the state names
		require.NoError(t, st.Save(ctx, sampleCheckpoint("01HZY0000000000000000000A1", 10)))

		got, ok, err := st.Load(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		require.NotNil(t, got.Snapshot)
		assert.Equal(t, "01HZY0000000000000000000A1", got.Snapshot.ID)
		assert.Equal(t, 10, got.Snapshot.MessageCount)
	})

	t.Run("History", func(t *testing.T) {
		ctx := context.Background()
		st := open(t)

		for i, id := range []string{"01HZY0000000000000000000A1", "01HZY0000000000000000000B2", "01HZY0000000000000000000C3"} {
			require.NoError(t, st.Save(ctx, sampleCheckpoint(id, 10*(i+1))))
		}
		// saving the same snapshot twice does not duplicate it
		require.NoError(t, st.Save(ctx, sampleCheckpoint("01HZY0000000000000000000C3", 30)))

		all, err := st.History(ctx, 0)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "01HZY0000000000000000000C3", all[0].ID)
		assert.Equal(t, 30, all[0].MessageCount)
		assert.Equal(t, 1, all[0].Patterns)
		assert.Equal(t, 1, all[0].Phrases)

		latest, err := st.History(ctx, 1)
		require.NoError(t, err)
		require.Len(t, latest, 1)

		cp, _, err := st.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "01HZY0000000000000000000C3", cp.Snapshot.ID)
	})

	t.Run("Clear", func(t *testing.T) {
		ctx := context.Background()
		st := open(t)

		require.NoError(t, st.Save(ctx, sampleCheckpoint("01HZY0000000000000000000A1", 40)))
		require.NoError(t, st.Clear(ctx))

		_, ok, err := st.Load(ctx)
		require.NoError(t, err)
		assert.False(t, ok)

		hist, err := st.History(ctx, 0)
		require.NoError(t, err)
		assert.Empty(t, hist)
	})
}

func sampleCheckpoint(snapshotID string, messages int) store.Checkpoint {
	return store.Checkpoint{
		State: store.State{
			MessageCount: messages,
			LastMined:    messages,
			Mined:        true,
			SnapshotID:   snapshotID,
			SavedAt:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		},
		Records: []store.Record{
			{Key: "a shiver run down her spine", Original: "a shiver ran down her spine", Context: "A shiver ran down her spine.", Count: 3, Score: 9.5, LastSeen: 38, DecayedCycles: 0},
			{Key: "the air grow thick with smoke", Original: "the air grew thick with smoke", Context: "The air grew thick with smoke.", Count: 2, Score: 4.25, LastSeen: 12, DecayedCycles: 2},
		},
		Candidates: []string{"a shiver run down her spine", "the air grow thick with smoke"},
		Snapshot: &store.Snapshot{
			ID:           snapshotID,
			MessageCount: messages,
			CreatedAt:    time.Date(2026, 3, 1, 12, 0, messages, 0, time.UTC),
			Candidates:   2,
			Merged:       []store.Pattern{{Encoded: "the air grew thick with|smoke/tension", Score: 9}},
			Remaining:    []store.Phrase{{Text: "a shiver ran down her spine", Score: 9.5}},
		},
	}
}
