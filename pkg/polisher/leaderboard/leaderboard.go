package leaderboard

import (
	"crypto/rand"
	"sort"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/leandrojofre/prosepolisher/pkg/polisher/config"
	"github.com/leandrojofre/prosepolisher/pkg/polisher/frequency"
	"github.com/leandrojofre/prosepolisher/pkg/polisher/mining"
)

const (
	// CandidateLimit caps how many records feed one mining pass.
	CandidateLimit = 2000

	// MinCandidateScore is exclusive: records must score above it.
	MinCandidateScore = 1.0

	// StandaloneMultiplier scales the slop threshold for phrases that joined
	// no pattern.
	StandaloneMultiplier = 3.0
)

// Snapshot is the result of one mining pass. It is replaced as a whole.
type Snapshot struct {
	ID           string
	MessageCount int
	CreatedAt    time.Time
	Candidates   int // records that fed the pass
	Merged       []mining.Pattern
	Remaining    []mining.Phrase
}

// Empty reports whether the snapshot holds no entries.
func (s Snapshot) Empty() bool {
	return len(s.Merged) == 0 && len(s.Remaining) == 0
}

// Builder constructs leaderboard snapshots
type Builder struct {
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

// New creates a new snapshot builder
func New() *Builder {
	return &Builder{
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}
}

// Build mines the strongest records into a snapshot. Records at or below
// MinCandidateScore are ignored; at most CandidateLimit of the rest are used,
// highest score first. Records sharing a literal phrase are summed.
func (b *Builder) Build(records []frequency.Record, messageCount int, cfg config.Resolved) Snapshot {
	now := b.now()
	snap := Snapshot{
		ID:           ulid.MustNew(ulid.Timestamp(now), b.entropy).String(),
		MessageCount: messageCount,
		CreatedAt:    now,
	}

	top := selectCandidates(records)
	snap.Candidates = len(top)
	if len(top) == 0 {
		return snap
	}

	scores := make(map[string]float64, len(top))
	for _, r := range top {
		scores[r.Original] += r.Score
	}

	res := mining.Mine(scores, mining.Options{
		MinCommon:         cfg.PatternMinCommon,
		IncludeStandalone: cfg.IncludeStandalone,
		StandaloneMin:     cfg.SlopThreshold * StandaloneMultiplier,
	})

	snap.Merged = res.Patterns
	sort.SliceStable(snap.Merged, func(i, j int) bool {
		if snap.Merged[i].Score != snap.Merged[j].Score {
			return snap.Merged[i].Score > snap.Merged[j].Score
		}
		return snap.Merged[i].String() < snap.Merged[j].String()
	})
	snap.Remaining = res.Remaining
	sort.SliceStable(snap.Remaining, func(i, j int) bool {
		if snap.Remaining[i].Score != snap.Remaining[j].Score {
			return snap.Remaining[i].Score > snap.Remaining[j].Score
		}
		return snap.Remaining[i].Text < snap.Remaining[j].Text
	})
	return snap
}

func selectCandidates(records []frequency.Record) []frequency.Record {
	var out []frequency.Record
	for _, r := range records {
		if r.Score > MinCandidateScore {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Key < out[j].Key
	})
	if len(out) > CandidateLimit {
		out = out[:CandidateLimit]
	}
	return out
}
