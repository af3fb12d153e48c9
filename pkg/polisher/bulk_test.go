package polisher

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/leandrojofre/prosepolisher/pkg/polisher/config"
	"github.com/leandrojofre/prosepolisher/pkg/polisher/internalerr"
	"github.com/leandrojofre/prosepolisher/pkg/polisher/leaderboard"
	"github.com/leandrojofre/prosepolisher/pkg/polisher/report"
)

func history() []Message {
	return []Message{
		{Text: "Tell me what happened at the ball.", FromUser: true},
		{Text: stormed},
		{Text: ""},
		{Text: "And then?", FromUser: true},
		{Text: wandered},
	}
}

func TestBulkAnalyze(t *testing.T) {
	var published [][]leaderboard.SlopItem
	pub := report.PublisherFunc(func(items []leaderboard.SlopItem) error {
		published = append(published, items)
		return nil
	})
	e, err := New(Options{Config: config.Default(), Publisher: pub})
	require.NoError(t, err)

	// stale state is replaced
	e.Ingest("The velvet night air hung heavy.")

	res, err := e.BulkAnalyze(context.Background(), history(), -1)
	require.NoError(t, err)

	assert.Equal(t, 5, res.Considered)
	assert.Equal(t, 2, res.Analyzed)
	assert.Equal(t, 3, res.Skipped)
	assert.True(t, res.Mined)
	assert.Equal(t, 2, e.MessageCount())

	for _, entry := range e.GetRawLeaderboard() {
		assert.NotContains(t, entry.Phrase, "velvet")
		assert.NotContains(t, entry.Phrase, "ball.")
	}

	require.Len(t, published, 1)
	require.Len(t, published[0], 1)
	assert.Equal(t, "he suddenly turned and", published[0][0].Template)
}

func TestBulkAnalyzeMatchesIngest(t *testing.T) {
	bulk := newEngine(t, config.Default())
	_, err := bulk.BulkAnalyze(context.Background(), history(), 0)
	require.NoError(t, err)

	online := newEngine(t, config.Default())
	online.Ingest(stormed)
	online.Ingest(wandered)
	online.RunDecay()

	assert.Equal(t, online.Records(), bulk.Records())
	assert.Equal(t, online.GetSlopList(), bulk.GetSlopList())
}

func TestBulkAnalyzeLimit(t *testing.T) {
	e := newEngine(t, config.Default())

	res, err := e.BulkAnalyze(context.Background(), history(), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Considered)
	assert.Equal(t, 1, res.Analyzed)
	assert.Equal(t, 1, e.MessageCount())

	for _, entry := range e.GetRawLeaderboard() {
		assert.NotContains(t, entry.Phrase, "stormed")
	}
}

func TestBulkAnalyzeNoGeneratedMessages(t *testing.T) {
	e := newEngine(t, config.Default())
	e.Ingest(stormed)
	e.Ingest(wandered)
	e.RunMiningPass()

	res, err := e.BulkAnalyze(context.Background(), []Message{
		{Text: "hello", FromUser: true},
		{Text: ""},
	}, -1)
	require.NoError(t, err)

	assert.Zero(t, res.Analyzed)
	assert.Zero(t, e.MessageCount())
	assert.Empty(t, e.GetRawLeaderboard())
	assert.True(t, e.Snapshot().Empty())
}

func TestBulkAnalyzePrune(t *testing.T) {
	cfg := config.Default()
	cfg.PruneDuringBulk = true
	e := newEngine(t, cfg)

	res, err := e.BulkAnalyze(context.Background(), history(), -1)
	require.NoError(t, err)

	// the six one-off trigrams with a single uncommon word score 1.875
	assert.Equal(t, 6, res.Pruned)
	for _, r := range e.Records() {
		assert.True(t, r.Score >= 2 || r.Count >= 2, "weak record %q survived", r.Key)
	}
	_, ok := findRecord(e, "stormed across the")
	assert.False(t, ok)
	_, ok = findRecord(e, "he suddenly turn")
	assert.True(t, ok)
}

func findRecord(e *Engine, key string) (float64, bool) {
	for _, r := range e.Records() {
		if r.Key == key {
			return r.Score, true
		}
	}
	return 0, false
}

func TestBulkAnalyzeRejectsReentry(t *testing.T) {
	ctx := context.Background()
	var (
		e      *Engine
		nested error
		calls  int
	)
	pub := report.PublisherFunc(func(items []leaderboard.SlopItem) error {
		calls++
		if calls == 1 {
			_, nested = e.BulkAnalyze(ctx, []Message{{Text: "Something else entirely happened tonight."}}, -1)
		}
		return nil
	})

	var err error
	e, err = New(Options{Config: config.Default(), Publisher: pub})
	require.NoError(t, err)

	_, err = e.BulkAnalyze(ctx, history(), -1)
	require.NoError(t, err)
	assert.True(t, errors.Is(nested, internalerr.ErrAnalysisRunning))

	// the rejected run left the first run's state alone
	assert.Equal(t, 2, e.MessageCount())
	items := e.GetSlopList()
	require.Len(t, items, 1)
	assert.Equal(t, "he suddenly turned and", items[0].Template)

	// the guard is released afterwards
	_, err = e.BulkAnalyze(ctx, history(), -1)
	assert.NoError(t, err)
}

func TestBulkAnalyzeRecoversPanic(t *testing.T) {
	ctx := context.Background()
	exploded := false
	logger := zap.New(observerCore(), zap.Hooks(func(entry zapcore.Entry) error {
		if entry.Message == "bulk analysis complete" && !exploded {
			exploded = true
			panic("log sink exploded")
		}
		return nil
	}))
	e, err := New(Options{Config: config.Default(), Logger: logger})
	require.NoError(t, err)

	_, err = e.BulkAnalyze(ctx, history(), -1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, internalerr.ErrAnalysisFailed))

	// partial work is kept
	assert.Equal(t, 2, e.MessageCount())
	assert.NotEmpty(t, e.GetRawLeaderboard())

	_, err = e.BulkAnalyze(ctx, history(), -1)
	assert.NoError(t, err)
}

func TestBulkAnalyzePublisherPanic(t *testing.T) {
	var published [][]leaderboard.SlopItem
	pub := report.PublisherFunc(func(items []leaderboard.SlopItem) error {
		published = append(published, items)
		if len(published) == 1 {
			panic("publisher exploded")
		}
		return nil
	})
	e, err := New(Options{Config: config.Default(), Publisher: pub})
	require.NoError(t, err)

	res, err := e.BulkAnalyze(context.Background(), history(), -1)
	require.NoError(t, err)
	assert.True(t, res.Mined)

	// the consumer gets an empty list; the engine keeps its result
	require.Len(t, published, 2)
	assert.Empty(t, published[1])
	require.Len(t, e.GetSlopList(), 1)
}

func TestBulkAnalyzeCancelledContext(t *testing.T) {
	e := newEngine(t, config.Default())
	e.Ingest(stormed)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.BulkAnalyze(ctx, history(), -1)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 1, e.MessageCount())
}

func observerCore() zapcore.Core {
	core, _ := observer.New(zapcore.InfoLevel)
	return core
}

func TestCountGenerated(t *testing.T) {
	assert.Equal(t, 2, countGenerated(history()))
	assert.Zero(t, countGenerated(nil))
}
