package polisher

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/leandrojofre/prosepolisher/pkg/polisher/internalerr"
)

// Message is one entry of a chat history.
type Message struct {
	Text string
	// FromUser marks messages written by the human; they are never scored.
	FromUser bool
}

// BulkResult summarizes a bulk analysis.
type BulkResult struct {
	Considered int // messages left after the limit
	Analyzed   int
	Skipped    int
	Pruned     int
	Decayed    int
	Mined      bool
	Duration   time.Duration
}

// BulkAnalyze rebuilds all state from a chat history. Only the last limit
// messages are used when limit > 0. A history without generated messages
// just clears the engine.
//
// A second call while one is in progress returns ErrAnalysisRunning without
// touching state. A panic during the run is recovered and reported as
// ErrAnalysisFailed; whatever was ingested before it is kept.
func (e *Engine) BulkAnalyze(ctx context.Context, messages []Message, limit int) (res BulkResult, err error) {
	if err := ctx.Err(); err != nil {
		return res, err
	}
	if !e.bulk.CompareAndSwap(idle, running) {
		return res, internalerr.ErrAnalysisRunning
	}
	defer e.bulk.Store(idle)

	defer func() {
		if p := recover(); p != nil {
			e.logger.Error("bulk analysis failed", zap.Any("panic", p), zap.Int("analyzed", res.Analyzed))
			err = fmt.Errorf("%w: %v", internalerr.ErrAnalysisFailed, p)
		}
	}()

	start := time.Now()

	if countGenerated(messages) == 0 {
		e.logger.Info("no generated messages to analyze, clearing state")
		e.ClearAll()
		e.Refresh()
		return res, nil
	}

	e.ClearAll()

	if limit > 0 && len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}
	res.Considered = len(messages)

	e.logger.Info("bulk analysis started",
		zap.Int("messages", len(messages)),
		zap.Int("limit", limit),
		zap.Int("ngram_max", e.cfg.NgramMax),
		zap.Float64("slop_threshold", e.cfg.SlopThreshold))

	for i := 0; i < len(messages); i += BulkBatchSize {
		end := min(i+BulkBatchSize, len(messages))
		for _, m := range messages[i:end] {
			if m.FromUser || m.Text == "" {
				res.Skipped++
				continue
			}
			if e.Ingest(m.Text).Ordinal < 0 {
				res.Skipped++
				continue
			}
			res.Analyzed++
		}
		if end < len(messages) {
			runtime.Gosched()
		}
	}

	if e.cfg.PruneDuringBulk {
		res.Pruned = e.Prune()
	}
	res.Decayed = e.RunDecay()
	res.Mined = e.RunMiningPass()
	e.Refresh()

	res.Duration = time.Since(start)
	e.logger.Info("bulk analysis complete",
		zap.Int("analyzed", res.Analyzed),
		zap.Int("skipped", res.Skipped),
		zap.Int("records", e.freq.Len()),
		zap.Duration("took", res.Duration))
	return res, nil
}

func countGenerated(messages []Message) int {
	n := 0
	for _, m := range messages {
		if !m.FromUser && m.Text != "" {
			n++
		}
	}
	return n
}
