package polisher

import (
	"fmt"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/leandrojofre/prosepolisher/pkg/polisher/config"
	"github.com/leandrojofre/prosepolisher/pkg/polisher/decay"
	"github.com/leandrojofre/prosepolisher/pkg/polisher/frequency"
	"github.com/leandrojofre/prosepolisher/pkg/polisher/ingest"
	"github.com/leandrojofre/prosepolisher/pkg/polisher/internalerr"
	"github.com/leandrojofre/prosepolisher/pkg/polisher/leaderboard"
	"github.com/leandrojofre/prosepolisher/pkg/polisher/report"
)

const (
	// BulkBatchSize is the number of messages re-ingested between yields.
	BulkBatchSize = 10

	// MinMessagesBetweenPasses is how many new messages a mining pass needs
	// after the previous one.
	MinMessagesBetweenPasses = 5
)

const (
	idle int32 = iota
	running
)

// Engine is the phrase analyzer facade. It owns the frequency store, the
// candidate set and the latest leaderboard snapshot.
//
// The engine is single-writer: callers use it from one goroutine at a time.
// Bulk analysis and report refreshes carry their own reentrancy guards.
type Engine struct {
	comp     *config.Components
	cfg      config.Resolved
	pipeline *ingest.Pipeline
	freq     *frequency.Store
	builder  *leaderboard.Builder

	snapshot  leaderboard.Snapshot
	count     int
	lastMined int
	mined     bool

	bulk      atomic.Int32
	refresher *report.Refresher
	logger    *zap.Logger
}

// Options configures an Engine
type Options struct {
	// Config is resolved with config.Build when Components is nil.
	Config     config.Config
	Components *config.Components

	// Publisher receives the slop list after mining passes and bulk runs.
	// Nil disables publishing.
	Publisher report.Publisher

	Logger *zap.Logger
}

// New creates an Engine with the given dependencies
func New(opts Options) (*Engine, error) {
	comp := opts.Components
	if comp == nil {
		var err error
		comp, err = config.Build(opts.Config)
		if err != nil {
			return nil, err
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	e := &Engine{
		freq:    frequency.NewStore(),
		builder: leaderboard.New(),
		logger:  logger,
	}
	e.apply(comp)

	if opts.Publisher != nil {
		e.refresher = report.NewRefresher(e.GetSlopList, opts.Publisher, e.cfg.RefreshInterval, logger.Named("report"))
	}
	return e, nil
}

func (e *Engine) apply(comp *config.Components) {
	e.comp = comp
	e.cfg = comp.Resolved
	e.pipeline = ingest.NewPipeline(comp.Tokenizer)
}

// SetConfig replaces the configuration. Accumulated records are kept; new
// settings apply from the next operation on.
func (e *Engine) SetConfig(cfg config.Config) error {
	comp, err := config.Build(cfg)
	if err != nil {
		return err
	}
	e.apply(comp)
	if e.refresher != nil {
		e.refresher.SetInterval(e.cfg.RefreshInterval)
	}
	e.logger.Info("configuration updated",
		zap.Int("ngram_max", e.cfg.NgramMax),
		zap.Float64("slop_threshold", e.cfg.SlopThreshold),
		zap.Float64("decay_rate", e.cfg.DecayRate),
		zap.Int("decay_interval", e.cfg.DecayInterval),
		zap.Int("pattern_min_common", e.cfg.PatternMinCommon))
	return nil
}

// Config returns the resolved configuration in effect.
func (e *Engine) Config() config.Resolved { return e.cfg }

// Observation summarizes one ingested message.
type Observation struct {
	Ordinal   int
	Sentences int
	Windows   int
	Rejected  int
	Promoted  []string
}

// Ingest scores every sentence of one generated message and advances the
// message counter. Blank text is ignored and does not advance the counter.
func (e *Engine) Ingest(text string) Observation {
	if strings.TrimSpace(text) == "" {
		return Observation{Ordinal: -1}
	}

	obs := Observation{Ordinal: e.count}
	msg := e.pipeline.Process(text)
	for _, sent := range msg.Sentences {
		stats := e.freq.ObserveSentence(sent, obs.Ordinal, e.comp.Filter, e.cfg)
		obs.Sentences++
		obs.Windows += stats.Windows
		obs.Rejected += stats.Rejected
		obs.Promoted = append(obs.Promoted, stats.Promoted...)
	}
	e.count++

	for _, key := range obs.Promoted {
		e.logger.Debug("phrase promoted", zap.String("key", key), zap.Int("message", obs.Ordinal))
	}
	return obs
}

// Observe ingests a message the way a live host does: decay every
// DecayEvery messages, a mining pass every AnalysisInterval messages, then a
// throttled report refresh.
func (e *Engine) Observe(text string) Observation {
	obs := e.Ingest(text)
	if obs.Ordinal < 0 {
		return obs
	}

	if e.count%e.cfg.DecayEvery == 0 {
		e.RunDecay()
	}
	if e.count%e.cfg.AnalysisInterval == 0 {
		e.RunMiningPass()
	}
	if e.refresher != nil {
		e.refresher.Refresh()
	}
	return obs
}

// RunDecay discounts every record by the decay cycles it has not yet been
// charged for. It returns the number of records touched.
func (e *Engine) RunDecay() int {
	n := e.freq.Decay(e.count, decay.Config{Rate: e.cfg.DecayRate, Interval: e.cfg.DecayInterval})
	if n > 0 {
		e.logger.Info("decayed phrase scores",
			zap.Int("records", n),
			zap.Float64("rate", e.cfg.DecayRate),
			zap.Int("interval", e.cfg.DecayInterval))
	}
	return n
}

// Prune drops weak one-off records. It returns the number removed.
func (e *Engine) Prune() int {
	n := e.freq.Prune()
	if n > 0 {
		e.logger.Info("pruned weak phrases", zap.Int("records", n))
	}
	return n
}

// RunMiningPass rebuilds the leaderboard snapshot from the frequency store.
// It reports false when the pass was skipped because too few messages
// arrived since the previous one, or when the pass failed.
func (e *Engine) RunMiningPass() bool {
	since := e.count - e.lastMined
	if since < 0 {
		e.lastMined = 0
		since = e.count
	}
	if e.freq.Len() > 0 && e.mined && since < MinMessagesBetweenPasses {
		e.logger.Info("skipping mining pass",
			zap.Int("new_messages", since),
			zap.Int("last_pass", e.lastMined))
		return false
	}

	snap, err := e.build()
	if err != nil {
		e.logger.Error("mining pass failed", zap.Error(err))
		return false
	}

	e.snapshot = snap
	e.lastMined = e.count
	e.mined = true
	e.logger.Info("mining pass complete",
		zap.String("snapshot", snap.ID),
		zap.Int("candidates", snap.Candidates),
		zap.Int("patterns", len(snap.Merged)),
		zap.Int("phrases", len(snap.Remaining)))
	return true
}

func (e *Engine) build() (snap leaderboard.Snapshot, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", internalerr.ErrAnalysisFailed, p)
		}
	}()
	return e.builder.Build(e.freq.Records(), e.count, e.cfg), nil
}

// GetSlopList returns the external list built from the current snapshot,
// mining first when no pass has produced anything yet.
func (e *Engine) GetSlopList() []leaderboard.SlopItem {
	if e.snapshot.Empty() {
		if e.freq.Len() == 0 {
			return []leaderboard.SlopItem{}
		}
		e.RunMiningPass()
	}
	return leaderboard.SlopList(e.snapshot, e.cfg.SlopThreshold)
}

// GetRawLeaderboard dumps every record with a positive score, highest first.
func (e *Engine) GetRawLeaderboard() []leaderboard.RawEntry {
	return e.freq.Raw()
}

// Snapshot returns the latest mining result.
func (e *Engine) Snapshot() leaderboard.Snapshot { return e.snapshot }

// Candidates returns the keys promoted past the slop threshold.
func (e *Engine) Candidates() []string { return e.freq.Candidates() }

// MessageCount is the number of messages ingested since the last clear.
func (e *Engine) MessageCount() int { return e.count }

// Records returns every frequency record ordered by key.
func (e *Engine) Records() []frequency.Record { return e.freq.Records() }

// ClearAll forgets every record, candidate and snapshot and resets the
// counters.
func (e *Engine) ClearAll() {
	e.freq.Clear()
	e.snapshot = leaderboard.Snapshot{}
	e.count = 0
	e.lastMined = 0
	e.mined = false
}

// Refresh forces a report publication. It is a no-op without a publisher.
func (e *Engine) Refresh() bool {
	if e.refresher == nil {
		return false
	}
	return e.refresher.Force()
}
