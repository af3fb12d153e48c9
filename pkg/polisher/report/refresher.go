package report

import (
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/leandrojofre/prosepolisher/pkg/polisher/leaderboard"
)

const (
	idle int32 = iota
	running
)

// Source produces the current slop list.
type Source func() []leaderboard.SlopItem

// Refresher pushes the slop list to a Publisher. Automatic refreshes are
// throttled; a refresh requested while one is in progress is dropped.
type Refresher struct {
	source  Source
	pub     Publisher
	limiter *rate.Limiter
	logger  *zap.Logger
	state   atomic.Int32
}

// NewRefresher creates a refresher publishing at most once per interval
// through Refresh. A non-positive interval disables throttling.
func NewRefresher(source Source, pub Publisher, interval time.Duration, logger *zap.Logger) *Refresher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Refresher{
		source:  source,
		pub:     pub,
		limiter: rate.NewLimiter(limitFor(interval), 1),
		logger:  logger,
	}
}

// SetInterval changes the throttle.
func (r *Refresher) SetInterval(interval time.Duration) {
	r.limiter.SetLimit(limitFor(interval))
}

// Refresh publishes unless the throttle or an in-flight refresh says
// otherwise. It reports whether a publish happened.
func (r *Refresher) Refresh() bool {
	if !r.limiter.Allow() {
		return false
	}
	return r.run()
}

// Force publishes regardless of the throttle. It still yields to an
// in-flight refresh.
func (r *Refresher) Force() bool {
	return r.run()
}

// Running reports whether a refresh is in progress.
func (r *Refresher) Running() bool {
	return r.state.Load() == running
}

func (r *Refresher) run() bool {
	if !r.state.CompareAndSwap(idle, running) {
		r.logger.Debug("refresh already in progress, dropped")
		return false
	}
	defer r.state.Store(idle)

	items, err := r.collect()
	if err == nil {
		err = r.publish(items)
	}
	if err != nil {
		r.logger.Error("publish slop list failed, publishing empty list", zap.Error(err))
		if err := r.publish([]leaderboard.SlopItem{}); err != nil {
			r.logger.Error("publish empty slop list failed", zap.Error(err))
		}
		return true
	}

	r.logger.Debug("slop list published", zap.Int("items", len(items)))
	return true
}

func (r *Refresher) collect() (items []leaderboard.SlopItem, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("build slop list: %v", p)
		}
	}()
	return r.source(), nil
}

func (r *Refresher) publish(items []leaderboard.SlopItem) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("publisher panicked: %v", p)
		}
	}()
	return r.pub.Publish(items)
}

func limitFor(interval time.Duration) rate.Limit {
	if interval <= 0 {
		return rate.Inf
	}
	return rate.Every(interval)
}
